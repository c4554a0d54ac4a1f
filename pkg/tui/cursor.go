package tui

// Column within a cell
type Column int

const (
	ColNote Column = iota
	ColInstrument
	ColVolume
	ColEffect
	ColEffectParam
)

// Move is a cursor navigation command
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MovePageUp
	MovePageDown
	MoveHome
	MoveEnd
	MoveLeft
	MoveRight
)

// DefaultPageStep is the number of rows a page move jumps
const DefaultPageStep = 16

// Cursor is a position inside the pattern grid
type Cursor struct {
	Row     int
	Channel int
	Col     Column
}

// Move applies cmd within a rows×channels grid. The position is clamped
// into the grid first. Left and right walk the cell fields and continue
// into the neighbouring channel; they stop at the grid edges.
func (c *Cursor) Move(cmd Move, rows, channels, pageStep int) {
	if pageStep < 1 {
		pageStep = DefaultPageStep
	}
	lastRow := max(0, rows-1)
	lastCh := max(0, channels-1)
	c.Row = min(max(0, c.Row), lastRow)
	c.Channel = min(max(0, c.Channel), lastCh)

	switch cmd {
	case MoveUp:
		c.Row = max(0, c.Row-1)
	case MoveDown:
		c.Row = min(lastRow, c.Row+1)
	case MovePageUp:
		c.Row = max(0, c.Row-pageStep)
	case MovePageDown:
		c.Row = min(lastRow, c.Row+pageStep)
	case MoveHome:
		c.Row = 0
	case MoveEnd:
		c.Row = lastRow
	case MoveLeft:
		if c.Col > ColNote {
			c.Col--
		} else if c.Channel > 0 {
			c.Channel--
			c.Col = ColEffectParam
		}
	case MoveRight:
		if c.Col < ColEffectParam {
			c.Col++
		} else if c.Channel < lastCh {
			c.Channel++
			c.Col = ColNote
		}
	}
}
