package format

import (
	"fmt"

	"github.com/oisee/modscope/pkg/tracker"
)

// Packed cell control byte. With xmPacked set, the low five bits select
// which fields follow, in this order.
const (
	xmPacked     = 0x80
	xmHasNote    = 0x01
	xmHasInstr   = 0x02
	xmHasVolume  = 0x04
	xmHasEffect  = 0x08
	xmHasParam   = 0x10
	xmCellFields = 5
)

var xmFieldBits = [xmCellFields]uint8{xmHasNote, xmHasInstr, xmHasVolume, xmHasEffect, xmHasParam}

// DecodePattern decodes an XM packed event stream into a rows×channels
// grid. It returns the grid and the number of bytes consumed. An empty
// stream is the XM encoding of an all-empty pattern. A stream that ends
// before every cell is decoded yields a Truncated error; bytes left after
// the last cell are not an error and are reported through the count.
func DecodePattern(index, rows, channels int, packed []byte) (*tracker.Pattern, int, error) {
	if rows < 1 || rows > tracker.MaxRows {
		return nil, 0, invalidData("pattern %d: row count %d out of range", index, rows)
	}
	if channels < 0 || channels > tracker.MaxChannels {
		return nil, 0, invalidData("pattern %d: channel count %d out of range", index, channels)
	}

	pat := tracker.NewPattern(index, rows, channels)
	if len(packed) == 0 {
		return pat, 0, nil
	}

	c := newCursor(packed)
	for row := 0; row < rows; row++ {
		for ch := 0; ch < channels; ch++ {
			note, err := readXMCell(c)
			if err != nil {
				return nil, c.Pos(), asTruncated(err,
					fmt.Sprintf("pattern %d: packed data ends at row %d channel %d", index, row, ch))
			}
			pat.Notes[row][ch] = note
		}
	}
	return pat, c.Pos(), nil
}

// readXMCell reads one cell at the cursor position. The cursor is left
// after the last byte the cell consumed.
func readXMCell(c *cursor) (tracker.Note, error) {
	ctrl, err := c.ReadU8()
	if err != nil {
		return tracker.Note{}, err
	}

	var f [xmCellFields]uint8
	if ctrl&xmPacked == 0 {
		f[0] = ctrl
		for i := 1; i < xmCellFields; i++ {
			if f[i], err = c.ReadU8(); err != nil {
				return tracker.Note{}, err
			}
		}
	} else {
		for i := 0; i < xmCellFields; i++ {
			if ctrl&xmFieldBits[i] == 0 {
				continue
			}
			if f[i], err = c.ReadU8(); err != nil {
				return tracker.Note{}, err
			}
		}
	}

	return tracker.Note{
		Pitch:      f[0],
		Instrument: f[1],
		Volume:     f[2],
		Effect:     tracker.Effect{Type: f[3], Param: f[4]},
	}, nil
}
