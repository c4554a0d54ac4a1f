package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/oisee/modscope/pkg/tracker"
)

const (
	labelWidth = 18
	cellWidth  = 13 // "C-4 01 40 F06"
	orderWrap  = 16
)

type palette struct {
	path, label, warn, err, beat, row, note, empty, unused *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		path:   mk(color.Bold),
		label:  mk(color.FgCyan),
		warn:   mk(color.FgYellow, color.Bold),
		err:    mk(color.FgRed, color.Bold),
		beat:   mk(color.FgHiCyan),
		row:    mk(color.FgHiBlack),
		note:   mk(color.FgHiWhite),
		empty:  mk(color.FgHiBlack),
		unused: mk(color.FgHiBlack, color.Italic),
	}
}

// fit truncates value to width terminal cells
func fit(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

// TypeLine describes the format, version and origin of a module
func TypeLine(info tracker.ModuleInfo) string {
	switch info.Kind {
	case tracker.KindXM:
		s := fmt.Sprintf("XM %d.%02d", info.VersionMajor, info.VersionMinor)
		if info.Tracker != "" {
			s += " (" + info.Tracker + ")"
		}
		return s
	case tracker.KindMOD:
		return fmt.Sprintf("MOD (%q)", info.Signature)
	default:
		return info.Type
	}
}

func writeInfoText(w io.Writer, results []FileResult, opts Options) error {
	p := newPalette(opts.Color)
	valueWidth := 0
	if opts.Width > 0 {
		valueWidth = max(8, opts.Width-labelWidth-2)
	}

	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "  %s%s\n", p.label.Sprint(runewidth.FillRight(label+":", labelWidth)), fit(value, valueWidth))
	}

	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.path.Sprint(r.Path))
		b.WriteString("\n")

		info := r.Info
		if !info.OK {
			fmt.Fprintf(&b, "  %s %s\n", p.err.Sprint("error:"), info.Error)
			continue
		}

		field("Type", TypeLine(info))
		field("Title", info.Title)
		field("Channels", fmt.Sprint(info.Channels))
		field("Patterns", fmt.Sprint(info.Patterns))
		field("Instruments", fmt.Sprint(info.Instruments))
		field("Song length", fmt.Sprintf("%d (restart %d)", info.SongLength, info.RestartPosition))
		if info.Kind == tracker.KindXM {
			field("Tempo / BPM", fmt.Sprintf("%d / %d", info.DefaultTempo, info.DefaultBPM))
			field("Flags", fmt.Sprintf("0x%04X", info.Flags))
		}
		for j, line := range orderLines(info.OrderTable) {
			label := ""
			if j == 0 {
				label = "Order:"
			}
			fmt.Fprintf(&b, "  %s%s\n", p.label.Sprint(runewidth.FillRight(label, labelWidth)), line)
		}
		field("First instrument", info.FirstInstrumentName)
		if info.Warning != "" {
			fmt.Fprintf(&b, "  %s %s\n", p.warn.Sprint("warning:"), info.Warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// orderLines formats the order table as rows of hex pattern numbers
func orderLines(order []uint8) []string {
	if len(order) == 0 {
		return []string{"(empty)"}
	}
	var lines []string
	for start := 0; start < len(order); start += orderWrap {
		end := min(start+orderWrap, len(order))
		parts := make([]string, 0, end-start)
		for _, o := range order[start:end] {
			parts = append(parts, fmt.Sprintf("%02X", o))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

func writePatternsText(w io.Writer, dump PatternDump, opts Options) error {
	p := newPalette(opts.Color)
	info := dump.Info

	var b strings.Builder
	header := fmt.Sprintf("%s: %s (%s, %d channels)", dump.Path, info.Title, info.Type, info.Channels)
	b.WriteString(p.path.Sprint(fit(header, opts.Width)))
	b.WriteString("\n")
	if len(dump.Selection.Invalid) > 0 {
		fmt.Fprintf(&b, "%s order table references missing patterns %v\n", p.warn.Sprint("warning:"), dump.Selection.Invalid)
	}

	for _, pat := range dump.Patterns {
		used := true
		for _, e := range dump.Selection.Entries {
			if e.Pattern == pat.Index {
				used = e.Used
				break
			}
		}
		b.WriteString("\n")
		writePattern(&b, p, pat, used, opts.Width)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// visibleChannels returns how many channel columns fit in width
func visibleChannels(channels, width int) int {
	if width <= 0 {
		return channels
	}
	return min(channels, max(1, (width-3)/(cellWidth+3)))
}

func writePattern(b *strings.Builder, p palette, pat *tracker.Pattern, used bool, width int) {
	title := fmt.Sprintf("Pattern %02X  %d rows", pat.Index, pat.Rows)
	if used {
		b.WriteString(p.path.Sprint(title))
	} else {
		b.WriteString(p.unused.Sprint(title + "  unused"))
	}
	shown := visibleChannels(pat.Channels, width)
	if shown < pat.Channels {
		fmt.Fprintf(b, "  (%d of %d channels shown)", shown, pat.Channels)
	}
	b.WriteString("\n")

	b.WriteString("  ")
	for ch := 0; ch < shown; ch++ {
		fmt.Fprintf(b, " | %s", p.label.Sprint(runewidth.FillRight(fmt.Sprintf("Ch %d", ch+1), cellWidth)))
	}
	b.WriteString(" |\n")

	for row := 0; row < pat.Rows; row++ {
		rowStyle := p.row
		if row%4 == 0 {
			rowStyle = p.beat
		}
		b.WriteString(rowStyle.Sprintf("%02X", row))
		for ch := 0; ch < shown; ch++ {
			note := pat.Cell(row, ch)
			style := p.note
			if note.IsEmpty() {
				style = p.empty
			}
			b.WriteString(" | ")
			b.WriteString(style.Sprint(note.String()))
		}
		b.WriteString(" |\n")
	}
}
