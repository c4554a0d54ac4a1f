// Package report renders parse results as text, JSON or msgpack
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/oisee/modscope/pkg/config"
	"github.com/oisee/modscope/pkg/tracker"
)

// FileResult is the parse summary of one input file
type FileResult struct {
	Path string             `json:"path" msgpack:"path"`
	Info tracker.ModuleInfo `json:"info" msgpack:"info"`
}

// PatternDump is the pattern listing of one module
type PatternDump struct {
	Path      string             `json:"path" msgpack:"path"`
	Info      tracker.ModuleInfo `json:"info" msgpack:"info"`
	Selection tracker.Selection  `json:"selection" msgpack:"selection"`
	Patterns  []*tracker.Pattern `json:"patterns" msgpack:"patterns"`
}

// Options control text rendering
type Options struct {
	Color bool
	Width int // terminal columns, 0 = unlimited
}

// NewPatternDump collects the patterns named by sel from m
func NewPatternDump(path string, m *tracker.Module, sel tracker.Selection) PatternDump {
	d := PatternDump{Path: path, Info: m.Info, Selection: sel}
	for _, e := range sel.Entries {
		if p := m.Pattern(e.Pattern); p != nil {
			d.Patterns = append(d.Patterns, p)
		}
	}
	return d
}

// WriteInfo renders module summaries in the given format
func WriteInfo(w io.Writer, format string, results []FileResult, opts Options) error {
	switch format {
	case config.FormatText:
		return writeInfoText(w, results, opts)
	case config.FormatJSON:
		return writeJSON(w, results)
	case config.FormatMsgpack:
		return writeMsgpack(w, results)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WritePatterns renders a pattern listing in the given format
func WritePatterns(w io.Writer, format string, dump PatternDump, opts Options) error {
	switch format {
	case config.FormatText:
		return writePatternsText(w, dump, opts)
	case config.FormatJSON:
		return writeJSON(w, dump)
	case config.FormatMsgpack:
		return writeMsgpack(w, dump)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeMsgpack(w io.Writer, v any) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}
