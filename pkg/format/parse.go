// Package format decodes ProTracker MOD and FastTracker II XM modules.
//
// All entry points are pure functions of the input bytes: they never
// modify the input, keep no state between calls and are safe to call
// concurrently. Malformed input produces an error, never a panic.
//
// Result sequences are bounded (see the Max* constants in package
// tracker). Entries beyond a capacity are dropped silently; this is a
// resource cap, not a parse failure.
package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/oisee/modscope/pkg/tracker"
)

type parser struct {
	c        *cursor
	mod      *tracker.Module
	warnings []string
}

func (p *parser) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.warnings = append(p.warnings, msg)
	Logger().Debug("parse warning", zap.String("warning", msg))
}

// Decode parses a complete module held in data
func Decode(data []byte) (*tracker.Module, error) {
	det, err := Detect(data)
	if err != nil {
		return nil, err
	}

	p := &parser{c: newCursor(data), mod: &tracker.Module{}}
	if det.Warning != "" {
		p.warnf("%s", det.Warning)
	}

	switch det.Kind {
	case tracker.KindMOD:
		err = p.parseMOD(det)
	case tracker.KindXM:
		err = p.parseXM()
	default:
		err = invalidData("no decoder for module kind %s", det.Kind)
	}
	if err != nil {
		return nil, err
	}

	info := &p.mod.Info
	if invalid := tracker.ResolveOrder(info.OrderTable, int(info.Patterns)).Invalid; len(invalid) > 0 {
		p.warnf("order table references missing patterns %v", invalid)
	}

	info.OK = true
	info.Kind = det.Kind
	info.Type = det.Kind.String()
	info.Warning = strings.Join(p.warnings, "; ")
	return p.mod, nil
}

// Parse parses data and returns its summary. Failures are reported
// through ModuleInfo.OK and ModuleInfo.Error.
func Parse(data []byte) tracker.ModuleInfo {
	m, err := Decode(data)
	if err != nil {
		return tracker.Failed(err.Error())
	}
	return m.Info
}

// Load reads a module from r and decodes it
func Load(r io.Reader) (*tracker.Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}
	return Decode(data)
}

// DecodeFile reads and decodes the module at path
func DecodeFile(path string) (*tracker.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}
	return Decode(data)
}

// ParseFile reads the module at path and returns its summary
func ParseFile(path string) tracker.ModuleInfo {
	if path == "" {
		return tracker.Failed("invalid path")
	}
	m, err := DecodeFile(path)
	if err != nil {
		return tracker.Failed(err.Error())
	}
	return m.Info
}
