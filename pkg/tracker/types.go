// Package tracker implements the data model shared by the module parser and its consumers
package tracker

import "fmt"

// Kind identifies the module format a buffer was decoded as
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMOD
	KindXM
)

// String returns the display name of the format
func (k Kind) String() string {
	switch k {
	case KindMOD:
		return "MOD"
	case KindXM:
		return "XM"
	default:
		return "UNKNOWN"
	}
}

// Capacities of the bounded result sequences. Entries past a capacity are
// dropped without failing the parse.
const (
	MaxOrderEntries = 256 // order table entries kept
	MaxPatterns     = 256 // row counts, packed sizes and decoded grids kept
	MaxRows         = 256 // rows per pattern
	MaxInstruments  = 256 // XM instrument headers kept
)

// MaxChannels is the largest channel count accepted; modules declaring
// more are rejected as invalid.
const MaxChannels = 128

// Pitch values with special meaning
const (
	PitchNone    uint8 = 0
	PitchMax     uint8 = 96
	PitchNoteOff uint8 = 97
)

// Note is one event cell of a pattern
type Note struct {
	Pitch      uint8  `json:"note" msgpack:"note"`             // 0 = none, 1-96 = C-0..B-7, 97 = note off
	Instrument uint8  `json:"instrument" msgpack:"instrument"` // 0 = none
	Volume     uint8  `json:"volume" msgpack:"volume"`         // volume column, 0 = none
	Effect     Effect `json:"effect" msgpack:"effect"`
}

// Effect is the effect column of a cell
type Effect struct {
	Type  uint8 `json:"type" msgpack:"type"`
	Param uint8 `json:"param" msgpack:"param"`
}

// IsEmpty reports whether the cell carries no event
func (n Note) IsEmpty() bool {
	return n == Note{}
}

// Pattern holds one decoded pattern
type Pattern struct {
	Index    int      `json:"index" msgpack:"index"`
	Rows     int      `json:"rows" msgpack:"rows"`
	Channels int      `json:"channels" msgpack:"channels"`
	Notes    [][]Note `json:"notes" msgpack:"notes"` // [row][channel]
}

// NewPattern creates a new empty pattern
func NewPattern(index, rows, channels int) *Pattern {
	p := &Pattern{
		Index:    index,
		Rows:     rows,
		Channels: channels,
		Notes:    make([][]Note, rows),
	}
	for i := range p.Notes {
		p.Notes[i] = make([]Note, channels)
	}
	return p
}

// Cell returns the cell at row/channel, or the empty cell when out of range
func (p *Pattern) Cell(row, ch int) Note {
	if p == nil || row < 0 || row >= len(p.Notes) || ch < 0 || ch >= len(p.Notes[row]) {
		return Note{}
	}
	return p.Notes[row][ch]
}

// Sample is one MOD sample descriptor
type Sample struct {
	Name       string `json:"name" msgpack:"name"`
	Length     uint32 `json:"length" msgpack:"length"` // bytes
	Finetune   int8   `json:"finetune" msgpack:"finetune"`
	Volume     uint8  `json:"volume" msgpack:"volume"`
	LoopStart  uint32 `json:"loop_start" msgpack:"loop_start"`
	LoopLength uint32 `json:"loop_length" msgpack:"loop_length"`
}

// Instrument is one XM instrument header
type Instrument struct {
	Name    string `json:"name" msgpack:"name"`
	Samples int    `json:"samples" msgpack:"samples"`
}

// ModuleInfo is the song-level summary of a parse.
//
// OK == false implies every other field is zero and Error is set.
// OK == true implies Error is empty. OrderTable, PatternRowCounts and
// PatternPackedSizes are capped at MaxOrderEntries and MaxPatterns.
type ModuleInfo struct {
	OK      bool   `json:"ok" msgpack:"ok"`
	Kind    Kind   `json:"-" msgpack:"-"`
	Type    string `json:"type" msgpack:"type"`
	Error   string `json:"error,omitempty" msgpack:"error,omitempty"`
	Warning string `json:"warning,omitempty" msgpack:"warning,omitempty"`

	Title     string `json:"title" msgpack:"title"`
	Tracker   string `json:"tracker,omitempty" msgpack:"tracker,omitempty"`
	Signature string `json:"signature,omitempty" msgpack:"signature,omitempty"`

	Channels        uint16 `json:"channels" msgpack:"channels"`
	Patterns        uint16 `json:"patterns" msgpack:"patterns"`
	Instruments     uint16 `json:"instruments" msgpack:"instruments"`
	SongLength      uint16 `json:"song_length" msgpack:"song_length"`
	RestartPosition uint16 `json:"restart_position" msgpack:"restart_position"`

	VersionMajor uint16 `json:"version_major,omitempty" msgpack:"version_major,omitempty"`
	VersionMinor uint16 `json:"version_minor,omitempty" msgpack:"version_minor,omitempty"`
	Flags        uint16 `json:"flags,omitempty" msgpack:"flags,omitempty"`
	DefaultTempo uint16 `json:"default_tempo,omitempty" msgpack:"default_tempo,omitempty"`
	DefaultBPM   uint16 `json:"default_bpm,omitempty" msgpack:"default_bpm,omitempty"`

	OrderTable         []uint8  `json:"order_table" msgpack:"order_table"`
	PatternRowCounts   []uint16 `json:"pattern_row_counts,omitempty" msgpack:"pattern_row_counts,omitempty"`
	PatternPackedSizes []uint16 `json:"pattern_packed_sizes,omitempty" msgpack:"pattern_packed_sizes,omitempty"`

	FirstInstrumentName string `json:"first_instrument_name" msgpack:"first_instrument_name"`
}

// Failed returns the result of a parse that could not complete
func Failed(msg string) ModuleInfo {
	if msg == "" {
		msg = "unknown error"
	}
	return ModuleInfo{Type: KindUnknown.String(), Error: msg}
}

// Module is the full decode result: summary, instrument metadata and pattern grids
type Module struct {
	Info        ModuleInfo   `json:"info" msgpack:"info"`
	Samples     []Sample     `json:"samples,omitempty" msgpack:"samples,omitempty"`
	Instruments []Instrument `json:"instruments,omitempty" msgpack:"instruments,omitempty"`
	Patterns    []*Pattern   `json:"patterns" msgpack:"patterns"`
}

// Pattern returns the decoded pattern with the given index, or nil
func (m *Module) Pattern(index int) *Pattern {
	if m == nil || index < 0 || index >= len(m.Patterns) {
		return nil
	}
	return m.Patterns[index]
}

// NoteString converts a pitch to its note name
func NoteString(pitch uint8) string {
	switch {
	case pitch == PitchNone:
		return "---"
	case pitch == PitchNoteOff:
		return "==="
	case pitch > PitchNoteOff:
		return "???"
	}
	notes := []string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}
	p := pitch - 1
	octave := p / 12
	note := p % 12
	return notes[note] + string(rune('0'+octave))
}

// ParseNote converts a note name back to its pitch. Unknown names map to PitchNone.
func ParseNote(s string) uint8 {
	if len(s) < 3 || s == "---" {
		return PitchNone
	}
	if s == "===" {
		return PitchNoteOff
	}

	notes := map[string]uint8{
		"C-": 0, "C#": 1, "D-": 2, "D#": 3, "E-": 4, "F-": 5,
		"F#": 6, "G-": 7, "G#": 8, "A-": 9, "A#": 10, "B-": 11,
	}

	note, ok := notes[s[:2]]
	if !ok || s[2] < '0' || s[2] > '7' {
		return PitchNone
	}
	octave := s[2] - '0'
	return octave*12 + note + 1
}

const effectDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// String renders the effect as type digit plus two hex digits, "..." when empty
func (e Effect) String() string {
	if e == (Effect{}) {
		return "..."
	}
	t := byte('?')
	if int(e.Type) < len(effectDigits) {
		t = effectDigits[e.Type]
	}
	return fmt.Sprintf("%c%02X", t, e.Param)
}

// String renders the cell the way trackers show it: "C-4 01 40 F06"
func (n Note) String() string {
	inst, vol := "..", ".."
	if n.Instrument != 0 {
		inst = fmt.Sprintf("%02X", n.Instrument)
	}
	if n.Volume != 0 {
		vol = fmt.Sprintf("%02X", n.Volume)
	}
	return NoteString(n.Pitch) + " " + inst + " " + vol + " " + n.Effect.String()
}
