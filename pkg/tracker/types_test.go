package tracker

import "testing"

func TestNoteString(t *testing.T) {
	cases := []struct {
		pitch uint8
		want  string
	}{
		{0, "---"},
		{1, "C-0"},
		{13, "C-1"},
		{49, "C-4"},
		{50, "C#4"},
		{96, "B-7"},
		{97, "==="},
		{98, "???"},
		{255, "???"},
	}
	for _, tc := range cases {
		if got := NoteString(tc.pitch); got != tc.want {
			t.Errorf("NoteString(%d) = %q, want %q", tc.pitch, got, tc.want)
		}
	}
}

func TestParseNoteRoundTrip(t *testing.T) {
	for pitch := uint8(1); pitch <= PitchNoteOff; pitch++ {
		if got := ParseNote(NoteString(pitch)); got != pitch {
			t.Fatalf("ParseNote(NoteString(%d)) = %d", pitch, got)
		}
	}
	if got := ParseNote("H-4"); got != PitchNone {
		t.Fatalf("ParseNote(H-4) = %d, want none", got)
	}
}

func TestPatternCell(t *testing.T) {
	p := NewPattern(3, 4, 2)
	p.Notes[1][1] = Note{Pitch: 49, Instrument: 2}

	if got := p.Cell(1, 1); got.Pitch != 49 || got.Instrument != 2 {
		t.Fatalf("Cell(1,1) = %+v", got)
	}
	if !p.Cell(4, 0).IsEmpty() || !p.Cell(0, -1).IsEmpty() {
		t.Fatalf("out of range cells should be empty")
	}
	var nilPat *Pattern
	if !nilPat.Cell(0, 0).IsEmpty() {
		t.Fatalf("nil pattern cell should be empty")
	}
}

func TestKindString(t *testing.T) {
	if KindMOD.String() != "MOD" || KindXM.String() != "XM" || KindUnknown.String() != "UNKNOWN" {
		t.Fatalf("unexpected kind names")
	}
	if Kind(9).String() != "UNKNOWN" {
		t.Fatalf("out of range kind should render as UNKNOWN")
	}
}

func TestFailed(t *testing.T) {
	info := Failed("")
	if info.OK || info.Error == "" || info.Channels != 0 {
		t.Fatalf("Failed() = %+v", info)
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		note Note
		want string
	}{
		{Note{}, "--- .. .. ..."},
		{Note{Pitch: 49, Instrument: 1, Volume: 0x40, Effect: Effect{Type: 0x0F, Param: 0x06}}, "C-4 01 40 F06"},
		{Note{Pitch: PitchNoteOff}, "=== .. .. ..."},
		{Note{Effect: Effect{Type: 20, Param: 0x01}}, "--- .. .. K01"},
		{Note{Effect: Effect{Type: 200}}, "--- .. .. ?00"},
	}
	for _, tt := range tests {
		if got := tt.note.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.note, got, tt.want)
		}
	}
}
