package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oisee/modscope/pkg/tracker"
)

func TestCursorVerticalMoves(t *testing.T) {
	tests := []struct {
		name  string
		start int
		cmd   Move
		want  int
	}{
		{"up at top", 0, MoveUp, 0},
		{"up", 5, MoveUp, 4},
		{"down", 5, MoveDown, 6},
		{"down at bottom", 63, MoveDown, 63},
		{"page up clamps", 10, MovePageUp, 0},
		{"page up", 40, MovePageUp, 24},
		{"page down", 10, MovePageDown, 26},
		{"page down clamps", 60, MovePageDown, 63},
		{"home", 30, MoveHome, 0},
		{"end", 3, MoveEnd, 63},
		{"out of range row is clamped", 200, MoveUp, 62},
	}
	for _, tt := range tests {
		c := Cursor{Row: tt.start}
		c.Move(tt.cmd, 64, 4, 16)
		if c.Row != tt.want {
			t.Errorf("%s: row = %d, want %d", tt.name, c.Row, tt.want)
		}
	}
}

func TestCursorHorizontalWrap(t *testing.T) {
	tests := []struct {
		start Cursor
		cmd   Move
		want  Cursor
	}{
		{Cursor{10, 0, ColNote}, MoveLeft, Cursor{10, 0, ColNote}},
		{Cursor{10, 0, ColEffectParam}, MoveRight, Cursor{10, 1, ColNote}},
		{Cursor{10, 3, ColNote}, MoveLeft, Cursor{10, 2, ColEffectParam}},
		{Cursor{10, 3, ColEffectParam}, MoveRight, Cursor{10, 3, ColEffectParam}},
		{Cursor{10, 1, ColVolume}, MoveRight, Cursor{10, 1, ColEffect}},
		{Cursor{10, 1, ColInstrument}, MoveLeft, Cursor{10, 1, ColNote}},
	}
	for _, tt := range tests {
		c := tt.start
		c.Move(tt.cmd, 64, 4, 16)
		if c != tt.want {
			t.Errorf("%+v move %d = %+v, want %+v", tt.start, tt.cmd, c, tt.want)
		}
	}
}

func TestCursorEmptyGrid(t *testing.T) {
	c := Cursor{Row: 5, Channel: 2}
	c.Move(MoveEnd, 0, 0, 0)
	if c.Row != 0 || c.Channel != 0 {
		t.Fatalf("cursor = %+v, want origin", c)
	}
}

func testModule() *tracker.Module {
	p0 := tracker.NewPattern(0, 64, 4)
	p0.Notes[0][0] = tracker.Note{Pitch: 49, Instrument: 1, Volume: 0x40, Effect: tracker.Effect{Type: 0x0F, Param: 0x06}}
	p1 := tracker.NewPattern(1, 32, 4)
	p2 := tracker.NewPattern(2, 16, 4)
	p2.Notes[3][2] = tracker.Note{Pitch: tracker.PitchNoteOff}
	return &tracker.Module{
		Info: tracker.ModuleInfo{
			OK:               true,
			Kind:             tracker.KindXM,
			Type:             "XM",
			Title:            "Browser Test",
			Channels:         4,
			Patterns:         3,
			SongLength:       3,
			OrderTable:       []uint8{2, 0, 9},
			PatternRowCounts: []uint16{64, 32, 16},
		},
		Patterns: []*tracker.Pattern{p0, p1, p2},
	}
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelSelectsUsedPatterns(t *testing.T) {
	m := NewModel(testModule(), "test.xm", Options{})
	if got := len(m.Selection.Entries); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}
	if pat := m.CurrentPattern(); pat == nil || pat.Index != 0 {
		t.Fatalf("first pattern = %+v, want 0", pat)
	}

	m = press(m, runes("]"))
	if pat := m.CurrentPattern(); pat.Index != 2 {
		t.Fatalf("after ] pattern = %d, want 2", pat.Index)
	}
	m = press(m, runes("]"))
	if m.Entry != 1 {
		t.Fatalf("next past the end moved to entry %d", m.Entry)
	}

	m = press(m, runes("a"))
	if !m.ShowAll || len(m.Selection.Entries) != 3 {
		t.Fatalf("show all: %v entries %d", m.ShowAll, len(m.Selection.Entries))
	}
	if pat := m.CurrentPattern(); pat.Index != 2 {
		t.Fatalf("toggle lost the current pattern: %d", pat.Index)
	}
}

func TestModelNavigation(t *testing.T) {
	m := NewModel(testModule(), "test.xm", Options{PageStep: 8})

	m = press(m, tea.KeyMsg{Type: tea.KeyPgDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor.Row != 9 {
		t.Fatalf("row = %d, want 9", m.Cursor.Row)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.Cursor.Row != 63 {
		t.Fatalf("row = %d, want 63", m.Cursor.Row)
	}
	if m.ViewRow == 0 {
		t.Fatalf("view did not scroll to the cursor")
	}

	// switching to a shorter pattern keeps the cursor inside it
	m = press(m, runes("]"))
	if m.Cursor.Row != 15 {
		t.Fatalf("row = %d, want 15", m.Cursor.Row)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Cursor.Channel != 3 || m.Cursor.Col != ColNote {
		t.Fatalf("shift+tab cursor = %+v", m.Cursor)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Cursor.Channel != 0 {
		t.Fatalf("tab wrapped to %d", m.Cursor.Channel)
	}
	for i := 0; i < 5; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.Cursor.Channel != 1 || m.Cursor.Col != ColNote {
		t.Fatalf("right x5 cursor = %+v", m.Cursor)
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(testModule(), "test.xm", Options{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(testModule(), "test.xm", Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{
		"XM  Browser Test",
		"Pat:00 (1/2)",
		"missing [9]",
		"CH1",
		"C-4",
		"F06",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = press(m, runes("]"))
	if view := m.View(); !strings.Contains(view, "===") {
		t.Errorf("pattern 2 view missing note off:\n%s", view)
	}
}

func TestModelFallbackPattern(t *testing.T) {
	mod := testModule()
	mod.Info.OrderTable = []uint8{7}
	m := NewModel(mod, "test.xm", Options{})
	e, ok := m.CurrentEntry()
	if !ok || e.Pattern != 0 || e.Used {
		t.Fatalf("entry = %+v, %v; want unused pattern 0", e, ok)
	}
	if !strings.Contains(m.View(), "unused") {
		t.Fatalf("view should flag the unused fallback pattern")
	}
}
