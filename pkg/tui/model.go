// Package tui implements the read-only terminal pattern browser
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/oisee/modscope/pkg/tracker"
)

// Options configure a new browser
type Options struct {
	ShowAll  bool // list every pattern, not only those in the order table
	PageStep int
}

// Model is the main TUI model
type Model struct {
	Module   *tracker.Module
	Filename string

	// View state
	Width    int
	Height   int
	ShowHelp bool
	ShowAll  bool
	PageStep int

	// Pattern browser state
	Selection tracker.Selection
	Entry     int // index into Selection.Entries
	Cursor    Cursor
	ViewRow   int // top visible row
	ViewCh    int // first visible channel

	keys keyMap
	help help.Model
}

// NewModel creates a browser over an already decoded module
func NewModel(mod *tracker.Module, filename string, opts Options) Model {
	if opts.PageStep < 1 {
		opts.PageStep = DefaultPageStep
	}
	m := Model{
		Module:   mod,
		Filename: filename,
		Width:    120,
		Height:   30,
		ShowAll:  opts.ShowAll,
		PageStep: opts.PageStep,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	m.Selection = mod.Selection(m.ShowAll)
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = !m.ShowHelp
		m.help.ShowAll = m.ShowHelp

	case key.Matches(msg, m.keys.Up):
		m.move(MoveUp)
	case key.Matches(msg, m.keys.Down):
		m.move(MoveDown)
	case key.Matches(msg, m.keys.PageUp):
		m.move(MovePageUp)
	case key.Matches(msg, m.keys.PageDown):
		m.move(MovePageDown)
	case key.Matches(msg, m.keys.Home):
		m.move(MoveHome)
	case key.Matches(msg, m.keys.End):
		m.move(MoveEnd)
	case key.Matches(msg, m.keys.Left):
		m.move(MoveLeft)
	case key.Matches(msg, m.keys.Right):
		m.move(MoveRight)

	case key.Matches(msg, m.keys.NextChannel):
		if ch := m.channels(); ch > 0 {
			m.Cursor.Channel = (m.Cursor.Channel + 1) % ch
			m.Cursor.Col = ColNote
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.PrevChannel):
		if ch := m.channels(); ch > 0 {
			m.Cursor.Channel = (m.Cursor.Channel - 1 + ch) % ch
			m.Cursor.Col = ColNote
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.NextPattern):
		m.selectEntry(m.Entry + 1)
	case key.Matches(msg, m.keys.PrevPattern):
		m.selectEntry(m.Entry - 1)

	case key.Matches(msg, m.keys.ShowAll):
		current := m.CurrentPattern()
		m.ShowAll = !m.ShowAll
		m.Selection = m.Module.Selection(m.ShowAll)
		m.Entry = 0
		// stay on the same pattern when the new list still has it
		if current != nil {
			for i, e := range m.Selection.Entries {
				if e.Pattern == current.Index {
					m.Entry = i
					break
				}
			}
		}
		m.clampCursor()
	}

	return m, nil
}

func (m *Model) move(cmd Move) {
	m.Cursor.Move(cmd, m.rows(), m.channels(), m.PageStep)
	m.ensureVisible()
}

func (m *Model) selectEntry(i int) {
	if i < 0 || i >= len(m.Selection.Entries) || i == m.Entry {
		return
	}
	m.Entry = i
	m.clampCursor()
}

// clampCursor keeps the cursor inside a pattern that may have fewer rows
func (m *Model) clampCursor() {
	m.Cursor.Row = min(m.Cursor.Row, max(0, m.rows()-1))
	m.ensureVisible()
}

// CurrentEntry returns the selected pattern entry
func (m Model) CurrentEntry() (tracker.SelectionEntry, bool) {
	if m.Entry < 0 || m.Entry >= len(m.Selection.Entries) {
		return tracker.SelectionEntry{}, false
	}
	return m.Selection.Entries[m.Entry], true
}

// CurrentPattern returns the pattern under the cursor
func (m Model) CurrentPattern() *tracker.Pattern {
	e, ok := m.CurrentEntry()
	if !ok {
		return nil
	}
	return m.Module.Pattern(e.Pattern)
}

func (m Model) rows() int {
	if pat := m.CurrentPattern(); pat != nil {
		return pat.Rows
	}
	if e, ok := m.CurrentEntry(); ok {
		return e.Rows
	}
	return 0
}

func (m Model) channels() int {
	return int(m.Module.Info.Channels)
}

func (m Model) visibleRows() int {
	return max(8, m.Height-8)
}

// visibleChannels is how many channel columns fit the window
func (m Model) visibleChannels() int {
	return max(1, min(m.channels(), (m.Width-3)/(cellWidth+1)))
}

func (m *Model) ensureVisible() {
	visibleRows := m.visibleRows()
	if m.Cursor.Row < m.ViewRow {
		m.ViewRow = m.Cursor.Row
	}
	if m.Cursor.Row >= m.ViewRow+visibleRows {
		m.ViewRow = m.Cursor.Row - visibleRows + 1
	}

	visibleCh := m.visibleChannels()
	if m.Cursor.Channel < m.ViewCh {
		m.ViewCh = m.Cursor.Channel
	}
	if m.Cursor.Channel >= m.ViewCh+visibleCh {
		m.ViewCh = m.Cursor.Channel - visibleCh + 1
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.channelHeaderView())
	b.WriteString("\n")
	b.WriteString(m.patternView())
	b.WriteString("\n")
	b.WriteString(m.footerView())

	return b.String()
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("6"))
)

func (m Model) headerView() string {
	info := m.Module.Info
	title := titleStyle.Render(runewidth.Truncate(fmt.Sprintf("%s  %s", info.Type, info.Title), 40, "..."))

	pos := "no patterns"
	if e, ok := m.CurrentEntry(); ok {
		used := ""
		if !e.Used {
			used = " unused"
		}
		pos = fmt.Sprintf("Pat:%02X (%d/%d)%s Row:%02X/%02X", e.Pattern, m.Entry+1, len(m.Selection.Entries), used, m.Cursor.Row, max(0, m.rows()-1))
	}

	list := "used"
	if m.ShowAll {
		list = "all"
	}
	line := fmt.Sprintf("%s │ %s │ Ch:%d Ins:%d Len:%d │ %s", title, pos, info.Channels, info.Instruments, info.SongLength, list)
	if len(m.Selection.Invalid) > 0 {
		line += " │ " + warnStyle.Render(fmt.Sprintf("missing %v", m.Selection.Invalid))
	}
	return line
}

// cellWidth is the rendered width of one channel column
const cellWidth = 15

func (m Model) channelHeaderView() string {
	var parts []string
	parts = append(parts, "  │")

	last := min(m.channels(), m.ViewCh+m.visibleChannels())
	for ch := m.ViewCh; ch < last; ch++ {
		style := lipgloss.NewStyle()
		if ch == m.Cursor.Channel {
			style = style.Foreground(lipgloss.Color("11")).Bold(true)
		} else {
			style = style.Foreground(lipgloss.Color("8"))
		}
		header := fmt.Sprintf(" %-14s│", fmt.Sprintf("CH%d", ch+1))
		parts = append(parts, style.Render(header))
	}

	return strings.Join(parts, "")
}

func (m Model) patternView() string {
	pat := m.CurrentPattern()
	if pat == nil {
		return dimStyle.Render("No pattern")
	}

	var lines []string
	for row := m.ViewRow; row < m.ViewRow+m.visibleRows() && row < pat.Rows; row++ {
		lines = append(lines, m.renderRow(pat, row))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(pat *tracker.Pattern, row int) string {
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	if row%4 == 0 {
		rowStyle = rowStyle.Foreground(lipgloss.Color("14"))
	}
	if row == m.Cursor.Row {
		rowStyle = rowStyle.Background(lipgloss.Color("4"))
	}

	var b strings.Builder
	b.WriteString(rowStyle.Render(fmt.Sprintf("%02X", row)))
	b.WriteString("│")

	last := min(pat.Channels, m.ViewCh+m.visibleChannels())
	for ch := m.ViewCh; ch < last; ch++ {
		b.WriteString(m.renderCell(pat.Cell(row, ch), row, ch))
		b.WriteString("│")
	}
	return b.String()
}

func (m Model) renderCell(note tracker.Note, row, ch int) string {
	isCursor := row == m.Cursor.Row && ch == m.Cursor.Channel
	field := func(col Column, text string, style lipgloss.Style) string {
		if isCursor && m.Cursor.Col == col {
			style = style.Inherit(cursorStyle)
		}
		return style.Render(text)
	}

	// Note
	noteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	switch note.Pitch {
	case tracker.PitchNone:
		noteStyle = noteStyle.Foreground(lipgloss.Color("8"))
	case tracker.PitchNoteOff:
		noteStyle = noteStyle.Foreground(lipgloss.Color("9"))
	}

	// Instrument
	instStr := ".."
	instStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	if note.Instrument > 0 {
		instStr = fmt.Sprintf("%02X", note.Instrument)
	} else {
		instStyle = instStyle.Foreground(lipgloss.Color("8"))
	}

	// Volume
	volStr := ".."
	volStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	if note.Volume > 0 {
		volStr = fmt.Sprintf("%02X", note.Volume)
	} else {
		volStyle = volStyle.Foreground(lipgloss.Color("8"))
	}

	// Effect type and parameter
	fx := note.Effect.String()
	fxStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	if note.Effect == (tracker.Effect{}) {
		fxStyle = fxStyle.Foreground(lipgloss.Color("8"))
	}

	return " " + field(ColNote, tracker.NoteString(note.Pitch), noteStyle) +
		" " + field(ColInstrument, instStr, instStyle) +
		" " + field(ColVolume, volStr, volStyle) +
		" " + field(ColEffect, fx[:1], fxStyle) + field(ColEffectParam, fx[1:], fxStyle) + " "
}

func (m Model) footerView() string {
	return m.help.View(m.keys)
}
