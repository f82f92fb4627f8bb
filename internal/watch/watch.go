// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package watch implements a terminal view of a running simulation.
//
package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/db47h/sigsim"
	"github.com/db47h/sigsim/internal/stream"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2)

	unstableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Press key.Binding
	Pause key.Binding
	Reset key.Binding
	Up    key.Binding
	Down  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Press: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "press/release button"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause/resume"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Pause, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Press, k.Pause, k.Reset},
		{k.Up, k.Down},
		{k.Quit},
	}
}

// Controller is the simulation as seen from the terminal view.
//
type Controller interface {
	// Press presses or releases the button with the given ID.
	Press(id string, pressed bool)
	// Pause toggles the clock and reports whether it is now running.
	Pause() bool
	// Reset resets the simulation.
	Reset()
}

type snapshotMsg *stream.Snapshot

type closedMsg struct{}

// Model is the bubbletea model of the view. Snapshots are read from a channel
// fed by the clock; the view quits when the channel is closed.
//
type Model struct {
	snaps   <-chan *stream.Snapshot
	ctl     Controller
	table   table.Model
	help    help.Model
	keys    keyMap
	last    *stream.Snapshot
	pressed map[string]bool
	running bool
	title   string
}

// New returns a new model. title is shown at the top of the view.
//
func New(title string, snaps <-chan *stream.Snapshot, ctl Controller, running bool) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 16},
			{Title: "Type", Width: 12},
			{Title: "Display", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	return Model{
		snaps:   snaps,
		ctl:     ctl,
		table:   t,
		help:    help.New(),
		keys:    keys,
		pressed: make(map[string]bool),
		running: running,
		title:   title,
	}
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.snaps
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(s)
	}
}

// Init implements tea.Model.
//
func (m Model) Init() tea.Cmd {
	return m.wait()
}

// Update implements tea.Model.
//
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case closedMsg:
		return m, tea.Quit

	case snapshotMsg:
		m.last = msg
		m.table.SetRows(rows(msg))
		return m, m.wait()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.running = m.ctl.Pause()
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.ctl.Reset()
			m.pressed = make(map[string]bool)
			return m, nil
		case key.Matches(msg, m.keys.Press):
			if r := m.table.SelectedRow(); r != nil && r[1] == "button" {
				id := r[0]
				m.pressed[id] = !m.pressed[id]
				m.ctl.Press(id, m.pressed[id])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
//
func (m Model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n\n")
	s.WriteString(statusStyle.Render(m.status()))
	s.WriteString("\n\n")
	s.WriteString(tableStyle.Render(m.table.View()))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m Model) status() string {
	state := "running"
	if !m.running {
		state = "paused"
	}
	if m.last == nil {
		return state + " | waiting for first tick"
	}
	st := fmt.Sprintf("%s | tick %d | %d iterations", state, m.last.Tick, m.last.Iterations)
	if !m.last.Stable {
		st += " | " + unstableStyle.Render("unstable")
	}
	return st
}

func rows(s *stream.Snapshot) []table.Row {
	rs := make([]table.Row, 0, len(s.Components))
	for _, c := range s.Components {
		rs = append(rs, table.Row{c.ID, c.Type, format(c.Display)})
	}
	return rs
}

func format(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return sigsim.String(v)
}
