// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package watch

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/db47h/sigsim/internal/stream"
	"github.com/db47h/sigsim/parts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	presses []string
	running bool
	resets  int
}

func (c *fakeController) Press(id string, pressed bool) {
	s := "release "
	if pressed {
		s = "press "
	}
	c.presses = append(c.presses, s+id)
}

func (c *fakeController) Pause() bool { c.running = !c.running; return c.running }

func (c *fakeController) Reset() { c.resets++ }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func snapshot() *stream.Snapshot {
	return &stream.Snapshot{
		Tick:       7,
		Iterations: 3,
		Stable:     true,
		Components: []stream.ComponentState{
			{ID: "component-1", Type: "button"},
			{ID: "component-2", Type: "light", Display: parts.Lamp{On: true, Color: "255,0,0,255"}},
			{ID: "component-3", Type: "display", Display: 2.5},
		},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	n, cmd := m.Update(msg)
	mm, ok := n.(Model)
	require.True(t, ok)
	return mm, cmd
}

func TestView(t *testing.T) {
	ch := make(chan *stream.Snapshot, 1)
	ctl := &fakeController{running: true}
	m := New("board.json", ch, ctl, true)
	assert.Contains(t, m.View(), "waiting for first tick")

	ch <- snapshot()
	msg := m.Init()()
	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd)
	v := m.View()
	assert.Contains(t, v, "board.json")
	assert.Contains(t, v, "tick 7")
	assert.Contains(t, v, "on 255,0,0,255")
	assert.Contains(t, v, "2.5")
	assert.NotContains(t, v, "unstable")

	close(ch)
	_, ok := cmd().(closedMsg)
	assert.True(t, ok)
}

func TestKeys(t *testing.T) {
	ch := make(chan *stream.Snapshot)
	ctl := &fakeController{running: true}
	m := New("board", ch, ctl, true)
	m, _ = update(t, m, snapshotMsg(snapshot()))

	m, _ = update(t, m, space)
	m, _ = update(t, m, space)
	assert.Equal(t, []string{"press component-1", "release component-1"}, ctl.presses)

	// not a button
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, space)
	assert.Len(t, ctl.presses, 2)

	m, _ = update(t, m, runes("p"))
	assert.Contains(t, m.View(), "paused")
	m, _ = update(t, m, runes("r"))
	assert.Equal(t, 1, ctl.resets)

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
