package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohcrab/internal/terminal"
)

func plainCaps() *terminal.Capabilities {
	return &terminal.Capabilities{Width: 80, Height: 24}
}

func testModel(scripts ...string) Model {
	cands := make([]Candidate, len(scripts))
	for i, s := range scripts {
		cands[i] = Candidate{Script: s, Rule: "r"}
	}
	caps := plainCaps()
	return NewModel(cands, DefaultStyles(nil, caps, true), caps)
}

func send(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keyType(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestAcceptFirst(t *testing.T) {
	m := send(t, testModel("git push", "git pull"), keyType(tea.KeyEnter))
	assert.Equal(t, 0, m.Chosen())
	assert.Empty(t, m.View())
}

func TestNavigationCycles(t *testing.T) {
	m := testModel("a", "b", "c")

	m = send(t, m, keyType(tea.KeyDown), keyType(tea.KeyDown))
	assert.Equal(t, 2, m.cursor)
	m = send(t, m, keyType(tea.KeyDown))
	assert.Equal(t, 0, m.cursor)
	m = send(t, m, keyType(tea.KeyUp))
	assert.Equal(t, 2, m.cursor)
	m = send(t, m, runes("k"), keyType(tea.KeyEnter))
	assert.Equal(t, 1, m.Chosen())
}

func TestAbort(t *testing.T) {
	for _, msg := range []tea.KeyMsg{keyType(tea.KeyEsc), keyType(tea.KeyCtrlC), runes("q")} {
		m := send(t, testModel("a"), msg)
		assert.True(t, m.aborted, msg.String())
		assert.Equal(t, -1, m.Chosen())
	}
}

func TestFilterKeepsRankOrder(t *testing.T) {
	m := testModel("git push --force", "ls -la", "git push origin main", "git pull")

	m = send(t, m, runes("/"))
	require.True(t, m.filtering)
	m = send(t, m, runes("p"), runes("s"), runes("h"))

	assert.Equal(t, []int{0, 2}, m.visible)
	m = send(t, m, keyType(tea.KeyDown), keyType(tea.KeyEnter))
	assert.Equal(t, 2, m.Chosen())
}

func TestFilterTypingDoesNotQuit(t *testing.T) {
	m := testModel("make", "quit")
	m = send(t, m, runes("/"), runes("q"))
	assert.False(t, m.aborted)
	assert.Equal(t, []int{1}, m.visible)

	m = send(t, m, keyType(tea.KeyEsc))
	assert.False(t, m.filtering)
	assert.False(t, m.aborted)
	assert.Equal(t, []int{0, 1}, m.visible)
}

func TestFilterWithoutMatches(t *testing.T) {
	m := send(t, testModel("ls"), runes("/"), runes("z"))
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), "no candidate matches")

	m = send(t, m, keyType(tea.KeyEnter))
	assert.Equal(t, -1, m.Chosen())
}

func TestCopy(t *testing.T) {
	var copied string
	m := testModel("a", "b")
	m.copy = func(s string) error { copied = s; return nil }

	m = send(t, m, keyType(tea.KeyDown), keyType(tea.KeyCtrlY))
	assert.Equal(t, "b", copied)
	assert.Contains(t, m.View(), "copied")

	m.copy = func(string) error { return errors.New("no clipboard") }
	m = send(t, m, keyType(tea.KeyCtrlY))
	assert.Contains(t, m.View(), "copy failed: no clipboard")
}

func TestViewTruncatesLongScripts(t *testing.T) {
	long := "echo " + strings.Repeat("x", 200)
	m := testModel(long)
	m = send(t, m)

	view := m.View()
	assert.NotContains(t, view, long)
	assert.Contains(t, view, "...")
	assert.Contains(t, view, "[r]")
}

func TestViewMarksSideEffects(t *testing.T) {
	caps := plainCaps()
	m := NewModel([]Candidate{{Script: "tar xf a.tar -C a", Rule: "dirty_untar", SideEffect: true}},
		DefaultStyles(nil, caps, true), caps)
	assert.Contains(t, m.View(), "> tar xf a.tar -C a [dirty_untar] *")
}
