// Package ui draws the candidate menu. Everything is rendered on stderr:
// stdout belongs to the shell that evaluates the chosen script.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"

	"ohcrab/internal/terminal"
)

// ErrAborted is returned when the menu is closed without a choice.
var ErrAborted = errors.New("aborted")

// Candidate is one line of the menu.
type Candidate struct {
	Script     string
	Rule       string
	SideEffect bool
}

// KeyMap defines keybindings for the menu
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Quit   key.Binding
	Filter key.Binding
	Clear  key.Binding
	Copy   key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "k"),
			key.WithHelp("↑/ctrl+p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "j"),
			key.WithHelp("↓/ctrl+n", "next"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c", "q"),
			key.WithHelp("esc", "abort"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear filter"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy"),
		),
	}
}

// candidateSource adapts the candidates to fuzzy.Source.
type candidateSource []Candidate

func (s candidateSource) String(i int) string { return s[i].Script }
func (s candidateSource) Len() int            { return len(s) }

// Model is the bubbletea model of the menu.
type Model struct {
	candidates []Candidate
	visible    []int
	matched    map[int][]int
	cursor     int

	input     textinput.Model
	filtering bool

	keys   KeyMap
	styles *Styles
	caps   *terminal.Capabilities
	copy   func(string) error

	width   int
	chosen  int
	aborted bool
	status  string
}

// NewModel creates a menu over candidates, which must not be empty.
func NewModel(candidates []Candidate, styles *Styles, caps *terminal.Capabilities) Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = styles.Prompt.Render("/ ")
	ti.CharLimit = 128

	m := Model{
		candidates: candidates,
		input:      ti,
		keys:       DefaultKeyMap(),
		styles:     styles,
		caps:       caps,
		copy:       clipboard.WriteAll,
		width:      caps.Width,
		chosen:     -1,
	}
	m.applyFilter()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Accept):
			if len(m.visible) > 0 {
				m.chosen = m.visible[m.cursor]
				return m, tea.Quit
			}
			return m, nil

		case msg.Type == tea.KeyCtrlC:
			m.aborted = true
			return m, tea.Quit

		case msg.Type == tea.KeyEsc && m.filtering:
			m.filtering = false
			m.input.Blur()
			m.input.SetValue("")
			m.applyFilter()
			return m, nil

		case msg.Type == tea.KeyUp || msg.Type == tea.KeyCtrlP ||
			(!m.filtering && key.Matches(msg, m.keys.Up)):
			m.move(-1)
			return m, nil

		case msg.Type == tea.KeyDown || msg.Type == tea.KeyCtrlN ||
			(!m.filtering && key.Matches(msg, m.keys.Down)):
			m.move(1)
			return m, nil

		case key.Matches(msg, m.keys.Copy):
			m.copySelected()
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.input.SetValue("")
			m.applyFilter()
			return m, nil

		case !m.filtering && key.Matches(msg, m.keys.Quit):
			m.aborted = true
			return m, tea.Quit

		case !m.filtering && key.Matches(msg, m.keys.Filter):
			m.filtering = true
			cmd := m.input.Focus()
			return m, cmd
		}
	}

	if !m.filtering {
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

// move cycles through the visible candidates.
func (m *Model) move(delta int) {
	n := len(m.visible)
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
	m.status = ""
}

func (m *Model) copySelected() {
	if len(m.visible) == 0 || m.copy == nil {
		return
	}
	script := m.candidates[m.visible[m.cursor]].Script
	if err := m.copy(script); err != nil {
		m.status = m.styles.Error.Render("copy failed: " + err.Error())
		return
	}
	m.status = m.styles.Success.Render("copied")
}

// applyFilter narrows the menu to candidates matching the query. Matches
// keep their ranking order.
func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.input.Value())
	m.visible = m.visible[:0]
	m.matched = nil
	m.cursor = 0

	if query == "" {
		for i := range m.candidates {
			m.visible = append(m.visible, i)
		}
		return
	}

	m.matched = make(map[int][]int)
	for _, match := range fuzzy.FindFrom(query, candidateSource(m.candidates)) {
		m.visible = append(m.visible, match.Index)
		m.matched[match.Index] = match.MatchedIndexes
	}
	slices.Sort(m.visible)
}

// View renders the model
func (m Model) View() string {
	if m.chosen >= 0 || m.aborted {
		return ""
	}

	var b strings.Builder
	if m.filtering || m.input.Value() != "" {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(m.styles.Help.Render("  no candidate matches"))
		b.WriteString("\n")
	}
	for row, idx := range m.visible {
		b.WriteString(m.renderLine(m.candidates[idx], m.matched[idx], row == m.cursor))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.help())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderLine(c Candidate, matched []int, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
		if !m.caps.ShouldUseASCII() {
			marker = "❯ "
		}
	}

	suffix := " [" + c.Rule + "]"
	if c.SideEffect {
		suffix += " *"
	}

	width := m.width - len(marker) - len(suffix)
	if width < 10 {
		width = 10
	}
	tail := "…"
	if m.caps.ShouldUseASCII() {
		tail = "..."
	}
	script := truncate.StringWithTail(c.Script, uint(width), tail)

	style := m.styles.Normal
	if selected {
		style = m.styles.Selected
	}

	var line strings.Builder
	line.WriteString(style.Render(marker))
	line.WriteString(highlight(script, matched, style, m.styles.Match))
	line.WriteString(m.styles.Rule.Render(suffix))
	return line.String()
}

// highlight styles the matched byte offsets of s.
func highlight(s string, matched []int, normal, match lipgloss.Style) string {
	if len(matched) == 0 {
		return normal.Render(s)
	}
	var b strings.Builder
	for i, r := range s {
		if slices.Contains(matched, i) {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(normal.Render(string(r)))
		}
	}
	return b.String()
}

func (m Model) help() string {
	bindings := []key.Binding{m.keys.Accept, m.keys.Up, m.keys.Down, m.keys.Filter, m.keys.Copy, m.keys.Quit}
	sep := " • "
	if m.caps.ShouldUseASCII() {
		sep = " | "
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, sep))
}

// Chosen returns the index of the chosen candidate, or -1.
func (m Model) Chosen() int {
	return m.chosen
}

// Options configure Select.
type Options struct {
	NoColors bool
	Input    io.Reader
	Output   io.Writer
}

// Select shows the menu and returns the index of the chosen candidate.
func Select(ctx context.Context, candidates []Candidate, opts Options) (int, error) {
	if len(candidates) == 0 {
		return -1, ErrAborted
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	caps := terminal.Detect()
	styles := DefaultStyles(lipgloss.NewRenderer(out), caps, opts.NoColors)

	progOpts := []tea.ProgramOption{tea.WithOutput(out), tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	final, err := tea.NewProgram(NewModel(candidates, styles, caps), progOpts...).Run()
	if err != nil {
		return -1, fmt.Errorf("menu: %w", err)
	}
	if chosen := final.(Model).Chosen(); chosen >= 0 {
		return chosen, nil
	}
	return -1, ErrAborted
}
