package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type doneMsg struct{}

type spinnerModel struct {
	spinner  spinner.Model
	text     string
	style    lipgloss.Style
	quitting bool
	done     bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting || m.done {
		return ""
	}
	return fmt.Sprintf(" %s %s\n", m.spinner.View(), m.style.Render(m.text))
}

// RunWithSpinner shows a spinner on out while f runs and returns f's error.
func RunWithSpinner(out io.Writer, text string, f func() error) error {
	r := lipgloss.NewRenderer(out)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = r.NewStyle().Foreground(lipgloss.Color("#FF70A6"))

	m := spinnerModel{
		spinner: s,
		text:    text,
		style:   r.NewStyle().Foreground(lipgloss.Color("#90E0EF")),
	}
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithInput(nil))

	errChan := make(chan error, 1)
	go func() {
		errChan <- f()
		p.Send(doneMsg{})
	}()

	_, runErr := p.Run()
	err := <-errChan
	if runErr != nil {
		return runErr
	}
	return err
}
