package ui

import (
	"github.com/charmbracelet/lipgloss"

	"ohcrab/internal/terminal"
)

// Styles holds the menu styles for one terminal.
type Styles struct {
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Normal     lipgloss.Style
	Rule       lipgloss.Style
	SideEffect lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Prompt     lipgloss.Style
	Match      lipgloss.Style
}

// DefaultStyles returns styles adapted to caps. Colors are dropped when
// noColors is set or the terminal has none.
func DefaultStyles(r *lipgloss.Renderer, caps *terminal.Capabilities, noColors bool) *Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	s := &Styles{}

	switch {
	case noColors || !caps.SupportsColor:
		s.Title = r.NewStyle().Bold(true)
		s.Selected = r.NewStyle().Bold(true)
		s.Normal = r.NewStyle()
		s.Rule = r.NewStyle()
		s.SideEffect = r.NewStyle()
		s.Help = r.NewStyle()
		s.Error = r.NewStyle()
		s.Success = r.NewStyle()
		s.Prompt = r.NewStyle()
		s.Match = r.NewStyle().Underline(true)
	case caps.SupportsTrueColor:
		s.Title = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
		s.Selected = r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
		s.Normal = r.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
		s.Rule = r.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Italic(true)
		s.SideEffect = r.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
		s.Help = r.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		s.Error = r.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		s.Success = r.NewStyle().Foreground(lipgloss.Color("#10B981"))
		s.Prompt = r.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
		s.Match = r.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	case caps.Supports256Color:
		s.Title = r.NewStyle().Bold(true).Foreground(lipgloss.Color("93"))
		s.Selected = r.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
		s.Normal = r.NewStyle().Foreground(lipgloss.Color("255"))
		s.Rule = r.NewStyle().Foreground(lipgloss.Color("248")).Italic(true)
		s.SideEffect = r.NewStyle().Foreground(lipgloss.Color("214"))
		s.Help = r.NewStyle().Foreground(lipgloss.Color("242"))
		s.Error = r.NewStyle().Foreground(lipgloss.Color("196"))
		s.Success = r.NewStyle().Foreground(lipgloss.Color("82"))
		s.Prompt = r.NewStyle().Foreground(lipgloss.Color("93")).Bold(true)
		s.Match = r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	default:
		s.Title = r.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
		s.Selected = r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
		s.Normal = r.NewStyle().Foreground(lipgloss.Color("7"))
		s.Rule = r.NewStyle().Foreground(lipgloss.Color("8"))
		s.SideEffect = r.NewStyle().Foreground(lipgloss.Color("3"))
		s.Help = r.NewStyle().Foreground(lipgloss.Color("8"))
		s.Error = r.NewStyle().Foreground(lipgloss.Color("1"))
		s.Success = r.NewStyle().Foreground(lipgloss.Color("2"))
		s.Prompt = r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
		s.Match = r.NewStyle().Bold(true)
	}
	return s
}
