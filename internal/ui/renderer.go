package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ohcrab/internal/terminal"
)

// Renderer prints messages and tables outside the menu.
type Renderer struct {
	out    io.Writer
	Styles *Styles
	caps   *terminal.Capabilities
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, caps *terminal.Capabilities, noColors bool) *Renderer {
	return &Renderer{
		out:    out,
		Styles: DefaultStyles(lipgloss.NewRenderer(out), caps, noColors),
		caps:   caps,
	}
}

// Notice prints a dimmed informational line.
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, r.Styles.Help.Render(msg))
}

// Error prints an error line.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.out, r.Styles.Error.Render(msg))
}

// Chosen echoes the script that is about to run, with a marker when a
// side effect ran first.
func (r *Renderer) Chosen(script string, sideEffect bool) {
	line := r.Styles.Selected.Render(script)
	if sideEffect {
		line += r.Styles.SideEffect.Render(" (+side effect)")
	}
	fmt.Fprintln(r.out, line)
}

// RuleRow is one line of the rule listing.
type RuleRow struct {
	Name           string
	Enabled        bool
	Priority       int
	RequiresOutput bool
}

// RuleTable prints the rule listing.
func (r *Renderer) RuleTable(title string, rows []RuleRow) {
	fmt.Fprintln(r.out, r.Styles.Title.Render(title))

	yes, no := "✓", "·"
	border := lipgloss.RoundedBorder()
	if r.caps.ShouldUseASCII() {
		yes, no = "yes", "no"
		border = lipgloss.ASCIIBorder()
	}
	mark := func(b bool) string {
		if b {
			return yes
		}
		return no
	}

	t := table.New().
		Border(border).
		BorderStyle(r.Styles.Help).
		Headers("RULE", "ENABLED", "PRIORITY", "NEEDS OUTPUT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.Styles.Title.Padding(0, 1)
			}
			if col == 0 && row >= 0 && row < len(rows) && !rows[row].Enabled {
				return r.Styles.Rule.Padding(0, 1)
			}
			return r.Styles.Normal.Padding(0, 1)
		})
	for _, row := range rows {
		t.Row(row.Name, mark(row.Enabled), strconv.Itoa(row.Priority), mark(row.RequiresOutput))
	}
	fmt.Fprintln(r.out, t.Render())
}
