// Package rules contains every correction heuristic ohcrab ships with.
//
// A rule inspects the failed command and its output, decides whether it
// applies, and proposes replacement scripts ordered by its own preference.
// Rules never execute anything besides read-only lookups through host.Host;
// the few that need to change the filesystem do it in a SideEffect that runs
// only once the user has picked their candidate.
package rules

import (
	"path/filepath"
	"slices"
	"strings"

	"ohcrab/internal/command"
	"ohcrab/internal/shell"
	"ohcrab/internal/textutil"
)

// DefaultPriority is the base priority of a rule that does not set one.
const DefaultPriority = 1000

// Info is the metadata the engine needs to schedule a rule.
type Info struct {
	Name             string
	EnabledByDefault bool
	// Priority is the rank of the rule's best candidate; lower wins.
	Priority int
	// RequiresOutput skips the rule when the command printed nothing.
	RequiresOutput bool
}

// Rule is a single correction heuristic. Suggest is only called after
// Match returned true for the same command.
type Rule interface {
	Info() Info
	Match(cmd *command.Command, sh shell.Shell) bool
	Suggest(cmd *command.Command, sh shell.Shell) []string
}

// SideEffecter is implemented by rules that must touch the filesystem
// before their chosen candidate is printed.
type SideEffecter interface {
	SideEffect(cmd *command.Command, script string) error
}

// ──────────────────────────────────────────────────────────────────────────────
// Metadata options
// ──────────────────────────────────────────────────────────────────────────────

type base struct {
	info Info
}

func (b base) Info() Info { return b.info }

type option func(*Info)

func newBase(name string, opts ...option) base {
	info := Info{
		Name:             name,
		EnabledByDefault: true,
		Priority:         DefaultPriority,
		RequiresOutput:   true,
	}
	for _, opt := range opts {
		opt(&info)
	}
	return base{info: info}
}

func disabledByDefault() option {
	return func(i *Info) { i.EnabledByDefault = false }
}

func priority(p int) option {
	return func(i *Info) { i.Priority = p }
}

func outputOptional() option {
	return func(i *Info) { i.RequiresOutput = false }
}

// ──────────────────────────────────────────────────────────────────────────────
// sudo support
// ──────────────────────────────────────────────────────────────────────────────

const sudoPrefix = "sudo "

// sudoSupport lets a rule see through a leading "sudo ". The wrapped rule
// matches and suggests against the bare command and every candidate gets
// the prefix back.
func sudoSupport(r Rule) Rule {
	s := sudoRule{inner: r}
	if _, ok := r.(SideEffecter); ok {
		return sudoSideEffectRule{s}
	}
	return s
}

type sudoRule struct {
	inner Rule
}

func (s sudoRule) Info() Info { return s.inner.Info() }

func (s sudoRule) Match(cmd *command.Command, sh shell.Shell) bool {
	if bare, ok := stripSudo(cmd); ok {
		return s.inner.Match(bare, sh)
	}
	return s.inner.Match(cmd, sh)
}

func (s sudoRule) Suggest(cmd *command.Command, sh shell.Shell) []string {
	bare, ok := stripSudo(cmd)
	if !ok {
		return s.inner.Suggest(cmd, sh)
	}
	scripts := s.inner.Suggest(bare, sh)
	out := make([]string, len(scripts))
	for i, script := range scripts {
		out[i] = sudoPrefix + script
	}
	return out
}

type sudoSideEffectRule struct {
	sudoRule
}

func (s sudoSideEffectRule) SideEffect(cmd *command.Command, script string) error {
	if bare, ok := stripSudo(cmd); ok {
		cmd = bare
		script = strings.TrimPrefix(script, sudoPrefix)
	}
	return s.inner.(SideEffecter).SideEffect(cmd, script)
}

func stripSudo(cmd *command.Command) (*command.Command, bool) {
	if !strings.HasPrefix(cmd.Script, sudoPrefix) {
		return nil, false
	}
	return cmd.Update(strings.TrimSpace(cmd.Script[len(sudoPrefix):])), true
}

// ──────────────────────────────────────────────────────────────────────────────
// helpers shared by rules
// ──────────────────────────────────────────────────────────────────────────────

// isApp reports whether the command runs one of apps and has at least
// atLeast arguments after the program name.
func isApp(cmd *command.Command, atLeast int, apps ...string) bool {
	parts := cmd.Parts()
	if len(parts) <= atLeast {
		return false
	}
	return slices.Contains(apps, filepath.Base(parts[0]))
}

func forApp(cmd *command.Command, apps ...string) bool {
	return isApp(cmd, 0, apps...)
}

func isGit(cmd *command.Command) bool {
	return forApp(cmd, "git", "hub")
}

// arg returns the i-th word of the command or "".
func arg(cmd *command.Command, i int) string {
	parts := cmd.Parts()
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

func lower(s string) string { return strings.ToLower(s) }

func single(script string) []string {
	if script == "" {
		return nil
	}
	return []string{script}
}

// joinParts renders words back into a script, quoting those that need it.
func joinParts(sh shell.Shell, parts []string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = sh.Quote(p)
	}
	return strings.Join(quoted, " ")
}

// replaceClosest substitutes broken with the known values closest to it.
// Used when the tool lists every valid value rather than its own guesses.
func replaceClosest(cmd *command.Command, broken string, known []string) []string {
	if broken == "" {
		return nil
	}
	matches := textutil.CloseMatches(broken, known, textutil.WithCutoff(0.1))
	return textutil.ReplaceCommand(cmd.Script, broken, matches)
}
