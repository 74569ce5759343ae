package rules

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"ohcrab/internal/command"
	"ohcrab/internal/host"
	"ohcrab/internal/shell"
	"ohcrab/internal/textutil"
)

// validHistory returns past commands, newest first, that start with a known
// executable. Invocations of the alias, the lines that were corrected by it
// and the current script are left out.
func validHistory(h *host.Host, cmd *command.Command, sh shell.Shell) []string {
	history := sh.History()
	if len(history) == 0 {
		return nil
	}
	execs := h.AllExecutables(sh.BuiltinCommands())
	isAlias := func(line string) bool {
		first, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		return slices.Contains(h.Aliases, first)
	}

	var out []string
	for i, line := range history {
		// history[i-1] ran right after line; a correction follows a failure.
		if i > 0 && isAlias(history[i-1]) {
			continue
		}
		if isAlias(line) || line == cmd.Script {
			continue
		}
		first, _, _ := strings.Cut(line, " ")
		if slices.Contains(execs, first) {
			out = append(out, line)
		}
	}
	return textutil.Unique(out)
}

func closeMatches(h *host.Host, word string, possibilities []string) []string {
	return textutil.CloseMatches(word, possibilities, textutil.WithLimit(h.NumCloseMatches))
}

// history: a nearby command the user already ran successfully.
type historyRule struct {
	base
	h *host.Host
}

func newHistory(h *host.Host) Rule {
	return historyRule{newBase("history", outputOptional(), priority(9999)), h}
}

func (r historyRule) Match(cmd *command.Command, sh shell.Shell) bool {
	return len(closeMatches(r.h, cmd.Script, validHistory(r.h, cmd, sh))) > 0
}

func (r historyRule) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return closeMatches(r.h, cmd.Script, validHistory(r.h, cmd, sh))
}

// no_command: the program does not exist; offer the closest ones that do,
// preferring programs already used in history.
type noCommand struct {
	base
	h *host.Host
}

func newNoCommand(h *host.Host) Rule {
	return sudoSupport(noCommand{newBase("no_command", priority(3000)), h})
}

func (r noCommand) Match(cmd *command.Command, sh shell.Shell) bool {
	first := arg(cmd, 0)
	if first == "" || r.h.Which(first) != "" {
		return false
	}
	if !textutil.ContainsAny(cmd.Output, "not found", "is not recognized as") {
		return false
	}
	return len(closeMatches(r.h, first, r.h.AllExecutables(sh.BuiltinCommands()))) > 0
}

func (r noCommand) usedExecutables(sh shell.Shell) []string {
	var used []string
	for _, line := range sh.History() {
		if parts := sh.SplitCommand(line); len(parts) > 0 {
			used = append(used, parts[0])
		}
	}
	return textutil.Unique(used)
}

func (r noCommand) Suggest(cmd *command.Command, sh shell.Shell) []string {
	old := arg(cmd, 0)
	var names []string
	if used := textutil.Closest(old, r.usedExecutables(sh)); used != "" {
		names = append(names, used)
	}
	for _, name := range closeMatches(r.h, old, r.h.AllExecutables(sh.BuiltinCommands())) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, strings.Replace(cmd.Script, old, name, 1))
	}
	return out
}

// path_from_history: a relative path that failed, and an absolute one
// ending the same way appears in history.

var missingPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)no such file or directory: (.*)$`),
	regexp.MustCompile(`(?i)cannot access '(.*)': No such file or directory`),
	regexp.MustCompile(`(?i): (.*): No such file or directory`),
	regexp.MustCompile(`(?im)can't cd to (.*)$`),
}

type pathFromHistory struct {
	base
	h *host.Host
}

func newPathFromHistory(h *host.Host) Rule {
	return pathFromHistory{newBase("path_from_history", priority(800)), h}
}

func missingPath(cmd *command.Command) string {
	for _, re := range missingPathPatterns {
		if found := textutil.Submatch(re, cmd.Output, 1); found != "" && strings.Contains(cmd.Script, found) {
			return found
		}
	}
	return ""
}

func (pathFromHistory) Match(cmd *command.Command, _ shell.Shell) bool {
	return missingPath(cmd) != ""
}

// absolutePaths counts absolute arguments in history, most used first.
func (r pathFromHistory) absolutePaths(cmd *command.Command, sh shell.Shell) []string {
	counts := make(map[string]int)
	var order []string
	for _, line := range validHistory(r.h, cmd, sh) {
		parts := sh.SplitCommand(line)
		if len(parts) < 2 {
			continue
		}
		for _, p := range parts[1:] {
			if !strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "~") {
				continue
			}
			if len(p) > 1 {
				p = strings.TrimSuffix(p, "/")
			}
			if counts[p] == 0 {
				order = append(order, p)
			}
			counts[p]++
		}
	}
	slices.SortStableFunc(order, func(a, b string) int { return cmp.Compare(counts[b], counts[a]) })
	return order
}

func (r pathFromHistory) Suggest(cmd *command.Command, sh shell.Shell) []string {
	dest := missingPath(cmd)
	var out []string
	for _, p := range r.absolutePaths(cmd, sh) {
		if strings.HasSuffix(p, dest) && r.h.Exists(p) {
			out = append(out, textutil.ReplaceArgument(cmd.Script, dest, p))
		}
	}
	return out
}
