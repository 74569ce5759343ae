package cmd

import (
	"slices"
	"strings"

	"ohcrab/internal/shell"
)

// RewriteArgs turns the argv the alias function passes,
// "<command...> PLACEHOLDER <flags...>", into "<flags...> -- <command...>".
// Without a placeholder argv is returned unchanged.
func RewriteArgs(argv []string) []string {
	i := slices.Index(argv, shell.ArgumentPlaceholder)
	if i < 0 {
		return argv
	}
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[i+1:]...)
	out = append(out, "--")
	return append(out, argv[:i]...)
}

// ResolveScript picks the command to correct: the words given on the
// command line, then the command the alias function exported, then the
// newest history entry that is not a call to one of aliases.
func ResolveScript(args []string, exported string, sh shell.Shell, aliases []string) string {
	if script := strings.TrimSpace(strings.Join(args, " ")); script != "" {
		return script
	}
	if script := strings.TrimSpace(exported); script != "" {
		return script
	}
	for _, line := range sh.History() {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _, _ := strings.Cut(line, " ")
		if slices.Contains(aliases, first) {
			continue
		}
		return line
	}
	return ""
}
