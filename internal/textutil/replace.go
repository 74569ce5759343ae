package textutil

import (
	"regexp"
	"strings"
)

// ReplaceArgument swaps a single occurrence of the word from in script. A
// trailing " from" is preferred; otherwise the first " from " surrounded by
// spaces is replaced.
func ReplaceArgument(script, from, to string) string {
	if from == "" {
		return script
	}
	if strings.HasSuffix(script, " "+from) {
		return script[:len(script)-len(from)] + to
	}
	return strings.Replace(script, " "+from+" ", " "+to+" ", 1)
}

// ReplaceCommand returns script with broken replaced by each candidate, in
// candidate order.
func ReplaceCommand(script, broken string, candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, ReplaceArgument(script, broken, strings.TrimSpace(c)))
	}
	return out
}

// MatchedCommands collects the non-empty lines that follow the first line
// containing any of the separators. Typo reports usually list their
// suggestions this way.
func MatchedCommands(output string, separators ...string) []string {
	if len(separators) == 0 {
		separators = []string{"Did you mean"}
	}
	var out []string
	collecting := false
	for _, line := range strings.Split(output, "\n") {
		if containsAny(line, separators) {
			collecting = true
			continue
		}
		if collecting && strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

// Submatch returns capture group i of the first match of re in s, or "".
func Submatch(re *regexp.Regexp, s string, i int) string {
	m := re.FindStringSubmatch(s)
	if len(m) <= i {
		return ""
	}
	return m[i]
}

// AllSubmatches returns capture group i of every match of re in s.
func AllSubmatches(re *regexp.Regexp, s string, i int) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		if len(m) > i {
			out = append(out, m[i])
		}
	}
	return out
}

// ContainsAny reports whether s contains any of subs.
func ContainsAny(s string, subs ...string) bool {
	return containsAny(s, subs)
}

// ContainsFold reports whether s contains sub ignoring case.
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Unique drops repeated strings, keeping first occurrences.
func Unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
