// Package textutil holds the string helpers shared by correction rules:
// similarity matching, argument substitution and output scraping.
package textutil

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// DefaultLimit is the number of matches CloseMatches returns.
	DefaultLimit = 3
	// DefaultCutoff is the minimum similarity ratio for a match.
	DefaultCutoff = 0.6
)

type matchOptions struct {
	limit  int
	cutoff float64
}

// MatchOption configures CloseMatches.
type MatchOption func(*matchOptions)

// WithLimit caps the number of matches. Values below one keep the default.
func WithLimit(n int) MatchOption {
	return func(o *matchOptions) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithCutoff sets the minimum similarity ratio in [0, 1].
func WithCutoff(c float64) MatchOption {
	return func(o *matchOptions) {
		if c >= 0 && c <= 1 {
			o.cutoff = c
		}
	}
}

// Ratio is the difflib similarity of a and b, compared rune by rune.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// CloseMatches returns the possibilities most similar to word, best first.
// Candidates scoring below the cutoff are dropped and equal scores keep
// their input order.
func CloseMatches(word string, possibilities []string, opts ...MatchOption) []string {
	o := matchOptions{limit: DefaultLimit, cutoff: DefaultCutoff}
	for _, opt := range opts {
		opt(&o)
	}

	type scored struct {
		value string
		score float64
	}
	wordRunes := runes(word)
	var hits []scored
	for _, p := range possibilities {
		m := difflib.NewMatcher(runes(p), wordRunes)
		if m.RealQuickRatio() < o.cutoff || m.QuickRatio() < o.cutoff {
			continue
		}
		if r := m.Ratio(); r >= o.cutoff {
			hits = append(hits, scored{value: p, score: r})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > o.limit {
		hits = hits[:o.limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.value
	}
	return out
}

// Closest returns the best match for word or "" when nothing clears the
// cutoff.
func Closest(word string, possibilities []string, opts ...MatchOption) string {
	matches := CloseMatches(word, possibilities, append(opts, WithLimit(1))...)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// ClosestOrFirst is Closest that falls back to the first possibility.
func ClosestOrFirst(word string, possibilities []string, opts ...MatchOption) string {
	if c := Closest(word, possibilities, opts...); c != "" {
		return c
	}
	if len(possibilities) > 0 {
		return possibilities[0]
	}
	return ""
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Lines splits output into lines without the trailing empty element.
func Lines(output string) []string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}
