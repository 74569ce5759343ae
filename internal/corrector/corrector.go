// Package corrector is the correction engine: it runs every selected rule
// against the failed command and merges their candidates into one ranked,
// de-duplicated list.
package corrector

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"ohcrab/internal/command"
	"ohcrab/internal/config"
	"ohcrab/internal/logger"
	"ohcrab/internal/metrics"
	"ohcrab/internal/middleware"
	"ohcrab/internal/rules"
	"ohcrab/internal/shell"
)

// CorrectedCommand is one ranked candidate.
type CorrectedCommand struct {
	Script string
	// Priority is (position in the rule's output + 1) × rule priority.
	// Lower ranks higher.
	Priority int
	// Rule names the rule that produced the candidate.
	Rule string

	sideEffect rules.SideEffecter
	original   *command.Command
}

// HasSideEffect reports whether choosing the candidate touches the
// filesystem first.
func (c CorrectedCommand) HasSideEffect() bool {
	return c.sideEffect != nil
}

// RunSideEffect runs the producing rule's side effect, if any.
func (c CorrectedCommand) RunSideEffect() error {
	if c.sideEffect == nil {
		return nil
	}
	return middleware.SafeCall(func() error {
		return c.sideEffect.SideEffect(c.original, c.Script)
	})
}

func (c CorrectedCommand) String() string {
	return fmt.Sprintf("CorrectedCommand(script=%s, side_effect=%t, priority=%d)",
		c.Script, c.HasSideEffect(), c.Priority)
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithEnabled selects rules by name. config.AllRules stands for every rule
// that is enabled by default.
func WithEnabled(names []string) Option {
	return func(c *Corrector) {
		if len(names) > 0 {
			c.enabled = names
		}
	}
}

// WithExcluded names rules that never run, whatever else is configured.
func WithExcluded(names []string) Option {
	return func(c *Corrector) { c.excluded = names }
}

// WithPriorities overrides the priority of individual rules.
func WithPriorities(p map[string]int) Option {
	return func(c *Corrector) { c.priorities = p }
}

// WithMetrics records counters into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Corrector) {
		if m != nil {
			c.metrics = m
		}
	}
}

// Corrector runs rules against a failed command.
type Corrector struct {
	rules      []rules.Rule
	enabled    []string
	excluded   []string
	priorities map[string]int
	metrics    *metrics.Metrics
	log        *logger.Logger
}

// New creates a Corrector over rs. Registry order decides ties.
func New(rs []rules.Rule, opts ...Option) *Corrector {
	c := &Corrector{
		rules:   rs,
		enabled: []string{config.AllRules},
		metrics: metrics.New(""),
		log:     logger.With("corrector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metrics returns the counters of this corrector.
func (c *Corrector) Metrics() *metrics.Metrics {
	return c.metrics
}

// RuleStatus describes a registered rule under the current configuration.
type RuleStatus struct {
	rules.Info
	Enabled bool
}

// Status lists every registered rule with its effective priority.
func (c *Corrector) Status() []RuleStatus {
	out := make([]RuleStatus, 0, len(c.rules))
	for _, r := range c.rules {
		info := c.info(r)
		out = append(out, RuleStatus{Info: info, Enabled: c.isEnabled(info)})
	}
	return out
}

func (c *Corrector) info(r rules.Rule) rules.Info {
	info := r.Info()
	if p, ok := c.priorities[info.Name]; ok && p > 0 {
		info.Priority = p
	}
	return info
}

// isEnabled: an exclusion always wins, a rule named explicitly always runs,
// and ALL only brings in the rules that are on by default.
func (c *Corrector) isEnabled(info rules.Info) bool {
	switch {
	case slices.Contains(c.excluded, info.Name):
		return false
	case slices.Contains(c.enabled, info.Name):
		return true
	default:
		return info.EnabledByDefault && slices.Contains(c.enabled, config.AllRules)
	}
}

// Correct returns the candidates for cmd, best first. It never fails: a
// rule that panics counts as not matching.
func (c *Corrector) Correct(cmd *command.Command, sh shell.Shell) []CorrectedCommand {
	if expandGitAlias(cmd, sh) {
		c.log.Debug("expanded git alias", "script", cmd.Script)
	}

	var candidates []CorrectedCommand
	for _, r := range c.rules {
		info := c.info(r)
		if !c.isEnabled(info) {
			continue
		}
		if info.RequiresOutput && !cmd.HasOutput() {
			c.metrics.RulesSkipped.Add(1)
			continue
		}

		scripts := c.evaluate(r, info, cmd, sh)
		sideEffect, _ := r.(rules.SideEffecter)
		for pos, script := range scripts {
			if script == "" {
				continue
			}
			candidates = append(candidates, CorrectedCommand{
				Script:     script,
				Priority:   (pos + 1) * info.Priority,
				Rule:       info.Name,
				sideEffect: sideEffect,
				original:   cmd,
			})
		}
	}
	c.metrics.CandidatesProduced.Add(int64(len(candidates)))

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})
	out := unique(candidates)
	c.metrics.CandidatesReturned.Add(int64(len(out)))
	return out
}

func (c *Corrector) evaluate(r rules.Rule, info rules.Info, cmd *command.Command, sh shell.Shell) []string {
	start := time.Now()
	defer func() { c.metrics.RecordRule(info.Name, time.Since(start)) }()
	c.metrics.RulesEvaluated.Add(1)

	matched := false
	scripts, err := middleware.SafeCallWithResult(func() ([]string, error) {
		if !r.Match(cmd, sh) {
			return nil, nil
		}
		matched = true
		return r.Suggest(cmd, sh), nil
	})
	if err != nil {
		c.metrics.RulesFailed.Add(1)
		c.log.Debug("rule failed", "rule", info.Name, "err", err)
		return nil
	}
	if matched {
		c.metrics.RulesMatched.Add(1)
		c.metrics.IncrementCounter("matched:" + info.Name)
		c.log.Debug("rule matched", "rule", info.Name, "candidates", len(scripts))
	}
	return scripts
}

// Emit runs the candidate's side effect and returns the script to print.
// A failing side effect is logged; the script is returned regardless.
func (c *Corrector) Emit(cc CorrectedCommand) string {
	if cc.HasSideEffect() {
		c.metrics.SideEffectsRun.Add(1)
		if err := cc.RunSideEffect(); err != nil {
			c.metrics.SideEffectsFailed.Add(1)
			c.log.Warn("side effect failed", "rule", cc.Rule, "err", err)
		}
	}
	return cc.Script
}

func unique(in []CorrectedCommand) []CorrectedCommand {
	seen := make(map[string]bool, len(in))
	out := make([]CorrectedCommand, 0, len(in))
	for _, cc := range in {
		if seen[cc.Script] {
			continue
		}
		seen[cc.Script] = true
		out = append(out, cc)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// git alias expansion
// ──────────────────────────────────────────────────────────────────────────────

var aliasTrace = regexp.MustCompile(`trace: alias expansion: ([^ ]*) => ([^\n]*)`)

// expandGitAlias rewrites a git alias in cmd to what it stands for, using
// the GIT_TRACE lines in the output. Only the first trace line and the
// first whole-word occurrence of the alias are used.
func expandGitAlias(cmd *command.Command, sh shell.Shell) bool {
	if app := cmd.App(); app != "git" && app != "hub" {
		return false
	}
	m := aliasTrace.FindStringSubmatch(cmd.Output)
	if m == nil || m[1] == "" {
		return false
	}

	words := sh.SplitCommand(strings.TrimSpace(m[2]))
	if len(words) == 0 {
		return false
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = sh.Quote(w)
	}

	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(m[1]) + `\b`)
	loc := word.FindStringIndex(cmd.Script)
	if loc == nil {
		return false
	}
	cmd.Rewrite(cmd.Script[:loc[0]] + strings.Join(quoted, " ") + cmd.Script[loc[1]:])
	return true
}
