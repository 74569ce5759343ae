// Package metrics counts what the correction engine did during one
// invocation. The snapshot is logged as JSON in debug mode.
package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

// Metrics holds the counters of a single correction run. The zero value is
// not usable; call New.
type Metrics struct {
	RulesEvaluated atomic.Int64
	RulesSkipped   atomic.Int64
	RulesMatched   atomic.Int64
	RulesFailed    atomic.Int64

	CandidatesProduced atomic.Int64
	CandidatesReturned atomic.Int64

	SideEffectsRun    atomic.Int64
	SideEffectsFailed atomic.Int64

	StartTime time.Time
	Version   string

	ruleDurations map[string]time.Duration
	customCounter map[string]*atomic.Int64
	histograms    map[string]*histogram
	mu            sync.RWMutex
}

type histogram struct {
	buckets []int64
	counts  []atomic.Int64
	sum     atomic.Int64
	count   atomic.Int64
}

// New creates an empty set of counters.
func New(version string) *Metrics {
	return &Metrics{
		StartTime:     time.Now(),
		Version:       version,
		ruleDurations: make(map[string]time.Duration),
		customCounter: make(map[string]*atomic.Int64),
		histograms:    make(map[string]*histogram),
	}
}

// RuleDurationBuckets are the histogram bounds, in microseconds, used for
// rule evaluation time.
var RuleDurationBuckets = []int64{50, 200, 1000, 10000, 100000}

// RecordRule stores how long one rule took to match and suggest.
func (m *Metrics) RecordRule(name string, d time.Duration) {
	m.mu.Lock()
	m.ruleDurations[name] += d
	m.mu.Unlock()
	m.RecordHistogram("rule_us", d.Microseconds(), RuleDurationBuckets)
}

// IncrementCounter increments a named counter, e.g. per rule matches.
func (m *Metrics) IncrementCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, ok := m.customCounter[name]
	if !ok {
		counter = &atomic.Int64{}
		m.customCounter[name] = counter
	}
	counter.Add(1)
}

// Counter returns the value of a named counter.
func (m *Metrics) Counter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customCounter[name]; ok {
		return c.Load()
	}
	return 0
}

// RecordHistogram records a value in a histogram
func (m *Metrics) RecordHistogram(name string, value int64, buckets []int64) {
	m.mu.Lock()
	h, ok := m.histograms[name]
	if !ok {
		h = &histogram{
			buckets: buckets,
			counts:  make([]atomic.Int64, len(buckets)+1),
		}
		m.histograms[name] = h
	}
	m.mu.Unlock()

	h.sum.Add(value)
	h.count.Add(1)

	for i, bucket := range h.buckets {
		if value <= bucket {
			h.counts[i].Add(1)
			return
		}
	}
	h.counts[len(h.buckets)].Add(1)
}

// Slowest returns up to n rule names ordered by time spent, slowest first.
func (m *Metrics) Slowest(n int) []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.ruleDurations))
	for name := range m.ruleDurations {
		names = append(names, name)
	}
	durations := m.ruleDurations
	sort.Slice(names, func(i, j int) bool {
		if durations[names[i]] != durations[names[j]] {
			return durations[names[i]] > durations[names[j]]
		}
		return names[i] < names[j]
	})
	m.mu.RUnlock()

	if len(names) > n {
		names = names[:n]
	}
	return names
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() map[string]any {
	m.mu.RLock()
	counters := make(map[string]int64, len(m.customCounter))
	for name, c := range m.customCounter {
		counters[name] = c.Load()
	}
	hists := make(map[string]any, len(m.histograms))
	for name, h := range m.histograms {
		counts := make([]int64, len(h.counts))
		for i := range h.counts {
			counts[i] = h.counts[i].Load()
		}
		hists[name] = map[string]any{
			"buckets": h.buckets,
			"counts":  counts,
			"sum":     h.sum.Load(),
			"count":   h.count.Load(),
		}
	}
	m.mu.RUnlock()

	return map[string]any{
		"rules": map[string]int64{
			"evaluated": m.RulesEvaluated.Load(),
			"skipped":   m.RulesSkipped.Load(),
			"matched":   m.RulesMatched.Load(),
			"failed":    m.RulesFailed.Load(),
		},
		"candidates": map[string]int64{
			"produced": m.CandidatesProduced.Load(),
			"returned": m.CandidatesReturned.Load(),
		},
		"side_effects": map[string]int64{
			"run":    m.SideEffectsRun.Load(),
			"failed": m.SideEffectsFailed.Load(),
		},
		"slowest_rules": m.Slowest(5),
		"elapsed":       time.Since(m.StartTime).String(),
		"version":       m.Version,
		"counters":      counters,
		"histograms":    hists,
	}
}

// JSON returns metrics as JSON
func (m *Metrics) JSON() ([]byte, error) {
	return json.Marshal(m.Snapshot())
}
