package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"ohcrab/internal/capture"
	"ohcrab/internal/command"
	"ohcrab/internal/corrector"
	"ohcrab/internal/host"
	"ohcrab/internal/logger"
	"ohcrab/internal/metrics"
	"ohcrab/internal/rules"
	"ohcrab/internal/shell"
	"ohcrab/internal/terminal"
	"ohcrab/internal/ui"
)

// runFix corrects the previous command and prints the chosen script to out.
func runFix(ctx context.Context, out io.Writer, args []string) error {
	log := logger.With("fix")
	sh := shell.New(shell.Detect(cfg.Shell), shell.WithHistoryLimit(cfg.HistoryLimit))

	script := ResolveScript(args, cfg.CommandHistory, sh, []string{cfg.Alias, shell.Program})
	if script == "" {
		log.Debug("nothing to correct")
		return nil
	}
	log.Debug("correcting", "script", script, "shell", sh.Name())

	caps := terminal.Detect()
	renderer := ui.NewRenderer(os.Stderr, caps, cfg.NoColors)

	output := captureOutput(ctx, sh, script, caps)
	cmd := command.New(script, output)

	h := newHost()
	m := metrics.New(Version)
	c := corrector.New(rules.All(h),
		corrector.WithEnabled(cfg.Rules.Enabled),
		corrector.WithExcluded(cfg.Rules.Exclude),
		corrector.WithPriorities(cfg.Rules.Priority),
		corrector.WithMetrics(m),
	)
	defer logStatistics(log, m)

	candidates := c.Correct(cmd, sh)
	if len(candidates) == 0 {
		renderer.Notice("No fixes found")
		return nil
	}

	chosen := 0
	if selectFirst || !cfg.RequireConfirmation || !terminal.IsInteractive() {
		renderer.Chosen(candidates[0].Script, candidates[0].HasSideEffect())
	} else {
		idx, err := ui.Select(ctx, menuItems(candidates), ui.Options{NoColors: cfg.NoColors})
		if errors.Is(err, ui.ErrAborted) {
			renderer.Notice("Aborted")
			return nil
		}
		if err != nil {
			return err
		}
		chosen = idx
	}

	_, err := fmt.Fprintln(out, c.Emit(candidates[chosen]))
	return err
}

func newHost() *host.Host {
	h := host.OS()
	h.NumCloseMatches = cfg.NumCloseMatches
	h.ExcludedPathPrefixes = cfg.ExcludedSearchPathPrefixes
	h.Aliases = []string{cfg.Alias, shell.Program}
	return h
}

// captureOutput re-runs script to read its output. Slow commands get a
// spinner when a terminal is attached.
func captureOutput(ctx context.Context, sh shell.Shell, script string, caps *terminal.Capabilities) string {
	capturer := capture.New(sh.Name(), cfg.Timeout(script))
	if !cfg.IsSlow(script) || !caps.IsTTY || cfg.Debug {
		return capturer.Output(ctx, script)
	}

	var output string
	err := ui.RunWithSpinner(os.Stderr, "running "+script, func() error {
		output = capturer.Output(ctx, script)
		return nil
	})
	if err != nil {
		logger.With("fix").Debug("spinner failed", "err", err)
	}
	return output
}

func menuItems(candidates []corrector.CorrectedCommand) []ui.Candidate {
	items := make([]ui.Candidate, len(candidates))
	for i, cc := range candidates {
		items[i] = ui.Candidate{Script: cc.Script, Rule: cc.Rule, SideEffect: cc.HasSideEffect()}
	}
	return items
}

func logStatistics(log *logger.Logger, m *metrics.Metrics) {
	if !log.Enabled(logger.DebugLevel) {
		return
	}
	data, err := m.JSON()
	if err != nil {
		log.Debug("statistics unavailable", "err", err)
		return
	}
	log.Debug("statistics", "json", string(data), "slowest", m.Slowest(3))
}
