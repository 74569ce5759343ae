package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ohcrab/internal/corrector"
	"ohcrab/internal/rules"
	"ohcrab/internal/terminal"
	"ohcrab/internal/ui"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the correction rules",
	Long: `List every rule available on this machine with whether the current
configuration enables it, its effective priority and whether it needs the
command's output. Lower priorities rank first.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

var rulesEnabledOnly bool

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVarP(&rulesEnabledOnly, "enabled", "e", false, "only list enabled rules")
}

func runRules(cmd *cobra.Command, _ []string) error {
	c := corrector.New(rules.All(newHost()),
		corrector.WithEnabled(cfg.Rules.Enabled),
		corrector.WithExcluded(cfg.Rules.Exclude),
		corrector.WithPriorities(cfg.Rules.Priority),
	)

	rows := make([]ui.RuleRow, 0)
	for _, st := range c.Status() {
		if rulesEnabledOnly && !st.Enabled {
			continue
		}
		rows = append(rows, ui.RuleRow{
			Name:           st.Name,
			Enabled:        st.Enabled,
			Priority:       st.Priority,
			RequiresOutput: st.RequiresOutput,
		})
	}

	caps := terminal.NewDetector(nil, int(os.Stdout.Fd())).Detect()
	title := cases.Title(language.English).String("correction rules")
	ui.NewRenderer(cmd.OutOrStdout(), caps, cfg.NoColors).RuleTable(title, rows)
	return nil
}
