package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohcrab/internal/logger"
	"ohcrab/internal/shell"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Add the alias to your shell's init file",
	Long: `Append a line to the init file of your shell that defines the alias on
start-up. Running it twice changes nothing. Use --uninstall to remove it.`,
	Example: `  ohcrab install
  ohcrab install --shell zsh
  ohcrab install --uninstall`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var installUninstall bool

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().BoolVarP(&installUninstall, "uninstall", "u", false, "remove the line added by install")
}

func runInstall(cmd *cobra.Command, _ []string) error {
	log := logger.With("install")
	t := shell.Detect(cfg.Shell)
	installer := shell.NewInstaller(t, cfg.Alias)
	out := cmd.OutOrStdout()

	if installUninstall {
		if err := installer.Uninstall(); err != nil {
			return fmt.Errorf("failed to uninstall: %w", err)
		}
		log.Debug("uninstalled", "file", installer.RCFile())
		fmt.Fprintf(out, "Removed the %s alias from %s\n", cfg.Alias, installer.RCFile())
		return nil
	}

	installed, err := installer.IsInstalled()
	if err != nil {
		return err
	}
	if installed {
		fmt.Fprintf(out, "Already installed in %s\n", installer.RCFile())
		return nil
	}
	if err := installer.Install(); err != nil {
		return fmt.Errorf("failed to install: %w", err)
	}
	log.Debug("installed", "shell", t, "file", installer.RCFile())

	fmt.Fprintf(out, "Added the %s alias to %s\n", cfg.Alias, installer.RCFile())
	fmt.Fprintln(out, "Restart your shell or run:")
	fmt.Fprintf(out, "  %s\n", installer.Line())
	return nil
}
