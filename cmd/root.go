// Package cmd provides the ohcrab command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ohcrab/internal/config"
	"ohcrab/internal/logger"
	"ohcrab/internal/shell"
)

var (
	// Version is set during build
	Version = "dev"
	// Commit is set during build
	Commit = "unknown"

	cfgFile     string
	debug       bool
	shellName   string
	aliasName   string
	selectFirst bool

	// cfg is loaded before any command runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   shell.Program + " [flags] -- <command>",
		Short: "Corrects your previous console command",
		Long: `ohcrab looks at the command that just failed and what it printed, and
offers corrected versions of it. It is meant to be called through the
shell function printed by --alias, which evaluates the chosen correction.`,
		Example: `  eval "$(ohcrab --alias)"       # in ~/.bashrc or ~/.zshrc
  ohcrab --alias fix | source     # in config.fish
  ohcrab -y -- git brnch          # correct a command directly`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initialize,
		RunE:              runRoot,
	}
)

// useConfiguredAlias is what --alias holds when no name was given.
const useConfiguredAlias = "\x00"

// Execute runs the command line. argv is os.Args without the program name.
func Execute(argv []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetArgs(RewriteArgs(argv))
	rootCmd.Version = fmt.Sprintf("%s (%s)", Version, Commit)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ohcrab:", err)
		return 1
	}
	return 0
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/ohcrab/config.yaml)")
	flags.BoolVarP(&debug, "debug", "d", false, "print diagnostics to stderr")
	flags.StringVar(&shellName, "shell", "", "shell family: bash, zsh, fish, tcsh or powershell")

	rootCmd.Flags().StringVarP(&aliasName, "alias", "a", "", "print the shell function for the alias and exit")
	rootCmd.Flags().Lookup("alias").NoOptDefVal = useConfiguredAlias
	rootCmd.Flags().BoolVarP(&selectFirst, "select-first", "y", false, "print the best correction without asking")
	rootCmd.Flags().BoolVar(&selectFirst, "yes", false, "same as --select-first")
	_ = rootCmd.Flags().MarkHidden("yes")
}

// initialize loads configuration and sets up logging before any command.
func initialize(cmd *cobra.Command, _ []string) error {
	config.Reset()
	for key, name := range map[string]string{"debug": "debug", "shell": "shell"} {
		if err := config.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.File = cfg.Logging.File
	logCfg.MaxSize = cfg.Logging.MaxSize
	logCfg.MaxBackups = cfg.Logging.MaxBackups
	if cfg.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Initialize(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	logger.With("init").Debug("starting", "version", Version, "commit", Commit, "config", path)
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("alias") {
		name, err := aliasFor(aliasName, cfg.Alias, args, cmd.ArgsLenAtDash())
		if err != nil {
			return err
		}
		return printAlias(cmd.OutOrStdout(), name)
	}
	return runFix(cmd.Context(), cmd.OutOrStdout(), args)
}
