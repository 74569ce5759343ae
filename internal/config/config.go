// Package config provides configuration management for ohcrab
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AllRules in rules.enabled stands for every rule that is on by default.
const AllRules = "ALL"

// Config holds all configuration for the application
type Config struct {
	Alias          string `mapstructure:"alias"`
	Shell          string `mapstructure:"shell"`
	CommandHistory string `mapstructure:"command_history"`
	Debug          bool   `mapstructure:"debug"`

	// RequireConfirmation shows the selection menu. When false the top
	// candidate is printed straight away.
	RequireConfirmation bool `mapstructure:"require_confirmation"`
	NoColors            bool `mapstructure:"no_colors"`

	HistoryLimit               int      `mapstructure:"history_limit"`
	NumCloseMatches            int      `mapstructure:"num_close_matches"`
	ExcludedSearchPathPrefixes []string `mapstructure:"excluded_search_path_prefixes"`

	WaitCommand     int      `mapstructure:"wait_command"`
	WaitSlowCommand int      `mapstructure:"wait_slow_command"`
	SlowCommands    []string `mapstructure:"slow_commands"`

	Rules   RulesConfig   `mapstructure:"rules"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RulesConfig selects and reorders rules by name.
type RulesConfig struct {
	Enabled  []string       `mapstructure:"enabled"`
	Exclude  []string       `mapstructure:"exclude"`
	Priority map[string]int `mapstructure:"priority"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

var v = viper.New()

// Reset drops everything loaded or bound so far.
func Reset() {
	v = viper.New()
}

// BindFlag lets a command-line flag override key.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag not defined", key)
	}
	return v.BindPFlag(key, flag)
}

// Load reads the configuration file at path (or the default location) and
// the OHCRAB_* environment. Only a missing default file is tolerated, and
// nothing is ever written back.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults()

	v.SetEnvPrefix("OHCRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Logging.File != "" {
		home, _ := os.UserHomeDir()
		cfg.Logging.File = expandPath(cfg.Logging.File, home)
	}
	return &cfg, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.NumCloseMatches <= 0:
		return fmt.Errorf("num_close_matches must be positive, got %d", c.NumCloseMatches)
	case c.WaitCommand < 0 || c.WaitSlowCommand < 0:
		return errors.New("wait_command and wait_slow_command must not be negative")
	case c.HistoryLimit < 0:
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	return nil
}

// Timeout returns how long the previous command may run while its output
// is captured again.
func (c *Config) Timeout(script string) time.Duration {
	if c.IsSlow(script) {
		return time.Duration(c.WaitSlowCommand) * time.Second
	}
	return time.Duration(c.WaitCommand) * time.Second
}

// IsSlow reports whether script starts with one of slow_commands.
func (c *Config) IsSlow(script string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(script), " ")
	return slices.Contains(c.SlowCommands, first)
}

func setDefaults() {
	v.SetDefault("alias", "crab")
	v.SetDefault("shell", "")
	v.SetDefault("command_history", "")
	v.SetDefault("debug", false)
	v.SetDefault("require_confirmation", true)
	v.SetDefault("no_colors", false)
	v.SetDefault("history_limit", 0)
	v.SetDefault("num_close_matches", 3)
	v.SetDefault("excluded_search_path_prefixes", []string{})
	v.SetDefault("wait_command", 3)
	v.SetDefault("wait_slow_command", 15)
	v.SetDefault("slow_commands", []string{"lein", "react-native", "gradle", "./gradlew", "vagrant"})

	v.SetDefault("rules.enabled", []string{AllRules})
	v.SetDefault("rules.exclude", []string{})
	v.SetDefault("rules.priority", map[string]int{})

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
}

// expandPath expands ~ and environment variables in a path
func expandPath(path, homeDir string) string {
	if strings.HasPrefix(path, "~") {
		path = filepath.Join(homeDir, path[1:])
	}
	return os.ExpandEnv(path)
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ohcrab", "config.yaml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ohcrab.yaml"
	}
	return filepath.Join(homeDir, ".config", "ohcrab", "config.yaml")
}
