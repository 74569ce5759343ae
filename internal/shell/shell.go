// Package shell provides the shell-specific operations the correction engine
// and rules depend on: chaining commands, quoting words, reading history and
// producing the alias function users source from their shell init files.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/syntax"

	"ohcrab/internal/command"
)

// Type identifies a shell family
type Type string

const (
	Bash       Type = "bash"
	Zsh        Type = "zsh"
	Fish       Type = "fish"
	Tcsh       Type = "tcsh"
	PowerShell Type = "powershell"
)

// Program is the executable name the alias function invokes.
const Program = "ohcrab"

// ArgumentPlaceholder separates the user's argv from the tool's own flags
// in the alias function.
const ArgumentPlaceholder = "OHCRAB_ARGUMENT_PLACEHOLDER"

// Shell is the capability consumed by the engine and by rules.
type Shell interface {
	// Name returns the shell family.
	Name() Type
	// And joins commands so each one runs only if the previous succeeded.
	And(commands ...string) string
	// Or joins commands so each one runs only if the previous failed.
	Or(commands ...string) string
	// Quote makes a single word safe to paste into a script.
	Quote(word string) string
	// SplitCommand lexes a script into words.
	SplitCommand(script string) []string
	// BuiltinCommands lists shell builtins.
	BuiltinCommands() []string
	// History returns previously executed commands, most recent first.
	History() []string
	// AppAlias returns the function text that wires alias to the program.
	AppAlias(alias string) string
}

// Option configures a shell created by New.
type Option func(*base)

// WithFs sets the filesystem history files are read from.
func WithFs(fs afero.Fs) Option {
	return func(b *base) {
		if fs != nil {
			b.fs = fs
		}
	}
}

// WithHistoryFile overrides the history file location.
func WithHistoryFile(path string) Option {
	return func(b *base) {
		b.histFile = path
	}
}

// WithHistoryLimit keeps only the n most recent history entries. Zero means
// no limit.
func WithHistoryLimit(n int) Option {
	return func(b *base) {
		if n > 0 {
			b.limit = n
		}
	}
}

// WithHistory supplies history lines directly, most recent first, instead of
// reading a file.
func WithHistory(lines []string) Option {
	return func(b *base) {
		b.preset = lines
		b.hasPreset = true
	}
}

// New creates a shell of the given family. Unknown names fall back to bash.
func New(name Type, opts ...Option) Shell {
	b := &base{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(b)
	}

	switch name {
	case Zsh:
		if b.histFile == "" {
			b.histFile = histFileFromEnv(".zsh_history")
		}
		b.parse = parseZshHistory
		return &zsh{base: b}
	case Fish:
		if b.histFile == "" {
			b.histFile = filepath.Join(homeDir(), ".local", "share", "fish", "fish_history")
		}
		b.parse = parseFishHistory
		return &fish{base: b}
	case Tcsh:
		if b.histFile == "" {
			b.histFile = histFileFromEnv(".history")
		}
		b.parse = parseBashHistory
		return &tcsh{base: b}
	case PowerShell:
		if b.histFile == "" {
			b.histFile = filepath.Join(homeDir(), ".local", "share", "powershell", "PSReadLine", "ConsoleHost_history.txt")
		}
		b.parse = parseBashHistory
		return &powerShell{base: b}
	default:
		if b.histFile == "" {
			b.histFile = histFileFromEnv(".bash_history")
		}
		b.parse = parseBashHistory
		return &bash{base: b}
	}
}

// ParseType maps a shell name or path (e.g. "/usr/bin/zsh", "pwsh") to its
// family.
func ParseType(name string) (Type, error) {
	switch filepath.Base(strings.TrimSpace(name)) {
	case "bash", "sh":
		return Bash, nil
	case "zsh":
		return Zsh, nil
	case "fish":
		return Fish, nil
	case "tcsh", "csh":
		return Tcsh, nil
	case "pwsh", "powershell":
		return PowerShell, nil
	default:
		return "", fmt.Errorf("unsupported shell: %q", name)
	}
}

// Detect picks the shell family from an explicit override, falling back to
// $SHELL and finally to bash.
func Detect(override string) Type {
	if override != "" {
		if t, err := ParseType(override); err == nil {
			return t
		}
	}
	if t, err := ParseType(os.Getenv("SHELL")); err == nil {
		return t
	}
	return Bash
}

// base holds what every shell family shares.
type base struct {
	fs        afero.Fs
	histFile  string
	limit     int
	parse     func(data string) []string
	preset    []string
	hasPreset bool
}

func (b *base) And(commands ...string) string {
	return strings.Join(commands, " && ")
}

func (b *base) Or(commands ...string) string {
	return strings.Join(commands, " || ")
}

func (b *base) Quote(word string) string {
	quoted, err := syntax.Quote(word, syntax.LangBash)
	if err != nil {
		return "'" + strings.ReplaceAll(word, "'", `'"'"'`) + "'"
	}
	return quoted
}

func (b *base) SplitCommand(script string) []string {
	return command.Split(script)
}

func (b *base) BuiltinCommands() []string {
	return posixBuiltins
}

// History reads the history file, newest entry first.
func (b *base) History() []string {
	var lines []string
	if b.hasPreset {
		lines = append(lines, b.preset...)
	} else {
		data, err := afero.ReadFile(b.fs, b.histFile)
		if err != nil {
			return nil
		}
		oldestFirst := b.parse(string(data))
		lines = make([]string, 0, len(oldestFirst))
		for i := len(oldestFirst) - 1; i >= 0; i-- {
			lines = append(lines, oldestFirst[i])
		}
	}
	if b.limit > 0 && len(lines) > b.limit {
		lines = lines[:b.limit]
	}
	return lines
}

func histFileFromEnv(fallback string) string {
	if histfile := os.Getenv("HISTFILE"); histfile != "" {
		return histfile
	}
	return filepath.Join(homeDir(), fallback)
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

var posixBuiltins = []string{
	"alias", "bg", "bind", "break", "builtin", "case", "cd",
	"command", "compgen", "complete", "continue", "declare",
	"dirs", "disown", "echo", "enable", "eval", "exec", "exit",
	"export", "fc", "fg", "getopts", "hash", "help", "history",
	"if", "jobs", "kill", "let", "local", "logout", "popd",
	"printf", "pushd", "pwd", "read", "readonly", "return", "set",
	"shift", "shopt", "source", "suspend", "test", "times", "trap",
	"type", "typeset", "ulimit", "umask", "unalias", "unset",
	"until", "wait", "while",
}
