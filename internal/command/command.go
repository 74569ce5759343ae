// Package command describes the failed invocation that rules inspect.
package command

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// Command is the user's previous invocation together with what it printed.
type Command struct {
	// Script is the full command text as typed.
	Script string
	// Output is stdout and stderr combined. Empty means the command
	// produced nothing.
	Output string

	parts []string
	lexed bool
}

// New creates a Command from a script and its captured output.
func New(script, output string) *Command {
	return &Command{Script: script, Output: output}
}

// HasOutput reports whether the command printed anything.
func (c *Command) HasOutput() bool {
	return c.Output != ""
}

// Parts returns the shell-lexed words of Script. The result is cached and
// must not be modified by callers.
func (c *Command) Parts() []string {
	if !c.lexed {
		c.parts = Split(c.Script)
		c.lexed = true
	}
	return c.parts
}

// App returns the base name of the first word, or "" for an empty script.
func (c *Command) App() string {
	parts := c.Parts()
	if len(parts) == 0 {
		return ""
	}
	return filepath.Base(parts[0])
}

// Update returns a copy of c with a different script. The output is kept.
func (c *Command) Update(script string) *Command {
	return New(script, c.Output)
}

// Rewrite replaces the script in place and drops the cached words.
func (c *Command) Rewrite(script string) {
	c.Script = script
	c.parts = nil
	c.lexed = false
}

func (c *Command) String() string {
	return "Command(script=" + c.Script + ")"
}

// Split lexes script with POSIX word splitting and quote handling. When the
// script cannot be lexed completely (an unterminated quote, a trailing
// escape) the words read so far are returned.
func Split(script string) []string {
	lexer := shlex.NewLexer(strings.NewReader(script))
	var parts []string
	for {
		word, err := lexer.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) && word != "" {
				parts = append(parts, word)
			}
			break
		}
		parts = append(parts, word)
	}
	return parts
}
