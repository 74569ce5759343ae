package cmd

import (
	"errors"
	"fmt"
	"io"

	"ohcrab/internal/shell"
)

var errAliasWithCommand = errors.New("--alias cannot be combined with a command")

// aliasFor resolves the name --alias prints a function for. flagValue is the
// raw flag, args and dash are what cobra passed to the command.
func aliasFor(flagValue, configured string, args []string, dash int) (string, error) {
	positional := args
	if dash >= 0 && dash <= len(args) {
		positional = args[:dash]
	}
	if len(positional) < len(args) || len(positional) > 1 {
		return "", errAliasWithCommand
	}

	name := flagValue
	if name == useConfiguredAlias {
		name = configured
		if len(positional) == 1 {
			name = positional[0]
		}
	} else if len(positional) == 1 {
		return "", errAliasWithCommand
	}
	return name, nil
}

// printAlias writes the shell function that wires name to the program.
func printAlias(out io.Writer, name string) error {
	if name == "" {
		return fmt.Errorf("alias name must not be empty")
	}
	sh := shell.New(shell.Detect(cfg.Shell))
	_, err := fmt.Fprint(out, sh.AppAlias(name))
	return err
}
