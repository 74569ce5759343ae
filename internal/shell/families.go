package shell

import (
	"fmt"
	"strings"
)

type bash struct{ *base }

func (s *bash) Name() Type { return Bash }

func (s *bash) AppAlias(alias string) string {
	return fmt.Sprintf(`function %[1]s () {
    OHCRAB_PREVIOUS=$(fc -ln -1);
    export OHCRAB_SHELL=bash;
    export OHCRAB_ALIAS=%[1]s;
    export OHCRAB_COMMAND_HISTORY="$OHCRAB_PREVIOUS";
    OHCRAB_CMD=$(
        %[2]s %[3]s "$@"
    ) && eval "$OHCRAB_CMD" && history -s "$OHCRAB_CMD";
    unset OHCRAB_PREVIOUS OHCRAB_COMMAND_HISTORY OHCRAB_CMD;
}
`, alias, Program, ArgumentPlaceholder)
}

type zsh struct{ *base }

func (s *zsh) Name() Type { return Zsh }

func (s *zsh) AppAlias(alias string) string {
	return fmt.Sprintf(`%[1]s () {
    OHCRAB_PREVIOUS="$(fc -ln -1 | tail -n 1)";
    export OHCRAB_SHELL=zsh;
    export OHCRAB_ALIAS=%[1]s;
    export OHCRAB_COMMAND_HISTORY="$OHCRAB_PREVIOUS";
    OHCRAB_CMD=$(
        %[2]s %[3]s $@
    ) && eval "$OHCRAB_CMD";
    test -n "$OHCRAB_CMD" && print -s "$OHCRAB_CMD";
    unset OHCRAB_PREVIOUS OHCRAB_COMMAND_HISTORY OHCRAB_CMD;
}
`, alias, Program, ArgumentPlaceholder)
}

type tcsh struct{ *base }

func (s *tcsh) Name() Type { return Tcsh }

func (s *tcsh) AppAlias(alias string) string {
	return fmt.Sprintf("alias %[1]s 'setenv OHCRAB_SHELL tcsh && setenv OHCRAB_ALIAS %[1]s && "+
		"set ohcrab_prev=`history -h 2 | head -n 1` && "+
		"eval `env OHCRAB_COMMAND_HISTORY=\"$ohcrab_prev\" %[2]s %[3]s`'\n",
		alias, Program, ArgumentPlaceholder)
}

type fish struct{ *base }

func (s *fish) Name() Type { return Fish }

func (s *fish) And(commands ...string) string {
	return strings.Join(commands, "; and ")
}

func (s *fish) Or(commands ...string) string {
	return strings.Join(commands, "; or ")
}

func (s *fish) BuiltinCommands() []string {
	return fishBuiltins
}

func (s *fish) AppAlias(alias string) string {
	return fmt.Sprintf(`function %[1]s -d "Correct your previous console command"
    set -l ohcrab_prev $history[1]
    env OHCRAB_SHELL=fish OHCRAB_ALIAS=%[1]s OHCRAB_COMMAND_HISTORY="$ohcrab_prev" %[2]s %[3]s $argv | read -l ohcrab_cmd
    if [ "$ohcrab_cmd" != "" ]
        commandline "$ohcrab_cmd"
        commandline -f execute
    end
end
`, alias, Program, ArgumentPlaceholder)
}

type powerShell struct{ *base }

func (s *powerShell) Name() Type { return PowerShell }

func (s *powerShell) And(commands ...string) string {
	return "(" + strings.Join(commands, ") -and (") + ")"
}

func (s *powerShell) Or(commands ...string) string {
	return "(" + strings.Join(commands, ") -or (") + ")"
}

func (s *powerShell) Quote(word string) string {
	return "'" + strings.ReplaceAll(word, "'", "''") + "'"
}

func (s *powerShell) BuiltinCommands() []string {
	return nil
}

func (s *powerShell) AppAlias(alias string) string {
	return fmt.Sprintf(`function %[1]s {
    $ohcrabPrev = (Get-History -Count 1).CommandLine;
    if (-not [string]::IsNullOrWhiteSpace($ohcrabPrev)) {
        $env:OHCRAB_SHELL = "powershell";
        $env:OHCRAB_ALIAS = "%[1]s";
        $env:OHCRAB_COMMAND_HISTORY = $ohcrabPrev;
        $ohcrabCmd = $(%[2]s %[3]s $args);
        if (-not [string]::IsNullOrWhiteSpace($ohcrabCmd)) {
            iex "$ohcrabCmd";
        }
    }
    [Console]::ResetColor()
}
`, alias, Program, ArgumentPlaceholder)
}

var fishBuiltins = []string{
	"abbr", "alias", "and", "argparse", "begin", "bg", "bind",
	"block", "break", "breakpoint", "builtin", "case", "cd",
	"command", "commandline", "complete", "contains", "continue",
	"count", "echo", "else", "emit", "end", "eval", "exec",
	"exit", "fg", "for", "function", "functions", "history",
	"if", "jobs", "math", "not", "or", "pwd", "random", "read",
	"realpath", "return", "set", "set_color", "source", "status",
	"string", "switch", "test", "time", "type", "ulimit", "wait",
	"while",
}
