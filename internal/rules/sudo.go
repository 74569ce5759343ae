package rules

import (
	"regexp"
	"slices"
	"strings"

	"ohcrab/internal/command"
	"ohcrab/internal/host"
	"ohcrab/internal/shell"
	"ohcrab/internal/textutil"
)

// privilegePatterns are lower-cased fragments of "you need root" messages.
var privilegePatterns = []string{
	"permission denied",
	"eacces",
	"pkg: insufficient privileges",
	"you cannot perform this operation unless you are root",
	"non-root users cannot",
	"operation not permitted",
	"not super-user",
	"superuser privilege",
	"root privilege",
	"this command has to be run under the root user.",
	"this operation requires root.",
	"requested operation requires superuser privilege",
	"must be run as root",
	"must run as root",
	"must be superuser",
	"must be root",
	"need to be root",
	"need root",
	"needs to be run as root",
	"only root can ",
	"you don't have access to the history db.",
	"authentication is required",
	"edspermissionerror",
	"you don't have write permissions",
	"use `sudo`",
	"sudorequirederror",
	"error: insufficient privileges",
	"updatedb: can not open a temporary file",
}

type sudo struct{ base }

func newSudo() Rule { return sudo{newBase("sudo")} }

func (sudo) Match(cmd *command.Command, _ shell.Shell) bool {
	parts := cmd.Parts()
	if len(parts) > 0 && parts[0] == "sudo" && !slices.Contains(parts, "&&") {
		return false
	}
	return textutil.ContainsAny(lower(cmd.Output), privilegePatterns...)
}

func (sudo) Suggest(cmd *command.Command, _ shell.Shell) []string {
	switch {
	case strings.Contains(cmd.Script, "&&"):
		var words []string
		for _, p := range cmd.Parts() {
			if p != "sudo" {
				words = append(words, p)
			}
		}
		return single(`sudo sh -c "` + strings.Join(words, " ") + `"`)
	case strings.Contains(cmd.Script, ">"):
		return single(`sudo sh -c "` + strings.ReplaceAll(cmd.Script, `"`, `\"`) + `"`)
	default:
		return single(sudoPrefix + cmd.Script)
	}
}

// unsudo: tools that refuse to run as root.

type unsudo struct{ base }

func newUnsudo() Rule { return unsudo{newBase("unsudo")} }

func (unsudo) Match(cmd *command.Command, _ shell.Shell) bool {
	return arg(cmd, 0) == "sudo" &&
		strings.Contains(lower(cmd.Output), "you cannot perform this operation as root")
}

func (unsudo) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Join(cmd.Parts()[1:], " "))
}

// sudo_command_from_user_path: sudo resets PATH and loses user binaries.

var sudoNotFound = regexp.MustCompile(`sudo: (.*): command not found`)

type sudoCommandFromUserPath struct {
	base
	h *host.Host
}

func newSudoCommandFromUserPath(h *host.Host) Rule {
	return sudoCommandFromUserPath{newBase("sudo_command_from_user_path"), h}
}

func (r sudoCommandFromUserPath) Match(cmd *command.Command, _ shell.Shell) bool {
	if !forApp(cmd, "sudo") || !strings.Contains(cmd.Output, "command not found") {
		return false
	}
	name := textutil.Submatch(sudoNotFound, cmd.Output, 1)
	return name != "" && r.h.Which(name) != ""
}

func (sudoCommandFromUserPath) Suggest(cmd *command.Command, _ shell.Shell) []string {
	name := textutil.Submatch(sudoNotFound, cmd.Output, 1)
	return single(textutil.ReplaceArgument(cmd.Script, name, `env "PATH=$PATH" `+name))
}
