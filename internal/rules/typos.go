package rules

import (
	"path"
	"regexp"
	"slices"
	"strings"

	"ohcrab/internal/command"
	"ohcrab/internal/host"
	"ohcrab/internal/shell"
	"ohcrab/internal/textutil"
)

// Rules for tools that report an unknown subcommand. Most print their own
// guesses; the rest are matched against the tool's command list.

var brewUnknown = regexp.MustCompile(`Error: Unknown command: ([a-z]+)`)

var brewFallbackCommands = []string{
	"info", "home", "options", "install", "uninstall", "search", "list",
	"update", "upgrade", "pin", "unpin", "doctor", "create", "edit", "cask",
}

type brewUnknownCommand struct {
	base
	h *host.Host
}

func newBrewUnknownCommand(h *host.Host) Rule {
	return brewUnknownCommand{newBase("brew_unknown_command"), h}
}

// commands lists the installed brew subcommands, falling back to the common
// ones when brew cannot be asked.
func (r brewUnknownCommand) commands() []string {
	out, err := r.h.Output("brew", "--prefix")
	if err != nil {
		return brewFallbackCommands
	}
	dir := path.Join(strings.TrimSpace(string(out)), "Library", "Homebrew", "cmd")
	var cmds []string
	for _, name := range r.h.ListDir(dir) {
		if ext := path.Ext(name); ext == ".rb" || ext == ".sh" {
			cmds = append(cmds, strings.TrimSuffix(name, ext))
		}
	}
	if len(cmds) == 0 {
		return brewFallbackCommands
	}
	return cmds
}

func (brewUnknownCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	if !isApp(cmd, 1, "brew") || !strings.Contains(cmd.Output, "Unknown command") {
		return false
	}
	broken := textutil.Submatch(brewUnknown, cmd.Output, 1)
	return broken != "" && textutil.Closest(broken, brewFallbackCommands) != ""
}

func (r brewUnknownCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return replaceClosest(cmd, textutil.Submatch(brewUnknown, cmd.Output, 1), r.commands())
}

var (
	composerUndefined = regexp.MustCompile(`Command "([^']*)" is not defined`)
	composerMeantOne  = regexp.MustCompile(`Did you mean this\?[^\n]*\n\s*([^\n]*)`)
	composerMeantMany = regexp.MustCompile(`Did you mean one of these\?[^\n]*\n\s*([^\n]*)`)
)

type composerNotCommand struct{ base }

func newComposerNotCommand() Rule { return composerNotCommand{newBase("composer_not_command")} }

func composerInstallInsteadOfRequire(cmd *command.Command) bool {
	return slices.Contains(cmd.Parts(), "install") && strings.Contains(lower(cmd.Output), "composer require")
}

func (composerNotCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	out := lower(cmd.Output)
	return forApp(cmd, "composer") &&
		(textutil.ContainsAny(out, "did you mean this?", "did you mean one of these?") ||
			composerInstallInsteadOfRequire(cmd))
}

func (composerNotCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	if composerInstallInsteadOfRequire(cmd) {
		return single(textutil.ReplaceArgument(cmd.Script, "install", "require"))
	}
	broken := textutil.Submatch(composerUndefined, cmd.Output, 1)
	meant := textutil.Submatch(composerMeantOne, cmd.Output, 1)
	if meant == "" {
		meant = textutil.Submatch(composerMeantMany, cmd.Output, 1)
	}
	if broken == "" || meant == "" {
		return nil
	}
	return single(textutil.ReplaceArgument(cmd.Script, broken, strings.TrimSpace(meant)))
}

var herokuRun = regexp.MustCompile(`Run heroku _ to run ([^.]*)`)

type herokuNotCommand struct{ base }

func newHerokuNotCommand() Rule { return herokuNotCommand{newBase("heroku_not_command")} }

func (herokuNotCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "heroku") && strings.Contains(cmd.Output, "Run heroku _ to run")
}

func (herokuNotCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.Submatch(herokuRun, cmd.Output, 1))
}

var herokuApp = regexp.MustCompile(`([^ \n]*) \([^)]*\)`)

type herokuMultipleApps struct{ base }

func newHerokuMultipleApps() Rule { return herokuMultipleApps{newBase("heroku_multiple_apps")} }

func (herokuMultipleApps) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "heroku") &&
		strings.Contains(cmd.Output, "https://devcenter.heroku.com/articles/multiple-environments")
}

func (herokuMultipleApps) Suggest(cmd *command.Command, _ shell.Shell) []string {
	var out []string
	for _, app := range textutil.AllSubmatches(herokuApp, cmd.Output, 1) {
		out = append(out, cmd.Script+" --app "+app)
	}
	return out
}

var condaQuoted = regexp.MustCompile(`'conda ([^']*)'`)

type condaMistype struct{ base }

func newCondaMistype() Rule { return condaMistype{newBase("conda_mistype")} }

func (condaMistype) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "conda") && strings.Contains(cmd.Output, "Did you mean 'conda")
}

func (condaMistype) Suggest(cmd *command.Command, _ shell.Shell) []string {
	found := textutil.AllSubmatches(condaQuoted, cmd.Output, 1)
	if len(found) < 2 {
		return nil
	}
	return textutil.ReplaceCommand(cmd.Script, found[0], found[1:2])
}

var (
	pipUnknown = regexp.MustCompile(`ERROR: unknown command "([^"]+)"`)
	pipMeant   = regexp.MustCompile(`maybe you meant "([^"]+)"`)
)

type pipUnknownCommand struct{ base }

func newPipUnknownCommand() Rule { return pipUnknownCommand{newBase("pip_unknown_command")} }

func (pipUnknownCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "pip", "pip2", "pip3") &&
		strings.Contains(cmd.Output, "unknown command") &&
		strings.Contains(cmd.Output, "maybe you meant")
}

func (pipUnknownCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	broken := textutil.Submatch(pipUnknown, cmd.Output, 1)
	meant := textutil.Submatch(pipMeant, cmd.Output, 1)
	if broken == "" || meant == "" {
		return nil
	}
	return single(textutil.ReplaceArgument(cmd.Script, broken, meant))
}

var leinUnknownTask = regexp.MustCompile(`'([^']*)' is not a task`)

type leinNotTask struct{ base }

func newLeinNotTask() Rule { return sudoSupport(leinNotTask{newBase("lein_not_task")}) }

func (leinNotTask) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "lein") && strings.HasPrefix(cmd.Script, "lein") &&
		strings.Contains(cmd.Output, "is not a task. See 'lein help'") &&
		strings.Contains(cmd.Output, "Did you mean this?")
}

func (leinNotTask) Suggest(cmd *command.Command, _ shell.Shell) []string {
	broken := textutil.Submatch(leinUnknownTask, cmd.Output, 1)
	return textutil.ReplaceCommand(cmd.Script, broken, textutil.MatchedCommands(cmd.Output, "Did you mean this?"))
}

var (
	hgMeantOneOf = regexp.MustCompile(`\n\(did you mean one of ([^?]+)\?\)`)
	hgAmbiguous  = regexp.MustCompile(`\n    ([^$]+)$`)
)

type mercurial struct{ base }

func newMercurial() Rule { return mercurial{newBase("mercurial")} }

func (mercurial) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "hg") &&
		((strings.Contains(cmd.Output, "hg: unknown command") && strings.Contains(cmd.Output, "(did you mean one of ")) ||
			(strings.Contains(cmd.Output, "hg: command '") && strings.Contains(cmd.Output, "' is ambiguous:")))
}

func hgPossibilities(output string) []string {
	if m := textutil.Submatch(hgMeantOneOf, output, 1); m != "" {
		return strings.Split(m, ", ")
	}
	if m := textutil.Submatch(hgAmbiguous, output, 1); m != "" {
		return strings.Split(m, " ")
	}
	return nil
}

func (mercurial) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	if len(parts) < 2 {
		return nil
	}
	fixed := textutil.ClosestOrFirst(parts[1], hgPossibilities(cmd.Output))
	if fixed == "" {
		return nil
	}
	parts[1] = fixed
	return single(strings.Join(parts, " "))
}

var (
	awsInvalidChoice = regexp.MustCompile(`Invalid choice: '(.*)', maybe you meant:`)
	awsOption        = regexp.MustCompile(`(?m)^\s*\*\s(.*)`)
)

type awsCli struct{ base }

func newAwsCli() Rule { return awsCli{newBase("aws_cli")} }

func (awsCli) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "aws") && strings.Contains(cmd.Output, "usage:") &&
		strings.Contains(cmd.Output, "maybe you meant:")
}

func (awsCli) Suggest(cmd *command.Command, _ shell.Shell) []string {
	mistake := textutil.Submatch(awsInvalidChoice, cmd.Output, 1)
	if mistake == "" {
		return nil
	}
	return textutil.ReplaceCommand(cmd.Script, mistake, textutil.AllSubmatches(awsOption, cmd.Output, 1))
}

var (
	azInvalidChoice = regexp.MustCompile(`az.*: '([^']*)' is not in the '.*' command group\.`)
	azOption        = regexp.MustCompile(`(?m)^The most similar choice to '.*' is:\n\s*(.*)$`)
)

type azCli struct{ base }

func newAzCli() Rule { return azCli{newBase("az_cli")} }

func (azCli) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "az") && strings.Contains(cmd.Output, "is not in the") &&
		strings.Contains(cmd.Output, "command group")
}

func (azCli) Suggest(cmd *command.Command, _ shell.Shell) []string {
	mistake := textutil.Submatch(azInvalidChoice, cmd.Output, 1)
	if mistake == "" {
		return nil
	}
	return textutil.ReplaceCommand(cmd.Script, mistake, textutil.AllSubmatches(azOption, cmd.Output, 1))
}

// sectionCommands returns the first word of each line in the block that
// follows the header line, up to the next blank line.
func sectionCommands(lines []string, header string) []string {
	start := slices.IndexFunc(lines, func(l string) bool { return strings.HasPrefix(strings.TrimSpace(l), header) })
	if start < 0 {
		return nil
	}
	var cmds []string
	for _, l := range lines[start+1:] {
		l = strings.TrimSpace(l)
		if l == "" {
			break
		}
		cmds = append(cmds, strings.Fields(l)[0])
	}
	return cmds
}

var dockerUnknown = regexp.MustCompile(`docker: '(\w+)' is not a docker command.`)

type dockerNotCommand struct {
	base
	h *host.Host
}

func newDockerNotCommand(h *host.Host) Rule {
	return sudoSupport(dockerNotCommand{newBase("docker_not_command"), h})
}

func (dockerNotCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "docker") &&
		textutil.ContainsAny(cmd.Output, "is not a docker command", "Usage:\tdocker")
}

func (r dockerNotCommand) commands() []string {
	out, _ := r.h.Output("docker")
	lines := strings.Split(string(out), "\n")
	return append(sectionCommands(lines, "Management Commands:"), sectionCommands(lines, "Commands:")...)
}

func (r dockerNotCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	if strings.Contains(cmd.Output, "Usage:") && len(cmd.Parts()) > 2 {
		subs := sectionCommands(strings.Split(cmd.Output, "\n"), "Commands:")
		return replaceClosest(cmd, arg(cmd, 2), subs)
	}
	wrong := textutil.Submatch(dockerUnknown, cmd.Output, 1)
	return replaceClosest(cmd, wrong, r.commands())
}

type goUnknownCommand struct {
	base
	h *host.Host
}

func newGoUnknownCommand(h *host.Host) Rule {
	return goUnknownCommand{newBase("go_unknown_command"), h}
}

func (goUnknownCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return isApp(cmd, 1, "go") && strings.Contains(cmd.Output, "unknown command")
}

func (r goUnknownCommand) commands() []string {
	out, _ := r.h.Output("go")
	lines := strings.Split(string(out), "\n")
	start := slices.IndexFunc(lines, func(l string) bool { return strings.TrimSpace(l) == "The commands are:" })
	if start < 0 || start+2 > len(lines) {
		return nil
	}
	var cmds []string
	for _, l := range lines[start+2:] {
		if strings.TrimSpace(l) == "" {
			break
		}
		cmds = append(cmds, strings.Fields(l)[0])
	}
	return cmds
}

func (r goUnknownCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return replaceClosest(cmd, arg(cmd, 1), r.commands())
}

var cargoMeant = regexp.MustCompile("Did you mean `([^`]*)`")

type cargoNoCommand struct{ base }

func newCargoNoCommand() Rule { return cargoNoCommand{newBase("cargo_no_command")} }

func (cargoNoCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return isApp(cmd, 1, "cargo") && strings.Contains(lower(cmd.Output), "no such subcommand") &&
		strings.Contains(cmd.Output, "Did you mean")
}

func (cargoNoCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	fix := textutil.Submatch(cargoMeant, cmd.Output, 1)
	if fix == "" {
		return nil
	}
	return single(textutil.ReplaceArgument(cmd.Script, arg(cmd, 1), fix))
}

var tsuruUnknown = regexp.MustCompile(`tsuru: "([^"]*)" is not a tsuru command`)

type tsuruNotCommand struct{ base }

func newTsuruNotCommand() Rule { return tsuruNotCommand{newBase("tsuru_not_command")} }

func (tsuruNotCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "tsuru") &&
		strings.Contains(cmd.Output, ` is not a tsuru command. See "tsuru help".`) &&
		strings.Contains(cmd.Output, "\nDid you mean?\n\t")
}

func (tsuruNotCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	broken := textutil.Submatch(tsuruUnknown, cmd.Output, 1)
	return textutil.ReplaceCommand(cmd.Script, broken, textutil.MatchedCommands(cmd.Output))
}

var (
	mvnUnknownPhase    = regexp.MustCompile(`\[ERROR\] Unknown lifecycle phase "(.+)"`)
	mvnAvailablePhases = regexp.MustCompile(`Available lifecycle phases are: (.+) -> \[Help 1\]`)
)

type mvnUnknownLifecyclePhase struct{ base }

func newMvnUnknownLifecyclePhase() Rule {
	return mvnUnknownLifecyclePhase{newBase("mvn_unknown_lifecycle_phase")}
}

func (mvnUnknownLifecyclePhase) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "mvn") && mvnUnknownPhase.MatchString(cmd.Output) &&
		mvnAvailablePhases.MatchString(cmd.Output)
}

func (mvnUnknownLifecyclePhase) Suggest(cmd *command.Command, _ shell.Shell) []string {
	failed := textutil.Submatch(mvnUnknownPhase, cmd.Output, 1)
	available := strings.Split(textutil.Submatch(mvnAvailablePhases, cmd.Output, 1), ", ")
	return textutil.ReplaceCommand(cmd.Script, failed, textutil.CloseMatches(failed, available))
}

var adbCommands = []string{
	"backup", "bugreport", "connect", "devices", "disable-verity", "disconnect",
	"enable-verity", "emu", "forward", "get-devpath", "get-serialno", "get-state",
	"install", "install-multiple", "jdwp", "keygen", "kill-server", "logcat",
	"pull", "push", "reboot", "reconnect", "restore", "reverse", "root", "run-as",
	"shell", "sideload", "start-server", "sync", "tcpip", "uninstall", "unroot",
	"usb", "wait-for",
}

type adbUnknownCommand struct{ base }

func newAdbUnknownCommand() Rule { return adbUnknownCommand{newBase("adb_unknown_command")} }

func (adbUnknownCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "adb") && strings.HasPrefix(cmd.Output, "Android Debug Bridge version")
}

func (adbUnknownCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := cmd.Parts()
	for i := 1; i < len(parts); i++ {
		a := parts[i]
		if strings.HasPrefix(a, "-") {
			continue
		}
		if prev := parts[i-1]; prev == "-s" || prev == "-H" || prev == "-P" || prev == "-L" {
			continue
		}
		return single(textutil.ReplaceArgument(cmd.Script, a, textutil.ClosestOrFirst(a, adbCommands)))
	}
	return nil
}

type fabCommandNotFound struct{ base }

func newFabCommandNotFound() Rule { return fabCommandNotFound{newBase("fab_command_not_found")} }

func (fabCommandNotFound) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "fab") && strings.Contains(cmd.Output, "Warning: Command(s) not found:")
}

func linesBetween(output, start, end string) []string {
	var out []string
	collecting := false
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, start) {
			collecting = true
			continue
		}
		if end != "" && strings.Contains(line, end) {
			break
		}
		if collecting && strings.TrimSpace(line) != "" {
			out = append(out, strings.Fields(line)[0])
		}
	}
	return out
}

func (fabCommandNotFound) Suggest(cmd *command.Command, _ shell.Shell) []string {
	missing := linesBetween(cmd.Output, "Warning: Command(s) not found:", "Available commands:")
	available := linesBetween(cmd.Output, "Available commands:", "")
	script := cmd.Script
	for _, m := range missing {
		if fix := textutil.ClosestOrFirst(m, available); fix != "" {
			script = textutil.ReplaceArgument(script, m, fix)
		}
	}
	return single(script)
}

var (
	genericUnknown = regexp.MustCompile(`([^:\n]*): Unknown command.*`)
	genericMeant   = regexp.MustCompile(`Did you mean ([^?]*)\?`)
)

// unknown_command covers tools with a generic "Unknown command" report.
type unknownCommand struct{ base }

func newUnknownCommand() Rule { return sudoSupport(unknownCommand{newBase("unknown_command")}) }

func (unknownCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return genericUnknown.MatchString(cmd.Output) && genericMeant.MatchString(cmd.Output)
}

func (unknownCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	broken := textutil.Submatch(genericUnknown, cmd.Output, 1)
	return textutil.ReplaceCommand(cmd.Script, broken, textutil.AllSubmatches(genericMeant, cmd.Output, 1))
}

// wrong_hyphen_before_subcommand: "git-log" for "git log".
type wrongHyphenBeforeSubcommand struct {
	base
	h *host.Host
}

func newWrongHyphenBeforeSubcommand(h *host.Host) Rule {
	return sudoSupport(wrongHyphenBeforeSubcommand{
		newBase("wrong_hyphen_before_subcommand", outputOptional(), priority(4500)), h,
	})
}

func (r wrongHyphenBeforeSubcommand) Match(cmd *command.Command, sh shell.Shell) bool {
	first := arg(cmd, 0)
	if !strings.Contains(first, "-") {
		return false
	}
	execs := r.h.AllExecutables(sh.BuiltinCommands())
	if slices.Contains(execs, first) {
		return false
	}
	app, _, _ := strings.Cut(first, "-")
	return app != "" && slices.Contains(execs, app)
}

func (wrongHyphenBeforeSubcommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Replace(cmd.Script, "-", " ", 1))
}

// missing_space_before_subcommand: "npminstall" for "npm install".
type missingSpaceBeforeSubcommand struct {
	base
	h *host.Host
}

func newMissingSpaceBeforeSubcommand(h *host.Host) Rule {
	return missingSpaceBeforeSubcommand{
		newBase("missing_space_before_subcommand", outputOptional(), priority(4000)), h,
	}
}

func (r missingSpaceBeforeSubcommand) executable(sh shell.Shell, first string) string {
	for _, e := range r.h.AllExecutables(sh.BuiltinCommands()) {
		if len(e) > 1 && len(first) > len(e) && strings.HasPrefix(first, e) {
			return e
		}
	}
	return ""
}

func (r missingSpaceBeforeSubcommand) Match(cmd *command.Command, sh shell.Shell) bool {
	first := arg(cmd, 0)
	return first != "" && !slices.Contains(r.h.AllExecutables(sh.BuiltinCommands()), first) &&
		r.executable(sh, first) != ""
}

func (r missingSpaceBeforeSubcommand) Suggest(cmd *command.Command, sh shell.Shell) []string {
	e := r.executable(sh, arg(cmd, 0))
	return single(strings.Replace(cmd.Script, e, e+" ", 1))
}
