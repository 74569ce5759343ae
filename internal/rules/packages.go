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

// ──────────────────────────────────────────────────────────────────────────────
// apt
// ──────────────────────────────────────────────────────────────────────────────

var aptSuggestedPackage = regexp.MustCompile(`(?m)(?:sudo )?apt(?:-get)? install ([^\s]+)`)

// apt_get installs the package command-not-found points at.
type aptGet struct{ base }

func newAptGet() Rule { return sudoSupport(aptGet{newBase("apt_get")}) }

func (aptGet) Match(cmd *command.Command, _ shell.Shell) bool {
	return textutil.ContainsAny(cmd.Output, "not found", "not installed") &&
		aptSuggestedPackage.MatchString(cmd.Output)
}

func (aptGet) Suggest(cmd *command.Command, sh shell.Shell) []string {
	var out []string
	for _, pkg := range textutil.Unique(textutil.AllSubmatches(aptSuggestedPackage, cmd.Output, 1)) {
		out = append(out, sh.And("sudo apt-get install "+pkg, cmd.Script))
	}
	return out
}

var aptGetPrefix = regexp.MustCompile(`^apt-get`)

type aptGetSearch struct{ base }

func newAptGetSearch() Rule { return aptGetSearch{newBase("apt_get_search")} }

func (aptGetSearch) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "apt-get") && strings.HasPrefix(cmd.Script, "apt-get search")
}

func (aptGetSearch) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(aptGetPrefix.ReplaceAllString(cmd.Script, "apt-cache"))
}

// apt_invalid_operation compares the operation against `<app> --help`.
type aptInvalidOperation struct {
	base
	h *host.Host
}

func newAptInvalidOperation(h *host.Host) Rule {
	return sudoSupport(aptInvalidOperation{newBase("apt_invalid_operation"), h})
}

func (aptInvalidOperation) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "apt", "apt-get", "apt-cache") && strings.Contains(cmd.Output, "E: Invalid operation")
}

func (r aptInvalidOperation) Suggest(cmd *command.Command, _ shell.Shell) []string {
	fields := strings.Fields(cmd.Output)
	invalid := fields[len(fields)-1]
	if invalid == "uninstall" {
		return single(strings.ReplaceAll(cmd.Script, "uninstall", "remove"))
	}
	app := arg(cmd, 0)
	help, err := r.h.Output(app, "--help")
	if err != nil && len(help) == 0 {
		return nil
	}
	return replaceClosest(cmd, invalid, parseAptOperations(app, string(help)))
}

func parseAptOperations(app, help string) []string {
	var ops []string
	listing := false
	for _, line := range strings.Split(help, "\n") {
		line = strings.TrimSpace(line)
		if listing {
			if line == "" {
				if app == "apt" {
					continue
				}
				break
			}
			ops = append(ops, strings.Fields(line)[0])
			continue
		}
		if strings.HasPrefix(line, "Most used commands:") ||
			(app == "apt" && strings.HasPrefix(line, "Basic commands:")) ||
			(app != "apt" && strings.HasPrefix(line, "Commands:")) {
			listing = true
		}
	}
	return ops
}

type aptListUpgradable struct{ base }

func newAptListUpgradable() Rule {
	return sudoSupport(aptListUpgradable{newBase("apt_list_upgradable")})
}

func (aptListUpgradable) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "apt") && strings.Contains(cmd.Output, "apt list --upgradable")
}

func (aptListUpgradable) Suggest(*command.Command, shell.Shell) []string {
	return []string{"apt list --upgradable"}
}

type aptUpgrade struct{ base }

func newAptUpgrade() Rule { return sudoSupport(aptUpgrade{newBase("apt_upgrade")}) }

func (aptUpgrade) Match(cmd *command.Command, _ shell.Shell) bool {
	return cmd.Script == "apt list --upgradable" &&
		len(strings.Split(strings.TrimSpace(cmd.Output), "\n")) > 1
}

func (aptUpgrade) Suggest(*command.Command, shell.Shell) []string {
	return []string{"apt upgrade"}
}

// ──────────────────────────────────────────────────────────────────────────────
// brew
// ──────────────────────────────────────────────────────────────────────────────

var brewNoFormula = regexp.MustCompile(`Warning: No available formula with the name "(?:[^"]+)". Did you mean (.+)\?`)

type brewInstall struct{ base }

func newBrewInstall() Rule { return brewInstall{newBase("brew_install")} }

func (brewInstall) Match(cmd *command.Command, _ shell.Shell) bool {
	return isApp(cmd, 1, "brew") && strings.Contains(cmd.Script, "install") &&
		strings.Contains(cmd.Output, "No available formula") &&
		strings.Contains(cmd.Output, "Did you mean")
}

func (brewInstall) Suggest(cmd *command.Command, _ shell.Shell) []string {
	meant := textutil.Submatch(brewNoFormula, cmd.Output, 1)
	if meant == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(strings.ReplaceAll(meant, " or ", ", "), ", ") {
		out = append(out, "brew install "+f)
	}
	return out
}

type brewLink struct{ base }

func newBrewLink() Rule { return brewLink{newBase("brew_link")} }

func (brewLink) Match(cmd *command.Command, _ shell.Shell) bool {
	sub := arg(cmd, 1)
	return isApp(cmd, 1, "brew") && (sub == "ln" || sub == "link") &&
		strings.Contains(cmd.Output, "brew link --overwrite --dry-run")
}

func (brewLink) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	parts[1] = "link"
	parts = slices.Insert(parts, 2, "--overwrite", "--dry-run")
	return single(strings.Join(parts, " "))
}

var (
	brewAlreadyInstalled = regexp.MustCompile(`Warning: .+ is already installed and up-to-date`)
	brewReinstallHint    = regexp.MustCompile("To reinstall .+, run `brew reinstall [^`]+`")
)

type brewReinstall struct{ base }

func newBrewReinstall() Rule { return brewReinstall{newBase("brew_reinstall")} }

func (brewReinstall) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "brew") && strings.Contains(cmd.Script, "install") &&
		brewAlreadyInstalled.MatchString(cmd.Output) && brewReinstallHint.MatchString(cmd.Output)
}

func (brewReinstall) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "install", "reinstall"))
}

type brewUninstall struct{ base }

func newBrewUninstall() Rule { return brewUninstall{newBase("brew_uninstall")} }

func (brewUninstall) Match(cmd *command.Command, _ shell.Shell) bool {
	sub := arg(cmd, 1)
	return isApp(cmd, 1, "brew") && (sub == "uninstall" || sub == "rm" || sub == "remove") &&
		strings.Contains(cmd.Output, "brew uninstall --force")
}

func (brewUninstall) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	parts[1] = "uninstall"
	return single(strings.Join(slices.Insert(parts, 2, "--force"), " "))
}

type brewUpdateFormula struct{ base }

func newBrewUpdateFormula() Rule { return brewUpdateFormula{newBase("brew_update_formula")} }

func (brewUpdateFormula) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "brew") && strings.Contains(cmd.Script, "update") &&
		strings.Contains(cmd.Output, "Error: This command updates brew itself") &&
		strings.Contains(cmd.Output, "Use `brew upgrade")
}

func (brewUpdateFormula) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "update", "upgrade"))
}

// ──────────────────────────────────────────────────────────────────────────────
// other package managers
// ──────────────────────────────────────────────────────────────────────────────

type chocoInstall struct{ base }

func newChocoInstall() Rule { return chocoInstall{newBase("choco_install")} }

func (chocoInstall) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "choco", "cinst") &&
		(strings.HasPrefix(cmd.Script, "choco install") || slices.Contains(cmd.Parts(), "cinst")) &&
		strings.Contains(cmd.Output, "Installing the following packages")
}

func (chocoInstall) Suggest(cmd *command.Command, _ shell.Shell) []string {
	for _, p := range cmd.Parts() {
		if p == "choco" || p == "cinst" || p == "install" ||
			strings.HasPrefix(p, "-") || strings.ContainsAny(p, "=/") {
			continue
		}
		return single(strings.Replace(cmd.Script, p, p+".install", 1))
	}
	return nil
}

type pipInstall struct{ base }

func newPipInstall() Rule { return pipInstall{newBase("pip_install")} }

func (pipInstall) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "pip", "pip2", "pip3") && strings.Contains(cmd.Script, "pip install") &&
		strings.Contains(cmd.Output, "Permission denied")
}

func (pipInstall) Suggest(cmd *command.Command, _ shell.Shell) []string {
	if !strings.Contains(cmd.Script, "--user") {
		return single(strings.Replace(cmd.Script, " install ", " install --user ", 1))
	}
	return single(sudoPrefix + strings.ReplaceAll(cmd.Script, " --user", ""))
}

var nixInstall = regexp.MustCompile(`nix-env -iA ([^\s]*)`)

type nixosCmdNotFound struct{ base }

func newNixosCmdNotFound() Rule { return nixosCmdNotFound{newBase("nixos_cmd_not_found")} }

func (nixosCmdNotFound) Match(cmd *command.Command, _ shell.Shell) bool {
	return nixInstall.MatchString(cmd.Output)
}

func (nixosCmdNotFound) Suggest(cmd *command.Command, sh shell.Shell) []string {
	name := textutil.Submatch(nixInstall, cmd.Output, 1)
	return single(sh.And("nix-env -iA "+name, cmd.Script))
}

// ──────────────────────────────────────────────────────────────────────────────
// yarn
// ──────────────────────────────────────────────────────────────────────────────

var yarnMeant = regexp.MustCompile("Did you mean [`\"](?:yarn )?([^`\"]*)[`\"]")

type yarnAlias struct{ base }

func newYarnAlias() Rule { return yarnAlias{newBase("yarn_alias")} }

func (yarnAlias) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "yarn") && strings.Contains(cmd.Output, "Did you mean")
}

func (yarnAlias) Suggest(cmd *command.Command, _ shell.Shell) []string {
	fix := textutil.Submatch(yarnMeant, cmd.Output, 1)
	if fix == "" || arg(cmd, 1) == "" {
		return nil
	}
	return single(textutil.ReplaceArgument(cmd.Script, arg(cmd, 1), fix))
}

var (
	yarnNotFound   = regexp.MustCompile(`error Command "(.*)" not found.`)
	yarnNpmAliases = map[string]string{"require": "add"}
)

type yarnCommandNotFound struct {
	base
	h *host.Host
}

func newYarnCommandNotFound(h *host.Host) Rule {
	return yarnCommandNotFound{newBase("yarn_command_not_found"), h}
}

func (yarnCommandNotFound) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "yarn") && yarnNotFound.MatchString(cmd.Output)
}

func (r yarnCommandNotFound) tasks() []string {
	out, err := r.h.Output("yarn", "--help")
	if err != nil && len(out) == 0 {
		return nil
	}
	var tasks []string
	listing := false
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "Commands:") {
			listing = true
			continue
		}
		if listing && strings.Contains(line, "- ") {
			words := strings.Split(line, " ")
			tasks = append(tasks, words[len(words)-1])
		}
	}
	return tasks
}

func (r yarnCommandNotFound) Suggest(cmd *command.Command, _ shell.Shell) []string {
	task := textutil.Submatch(yarnNotFound, cmd.Output, 1)
	if alias, ok := yarnNpmAliases[task]; ok {
		return single(textutil.ReplaceArgument(cmd.Script, task, alias))
	}
	return replaceClosest(cmd, task, r.tasks())
}

var yarnRunInstead = regexp.MustCompile(`Run "(.*)" instead`)

type yarnCommandReplaced struct{ base }

func newYarnCommandReplaced() Rule { return yarnCommandReplaced{newBase("yarn_command_replaced")} }

func (yarnCommandReplaced) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "yarn") && yarnRunInstead.MatchString(cmd.Output)
}

func (yarnCommandReplaced) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.Submatch(yarnRunInstead, cmd.Output, 1))
}

var yarnDocs = regexp.MustCompile(`Visit ([^ ]*) for documentation about this command.`)

type yarnHelp struct{ base }

func newYarnHelp() Rule { return yarnHelp{newBase("yarn_help")} }

func (yarnHelp) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "yarn") && arg(cmd, 1) == "help" &&
		strings.Contains(cmd.Output, "for documentation about this command.")
}

func (yarnHelp) Suggest(cmd *command.Command, _ shell.Shell) []string {
	url := textutil.Submatch(yarnDocs, cmd.Output, 1)
	if url == "" {
		return nil
	}
	return single(openCommand(url))
}

// ──────────────────────────────────────────────────────────────────────────────
// npm
// ──────────────────────────────────────────────────────────────────────────────

var npmMissingScriptRe = regexp.MustCompile(`(?i).*missing script: (.*)\n`)

func runsScript(cmd *command.Command) bool {
	for _, p := range cmd.Parts() {
		if strings.HasPrefix(p, "ru") {
			return true
		}
	}
	return false
}

type npmMissingScript struct {
	base
	h *host.Host
}

func newNpmMissingScript(h *host.Host) Rule {
	return npmMissingScript{newBase("npm_missing_script"), h}
}

func (npmMissingScript) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "npm") && runsScript(cmd) &&
		strings.Contains(lower(cmd.Output), "npm err! missing script: ")
}

func (r npmMissingScript) Suggest(cmd *command.Command, _ shell.Shell) []string {
	missing := strings.TrimSpace(textutil.Submatch(npmMissingScriptRe, cmd.Output+"\n", 1))
	missing = strings.Trim(missing, `"`)
	return replaceClosest(cmd, missing, r.h.NpmScripts())
}

type npmRunScript struct {
	base
	h *host.Host
}

func newNpmRunScript(h *host.Host) Rule { return npmRunScript{newBase("npm_run_script"), h} }

func (r npmRunScript) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "npm") && strings.Contains(cmd.Output, "Usage: npm <command>") &&
		!runsScript(cmd) && arg(cmd, 1) != "" && slices.Contains(r.h.NpmScripts(), arg(cmd, 1))
}

func (npmRunScript) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Join(slices.Insert(slices.Clone(cmd.Parts()), 1, "run-script"), " "))
}

type npmWrongCommand struct{ base }

func newNpmWrongCommand() Rule { return npmWrongCommand{newBase("npm_wrong_command")} }

func npmWrongSubcommand(parts []string) string {
	for _, p := range parts[1:] {
		if !strings.HasPrefix(p, "-") {
			return p
		}
	}
	return ""
}

func npmAvailableCommands(output string) []string {
	var cmds []string
	listing := false
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "where <command> is one of:") {
			listing = true
			continue
		}
		if !listing {
			continue
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		for _, c := range strings.Split(line, ", ") {
			if c = strings.Trim(strings.TrimSpace(c), ","); c != "" {
				cmds = append(cmds, c)
			}
		}
	}
	return cmds
}

func (npmWrongCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return arg(cmd, 0) == "npm" && strings.Contains(cmd.Output, "where <command> is one of:") &&
		npmWrongSubcommand(cmd.Parts()) != ""
}

func (npmWrongCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	wrong := npmWrongSubcommand(cmd.Parts())
	fixed := textutil.ClosestOrFirst(wrong, npmAvailableCommands(cmd.Output))
	if fixed == "" {
		return nil
	}
	return single(textutil.ReplaceArgument(cmd.Script, wrong, fixed))
}
