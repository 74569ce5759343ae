package rules

import (
	"net/url"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"ohcrab/internal/command"
	"ohcrab/internal/shell"
	"ohcrab/internal/textutil"
)

func openCommand(target string) string {
	if runtime.GOOS == "darwin" {
		return "open " + target
	}
	return "xdg-open " + target
}

type cargo struct{ base }

func newCargo() Rule { return cargo{newBase("cargo", outputOptional())} }

func (cargo) Match(cmd *command.Command, _ shell.Shell) bool { return cmd.Script == "cargo" }

func (cargo) Suggest(*command.Command, shell.Shell) []string { return []string{"cargo build"} }

type mvnNoCommand struct{ base }

func newMvnNoCommand() Rule { return mvnNoCommand{newBase("mvn_no_command")} }

func (mvnNoCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "mvn") && strings.Contains(cmd.Output, "No goals have been specified for this build")
}

func (mvnNoCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return []string{cmd.Script + " clean package", cmd.Script + " clean install"}
}

type dockerLogin struct{ base }

func newDockerLogin() Rule { return dockerLogin{newBase("docker_login")} }

func (dockerLogin) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "docker") && strings.Contains(cmd.Output, "access denied") &&
		strings.Contains(cmd.Output, "may require 'docker login'")
}

func (dockerLogin) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(sh.And("docker login", cmd.Script))
}

type dockerImageBeingUsedByContainer struct{ base }

func newDockerImageBeingUsedByContainer() Rule {
	return dockerImageBeingUsedByContainer{newBase("docker_image_being_used_by_container")}
}

func (dockerImageBeingUsedByContainer) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "docker") && strings.Contains(cmd.Output, "image is being used by running container")
}

func (dockerImageBeingUsedByContainer) Suggest(cmd *command.Command, sh shell.Shell) []string {
	words := strings.Split(strings.TrimSpace(cmd.Output), " ")
	return single(sh.And("docker container rm -f "+words[len(words)-1], cmd.Script))
}

var railsMigration = regexp.MustCompile(`To resolve this issue, run:\s+(.*?)\n`)

type railsMigrationsPending struct{ base }

func newRailsMigrationsPending() Rule {
	return railsMigrationsPending{newBase("rails_migrations_pending")}
}

func (railsMigrationsPending) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.Contains(cmd.Output, "Migrations are pending. To resolve this issue, run:")
}

func (railsMigrationsPending) Suggest(cmd *command.Command, sh shell.Shell) []string {
	migrate := textutil.Submatch(railsMigration, cmd.Output+"\n", 1)
	if migrate == "" {
		return nil
	}
	return single(sh.And(migrate, cmd.Script))
}

type tsuruLogin struct{ base }

func newTsuruLogin() Rule { return tsuruLogin{newBase("tsuru_login")} }

func (tsuruLogin) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "tsuru") && strings.Contains(cmd.Output, "not authenticated") &&
		strings.Contains(cmd.Output, "session has expired")
}

func (tsuruLogin) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(sh.And("tsuru login", cmd.Script))
}

// systemctl: unit and action in the wrong order.
type systemctl struct{ base }

func newSystemctl() Rule { return sudoSupport(systemctl{newBase("systemctl")}) }

func (systemctl) Match(cmd *command.Command, _ shell.Shell) bool {
	parts := cmd.Parts()
	idx := slices.Index(parts, "systemctl")
	return forApp(cmd, "systemctl") && strings.Contains(cmd.Output, "Unknown operation '") &&
		idx >= 0 && len(parts)-idx == 3
}

func (systemctl) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	n := len(parts)
	parts[n-1], parts[n-2] = parts[n-2], parts[n-1]
	return single(strings.Join(parts, " "))
}

var tmuxAmbiguous = regexp.MustCompile(`ambiguous command: (.*), could be: (.*)`)

type tmux struct{ base }

func newTmux() Rule { return tmux{newBase("tmux")} }

func (tmux) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "tmux") && strings.Contains(cmd.Output, "ambiguous command:") &&
		strings.Contains(cmd.Output, "could be:")
}

func (tmux) Suggest(cmd *command.Command, _ shell.Shell) []string {
	m := tmuxAmbiguous.FindStringSubmatch(cmd.Output)
	if m == nil {
		return nil
	}
	var options []string
	for _, o := range strings.Split(m[2], ",") {
		options = append(options, strings.TrimSpace(o))
	}
	return replaceClosest(cmd, m[1], options)
}

type terraformInit struct{ base }

func newTerraformInit() Rule { return terraformInit{newBase("terraform_init")} }

func (terraformInit) Match(cmd *command.Command, _ shell.Shell) bool {
	out := lower(cmd.Output)
	return forApp(cmd, "terraform") &&
		textutil.ContainsAny(out, "this module is not yet installed", "initialization required")
}

func (terraformInit) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(sh.And("terraform init", cmd.Script))
}

var (
	terraformMistake = regexp.MustCompile(`Terraform has no command named "([^"]+)"\.`)
	terraformFix     = regexp.MustCompile(`Did you mean "([^"]+)"\?`)
)

type terraformNoCommand struct{ base }

func newTerraformNoCommand() Rule { return terraformNoCommand{newBase("terraform_no_command")} }

func (terraformNoCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "terraform") && terraformMistake.MatchString(cmd.Output) &&
		terraformFix.MatchString(cmd.Output)
}

func (terraformNoCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	mistake := textutil.Submatch(terraformMistake, cmd.Output, 1)
	fix := textutil.Submatch(terraformFix, cmd.Output, 1)
	return single(strings.ReplaceAll(cmd.Script, mistake, fix))
}

type vagrantUp struct{ base }

func newVagrantUp() Rule { return vagrantUp{newBase("vagrant_up")} }

func (vagrantUp) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "vagrant") && strings.Contains(lower(cmd.Output), "run `vagrant up`")
}

func (vagrantUp) Suggest(cmd *command.Command, sh shell.Shell) []string {
	all := sh.And("vagrant up", cmd.Script)
	machine := arg(cmd, 2)
	if machine == "" {
		return []string{all}
	}
	return []string{sh.And("vagrant up "+machine, cmd.Script), all}
}

// whois takes a domain, not a URL.
type whois struct{ base }

func newWhois() Rule { return whois{newBase("whois", outputOptional())} }

func (whois) Match(cmd *command.Command, _ shell.Shell) bool { return isApp(cmd, 1, "whois") }

func (whois) Suggest(cmd *command.Command, _ shell.Shell) []string {
	target := arg(cmd, 1)
	u, err := url.Parse(target)
	if err != nil {
		return nil
	}
	if strings.Contains(cmd.Script, "/") {
		return single("whois " + u.Host)
	}
	if !strings.Contains(cmd.Script, ".") {
		return nil
	}
	labels := strings.Split(u.Path, ".")
	var out []string
	for n := 1; n < len(labels); n++ {
		out = append(out, "whois "+strings.Join(labels[n:], "."))
	}
	return out
}

var urlHints = []string{".com", ".edu", ".info", ".io", ".ly", ".me", ".net", ".org", ".se", "www."}

// open: a bare domain or a file that does not exist yet.
type openRule struct{ base }

func newOpen() Rule { return openRule{newBase("open")} }

func isArgURL(cmd *command.Command) bool {
	return textutil.ContainsAny(cmd.Script, urlHints...)
}

func missingFileOutput(output string) bool {
	out := strings.TrimSpace(output)
	return strings.HasPrefix(out, "The file ") && strings.HasSuffix(out, " does not exist.")
}

func (openRule) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "open", "xdg-open", "gnome-open", "kde-open") &&
		(isArgURL(cmd) || missingFileOutput(cmd.Output))
}

func (openRule) Suggest(cmd *command.Command, sh shell.Shell) []string {
	if isArgURL(cmd) {
		return single(strings.Replace(cmd.Script, "open ", "open http://", 1))
	}
	_, target, ok := strings.Cut(cmd.Script, " ")
	if !ok {
		return nil
	}
	return []string{
		sh.And("touch "+target, cmd.Script),
		sh.And("mkdir "+target, cmd.Script),
	}
}
