package rules

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	"ohcrab/internal/command"
	"ohcrab/internal/host"
	"ohcrab/internal/shell"
	"ohcrab/internal/textutil"
)

func noSuchDir(output string) bool {
	out := lower(output)
	return textutil.ContainsAny(out, "no such file or directory", "cd: can't cd to", "does not exist")
}

// cd_mkdir: cd into a directory that is not there yet.

var cdTarget = regexp.MustCompile(`^cd (.*)`)

type cdMkdir struct{ base }

func newCdMkdir() Rule { return sudoSupport(cdMkdir{newBase("cd_mkdir")}) }

func (cdMkdir) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "cd") && strings.HasPrefix(cmd.Script, "cd ") && noSuchDir(cmd.Output)
}

func (cdMkdir) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(cdTarget.ReplaceAllString(cmd.Script, sh.And("mkdir -p ${1}", "cd ${1}")))
}

// cd_correction walks the target path and repairs each misspelled segment
// against the directories that exist. Falls back to creating it.

type cdCorrection struct {
	base
	h *host.Host
}

func newCdCorrection(h *host.Host) Rule {
	return sudoSupport(cdCorrection{newBase("cd_correction", disabledByDefault()), h})
}

func (cdCorrection) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "cd") && strings.HasPrefix(cmd.Script, "cd ") && noSuchDir(cmd.Output)
}

func (r cdCorrection) Suggest(cmd *command.Command, sh shell.Shell) []string {
	target := arg(cmd, 1)
	if target == "" {
		return nil
	}
	segments := strings.Split(target, "/")
	if segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	cwd := r.h.Cwd
	if len(segments) > 0 && segments[0] == "" {
		cwd = "/"
		segments = segments[1:]
	}

	for _, seg := range segments {
		switch seg {
		case ".":
			continue
		case "..":
			cwd = filepath.Dir(cwd)
			continue
		}
		best := closestDir(seg, r.h.SubDirs(cwd))
		if best == "" {
			return cdMkdir{}.Suggest(cmd, sh)
		}
		cwd = filepath.Join(cwd, best)
	}
	return single(`cd "` + cwd + `"`)
}

// closestDir picks the entry with the smallest edit distance to name,
// tolerating more edits for longer names.
func closestDir(name string, dirs []string) string {
	maxDist := maxDistForLen(name)
	best := ""
	bestDist := maxDist + 1
	for _, d := range dirs {
		if diff := len(name) - len(d); diff < -maxDist || diff > maxDist {
			continue
		}
		dist := edlib.OSADamerauLevenshteinDistance(name, d)
		if dist == 0 {
			return d
		}
		if dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

func maxDistForLen(s string) int {
	switch n := len(s); {
	case n <= 3:
		return 1
	case n <= 6:
		return 2
	default:
		return 3
	}
}

// cd_parent and cd_cs are plain typos of cd.

type cdParent struct{ base }

func newCdParent() Rule { return cdParent{newBase("cd_parent", outputOptional())} }

func (cdParent) Match(cmd *command.Command, _ shell.Shell) bool { return cmd.Script == "cd.." }

func (cdParent) Suggest(*command.Command, shell.Shell) []string { return []string{"cd .."} }

type cdCs struct{ base }

func newCdCs() Rule { return cdCs{newBase("cd_cs", outputOptional(), priority(900))} }

func (cdCs) Match(cmd *command.Command, _ shell.Shell) bool { return arg(cmd, 0) == "cs" }

func (cdCs) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single("cd" + strings.TrimSpace(cmd.Script)[2:])
}

// mkdir_p: creating a nested directory without -p.

var mkdirArgs = regexp.MustCompile(`\bmkdir (.*)`)

type mkdirP struct{ base }

func newMkdirP() Rule { return sudoSupport(mkdirP{newBase("mkdir_p")}) }

func (mkdirP) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.Contains(cmd.Script, "mkdir") && strings.Contains(cmd.Output, "No such file or directory")
}

func (mkdirP) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(mkdirArgs.ReplaceAllString(cmd.Script, "mkdir -p ${1}"))
}

// cp_omitting_directory: copying a directory without -a.

var cpPrefix = regexp.MustCompile(`^cp`)

type cpOmittingDirectory struct{ base }

func newCpOmittingDirectory() Rule {
	return sudoSupport(cpOmittingDirectory{newBase("cp_omitting_directory")})
}

func (cpOmittingDirectory) Match(cmd *command.Command, _ shell.Shell) bool {
	out := lower(cmd.Output)
	return forApp(cmd, "cp") && textutil.ContainsAny(out, "omitting directory", "is a directory")
}

func (cpOmittingDirectory) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(cpPrefix.ReplaceAllString(cmd.Script, "cp -a"))
}

// cp_create_destination: the destination directory is missing.

type cpCreateDestination struct{ base }

func newCpCreateDestination() Rule {
	return cpCreateDestination{newBase("cp_create_destination")}
}

func (cpCreateDestination) Match(cmd *command.Command, _ shell.Shell) bool {
	if !forApp(cmd, "cp", "mv") {
		return false
	}
	return strings.Contains(cmd.Output, "No such file or directory") ||
		(strings.HasPrefix(cmd.Output, "cp: directory") &&
			strings.HasSuffix(strings.TrimRight(cmd.Output, " \n"), "does not exist"))
}

func (cpCreateDestination) Suggest(cmd *command.Command, sh shell.Shell) []string {
	parts := cmd.Parts()
	return single(sh.And("mkdir -p "+parts[len(parts)-1], cmd.Script))
}

// rm_dir: removing a directory without -r.

var rmArgs = regexp.MustCompile(`\brm (.*)`)

type rmDir struct{ base }

func newRmDir() Rule { return sudoSupport(rmDir{newBase("rm_dir")}) }

func (rmDir) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.Contains(cmd.Script, "rm") && strings.Contains(lower(cmd.Output), "is a directory")
}

func (rmDir) Suggest(cmd *command.Command, _ shell.Shell) []string {
	flags := "-rf"
	if strings.Contains(cmd.Script, "hdfs") {
		flags = "-r"
	}
	return single(rmArgs.ReplaceAllString(cmd.Script, "rm "+flags+" ${1}"))
}

// rm_root is never on unless asked for by name.

type rmRoot struct{ base }

func newRmRoot() Rule { return sudoSupport(rmRoot{newBase("rm_root", disabledByDefault())}) }

func (rmRoot) Match(cmd *command.Command, _ shell.Shell) bool {
	parts := cmd.Parts()
	return slices.Contains(parts, "rm") && slices.Contains(parts, "/") &&
		!strings.Contains(cmd.Script, "--no-preserve-root") &&
		strings.Contains(cmd.Output, "--no-preserve-root")
}

func (rmRoot) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(cmd.Script + " --no-preserve-root")
}

// ls_all: ls printed nothing, there may be hidden files.

type lsAll struct{ base }

func newLsAll() Rule { return lsAll{newBase("ls_all", outputOptional())} }

func (lsAll) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "ls") && strings.TrimSpace(cmd.Output) == ""
}

func (lsAll) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Join(append([]string{"ls", "-A"}, cmd.Parts()[1:]...), " "))
}

type lsLah struct{ base }

func newLsLah() Rule { return lsLah{newBase("ls_lah")} }

func (lsLah) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "ls") && slices.Contains(cmd.Parts(), "ls") && !strings.Contains(cmd.Script, "ls -")
}

func (lsLah) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	parts[0] = "ls -lah"
	return single(strings.Join(parts, " "))
}

// touch: the parent directory is missing.

var touchParent = regexp.MustCompile(`touch: (?:cannot touch ')?(.+)/.+'?:`)

type touch struct{ base }

func newTouch() Rule { return touch{newBase("touch")} }

func (touch) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "touch") && strings.Contains(cmd.Output, "No such file or directory")
}

func (touch) Suggest(cmd *command.Command, sh shell.Shell) []string {
	dir := textutil.Submatch(touchParent, cmd.Output, 1)
	if dir == "" {
		return nil
	}
	return single(sh.And("mkdir -p "+dir, cmd.Script))
}

// cat_dir: cat on a directory means ls.

type catDir struct {
	base
	h *host.Host
}

func newCatDir(h *host.Host) Rule { return catDir{newBase("cat_dir"), h} }

func (r catDir) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "cat") && strings.HasPrefix(cmd.Output, "cat: ") && r.h.IsDir(arg(cmd, 1))
}

func (catDir) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Replace(cmd.Script, "cat", "ls", 1))
}

// ln_no_hard_link: directories can only be symlinked.

var lnPrefix = regexp.MustCompile(`^ln `)

type lnNoHardLink struct{ base }

func newLnNoHardLink() Rule { return sudoSupport(lnNoHardLink{newBase("ln_no_hard_link")}) }

func (lnNoHardLink) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.HasSuffix(strings.TrimRight(cmd.Output, "\n"), "hard link not allowed for directory") &&
		strings.HasPrefix(cmd.Script, "ln ")
}

func (lnNoHardLink) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(lnPrefix.ReplaceAllString(cmd.Script, "ln -s "))
}

// ln_s_order: link target and name were swapped.

type lnSOrder struct {
	base
	h *host.Host
}

func newLnSOrder(h *host.Host) Rule { return sudoSupport(lnSOrder{newBase("ln_s_order"), h}) }

func (r lnSOrder) destination(parts []string) string {
	for _, p := range parts {
		if p != "ln" && p != "-s" && p != "--symbolic" && r.h.Exists(p) {
			return p
		}
	}
	return ""
}

func (r lnSOrder) Match(cmd *command.Command, _ shell.Shell) bool {
	parts := cmd.Parts()
	return arg(cmd, 0) == "ln" &&
		(slices.Contains(parts, "-s") || slices.Contains(parts, "--symbolic")) &&
		strings.Contains(cmd.Output, "File exists") &&
		r.destination(parts) != ""
}

func (r lnSOrder) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	dest := r.destination(parts)
	parts = slices.Delete(parts, slices.Index(parts, dest), slices.Index(parts, dest)+1)
	return single(strings.Join(append(parts, dest), " "))
}

// chmod_x: running a local script that lacks the executable bit.

type chmodX struct {
	base
	h *host.Host
}

func newChmodX(h *host.Host) Rule { return chmodX{newBase("chmod_x"), h} }

func (r chmodX) Match(cmd *command.Command, _ shell.Shell) bool {
	if !strings.HasPrefix(cmd.Script, "./") || !strings.Contains(lower(cmd.Output), "permission denied") {
		return false
	}
	info, err := r.h.Fs.Stat(r.h.Abs(arg(cmd, 0)))
	return err == nil && !info.IsDir() && info.Mode().Perm()&0o111 == 0
}

func (chmodX) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(sh.And("chmod +x "+strings.TrimPrefix(arg(cmd, 0), "./"), cmd.Script))
}

// has_exists_script: a script in the cwd was called without ./.

type hasExistsScript struct {
	base
	h *host.Host
}

func newHasExistsScript(h *host.Host) Rule {
	return sudoSupport(hasExistsScript{newBase("has_exists_script"), h})
}

func (r hasExistsScript) Match(cmd *command.Command, _ shell.Shell) bool {
	return len(cmd.Parts()) > 0 && r.h.Exists(arg(cmd, 0)) &&
		strings.Contains(cmd.Output, "command not found")
}

func (hasExistsScript) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single("./" + cmd.Script)
}

type slLs struct{ base }

func newSlLs() Rule { return slLs{newBase("sl_ls", outputOptional())} }

func (slLs) Match(cmd *command.Command, _ shell.Shell) bool { return cmd.Script == "sl" }

func (slLs) Suggest(*command.Command, shell.Shell) []string { return []string{"ls"} }
