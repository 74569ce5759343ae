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

// git_not_command: git reports an unknown subcommand and lists neighbours.

var gitUnknownCommand = regexp.MustCompile(`git: '([^']*)' is not a git command`)

type gitNotCommand struct{ base }

func newGitNotCommand() Rule { return gitNotCommand{newBase("git_not_command")} }

func (gitNotCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) &&
		strings.Contains(cmd.Output, " is not a git command. See 'git --help'.") &&
		textutil.ContainsAny(cmd.Output, "The most similar command", "Did you mean")
}

func (gitNotCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	broken := textutil.Submatch(gitUnknownCommand, cmd.Output, 1)
	matched := textutil.MatchedCommands(cmd.Output, "The most similar command", "Did you mean")
	return textutil.ReplaceCommand(cmd.Script, broken, matched)
}

// git_two_dashes: a long option typed with a single dash.

type gitTwoDashes struct{ base }

func newGitTwoDashes() Rule { return gitTwoDashes{newBase("git_two_dashes")} }

func (gitTwoDashes) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) &&
		strings.Contains(cmd.Output, "error: did you mean `") &&
		strings.Contains(cmd.Output, "` (with two dashes ?)")
}

func (gitTwoDashes) Suggest(cmd *command.Command, _ shell.Shell) []string {
	fields := strings.Split(cmd.Output, "`")
	if len(fields) < 2 || len(fields[1]) < 2 {
		return nil
	}
	to := fields[1]
	return single(textutil.ReplaceArgument(cmd.Script, to[1:], to))
}

// git_branch_0flag: a zero typed instead of a dash, "git branch 0d foo".

type gitBranch0Flag struct{ base }

func newGitBranch0Flag() Rule { return gitBranch0Flag{newBase("git_branch_0flag")} }

func firstZeroFlag(parts []string) string {
	for _, p := range parts {
		if len(p) == 2 && p[0] == '0' {
			return p
		}
	}
	return ""
}

func (gitBranch0Flag) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && arg(cmd, 1) == "branch" && firstZeroFlag(cmd.Parts()) != ""
}

func (gitBranch0Flag) Suggest(cmd *command.Command, sh shell.Shell) []string {
	flag := firstZeroFlag(cmd.Parts())
	fixed := strings.Replace(cmd.Script, flag, "-"+flag[1:], 1)
	if strings.Contains(cmd.Output, "A branch named '") && strings.Contains(cmd.Output, "' already exists.") {
		return single(sh.And("git branch -D "+flag, fixed))
	}
	return single(fixed)
}

// git_flag_after_filename: git wants options before paths.

var (
	gitBadFlag      = regexp.MustCompile(`fatal: bad flag '(.*?)' used after filename`)
	gitOptionBefore = regexp.MustCompile(`fatal: option '(.*?)' must come before non-option arguments`)
)

type gitFlagAfterFilename struct{ base }

func newGitFlagAfterFilename() Rule {
	return gitFlagAfterFilename{newBase("git_flag_after_filename")}
}

func badFlag(output string) string {
	if f := textutil.Submatch(gitBadFlag, output, 1); f != "" {
		return f
	}
	return textutil.Submatch(gitOptionBefore, output, 1)
}

func (gitFlagAfterFilename) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && badFlag(cmd.Output) != ""
}

func (gitFlagAfterFilename) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	flagIdx := slices.Index(parts, badFlag(cmd.Output))
	if flagIdx < 0 {
		return nil
	}
	for i := flagIdx - 1; i >= 0; i-- {
		if !strings.HasPrefix(parts[i], "-") {
			parts[i], parts[flagIdx] = parts[flagIdx], parts[i]
			return single(strings.Join(parts, " "))
		}
	}
	return nil
}

// git_add: the pathspec exists on disk but is untracked.

var gitPathspec = regexp.MustCompile(`error: pathspec '([^']*)' did not match any file\(s\) known to git`)

type gitAdd struct {
	base
	h *host.Host
}

func newGitAdd(h *host.Host) Rule { return gitAdd{newBase("git_add"), h} }

func (r gitAdd) missingFile(cmd *command.Command) string {
	path := textutil.Submatch(gitPathspec, cmd.Output, 1)
	if path != "" && r.h.Exists(path) {
		return path
	}
	return ""
}

func (r gitAdd) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) &&
		strings.Contains(cmd.Output, "did not match any file(s) known to git.") &&
		r.missingFile(cmd) != ""
}

func (r gitAdd) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(sh.And("git add -- "+r.missingFile(cmd), cmd.Script))
}

// git_add_force: the path is ignored.

type gitAddForce struct{ base }

func newGitAddForce() Rule { return gitAddForce{newBase("git_add_force")} }

func (gitAddForce) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && slices.Contains(cmd.Parts(), "add") &&
		strings.Contains(cmd.Output, "Use -f if you really want to add them.")
}

func (gitAddForce) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "add", "add --force"))
}

// git_branch_delete: -d refuses an unmerged branch.

type gitBranchDelete struct{ base }

func newGitBranchDelete() Rule { return gitBranchDelete{newBase("git_branch_delete")} }

func (gitBranchDelete) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "branch -d") &&
		strings.Contains(cmd.Output, "If you are sure you want to delete it")
}

func (gitBranchDelete) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "-d", "-D"))
}

// git_branch_exists: creating a branch that already exists.

var gitBranchExistsRe = regexp.MustCompile(`fatal: A branch named '(.+)' already exists.`)

type gitBranchExists struct{ base }

func newGitBranchExists() Rule { return gitBranchExists{newBase("git_branch_exists")} }

func (gitBranchExists) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Output, "fatal: A branch named '") &&
		strings.Contains(cmd.Output, "' already exists.")
}

func (gitBranchExists) Suggest(cmd *command.Command, sh shell.Shell) []string {
	name := textutil.Submatch(gitBranchExistsRe, cmd.Output, 1)
	if name == "" {
		return nil
	}
	name = strings.ReplaceAll(name, "'", `\'`)
	return []string{
		sh.And("git branch -d "+name, "git branch "+name),
		sh.And("git branch -d "+name, "git checkout -b "+name),
		sh.And("git branch -D "+name, "git branch "+name),
		sh.And("git branch -D "+name, "git checkout -b "+name),
		"git checkout " + name,
	}
}

// git_branch_list: "git branch list" creates a branch called list.

type gitBranchList struct{ base }

func newGitBranchList() Rule { return gitBranchList{newBase("git_branch_list")} }

func (gitBranchList) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && slices.Equal(cmd.Parts()[1:], []string{"branch", "list"})
}

func (gitBranchList) Suggest(_ *command.Command, sh shell.Shell) []string {
	return single(sh.And("git branch --delete list", "git branch"))
}

// git_checkout: checking out a branch that does not exist.

type gitCheckout struct {
	base
	h *host.Host
}

func newGitCheckout(h *host.Host) Rule { return gitCheckout{newBase("git_checkout"), h} }

func (r gitCheckout) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) &&
		strings.Contains(cmd.Output, "did not match any file(s) known to git") &&
		!strings.Contains(cmd.Output, "Did you forget to 'git add'?")
}

func (r gitCheckout) branches() []string {
	out, err := r.h.Output("git", "branch", "-a", "--no-color", "--no-column")
	if err != nil {
		return nil
	}
	var branches []string
	for _, line := range textutil.Lines(string(out)) {
		if strings.Contains(line, "->") {
			continue
		}
		if strings.HasPrefix(line, "*") {
			if f := strings.Fields(line); len(f) > 1 {
				line = f[1]
			}
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "remotes/") {
			if segs := strings.Split(line, "/"); len(segs) > 2 {
				line = strings.Join(segs[2:], "/")
			}
		}
		branches = append(branches, line)
	}
	return branches
}

func (r gitCheckout) Suggest(cmd *command.Command, sh shell.Shell) []string {
	missing := textutil.Submatch(gitPathspec, cmd.Output, 1)
	if missing == "" {
		return nil
	}
	var out []string
	if closest := textutil.Closest(missing, r.branches()); closest != "" {
		out = append(out, textutil.ReplaceArgument(cmd.Script, missing, closest))
	}
	if arg(cmd, 1) == "checkout" {
		out = append(out, textutil.ReplaceArgument(cmd.Script, "checkout", "checkout -b"))
	}
	if len(out) == 0 {
		out = append(out, sh.And("git branch "+missing, cmd.Script))
	}
	return out
}

// git_clone_git_clone: the clone URL was pasted with its own "git clone".

type gitCloneGitClone struct{ base }

func newGitCloneGitClone() Rule { return gitCloneGitClone{newBase("git_clone_git_clone")} }

func (gitCloneGitClone) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, " git clone ") &&
		strings.Contains(cmd.Output, "fatal: Too many arguments.")
}

func (gitCloneGitClone) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Replace(cmd.Script, " git clone ", " ", 1))
}

// git_commit_amend and git_commit_reset offer follow-ups to any commit.

type gitCommitAmend struct{ base }

func newGitCommitAmend() Rule { return gitCommitAmend{newBase("git_commit_amend")} }

func (gitCommitAmend) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && arg(cmd, 1) == "commit"
}

func (gitCommitAmend) Suggest(*command.Command, shell.Shell) []string {
	return []string{"git commit --amend"}
}

type gitCommitReset struct{ base }

func newGitCommitReset() Rule { return gitCommitReset{newBase("git_commit_reset")} }

func (gitCommitReset) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && arg(cmd, 1) == "commit"
}

func (gitCommitReset) Suggest(*command.Command, shell.Shell) []string {
	return []string{"git reset HEAD~"}
}

// git_diff_no_index: diffing two untracked files.

type gitDiffNoIndex struct{ base }

func newGitDiffNoIndex() Rule { return gitDiffNoIndex{newBase("git_diff_no_index")} }

func (gitDiffNoIndex) Match(cmd *command.Command, _ shell.Shell) bool {
	if !isGit(cmd) || !strings.Contains(cmd.Script, "diff") || strings.Contains(cmd.Script, "--no-index") {
		return false
	}
	files := 0
	for _, p := range cmd.Parts()[min(2, len(cmd.Parts())):] {
		if !strings.HasPrefix(p, "-") {
			files++
		}
	}
	return files == 2
}

func (gitDiffNoIndex) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "diff", "diff --no-index"))
}

// git_diff_staged: an empty diff usually means the changes are staged.

type gitDiffStaged struct{ base }

func newGitDiffStaged() Rule {
	return gitDiffStaged{newBase("git_diff_staged", outputOptional())}
}

func (gitDiffStaged) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "diff") &&
		!strings.Contains(cmd.Script, "--staged")
}

func (gitDiffStaged) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "diff", "diff --staged"))
}

// git_fix_stash: misspelled stash subcommand.

var stashCommands = []string{"apply", "branch", "clear", "drop", "list", "pop", "save", "show"}

type gitFixStash struct{ base }

func newGitFixStash() Rule { return gitFixStash{newBase("git_fix_stash")} }

func (gitFixStash) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && arg(cmd, 1) == "stash" && strings.Contains(cmd.Output, "usage:")
}

func (gitFixStash) Suggest(cmd *command.Command, _ shell.Shell) []string {
	sub := arg(cmd, 2)
	if sub == "" {
		return nil
	}
	if fixed := textutil.Closest(sub, stashCommands); fixed != "" {
		return single(textutil.ReplaceArgument(cmd.Script, sub, fixed))
	}
	parts := slices.Insert(slices.Clone(cmd.Parts()), 2, "save")
	return single(strings.Join(parts, " "))
}

// git_help_aliased: help on an alias shows the aliased command instead.

type gitHelpAliased struct{ base }

func newGitHelpAliased() Rule { return gitHelpAliased{newBase("git_help_aliased")} }

func (gitHelpAliased) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "help") &&
		strings.Contains(cmd.Output, " is aliased to ")
}

func (gitHelpAliased) Suggest(cmd *command.Command, _ shell.Shell) []string {
	fields := strings.SplitN(cmd.Output, "`", 3)
	if len(fields) < 3 {
		return nil
	}
	aliased, _, _ := strings.Cut(fields[2], "'")
	aliased, _, _ = strings.Cut(aliased, " ")
	return single("git help " + aliased)
}

// git_hook_bypass: skip hooks that blocked am, commit or push.

var hookedCommands = []string{"am", "commit", "push"}

type gitHookBypass struct{ base }

func newGitHookBypass() Rule {
	return gitHookBypass{newBase("git_hook_bypass", disabledByDefault(), outputOptional(), priority(1100))}
}

func (gitHookBypass) hooked(cmd *command.Command) string {
	for _, h := range hookedCommands {
		if slices.Contains(cmd.Parts(), h) {
			return h
		}
	}
	return ""
}

func (r gitHookBypass) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && r.hooked(cmd) != ""
}

func (r gitHookBypass) Suggest(cmd *command.Command, _ shell.Shell) []string {
	h := r.hooked(cmd)
	return single(textutil.ReplaceArgument(cmd.Script, h, h+" --no-verify"))
}

// git_lfs_mistype: misspelled git-lfs subcommand.

var gitLfsUnknown = regexp.MustCompile(`Error: unknown command "([^"]*)" for "git-lfs"`)

type gitLfsMistype struct{ base }

func newGitLfsMistype() Rule { return gitLfsMistype{newBase("git_lfs_mistype")} }

func (gitLfsMistype) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "lfs") &&
		strings.Contains(cmd.Output, "Did you mean this?")
}

func (gitLfsMistype) Suggest(cmd *command.Command, _ shell.Shell) []string {
	broken := textutil.Submatch(gitLfsUnknown, cmd.Output, 1)
	if broken == "" {
		return nil
	}
	matched := textutil.MatchedCommands(cmd.Output, "Did you mean", " for usage.")
	return textutil.ReplaceCommand(cmd.Script, broken, matched)
}

// git_main_master: the default branch has the other name.

type gitMainMaster struct{ base }

func newGitMainMaster() Rule { return gitMainMaster{newBase("git_main_master", priority(1200))} }

func (gitMainMaster) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && textutil.ContainsAny(cmd.Output, "'master'", "'main'")
}

func (gitMainMaster) Suggest(cmd *command.Command, _ shell.Shell) []string {
	if strings.Contains(cmd.Output, "'master'") {
		return single(strings.ReplaceAll(cmd.Script, "master", "main"))
	}
	return single(strings.ReplaceAll(cmd.Script, "main", "master"))
}
