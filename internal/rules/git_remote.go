package rules

import (
	"regexp"
	"slices"
	"strings"

	"ohcrab/internal/command"
	"ohcrab/internal/shell"
	"ohcrab/internal/textutil"
)

// git_merge: merging a branch that only exists on the remote.

var (
	gitMergeUnknown = regexp.MustCompile(`merge: (.+) - not something we can merge`)
	gitMergeMeant   = regexp.MustCompile(`Did you mean this\?\n\t([^\n]+)`)
)

type gitMerge struct{ base }

func newGitMerge() Rule { return gitMerge{newBase("git_merge")} }

func (gitMerge) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "merge") &&
		strings.Contains(cmd.Output, " - not something we can merge") &&
		strings.Contains(cmd.Output, "Did you mean this?")
}

func (gitMerge) Suggest(cmd *command.Command, _ shell.Shell) []string {
	unknown := textutil.Submatch(gitMergeUnknown, cmd.Output, 1)
	remote := textutil.Submatch(gitMergeMeant, cmd.Output, 1)
	if unknown == "" || remote == "" {
		return nil
	}
	return single(textutil.ReplaceArgument(cmd.Script, unknown, remote))
}

type gitMergeUnrelated struct{ base }

func newGitMergeUnrelated() Rule { return gitMergeUnrelated{newBase("git_merge_unrelated")} }

func (gitMergeUnrelated) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "merge") &&
		strings.Contains(cmd.Output, "fatal: refusing to merge unrelated histories")
}

func (gitMergeUnrelated) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(cmd.Script + " --allow-unrelated-histories")
}

// git_pull: the branch has no upstream; git prints the command to set it.

type gitPull struct{ base }

func newGitPull() Rule { return gitPull{newBase("git_pull")} }

func (gitPull) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "pull") &&
		strings.Contains(cmd.Output, "set-upstream")
}

func (gitPull) Suggest(cmd *command.Command, sh shell.Shell) []string {
	lines := strings.Split(cmd.Output, "\n")
	if len(lines) < 3 {
		return nil
	}
	line := strings.TrimSpace(lines[len(lines)-3])
	words := strings.Split(line, " ")
	branch := words[len(words)-1]
	upstream := strings.ReplaceAll(strings.ReplaceAll(line, "<remote>", "origin"), "<branch>", branch)
	return single(sh.And(upstream, cmd.Script))
}

type gitPullClone struct{ base }

func newGitPullClone() Rule { return gitPullClone{newBase("git_pull_clone")} }

func (gitPullClone) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Output, "fatal: Not a git repository") &&
		strings.Contains(cmd.Output, "Stopping at filesystem boundary (GIT_DISCOVERY_ACROSS_FILESYSTEM not set).")
}

func (gitPullClone) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "pull", "clone"))
}

type gitPullUncommittedChanges struct{ base }

func newGitPullUncommittedChanges() Rule {
	return gitPullUncommittedChanges{newBase("git_pull_uncommitted_changes")}
}

func (gitPullUncommittedChanges) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "pull") &&
		textutil.ContainsAny(cmd.Output, "You have unstaged changes", "contains uncommitted changes")
}

func (gitPullUncommittedChanges) Suggest(_ *command.Command, sh shell.Shell) []string {
	return single(sh.And("git stash", "git pull", "git stash pop"))
}

// git_push: the branch has no upstream yet.

var gitPushSuggested = regexp.MustCompile(`git push (.*)`)

type gitPush struct{ base }

func newGitPush() Rule { return gitPush{newBase("git_push")} }

func (gitPush) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && slices.Contains(cmd.Parts(), "push") &&
		strings.Contains(cmd.Output, "git push --set-upstream")
}

func (gitPush) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())

	upstream := slices.Index(parts, "--set-upstream")
	if upstream < 0 {
		upstream = slices.Index(parts, "-u")
	}
	if upstream >= 0 {
		parts = slices.Delete(parts, upstream, upstream+1)
		if len(parts) > upstream {
			parts = slices.Delete(parts, upstream, upstream+1)
		}
	} else {
		pushIdx := slices.Index(parts, "push") + 1
		for len(parts) > pushIdx && !strings.HasPrefix(parts[len(parts)-1], "-") {
			parts = parts[:len(parts)-1]
		}
	}

	found := textutil.AllSubmatches(gitPushSuggested, cmd.Output, 1)
	if len(found) == 0 {
		return nil
	}
	args := strings.TrimSpace(strings.ReplaceAll(found[len(found)-1], "'", `\'`))
	return single(textutil.ReplaceArgument(strings.Join(parts, " "), "push", "push "+args))
}

func pushRejected(cmd *command.Command) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "push") &&
		strings.Contains(cmd.Output, "! [rejected]") &&
		strings.Contains(cmd.Output, "failed to push some refs to")
}

// git_push_force: overwrite a diverged remote, off unless enabled.

type gitPushForce struct{ base }

func newGitPushForce() Rule { return gitPushForce{newBase("git_push_force", disabledByDefault())} }

func (gitPushForce) Match(cmd *command.Command, _ shell.Shell) bool {
	return pushRejected(cmd) &&
		strings.Contains(cmd.Output, "Updates were rejected because the tip of your current branch is behind")
}

func (gitPushForce) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "push", "push --force-with-lease"))
}

// git_push_pull: integrate remote work before pushing.

type gitPushPull struct{ base }

func newGitPushPull() Rule { return gitPushPull{newBase("git_push_pull")} }

func (gitPushPull) Match(cmd *command.Command, _ shell.Shell) bool {
	return pushRejected(cmd) && textutil.ContainsAny(cmd.Output,
		"Updates were rejected because the tip of your current branch is behind",
		"Updates were rejected because the remote contains work that you do")
}

func (gitPushPull) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(sh.And(textutil.ReplaceArgument(cmd.Script, "push", "pull"), cmd.Script))
}

var gitNoRefspec = regexp.MustCompile(`src refspec \w+ does not match any`)

type gitPushWithoutCommits struct{ base }

func newGitPushWithoutCommits() Rule {
	return gitPushWithoutCommits{newBase("git_push_without_commits")}
}

func (gitPushWithoutCommits) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && gitNoRefspec.MatchString(cmd.Output)
}

func (gitPushWithoutCommits) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(sh.And(`git commit -m "Initial commit"`, cmd.Script))
}

// git_rebase_merge_dir: a stale rebase is in progress.

type gitRebaseMergeDir struct{ base }

func newGitRebaseMergeDir() Rule { return gitRebaseMergeDir{newBase("git_rebase_merge_dir")} }

func (gitRebaseMergeDir) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, " rebase") &&
		strings.Contains(cmd.Output, "It seems that there is already a rebase-merge directory") &&
		strings.Contains(cmd.Output, "I wonder if you are in the middle of another rebase")
}

func (gitRebaseMergeDir) Suggest(cmd *command.Command, _ shell.Shell) []string {
	options := []string{"git rebase --continue", "git rebase --abort", "git rebase --skip"}
	if lines := strings.Split(cmd.Output, "\n"); len(lines) >= 4 {
		options = append(options, strings.TrimSpace(lines[len(lines)-4]))
	}
	return textutil.CloseMatches(cmd.Script, options, textutil.WithLimit(4), textutil.WithCutoff(0))
}

type gitRebaseNoChanges struct{ base }

func newGitRebaseNoChanges() Rule { return gitRebaseNoChanges{newBase("git_rebase_no_changes")} }

func (gitRebaseNoChanges) Match(cmd *command.Command, _ shell.Shell) bool {
	parts := cmd.Parts()
	return isGit(cmd) && slices.Contains(parts, "rebase") && slices.Contains(parts, "--continue") &&
		strings.Contains(cmd.Output, "No changes - did you forget to use 'git add'?")
}

func (gitRebaseNoChanges) Suggest(*command.Command, shell.Shell) []string {
	return []string{"git rebase --skip"}
}

// git_remote_delete and git_remote_seturl_add fix remote subcommand mixups.

type gitRemoteDelete struct{ base }

func newGitRemoteDelete() Rule { return gitRemoteDelete{newBase("git_remote_delete")} }

func (gitRemoteDelete) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "remote delete")
}

func (gitRemoteDelete) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Replace(cmd.Script, "delete", "remove", 1))
}

type gitRemoteSeturlAdd struct{ base }

func newGitRemoteSeturlAdd() Rule { return gitRemoteSeturlAdd{newBase("git_remote_seturl_add")} }

func (gitRemoteSeturlAdd) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "set-url") &&
		strings.Contains(cmd.Output, "fatal: No such remote")
}

func (gitRemoteSeturlAdd) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "set-url", "add"))
}

// git rm refuses to drop files with pending changes unless told how.

type gitRmModified struct {
	base
	reason string
}

func newGitRmLocalModifications() Rule {
	return gitRmModified{newBase("git_rm_local_modifications"), "error: the following file has local modifications"}
}

func newGitRmStaged() Rule {
	return gitRmModified{newBase("git_rm_staged"), "error: the following file has changes staged in the index"}
}

func (r gitRmModified) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, " rm ") &&
		strings.Contains(cmd.Output, r.reason) &&
		strings.Contains(cmd.Output, "use --cached to keep the file, or -f to force removal")
}

func (gitRmModified) Suggest(cmd *command.Command, _ shell.Shell) []string {
	idx := slices.Index(cmd.Parts(), "rm")
	if idx < 0 {
		return nil
	}
	cached := slices.Insert(slices.Clone(cmd.Parts()), idx+1, "--cached")
	forced := slices.Insert(slices.Clone(cmd.Parts()), idx+1, "-f")
	return []string{strings.Join(cached, " "), strings.Join(forced, " ")}
}

type gitRmRecursive struct{ base }

func newGitRmRecursive() Rule { return gitRmRecursive{newBase("git_rm_recursive")} }

func (gitRmRecursive) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, " rm ") &&
		strings.Contains(cmd.Output, "fatal: not removing '") &&
		strings.Contains(cmd.Output, "' recursively without -r")
}

func (gitRmRecursive) Suggest(cmd *command.Command, _ shell.Shell) []string {
	idx := slices.Index(cmd.Parts(), "rm")
	if idx < 0 {
		return nil
	}
	return single(strings.Join(slices.Insert(slices.Clone(cmd.Parts()), idx+1, "-r"), " "))
}

// git_stash: local changes block the operation.

type gitStash struct{ base }

func newGitStash() Rule { return gitStash{newBase("git_stash")} }

func (gitStash) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Output, "or stash them")
}

func (gitStash) Suggest(cmd *command.Command, sh shell.Shell) []string {
	return single(sh.And("git stash", cmd.Script))
}

type gitStashPop struct{ base }

func newGitStashPop() Rule { return gitStashPop{newBase("git_stash_pop")} }

func (gitStashPop) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && strings.Contains(cmd.Script, "stash") && strings.Contains(cmd.Script, "pop") &&
		strings.Contains(cmd.Output, "Your local changes to the following files would be overwritten by merge")
}

func (gitStashPop) Suggest(_ *command.Command, sh shell.Shell) []string {
	return single(sh.And("git add --update", "git stash pop", "git reset ."))
}

type gitTagForce struct{ base }

func newGitTagForce() Rule { return gitTagForce{newBase("git_tag_force")} }

func (gitTagForce) Match(cmd *command.Command, _ shell.Shell) bool {
	return isGit(cmd) && slices.Contains(cmd.Parts(), "tag") &&
		strings.Contains(cmd.Output, "already exists")
}

func (gitTagForce) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "tag", "tag --force"))
}
