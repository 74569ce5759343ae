package rules

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohcrab/internal/command"
	"ohcrab/internal/host"
	"ohcrab/internal/shell"
)

const cwd = "/home/me"

func testHost(t *testing.T, executables ...string) *host.Host {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(cwd, 0o755))
	require.NoError(t, fs.MkdirAll("/usr/bin", 0o755))
	for _, e := range executables {
		require.NoError(t, afero.WriteFile(fs, "/usr/bin/"+e, nil, 0o755))
	}
	h := host.New(fs, "/usr/bin", cwd)
	h.Aliases = []string{"crab", shell.Program}
	return h
}

func testShell(history ...string) shell.Shell {
	return shell.New(shell.Bash, shell.WithFs(afero.NewMemMapFs()), shell.WithHistory(history))
}

func suggestions(t *testing.T, r Rule, sh shell.Shell, script, output string) []string {
	t.Helper()
	cmd := command.New(script, output)
	require.True(t, r.Match(cmd, sh), "%s should match %q", r.Info().Name, script)
	return r.Suggest(cmd, sh)
}

func assertNoMatch(t *testing.T, r Rule, sh shell.Shell, script, output string) {
	t.Helper()
	assert.False(t, r.Match(command.New(script, output), sh), "%s should not match %q", r.Info().Name, script)
}

// ──────────────────────────────────────────────────────────────────────────────
// end-to-end examples from the user's point of view
// ──────────────────────────────────────────────────────────────────────────────

func TestMissingDirectoryCd(t *testing.T) {
	got := suggestions(t, newCdMkdir(), testShell(), "cd foo", "cd: foo: No such file or directory")
	assert.Equal(t, []string{"mkdir -p foo && cd foo"}, got)
}

func TestGitTypo(t *testing.T) {
	output := "git: 'brnch' is not a git command. See 'git --help'.\nThe most similar command is\nbranch"
	got := suggestions(t, newGitNotCommand(), testShell(), "git brnch", output)
	assert.Equal(t, []string{"git branch"}, got)
}

func TestMissingSudoWithRedirect(t *testing.T) {
	got := suggestions(t, newSudo(), testShell(), "echo a > /etc/b", "Permission denied")
	assert.Equal(t, []string{`sudo sh -c "echo a > /etc/b"`}, got)
}

func TestDryDuplication(t *testing.T) {
	got := suggestions(t, newDry(), testShell(), "git git push origin master", "")
	assert.Equal(t, []string{"git push origin master"}, got)
}

func TestGitTwoDashes(t *testing.T) {
	got := suggestions(t, newGitTwoDashes(), testShell(), "git add -patch",
		"error: did you mean `--patch` (with two dashes ?)")
	assert.Equal(t, []string{"git add --patch"}, got)
}

func TestDirtyUntar(t *testing.T) {
	h := testHost(t)
	writeTar(t, h, "foo.tar", "a.txt", "b/c.txt", "../evil.txt")
	for _, f := range []string{"/home/me/a.txt", "/home/me/b/c.txt", "/home/evil.txt"} {
		require.NoError(t, afero.WriteFile(h.Fs, f, []byte("x"), 0o644))
	}
	r := newDirtyUntar(h)
	sh := testShell()

	got := suggestions(t, r, sh, "tar xvf foo.tar", "a.txt\nb/c.txt")
	require.Equal(t, []string{"mkdir -p foo && tar xvf foo.tar -C foo"}, got)

	require.NoError(t, r.(SideEffecter).SideEffect(command.New("tar xvf foo.tar", ""), got[0]))
	assert.False(t, h.Exists("a.txt"))
	assert.False(t, h.Exists("b/c.txt"))
	assert.True(t, h.Exists("/home/evil.txt"), "entries outside the cwd are never touched")
	assert.True(t, h.Exists("foo.tar"))

	require.NoError(t, r.(SideEffecter).SideEffect(command.New("tar xvf foo.tar", ""), got[0]))
}

// ──────────────────────────────────────────────────────────────────────────────
// archives
// ──────────────────────────────────────────────────────────────────────────────

func writeTar(t *testing.T, h *host.Host, name string, entries ...string) {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: e, Mode: 0o644, Size: 1}))
		_, err := tw.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, afero.WriteFile(h.Fs, h.Abs(name), buf.Bytes(), 0o644))
}

func writeZip(t *testing.T, h *host.Host, name string, entries ...string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e)
		require.NoError(t, err)
		_, err = w.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, afero.WriteFile(h.Fs, h.Abs(name), buf.Bytes(), 0o644))
}

func TestDirtyUntarCleanArchive(t *testing.T) {
	h := testHost(t)
	writeTar(t, h, "pkg.tar", "pkg/a", "pkg/b")
	assertNoMatch(t, newDirtyUntar(h), testShell(), "tar xvf pkg.tar", "pkg/a")
	assertNoMatch(t, newDirtyUntar(h), testShell(), "tar xvf foo.tar -C out", "x")
	assertNoMatch(t, newDirtyUntar(h), testShell(), "tar cvf foo.tar a", "x")
}

func TestDirtyUnzip(t *testing.T) {
	h := testHost(t)
	writeZip(t, h, "foo.zip", "a.txt", "b.txt")
	require.NoError(t, afero.WriteFile(h.Fs, "/home/me/a.txt", nil, 0o644))
	r := newDirtyUnzip(h)
	sh := testShell()

	assert.Equal(t, []string{"unzip foo.zip -d foo"}, suggestions(t, r, sh, "unzip foo.zip", ""))
	assert.Equal(t, []string{"unzip foo -d foo"}, suggestions(t, r, sh, "unzip foo", ""))
	assertNoMatch(t, r, sh, "unzip foo.zip -d out", "")

	require.NoError(t, r.(SideEffecter).SideEffect(command.New("unzip foo.zip", ""), "unzip foo.zip -d foo"))
	assert.False(t, h.Exists("a.txt"))

	writeZip(t, h, "one.zip", "only.txt")
	assertNoMatch(t, r, sh, "unzip one.zip", "")
}

// ──────────────────────────────────────────────────────────────────────────────
// output driven rules
// ──────────────────────────────────────────────────────────────────────────────

const gitRejectedBehind = "To /tmp/bar\n ! [rejected]        master -> master (non-fast-forward)\nerror: failed to push some refs to '/tmp/bar'\nhint: Updates were rejected because the tip of your current branch is behind\n"

func TestOutputRules(t *testing.T) {
	sh := testShell()

	tests := []struct {
		name   string
		rule   Rule
		script string
		output string
		want   []string
	}{
		{"sudo plain", newSudo(), "apt-get install vim", "E: Could not open lock file - open (13: Permission denied)", []string{"sudo apt-get install vim"}},
		{"sudo chained", newSudo(), "cd /x && make install", "make: permission denied", []string{`sudo sh -c "cd /x && make install"`}},
		{"unsudo", newUnsudo(), "sudo npm install -g a", "You cannot perform this operation as root", []string{"npm install -g a"}},
		{"mkdir_p under sudo", newMkdirP(), "sudo mkdir a/b", "mkdir: a: No such file or directory", []string{"sudo mkdir -p a/b"}},
		{"rm_dir", newRmDir(), "rm foo", "rm: foo: is a directory", []string{"rm -rf foo"}},
		{"cp_omitting_directory", newCpOmittingDirectory(), "cp dir dest", "cp: omitting directory 'dir'", []string{"cp -a dir dest"}},
		{"cp_create_destination", newCpCreateDestination(), "cp a.txt out/", "cp: cannot create regular file 'out/': No such file or directory", []string{"mkdir -p out/ && cp a.txt out/"}},
		{"touch", newTouch(), "touch a/b/c", "touch: cannot touch 'a/b/c': No such file or directory", []string{"mkdir -p a/b && touch a/b/c"}},
		{"git_push", newGitPush(), "git push", "fatal: The current branch master has no upstream branch.\nTo push the current branch and set the remote as upstream, use\n\n    git push --set-upstream origin master\n\n", []string{"git push --set-upstream origin master"}},
		{"git_push with -u", newGitPush(), "git push -u origin", "error: ...\n    git push --set-upstream origin master\n", []string{"git push --set-upstream origin master"}},
		{"git_flag_after_filename", newGitFlagAfterFilename(), "git log README.md -p", "fatal: bad flag '-p' used after filename", []string{"git log -p README.md"}},
		{"git_fix_stash typo", newGitFixStash(), "git stash opp", "usage: git stash list", []string{"git stash pop"}},
		{"git_fix_stash message", newGitFixStash(), "git stash Some message", "usage: git stash list", []string{"git stash save Some message"}},
		{"git_help_aliased", newGitHelpAliased(), "git help ds", "`ds' is aliased to `diff --staged'", []string{"git help diff"}},
		{"git_branch_0flag", newGitBranch0Flag(), "git branch 0d foo", "error: branch '0d' not found.", []string{"git branch -d foo"}},
		{"git_branch_delete", newGitBranchDelete(), "git branch -d foo", "error: The branch 'foo' is not fully merged.\nIf you are sure you want to delete it, run 'git branch -D foo'.", []string{"git branch -D foo"}},
		{"git_stash", newGitStash(), "git checkout main", "error: Your local changes would be overwritten.\nPlease commit your changes or stash them before you switch branches.", []string{"git stash && git checkout main"}},
		{"git_rm_recursive", newGitRmRecursive(), "git rm foo", "fatal: not removing 'foo' recursively without -r", []string{"git rm -r foo"}},
		{"git_rm_staged", newGitRmStaged(), "git rm foo", "error: the following file has changes staged in the index:\n    foo\n(use --cached to keep the file, or -f to force removal)", []string{"git rm --cached foo", "git rm -f foo"}},
		{"git_tag_force", newGitTagForce(), "git tag v1", "fatal: tag 'v1' already exists", []string{"git tag --force v1"}},
		{"git_remote_delete", newGitRemoteDelete(), "git remote delete origin", "error: Unknown subcommand: delete", []string{"git remote remove origin"}},
		{"git_merge_unrelated", newGitMergeUnrelated(), "git merge other", "fatal: refusing to merge unrelated histories", []string{"git merge other --allow-unrelated-histories"}},
		{"git_push_without_commits", newGitPushWithoutCommits(), "git push -u origin master", "error: src refspec master does not match any.", []string{`git commit -m "Initial commit" && git push -u origin master`}},
		{"git_main_master", newGitMainMaster(), "git checkout master", "error: pathspec 'master' did not match any file(s) known to git", []string{"git checkout main"}},
		{"long_form_help hint", newLongFormHelp(), "grep -h", "Usage: grep [OPTION]...\nTry 'grep --help' for more information.", []string{"grep --help"}},
		{"long_form_help rewrite", newLongFormHelp(), "foo -h", "unknown flag -h, see --help", []string{"foo --help"}},
		{"apt_get", newAptGet(), "vim", "Command 'vim' not found, but can be installed with:\n\nsudo apt install vim\n", []string{"sudo apt-get install vim && vim"}},
		{"brew_install", newBrewInstall(), "brew install giss", `Warning: No available formula with the name "giss". Did you mean gist or gnu-sed?`, []string{"brew install gist", "brew install gnu-sed"}},
		{"nixos_cmd_not_found", newNixosCmdNotFound(), "vim", "The program 'vim' is not in your PATH.\nor install it with:\n  nix-env -iA nixos.vim", []string{"nix-env -iA nixos.vim && vim"}},
		{"fix_alt_space", newFixAltSpace(), "ps\u00a0-ef", "ps\u00a0-ef: command not found", []string{"ps -ef"}},
		{"quotation_marks", newQuotationMarks(), `git commit -m 'fix"`, "error", []string{`git commit -m "fix"`}},
		{"systemctl", newSystemctl(), "systemctl nginx start", "Unknown operation 'nginx'.", []string{"systemctl start nginx"}},
		{"systemctl under sudo", newSystemctl(), "sudo systemctl nginx start", "Unknown operation 'nginx'.", []string{"sudo systemctl start nginx"}},
		{"npm_wrong_command", newNpmWrongCommand(), "npm instal", "Usage: npm <command>\n\nwhere <command> is one of:\n    install, init, info\n\nnpm <cmd> -h", []string{"npm install"}},
		{"pip_unknown_command", newPipUnknownCommand(), "pip instatl", `ERROR: unknown command "instatl" - maybe you meant "install"`, []string{"pip install"}},
		{"cargo_no_command", newCargoNoCommand(), "cargo buid", "error: no such subcommand: `buid`\n\n\tDid you mean `build`?", []string{"cargo build"}},
		{"terraform_no_command", newTerraformNoCommand(), "terraform destory", "Terraform has no command named \"destory\". Did you mean \"destroy\"?", []string{"terraform destroy"}},
		{"tmux", newTmux(), "tmux list", "ambiguous command: list, could be: list-buffers, list-clients, list-commands", []string{"tmux list-buffers", "tmux list-clients", "tmux list-commands"}},
		{"vagrant_up", newVagrantUp(), "vagrant ssh devbox", "VM must be running to open SSH connection. Run `vagrant up`\nto start the virtual machine.", []string{"vagrant up devbox && vagrant ssh devbox", "vagrant up && vagrant ssh devbox"}},
		{"python_module_error", newPythonModuleError(), "python app.py", "ModuleNotFoundError: No module named 'requests'", []string{"pip install requests && python app.py"}},
		{"conda_mistype", newCondaMistype(), "conda lst", "CommandNotFoundError: No command 'conda lst'.\nDid you mean 'conda list'?", []string{"conda list"}},
		{"aws_cli", newAwsCli(), "aws dynamdb scan", "usage: aws [options]\naws: error: argument command: Invalid choice, valid choices are:\n\nInvalid choice: 'dynamdb', maybe you meant:\n\n  * dynamodb\n", []string{"aws dynamodb scan"}},
		{"unknown_command", newUnknownCommand(), "hdfs dfs ls", "ls: Unknown command\nDid you mean -ls?  This command begins with a dash.", []string{"hdfs dfs -ls"}},
		{"mvn_no_command", newMvnNoCommand(), "mvn", "[ERROR] No goals have been specified for this build.", []string{"mvn clean package", "mvn clean install"}},
		{"docker_image_being_used", newDockerImageBeingUsedByContainer(), "docker image rm abc", "Error response from daemon: conflict: unable to delete abc (cannot be forced) - image is being used by running container e5e2591040d1", []string{"docker container rm -f e5e2591040d1 && docker image rm abc"}},
		{"heroku_multiple_apps", newHerokuMultipleApps(), "heroku pg", " ▸    Multiple apps in git remotes\n ▸    Usage: --remote heroku-dev\n ▸    or: --app myapp-dev\n ▸    Your local git repository has more than 1 app referenced in git remotes.\n ▸    Because of this, we can't determine which app you want to run this command against.\n ▸    Specify the app you want with --app or --remote.\n ▸    Heroku remotes in repo:\n ▸    myapp (heroku)\n ▸    myapp-dev (heroku-dev)\n ▸\n ▸    https://devcenter.heroku.com/articles/multiple-environments", []string{"heroku pg --app myapp", "heroku pg --app myapp-dev"}},
		{"adb_unknown_command", newAdbUnknownCommand(), "adb lgcat", "Android Debug Bridge version 1.0.31\n\n -d  - directs command to the only connected USB device", []string{"adb logcat"}},
		{"ag_literal", newAgLiteral(), "ag foo(", "ERR: Bad regex! pcre_compile() failed at position 4: missing )\nIf you meant to search for a literal string, run ag with -Q\n", []string{"ag -Q foo("}},
		{"apt_get_search", newAptGetSearch(), "apt-get search vim", "E: Invalid operation search", []string{"apt-cache search vim"}},
		{"apt_list_upgradable", newAptListUpgradable(), "apt update", "Reading package lists... Done\n3 packages can be upgraded. Run 'apt list --upgradable' to see them.\n", []string{"apt list --upgradable"}},
		{"apt_upgrade", newAptUpgrade(), "apt list --upgradable", "Listing... Done\nvim/stable 2:8.2 amd64 [upgradable from: 2:8.1]\n", []string{"apt upgrade"}},
		{"az_cli", newAzCli(), "az providers", "az: 'providers' is not in the 'az' command group. See 'az --help'.\n\nThe most similar choice to 'providers' is:\n    provider\n", []string{"az provider"}},
		{"brew_link", newBrewLink(), "brew ln coreutils", "Error: Could not symlink bin/gcat\nTo list all files that would be deleted:\n  brew link --overwrite --dry-run coreutils\n", []string{"brew link --overwrite --dry-run coreutils"}},
		{"brew_reinstall", newBrewReinstall(), "brew install git", "Warning: git 2.3.5 is already installed and up-to-date\nTo reinstall 2.3.5, run `brew reinstall git`\n", []string{"brew reinstall git"}},
		{"brew_uninstall", newBrewUninstall(), "brew rm tbb", "tbb 4.4-20160526, 4.4-20160722 are still installed.\nRemove all versions with `brew uninstall --force tbb`.\n", []string{"brew uninstall --force tbb"}},
		{"brew_update_formula", newBrewUpdateFormula(), "brew update foo", "Error: This command updates brew itself, and does not take formula names.\nUse `brew upgrade foo` instead.\n", []string{"brew upgrade foo"}},
		{"cargo", newCargo(), "cargo", "", []string{"cargo build"}},
		{"cd_cs", newCdCs(), "cs /etc/", "cs: command not found", []string{"cd /etc/"}},
		{"cd_parent", newCdParent(), "cd..", "cd..: command not found", []string{"cd .."}},
		{"choco_install", newChocoInstall(), "choco install logstitcher", "Installing the following packages:\nlogstitcher\nBy installing you accept licenses for the packages.\n", []string{"choco install logstitcher.install"}},
		{"composer_not_command", newComposerNotCommand(), "composer udpate", "\n\n  [InvalidArgumentException]\n  Command \"udpate\" is not defined.\n  Did you mean this?\n      update\n\n", []string{"composer update"}},
		{"composer install for require", newComposerNotCommand(), "composer install symfony/console", "Invalid argument symfony/console. Use \"composer require symfony/console\" instead to add packages to your composer.json.", []string{"composer require symfony/console"}},
		{"cpp11", newCpp11(), "g++ foo.cpp", "foo.cpp:1:1: error: This file requires compiler and library support for the ISO C++ 2011 standard.", []string{"g++ foo.cpp -std=c++11"}},
		{"docker_login", newDockerLogin(), "docker pull me/app", "Error response from daemon: pull access denied for me/app, repository does not exist or may require 'docker login'", []string{"docker login && docker pull me/app"}},
		{"fab_command_not_found", newFabCommandNotFound(), "fab extenson", "Warning: Command(s) not found:\n    extenson\n\nAvailable commands:\n\n    extension\n    deploy\n", []string{"fab extension"}},
		{"git_add_force", newGitAddForce(), "git add dist", "The following paths are ignored by one of your .gitignore files:\ndist\nUse -f if you really want to add them.\n", []string{"git add --force dist"}},
		{"git_branch_exists", newGitBranchExists(), "git branch foo", "fatal: A branch named 'foo' already exists.", []string{"git branch -d foo && git branch foo", "git branch -d foo && git checkout -b foo", "git branch -D foo && git branch foo", "git branch -D foo && git checkout -b foo", "git checkout foo"}},
		{"git_branch_list", newGitBranchList(), "git branch list", "", []string{"git branch --delete list && git branch"}},
		{"git_clone_git_clone", newGitCloneGitClone(), "git clone git clone https://example.com/repo.git", "fatal: Too many arguments.\n", []string{"git clone https://example.com/repo.git"}},
		{"git_commit_amend", newGitCommitAmend(), "git commit -m fix", "[main 1a2b3c4] fix", []string{"git commit --amend"}},
		{"git_commit_reset", newGitCommitReset(), "git commit -m fix", "[main 1a2b3c4] fix", []string{"git reset HEAD~"}},
		{"git_diff_no_index", newGitDiffNoIndex(), "git diff a.txt b.txt", "error: Could not access 'a.txt'", []string{"git diff --no-index a.txt b.txt"}},
		{"git_diff_staged", newGitDiffStaged(), "git diff foo", "", []string{"git diff --staged foo"}},
		{"git_hook_bypass", newGitHookBypass(), "git commit -m fix", "pre-commit hook failed", []string{"git commit --no-verify -m fix"}},
		{"git_lfs_mistype", newGitLfsMistype(), "git lfs evn", "Error: unknown command \"evn\" for \"git-lfs\"\n\nDid you mean this?\n\tenv\n\text\n\nRun 'git-lfs --help' for usage.\n", []string{"git lfs env", "git lfs ext"}},
		{"git_merge", newGitMerge(), "git merge test", "merge: test - not something we can merge\n\nDid you mean this?\n\tremotes/origin/test\n", []string{"git merge remotes/origin/test"}},
		{"git_pull", newGitPull(), "git pull", "There is no tracking information for the current branch.\nPlease specify which branch you want to merge with.\n\n    git pull <remote> <branch>\n\nIf you wish to set tracking information for this branch you can do so with:\n\n    git branch --set-upstream-to=<remote>/<branch> master\n\n", []string{"git branch --set-upstream-to=origin/master master && git pull"}},
		{"git_pull_clone", newGitPullClone(), "git pull git@example.com:me/repo.git", "fatal: Not a git repository (or any parent up to mount point /home)\nStopping at filesystem boundary (GIT_DISCOVERY_ACROSS_FILESYSTEM not set).", []string{"git clone git@example.com:me/repo.git"}},
		{"git_pull_uncommitted_changes", newGitPullUncommittedChanges(), "git pull", "error: Cannot pull with rebase: You have unstaged changes.", []string{"git stash && git pull && git stash pop"}},
		{"git_push_force", newGitPushForce(), "git push", gitRejectedBehind, []string{"git push --force-with-lease"}},
		{"git_push_pull", newGitPushPull(), "git push", gitRejectedBehind, []string{"git pull && git push"}},
		{"git_rebase_no_changes", newGitRebaseNoChanges(), "git rebase --continue", "Applying: Test commit\nNo changes - did you forget to use 'git add'?\n", []string{"git rebase --skip"}},
		{"git_remote_seturl_add", newGitRemoteSeturlAdd(), "git remote set-url origin https://example.com/repo.git", "fatal: No such remote 'origin'", []string{"git remote add origin https://example.com/repo.git"}},
		{"git_rm_local_modifications", newGitRmLocalModifications(), "git rm foo", "error: the following file has local modifications:\n    foo\n(use --cached to keep the file, or -f to force removal)", []string{"git rm --cached foo", "git rm -f foo"}},
		{"git_stash_pop", newGitStashPop(), "git stash pop", "error: Your local changes to the following files would be overwritten by merge:\n\tfoo\nPlease commit your changes or stash them before you merge.", []string{"git add --update && git stash pop && git reset ."}},
		{"go_run", newGoRun(), "go run main", "package main is not in std", []string{"go run main.go"}},
		{"grep_recursive", newGrepRecursive(), "grep blah .", "grep: .: Is a directory", []string{"grep -r blah ."}},
		{"heroku_not_command", newHerokuNotCommand(), "heroku log", " ▸    log is not a heroku command.\n ▸    Perhaps you meant logs?\n ▸    Run heroku _ to run heroku logs.\n ▸    Run heroku help for a list of available commands.", []string{"heroku logs"}},
		{"java", newJava(), "java Main.java", "Error: Could not find or load main class Main.java", []string{"java Main"}},
		{"javac", newJavac(), "javac Main", "error: Class names, 'Main', are only accepted if annotation processing is explicitly requested", []string{"javac Main.java"}},
		{"lein_not_task", newLeinNotTask(), "lein rpl", "'rpl' is not a task. See 'lein help'.\n\nDid you mean this?\n         repl\n", []string{"lein repl"}},
		{"lein_not_task under sudo", newLeinNotTask(), "sudo lein rpl", "'rpl' is not a task. See 'lein help'.\n\nDid you mean this?\n         repl\n", []string{"sudo lein repl"}},
		{"ln_no_hard_link", newLnNoHardLink(), "ln barDir barLink", "ln: 'barDir': hard link not allowed for directory", []string{"ln -s barDir barLink"}},
		{"ls_all", newLsAll(), "ls empty", "", []string{"ls -A empty"}},
		{"ls_lah", newLsLah(), "ls src", "main.go", []string{"ls -lah src"}},
		{"man_no_space", newManNoSpace(), "mandiff", "mandiff: command not found", []string{"man diff"}},
		{"mercurial unknown", newMercurial(), "hg base", "hg: unknown command 'base'\n(did you mean one of blame, phase, rebase?)", []string{"hg rebase"}},
		{"mercurial ambiguous", newMercurial(), "hg re", "hg: command 're' is ambiguous:\n    rebase recover remove", []string{"hg rebase"}},
		{"open url", newOpen(), "open foo.com", "", []string{"open http://foo.com"}},
		{"open missing file", newOpen(), "open foo.txt", "The file /home/me/foo.txt does not exist.\n", []string{"touch foo.txt && open foo.txt", "mkdir foo.txt && open foo.txt"}},
		{"pip_install", newPipInstall(), "pip install flask", "Could not install packages due to an EnvironmentError: [Errno 13] Permission denied: '/usr/lib'", []string{"pip install --user flask"}},
		{"pip_install already user", newPipInstall(), "pip install --user flask", "Permission denied", []string{"sudo pip install flask"}},
		{"python_command", newPythonCommand(), "./run.py", "bash: ./run.py: Permission denied", []string{"python ./run.py"}},
		{"python_execute", newPythonExecute(), "python foo", "python: can't open file 'foo': [Errno 2] No such file or directory", []string{"python foo.py"}},
		{"rails_migrations_pending", newRailsMigrationsPending(), "bin/rails s", "Migrations are pending. To resolve this issue, run:\n\n        bin/rails db:migrate RAILS_ENV=test\n", []string{"bin/rails db:migrate RAILS_ENV=test && bin/rails s"}},
		{"remove_trailing_cedilla", newRemoveTrailingCedilla(), "lsç", "lsç: command not found", []string{"ls"}},
		{"rm_root", newRmRoot(), "rm -rf /", "rm: it is dangerous to operate recursively on '/'\nrm: use --no-preserve-root to override this failsafe", []string{"rm -rf / --no-preserve-root"}},
		{"sed_unterminated_s", newSedUnterminatedS(), "sed -e s/foo/bar", "sed: -e expression #1, char 9: unterminated `s' command", []string{"sed -e s/foo/bar/"}},
		{"sl_ls", newSlLs(), "sl", "", []string{"ls"}},
		{"terraform_init", newTerraformInit(), "terraform plan", "Error: Initialization required. Please see the error message above.", []string{"terraform init && terraform plan"}},
		{"test_py", newTestPy(), "test.py", "test.py: command not found", []string{"pytest"}},
		{"tsuru_login", newTsuruLogin(), "tsuru app-shell", "Error: you're not authenticated or your session has expired.", []string{"tsuru login && tsuru app-shell"}},
		{"tsuru_not_command", newTsuruNotCommand(), "tsuru log", "tsuru: \"log\" is not a tsuru command. See \"tsuru help\".\n\nDid you mean?\n\tapp-log\n\tlogin\n\tlogout\n", []string{"tsuru app-log", "tsuru login", "tsuru logout"}},
		{"whois url", newWhois(), "whois https://en.wikipedia.org/wiki/Main_Page", "", []string{"whois en.wikipedia.org"}},
		{"whois domain", newWhois(), "whois en.wikipedia.org", "", []string{"whois wikipedia.org", "whois org"}},
		{"yarn_alias", newYarnAlias(), "yarn rm", "error Command \"rm\" not found. Did you mean \"remove\"?", []string{"yarn remove"}},
		{"yarn_command_replaced", newYarnCommandReplaced(), "yarn install redux", "error `install` has been replaced with `add` to add new dependencies. Run \"yarn add redux\" instead.", []string{"yarn add redux"}},
		{"yarn_help", newYarnHelp(), "yarn help clean", "\n  Visit https://yarnpkg.com/en/docs/cli/clean for documentation about this command.\n", []string{openCommand("https://yarnpkg.com/en/docs/cli/clean")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestions(t, tt.rule, sh, tt.script, tt.output))
		})
	}
}

func TestNoMatch(t *testing.T) {
	sh := testShell()
	tests := []struct {
		name   string
		rule   Rule
		script string
		output string
	}{
		{"sudo already", newSudo(), "sudo ls /root", "Permission denied"},
		{"sudo unrelated output", newSudo(), "ls", "file.txt"},
		{"git typo without suggestions", newGitNotCommand(), "git brnch", "git: 'brnch' is not a git command. See 'git --help'."},
		{"git rule on other tool", newGitTwoDashes(), "hg add -patch", "error: did you mean `--patch` (with two dashes ?)"},
		{"dry single word", newDry(), "git", ""},
		{"cd_mkdir other tool", newCdMkdir(), "ls foo", "No such file or directory"},
		{"php without -s", newPhpS(), "php -S localhost", ""},
		{"quotation single style", newQuotationMarks(), "echo 'a'", "a"},
		{"unsudo without sudo", newUnsudo(), "npm install", "You cannot perform this operation as root"},
		{"man without page", newMan(), "man", ""},
		{"python_execute bare interpreter", newPythonExecute(), "python", "Python 3.12.1"},
		{"python_execute script", newPythonExecute(), "python foo.py", "Traceback"},
		{"python_command other file", newPythonCommand(), "./run.sh", "Permission denied"},
		{"apt_upgrade nothing listed", newAptUpgrade(), "apt list --upgradable", "Listing... Done\n"},
		{"ls_lah with flags", newLsLah(), "ls -l", "total 0"},
		{"ls_all with output", newLsAll(), "ls", "main.go"},
		{"java without suffix", newJava(), "java Main", "error"},
		{"javac with suffix", newJavac(), "javac Main.java", "error"},
		{"go_run with suffix", newGoRun(), "go run main.go", "error"},
		{"rm_root already forced", newRmRoot(), "rm -rf / --no-preserve-root", "rm: use --no-preserve-root to override this failsafe"},
		{"git_diff_staged already staged", newGitDiffStaged(), "git diff --staged", ""},
		{"git_diff_no_index one file", newGitDiffNoIndex(), "git diff a.txt", "error"},
		{"git_branch_list other subcommand", newGitBranchList(), "git branch -a", "main"},
		{"git_hook_bypass other command", newGitHookBypass(), "git status", ""},
		{"git_push_pull accepted", newGitPushPull(), "git push", "Everything up-to-date"},
		{"git_rebase_no_changes without continue", newGitRebaseNoChanges(), "git rebase main", "No changes - did you forget to use 'git add'?"},
		{"mercurial other error", newMercurial(), "hg base", "abort: no repository found"},
		{"az_cli other tool", newAzCli(), "aws providers", "'providers' is not in the 'az' command group."},
		{"composer without hint", newComposerNotCommand(), "composer udpate", "Command \"udpate\" is not defined."},
		{"heroku_not_command other output", newHerokuNotCommand(), "heroku log", "Error: missing app"},
		{"lein_not_task without hint", newLeinNotTask(), "lein rpl", "'rpl' is not a task. See 'lein help'."},
		{"tsuru_not_command without hint", newTsuruNotCommand(), "tsuru log", "tsuru: \"log\" is not a tsuru command. See \"tsuru help\"."},
		{"whois without target", newWhois(), "whois", ""},
		{"open local file", newOpen(), "open notes.txt", ""},
		{"cd_cs real cd", newCdCs(), "cd /etc", ""},
		{"sl_ls with args", newSlLs(), "sl -a", ""},
		{"yarn_help other subcommand", newYarnHelp(), "yarn add", "for documentation about this command."},
		{"choco other output", newChocoInstall(), "choco install foo", "Chocolatey installed 1/1 packages."},
		{"pip_install other error", newPipInstall(), "pip install flask", "Successfully installed flask"},
		{"remove_trailing_cedilla clean", newRemoveTrailingCedilla(), "ls", "ls: command not found"},
		{"brew_link other subcommand", newBrewLink(), "brew install coreutils", "brew link --overwrite --dry-run coreutils"},
		{"cpp11 other compiler error", newCpp11(), "g++ foo.cpp", "error: expected ';'"},
		{"terraform_init initialised", newTerraformInit(), "terraform plan", "No changes."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNoMatch(t, tt.rule, sh, tt.script, tt.output)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// filesystem aware rules
// ──────────────────────────────────────────────────────────────────────────────

func TestChmodX(t *testing.T) {
	h := testHost(t)
	require.NoError(t, afero.WriteFile(h.Fs, "/home/me/run.sh", []byte("#!/bin/sh"), 0o644))
	require.NoError(t, h.Fs.Chmod("/home/me/run.sh", 0o644))
	require.NoError(t, afero.WriteFile(h.Fs, "/home/me/ok.sh", []byte("#!/bin/sh"), 0o755))
	require.NoError(t, h.Fs.Chmod("/home/me/ok.sh", 0o755))
	sh := testShell()
	r := newChmodX(h)

	assert.Equal(t, []string{"chmod +x run.sh && ./run.sh"},
		suggestions(t, r, sh, "./run.sh", "zsh: permission denied: ./run.sh"))
	assertNoMatch(t, r, sh, "./ok.sh", "permission denied")
	assertNoMatch(t, r, sh, "./missing.sh", "permission denied")
}

func TestGrepArgumentsOrder(t *testing.T) {
	h := testHost(t)
	require.NoError(t, afero.WriteFile(h.Fs, "/home/me/main.go", nil, 0o644))
	got := suggestions(t, newGrepArgumentsOrder(h), testShell(), "grep main.go foo", "grep: foo: No such file or directory")
	assert.Equal(t, []string{"grep foo main.go"}, got)
}

func TestHasExistsScript(t *testing.T) {
	h := testHost(t)
	require.NoError(t, afero.WriteFile(h.Fs, "/home/me/build", nil, 0o755))
	got := suggestions(t, newHasExistsScript(h), testShell(), "build --fast", "build: command not found")
	assert.Equal(t, []string{"./build --fast"}, got)
}

func TestCatDir(t *testing.T) {
	h := testHost(t)
	require.NoError(t, h.Fs.MkdirAll("/home/me/src", 0o755))
	got := suggestions(t, newCatDir(h), testShell(), "cat src", "cat: src: Is a directory")
	assert.Equal(t, []string{"ls src"}, got)
}

func TestCdCorrection(t *testing.T) {
	h := testHost(t)
	require.NoError(t, h.Fs.MkdirAll("/home/me/projects/ohcrab", 0o755))
	r := newCdCorrection(h)
	sh := testShell()

	assert.False(t, r.Info().EnabledByDefault)
	assert.Equal(t, []string{`cd "/home/me/projects/ohcrab"`},
		suggestions(t, r, sh, "cd projcts/ohcarb", "cd: no such file or directory: projcts/ohcarb"))
	assert.Equal(t, []string{"mkdir -p zzz && cd zzz"},
		suggestions(t, r, sh, "cd zzz", "cd: no such file or directory: zzz"))
}

func TestLnSOrder(t *testing.T) {
	h := testHost(t)
	require.NoError(t, afero.WriteFile(h.Fs, "/home/me/target", nil, 0o644))
	got := suggestions(t, newLnSOrder(h), testShell(), "ln -s target link", "ln: failed to create symbolic link 'target': File exists")
	assert.Equal(t, []string{"ln -s link target"}, got)
}

func TestScmCorrection(t *testing.T) {
	h := testHost(t)
	require.NoError(t, h.Fs.MkdirAll("/home/me/.hg", 0o755))
	got := suggestions(t, newScmCorrection(h), testShell(), "git log", "fatal: Not a git repository (or any of the parent directories): .git")
	assert.Equal(t, []string{"hg log"}, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// PATH and history
// ──────────────────────────────────────────────────────────────────────────────

func TestNoCommand(t *testing.T) {
	h := testHost(t, "vim", "git", "ls")
	r := newNoCommand(h)

	got := suggestions(t, r, testShell(), "vom file", "vom: command not found")
	assert.Equal(t, []string{"vim file"}, got)

	got = suggestions(t, r, testShell(), "sudo vom file", "sudo: vom: command not found")
	assert.Equal(t, []string{"sudo vim file"}, got)

	assertNoMatch(t, r, testShell(), "vim file", "vim: command not found")
}

func TestNoCommandPrefersHistory(t *testing.T) {
	h := testHost(t, "gist", "git")
	got := suggestions(t, newNoCommand(h), testShell("git status"), "gis status", "gis: command not found")
	require.NotEmpty(t, got)
	assert.Equal(t, "git status", got[0])
}

func TestNoCommandEmptyPathAndHistory(t *testing.T) {
	h := testHost(t)
	assertNoMatch(t, newNoCommand(h), testShell(), "vom file", "vom: command not found")
}

func TestHistory(t *testing.T) {
	h := testHost(t, "git", "ls")
	sh := testShell("git stauts", "ls -la", "git status")

	got := suggestions(t, newHistory(h), sh, "git stauts", "")
	assert.Equal(t, []string{"git status"}, got)
}

func TestHistorySkipsCorrectedLines(t *testing.T) {
	h := testHost(t, "git")
	sh := testShell("crab", "git psuh", "git pull")

	assert.Equal(t, []string{"git pull"}, validHistory(h, command.New("git puhs", ""), sh))
}

func TestPathFromHistory(t *testing.T) {
	h := testHost(t, "ls", "cd")
	require.NoError(t, h.Fs.MkdirAll("/opt/project/src", 0o755))
	sh := testShell("ls /opt/project/src/")

	got := suggestions(t, newPathFromHistory(h), sh, "cd src", "cd: src: No such file or directory")
	assert.Equal(t, []string{"cd /opt/project/src"}, got)
}

func TestWrongHyphenAndMissingSpace(t *testing.T) {
	h := testHost(t, "git", "npm")
	sh := testShell()

	assert.Equal(t, []string{"git log"}, suggestions(t, newWrongHyphenBeforeSubcommand(h), sh, "git-log", ""))
	assert.Equal(t, []string{"npm install"}, suggestions(t, newMissingSpaceBeforeSubcommand(h), sh, "npminstall", ""))
	assertNoMatch(t, newMissingSpaceBeforeSubcommand(h), sh, "git status", "")
}

func TestSudoCommandFromUserPath(t *testing.T) {
	h := testHost(t, "mytool")
	got := suggestions(t, newSudoCommandFromUserPath(h), testShell(), "sudo mytool run", "sudo: mytool: command not found")
	assert.Equal(t, []string{`sudo env "PATH=$PATH" mytool run`}, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// rules that spawn tools
// ──────────────────────────────────────────────────────────────────────────────

func fakeRun(outputs map[string]string) host.RunFunc {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		key := strings.TrimSpace(name + " " + strings.Join(args, " "))
		out, ok := outputs[key]
		if !ok {
			return nil, errors.New("not found: " + key)
		}
		return []byte(out), nil
	}
}

func TestGitCheckout(t *testing.T) {
	h := testHost(t, "git")
	h.Run = fakeRun(map[string]string{
		"git branch -a --no-color --no-column": "* main\n  feature/login\n  remotes/origin/HEAD -> origin/main\n  remotes/origin/release\n",
	})
	r := newGitCheckout(h)
	sh := testShell()

	got := suggestions(t, r, sh, "git checkout feature/logn",
		"error: pathspec 'feature/logn' did not match any file(s) known to git")
	assert.Equal(t, []string{"git checkout feature/login", "git checkout -b feature/logn"}, got)

	got = suggestions(t, r, sh, "git commit zzz",
		"error: pathspec 'zzz' did not match any file(s) known to git")
	assert.Equal(t, []string{"git branch zzz && git commit zzz"}, got)
}

func TestNpmRules(t *testing.T) {
	h := testHost(t, "npm")
	h.Run = fakeRun(map[string]string{
		"npm run-script": "Lifecycle scripts included in app:\n  test\n    jest\n\navailable via `npm run-script`:\n  build\n    webpack\n  develop\n    webpack-dev-server\n",
	})
	sh := testShell()

	got := suggestions(t, newNpmMissingScript(h), sh, "npm run buld", "npm ERR! missing script: buld\n")
	assert.Equal(t, []string{"npm run build", "npm run develop"}, got)

	got = suggestions(t, newNpmRunScript(h), sh, "npm develop", "Usage: npm <command>\n")
	assert.Equal(t, []string{"npm run-script develop"}, got)
}

// runRecorder serves canned tool output and remembers every invocation.
type runRecorder struct {
	outputs map[string]string
	calls   []string
}

func (r *runRecorder) run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))
	r.calls = append(r.calls, key)
	out, ok := r.outputs[key]
	if !ok {
		return nil, errors.New("not found: " + key)
	}
	return []byte(out), nil
}

func TestToolRulesSpawnOnlyWhileSuggesting(t *testing.T) {
	tests := []struct {
		name    string
		rule    func(*host.Host) Rule
		script  string
		output  string
		outputs map[string]string
		want    string
	}{
		{
			name:   "apt_invalid_operation",
			rule:   newAptInvalidOperation,
			script: "apt-get isntall vim",
			output: "E: Invalid operation isntall",
			outputs: map[string]string{"apt-get --help": "apt 1.0.10 for amd64\nUsage: apt-get [options] command\n\nCommands:\n" +
				"   update - Retrieve new lists of packages\n   upgrade - Perform an upgrade\n   install - Install new packages\n   remove - Remove packages\n\n" +
				"This APT has Super Cow Powers.\n"},
			want: "apt-get install vim",
		},
		{
			name:    "brew_unknown_command",
			rule:    newBrewUnknownCommand,
			script:  "brew instal vim",
			output:  "Error: Unknown command: instal",
			outputs: map[string]string{"brew --prefix": "/opt/brew\n"},
			want:    "brew install vim",
		},
		{
			name:   "docker_not_command",
			rule:   newDockerNotCommand,
			script: "docker pul",
			output: "docker: 'pul' is not a docker command.\nSee 'docker --help'",
			outputs: map[string]string{"docker": "Usage:\tdocker [OPTIONS] COMMAND\n\nManagement Commands:\n  container   Manage containers\n  image       Manage images\n\n" +
				"Commands:\n  build       Build an image\n  ps          List containers\n  pull        Pull an image\n  push        Push an image\n\n"},
			want: "docker pull",
		},
		{
			name:   "go_unknown_command",
			rule:   newGoUnknownCommand,
			script: "go bulid",
			output: "go bulid: unknown command\nRun 'go help' for usage.",
			outputs: map[string]string{"go": "Go is a tool for managing Go source code.\n\nUsage:\n\n\tgo <command> [arguments]\n\nThe commands are:\n\n" +
				"\tbug         start a bug report\n\tbuild       compile packages and dependencies\n\tclean       remove object files and cached files\n\n"},
			want: "go build",
		},
		{
			name:    "yarn_command_not_found",
			rule:    newYarnCommandNotFound,
			script:  "yarn instal",
			output:  `error Command "instal" not found.`,
			outputs: map[string]string{"yarn --help": "\n  Usage: yarn [command] [flags]\n\n  Commands:\n\n    - access\n    - add\n    - install\n    - list\n"},
			want:    "yarn install",
		},
		{
			name:    "git_checkout",
			rule:    newGitCheckout,
			script:  "git checkout feature/logn",
			output:  "error: pathspec 'feature/logn' did not match any file(s) known to git",
			outputs: map[string]string{"git branch -a --no-color --no-column": "* main\n  feature/login\n"},
			want:    "git checkout feature/login",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHost(t)
			require.NoError(t, h.Fs.MkdirAll("/opt/brew/Library/Homebrew/cmd", 0o755))
			for _, f := range []string{"install.rb", "info.rb", "list.sh"} {
				require.NoError(t, afero.WriteFile(h.Fs, "/opt/brew/Library/Homebrew/cmd/"+f, nil, 0o644))
			}
			rec := &runRecorder{outputs: tt.outputs}
			h.Run = rec.run
			r := tt.rule(h)
			cmd := command.New(tt.script, tt.output)
			sh := testShell()

			require.True(t, r.Match(cmd, sh))
			assert.Empty(t, rec.calls, "Match must not start processes")

			got := r.Suggest(cmd, sh)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.want, got[0])
			assert.NotEmpty(t, rec.calls)
		})
	}
}

func TestBrewUnknownCommandFallback(t *testing.T) {
	h := testHost(t)
	r := newBrewUnknownCommand(h)
	sh := testShell()

	assert.Equal(t, []string{"brew install vim"}, suggestions(t, r, sh, "brew instal vim", "Error: Unknown command: instal")[:1])
	assertNoMatch(t, r, sh, "brew zzzzzz", "Error: Unknown command: zzzzzz")
	assertNoMatch(t, r, sh, "brew", "Error: Unknown command: instal")
}

func TestAptInvalidOperationUninstall(t *testing.T) {
	h := testHost(t)
	rec := &runRecorder{}
	h.Run = rec.run
	got := suggestions(t, newAptInvalidOperation(h), testShell(), "sudo apt uninstall vim", "E: Invalid operation uninstall")
	assert.Equal(t, []string{"sudo apt remove vim"}, got)
	assert.Empty(t, rec.calls)
}

func TestYarnCommandNotFoundAlias(t *testing.T) {
	h := testHost(t)
	rec := &runRecorder{}
	h.Run = rec.run
	got := suggestions(t, newYarnCommandNotFound(h), testShell(), "yarn require lodash", `error Command "require" not found.`)
	assert.Equal(t, []string{"yarn add lodash"}, got)
	assert.Empty(t, rec.calls)
}

func TestGitAdd(t *testing.T) {
	h := testHost(t)
	require.NoError(t, afero.WriteFile(h.Fs, "/home/me/new.txt", nil, 0o644))
	r := newGitAdd(h)
	sh := testShell()

	got := suggestions(t, r, sh, "git commit new.txt", "error: pathspec 'new.txt' did not match any file(s) known to git.")
	assert.Equal(t, []string{"git add -- new.txt && git commit new.txt"}, got)
	assertNoMatch(t, r, sh, "git commit gone.txt", "error: pathspec 'gone.txt' did not match any file(s) known to git.")
}

func TestGitRebaseMergeDir(t *testing.T) {
	output := "\n\nIt seems that there is already a rebase-merge directory, and\n" +
		"I wonder if you are in the middle of another rebase.  If that is the\n" +
		"case, please try\n\tgit rebase (--continue | --abort | --skip)\n" +
		"If that is not the case, please\n\trm -fr \"/foo/.git/rebase-merge\"\n" +
		"and run me again.  I am stopping in case you still have something\n" +
		"valuable there.\n"
	got := suggestions(t, newGitRebaseMergeDir(), testShell(), "git rebase master", output)
	assert.ElementsMatch(t, []string{
		"git rebase --continue", "git rebase --abort", "git rebase --skip", `rm -fr "/foo/.git/rebase-merge"`,
	}, got)
}

func TestMvnUnknownLifecyclePhase(t *testing.T) {
	output := `[ERROR] Unknown lifecycle phase "cle". You must specify a valid lifecycle phase or a goal. ` +
		`Available lifecycle phases are: validate, initialize, compile, test, package, verify, install, deploy, pre-clean, clean, post-clean. -> [Help 1]`
	got := suggestions(t, newMvnUnknownLifecyclePhase(), testShell(), "mvn cle", output)
	require.NotEmpty(t, got)
	assert.Equal(t, "mvn clean", got[0])
	assertNoMatch(t, newMvnUnknownLifecyclePhase(), testShell(), "mvn cle", "[ERROR] Unknown lifecycle phase \"cle\".")
}

func TestProveRecursively(t *testing.T) {
	h := testHost(t)
	require.NoError(t, h.Fs.MkdirAll("/home/me/t", 0o755))
	r := newProveRecursively(h)
	sh := testShell()
	output := "Files=0, Tests=0,  0 wallclock secs\nResult: NOTESTS"

	assert.Equal(t, []string{"prove -r t"}, suggestions(t, r, sh, "prove t", output))
	assertNoMatch(t, r, sh, "prove -r t", output)
	assertNoMatch(t, r, sh, "prove missing", output)
}

func TestRegistryGatesToolRules(t *testing.T) {
	without := Names(All(testHost(t)))
	assert.NotContains(t, without, "npm_missing_script")
	assert.NotContains(t, without, "git_checkout")
	assert.Contains(t, without, "git_not_command")

	with := Names(All(testHost(t, "npm", "git")))
	assert.Contains(t, with, "npm_missing_script")
	assert.Contains(t, with, "npm_run_script")
	assert.Contains(t, with, "git_checkout")
}

func TestRegistryNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range All(testHost(t, "npm", "git", "go", "docker", "brew", "yarn", "apt")) {
		info := r.Info()
		assert.False(t, seen[info.Name], "duplicate rule %s", info.Name)
		seen[info.Name] = true
		assert.Positive(t, info.Priority, info.Name)
	}
	assert.Greater(t, len(seen), 100)
}

func TestSudoSupportKeepsSideEffects(t *testing.T) {
	h := testHost(t)
	wrapped := sudoSupport(dirtyUntar{newBase("dirty_untar"), h})
	_, ok := wrapped.(SideEffecter)
	assert.True(t, ok)

	_, ok = newCdMkdir().(SideEffecter)
	assert.False(t, ok)
}
