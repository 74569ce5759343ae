package rules

import (
	"ohcrab/internal/host"
)

// All returns every rule that can run on h, ordered by name. Rules that
// spawn a tool are left out when the tool is not on PATH.
func All(h *host.Host) []Rule {
	has := func(program string) bool { return h.Which(program) != "" }
	when := func(ok bool, r func(*host.Host) Rule) Rule {
		if !ok {
			return nil
		}
		return r(h)
	}

	rules := []Rule{
		newAdbUnknownCommand(),
		newAgLiteral(),
		newAptGet(),
		newAptGetSearch(),
		when(has("apt") || has("apt-get") || has("apt-cache"), newAptInvalidOperation),
		newAptListUpgradable(),
		newAptUpgrade(),
		newAwsCli(),
		newAzCli(),
		newBrewInstall(),
		newBrewLink(),
		newBrewReinstall(),
		newBrewUninstall(),
		when(has("brew"), newBrewUnknownCommand),
		newBrewUpdateFormula(),
		newCargo(),
		newCargoNoCommand(),
		newCatDir(h),
		newCdCorrection(h),
		newCdCs(),
		newCdMkdir(),
		newCdParent(),
		newChmodX(h),
		newChocoInstall(),
		newComposerNotCommand(),
		newCondaMistype(),
		newCpCreateDestination(),
		newCpOmittingDirectory(),
		newCpp11(),
		newDirtyUntar(h),
		newDirtyUnzip(h),
		newDockerImageBeingUsedByContainer(),
		newDockerLogin(),
		when(has("docker"), newDockerNotCommand),
		newDry(),
		newFabCommandNotFound(),
		newFixAltSpace(),
		newGitAdd(h),
		newGitAddForce(),
		newGitBranch0Flag(),
		newGitBranchDelete(),
		newGitBranchExists(),
		newGitBranchList(),
		when(has("git"), newGitCheckout),
		newGitCloneGitClone(),
		newGitCommitAmend(),
		newGitCommitReset(),
		newGitDiffNoIndex(),
		newGitDiffStaged(),
		newGitFixStash(),
		newGitFlagAfterFilename(),
		newGitHelpAliased(),
		newGitHookBypass(),
		newGitLfsMistype(),
		newGitMainMaster(),
		newGitMerge(),
		newGitMergeUnrelated(),
		newGitNotCommand(),
		newGitPull(),
		newGitPullClone(),
		newGitPullUncommittedChanges(),
		newGitPush(),
		newGitPushForce(),
		newGitPushPull(),
		newGitPushWithoutCommits(),
		newGitRebaseMergeDir(),
		newGitRebaseNoChanges(),
		newGitRemoteDelete(),
		newGitRemoteSeturlAdd(),
		newGitRmLocalModifications(),
		newGitRmRecursive(),
		newGitRmStaged(),
		newGitStash(),
		newGitStashPop(),
		newGitTagForce(),
		newGitTwoDashes(),
		newGoRun(),
		when(has("go"), newGoUnknownCommand),
		newGrepArgumentsOrder(h),
		newGrepRecursive(),
		newHasExistsScript(h),
		newHerokuMultipleApps(),
		newHerokuNotCommand(),
		newHistory(h),
		newJava(),
		newJavac(),
		newLeinNotTask(),
		newLnNoHardLink(),
		newLnSOrder(h),
		newLongFormHelp(),
		newLsAll(),
		newLsLah(),
		newMan(),
		newManNoSpace(),
		newMercurial(),
		newMissingSpaceBeforeSubcommand(h),
		newMkdirP(),
		newMvnNoCommand(),
		newMvnUnknownLifecyclePhase(),
		newNixosCmdNotFound(),
		newNoCommand(h),
		when(has("npm"), newNpmMissingScript),
		when(has("npm"), newNpmRunScript),
		newNpmWrongCommand(),
		newOpen(),
		newPathFromHistory(h),
		newPhpS(),
		newPipInstall(),
		newPipUnknownCommand(),
		newProveRecursively(h),
		newPythonCommand(),
		newPythonExecute(),
		newPythonModuleError(),
		newQuotationMarks(),
		newRailsMigrationsPending(),
		newRemoveTrailingCedilla(),
		newRmDir(),
		newRmRoot(),
		newScmCorrection(h),
		newSedUnterminatedS(),
		newSlLs(),
		newSudo(),
		newSudoCommandFromUserPath(h),
		newSystemctl(),
		newTerraformInit(),
		newTerraformNoCommand(),
		newTestPy(),
		newTmux(),
		newTouch(),
		newTsuruLogin(),
		newTsuruNotCommand(),
		newUnknownCommand(),
		newUnsudo(),
		newVagrantUp(),
		newWhois(),
		newWrongHyphenBeforeSubcommand(h),
		newYarnAlias(),
		when(has("yarn"), newYarnCommandNotFound),
		newYarnCommandReplaced(),
		newYarnHelp(),
	}

	out := rules[:0]
	for _, r := range rules {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Names lists the names of rules in order.
func Names(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Info().Name
	}
	return names
}
