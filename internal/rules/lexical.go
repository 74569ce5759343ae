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

// Rules that fix the script text itself, mostly without looking at what
// the command printed.

// dry: the program name was typed twice, "git git push".
type dry struct{ base }

func newDry() Rule { return dry{newBase("dry", outputOptional(), priority(900))} }

func (dry) Match(cmd *command.Command, _ shell.Shell) bool {
	parts := cmd.Parts()
	return len(parts) >= 2 && parts[0] == parts[1]
}

func (dry) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Join(cmd.Parts()[1:], " "))
}

// fix_alt_space: Alt+Space on some keyboards types a no-break space.
type fixAltSpace struct{ base }

func newFixAltSpace() Rule { return sudoSupport(fixAltSpace{newBase("fix_alt_space")}) }

const noBreakSpace = "\u00a0"

func (fixAltSpace) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.Contains(lower(cmd.Output), "command not found") &&
		strings.Contains(cmd.Script, noBreakSpace)
}

func (fixAltSpace) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.ReplaceAll(cmd.Script, noBreakSpace, " "))
}

// quotation_marks: single and double quotes mixed up.
type quotationMarks struct{ base }

func newQuotationMarks() Rule { return quotationMarks{newBase("quotation_marks")} }

func (quotationMarks) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.Contains(cmd.Script, "'") && strings.Contains(cmd.Script, `"`)
}

func (quotationMarks) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.ReplaceAll(cmd.Script, "'", `"`))
}

// remove_trailing_cedilla: a stray ç next to the Enter key.
type removeTrailingCedilla struct{ base }

func newRemoveTrailingCedilla() Rule {
	return removeTrailingCedilla{newBase("remove_trailing_cedilla")}
}

func (removeTrailingCedilla) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.HasSuffix(cmd.Script, "ç")
}

func (removeTrailingCedilla) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.TrimSuffix(cmd.Script, "ç"))
}

var helpHint = regexp.MustCompile(`(?i)(?:Run|Try) '([^']+)'(?: or '[^']+')? for (?:details|more information).`)

// long_form_help: the tool only knows --help.
type longFormHelp struct{ base }

func newLongFormHelp() Rule { return longFormHelp{newBase("long_form_help", priority(5000))} }

func (longFormHelp) Match(cmd *command.Command, _ shell.Shell) bool {
	return helpHint.MatchString(cmd.Output) || strings.Contains(cmd.Output, "--help")
}

func (longFormHelp) Suggest(cmd *command.Command, _ shell.Shell) []string {
	if hint := textutil.Submatch(helpHint, cmd.Output, 1); hint != "" {
		return single(hint)
	}
	return single(textutil.ReplaceArgument(cmd.Script, "-h", "--help"))
}

// php_s: the built-in server flag is -S.
type phpS struct{ base }

func newPhpS() Rule { return phpS{newBase("php_s", outputOptional())} }

func (phpS) Match(cmd *command.Command, _ shell.Shell) bool {
	parts := cmd.Parts()
	return forApp(cmd, "php") && slices.Contains(parts, "-s") && parts[len(parts)-1] != "-s"
}

func (phpS) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(textutil.ReplaceArgument(cmd.Script, "-s", "-S"))
}

// grep_arguments_order: the path was given before the pattern.
type grepArgumentsOrder struct {
	base
	h *host.Host
}

func newGrepArgumentsOrder(h *host.Host) Rule {
	return grepArgumentsOrder{newBase("grep_arguments_order"), h}
}

func (r grepArgumentsOrder) actualFile(parts []string) string {
	for _, p := range parts[1:] {
		if r.h.IsFile(p) || r.h.IsDir(p) {
			return p
		}
	}
	return ""
}

func (r grepArgumentsOrder) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "grep", "egrep") &&
		strings.Contains(cmd.Output, ": No such file or directory") &&
		r.actualFile(cmd.Parts()) != ""
}

func (r grepArgumentsOrder) Suggest(cmd *command.Command, _ shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	file := r.actualFile(parts)
	i := slices.Index(parts, file)
	parts = append(slices.Delete(parts, i, i+1), file)
	return single(strings.Join(parts, " "))
}

type grepRecursive struct{ base }

func newGrepRecursive() Rule { return grepRecursive{newBase("grep_recursive")} }

func (grepRecursive) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "grep") && strings.Contains(lower(cmd.Output), "is a directory")
}

func (grepRecursive) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single("grep -r " + strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cmd.Script), arg(cmd, 0))))
}

type agLiteral struct{ base }

func newAgLiteral() Rule { return agLiteral{newBase("ag_literal")} }

func (agLiteral) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "ag") && strings.HasSuffix(cmd.Output, "run ag with -Q\n")
}

func (agLiteral) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Replace(cmd.Script, "ag", "ag -Q", 1))
}

// sed_unterminated_s: an s command missing its closing slash.
type sedUnterminatedS struct{ base }

func newSedUnterminatedS() Rule { return sedUnterminatedS{newBase("sed_unterminated_s")} }

func (sedUnterminatedS) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "sed") && strings.Contains(cmd.Output, "unterminated `s' command")
}

func (sedUnterminatedS) Suggest(cmd *command.Command, sh shell.Shell) []string {
	parts := slices.Clone(cmd.Parts())
	for i, p := range parts {
		if (strings.HasPrefix(p, "s/") || strings.HasPrefix(p, "-es/")) && !strings.HasSuffix(p, "/") {
			parts[i] = p + "/"
		}
	}
	return single(joinParts(sh, parts))
}

// man: try the other manual section or --help.
type man struct{ base }

func newMan() Rule { return man{newBase("man", outputOptional())} }

func (man) Match(cmd *command.Command, _ shell.Shell) bool { return isApp(cmd, 1, "man") }

func (man) Suggest(cmd *command.Command, _ shell.Shell) []string {
	if strings.Contains(cmd.Script, "3") {
		return single(strings.ReplaceAll(cmd.Script, "3", "2"))
	}
	if strings.Contains(cmd.Script, "2") {
		return single(strings.ReplaceAll(cmd.Script, "2", "3"))
	}
	parts := cmd.Parts()
	last := parts[len(parts)-1]
	help := last + " --help"
	if strings.TrimSpace(cmd.Output) == "No manual entry for "+last {
		return []string{help}
	}
	section3 := slices.Insert(slices.Clone(parts), 1, "3")
	section2 := slices.Insert(slices.Clone(parts), 1, "2")
	return []string{strings.Join(section3, " "), strings.Join(section2, " "), help}
}

type manNoSpace struct{ base }

func newManNoSpace() Rule { return manNoSpace{newBase("man_no_space", priority(2000))} }

func (manNoSpace) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.HasPrefix(cmd.Script, "man") && len(cmd.Script) > 3 &&
		strings.Contains(lower(cmd.Output), "command not found")
}

func (manNoSpace) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single("man " + cmd.Script[3:])
}

// java and javac disagree on whether the .java suffix belongs.
type java struct{ base }

func newJava() Rule { return java{newBase("java")} }

func (java) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "java") && strings.HasSuffix(cmd.Script, ".java")
}

func (java) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.TrimSuffix(cmd.Script, ".java"))
}

type javac struct{ base }

func newJavac() Rule { return javac{newBase("javac")} }

func (javac) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "javac") && !strings.HasSuffix(cmd.Script, ".java")
}

func (javac) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(cmd.Script + ".java")
}

type goRun struct{ base }

func newGoRun() Rule { return goRun{newBase("go_run")} }

func (goRun) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "go") && strings.HasPrefix(cmd.Script, "go run ") && !strings.HasSuffix(cmd.Script, ".go")
}

func (goRun) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(cmd.Script + ".go")
}

// python_command: running a .py file that is not executable.
type pythonCommand struct{ base }

func newPythonCommand() Rule { return sudoSupport(pythonCommand{newBase("python_command")}) }

func (pythonCommand) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.HasSuffix(arg(cmd, 0), ".py") &&
		textutil.ContainsAny(cmd.Output, "Permission denied", "command not found")
}

func (pythonCommand) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single("python " + cmd.Script)
}

type pythonExecute struct{ base }

func newPythonExecute() Rule { return pythonExecute{newBase("python_execute")} }

func (pythonExecute) Match(cmd *command.Command, _ shell.Shell) bool {
	return isApp(cmd, 1, "python") && !strings.HasSuffix(cmd.Script, ".py")
}

func (pythonExecute) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(cmd.Script + ".py")
}

var pythonMissingModule = regexp.MustCompile(`ModuleNotFoundError: No module named '([^']+)'`)

type pythonModuleError struct{ base }

func newPythonModuleError() Rule { return pythonModuleError{newBase("python_module_error")} }

func (pythonModuleError) Match(cmd *command.Command, _ shell.Shell) bool {
	return strings.Contains(cmd.Output, "ModuleNotFoundError: No module named '")
}

func (pythonModuleError) Suggest(cmd *command.Command, sh shell.Shell) []string {
	module := textutil.Submatch(pythonMissingModule, cmd.Output, 1)
	if module == "" {
		return nil
	}
	return single(sh.And("pip install "+module, cmd.Script))
}

type cpp11 struct{ base }

func newCpp11() Rule { return cpp11{newBase("cpp11")} }

func (cpp11) Match(cmd *command.Command, _ shell.Shell) bool {
	return forApp(cmd, "g++", "clang++") && textutil.ContainsAny(cmd.Output,
		"This file requires compiler and library support for the ISO C++ 2011 standard.",
		"-Wc++11-extensions")
}

func (cpp11) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(cmd.Script + " -std=c++11")
}

// prove_recursively: prove was pointed at a directory without -r.
type proveRecursively struct {
	base
	h *host.Host
}

func newProveRecursively(h *host.Host) Rule {
	return proveRecursively{newBase("prove_recursively"), h}
}

func isRecursiveFlag(p string) bool {
	if p == "--recurse" {
		return true
	}
	return !strings.HasPrefix(p, "--") && strings.HasPrefix(p, "-") && strings.Contains(p, "r")
}

func (r proveRecursively) Match(cmd *command.Command, _ shell.Shell) bool {
	if !forApp(cmd, "prove") || !strings.Contains(cmd.Output, "NOTESTS") {
		return false
	}
	args := cmd.Parts()[1:]
	if slices.ContainsFunc(args, isRecursiveFlag) {
		return false
	}
	return slices.ContainsFunc(args, func(p string) bool {
		return !strings.HasPrefix(p, "-") && r.h.IsDir(p)
	})
}

func (proveRecursively) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Join(slices.Insert(slices.Clone(cmd.Parts()), 1, "-r"), " "))
}

type testPy struct{ base }

func newTestPy() Rule { return testPy{newBase("test_py", priority(900))} }

func (testPy) Match(cmd *command.Command, _ shell.Shell) bool {
	return arg(cmd, 0) == "test.py" && strings.Contains(cmd.Output, "not found")
}

func (testPy) Suggest(*command.Command, shell.Shell) []string { return []string{"pytest"} }

// scm_correction: git run in an hg checkout or the other way around.

var wrongSCM = map[string]string{
	"git": "fatal: Not a git repository",
	"hg":  "abort: no repository found",
}

type scmCorrection struct {
	base
	h *host.Host
}

func newScmCorrection(h *host.Host) Rule { return scmCorrection{newBase("scm_correction"), h} }

func (r scmCorrection) actual() string {
	switch {
	case r.h.IsDir(".git"):
		return "git"
	case r.h.IsDir(".hg"):
		return "hg"
	}
	return ""
}

func (r scmCorrection) Match(cmd *command.Command, _ shell.Shell) bool {
	pattern, ok := wrongSCM[arg(cmd, 0)]
	return ok && strings.Contains(cmd.Output, pattern) && r.actual() != ""
}

func (r scmCorrection) Suggest(cmd *command.Command, _ shell.Shell) []string {
	return single(strings.Join(append([]string{r.actual()}, cmd.Parts()[1:]...), " "))
}
