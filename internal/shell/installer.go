package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// installMarker tags the line Install adds so Uninstall can find it again.
const installMarker = "# added by ohcrab"

// Installer adds the alias wiring to a shell's init file.
type Installer struct {
	fs     afero.Fs
	shell  Type
	alias  string
	rcFile string
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithInstallerFs sets the filesystem the init file lives on.
func WithInstallerFs(fs afero.Fs) InstallerOption {
	return func(i *Installer) { i.fs = fs }
}

// WithRCFile overrides the init file location.
func WithRCFile(path string) InstallerOption {
	return func(i *Installer) { i.rcFile = path }
}

// NewInstaller creates an installer that wires alias for the shell family t.
func NewInstaller(t Type, alias string, opts ...InstallerOption) *Installer {
	i := &Installer{
		fs:    afero.NewOsFs(),
		shell: t,
		alias: alias,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.rcFile == "" {
		i.rcFile = rcFile(t, homeDir())
	}
	return i
}

func rcFile(t Type, home string) string {
	switch t {
	case Zsh:
		if dir := os.Getenv("ZDOTDIR"); dir != "" {
			return filepath.Join(dir, ".zshrc")
		}
		return filepath.Join(home, ".zshrc")
	case Fish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	case Tcsh:
		return filepath.Join(home, ".tcshrc")
	case PowerShell:
		return filepath.Join(home, ".config", "powershell", "Microsoft.PowerShell_profile.ps1")
	default:
		return filepath.Join(home, ".bashrc")
	}
}

// RCFile returns the init file the installer edits.
func (i *Installer) RCFile() string {
	return i.rcFile
}

// Line returns the init-file line that defines the alias at shell start.
func (i *Installer) Line() string {
	switch i.shell {
	case Fish:
		return fmt.Sprintf("%s --alias %s | source", Program, i.alias)
	case Tcsh:
		return fmt.Sprintf("eval `%s --alias %s`", Program, i.alias)
	case PowerShell:
		return fmt.Sprintf("iex \"$(%s --alias %s | Out-String)\"", Program, i.alias)
	default:
		return fmt.Sprintf("eval \"$(%s --alias %s)\"", Program, i.alias)
	}
}

// IsInstalled reports whether the init file already carries the wiring.
func (i *Installer) IsInstalled() (bool, error) {
	data, err := afero.ReadFile(i.fs, i.rcFile)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", i.rcFile, err)
	}
	return strings.Contains(string(data), installMarker), nil
}

// Install appends the wiring to the init file. Installing twice is a no-op.
func (i *Installer) Install() error {
	installed, err := i.IsInstalled()
	if err != nil || installed {
		return err
	}
	if err := i.fs.MkdirAll(filepath.Dir(i.rcFile), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(i.rcFile), err)
	}

	f, err := i.fs.OpenFile(i.rcFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", i.rcFile, err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "\n%s\n%s\n", installMarker, i.Line())
	return err
}

// Uninstall removes the wiring Install added.
func (i *Installer) Uninstall() error {
	data, err := afero.ReadFile(i.fs, i.rcFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", i.rcFile, err)
	}

	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	for n := 0; n < len(lines); n++ {
		if lines[n] != installMarker {
			kept = append(kept, lines[n])
			continue
		}
		// Drop the blank line Install wrote before the marker.
		if len(kept) > 0 && kept[len(kept)-1] == "" {
			kept = kept[:len(kept)-1]
		}
		n++
	}
	return afero.WriteFile(i.fs, i.rcFile, []byte(strings.Join(kept, "\n")), 0o644)
}
