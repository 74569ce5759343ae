// Package terminal works out what the terminal on stderr can display. The
// menu is drawn there because stdout is read by the shell.
package terminal

import (
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

// Capabilities describes the terminal the menu is drawn on.
type Capabilities struct {
	IsTTY             bool
	SupportsColor     bool
	Supports256Color  bool
	SupportsTrueColor bool
	SupportsUnicode   bool

	Name   string
	Width  int
	Height int
}

// Detector reads capabilities from an environment and a file descriptor.
type Detector struct {
	getenv func(string) string
	fd     int
}

// NewDetector creates a detector for fd. A nil getenv reads the process
// environment.
func NewDetector(getenv func(string) string, fd int) *Detector {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Detector{getenv: getenv, fd: fd}
}

// Detect inspects the terminal.
func (d *Detector) Detect() *Capabilities {
	caps := &Capabilities{
		IsTTY:  term.IsTerminal(d.fd),
		Name:   d.name(),
		Width:  80,
		Height: 24,
	}
	if caps.IsTTY {
		if w, h, err := term.GetSize(d.fd); err == nil && w > 0 && h > 0 {
			caps.Width, caps.Height = w, h
		}
	}

	caps.SupportsColor = d.color()
	caps.Supports256Color = caps.SupportsColor && d.color256(caps.Name)
	caps.SupportsTrueColor = caps.SupportsColor && d.trueColor(caps.Name)
	caps.SupportsUnicode = d.unicode(caps.Name)
	return caps
}

func (d *Detector) name() string {
	switch {
	case d.getenv("WT_SESSION") != "":
		return "windows-terminal"
	case d.getenv("ITERM_SESSION_ID") != "":
		return "iterm2"
	case d.getenv("ALACRITTY_WINDOW_ID") != "":
		return "alacritty"
	case d.getenv("WEZTERM_PANE") != "":
		return "wezterm"
	case d.getenv("KITTY_WINDOW_ID") != "":
		return "kitty"
	case d.getenv("KONSOLE_VERSION") != "":
		return "konsole"
	case d.getenv("TMUX") != "":
		return "tmux"
	case d.getenv("STY") != "":
		return "screen"
	}

	t := d.getenv("TERM")
	switch {
	case t == "dumb":
		return "dumb"
	case strings.Contains(t, "xterm"):
		return "xterm"
	case strings.Contains(t, "linux"):
		return "linux-console"
	case t == "":
		return "unknown"
	default:
		return t
	}
}

func (d *Detector) color() bool {
	if d.getenv("NO_COLOR") != "" {
		return false
	}
	if d.getenv("FORCE_COLOR") != "" || d.getenv("COLORTERM") != "" {
		return true
	}
	t := d.getenv("TERM")
	if t == "" || t == "dumb" {
		return false
	}
	for _, frag := range []string{"color", "xterm", "screen", "tmux", "rxvt", "vt100", "linux"} {
		if strings.Contains(t, frag) {
			return true
		}
	}
	return false
}

var modernTerminals = []string{"windows-terminal", "iterm2", "alacritty", "wezterm", "kitty", "konsole", "tmux"}

func (d *Detector) color256(name string) bool {
	return strings.Contains(d.getenv("TERM"), "256color") ||
		d.getenv("COLORTERM") != "" ||
		slices.Contains(modernTerminals, name) ||
		name == "screen"
}

func (d *Detector) trueColor(name string) bool {
	switch d.getenv("COLORTERM") {
	case "truecolor", "24bit":
		return true
	}
	return slices.Contains(modernTerminals, name)
}

func (d *Detector) unicode(name string) bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := strings.ToUpper(d.getenv(key))
		if v == "" {
			continue
		}
		return strings.Contains(v, "UTF-8") || strings.Contains(v, "UTF8")
	}
	return name != "dumb" && name != "unknown" && name != "linux-console"
}

// ShouldUseASCII reports whether box drawing and arrows should be avoided.
func (c *Capabilities) ShouldUseASCII() bool {
	return !c.SupportsUnicode
}

// Detect inspects the terminal on stderr.
func Detect() *Capabilities {
	return NewDetector(nil, int(os.Stderr.Fd())).Detect()
}

// IsInteractive reports whether both stdin and stderr are terminals, which
// is what the selection menu needs.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}
