package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func detect(vars map[string]string) *Capabilities {
	// -1 is never a terminal.
	return NewDetector(env(vars), -1).Detect()
}

func TestNotATerminal(t *testing.T) {
	caps := detect(nil)
	assert.False(t, caps.IsTTY)
	assert.Equal(t, 80, caps.Width)
	assert.Equal(t, 24, caps.Height)
	assert.Equal(t, "unknown", caps.Name)
	assert.False(t, caps.SupportsColor)
	assert.True(t, caps.ShouldUseASCII())
}

func TestColorLevels(t *testing.T) {
	tests := []struct {
		name              string
		vars              map[string]string
		color, c256, truecolor bool
	}{
		{"dumb", map[string]string{"TERM": "dumb"}, false, false, false},
		{"no color wins", map[string]string{"TERM": "xterm-256color", "NO_COLOR": "1"}, false, false, false},
		{"xterm", map[string]string{"TERM": "xterm"}, true, false, false},
		{"xterm 256", map[string]string{"TERM": "xterm-256color"}, true, true, false},
		{"truecolor", map[string]string{"TERM": "xterm-256color", "COLORTERM": "truecolor"}, true, true, true},
		{"kitty", map[string]string{"TERM": "xterm-kitty", "KITTY_WINDOW_ID": "1"}, true, true, true},
		{"forced", map[string]string{"FORCE_COLOR": "1"}, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := detect(tt.vars)
			assert.Equal(t, tt.color, caps.SupportsColor)
			assert.Equal(t, tt.c256, caps.Supports256Color)
			assert.Equal(t, tt.truecolor, caps.SupportsTrueColor)
		})
	}
}

func TestUnicode(t *testing.T) {
	assert.True(t, detect(map[string]string{"LANG": "en_US.UTF-8"}).SupportsUnicode)
	assert.False(t, detect(map[string]string{"LANG": "en_US.UTF-8", "LC_ALL": "C"}).SupportsUnicode)
	assert.True(t, detect(map[string]string{"TERM": "xterm"}).SupportsUnicode)
	assert.False(t, detect(map[string]string{"TERM": "linux"}).SupportsUnicode)
}

func TestName(t *testing.T) {
	assert.Equal(t, "tmux", detect(map[string]string{"TMUX": "/tmp/tmux", "TERM": "screen"}).Name)
	assert.Equal(t, "xterm", detect(map[string]string{"TERM": "xterm-256color"}).Name)
	assert.Equal(t, "rxvt-unicode", detect(map[string]string{"TERM": "rxvt-unicode"}).Name)
}
