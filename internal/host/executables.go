package host

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Executables returns the names of regular files found on PATH, in PATH
// order, without duplicates. Program aliases are left out. The result is
// memoised per PATH value.
func (h *Host) Executables() []string {
	key := pathKey(h.Path, h.ExcludedPathPrefixes)

	h.mu.Lock()
	defer h.mu.Unlock()
	if cached, ok := h.executable[key]; ok {
		return cached
	}

	seen := make(map[string]bool)
	var names []string
	for _, dir := range filepath.SplitList(h.Path) {
		if dir == "" || h.excluded(dir) {
			continue
		}
		for _, name := range h.ListDir(dir) {
			if seen[name] || slices.Contains(h.Aliases, name) {
				continue
			}
			if !h.IsFile(filepath.Join(dir, name)) {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	if h.executable == nil {
		h.executable = make(map[uint64][]string)
	}
	h.executable[key] = names
	return names
}

// AllExecutables returns PATH executables followed by the given shell
// builtins that are not already present.
func (h *Host) AllExecutables(builtins []string) []string {
	execs := h.Executables()
	out := make([]string, 0, len(execs)+len(builtins))
	out = append(out, execs...)
	for _, b := range builtins {
		if !slices.Contains(execs, b) && !slices.Contains(h.Aliases, b) {
			out = append(out, b)
		}
	}
	return out
}

// Which returns the full path of program on PATH, or "" when absent.
func (h *Host) Which(program string) string {
	if strings.ContainsRune(program, os.PathSeparator) {
		if h.IsFile(program) {
			return h.Abs(program)
		}
		return ""
	}
	for _, dir := range filepath.SplitList(h.Path) {
		if dir == "" || h.excluded(dir) {
			continue
		}
		candidate := filepath.Join(dir, program)
		if h.IsFile(candidate) {
			return candidate
		}
	}
	return ""
}

func (h *Host) excluded(dir string) bool {
	for _, prefix := range h.ExcludedPathPrefixes {
		if strings.HasPrefix(dir, prefix) {
			return true
		}
	}
	return false
}
