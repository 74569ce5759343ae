package host

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Canonical returns the absolute, cleaned form of path. On the real
// filesystem symlinks in the deepest existing ancestor are resolved too.
func (h *Host) Canonical(path string) string {
	abs := h.Abs(path)
	if _, ok := h.Fs.(*afero.OsFs); !ok {
		return abs
	}
	dir, rest := abs, ""
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// Within reports whether path stays inside the working directory once
// canonicalised. The working directory itself does not count.
func (h *Host) Within(path string) bool {
	root := h.Canonical(h.Cwd)
	p := h.Canonical(path)
	if p == root {
		return false
	}
	return strings.HasPrefix(p, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}

// RemoveFile deletes a regular file inside the working directory. Missing
// files and anything outside the working directory are left alone.
func (h *Host) RemoveFile(path string) error {
	if !h.Within(path) {
		return nil
	}
	p := h.Abs(path)
	info, err := h.Fs.Stat(p)
	if err != nil || info.IsDir() {
		return nil
	}
	return h.Fs.Remove(p)
}
