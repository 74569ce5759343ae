// Package host is the thin layer between rules and the machine they run on:
// the filesystem, the working directory, PATH and child processes. Tests
// replace it with an in-memory filesystem and a fake PATH.
package host

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// RunFunc runs a program and returns its interleaved stdout and stderr.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Host bundles the system access rules are allowed to perform.
type Host struct {
	// Fs is where existence checks, directory listings and side effects happen.
	Fs afero.Fs
	// Path is the PATH value used for executable lookup.
	Path string
	// Cwd is the working directory the failed command ran in.
	Cwd string
	// Getenv reads environment variables.
	Getenv func(string) string
	// Run spawns child processes.
	Run RunFunc
	// ExcludedPathPrefixes are PATH entries skipped during enumeration.
	ExcludedPathPrefixes []string
	// Aliases are program entry points hidden from executable enumeration.
	Aliases []string
	// RunTimeout bounds every child process started through Output.
	RunTimeout time.Duration
	// NumCloseMatches caps fuzzy suggestions; zero keeps the default.
	NumCloseMatches int

	mu         sync.Mutex
	executable map[uint64][]string
	npmScripts []string
	npmLoaded  bool
}

// OS returns a Host backed by the real machine.
func OS() *Host {
	cwd, _ := os.Getwd()
	return &Host{
		Fs:         afero.NewOsFs(),
		Path:       os.Getenv("PATH"),
		Cwd:        cwd,
		Getenv:     os.Getenv,
		Run:        runProcess,
		RunTimeout: 5 * time.Second,
	}
}

// New returns a Host over fs with the given PATH and working directory.
// Environment lookups return nothing and no process can be run.
func New(fs afero.Fs, path, cwd string) *Host {
	return &Host{
		Fs:     fs,
		Path:   path,
		Cwd:    cwd,
		Getenv: func(string) string { return "" },
	}
}

// Abs resolves path against the working directory.
func (h *Host) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		if home := h.env("HOME"); home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Join(h.Cwd, path)
}

// Exists reports whether path exists.
func (h *Host) Exists(path string) bool {
	_, err := h.Fs.Stat(h.Abs(path))
	return err == nil
}

// IsDir reports whether path is an existing directory.
func (h *Host) IsDir(path string) bool {
	info, err := h.Fs.Stat(h.Abs(path))
	return err == nil && info.IsDir()
}

// IsFile reports whether path is an existing regular file.
func (h *Host) IsFile(path string) bool {
	info, err := h.Fs.Stat(h.Abs(path))
	return err == nil && info.Mode().IsRegular()
}

// ListDir returns the entry names of a directory, or nil on error.
func (h *Host) ListDir(path string) []string {
	entries, err := afero.ReadDir(h.Fs, h.Abs(path))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// SubDirs returns the names of the directories inside path.
func (h *Host) SubDirs(path string) []string {
	entries, err := afero.ReadDir(h.Fs, h.Abs(path))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// ReadFile reads a whole file relative to the working directory.
func (h *Host) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(h.Fs, h.Abs(path))
}

// Output runs a program bounded by RunTimeout and returns its output.
func (h *Host) Output(name string, args ...string) ([]byte, error) {
	if h.Run == nil {
		return nil, exec.ErrNotFound
	}
	ctx := context.Background()
	if h.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.RunTimeout)
		defer cancel()
	}
	return h.Run(ctx, name, args...)
}

func (h *Host) env(key string) string {
	if h.Getenv == nil {
		return ""
	}
	return h.Getenv(key)
}

func runProcess(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func pathKey(path string, excluded []string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(path)
	for _, p := range excluded {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(p)
	}
	return d.Sum64()
}
