package rules

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"ohcrab/internal/command"
	"ohcrab/internal/host"
	"ohcrab/internal/shell"
)

var tarExtensions = []string{
	".tar", ".tar.Z", ".tar.bz2", ".tar.gz", ".tar.lz", ".tar.lzma", ".tar.xz",
	".taz", ".tb2", ".tbz", ".tbz2", ".tgz", ".tlz", ".txz", ".tz",
}

// tarFile returns the archive named in parts and the directory name it
// should be extracted into.
func tarFile(parts []string) (file, dir string) {
	for _, p := range parts {
		for _, ext := range tarExtensions {
			if strings.HasSuffix(p, ext) {
				return p, p[:len(p)-len(ext)]
			}
		}
	}
	return "", ""
}

func isTarExtract(script string) bool {
	if strings.Contains(script, "--extract") {
		return true
	}
	fields := strings.Fields(script)
	return len(fields) > 1 && strings.Contains(fields[1], "x")
}

// archiveEntries lists the member names of a tar or zip archive.
func archiveEntries(h *host.Host, name string) ([]string, error) {
	f, err := h.Fs.Open(h.Abs(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(name, ".zip") {
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		zr, err := zip.NewReader(f, info.Size())
		if err != nil {
			return nil, fmt.Errorf("read zip %s: %w", name, err)
		}
		names := make([]string, 0, len(zr.File))
		for _, zf := range zr.File {
			names = append(names, zf.Name)
		}
		return names, nil
	}

	r, err := decompress(name, f)
	if err != nil {
		return nil, err
	}
	tr := tar.NewReader(r)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return names, fmt.Errorf("read tar %s: %w", name, err)
		}
		names = append(names, hdr.Name)
	}
}

func decompress(name string, r io.Reader) (io.Reader, error) {
	switch {
	case hasAnySuffix(name, ".tar.gz", ".tgz", ".taz"):
		return gzip.NewReader(r)
	case hasAnySuffix(name, ".tar.bz2", ".tbz", ".tbz2", ".tb2"):
		return bzip2.NewReader(r), nil
	case hasAnySuffix(name, ".tar.xz", ".txz"):
		return xz.NewReader(r)
	case hasAnySuffix(name, ".tar.lzma", ".tlz"):
		return lzma.NewReader(r)
	case strings.HasSuffix(name, ".tar"):
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", name)
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// topLevel returns the distinct first path segments of archive members.
func topLevel(entries []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		first, _, _ := strings.Cut(strings.TrimPrefix(path.Clean(e), "./"), "/")
		if first == "" || first == "." || seen[first] {
			continue
		}
		seen[first] = true
		out = append(out, first)
	}
	return out
}

// cleanExtracted removes the files an earlier extraction dropped into the
// working directory. Entries that would resolve outside of it are skipped.
func cleanExtracted(h *host.Host, archive string) error {
	entries, err := archiveEntries(h, archive)
	if err != nil {
		return err
	}
	var firstErr error
	for _, e := range entries {
		if err := h.RemoveFile(e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// dirty_untar: a tarball extracted straight into the working directory.

type dirtyUntar struct {
	base
	h *host.Host
}

func newDirtyUntar(h *host.Host) Rule { return dirtyUntar{newBase("dirty_untar"), h} }

func (r dirtyUntar) Match(cmd *command.Command, _ shell.Shell) bool {
	if !forApp(cmd, "tar") || strings.Contains(cmd.Script, "-C") || !isTarExtract(cmd.Script) {
		return false
	}
	file, _ := tarFile(cmd.Parts())
	if file == "" {
		return false
	}
	entries, err := archiveEntries(r.h, file)
	return err != nil || len(topLevel(entries)) > 1
}

func (dirtyUntar) Suggest(cmd *command.Command, sh shell.Shell) []string {
	_, dir := tarFile(cmd.Parts())
	dir = sh.Quote(dir)
	return single(sh.And("mkdir -p "+dir, cmd.Script+" -C "+dir))
}

func (r dirtyUntar) SideEffect(cmd *command.Command, _ string) error {
	file, _ := tarFile(cmd.Parts())
	return cleanExtracted(r.h, file)
}

// dirty_unzip: a zip with several top-level entries unpacked in place.

type dirtyUnzip struct {
	base
	h *host.Host
}

func newDirtyUnzip(h *host.Host) Rule {
	return dirtyUnzip{newBase("dirty_unzip", outputOptional()), h}
}

func zipFile(cmd *command.Command) string {
	for _, p := range cmd.Parts()[1:] {
		if strings.HasPrefix(p, "-") {
			continue
		}
		if strings.HasSuffix(p, ".zip") {
			return p
		}
		return p + ".zip"
	}
	return ""
}

func (r dirtyUnzip) Match(cmd *command.Command, _ shell.Shell) bool {
	if !forApp(cmd, "unzip") || strings.Contains(cmd.Script, "-d") {
		return false
	}
	file := zipFile(cmd)
	if file == "" {
		return false
	}
	entries, err := archiveEntries(r.h, file)
	return err == nil && len(entries) > 1
}

func (dirtyUnzip) Suggest(cmd *command.Command, sh shell.Shell) []string {
	file := zipFile(cmd)
	return single(cmd.Script + " -d " + sh.Quote(strings.TrimSuffix(file, ".zip")))
}

func (r dirtyUnzip) SideEffect(cmd *command.Command, _ string) error {
	return cleanExtracted(r.h, zipFile(cmd))
}
