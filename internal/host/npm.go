package host

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

var npmScriptLine = regexp.MustCompile(`^  [^ ]+`)

// NpmScripts runs `npm run-script` once and returns the user-defined script
// names it lists. Failures yield no scripts.
func (h *Host) NpmScripts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.npmLoaded {
		return h.npmScripts
	}
	h.npmLoaded = true

	out, err := h.Output("npm", "run-script")
	if err != nil && len(out) == 0 {
		return nil
	}
	h.npmScripts = ParseNpmScripts(out)
	return h.npmScripts
}

// ParseNpmScripts extracts script names from `npm run-script` output. Names
// follow the "available via `npm run-script`:" header and are indented by
// exactly two spaces; their commands are indented further and skipped.
func ParseNpmScripts(out []byte) []string {
	var scripts []string
	collecting := false
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "available via `npm run-script`:") ||
			strings.Contains(line, "available via 'npm run-script':") {
			collecting = true
			continue
		}
		if collecting && npmScriptLine.MatchString(line) {
			scripts = append(scripts, strings.Fields(line)[0])
		}
	}
	return scripts
}
