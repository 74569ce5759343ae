package shell

import (
	"bufio"
	"regexp"
	"strings"
)

// zshExtended matches the extended history format: ": 1700000000:0;command"
var zshExtended = regexp.MustCompile(`^: \d+:\d+;(.*)$`)

var fishCmd = regexp.MustCompile(`^\s*- cmd:\s*(.+)$`)

// parseBashHistory returns history lines oldest first. Timestamp comments
// written with HISTTIMEFORMAT ("#1700000000") are dropped.
func parseBashHistory(data string) []string {
	var entries []string
	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isTimestampLine(line) {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

func parseZshHistory(data string) []string {
	var entries []string
	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if matches := zshExtended.FindStringSubmatch(line); len(matches) == 2 {
			if cmd := strings.TrimSpace(matches[1]); cmd != "" {
				entries = append(entries, cmd)
			}
			continue
		}
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, ":") {
			entries = append(entries, line)
		}
	}
	return entries
}

// parseFishHistory reads the yaml-like fish format:
//
//	- cmd: git status
//	  when: 1700000000
func parseFishHistory(data string) []string {
	var entries []string
	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if matches := fishCmd.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			entries = append(entries, strings.TrimSpace(matches[1]))
		}
	}
	return entries
}

func isTimestampLine(line string) bool {
	if len(line) < 2 || line[0] != '#' {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '+' && i == 1 {
			continue
		}
		if line[i] < '0' || line[i] > '9' {
			return false
		}
	}
	return true
}
