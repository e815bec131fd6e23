package bundle

import (
	"regexp"
	"strings"
)

// headerLine matches a line that is only a section name.
var headerLine = regexp.MustCompile(`^master[A-Za-z0-9]*$`)

func isHeader(line string) bool {
	return headerLine.MatchString(strings.TrimSpace(line))
}

// Headers lists the section header lines of a plaintext dump in order.
func Headers(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(raw, "\n") {
		name := strings.TrimSpace(line)
		if isHeader(name) && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// ExtractSection returns the non-empty rows between the header line name
// and the next header line. A missing header yields an empty list.
func ExtractSection(raw, name string) []string {
	lines := strings.Split(raw, "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == name {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return []string{}
	}
	rows := []string{}
	for _, line := range lines[start:] {
		if isHeader(line) {
			break
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}
