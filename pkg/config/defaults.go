package config

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// GenerateConfigContent renders the built-in defaults as a starter user file.
// Comments and [section] headers are kept and every assignment is commented
// out, so the file overrides nothing until the user uncomments a value.
func GenerateConfigContent() string {
	var b strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(defaultConfig))
	for scanner.Scan() {
		line := scanner.Text()
		if isAssignment(line) {
			b.WriteString("# ")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func isAssignment(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return false
	case strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, "["):
		return false
	}
	return strings.Contains(trimmed, "=")
}
