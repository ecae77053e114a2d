package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects a Renderer
type Format int

const (
	FormatAuto Format = iota
	FormatTerminal
	FormatText
	FormatJSON
)

// formatNames lists the accepted --format values; the first name of each
// format is canonical.
var formatNames = map[Format][]string{
	FormatAuto:     {"auto", ""},
	FormatTerminal: {"term", "terminal"},
	FormatText:     {"text", "plain"},
	FormatJSON:     {"json"},
}

func (f Format) String() string {
	if names, ok := formatNames[f]; ok {
		return names[0]
	}
	return "unknown"
}

// ParseFormat maps a --format value to a Format
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for format, names := range formatNames {
		for _, name := range names {
			if name == s {
				return format, nil
			}
		}
	}
	return FormatAuto, fmt.Errorf("unknown format: %s", s)
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectFormat picks the terminal renderer only for a color-capable TTY.
// NO_COLOR forces plain text.
func DetectFormat(output *os.File) Format {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return FormatText
	case !IsTerminal(output):
		return FormatText
	case termenv.ColorProfile() == termenv.Ascii:
		return FormatText
	}
	return FormatTerminal
}
