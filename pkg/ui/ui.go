// Package ui renders pakmerge results: installed mods with their archive
// dictionaries, merge reports, messages and errors.
//
// Terminal and text output share the same markdown; the terminal renderer
// passes it through glamour. JSON output is meant for scripts.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderMods renders installed mods and their pakDictionary
	RenderMods(mods []*types.ModRecord) error

	// RenderMergeReport renders the outcome of a merge run
	RenderMergeReport(report *merge.Report) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects output when
// it is a file and falls back to text otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return newTerminalRenderer(output)
	case FormatText:
		return &textRenderer{output: output}, nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
