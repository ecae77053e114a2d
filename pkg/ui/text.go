package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// textRenderer writes the markdown unstyled
type textRenderer struct {
	output io.Writer
}

// RenderMods implements Renderer
func (r *textRenderer) RenderMods(mods []*types.ModRecord) error {
	_, err := io.WriteString(r.output, ModsMarkdown(mods))
	return err
}

// RenderMergeReport implements Renderer
func (r *textRenderer) RenderMergeReport(report *merge.Report) error {
	_, err := io.WriteString(r.output, MergeReportMarkdown(report))
	return err
}

// RenderError implements Renderer
func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %s\n", errorText(err))
	return werr
}

// RenderMessage implements Renderer
func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
