package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}).
			Bold(true)
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1F6F8B", Dark: "#7FDBFF"})
)

// terminalRenderer renders markdown through glamour
type terminalRenderer struct {
	output   io.Writer
	markdown *glamour.TermRenderer
}

func newTerminalRenderer(output io.Writer) (*terminalRenderer, error) {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &terminalRenderer{output: output, markdown: md}, nil
}

func (r *terminalRenderer) render(markdown string) error {
	rendered, err := r.markdown.Render(markdown)
	if err != nil {
		// plain markdown is still readable
		rendered = markdown
	}
	_, err = io.WriteString(r.output, rendered)
	return err
}

// RenderMods implements Renderer
func (r *terminalRenderer) RenderMods(mods []*types.ModRecord) error {
	return r.render(ModsMarkdown(mods))
}

// RenderMergeReport implements Renderer
func (r *terminalRenderer) RenderMergeReport(report *merge.Report) error {
	return r.render(MergeReportMarkdown(report))
}

// RenderError implements Renderer
func (r *terminalRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, errorStyle.Render("Error: "+errorText(err)))
	return werr
}

// RenderMessage implements Renderer
func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, messageStyle.Render(msg))
	return err
}
