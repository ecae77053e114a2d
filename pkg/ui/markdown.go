package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// ModsMarkdown describes installed mods as markdown
func ModsMarkdown(mods []*types.ModRecord) string {
	if len(mods) == 0 {
		return "No mods installed.\n"
	}

	var b strings.Builder
	for i, rec := range mods {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", rec.ID)
		if rec.Type != "" {
			fmt.Fprintf(&b, "- type: `%s`\n", rec.Type)
		}
		if rec.InstallPath != "" {
			fmt.Fprintf(&b, "- path: `%s`\n", rec.InstallPath)
		}
		if !rec.InstallTime.IsZero() {
			fmt.Fprintf(&b, "- installed: %s\n", rec.InstallTime.Format("2006-01-02 15:04"))
		}

		dict, err := rec.PakDictionary()
		switch {
		case err != nil:
			fmt.Fprintf(&b, "\nUnreadable pakDictionary: %v\n", err)
		case len(dict) == 0:
			b.WriteString("\nNo archives.\n")
		default:
			b.WriteString("\n| Archive | Merges into |\n|---|---|\n")
			for _, name := range dict.GeneratedNames() {
				fmt.Fprintf(&b, "| `%s` | `%s` |\n", name, dict[name])
			}
		}
	}
	return b.String()
}

// outcomeStatus summarizes one merge outcome as status and detail
func outcomeStatus(o merge.Outcome) (string, string) {
	switch {
	case o.Err != nil:
		return "failed", o.Err.Error()
	case o.Result == nil:
		return "pending", ""
	case o.Result.Skipped:
		return "skipped", o.Result.Reason
	default:
		return "merged", o.Result.Target
	}
}

// MergeReportMarkdown describes a merge run as markdown
func MergeReportMarkdown(report *merge.Report) string {
	if report == nil || len(report.Outcomes) == 0 {
		return "Nothing to merge.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Merged %d, skipped %d, failed %d.\n\n",
		report.Merged(), report.Skipped(), len(report.Failed()))
	b.WriteString("| Archive | Mod | Status | Detail |\n|---|---|---|---|\n")
	for _, o := range report.Outcomes {
		status, detail := outcomeStatus(o)
		mod := o.Request.ModID
		if mod == "" && o.Result != nil {
			mod = o.Result.ModID
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
			filepath.Base(o.Request.FilePath), mod, status, escapeCell(detail))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

// errorText is the one-line description of err shown to users
func errorText(err error) string {
	if errors.IsUserCanceled(err) {
		return "Canceled."
	}
	return err.Error()
}
