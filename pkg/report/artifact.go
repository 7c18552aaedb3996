package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Artifact file names written into the output directory
const (
	ReportJSONFile      = "report.json"
	SummaryMarkdownFile = "summary.md"
)

// ArtifactWriter handles writing run artifacts
type ArtifactWriter struct {
	outputDir string
	json      bool
	markdown  bool
}

// NewArtifactWriter creates a new artifact writer. Either format can be
// switched off.
func NewArtifactWriter(outputDir string, writeJSON, writeMarkdown bool) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
		json:      writeJSON,
		markdown:  writeMarkdown,
	}
}

// OutputDir returns the artifact directory.
func (w *ArtifactWriter) OutputDir() string {
	return w.outputDir
}

// WriteAll writes all configured artifact formats
func (w *ArtifactWriter) WriteAll(r *RunReport) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.json {
		if err := w.WriteReportJSON(r); err != nil {
			return err
		}
	}

	if w.markdown {
		if err := w.WriteSummaryMarkdown(r); err != nil {
			return err
		}
	}

	return nil
}

// WriteReportJSON writes the full run report as JSON
func (w *ArtifactWriter) WriteReportJSON(r *RunReport) error {
	path := filepath.Join(w.outputDir, ReportJSONFile)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write report JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(r *RunReport) error {
	path := filepath.Join(w.outputDir, SummaryMarkdownFile)

	if writeErr := os.WriteFile(path, []byte(RenderMarkdown(r)), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

// RenderMarkdown renders the run report as a markdown document.
func RenderMarkdown(r *RunReport) string {
	var md strings.Builder

	md.WriteString("# boardcheck Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Run ID:** %s\n\n", r.RunID))
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", r.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", r.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", r.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", r.Duration.Round(time.Millisecond)))

	if r.Error != "" {
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", r.Error))
	}

	md.WriteString("## Counts\n\n")
	for _, status := range sortedStatuses(r.Counts) {
		md.WriteString(fmt.Sprintf("- **%s:** %d\n", status, r.Counts[status]))
	}
	md.WriteString("\n")

	if len(r.Cases) == 0 {
		return md.String()
	}

	md.WriteString("## Cases\n\n")
	md.WriteString("| # | Test | Status | Expected | Actual |\n")
	md.WriteString("|---|------|--------|----------|--------|\n")
	for _, c := range r.Cases {
		md.WriteString(fmt.Sprintf("| %d | %s | %s %s | %s | %s |\n",
			c.Index+1,
			escapeCell(c.TestCase.DisplayName()),
			markdownMark(c.Status),
			c.Status,
			escapeCell(strings.Join(c.Expected, ", ")),
			escapeCell(strings.Join(c.Actual, ", ")),
		))
	}
	md.WriteString("\n")

	var details []CaseResult
	for _, c := range r.Cases {
		if c.Error != "" && c.Status != StatusFiltered {
			details = append(details, c)
		}
	}
	if len(details) > 0 {
		md.WriteString("## Errors\n\n")
		for _, c := range details {
			md.WriteString(fmt.Sprintf("- **%s** (`%s`): %s\n", c.TestCase.DisplayName(), c.TestCase.Key(), c.Error))
			if c.Snapshot != "" {
				md.WriteString(fmt.Sprintf("  Snapshot: `%s`\n", c.Snapshot))
			}
		}
		md.WriteString("\n")
	}

	return md.String()
}

func markdownMark(status Status) string {
	switch status {
	case StatusPassed:
		return "✅"
	case StatusFiltered:
		return "⏭"
	default:
		return "❌"
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
