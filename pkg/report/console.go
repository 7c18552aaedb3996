package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/boardcheck/pkg/types"
)

// Level is the console verbosity.
type Level int

const (
	// LevelQuiet shows only warnings, errors and the final summary
	LevelQuiet Level = iota
	// LevelNormal shows one line per test case (default)
	LevelNormal
	// LevelVerbose adds expected/actual details and navigation progress
	LevelVerbose
	// LevelDebug shows everything
	LevelDebug
)

// ParseLevel converts a verbosity name. Unknown names map to LevelNormal.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "quiet":
		return LevelQuiet
	case "verbose":
		return LevelVerbose
	case "debug":
		return LevelDebug
	default:
		return LevelNormal
	}
}

// Listener receives case progress from the runner.
type Listener interface {
	CaseStarted(index, total int, tc types.TestCase)
	CaseFinished(result CaseResult)
}

// Console is the user-facing reporter. Diagnostics belong in the file log.
type Console struct {
	level  Level
	writer io.Writer
}

// NewConsole creates a console writing to w, or stdout when w is nil.
func NewConsole(level Level, w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{level: level, writer: w}
}

// Level returns the console verbosity.
func (c *Console) Level() Level {
	return c.level
}

func (c *Console) println(style lipgloss.Style, msg string) {
	fmt.Fprintln(c.writer, style.Render(msg))
}

// Header prints a prominent header message
func (c *Console) Header(message string) {
	if c.level >= LevelNormal {
		rule := strings.Repeat("=", 70)
		fmt.Fprintln(c.writer)
		c.println(headerStyle, rule)
		c.println(headerStyle, "  "+message)
		c.println(headerStyle, rule)
	}
}

// Section prints a section divider
func (c *Console) Section(title string) {
	if c.level >= LevelNormal {
		fmt.Fprintln(c.writer)
		c.println(sectionStyle, "▶ "+title)
		c.println(mutedStyle, strings.Repeat("─", 50))
	}
}

// Successf prints a success message with checkmark
func (c *Console) Successf(format string, args ...interface{}) {
	if c.level >= LevelNormal {
		c.println(successStyle, "✓ "+fmt.Sprintf(format, args...))
	}
}

// Infof prints an informational message
func (c *Console) Infof(format string, args ...interface{}) {
	if c.level >= LevelNormal {
		c.println(infoStyle, fmt.Sprintf(format, args...))
	}
}

// Warningf prints a warning message
func (c *Console) Warningf(format string, args ...interface{}) {
	c.println(warningStyle, "⚠ Warning: "+fmt.Sprintf(format, args...))
}

// Errorf prints an error message
func (c *Console) Errorf(format string, args ...interface{}) {
	c.println(failureStyle, "✗ Error: "+fmt.Sprintf(format, args...))
}

// Verbosef prints detailed information (only in verbose mode)
func (c *Console) Verbosef(format string, args ...interface{}) {
	if c.level >= LevelVerbose {
		c.println(mutedStyle, "→ "+fmt.Sprintf(format, args...))
	}
}

// Debugf prints debug information (only in debug mode)
func (c *Console) Debugf(format string, args ...interface{}) {
	if c.level >= LevelDebug {
		c.println(mutedStyle, "[DEBUG] "+fmt.Sprintf(format, args...))
	}
}

// CaseStarted announces a test case.
func (c *Console) CaseStarted(index, total int, tc types.TestCase) {
	if c.level >= LevelVerbose {
		c.println(sectionStyle, fmt.Sprintf("[%d/%d] %s", index+1, total, tc.DisplayName()))
	}
}

// CaseFinished prints the outcome of a test case.
func (c *Console) CaseFinished(result CaseResult) {
	switch {
	case result.Status == StatusFiltered && c.level < LevelVerbose:
		return
	case c.level == LevelQuiet:
		return
	}

	line := fmt.Sprintf("  %s %s", statusMark(result.Status), result.TestCase.DisplayName())
	if result.Duration > 0 {
		line += mutedStyle.Render(fmt.Sprintf(" (%s)", result.Duration.Round(time.Millisecond)))
	}
	fmt.Fprintln(c.writer, statusStyle(result.Status).Render(line))

	if result.Status == StatusTagMismatch {
		c.println(mutedStyle, fmt.Sprintf("      expected tags %v, actual tags %v", result.Expected, result.Actual))
	}
	if result.Error != "" && (result.Status != StatusFiltered || c.level >= LevelVerbose) {
		c.println(mutedStyle, "      "+result.Error)
	}
	if result.Snapshot != "" && c.level >= LevelVerbose {
		c.println(mutedStyle, "      snapshot: "+result.Snapshot)
	}
}

func statusMark(status Status) string {
	switch status {
	case StatusPassed:
		return "✓"
	case StatusFiltered:
		return "-"
	case StatusInvalid:
		return "!"
	default:
		return "✗"
	}
}

// Summary prints the final run summary. It is shown at every level.
func (c *Console) Summary(r *RunReport) {
	var b strings.Builder

	b.WriteString(headerStyle.Render("RUN SUMMARY") + "\n")
	b.WriteString("Status: " + runStatusLabel(r.Status) + "\n")
	b.WriteString(fmt.Sprintf("Run ID: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Duration: %s\n", r.Duration.Round(time.Second)))
	b.WriteString(fmt.Sprintf("Cases: %d", r.Total()))

	for _, status := range sortedStatuses(r.Counts) {
		b.WriteString("\n  " + statusStyle(status).Render(fmt.Sprintf("%s: %d", status, r.Counts[status])))
	}

	if failures := r.Failures(); len(failures) > 0 && c.level >= LevelNormal {
		b.WriteString("\n\nNot passed:")
		for _, f := range failures {
			b.WriteString(fmt.Sprintf("\n  • %s (%s)", f.TestCase.DisplayName(), f.Status))
		}
	}

	if r.Error != "" {
		b.WriteString("\n\n" + failureStyle.Render("Error: "+r.Error))
	}

	fmt.Fprintln(c.writer)
	fmt.Fprintln(c.writer, summaryBoxStyle.Render(b.String()))
}

func runStatusLabel(status string) string {
	switch status {
	case RunPassed:
		return successStyle.Render("✓ PASSED")
	case RunFailed:
		return failureStyle.Render("✗ FAILED")
	case RunCancelled:
		return warningStyle.Render("⚠ CANCELLED")
	case RunError:
		return failureStyle.Render("✗ ERROR")
	default:
		return status
	}
}

func sortedStatuses(counts map[Status]int) []Status {
	statuses := make([]Status, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	return statuses
}

var _ Listener = (*Console)(nil)
