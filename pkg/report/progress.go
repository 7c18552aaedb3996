package report

import (
	"fmt"
	"io"
	"os"

	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar renders case progress for quiet runs.
type ProgressBar struct {
	bar    *progressbar.ProgressBar
	passed int
	failed int
}

// NewProgressBar creates a progress bar over count cases writing to w, or
// stderr when w is nil.
func NewProgressBar(count int, w io.Writer) *ProgressBar {
	if w == nil {
		w = os.Stderr
	}

	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

func describe(passed, failed int) string {
	return successStyle.Render(fmt.Sprintf("[passed: %d", passed)) +
		" | " +
		failureStyle.Render(fmt.Sprintf("failed: %d]", failed))
}

// Update sets the bar to the given pass and fail counts.
func (p *ProgressBar) Update(passed, failed int) {
	p.passed, p.failed = passed, failed
	_ = p.bar.Set(passed + failed)
	p.bar.Describe(describe(passed, failed))
}

// CaseStarted resizes the bar to the number of cases actually run.
func (p *ProgressBar) CaseStarted(_ int, total int, _ types.TestCase) {
	if total > 0 && int64(total) != p.bar.GetMax64() {
		p.bar.ChangeMax(total)
	}
}

// CaseFinished advances the bar. Cases that never reached the browser are
// not counted.
func (p *ProgressBar) CaseFinished(result CaseResult) {
	if !result.Ran() {
		return
	}
	if result.Status == StatusPassed {
		p.Update(p.passed+1, p.failed)
		return
	}
	p.Update(p.passed, p.failed+1)
}

// Counts returns the passed and failed totals seen so far.
func (p *ProgressBar) Counts() (passed, failed int) {
	return p.passed, p.failed
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

// Listeners fans case events out to several listeners. Nil entries are
// skipped.
type Listeners []Listener

func (ls Listeners) CaseStarted(index, total int, tc types.TestCase) {
	for _, l := range ls {
		if l != nil {
			l.CaseStarted(index, total, tc)
		}
	}
}

func (ls Listeners) CaseFinished(result CaseResult) {
	for _, l := range ls {
		if l != nil {
			l.CaseFinished(result)
		}
	}
}

var (
	_ Listener = (*ProgressBar)(nil)
	_ Listener = Listeners(nil)
)
