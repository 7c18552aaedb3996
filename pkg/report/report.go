// Package report collects per-case results into a run report and presents
// it: styled console output, a progress bar, and JSON/markdown artifacts.
package report

import (
	"time"

	"github.com/entrhq/boardcheck/pkg/types"
)

// Status is the outcome of a single test case.
type Status string

const (
	StatusPassed          Status = "passed"
	StatusTagMismatch     Status = "tag_mismatch"
	StatusNotFound        Status = "not_found"
	StatusNavigationError Status = "navigation_error"
	StatusScrapeError     Status = "scrape_error"
	StatusInvalid         Status = "invalid"
	StatusFiltered        Status = "filtered"
)

// Run-level statuses
const (
	RunPassed    = "passed"
	RunFailed    = "failed"
	RunCancelled = "cancelled"
	RunError     = "error"
)

// CaseResult records what happened to one test case.
type CaseResult struct {
	Index    int            `json:"index"`
	TestCase types.TestCase `json:"test_case"`
	Status   Status         `json:"status"`
	Expected []string       `json:"expected,omitempty"`
	Actual   []string       `json:"actual,omitempty"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"duration"`
	// Snapshot is the base path of the captured page snapshot, if any
	Snapshot string `json:"snapshot,omitempty"`
}

// Ran reports whether the case reached the browser.
func (r CaseResult) Ran() bool {
	return r.Status != StatusInvalid && r.Status != StatusFiltered
}

// RunReport is the summary of a whole run.
type RunReport struct {
	RunID     string         `json:"run_id"`
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Duration  time.Duration  `json:"duration"`
	Cases     []CaseResult   `json:"cases"`
	Counts    map[Status]int `json:"counts"`
}

// NewRunReport starts a report for the given run.
func NewRunReport(runID string) *RunReport {
	return &RunReport{
		RunID:     runID,
		StartTime: time.Now(),
		Cases:     make([]CaseResult, 0),
		Counts:    make(map[Status]int),
	}
}

// Add records a case result.
func (r *RunReport) Add(result CaseResult) {
	r.Cases = append(r.Cases, result)
	r.Counts[result.Status]++
}

// Finish stamps the end time and derives the run status. A non-nil err marks
// the run as errored; cancelled marks it as cancelled.
func (r *RunReport) Finish(err error, cancelled bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	switch {
	case err != nil:
		r.Status = RunError
		r.Error = err.Error()
	case cancelled:
		r.Status = RunCancelled
	case r.AllPassed():
		r.Status = RunPassed
	default:
		r.Status = RunFailed
	}
}

// AllPassed reports whether every case that was not filtered out passed.
// A report with nothing run does not pass.
func (r *RunReport) AllPassed() bool {
	ran := 0
	for _, c := range r.Cases {
		switch c.Status {
		case StatusFiltered:
			continue
		case StatusPassed:
			ran++
		default:
			return false
		}
	}
	return ran > 0
}

// Failures returns the cases that neither passed nor were filtered out.
func (r *RunReport) Failures() []CaseResult {
	var failed []CaseResult
	for _, c := range r.Cases {
		if c.Status != StatusPassed && c.Status != StatusFiltered {
			failed = append(failed, c)
		}
	}
	return failed
}

// Total is the number of recorded cases.
func (r *RunReport) Total() int {
	return len(r.Cases)
}
