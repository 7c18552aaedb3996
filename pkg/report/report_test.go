package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roadmapCase() types.TestCase {
	return types.TestCase{
		Project:  "Cross-functional project plan, Project",
		Group:    "To do",
		Task:     "Draft project brief",
		Tags:     []string{"Non-Priority", "On track"},
		TestName: "Verify 'Draft project brief' in 'To do' column",
	}
}

func TestRunReportFinish(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []Status
		err       error
		cancelled bool
		want      string
	}{
		{"all passed", []Status{StatusPassed, StatusPassed}, nil, false, RunPassed},
		{"filtered ignored", []Status{StatusPassed, StatusFiltered}, nil, false, RunPassed},
		{"mismatch fails", []Status{StatusPassed, StatusTagMismatch}, nil, false, RunFailed},
		{"invalid fails", []Status{StatusInvalid}, nil, false, RunFailed},
		{"nothing ran", []Status{StatusFiltered}, nil, false, RunFailed},
		{"empty", nil, nil, false, RunFailed},
		{"cancelled", []Status{StatusPassed}, nil, true, RunCancelled},
		{"error wins", []Status{StatusPassed}, errors.New("login failed"), true, RunError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunReport("run-1")
			for i, s := range tt.statuses {
				r.Add(CaseResult{Index: i, Status: s})
			}
			r.Finish(tt.err, tt.cancelled)

			assert.Equal(t, tt.want, r.Status)
			assert.False(t, r.EndTime.Before(r.StartTime))
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), r.Error)
			}
		})
	}
}

func TestRunReportCountsAndFailures(t *testing.T) {
	r := NewRunReport("run-1")
	r.Add(CaseResult{Index: 0, Status: StatusPassed})
	r.Add(CaseResult{Index: 1, Status: StatusNotFound})
	r.Add(CaseResult{Index: 2, Status: StatusFiltered})
	r.Add(CaseResult{Index: 3, Status: StatusNotFound})

	assert.Equal(t, 4, r.Total())
	assert.Equal(t, 1, r.Counts[StatusPassed])
	assert.Equal(t, 2, r.Counts[StatusNotFound])
	assert.Equal(t, 1, r.Counts[StatusFiltered])

	failures := r.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, 1, failures[0].Index)
	assert.Equal(t, 3, failures[1].Index)
}

func TestCaseResultRan(t *testing.T) {
	assert.True(t, CaseResult{Status: StatusPassed}.Ran())
	assert.True(t, CaseResult{Status: StatusNavigationError}.Ran())
	assert.False(t, CaseResult{Status: StatusInvalid}.Ran())
	assert.False(t, CaseResult{Status: StatusFiltered}.Ran())
}

func TestArtifactWriterWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	w := NewArtifactWriter(dir, true, true)
	assert.Equal(t, dir, w.OutputDir())

	r := NewRunReport("run-42")
	r.Add(CaseResult{Index: 0, TestCase: roadmapCase(), Status: StatusPassed,
		Expected: []string{"Non-Priority", "On track"}, Actual: []string{"On track", "Non-Priority"}})
	r.Add(CaseResult{Index: 1, TestCase: types.TestCase{Project: "Work Requests", Group: "New Requests", Task: "a|b"},
		Status: StatusNavigationError, Error: "failed to locate project", Snapshot: "/tmp/snap"})
	r.Finish(nil, false)

	require.NoError(t, w.WriteAll(r))

	data, err := os.ReadFile(filepath.Join(dir, ReportJSONFile))
	require.NoError(t, err)

	var decoded RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-42", decoded.RunID)
	assert.Equal(t, RunFailed, decoded.Status)
	require.Len(t, decoded.Cases, 2)
	assert.Equal(t, roadmapCase(), decoded.Cases[0].TestCase)
	assert.Equal(t, 1, decoded.Counts[StatusNavigationError])

	md, err := os.ReadFile(filepath.Join(dir, SummaryMarkdownFile))
	require.NoError(t, err)
	content := string(md)
	assert.Contains(t, content, "**Run ID:** run-42")
	assert.Contains(t, content, "**Status:** failed")
	assert.Contains(t, content, "- **passed:** 1")
	assert.Contains(t, content, "Verify 'Draft project brief' in 'To do' column")
	assert.Contains(t, content, `Work Requests/New Requests/a\|b`)
	assert.Contains(t, content, "## Errors")
	assert.Contains(t, content, "Snapshot: `/tmp/snap`")
}

func TestArtifactWriterFormatsOptional(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, false, true)

	r := NewRunReport("run-1")
	r.Finish(nil, false)
	require.NoError(t, w.WriteAll(r))

	assert.NoFileExists(t, filepath.Join(dir, ReportJSONFile))
	assert.FileExists(t, filepath.Join(dir, SummaryMarkdownFile))

	md, err := os.ReadFile(filepath.Join(dir, SummaryMarkdownFile))
	require.NoError(t, err)
	assert.NotContains(t, string(md), "## Cases")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelQuiet, ParseLevel("quiet"))
	assert.Equal(t, LevelNormal, ParseLevel("normal"))
	assert.Equal(t, LevelVerbose, ParseLevel("VERBOSE"))
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelNormal, ParseLevel("loud"))
}

func TestConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(LevelQuiet, &buf)

	c.Infof("hidden info")
	c.Verbosef("hidden verbose")
	c.Debugf("hidden debug")
	c.Warningf("shown %s", "warning")
	c.Errorf("shown %s", "error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warning")
	assert.Contains(t, out, "shown error")

	buf.Reset()
	c = NewConsole(LevelDebug, &buf)
	c.Header("boardcheck")
	c.Section("Login")
	c.Successf("logged in as %s", "qa@example.com")
	c.Verbosef("details")
	c.Debugf("internals")

	out = buf.String()
	assert.Contains(t, out, "boardcheck")
	assert.Contains(t, out, "Login")
	assert.Contains(t, out, "logged in as qa@example.com")
	assert.Contains(t, out, "details")
	assert.Contains(t, out, "internals")
}

func TestConsoleCaseFinished(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(LevelNormal, &buf)

	c.CaseStarted(0, 2, roadmapCase())
	c.CaseFinished(CaseResult{TestCase: roadmapCase(), Status: StatusTagMismatch,
		Expected: []string{"Non-Priority"}, Actual: []string{"On track"}})
	c.CaseFinished(CaseResult{TestCase: types.TestCase{Project: "p", Group: "g", Task: "t"},
		Status: StatusFiltered, Error: "excluded by filter"})

	out := buf.String()
	assert.Contains(t, out, "Verify 'Draft project brief' in 'To do' column")
	assert.Contains(t, out, "expected tags [Non-Priority], actual tags [On track]")
	assert.NotContains(t, out, "p/g/t")
	assert.NotContains(t, out, "excluded by filter")
}

func TestConsoleQuietSkipsCases(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(LevelQuiet, &buf)
	c.CaseFinished(CaseResult{TestCase: roadmapCase(), Status: StatusPassed})
	assert.Empty(t, buf.String())
}

func TestConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(LevelNormal, &buf)

	r := NewRunReport("run-7")
	r.Add(CaseResult{TestCase: roadmapCase(), Status: StatusPassed})
	r.Add(CaseResult{TestCase: types.TestCase{Project: "p", Group: "g", Task: "t"}, Status: StatusNotFound})
	r.Finish(nil, false)
	c.Summary(r)

	out := buf.String()
	assert.Contains(t, out, "RUN SUMMARY")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "run-7")
	assert.Contains(t, out, "not_found: 1")
	assert.Contains(t, out, "p/g/t (not_found)")
}

func TestProgressBarCounts(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(3, &buf)

	var l Listener = Listeners{p, nil}
	l.CaseStarted(0, 2, roadmapCase())
	l.CaseFinished(CaseResult{Status: StatusPassed})
	l.CaseFinished(CaseResult{Status: StatusFiltered})
	l.CaseFinished(CaseResult{Status: StatusTagMismatch})
	p.Finish()

	passed, failed := p.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, failed)
	assert.NotEmpty(t, buf.String())
}
