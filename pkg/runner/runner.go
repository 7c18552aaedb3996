// Package runner drives a validation run: it logs in once, then for each
// test case opens the project, scrapes its list view and compares the
// expected tags with what the board shows.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/boardcheck/pkg/browser"
	"github.com/entrhq/boardcheck/pkg/logging"
	"github.com/entrhq/boardcheck/pkg/navigator"
	"github.com/entrhq/boardcheck/pkg/report"
	"github.com/entrhq/boardcheck/pkg/scraper"
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/entrhq/boardcheck/pkg/validator"
)

// LoginScreenshot is written to the artifacts directory when login fails.
const LoginScreenshot = "login_error.png"

// SnapshotDir is the artifacts subdirectory for failed case snapshots.
const SnapshotDir = "snapshots"

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("runner")
	if err != nil {
		debugLog.Warnf("Failed to initialize runner logger, using stderr fallback: %v", err)
	}
}

// Runner executes the test cases of a Session on one page.
type Runner struct {
	session   *Session
	page      browser.Page
	navigator *navigator.Navigator
	scraper   *scraper.Scraper
	listener  report.Listener
	runID     string
}

// Option configures a Runner.
type Option func(*Runner)

// WithListener reports case progress to l.
func WithListener(l report.Listener) Option {
	return func(r *Runner) {
		r.listener = l
	}
}

// WithNavigator replaces the navigator built from the session config.
func WithNavigator(n *navigator.Navigator) Option {
	return func(r *Runner) {
		r.navigator = n
	}
}

// WithRunID overrides the run ID stamped on the report.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// New creates a Runner driving page.
func New(session *Session, page browser.Page, opts ...Option) (*Runner, error) {
	if session == nil {
		return nil, errors.New("runner: session is required")
	}
	if page == nil {
		return nil, errors.New("runner: page is required")
	}

	cfg := session.Config
	sc, err := scraper.New(session.Catalog, cfg.Scrape.WaitTimeout)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		session: session,
		page:    page,
		navigator: navigator.New(navigator.Options{
			MaxAttempts: cfg.Navigation.MaxAttempts,
			Backoff:     cfg.Navigation.Backoff,
			WaitTimeout: cfg.Navigation.WaitTimeout,
		}),
		scraper:  sc,
		listener: report.Listeners(nil),
		runID:    logging.GetRunID(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Login signs in with the session credentials and waits for the projects
// section of the dashboard. On failure a screenshot is saved to the
// artifacts directory and the error is returned.
func (r *Runner) Login(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.login(); err != nil {
		debugLog.Errorf("Login failed: %v", err)
		r.captureLoginFailure()
		return err
	}

	debugLog.Infof("Logged in as %s", r.session.Credentials.Email)
	return nil
}

func (r *Runner) login() error {
	cfg := r.session.Config
	catalog := r.session.Catalog

	sel := func(area, name string) string {
		// presence is checked by NewSession
		tmpl, _ := catalog.Template(area, name)
		return tmpl
	}

	debugLog.Infof("Opening login page %s", cfg.LoginURL)
	status, err := r.page.Goto(cfg.LoginURL, cfg.Login.PageTimeout)
	if err != nil {
		return fmt.Errorf("login: failed to load %s: %w", cfg.LoginURL, err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("login: failed to load %s: status %d", cfg.LoginURL, status)
	}

	steps := []struct {
		desc string
		run  func() error
	}{
		{"fill email", func() error {
			return r.page.Fill(sel(selector.AreaLogin, selector.EmailField), r.session.Credentials.Email)
		}},
		{"continue", func() error {
			return r.page.Click(sel(selector.AreaLogin, selector.EmailContinueButton))
		}},
		{"wait for password field", func() error {
			return r.page.WaitForSelector(sel(selector.AreaLogin, selector.PasswordField), cfg.Login.PasswordTimeout)
		}},
		{"fill password", func() error {
			return r.page.Fill(sel(selector.AreaLogin, selector.PasswordField), r.session.Credentials.Password)
		}},
		{"submit", func() error {
			return r.page.Click(sel(selector.AreaLogin, selector.LoginButton))
		}},
		{"wait for projects", func() error {
			return r.page.WaitForSelector(sel(selector.AreaAsana, selector.ProjectsSection), cfg.Login.DashboardTimeout)
		}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("login: %s: %w", step.desc, err)
		}
	}
	return nil
}

func (r *Runner) captureLoginFailure() {
	dir := r.session.Config.Artifacts.OutputDir
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		debugLog.Warnf("Failed to create artifacts directory: %v", err)
		return
	}
	path := filepath.Join(dir, LoginScreenshot)
	if err := r.page.Screenshot(path); err != nil {
		debugLog.Warnf("Failed to capture login screenshot: %v", err)
		return
	}
	debugLog.Infof("Saved login screenshot to %s", path)
}

// Run validates every test case and returns the run report. Invalid and
// filtered cases are recorded without touching the browser. Per-case
// failures are recorded and the loop continues; a login failure ends the
// run with an error. Cancelling ctx stops the loop before the next case.
func (r *Runner) Run(ctx context.Context) (*report.RunReport, error) {
	rep := report.NewRunReport(r.runID)
	cases := r.session.Cases

	results := make([]*report.CaseResult, len(cases))
	var runnable []int
	for i, tc := range cases {
		if err := validator.CheckShape(tc); err != nil {
			debugLog.Warnf("Skipping invalid test case #%d (%s): %v", i+1, tc.Key(), err)
			results[i] = &report.CaseResult{Index: i, TestCase: tc, Status: report.StatusInvalid, Error: err.Error()}
			continue
		}
		if !r.session.Filter.Match(tc) {
			results[i] = &report.CaseResult{Index: i, TestCase: tc, Status: report.StatusFiltered,
				Error: fmt.Sprintf("excluded by filter %s", r.session.Filter)}
			continue
		}
		runnable = append(runnable, i)
	}

	record := func(res report.CaseResult) {
		rep.Add(res)
		r.listener.CaseFinished(res)
	}

	debugLog.Infof("Run %s: %d case(s), %d runnable", r.runID, len(cases), len(runnable))

	// Pre-recorded cases are reported ahead of the run in input order.
	for _, res := range results {
		if res != nil {
			record(*res)
		}
	}

	if len(runnable) == 0 {
		debugLog.Warnf("No runnable test cases")
		rep.Finish(nil, false)
		return rep, nil
	}

	if err := r.Login(ctx); err != nil {
		rep.Finish(err, ctx.Err() != nil)
		return rep, err
	}

	cancelled := false
	for n, i := range runnable {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		tc := cases[i]
		r.listener.CaseStarted(n, len(runnable), tc)
		res := r.RunCase(ctx, i, tc)

		if ctx.Err() != nil && res.Status != report.StatusPassed {
			debugLog.Warnf("Run cancelled during %s", tc.Key())
			cancelled = true
			break
		}
		record(res)
	}

	rep.Finish(nil, cancelled)
	debugLog.Infof("Run %s finished: %s (%v)", r.runID, rep.Status, rep.Counts)
	return rep, nil
}

// RunCase navigates to the case's project, scrapes the list view and
// validates the expected tags.
func (r *Runner) RunCase(ctx context.Context, index int, tc types.TestCase) report.CaseResult {
	start := time.Now()
	res := report.CaseResult{
		Index:    index,
		TestCase: tc,
		Expected: tc.Tags,
	}
	defer func() {
		debugLog.Infof("Case #%d %s: %s", index+1, tc.Key(), res.Status)
	}()

	project, err := r.navigator.Navigate(ctx, r.page, tc.Project, r.session.Catalog)
	if err != nil {
		res.Status = report.StatusNavigationError
		res.Error = err.Error()
		res.Snapshot = r.captureCaseFailure(index, res.Status)
		res.Duration = time.Since(start)
		return res
	}

	results, err := r.scraper.ScrapeListView(ctx, r.page, project)
	if err != nil {
		res.Status = report.StatusScrapeError
		res.Error = err.Error()
		res.Snapshot = r.captureCaseFailure(index, res.Status)
		res.Duration = time.Since(start)
		return res
	}

	outcome := validator.Validate(tc, results)
	res.Actual = outcome.Actual
	switch outcome.Status {
	case validator.StatusPassed:
		res.Status = report.StatusPassed
	case validator.StatusTagMismatch:
		res.Status = report.StatusTagMismatch
		res.Error = outcome.String()
	default:
		res.Status = report.StatusNotFound
		res.Error = fmt.Sprintf("task %q not found in group %q", tc.Task, tc.Group)
		debugLog.Infof("Scraped data for %s: %+v", tc.Project, results)
	}

	res.Duration = time.Since(start)
	return res
}

// captureCaseFailure saves a page snapshot and returns its base path, or ""
// when snapshots are disabled or the capture failed.
func (r *Runner) captureCaseFailure(index int, status report.Status) string {
	artifacts := r.session.Config.Artifacts
	if !artifacts.Enabled || !artifacts.Snapshots {
		return ""
	}

	dir := filepath.Join(artifacts.OutputDir, SnapshotDir)
	name := fmt.Sprintf("case-%03d-%s", index+1, status)
	snap, err := browser.CaptureSnapshot(r.page, dir, name, browser.DefaultSnapshotLength)
	if err != nil {
		debugLog.Warnf("Snapshot for case #%d incomplete: %v", index+1, err)
		if snap == nil {
			return ""
		}
	}
	if snap != nil {
		debugLog.Debugf("Snapshot for case #%d: title=%q top classes=%v", index+1, snap.Title, snap.TopClasses(10))
	}
	return filepath.Join(dir, name)
}
