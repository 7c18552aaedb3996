// Package navigator opens a project from the application sidebar.
//
// The sidebar renders asynchronously and is sometimes incomplete right after
// login or a view switch, so navigation retries a bounded number of times
// with a flat backoff between attempts.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/boardcheck/pkg/browser"
	"github.com/entrhq/boardcheck/pkg/logging"
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/types"
)

// ErrProjectNotListed is the cause recorded when the sidebar rendered but no
// label matched the project name exactly.
var ErrProjectNotListed = errors.New("project not listed in sidebar")

// Default navigation settings
const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 3 * time.Second
	DefaultWaitTimeout = 10 * time.Second
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("navigator")
	if err != nil {
		debugLog.Warnf("Failed to initialize navigator logger, using stderr fallback: %v", err)
	}
}

// Options configures the retry policy.
type Options struct {
	MaxAttempts int
	Backoff     time.Duration
	// WaitTimeout bounds each wait for the sidebar and its labels
	WaitTimeout time.Duration
}

// DefaultOptions returns three attempts, a 3s backoff and 10s waits.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     DefaultBackoff,
		WaitTimeout: DefaultWaitTimeout,
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Navigator locates and activates projects in the sidebar.
type Navigator struct {
	opts  Options
	sleep SleepFunc
}

// New creates a Navigator. A non-positive MaxAttempts or WaitTimeout takes its
// default. Backoff is used as given, so zero retries immediately; a negative
// value is treated as zero.
func New(opts Options) *Navigator {
	defaults := DefaultOptions()
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = defaults.WaitTimeout
	}
	return &Navigator{opts: opts, sleep: sleepContext}
}

// WithSleep replaces the backoff sleep and returns n.
func (n *Navigator) WithSleep(fn SleepFunc) *Navigator {
	n.sleep = fn
	return n
}

// Options returns the effective retry policy.
func (n *Navigator) Options() Options {
	return n.opts
}

// Navigate clicks the sidebar entry whose text is exactly projectName and
// returns projectName. Failed attempts, including wait timeouts, are logged
// and retried; once every attempt is used a *types.NavigationError carrying
// the last cause is returned.
func (n *Navigator) Navigate(ctx context.Context, page browser.Page, projectName string, catalog selector.Catalog) (string, error) {
	if projectName == "" {
		return "", &types.NavigationError{Err: errors.New("project name is empty")}
	}

	sels, err := resolveSidebar(catalog, projectName)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= n.opts.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &types.NavigationError{Project: projectName, Attempts: attempt - 1, Err: ctxErr}
		}

		debugLog.Infof("Attempt %d/%d: looking for project link %q", attempt, n.opts.MaxAttempts, projectName)

		lastErr = n.attempt(page, projectName, sels)
		if lastErr == nil {
			debugLog.Infof("Navigated to project %q on attempt %d", projectName, attempt)
			return projectName, nil
		}
		debugLog.Warnf("Attempt %d/%d for project %q failed: %v", attempt, n.opts.MaxAttempts, projectName, lastErr)

		if attempt < n.opts.MaxAttempts {
			if err := n.sleep(ctx, n.opts.Backoff); err != nil {
				return "", &types.NavigationError{Project: projectName, Attempts: attempt, Err: err}
			}
		}
	}

	return "", &types.NavigationError{Project: projectName, Attempts: n.opts.MaxAttempts, Err: lastErr}
}

type sidebarSelectors struct {
	container string
	label     string
	link      string
}

func resolveSidebar(catalog selector.Catalog, projectName string) (sidebarSelectors, error) {
	link, err := selector.Resolve(
		catalog.TemplateOr(selector.AreaAsana, selector.ProjectLink, selector.DefaultProjectLink),
		map[string]string{selector.ParamProject: projectName},
	)
	if err != nil {
		return sidebarSelectors{}, err
	}

	return sidebarSelectors{
		container: catalog.TemplateOr(selector.AreaAsana, selector.Sidebar, selector.DefaultSidebar),
		label:     catalog.TemplateOr(selector.AreaAsana, selector.SidebarLabel, selector.DefaultSidebarLabel),
		link:      link,
	}, nil
}

// attempt returns nil once the project link has been clicked.
func (n *Navigator) attempt(page browser.Page, projectName string, sels sidebarSelectors) error {
	if err := page.WaitForSelector(sels.container, n.opts.WaitTimeout); err != nil {
		return fmt.Errorf("sidebar not visible: %w", err)
	}
	if err := page.WaitForSelector(sels.label, n.opts.WaitTimeout); err != nil {
		return fmt.Errorf("sidebar links not visible: %w", err)
	}

	if labels, err := page.TextContents(sels.label); err != nil {
		debugLog.Warnf("Could not list sidebar links: %v", err)
	} else {
		debugLog.Debugf("Sidebar lists %d link(s): %s", len(labels), strings.Join(labels, ", "))
	}

	count, err := page.Count(sels.link)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProjectNotListed
	}

	debugLog.Debugf("Project %q found (%d link(s)), clicking the first", projectName, count)
	return page.ClickFirst(sels.link)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Navigate opens projectName with the default retry policy.
func Navigate(ctx context.Context, page browser.Page, projectName string, catalog selector.Catalog) (string, error) {
	return New(DefaultOptions()).Navigate(ctx, page, projectName, catalog)
}
