package navigator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/entrhq/boardcheck/pkg/browser/browsertest"
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roadmapLink = `span.SidebarNavigationLinkCard-label:text-is("Roadmap")`

// sleepRecorder counts backoff sleeps without waiting.
type sleepRecorder struct {
	calls []time.Duration
	err   error
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return s.err
}

func newTestNavigator(rec *sleepRecorder) *Navigator {
	return New(DefaultOptions()).WithSleep(rec.sleep)
}

// appearOnAttempt renders the sidebar without "Roadmap" until the k-th
// attempt starts waiting for the sidebar container.
func appearOnAttempt(board browsertest.Board, k int) func(p *browsertest.Page, sel string) {
	attempts := 0
	return func(p *browsertest.Page, sel string) {
		if sel != selector.DefaultSidebar {
			return
		}
		attempts++
		if attempts >= k {
			board.RenderSidebar(p, "Inbox", "Roadmap", "Marketing")
		} else {
			board.RenderSidebar(p, "Inbox", "Marketing")
		}
	}
}

func TestNavigate_FoundOnAttemptK(t *testing.T) {
	for k := 1; k <= DefaultMaxAttempts; k++ {
		t.Run(fmt.Sprintf("attempt %d", k), func(t *testing.T) {
			page := browsertest.NewPage()
			page.BeforeWait = appearOnAttempt(browsertest.Board{}, k)
			rec := &sleepRecorder{}

			got, err := newTestNavigator(rec).Navigate(context.Background(), page, "Roadmap", selector.Catalog{})
			require.NoError(t, err)
			assert.Equal(t, "Roadmap", got)

			assert.Equal(t, k, page.CountCalls("wait:"+selector.DefaultSidebar), "attempts")
			assert.Len(t, rec.calls, k-1, "backoff delays")
			for _, d := range rec.calls {
				assert.Equal(t, DefaultBackoff, d)
			}
			assert.Equal(t, 1, page.CountCalls("clickfirst:"+roadmapLink))
		})
	}
}

func TestNavigate_ProjectAbsent(t *testing.T) {
	page := browsertest.NewPage()
	browsertest.Board{}.RenderSidebar(page, "Inbox", "Roadmap 2024")
	rec := &sleepRecorder{}

	_, err := newTestNavigator(rec).Navigate(context.Background(), page, "Roadmap", selector.Catalog{})
	require.Error(t, err)

	var navErr *types.NavigationError
	require.True(t, errors.As(err, &navErr))
	assert.Equal(t, "Roadmap", navErr.Project)
	assert.Equal(t, 3, navErr.Attempts)
	assert.ErrorIs(t, err, ErrProjectNotListed)

	assert.Equal(t, 3, page.CountCalls("count:"+roadmapLink))
	assert.Len(t, rec.calls, 2)
	assert.Zero(t, page.CountCalls("clickfirst:"))
}

func TestNavigate_SidebarNeverAppears(t *testing.T) {
	page := browsertest.NewPage()
	rec := &sleepRecorder{}

	_, err := newTestNavigator(rec).Navigate(context.Background(), page, "Roadmap", selector.Catalog{})

	var navErr *types.NavigationError
	require.True(t, errors.As(err, &navErr))
	assert.Equal(t, 3, navErr.Attempts)
	assert.Contains(t, err.Error(), "sidebar not visible")

	assert.Equal(t, 3, page.CountCalls("wait:"+selector.DefaultSidebar))
	assert.Zero(t, page.CountCalls("wait:"+selector.DefaultSidebarLabel))
	assert.Len(t, rec.calls, 2)
}

func TestNavigate_TransientCountErrorIsRetried(t *testing.T) {
	page := browsertest.NewPage()
	board := browsertest.Board{}
	board.RenderSidebar(page, "Roadmap")
	page.Fail(roadmapLink, errors.New("execution context was destroyed"))

	attempts := 0
	page.BeforeWait = func(p *browsertest.Page, sel string) {
		if sel != selector.DefaultSidebar {
			return
		}
		attempts++
		if attempts == 2 {
			p.Errors = map[string]error{}
		}
	}
	rec := &sleepRecorder{}

	got, err := newTestNavigator(rec).Navigate(context.Background(), page, "Roadmap", selector.Catalog{})
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", got)
	assert.Len(t, rec.calls, 1)
}

func TestNavigate_UsesCatalogSelectors(t *testing.T) {
	catalog := selector.Catalog{
		selector.AreaAsana: {
			selector.Sidebar:      "nav.sidebar",
			selector.SidebarLabel: "nav.sidebar a",
			selector.ProjectLink:  "nav.sidebar a[title='{{project}}']",
		},
	}
	page := browsertest.NewPage()
	browsertest.Board{Catalog: catalog}.RenderSidebar(page, "Roadmap")

	_, err := newTestNavigator(&sleepRecorder{}).Navigate(context.Background(), page, "Roadmap", catalog)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CountCalls("clickfirst:nav.sidebar a[title='Roadmap']"))
}

func TestNavigate_CancelledDuringBackoff(t *testing.T) {
	page := browsertest.NewPage()
	rec := &sleepRecorder{err: context.Canceled}

	_, err := newTestNavigator(rec).Navigate(context.Background(), page, "Roadmap", selector.Catalog{})

	var navErr *types.NavigationError
	require.True(t, errors.As(err, &navErr))
	assert.Equal(t, 1, navErr.Attempts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNavigate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := browsertest.NewPage()
	_, err := newTestNavigator(&sleepRecorder{}).Navigate(ctx, page, "Roadmap", selector.Catalog{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, page.Calls())
}

func TestNavigate_EmptyProjectName(t *testing.T) {
	page := browsertest.NewPage()
	_, err := newTestNavigator(&sleepRecorder{}).Navigate(context.Background(), page, "", selector.Catalog{})

	var navErr *types.NavigationError
	require.True(t, errors.As(err, &navErr))
	assert.Empty(t, page.Calls())
}

func TestNew_Defaults(t *testing.T) {
	n := New(Options{Backoff: -time.Second})
	assert.Equal(t, Options{MaxAttempts: 3, Backoff: 0, WaitTimeout: 10 * time.Second}, n.Options())

	// a zero backoff is kept, not replaced by DefaultBackoff
	n = New(Options{})
	assert.Equal(t, time.Duration(0), n.Options().Backoff)

	n = New(Options{MaxAttempts: 5, Backoff: time.Second, WaitTimeout: time.Second})
	assert.Equal(t, Options{MaxAttempts: 5, Backoff: time.Second, WaitTimeout: time.Second}, n.Options())
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, sleepContext(ctx, 0), context.Canceled)
}
