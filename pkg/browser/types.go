package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is an open browser with its isolated context and active page.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated cookies and storage)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running in headless mode
	Headless bool

	CreatedAt  time.Time
	LastUsedAt time.Time

	// CurrentURL is the URL of the page after the last navigation or click
	CurrentURL string
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout is the default timeout for page operations without their own
	Timeout time.Duration

	// SlowMo delays every Playwright operation, useful when watching a headed run
	SlowMo time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// InstallOptions controls driver start-up.
type InstallOptions struct {
	// Install downloads the Playwright driver and Chromium when missing
	Install bool

	// Verbose forwards driver install output to stderr
	Verbose bool
}

// Default values for sessions
const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultSnapshotLength = 200000
)

func milliseconds(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
