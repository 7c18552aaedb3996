package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

var _ Page = (*Session)(nil)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Goto navigates the session's page to url.
func (s *Session) Goto(url string, timeout time.Duration) (int, error) {
	s.UpdateLastUsed()

	opts := playwright.PageGotoOptions{}
	if timeout > 0 {
		opts.Timeout = milliseconds(timeout)
	}

	resp, err := s.Page.Goto(url, opts)
	if err != nil {
		return 0, fmt.Errorf("navigation failed: %w", err)
	}
	s.CurrentURL = s.Page.URL()

	if resp == nil {
		return 0, nil
	}
	return resp.Status(), nil
}

// WaitForSelector waits for selector to become visible.
func (s *Session) WaitForSelector(selector string, timeout time.Duration) error {
	s.UpdateLastUsed()

	opts := playwright.PageWaitForSelectorOptions{
		State: playwright.WaitForSelectorStateVisible,
	}
	if timeout > 0 {
		opts.Timeout = milliseconds(timeout)
	}

	if _, err := s.Page.WaitForSelector(selector, opts); err != nil {
		return fmt.Errorf("wait for %q failed: %w", selector, err)
	}
	return nil
}

// Click clicks the element matching selector.
func (s *Session) Click(selector string) error {
	s.UpdateLastUsed()

	if err := s.Page.Click(selector); err != nil {
		return fmt.Errorf("click %q failed: %w", selector, err)
	}

	// Clicks may navigate
	s.CurrentURL = s.Page.URL()
	return nil
}

// Fill fills the input matching selector with value.
func (s *Session) Fill(selector, value string) error {
	s.UpdateLastUsed()

	if err := s.Page.Fill(selector, value); err != nil {
		return fmt.Errorf("fill %q failed: %w", selector, err)
	}
	return nil
}

// Count returns the number of elements matching selector.
func (s *Session) Count(selector string) (int, error) {
	s.UpdateLastUsed()

	n, err := s.Page.Locator(selector).Count()
	if err != nil {
		return 0, fmt.Errorf("count %q failed: %w", selector, err)
	}
	return n, nil
}

// ClickFirst clicks the first element matching selector.
func (s *Session) ClickFirst(selector string) error {
	s.UpdateLastUsed()

	if err := s.Page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("click first %q failed: %w", selector, err)
	}
	s.CurrentURL = s.Page.URL()
	return nil
}

// TextContents returns the trimmed text content of every match.
func (s *Session) TextContents(selector string) ([]string, error) {
	s.UpdateLastUsed()

	texts, err := s.Page.Locator(selector).AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("read text of %q failed: %w", selector, err)
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}

// QueryAll returns handles for every element matching selector.
func (s *Session) QueryAll(selector string) ([]Element, error) {
	s.UpdateLastUsed()

	handles, err := s.Page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", selector, err)
	}
	return wrapHandles(handles), nil
}

// Screenshot writes a full-page PNG screenshot to path.
func (s *Session) Screenshot(path string) error {
	_, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// Content returns the page HTML.
func (s *Session) Content() (string, error) {
	content, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("read page content failed: %w", err)
	}
	return content, nil
}

func (s *Session) close() error {
	var errs []error
	if err := s.Page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing session %q: %v", s.Name, errs)
	}
	return nil
}

// elementHandle adapts a Playwright element handle to Element.
type elementHandle struct {
	handle playwright.ElementHandle
}

func wrapHandles(handles []playwright.ElementHandle) []Element {
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &elementHandle{handle: h})
	}
	return elements
}

func (e *elementHandle) Query(selector string) (Element, error) {
	h, err := e.handle.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", selector, err)
	}
	if h == nil {
		return nil, nil
	}
	return &elementHandle{handle: h}, nil
}

func (e *elementHandle) QueryAll(selector string) ([]Element, error) {
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", selector, err)
	}
	return wrapHandles(handles), nil
}

func (e *elementHandle) InnerText() (string, error) {
	return e.handle.InnerText()
}
