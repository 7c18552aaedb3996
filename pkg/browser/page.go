package browser

import "time"

// Page is the browser page capability used by the run. Implementations
// convert indefinite waits into errors using the supplied timeout.
type Page interface {
	// Goto loads url and returns the main response status (0 when there is
	// no response, e.g. same-document navigation).
	Goto(url string, timeout time.Duration) (int, error)

	// WaitForSelector blocks until an element matching selector is visible.
	WaitForSelector(selector string, timeout time.Duration) error

	Click(selector string) error
	Fill(selector, value string) error

	// Count returns how many elements currently match selector.
	Count(selector string) (int, error)

	// ClickFirst clicks the first element matching selector.
	ClickFirst(selector string) error

	// TextContents returns the trimmed text of every matching element in
	// document order.
	TextContents(selector string) ([]string, error)

	// QueryAll returns the elements matching selector in document order.
	QueryAll(selector string) ([]Element, error)

	Screenshot(path string) error

	// Content returns the serialized HTML of the page.
	Content() (string, error)
}

// Element is a handle to a rendered DOM element.
type Element interface {
	// Query returns the first descendant matching selector, or nil when
	// there is none.
	Query(selector string) (Element, error)

	// QueryAll returns every descendant matching selector in document order.
	QueryAll(selector string) ([]Element, error)

	// InnerText returns the rendered text of the element.
	InnerText() (string, error)
}
