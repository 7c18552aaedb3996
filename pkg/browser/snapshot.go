package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Snapshot is a cleaned copy of the rendered page kept for diagnosing a
// failed case.
type Snapshot struct {
	Title string
	HTML  string
	// Classes counts how often each CSS class occurs, which shows at a
	// glance whether the selector catalog still matches the page.
	Classes   map[string]int
	Truncated bool
}

// TopClasses returns up to n class names ordered by descending count, then
// name.
func (s *Snapshot) TopClasses(n int) []string {
	names := make([]string, 0, len(s.Classes))
	for name := range s.Classes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Classes[names[i]] != s.Classes[names[j]] {
			return s.Classes[names[i]] > s.Classes[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// CleanSnapshot parses raw page HTML and drops scripts, styles and inline
// media, keeping only attributes useful for writing selectors. Output stops
// after maxLength bytes of markup.
func CleanSnapshot(rawHTML string, maxLength int) (*Snapshot, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	w := &snapshotWriter{
		maxLength: maxLength,
		snap:      &Snapshot{Classes: make(map[string]int)},
	}
	w.walk(doc, 0)
	w.snap.HTML = w.b.String()
	return w.snap, nil
}

type snapshotWriter struct {
	b         strings.Builder
	maxLength int
	snap      *Snapshot
}

func (w *snapshotWriter) full() bool {
	if w.b.Len() >= w.maxLength {
		w.snap.Truncated = true
		return true
	}
	return false
}

func (w *snapshotWriter) walk(n *html.Node, depth int) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		w.text(n)
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if droppedElements[tag] {
			return
		}
		w.countClasses(n)
		if tag == "title" && n.FirstChild != nil && w.snap.Title == "" {
			w.snap.Title = strings.TrimSpace(n.FirstChild.Data)
		}
		w.element(n, tag, depth)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, depth)
	}
}

func (w *snapshotWriter) text(n *html.Node) {
	text := strings.Join(strings.Fields(n.Data), " ")
	if text == "" || w.full() {
		return
	}
	if remaining := w.maxLength - w.b.Len(); len(text) > remaining {
		cut := remaining
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
		w.snap.Truncated = true
	}
	w.b.WriteString(html.EscapeString(text))
}

func (w *snapshotWriter) element(n *html.Node, tag string, depth int) {
	if w.full() {
		return
	}

	w.b.WriteString("\n")
	w.b.WriteString(strings.Repeat("  ", depth))
	w.b.WriteString("<" + tag)
	for _, attr := range n.Attr {
		if keptAttribute(attr.Key) {
			fmt.Fprintf(&w.b, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
		}
	}
	w.b.WriteString(">")

	if voidElements[tag] {
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, depth+1)
	}
	w.b.WriteString("</" + tag + ">")
}

func (w *snapshotWriter) countClasses(n *html.Node) {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			w.snap.Classes[class]++
		}
	}
}

var droppedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"img":      true,
	"link":     true,
	"meta":     true,
}

var voidElements = map[string]bool{
	"area":  true,
	"br":    true,
	"col":   true,
	"embed": true,
	"hr":    true,
	"input": true,
	"wbr":   true,
}

func keptAttribute(key string) bool {
	key = strings.ToLower(key)
	switch key {
	case "id", "class", "role", "name", "type", "href", "aria-label", "aria-selected":
		return true
	}
	return strings.HasPrefix(key, "data-")
}

// CaptureSnapshot writes <name>.png and <name>.html into dir. Screenshot
// failures do not prevent the HTML snapshot from being written; the first
// error is returned.
func CaptureSnapshot(page Page, dir, name string, maxLength int) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	var firstErr error
	if err := page.Screenshot(filepath.Join(dir, name+".png")); err != nil {
		firstErr = err
	}

	raw, err := page.Content()
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		return nil, firstErr
	}

	if maxLength <= 0 {
		maxLength = DefaultSnapshotLength
	}
	snap, err := CleanSnapshot(raw, maxLength)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(dir, name+".html"), []byte(snap.HTML), 0600); err != nil {
		return snap, fmt.Errorf("failed to write snapshot: %w", err)
	}

	debugLog.Debugf("Captured snapshot %s in %s (title=%q, truncated=%t)", name, dir, snap.Title, snap.Truncated)
	return snap, firstErr
}
