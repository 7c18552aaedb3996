// Package browsertest provides an in-memory browser.Page backed by a
// synthetic DOM keyed by selector, for exercising navigation and scraping
// without a browser.
package browsertest

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/boardcheck/pkg/browser"
)

// Node is a synthetic DOM element. Children are keyed by the selector that
// finds them from this node.
type Node struct {
	Text     string
	Children map[string][]*Node
	// Err fails every operation on the node, as a detached handle would
	Err error
}

var _ browser.Element = (*Node)(nil)

// Text returns a leaf node with the given inner text.
func Text(text string) *Node {
	return &Node{Text: text}
}

// Add registers children under selector and returns n for chaining.
func (n *Node) Add(selector string, children ...*Node) *Node {
	if n.Children == nil {
		n.Children = make(map[string][]*Node)
	}
	n.Children[selector] = append(n.Children[selector], children...)
	return n
}

// Query implements browser.Element.
func (n *Node) Query(selector string) (browser.Element, error) {
	if n.Err != nil {
		return nil, n.Err
	}
	if children := n.Children[selector]; len(children) > 0 {
		return children[0], nil
	}
	return nil, nil
}

// QueryAll implements browser.Element.
func (n *Node) QueryAll(selector string) ([]browser.Element, error) {
	if n.Err != nil {
		return nil, n.Err
	}
	return toElements(n.Children[selector]), nil
}

// InnerText implements browser.Element.
func (n *Node) InnerText() (string, error) {
	if n.Err != nil {
		return "", n.Err
	}
	return n.Text, nil
}

func toElements(nodes []*Node) []browser.Element {
	elements := make([]browser.Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, n)
	}
	return elements
}

// Page is a fake browser.Page. The zero value is an empty page; use
// NewPage for one with maps allocated.
type Page struct {
	mu sync.Mutex

	// Nodes holds the top-level elements found by each selector
	Nodes map[string][]*Node

	// Errors forces every operation on a selector to fail
	Errors map[string]error

	// Status is returned by Goto; GotoErr fails it instead
	Status  int
	GotoErr error

	// HTML is returned by Content
	HTML string

	// BeforeWait runs before every WaitForSelector, so tests can change the
	// DOM between attempts
	BeforeWait func(p *Page, selector string)

	calls  []string
	filled map[string]string
}

var _ browser.Page = (*Page)(nil)

// NewPage creates an empty fake page that answers Goto with 200.
func NewPage() *Page {
	return &Page{
		Nodes:  make(map[string][]*Node),
		Errors: make(map[string]error),
		Status: 200,
		filled: make(map[string]string),
	}
}

// Set replaces the elements found by selector.
func (p *Page) Set(selector string, nodes ...*Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Nodes == nil {
		p.Nodes = make(map[string][]*Node)
	}
	p.Nodes[selector] = nodes
}

// Remove drops every element found by selector.
func (p *Page) Remove(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.Nodes, selector)
}

// Fail makes every operation on selector return err.
func (p *Page) Fail(selector string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Errors == nil {
		p.Errors = make(map[string]error)
	}
	p.Errors[selector] = err
}

// Calls returns the operations performed so far, formatted "op:selector".
func (p *Page) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// CountCalls returns how many recorded operations start with prefix.
func (p *Page) CountCalls(prefix string) int {
	n := 0
	for _, c := range p.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Filled returns the value last filled into selector.
func (p *Page) Filled(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filled[selector]
}

func (p *Page) record(op, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, op+":"+selector)
	return p.Errors[selector]
}

func (p *Page) lookup(selector string) []*Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Nodes[selector]
}

// Goto implements browser.Page.
func (p *Page) Goto(url string, timeout time.Duration) (int, error) {
	p.record("goto", url)
	if p.GotoErr != nil {
		return 0, p.GotoErr
	}
	return p.Status, nil
}

// WaitForSelector implements browser.Page. It fails immediately when
// nothing matches instead of waiting out the timeout.
func (p *Page) WaitForSelector(selector string, timeout time.Duration) error {
	if p.BeforeWait != nil {
		p.BeforeWait(p, selector)
	}
	if err := p.record("wait", selector); err != nil {
		return err
	}
	if len(p.lookup(selector)) == 0 {
		return fmt.Errorf("timeout %s exceeded waiting for %q", timeout, selector)
	}
	return nil
}

// Click implements browser.Page.
func (p *Page) Click(selector string) error {
	if err := p.record("click", selector); err != nil {
		return err
	}
	if len(p.lookup(selector)) == 0 {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

// Fill implements browser.Page.
func (p *Page) Fill(selector, value string) error {
	if err := p.record("fill", selector); err != nil {
		return err
	}
	if len(p.lookup(selector)) == 0 {
		return fmt.Errorf("no element matches %q", selector)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filled == nil {
		p.filled = make(map[string]string)
	}
	p.filled[selector] = value
	return nil
}

// Count implements browser.Page.
func (p *Page) Count(selector string) (int, error) {
	if err := p.record("count", selector); err != nil {
		return 0, err
	}
	return len(p.lookup(selector)), nil
}

// ClickFirst implements browser.Page.
func (p *Page) ClickFirst(selector string) error {
	if err := p.record("clickfirst", selector); err != nil {
		return err
	}
	if len(p.lookup(selector)) == 0 {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

// TextContents implements browser.Page.
func (p *Page) TextContents(selector string) ([]string, error) {
	if err := p.record("texts", selector); err != nil {
		return nil, err
	}
	var texts []string
	for _, n := range p.lookup(selector) {
		texts = append(texts, strings.TrimSpace(n.Text))
	}
	return texts, nil
}

// QueryAll implements browser.Page.
func (p *Page) QueryAll(selector string) ([]browser.Element, error) {
	if err := p.record("query", selector); err != nil {
		return nil, err
	}
	return toElements(p.lookup(selector)), nil
}

// Screenshot implements browser.Page by writing a placeholder file.
func (p *Page) Screenshot(path string) error {
	if err := p.record("screenshot", path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("fake png"), 0600)
}

// Content implements browser.Page.
func (p *Page) Content() (string, error) {
	p.record("content", "")
	return p.HTML, nil
}
