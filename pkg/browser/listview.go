package browser

import (
	"encoding/json"
	"fmt"

	"github.com/entrhq/boardcheck/pkg/types"
)

// ListQuery holds the CSS selectors a list view is read with.
type ListQuery struct {
	Group  string
	Header string
	Row    string
	Name   string
	Tags   string
}

// ListViewReader is implemented by pages that can read a whole list view in
// one round trip. Missing header and name elements come back as "", and texts
// are returned as rendered; callers apply naming fallbacks and trimming.
type ListViewReader interface {
	ReadListView(q ListQuery) ([]types.ScrapedGroup, error)
}

var _ ListViewReader = (*Session)(nil)

// listViewScript walks the list view inside the page. Selectors must be plain
// CSS since document.querySelectorAll does not understand Playwright engines.
const listViewScript = `([groupSel, headerSel, rowSel, nameSel, tagSel]) =>
	Array.from(document.querySelectorAll(groupSel)).map((group) => {
		const header = group.querySelector(headerSel);
		return {
			group: header ? header.innerText : "",
			tasks: Array.from(group.querySelectorAll(rowSel)).map((row) => {
				const name = row.querySelector(nameSel);
				return {
					task: name ? name.innerText : "",
					tags: Array.from(row.querySelectorAll(tagSel)).map((tag) => tag.innerText),
				};
			}),
		};
	})`

// ReadListView reads every group, row and tag with a single evaluation, so a
// re-render between reads cannot leave stale element handles behind.
func (s *Session) ReadListView(q ListQuery) ([]types.ScrapedGroup, error) {
	s.UpdateLastUsed()

	raw, err := s.Page.Evaluate(listViewScript, []string{q.Group, q.Header, q.Row, q.Name, q.Tags})
	if err != nil {
		return nil, fmt.Errorf("evaluate list view failed: %w", err)
	}
	return decodeListView(raw)
}

// decodeListView converts the evaluation result, delivered as generic maps
// and slices, into scraped groups.
func decodeListView(raw interface{}) ([]types.ScrapedGroup, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list view result: %w", err)
	}
	var groups []types.ScrapedGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("unexpected list view result: %w", err)
	}
	return groups, nil
}
