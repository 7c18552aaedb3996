// Package scraper reads the list view of a project into grouped task
// records.
package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/boardcheck/pkg/browser"
	"github.com/entrhq/boardcheck/pkg/logging"
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/types"
)

// UnnamedTask is reported for task rows without a name element.
const UnnamedTask = "Unnamed Task"

// DefaultWaitTimeout bounds the waits for the list tab and the first group.
const DefaultWaitTimeout = 10 * time.Second

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("scraper")
	if err != nil {
		debugLog.Warnf("Failed to initialize scraper logger, using stderr fallback: %v", err)
	}
}

// ListSelectors are the resolved selectors the list view is read with.
type ListSelectors struct {
	ListTab        string
	GroupContainer string
	GroupHeader    string
	TaskRow        string
	TaskName       string
	TaskTags       string
}

// ListSelectorsFrom reads the list view selectors from the catalog. Every
// selector is required.
func ListSelectorsFrom(catalog selector.Catalog) (ListSelectors, error) {
	if err := catalog.Require(selector.AreaAsana,
		selector.ListTab, selector.GroupContainer, selector.GroupHeader,
		selector.TaskRow, selector.TaskName, selector.TaskTags,
	); err != nil {
		return ListSelectors{}, err
	}

	get := func(name string) string {
		tmpl, _ := catalog.Template(selector.AreaAsana, name)
		return tmpl
	}
	return ListSelectors{
		ListTab:        get(selector.ListTab),
		GroupContainer: get(selector.GroupContainer),
		GroupHeader:    get(selector.GroupHeader),
		TaskRow:        get(selector.TaskRow),
		TaskName:       get(selector.TaskName),
		TaskTags:       get(selector.TaskTags),
	}, nil
}

// Scraper switches to the list view and extracts its tasks.
type Scraper struct {
	sels        ListSelectors
	waitTimeout time.Duration
}

// New creates a Scraper for the catalog's list view selectors.
func New(catalog selector.Catalog, waitTimeout time.Duration) (*Scraper, error) {
	sels, err := ListSelectorsFrom(catalog)
	if err != nil {
		return nil, err
	}
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	return &Scraper{sels: sels, waitTimeout: waitTimeout}, nil
}

// ScrapeListView activates the list tab, waits for the first group and
// returns one FormattedResult per task stamped with project. Failures are
// returned as *types.ScrapeError and are not retried.
func (s *Scraper) ScrapeListView(ctx context.Context, page browser.Page, project string) ([]types.FormattedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &types.ScrapeError{Step: types.ScrapeStepListTab, Err: err}
	}

	debugLog.Infof("Opening list view with %q", s.sels.ListTab)
	if err := page.WaitForSelector(s.sels.ListTab, s.waitTimeout); err != nil {
		return nil, &types.ScrapeError{Step: types.ScrapeStepListTab, Err: err}
	}
	if err := page.Click(s.sels.ListTab); err != nil {
		return nil, &types.ScrapeError{Step: types.ScrapeStepListTab, Err: err}
	}

	if err := page.WaitForSelector(s.sels.GroupContainer, s.waitTimeout); err != nil {
		return nil, &types.ScrapeError{Step: types.ScrapeStepGroups, Err: err}
	}

	groups, err := Extract(page, s.sels)
	if err != nil {
		return nil, &types.ScrapeError{Step: types.ScrapeStepExtract, Err: err}
	}

	results := types.Flatten(groups, project)
	debugLog.Infof("Scraped %d group(s), %d task(s) for project %q", len(groups), len(results), project)
	return results, nil
}

// Extract reads every group container in document order. Groups without a
// header are named "Group N" (1-based) and rows without a name element are
// named UnnamedTask. Tag texts are trimmed and kept in rendered order.
//
// Pages that implement browser.ListViewReader are read in one evaluation.
// When that fails, for example because a selector is not plain CSS, the
// elements are read one handle at a time.
func Extract(page browser.Page, sels ListSelectors) ([]types.ScrapedGroup, error) {
	if reader, ok := page.(browser.ListViewReader); ok {
		groups, err := reader.ReadListView(sels.query())
		if err == nil {
			return normalize(groups), nil
		}
		debugLog.Warnf("In-page list view read failed, reading elements one by one: %v", err)
	}

	groups, err := walkGroups(page, sels)
	if err != nil {
		return nil, err
	}
	return normalize(groups), nil
}

func (s ListSelectors) query() browser.ListQuery {
	return browser.ListQuery{
		Group:  s.GroupContainer,
		Header: s.GroupHeader,
		Row:    s.TaskRow,
		Name:   s.TaskName,
		Tags:   s.TaskTags,
	}
}

// normalize applies the naming fallbacks and trims tag texts.
func normalize(groups []types.ScrapedGroup) []types.ScrapedGroup {
	out := make([]types.ScrapedGroup, 0, len(groups))
	for i, g := range groups {
		if g.Group == "" {
			g.Group = fmt.Sprintf("Group %d", i+1)
		}
		debugLog.Debugf("Group found: %s", g.Group)

		tasks := make([]types.ScrapedTask, 0, len(g.Tasks))
		for _, t := range g.Tasks {
			if t.Task == "" {
				t.Task = UnnamedTask
			}
			tags := make([]string, 0, len(t.Tags))
			for _, tag := range t.Tags {
				tags = append(tags, strings.TrimSpace(tag))
			}
			t.Tags = tags
			debugLog.Debugf("    Task found: %q, tags: [%s]", t.Task, strings.Join(t.Tags, ", "))
			tasks = append(tasks, t)
		}
		g.Tasks = tasks
		out = append(out, g)
	}
	return out
}

// walkGroups reads the list view through element handles, leaving missing
// texts empty for normalize.
func walkGroups(page browser.Page, sels ListSelectors) ([]types.ScrapedGroup, error) {
	containers, err := page.QueryAll(sels.GroupContainer)
	if err != nil {
		return nil, err
	}

	groups := make([]types.ScrapedGroup, 0, len(containers))
	for i, container := range containers {
		name, err := textOf(container, sels.GroupHeader)
		if err != nil {
			return nil, fmt.Errorf("group %d header: %w", i+1, err)
		}

		rows, err := container.QueryAll(sels.TaskRow)
		if err != nil {
			return nil, fmt.Errorf("group %d rows: %w", i+1, err)
		}

		group := types.ScrapedGroup{Group: name, Tasks: make([]types.ScrapedTask, 0, len(rows))}
		for j, row := range rows {
			task, err := readTask(row, sels)
			if err != nil {
				return nil, fmt.Errorf("group %d row %d: %w", i+1, j+1, err)
			}
			group.Tasks = append(group.Tasks, task)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func readTask(row browser.Element, sels ListSelectors) (types.ScrapedTask, error) {
	name, err := textOf(row, sels.TaskName)
	if err != nil {
		return types.ScrapedTask{}, err
	}

	tagElements, err := row.QueryAll(sels.TaskTags)
	if err != nil {
		return types.ScrapedTask{}, err
	}
	tags := make([]string, 0, len(tagElements))
	for _, el := range tagElements {
		text, err := el.InnerText()
		if err != nil {
			return types.ScrapedTask{}, err
		}
		tags = append(tags, text)
	}

	return types.ScrapedTask{Task: name, Tags: tags}, nil
}

// textOf returns the inner text of the first match of sel under parent, or
// "" when there is none.
func textOf(parent browser.Element, sel string) (string, error) {
	el, err := parent.Query(sel)
	if err != nil || el == nil {
		return "", err
	}
	return el.InnerText()
}
