package types

import "fmt"

// ProjectPlaceholder is stamped on scraped records when no project name is
// supplied to the scraper.
const ProjectPlaceholder = "Project Name Placeholder"

// TestCase is one expectation loaded from the test case fixture: a task in a
// group of a project, and the tags it is expected to carry.
type TestCase struct {
	Project  string   `json:"project" yaml:"project"`
	Group    string   `json:"group" yaml:"group"`
	Task     string   `json:"task" yaml:"task"`
	Tags     []string `json:"tags" yaml:"tags"`
	TestName string   `json:"testName" yaml:"testName"`

	// DecodeError holds why the fixture entry could not be decoded. Fields
	// that did decode are kept so the case can still be named in reports.
	DecodeError string `json:"-" yaml:"-"`
}

// Key returns the "project/group/task" path used for filtering and logs.
func (tc TestCase) Key() string {
	return fmt.Sprintf("%s/%s/%s", tc.Project, tc.Group, tc.Task)
}

// DisplayName returns TestName, or Key when the fixture left it blank.
func (tc TestCase) DisplayName() string {
	if tc.TestName != "" {
		return tc.TestName
	}
	return tc.Key()
}

// ScrapedTask is a task row read from the list view.
type ScrapedTask struct {
	Task string   `json:"task"`
	Tags []string `json:"tags"`
}

// ScrapedGroup is a section of the list view with its task rows in
// rendered order.
type ScrapedGroup struct {
	Group string        `json:"group"`
	Tasks []ScrapedTask `json:"tasks"`
}

// FormattedResult is the flattened, per-task projection of the scraped
// groups that test cases are matched against.
type FormattedResult struct {
	TestName string   `json:"testName"`
	Project  string   `json:"project"`
	Group    string   `json:"group"`
	Task     string   `json:"task"`
	Tags     []string `json:"tags"`
}

// Flatten projects grouped scrape output into one FormattedResult per task,
// preserving group order and then row order. An empty project is replaced by
// ProjectPlaceholder.
func Flatten(groups []ScrapedGroup, project string) []FormattedResult {
	if project == "" {
		project = ProjectPlaceholder
	}

	var results []FormattedResult
	for _, g := range groups {
		for _, t := range g.Tasks {
			results = append(results, FormattedResult{
				TestName: fmt.Sprintf("Verify '%s' in '%s' column", t.Task, g.Group),
				Project:  project,
				Group:    g.Group,
				Task:     t.Task,
				Tags:     t.Tags,
			})
		}
	}
	return results
}

// Credentials authenticate the browser session against the login page.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
