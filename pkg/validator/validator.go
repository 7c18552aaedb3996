// Package validator compares expected test cases with scraped list view
// records.
//
// Tags are compared as case-insensitive multisets: order and case are
// ignored, duplicates are not.
package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/entrhq/boardcheck/pkg/types"
)

// Status is the result of validating one test case.
type Status string

const (
	StatusPassed      Status = "passed"
	StatusTagMismatch Status = "tag_mismatch"
	StatusNotFound    Status = "not_found"
)

// Outcome reports a validation result with the raw tag sequences that were
// compared.
type Outcome struct {
	Status   Status
	Expected []string
	// Actual is nil when no record matched
	Actual []string
	// Match is the record the test case was compared against
	Match *types.FormattedResult
}

// Passed reports whether the tags matched.
func (o Outcome) Passed() bool {
	return o.Status == StatusPassed
}

// String formats the outcome for logs.
func (o Outcome) String() string {
	switch o.Status {
	case StatusPassed:
		return "PASSED"
	case StatusNotFound:
		return "NOT FOUND"
	default:
		return fmt.Sprintf("FAILED: expected tags [%s], actual tags [%s]",
			strings.Join(o.Expected, ", "), strings.Join(o.Actual, ", "))
	}
}

// Validate finds the first record with the test case's task and group and
// compares tags. A missing record yields StatusNotFound.
func Validate(tc types.TestCase, results []types.FormattedResult) Outcome {
	match := Find(tc, results)
	if match == nil {
		return Outcome{Status: StatusNotFound, Expected: tc.Tags}
	}

	outcome := Outcome{
		Status:   StatusTagMismatch,
		Expected: tc.Tags,
		Actual:   match.Tags,
		Match:    match,
	}
	if TagsEqual(tc.Tags, match.Tags) {
		outcome.Status = StatusPassed
	}
	return outcome
}

// Find returns the first result whose task and group equal the test case's,
// or nil.
func Find(tc types.TestCase, results []types.FormattedResult) *types.FormattedResult {
	for i := range results {
		if results[i].Task == tc.Task && results[i].Group == tc.Group {
			return &results[i]
		}
	}
	return nil
}

// NormalizeTags lower-cases and sorts a copy of tags.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, len(tags))
	for i, tag := range tags {
		normalized[i] = strings.ToLower(tag)
	}
	sort.Strings(normalized)
	return normalized
}

// TagsEqual compares two tag sequences ignoring case and order.
func TagsEqual(expected, actual []string) bool {
	a, b := NormalizeTags(expected), NormalizeTags(actual)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Shape errors returned by CheckShape.
var (
	ErrMissingProject = errors.New("missing project")
	ErrMissingGroup   = errors.New("missing group")
	ErrMissingTask    = errors.New("missing task")
	ErrMissingTags    = errors.New("missing tags")
	ErrMalformed      = errors.New("malformed test case")
)

// CheckShape rejects a test case that lacks a project, group, task or tag
// sequence, or that did not decode. An empty tag sequence is valid; an
// absent one is not.
func CheckShape(tc types.TestCase) error {
	if tc.DecodeError != "" {
		return fmt.Errorf("%w: %s", ErrMalformed, tc.DecodeError)
	}

	var errs []error
	if tc.Project == "" {
		errs = append(errs, ErrMissingProject)
	}
	if tc.Group == "" {
		errs = append(errs, ErrMissingGroup)
	}
	if tc.Task == "" {
		errs = append(errs, ErrMissingTask)
	}
	if tc.Tags == nil {
		errs = append(errs, ErrMissingTags)
	}
	return errors.Join(errs...)
}
