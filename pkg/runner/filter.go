package runner

import (
	"fmt"

	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/gobwas/glob"
)

// Filter selects test cases by glob patterns matched against the
// "project/group/task" key and the test name. An empty filter matches
// everything.
type Filter struct {
	patterns []string
	globs    []glob.Glob
}

// NewFilter compiles patterns. Wildcards match across "/" so that
// "Cross-functional*" selects every case of a project.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, types.NewConfigurationError("filters", err, "invalid filter pattern %q", p)
		}
		f.patterns = append(f.patterns, p)
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Empty reports whether the filter has no patterns.
func (f *Filter) Empty() bool {
	return f == nil || len(f.globs) == 0
}

// Match reports whether tc is selected.
func (f *Filter) Match(tc types.TestCase) bool {
	if f.Empty() {
		return true
	}
	key := tc.Key()
	for _, g := range f.globs {
		if g.Match(key) || (tc.TestName != "" && g.Match(tc.TestName)) {
			return true
		}
	}
	return false
}

// String lists the patterns.
func (f *Filter) String() string {
	if f.Empty() {
		return "<all>"
	}
	return fmt.Sprintf("%v", f.patterns)
}
