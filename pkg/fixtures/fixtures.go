// Package fixtures loads the inputs of a run: the expected test cases, the
// selector catalog and the login credentials. Every failure is reported as a
// *types.ConfigurationError so the run stops before a browser is started.
package fixtures

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/entrhq/boardcheck/pkg/logging"
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/types"
	"gopkg.in/yaml.v3"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("fixtures")
	if err != nil {
		debugLog.Warnf("Failed to initialize fixtures logger, using stderr fallback: %v", err)
	}
}

// LoadTestCases reads a JSON array of test cases. The array must not be
// empty. An entry that does not decode is kept with DecodeError set so the
// run can report it as invalid; other cases are not shape-checked here.
func LoadTestCases(path string) ([]types.TestCase, error) {
	debugLog.Infof("Reading test cases from %s", path)

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, types.NewConfigurationError(path, nil, "test cases file must contain a JSON array")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, types.NewConfigurationError(path, err, "failed to parse test cases")
	}
	if len(entries) == 0 {
		return nil, types.NewConfigurationError(path, nil, "test cases file is empty")
	}

	cases := make([]types.TestCase, len(entries))
	for i, raw := range entries {
		if err := json.Unmarshal(raw, &cases[i]); err != nil {
			debugLog.Warnf("Test case #%d in %s does not decode: %v", i+1, path, err)
			cases[i].DecodeError = err.Error()
		}
	}

	debugLog.Infof("Loaded %d test case(s)", len(cases))
	return cases, nil
}

// LoadCatalog reads a selector catalog. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON. The catalog must not be empty.
func LoadCatalog(path string) (selector.Catalog, error) {
	debugLog.Infof("Reading selectors from %s", path)

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var catalog selector.Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &catalog)
	default:
		err = json.Unmarshal(data, &catalog)
	}
	if err != nil {
		return nil, types.NewConfigurationError(path, err, "failed to parse selectors")
	}

	if err := catalog.Validate(); err != nil {
		return nil, types.NewConfigurationError(path, nil, "selectors file is invalid or empty")
	}
	return catalog, nil
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, types.NewConfigurationError("", nil, "no file path given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewConfigurationError(path, err, "failed to read file")
	}
	return data, nil
}

// Summary describes loaded fixtures for the validate command.
func Summary(cases []types.TestCase, catalog selector.Catalog) string {
	projects := make(map[string]bool)
	for _, tc := range cases {
		projects[tc.Project] = true
	}
	selectors := 0
	for _, entries := range catalog {
		selectors += len(entries)
	}
	return fmt.Sprintf("%d test case(s) across %d project(s); %d selector(s) in %d area(s)",
		len(cases), len(projects), selectors, len(catalog))
}
