package main

import (
	"fmt"
	"io"

	"github.com/entrhq/boardcheck/pkg/report"
	"github.com/entrhq/boardcheck/pkg/runner"
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/validator"
	"github.com/spf13/cobra"
)

func newValidateCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and fixtures without opening a browser",
		Long:  "Load the run configuration, test cases and selector catalog, and report anything a run would reject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateFixtures(flags, cmd.OutOrStdout())
		},
	}
}

func validateFixtures(flags *Flags, stdout io.Writer) error {
	level := report.LevelNormal
	if flags.Quiet {
		level = report.LevelQuiet
	}
	console := report.NewConsole(level, stdout)

	cfg, cases, catalog, err := setup(flags, console)
	if err != nil {
		return fatal(err)
	}

	filter, err := runner.Preflight(cfg, cases, catalog)
	if err != nil {
		return fatal(err)
	}

	console.Section("Fixtures")
	console.Infof("%s", cfg.Fixtures.TestCases)
	console.Infof("%s", cfg.Fixtures.Selectors)
	for _, u := range catalog.UnknownParams(selector.ParamProject) {
		console.Warningf("selector %s is not a known parameter and resolves to empty", u)
	}

	invalid, selected := 0, 0
	for i, tc := range cases {
		if err := validator.CheckShape(tc); err != nil {
			invalid++
			console.Warningf("test case #%d (%s): %v", i+1, tc.Key(), err)
			continue
		}
		if filter.Match(tc) {
			selected++
		}
	}

	console.Successf("%d test case(s), %d selected by filter %s, %d invalid", len(cases), selected, filter, invalid)
	if invalid > 0 {
		return &exitError{code: exitFailed, err: fmt.Errorf("%d invalid test case(s)", invalid)}
	}
	return nil
}
