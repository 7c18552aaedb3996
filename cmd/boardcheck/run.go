package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/boardcheck/pkg/browser"
	"github.com/entrhq/boardcheck/pkg/config"
	"github.com/entrhq/boardcheck/pkg/fixtures"
	"github.com/entrhq/boardcheck/pkg/logging"
	"github.com/entrhq/boardcheck/pkg/report"
	"github.com/entrhq/boardcheck/pkg/runner"
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const sessionName = "boardcheck"

func newRunCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the test cases against the live board",
		Long:  "Log in with a Chromium browser and validate every test case against the project list views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTests(ctx, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// setup loads and checks everything that does not need a browser.
func setup(flags *Flags, console *report.Console) (*config.Config, []types.TestCase, selector.Catalog, error) {
	cfg, err := flags.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		console.Warningf("%v, using info", err)
	}
	logging.SetLevel(level)
	debugLog.Infof("Effective config:\n%s", cfg)

	cases, err := fixtures.LoadTestCases(cfg.Fixtures.TestCases)
	if err != nil {
		return nil, nil, nil, err
	}
	catalog, err := fixtures.LoadCatalog(cfg.Fixtures.Selectors)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, cases, catalog, nil
}

func runTests(ctx context.Context, flags *Flags, stdout, stderr io.Writer) error {
	// the console level is not known before the config is loaded
	boot := report.NewConsole(report.LevelNormal, stdout)
	if flags.Quiet {
		boot = report.NewConsole(report.LevelQuiet, stdout)
	}

	cfg, cases, catalog, err := setup(flags, boot)
	if err != nil {
		return fatal(err)
	}
	console := report.NewConsole(report.ParseLevel(cfg.Logging.Verbosity), stdout)
	console.Header(fmt.Sprintf("boardcheck %s", version))
	console.Infof("%s", fixtures.Summary(cases, catalog))
	console.Verbosef("Run ID: %s", debugLog.RunID())
	console.Verbosef("Log file: %s", debugLog.LogPath())

	var prompter fixtures.Prompter
	if cfg.Fixtures.Prompt {
		if tp := fixtures.NewTerminalPrompter(); tp != nil {
			prompter = tp
		}
	}
	creds, err := fixtures.LoadCredentials(fixtures.CredentialSource{
		EnvFile:  cfg.Fixtures.EnvFile,
		File:     cfg.Fixtures.Credentials,
		Prompter: prompter,
	})
	if err != nil {
		return fatal(err)
	}

	session, err := runner.NewSession(cfg, cases, catalog, creds)
	if err != nil {
		return fatal(err)
	}
	if !session.Filter.Empty() {
		console.Infof("Filters: %s", session.Filter)
	}

	console.Section("Browser")
	manager := browser.NewSessionManager()
	if err := manager.Initialize(browser.InstallOptions{
		Install: cfg.Browser.Install,
		Verbose: console.Level() >= report.LevelDebug,
	}); err != nil {
		return fatal(err)
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			debugLog.Warnf("Browser shutdown: %v", err)
		}
	}()

	page, err := manager.StartSession(sessionName, browser.SessionOptions{
		Headless: cfg.Browser.Headless,
		Viewport: &browser.Viewport{
			Width:  cfg.Browser.ViewportWidth,
			Height: cfg.Browser.ViewportHeight,
		},
		Timeout: cfg.Browser.DefaultTimeout,
		SlowMo:  cfg.Browser.SlowMo,
	})
	if err != nil {
		return fatal(err)
	}
	console.Successf("Chromium started (headless=%t)", cfg.Browser.Headless)

	listeners := report.Listeners{console}
	var bar *report.ProgressBar
	if console.Level() == report.LevelQuiet && (cfg.Logging.Progress || isTerminal(os.Stderr)) {
		bar = report.NewProgressBar(len(cases), stderr)
		listeners = append(listeners, bar)
	}

	r, err := runner.New(session, page, runner.WithListener(listeners))
	if err != nil {
		return fatal(err)
	}

	console.Section(fmt.Sprintf("Running %d test case(s)", len(cases)))
	rep, runErr := r.Run(ctx)
	if bar != nil {
		bar.Finish()
	}
	if err := manager.CloseSession(sessionName); err != nil {
		debugLog.Warnf("Closing browser session: %v", err)
	}

	console.Summary(rep)
	writeArtifacts(cfg, rep, console)

	switch {
	case runErr != nil:
		return fatal(runErr)
	case errors.Is(ctx.Err(), context.Canceled):
		console.Warningf("Run interrupted")
		return &exitError{code: exitFailed}
	case rep.Status != report.RunPassed:
		return &exitError{code: exitFailed}
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeArtifacts(cfg *config.Config, rep *report.RunReport, console *report.Console) {
	if !cfg.Artifacts.Enabled {
		return
	}
	writer := report.NewArtifactWriter(cfg.Artifacts.OutputDir, cfg.Artifacts.JSON, cfg.Artifacts.Markdown)
	if err := writer.WriteAll(rep); err != nil {
		console.Warningf("Failed to write artifacts: %v", err)
		return
	}
	console.Infof("Artifacts written to %s", writer.OutputDir())
}
