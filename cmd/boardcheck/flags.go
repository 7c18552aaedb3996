package main

import (
	"github.com/entrhq/boardcheck/pkg/config"
	"github.com/spf13/cobra"
)

// Flags holds command-line flags shared by every command. Values left unset
// keep what the config file (or the defaults) say.
type Flags struct {
	ConfigFile  string
	Cases       string
	Selectors   string
	Credentials string
	EnvFile     string
	LoginURL    string
	Headless    bool
	NoInstall   bool
	NoPrompt    bool
	Filters     []string
	Output      string
	NoArtifacts bool
	Progress    bool
	Verbose     bool
	Quiet       bool
	Debug       bool

	cmd *cobra.Command
}

// Register adds the flags to root as persistent flags.
func (f *Flags) Register(root *cobra.Command) {
	f.cmd = root
	pf := root.PersistentFlags()
	pf.StringVarP(&f.ConfigFile, "config", "c", "", "Path to run configuration file (YAML)")
	pf.StringVar(&f.Cases, "cases", "", "Path to the test cases fixture (JSON)")
	pf.StringVar(&f.Selectors, "selectors", "", "Path to the selector catalog (JSON or YAML)")
	pf.StringVar(&f.Credentials, "credentials", "", "Path to a credentials file ({\"email\", \"password\"})")
	pf.StringVar(&f.EnvFile, "env-file", "", "Dotenv file to load before reading credentials from the environment")
	pf.StringVar(&f.LoginURL, "login-url", "", "Login page URL")
	pf.BoolVar(&f.Headless, "headless", true, "Run the browser without a window")
	pf.BoolVar(&f.NoInstall, "no-install", false, "Do not install the Playwright driver and browser")
	pf.BoolVar(&f.NoPrompt, "no-prompt", false, "Never prompt for missing credentials")
	pf.StringArrayVarP(&f.Filters, "filter", "f", nil, "Only run cases whose project/group/task or test name matches this glob (repeatable)")
	pf.StringVarP(&f.Output, "output", "o", "", "Artifacts output directory")
	pf.BoolVar(&f.NoArtifacts, "no-artifacts", false, "Do not write report artifacts or snapshots")
	pf.BoolVar(&f.Progress, "progress", false, "Show a progress bar (quiet mode)")
	pf.BoolVarP(&f.Verbose, "verbose", "v", false, "Verbose output")
	pf.BoolVarP(&f.Quiet, "quiet", "q", false, "Only print warnings, errors and the summary")
	pf.BoolVar(&f.Debug, "debug", false, "Debug output, including debug lines in the log file")
}

func (f *Flags) changed(name string) bool {
	if f.cmd == nil {
		return false
	}
	flag := f.cmd.PersistentFlags().Lookup(name)
	return flag != nil && flag.Changed
}

// LoadConfig reads the config file, applies flag overrides and validates
// the result.
func (f *Flags) LoadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.ConfigFile != "" {
		loaded, err := config.LoadFile(f.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *Flags) apply(cfg *config.Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&cfg.Fixtures.TestCases, f.Cases)
	setString(&cfg.Fixtures.Selectors, f.Selectors)
	setString(&cfg.Fixtures.Credentials, f.Credentials)
	setString(&cfg.Fixtures.EnvFile, f.EnvFile)
	setString(&cfg.LoginURL, f.LoginURL)
	setString(&cfg.Artifacts.OutputDir, f.Output)

	if f.changed("headless") {
		cfg.Browser.Headless = f.Headless
	}
	if f.NoInstall {
		cfg.Browser.Install = false
	}
	if f.NoPrompt {
		cfg.Fixtures.Prompt = false
	}
	if f.NoArtifacts {
		cfg.Artifacts.Enabled = false
	}
	if f.Progress {
		cfg.Logging.Progress = true
	}
	cfg.Filters = append(cfg.Filters, f.Filters...)

	switch {
	case f.Debug:
		cfg.Logging.Verbosity = "debug"
		cfg.Logging.Level = "debug"
	case f.Verbose:
		cfg.Logging.Verbosity = "verbose"
	case f.Quiet:
		cfg.Logging.Verbosity = "quiet"
	}
}
