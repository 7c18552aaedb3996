// Package config holds the run configuration: where fixtures live, how the
// browser is launched, the retry and wait policy, and what artifacts are
// written. It is loaded from YAML over DefaultConfig and then validated.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/entrhq/boardcheck/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultLoginURL is the Asana login page.
const DefaultLoginURL = "https://app.asana.com/-/login"

// Config represents the configuration of one run
type Config struct {
	// LoginURL is opened before the first test case
	LoginURL string `yaml:"login_url" json:"login_url"`

	// Fixture paths
	Fixtures FixtureConfig `yaml:"fixtures" json:"fixtures"`

	Browser    BrowserConfig    `yaml:"browser" json:"browser"`
	Login      LoginConfig      `yaml:"login" json:"login"`
	Navigation NavigationConfig `yaml:"navigation" json:"navigation"`
	Scrape     ScrapeConfig     `yaml:"scrape" json:"scrape"`

	// Filters are glob patterns; when set, only matching test cases run
	Filters []string `yaml:"filters" json:"filters"`

	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`
	Logging   LoggingConfig  `yaml:"logging" json:"logging"`

	// ConfigFilePath is the file this config was loaded from, if any
	ConfigFilePath string `yaml:"-" json:"-"`
}

// FixtureConfig locates the run's inputs
type FixtureConfig struct {
	TestCases   string `yaml:"test_cases" json:"test_cases"`
	Selectors   string `yaml:"selectors" json:"selectors"`
	Credentials string `yaml:"credentials" json:"credentials"`
	EnvFile     string `yaml:"env_file" json:"env_file"`
	// Prompt asks for missing credentials on the terminal
	Prompt bool `yaml:"prompt" json:"prompt"`
}

// BrowserConfig controls the Playwright session
type BrowserConfig struct {
	Headless       bool          `yaml:"headless" json:"headless"`
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
	DefaultTimeout time.Duration `yaml:"default_timeout" json:"default_timeout"`
	SlowMo         time.Duration `yaml:"slow_mo" json:"slow_mo"`
	// Install downloads the Playwright driver and browser when missing
	Install bool `yaml:"install" json:"install"`
}

// LoginConfig bounds each login step
type LoginConfig struct {
	PageTimeout      time.Duration `yaml:"page_timeout" json:"page_timeout"`
	PasswordTimeout  time.Duration `yaml:"password_timeout" json:"password_timeout"`
	DashboardTimeout time.Duration `yaml:"dashboard_timeout" json:"dashboard_timeout"`
}

// NavigationConfig is the project navigation retry policy
type NavigationConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff" json:"backoff"`
	WaitTimeout time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
}

// ScrapeConfig bounds the list view waits
type ScrapeConfig struct {
	WaitTimeout time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
}

// ArtifactConfig defines artifact generation
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	JSON     bool `yaml:"json" json:"json"`
	Markdown bool `yaml:"markdown" json:"markdown"`
	// Snapshots captures a screenshot and cleaned HTML for failed cases
	Snapshots bool `yaml:"snapshots" json:"snapshots"`
}

// LoggingConfig defines console and file logging
type LoggingConfig struct {
	// Verbosity controls console output: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
	// Level is the minimum level written to the log file
	Level string `yaml:"level" json:"level"`
	// Progress shows a progress bar in quiet mode
	Progress bool `yaml:"progress" json:"progress"`
}

var validVerbosity = map[string]bool{
	"quiet":   true,
	"normal":  true,
	"verbose": true,
	"debug":   true,
}

// Validate validates the configuration and fills the remaining defaults.
func (c *Config) Validate() error {
	source := c.ConfigFilePath
	if source == "" {
		source = "config"
	}
	fail := func(format string, args ...interface{}) error {
		return types.NewConfigurationError(source, nil, format, args...)
	}

	if c.LoginURL == "" {
		return fail("login_url is required")
	}
	if c.Fixtures.TestCases == "" {
		return fail("fixtures.test_cases is required")
	}
	if c.Fixtures.Selectors == "" {
		return fail("fixtures.selectors is required")
	}

	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return fail("viewport dimensions cannot be negative")
	}

	for name, d := range map[string]time.Duration{
		"browser.default_timeout": c.Browser.DefaultTimeout,
		"browser.slow_mo":         c.Browser.SlowMo,
		"login.page_timeout":      c.Login.PageTimeout,
		"login.password_timeout":  c.Login.PasswordTimeout,
		"login.dashboard_timeout": c.Login.DashboardTimeout,
		"navigation.backoff":      c.Navigation.Backoff,
		"navigation.wait_timeout": c.Navigation.WaitTimeout,
		"scrape.wait_timeout":     c.Scrape.WaitTimeout,
	} {
		if d < 0 {
			return fail("%s cannot be negative", name)
		}
	}

	if c.Navigation.MaxAttempts < 1 {
		return fail("navigation.max_attempts must be at least 1")
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fail("artifacts.output_dir is required when artifacts are enabled")
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	if !validVerbosity[c.Logging.Verbosity] {
		return fail("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		LoginURL: DefaultLoginURL,
		Fixtures: FixtureConfig{
			TestCases:   "test/data/testCases.asana.json",
			Selectors:   "test/data/selectors.asana.json",
			Credentials: "credentials.json",
			EnvFile:     ".env",
			Prompt:      true,
		},
		Browser: BrowserConfig{
			Headless:       true,
			ViewportWidth:  1280,
			ViewportHeight: 720,
			DefaultTimeout: 30 * time.Second,
			Install:        true,
		},
		Login: LoginConfig{
			PageTimeout:      60 * time.Second,
			PasswordTimeout:  5 * time.Second,
			DashboardTimeout: 10 * time.Second,
		},
		Navigation: NavigationConfig{
			MaxAttempts: 3,
			Backoff:     3 * time.Second,
			WaitTimeout: 10 * time.Second,
		},
		Scrape: ScrapeConfig{
			WaitTimeout: 10 * time.Second,
		},
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: ".boardcheck/artifacts",
			JSON:      true,
			Markdown:  true,
			Snapshots: true,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
			Level:     "info",
		},
	}
}

// LoadFile reads a YAML config file over DefaultConfig.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewConfigurationError(path, err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, types.NewConfigurationError(path, err, "failed to parse config file")
	}
	config.ConfigFilePath = path

	return config, nil
}

// String renders the effective config as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(data)
}
