package types

import "fmt"

// ConfigurationError reports malformed or missing configuration: selector
// catalogs, fixtures, credentials or the run config. It is fatal for a run.
type ConfigurationError struct {
	// Source names the file or catalog entry at fault
	Source  string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Source != "" {
		msg += fmt.Sprintf(" (%s)", e.Source)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError builds a ConfigurationError with a formatted message.
func NewConfigurationError(source string, err error, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		Source:  source,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// NavigationError reports that a project could not be located in the
// sidebar after every attempt was used.
type NavigationError struct {
	Project  string
	Attempts int
	// Err is the cause of the last failed attempt, if any
	Err error
}

func (e *NavigationError) Error() string {
	msg := fmt.Sprintf("failed to locate project %q after %d attempts", e.Project, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ScrapeStep identifies the list view scraping step that failed.
type ScrapeStep string

const (
	ScrapeStepListTab ScrapeStep = "list_tab"
	ScrapeStepGroups  ScrapeStep = "wait_groups"
	ScrapeStepExtract ScrapeStep = "extract"
)

// ScrapeError reports a failure while switching views or reading DOM state.
type ScrapeError struct {
	Step ScrapeStep
	Err  error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape failed at %s: %v", e.Step, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}
