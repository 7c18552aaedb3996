package runner

import (
	"errors"

	"github.com/entrhq/boardcheck/pkg/config"
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/types"
)

// Session is everything a run needs, checked up front so that nothing
// reaches the browser with a broken precondition.
type Session struct {
	Config      *config.Config
	Credentials types.Credentials
	Cases       []types.TestCase
	Catalog     selector.Catalog
	Filter      *Filter
}

// Selectors every run needs. Sidebar entries have defaults and are not
// listed.
var (
	requiredLogin = []string{
		selector.EmailField,
		selector.EmailContinueButton,
		selector.PasswordField,
		selector.LoginButton,
	}
	requiredBoard = []string{
		selector.ProjectsSection,
		selector.ListTab,
		selector.GroupContainer,
		selector.GroupHeader,
		selector.TaskRow,
		selector.TaskName,
		selector.TaskTags,
	}
)

// Preflight checks cfg and the fixtures without credentials and returns the
// compiled case filter. Every failure is a *types.ConfigurationError.
func Preflight(cfg *config.Config, cases []types.TestCase, catalog selector.Catalog) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(cases) == 0 {
		return nil, types.NewConfigurationError("test cases", nil, "no test cases to run")
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if err := catalog.Require(selector.AreaLogin, requiredLogin...); err != nil {
		return nil, err
	}
	if err := catalog.Require(selector.AreaAsana, requiredBoard...); err != nil {
		return nil, err
	}
	for _, u := range catalog.UnknownParams(selector.ParamProject) {
		debugLog.Warnf("Selector %s is not a known parameter and resolves to empty", u)
	}

	return NewFilter(cfg.Filters)
}

// NewSession runs Preflight and checks the credentials.
func NewSession(cfg *config.Config, cases []types.TestCase, catalog selector.Catalog, creds types.Credentials) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	filter, err := Preflight(cfg, cases, catalog)
	if err != nil {
		return nil, err
	}

	var missing []error
	if creds.Email == "" {
		missing = append(missing, errors.New("email is empty"))
	}
	if creds.Password == "" {
		missing = append(missing, errors.New("password is empty"))
	}
	if len(missing) > 0 {
		return nil, types.NewConfigurationError("credentials", errors.Join(missing...), "incomplete credentials")
	}

	return &Session{
		Config:      cfg,
		Credentials: creds,
		Cases:       cases,
		Catalog:     catalog,
		Filter:      filter,
	}, nil
}
