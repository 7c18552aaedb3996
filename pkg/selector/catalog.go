package selector

import (
	"fmt"
	"sort"

	"github.com/entrhq/boardcheck/pkg/types"
)

// Logical areas of the selector catalog.
const (
	AreaLogin = "loginPage"
	AreaAsana = "asana"
)

// Selector names within AreaLogin.
const (
	EmailField          = "emailField"
	EmailContinueButton = "emailContinueButton"
	PasswordField       = "passwordField"
	LoginButton         = "loginButton"
)

// Selector names within AreaAsana.
const (
	ProjectsSection = "projectsSection"
	Sidebar         = "sidebar"
	SidebarLabel    = "sidebarLabel"
	ProjectLink     = "projectLink"
	ListTab         = "listTab"
	GroupContainer  = "groupContainer"
	GroupHeader     = "groupHeader"
	TaskRow         = "taskRow"
	TaskName        = "taskName"
	TaskTags        = "taskTags"
)

// ParamProject is the only parameter supplied when templates are resolved.
const ParamProject = "project"

// Defaults for the sidebar selectors, used when the catalog does not
// override them.
const (
	DefaultSidebar      = "div.SidebarResizableContainer-sidebarWrapper"
	DefaultSidebarLabel = "span.SidebarNavigationLinkCard-label"
	DefaultProjectLink  = `span.SidebarNavigationLinkCard-label:text-is("{{project}}")`
)

// Catalog maps a logical area to its named selector templates.
type Catalog map[string]map[string]string

// Validate rejects an empty catalog.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return types.NewConfigurationError("selectors", nil, "selector catalog is empty")
	}
	return nil
}

// Template returns the template registered under area and name.
func (c Catalog) Template(area, name string) (string, error) {
	entries, ok := c[area]
	if !ok {
		return "", types.NewConfigurationError("selectors", nil, "selector area %q is not defined", area)
	}
	tmpl, ok := entries[name]
	if !ok || tmpl == "" {
		return "", types.NewConfigurationError("selectors", nil, "selector %s.%s is not defined", area, name)
	}
	return tmpl, nil
}

// TemplateOr returns the registered template or fallback when it is absent.
func (c Catalog) TemplateOr(area, name, fallback string) string {
	if tmpl, err := c.Template(area, name); err == nil {
		return tmpl
	}
	return fallback
}

// Resolve looks up area.name and substitutes params into it.
func (c Catalog) Resolve(area, name string, params map[string]string) (string, error) {
	tmpl, err := c.Template(area, name)
	if err != nil {
		return "", err
	}
	return Resolve(tmpl, params)
}

// Require checks that every named selector exists in area.
func (c Catalog) Require(area string, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := c.Template(area, name); err != nil {
			missing = append(missing, fmt.Sprintf("%s.%s", area, name))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return types.NewConfigurationError("selectors", nil, "missing selectors: %v", missing)
	}
	return nil
}

// UnknownParams reports every template placeholder that is not one of known,
// as "area.name: {{param}}" in sorted order. Such placeholders resolve to the
// empty string at run time.
func (c Catalog) UnknownParams(known ...string) []string {
	allowed := make(map[string]bool, len(known))
	for _, k := range known {
		allowed[k] = true
	}

	var unknown []string
	for area, entries := range c {
		for name, tmpl := range entries {
			for _, param := range Placeholders(tmpl) {
				if !allowed[param] {
					unknown = append(unknown, fmt.Sprintf("%s.%s: {{%s}}", area, name, param))
				}
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}
