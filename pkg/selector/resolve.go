// Package selector resolves selector templates from the selector catalog.
//
// Templates are opaque locator strings that may embed {{name}} placeholders,
// for example:
//
//	span.SidebarNavigationLinkCard-label:text-is("{{project}}")
//
// Placeholders without a matching parameter resolve to the empty string.
package selector

import (
	"regexp"

	"github.com/entrhq/boardcheck/pkg/logging"
	"github.com/entrhq/boardcheck/pkg/types"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("selector")
	if err != nil {
		debugLog.Warnf("Failed to initialize selector logger, using stderr fallback: %v", err)
	}
}

// Resolve substitutes params into template. An empty template is a
// configuration error; a missing parameter is not.
func Resolve(template string, params map[string]string) (string, error) {
	if template == "" {
		return "", types.NewConfigurationError("selectors", nil, "selector template is undefined")
	}

	resolved := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return params[name]
	})

	debugLog.Debugf("Resolved selector %q with %v -> %q", template, params, resolved)
	return resolved, nil
}

// Placeholders lists the parameter names referenced by template, in order
// of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
