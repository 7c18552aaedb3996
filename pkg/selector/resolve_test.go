package selector

import (
	"errors"
	"testing"

	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   map[string]string
		want     string
	}{
		{
			name:     "no placeholders",
			template: "div.ProjectList",
			params:   map[string]string{"project": "Roadmap"},
			want:     "div.ProjectList",
		},
		{
			name:     "single placeholder",
			template: `span.label:text-is("{{project}}")`,
			params:   map[string]string{"project": "Roadmap"},
			want:     `span.label:text-is("Roadmap")`,
		},
		{
			name:     "repeated placeholder",
			template: "{{id}}-{{id}}",
			params:   map[string]string{"id": "x"},
			want:     "x-x",
		},
		{
			name:     "multiple placeholders",
			template: "[data-group='{{group}}'] [data-task='{{task}}']",
			params:   map[string]string{"group": "To Do", "task": "Design Review"},
			want:     "[data-group='To Do'] [data-task='Design Review']",
		},
		{
			name:     "missing parameter resolves to empty",
			template: "section:{{missing}}:end",
			params:   map[string]string{"other": "value"},
			want:     "section::end",
		},
		{
			name:     "nil params",
			template: "a{{b}}c",
			params:   nil,
			want:     "ac",
		},
		{
			name:     "malformed placeholder left alone",
			template: "{{ spaced }} {single}",
			params:   map[string]string{"spaced": "x", "single": "y"},
			want:     "{{ spaced }} {single}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.template, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UndefinedTemplate(t *testing.T) {
	_, err := Resolve("", map[string]string{"project": "Roadmap"})
	require.Error(t, err)

	var cfgErr *types.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "undefined")
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"group", "task"}, Placeholders("{{group}}/{{task}}/{{group}}"))
	assert.Empty(t, Placeholders("div.plain"))
}
