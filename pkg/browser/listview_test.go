package browser

import (
	"testing"

	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeListView(t *testing.T) {
	// shape of a Playwright evaluation result
	raw := []interface{}{
		map[string]interface{}{
			"group": "To Do",
			"tasks": []interface{}{
				map[string]interface{}{"task": "Design Review", "tags": []interface{}{" design ", "review"}},
				map[string]interface{}{"task": "", "tags": []interface{}{}},
			},
		},
		map[string]interface{}{"group": "", "tasks": []interface{}{}},
	}

	groups, err := decodeListView(raw)
	require.NoError(t, err)
	assert.Equal(t, []types.ScrapedGroup{
		{Group: "To Do", Tasks: []types.ScrapedTask{
			{Task: "Design Review", Tags: []string{" design ", "review"}},
			{Task: "", Tags: []string{}},
		}},
		{Group: "", Tasks: []types.ScrapedTask{}},
	}, groups)
}

func TestDecodeListView_Unexpected(t *testing.T) {
	_, err := decodeListView(map[string]interface{}{"group": "To Do"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected list view result")

	groups, err := decodeListView(nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
