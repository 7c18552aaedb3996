package browser_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/entrhq/boardcheck/pkg/browser"
	"github.com/entrhq/boardcheck/pkg/browser/browsertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listPage = `<!DOCTYPE html>
<html>
<head>
	<title>Roadmap - List</title>
	<meta name="description" content="board">
	<script>window.boot()</script>
	<style>.x { color: red }</style>
</head>
<body>
	<!-- sidebar -->
	<div class="SidebarResizableContainer-sidebarWrapper">
		<span class="SidebarNavigationLinkCard-label">Roadmap</span>
	</div>
	<div class="ProjectSection" data-section-id="42">
		<h3 class="ProjectSection-header" onclick="go()">To Do</h3>
		<div class="TaskRow" role="row">
			<span class="TaskName">Design   Review</span>
			<span class="Pill">design</span><svg><path d="M0"/></svg>
			<img src="avatar.png" alt="me">
		</div>
	</div>
	<input type="text" name="search">
</body>
</html>`

func TestCleanSnapshot(t *testing.T) {
	snap, err := browser.CleanSnapshot(listPage, 10000)
	require.NoError(t, err)

	assert.Equal(t, "Roadmap - List", snap.Title)
	assert.False(t, snap.Truncated)

	for _, want := range []string{
		`<div class="ProjectSection" data-section-id="42">`,
		`<h3 class="ProjectSection-header">`,
		`<div class="TaskRow" role="row">`,
		"Design Review",
		`<input type="text" name="search">`,
	} {
		assert.Contains(t, snap.HTML, want)
	}
	for _, unwanted := range []string{"<script", "window.boot", "<style", "color: red", "<svg", "<img", "onclick", "sidebar -->", "<meta"} {
		assert.NotContains(t, snap.HTML, unwanted)
	}
	assert.NotContains(t, snap.HTML, "</input>")

	assert.Equal(t, 1, snap.Classes["TaskRow"])
	assert.Equal(t, 1, snap.Classes["SidebarNavigationLinkCard-label"])
}

func TestCleanSnapshot_Truncates(t *testing.T) {
	body := "<html><body>" + strings.Repeat(`<div class="row">lorem ipsum dolor</div>`, 200) + "</body></html>"

	snap, err := browser.CleanSnapshot(body, 300)
	require.NoError(t, err)

	assert.True(t, snap.Truncated)
	assert.LessOrEqual(t, len(snap.HTML), 300+len("lorem ipsum dolor...")+len("</div></body></html>")*2)
	assert.Equal(t, 200, snap.Classes["row"], "classes are counted across the whole document")
}

func TestCleanSnapshot_TruncatesOnRuneBoundary(t *testing.T) {
	body := "<html><body><p>" + strings.Repeat("é", 100) + "</p></body></html>"

	// consecutive limits cut the two-byte runes at both odd and even offsets
	for limit := 60; limit < 70; limit++ {
		snap, err := browser.CleanSnapshot(body, limit)
		require.NoError(t, err)

		assert.True(t, utf8.ValidString(snap.HTML), "limit %d produced invalid UTF-8", limit)
		assert.True(t, snap.Truncated, "limit %d", limit)
		assert.Contains(t, snap.HTML, "...")
	}
}

func TestSnapshot_TopClasses(t *testing.T) {
	snap := &browser.Snapshot{Classes: map[string]int{"a": 1, "b": 3, "c": 3, "d": 2}}
	assert.Equal(t, []string{"b", "c", "d"}, snap.TopClasses(3))
	assert.Len(t, snap.TopClasses(10), 4)
}

func TestCaptureSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	page := browsertest.NewPage()
	page.HTML = listPage

	snap, err := browser.CaptureSnapshot(page, dir, "case-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap - List", snap.Title)

	assert.FileExists(t, filepath.Join(dir, "case-1.png"))
	written, err := os.ReadFile(filepath.Join(dir, "case-1.html"))
	require.NoError(t, err)
	assert.Equal(t, snap.HTML, string(written))
}
