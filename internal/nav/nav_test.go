package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleYAML = `
- title: Intro
  url: /docs
- title: Config
  url: /docs/config
- title: Providers
  url: /docs/providers
- title: Usage
  children:
    - title: CLI
      url: /docs/usage/cli
    - title: Advanced
      children:
        - title: Plugins
          url: /docs/usage/advanced/plugins
- title: Coming soon
`

func sample(t *testing.T) []Item {
	t.Helper()
	var items []Item
	require.NoError(t, yaml.Unmarshal([]byte(sampleYAML), &items))
	return items
}

func TestDecodeAndValidate(t *testing.T) {
	items := sample(t)
	require.Len(t, items, 5)
	assert.True(t, items[3].IsSection())
	assert.Empty(t, items[4].URL, "label-only items are allowed")
	require.NoError(t, Validate(items))
}

func TestValidate_Errors(t *testing.T) {
	err := Validate([]Item{{Title: "Both", URL: "/docs/x", Children: []Item{{Title: "c", URL: "/docs/y"}}}})
	require.ErrorIs(t, err, ErrURLAndChildren)
	assert.Contains(t, err.Error(), "navigation[0]")

	err = Validate([]Item{{Title: "ok", Children: []Item{{Title: "ok"}, {Title: " ", URL: "/docs/z"}}}})
	require.ErrorIs(t, err, ErrMissingTitle)
	assert.Contains(t, err.Error(), "navigation[0].children[1]")

	require.NoError(t, Validate(nil))
}

func TestMark_LeafAtDepth(t *testing.T) {
	entries := Mark(sample(t), "/docs/usage/advanced/plugins")

	assert.False(t, entries[0].Active)
	usage := entries[3]
	assert.True(t, usage.Open)
	assert.False(t, usage.Active)
	assert.False(t, usage.Children[0].Active)
	advanced := usage.Children[1]
	assert.True(t, advanced.Open)
	assert.True(t, advanced.Children[0].Active)
}

func TestMark_TopLevelAndUnknown(t *testing.T) {
	entries := Mark(sample(t), CurrentURL(""))
	assert.True(t, entries[0].Active)
	assert.False(t, entries[3].Open)

	entries = Mark(sample(t), "/docs/missing")
	for _, e := range entries {
		assert.False(t, e.Active)
		assert.False(t, e.Open)
	}

	// Label-only items never match, not even an empty current url.
	entries = Mark([]Item{{Title: "Label"}}, "")
	assert.False(t, entries[0].Active)
}

func TestWalk_DepthFirst(t *testing.T) {
	var visited []string
	var depths []int
	Walk(sample(t), func(it Item, depth int) bool {
		visited = append(visited, it.Title)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"Intro", "Config", "Providers", "Usage", "CLI", "Advanced", "Plugins", "Coming soon"}, visited)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 2, 0}, depths)

	visited = nil
	Walk(sample(t), func(it Item, _ int) bool {
		visited = append(visited, it.Title)
		return it.Title != "Usage"
	})
	assert.NotContains(t, visited, "CLI")
}

func TestCheck(t *testing.T) {
	items := sample(t)
	items = append(items, Item{Title: "External", URL: "https://example.com"})
	pages := map[string]bool{"/docs": true, "/docs/config": true, "/docs/usage/cli": true}

	problems := Check(items, func(u string) bool { return pages[u] })

	require.Equal(t, []Problem{
		{Title: "Providers", URL: "/docs/providers"},
		{Title: "Plugins", URL: "/docs/usage/advanced/plugins"},
	}, problems)
	assert.Contains(t, problems[0].String(), "/docs/providers")
}

func TestCurrentURL(t *testing.T) {
	assert.Equal(t, "/docs", CurrentURL(""))
	assert.Equal(t, "/docs/usage/cli", CurrentURL("usage/cli"))
}
