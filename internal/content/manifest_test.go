package content

import (
	"bytes"
	"encoding/json"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash(t *testing.T) {
	empty := ComputeHash(nil)
	assert.Len(t, empty, 64)
	assert.Equal(t, empty, ComputeHash([]DocPage{}))

	a := DocPage{Slug: "a", Source: "a.md", Fingerprint: "1"}
	b := DocPage{Slug: "b", Source: "b.md", Fingerprint: "2"}
	assert.NotEqual(t, ComputeHash([]DocPage{a, b}), ComputeHash([]DocPage{b, a}), "order is significant")
	assert.Equal(t, ComputeHash([]DocPage{a, b}), ComputeHash([]DocPage{a, b}))

	// Field boundaries are delimited: moving bytes between fields changes the hash.
	x := DocPage{Slug: "ab", Source: "c"}
	y := DocPage{Slug: "a", Source: "bc"}
	assert.NotEqual(t, ComputeHash([]DocPage{x}), ComputeHash([]DocPage{y}))
}

func TestWriteManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"index.mdx": file("---\ntitle: Intro\n---\nbody"),
		"guide.md":  file("---\ntitle: Guide\n---\n"),
		"guide.mdx": file("---\ntitle: Other\n---\n"),
	}
	snap := indexFS(t, fsys, WithRevision(func() (string, bool) { return "deadbeef", true }))

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, snap))

	var m Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, snap.Hash(), m.Hash)
	assert.Equal(t, "deadbeef", m.Revision)
	assert.Equal(t, 3, m.Count)
	require.Len(t, m.Pages, 3)
	assert.Equal(t, "guide", m.Pages[0].Slug)
	assert.Equal(t, "/docs", m.Pages[2].URL)
	assert.Len(t, m.Collisions, 1)
	assert.WithinDuration(t, snap.BuiltAt(), m.BuiltAt, time.Second)
	assert.NotContains(t, buf.String(), "body", "page bodies are not part of the manifest")
}
