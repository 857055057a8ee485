package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevision_InsideRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := ggit.PlainInit(dir, false)
	require.NoError(t, err)

	docs := filepath.Join(dir, "content", "docs")
	require.NoError(t, os.MkdirAll(docs, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.mdx"), []byte("---\ntitle: Intro\n---\n"), 0o600))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("content/docs/index.mdx")
	require.NoError(t, err)
	hash, err := wt.Commit("add docs", &ggit.CommitOptions{
		Author: &object.Signature{Name: "Docs", Email: "docs@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	rev, ok := Revision(docs)
	require.True(t, ok)
	assert.Equal(t, hash.String(), rev)

	rev, ok = Func(docs)()
	require.True(t, ok)
	assert.Equal(t, hash.String(), rev)
}

func TestRevision_NotARepository(t *testing.T) {
	_, ok := Revision(t.TempDir())
	assert.False(t, ok)
}

func TestRevision_UnbornHead(t *testing.T) {
	dir := t.TempDir()
	_, err := ggit.PlainInit(dir, false)
	require.NoError(t, err)

	_, ok := Revision(dir)
	assert.False(t, ok)
}
