// Package gitinfo reports the git revision of a content directory.
package gitinfo

import (
	"log/slog"

	ggit "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Revision returns the HEAD commit hash of the repository enclosing dir.
// It reports false when dir is not inside a git repository or HEAD is unborn.
func Revision(dir string) (string, bool) {
	repo, err := ggit.PlainOpenWithOptions(dir, &ggit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	ref, err := repo.Head()
	if err != nil {
		slog.Debug("Repository has no HEAD", logfields.Path(dir), logfields.Error(err))
		return "", false
	}
	return ref.Hash().String(), true
}

// Func returns a revision lookup bound to dir, in the shape content indexers accept.
func Func(dir string) func() (string, bool) {
	return func() (string, bool) { return Revision(dir) }
}
