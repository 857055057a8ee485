package content

import "errors"

var (
	// ErrRootNotDirectory indicates the configured content root exists but is not a directory.
	ErrRootNotDirectory = errors.New("content root is not a directory")

	// ErrWalkFailed indicates traversal of the content root failed.
	ErrWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered content file failed.
	ErrFileReadFailed = errors.New("content file read failed")

	// ErrSlugCollision indicates two content files normalize to the same slug.
	ErrSlugCollision = errors.New("slug collision detected")

	// ErrPageNotFound is what the route layer reports for an unknown slug.
	ErrPageNotFound = errors.New("page not found")
)
