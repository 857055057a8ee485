package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// DefaultExtensions are the content file extensions indexed when none are configured.
var DefaultExtensions = []string{".mdx", ".md"}

// Indexer builds snapshots from a content root.
type Indexer struct {
	root       string // display/stat path; empty when built from an fs.FS
	fsys       fs.FS
	extensions []string
	policy     CollisionPolicy
	renderer   Renderer
	revision   func() (string, bool)
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes an Indexer.
type Option func(*Indexer)

// WithExtensions sets the indexed file extensions (case-insensitive, leading dot).
func WithExtensions(exts ...string) Option {
	return func(ix *Indexer) {
		if len(exts) > 0 {
			ix.extensions = exts
		}
	}
}

// WithCollisionPolicy sets how duplicate slugs are handled.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(ix *Indexer) { ix.policy = p }
}

// WithRenderer renders every page body to HTML at index time.
func WithRenderer(r Renderer) Option {
	return func(ix *Indexer) { ix.renderer = r }
}

// WithRevision attaches a content revision (e.g. a git commit) to each snapshot.
func WithRevision(fn func() (string, bool)) Option {
	return func(ix *Indexer) { ix.revision = fn }
}

// WithLogger sets the logger used for indexing warnings.
func WithLogger(l *slog.Logger) Option {
	return func(ix *Indexer) {
		if l != nil {
			ix.logger = l
		}
	}
}

// NewIndexer creates an indexer reading from the directory root.
func NewIndexer(root string, opts ...Option) *Indexer {
	ix := newIndexer(os.DirFS(root), opts)
	ix.root = root
	return ix
}

// NewIndexerFS creates an indexer reading from fsys, whose root is the content root.
func NewIndexerFS(fsys fs.FS, opts ...Option) *Indexer {
	return newIndexer(fsys, opts)
}

func newIndexer(fsys fs.FS, opts []Option) *Indexer {
	ix := &Indexer{
		fsys:       fsys,
		extensions: DefaultExtensions,
		policy:     CollisionFirstWins,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(ix)
	}
	return ix
}

// Index walks the content root and derives a snapshot.
//
// A missing or empty root yields an empty snapshot. Malformed front matter never
// fails indexing; affected pages fall back to default metadata.
func (ix *Indexer) Index(ctx context.Context) (*Snapshot, error) {
	if ix.root != "" {
		st, err := os.Stat(ix.root)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			ix.logger.Warn("Content root not found; serving no pages", logfields.Path(ix.root))
			return ix.snapshot(nil, nil), nil
		case err != nil:
			return nil, derrors.FileSystemError("stat content root").
				WithCause(err).
				WithContext("path", ix.root).Build()
		case !st.IsDir():
			return nil, derrors.NewError(derrors.CategoryConfig, "invalid content root").
				WithCause(ErrRootNotDirectory).
				WithContext("path", ix.root).Build()
		}
	}

	files, err := ix.discover(ctx)
	if err != nil {
		return nil, err
	}

	pages := make([]DocPage, 0, len(files))
	var collisions []Collision
	seen := make(map[string]string, len(files))
	for _, f := range files {
		p := newPage(f)
		if kept, dup := seen[p.Slug]; dup {
			if ix.policy == CollisionReject {
				return nil, derrors.ContentError("duplicate slug").
					WithCause(ErrSlugCollision).
					WithContext("slug", p.Slug).
					WithContext("kept", kept).
					WithContext("shadowed", p.Source).
					Build()
			}
			ix.logger.Warn("Duplicate slug; keeping first file",
				logfields.Slug(p.Slug),
				slog.String("kept", kept),
				slog.String("shadowed", p.Source))
			collisions = append(collisions, Collision{Slug: p.Slug, Kept: kept, Shadowed: p.Source})
			continue
		}
		seen[p.Slug] = p.Source
		ix.render(&p)
		pages = append(pages, p)
	}

	return ix.snapshot(pages, collisions), nil
}

func (ix *Indexer) snapshot(pages []DocPage, collisions []Collision) *Snapshot {
	rev := ""
	if ix.revision != nil {
		if r, ok := ix.revision(); ok {
			rev = r
		}
	}
	return newSnapshot(pages, collisions, ix.now(), rev)
}

func (ix *Indexer) render(p *DocPage) {
	if ix.renderer == nil {
		return
	}
	out, err := ix.renderer.Render(p.Body)
	if err != nil {
		ix.logger.Warn("Failed to render page", logfields.File(p.Source), logfields.Error(err))
		return
	}
	p.HTML = out.HTML
	p.TOC = out.TOC
}

// discover walks the content root in lexical order and parses every content file.
func (ix *Indexer) discover(ctx context.Context) ([]File, error) {
	var files []File
	err := fs.WalkDir(ix.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !ix.isContentFile(p) {
			return nil
		}

		raw, err := fs.ReadFile(ix.fsys, p)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFileReadFailed, p, err)
		}
		doc, perr := frontmatter.Parse(raw)
		if perr != nil {
			ix.logger.Warn("Malformed front matter; using defaults", logfields.File(p), logfields.Error(perr))
		}
		files = append(files, File{Path: p, Frontmatter: doc})
		ix.logger.Debug("Discovered content file", logfields.File(p))
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, derrors.FileSystemError("walk content root").
			WithCause(fmt.Errorf("%w: %w", ErrWalkFailed, err)).
			WithContext("path", ix.root).Build()
	}
	return files, nil
}

func (ix *Indexer) isContentFile(p string) bool {
	ext := path.Ext(p)
	for _, e := range ix.extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
