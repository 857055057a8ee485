package content

import (
	"slices"
	"time"
)

// CollisionPolicy decides what happens when two files normalize to the same slug.
type CollisionPolicy string

const (
	// CollisionFirstWins keeps the first file in discovery order and records the rest.
	CollisionFirstWins CollisionPolicy = "first"
	// CollisionReject fails indexing.
	CollisionReject CollisionPolicy = "reject"
)

// Collision records a file whose slug was already taken.
type Collision struct {
	Slug     string `json:"slug"`
	Kept     string `json:"kept"`
	Shadowed string `json:"shadowed"`
}

// Snapshot is the immutable result of one indexing run.
type Snapshot struct {
	pages      []DocPage
	bySlug     map[string]int
	collisions []Collision
	hash       string
	builtAt    time.Time
	revision   string
}

// emptySnapshot is returned by Holder before anything was stored.
var emptySnapshot = newSnapshot(nil, nil, time.Time{}, "")

// Empty returns a snapshot with no pages.
func Empty() *Snapshot { return emptySnapshot }

func newSnapshot(pages []DocPage, collisions []Collision, builtAt time.Time, revision string) *Snapshot {
	bySlug := make(map[string]int, len(pages))
	for i, p := range pages {
		bySlug[p.Slug] = i
	}
	return &Snapshot{
		pages:      pages,
		bySlug:     bySlug,
		collisions: collisions,
		hash:       ComputeHash(pages),
		builtAt:    builtAt,
		revision:   revision,
	}
}

// GetPage returns the page whose slug equals slug exactly.
func (s *Snapshot) GetPage(slug string) (DocPage, bool) {
	i, ok := s.bySlug[slug]
	if !ok {
		return DocPage{}, false
	}
	return s.pages[i], true
}

// HasURL reports whether a page is served at url.
func (s *Snapshot) HasURL(url string) bool {
	slug, ok := SlugFromURL(url)
	if !ok {
		return false
	}
	_, ok = s.bySlug[slug]
	return ok
}

// Pages returns the pages in discovery order.
func (s *Snapshot) Pages() []DocPage { return slices.Clone(s.pages) }

// Summaries returns the listing form of every page in discovery order.
func (s *Snapshot) Summaries() []Summary {
	out := make([]Summary, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p.Summary())
	}
	return out
}

// Collisions returns the slug collisions tolerated while indexing.
func (s *Snapshot) Collisions() []Collision { return slices.Clone(s.collisions) }

// Len is the number of indexed pages.
func (s *Snapshot) Len() int { return len(s.pages) }

// Hash is the content hash over every page, stable across identical content.
func (s *Snapshot) Hash() string { return s.hash }

// BuiltAt is when indexing finished.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Revision is the git revision of the content root, or "" when unknown.
func (s *Snapshot) Revision() string { return s.revision }
