// Package nav models the hand-authored sidebar navigation tree.
//
// The tree is static configuration. It is never derived from or validated
// against indexed content, except by the opt-in Check used by `docsite check`.
package nav

import (
	"errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
)

var (
	// ErrMissingTitle indicates a navigation item without a title.
	ErrMissingTitle = errors.New("navigation item has no title")
	// ErrURLAndChildren indicates an item that is both a link and a section.
	ErrURLAndChildren = errors.New("navigation item has both url and children")
)

// Item is one node of the navigation tree. It is a link (URL set), a section
// (Children set) or a plain label (neither), never both.
type Item struct {
	Title    string `yaml:"title" json:"title"`
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
	Children []Item `yaml:"children,omitempty" json:"children,omitempty"`
}

// IsSection reports whether the item groups children.
func (it Item) IsSection() bool { return len(it.Children) > 0 }

// Validate checks every item of the tree. The error names the offending item by
// its position, e.g. "navigation[1].children[0]".
func Validate(items []Item) error {
	return validate(items, "navigation")
}

func validate(items []Item, at string) error {
	for i, it := range items {
		where := fmt.Sprintf("%s[%d]", at, i)
		if strings.TrimSpace(it.Title) == "" {
			return fmt.Errorf("%w: %s", ErrMissingTitle, where)
		}
		if it.URL != "" && len(it.Children) > 0 {
			return fmt.Errorf("%w: %s (%q)", ErrURLAndChildren, where, it.Title)
		}
		if err := validate(it.Children, where+".children"); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every item depth-first in declaration order. depth starts at 0.
// Returning false from fn skips the item's children.
func Walk(items []Item, fn func(it Item, depth int) bool) {
	walk(items, 0, fn)
}

func walk(items []Item, depth int, fn func(Item, int) bool) {
	for _, it := range items {
		if fn(it, depth) {
			walk(it.Children, depth+1, fn)
		}
	}
}

// CurrentURL is the url of the page being viewed for a normalized slug.
func CurrentURL(slug string) string { return content.URLFor(slug) }
