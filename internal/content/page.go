// Package content discovers documentation source files under a content root and
// derives the immutable page set served under the /docs route.
package content

import "git.home.luguber.info/inful/docsite/internal/frontmatter"

const (
	// RoutePrefix is the fixed route every documentation page is served under.
	RoutePrefix = "/docs"

	// DefaultTitle is used when a file has no usable title in its front matter.
	DefaultTitle = "Untitled"
)

// File is a discovered documentation source file.
type File struct {
	Path        string // path relative to the content root, slash separated
	Frontmatter frontmatter.Document
}

// Heading is one table-of-contents entry of a rendered page.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	ID    string `json:"id"`
}

// Rendered is the HTML form of a page body.
type Rendered struct {
	HTML string
	TOC  []Heading
}

// Renderer turns a Markdown body into HTML.
type Renderer interface {
	Render(body []byte) (Rendered, error)
}

// DocPage is the routable form of a content file.
//
// Body is shared with the snapshot that produced the page and must not be modified.
type DocPage struct {
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	HTML        string    `json:"html,omitempty"`
	TOC         []Heading `json:"toc,omitempty"`
	Body        []byte    `json:"-"`
}

// Summary is the listing form of a page.
type Summary struct {
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
}

// Summary drops the body and rendered output.
func (p DocPage) Summary() Summary {
	return Summary{
		Slug:        p.Slug,
		URL:         p.URL,
		Title:       p.Title,
		Description: p.Description,
		Source:      p.Source,
		Fingerprint: p.Fingerprint,
	}
}

// newPage derives a DocPage from a parsed file.
func newPage(f File) DocPage {
	slug := SlugFromPath(f.Path)
	title, ok := f.Frontmatter.Fields.String("title")
	if !ok {
		title = DefaultTitle
	}
	desc, _ := f.Frontmatter.Fields.String("description")
	return DocPage{
		Slug:        slug,
		URL:         URLFor(slug),
		Title:       title,
		Description: desc,
		Source:      f.Path,
		Fingerprint: fingerprint(f.Frontmatter),
		Body:        f.Frontmatter.Body,
	}
}
