package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// TOC levels collected from rendered pages.
const (
	minTOCLevel = 2
	maxTOCLevel = 3
)

// Renderer renders page bodies to HTML and collects their table of contents.
// It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a goldmark renderer with GFM and automatic heading ids.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{md: newGoldmark(opts)}
}

// Render implements content.Renderer.
func (r *Renderer) Render(body []byte) (content.Rendered, error) {
	root := r.md.Parser().Parse(text.NewReader(body), parser.WithContext(parser.NewContext()))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, root); err != nil {
		return content.Rendered{}, fmt.Errorf("render markdown: %w", err)
	}
	return content.Rendered{HTML: buf.String(), TOC: headings(root, body)}, nil
}

func headings(root gmast.Node, source []byte) []content.Heading {
	var toc []content.Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if h.Level >= minTOCLevel && h.Level <= maxTOCLevel {
			toc = append(toc, content.Heading{
				Level: h.Level,
				Title: strings.TrimSpace(plainText(h, source)),
				ID:    headingID(h),
			})
		}
		return gmast.WalkSkipChildren, nil
	})
	return toc
}

func headingID(h *gmast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// plainText concatenates the text content of n's descendants.
func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(plainText(c, source))
		}
	}
	return b.String()
}
