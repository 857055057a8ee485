package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/nav"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageTemplate     = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/page.html"))
	notFoundTemplate = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/notfound.html"))
)

// pageView is the data handed to the page templates.
type pageView struct {
	SiteTitle   string
	Title       string
	Description string
	Nav         []nav.Entry
	TOC         []content.Heading
	HTML        template.HTML
	Markdown    string
	Path        string
}

// PageHandlers serves documentation pages as HTML.
type PageHandlers struct {
	holder     *content.Holder
	navigation []nav.Item
	siteTitle  string
}

// NewPageHandlers creates page handlers reading the current snapshot from holder.
func NewPageHandlers(holder *content.Holder, navigation []nav.Item, siteTitle string) *PageHandlers {
	return &PageHandlers{holder: holder, navigation: navigation, siteTitle: siteTitle}
}

// HandleRoot redirects the site root to the documentation index.
func (h *PageHandlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, content.RoutePrefix, http.StatusFound)
}

// HandleDocs serves GET /docs and GET /docs/{slug...}.
func (h *PageHandlers) HandleDocs(w http.ResponseWriter, r *http.Request) {
	slug := content.NormalizeSlug(r.PathValue("slug"))
	page, ok := h.holder.Load().GetPage(slug)
	if !ok {
		h.HandleNotFound(w, r)
		return
	}

	etag := `"` + page.Fingerprint + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if page.Fingerprint != "" && etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	view := pageView{
		SiteTitle:   h.siteTitle,
		Title:       page.Title,
		Description: page.Description,
		Nav:         nav.Mark(h.navigation, nav.CurrentURL(page.Slug)),
		TOC:         page.TOC,
		HTML:        template.HTML(page.HTML), //nolint:gosec // goldmark output
		Markdown:    string(page.Body),
	}
	h.render(w, r, pageTemplate, http.StatusOK, view)
}

// HandleNotFound renders the HTML not-found page.
func (h *PageHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	view := pageView{
		SiteTitle: h.siteTitle,
		Title:     "Page not found",
		Nav:       nav.Mark(h.navigation, ""),
		Path:      r.URL.Path,
	}
	h.render(w, r, notFoundTemplate, http.StatusNotFound, view)
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, view pageView) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		slog.Error("failed rendering page template", logfields.Path(r.URL.Path), logfields.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}

// etagMatches implements the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
