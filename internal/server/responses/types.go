// Package responses defines API response types used by docsite HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/nav"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status  string    `json:"status"`
	Pages   int       `json:"pages"`
	Hash    string    `json:"hash"`
	BuiltAt time.Time `json:"built_at"`
	Version string    `json:"version,omitempty"`
}

// PagesResponse lists every indexed page.
type PagesResponse struct {
	Count int               `json:"count"`
	Hash  string            `json:"hash"`
	Pages []content.Summary `json:"pages"`
}

// PageResponse is one page with its rendered body.
type PageResponse struct {
	content.DocPage
	Markdown string `json:"markdown"`
}

// NavResponse is the navigation tree marked for one url.
type NavResponse struct {
	CurrentURL string      `json:"current_url,omitempty"`
	Items      []nav.Entry `json:"items"`
}

// ReloadsResponse lists recent index rebuilds, newest first.
type ReloadsResponse struct {
	Count   int             `json:"count"`
	Reloads []history.Entry `json:"reloads"`
}

// ReloadResponse reports the outcome of a manual rebuild.
type ReloadResponse struct {
	Status string `json:"status"`
	Pages  int    `json:"pages"`
	Hash   string `json:"hash"`
}
