package content

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const indexSlug = "index"

// SlugFromPath derives the slug of a file path relative to the content root.
//
// The extension of the last segment is stripped and the result is NFC-normalized.
// Only the root "index" file maps to the empty slug; "usage/index" stays as is.
func SlugFromPath(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	slug := norm.NFC.String(strings.TrimSuffix(rel, path.Ext(rel)))
	if slug == indexSlug {
		return ""
	}
	return slug
}

// URLFor returns the route of a slug.
func URLFor(slug string) string {
	if slug == "" {
		return RoutePrefix
	}
	return RoutePrefix + "/" + slug
}

// NormalizeSlug turns a raw route remainder into the lookup form: empty segments
// are dropped, segments are joined with "/" and the result is NFC-normalized.
func NormalizeSlug(raw string) string {
	parts := strings.Split(raw, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return norm.NFC.String(strings.Join(kept, "/"))
}

// SlugFromURL reverses URLFor. It reports false for URLs outside RoutePrefix.
func SlugFromURL(u string) (string, bool) {
	if u == RoutePrefix {
		return "", true
	}
	rest, ok := strings.CutPrefix(u, RoutePrefix+"/")
	if !ok {
		return "", false
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	return NormalizeSlug(rest), true
}
