package nav

// Entry is an Item annotated for rendering the sidebar of one page.
type Entry struct {
	Title    string  `json:"title"`
	URL      string  `json:"url,omitempty"`
	Active   bool    `json:"active,omitempty"` // URL equals the viewed page
	Open     bool    `json:"open,omitempty"`   // section containing the active entry
	Children []Entry `json:"children,omitempty"`
}

// Mark returns the tree annotated for the page at currentURL. Every item whose
// URL equals currentURL is active, and every section above an active item is open.
func Mark(items []Item, currentURL string) []Entry {
	entries, _ := mark(items, currentURL)
	return entries
}

func mark(items []Item, current string) ([]Entry, bool) {
	if len(items) == 0 {
		return nil, false
	}
	out := make([]Entry, len(items))
	found := false
	for i, it := range items {
		e := Entry{Title: it.Title, URL: it.URL}
		e.Active = it.URL != "" && it.URL == current
		var below bool
		e.Children, below = mark(it.Children, current)
		e.Open = below
		found = found || e.Active || below
		out[i] = e
	}
	return out, found
}
