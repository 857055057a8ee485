package nav

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
)

// Problem is a navigation entry pointing at no indexed page.
type Problem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%q links to %s, which is not an indexed page", p.Title, p.URL)
}

// Check reports navigation links under the docs route that resolve to no page
// according to hasURL. Links outside the route are not checked.
func Check(items []Item, hasURL func(url string) bool) []Problem {
	var problems []Problem
	Walk(items, func(it Item, _ int) bool {
		if isDocsURL(it.URL) && !hasURL(it.URL) {
			problems = append(problems, Problem{Title: it.Title, URL: it.URL})
		}
		return true
	})
	return problems
}

func isDocsURL(u string) bool {
	return u == content.RoutePrefix || strings.HasPrefix(u, content.RoutePrefix+"/")
}
