package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/nav"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Root string `help:"Content root (overrides content.root)" type:"path"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if c.Root != "" {
		cfg.Content.Root = c.Root
	}

	snap, err := newIndexer(cfg).Index(context.Background())
	if err != nil {
		return err
	}

	problems := RunCheck(cfg, snap)
	out := stdout(g)
	for _, p := range problems {
		_, _ = fmt.Fprintln(out, p)
	}
	if len(problems) > 0 {
		return derrors.ValidationError(fmt.Sprintf("%d problem(s) found", len(problems))).
			WithContext("problems", len(problems)).
			Build()
	}
	_, _ = fmt.Fprintf(out, "No problems found in %d page(s)\n", snap.Len())
	return nil
}

// BrokenLink is an internal link whose target has no page.
type BrokenLink struct {
	Source string
	Target string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("broken link in %s: %s", b.Source, b.Target)
}

// RunCheck lists navigation entries and internal page links that resolve to no page.
func RunCheck(cfg *config.Config, snap *content.Snapshot) []string {
	var problems []string
	for _, p := range nav.Check(cfg.Navigation, snap.HasURL) {
		problems = append(problems, p.String())
	}
	opts := markdown.Options{AllowRawHTML: cfg.Render.AllowRawHTML}
	for _, b := range BrokenLinks(snap, opts) {
		problems = append(problems, b.String())
	}
	return problems
}

// BrokenLinks scans every page for absolute /docs links that resolve to no page.
// Rendered HTML is preferred; pages without it are scanned from the Markdown AST.
func BrokenLinks(snap *content.Snapshot, opts markdown.Options) []BrokenLink {
	var broken []BrokenLink
	for _, page := range snap.Pages() {
		for _, target := range pageLinks(page, opts) {
			if !isDocsLink(target) {
				continue
			}
			if !snap.HasURL(stripQueryAndFragment(target)) {
				broken = append(broken, BrokenLink{Source: page.Source, Target: target})
			}
		}
	}
	return broken
}

func pageLinks(page content.DocPage, opts markdown.Options) []string {
	if page.HTML != "" {
		links, err := markdown.ExtractHTMLLinks(page.HTML)
		if err == nil {
			return links
		}
		slog.Warn("Failed to parse rendered HTML; falling back to Markdown links",
			logfields.File(page.Source), logfields.Error(err))
	}
	var out []string
	for _, l := range markdown.ExtractLinks(page.Body, opts) {
		if l.Kind == markdown.LinkKindImage {
			continue
		}
		out = append(out, l.Destination)
	}
	return out
}

func isDocsLink(target string) bool {
	return target == content.RoutePrefix || strings.HasPrefix(target, content.RoutePrefix+"/") ||
		strings.HasPrefix(target, content.RoutePrefix+"#") || strings.HasPrefix(target, content.RoutePrefix+"?")
}

func stripQueryAndFragment(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		return target[:i]
	}
	return target
}
