// Package commands implements the docsite kong subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/gitinfo"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

// Global is bound into every command's Run.
type Global struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default docsite.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve ServeCmd `cmd:"" help:"Serve the documentation site"`
	Index IndexCmd `cmd:"" help:"Index the content root and write the page manifest"`
	Check CheckCmd `cmd:"" help:"Check navigation and internal links against the content"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.LogLevelInfo
	if c.Verbose {
		level = config.LogLevelDebug
	}
	slog.SetDefault(config.NewLogger(os.Stderr, level, config.LogFormatText))
	return nil
}

// loadConfig reads the configuration and reinstalls the default logger from its logging section.
// --verbose always wins over the configured level.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if c.Verbose {
		level = config.LogLevelDebug
	}
	w := g.Stderr
	if w == nil {
		w = os.Stderr
	}
	slog.SetDefault(config.NewLogger(w, level, cfg.Logging.Format))
	return cfg, nil
}

// newIndexer builds the content indexer described by cfg.
func newIndexer(cfg *config.Config) *content.Indexer {
	return content.NewIndexer(cfg.Content.Root,
		content.WithExtensions(cfg.Content.Extensions...),
		content.WithCollisionPolicy(cfg.Content.Collisions),
		content.WithRenderer(markdown.NewRenderer(markdown.Options{AllowRawHTML: cfg.Render.AllowRawHTML})),
		content.WithRevision(gitinfo.Func(cfg.Content.Root)),
		content.WithLogger(slog.Default()),
	)
}

func stdout(g *Global) io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}
