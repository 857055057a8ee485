package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// IndexCmd implements the 'index' command.
type IndexCmd struct {
	Root   string `help:"Content root (overrides content.root)" type:"path"`
	Output string `short:"o" help:"Manifest file to write (stdout when empty or -)"`
}

func (c *IndexCmd) Run(g *Global, root *CLI) error {
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
	slog.Info("Indexed content",
		logfields.Path(cfg.Content.Root),
		logfields.Count(snap.Len()),
		logfields.Hash(snap.Hash()))
	for _, col := range snap.Collisions() {
		slog.Warn("Slug collision",
			logfields.Slug(col.Slug),
			slog.String("kept", col.Kept),
			slog.String("shadowed", col.Shadowed))
	}

	return writeManifest(stdout(g), c.Output, snap)
}

func writeManifest(out io.Writer, path string, snap *content.Snapshot) error {
	if path == "" || path == "-" {
		return content.WriteManifest(out, snap)
	}
	f, err := os.Create(path)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create manifest").
			WithContext("path", path).Build()
	}
	if err := content.WriteManifest(f, snap); err != nil {
		_ = f.Close()
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write manifest").
			WithContext("path", path).Build()
	}
	if err := f.Close(); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to close manifest").
			WithContext("path", path).Build()
	}
	slog.Info("Wrote manifest", logfields.Path(path))
	return nil
}
