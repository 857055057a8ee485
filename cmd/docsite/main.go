// Command docsite indexes a directory of Markdown documentation and serves it under /docs.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Exit))
}

// run parses args and executes the selected command, returning the process exit code.
func run(args []string, stdout, stderr io.Writer, exit func(int)) int {
	cli := &commands.CLI{}
	v := version.String()
	parser, err := kong.New(cli,
		kong.Name("docsite"),
		kong.Description("Index Markdown documentation and serve it under /docs."),
		kong.Vars{"version": v},
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
	if err != nil {
		_, _ = io.WriteString(stderr, err.Error()+"\n")
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	global := &commands.Global{Version: v, Stdout: stdout, Stderr: stderr}
	if err := kctx.Run(global); err != nil {
		return derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(stderr, err)
	}
	return 0
}
