// Command mdimages lists the images referenced by Markdown, HTML and notebook
// documents and prints makefile dependency rules for them.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	_ "github.com/joho/godotenv/autoload"

	"git.home.luguber.info/inful/mdimages/cmd/mdimages/commands"
	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("mdimages"),
		kong.Description("Find the images referenced by documents and derive makefile dependencies."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, parser, &cli)
	stop()

	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}

func run(ctx context.Context, parser *kong.Context, cli *commands.CLI) error {
	g, err := cli.Setup(ctx, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	if err := parser.Run(g, cli); err != nil {
		return err
	}
	return g.Finish()
}
