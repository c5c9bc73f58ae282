package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/sqrtlabs/contentfeed/cmd/contentfeed/commands"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{}
	parser := kong.Parse(&cli,
		kong.Name("contentfeed"),
		kong.Description("Serve and generate the SQRT Labs feed, sitemap, pages and preview images."),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
		kong.UsageOnError(),
	)
	err := parser.Run(&cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
