package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mediamirror/cmd/mediamirror/commands"
	"git.home.luguber.info/inful/mediamirror/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("mediamirror"),
		kong.Description("Localize remote CMS media referenced by a statically built site."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("mediamirror %s (%s, built %s)",
			version.Version, version.GitCommit, version.BuildTime)},
	)

	if err := ctx.Run(&commands.Global{}, cli); err != nil {
		fmt.Fprintf(os.Stderr, "mediamirror: %v\n", err)
		os.Exit(1)
	}
}
