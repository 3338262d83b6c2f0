package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/exdoc/cmd/exdoc/commands"
	"git.home.luguber.info/inful/exdoc/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("exdoc"),
		kong.Description("Compiles documentation annotations into example manifests."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	if err := ctx.Run(&commands.Global{}, &cli); err != nil {
		fmt.Fprintln(os.Stderr, "exdoc:", err)
		os.Exit(1)
	}
}
