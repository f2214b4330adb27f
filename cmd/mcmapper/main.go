// mcmapper renders a Minecraft Java Edition world to a zoomable tile image.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/bwkimmel/mcmapper/commands"
	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&commands.Render{}, "")
	subcommands.Register(&commands.Inspect{}, "")
	subcommands.Register(&commands.Compact{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
