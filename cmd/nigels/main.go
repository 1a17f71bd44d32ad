package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Run the Nigels game server"`
	Simulate SimulateCmd      `cmd:"" help:"Play full games against the engine and print the outcome"`
	Token    TokenCmd         `cmd:"" help:"Issue a signed player token"`
	Games    GamesCmd         `cmd:"" help:"List games stored in the database"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("nigels"),
		kong.Description("Multiplayer trick-taking card game server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
