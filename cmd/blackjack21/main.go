package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Play a solo game against the dealer"`
	Serve   ServeCmd         `cmd:"" help:"Run a two-player blackjack server"`
	Join    JoinCmd          `cmd:"" help:"Join a two-player game on a server"`
}

func main() {
	// Flags can also come from a .env file; missing files are fine.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack21"),
		kong.Description("Terminal blackjack, solo or head-to-head over the network"),
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
