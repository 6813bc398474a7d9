package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/jot/cmd/jot/serve"
	"github.com/andrebq/jot/cmd/jot/user"
	"github.com/andrebq/jot/internal/logutil"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	var debug bool
	app := &cli.App{
		Name:  "jot",
		Usage: "A tiny multi-user notebook for your private network",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "Enable debug logging",
				EnvVars:     []string{"JOT_DEBUG"},
				Destination: &debug,
			},
		},
		Before: func(*cli.Context) error {
			logutil.Setup(debug)
			return nil
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			user.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
