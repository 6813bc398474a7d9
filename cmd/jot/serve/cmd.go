package serve

import (
	"github.com/andrebq/jot/internal/cmdflags"
	"github.com/andrebq/jot/internal/httpserver"
	"github.com/andrebq/jot/internal/logutil"
	"github.com/andrebq/jot/internal/stores"
	"github.com/andrebq/jot/notebook"
	"github.com/andrebq/jot/notebook/api"
	"github.com/andrebq/jot/session"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:3000"
	dataPath := "users.json"
	driver := "jsonfile"
	sessionTTL := session.DefaultTTL
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the jot web application",
		Flags: []cli.Flag{
			cmdflags.Bind(&bindAddr),
			cmdflags.Data(&dataPath),
			cmdflags.Driver(&driver),
			cmdflags.SessionTTL(&sessionTTL),
		},
		Action: func(ctx *cli.Context) error {
			log := logutil.GetOrDefault(ctx.Context)
			store, err := stores.Open(ctx.Context, driver, dataPath)
			if err != nil {
				return err
			}
			defer store.Close()
			tokens, err := session.InMemoryTokenStore(sessionTTL)
			if err != nil {
				return err
			}
			sessions := session.NewManager(tokens, sessionTTL)
			handler := api.AsHandler(notebook.New(store), sessions)
			log.Info().
				Str("driver", driver).
				Str("data", dataPath).
				Dur("session.ttl", sessionTTL).
				Msg("Notebook ready")
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}
