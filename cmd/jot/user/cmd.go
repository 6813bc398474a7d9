package user

import (
	"fmt"
	"os"

	"github.com/andrebq/jot/internal/cmdflags"
	"github.com/andrebq/jot/internal/stores"
	"github.com/andrebq/jot/notebook"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage accounts without going through the web app",
		Subcommands: []*cli.Command{
			addCmd(),
			listCmd(),
		},
	}
}

func addCmd() *cli.Command {
	dataPath := "users.json"
	driver := "jsonfile"
	var username string
	return &cli.Command{
		Name:  "add",
		Usage: "Register a new account, reading the password from the terminal",
		Flags: []cli.Flag{
			cmdflags.Data(&dataPath),
			cmdflags.Driver(&driver),
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "Username of the new account",
				Required:    true,
				Destination: &username,
			},
		},
		Action: func(ctx *cli.Context) error {
			store, err := stores.Open(ctx.Context, driver, dataPath)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Print("Password: ")
			password, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("unable to read password, cause %w", err)
			}
			return notebook.New(store).Register(ctx.Context, username, string(password))
		},
	}
}

func listCmd() *cli.Command {
	dataPath := "users.json"
	driver := "jsonfile"
	return &cli.Command{
		Name:  "list",
		Usage: "Print every account and how many notes it holds",
		Flags: []cli.Flag{
			cmdflags.Data(&dataPath),
			cmdflags.Driver(&driver),
		},
		Action: func(ctx *cli.Context) error {
			store, err := stores.Open(ctx.Context, driver, dataPath)
			if err != nil {
				return err
			}
			defer store.Close()
			users, err := store.ListUsers(ctx.Context)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%v\t%v notes\n", u.Username, len(u.Notes))
			}
			return nil
		},
	}
}
