// Package cmdflags holds the flag constructors shared by the jot
// subcommands, so serve and the user tools agree on names and env vars.
package cmdflags

import (
	"time"

	"github.com/urfave/cli/v2"
)

func Data(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "data",
		Aliases:     []string{"d"},
		Usage:       "Path to the data file (jsonfile driver) or database (sqlite driver)",
		EnvVars:     []string{"JOT_DATA"},
		Value:       *out,
		Destination: out,
	}
}

func Driver(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "driver",
		Usage:       "Storage driver, either jsonfile or sqlite",
		EnvVars:     []string{"JOT_DRIVER"},
		Value:       *out,
		Destination: out,
	}
}

func Bind(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind the web application to",
		EnvVars:     []string{"JOT_BIND"},
		Value:       *out,
		Destination: out,
	}
}

func SessionTTL(out *time.Duration) cli.Flag {
	return &cli.DurationFlag{
		Name:        "session-ttl",
		Usage:       "Fixed lifetime of a login session",
		EnvVars:     []string{"JOT_SESSION_TTL"},
		Value:       *out,
		Destination: out,
	}
}
