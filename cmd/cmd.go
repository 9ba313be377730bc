// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand runs the web front end.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the home page in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the sqlite session database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// sessionsCommand manages stored sessions.
func sessionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Manage stored login sessions",
		Commands: []*cli.Command{
			{
				Name:   "prune",
				Usage:  "Delete expired sessions from the sqlite store",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SessionsPrune,
			},
		},
	}
}

// authCommand handles authentication helpers
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Spotify authorization helpers",
		Commands: []*cli.Command{
			{
				Name:   "url",
				Usage:  "Print the Spotify authorization URL",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthURL,
			},
		},
	}
}
