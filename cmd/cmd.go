// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// presentCommand runs a deck in the terminal.
func presentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "present",
		Aliases: []string{"p", "show"},
		Usage:   "Present a markdown deck in the terminal",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "deck"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "Serve the remote control API while presenting",
			},
			&cli.BoolFlag{
				Name:  "rehearse",
				Usage: "Record slide timings to the rehearsal database",
			},
			&cli.BoolFlag{
				Name:    "fullscreen",
				Aliases: []string{"f"},
				Usage:   "Start in fullscreen",
			},
		},
		Action: r.Present,
	}
}

// serveCommand runs a deck headless behind the remote API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a deck without a terminal UI, driven by the remote API",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "deck"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "rehearse",
				Usage: "Record slide timings to the rehearsal database",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the remote page in a browser",
			},
		},
		Action: r.Serve,
	}
}

// remoteCommand drives a running presentation over HTTP.
func remoteCommand(r *Runner) *cli.Command {
	addrFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "Remote API address (defaults to the configured host and port)",
		}
	}
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		}
	}
	simple := func(name, usage string) *cli.Command {
		return &cli.Command{
			Name:   name,
			Usage:  usage,
			Flags:  []cli.Flag{addrFlag(), jsonFlag()},
			Action: r.RemoteCommand(name),
		}
	}

	return &cli.Command{
		Name:    "remote",
		Aliases: []string{"r"},
		Usage:   "Control a running presentation",
		Commands: []*cli.Command{
			simple("next", "Advance to the next slide"),
			simple("prev", "Go back one slide"),
			simple("start", "Jump to the first slide"),
			simple("end", "Jump to the last slide"),
			{
				Name:  "goto",
				Usage: "Jump to a slide by number",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "slide"},
				},
				Flags:  []cli.Flag{addrFlag(), jsonFlag()},
				Action: r.RemoteGoto,
			},
			{
				Name:   "state",
				Usage:  "Show the current slide",
				Flags:  []cli.Flag{addrFlag(), jsonFlag()},
				Action: r.RemoteState,
			},
		},
	}
}

// outlineCommand exports a deck's structure.
func outlineCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "outline",
		Usage: "Export a deck outline",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "deck"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv or json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout (use - for the default name)",
			},
		},
		Action: r.Outline,
	}
}

// statsCommand reports rehearsal timings.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show time spent per slide in a rehearsal",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session ID (defaults to the latest session)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text or csv",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "List recent sessions instead",
			},
		},
		Action: r.Stats,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml with default settings",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the rehearsal database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}
