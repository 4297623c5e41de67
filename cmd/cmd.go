// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/fstat/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatUsage() string {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return "Output format: " + strings.Join(names, ", ")
}

// globalFlags are read by [Runner.Before] for every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:    "locale",
			Aliases: []string{"l"},
			Usage:   "Message locale (en, ru); defaults to $LANG then locale.default",
			Sources: cli.EnvVars("FSTAT_LANG", "LANG"),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// setupCommand handles local setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Local setup tasks",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// lookupCommand resolves one player and prints their stats
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lookup",
		Aliases: []string{"stats"},
		Usage:   "Look up FACEIT stats for a Steam ID or profile URL",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   formatUsage(),
				Value:   string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "page",
				Aliases: []string{"p"},
				Usage:   "Saved Steam profile page (HTML file) or profile URL to take the Steam ID from",
			},
			&cli.BoolFlag{
				Name:  "card",
				Usage: "Render a terminal card instead of --format",
			},
		},
		Action: r.Lookup,
	}
}

// batchCommand looks up many players from a file
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Look up every Steam ID in a file (one per line, - for stdin)",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent lookups (defaults to batch.workers)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Lookups started per second (defaults to batch.rate_limit)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Batch,
	}
}

// serveCommand runs the HTTP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve stats and embeddable blocks over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (defaults to server.port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive lookups.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for player lookups",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/fstat-tui.log",
			},
		},
		Action: r.TUI,
	}
}
