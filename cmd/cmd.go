// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recon/internal/formatter"
)

func remoteFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "remote",
		Usage: "Base URL of a recon server to use instead of the local database",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
		Value:   formatter.FormatText,
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the export to this file instead of stdout",
	}
}

// setupCommand handles database setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recently applied migration",
				Action: r.SetupRollback,
			},
			{
				Name:   "status",
				Usage:  "List migrations and whether they are applied",
				Action: r.SetupStatus,
			},
		},
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the identity reconciliation HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// identifyCommand reconciles a single identity.
func identifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "identify",
		Usage: "Reconcile an email and/or phone number and print the consolidated contact",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Email address",
			},
			&cli.StringFlag{
				Name:  "phone",
				Usage: "Phone number",
			},
			remoteFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the /identify response body as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Identify,
	}
}

// clusterCommand inspects stored clusters.
func clusterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cluster",
		Usage: "Inspect identity clusters",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the cluster containing a contact",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Any contact id in the cluster",
						Required: true,
					},
					remoteFlag(),
					formatFlag(),
					outputFlag(),
				},
				Action: r.ClusterShow,
			},
			{
				Name:  "list",
				Usage: "List clusters, oldest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of clusters",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Number of clusters to skip",
					},
					formatFlag(),
					outputFlag(),
				},
				Action: r.ClusterList,
			},
		},
	}
}

// importCommand bulk-reconciles a CSV file.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Reconcile every row of a CSV file with email and phoneNumber columns",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to the CSV file",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent workers (overrides import.workers)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Rows per second (overrides import.rate_limit)",
			},
			remoteFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output per-row results as JSON",
			},
		},
		Action: r.Import,
	}
}

// statusCommand checks a running server.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check the health of a recon server",
		Flags: []cli.Flag{
			remoteFlag(),
		},
		Action: r.Status,
	}
}

// browseCommand returns the top-level TUI command.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Browse clusters in an interactive terminal UI",
		Action:  r.Browse,
	}
}
