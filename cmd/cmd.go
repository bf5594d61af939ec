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

func trackIDFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:     "id",
		Usage:    "Track ID",
		Required: true,
	}
}

func userIDFlag(required bool) cli.Flag {
	return &cli.Int64Flag{
		Name:     "user-id",
		Aliases:  []string{"u"},
		Usage:    "Owning user ID",
		Required: required,
	}
}

// setupCommand handles database initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config if missing, open the database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
		},
	}
}

// userCommand handles user accounts
func userCommand(r *Runner) *cli.Command {
	lookupFlags := func(extra ...cli.Flag) []cli.Flag {
		return append([]cli.Flag{
			&cli.Int64Flag{Name: "id", Usage: "User ID"},
			&cli.StringFlag{Name: "username", Usage: "Username"},
		}, extra...)
	}

	return &cli.Command{
		Name:  "user",
		Usage: "Manage users",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Register a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Usage: "Unique username", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Password, stored as a bcrypt hash", Required: true},
				},
				Action: r.UserCreate,
			},
			{
				Name:   "show",
				Usage:  "Show a user by --id or --username",
				Flags:  lookupFlags(),
				Action: r.UserShow,
			},
			{
				Name:   "verify",
				Usage:  "Check a password for a user",
				Flags:  lookupFlags(&cli.StringFlag{Name: "password", Usage: "Password to check", Required: true}),
				Action: r.UserVerify,
			},
		},
	}
}

// trackCommand handles audio track records
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "track",
		Aliases: []string{"tr"},
		Usage:   "Manage audio tracks",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Record an uploaded audio file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "filename", Usage: "Original file name", Required: true},
					&cli.StringFlag{Name: "path", Usage: "Original file location", Required: true},
					userIDFlag(false),
					&cli.StringFlag{Name: "settings", Usage: "Processing settings as a JSON object"},
				},
				Action: r.TrackCreate,
			},
			{
				Name:   "show",
				Usage:  "Show a track",
				Flags:  []cli.Flag{trackIDFlag()},
				Action: r.TrackShow,
			},
			{
				Name:  "update",
				Usage: "Update the fields given as flags; everything else is left as is",
				Flags: []cli.Flag{
					trackIDFlag(),
					&cli.StringFlag{Name: "status", Usage: "uploaded, processing, regenerate, completed or error"},
					&cli.Int64Flag{Name: "duration", Usage: "Original duration in seconds"},
					&cli.Int64Flag{Name: "bpm", Usage: "Tempo"},
					&cli.StringFlag{Name: "key", Usage: "Musical key"},
					&cli.StringFlag{Name: "format", Usage: "Audio format"},
					&cli.Int64Flag{Name: "bitrate", Usage: "Bitrate in kbps"},
					&cli.StringSliceFlag{Name: "extended-path", Usage: "Extended version path (repeat for each version)"},
					&cli.FloatSliceFlag{Name: "extended-duration", Usage: "Extended version duration in seconds (repeat for each version)"},
					&cli.BoolFlag{Name: "clear-versions", Usage: "Remove all extended versions"},
					&cli.StringFlag{Name: "settings", Usage: "Processing settings as a JSON object; an empty string stores {}"},
					&cli.Int64Flag{Name: "version-count", Usage: "Number of versions to produce"},
					&cli.StringSliceFlag{Name: "unset", Usage: "Reset metadata to empty: duration, bpm, key, format or bitrate (repeatable)"},
				},
				Action: r.TrackUpdate,
			},
			{
				Name:  "list",
				Usage: "List a user's tracks",
				Flags: []cli.Flag{
					userIDFlag(true),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv, markdown, json",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: r.TrackList,
			},
			{
				Name:   "purge",
				Usage:  "Delete every track owned by a user",
				Flags:  []cli.Flag{userIDFlag(true)},
				Action: r.TrackPurge,
			},
		},
	}
}

// pipelineCommand drives tracks through processing
func pipelineCommand(r *Runner) *cli.Command {
	metadataFlags := []cli.Flag{
		&cli.Int64Flag{Name: "source-duration", Usage: "Detected duration of the original in seconds"},
		&cli.Int64Flag{Name: "bpm", Usage: "Detected tempo"},
		&cli.StringFlag{Name: "key", Usage: "Detected musical key"},
		&cli.StringFlag{Name: "format", Usage: "Detected audio format"},
		&cli.Int64Flag{Name: "bitrate", Usage: "Detected bitrate in kbps"},
	}

	return &cli.Command{
		Name:    "pipeline",
		Aliases: []string{"p"},
		Usage:   "Move tracks through the processing lifecycle",
		Commands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Mark a track as processing",
				Flags:  []cli.Flag{trackIDFlag()},
				Action: r.PipelineStart,
			},
			{
				Name:  "complete",
				Usage: "Record a finished run and mark the track completed",
				Flags: append([]cli.Flag{
					trackIDFlag(),
					&cli.StringFlag{Name: "path", Usage: "Extended version path", Required: true},
					&cli.FloatFlag{Name: "duration", Usage: "Extended version duration in seconds", Required: true},
				}, metadataFlags...),
				Action: r.PipelineComplete,
			},
			{
				Name:  "fail",
				Usage: "Mark a track as errored",
				Flags: []cli.Flag{
					trackIDFlag(),
					&cli.StringFlag{Name: "reason", Usage: "Failure reason for the log"},
				},
				Action: r.PipelineFail,
			},
			{
				Name:  "regenerate",
				Usage: "Queue another run for a completed or errored track",
				Flags: []cli.Flag{
					trackIDFlag(),
					&cli.StringFlag{Name: "settings", Usage: "Processing settings as a JSON object"},
				},
				Action: r.PipelineRegenerate,
			},
			{
				Name:  "add-version",
				Usage: "Append an extended version without changing status",
				Flags: []cli.Flag{
					trackIDFlag(),
					&cli.StringFlag{Name: "path", Usage: "Extended version path", Required: true},
					&cli.FloatFlag{Name: "duration", Usage: "Extended version duration in seconds", Required: true},
				},
				Action: r.PipelineAddVersion,
			},
			{
				Name:   "requeue",
				Usage:  "Queue every errored track for regeneration",
				Action: r.PipelineRequeue,
			},
		},
	}
}
