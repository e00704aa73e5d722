package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/configvault/cmd/app/commands"
	"github.com/allisson/configvault/internal/app"
	"github.com/allisson/configvault/internal/config"
)

func getStoreCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "set",
			Usage: "Store a configuration value",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Configuration key (e.g., database/host)",
				},
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Configuration value",
				},
				&cli.BoolFlag{
					Name:    "sensitive",
					Aliases: []string{"s"},
					Value:   false,
					Usage:   "Encrypt the value at rest",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunSet(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key"),
					cmd.String("value"),
					cmd.Bool("sensitive"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "get",
			Usage: "Fetch a configuration value",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Configuration key",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunGet(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "delete",
			Usage: "Delete a configuration key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Configuration key",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunDelete(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "exists",
			Usage: "Check whether a configuration key exists and is readable",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Configuration key",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunExists(
					ctx,
					store,
					commands.DefaultIO().Writer,
					cmd.String("key"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "keys",
			Usage: "List configuration keys matching a glob pattern",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "pattern",
					Aliases: []string{"p"},
					Value:   "*",
					Usage:   "Glob pattern (* and ? wildcards)",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunKeys(
					ctx,
					store,
					commands.DefaultIO().Writer,
					cmd.String("pattern"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "metadata",
			Usage: "Print metadata for the given configuration keys",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Configuration key (repeatable)",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunMetadata(
					ctx,
					store,
					commands.DefaultIO().Writer,
					cmd.StringSlice("key"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "export",
			Usage: "Export readable configuration as dotenv text",
			Flags: []cli.Flag{
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunExport(
					ctx,
					store,
					commands.DefaultIO().Writer,
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "import",
			Usage: "Import dotenv-formatted configuration from a file or stdin",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Value:   "",
					Usage:   "Dotenv file to import (reads stdin when omitted)",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecureStore(ctx)
				if err != nil {
					return err
				}

				io := commands.DefaultIO()
				return commands.RunImport(
					ctx,
					store,
					container.Logger(),
					io.Reader,
					io.Writer,
					cmd.String("file"),
					cmd.String("user"),
				)
			},
		},
	}
}
