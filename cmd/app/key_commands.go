package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/configvault/cmd/app/commands"
	"github.com/allisson/configvault/internal/app"
	"github.com/allisson/configvault/internal/config"
	cryptoService "github.com/allisson/configvault/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "rotate-key",
			Usage: "Switch the default encryption key (existing payloads stay put)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "new-key-id",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Key ID to use for new encryptions",
				},
				userFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				encryptor, err := container.Encryptor(ctx)
				if err != nil {
					return err
				}
				audit, err := container.AuditLogger(ctx)
				if err != nil {
					return err
				}

				return commands.RunRotateKey(
					ctx,
					encryptor,
					audit,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("new-key-id"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "rewrap",
			Usage: "Re-encrypt every sensitive entry under a new key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "new-key-id",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Key ID to re-encrypt under",
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

				return commands.RunRewrap(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("new-key-id"),
					cmd.String("user"),
				)
			},
		},
		{
			Name:  "list-keys",
			Usage: "List the enabled encryption keys",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				encryptor, err := container.Encryptor(ctx)
				if err != nil {
					return err
				}

				return commands.RunListKeys(ctx, encryptor, commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "create-provider-key",
			Usage: "Generate a new provider key wrapped by the KMS keeper",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Key ID (generated when omitted)",
				},
				&cli.StringFlag{
					Name:     "kms-key-uri",
					Required: true,
					Usage:    "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateProviderKey(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("kms-key-uri"),
					cfg.ProviderKeys,
				)
			},
		},
	}
}
