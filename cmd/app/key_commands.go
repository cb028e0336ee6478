package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/pastecrypt/cmd/app/commands"
	"github.com/allisson/pastecrypt/internal/app"
	"github.com/allisson/pastecrypt/internal/config"
)

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-seed",
			Usage: "Generate a data key to seed a new keyring via KEYRING_SEED",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Data key ID (e.g., key-2026-01-01)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI used to wrap the key (defaults to KMS_KEY_URI)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				kmsKeyURI := cmd.String("kms-key-uri")
				if kmsKeyURI == "" {
					kmsKeyURI = cfg.KMSKeyURI
				}

				return commands.RunCreateSeed(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					kmsKeyURI,
				)
			},
		},
		{
			Name:  "keyring-init",
			Usage: "Create the keyring file from KEYRING_SEED if it does not exist",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyringUseCase, err := container.KeyringUseCase()
				if err != nil {
					return err
				}

				return commands.RunKeyringInit(
					ctx,
					keyringUseCase,
					container.Clock(),
					commands.DefaultIO().Writer,
					cfg.KeyringSeed,
					cfg.KeyRotationIntervalDays,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "keyring-status",
			Usage: "Show key ids and rotation state of the keyring file",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunKeyringStatus(
					ctx,
					container.KeyringRepository(),
					container.Clock(),
					commands.DefaultIO().Writer,
					cfg.KeyRotationIntervalDays,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-key",
			Usage: "Generate a new data key and make it active",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyringUseCase, err := container.KeyringUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateKey(
					ctx,
					keyringUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.KeyringSeed,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-key-if-due",
			Usage: "Rotate the active data key when it is older than the rotation interval",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "days",
					Aliases: []string{"d"},
					Value:   -1,
					Usage:   "Rotation interval in days (defaults to KEY_ROTATION_INTERVAL_DAYS, 0 disables)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyringUseCase, err := container.KeyringUseCase()
				if err != nil {
					return err
				}

				days := int(cmd.Int("days"))
				if days < 0 {
					days = cfg.KeyRotationIntervalDays
				}

				return commands.RunRotateKeyIfDue(
					ctx,
					keyringUseCase,
					container.Clock(),
					commands.DefaultIO().Writer,
					cfg.KeyringSeed,
					days,
					cmd.String("format"),
				)
			},
		},
	}
}
