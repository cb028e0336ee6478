package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/pastecrypt/cmd/app/commands"
	"github.com/allisson/pastecrypt/internal/app"
	"github.com/allisson/pastecrypt/internal/config"
)

func getPasteCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "rewrap-paste",
			Usage: "Re-encrypt a paste and its messages under the active data key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "paste-id",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Paste ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				if _, err := container.LoadKeyring(ctx); err != nil {
					return err
				}

				pasteUseCase, err := container.PasteUseCase()
				if err != nil {
					return err
				}

				return commands.RunRewrapPaste(
					ctx,
					pasteUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("paste-id"),
					cmd.String("format"),
				)
			},
		},
	}
}
