package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/smith3v/impostor/pkg/bot/handlers"
	"github.com/smith3v/impostor/pkg/config"
	"github.com/smith3v/impostor/pkg/game"
	"github.com/smith3v/impostor/pkg/logger"
	"github.com/spf13/cobra"
)

func newBotCmd(a *app) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Host pass-the-phone matches in Telegram chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token != "" {
				config.AppConfig.Telegram.Token = token
			}
			if config.AppConfig.Telegram.Token == "" {
				return errors.New("a Telegram token is required: set telegram.token or --token")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			games := game.NewManager(a.store, nil, nil)
			h := handlers.New(a.store, games)

			b, err := bot.New(config.AppConfig.Telegram.Token, bot.WithDefaultHandler(h.DefaultHandler))
			if err != nil {
				logger.Error("failed to create bot", "error", err)
				return err
			}
			h.Register(b)

			go games.StartSweeper(ctx, func(ctx context.Context, chatID int64) {
				if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "The match ended after a long pause. Send /play to deal a new one.",
				}); err != nil {
					logger.Error("failed to notify expired match", "chat_id", chatID, "error", err)
				}
			})

			logger.Info("starting bot")
			b.Start(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Telegram bot token, overrides telegram.token (env: IMPOSTOR_TOKEN)")
	bindEnv(cmd.Flags())
	return cmd
}
