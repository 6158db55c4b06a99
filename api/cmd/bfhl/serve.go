package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bfhl/api/internal/handle"
	"bfhl/api/internal/httpserver"
	"bfhl/api/internal/telegram"
)

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /bfhl and GET /health, plus the Telegram bot when configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			d, err := newDispatcher(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			mux := http.NewServeMux()
			h := handle.New(d, cfg.MaxBodyBytes, log.Named("http"))

			if token := strings.TrimSpace(cfg.TelegramBotToken); token != "" {
				bot, err := tgbotapi.NewBotAPI(token)
				if err != nil {
					return fmt.Errorf("telegram: %w", err)
				}
				r := &telegram.Router{Bot: bot, Dispatcher: d, Log: log.Named("telegram")}

				if base := strings.TrimSpace(cfg.WebhookURL); base != "" {
					if _, err := telegram.RegisterWebhook(bot, token, base); err != nil {
						return fmt.Errorf("telegram webhook: %w", err)
					}
					updates := make(chan tgbotapi.Update, 64)
					mux.Handle(telegram.WebhookPath(token), telegram.WebhookHandler(updates, log.Named("telegram")))
					g.Go(func() error { r.Consume(ctx, updates); return nil })
					log.Info("telegram webhook mode", zap.String("bot", bot.Self.UserName), zap.String("path", telegram.WebhookPath(token)))
				} else {
					if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
						log.Warn("telegram: delete webhook", zap.Error(err))
					}
					g.Go(func() error { r.Poll(ctx, bot); return nil })
					log.Info("telegram polling mode", zap.String("bot", bot.Self.UserName))
				}
			}

			h.Register(mux)
			srv := httpserver.New(httpserver.Options{
				Addr:            cfg.Addr(),
				AllowedOrigins:  cfg.CORSAllowedOrigins,
				ShutdownTimeout: cfg.ShutdownTimeout,
				Identity:        cfg.OfficialEmail,
			}, mux, log.Named("http"))
			g.Go(func() error { return srv.Run(ctx) })

			return g.Wait()
		},
	}
}
