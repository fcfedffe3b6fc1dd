package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"subwatch/internal/config"
	"subwatch/internal/monitor"
	"subwatch/internal/ops"
	"subwatch/pkg/ctlog/crtsh"
	"subwatch/pkg/logger"
	"subwatch/pkg/notify"
	"subwatch/pkg/notify/discord"
	"subwatch/pkg/notify/telegram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// httpClientTimeout is a hard cap on outbound requests (crt.sh, Telegram,
// Discord), on top of the per-call context deadlines.
const httpClientTimeout = time.Minute

func setupOpsServer(ctx context.Context, cfg *config.Config) func(ctx context.Context) {
	server := ops.NewServer(ops.NewOptions(cfg))

	go func() {
		logger.Info(ctx, "starting ops server...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start ops server", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping ops server...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop ops server", zap.Error(err))
		}
	}
}

// channels assembles the enabled notification channels from the
// configuration.
func channels(cfg *config.Config, httpClient *http.Client) []notify.Channel {
	var chans []notify.Channel
	if cfg.TelegramEnabled() {
		chans = append(chans, telegram.New(httpClient, cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}
	if cfg.DiscordEnabled() {
		chans = append(chans, discord.New(httpClient, cfg.Discord.WebhookURL))
	}

	return chans
}

func monitorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Starts the subdomain monitoring loop and the ops server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stopOpsServer := setupOpsServer(ctx, cfg)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			httpClient := &http.Client{Timeout: httpClientTimeout}

			m := monitor.New(
				crtsh.New(httpClient),
				strg,
				notify.New(channels(cfg, httpClient)...),
				monitor.Options{
					Domains:      cfg.Monitor.Domains,
					Interval:     cfg.Interval(),
					PacingDelay:  cfg.Monitor.PacingDelay,
					FetchTimeout: cfg.Monitor.FetchTimeout,
				},
			)

			// blocks until interrupted
			_ = m.Run(ctx)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopOpsServer(shutdownCtx)
		},
	}

	return cmd
}
