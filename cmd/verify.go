package main

import (
	"context"
	"net/http"
	"time"

	"subwatch/internal/config"
	"subwatch/pkg/ctlog/crtsh"
	"subwatch/pkg/domain"
	"subwatch/pkg/logger"
	"subwatch/pkg/notify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// verifyCommand constructs the 'verify' subcommand: a one-shot end-to-end
// check of the deployment. It connects to the database, queries the
// certificate-transparency source for every configured domain and sends a
// test message through every enabled channel. Nothing is persisted.
func verifyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Checks database, crt.sh and notification channels end to end",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			failed := false

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			summaries, err := strg.DomainSummaries(ctx)
			if err != nil {
				logger.Fatal(ctx, "database check failed", zap.Error(err))
			}
			logger.Info(ctx, "database reachable", zap.Int("trackedDomains", len(summaries)))
			for _, summary := range summaries {
				logger.Info(ctx, "tracked domain",
					zap.String("domain", summary.Domain),
					zap.Int64("subdomains", summary.Subdomains),
					zap.Time("lastSeen", summary.LastSeen))
			}

			httpClient := &http.Client{Timeout: httpClientTimeout}

			source := crtsh.New(httpClient)
			for _, dom := range cfg.Monitor.Domains {
				fetchCtx, cancel := context.WithTimeout(ctx, cfg.Monitor.FetchTimeout)
				subdomains, err := source.Subdomains(fetchCtx, dom)
				cancel()
				if err != nil {
					failed = true
					logger.Error(ctx, "crt.sh check failed",
						zap.String("domain", dom), zap.Error(err))

					continue
				}
				logger.Info(ctx, "crt.sh reachable",
					zap.String("domain", dom), zap.Int("subdomains", len(subdomains)))
			}

			notifier := notify.New(channels(cfg, httpClient)...)
			deliveries := notifier.Notify(ctx, domain.Batch{
				Domain:     "subwatch.test",
				Hostnames:  []string{"verify.subwatch.test"},
				DetectedAt: time.Now(),
			})
			for _, delivery := range deliveries {
				if delivery.Err != nil {
					failed = true
					logger.Error(ctx, "channel check failed",
						zap.String("channel", delivery.Channel), zap.Error(delivery.Err))

					continue
				}
				logger.Info(ctx, "channel reachable", zap.String("channel", delivery.Channel))
			}

			if failed {
				closeStrg()
				logger.Fatal(ctx, "verification failed")
			}
		},
	}

	return cmd
}
