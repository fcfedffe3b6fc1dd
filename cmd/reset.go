package main

import (
	"context"
	"strings"

	"subwatch/internal/config"
	"subwatch/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resetCommand constructs the 'reset' subcommand that clears persisted
// subdomains, either for one domain or for the whole store. The next sweep
// then re-alerts everything it sees for the cleared domains.
func resetCommand(cfg *config.Config) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Deletes persisted subdomains (all, or one domain with --domain)",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			domain = strings.ToLower(strings.TrimSpace(domain))

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			var (
				deleted int64
				err     error
			)
			if domain != "" {
				deleted, err = strg.DeleteSubdomainsByDomain(ctx, domain)
			} else {
				deleted, err = strg.DeleteAllSubdomains(ctx)
			}
			if err != nil {
				logger.Fatal(ctx, "could not reset subdomains", zap.Error(err))
			}

			logger.Info(ctx, "reset finished",
				zap.String("domain", domain), zap.Int64("deleted", deleted))
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Only delete records for this domain")

	return cmd
}
