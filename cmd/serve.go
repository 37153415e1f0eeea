package cmd

import (
	"github.com/spf13/cobra"

	"pricelabs-dash/pricelabs"
	"pricelabs-dash/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the listings proxy and the web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		logger.Info("=== PriceLabs dashboard starting ===")
		if cfg.APIKey == "" {
			logger.Warn("[cli] PRICELABS_API_KEY is not set; upstream calls will be rejected")
		}
		logger.Info("[cli] Upstream: %s | proxy: %s | cooldown: %s",
			cfg.ListingsURL(), cfg.ProxyURL, cfg.RefreshCooldown())

		proxy := newProxy(logger)
		// The dashboard reads through the proxy route like any other client.
		src := pricelabs.NewProxyClient(cfg.ProxyURL, cfg.ViewTimeout(), logger)
		dash := newDashboard(logger, src)

		srv, err := server.New(server.Options{
			Addr:           cfg.ListenAddr,
			ProxyRateLimit: cfg.ProxyRateLimitPerMn,
		}, proxy, dash, logger)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
