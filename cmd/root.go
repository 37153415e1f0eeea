package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pricelabs-dash/config"
	"pricelabs-dash/dashboard"
	"pricelabs-dash/pricelabs"
	"pricelabs-dash/utils"
)

var (
	envFiles []string
	logLevel string
	direct   bool

	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pricelabs-dash",
	Short: "PriceLabs listings proxy and MPI dashboard",
	Long: `pricelabs-dash forwards listing requests to the PriceLabs API with a
server-side key and renders the per-group Market Penetration Index averages
as a web dashboard, a terminal table or a one-shot report.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load(envFiles...)
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger = newLogger(os.Stdout)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
}

func newLogger(out io.Writer) *utils.Logger {
	return utils.NewLoggerWithConfig(utils.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: out,
	})
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newProxy wires the upstream client and the proxy shaping.
func newProxy(l *utils.Logger) *pricelabs.Proxy {
	client := pricelabs.NewClient(cfg.ListingsURL(), cfg.APIKey, cfg.UpstreamTimeout(), l)
	return pricelabs.NewProxy(client, l)
}

// newSource reaches the proxy route over HTTP, or runs it in-process with
// --direct.
func newSource(l *utils.Logger) dashboard.Source {
	if direct {
		l.Info("[cli] Using in-process proxy for %s", cfg.ListingsURL())
		return pricelabs.NewLocalSource(newProxy(l))
	}
	return pricelabs.NewProxyClient(cfg.ProxyURL, cfg.ViewTimeout(), l)
}

func newDashboard(l *utils.Logger, src dashboard.Source) *dashboard.Dashboard {
	return dashboard.New(src, l, dashboard.Options{Cooldown: cfg.RefreshCooldown()})
}
