package cmd

import (
	"github.com/spf13/cobra"

	"pricelabs-dash/snapshot"
)

var (
	snapshotURL  string
	snapshotOut  string
	snapshotDark bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save a screenshot of a running dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		opts := snapshot.Options{
			URL:       cfg.DashboardURL,
			OutPath:   cfg.SnapshotPath,
			Dark:      snapshotDark,
			ChromeBin: cfg.ChromeBin,
			Timeout:   cfg.UpstreamTimeout() * 2,
		}
		if snapshotURL != "" {
			opts.URL = snapshotURL
		}
		if snapshotOut != "" {
			opts.OutPath = snapshotOut
		}
		return snapshot.New(logger).Capture(ctx, opts)
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "dashboard URL (default DASHBOARD_URL)")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "image path (default SNAPSHOT_PATH)")
	snapshotCmd.Flags().BoolVar(&snapshotDark, "dark", false, "capture the dark theme")
	rootCmd.AddCommand(snapshotCmd)
}
