package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pricelabs-dash/tui"
)

var tuiLogPath string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the MPI table in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		// Logs would tear the alternate screen, so they go to a file.
		if err := os.MkdirAll(filepath.Dir(tuiLogPath), 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(tuiLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		l := newLogger(f)

		dash := newDashboard(l, newSource(l))
		return tui.Run(ctx, dash)
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogPath, "log-file", "./output/tui.log", "where the terminal UI writes its logs")
	tuiCmd.Flags().BoolVar(&direct, "direct", false, "call PriceLabs in-process instead of through the proxy")
	rootCmd.AddCommand(tuiCmd)
}
