package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pricelabs-dash/services"
	"pricelabs-dash/storage"
)

var (
	reportSort string
	reportDesc bool
	reportCSV  bool
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the grouped MPI summary once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		dash := newDashboard(logger, newSource(logger))
		if err := dash.Load(ctx); err != nil {
			return fmt.Errorf("load listings: %w", err)
		}

		if reportSort != "" {
			if err := dash.Sort(reportSort); err != nil {
				return err
			}
			if reportDesc {
				_ = dash.Sort(reportSort)
			}
		}

		report, err := dash.Report()
		if err != nil {
			return err
		}

		insights := services.NewInsightService(logger)
		insights.SetOutput(cmd.OutOrStdout())
		insights.Print(report)

		if !reportCSV {
			return nil
		}
		path := reportOut
		if path == "" {
			path = cfg.CSVOutputPath
		}
		var w storage.SummaryWriter
		w, err = storage.NewCSVWriter(path)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.WriteSummary(report.Groups); err != nil {
			return err
		}
		logger.Info("[cli] Summary saved to %s", path)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportSort, "sort", "", "sort column: group, count or mpi_next_{7,30,60,90,120}")
	reportCmd.Flags().BoolVar(&reportDesc, "desc", false, "sort descending")
	reportCmd.Flags().BoolVar(&reportCSV, "csv", false, "also write the summary as CSV")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "CSV path (default CSV_OUTPUT_PATH)")
	reportCmd.Flags().BoolVar(&direct, "direct", false, "call PriceLabs in-process instead of through the proxy")
	rootCmd.AddCommand(reportCmd)
}
