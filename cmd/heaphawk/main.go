package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "heaphawk",
		Short: "Per-host memory telemetry collector and offline analyzer",
		Long: `heaphawk samples /proc/<pid>/smaps for every process on a host and
appends a delta-encoded, append-only binary log of what changed since the
previous sample. The log can later be summarized or plotted offline.

* GitHub: https://github.com/ja7ad/heaphawk`,
	}

	root.AddCommand(newRecordCmd())
	root.AddCommand(newSummaryCmd())
	root.AddCommand(newPlotCmd())

	return root
}
