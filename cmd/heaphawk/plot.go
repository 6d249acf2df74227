package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ja7ad/heaphawk/internal/history"
)

func newPlotCmd() *cobra.Command {
	var sampleFile, outDir string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Emit gnuplot artifacts for growing processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(sampleFile)
			if err != nil {
				return err
			}
			defer f.Close()

			h := history.New()
			if err := h.Load(f, history.LoadAll); err != nil {
				return err
			}

			return h.Plot(outDir)
		},
	}

	cmd.Flags().StringVar(&sampleFile, "sample-file", defaultSampleFile, "path to the sample log")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory to write gnuplot.plt, per-process CSVs, and gnuplot.meta.yaml")
	return cmd
}
