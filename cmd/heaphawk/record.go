package main

import (
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/heaphawk/internal/recorder"
)

const defaultSampleFile = "heaphawk.snapshots"

func newRecordCmd() *cobra.Command {
	var (
		sampleFile        string
		sampleIntervalSec int
		sampleCount       int
		includeExp        string
		excludeExp        string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Sample every process's smaps and append to the sample file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var include, exclude *regexp.Regexp
			var err error
			if includeExp != "" {
				if include, err = regexp.Compile(includeExp); err != nil {
					return fmt.Errorf("--include-exp: %w", err)
				}
			}
			if excludeExp != "" {
				if exclude, err = regexp.Compile(excludeExp); err != nil {
					return fmt.Errorf("--exclude-exp: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r := recorder.New(sampleFile, time.Duration(sampleIntervalSec)*time.Second, sampleCount, include, exclude)
			return r.Record(ctx)
		},
	}

	cmd.Flags().StringVar(&sampleFile, "sample-file", defaultSampleFile, "path to the sample log")
	cmd.Flags().IntVar(&sampleIntervalSec, "sample-interval", 60, "seconds between ticks")
	cmd.Flags().IntVar(&sampleCount, "sample-count", 0, "number of ticks to record (0 = unbounded)")
	cmd.Flags().StringVar(&includeExp, "include-exp", "", "regex of process names to include (accepted, not yet applied)")
	cmd.Flags().StringVar(&excludeExp, "exclude-exp", "", "regex of process names to exclude (accepted, not yet applied)")

	return cmd
}
