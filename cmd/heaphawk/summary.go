package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ja7ad/heaphawk/internal/history"
)

// growthPerDayHighlightThreshold is the kB/day threshold above which a
// growth line is colorized as a likely leak, not a hard classification.
const growthPerDayHighlightThreshold = 1_000_000.0

func newSummaryCmd() *cobra.Command {
	var sampleFile string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-process heap growth since the sample log began",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(sampleFile)
			if err != nil {
				return err
			}
			defer f.Close()

			h := history.New()
			if err := h.Load(f, history.LoadFirstAndLast); err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := h.Summary(&buf); err != nil {
				return err
			}
			printColorized(cmd.OutOrStdout(), buf.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&sampleFile, "sample-file", defaultSampleFile, "path to the sample log")
	return cmd
}

// printColorized prints each summary line, in bold red when its
// "~N.NNkB/day" figure reaches growthPerDayHighlightThreshold, in the teacher pack's
// idiom of coloring threshold-crossing stats (fatih/color) rather than
// hand-rolled ANSI escapes.
func printColorized(w interface{ Write([]byte) (int, error) }, text string) {
	warn := color.New(color.FgRed, color.Bold)

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		perDay, ok := extractPerDay(line)
		if ok && perDay >= growthPerDayHighlightThreshold {
			fmt.Fprintln(w, warn.Sprint(line))
		} else {
			fmt.Fprintln(w, line)
		}
	}
}

func extractPerDay(line string) (float64, bool) {
	start := strings.Index(line, "~")
	if start < 0 {
		return 0, false
	}
	end := strings.Index(line[start:], "kB/day")
	if end < 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(line[start+1:start+end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
