package history

import (
	"fmt"
	"io"
	"time"

	"github.com/ja7ad/heaphawk/pkg/types"
)

// Summary writes one line per growing process (§4.6), or a single line
// stating that none were found.
func (h *History) Summary(w io.Writer) error {
	growths := h.ProcessesSortedByGrowth()
	if len(growths) == 0 {
		_, err := fmt.Fprintln(w, "no processes with changing memory consumption found")
		return err
	}

	for _, g := range growths {
		snaps := g.Process.Snapshots()
		first, last := snaps[0], snaps[len(snaps)-1]
		duration := time.Duration(last.Timestamp-first.Timestamp) * time.Second
		perDay := types.KB(g.Delta).PerDay(duration.Seconds())

		line := fmt.Sprintf(
			"pid %d %q: +%dkB heap in %s (~%.2fkB/day, %s -> %s over %d snapshots)\n",
			g.Process.ID, g.Process.ShortName, g.Delta, formatDuration(duration), perDay,
			types.KB(g.StartSize).Humanized(), types.KB(g.EndSize).Humanized(), len(snaps),
		)
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatDuration renders a duration as "Ns", "MMm:SSs", or "HHh:MMm:SSs"
// depending on magnitude (§4.6).
func formatDuration(d time.Duration) string {
	total := int64(d.Seconds())
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours == 0 {
		return fmt.Sprintf("%02dm:%02ds", minutes, seconds)
	}
	return fmt.Sprintf("%02dh:%02dm:%02ds", hours, minutes, seconds)
}
