package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// palette is the fixed 5-color cycle gnuplot line styles use (§6.4).
var palette = []string{"#0060ad", "#ad6000", "#60ad00", "#adad00", "#00adad"}

type plotMeta struct {
	PID          uint32 `yaml:"pid"`
	ShortName    string `yaml:"short_name"`
	StartTime    int64  `yaml:"start_time"`
	EndTime      int64  `yaml:"end_time"`
	PaletteIndex int    `yaml:"palette_index"`
}

// Plot emits process_<pid>.csv for every process processesSortedByGrowth
// includes, a gnuplot.plt script referencing them, and a gnuplot.meta.yaml
// sidecar describing what was plotted (§6.4; the yaml sidecar is new,
// supplementing the original with a domain-stack-friendly index of the
// artifacts it just wrote).
func (h *History) Plot(dir string) error {
	growths := h.ProcessesSortedByGrowth()

	var script strings.Builder
	script.WriteString("set xlabel \"time (s)\"\n")
	script.WriteString("set ylabel \"heap (kB)\"\n")

	var metas []plotMeta

	for i, g := range growths {
		idx := (i + 1) % len(palette)

		csvPath := filepath.Join(dir, fmt.Sprintf("process_%d.csv", g.Process.ID))
		if err := writeProcessCSV(csvPath, g); err != nil {
			return err
		}

		script.WriteString(fmt.Sprintf("set style line %d linecolor rgb '%s'\n", i+1, palette[idx]))

		snaps := g.Process.Snapshots()
		metas = append(metas, plotMeta{
			PID:          g.Process.ID,
			ShortName:    g.Process.ShortName,
			StartTime:    snaps[0].Timestamp,
			EndTime:      snaps[len(snaps)-1].Timestamp,
			PaletteIndex: idx,
		})
	}

	if len(growths) == 0 {
		script.WriteString("# no processes with positive growth to plot\n")
	} else {
		script.WriteString("plot ")
		for i, g := range growths {
			if i > 0 {
				script.WriteString(", \\\n     ")
			}
			title := strings.ReplaceAll(g.Process.ShortName, "_", `\_`)
			script.WriteString(fmt.Sprintf(
				"'process_%d.csv' using 1:2 with lines linestyle %d title '%s'",
				g.Process.ID, i+1, title,
			))
		}
		script.WriteString("\n")
	}

	if err := os.WriteFile(filepath.Join(dir, "gnuplot.plt"), []byte(script.String()), 0o644); err != nil {
		return err
	}

	metaBytes, err := yaml.Marshal(metas)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "gnuplot.meta.yaml"), metaBytes, 0o644)
}

func writeProcessCSV(path string, g *Growth) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	snaps := g.Process.Snapshots()
	first := snaps[0].Timestamp
	for _, s := range snaps {
		if _, err := fmt.Fprintf(f, "%d,%d\n", s.Timestamp-first, s.CalcHeapUsage()); err != nil {
			return err
		}
	}
	return nil
}
