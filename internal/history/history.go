// Package history implements the offline reader side (C6): loading a
// sample log into per-process timelines, computing growth, and rendering
// both a text summary and gnuplot plot artifacts (§4.6, §6.4).
package history

import (
	"fmt"
	"io"
	"sort"

	"github.com/ja7ad/heaphawk/internal/snapshot"
)

// LoadMode controls how much of each process's timeline is retained.
type LoadMode int

const (
	// LoadAll keeps every decoded snapshot per process; required by Plot.
	LoadAll LoadMode = iota
	// LoadFirstAndLast keeps only the running first and last snapshot per
	// process, discarding intermediates as later ones arrive. This is a
	// permitted optimization (§4.6): it changes nothing Summary observes.
	LoadFirstAndLast
)

// Process is one pid's timeline of snapshots, keyed by timestamp.
type Process struct {
	ID        uint32
	Name      string
	ShortName string

	snapshots map[int64]*snapshot.Snapshot
	order     []int64
}

func newProcess(id uint32, name string) *Process {
	return &Process{ID: id, Name: name, ShortName: shortName(name), snapshots: make(map[int64]*snapshot.Snapshot)}
}

func shortName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}

func (p *Process) insert(s *snapshot.Snapshot, mode LoadMode) {
	if mode == LoadFirstAndLast && len(p.order) >= 2 {
		// Keep first, replace last.
		lastTS := p.order[len(p.order)-1]
		delete(p.snapshots, lastTS)
		p.order = p.order[:len(p.order)-1]
	}
	if _, exists := p.snapshots[s.Timestamp]; !exists {
		p.order = append(p.order, s.Timestamp)
	}
	p.snapshots[s.Timestamp] = s
}

// Snapshots returns the process's retained snapshots ordered by
// timestamp, ascending.
func (p *Process) Snapshots() []*snapshot.Snapshot {
	sorted := append([]int64(nil), p.order...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make([]*snapshot.Snapshot, 0, len(sorted))
	for _, ts := range sorted {
		out = append(out, p.snapshots[ts])
	}
	return out
}

// History is the full set of processes loaded from a sample log.
type History struct {
	processes map[uint32]*Process
}

// New constructs an empty History.
func New() *History {
	return &History{processes: make(map[uint32]*Process)}
}

// Load drives the snapshot.Reader until EOF, threading the cache as each
// record updates it, and builds per-process timelines (§4.6).
func (h *History) Load(r io.Reader, mode LoadMode) error {
	rd, err := snapshot.NewReader(r)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	for {
		s, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}

		p, ok := h.processes[s.ProcessID]
		if !ok {
			p = newProcess(s.ProcessID, s.Name)
			h.processes[s.ProcessID] = p
		}
		p.insert(s, mode)
	}
	return nil
}

// Processes returns all loaded processes, pid order unspecified.
func (h *History) Processes() []*Process {
	out := make([]*Process, 0, len(h.processes))
	for _, p := range h.processes {
		out = append(out, p)
	}
	return out
}

// Growth is one process's heap-usage change between its first and last
// retained snapshot.
type Growth struct {
	Process   *Process
	StartSize int64
	EndSize   int64
	Delta     int64
}

// ProcessesSortedByGrowth implements §4.6's derived operation: processes
// with at least two snapshots and positive growth, sorted descending by
// delta. Ties are broken by ascending pid, resolving §9's open question
// about sort stability with a deterministic tiebreaker.
func (h *History) ProcessesSortedByGrowth() []*Growth {
	var out []*Growth
	for _, p := range h.processes {
		snaps := p.Snapshots()
		if len(snaps) < 2 {
			continue
		}
		start := snaps[0].CalcHeapUsage()
		end := snaps[len(snaps)-1].CalcHeapUsage()
		if end <= start {
			continue
		}
		out = append(out, &Growth{Process: p, StartSize: start, EndSize: end, Delta: end - start})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Delta != out[j].Delta {
			return out[i].Delta > out[j].Delta
		}
		return out[i].Process.ID < out[j].Process.ID
	})
	return out
}
