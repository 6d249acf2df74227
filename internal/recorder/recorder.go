// Package recorder drives the sampling loop (C5): it enumerates
// processes every tick, takes a fresh smaps snapshot of each, and appends
// whatever changed to the binary log (§4.5).
package recorder

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ja7ad/heaphawk/internal/procfs"
	"github.com/ja7ad/heaphawk/internal/snapshot"
)

// Recorder holds the configuration for one record run. IncludeExp and
// ExcludeExp are parsed and validated but, per §6.3, not yet applied to
// filtering — a documented no-op carried over from the original.
type Recorder struct {
	SampleFilePath string
	SampleInterval time.Duration
	SampleCount    int // 0 means unbounded

	IncludeExp *regexp.Regexp
	ExcludeExp *regexp.Regexp

	// takeFn is overridable in tests; defaults to procfs.Take.
	takeFn func(pid int, ts int64) (*snapshot.Snapshot, error)
	// listPIDsFn is overridable in tests; defaults to procfs.ListPIDs.
	listPIDsFn func(selfPID int) ([]int, error)
	// now is overridable in tests; defaults to time.Now.
	now func() time.Time
	// sleep is overridable in tests; defaults to a context-aware sleep.
	sleep func(ctx context.Context, d time.Duration) error
}

// New constructs a Recorder with production collaborators wired in.
func New(sampleFilePath string, sampleInterval time.Duration, sampleCount int, include, exclude *regexp.Regexp) *Recorder {
	return &Recorder{
		SampleFilePath: sampleFilePath,
		SampleInterval: sampleInterval,
		SampleCount:    sampleCount,
		IncludeExp:     include,
		ExcludeExp:     exclude,
		takeFn:         procfs.Take,
		listPIDsFn:     procfs.ListPIDs,
		now:            time.Now,
		sleep:          ctxSleep,
	}
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Record runs the sampling loop until ctx is cancelled or SampleCount
// ticks have elapsed (§4.5). It returns a wrapped error on fatal resource
// failure; it never calls os.Exit — that's cmd/heaphawk's job.
func (r *Recorder) Record(ctx context.Context) error {
	f, err := os.OpenFile(r.SampleFilePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenSampleFile, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := snapshot.WriteVersion(bw); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteSampleFile, err)
	}

	cache := snapshot.NewCache()
	tick := 0

	for {
		tick++
		if err := r.runTick(ctx, bw, cache, tick); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteSampleFile, err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteSampleFile, err)
		}
		if err := f.Sync(); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteSampleFile, err)
		}

		if r.SampleCount > 0 && tick >= r.SampleCount {
			return nil
		}
		if err := r.sleep(ctx, r.SampleInterval); err != nil {
			return nil
		}
	}
}

func (r *Recorder) runTick(ctx context.Context, w *bufio.Writer, cache *snapshot.Cache, tick int) error {
	pids, err := r.listPIDsFn(os.Getpid())
	if err != nil {
		slog.Warn("enumerating processes failed", "error", err)
		pids = nil
	}

	ts := r.now().Unix()
	// enumerated tracks every pid this tick's listing reported, whether or
	// not sampling it succeeded. Only a pid ABSENT from enumeration is
	// actually dead (§4.5 step 2, §7.2); a pid enumerated but whose sample
	// failed is left untouched in cache so its delta chain survives into
	// the next tick.
	enumerated := make(map[uint32]bool, len(pids))
	for _, pid := range pids {
		enumerated[uint32(pid)] = true
	}

	var total, changed, newCount int
	for _, pid := range pids {
		s, err := r.takeWithRetry(ctx, pid, ts)
		if err != nil {
			slog.Warn("sampling pid failed, skipping for this tick", "pid", pid, "error", err)
			continue
		}
		total++

		prev, hasPrev := cache.Get(s.ProcessID)
		if hasPrev && prev.Equal(s) {
			continue
		}
		if !hasPrev {
			newCount++
		}
		changed++

		if err := snapshot.WriteSnapshotBody(w, s, prev); err != nil {
			return err
		}
		cache.Put(s.ProcessID, s)
	}

	var removed int
	for _, pid := range cache.Pids() {
		if enumerated[pid] {
			continue
		}
		if err := snapshot.WriteKilledMarker(w); err != nil {
			return err
		}
		cache.Delete(pid)
		removed++
	}

	if tick == 1 {
		slog.Info("tick complete", "total", total)
	} else {
		slog.Info("tick complete", "total", total, "changed", changed, "new", newCount, "removed", removed)
	}
	return nil
}

// takeWithRetry wraps one smaps read in a bounded exponential backoff to
// absorb a transient short read (§4.5, §7.2); after the budget is
// exhausted the pid is simply skipped for this tick.
func (r *Recorder) takeWithRetry(ctx context.Context, pid int, ts int64) (*snapshot.Snapshot, error) {
	return backoff.Retry(ctx, func() (*snapshot.Snapshot, error) {
		return r.takeFn(pid, ts)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(3))
}
