package procfs

import (
	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// ListPIDs walks /proc for every process other than selfPID, using
// prometheus/procfs's filesystem walker rather than a hand-rolled
// readdir+isPidDir loop.
func ListPIDs(selfPID int) ([]int, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, err
	}
	procs, err := fs.AllProcs()
	if err != nil {
		return nil, err
	}

	pids := make([]int, 0, len(procs))
	for _, p := range procs {
		if p.PID == selfPID {
			continue
		}
		pids = append(pids, p.PID)
	}
	return pids, nil
}

// alive is a cheap existence probe (signal 0 delivers nothing, just
// reports whether the process can be signaled) used before attempting a
// full smaps read of a pid that might have already exited.
func alive(pid int) bool {
	return unix.Kill(pid, 0) == nil
}
