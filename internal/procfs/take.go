package procfs

import (
	"fmt"
	"os"

	"github.com/ja7ad/heaphawk/internal/snapshot"
)

// Take reads /proc/<pid>/cmdline and /proc/<pid>/smaps and composes them
// into a fresh Snapshot timestamped ts. It is the collaborator the
// recorder loop calls once per pid per tick (§4.5 step 2).
func Take(pid int, ts int64) (*snapshot.Snapshot, error) {
	if !alive(pid) {
		return nil, fmt.Errorf("procfs: pid %d not alive", pid)
	}

	name, err := ReadCmdline(pid)
	if err != nil {
		return nil, fmt.Errorf("procfs: reading cmdline for pid %d: %w", pid, err)
	}

	f, err := os.Open(fmt.Sprintf("/proc/%d/smaps", pid))
	if err != nil {
		return nil, fmt.Errorf("procfs: opening smaps for pid %d: %w", pid, err)
	}
	defer f.Close()

	entries, err := ParseSmaps(f)
	if err != nil {
		return nil, fmt.Errorf("procfs: parsing smaps for pid %d: %w", pid, err)
	}

	s, err := snapshot.New(uint32(pid), ts, name)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		s.Put(e)
	}
	return s, nil
}
