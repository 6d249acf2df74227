package procfs

import (
	"fmt"
	"os"
	"strings"
)

// cmdlineLimit caps how much of /proc/<pid>/cmdline is read, per §6.1.
const cmdlineLimit = 1023

// ReadCmdline reads /proc/<pid>/cmdline (truncated to cmdlineLimit bytes)
// and joins its NUL-separated argv entries with spaces, preserving argv
// entries that themselves contain spaces (§3).
func ReadCmdline(pid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return "", err
	}
	if len(data) > cmdlineLimit {
		data = data[:cmdlineLimit]
	}
	parts := strings.Split(strings.Trim(string(data), "\x00"), "\x00")
	return strings.Join(parts, " "), nil
}
