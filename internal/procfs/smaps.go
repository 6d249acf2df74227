package procfs

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ja7ad/heaphawk/internal/snapshot"
)

// headlineRE matches a /proc/<pid>/smaps mapping headline of the §6.1
// shape. Capture groups: from, to, perms, offset, device, pathName
// (pathName is optional and may be empty; it runs to the end of the line,
// so a path with embedded spaces such as "/lib/x.so (deleted)" is kept
// whole rather than rejected).
var headlineRE = regexp.MustCompile(
	`^([0-9a-f]+)-([0-9a-f]+)\s+(\S+)\s+([0-9a-f]+)\s+(\S+)\s+\d+(?:\s+(\S.*))?$`,
)

// statLineRE matches a "Name: value kB" statistic line.
var statLineRE = regexp.MustCompile(`^(\w+):\s+(\d+)\s+(\S+)$`)

// ParseSmaps decodes the text contract of §6.1 into entries keyed by their
// From address. Unknown statistic names are ignored, not rejected.
// Duplicate From addresses overwrite, with a warning (§8 scenario 5). A
// statistic whose unit isn't kB aborts parsing for the pid entirely
// (§7.2) since the registry is kB-typed throughout.
func ParseSmaps(r io.Reader) (map[uint64]*snapshot.Entry, error) {
	entries := make(map[uint64]*snapshot.Entry)

	var current *snapshot.Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if m := headlineRE.FindStringSubmatch(line); m != nil {
			from, err := strconv.ParseUint(m[1], 16, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad from address %q", ErrBadHeadline, m[1])
			}
			to, err := strconv.ParseUint(m[2], 16, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad to address %q", ErrBadHeadline, m[2])
			}

			e := snapshot.NewEntry(from, to, m[3], 0, m[5], strings.TrimSpace(m[6]))
			if offset, err := strconv.ParseUint(m[4], 16, 64); err == nil {
				e.Offset = offset
			}

			if _, dup := entries[from]; dup {
				slog.Warn("duplicate smaps mapping, overwriting", "from", m[1])
			}
			entries[from] = e
			current = e
			continue
		}

		m := statLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if current == nil {
			return nil, ErrNoHeadline
		}
		if m[3] != "kB" {
			return nil, fmt.Errorf("%w: %s is %q", ErrBadUnit, m[1], m[3])
		}
		value, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			continue
		}
		current.SetByName(m[1], value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
