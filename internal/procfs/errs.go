package procfs

import "errors"

var (
	// ErrBadHeadline means a smaps line that should have been a mapping
	// headline didn't match the expected shape (§6.1).
	ErrBadHeadline = errors.New("procfs: malformed smaps headline")

	// ErrBadUnit means a statistic line's unit was not "kB" (§6.1, §7.2).
	ErrBadUnit = errors.New("procfs: statistic line without kB unit")

	// ErrNoHeadline means a statistic line was encountered before any
	// mapping headline, so there is nothing to attach it to.
	ErrNoHeadline = errors.New("procfs: statistic line before any headline")
)
