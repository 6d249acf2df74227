// Package snapshot implements the delta-encoded, append-only snapshot log:
// the entry codec, the snapshot codec, and the previous-snapshot cache that
// both the recorder and the history reader thread through it. This is the
// core of heaphawk (§1, §5-§7 of SPEC_FULL.md).
package snapshot

import (
	"fmt"
	"io"
	"sort"
)

// ErrKilledPid is not a real error: it's returned by readRecord to signal
// that the record just consumed was a killed marker rather than a body.
// Callers distinguish it with errors.Is.
var ErrKilledPid = fmt.Errorf("snapshot: killed marker")

// Snapshot is the set of entries of one process at one instant (§3).
type Snapshot struct {
	ProcessID uint32
	Timestamp int64
	Name      string

	entries map[uint64]*Entry
}

// New constructs an empty Snapshot for a process. ProcessID must not equal
// the killed-marker sentinel 0xFFFFFFFF (§3 invariant).
func New(processID uint32, timestamp int64, name string) (*Snapshot, error) {
	if processID == KilledMarker {
		return nil, fmt.Errorf("snapshot: processID %#x is reserved for the killed marker", processID)
	}
	return &Snapshot{
		ProcessID: processID,
		Timestamp: timestamp,
		Name:      name,
		entries:   make(map[uint64]*Entry),
	}, nil
}

// Put inserts or overwrites the entry at its From address. A duplicate From
// within one snapshot is a parser warning, not an error: the last write
// wins (§3, §8 scenario 5).
func (s *Snapshot) Put(e *Entry) {
	if s.entries == nil {
		s.entries = make(map[uint64]*Entry)
	}
	s.entries[e.From] = e
}

// FindEntryByFrom looks up an entry by its start address (§4.4).
func (s *Snapshot) FindEntryByFrom(from uint64) (*Entry, bool) {
	e, ok := s.entries[from]
	return e, ok
}

// Entries returns the snapshot's entries ordered by From address (§3).
func (s *Snapshot) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// Len reports the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// Equal implements §3's snapshot equality: same pid, same name, same
// entries in address order. Timestamp is deliberately ignored — this is
// the comparison the recorder uses to suppress identical samples.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil {
		return false
	}
	if s.ProcessID != other.ProcessID || s.Name != other.Name {
		return false
	}
	a, b := s.Entries(), other.Entries()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// CalcHeapUsage sums Referenced (kB) across entries whose PathName is
// "[heap]" or empty (§4.6). Returned as signed so growth deltas can go
// negative without wrapping.
func (s *Snapshot) CalcHeapUsage() int64 {
	var total int64
	for _, e := range s.entries {
		if e.isHeapOrAnonymous() {
			total += int64(e.referenced())
		}
	}
	return total
}

// WriteKilledMarker writes the sentinel that terminates the previous-
// snapshot relationship for a pid (§4.3).
func WriteKilledMarker(w io.Writer) error {
	return writeUint32(w, KilledMarker)
}

// WriteSnapshotBody writes s against an optional previous snapshot of the
// same pid, matching entries by From address (§4.3). name is included only
// when prev is nil — the first body for this pid since start-of-file or
// since the last killed marker.
func WriteSnapshotBody(w io.Writer, s *Snapshot, prev *Snapshot) error {
	if err := writeUint32(w, s.ProcessID); err != nil {
		return err
	}
	if prev == nil {
		if err := writeString(w, s.Name); err != nil {
			return err
		}
	}
	if err := writeInt64(w, s.Timestamp); err != nil {
		return err
	}

	entries := s.Entries()
	if err := writeInt32(w, int32(len(entries))); err != nil {
		return err
	}

	for _, e := range entries {
		var prevEntry *Entry
		if prev != nil {
			prevEntry, _ = prev.FindEntryByFrom(e.From)
		}
		if err := WriteEntry(w, e, prevEntry); err != nil {
			return err
		}
	}
	return nil
}

// readRecord decodes the next record from r: either a killed marker (pid is
// 0, err wraps ErrKilledPid) or a full snapshot body (decoded against
// lookup's cached previous snapshot for that pid). lookup receives the
// decoded pid and must return the previous Snapshot for that pid, if any.
// Used by Reader, which also resolves which pid a killed marker refers to.
func readRecord(r io.Reader, lookup func(pid uint32) (*Snapshot, bool)) (*Snapshot, uint32, error) {
	pid, err := readUint32(r)
	if err != nil {
		return nil, 0, err
	}
	if pid == KilledMarker {
		return nil, 0, fmt.Errorf("%w: pid unknown to caller until resolved", ErrKilledPid)
	}

	prev, hasPrev := lookup(pid)

	var name string
	if !hasPrev {
		name, err = readString(r)
		if err != nil {
			return nil, pid, err
		}
	} else {
		name = prev.Name
	}

	timestamp, err := readInt64(r)
	if err != nil {
		return nil, pid, err
	}

	count, err := readInt32(r)
	if err != nil {
		return nil, pid, err
	}
	if count < 0 {
		return nil, pid, fmt.Errorf("snapshot: negative entry count %d", count)
	}

	s, err := New(pid, timestamp, name)
	if err != nil {
		return nil, pid, err
	}

	for i := int32(0); i < count; i++ {
		e, err := ReadEntry(r, prev)
		if err != nil {
			return nil, pid, err
		}
		s.Put(e)
	}

	return s, pid, nil
}
