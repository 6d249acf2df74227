package snapshot

import "github.com/ja7ad/heaphawk/internal/smapsfield"

// Entry is one contiguous virtual-memory mapping of one process at one
// instant (§3). Identity within a Snapshot is From; From < To always holds
// for entries produced by the smaps parser.
type Entry struct {
	From, To    uint64
	Permissions string
	Offset      uint64
	Device      string
	PathName    string

	values [smapsfield.Count]uint64
}

// NewEntry constructs an Entry with the given headline attributes; all
// registry statistics default to zero until set via Set.
func NewEntry(from, to uint64, permissions string, offset uint64, device, pathName string) *Entry {
	return &Entry{From: from, To: to, Permissions: permissions, Offset: offset, Device: device, PathName: pathName}
}

// Get returns the value of the registry field at the given bit index.
func (e *Entry) Get(index int) uint64 {
	return e.values[index]
}

// Set assigns the value of the registry field at the given bit index.
func (e *Entry) Set(index int, v uint64) {
	e.values[index] = v
}

// SetByName assigns a registry field by its canonical smaps name. Reports
// ok=false for unrecognized names (§4.1 failure mode); the caller decides
// whether that is worth a warning.
func (e *Entry) SetByName(name string, v uint64) bool {
	f, ok := smapsfield.Lookup(name)
	if !ok {
		return false
	}
	f.Set(&e.values, v)
	return true
}

// Equal reports whether every declared field of e and other compares equal
// (§3's entry equality).
func (e *Entry) Equal(other *Entry) bool {
	if other == nil {
		return false
	}
	if e.From != other.From || e.To != other.To ||
		e.Permissions != other.Permissions || e.Offset != other.Offset ||
		e.Device != other.Device || e.PathName != other.PathName {
		return false
	}
	return e.values == other.values
}

// referenced returns the kB value of the Referenced statistic, used by
// calcHeapUsage (§4.6).
func (e *Entry) referenced() uint64 {
	f, _ := smapsfield.Lookup("Referenced")
	return f.Get(&e.values)
}

// isHeapOrAnonymous reports whether this entry should count toward heap
// usage: the kernel's "[heap]" mapping, or an unnamed (anonymous) mapping.
func (e *Entry) isHeapOrAnonymous() bool {
	return e.PathName == "[heap]" || e.PathName == ""
}
