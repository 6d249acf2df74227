// Package smapsfield declares the fixed, ordered table of per-mapping
// numeric statistics that the snapshot codec deltas against. The table
// mirrors the kernel's smaps labels and never reorders an existing entry
// across a format version: a field's bit index is part of the wire format.
package smapsfield

// Field describes one delta-encodable statistic of an Entry: its canonical
// smaps name, its stable bit index in [0,31], and accessors onto an
// Entry-shaped value array.
type Field struct {
	Name  string
	Index int
	Get   func(values *[22]uint64) uint64
	Set   func(values *[22]uint64, v uint64)
}

func at(i int) (func(*[22]uint64) uint64, func(*[22]uint64, uint64)) {
	return func(values *[22]uint64) uint64 { return values[i] },
		func(values *[22]uint64, v uint64) { values[i] = v }
}

func field(name string, index int) Field {
	get, set := at(index)
	return Field{Name: name, Index: index, Get: get, Set: set}
}

// Count is the number of registry-driven statistics per entry.
const Count = 22

// Fields is the process-wide-immutable registry, in bit-index order.
// Adding a field in a later format version must only append; existing
// indices must never change. THPeligible and inode are intentionally
// absent (see DESIGN.md).
var Fields = [Count]Field{
	field("Size", 0),
	field("KernelPageSize", 1),
	field("MMUPageSize", 2),
	field("Rss", 3),
	field("Pss", 4),
	field("Pss_Dirty", 5),
	field("Shared_Clean", 6),
	field("Shared_Dirty", 7),
	field("Private_Clean", 8),
	field("Private_Dirty", 9),
	field("Referenced", 10),
	field("Anonymous", 11),
	field("KSM", 12),
	field("LazyFree", 13),
	field("AnonHugePages", 14),
	field("ShmemPmdMapped", 15),
	field("Shared_Hugetlb", 16),
	field("Private_Hugetlb", 17),
	field("Swap", 18),
	field("SwapPss", 19),
	field("Locked", 20),
	field("FilePmdMapped", 21),
}

// Lookup finds a field by its canonical smaps name. Unknown names are
// expected (forward compatibility, §4.1) and are reported via ok=false,
// never as an error.
func Lookup(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ByIndex returns the field declared at bit index i, for iteration in
// flag order during encode/decode.
func ByIndex(i int) Field {
	return Fields[i]
}
