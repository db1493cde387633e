package table

import "github.com/lyft/sysexconv/table/entry"

// IFace provides read access to an extracted delay table.
type IFace interface {
	// @return int the number of entries in the table.
	Len() int

	// Fetch the entry at position i in source order.
	// @param i supplies the zero based position.
	// @return the entry, or nil if i is out of range.
	Get(i int) *entry.Entry

	// Fetch all entries in source order. The returned slice may be modified by the caller.
	Entries() []*entry.Entry

	// Fetch the delay keys in source order.
	Delays() []uint64

	// Fetch the smallest and largest delay. The table is not assumed to be sorted.
	// @return false if the table is empty.
	Range() (lo uint64, hi uint64, ok bool)

	// Find the entry whose delay is nearest to targetMs after clamping the target into the
	// table's delay range. Ties go to the entry that appears first.
	// @return false if the table is empty.
	Closest(targetMs uint64) (*entry.Entry, bool)
}
