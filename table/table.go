package table

import (
	"github.com/lyft/sysexconv/table/entry"
)

func absDiff(lhs uint64, rhs uint64) uint64 {
	if lhs > rhs {
		return lhs - rhs
	} else {
		return rhs - lhs
	}
}

// Implementation of IFace built once by the extractor.
type Table struct {
	entries []*entry.Entry
}

func New(entries ...*entry.Entry) (t *Table) {
	t = &Table{
		entries: make([]*entry.Entry, len(entries)),
	}
	copy(t.entries, entries)

	return
}

func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) Get(i int) *entry.Entry {
	if i < 0 || i >= len(t.entries) {
		return nil
	}
	return t.entries[i]
}

func (t *Table) Entries() []*entry.Entry {
	ret := make([]*entry.Entry, len(t.entries))
	copy(ret, t.entries)
	return ret
}

func (t *Table) Delays() []uint64 {
	ret := make([]uint64, 0, len(t.entries))
	for _, e := range t.entries {
		ret = append(ret, e.DelayMs)
	}
	return ret
}

func (t *Table) Range() (lo uint64, hi uint64, ok bool) {
	return delayRange(t.entries)
}

func (t *Table) Closest(targetMs uint64) (*entry.Entry, bool) {
	lo, hi, ok := delayRange(t.entries)
	if !ok {
		return nil, false
	}
	if targetMs < lo {
		targetMs = lo
	}
	if targetMs > hi {
		targetMs = hi
	}

	closest := t.entries[0]
	minDiff := absDiff(closest.DelayMs, targetMs)
	for _, e := range t.entries[1:] {
		if diff := absDiff(e.DelayMs, targetMs); diff < minDiff {
			minDiff = diff
			closest = e
		}
	}
	return closest, true
}

func delayRange(entries []*entry.Entry) (lo uint64, hi uint64, ok bool) {
	if len(entries) == 0 {
		return 0, 0, false
	}
	lo, hi = entries[0].DelayMs, entries[0].DelayMs
	for _, e := range entries[1:] {
		if e.DelayMs < lo {
			lo = e.DelayMs
		}
		if e.DelayMs > hi {
			hi = e.DelayMs
		}
	}
	return lo, hi, true
}
