package table

import "github.com/lyft/sysexconv/table/entry"

// Implementation of IFace for a conversion that has not produced a table yet.
type Nil struct{}

func NewNil() (n *Nil) {
	n = &Nil{}

	return
}

func (n *Nil) Len() int { return 0 }

func (n *Nil) Get(i int) *entry.Entry { return nil }

func (n *Nil) Entries() []*entry.Entry {
	return []*entry.Entry{}
}

func (n *Nil) Delays() []uint64 {
	return []uint64{}
}

func (n *Nil) Range() (lo uint64, hi uint64, ok bool) { return 0, 0, false }

func (n *Nil) Closest(targetMs uint64) (*entry.Entry, bool) { return nil, false }
