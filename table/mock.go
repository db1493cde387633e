package table

import "github.com/lyft/sysexconv/table/entry"

// Mock provides a Table that can be grown in place for testing
type Mock struct {
	*Table
}

// NewMock initializes a new empty Mock
func NewMock() (m *Mock) {
	m = &Mock{
		Table: New(),
	}

	return
}

// Add appends an entry for `delayMs` carrying `data` verbatim
func (m *Mock) Add(delayMs uint64, data ...string) *Mock {
	m.Table.entries = append(m.Table.entries, entry.New(delayMs, data...))

	return m
}
