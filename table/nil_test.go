package table

import (
	"testing"
	"unsafe"
)

func TestNil(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		_ = NewNil()
	})
	if allocs != 0 {
		t.Errorf("NewNil should not alloc got: %f", allocs)
	}
	if unsafe.Sizeof(Nil{}) != 0 {
		t.Errorf("Nil should have size 0 got: %d", unsafe.Sizeof(Nil{}))
	}

	n := NewNil()
	if _, ok := n.Closest(20); ok {
		t.Error("Nil.Closest should report no entry")
	}
	if _, _, ok := n.Range(); ok {
		t.Error("Nil.Range should report no delays")
	}
	if n.Len() != 0 || len(n.Entries()) != 0 || len(n.Delays()) != 0 {
		t.Error("Nil should be empty")
	}
}
