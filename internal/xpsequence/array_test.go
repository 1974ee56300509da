// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"testing"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
)

func TestArrayGetPutOutOfBounds(t *testing.T) {
	a := NewArray([]Sequence{One(intItem(1)), One(intItem(2)), One(intItem(3))})

	v, err := a.Get(1)
	if err != nil {
		t.Fatalf("Get(1) error: %v", err)
	}
	if n, _ := v.RequireSingleInteger(); n != 1 {
		t.Fatalf("Get(1) = %d, want 1 (1-based indexing)", n)
	}

	if _, err := a.Get(0); !xperror.Is(err, xperror.FOAY0001) {
		t.Fatalf("Get(0) should raise FOAY0001, got %v", err)
	}
	if _, err := a.Get(4); !xperror.Is(err, xperror.FOAY0001) {
		t.Fatalf("Get(4) should raise FOAY0001, got %v", err)
	}

	updated, err := a.Put(2, One(intItem(99)))
	if err != nil {
		t.Fatalf("Put(2) error: %v", err)
	}
	v2, _ := updated.Get(2)
	if n, _ := v2.RequireSingleInteger(); n != 99 {
		t.Fatalf("Put(2, 99).Get(2) = %d, want 99", n)
	}
	orig, _ := a.Get(2)
	if n, _ := orig.RequireSingleInteger(); n != 2 {
		t.Fatal("Put must not mutate the original array")
	}
}

func TestArrayAppend(t *testing.T) {
	a := NewArray(nil)
	b := a.Append(One(intItem(1))).Append(One(intItem(2)))
	if b.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", b.Size())
	}
	if a.Size() != 0 {
		t.Fatal("Append must not mutate the original array")
	}
}

func TestArrayAsFunction(t *testing.T) {
	a := NewArray([]Sequence{One(intItem(10)), One(intItem(20))})
	got, err := a.Call([]Sequence{One(NewAtomicItem(atomic.NewInteger64(2, atomic.SubInteger)))})
	if err != nil {
		t.Fatalf("Call(2) error: %v", err)
	}
	if n, _ := got.RequireSingleInteger(); n != 20 {
		t.Fatalf("Call(2) = %d, want 20", n)
	}
	if _, err := a.Call([]Sequence{One(NewAtomicItem(atomic.NewInteger64(5, atomic.SubInteger)))}); !xperror.Is(err, xperror.FOAY0001) {
		t.Fatalf("Call(5) out of bounds should raise FOAY0001, got %v", err)
	}
}
