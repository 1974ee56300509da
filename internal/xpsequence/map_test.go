// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
)

func TestMapPutGetRemove(t *testing.T) {
	m := NewMap()
	m.Put(atomic.NewString("a"), One(intItem(1)))
	m.Put(atomic.NewString("b"), One(intItem(2)))

	v, ok := m.Get(atomic.NewString("a"))
	if !ok || v.Len() != 1 {
		t.Fatalf("Get(a) = %+v, %v", v, ok)
	}
	if _, ok := m.Get(atomic.NewString("missing")); ok {
		t.Fatal("Get(missing) should fail")
	}

	without := m.Remove(atomic.NewString("a"))
	if without.Size() != 1 {
		t.Fatalf("Remove(a).Size() = %d, want 1", without.Size())
	}
	if m.Size() != 2 {
		t.Fatal("Remove must not mutate the original map")
	}
}

func TestMapKeyDeduplicatesAcrossNumericSubtypes(t *testing.T) {
	m := NewMap()
	m.Put(atomic.NewInteger64(1, atomic.SubInteger), One(NewAtomicItem(atomic.NewString("first"))))
	m.Put(atomic.NewDouble(1.0), One(NewAtomicItem(atomic.NewString("second"))))
	if m.Size() != 1 {
		t.Fatalf("expected integer 1 and double 1.0 to collapse to one key, got size %d", m.Size())
	}
	v, ok := m.Get(atomic.NewInteger64(1, atomic.SubInteger))
	if !ok {
		t.Fatal("Get(1) should find the merged entry")
	}
	s, _ := StringValue(v)
	if s != "second" {
		t.Fatalf("later Put should win on key collision, got %q", s)
	}
}

func TestMapKeysPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Put(atomic.NewString("z"), One(intItem(1)))
	m.Put(atomic.NewString("a"), One(intItem(2)))
	m.Put(atomic.NewString("m"), One(intItem(3)))
	var got []string
	for _, k := range m.Keys() {
		got = append(got, k.Str())
	}
	if diff := deep.Equal(got, []string{"z", "a", "m"}); diff != nil {
		t.Fatalf("Keys() order mismatch: %v", diff)
	}
}

func TestMapMerge(t *testing.T) {
	a := NewMap()
	a.Put(atomic.NewString("x"), One(intItem(1)))
	b := NewMap()
	b.Put(atomic.NewString("x"), One(intItem(99)))
	b.Put(atomic.NewString("y"), One(intItem(2)))

	merged := a.Merge(b)
	if merged.Size() != 2 {
		t.Fatalf("Merge size = %d, want 2", merged.Size())
	}
	v, _ := merged.Get(atomic.NewString("x"))
	n, _ := v.RequireSingleInteger()
	if n != 99 {
		t.Fatalf("Merge should let other's value win on collision, got %d", n)
	}
}

func TestMapAsFunction(t *testing.T) {
	m := NewMap()
	m.Put(atomic.NewString("k"), One(intItem(7)))

	got, err := m.Call([]Sequence{One(NewAtomicItem(atomic.NewString("k")))})
	if err != nil {
		t.Fatalf("Call(k) error: %v", err)
	}
	n, _ := got.RequireSingleInteger()
	if n != 7 {
		t.Fatalf("Call(k) = %d, want 7", n)
	}

	missing, err := m.Call([]Sequence{One(NewAtomicItem(atomic.NewString("nope")))})
	if err != nil {
		t.Fatalf("Call(missing) should not error, got %v", err)
	}
	if !missing.IsEmpty() {
		t.Fatal("Call(missing key) should return the empty sequence")
	}

	if _, err := m.Call(nil); !xperror.Is(err, xperror.XPTY0004) {
		t.Fatalf("Call() with wrong arity should raise XPTY0004, got %v", err)
	}
}
