// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
)

func intItem(i int64) Item {
	return NewAtomicItem(atomic.NewInteger64(i, atomic.SubInteger))
}

func TestEmptyOneMany(t *testing.T) {
	if !Empty().IsEmpty() {
		t.Fatal("Empty() should be empty")
	}
	one := One(intItem(1))
	if one.Len() != 1 || one.Kind() != SeqOne {
		t.Fatalf("One() wrong shape: %+v", one)
	}
	if got := Many(nil); got.Kind() != SeqEmpty {
		t.Fatalf("Many(nil) should normalize to Empty, got kind %v", got.Kind())
	}
	if got := Many([]Item{intItem(1)}); got.Kind() != SeqOne {
		t.Fatalf("Many(1 item) should normalize to One, got kind %v", got.Kind())
	}
	many := Many([]Item{intItem(1), intItem(2), intItem(3)})
	if many.Kind() != SeqMany || many.Len() != 3 {
		t.Fatalf("Many() wrong shape: %+v", many)
	}
}

func TestIntRange(t *testing.T) {
	if got := IntRange(5, 3); !got.IsEmpty() {
		t.Fatalf("IntRange(5,3) should be empty, got %+v", got)
	}
	single := IntRange(7, 7)
	if single.Kind() != SeqOne {
		t.Fatalf("IntRange(7,7) should normalize to One, got kind %v", single.Kind())
	}
	r := IntRange(1, 5)
	if r.Kind() != SeqRange || r.Len() != 5 {
		t.Fatalf("IntRange(1,5) wrong shape: %+v", r)
	}
	it, ok := r.Get(2)
	if !ok || it.Atomic().BigInt().Int64() != 3 {
		t.Fatalf("IntRange(1,5).Get(2) = %+v, %v, want 3", it, ok)
	}
}

func TestSequenceEachShortCircuits(t *testing.T) {
	r := IntRange(1, 1_000_000)
	var seen []int64
	r.Each(func(it Item) bool {
		seen = append(seen, it.Atomic().BigInt().Int64())
		return len(seen) < 3
	})
	want := []int64{1, 2, 3}
	if diff := deep.Equal(seen, want); diff != nil {
		t.Fatalf("Each did not short-circuit: %v", diff)
	}
}

func TestSingleton(t *testing.T) {
	if _, ok := Empty().Singleton(); ok {
		t.Fatal("Empty().Singleton() should fail")
	}
	if _, ok := Many([]Item{intItem(1), intItem(2)}).Singleton(); ok {
		t.Fatal("Many(2 items).Singleton() should fail")
	}
	it, ok := One(intItem(9)).Singleton()
	if !ok || it.Atomic().BigInt().Int64() != 9 {
		t.Fatalf("One(9).Singleton() = %+v, %v", it, ok)
	}
}

func TestRequireSingleAtomic(t *testing.T) {
	if _, err := Many([]Item{intItem(1), intItem(2)}).RequireSingleAtomic(); !xperror.Is(err, xperror.FORG0005) {
		t.Fatalf("expected FORG0005, got %v", err)
	}
	v, err := One(intItem(4)).RequireSingleAtomic()
	if err != nil || v.BigInt().Int64() != 4 {
		t.Fatalf("RequireSingleAtomic() = %+v, %v", v, err)
	}
}

func TestRequireSingleInteger(t *testing.T) {
	n, err := One(intItem(42)).RequireSingleInteger()
	if err != nil || n != 42 {
		t.Fatalf("RequireSingleInteger() = %d, %v, want 42", n, err)
	}
	str := One(NewAtomicItem(atomic.NewString("nope")))
	if _, err := str.RequireSingleInteger(); !xperror.Is(err, xperror.XPTY0004) {
		t.Fatalf("expected XPTY0004 for non-integer, got %v", err)
	}
}

func TestEffectiveBooleanValue(t *testing.T) {
	cases := []struct {
		name string
		seq  Sequence
		want bool
		code xperror.Code
	}{
		{"empty", Empty(), false, ""},
		{"true-bool", One(NewAtomicItem(atomic.NewBoolean(true))), true, ""},
		{"false-bool", One(NewAtomicItem(atomic.NewBoolean(false))), false, ""},
		{"nonzero-int", One(intItem(1)), true, ""},
		{"zero-int", One(intItem(0)), false, ""},
		{"nonempty-string", One(NewAtomicItem(atomic.NewString("x"))), true, ""},
		{"empty-string", One(NewAtomicItem(atomic.NewString(""))), false, ""},
		{"multi-non-node", Many([]Item{intItem(1), intItem(2)}), false, xperror.FORG0006},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.seq.EffectiveBooleanValue()
			if c.code != "" {
				if !xperror.Is(err, c.code) {
					t.Fatalf("EffectiveBooleanValue() err = %v, want %v", err, c.code)
				}
				return
			}
			if err != nil || got != c.want {
				t.Fatalf("EffectiveBooleanValue() = %v, %v, want %v", got, err, c.want)
			}
		})
	}
}

func TestAtomizedPassesThroughAtomics(t *testing.T) {
	in := Many([]Item{intItem(1), intItem(2)})
	out, err := Atomized(in)
	if err != nil {
		t.Fatalf("Atomized() error: %v", err)
	}
	if diff := deep.Equal(out.Materialize(), in.Materialize()); diff != nil {
		t.Fatalf("Atomized() changed atomic items: %v", diff)
	}
}

func TestAtomizedRejectsFunctionItem(t *testing.T) {
	fn := &StaticFunction{FnArity: 0, Body: func(args []Sequence) (Sequence, *xperror.Error) { return Empty(), nil }}
	in := One(NewFunctionItem(fn))
	if _, err := Atomized(in); !xperror.Is(err, xperror.FOTY0013) {
		t.Fatalf("expected FOTY0013, got %v", err)
	}
}

func TestStringValueAtomic(t *testing.T) {
	s, err := StringValue(One(NewAtomicItem(atomic.NewString("hello"))))
	if err != nil || s != "hello" {
		t.Fatalf("StringValue() = %q, %v, want %q", s, err, "hello")
	}
	if _, err := StringValue(Empty()); !xperror.Is(err, xperror.FORG0005) {
		t.Fatalf("expected FORG0005 for empty, got %v", err)
	}
}
