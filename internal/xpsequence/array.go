// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// Array is an ordered, 1-indexed sequence of sequences (spec.md §3). Like
// Map, an Array is itself a Function of arity 1: `$a(n)` invokes the
// array to fetch member n, raising FOAY0001 out of bounds.
type Array struct {
	members []Sequence
}

func NewArray(members []Sequence) *Array {
	return &Array{members: append([]Sequence(nil), members...)}
}

func (a *Array) Size() int { return len(a.members) }

// Get returns member n (1-based).
func (a *Array) Get(n int) (Sequence, *xperror.Error) {
	if n < 1 || n > len(a.members) {
		return Sequence{}, xperror.New(xperror.FOAY0001, "array index %d out of bounds (size %d)", n, len(a.members))
	}
	return a.members[n-1], nil
}

// Put returns a new Array with member n replaced (arrays are immutable;
// array:put builds a copy).
func (a *Array) Put(n int, value Sequence) (*Array, *xperror.Error) {
	if n < 1 || n > len(a.members) {
		return nil, xperror.New(xperror.FOAY0001, "array index %d out of bounds (size %d)", n, len(a.members))
	}
	out := NewArray(a.members)
	out.members[n-1] = value
	return out, nil
}

// Append returns a new Array with value added as the last member.
func (a *Array) Append(value Sequence) *Array {
	out := NewArray(a.members)
	out.members = append(out.members, value)
	return out
}

// Members returns the array's members in order.
func (a *Array) Members() []Sequence {
	return append([]Sequence(nil), a.members...)
}

func (a *Array) Arity() int       { return 1 }
func (a *Array) Name() names.Name { return names.Name{} }

func (a *Array) Call(args []Sequence) (Sequence, *xperror.Error) {
	if len(args) != 1 {
		return Sequence{}, xperror.New(xperror.XPTY0004, "array lookup expects 1 argument, got %d", len(args))
	}
	idx, err := args[0].RequireSingleInteger()
	if err != nil {
		return Sequence{}, err
	}
	return a.Get(int(idx))
}
