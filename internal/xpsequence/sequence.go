// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// SeqKind tags which of the four Sequence variants is populated
// (spec.md §3: "no sequence ever contains another sequence; Range is
// only used when both bounds are integers and the sequence is being
// passed through without materialization").
type SeqKind int

const (
	SeqEmpty SeqKind = iota
	SeqOne
	SeqMany
	SeqRange
)

// Sequence is the tagged container every XPath expression evaluates to.
type Sequence struct {
	kind SeqKind
	one  Item
	many []Item
	lo   int64 // SeqRange: inclusive lower bound
	hi   int64 // SeqRange: inclusive upper bound; hi < lo means empty
}

func Empty() Sequence { return Sequence{kind: SeqEmpty} }

func One(it Item) Sequence { return Sequence{kind: SeqOne, one: it} }

// Many wraps items as a Sequence. A zero- or one-length slice is
// normalized to Empty/One so that callers never have to special-case an
// accidental single-element Many.
func Many(items []Item) Sequence {
	switch len(items) {
	case 0:
		return Empty()
	case 1:
		return One(items[0])
	default:
		return Sequence{kind: SeqMany, many: items}
	}
}

// IntRange builds the O(1) integer-range sequence XPath's `to` operator
// produces, deferring materialization until a caller actually indexes or
// iterates it.
func IntRange(lo, hi int64) Sequence {
	if hi < lo {
		return Empty()
	}
	if lo == hi {
		return One(NewAtomicItem(atomic.NewInteger64(lo, atomic.SubInteger)))
	}
	return Sequence{kind: SeqRange, lo: lo, hi: hi}
}

func (s Sequence) Kind() SeqKind { return s.kind }

func (s Sequence) Len() int {
	switch s.kind {
	case SeqEmpty:
		return 0
	case SeqOne:
		return 1
	case SeqMany:
		return len(s.many)
	case SeqRange:
		if s.hi < s.lo {
			return 0
		}
		return int(s.hi-s.lo) + 1
	default:
		return 0
	}
}

func (s Sequence) IsEmpty() bool { return s.Len() == 0 }

// Get returns the i'th item (0-based).
func (s Sequence) Get(i int) (Item, bool) {
	if i < 0 || i >= s.Len() {
		return Item{}, false
	}
	switch s.kind {
	case SeqOne:
		return s.one, true
	case SeqMany:
		return s.many[i], true
	case SeqRange:
		return NewAtomicItem(atomic.NewInteger64(s.lo+int64(i), atomic.SubInteger)), true
	default:
		return Item{}, false
	}
}

// Each calls fn with each item in order, stopping as soon as fn returns
// false. Used by general comparison and other short-circuiting operators
// so a Range never needs full materialization just to find one match.
func (s Sequence) Each(fn func(Item) bool) {
	switch s.kind {
	case SeqEmpty:
		return
	case SeqOne:
		fn(s.one)
	case SeqMany:
		for _, it := range s.many {
			if !fn(it) {
				return
			}
		}
	case SeqRange:
		for v := s.lo; v <= s.hi; v++ {
			if !fn(NewAtomicItem(atomic.NewInteger64(v, atomic.SubInteger))) {
				return
			}
		}
	}
}

// Materialize expands s into a concrete item slice, paying the
// allocation cost a Range otherwise avoids.
func (s Sequence) Materialize() []Item {
	out := make([]Item, 0, s.Len())
	s.Each(func(it Item) bool {
		out = append(out, it)
		return true
	})
	return out
}

// Singleton returns s's only item, or ok=false if s does not hold exactly
// one item.
func (s Sequence) Singleton() (Item, bool) {
	if s.Len() != 1 {
		return Item{}, false
	}
	it, _ := s.Get(0)
	return it, true
}

// RequireSingleAtomic returns s's only item as an atomic value, raising
// FORG0005 for a non-singleton sequence or XPTY0004 for a singleton that
// is not atomic.
func (s Sequence) RequireSingleAtomic() (atomic.Value, *xperror.Error) {
	it, ok := s.Singleton()
	if !ok {
		return atomic.Value{}, xperror.New(xperror.FORG0005, "expected exactly one item, got %d", s.Len())
	}
	if !it.IsAtomic() {
		return atomic.Value{}, xperror.New(xperror.XPTY0004, "expected an atomic value")
	}
	return it.Atomic(), nil
}

// RequireSingleInteger returns s's only item as an xs:integer-kind value's
// underlying int64 (array/map positional lookups, among other things,
// need this repeatedly).
func (s Sequence) RequireSingleInteger() (int64, *xperror.Error) {
	v, err := s.RequireSingleAtomic()
	if err != nil {
		return 0, err
	}
	if v.Kind() != atomic.KInteger {
		return 0, xperror.New(xperror.XPTY0004, "expected xs:integer, got %v", v.Kind())
	}
	return v.BigInt().Int64(), nil
}

// EffectiveBooleanValue implements spec.md §4.2's EBV rule: empty->false;
// first item a node->true; singleton boolean->that boolean; singleton
// numeric->non-zero-and-not-NaN; singleton string-like->non-empty;
// anything else->FORG0006 (includes multi-item sequences not starting
// with a node, and function items).
func (s Sequence) EffectiveBooleanValue() (bool, *xperror.Error) {
	if s.IsEmpty() {
		return false, nil
	}
	first, _ := s.Get(0)
	if first.IsNode() {
		return true, nil
	}
	if s.Len() != 1 {
		return false, xperror.New(xperror.FORG0006, "effective boolean value of a sequence of more than one item requires the first item to be a node")
	}
	if !first.IsAtomic() {
		return false, xperror.New(xperror.FORG0006, "effective boolean value is undefined for a function item")
	}
	v := first.Atomic()
	switch {
	case v.Kind() == atomic.KBoolean:
		return v.Bool(), nil
	case v.Kind().IsNumeric():
		f := v.AsFloat64()
		return f == f && f != 0, nil
	case v.Kind().IsStringLike():
		return v.Str() != "", nil
	default:
		return false, xperror.New(xperror.FORG0006, "effective boolean value is undefined for %v", v.Kind())
	}
}

// Atomized converts every node item in s to an xs:untypedAtomic (or its
// TypedValue, when the tree store supplies one), per spec.md's
// atomization rule, leaving already-atomic items untouched and raising
// FOTY0013 for a function item.
func Atomized(s Sequence) (Sequence, *xperror.Error) {
	if s.kind == SeqRange {
		return s, nil
	}
	items := s.Materialize()
	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch it.Kind() {
		case ItemAtomic:
			out = append(out, it)
		case ItemNode:
			if tv, ok := it.Tree().TypedValue(it.Node()); ok {
				if av, ok := tv.(atomic.Value); ok {
					out = append(out, NewAtomicItem(av))
					continue
				}
			}
			out = append(out, NewAtomicItem(atomic.NewUntypedAtomic(it.Tree().StringValue(it.Node()))))
		case ItemFunction:
			return Sequence{}, xperror.New(xperror.FOTY0013, "a function item has no typed value")
		}
	}
	return Many(out), nil
}

// StringValue returns the string-value of a singleton sequence: a node's
// per the tree store's XDM rules, an atomic's canonical lexical form.
// Raises FORG0005 for a non-singleton and FOTY0013 for a function item.
func StringValue(s Sequence) (string, *xperror.Error) {
	it, ok := s.Singleton()
	if !ok {
		return "", xperror.New(xperror.FORG0005, "expected exactly one item, got %d", s.Len())
	}
	switch it.Kind() {
	case ItemAtomic:
		return it.Atomic().StringValue(), nil
	case ItemNode:
		return it.Tree().StringValue(it.Node()), nil
	default:
		return "", xperror.New(xperror.FOTY0013, "a function item has no string value")
	}
}
