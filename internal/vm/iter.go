// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package vm

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/bytecode"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

// iterRecord is the runtime state of one OpIterPush/OpIterStep/OpIterBody
// loop — the shared machinery behind FLWOR for, the simple-map operator,
// predicate filtering, and some/every quantification. One is pushed per
// nested loop, so a predicate inside a predicate nests its own record.
type iterRecord struct {
	kind  bytecode.IterKind
	items []xpsequence.Item
	idx   int

	slotA, slotB int // binding slots for IterForMap/quantifiers; unused (-1) otherwise

	acc []xpsequence.Item // accumulated result items for ForMap/MapSelf/Filter

	done   bool // a quantifier short-circuited
	result xpsequence.Sequence

	savedFocus bool
	hadItem    bool
	item       xpsequence.Item
	pos, size  int
}

// applyIterBody folds one loop body's result into rec per its IterKind.
func applyIterBody(rec *iterRecord, body xpsequence.Sequence) *xperror.Error {
	switch rec.kind {
	case bytecode.IterForMap, bytecode.IterMapSelf:
		rec.acc = append(rec.acc, body.Materialize()...)
	case bytecode.IterFilter:
		keep, err := predicateKeep(body, rec.idx)
		if err != nil {
			return err
		}
		if keep {
			rec.acc = append(rec.acc, rec.items[rec.idx-1])
		}
	case bytecode.IterQuantSome:
		ok, err := body.EffectiveBooleanValue()
		if err != nil {
			return err
		}
		if ok {
			rec.done = true
			rec.result = xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(true)))
		}
	case bytecode.IterQuantEvery:
		ok, err := body.EffectiveBooleanValue()
		if err != nil {
			return err
		}
		if !ok {
			rec.done = true
			rec.result = xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(false)))
		}
	}
	return nil
}

func finalizeIter(rec *iterRecord) xpsequence.Sequence {
	switch rec.kind {
	case bytecode.IterForMap, bytecode.IterMapSelf, bytecode.IterFilter:
		return xpsequence.Many(rec.acc)
	case bytecode.IterQuantSome:
		if rec.done {
			return rec.result
		}
		return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(false)))
	case bytecode.IterQuantEvery:
		if rec.done {
			return rec.result
		}
		return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(true)))
	default:
		return xpsequence.Empty()
	}
}

// predicateKeep resolves the predicate numeric-vs-boolean truth value rule
// (spec.md §3 "a numeric singleton predicate means a positional test
// against the current iteration position, anything else means effective
// boolean value"): it depends on the predicate's actual runtime result, so
// it can't be decided any earlier than here.
func predicateKeep(v xpsequence.Sequence, position int) (bool, *xperror.Error) {
	if it, ok := v.Singleton(); ok && it.IsAtomic() && it.Atomic().Kind().IsNumeric() {
		return it.Atomic().AsFloat64() == float64(position), nil
	}
	return v.EffectiveBooleanValue()
}
