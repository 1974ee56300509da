// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package vm

import (
	"sort"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xpast"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func (m *Machine) evalBinary(a, b xpsequence.Sequence, op xpast.BinaryOp) (xpsequence.Sequence, *xperror.Error) {
	switch op {
	case xpast.OpGeneralEq, xpast.OpGeneralNe, xpast.OpGeneralLt, xpast.OpGeneralLe, xpast.OpGeneralGt, xpast.OpGeneralGe:
		return m.generalCompare(a, b, op)
	case xpast.OpValueEq, xpast.OpValueNe, xpast.OpValueLt, xpast.OpValueLe, xpast.OpValueGt, xpast.OpValueGe:
		return m.valueCompare(a, b, op)
	case xpast.OpNodeIs:
		return nodeIs(a, b)
	case xpast.OpNodePrecedes, xpast.OpNodeFollows:
		return nodeOrderCompare(a, b, op)
	case xpast.OpConcat:
		return stringConcat(a, b)
	case xpast.OpRange:
		return rangeOp(a, b)
	case xpast.OpAdd, xpast.OpSub, xpast.OpMul, xpast.OpDiv, xpast.OpIDiv, xpast.OpMod:
		return arithOp(a, b, op)
	case xpast.OpUnion, xpast.OpIntersect, xpast.OpExcept:
		return setOp(a, b, op)
	}
	return xpsequence.Sequence{}, xperror.New(xperror.XPST0003, "unsupported binary operator %v", op)
}

func generalToValueOp(op xpast.BinaryOp) (atomic.Op, bool) {
	switch op {
	case xpast.OpGeneralEq:
		return atomic.OpEq, true
	case xpast.OpGeneralNe:
		return atomic.OpNe, true
	case xpast.OpGeneralLt:
		return atomic.OpLt, true
	case xpast.OpGeneralLe:
		return atomic.OpLe, true
	case xpast.OpGeneralGt:
		return atomic.OpGt, true
	case xpast.OpGeneralGe:
		return atomic.OpGe, true
	}
	return 0, false
}

func valueToAtomicOp(op xpast.BinaryOp) (atomic.Op, bool) {
	switch op {
	case xpast.OpValueEq:
		return atomic.OpEq, true
	case xpast.OpValueNe:
		return atomic.OpNe, true
	case xpast.OpValueLt:
		return atomic.OpLt, true
	case xpast.OpValueLe:
		return atomic.OpLe, true
	case xpast.OpValueGt:
		return atomic.OpGt, true
	case xpast.OpValueGe:
		return atomic.OpGe, true
	}
	return 0, false
}

func toArithOp(op xpast.BinaryOp) (atomic.ArithOp, bool) {
	switch op {
	case xpast.OpAdd:
		return atomic.OpAdd, true
	case xpast.OpSub:
		return atomic.OpSub, true
	case xpast.OpMul:
		return atomic.OpMul, true
	case xpast.OpDiv:
		return atomic.OpDiv, true
	case xpast.OpIDiv:
		return atomic.OpIDiv, true
	case xpast.OpMod:
		return atomic.OpMod, true
	}
	return 0, false
}

// generalCompare implements the general comparison operators: existentially
// quantified over every pairing of atomized left/right items, false (never
// an error) if either side atomizes to the empty sequence.
func (m *Machine) generalCompare(a, b xpsequence.Sequence, op xpast.BinaryOp) (xpsequence.Sequence, *xperror.Error) {
	aAtomized, err := xpsequence.Atomized(a)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	bAtomized, err := xpsequence.Atomized(b)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if aAtomized.IsEmpty() || bAtomized.IsEmpty() {
		return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(false))), nil
	}
	cmpOp, ok := generalToValueOp(op)
	if !ok {
		return xpsequence.Sequence{}, xperror.New(xperror.XPST0003, "bad general comparison operator")
	}
	found := false
	var firstErr *xperror.Error
	aAtomized.Each(func(ai xpsequence.Item) bool {
		bAtomized.Each(func(bi xpsequence.Item) bool {
			ok, cerr := atomic.Compare(ai.Atomic(), bi.Atomic(), cmpOp, m.ctx.DefaultCollation, m.ctx.ImplicitTimezoneMinutes)
			if cerr != nil {
				firstErr = cerr
				return false
			}
			if ok {
				found = true
				return false
			}
			return true
		})
		return firstErr == nil && !found
	})
	if firstErr != nil {
		return xpsequence.Sequence{}, firstErr
	}
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(found))), nil
}

// valueCompare implements the value comparison operators (eq, ne, lt, ...):
// both operands must atomize to at most one item; either side empty yields
// the empty sequence, not a boolean.
func (m *Machine) valueCompare(a, b xpsequence.Sequence, op xpast.BinaryOp) (xpsequence.Sequence, *xperror.Error) {
	aa, err := xpsequence.Atomized(a)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	ba, err := xpsequence.Atomized(b)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if aa.IsEmpty() || ba.IsEmpty() {
		return xpsequence.Empty(), nil
	}
	av, err := aa.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	bv, err := ba.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	cmpOp, ok := valueToAtomicOp(op)
	if !ok {
		return xpsequence.Sequence{}, xperror.New(xperror.XPST0003, "bad value comparison operator")
	}
	res, cerr := atomic.Compare(av, bv, cmpOp, m.ctx.DefaultCollation, m.ctx.ImplicitTimezoneMinutes)
	if cerr != nil {
		return xpsequence.Sequence{}, cerr
	}
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(res))), nil
}

func nodeIs(a, b xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if a.IsEmpty() || b.IsEmpty() {
		return xpsequence.Empty(), nil
	}
	ai, ok := a.Singleton()
	if !ok || !ai.IsNode() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "'is' requires a single node operand")
	}
	bi, ok := b.Singleton()
	if !ok || !bi.IsNode() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "'is' requires a single node operand")
	}
	same := ai.Tree() == bi.Tree() && ai.Tree().SameNode(ai.Node(), bi.Node())
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(same))), nil
}

func nodeOrderCompare(a, b xpsequence.Sequence, op xpast.BinaryOp) (xpsequence.Sequence, *xperror.Error) {
	if a.IsEmpty() || b.IsEmpty() {
		return xpsequence.Empty(), nil
	}
	ai, ok := a.Singleton()
	if !ok || !ai.IsNode() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "<< / >> require a single node operand")
	}
	bi, ok := b.Singleton()
	if !ok || !bi.IsNode() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "<< / >> require a single node operand")
	}
	if ai.Tree() != bi.Tree() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "<< / >> require operands from the same document")
	}
	c := ai.Tree().DocumentOrder(ai.Node(), bi.Node())
	result := c < 0
	if op == xpast.OpNodeFollows {
		result = c > 0
	}
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(result))), nil
}

func stringOrEmpty(s xpsequence.Sequence) (string, *xperror.Error) {
	atomized, err := xpsequence.Atomized(s)
	if err != nil {
		return "", err
	}
	if atomized.IsEmpty() {
		return "", nil
	}
	v, err := atomized.RequireSingleAtomic()
	if err != nil {
		return "", err
	}
	return v.StringValue(), nil
}

func stringConcat(a, b xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	as, err := stringOrEmpty(a)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	bs, err := stringOrEmpty(b)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewString(as + bs))), nil
}

func rangeOp(a, b xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if a.IsEmpty() || b.IsEmpty() {
		return xpsequence.Empty(), nil
	}
	lo, err := a.RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	hi, err := b.RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return xpsequence.IntRange(lo, hi), nil
}

func arithOp(a, b xpsequence.Sequence, op xpast.BinaryOp) (xpsequence.Sequence, *xperror.Error) {
	if a.IsEmpty() || b.IsEmpty() {
		return xpsequence.Empty(), nil
	}
	av, err := a.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	bv, err := b.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	aop, ok := toArithOp(op)
	if !ok {
		return xpsequence.Sequence{}, xperror.New(xperror.XPST0003, "bad arithmetic operator")
	}
	res, aerr := atomic.Arith(av, bv, aop)
	if aerr != nil {
		return xpsequence.Sequence{}, aerr
	}
	return xpsequence.One(xpsequence.NewAtomicItem(res)), nil
}

func requireNodes(s xpsequence.Sequence) ([]xpsequence.Item, *xperror.Error) {
	items := s.Materialize()
	for _, it := range items {
		if !it.IsNode() {
			return nil, xperror.New(xperror.XPTY0004, "union/intersect/except require node sequences")
		}
	}
	return items, nil
}

func containsNode(set []xpsequence.Item, x xpsequence.Item) bool {
	for _, y := range set {
		if x.Tree() == y.Tree() && x.Tree().SameNode(x.Node(), y.Node()) {
			return true
		}
	}
	return false
}

func setOp(a, b xpsequence.Sequence, op xpast.BinaryOp) (xpsequence.Sequence, *xperror.Error) {
	aItems, err := requireNodes(a)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	bItems, err := requireNodes(b)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	var out []xpsequence.Item
	switch op {
	case xpast.OpUnion:
		out = append(out, aItems...)
		out = append(out, bItems...)
	case xpast.OpIntersect:
		for _, x := range aItems {
			if containsNode(bItems, x) {
				out = append(out, x)
			}
		}
	case xpast.OpExcept:
		for _, x := range aItems {
			if !containsNode(bItems, x) {
				out = append(out, x)
			}
		}
	}
	return sortDedupNodes(out), nil
}

// sortDedupNodes sorts node items into document order and removes
// duplicates by node identity (spec.md §3's path-expression normalization,
// also required by the union/intersect/except set operators).
func sortDedupNodes(items []xpsequence.Item) xpsequence.Sequence {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].Tree(), items[j].Tree()
		if ti == tj {
			return ti.DocumentOrder(items[i].Node(), items[j].Node()) < 0
		}
		return false
	})
	out := make([]xpsequence.Item, 0, len(items))
	for i, it := range items {
		if i > 0 {
			prev := out[len(out)-1]
			if prev.Tree() == it.Tree() && prev.Tree().SameNode(prev.Node(), it.Node()) {
				continue
			}
		}
		out = append(out, it)
	}
	return xpsequence.Many(out)
}
