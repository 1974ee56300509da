// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/collation"
	"github.com/mdhenderson/xpath/internal/treestore"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// GeneralCompare implements `=`, `!=`, `<`, `<=`, `>`, `>=`: true iff some
// pair (x from a, y from b), after atomization, satisfies op under the
// numeric/string promotion lattice. Short-circuits on the first match
// (spec.md §4.2); a Range operand never needs full materialization to
// find one.
func GeneralCompare(a, b Sequence, op atomic.Op, coll collation.Collation, implicitTZMinutes int) (bool, *xperror.Error) {
	aa, err := Atomized(a)
	if err != nil {
		return false, err
	}
	ba, err := Atomized(b)
	if err != nil {
		return false, err
	}
	found := false
	var firstErr *xperror.Error
	aa.Each(func(x Item) bool {
		ba.Each(func(y Item) bool {
			ok, cerr := atomic.Compare(x.Atomic(), y.Atomic(), op, coll, implicitTZMinutes)
			if cerr != nil {
				// a type mismatch between one pair doesn't doom the whole
				// comparison in general-comparison semantics only when a
				// later pair might still match; XPath in practice treats
				// any incompatible pair as a hard error, so the first one
				// encountered wins once nothing has matched yet.
				firstErr = cerr
				return false
			}
			if ok {
				found = true
				return false
			}
			return true
		})
		return !found
	})
	if found {
		return true, nil
	}
	if firstErr != nil {
		return false, firstErr
	}
	return false, nil
}

// ValueCompare implements `eq`, `ne`, `lt`, `le`, `gt`, `ge`: both operands
// atomize to a singleton atomic, else a type error (empty propagates as
// "no comparison possible", handled by the caller returning the empty
// sequence before even calling this).
func ValueCompare(a, b Sequence, op atomic.Op, coll collation.Collation, implicitTZMinutes int) (bool, *xperror.Error) {
	a, err := Atomized(a)
	if err != nil {
		return false, err
	}
	b, err = Atomized(b)
	if err != nil {
		return false, err
	}
	av, err := a.RequireSingleAtomic()
	if err != nil {
		return false, err
	}
	bv, err := b.RequireSingleAtomic()
	if err != nil {
		return false, err
	}
	return atomic.Compare(av, bv, op, coll, implicitTZMinutes)
}

// NodeOp names the three node-identity operators (spec.md §4.2).
type NodeOp int

const (
	NodeIs NodeOp = iota
	NodePrecedes
	NodeFollows
)

// NodeCompare implements `is`, `<<`, `>>`: both operands must be singleton
// nodes, ordered by the tree store's document order.
func NodeCompare(tree treestore.Tree, a, b Sequence, op NodeOp) (bool, *xperror.Error) {
	ai, ok := a.Singleton()
	if !ok || !ai.IsNode() {
		return false, xperror.New(xperror.XPTY0004, "node comparison requires a singleton node operand")
	}
	bi, ok := b.Singleton()
	if !ok || !bi.IsNode() {
		return false, xperror.New(xperror.XPTY0004, "node comparison requires a singleton node operand")
	}
	switch op {
	case NodeIs:
		return tree.SameNode(ai.Node(), bi.Node()), nil
	case NodePrecedes:
		return tree.DocumentOrder(ai.Node(), bi.Node()) < 0, nil
	case NodeFollows:
		return tree.DocumentOrder(ai.Node(), bi.Node()) > 0, nil
	default:
		return false, xperror.New(xperror.XPST0003, "unknown node comparison operator")
	}
}

// DeepEqual implements fn:deep-equal (spec.md §4.2): empty/empty->true,
// differing lengths->false, pairwise comparison in order with atomics
// compared via atomic.DeepEqual, nodes via the tree store's string-value
// under coll, maps/arrays recursively, any other atomic/node/function
// mismatch at a position->false, and a bare function item (anything that
// isn't itself a Map or Array) on either side->FOTY0015.
func DeepEqual(a, b Sequence, coll collation.Collation, implicitTZMinutes int) (bool, *xperror.Error) {
	if a.Len() != b.Len() {
		return false, nil
	}
	ai, bi := a.Materialize(), b.Materialize()
	for i := range ai {
		eq, err := deepEqualItem(ai[i], bi[i], coll, implicitTZMinutes)
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

func deepEqualItem(x, y Item, coll collation.Collation, implicitTZMinutes int) (bool, *xperror.Error) {
	if x.Kind() != y.Kind() {
		return false, nil
	}
	switch x.Kind() {
	case ItemAtomic:
		return atomic.DeepEqual(x.Atomic(), y.Atomic(), coll, implicitTZMinutes), nil
	case ItemNode:
		return collation.Equal(effectiveCollation(coll), x.Tree().StringValue(x.Node()), y.Tree().StringValue(y.Node())), nil
	case ItemFunction:
		xm, xIsMap := x.Function().(*Map)
		ym, yIsMap := y.Function().(*Map)
		if xIsMap && yIsMap {
			return deepEqualMaps(xm, ym, coll, implicitTZMinutes)
		}
		xa, xIsArr := x.Function().(*Array)
		ya, yIsArr := y.Function().(*Array)
		if xIsArr && yIsArr {
			return deepEqualArrays(xa, ya, coll, implicitTZMinutes)
		}
		if (xIsMap || xIsArr) && (yIsMap || yIsArr) {
			return false, nil
		}
		return false, xperror.New(xperror.FOTY0015, "fn:deep-equal does not support function items")
	default:
		return false, nil
	}
}

func effectiveCollation(coll collation.Collation) collation.Collation {
	if coll == nil {
		return collation.Codepoint()
	}
	return coll
}

func deepEqualMaps(a, b *Map, coll collation.Collation, implicitTZMinutes int) (bool, *xperror.Error) {
	if a.Size() != b.Size() {
		return false, nil
	}
	result := true
	var firstErr *xperror.Error
	a.ForEach(func(key atomic.Value, av Sequence) bool {
		bv, ok := b.Get(key)
		if !ok {
			result = false
			return false
		}
		eq, err := DeepEqual(av, bv, coll, implicitTZMinutes)
		if err != nil {
			firstErr = err
			return false
		}
		if !eq {
			result = false
			return false
		}
		return true
	})
	if firstErr != nil {
		return false, firstErr
	}
	return result, nil
}

func deepEqualArrays(a, b *Array, coll collation.Collation, implicitTZMinutes int) (bool, *xperror.Error) {
	if a.Size() != b.Size() {
		return false, nil
	}
	for i := 1; i <= a.Size(); i++ {
		av, _ := a.Get(i)
		bv, _ := b.Get(i)
		eq, err := DeepEqual(av, bv, coll, implicitTZMinutes)
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}
