// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerSequences(l *Library) {
	l.register("empty($arg as item()*) as xs:boolean", seqEmpty)
	l.register("exists($arg as item()*) as xs:boolean", seqExists)
	l.register("count($arg as item()*) as xs:integer", seqCount)
	l.register("reverse($arg as item()*) as item()*", seqReverse)
	l.register("subsequence($sourceSeq as item()*, $startingLoc as xs:double) as item()*", seqSubsequence2)
	l.register("subsequence($sourceSeq as item()*, $startingLoc as xs:double, $length as xs:double) as item()*", seqSubsequence3)
	l.register("insert-before($target as item()*, $position as xs:integer, $inserts as item()*) as item()*", seqInsertBefore)
	l.register("remove($target as item()*, $position as xs:integer) as item()*", seqRemove)
	l.register("head($arg as item()*) as item()?", seqHead)
	l.register("tail($arg as item()*) as item()*", seqTail)
	l.register("distinct-values($arg as xs:anyAtomicType*) as xs:anyAtomicType*", seqDistinctValues)
	l.register("index-of($seq as xs:anyAtomicType*, $search as xs:anyAtomicType) as xs:integer*", seqIndexOf)
	l.register("zero-or-one($arg as item()*) as item()?", seqZeroOrOne)
	l.register("one-or-more($arg as item()*) as item()+", seqOneOrMore)
	l.register("exactly-one($arg as item()*) as item()", seqExactlyOne)
	l.register("deep-equal($parameter1 as item()*, $parameter2 as item()*) as xs:boolean", seqDeepEqual)
}

func seqEmpty(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return boolVal(args[0].IsEmpty()), nil
}

func seqExists(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return boolVal(!args[0].IsEmpty()), nil
}

func seqCount(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return intSeq(int64(args[0].Len())), nil
}

func seqReverse(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	its := args[0].Materialize()
	out := make([]xpsequence.Item, len(its))
	for i, it := range its {
		out[len(its)-1-i] = it
	}
	return xpsequence.Many(out), nil
}

func seqSubsequence2(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	start, err := reqDouble(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return subsequenceImpl(args[0], start, 0, false), nil
}

func seqSubsequence3(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	start, err := reqDouble(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	length, err := reqDouble(args[2])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return subsequenceImpl(args[0], start, length, true), nil
}

// subsequenceImpl mirrors substringRunes's 1-based round-to-nearest
// arithmetic over items instead of runes (fn:subsequence and fn:substring
// share the same positional semantics, per spec.md's function catalog).
func subsequenceImpl(seq xpsequence.Sequence, start, length float64, hasLength bool) xpsequence.Sequence {
	its := seq.Materialize()
	n := float64(len(its))
	st := roundHalfAwayFromZero(start)
	var end float64
	if hasLength {
		end = st + roundHalfAwayFromZero(length)
	} else {
		end = n + 1
	}
	if st < 1 {
		st = 1
	}
	if end > n+1 {
		end = n + 1
	}
	if end <= st {
		return xpsequence.Empty()
	}
	return xpsequence.Many(its[int(st)-1 : int(end)-1])
}

func seqInsertBefore(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	pos, err := args[1].RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	target := args[0].Materialize()
	inserts := args[2].Materialize()
	idx := int(pos) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(target) {
		idx = len(target)
	}
	out := make([]xpsequence.Item, 0, len(target)+len(inserts))
	out = append(out, target[:idx]...)
	out = append(out, inserts...)
	out = append(out, target[idx:]...)
	return xpsequence.Many(out), nil
}

func seqRemove(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	pos, err := args[1].RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	target := args[0].Materialize()
	idx := int(pos) - 1
	if idx < 0 || idx >= len(target) {
		return xpsequence.Many(target), nil
	}
	out := make([]xpsequence.Item, 0, len(target)-1)
	out = append(out, target[:idx]...)
	out = append(out, target[idx+1:]...)
	return xpsequence.Many(out), nil
}

func seqHead(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok := args[0].Get(0)
	if !ok {
		return xpsequence.Empty(), nil
	}
	return xpsequence.One(it), nil
}

func seqTail(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	its := args[0].Materialize()
	if len(its) == 0 {
		return xpsequence.Empty(), nil
	}
	return xpsequence.Many(its[1:]), nil
}

func seqDistinctValues(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	av, err := xpsequence.Atomized(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	its := av.Materialize()
	var out []xpsequence.Item
	for _, it := range its {
		dup := false
		for _, seen := range out {
			if atomic.DeepEqual(it.Atomic(), seen.Atomic(), l.ctx.DefaultCollation, l.ctx.ImplicitTimezoneMinutes) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return xpsequence.Many(out), nil
}

func seqIndexOf(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	search, err := args[1].RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	av, err := xpsequence.Atomized(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	its := av.Materialize()
	var out []xpsequence.Item
	for i, it := range its {
		eq, cerr := atomic.Compare(it.Atomic(), search, atomic.OpEq, l.ctx.DefaultCollation, l.ctx.ImplicitTimezoneMinutes)
		if cerr != nil {
			continue
		}
		if eq {
			out = append(out, xpsequence.NewAtomicItem(atomic.NewInteger64(int64(i+1), atomic.SubInteger)))
		}
	}
	return xpsequence.Many(out), nil
}

func seqZeroOrOne(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].Len() > 1 {
		return xpsequence.Sequence{}, xperror.New(xperror.FORG0003, "zero-or-one called on a sequence of %d items", args[0].Len())
	}
	return args[0], nil
}

func seqOneOrMore(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() {
		return xpsequence.Sequence{}, xperror.New(xperror.FORG0004, "one-or-more called on an empty sequence")
	}
	return args[0], nil
}

func seqExactlyOne(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].Len() != 1 {
		return xpsequence.Sequence{}, xperror.New(xperror.FORG0005, "exactly-one called on a sequence of %d items", args[0].Len())
	}
	return args[0], nil
}

func seqDeepEqual(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a := args[0].Materialize()
	b := args[1].Materialize()
	if len(a) != len(b) {
		return boolVal(false), nil
	}
	for i := range a {
		ai, bi := a[i], b[i]
		switch {
		case ai.IsNode() && bi.IsNode():
			if !(ai.Tree() == bi.Tree() && ai.Tree().SameNode(ai.Node(), bi.Node())) {
				sv1 := ai.Tree().StringValue(ai.Node())
				sv2 := bi.Tree().StringValue(bi.Node())
				if sv1 != sv2 {
					return boolVal(false), nil
				}
			}
		case ai.IsAtomic() && bi.IsAtomic():
			if !atomic.DeepEqual(ai.Atomic(), bi.Atomic(), l.ctx.DefaultCollation, l.ctx.ImplicitTimezoneMinutes) {
				return boolVal(false), nil
			}
		case ai.IsFunction() || bi.IsFunction():
			return xpsequence.Sequence{}, xperror.New(xperror.FOTY0015, "deep-equal does not accept function items")
		default:
			return boolVal(false), nil
		}
	}
	return boolVal(true), nil
}
