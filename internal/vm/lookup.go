// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package vm

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

// lookupOne implements `?key`/`?(expr)`/`?N` against a singleton map or
// array source: both Map.Call and Array.Call already apply the right key
// semantics (atomic equality for a map, 1-based integer bounds for an
// array), so this just dispatches through the Function interface they both
// satisfy.
func lookupOne(source, key xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok := source.Singleton()
	if !ok || !it.IsFunction() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "a lookup operator requires a single map or array")
	}
	return it.Function().Call([]xpsequence.Sequence{key})
}

// lookupWildcard implements `?*`: every value of a map, or every member of
// an array, concatenated in their natural order. Unlike lookupOne this
// can't go through Function.Call (which always resolves exactly one key),
// so it type-switches on the concrete constructor instead.
func lookupWildcard(source xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok := source.Singleton()
	if !ok || !it.IsFunction() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "?* requires a single map or array")
	}
	switch f := it.Function().(type) {
	case *xpsequence.Map:
		var all []xpsequence.Sequence
		f.ForEach(func(_ atomic.Value, v xpsequence.Sequence) bool {
			all = append(all, v)
			return true
		})
		return concatSequences(all), nil
	case *xpsequence.Array:
		return concatSequences(f.Members()), nil
	default:
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "?* requires a map or array")
	}
}
