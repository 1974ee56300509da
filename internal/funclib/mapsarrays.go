// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerMapsArrays(l *Library) {
	l.register("map:merge($maps as map(*)*) as map(*)", mapMerge)
	l.register("map:get($map as map(*), $key as xs:anyAtomicType) as item()*", mapGet)
	l.register("map:put($map as map(*), $key as xs:anyAtomicType, $value as item()*) as map(*)", mapPut)
	l.register("map:remove($map as map(*), $keys as xs:anyAtomicType*) as map(*)", mapRemove)
	l.register("map:contains($map as map(*), $key as xs:anyAtomicType) as xs:boolean", mapContains)
	l.register("map:keys($map as map(*)) as xs:anyAtomicType*", mapKeys)
	l.register("map:size($map as map(*)) as xs:integer", mapSize)
	l.register("map:for-each($map as map(*), $action as function(xs:anyAtomicType, item()*) as item()*) as item()*", mapForEach)

	l.register("array:size($array as array(*)) as xs:integer", arraySize)
	l.register("array:get($array as array(*), $position as xs:integer) as item()*", arrayGet)
	l.register("array:put($array as array(*), $position as xs:integer, $member as item()*) as array(*)", arrayPut)
	l.register("array:append($array as array(*), $member as item()*) as array(*)", arrayAppend)
	l.register("array:subarray($array as array(*), $start as xs:integer) as array(*)", arraySubarray2)
	l.register("array:subarray($array as array(*), $start as xs:integer, $length as xs:integer) as array(*)", arraySubarray3)
	l.register("array:for-each($array as array(*), $action as function(item()*) as item()*) as array(*)", arrayForEach)
	l.register("array:flatten($input as item()*) as item()*", arrayFlatten)
	l.register("array:join($arrays as array(*)*) as array(*)", arrayJoin)
	l.register("array:reverse($array as array(*)) as array(*)", arrayReverse)
}

func asMap(s xpsequence.Sequence) (*xpsequence.Map, *xperror.Error) {
	it, ok := s.Singleton()
	if !ok || !it.IsFunction() {
		return nil, xperror.New(xperror.XPTY0004, "expected a single map item")
	}
	m, ok := it.Function().(*xpsequence.Map)
	if !ok {
		return nil, xperror.New(xperror.XPTY0004, "expected a map, got a different function item")
	}
	return m, nil
}

func asArray(s xpsequence.Sequence) (*xpsequence.Array, *xperror.Error) {
	it, ok := s.Singleton()
	if !ok || !it.IsFunction() {
		return nil, xperror.New(xperror.XPTY0004, "expected a single array item")
	}
	a, ok := it.Function().(*xpsequence.Array)
	if !ok {
		return nil, xperror.New(xperror.XPTY0004, "expected an array, got a different function item")
	}
	return a, nil
}

func mapItemSeq(m *xpsequence.Map) xpsequence.Sequence {
	return xpsequence.One(xpsequence.NewFunctionItem(m))
}

func arrayItemSeq(a *xpsequence.Array) xpsequence.Sequence {
	return xpsequence.One(xpsequence.NewFunctionItem(a))
}

func requireKey(s xpsequence.Sequence) (atomic.Value, *xperror.Error) {
	return s.RequireSingleAtomic()
}

func mapMerge(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	out := xpsequence.NewMap()
	for _, it := range items(args[0]) {
		if !it.IsFunction() {
			return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "map:merge argument is not a map")
		}
		m, ok := it.Function().(*xpsequence.Map)
		if !ok {
			return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "map:merge argument is not a map")
		}
		out = out.Merge(m)
	}
	return mapItemSeq(out), nil
}

func mapGet(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	m, err := asMap(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	key, err := requireKey(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	return xpsequence.Empty(), nil
}

func mapPut(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	m, err := asMap(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	key, err := requireKey(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	out := m.Merge(xpsequence.NewMap())
	out.Put(key, args[2])
	return mapItemSeq(out), nil
}

func mapRemove(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	m, err := asMap(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	out := m
	for _, it := range items(args[1]) {
		if !it.IsAtomic() {
			return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "map:remove keys must be atomic")
		}
		out = out.Remove(it.Atomic())
	}
	return mapItemSeq(out), nil
}

func mapContains(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	m, err := asMap(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	key, err := requireKey(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	_, ok := m.Get(key)
	return boolVal(ok), nil
}

func mapKeys(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	m, err := asMap(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	keys := m.Keys()
	out := make([]xpsequence.Item, len(keys))
	for i, k := range keys {
		out[i] = xpsequence.NewAtomicItem(k)
	}
	return xpsequence.Many(out), nil
}

func mapSize(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	m, err := asMap(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return intSeq(int64(m.Size())), nil
}

func mapForEach(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	m, err := asMap(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	fn, err := asFunction(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	var out []xpsequence.Item
	var callErr *xperror.Error
	m.ForEach(func(key atomic.Value, value xpsequence.Sequence) bool {
		r, cerr := fn.Call([]xpsequence.Sequence{xpsequence.One(xpsequence.NewAtomicItem(key)), value})
		if cerr != nil {
			callErr = cerr
			return false
		}
		out = append(out, items(r)...)
		return true
	})
	if callErr != nil {
		return xpsequence.Sequence{}, callErr
	}
	return xpsequence.Many(out), nil
}

func arraySize(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := asArray(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return intSeq(int64(a.Size())), nil
}

func arrayGet(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := asArray(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	pos, err := args[1].RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return a.Get(int(pos))
}

func arrayPut(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := asArray(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	pos, err := args[1].RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	out, perr := a.Put(int(pos), args[2])
	if perr != nil {
		return xpsequence.Sequence{}, perr
	}
	return arrayItemSeq(out), nil
}

func arrayAppend(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := asArray(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return arrayItemSeq(a.Append(args[1])), nil
}

func arraySubarray2(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := asArray(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	start, err := args[1].RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return arraySubarrayImpl(a, int(start), a.Size()-int(start)+1)
}

func arraySubarray3(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := asArray(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	start, err := args[1].RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	length, err := args[2].RequireSingleInteger()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return arraySubarrayImpl(a, int(start), int(length))
}

func arraySubarrayImpl(a *xpsequence.Array, start, length int) (xpsequence.Sequence, *xperror.Error) {
	if start < 1 || length < 0 || start+length-1 > a.Size() {
		return xpsequence.Sequence{}, xperror.New(xperror.FOAY0001, "array:subarray(%d, %d) out of bounds (size %d)", start, length, a.Size())
	}
	members := a.Members()
	out := xpsequence.NewArray(members[start-1 : start-1+length])
	return arrayItemSeq(out), nil
}

func arrayForEach(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := asArray(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	fn, err := asFunction(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	members := a.Members()
	out := make([]xpsequence.Sequence, len(members))
	for i, m := range members {
		r, cerr := fn.Call([]xpsequence.Sequence{m})
		if cerr != nil {
			return xpsequence.Sequence{}, cerr
		}
		out[i] = r
	}
	return arrayItemSeq(xpsequence.NewArray(out)), nil
}

func arrayFlatten(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	var out []xpsequence.Item
	var flatten func(s xpsequence.Sequence) *xperror.Error
	flatten = func(s xpsequence.Sequence) *xperror.Error {
		for _, it := range items(s) {
			if it.IsFunction() {
				if a, ok := it.Function().(*xpsequence.Array); ok {
					for _, m := range a.Members() {
						if err := flatten(m); err != nil {
							return err
						}
					}
					continue
				}
			}
			out = append(out, it)
		}
		return nil
	}
	if err := flatten(args[0]); err != nil {
		return xpsequence.Sequence{}, err
	}
	return xpsequence.Many(out), nil
}

func arrayJoin(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	var members []xpsequence.Sequence
	for _, it := range items(args[0]) {
		if !it.IsFunction() {
			return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "array:join argument is not an array")
		}
		a, ok := it.Function().(*xpsequence.Array)
		if !ok {
			return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "array:join argument is not an array")
		}
		members = append(members, a.Members()...)
	}
	return arrayItemSeq(xpsequence.NewArray(members)), nil
}

func arrayReverse(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := asArray(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	members := a.Members()
	out := make([]xpsequence.Sequence, len(members))
	for i, m := range members {
		out[len(members)-1-i] = m
	}
	return arrayItemSeq(xpsequence.NewArray(out)), nil
}
