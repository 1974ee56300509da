// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func stringSeq(s string) xpsequence.Sequence {
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewString(s)))
}

func boolVal(b bool) xpsequence.Sequence {
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(b)))
}

func intSeq(i int64) xpsequence.Sequence {
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewInteger64(i, atomic.SubInteger)))
}

func doubleSeq(f float64) xpsequence.Sequence {
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewDouble(f)))
}

// optString returns an XPath function's "$arg as xs:string?" argument,
// empty string for the empty sequence (the convention fn:string-length
// and friends use rather than erroring).
func optString(s xpsequence.Sequence) (string, *xperror.Error) {
	if s.IsEmpty() {
		return "", nil
	}
	av, err := xpsequence.Atomized(s)
	if err != nil {
		return "", err
	}
	a, err := av.RequireSingleAtomic()
	if err != nil {
		return "", err
	}
	return a.StringValue(), nil
}

// reqString requires a non-empty singleton string-ish argument.
func reqString(s xpsequence.Sequence) (string, *xperror.Error) {
	av, err := xpsequence.Atomized(s)
	if err != nil {
		return "", err
	}
	a, err := av.RequireSingleAtomic()
	if err != nil {
		return "", err
	}
	return a.StringValue(), nil
}

func reqDouble(s xpsequence.Sequence) (float64, *xperror.Error) {
	av, err := xpsequence.Atomized(s)
	if err != nil {
		return 0, err
	}
	a, err := av.RequireSingleAtomic()
	if err != nil {
		return 0, err
	}
	if !a.Kind().IsNumeric() {
		return 0, xperror.New(xperror.XPTY0004, "expected a numeric argument, got %v", a.Kind())
	}
	return a.AsFloat64(), nil
}

func reqInt(s xpsequence.Sequence) (int64, *xperror.Error) {
	f, err := reqDouble(s)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// optInt mirrors optString for an optional numeric argument, returning
// (0, false) for the empty sequence.
func optInt(s xpsequence.Sequence) (int64, bool, *xperror.Error) {
	if s.IsEmpty() {
		return 0, false, nil
	}
	i, err := reqInt(s)
	return i, true, err
}

func items(s xpsequence.Sequence) []xpsequence.Item { return s.Materialize() }

func asFunction(s xpsequence.Sequence) (xpsequence.Function, *xperror.Error) {
	it, ok := s.Singleton()
	if !ok || !it.IsFunction() {
		return nil, xperror.New(xperror.XPTY0004, "expected a single function item")
	}
	return it.Function(), nil
}
