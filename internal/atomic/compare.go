// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"bytes"

	"github.com/mdhenderson/xpath/internal/collation"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// Op names a value-comparison operator (spec.md §4.2 "Value comparison").
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// Compare implements eq/ne/lt/le/gt/ge between two singleton atomics: pick
// the target type via the promotion lattice, cast both operands, compare.
// Strings compare using coll (nil means the codepoint collation);
// everything else ignores coll.
func Compare(a, b Value, op Op, coll collation.Collation, implicitTZMinutes int) (bool, *xperror.Error) {
	target, ok := TargetType(a.kind, b.kind)
	if !ok {
		return false, xperror.New(xperror.XPTY0004, "cannot compare %v with %v", a.kind, b.kind)
	}
	pa, err := Promote(a, target)
	if err != nil {
		if pa, err = CastTo(a, CastTarget{Kind: target}); err != nil {
			return false, err
		}
	}
	pb, err := Promote(b, target)
	if err != nil {
		if pb, err = CastTo(b, CastTarget{Kind: target}); err != nil {
			return false, err
		}
	}

	var c int
	switch {
	case target.IsStringLike():
		if coll == nil {
			coll = collation.Codepoint()
		}
		c = coll.Compare(pa.str, pb.str)
	case target.IsNumeric():
		c = compareNumeric(pa, pb)
	case target.IsDuration():
		c = pa.dur.Compare(pb.dur)
	case target.IsDateOrTime():
		c = CompareDateTime(pa.dt, pb.dt, implicitTZMinutes)
	case target == KBoolean:
		c = boolCmp(pa.b, pb.b)
	case target == KQName || target == KNOTATION:
		if pa.qn.Equal(pb.qn) {
			c = 0
		} else {
			return false, xperror.New(xperror.XPTY0004, "xs:QName is not orderable")
		}
	case target == KHexBinary || target == KBase64Binary:
		c = bytes.Compare(pa.binBytes, pb.binBytes)
	default:
		return false, xperror.New(xperror.XPTY0004, "%v is not comparable", target)
	}

	switch op {
	case OpEq:
		return c == 0, nil
	case OpNe:
		return c != 0, nil
	case OpLt:
		return c < 0, nil
	case OpLe:
		return c <= 0, nil
	case OpGt:
		return c > 0, nil
	case OpGe:
		return c >= 0, nil
	default:
		return false, xperror.New(xperror.XPST0003, "unknown comparison operator")
	}
}

func boolCmp(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func compareNumeric(a, b Value) int {
	if a.kind == KInteger && b.kind == KInteger {
		return a.bi.Cmp(b.bi)
	}
	if a.kind == KDecimal && b.kind == KDecimal {
		return a.dec.Cmp(b.dec)
	}
	af, bf := a.AsFloat64(), b.AsFloat64()
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

// DeepEqual implements fn:deep-equal's atomic leg: NaN-equal-NaN (unlike
// value-equality), dates compared with timezone semantics, everything
// else falling back to value equality under coll.
func DeepEqual(a, b Value, coll collation.Collation, implicitTZMinutes int) bool {
	if a.IsNaN() && b.IsNaN() {
		return true
	}
	if a.kind != b.kind {
		// differing kinds are compared through the promotion lattice
		// (e.g. xs:integer 1 vs xs:double 1.0 are deep-equal); kinds with
		// no common type are unequal rather than an error.
		_, ok := TargetType(a.kind, b.kind)
		if !ok {
			return false
		}
		eq, err := Compare(a, b, OpEq, coll, implicitTZMinutes)
		return ok && err == nil && eq
	}
	eq, err := Compare(a, b, OpEq, coll, implicitTZMinutes)
	return err == nil && eq
}
