// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import "github.com/mdhenderson/xpath/internal/xperror"

// promotionRank orders the numeric promotion lattice decimal -> float ->
// double (spec.md §4.1 "type_promote"), with xs:integer ranked alongside
// xs:decimal. Every non-numeric kind ranks -1; the anyURI -> string
// promotion is handled separately in Promote.
func promotionRank(k Kind) int {
	switch k {
	case KInteger, KDecimal:
		return 0
	case KFloat:
		return 1
	case KDouble:
		return 2
	default:
		return -1
	}
}

// TargetType picks the common comparison/arithmetic type for a and b by
// walking the numeric promotion lattice, or by matching string-like kinds
// (untypedAtomic promotes to whatever the other side is). Returns
// ok=false when no common type exists (caller raises XPTY0004).
func TargetType(a, b Kind) (Kind, bool) {
	if a == KUntypedAtomic && b != KUntypedAtomic {
		return b, true
	}
	if b == KUntypedAtomic && a != KUntypedAtomic {
		return a, true
	}
	if a == b {
		return a, true
	}
	if a.IsNumeric() && b.IsNumeric() {
		ra, rb := promotionRank(a), promotionRank(b)
		if ra >= rb {
			return a, true
		}
		return b, true
	}
	if a.IsStringLike() && b.IsStringLike() {
		return KString, true
	}
	if a.IsDuration() && b.IsDuration() {
		if a == b {
			return a, true
		}
		return KDuration, true
	}
	return 0, false
}

// Promote casts v to target using the promotion lattice (not a general
// cast): numeric widening along decimal->float->double, anyURI->string,
// any duration subtype -> xs:duration, and untypedAtomic (which is cast to
// target) are accepted; anything else is a type error.
func Promote(v Value, target Kind) (Value, *xperror.Error) {
	if v.kind == target {
		return v, nil
	}
	if v.kind == KUntypedAtomic {
		return CastTo(v, CastTarget{Kind: target})
	}
	if v.kind.IsNumeric() && target.IsNumeric() && promotionRank(target) >= promotionRank(v.kind) {
		return CastTo(v, CastTarget{Kind: target})
	}
	if v.kind == KAnyURI && target == KString {
		return NewString(v.str), nil
	}
	if v.kind.IsDuration() && target == KDuration {
		return NewDuration(v.dur), nil
	}
	return Value{}, xperror.New(xperror.XPTY0004, "cannot promote %v to %v", v.kind, target)
}
