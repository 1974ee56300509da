// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"math"
	"math/big"

	"github.com/mdhenderson/xpath/internal/names"
)

// Value is the closed sum type for every XML Schema atomic value the
// engine manipulates. Exactly one payload field is meaningful for a given
// Kind; the rest are zero. Values are immutable once constructed.
type Value struct {
	kind Kind
	sub  IntSub // meaningful only when kind == KInteger

	str string // string-like kinds only
	b   bool
	f32 float32
	f64 float64
	dec Decimal  // KDecimal
	bi  *big.Int // KInteger
	qn  names.Name

	dur      Duration
	dt       DateTime
	binBytes []byte // KHexBinary / KBase64Binary raw bytes
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IntSub() IntSub { return v.sub }

func NewString(s string) Value       { return Value{kind: KString, str: s} }
func NewAnyURI(s string) Value       { return Value{kind: KAnyURI, str: s} }
func NewUntypedAtomic(s string) Value { return Value{kind: KUntypedAtomic, str: s} }
func NewBoolean(b bool) Value        { return Value{kind: KBoolean, b: b} }
func NewFloat(f float32) Value       { return Value{kind: KFloat, f32: f} }
func NewDouble(f float64) Value      { return Value{kind: KDouble, f64: f} }
func NewDecimal(d Decimal) Value     { return Value{kind: KDecimal, dec: d} }

// NewInteger constructs an xs:integer-family value; sub selects which of
// the IntSub subtypes it represents (SubInteger for the unconstrained
// base type). Overflow of a bounded subtype is the caller's concern (§7):
// use CheckIntegerBound after arithmetic that might have escaped the bound.
func NewInteger(i *big.Int, sub IntSub) Value {
	return Value{kind: KInteger, bi: new(big.Int).Set(i), sub: sub}
}

func NewInteger64(i int64, sub IntSub) Value {
	return NewInteger(big.NewInt(i), sub)
}

func NewQName(n names.Name) Value { return Value{kind: KQName, qn: n} }
func NewNOTATION(n names.Name) Value { return Value{kind: KNOTATION, qn: n} }

func NewHexBinary(b []byte) Value    { return Value{kind: KHexBinary, binBytes: b} }
func NewBase64Binary(b []byte) Value { return Value{kind: KBase64Binary, binBytes: b} }

func NewDuration(d Duration) Value {
	k := KDuration
	switch {
	case d.Months != 0 && d.Seconds.Sign() == 0:
		k = KYearMonthDuration
	case d.Months == 0 && d.Seconds.Sign() != 0:
		k = KDayTimeDuration
	case d.Months == 0 && d.Seconds.Sign() == 0:
		// zero-duration is the plain Duration exception (spec.md §4.1 invariants)
		k = KDuration
	}
	return Value{kind: k, dur: d}
}

func NewDateTime(dt DateTime) Value {
	return Value{kind: KDateTime, dt: dt}
}
func NewDate(dt DateTime) Value { return Value{kind: KDate, dt: dt} }
func NewTime(dt DateTime) Value { return Value{kind: KTime, dt: dt} }
func NewGYear(dt DateTime) Value { return Value{kind: KGYear, dt: dt} }
func NewGYearMonth(dt DateTime) Value { return Value{kind: KGYearMonth, dt: dt} }
func NewGMonth(dt DateTime) Value { return Value{kind: KGMonth, dt: dt} }
func NewGMonthDay(dt DateTime) Value { return Value{kind: KGMonthDay, dt: dt} }
func NewGDay(dt DateTime) Value { return Value{kind: KGDay, dt: dt} }

func (v Value) Bool() bool       { return v.b }
func (v Value) Float32() float32 { return v.f32 }
func (v Value) Float64() float64 { return v.f64 }
func (v Value) DecimalValue() Decimal { return v.dec }
func (v Value) BigInt() *big.Int { return v.bi }
func (v Value) Str() string      { return v.str }
func (v Value) QName() names.Name { return v.qn }
func (v Value) Duration() Duration { return v.dur }
func (v Value) DateTimeValue() DateTime { return v.dt }
func (v Value) BinaryBytes() []byte { return v.binBytes }

// AsFloat64 widens any numeric kind to float64, the common currency used by
// comparisons once the promotion lattice has picked a target type.
func (v Value) AsFloat64() float64 {
	switch v.kind {
	case KFloat:
		return float64(v.f32)
	case KDouble:
		return v.f64
	case KDecimal:
		return v.dec.AsFloat64()
	case KInteger:
		f := new(big.Float).SetInt(v.bi)
		out, _ := f.Float64()
		return out
	default:
		return math.NaN()
	}
}

// IsNaN reports whether v is a float/double NaN — the one case where
// value-equality and deep-equal diverge (spec.md §3 invariant).
func (v Value) IsNaN() bool {
	switch v.kind {
	case KFloat:
		return v.f32 != v.f32
	case KDouble:
		return v.f64 != v.f64
	default:
		return false
	}
}
