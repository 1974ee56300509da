// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"math"
	"math/big"
	"time"

	"github.com/mdhenderson/xpath/internal/xperror"
)

// ArithOp names an arithmetic operator (spec.md §4.1).
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpIDiv
	OpMod
)

// Arith implements the specialized-per-type arithmetic operators. Division
// by zero is FOAR0001; the '/' operator on two integers promotes both
// operands to decimal before dividing, per spec.md §4.1.
func Arith(a, b Value, op ArithOp) (Value, *xperror.Error) {
	if a.kind.IsDuration() || b.kind.IsDuration() {
		return arithDuration(a, b, op)
	}
	if a.kind.IsDateOrTime() || b.kind.IsDateOrTime() {
		return arithDateTime(a, b, op)
	}
	if !a.kind.IsNumeric() || !b.kind.IsNumeric() {
		return Value{}, xperror.New(xperror.XPTY0004, "arithmetic requires numeric operands, got %v and %v", a.kind, b.kind)
	}

	target, ok := TargetType(a.kind, b.kind)
	if !ok {
		return Value{}, xperror.New(xperror.XPTY0004, "cannot unify %v and %v for arithmetic", a.kind, b.kind)
	}
	// '/' on two integers always promotes to decimal before dividing.
	if op == OpDiv && target == KInteger {
		target = KDecimal
	}
	pa, err := Promote(a, target)
	if err != nil {
		return Value{}, err
	}
	pb, err := Promote(b, target)
	if err != nil {
		return Value{}, err
	}

	switch target {
	case KInteger:
		return arithInteger(pa, pb, op)
	case KDecimal:
		return arithDecimal(pa, pb, op)
	default:
		return arithFloating(pa, pb, op, target)
	}
}

func arithInteger(a, b Value, op ArithOp) (Value, *xperror.Error) {
	x, y := a.bi, b.bi
	var r *big.Int
	switch op {
	case OpAdd:
		r = new(big.Int).Add(x, y)
	case OpSub:
		r = new(big.Int).Sub(x, y)
	case OpMul:
		r = bigMul(x, y)
	case OpIDiv:
		if y.Sign() == 0 {
			return Value{}, xperror.New(xperror.FOAR0001, "integer division by zero")
		}
		r = new(big.Int).Quo(x, y)
	case OpMod:
		if y.Sign() == 0 {
			return Value{}, xperror.New(xperror.FOAR0001, "modulo by zero")
		}
		r = new(big.Int).Rem(x, y)
	default:
		return Value{}, xperror.New(xperror.XPST0003, "unsupported integer operator")
	}
	// A result that escapes a constrained subtype's bound (e.g. xs:int +
	// xs:int overflowing 32 bits) widens to the unconstrained xs:integer
	// rather than raising FOAR0002; callers that need the narrower type
	// back call CheckIntegerBound themselves after casting the result.
	sub := SubInteger
	if a.sub == b.sub && CheckIntegerBound(r, a.sub) == nil {
		sub = a.sub
	}
	return NewInteger(r, sub), nil
}

func arithDecimal(a, b Value, op ArithOp) (Value, *xperror.Error) {
	switch op {
	case OpAdd:
		return NewDecimal(a.dec.Add(b.dec)), nil
	case OpSub:
		return NewDecimal(a.dec.Sub(b.dec)), nil
	case OpMul:
		return NewDecimal(a.dec.Mul(b.dec)), nil
	case OpDiv:
		q, divZero := a.dec.Div(b.dec)
		if divZero {
			return Value{}, xperror.New(xperror.FOAR0001, "decimal division by zero")
		}
		return NewDecimal(q), nil
	case OpIDiv:
		if b.dec.Sign() == 0 {
			return Value{}, xperror.New(xperror.FOAR0001, "decimal idiv by zero")
		}
		q, _ := a.dec.Div(b.dec)
		return NewInteger(q.AsBigInt(), SubInteger), nil
	case OpMod:
		if b.dec.Sign() == 0 {
			return Value{}, xperror.New(xperror.FOAR0001, "decimal mod by zero")
		}
		q, _ := a.dec.Div(b.dec)
		trunc := NewDecimalFromInt(q.AsBigInt())
		return NewDecimal(a.dec.Sub(trunc.Mul(b.dec))), nil
	default:
		return Value{}, xperror.New(xperror.XPST0003, "unsupported decimal operator")
	}
}

func arithFloating(a, b Value, op ArithOp, target Kind) (Value, *xperror.Error) {
	x, y := a.AsFloat64(), b.AsFloat64()
	var r float64
	switch op {
	case OpAdd:
		r = x + y
	case OpSub:
		r = x - y
	case OpMul:
		r = x * y
	case OpDiv:
		r = x / y
	case OpIDiv:
		if y == 0 || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) {
			return Value{}, xperror.New(xperror.FOAR0001, "idiv by zero or non-finite operand")
		}
		q := math.Trunc(x / y)
		bi, _ := big.NewFloat(q).Int(nil)
		return NewInteger(bi, SubInteger), nil
	case OpMod:
		r = math.Mod(x, y)
	default:
		return Value{}, xperror.New(xperror.XPST0003, "unsupported float operator")
	}
	if target == KFloat {
		return NewFloat(narrowToFloat32(r)), nil
	}
	return NewDouble(r), nil
}

func arithDuration(a, b Value, op ArithOp) (Value, *xperror.Error) {
	switch {
	case a.kind.IsDuration() && b.kind.IsDuration():
		switch op {
		case OpAdd:
			return NewDuration(a.dur.Add(b.dur)), nil
		case OpSub:
			return NewDuration(a.dur.Add(b.dur.Negate())), nil
		case OpDiv:
			// "duration div duration" only makes sense between two
			// durations of the same subtype; divide whichever component
			// that subtype carries (months for yearMonthDuration, seconds
			// for dayTimeDuration or the plain duration zero value).
			if a.kind == KYearMonthDuration && b.kind == KYearMonthDuration {
				if b.dur.Months == 0 {
					return Value{}, xperror.New(xperror.FOAR0001, "duration division by zero")
				}
				q, _ := NewDecimalFromInt64(a.dur.Months).Div(NewDecimalFromInt64(b.dur.Months))
				return NewDecimal(q), nil
			}
			q, divZero := a.dur.Seconds.Div(b.dur.Seconds)
			if divZero {
				return Value{}, xperror.New(xperror.FOAR0001, "duration division by zero")
			}
			return NewDecimal(q), nil
		}
	case a.kind.IsDuration() && b.kind.IsNumeric():
		switch op {
		case OpMul:
			return scaleDuration(a.dur, b)
		case OpDiv:
			return scaleDuration(a.dur, reciprocal(b))
		}
	case b.kind.IsDuration() && a.kind.IsNumeric() && op == OpMul:
		return scaleDuration(b.dur, a)
	}
	return Value{}, xperror.New(xperror.XPTY0004, "unsupported duration arithmetic")
}

func reciprocal(v Value) Value {
	one := NewDecimalFromInt64(1)
	q, _ := one.Div(toDecimalLossy(v))
	return NewDecimal(q)
}

func toDecimalLossy(v Value) Decimal {
	d, err := castToDecimal(v)
	if err != nil {
		return NewDecimalFromInt64(0)
	}
	return d.dec
}

func scaleDuration(d Duration, factor Value) (Value, *xperror.Error) {
	f := factor.AsFloat64()
	months := int64(math.Round(float64(d.Months) * f))
	secDec := toDecimalLossy(NewDouble(d.Seconds.AsFloat64() * f))
	return NewDuration(Duration{Months: months, Seconds: secDec}), nil
}

func arithDateTime(a, b Value, op ArithOp) (Value, *xperror.Error) {
	// date/time +- duration, and dateTime - dateTime -> duration.
	if a.kind.IsDateOrTime() && b.kind.IsDateOrTime() && op == OpSub {
		diffSeconds := a.dt.ToGoTime(0).Sub(b.dt.ToGoTime(0)).Seconds()
		sec := toDecimalLossy(NewDouble(diffSeconds))
		return NewDuration(Duration{Seconds: sec}), nil
	}
	if a.kind.IsDateOrTime() && b.kind.IsDuration() && (op == OpAdd || op == OpSub) {
		dur := b.dur
		if op == OpSub {
			dur = dur.Negate()
		}
		return NewDateTimeKind(addDuration(a.dt, dur), a.kind), nil
	}
	if b.kind.IsDateOrTime() && a.kind.IsDuration() && op == OpAdd {
		return NewDateTimeKind(addDuration(b.dt, a.dur), b.kind), nil
	}
	return Value{}, xperror.New(xperror.XPTY0004, "unsupported date/time arithmetic")
}

// NewDateTimeKind rewraps dt as the same Kind k held; used after date/time
// +- duration arithmetic, which always preserves the left operand's kind.
func NewDateTimeKind(dt DateTime, k Kind) Value {
	return Value{kind: k, dt: dt}
}

// addDuration adds d's month component to dt's calendar fields directly
// (so e.g. 2024-01-31 + P1M lands on Go's normalized 2024-03-02, matching
// time.Date's own month-overflow behavior) then adds d's whole seconds
// via time.Duration and d's fractional seconds as a Decimal. dt's own
// fractional second passes through time.Time (ToGoTime), so it keeps
// nanosecond resolution only.
func addDuration(dt DateTime, d Duration) DateTime {
	totalMonth := int64(dt.Month-1) + d.Months
	year := dt.Year + totalMonth/12
	month := int(totalMonth%12) + 1
	if month <= 0 {
		month += 12
		year--
	}
	out := dt
	out.Year, out.Month = year, month

	wholeSecs := d.Seconds.AsBigInt()
	fracSecs := d.Seconds.Sub(NewDecimalFromInt(wholeSecs))
	base := out.ToGoTime(0)
	shifted := base.Add(time.Duration(wholeSecs.Int64()) * time.Second)

	out.Year = int64(shifted.Year())
	out.Month = int(shifted.Month())
	out.Day = shifted.Day()
	out.Hour, out.Minute = shifted.Hour(), shifted.Minute()
	nsecFrac := Decimal{Unscaled: big.NewInt(int64(shifted.Nanosecond())), Scale: 9}
	out.Second = NewDecimalFromInt64(int64(shifted.Second())).Add(nsecFrac).Add(fracSecs)
	return out
}
