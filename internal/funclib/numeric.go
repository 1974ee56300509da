// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"math"
	"math/big"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerNumeric(l *Library) {
	l.register("abs($arg as xs:numeric?) as xs:numeric?", numAbs)
	l.register("ceiling($arg as xs:numeric?) as xs:numeric?", numRound(math.Ceil))
	l.register("floor($arg as xs:numeric?) as xs:numeric?", numRound(math.Floor))
	l.register("round($arg as xs:numeric?) as xs:numeric?", numRoundHalfUp)
	l.register("round-half-to-even($arg as xs:numeric?) as xs:numeric?", numRoundHalfEven)
	l.register("number($arg as xs:anyAtomicType?) as xs:double", numNumber)
	l.register("sum($arg as xs:anyAtomicType*) as xs:anyAtomicType", numSum)
	l.register("sum($arg as xs:anyAtomicType*, $zero as xs:anyAtomicType?) as xs:anyAtomicType?", numSumZero)
	l.register("avg($arg as xs:anyAtomicType*) as xs:anyAtomicType?", numAvg)
	l.register("min($arg as xs:anyAtomicType*) as xs:anyAtomicType?", numMin)
	l.register("max($arg as xs:anyAtomicType*) as xs:anyAtomicType?", numMax)

	l.register("math:pi() as xs:double", mathConst(math.Pi))
	l.register("math:exp($arg as xs:double?) as xs:double?", math1(math.Exp))
	l.register("math:log($arg as xs:double?) as xs:double?", math1(math.Log))
	l.register("math:log10($arg as xs:double?) as xs:double?", math1(math.Log10))
	l.register("math:sqrt($arg as xs:double?) as xs:double?", math1(math.Sqrt))
	l.register("math:sin($arg as xs:double?) as xs:double?", math1(math.Sin))
	l.register("math:cos($arg as xs:double?) as xs:double?", math1(math.Cos))
	l.register("math:tan($arg as xs:double?) as xs:double?", math1(math.Tan))
	l.register("math:pow($x as xs:double?, $y as xs:numeric) as xs:double?", mathPow)
}

func numAbs(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() {
		return xpsequence.Empty(), nil
	}
	av, err := xpsequence.Atomized(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	v, err := av.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !v.Kind().IsNumeric() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "abs requires a numeric argument, got %v", v.Kind())
	}
	switch v.Kind() {
	case atomic.KInteger:
		bi := new(big.Int).Abs(v.BigInt())
		return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewInteger(bi, v.IntSub()))), nil
	case atomic.KDecimal:
		d := v.DecimalValue()
		if d.Sign() < 0 {
			d = d.Neg()
		}
		return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewDecimal(d))), nil
	case atomic.KFloat:
		return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewFloat(float32(math.Abs(float64(v.Float32())))))), nil
	default:
		return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewDouble(math.Abs(v.Float64())))), nil
	}
}

// numRound builds ceiling/floor, which share the same "unwrap, apply the
// float transform, rewrap in the original kind" shape.
func numRound(f func(float64) float64) func(*Library, []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return func(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		if args[0].IsEmpty() {
			return xpsequence.Empty(), nil
		}
		av, err := xpsequence.Atomized(args[0])
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		v, err := av.RequireSingleAtomic()
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		if !v.Kind().IsNumeric() {
			return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "expected a numeric argument, got %v", v.Kind())
		}
		if v.Kind() == atomic.KInteger {
			return xpsequence.One(xpsequence.NewAtomicItem(v)), nil
		}
		return xpsequence.One(xpsequence.NewAtomicItem(rewrapFloat(v, f(v.AsFloat64())))), nil
	}
}

func rewrapFloat(orig atomic.Value, f float64) atomic.Value {
	switch orig.Kind() {
	case atomic.KFloat:
		return atomic.NewFloat(float32(f))
	case atomic.KDecimal:
		bi, _ := big.NewFloat(f).Int(nil)
		return atomic.NewDecimal(atomic.NewDecimalFromInt(bi))
	default:
		return atomic.NewDouble(f)
	}
}

func numRoundHalfUp(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() {
		return xpsequence.Empty(), nil
	}
	av, err := xpsequence.Atomized(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	v, err := av.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !v.Kind().IsNumeric() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "round requires a numeric argument, got %v", v.Kind())
	}
	if v.Kind() == atomic.KInteger {
		return xpsequence.One(xpsequence.NewAtomicItem(v)), nil
	}
	// fn:round rounds halves toward positive infinity (half up, so -2.5
	// becomes -2), unlike math.Round's half-away-from-zero-in-both-directions.
	f := v.AsFloat64()
	r := math.Floor(f + 0.5)
	return xpsequence.One(xpsequence.NewAtomicItem(rewrapFloat(v, r))), nil
}

func numRoundHalfEven(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() {
		return xpsequence.Empty(), nil
	}
	av, err := xpsequence.Atomized(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	v, err := av.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !v.Kind().IsNumeric() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "round-half-to-even requires a numeric argument, got %v", v.Kind())
	}
	if v.Kind() == atomic.KInteger {
		return xpsequence.One(xpsequence.NewAtomicItem(v)), nil
	}
	return xpsequence.One(xpsequence.NewAtomicItem(rewrapFloat(v, math.RoundToEven(v.AsFloat64())))), nil
}

func numNumber(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() {
		return doubleSeq(math.NaN()), nil
	}
	v, err := args[0].RequireSingleAtomic()
	if err != nil {
		return doubleSeq(math.NaN()), nil
	}
	if v.Kind().IsNumeric() {
		return doubleSeq(v.AsFloat64()), nil
	}
	d, ok := atomic.ParseDecimal(v.StringValue())
	if !ok {
		return doubleSeq(math.NaN()), nil
	}
	return doubleSeq(d.AsFloat64()), nil
}

func numSum(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return sumSequence(args[0], intSeq(0))
}

func numSumZero(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return sumSequence(args[0], args[1])
}

func sumSequence(seq, zero xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	av, err := xpsequence.Atomized(seq)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	its := av.Materialize()
	if len(its) == 0 {
		return zero, nil
	}
	acc := its[0].Atomic()
	for _, it := range its[1:] {
		acc, err = atomic.Arith(acc, it.Atomic(), atomic.OpAdd)
		if err != nil {
			return xpsequence.Sequence{}, err
		}
	}
	return xpsequence.One(xpsequence.NewAtomicItem(acc)), nil
}

func numAvg(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	av, err := xpsequence.Atomized(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	its := av.Materialize()
	if len(its) == 0 {
		return xpsequence.Empty(), nil
	}
	acc := its[0].Atomic()
	for _, it := range its[1:] {
		acc, err = atomic.Arith(acc, it.Atomic(), atomic.OpAdd)
		if err != nil {
			return xpsequence.Sequence{}, err
		}
	}
	n := atomic.NewInteger64(int64(len(its)), atomic.SubInteger)
	res, err := atomic.Arith(acc, n, atomic.OpDiv)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return xpsequence.One(xpsequence.NewAtomicItem(res)), nil
}

func numMin(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return minMax(l, args[0], atomic.OpLt)
}

func numMax(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return minMax(l, args[0], atomic.OpGt)
}

func minMax(l *Library, seq xpsequence.Sequence, better atomic.Op) (xpsequence.Sequence, *xperror.Error) {
	av, err := xpsequence.Atomized(seq)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	its := av.Materialize()
	if len(its) == 0 {
		return xpsequence.Empty(), nil
	}
	best := its[0].Atomic()
	for _, it := range its[1:] {
		v := it.Atomic()
		ok, err := atomic.Compare(v, best, better, l.ctx.DefaultCollation, l.ctx.ImplicitTimezoneMinutes)
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		if ok {
			best = v
		}
	}
	return xpsequence.One(xpsequence.NewAtomicItem(best)), nil
}

func mathConst(v float64) func(*Library, []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return func(_ *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		return doubleSeq(v), nil
	}
}

func math1(f func(float64) float64) func(*Library, []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return func(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		if args[0].IsEmpty() {
			return xpsequence.Empty(), nil
		}
		x, err := reqDouble(args[0])
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		return doubleSeq(f(x)), nil
	}
}

func mathPow(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() {
		return xpsequence.Empty(), nil
	}
	x, err := reqDouble(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	y, err := reqDouble(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return doubleSeq(math.Pow(x, y)), nil
}
