// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"math/big"
	"strings"

	"github.com/remyoudompheng/bigfft"
)

// bigIntBound is just a *big.Int renamed for readability at integer-subtype
// bound-checking call sites.
type bigIntBound = big.Int

func bnd(v int64) *bigIntBound {
	return big.NewInt(v)
}

// fftMulThreshold is the operand bit-length above which we hand
// multiplication off to bigfft's FFT-based algorithm instead of
// math/big's built-in schoolbook/Karatsuba multiply. Arbitrary-precision
// xs:decimal values in XPath are usually small, but nothing in the type
// stops a query from constructing enormous ones (e.g. repeated squaring in
// a recursive function), so the fast path matters once it's hit.
const fftMulThreshold = 3072

// bigMul multiplies two big.Ints, routing through bigfft for operands wide
// enough that the FFT multiply actually pays for its own overhead.
func bigMul(a, b *big.Int) *big.Int {
	if a.BitLen() > fftMulThreshold && b.BitLen() > fftMulThreshold {
		return bigfft.Mul(a, b)
	}
	return new(big.Int).Mul(a, b)
}

// Decimal is an arbitrary-precision fixed-point number: unscaled * 10^-scale.
// scale is always >= 0; values are not kept in lowest terms (trailing
// fractional zeros survive parsing and arithmetic; String() strips them on
// output).
type Decimal struct {
	Unscaled *big.Int
	Scale    int32
}

func NewDecimalFromInt(i *big.Int) Decimal {
	return Decimal{Unscaled: new(big.Int).Set(i), Scale: 0}
}

func NewDecimalFromInt64(i int64) Decimal {
	return Decimal{Unscaled: big.NewInt(i), Scale: 0}
}

// ParseDecimal parses the XSD decimal lexical form: optional sign, digits,
// optional '.' and more digits. Returns FOCA0002-shaped failure via ok=false;
// the caller attaches the XPath error code (FORG0001 on cast, FOCA0002 on
// direct numeric-literal lexing) since the same parser backs both paths.
func ParseDecimal(s string) (Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}, false
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return Decimal{}, false
	}
	intPart, fracPart, hasDot := s, "", false
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart, hasDot = s[:i], s[i+1:], true
	}
	if intPart == "" && fracPart == "" {
		return Decimal{}, false
	}
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return Decimal{}, false
		}
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return Decimal{}, false
		}
	}
	if hasDot && fracPart == "" {
		fracPart = "0"
	}
	digits := intPart + fracPart
	if digits == "" {
		digits = "0"
	}
	u, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, false
	}
	if neg {
		u.Neg(u)
	}
	return Decimal{Unscaled: u, Scale: int32(len(fracPart))}, true
}

func (d Decimal) rescale(scale int32) Decimal {
	if scale == d.Scale {
		return d
	}
	diff := scale - d.Scale
	u := new(big.Int).Set(d.Unscaled)
	if diff > 0 {
		u.Mul(u, pow10(diff))
	} else {
		u.Quo(u, pow10(-diff))
	}
	return Decimal{Unscaled: u, Scale: scale}
}

func pow10(n int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func maxScale(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func (d Decimal) Add(o Decimal) Decimal {
	s := maxScale(d.Scale, o.Scale)
	da, db := d.rescale(s), o.rescale(s)
	return Decimal{Unscaled: new(big.Int).Add(da.Unscaled, db.Unscaled), Scale: s}
}

func (d Decimal) Sub(o Decimal) Decimal {
	s := maxScale(d.Scale, o.Scale)
	da, db := d.rescale(s), o.rescale(s)
	return Decimal{Unscaled: new(big.Int).Sub(da.Unscaled, db.Unscaled), Scale: s}
}

func (d Decimal) Neg() Decimal {
	return Decimal{Unscaled: new(big.Int).Neg(d.Unscaled), Scale: d.Scale}
}

func (d Decimal) Mul(o Decimal) Decimal {
	return Decimal{Unscaled: bigMul(d.Unscaled, o.Unscaled), Scale: d.Scale + o.Scale}
}

// maxDivScale bounds how many fractional digits fn:div computes for a
// non-terminating decimal division before truncating, matching common
// XPath processor behavior (the spec requires "enough" precision; we use
// a generous fixed bound).
const maxDivScale = 40

// Div divides d by o, returning (quotient, isZeroDivisor).
func (d Decimal) Div(o Decimal) (Decimal, bool) {
	if o.Unscaled.Sign() == 0 {
		return Decimal{}, true
	}
	// scale up the dividend so the integer division carries maxDivScale
	// extra fractional digits beyond what the operands already contribute.
	extra := maxDivScale + o.Scale
	num := new(big.Int).Mul(d.Unscaled, pow10(extra))
	q := new(big.Int).Quo(num, o.Unscaled)
	return Decimal{Unscaled: q, Scale: d.Scale + maxDivScale}.normalize(), false
}

// normalize strips trailing zero digits from the fractional part, keeping
// scale minimal without ever going negative.
func (d Decimal) normalize() Decimal {
	if d.Scale <= 0 || d.Unscaled.Sign() == 0 {
		if d.Unscaled.Sign() == 0 {
			return Decimal{Unscaled: big.NewInt(0), Scale: 0}
		}
		return d
	}
	u, s := new(big.Int).Set(d.Unscaled), d.Scale
	ten := big.NewInt(10)
	for s > 0 {
		q, r := new(big.Int).QuoRem(u, ten, new(big.Int))
		if r.Sign() != 0 {
			break
		}
		u, s = q, s-1
	}
	return Decimal{Unscaled: u, Scale: s}
}

func (d Decimal) Sign() int { return d.Unscaled.Sign() }

func (d Decimal) Cmp(o Decimal) int {
	s := maxScale(d.Scale, o.Scale)
	return d.rescale(s).Unscaled.Cmp(o.rescale(s).Unscaled)
}

func (d Decimal) IsInteger() bool {
	return d.normalize().Scale == 0
}

// AsBigInt truncates toward zero. Callers must check IsInteger when an
// exact conversion (vs. a cast that truncates) is required.
func (d Decimal) AsBigInt() *big.Int {
	n := d.normalize()
	if n.Scale == 0 {
		return n.Unscaled
	}
	return new(big.Int).Quo(n.Unscaled, pow10(n.Scale))
}

func (d Decimal) AsFloat64() float64 {
	f := new(big.Float).SetInt(d.Unscaled)
	div := new(big.Float).SetInt(pow10(d.Scale))
	f.Quo(f, div)
	v, _ := f.Float64()
	return v
}

// String renders the canonical lexical form: no exponent, at least one
// digit before the decimal point, no trailing zero fractional digits,
// and no fractional point at all for integral values (spec.md §4.1).
func (d Decimal) String() string {
	n := d.normalize()
	neg := n.Unscaled.Sign() < 0
	digits := new(big.Int).Abs(n.Unscaled).String()
	if n.Scale == 0 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	for int32(len(digits)) <= n.Scale {
		digits = "0" + digits
	}
	intPart := digits[:int32(len(digits))-n.Scale]
	fracPart := digits[int32(len(digits))-n.Scale:]
	out := intPart + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
