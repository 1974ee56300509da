// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// StringValue renders v in its canonical lexical form (spec.md §4.1):
// decimals strip redundant zeros, doubles/floats switch to scientific
// notation outside [1e-6, 1e6), durations canonicalize to
// PnYnMnDTnHnMnS, and so on.
func (v Value) StringValue() string {
	switch v.kind {
	case KString, KAnyURI, KUntypedAtomic:
		return v.str
	case KBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KFloat:
		return formatFloating(float64(v.f32), 32)
	case KDouble:
		return formatFloating(v.f64, 64)
	case KDecimal:
		return v.dec.String()
	case KInteger:
		return v.bi.String()
	case KHexBinary:
		return strings.ToUpper(hex.EncodeToString(v.binBytes))
	case KBase64Binary:
		return base64.StdEncoding.EncodeToString(v.binBytes)
	case KQName, KNOTATION:
		return v.qn.String()
	case KDuration, KYearMonthDuration, KDayTimeDuration:
		return v.dur.String()
	case KDate:
		return v.dt.StringAsDate()
	case KTime:
		return v.dt.StringAsTime()
	case KDateTime:
		return v.dt.StringAsDateTime()
	case KGYear:
		return v.dt.StringAsGYear()
	case KGYearMonth:
		return v.dt.StringAsGYearMonth()
	case KGMonth:
		return v.dt.StringAsGMonth()
	case KGMonthDay:
		return v.dt.StringAsGMonthDay()
	case KGDay:
		return v.dt.StringAsGDay()
	default:
		return ""
	}
}

// formatFloating implements the canonical xs:float/xs:double lexical form:
// "NaN", "INF", "-INF" for non-finite values; otherwise scientific
// notation outside [1e-6, 1e6) and plain decimal notation inside it,
// with at least one fractional digit; zero is the exception and renders
// as "0" or "-0" (spec.md §4.1).
func formatFloating(f float64, bits int) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "INF"
	}
	if math.IsInf(f, -1) {
		return "-INF"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0"
		}
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e6 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'E', -1, bits)
		// Go renders "1E+06"-style mantissa/exponent; XPath wants "1.0E6"
		// (no leading zero-padding, '+' dropped from positive exponents,
		// mantissa always carries a decimal point).
		mantissa, exp, _ := strings.Cut(s, "E")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		expN, _ := strconv.Atoi(exp)
		return mantissa + "E" + strconv.Itoa(expN)
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
