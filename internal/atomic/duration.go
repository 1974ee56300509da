// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Duration holds months (year-month component) and Seconds (day-time
// component, as a Decimal to keep fractional seconds exact). A Duration
// with Months != 0 and Seconds != 0 is the plain xs:duration; the narrower
// subtypes (xs:yearMonthDuration, xs:dayTimeDuration) are the same struct
// distinguished only by which component is zero (spec.md §3 invariant).
type Duration struct {
	Months  int64 // may be negative
	Seconds Decimal
}

func (d Duration) Negate() Duration {
	return Duration{Months: -d.Months, Seconds: d.Seconds.Neg()}
}

func (d Duration) Add(o Duration) Duration {
	return Duration{Months: d.Months + o.Months, Seconds: d.Seconds.Add(o.Seconds)}
}

// String renders the canonical PnYnMnDTnHnMnS form, omitting zero fields,
// with "PT0S" as the zero-duration exception (spec.md §4.1).
func (d Duration) String() string {
	if d.Months == 0 && d.Seconds.Sign() == 0 {
		return "PT0S"
	}
	neg := d.Months < 0 || d.Seconds.Sign() < 0
	months := d.Months
	if months < 0 {
		months = -months
	}
	secs := d.Seconds
	if secs.Sign() < 0 {
		secs = secs.Neg()
	}
	years, months := months/12, months%12

	totalSeconds := secs.AsBigInt()
	frac := secs.Sub(NewDecimalFromInt(totalSeconds))
	sec64 := totalSeconds.Int64()
	days := sec64 / 86400
	sec64 %= 86400
	hours := sec64 / 3600
	sec64 %= 3600
	mins := sec64 / 60
	sec64 %= 60

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte('P')
	if years != 0 {
		fmt.Fprintf(&sb, "%dY", years)
	}
	if months != 0 {
		fmt.Fprintf(&sb, "%dM", months)
	}
	if days != 0 {
		fmt.Fprintf(&sb, "%dD", days)
	}
	hasTime := hours != 0 || mins != 0 || sec64 != 0 || frac.Sign() != 0
	if hasTime {
		sb.WriteByte('T')
		if hours != 0 {
			fmt.Fprintf(&sb, "%dH", hours)
		}
		if mins != 0 {
			fmt.Fprintf(&sb, "%dM", mins)
		}
		if sec64 != 0 || frac.Sign() != 0 {
			whole := NewDecimalFromInt64(sec64).Add(frac)
			sb.WriteString(whole.String())
			sb.WriteByte('S')
		}
	}
	return sb.String()
}

// ParseDuration parses the PnYnMnDTnHnMnS lexical form (a leading '-' is
// allowed). Returns ok=false on malformed input (caller raises FORG0001).
func ParseDuration(s string) (Duration, bool) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg, s = true, s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return Duration{}, false
	}
	s = s[1:]
	datePart, timePart, hasTime := s, "", false
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart, timePart, hasTime = s[:i], s[i+1:], true
	}
	if datePart == "" && (!hasTime || timePart == "") {
		return Duration{}, false // "P" alone, or "PT" alone, is not valid
	}

	var months int64
	var seconds Decimal = NewDecimalFromInt64(0)

	parseField := func(src string, unit byte) (string, int64, bool, error) {
		i := strings.IndexByte(src, unit)
		if i < 0 {
			return src, 0, false, nil
		}
		n, err := strconv.ParseInt(src[:i], 10, 64)
		if err != nil {
			return src, 0, false, err
		}
		return src[i+1:], n, true, nil
	}

	rest := datePart
	var y, mo, d int64
	var ok bool
	var err error
	if rest, y, ok, err = parseField(rest, 'Y'); err != nil {
		return Duration{}, false
	} else if !ok {
		y = 0
	}
	if rest, mo, ok, err = parseField(rest, 'M'); err != nil {
		return Duration{}, false
	}
	_ = ok
	if rest, d, ok, err = parseField(rest, 'D'); err != nil {
		return Duration{}, false
	}
	_ = ok
	if rest != "" {
		return Duration{}, false
	}
	months = y*12 + mo
	seconds = seconds.Add(NewDecimalFromInt64(d * 86400))

	if hasTime {
		rest = timePart
		var h, mi int64
		var sDec Decimal
		if rest, h, ok, err = parseField(rest, 'H'); err != nil {
			return Duration{}, false
		}
		if rest, mi, ok, err = parseField(rest, 'M'); err != nil {
			return Duration{}, false
		}
		if i := strings.IndexByte(rest, 'S'); i >= 0 {
			sDec, ok = ParseDecimal(rest[:i])
			if !ok {
				return Duration{}, false
			}
			rest = rest[i+1:]
		}
		if rest != "" {
			return Duration{}, false
		}
		seconds = seconds.Add(NewDecimalFromInt64(h*3600 + mi*60)).Add(sDec)
	}

	if months == 0 && seconds.Sign() == 0 && datePart == "" && (!hasTime || timePart == "") {
		return Duration{}, false
	}
	dur := Duration{Months: months, Seconds: seconds}
	if neg {
		dur = dur.Negate()
	}
	return dur, true
}

// Compare orders two durations by their effect on a reference dateTime, as
// XPath 3.1 §10.4.2 requires (both converted to an equivalent number of
// seconds using 30-day months, so a year counts as 360 days, as the
// comparison proxy).
func (d Duration) Compare(o Duration) int {
	da := NewDecimalFromInt(big.NewInt(d.Months * 30 * 86400)).Add(d.Seconds)
	db := NewDecimalFromInt(big.NewInt(o.Months * 30 * 86400)).Add(o.Seconds)
	return da.Cmp(db)
}
