// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DateTime is the shared representation behind xs:date, xs:time,
// xs:dateTime, and the five truncated gregorian types. Which fields are
// meaningful is determined by the owning Value's Kind; unused fields are
// zero. Year may be negative (proleptic gregorian, astronomical numbering).
type DateTime struct {
	Year            int64
	Month, Day      int
	Hour, Minute    int
	Second          Decimal
	HasTZ           bool
	TZOffsetMinutes int // minutes east of UTC; only meaningful if HasTZ
}

func (dt DateTime) withTZString() string {
	if !dt.HasTZ {
		return ""
	}
	if dt.TZOffsetMinutes == 0 {
		return "Z"
	}
	sign := "+"
	off := dt.TZOffsetMinutes
	if off < 0 {
		sign, off = "-", -off
	}
	return fmt.Sprintf("%s%02d:%02d", sign, off/60, off%60)
}

func parseTZ(s string) (rest string, hasTZ bool, offMin int, ok bool) {
	if s == "" {
		return s, false, 0, true
	}
	if strings.HasSuffix(s, "Z") {
		return s[:len(s)-1], true, 0, true
	}
	// look for a trailing +HH:MM or -HH:MM (but not the leading sign of a
	// negative year, which callers strip before calling this).
	if len(s) >= 6 {
		tail := s[len(s)-6:]
		if (tail[0] == '+' || tail[0] == '-') && tail[3] == ':' {
			h, err1 := strconv.Atoi(tail[1:3])
			m, err2 := strconv.Atoi(tail[4:6])
			if err1 == nil && err2 == nil {
				off := h*60 + m
				if tail[0] == '-' {
					off = -off
				}
				return s[:len(s)-6], true, off, true
			}
		}
	}
	return s, false, 0, true
}

// ParseDate parses an xs:date lexical value: [-]YYYY-MM-DD with optional
// timezone.
func ParseDate(s string) (DateTime, bool) {
	neg := strings.HasPrefix(s, "-")
	body := s
	if neg {
		body = s[1:]
	}
	body, hasTZ, off, _ := parseTZ(body)
	parts := strings.SplitN(body, "-", 3)
	if len(parts) != 3 {
		return DateTime{}, false
	}
	y, err1 := strconv.ParseInt(parts[0], 10, 64)
	mo, err2 := strconv.Atoi(parts[1])
	d, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return DateTime{}, false
	}
	if neg {
		y = -y
	}
	return DateTime{Year: y, Month: mo, Day: d, HasTZ: hasTZ, TZOffsetMinutes: off}, true
}

// ParseTime parses an xs:time lexical value: HH:MM:SS[.fff] with optional
// timezone.
func ParseTime(s string) (DateTime, bool) {
	body, hasTZ, off, _ := parseTZ(s)
	parts := strings.SplitN(body, ":", 3)
	if len(parts) != 3 {
		return DateTime{}, false
	}
	h, err1 := strconv.Atoi(parts[0])
	mi, err2 := strconv.Atoi(parts[1])
	sec, ok := ParseDecimal(parts[2])
	if err1 != nil || err2 != nil || !ok || h > 24 || mi > 59 {
		return DateTime{}, false
	}
	return DateTime{Hour: h, Minute: mi, Second: sec, HasTZ: hasTZ, TZOffsetMinutes: off}, true
}

// ParseDateTime parses an xs:dateTime lexical value: date 'T' time.
func ParseDateTime(s string) (DateTime, bool) {
	i := strings.IndexByte(s, 'T')
	if i < 0 {
		return DateTime{}, false
	}
	d, ok := ParseDate(s[:i])
	if !ok {
		return DateTime{}, false
	}
	t, ok := ParseTime(s[i+1:])
	if !ok {
		return DateTime{}, false
	}
	d.Hour, d.Minute, d.Second = t.Hour, t.Minute, t.Second
	d.HasTZ, d.TZOffsetMinutes = t.HasTZ, t.TZOffsetMinutes
	return d, true
}

func (dt DateTime) dateString() string {
	yearStr := fmt.Sprintf("%04d", dt.Year)
	if dt.Year < 0 {
		yearStr = fmt.Sprintf("-%04d", -dt.Year)
	}
	return fmt.Sprintf("%s-%02d-%02d", yearStr, dt.Month, dt.Day)
}

func (dt DateTime) timeString() string {
	sec := dt.Second
	secStr := sec.String()
	// pad whole-second part to 2 digits (sec.String() never zero-pads)
	if i := strings.IndexByte(secStr, '.'); i >= 0 {
		if i < 2 {
			secStr = strings.Repeat("0", 2-i) + secStr
		}
	} else if len(secStr) < 2 {
		secStr = "0" + secStr
	}
	return fmt.Sprintf("%02d:%02d:%s", dt.Hour, dt.Minute, secStr)
}

func (dt DateTime) StringAsDate() string      { return dt.dateString() + dt.withTZString() }
func (dt DateTime) StringAsTime() string      { return dt.timeString() + dt.withTZString() }
func (dt DateTime) StringAsDateTime() string  { return dt.dateString() + "T" + dt.timeString() + dt.withTZString() }
func (dt DateTime) StringAsGYear() string     { return fmt.Sprintf("%04d", dt.Year) + dt.withTZString() }
func (dt DateTime) StringAsGYearMonth() string {
	return fmt.Sprintf("%04d-%02d", dt.Year, dt.Month) + dt.withTZString()
}
func (dt DateTime) StringAsGMonth() string    { return fmt.Sprintf("--%02d", dt.Month) + dt.withTZString() }
func (dt DateTime) StringAsGMonthDay() string {
	return fmt.Sprintf("--%02d-%02d", dt.Month, dt.Day) + dt.withTZString()
}
func (dt DateTime) StringAsGDay() string { return fmt.Sprintf("---%02d", dt.Day) + dt.withTZString() }

// ToGoTime converts to a time.Time, applying implicitTZ (minutes east of
// UTC) when the value itself carries no timezone. Needed to bridge into
// go-strftime, which formats a time.Time rather than our lexical fields.
func (dt DateTime) ToGoTime(implicitTZMinutes int) time.Time {
	off := dt.TZOffsetMinutes
	if !dt.HasTZ {
		off = implicitTZMinutes
	}
	loc := time.FixedZone("", off*60)
	whole := dt.Second.AsBigInt().Int64()
	fracDec := dt.Second.Sub(NewDecimalFromInt64(whole))
	nsec := int(fracDec.AsFloat64() * 1e9)
	return time.Date(int(dt.Year), time.Month(dt.Month), dt.Day, dt.Hour, dt.Minute, int(whole), nsec, loc)
}

// FormatStrftime renders dt using a strftime-style pattern, the vehicle
// for the supplemental fn:format-date/format-dateTime/format-time family
// (SPEC_FULL.md §8) layered on top of the spec-mandated XPath picture
// string format, which a caller may prefer to implement in internal/funclib
// directly for full XSLT compatibility.
func FormatStrftime(dt DateTime, pattern string, implicitTZMinutes int) (string, error) {
	return strftime.Format(pattern, dt.ToGoTime(implicitTZMinutes))
}

// CompareDateTime orders two DateTime values of the same Kind, resolving
// an absent timezone on either side using implicitTZMinutes — per spec.md
// §4.1 ("dates require same timezone semantics using the implicit offset
// when absent").
func CompareDateTime(a, b DateTime, implicitTZMinutes int) int {
	at := a.ToGoTime(implicitTZMinutes)
	bt := b.ToGoTime(implicitTZMinutes)
	switch {
	case at.Before(bt):
		return -1
	case at.After(bt):
		return 1
	default:
		return 0
	}
}
