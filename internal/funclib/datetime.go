// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerDateTime(l *Library) {
	l.register("format-dateTime($value as xs:dateTime?, $picture as xs:string) as xs:string?", formatDateTime)
	l.register("format-date($value as xs:date?, $picture as xs:string) as xs:string?", formatDate)
	l.register("format-time($value as xs:time?, $picture as xs:string) as xs:string?", formatTime)

	l.register("year-from-dateTime($arg as xs:dateTime?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(dt.Year, atomic.SubInteger) }))
	l.register("month-from-dateTime($arg as xs:dateTime?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(int64(dt.Month), atomic.SubInteger) }))
	l.register("day-from-dateTime($arg as xs:dateTime?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(int64(dt.Day), atomic.SubInteger) }))
	l.register("hours-from-dateTime($arg as xs:dateTime?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(int64(dt.Hour), atomic.SubInteger) }))
	l.register("minutes-from-dateTime($arg as xs:dateTime?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(int64(dt.Minute), atomic.SubInteger) }))
	l.register("seconds-from-dateTime($arg as xs:dateTime?) as xs:decimal?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewDecimal(dt.Second) }))

	l.register("year-from-date($arg as xs:date?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(dt.Year, atomic.SubInteger) }))
	l.register("month-from-date($arg as xs:date?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(int64(dt.Month), atomic.SubInteger) }))
	l.register("day-from-date($arg as xs:date?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(int64(dt.Day), atomic.SubInteger) }))

	l.register("hours-from-time($arg as xs:time?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(int64(dt.Hour), atomic.SubInteger) }))
	l.register("minutes-from-time($arg as xs:time?) as xs:integer?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewInteger64(int64(dt.Minute), atomic.SubInteger) }))
	l.register("seconds-from-time($arg as xs:time?) as xs:decimal?", dtField(func(dt atomic.DateTime) atomic.Value { return atomic.NewDecimal(dt.Second) }))

	l.register("years-from-duration($arg as xs:duration?) as xs:integer?", durField(func(d atomic.Duration) atomic.Value { return atomic.NewInteger64(d.Months/12, atomic.SubInteger) }))
	l.register("months-from-duration($arg as xs:duration?) as xs:integer?", durField(func(d atomic.Duration) atomic.Value { return atomic.NewInteger64(d.Months%12, atomic.SubInteger) }))
	l.register("days-from-duration($arg as xs:duration?) as xs:integer?", durField(func(d atomic.Duration) atomic.Value { return atomic.NewInteger64(d.Seconds.AsBigInt().Int64()/86400, atomic.SubInteger) }))
	l.register("hours-from-duration($arg as xs:duration?) as xs:integer?", durField(func(d atomic.Duration) atomic.Value { return atomic.NewInteger64((d.Seconds.AsBigInt().Int64()/3600)%24, atomic.SubInteger) }))
	l.register("minutes-from-duration($arg as xs:duration?) as xs:integer?", durField(func(d atomic.Duration) atomic.Value { return atomic.NewInteger64((d.Seconds.AsBigInt().Int64()/60)%60, atomic.SubInteger) }))
	l.register("seconds-from-duration($arg as xs:duration?) as xs:decimal?", durField(func(d atomic.Duration) atomic.Value {
		whole := d.Seconds.AsBigInt().Int64() % 60
		return atomic.NewDecimal(atomic.NewDecimalFromInt64(whole))
	}))
}

func formatWithStrftime(arg xpsequence.Sequence, pattern string, implicitTZ int) (xpsequence.Sequence, *xperror.Error) {
	if arg.IsEmpty() {
		return xpsequence.Empty(), nil
	}
	v, err := arg.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	s, serr := atomic.FormatStrftime(v.DateTimeValue(), pattern, implicitTZ)
	if serr != nil {
		return xpsequence.Sequence{}, xperror.Wrap(xperror.FORG0001, serr, "format-date/dateTime/time failed")
	}
	return stringSeq(s), nil
}

// strftimePicture maps the handful of XPath format-date picture
// components this engine supports onto a go-strftime pattern; the full
// XPath picture-string grammar (component modifiers, width/ordinal
// specifiers) is not implemented, so unrecognized components pass
// through unchanged rather than being rejected.
func strftimePicture(picture string) string {
	replacer := map[string]string{
		"[Y]": "%Y", "[Y0001]": "%Y", "[M]": "%m", "[M01]": "%m",
		"[D]": "%d", "[D01]": "%d", "[H]": "%H", "[H01]": "%H",
		"[m]": "%M", "[m01]": "%M", "[s]": "%S", "[s01]": "%S",
		"[Z]": "%z",
	}
	out := picture
	for k, v := range replacer {
		out = replaceAllLiteral(out, k, v)
	}
	return out
}

func replaceAllLiteral(s, old, new string) string {
	for {
		i := indexOf(s, old)
		if i < 0 {
			return s
		}
		s = s[:i] + new + s[i+len(old):]
	}
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

func formatDateTime(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	picture, err := reqString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return formatWithStrftime(args[0], strftimePicture(picture), l.ctx.ImplicitTimezoneMinutes)
}

func formatDate(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	picture, err := reqString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return formatWithStrftime(args[0], strftimePicture(picture), l.ctx.ImplicitTimezoneMinutes)
}

func formatTime(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	picture, err := reqString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return formatWithStrftime(args[0], strftimePicture(picture), l.ctx.ImplicitTimezoneMinutes)
}

func dtField(extract func(atomic.DateTime) atomic.Value) func(*Library, []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return func(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		if args[0].IsEmpty() {
			return xpsequence.Empty(), nil
		}
		v, err := args[0].RequireSingleAtomic()
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		return xpsequence.One(xpsequence.NewAtomicItem(extract(v.DateTimeValue()))), nil
	}
}

func durField(extract func(atomic.Duration) atomic.Value) func(*Library, []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return func(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		if args[0].IsEmpty() {
			return xpsequence.Empty(), nil
		}
		v, err := args[0].RequireSingleAtomic()
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		return xpsequence.One(xpsequence.NewAtomicItem(extract(v.Duration()))), nil
	}
}
