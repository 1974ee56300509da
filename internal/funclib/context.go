// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"time"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerContext(l *Library) {
	l.register("position() as xs:integer", ctxPosition)
	l.register("last() as xs:integer", ctxLast)
	l.register("current-dateTime() as xs:dateTime", ctxCurrentDateTime)
	l.register("current-date() as xs:date", ctxCurrentDate)
	l.register("current-time() as xs:time", ctxCurrentTime)
	l.register("implicit-timezone() as xs:dayTimeDuration", ctxImplicitTimezone)
	l.register("default-collation() as xs:string", ctxDefaultCollation)
}

func ctxPosition(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if !l.ctx.HasContextItem {
		return xpsequence.Sequence{}, xperror.New(xperror.XPDY0002, "fn:position() requires a context item")
	}
	return intSeq(int64(l.ctx.ContextPosition)), nil
}

func ctxLast(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if !l.ctx.HasContextItem {
		return xpsequence.Sequence{}, xperror.New(xperror.XPDY0002, "fn:last() requires a context item")
	}
	return intSeq(int64(l.ctx.ContextSize)), nil
}

func nowDateTime(tzMinutes int) atomic.DateTime {
	now := time.Now().UTC().Add(time.Duration(tzMinutes) * time.Minute)
	sec := atomic.NewDecimalFromInt64(int64(now.Second()))
	return atomic.DateTime{
		Year: int64(now.Year()), Month: int(now.Month()), Day: now.Day(),
		Hour: now.Hour(), Minute: now.Minute(), Second: sec,
		HasTZ: true, TZOffsetMinutes: tzMinutes,
	}
}

func ctxCurrentDateTime(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	dt := nowDateTime(l.ctx.ImplicitTimezoneMinutes)
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewDateTime(dt))), nil
}

func ctxCurrentDate(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	dt := nowDateTime(l.ctx.ImplicitTimezoneMinutes)
	dt.Hour, dt.Minute, dt.Second = 0, 0, atomic.NewDecimalFromInt64(0)
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewDate(dt))), nil
}

func ctxCurrentTime(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	dt := nowDateTime(l.ctx.ImplicitTimezoneMinutes)
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewTime(dt))), nil
}

func ctxImplicitTimezone(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	mins := l.ctx.ImplicitTimezoneMinutes
	dur := atomic.Duration{Seconds: atomic.NewDecimalFromInt64(int64(mins) * 60)}
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewDuration(dur))), nil
}

// ctxDefaultCollation always reports the code-point collation URI: a
// Collation value doesn't carry its own URI back out, and xpctx.New never
// installs anything but collation.Codepoint() as the default.
func ctxDefaultCollation(_ *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return stringSeq("http://www.w3.org/2005/xpath-functions/collation/codepoint"), nil
}
