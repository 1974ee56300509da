// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerBoolean(l *Library) {
	l.register("true() as xs:boolean", func(_ *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		return boolSeq(true), nil
	})
	l.register("false() as xs:boolean", func(_ *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		return boolSeq(false), nil
	})
	l.register("not($arg as item()*) as xs:boolean", func(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		ebv, err := args[0].EffectiveBooleanValue()
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		return boolSeq(!ebv), nil
	})
	l.register("boolean($arg as item()*) as xs:boolean", func(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		ebv, err := args[0].EffectiveBooleanValue()
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		return boolSeq(ebv), nil
	})
}

func boolSeq(b bool) xpsequence.Sequence {
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(b)))
}
