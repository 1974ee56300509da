// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerHigherOrder(l *Library) {
	l.register("for-each($seq as item()*, $action as function(item()) as item()*) as item()*", hoForEach)
	l.register("filter($seq as item()*, $f as function(item()) as xs:boolean) as item()*", hoFilter)
	l.register("fold-left($seq as item()*, $zero as item()*, $f as function(item()*, item()) as item()*) as item()*", hoFoldLeft)
	l.register("fold-right($seq as item()*, $zero as item()*, $f as function(item(), item()*) as item()*) as item()*", hoFoldRight)
	l.register("for-each-pair($seq1 as item()*, $seq2 as item()*, $action as function(item(), item()) as item()*) as item()*", hoForEachPair)
	l.register("function-arity($func as function(*)) as xs:integer", hoFunctionArity)
	l.register("function-name($func as function(*)) as xs:QName?", hoFunctionName)
}

func hoForEach(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	fn, err := asFunction(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	var out []xpsequence.Item
	for _, it := range items(args[0]) {
		r, cerr := fn.Call([]xpsequence.Sequence{xpsequence.One(it)})
		if cerr != nil {
			return xpsequence.Sequence{}, cerr
		}
		out = append(out, items(r)...)
	}
	return xpsequence.Many(out), nil
}

func hoFilter(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	fn, err := asFunction(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	var out []xpsequence.Item
	for _, it := range items(args[0]) {
		r, cerr := fn.Call([]xpsequence.Sequence{xpsequence.One(it)})
		if cerr != nil {
			return xpsequence.Sequence{}, cerr
		}
		keep, berr := r.EffectiveBooleanValue()
		if berr != nil {
			return xpsequence.Sequence{}, berr
		}
		if keep {
			out = append(out, it)
		}
	}
	return xpsequence.Many(out), nil
}

func hoFoldLeft(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	fn, err := asFunction(args[2])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	acc := args[1]
	for _, it := range items(args[0]) {
		r, cerr := fn.Call([]xpsequence.Sequence{acc, xpsequence.One(it)})
		if cerr != nil {
			return xpsequence.Sequence{}, cerr
		}
		acc = r
	}
	return acc, nil
}

func hoFoldRight(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	fn, err := asFunction(args[2])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	its := items(args[0])
	acc := args[1]
	for i := len(its) - 1; i >= 0; i-- {
		r, cerr := fn.Call([]xpsequence.Sequence{xpsequence.One(its[i]), acc})
		if cerr != nil {
			return xpsequence.Sequence{}, cerr
		}
		acc = r
	}
	return acc, nil
}

func hoForEachPair(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	fn, err := asFunction(args[2])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	a, b := items(args[0]), items(args[1])
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var out []xpsequence.Item
	for i := 0; i < n; i++ {
		r, cerr := fn.Call([]xpsequence.Sequence{xpsequence.One(a[i]), xpsequence.One(b[i])})
		if cerr != nil {
			return xpsequence.Sequence{}, cerr
		}
		out = append(out, items(r)...)
	}
	return xpsequence.Many(out), nil
}

func hoFunctionArity(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	fn, err := asFunction(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return intSeq(int64(fn.Arity())), nil
}

func hoFunctionName(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	fn, err := asFunction(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	name := fn.Name()
	if name.IsZero() {
		return xpsequence.Empty(), nil
	}
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewQName(name))), nil
}
