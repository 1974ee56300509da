// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// Function is any callable item: a reference to a static library function,
// an inline closure, a partial application, or a map/array wrapped as a
// function (spec.md §3 "Function value"). Every variant exposes Arity and
// Name (the zero Name for anonymous inline functions) and can be invoked
// with Call.
type Function interface {
	Arity() int
	Name() names.Name
	Call(args []Sequence) (Sequence, *xperror.Error)
}

// StaticFunction wraps a fixed Go function as a library function value
// (spec.md's "reference to static library function"). internal/funclib
// constructs these at registration time from its declarative signature
// strings.
type StaticFunction struct {
	FnName  names.Name
	FnArity int
	Body    func(args []Sequence) (Sequence, *xperror.Error)
}

func (f StaticFunction) Arity() int        { return f.FnArity }
func (f StaticFunction) Name() names.Name  { return f.FnName }
func (f StaticFunction) Call(args []Sequence) (Sequence, *xperror.Error) {
	if len(args) != f.FnArity {
		return Sequence{}, xperror.New(xperror.XPTY0004, "%s expects %d argument(s), got %d", f.FnName, f.FnArity, len(args))
	}
	return f.Body(args)
}

// Closure is an inline function expression: it captures, by value, a list
// of items from its defining scope (spec.md's "capture-by-value, no
// self-recursion/cycles" invariant means Captured never itself contains a
// Closure referring back to this one). Invoke is supplied by the
// component that actually runs function bodies (the bytecode VM); this
// package only holds the captured environment and arity so that closures
// compose with the rest of the Item/Function machinery without the
// sequence model depending on the VM.
type Closure struct {
	ClosureName  names.Name
	ClosureArity int
	Captured     []Sequence
	Invoke       func(captured []Sequence, args []Sequence) (Sequence, *xperror.Error)
}

func (c Closure) Arity() int       { return c.ClosureArity }
func (c Closure) Name() names.Name { return c.ClosureName }
func (c Closure) Call(args []Sequence) (Sequence, *xperror.Error) {
	if len(args) != c.ClosureArity {
		return Sequence{}, xperror.New(xperror.XPTY0004, "anonymous function expects %d argument(s), got %d", c.ClosureArity, len(args))
	}
	return c.Invoke(c.Captured, args)
}

// PartialApplication is `f(a, ?, b)`: a base function with some argument
// positions bound and others left as holes ("?"), in left-to-right
// declaration order. Arity is the number of holes.
type PartialApplication struct {
	Base  Function
	Bound []Sequence // one entry per Base parameter; the zero Sequence at a hole position is never read
	Holes []bool     // true at hole positions, parallel to Bound
}

func (p PartialApplication) Arity() int {
	n := 0
	for _, h := range p.Holes {
		if h {
			n++
		}
	}
	return n
}

func (p PartialApplication) Name() names.Name { return p.Base.Name() }

func (p PartialApplication) Call(args []Sequence) (Sequence, *xperror.Error) {
	if len(args) != p.Arity() {
		return Sequence{}, xperror.New(xperror.XPTY0004, "partial application of %s expects %d argument(s), got %d", p.Base.Name(), p.Arity(), len(args))
	}
	filled := make([]Sequence, len(p.Bound))
	next := 0
	for i, hole := range p.Holes {
		if hole {
			filled[i] = args[next]
			next++
		} else {
			filled[i] = p.Bound[i]
		}
	}
	return p.Base.Call(filled)
}
