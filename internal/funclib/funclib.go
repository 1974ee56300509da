// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package funclib is the built-in function library: fn:/map:/array:/math:
// functions declared from signature strings parsed by internal/xpast, each
// backed by a Go closure that can read the DynamicContext it was built
// against (most builtins are pure; a few, such as fn:position, fn:doc and
// fn:current-dateTime, read the dynamic context). A Library implements internal/xpctx's Registry interface, so
// internal/vm resolves every static function call through it without
// either package importing the other directly.
package funclib

import (
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xpast"
	"github.com/mdhenderson/xpath/internal/xpctx"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

// sigNamespaces is the fixed prefix table every registration signature is
// parsed against; it never changes after init, so ParseSignature only
// ever fails here on a typo in one of this package's own literals.
var sigNamespaces = names.NewNamespaces().
	Bind("fn", names.FN).
	Bind("map", names.MAP).
	Bind("array", names.ARRAY).
	Bind("math", names.MATH)

// entry is one registered builtin: its parsed name/arity plus the Go
// implementation, kept separately from the Signature's declared parameter
// types (those are documentation; the implementations do their own
// dynamic-type checking the way the rest of the engine does, per
// internal/vm's treat/cast machinery).
type entry struct {
	sig  xpast.Signature
	body func(m *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error)
}

// Library is a built-in function registry bound to one DynamicContext. It
// is also the Registry that context installs on itself, so context-aware
// builtins (fn:position, fn:doc) can reach back into the context that is
// calling them.
type Library struct {
	ctx     *xpctx.DynamicContext
	entries map[names.Name]map[int][]entry
}

// New builds a Library wired to ctx. Callers that also want ctx.Registry
// to resolve through it must assign it back themselves:
//
//	ctx := xpctx.New(nil)
//	lib := funclib.New(ctx)
//	ctx.Registry = lib
func New(ctx *xpctx.DynamicContext) *Library {
	l := &Library{ctx: ctx, entries: map[names.Name]map[int][]entry{}}
	registerAll(l)
	return l
}

// register parses sig (a signature string like
// "substring($s as xs:string?, $start as xs:double) as xs:string?") and
// binds it to body. A parse failure is this package's own bug, not a
// caller error, so it panics at Library construction time rather than
// threading an error return through every call site in registerAll.
func (l *Library) register(sigStr string, body func(m *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error)) {
	sig, err := xpast.ParseSignature([]byte(sigStr), sigNamespaces, names.FN)
	if err != nil {
		panic("funclib: bad signature " + sigStr + ": " + err.Error())
	}
	byArity := l.entries[sig.Name]
	if byArity == nil {
		byArity = map[int][]entry{}
		l.entries[sig.Name] = byArity
	}
	byArity[len(sig.Params)] = append(byArity[len(sig.Params)], entry{sig: sig, body: body})
}

// Lookup implements xpctx.Registry.
func (l *Library) Lookup(name names.Name, arity int) (xpsequence.Function, bool) {
	byArity, ok := l.entries[name]
	if !ok {
		return nil, false
	}
	es, ok := byArity[arity]
	if !ok || len(es) == 0 {
		return nil, false
	}
	e := es[0]
	return xpsequence.StaticFunction{
		FnName:  name,
		FnArity: arity,
		Body: func(args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
			return e.body(l, args)
		},
	}, true
}

func registerAll(l *Library) {
	registerBoolean(l)
	registerNumeric(l)
	registerStrings(l)
	registerSequences(l)
	registerContext(l)
	registerNodes(l)
	registerDateTime(l)
	registerHigherOrder(l)
	registerMapsArrays(l)
}
