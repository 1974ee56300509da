// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package xpctx holds the dynamic (and static-at-evaluation-time) context
// every running expression reads from: the current focus (context item,
// position, size), external variable bindings, the default collation, the
// implicit timezone, and the function registry internal/vm calls through.
// It is the one place internal/bytecode's OpContextItem/OpLoadExternal/
// OpCall instructions and internal/funclib's context-dependent builtins
// (fn:position, fn:last, fn:doc) all read from (spec.md §5, §7).
package xpctx

import (
	"github.com/google/uuid"

	"github.com/mdhenderson/xpath/internal/collation"
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/treestore"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

// Registry resolves a static function name + arity to a callable value.
// internal/funclib implements this; internal/vm only depends on the
// interface, so the two packages don't import each other.
type Registry interface {
	Lookup(name names.Name, arity int) (xpsequence.Function, bool)
}

// DynamicContext is passed by pointer through one whole evaluation. The
// focus fields are mutated in place as internal/vm iterates sequences
// (axis steps, predicates, the simple-map operator); every other field is
// fixed for the run's lifetime.
type DynamicContext struct {
	// CorrelationID identifies one compile+run for logging, assigned via
	// google/uuid (SPEC_FULL.md §2's "every evaluation is tagged with a
	// correlation id for log correlation").
	CorrelationID uuid.UUID

	HasContextItem  bool
	ContextItem     xpsequence.Item
	ContextPosition int
	ContextSize     int

	// Vars holds external variable bindings supplied by the host.
	Vars map[names.Name]xpsequence.Sequence

	Registry Registry

	DefaultCollation        collation.Collation
	ImplicitTimezoneMinutes int

	Resolver treestore.Resolver
	Docs     *DocumentCache
}

// New builds a fresh DynamicContext with a random correlation id and the
// code-point collation as default.
func New(reg Registry) *DynamicContext {
	return &DynamicContext{
		CorrelationID:    uuid.New(),
		Vars:             map[names.Name]xpsequence.Sequence{},
		Registry:         reg,
		DefaultCollation: collation.Codepoint(),
	}
}

// PushFocus saves the current focus and installs a new one, returning a
// closure that restores it. internal/vm does not call it: the VM keeps the
// saved focus of each iteration in its own iteration records.
func (c *DynamicContext) PushFocus(item xpsequence.Item, pos, size int) (restore func()) {
	hadItem, oldItem, oldPos, oldSize := c.HasContextItem, c.ContextItem, c.ContextPosition, c.ContextSize
	c.HasContextItem, c.ContextItem, c.ContextPosition, c.ContextSize = true, item, pos, size
	return func() {
		c.HasContextItem, c.ContextItem, c.ContextPosition, c.ContextSize = hadItem, oldItem, oldPos, oldSize
	}
}

// Lookup resolves a variable reference by expanded name, per spec.md §5's
// "an external variable lookup that raises XPST0008 for an unbound name".
func (c *DynamicContext) Lookup(n names.Name) (xpsequence.Sequence, bool) {
	v, ok := c.Vars[n]
	return v, ok
}
