// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package ir lowers the xpast abstract syntax tree into a smaller,
// desugared tree closer to what internal/bytecode can compile directly:
// FLWOR for/let/quantified forms become explicit iteration nodes over a
// resolved local-variable slot, predicates and the simple-map operator
// become a single Filter/MapSelf shape regardless of surface syntax, and
// every variable reference is resolved to either a local slot in the
// current function frame, a capture slot threaded in from an enclosing
// frame, or an external dynamic-context variable.
package ir

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xpast"
)

// Node is implemented by every IR node.
type Node interface {
	irNode()
}

type base struct{}

func (base) irNode() {}

// Program is the top-level lowering result: the frame-0 body plus the
// number of local slots frame 0 needs.
type Program struct {
	Body      Node
	NumLocals int
}

// Function is a lowered inline-function body: its own local frame,
// parameter slots, and the capture specification describing how the VM
// fills the captured prefix of its locals when the closure is created.
type Function struct {
	Name       names.Name
	ParamSlots []int
	NumLocals  int
	Captures   []Capture
	Body       Node
}

// Capture says "when this function's closure is created, copy the value
// currently in the enclosing frame's slot FromSlot into this frame's
// slot ToSlot before the call begins."
type Capture struct {
	FromSlot int
	ToSlot   int
}

// ---- Leaf nodes ----

type Literal struct {
	base
	Value atomic.Value
}

// EmptySeq is the empty sequence `()`.
type EmptySeq struct{ base }

type ContextItem struct{ base }

// LocalSlot reads a value previously stored into slot Slot of the current
// frame (a for/let/quantified/parameter binding).
type LocalSlot struct {
	base
	Slot int
	Name names.Name
}

// ExternalVar reads a variable from the dynamic context by name — it has
// no enclosing for/let/parameter binder, so it was left unresolved by
// xpast's uniquification pass.
type ExternalVar struct {
	base
	Name names.Name
}

// ---- Sequence & grouping ----

type Seq struct {
	base
	Items []Node
}

// ---- Control flow ----

// Let evaluates Value once, stores it in slot Slot, then evaluates Body.
type Let struct {
	base
	Slot  int
	Value Node
	Body  Node
}

// ForMap evaluates Source to a sequence; for each item (with PosSlot, if
// >= 0, bound to the item's 1-based position) stored at Slot, evaluates
// Body and concatenates the results (spec.md §4.6: FLWOR `for` desugars
// into this Let/Map-shaped node; a multi-binding `for` lowers to nested
// ForMap nodes, innermost one wrapping the return clause).
type ForMap struct {
	base
	Slot    int
	PosSlot int // -1 if no positional variable
	Source  Node
	Body    Node
}

// Quant implements both `some` and `every`: iterate Seq, binding Slot,
// and short-circuit as soon as Body's effective boolean value settles
// the overall answer (any true settles `some`; any false settles
// `every`). A multi-binding quantified expression lowers to nested Quant
// nodes, the innermost Body being the Satisfies clause itself.
type Quant struct {
	base
	Every bool
	Slot  int
	Seq   Node
	Body  Node
}

type If struct {
	base
	Cond, Then, Else Node
}

// ---- Operators ----

// BinaryOp reuses xpast's operator enum directly — the IR doesn't need
// its own, since every group (general/value/node comparison, arithmetic,
// range, union/intersect/except, concat) maps onto an unchanged runtime
// operation in internal/vm.
type BinaryOp struct {
	base
	Op          xpast.BinaryOp
	Left, Right Node
}

// Or/And get their own nodes (rather than folding into BinaryOp) because
// they combine their operands' effective boolean values, which the other
// binary operators never do. Both operands are always evaluated; there is
// no short-circuit.
type Or struct {
	base
	Left, Right Node
}

type And struct {
	base
	Left, Right Node
}

type Unary struct {
	base
	Negative bool
	Operand  Node
}

// ---- Type expressions ----

type InstanceOf struct {
	base
	Operand Node
	Type    xpast.SequenceType
}

type Treat struct {
	base
	Operand Node
	Type    xpast.SequenceType
}

type Castable struct {
	base
	Operand Node
	Type    xpast.SingleType
}

type Cast struct {
	base
	Operand Node
	Type    xpast.SingleType
}

// ---- Simple map / path ----

// MapSelf evaluates Source, then for each resulting item (set as the
// context item) evaluates Body and concatenates the results. Both the
// simple-map operator `!` and path-step composition `/` lower to chains
// of this node (spec.md §4.6's "path-expression decomposition"); Path
// additionally requests document-order/dedup normalization afterward via
// DistinctDocOrder.
type MapSelf struct {
	base
	Source Node
	Body   Node
}

// DistinctDocOrder sorts Source's result into document order and removes
// duplicate nodes, the normalization every `/`-path result requires. A
// no-op (left to the VM to detect cheaply) when Source holds no nodes.
type DistinctDocOrder struct {
	base
	Source Node
}

// AxisStep evaluates the named axis from the current context item,
// filtering by Test, then applies each predicate in Predicates in turn
// (each one numeric-or-boolean per spec.md's predicate truth-value rule,
// decided at run time by internal/vm since it depends on the predicate's
// actual result, not its static shape).
type AxisStep struct {
	base
	Axis       xpast.Axis
	Test       xpast.NodeTest
	Predicates []Node
}

// Filter applies a general predicate (from postfix `[...]` on an
// arbitrary expression, not an axis step) to Source: spec.md's predicate
// truth-value rule again — numeric singleton means "item at this
// position", anything else means effective-boolean-value.
type Filter struct {
	base
	Source Node
	Pred   Node
}

// ---- Functions ----

type Call struct {
	base
	Name names.Name
	Args []Node
}

// Apply invokes a dynamically-computed function item (arrow expressions
// and `$f(...)` dynamic calls both lower to this).
type Apply struct {
	base
	Callee Node
	Args   []Node
}

type NamedFunctionRef struct {
	base
	Name  names.Name
	Arity int
}

// Closure constructs a function value from a lowered Function body at the
// point InlineFunctionExpr appears in the tree; internal/vm reads FnIndex
// out of the program's function table.
type Closure struct {
	base
	FnIndex int
}

// ---- Maps / arrays ----

type MapEntry struct {
	Key, Value Node
}

type MapCtor struct {
	base
	Entries []MapEntry
}

type ArrayCtor struct {
	base
	Members []Node
}

type Lookup struct {
	base
	Source   Node
	Wildcard bool
	KeyName  string
	KeyIndex *int
	KeyExpr  Node
}
