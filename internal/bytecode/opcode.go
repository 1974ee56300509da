// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package bytecode compiles internal/ir's desugared tree into a flat
// instruction stream a stack machine (internal/vm) can interpret
// directly: constant/name/test/type pools, forward- and backward-jump
// patching for control flow, and a small set of "iteration" opcodes that
// unify the four shapes FLWOR for, some/every, the simple-map operator,
// and predicate filtering all reduce to (spec.md §4.7).
package bytecode

import "fmt"

// Opcode is one instruction's operation tag.
type Opcode byte

const (
	OpConst          Opcode = iota // A: const index -> push singleton
	OpEmpty                        // push the empty sequence
	OpContextItem                  // push the dynamic context's focus item
	OpLoadLocal                    // A: slot -> push locals[A]
	OpStoreLocal                   // A: slot -> pop, locals[A] = top
	OpLoadExternal                 // A: name index -> push dynamic-context variable
	OpConcatN                      // A: n -> pop n sequences, push their flattened concatenation
	OpBinary                       // A: xpast.BinaryOp -> pop b, a; push a `op` b
	OpOr                           // pop b, a; push EBV(a) || EBV(b)
	OpAnd                          // pop b, a; push EBV(a) && EBV(b)
	OpNeg                          // A: 1 for unary '-', 0 for unary '+' -> pop, negate/no-op, push
	OpInstanceOf                   // A: sequence-type index -> pop, push boolean
	OpTreat                        // A: sequence-type index -> pop, check-or-error, push unchanged
	OpCastable                     // A: single-type index -> pop, push boolean
	OpCast                         // A: single-type index -> pop, cast, push
	OpJump                         // A: absolute target
	OpJumpIfFalse                  // A: target -> pop, EBV; jump if false
	OpJumpIfTrue                   // A: target -> pop, EBV; jump if true
	OpCall                         // A: name index, B: argc -> pop B, call static function, push result
	OpApply                        // B: argc -> pop B then callee; invoke, push result
	OpApplyPartial                 // A: hole bitmask, B: argc -> build a partial application
	OpNamedFunctionRef             // A: name index, B: arity -> push a function item
	OpMakeClosure                  // A: function index -> build and push a closure, copying captures
	OpMapCtor                      // A: entry count -> pop 2*A (key,value interleaved), build a map
	OpArrayCtor                    // A: member count -> pop A sequences, build an array
	OpLookupName                   // A: name-pool index holding the key's NCName text
	OpLookupIndex                  // A: 1-based index constant
	OpLookupWildcard                //
	OpLookupExpr                   // pop key sequence, then source; evaluate dynamic lookup
	OpAxisStep                     // A: axis, B: node-test index -> push matching nodes from the focus
	OpIterPush                     // A: kind, B: slotA (-1 none), C: slotB (-1 none) -> pop source, push iteration record
	OpIterStep                     // A: done target -> advance record or finish+jump
	OpIterBody                     // pop the just-evaluated body/predicate result, fold into the top record
	OpDistinctDocOrder              // pop a node sequence, push it sorted into document order, deduplicated
)

func (op Opcode) String() string {
	names := [...]string{
		"Const", "Empty", "ContextItem", "LoadLocal", "StoreLocal", "LoadExternal",
		"ConcatN", "Binary", "Or", "And", "Neg", "InstanceOf", "Treat", "Castable",
		"Cast", "Jump", "JumpIfFalse", "JumpIfTrue", "Call", "Apply", "ApplyPartial",
		"NamedFunctionRef", "MakeClosure", "MapCtor", "ArrayCtor", "LookupName",
		"LookupIndex", "LookupWildcard", "LookupExpr", "AxisStep", "IterPush",
		"IterStep", "IterBody", "DistinctDocOrder",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return fmt.Sprintf("Opcode(%d)", op)
}

// IterKind tags what an OpIterPush/OpIterStep/OpIterBody triple is doing;
// it's the one place the four "iterate a sequence" surface forms (FLWOR
// for, the simple-map operator, predicate filtering, some/every) share a
// single mechanism (spec.md §4.6/§4.7).
type IterKind byte

const (
	IterForMap IterKind = iota
	IterMapSelf
	IterFilter
	IterQuantSome
	IterQuantEvery
)

// UsesFocus reports whether this kind updates the dynamic context's
// focus (context item/position/size) on each step. FLWOR `for` and
// quantified expressions only bind their declared variable(s); the
// simple-map operator and predicate filtering are defined in terms of
// the focus itself.
func (k IterKind) UsesFocus() bool {
	return k == IterMapSelf || k == IterFilter
}

// Inst is one bytecode instruction; operand meaning depends on Op (see
// the comments beside each Opcode constant).
type Inst struct {
	Op   Opcode
	A, B, C int
}
