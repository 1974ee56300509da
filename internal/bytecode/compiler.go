// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package bytecode

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/ir"
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xpast"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// Compile turns an ir.Program plus its function table into a Program
// internal/vm can run directly.
func Compile(prog *ir.Program, fns []ir.Function) (*Program, *xperror.Error) {
	c := newCompiler()
	main := c.compileChunk(names.Name{}, prog.Body, prog.NumLocals, nil, nil)
	funcChunks := make([]Chunk, len(fns))
	for i, fn := range fns {
		funcChunks[i] = c.compileChunk(fn.Name, fn.Body, fn.NumLocals, fn.ParamSlots, fn.Captures)
	}
	return &Program{
		Main:        main,
		Functions:   funcChunks,
		Consts:      c.consts,
		Names:       c.names,
		Tests:       c.tests,
		SeqTypes:    c.seqTypes,
		SingleTypes: c.singleTypes,
	}, nil
}

type compiler struct {
	consts      []atomic.Value
	names       []names.Name
	tests       []xpast.NodeTest
	seqTypes    []xpast.SequenceType
	singleTypes []xpast.SingleType

	nameIdx map[names.Name]int
}

func newCompiler() *compiler {
	return &compiler{nameIdx: map[names.Name]int{}}
}

func (c *compiler) internConst(v atomic.Value) int {
	c.consts = append(c.consts, v)
	return len(c.consts) - 1
}

func (c *compiler) internName(n names.Name) int {
	if idx, ok := c.nameIdx[n]; ok {
		return idx
	}
	c.names = append(c.names, n)
	idx := len(c.names) - 1
	c.nameIdx[n] = idx
	return idx
}

func (c *compiler) internTest(t xpast.NodeTest) int {
	c.tests = append(c.tests, t)
	return len(c.tests) - 1
}

func (c *compiler) internSeqType(t xpast.SequenceType) int {
	c.seqTypes = append(c.seqTypes, t)
	return len(c.seqTypes) - 1
}

func (c *compiler) internSingleType(t xpast.SingleType) int {
	c.singleTypes = append(c.singleTypes, t)
	return len(c.singleTypes) - 1
}

// chunkBuilder accumulates one chunk's instruction stream, with forward-
// jump patching support: emit appends an instruction (a jump with a
// placeholder target) and returns its index; patch fills in the target
// once it's known, typically from here().
type chunkBuilder struct {
	insns []Inst
}

func (b *chunkBuilder) emit(op Opcode, a, bb, cc int) int {
	b.insns = append(b.insns, Inst{Op: op, A: a, B: bb, C: cc})
	return len(b.insns) - 1
}

func (b *chunkBuilder) here() int { return len(b.insns) }

func (b *chunkBuilder) patch(at int, target int) {
	b.insns[at].A = target
}

func (c *compiler) compileChunk(name names.Name, body ir.Node, numLocals int, paramSlots []int, captures []ir.Capture) Chunk {
	b := &chunkBuilder{}
	c.node(b, body)
	return Chunk{Name: name, Insns: b.insns, NumLocals: numLocals, ParamSlots: paramSlots, Captures: captures}
}

// node emits code that, at run time, pushes exactly one Sequence value
// (the node's result) onto internal/vm's operand stack.
func (c *compiler) node(b *chunkBuilder, n ir.Node) {
	switch v := n.(type) {
	case ir.Literal:
		b.emit(OpConst, c.internConst(v.Value), 0, 0)
	case ir.EmptySeq:
		b.emit(OpEmpty, 0, 0, 0)
	case ir.ContextItem:
		b.emit(OpContextItem, 0, 0, 0)
	case ir.LocalSlot:
		b.emit(OpLoadLocal, v.Slot, 0, 0)
	case ir.ExternalVar:
		b.emit(OpLoadExternal, c.internName(v.Name), 0, 0)
	case ir.Seq:
		for _, it := range v.Items {
			c.node(b, it)
		}
		b.emit(OpConcatN, len(v.Items), 0, 0)
	case ir.Let:
		c.node(b, v.Value)
		b.emit(OpStoreLocal, v.Slot, 0, 0)
		c.node(b, v.Body)
	case ir.If:
		c.node(b, v.Cond)
		jf := b.emit(OpJumpIfFalse, 0, 0, 0)
		c.node(b, v.Then)
		jEnd := b.emit(OpJump, 0, 0, 0)
		b.patch(jf, b.here())
		c.node(b, v.Else)
		b.patch(jEnd, b.here())
	case ir.Or:
		c.node(b, v.Left)
		c.node(b, v.Right)
		b.emit(OpOr, 0, 0, 0)
	case ir.And:
		c.node(b, v.Left)
		c.node(b, v.Right)
		b.emit(OpAnd, 0, 0, 0)
	case ir.BinaryOp:
		c.node(b, v.Left)
		c.node(b, v.Right)
		b.emit(OpBinary, int(v.Op), 0, 0)
	case ir.Unary:
		c.node(b, v.Operand)
		neg := 0
		if v.Negative {
			neg = 1
		}
		b.emit(OpNeg, neg, 0, 0)
	case ir.InstanceOf:
		c.node(b, v.Operand)
		b.emit(OpInstanceOf, c.internSeqType(v.Type), 0, 0)
	case ir.Treat:
		c.node(b, v.Operand)
		b.emit(OpTreat, c.internSeqType(v.Type), 0, 0)
	case ir.Castable:
		c.node(b, v.Operand)
		b.emit(OpCastable, c.internSingleType(v.Type), 0, 0)
	case ir.Cast:
		c.node(b, v.Operand)
		b.emit(OpCast, c.internSingleType(v.Type), 0, 0)
	case ir.DistinctDocOrder:
		c.node(b, v.Source)
		b.emit(OpDistinctDocOrder, 0, 0, 0)
	case ir.AxisStep:
		b.emit(OpAxisStep, int(v.Axis), c.internTest(v.Test), 0)
		for _, pred := range v.Predicates {
			c.compileFilter(b, pred, IterFilter)
		}
	case ir.Filter:
		c.node(b, v.Source)
		c.compileFilter(b, v.Pred, IterFilter)
	case ir.MapSelf:
		c.node(b, v.Source)
		c.compileFilter(b, v.Body, IterMapSelf)
	case ir.ForMap:
		c.node(b, v.Source)
		c.compileIterate(b, IterForMap, v.Slot, v.PosSlot, v.Body)
	case ir.Quant:
		c.node(b, v.Seq)
		kind := IterQuantSome
		if v.Every {
			kind = IterQuantEvery
		}
		c.compileIterate(b, kind, v.Slot, -1, v.Body)
	case ir.Call:
		for _, a := range v.Args {
			c.node(b, a)
		}
		b.emit(OpCall, c.internName(v.Name), len(v.Args), 0)
	case ir.Apply:
		c.node(b, v.Callee)
		holes, mask := holeMask(v.Args)
		for _, a := range v.Args {
			if a == nil {
				continue
			}
			c.node(b, a)
		}
		if holes {
			b.emit(OpApplyPartial, mask, len(v.Args), 0)
		} else {
			b.emit(OpApply, 0, len(v.Args), 0)
		}
	case ir.NamedFunctionRef:
		b.emit(OpNamedFunctionRef, c.internName(v.Name), v.Arity, 0)
	case ir.Closure:
		b.emit(OpMakeClosure, v.FnIndex, 0, 0)
	case ir.MapCtor:
		for _, e := range v.Entries {
			c.node(b, e.Key)
			c.node(b, e.Value)
		}
		b.emit(OpMapCtor, len(v.Entries), 0, 0)
	case ir.ArrayCtor:
		for _, m := range v.Members {
			c.node(b, m)
		}
		b.emit(OpArrayCtor, len(v.Members), 0, 0)
	case ir.Lookup:
		c.node(b, v.Source)
		switch {
		case v.Wildcard:
			b.emit(OpLookupWildcard, 0, 0, 0)
		case v.KeyExpr != nil:
			c.node(b, v.KeyExpr)
			b.emit(OpLookupExpr, 0, 0, 0)
		case v.KeyIndex != nil:
			b.emit(OpLookupIndex, *v.KeyIndex, 0, 0)
		default:
			b.emit(OpLookupName, c.internName(names.Name{Local: v.KeyName}), 0, 0)
		}
	default:
		b.emit(OpEmpty, 0, 0, 0)
	}
}

// compileFilter compiles Source's already-pushed sequence through a
// single-step iteration record running pred once per item — the shape
// shared by predicate filtering, the simple-map operator, and a single
// axis-step predicate.
func (c *compiler) compileFilter(b *chunkBuilder, pred ir.Node, kind IterKind) {
	b.emit(OpIterPush, int(kind), -1, -1)
	loop := b.here()
	doneAt := b.emit(OpIterStep, 0, 0, 0)
	c.node(b, pred)
	b.emit(OpIterBody, 0, 0, 0)
	b.emit(OpJump, loop, 0, 0)
	b.patch(doneAt, b.here())
}

func (c *compiler) compileIterate(b *chunkBuilder, kind IterKind, slotA, slotB int, body ir.Node) {
	b.emit(OpIterPush, int(kind), slotA, slotB)
	loop := b.here()
	doneAt := b.emit(OpIterStep, 0, 0, 0)
	c.node(b, body)
	b.emit(OpIterBody, 0, 0, 0)
	b.emit(OpJump, loop, 0, 0)
	b.patch(doneAt, b.here())
}

func holeMask(args []ir.Node) (bool, int) {
	mask := 0
	any := false
	for i, a := range args {
		if a == nil {
			any = true
			if i < 32 {
				mask |= 1 << uint(i)
			}
		}
	}
	return any, mask
}
