// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package vm interprets an internal/bytecode.Program against an
// internal/xpctx.DynamicContext: a stack machine with one operand stack and
// one iteration-record stack per chunk invocation, function calls recursing
// into fresh invocations of the same interpreter (spec.md §4.7's "a small
// stack machine, not a tree-walking interpreter, so hot loops (axis steps,
// predicate filtering) don't pay an interface-dispatch cost per node").
package vm

import (
	"math/bits"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/bytecode"
	"github.com/mdhenderson/xpath/internal/xpast"
	"github.com/mdhenderson/xpath/internal/xpctx"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

// maxCallDepth bounds recursive function invocation; exceeding it raises
// the implementation-specific StackOverflow code rather than crashing the
// host process (spec.md §7).
const maxCallDepth = 4096

// Machine runs one compiled Program against one DynamicContext. It is not
// safe for concurrent use.
type Machine struct {
	prog      *bytecode.Program
	ctx       *xpctx.DynamicContext
	callDepth int
}

func New(prog *bytecode.Program, ctx *xpctx.DynamicContext) *Machine {
	return &Machine{prog: prog, ctx: ctx}
}

// Run executes the program's top-level chunk and returns its result.
func (m *Machine) Run() (xpsequence.Sequence, *xperror.Error) {
	locals := make([]xpsequence.Sequence, m.prog.Main.NumLocals)
	return m.execChunk(&m.prog.Main, locals)
}

func (m *Machine) invokeFunction(chunk *bytecode.Chunk, captured, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	m.callDepth++
	defer func() { m.callDepth-- }()
	if m.callDepth > maxCallDepth {
		return xpsequence.Sequence{}, xperror.New(xperror.StackOverflow, "call depth exceeded %d", maxCallDepth)
	}
	locals := make([]xpsequence.Sequence, chunk.NumLocals)
	for i, cap := range chunk.Captures {
		locals[cap.ToSlot] = captured[i]
	}
	for i, slot := range chunk.ParamSlots {
		locals[slot] = args[i]
	}
	return m.execChunk(chunk, locals)
}

// execChunk interprets one chunk's instruction stream to completion,
// leaving exactly one Sequence as the result (every internal/bytecode
// compiled node pushes exactly one value, so a well-formed chunk always
// ends with a one-deep stack).
func (m *Machine) execChunk(chunk *bytecode.Chunk, locals []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	var stack []xpsequence.Sequence
	var iters []*iterRecord
	insns := chunk.Insns
	ip := 0
	for ip < len(insns) {
		inst := insns[ip]
		switch inst.Op {
		case bytecode.OpConst:
			stack = append(stack, xpsequence.One(xpsequence.NewAtomicItem(m.prog.Consts[inst.A])))

		case bytecode.OpEmpty:
			stack = append(stack, xpsequence.Empty())

		case bytecode.OpContextItem:
			if !m.ctx.HasContextItem {
				return xpsequence.Sequence{}, xperror.New(xperror.XPDY0002, "no context item is set")
			}
			stack = append(stack, xpsequence.One(m.ctx.ContextItem))

		case bytecode.OpLoadLocal:
			stack = append(stack, locals[inst.A])

		case bytecode.OpStoreLocal:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			locals[inst.A] = v

		case bytecode.OpLoadExternal:
			name := m.prog.Names[inst.A]
			v, ok := m.ctx.Lookup(name)
			if !ok {
				return xpsequence.Sequence{}, xperror.New(xperror.XPST0008, "variable %s is not bound", name)
			}
			stack = append(stack, v)

		case bytecode.OpConcatN:
			n := inst.A
			items := append([]xpsequence.Sequence(nil), stack[len(stack)-n:]...)
			stack = stack[:len(stack)-n]
			stack = append(stack, concatSequences(items))

		case bytecode.OpBinary:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			res, err := m.evalBinary(a, b, xpast.BinaryOp(inst.A))
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpOr:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			av, err := a.EffectiveBooleanValue()
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			bv, err := b.EffectiveBooleanValue()
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(av || bv))))

		case bytecode.OpAnd:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			av, err := a.EffectiveBooleanValue()
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			bv, err := b.EffectiveBooleanValue()
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(av && bv))))

		case bytecode.OpNeg:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			res, err := m.negate(v, inst.A == 1)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpInstanceOf:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ok := m.matchSequenceType(v, m.prog.SeqTypes[inst.A])
			stack = append(stack, xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(ok))))

		case bytecode.OpTreat:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !m.matchSequenceType(v, m.prog.SeqTypes[inst.A]) {
				return xpsequence.Sequence{}, xperror.New(xperror.XPDY0050, "treat as failed")
			}
			stack = append(stack, v)

		case bytecode.OpCastable:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ok := m.castableOp(v, m.prog.SingleTypes[inst.A])
			stack = append(stack, xpsequence.One(xpsequence.NewAtomicItem(atomic.NewBoolean(ok))))

		case bytecode.OpCast:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			res, err := m.castOp(v, m.prog.SingleTypes[inst.A])
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpJump:
			ip = inst.A
			continue

		case bytecode.OpJumpIfFalse:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ebv, err := v.EffectiveBooleanValue()
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			if !ebv {
				ip = inst.A
				continue
			}

		case bytecode.OpJumpIfTrue:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ebv, err := v.EffectiveBooleanValue()
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			if ebv {
				ip = inst.A
				continue
			}

		case bytecode.OpCall:
			name := m.prog.Names[inst.A]
			argc := inst.B
			args := append([]xpsequence.Sequence(nil), stack[len(stack)-argc:]...)
			stack = stack[:len(stack)-argc]
			fn, ok := m.ctx.Registry.Lookup(name, argc)
			if !ok {
				return xpsequence.Sequence{}, xperror.New(xperror.XPST0017, "no function matches %s#%d", name, argc)
			}
			res, err := fn.Call(args)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpApply:
			argc := inst.B
			args := append([]xpsequence.Sequence(nil), stack[len(stack)-argc:]...)
			stack = stack[:len(stack)-argc]
			callee := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			fn, err := asFunction(callee)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			res, err := fn.Call(args)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpApplyPartial:
			mask := inst.A
			argc := inst.B
			popped := argc - bits.OnesCount32(uint32(mask))
			poppedArgs := append([]xpsequence.Sequence(nil), stack[len(stack)-popped:]...)
			stack = stack[:len(stack)-popped]
			callee := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			fn, err := asFunction(callee)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			bound := make([]xpsequence.Sequence, argc)
			holes := make([]bool, argc)
			next := 0
			for i := 0; i < argc; i++ {
				if mask&(1<<uint(i)) != 0 {
					holes[i] = true
				} else {
					bound[i] = poppedArgs[next]
					next++
				}
			}
			partial := xpsequence.PartialApplication{Base: fn, Bound: bound, Holes: holes}
			stack = append(stack, xpsequence.One(xpsequence.NewFunctionItem(partial)))

		case bytecode.OpNamedFunctionRef:
			name := m.prog.Names[inst.A]
			arity := inst.B
			fn, ok := m.ctx.Registry.Lookup(name, arity)
			if !ok {
				return xpsequence.Sequence{}, xperror.New(xperror.XPST0017, "no function matches %s#%d", name, arity)
			}
			stack = append(stack, xpsequence.One(xpsequence.NewFunctionItem(fn)))

		case bytecode.OpMakeClosure:
			fnChunk := &m.prog.Functions[inst.A]
			captured := make([]xpsequence.Sequence, len(fnChunk.Captures))
			for i, cap := range fnChunk.Captures {
				captured[i] = locals[cap.FromSlot]
			}
			closure := xpsequence.Closure{
				ClosureName:  fnChunk.Name,
				ClosureArity: len(fnChunk.ParamSlots),
				Captured:     captured,
				Invoke: func(captured []xpsequence.Sequence, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
					return m.invokeFunction(fnChunk, captured, args)
				},
			}
			stack = append(stack, xpsequence.One(xpsequence.NewFunctionItem(closure)))

		case bytecode.OpMapCtor:
			n := inst.A
			pairs := append([]xpsequence.Sequence(nil), stack[len(stack)-2*n:]...)
			stack = stack[:len(stack)-2*n]
			mp := xpsequence.NewMap()
			for i := 0; i < n; i++ {
				key, err := pairs[2*i].RequireSingleAtomic()
				if err != nil {
					return xpsequence.Sequence{}, err
				}
				mp.Put(key, pairs[2*i+1])
			}
			stack = append(stack, xpsequence.One(xpsequence.NewFunctionItem(mp)))

		case bytecode.OpArrayCtor:
			n := inst.A
			members := append([]xpsequence.Sequence(nil), stack[len(stack)-n:]...)
			stack = stack[:len(stack)-n]
			arr := xpsequence.NewArray(members)
			stack = append(stack, xpsequence.One(xpsequence.NewFunctionItem(arr)))

		case bytecode.OpLookupName:
			source := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			key := xpsequence.One(xpsequence.NewAtomicItem(atomic.NewString(m.prog.Names[inst.A].Local)))
			res, err := lookupOne(source, key)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpLookupIndex:
			source := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			key := xpsequence.One(xpsequence.NewAtomicItem(atomic.NewInteger64(int64(inst.A), atomic.SubInteger)))
			res, err := lookupOne(source, key)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpLookupWildcard:
			source := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			res, err := lookupWildcard(source)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpLookupExpr:
			key := stack[len(stack)-1]
			source := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			res, err := lookupOne(source, key)
			if err != nil {
				return xpsequence.Sequence{}, err
			}
			stack = append(stack, res)

		case bytecode.OpAxisStep:
			if !m.ctx.HasContextItem || !m.ctx.ContextItem.IsNode() {
				return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "an axis step requires a node context item")
			}
			tree := m.ctx.ContextItem.Tree()
			node := m.ctx.ContextItem.Node()
			nodes := axisNodes(tree, node, xpast.Axis(inst.A))
			test := m.prog.Tests[inst.B]
			items := make([]xpsequence.Item, 0, len(nodes))
			for _, n := range nodes {
				if matchTest(tree, n, test) {
					items = append(items, xpsequence.NewNodeItem(tree, n))
				}
			}
			stack = append(stack, xpsequence.Many(items))

		case bytecode.OpDistinctDocOrder:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			items := v.Materialize()
			for _, it := range items {
				if !it.IsNode() {
					return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "a path expression step produced a non-node item")
				}
			}
			stack = append(stack, sortDedupNodes(items))

		case bytecode.OpIterPush:
			source := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			rec := &iterRecord{
				kind:  bytecode.IterKind(inst.A),
				items: source.Materialize(),
				slotA: inst.B,
				slotB: inst.C,
			}
			if rec.kind.UsesFocus() {
				rec.savedFocus = true
				rec.hadItem = m.ctx.HasContextItem
				rec.item = m.ctx.ContextItem
				rec.pos = m.ctx.ContextPosition
				rec.size = m.ctx.ContextSize
			}
			iters = append(iters, rec)

		case bytecode.OpIterStep:
			rec := iters[len(iters)-1]
			if rec.done || rec.idx >= len(rec.items) {
				result := finalizeIter(rec)
				if rec.savedFocus {
					m.ctx.HasContextItem = rec.hadItem
					m.ctx.ContextItem = rec.item
					m.ctx.ContextPosition = rec.pos
					m.ctx.ContextSize = rec.size
				}
				iters = iters[:len(iters)-1]
				stack = append(stack, result)
				ip = inst.A
				continue
			}
			item := rec.items[rec.idx]
			rec.idx++
			if rec.kind.UsesFocus() {
				m.ctx.HasContextItem = true
				m.ctx.ContextItem = item
				m.ctx.ContextPosition = rec.idx
				m.ctx.ContextSize = len(rec.items)
			} else {
				if rec.slotA >= 0 {
					locals[rec.slotA] = xpsequence.One(item)
				}
				if rec.slotB >= 0 {
					locals[rec.slotB] = xpsequence.One(xpsequence.NewAtomicItem(atomic.NewInteger64(int64(rec.idx), atomic.SubInteger)))
				}
			}

		case bytecode.OpIterBody:
			rec := iters[len(iters)-1]
			body := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if err := applyIterBody(rec, body); err != nil {
				return xpsequence.Sequence{}, err
			}

		default:
			return xpsequence.Sequence{}, xperror.New(xperror.XPST0003, "unimplemented opcode %s", inst.Op)
		}
		ip++
	}
	if len(stack) != 1 {
		return xpsequence.Sequence{}, xperror.New(xperror.XPST0003, "internal error: chunk left %d values on the operand stack", len(stack))
	}
	return stack[0], nil
}

func asFunction(s xpsequence.Sequence) (xpsequence.Function, *xperror.Error) {
	it, ok := s.Singleton()
	if !ok || !it.IsFunction() {
		return nil, xperror.New(xperror.XPTY0004, "expected a single function item")
	}
	return it.Function(), nil
}

func concatSequences(seqs []xpsequence.Sequence) xpsequence.Sequence {
	var items []xpsequence.Item
	for _, s := range seqs {
		items = append(items, s.Materialize()...)
	}
	return xpsequence.Many(items)
}

func (m *Machine) negate(v xpsequence.Sequence, neg bool) (xpsequence.Sequence, *xperror.Error) {
	av, err := xpsequence.Atomized(v)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	a, err := av.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !a.Kind().IsNumeric() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "unary operator requires a numeric operand, got %v", a.Kind())
	}
	if !neg {
		return xpsequence.One(xpsequence.NewAtomicItem(a)), nil
	}
	z, zerr := zeroLike(a.Kind(), a.IntSub())
	if zerr != nil {
		return xpsequence.Sequence{}, zerr
	}
	res, aerr := atomic.Arith(z, a, atomic.OpSub)
	if aerr != nil {
		return xpsequence.Sequence{}, aerr
	}
	return xpsequence.One(xpsequence.NewAtomicItem(res)), nil
}
