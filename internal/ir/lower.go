// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package ir

import (
	"math/big"
	"strconv"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xpast"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// lowerer carries the function table being built across the whole
// lowering pass: every InlineFunctionExpr found anywhere in the tree
// appends one Function and the Closure node left in its place only
// records the resulting index.
type lowerer struct {
	fns []Function
}

// Lower runs xpast's variable-uniquification pass (idempotent if the
// caller already ran it) and desugars the resulting AST into a Program.
func Lower(expr xpast.Expr) (*Program, []Function, *xperror.Error) {
	expr = xpast.Uniquify(expr)
	l := &lowerer{}
	top := newFrame(nil)
	body := l.expr(expr, top)
	return &Program{Body: body, NumLocals: top.numSlots}, l.fns, nil
}

func (l *lowerer) exprs(es []xpast.Expr, f *frame) []Node {
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = l.expr(e, f)
	}
	return out
}

// expr lowers one xpast expression node, given the frame its free
// variables resolve against.
func (l *lowerer) expr(e xpast.Expr, f *frame) Node {
	switch n := e.(type) {
	case *xpast.IntegerLit:
		bi, _ := new(big.Int).SetString(n.Text, 10)
		if bi == nil {
			bi = big.NewInt(0)
		}
		return Literal{Value: atomic.NewInteger(bi, atomic.SubInteger)}
	case *xpast.DecimalLit:
		d, ok := atomic.ParseDecimal(n.Text)
		if !ok {
			d = atomic.NewDecimalFromInt64(0)
		}
		return Literal{Value: atomic.NewDecimal(d)}
	case *xpast.DoubleLit:
		fv, _ := strconv.ParseFloat(n.Text, 64)
		return Literal{Value: atomic.NewDouble(fv)}
	case *xpast.StringLit:
		return Literal{Value: atomic.NewString(n.Value)}
	case *xpast.VarRef:
		if n.Unique != "" {
			if slot, ok := f.resolve(n.Unique); ok {
				return LocalSlot{Slot: slot, Name: n.Name}
			}
		}
		return ExternalVar{Name: n.Name}
	case *xpast.ContextItemExpr:
		return ContextItem{}
	case *xpast.SequenceExpr:
		return Seq{Items: l.exprs(n.Items, f)}
	case *xpast.ParenExpr:
		if n.Inner == nil {
			return EmptySeq{}
		}
		return l.expr(n.Inner, f)
	case *xpast.ForExpr:
		return l.lowerFor(n.Bindings, n.Return, f)
	case *xpast.LetExpr:
		return l.lowerLet(n.Bindings, n.Return, f)
	case *xpast.QuantifiedExpr:
		return l.lowerQuant(n.Kind == xpast.QuantEvery, n.Bindings, n.Satisfies, f)
	case *xpast.IfExpr:
		return If{Cond: l.expr(n.Cond, f), Then: l.expr(n.Then, f), Else: l.expr(n.Else, f)}
	case *xpast.BinaryExpr:
		return l.lowerBinary(n, f)
	case *xpast.UnaryExpr:
		return Unary{Negative: n.Negative, Operand: l.expr(n.Operand, f)}
	case *xpast.InstanceOfExpr:
		return InstanceOf{Operand: l.expr(n.Operand, f), Type: n.Type}
	case *xpast.TreatExpr:
		return Treat{Operand: l.expr(n.Operand, f), Type: n.Type}
	case *xpast.CastableExpr:
		return Castable{Operand: l.expr(n.Operand, f), Type: n.Type}
	case *xpast.CastExpr:
		return Cast{Operand: l.expr(n.Operand, f), Type: n.Type}
	case *xpast.ArrowExpr:
		return l.lowerArrow(n, f)
	case *xpast.SimpleMapExpr:
		return l.lowerSimpleMap(n.Steps, f)
	case *xpast.PathExpr:
		return l.lowerPath(n, f)
	case *xpast.AxisStep:
		return AxisStep{Axis: n.Axis, Test: n.Test, Predicates: l.exprs(n.Predicates, f)}
	case *xpast.PostfixExpr:
		return l.lowerPostfix(n, f)
	case *xpast.FunctionCall:
		return Call{Name: n.Name, Args: l.exprs(n.Args, f)}
	case *xpast.NamedFunctionRef:
		return NamedFunctionRef{Name: n.Name, Arity: n.Arity}
	case *xpast.InlineFunctionExpr:
		return l.lowerInlineFunc(n, f)
	case *xpast.MapConstructor:
		entries := make([]MapEntry, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = MapEntry{Key: l.expr(e.Key, f), Value: l.expr(e.Value, f)}
		}
		return MapCtor{Entries: entries}
	case *xpast.ArrayConstructor:
		return ArrayCtor{Members: l.exprs(n.Members, f)}
	default:
		return EmptySeq{}
	}
}

func (l *lowerer) lowerFor(bindings []xpast.ForBinding, ret xpast.Expr, f *frame) Node {
	if len(bindings) == 0 {
		return l.expr(ret, f)
	}
	b := bindings[0]
	src := l.expr(b.Seq, f)
	slot := f.declare(b.VarUnique)
	pos := -1
	if b.PositionalVar != nil {
		pos = f.declare(b.PositionalUnique)
	}
	body := l.lowerFor(bindings[1:], ret, f)
	return ForMap{Slot: slot, PosSlot: pos, Source: src, Body: body}
}

func (l *lowerer) lowerLet(bindings []xpast.LetBinding, ret xpast.Expr, f *frame) Node {
	if len(bindings) == 0 {
		return l.expr(ret, f)
	}
	b := bindings[0]
	val := l.expr(b.Value, f)
	slot := f.declare(b.VarUnique)
	body := l.lowerLet(bindings[1:], ret, f)
	return Let{Slot: slot, Value: val, Body: body}
}

func (l *lowerer) lowerQuant(every bool, bindings []xpast.ForBinding, satisfies xpast.Expr, f *frame) Node {
	if len(bindings) == 0 {
		return l.expr(satisfies, f)
	}
	b := bindings[0]
	seq := l.expr(b.Seq, f)
	slot := f.declare(b.VarUnique)
	body := l.lowerQuant(every, bindings[1:], satisfies, f)
	return Quant{Every: every, Slot: slot, Seq: seq, Body: body}
}

func (l *lowerer) lowerBinary(n *xpast.BinaryExpr, f *frame) Node {
	left, right := l.expr(n.Left, f), l.expr(n.Right, f)
	switch n.Op {
	case xpast.OpOr:
		return Or{Left: left, Right: right}
	case xpast.OpAnd:
		return And{Left: left, Right: right}
	default:
		return BinaryOp{Op: n.Op, Left: left, Right: right}
	}
}

// lowerArrow treats `operand => target(args)` as a dynamic/static call
// with operand prepended to the argument list.
func (l *lowerer) lowerArrow(n *xpast.ArrowExpr, f *frame) Node {
	args := make([]Node, 0, len(n.Args)+1)
	args = append(args, l.expr(n.Operand, f))
	args = append(args, l.exprs(n.Args, f)...)
	if n.Target.DynamicExpr != nil {
		return Apply{Callee: l.expr(n.Target.DynamicExpr, f), Args: args}
	}
	return Call{Name: n.Target.StaticName, Args: args}
}

func (l *lowerer) lowerSimpleMap(steps []xpast.Expr, f *frame) Node {
	if len(steps) == 0 {
		return EmptySeq{}
	}
	acc := l.expr(steps[0], f)
	for _, s := range steps[1:] {
		acc = MapSelf{Source: acc, Body: l.expr(s, f)}
	}
	return acc
}

// lowerPath chains Steps the same way lowerSimpleMap chains `!`, then
// wraps the whole thing in document-order/dedup normalization — every
// `/`-path's result must come back in document order with duplicates
// removed, regardless of how individual steps produced it.
func (l *lowerer) lowerPath(n *xpast.PathExpr, f *frame) Node {
	var acc Node
	switch n.Leading {
	case xpast.PathRootOnly:
		acc = AxisStep{Axis: xpast.AxisAncestorOrSelf, Test: &xpast.KindTest{Kind: xpast.KindDocument}}
	case xpast.PathRootDescendant:
		root := Node(AxisStep{Axis: xpast.AxisAncestorOrSelf, Test: &xpast.KindTest{Kind: xpast.KindDocument}})
		if len(n.Steps) > 0 {
			acc = MapSelf{Source: root, Body: AxisStep{Axis: xpast.AxisDescendantOrSelf, Test: &xpast.KindTest{Kind: xpast.KindAny}}}
		} else {
			acc = root
		}
	default:
		// PathRelative: the first step is evaluated in the current
		// context directly, no synthetic leading step.
	}
	for i, step := range n.Steps {
		lowered := l.expr(step, f)
		if i == 0 && acc == nil {
			acc = lowered
			continue
		}
		acc = MapSelf{Source: acc, Body: lowered}
	}
	if acc == nil {
		acc = EmptySeq{}
	}
	return DistinctDocOrder{Source: acc}
}

func (l *lowerer) lowerPostfix(n *xpast.PostfixExpr, f *frame) Node {
	acc := l.expr(n.Primary, f)
	for _, suf := range n.Suffixes {
		switch s := suf.(type) {
		case *xpast.PredicateSuffix:
			acc = Filter{Source: acc, Pred: l.expr(s.Expr, f)}
		case *xpast.ArgumentListSuffix:
			args := make([]Node, len(s.Args))
			holes := false
			for i, a := range s.Args {
				if a == nil {
					holes = true
					continue
				}
				args[i] = l.expr(a, f)
			}
			if holes {
				// Partial application with one or more "?" holes:
				// internal/vm recognizes a nil Args entry as a hole and
				// builds a xpsequence.PartialApplication instead of
				// calling directly.
				acc = Apply{Callee: acc, Args: padHoles(args, s.Args)}
				continue
			}
			acc = Apply{Callee: acc, Args: args}
		case *xpast.LookupSuffix:
			acc = lowerLookup(acc, s.Lookup, f, l)
		}
	}
	return acc
}

// padHoles re-inserts nil markers into a partially-lowered argument list
// so internal/vm can still see which positions were "?" holes.
func padHoles(lowered []Node, src []xpast.Expr) []Node {
	out := make([]Node, len(lowered))
	for i := range lowered {
		if src[i] == nil {
			out[i] = nil
			continue
		}
		out[i] = lowered[i]
	}
	return out
}

func lowerLookup(source Node, lk xpast.Lookup, f *frame, l *lowerer) Node {
	out := Lookup{Source: source, Wildcard: lk.Wildcard, KeyName: lk.KeyName}
	if lk.KeyIndex != nil {
		if n, err := strconv.Atoi(*lk.KeyIndex); err == nil {
			out.KeyIndex = &n
		}
	}
	if lk.Key != nil {
		out.KeyExpr = l.expr(lk.Key, f)
	}
	return out
}

// lowerInlineFunc builds a new frame for the function body, resolving its
// free variables (which may themselves propagate captures further
// outward), and records the result in the lowerer's function table.
func (l *lowerer) lowerInlineFunc(n *xpast.InlineFunctionExpr, parent *frame) Node {
	fn := newFrame(parent)
	paramSlots := make([]int, len(n.Params))
	for i, p := range n.Params {
		paramSlots[i] = fn.declare(p.Unique)
	}
	body := l.expr(n.Body, fn)
	idx := len(l.fns)
	l.fns = append(l.fns, Function{
		Name:       n.Name,
		ParamSlots: paramSlots,
		NumLocals:  fn.numSlots,
		Captures:   fn.caps,
		Body:       body,
	})
	return Closure{FnIndex: idx}
}
