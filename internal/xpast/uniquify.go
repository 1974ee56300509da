// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpast

import (
	"fmt"

	"github.com/mdhenderson/xpath/internal/names"
)

// uscope is a persistent (cons-list) binding environment from a declared
// name to the unique identifier assigned to its nearest enclosing binder.
type uscope struct {
	parent *uscope
	name   names.Name
	unique string
}

func (s *uscope) lookup(n names.Name) (string, bool) {
	for c := s; c != nil; c = c.parent {
		if c.name.Equal(n) {
			return c.unique, true
		}
	}
	return "", false
}

// Uniquify walks expr and assigns every bound variable a program-unique
// identifier, recorded in each binding's Unique field and copied into the
// Unique field of every VarRef that resolves to it. A VarRef with no
// enclosing binder is left with Unique == "": it names an external
// variable from the dynamic context, addressed by its declared Name alone.
func Uniquify(expr Expr) Expr {
	u := &uniquifier{}
	u.walk(expr, nil)
	return expr
}

type uniquifier struct {
	counter int
}

func (u *uniquifier) fresh(n names.Name) string {
	u.counter++
	return fmt.Sprintf("%s$%d", n.Local, u.counter)
}

func (u *uniquifier) walk(e Expr, sc *uscope) {
	switch n := e.(type) {
	case *IntegerLit, *DecimalLit, *DoubleLit, *StringLit, *ContextItemExpr:
		// no children
	case *VarRef:
		if unique, ok := sc.lookup(n.Name); ok {
			n.Unique = unique
		}
	case *SequenceExpr:
		for _, it := range n.Items {
			u.walk(it, sc)
		}
	case *ParenExpr:
		if n.Inner != nil {
			u.walk(n.Inner, sc)
		}
	case *ForExpr:
		inner := sc
		for i := range n.Bindings {
			u.walk(n.Bindings[i].Seq, inner)
			n.Bindings[i].VarUnique = u.fresh(n.Bindings[i].VarName)
			inner = &uscope{parent: inner, name: n.Bindings[i].VarName, unique: n.Bindings[i].VarUnique}
			if n.Bindings[i].PositionalVar != nil {
				n.Bindings[i].PositionalUnique = u.fresh(*n.Bindings[i].PositionalVar)
				inner = &uscope{parent: inner, name: *n.Bindings[i].PositionalVar, unique: n.Bindings[i].PositionalUnique}
			}
		}
		u.walk(n.Return, inner)
	case *LetExpr:
		inner := sc
		for i := range n.Bindings {
			u.walk(n.Bindings[i].Value, inner)
			n.Bindings[i].VarUnique = u.fresh(n.Bindings[i].VarName)
			inner = &uscope{parent: inner, name: n.Bindings[i].VarName, unique: n.Bindings[i].VarUnique}
		}
		u.walk(n.Return, inner)
	case *QuantifiedExpr:
		inner := sc
		for i := range n.Bindings {
			u.walk(n.Bindings[i].Seq, inner)
			n.Bindings[i].VarUnique = u.fresh(n.Bindings[i].VarName)
			inner = &uscope{parent: inner, name: n.Bindings[i].VarName, unique: n.Bindings[i].VarUnique}
		}
		u.walk(n.Satisfies, inner)
	case *IfExpr:
		u.walk(n.Cond, sc)
		u.walk(n.Then, sc)
		u.walk(n.Else, sc)
	case *BinaryExpr:
		u.walk(n.Left, sc)
		u.walk(n.Right, sc)
	case *UnaryExpr:
		u.walk(n.Operand, sc)
	case *InstanceOfExpr:
		u.walk(n.Operand, sc)
	case *TreatExpr:
		u.walk(n.Operand, sc)
	case *CastableExpr:
		u.walk(n.Operand, sc)
	case *CastExpr:
		u.walk(n.Operand, sc)
	case *ArrowExpr:
		u.walk(n.Operand, sc)
		if n.Target.DynamicExpr != nil {
			u.walk(n.Target.DynamicExpr, sc)
		}
		for _, a := range n.Args {
			if a != nil {
				u.walk(a, sc)
			}
		}
	case *SimpleMapExpr:
		for _, s := range n.Steps {
			u.walk(s, sc)
		}
	case *PathExpr:
		for _, s := range n.Steps {
			u.walk(s, sc)
		}
	case *AxisStep:
		for _, pr := range n.Predicates {
			u.walk(pr, sc)
		}
	case *PostfixExpr:
		u.walk(n.Primary, sc)
		for _, suf := range n.Suffixes {
			switch s := suf.(type) {
			case *PredicateSuffix:
				u.walk(s.Expr, sc)
			case *ArgumentListSuffix:
				for _, a := range s.Args {
					if a != nil {
						u.walk(a, sc)
					}
				}
			case *LookupSuffix:
				if s.Lookup.Key != nil {
					u.walk(s.Lookup.Key, sc)
				}
			}
		}
	case *FunctionCall:
		for _, a := range n.Args {
			if a != nil {
				u.walk(a, sc)
			}
		}
	case *NamedFunctionRef:
		// no children
	case *InlineFunctionExpr:
		inner := sc
		for i := range n.Params {
			n.Params[i].Unique = u.fresh(n.Params[i].Name)
			inner = &uscope{parent: inner, name: n.Params[i].Name, unique: n.Params[i].Unique}
		}
		if n.Body != nil {
			u.walk(n.Body, inner)
		}
	case *MapConstructor:
		for _, ent := range n.Entries {
			u.walk(ent.Key, sc)
			u.walk(ent.Value, sc)
		}
	case *ArrayConstructor:
		for _, m := range n.Members {
			u.walk(m, sc)
		}
	}
}
