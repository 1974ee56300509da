// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package xpsequence implements the sequence model (spec.md §3, §4.2):
// the Item sum type (atomic | node | function) and the four-variant
// Sequence container (Empty/One/Many/Range), plus the operations every
// variant exposes: length, atomization, string-value, effective boolean
// value, and the general/value/node-identity/deep-equal comparisons.
package xpsequence

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/treestore"
)

// ItemKind tags which of the three Item variants is populated.
type ItemKind int

const (
	ItemAtomic ItemKind = iota
	ItemNode
	ItemFunction
)

// Item is the closed sum type atomic | node | function (spec.md §3). A
// node additionally carries the Tree it belongs to, since node handles
// are opaque without it.
type Item struct {
	kind ItemKind
	atom atomic.Value
	node treestore.Node
	tree treestore.Tree
	fn   Function
}

func NewAtomicItem(v atomic.Value) Item { return Item{kind: ItemAtomic, atom: v} }

func NewNodeItem(tree treestore.Tree, n treestore.Node) Item {
	return Item{kind: ItemNode, tree: tree, node: n}
}

func NewFunctionItem(f Function) Item { return Item{kind: ItemFunction, fn: f} }

func (it Item) Kind() ItemKind         { return it.kind }
func (it Item) Atomic() atomic.Value   { return it.atom }
func (it Item) Node() treestore.Node   { return it.node }
func (it Item) Tree() treestore.Tree   { return it.tree }
func (it Item) Function() Function     { return it.fn }
func (it Item) IsAtomic() bool         { return it.kind == ItemAtomic }
func (it Item) IsNode() bool           { return it.kind == ItemNode }
func (it Item) IsFunction() bool       { return it.kind == ItemFunction }
