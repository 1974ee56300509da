// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpsequence

import (
	"testing"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/treestore"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// fakeNode/fakeTree are the minimal treestore.Tree implementation needed to
// exercise node-identity and deep-equal without a real XML document.
type fakeNode struct {
	id   int
	kind treestore.NodeKind
	text string
}

func (n *fakeNode) Kind() treestore.NodeKind { return n.kind }

type fakeTree struct {
	nodes []*fakeNode
}

func (t *fakeTree) Name(n treestore.Node) (string, string, string) { return "", "", "" }
func (t *fakeTree) StringValue(n treestore.Node) string            { return n.(*fakeNode).text }
func (t *fakeTree) TypedValue(n treestore.Node) (any, bool)        { return nil, false }
func (t *fakeTree) Parent(n treestore.Node) (treestore.Node, bool) { return nil, false }
func (t *fakeTree) Children(n treestore.Node) []treestore.Node     { return nil }
func (t *fakeTree) Attributes(n treestore.Node) []treestore.Node   { return nil }
func (t *fakeTree) NamespaceNodes(n treestore.Node) []treestore.Node { return nil }
func (t *fakeTree) Root(n treestore.Node) treestore.Node           { return t.nodes[0] }
func (t *fakeTree) BaseURI(n treestore.Node) string                { return "" }
func (t *fakeTree) SameNode(a, b treestore.Node) bool {
	return a.(*fakeNode).id == b.(*fakeNode).id
}
func (t *fakeTree) DocumentOrder(a, b treestore.Node) int {
	ai, bi := a.(*fakeNode).id, b.(*fakeNode).id
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

func nodeItem(tree *fakeTree, n *fakeNode) Item { return NewNodeItem(tree, n) }

func TestGeneralCompareFindsAMatchingPair(t *testing.T) {
	a := Many([]Item{intItem(1), intItem(2), intItem(3)})
	b := Many([]Item{intItem(10), intItem(2)})
	ok, err := GeneralCompare(a, b, atomic.OpEq, nil, 0)
	if err != nil || !ok {
		t.Fatalf("GeneralCompare() = %v, %v, want true", ok, err)
	}
}

func TestGeneralCompareNoMatch(t *testing.T) {
	a := Many([]Item{intItem(1), intItem(2)})
	b := Many([]Item{intItem(10), intItem(20)})
	ok, err := GeneralCompare(a, b, atomic.OpEq, nil, 0)
	if err != nil || ok {
		t.Fatalf("GeneralCompare() = %v, %v, want false", ok, err)
	}
}

func TestGeneralCompareOnRangeIsLazy(t *testing.T) {
	huge := IntRange(1, 10_000_000)
	small := One(intItem(3))
	ok, err := GeneralCompare(huge, small, atomic.OpEq, nil, 0)
	if err != nil || !ok {
		t.Fatalf("GeneralCompare(range, 3) = %v, %v, want true", ok, err)
	}
}

func TestValueCompareRequiresSingletons(t *testing.T) {
	a := Many([]Item{intItem(1), intItem(2)})
	b := One(intItem(1))
	if _, err := ValueCompare(a, b, atomic.OpEq, nil, 0); !xperror.Is(err, xperror.FORG0005) {
		t.Fatalf("expected FORG0005, got %v", err)
	}
	ok, err := ValueCompare(One(intItem(5)), One(intItem(5)), atomic.OpEq, nil, 0)
	if err != nil || !ok {
		t.Fatalf("ValueCompare(5,5,eq) = %v, %v, want true", ok, err)
	}
}

func TestNodeCompare(t *testing.T) {
	tree := &fakeTree{}
	n1 := &fakeNode{id: 1, kind: treestore.Element, text: "a"}
	n2 := &fakeNode{id: 2, kind: treestore.Element, text: "b"}
	tree.nodes = []*fakeNode{n1, n2}

	same, err := NodeCompare(tree, One(nodeItem(tree, n1)), One(nodeItem(tree, n1)), NodeIs)
	if err != nil || !same {
		t.Fatalf("NodeCompare(is, n1, n1) = %v, %v, want true", same, err)
	}
	precedes, err := NodeCompare(tree, One(nodeItem(tree, n1)), One(nodeItem(tree, n2)), NodePrecedes)
	if err != nil || !precedes {
		t.Fatalf("NodeCompare(<<, n1, n2) = %v, %v, want true", precedes, err)
	}
	follows, err := NodeCompare(tree, One(nodeItem(tree, n2)), One(nodeItem(tree, n1)), NodeFollows)
	if err != nil || !follows {
		t.Fatalf("NodeCompare(>>, n2, n1) = %v, %v, want true", follows, err)
	}
	if _, err := NodeCompare(tree, Empty(), One(nodeItem(tree, n1)), NodeIs); !xperror.Is(err, xperror.XPTY0004) {
		t.Fatalf("expected XPTY0004 for non-singleton operand, got %v", err)
	}
}

func TestDeepEqualAtomics(t *testing.T) {
	a := Many([]Item{intItem(1), intItem(2)})
	b := Many([]Item{intItem(1), intItem(2)})
	eq, err := DeepEqual(a, b, nil, 0)
	if err != nil || !eq {
		t.Fatalf("DeepEqual(equal sequences) = %v, %v, want true", eq, err)
	}
	c := Many([]Item{intItem(1), intItem(3)})
	eq, err = DeepEqual(a, c, nil, 0)
	if err != nil || eq {
		t.Fatalf("DeepEqual(differing sequences) = %v, %v, want false", eq, err)
	}
}

func TestDeepEqualLengthMismatch(t *testing.T) {
	eq, err := DeepEqual(One(intItem(1)), Many([]Item{intItem(1), intItem(2)}), nil, 0)
	if err != nil || eq {
		t.Fatalf("DeepEqual(length mismatch) = %v, %v, want false", eq, err)
	}
}

func TestDeepEqualEmptyEmpty(t *testing.T) {
	eq, err := DeepEqual(Empty(), Empty(), nil, 0)
	if err != nil || !eq {
		t.Fatalf("DeepEqual(empty, empty) = %v, %v, want true", eq, err)
	}
}

func TestDeepEqualNodesByStringValue(t *testing.T) {
	tree := &fakeTree{}
	n1 := &fakeNode{id: 1, kind: treestore.Element, text: "hello"}
	n2 := &fakeNode{id: 2, kind: treestore.Element, text: "hello"}
	tree.nodes = []*fakeNode{n1, n2}
	eq, err := DeepEqual(One(nodeItem(tree, n1)), One(nodeItem(tree, n2)), nil, 0)
	if err != nil || !eq {
		t.Fatalf("DeepEqual(nodes with equal string-value) = %v, %v, want true", eq, err)
	}
}

func TestDeepEqualMaps(t *testing.T) {
	a := NewMap()
	a.Put(atomic.NewString("x"), One(intItem(1)))
	b := NewMap()
	b.Put(atomic.NewString("x"), One(intItem(1)))
	eq, err := DeepEqual(One(NewFunctionItem(a)), One(NewFunctionItem(b)), nil, 0)
	if err != nil || !eq {
		t.Fatalf("DeepEqual(equal maps) = %v, %v, want true", eq, err)
	}

	c := NewMap()
	c.Put(atomic.NewString("x"), One(intItem(2)))
	eq, err = DeepEqual(One(NewFunctionItem(a)), One(NewFunctionItem(c)), nil, 0)
	if err != nil || eq {
		t.Fatalf("DeepEqual(differing maps) = %v, %v, want false", eq, err)
	}
}

func TestDeepEqualArrays(t *testing.T) {
	a := NewArray([]Sequence{One(intItem(1)), One(intItem(2))})
	b := NewArray([]Sequence{One(intItem(1)), One(intItem(2))})
	eq, err := DeepEqual(One(NewFunctionItem(a)), One(NewFunctionItem(b)), nil, 0)
	if err != nil || !eq {
		t.Fatalf("DeepEqual(equal arrays) = %v, %v, want true", eq, err)
	}
}

func TestDeepEqualBareFunctionItemErrors(t *testing.T) {
	fn := StaticFunction{FnArity: 0, Body: func(args []Sequence) (Sequence, *xperror.Error) { return Empty(), nil }}
	_, err := DeepEqual(One(NewFunctionItem(fn)), One(NewFunctionItem(fn)), nil, 0)
	if !xperror.Is(err, xperror.FOTY0015) {
		t.Fatalf("expected FOTY0015 for bare function items, got %v", err)
	}
}
