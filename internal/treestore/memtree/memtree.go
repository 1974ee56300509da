// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package memtree is a small in-memory treestore.Tree built from XML text;
// no other package in this repository imports it. It is not a production
// XML tree implementation — node shape (parent/children pointers, a kind
// tag, pre-order document-order index) is grounded on the pack's
// moznion-helium SAX tree builder, simplified down to what XPath evaluation
// needs: no DTD/entity handling, no mutation after construction.
package memtree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mdhenderson/xpath/internal/treestore"
)

// node is the concrete handle memtree hands out; it satisfies
// treestore.Node via Kind().
type node struct {
	kind     treestore.NodeKind
	uri      string
	local    string
	prefix   string
	text     string // literal content for Text/Comment/PI; target-sep-data for PI
	parent   *node
	children []*node
	attrs    []*node
	nsNodes  []*node
	order    int // pre-order index assigned at build time; defines document order
	baseURI  string
}

func (n *node) Kind() treestore.NodeKind { return n.kind }

// Tree is the treestore.Tree implementation backing a single document built
// by Parse.
type Tree struct {
	root *node
}

var _ treestore.Tree = (*Tree)(nil)

func (t *Tree) asNode(n treestore.Node) *node {
	mn, ok := n.(*node)
	if !ok || mn == nil {
		panic("memtree: foreign node handle")
	}
	return mn
}

func (t *Tree) Name(n treestore.Node) (uri, local, prefix string) {
	mn := t.asNode(n)
	return mn.uri, mn.local, mn.prefix
}

func (t *Tree) StringValue(n treestore.Node) string {
	mn := t.asNode(n)
	switch mn.kind {
	case treestore.Text, treestore.Comment, treestore.ProcessingInstruction, treestore.Attribute, treestore.Namespace:
		return mn.text
	default:
		var sb strings.Builder
		collectText(mn, &sb)
		return sb.String()
	}
}

func collectText(n *node, sb *strings.Builder) {
	if n.kind == treestore.Text {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		collectText(c, sb)
	}
}

func (t *Tree) TypedValue(n treestore.Node) (any, bool) {
	// memtree never carries schema-validated typed values; every node is
	// untyped, so callers fall back to atomizing the string value.
	return nil, false
}

func (t *Tree) Parent(n treestore.Node) (treestore.Node, bool) {
	mn := t.asNode(n)
	if mn.parent == nil {
		return nil, false
	}
	return mn.parent, true
}

func (t *Tree) Children(n treestore.Node) []treestore.Node {
	mn := t.asNode(n)
	out := make([]treestore.Node, len(mn.children))
	for i, c := range mn.children {
		out[i] = c
	}
	return out
}

func (t *Tree) Attributes(n treestore.Node) []treestore.Node {
	mn := t.asNode(n)
	out := make([]treestore.Node, len(mn.attrs))
	for i, a := range mn.attrs {
		out[i] = a
	}
	return out
}

func (t *Tree) NamespaceNodes(n treestore.Node) []treestore.Node {
	mn := t.asNode(n)
	out := make([]treestore.Node, len(mn.nsNodes))
	for i, ns := range mn.nsNodes {
		out[i] = ns
	}
	return out
}

func (t *Tree) Root(n treestore.Node) treestore.Node {
	mn := t.asNode(n)
	for mn.parent != nil {
		mn = mn.parent
	}
	return mn
}

func (t *Tree) DocumentOrder(a, b treestore.Node) int {
	na, nb := t.asNode(a), t.asNode(b)
	switch {
	case na.order < nb.order:
		return -1
	case na.order > nb.order:
		return 1
	default:
		return 0
	}
}

func (t *Tree) SameNode(a, b treestore.Node) bool {
	return t.asNode(a) == t.asNode(b)
}

func (t *Tree) BaseURI(n treestore.Node) string {
	return t.asNode(n).baseURI
}

// RootNode returns the tree's document node.
func (t *Tree) RootNode() treestore.Node { return t.root }

// Parse builds a Tree from well-formed XML text using encoding/xml's
// streaming decoder — the tree-store's own parsing is out of this
// package's excluded scope everywhere else, but a test double has to come
// from somewhere, and encoding/xml is the obvious, unglamorous stdlib tool
// for "decode a fixture into a handful of struct fields."
func Parse(src string, baseURI string) (*Tree, error) {
	dec := xml.NewDecoder(strings.NewReader(src))
	doc := &node{kind: treestore.Document, baseURI: baseURI}
	stack := []*node{doc}
	order := 0
	doc.order = order
	assign := func(n *node) {
		order++
		n.order = order
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("memtree: %w", err)
		}
		top := stack[len(stack)-1]
		switch tt := tok.(type) {
		case xml.StartElement:
			el := &node{kind: treestore.Element, uri: tt.Name.Space, local: tt.Name.Local, parent: top, baseURI: baseURI}
			assign(el)
			for _, a := range tt.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					ns := &node{kind: treestore.Namespace, local: a.Name.Local, text: a.Value, parent: el}
					assign(ns)
					el.nsNodes = append(el.nsNodes, ns)
					continue
				}
				attr := &node{kind: treestore.Attribute, uri: a.Name.Space, local: a.Name.Local, text: a.Value, parent: el}
				assign(attr)
				el.attrs = append(el.attrs, attr)
			}
			top.children = append(top.children, el)
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			txt := &node{kind: treestore.Text, text: string(tt), parent: top}
			assign(txt)
			top.children = append(top.children, txt)
		case xml.Comment:
			c := &node{kind: treestore.Comment, text: string(tt), parent: top}
			assign(c)
			top.children = append(top.children, c)
		case xml.ProcInst:
			pi := &node{kind: treestore.ProcessingInstruction, local: tt.Target, text: string(tt.Inst), parent: top}
			assign(pi)
			top.children = append(top.children, pi)
		}
	}
	return &Tree{root: doc}, nil
}
