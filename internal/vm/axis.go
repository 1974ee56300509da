// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package vm

import (
	"github.com/mdhenderson/xpath/internal/treestore"
	"github.com/mdhenderson/xpath/internal/xpast"
)

// axisNodes returns the raw node-test candidates for one axis step, in the
// order spec.md §3 requires: forward axes in document order, reverse axes
// (ancestor, ancestor-or-self, preceding-sibling, preceding) in reverse
// document order.
func axisNodes(tree treestore.Tree, n treestore.Node, axis xpast.Axis) []treestore.Node {
	switch axis {
	case xpast.AxisChild:
		return tree.Children(n)
	case xpast.AxisAttribute:
		return tree.Attributes(n)
	case xpast.AxisNamespace:
		return tree.NamespaceNodes(n)
	case xpast.AxisSelf:
		return []treestore.Node{n}
	case xpast.AxisParent:
		if p, ok := tree.Parent(n); ok {
			return []treestore.Node{p}
		}
		return nil
	case xpast.AxisDescendant:
		return descendants(tree, n, false)
	case xpast.AxisDescendantOrSelf:
		return descendants(tree, n, true)
	case xpast.AxisAncestor:
		return ancestors(tree, n, false)
	case xpast.AxisAncestorOrSelf:
		return ancestors(tree, n, true)
	case xpast.AxisFollowingSibling:
		return siblings(tree, n, true)
	case xpast.AxisPrecedingSibling:
		return siblings(tree, n, false)
	case xpast.AxisFollowing:
		return followingOrPreceding(tree, n, true)
	case xpast.AxisPreceding:
		return followingOrPreceding(tree, n, false)
	default:
		return nil
	}
}

func descendants(tree treestore.Tree, n treestore.Node, self bool) []treestore.Node {
	var out []treestore.Node
	if self {
		out = append(out, n)
	}
	var walk func(treestore.Node)
	walk = func(cur treestore.Node) {
		for _, c := range tree.Children(cur) {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// ancestors returns n's ancestors nearest-first, which is reverse document
// order.
func ancestors(tree treestore.Tree, n treestore.Node, self bool) []treestore.Node {
	var out []treestore.Node
	if self {
		out = append(out, n)
	}
	cur := n
	for {
		p, ok := tree.Parent(cur)
		if !ok {
			break
		}
		out = append(out, p)
		cur = p
	}
	return out
}

func siblings(tree treestore.Tree, n treestore.Node, following bool) []treestore.Node {
	p, ok := tree.Parent(n)
	if !ok {
		return nil
	}
	kids := tree.Children(p)
	idx := -1
	for i, k := range kids {
		if tree.SameNode(k, n) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	if following {
		return append([]treestore.Node(nil), kids[idx+1:]...)
	}
	out := make([]treestore.Node, 0, idx)
	for i := idx - 1; i >= 0; i-- {
		out = append(out, kids[i])
	}
	return out
}

func fullPreorder(tree treestore.Tree, root treestore.Node) []treestore.Node {
	var out []treestore.Node
	var walk func(treestore.Node)
	walk = func(cur treestore.Node) {
		out = append(out, cur)
		for _, a := range tree.Attributes(cur) {
			out = append(out, a)
		}
		for _, ns := range tree.NamespaceNodes(cur) {
			out = append(out, ns)
		}
		for _, c := range tree.Children(cur) {
			walk(c)
		}
	}
	walk(root)
	return out
}

func isDescendantOf(tree treestore.Tree, ancestor, x treestore.Node) bool {
	cur := x
	for {
		p, ok := tree.Parent(cur)
		if !ok {
			return false
		}
		if tree.SameNode(p, ancestor) {
			return true
		}
		cur = p
	}
}

// followingOrPreceding walks a full preorder traversal of the document,
// since the following/preceding axes aren't expressible from parent/child
// links alone — they require knowing every node's position relative to n
// across the entire tree, not just along the ancestor chain. Both axes
// exclude attribute and namespace nodes (spec.md §3).
func followingOrPreceding(tree treestore.Tree, n treestore.Node, following bool) []treestore.Node {
	root := tree.Root(n)
	order := fullPreorder(tree, root)
	ancestorsSelf := ancestors(tree, n, true)
	isAncestorOrSelf := func(x treestore.Node) bool {
		for _, a := range ancestorsSelf {
			if tree.SameNode(a, x) {
				return true
			}
		}
		return false
	}
	isAttrOrNS := func(x treestore.Node) bool {
		return x.Kind() == treestore.Attribute || x.Kind() == treestore.Namespace
	}

	if following {
		var out []treestore.Node
		foundSelf := false
		for _, x := range order {
			if !foundSelf {
				if tree.SameNode(x, n) {
					foundSelf = true
				}
				continue
			}
			if isAttrOrNS(x) || isDescendantOf(tree, n, x) {
				continue
			}
			out = append(out, x)
		}
		return out
	}

	var before []treestore.Node
	for _, x := range order {
		if tree.SameNode(x, n) {
			break
		}
		if isAttrOrNS(x) || isAncestorOrSelf(x) {
			continue
		}
		before = append(before, x)
	}
	for i, j := 0, len(before)-1; i < j; i, j = i+1, j-1 {
		before[i], before[j] = before[j], before[i]
	}
	return before
}

// matchTest reports whether n satisfies test, independent of which axis
// produced n (an axis step only ever hands matchTest nodes of the kind that
// axis can produce, so a name test against an attribute axis result is
// comparing attribute names, not element names).
func matchTest(tree treestore.Tree, n treestore.Node, test xpast.NodeTest) bool {
	switch t := test.(type) {
	case *xpast.NameTest:
		switch n.Kind() {
		case treestore.Element, treestore.Attribute, treestore.ProcessingInstruction, treestore.Namespace:
		default:
			return false
		}
		uri, local, _ := tree.Name(n)
		if !t.WildcardURI && uri != t.Name.URI {
			return false
		}
		if !t.WildcardLocal && local != t.Name.Local {
			return false
		}
		return true
	case *xpast.KindTest:
		switch t.Kind {
		case xpast.KindAny:
			return true
		case xpast.KindDocument:
			return n.Kind() == treestore.Document
		case xpast.KindElement:
			if n.Kind() != treestore.Element {
				return false
			}
			if t.Name != nil {
				uri, local, _ := tree.Name(n)
				return uri == t.Name.URI && local == t.Name.Local
			}
			return true
		case xpast.KindAttribute:
			if n.Kind() != treestore.Attribute {
				return false
			}
			if t.Name != nil {
				uri, local, _ := tree.Name(n)
				return uri == t.Name.URI && local == t.Name.Local
			}
			return true
		case xpast.KindText:
			return n.Kind() == treestore.Text
		case xpast.KindComment:
			return n.Kind() == treestore.Comment
		case xpast.KindProcessingInstruction:
			if n.Kind() != treestore.ProcessingInstruction {
				return false
			}
			if t.PITarget != "" {
				_, local, _ := tree.Name(n)
				return local == t.PITarget
			}
			return true
		case xpast.KindNamespaceNode:
			return n.Kind() == treestore.Namespace
		}
	}
	return false
}
