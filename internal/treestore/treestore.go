// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package treestore defines the external XML tree abstraction the engine
// evaluates against. Implementations (a real XML DOM, a streaming index,
// whatever the host embeds) are supplied by the caller; this package only
// specifies the boundary. Parsing XML documents and schema validation are
// explicitly out of scope here (spec.md Non-goals) — Tree is always handed
// to the engine already built.
package treestore

// NodeKind classifies a Node the way the XPath data model requires.
type NodeKind int

const (
	Document NodeKind = iota
	Element
	Attribute
	Text
	Comment
	ProcessingInstruction
	Namespace
)

func (k NodeKind) String() string {
	switch k {
	case Document:
		return "document-node"
	case Element:
		return "element"
	case Attribute:
		return "attribute"
	case Text:
		return "text"
	case Comment:
		return "comment"
	case ProcessingInstruction:
		return "processing-instruction"
	case Namespace:
		return "namespace"
	default:
		return "unknown"
	}
}

// Node is an opaque handle into the tree store. Identity is defined by the
// handle: two Nodes refer to the same node iff Store.SameNode reports true.
// Implementations typically wrap an index or pointer; the engine never
// inspects the handle's concrete type.
type Node interface {
	Kind() NodeKind
}

// Tree is the external collaborator: parent/child/sibling navigation,
// names, text/typed content, and document order. Every method must be
// side-effect free; the store is borrowed immutably for the duration of
// one evaluation (spec.md §5).
type Tree interface {
	// Name returns the expanded name of an element, attribute, PI, or
	// namespace node. Returns empty strings for other kinds.
	Name(n Node) (uri, local, prefix string)

	// StringValue returns the node's string-value per the XDM rules
	// (concatenated descendant text for elements/documents, literal
	// content for text/comment/PI, normalized value for attributes).
	StringValue(n Node) string

	// TypedValue returns the node's typed value, or (nil, false) if the
	// node is untyped (in which case the caller atomizes via StringValue
	// and casts to xs:untypedAtomic).
	TypedValue(n Node) (v any, ok bool)

	Parent(n Node) (Node, bool)
	Children(n Node) []Node
	Attributes(n Node) []Node
	NamespaceNodes(n Node) []Node

	// Root returns the document (or fragment root) node containing n.
	Root(n Node) Node

	// DocumentOrder returns -1, 0, 1 as a precedes, is identical to, or
	// follows b in document order. Attribute and namespace nodes are
	// ordered immediately after their owning element, before its children,
	// per the spec's document-order extension for those node kinds.
	DocumentOrder(a, b Node) int

	// SameNode reports node identity (spec.md "is" operator and the
	// general node-identity rule), independent of DocumentOrder.
	SameNode(a, b Node) bool

	// BaseURI returns the node's base URI, used by fn:doc resolution and
	// fn:base-uri().
	BaseURI(n Node) string
}

// Resolver is the synchronous host-provided document resolver used by
// fn:doc, fn:doc-available, and fn:unparsed-text (spec.md §5: "delegated to
// a host-provided resolver synchronously or returns an error when
// unsupported"). It is a separate interface from Tree because a resolver
// produces new trees, while Tree navigates a tree already in hand.
type Resolver interface {
	// FetchDocument returns the root Node of the document at uri,
	// parsed into some Tree the Resolver also returns.
	FetchDocument(uri string) (Tree, Node, error)
	// FetchText returns the raw text resource at uri, decoded using
	// encoding if non-empty.
	FetchText(uri, encoding string) (string, error)
}
