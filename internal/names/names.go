// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package names implements expanded QNames: a namespace-URI/local-name
// pair with the original prefix kept around only for diagnostics.
package names

import "fmt"

// Name is an expanded QName. Two Names are equal iff URI and Local match;
// Prefix is carried for error messages and pretty-printing only.
type Name struct {
	URI    string // namespace URI, "" if none
	Local  string // local name
	Prefix string // original prefix, "" if unprefixed; diagnostics only
}

// Equal compares two names by (URI, Local) alone, per the data model.
func (n Name) Equal(o Name) bool {
	return n.URI == o.URI && n.Local == o.Local
}

func (n Name) String() string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Local
	}
	if n.URI == "" {
		return n.Local
	}
	return fmt.Sprintf("{%s}%s", n.URI, n.Local)
}

// IsZero reports whether n is the zero Name (used as a "no name" sentinel
// for, e.g., unnamed inline functions).
func (n Name) IsZero() bool {
	return n.URI == "" && n.Local == "" && n.Prefix == ""
}

// Well-known namespace URIs referenced throughout the engine.
const (
	XML       = "http://www.w3.org/XML/1998/namespace"
	XS        = "http://www.w3.org/2001/XMLSchema"
	XSI       = "http://www.w3.org/2001/XMLSchema-instance"
	FN        = "http://www.w3.org/2005/xpath-functions"
	MAP       = "http://www.w3.org/2005/xpath-functions/map"
	ARRAY     = "http://www.w3.org/2005/xpath-functions/array"
	MATH      = "http://www.w3.org/2005/xpath-functions/math"
	ERR       = "http://www.w3.org/2005/xqt-errors"
	XMLNS     = "http://www.w3.org/2000/xmlns/"
)

// Namespaces is a prefix -> URI binding table threaded through parser
// state. It is immutable; Bind returns a new table with the prefix shadowed
// so that nested scopes never mutate an enclosing one.
type Namespaces struct {
	parent *Namespaces
	prefix string
	uri    string
}

// NewNamespaces returns the statically-known default bindings: "xml" and
// "xs" are always in scope, matching every XPath processor's static context.
func NewNamespaces() *Namespaces {
	base := &Namespaces{prefix: "xml", uri: XML}
	return &Namespaces{parent: base, prefix: "xs", uri: XS}
}

// Bind returns a new scope with prefix bound to uri, shadowing any
// outer binding of the same prefix.
func (n *Namespaces) Bind(prefix, uri string) *Namespaces {
	return &Namespaces{parent: n, prefix: prefix, uri: uri}
}

// Resolve looks up prefix, walking outward through enclosing scopes.
// The empty prefix means "no prefix"; callers should consult the
// default-element or default-function namespace instead of calling Resolve(""),
// since those two defaults differ by context (element vs. function position).
func (n *Namespaces) Resolve(prefix string) (uri string, ok bool) {
	for s := n; s != nil; s = s.parent {
		if s.prefix == prefix {
			return s.uri, true
		}
	}
	return "", false
}
