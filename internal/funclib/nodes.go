// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerNodes(l *Library) {
	l.register("name($arg as node()?) as xs:string", nodeName)
	l.register("name() as xs:string", nodeNameContext)
	l.register("local-name($arg as node()?) as xs:string", nodeLocalName)
	l.register("local-name() as xs:string", nodeLocalNameContext)
	l.register("namespace-uri($arg as node()?) as xs:anyURI", nodeNamespaceURI)
	l.register("namespace-uri() as xs:anyURI", nodeNamespaceURIContext)
	l.register("root($arg as node()?) as node()?", nodeRoot)
	l.register("root() as node()?", nodeRootContext)
	l.register("base-uri($arg as node()?) as xs:anyURI?", nodeBaseURI)
	l.register("string($arg as item()?) as xs:string", nodeStringOf)
	l.register("string() as xs:string", nodeStringOfContext)
	l.register("data($arg as item()*) as xs:anyAtomicType*", nodeData)
	l.register("doc($uri as xs:string?) as document-node()?", docFetch)
	l.register("doc-available($uri as xs:string?) as xs:boolean", docAvailable)
	l.register("unparsed-text($href as xs:string?) as xs:string?", unparsedText1)
	l.register("unparsed-text($href as xs:string?, $encoding as xs:string) as xs:string?", unparsedText2)
}

func nodeOrContext(l *Library, arg xpsequence.Sequence, hasArg bool) (xpsequence.Item, bool, *xperror.Error) {
	if hasArg {
		if arg.IsEmpty() {
			return xpsequence.Item{}, false, nil
		}
		it, ok := arg.Singleton()
		if !ok || !it.IsNode() {
			return xpsequence.Item{}, false, xperror.New(xperror.XPTY0004, "expected a single node argument")
		}
		return it, true, nil
	}
	if !l.ctx.HasContextItem {
		return xpsequence.Item{}, false, xperror.New(xperror.XPDY0002, "function requires a context item")
	}
	if !l.ctx.ContextItem.IsNode() {
		return xpsequence.Item{}, false, xperror.New(xperror.XPTY0004, "the context item is not a node")
	}
	return l.ctx.ContextItem, true, nil
}

func nodeName(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok, err := nodeOrContext(nil, args[0], true)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !ok {
		return stringSeq(""), nil
	}
	uri, local, prefix := it.Tree().Name(it.Node())
	if uri == "" || prefix == "" {
		return stringSeq(local), nil
	}
	return stringSeq(prefix + ":" + local), nil
}

func nodeNameContext(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok, err := nodeOrContext(l, xpsequence.Sequence{}, false)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !ok {
		return stringSeq(""), nil
	}
	uri, local, prefix := it.Tree().Name(it.Node())
	if uri == "" || prefix == "" {
		return stringSeq(local), nil
	}
	return stringSeq(prefix + ":" + local), nil
}

func nodeLocalName(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok, err := nodeOrContext(nil, args[0], true)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !ok {
		return stringSeq(""), nil
	}
	_, local, _ := it.Tree().Name(it.Node())
	return stringSeq(local), nil
}

func nodeLocalNameContext(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok, err := nodeOrContext(l, xpsequence.Sequence{}, false)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !ok {
		return stringSeq(""), nil
	}
	_, local, _ := it.Tree().Name(it.Node())
	return stringSeq(local), nil
}

func nodeNamespaceURI(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok, err := nodeOrContext(nil, args[0], true)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !ok {
		return stringSeq(""), nil
	}
	uri, _, _ := it.Tree().Name(it.Node())
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewAnyURI(uri))), nil
}

func nodeNamespaceURIContext(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok, err := nodeOrContext(l, xpsequence.Sequence{}, false)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !ok {
		return stringSeq(""), nil
	}
	uri, _, _ := it.Tree().Name(it.Node())
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewAnyURI(uri))), nil
}

func nodeRoot(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok, err := nodeOrContext(nil, args[0], true)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !ok {
		return xpsequence.Empty(), nil
	}
	root := it.Tree().Root(it.Node())
	return xpsequence.One(xpsequence.NewNodeItem(it.Tree(), root)), nil
}

func nodeRootContext(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	it, ok, err := nodeOrContext(l, xpsequence.Sequence{}, false)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if !ok {
		return xpsequence.Empty(), nil
	}
	root := it.Tree().Root(it.Node())
	return xpsequence.One(xpsequence.NewNodeItem(it.Tree(), root)), nil
}

func nodeBaseURI(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() {
		return xpsequence.Empty(), nil
	}
	it, ok := args[0].Singleton()
	if !ok || !it.IsNode() {
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "base-uri requires a single node argument")
	}
	uri := it.Tree().BaseURI(it.Node())
	if uri == "" {
		return xpsequence.Empty(), nil
	}
	return xpsequence.One(xpsequence.NewAtomicItem(atomic.NewAnyURI(uri))), nil
}

func nodeStringOf(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() {
		return stringSeq(""), nil
	}
	s, err := xpsequence.StringValue(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return stringSeq(s), nil
}

func nodeStringOfContext(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if !l.ctx.HasContextItem {
		return xpsequence.Sequence{}, xperror.New(xperror.XPDY0002, "fn:string() requires a context item")
	}
	s, err := xpsequence.StringValue(xpsequence.One(l.ctx.ContextItem))
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return stringSeq(s), nil
}

func nodeData(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return xpsequence.Atomized(args[0])
}

func docFetch(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	uri, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if uri == "" {
		return xpsequence.Empty(), nil
	}
	if l.ctx.Docs == nil || l.ctx.Resolver == nil {
		return xpsequence.Sequence{}, xperror.New(xperror.FODC0002, "no document resolver configured")
	}
	tree, root, ferr := l.ctx.Docs.FetchDocument(l.ctx.Resolver, uri)
	if ferr != nil {
		return xpsequence.Sequence{}, xperror.Wrap(xperror.FODC0002, ferr, "fn:doc(%q) failed", uri)
	}
	return xpsequence.One(xpsequence.NewNodeItem(tree, root)), nil
}

func docAvailable(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	uri, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if uri == "" || l.ctx.Docs == nil || l.ctx.Resolver == nil {
		return boolVal(false), nil
	}
	_, _, ferr := l.ctx.Docs.FetchDocument(l.ctx.Resolver, uri)
	return boolVal(ferr == nil), nil
}

func unparsedText1(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return unparsedTextImpl(l, args[0], "")
}

func unparsedText2(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	enc, err := reqString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return unparsedTextImpl(l, args[0], enc)
}

func unparsedTextImpl(l *Library, hrefSeq xpsequence.Sequence, encoding string) (xpsequence.Sequence, *xperror.Error) {
	href, err := optString(hrefSeq)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if href == "" {
		return xpsequence.Empty(), nil
	}
	if l.ctx.Docs == nil || l.ctx.Resolver == nil {
		return xpsequence.Sequence{}, xperror.New(xperror.FOUT1170, "no resource resolver configured")
	}
	text, ferr := l.ctx.Docs.FetchText(l.ctx.Resolver, href, encoding)
	if ferr != nil {
		return xpsequence.Sequence{}, xperror.Wrap(xperror.FOUT1170, ferr, "fn:unparsed-text(%q) failed", href)
	}
	return stringSeq(text), nil
}
