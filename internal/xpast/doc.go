// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package xpast builds a spanned abstract syntax tree directly from the
// token stream internal/lexer produces: a single hand-written recursive-
// descent parser, no intermediate lossless CST stage. It resolves QNames
// against the in-scope namespaces as it goes, rejects reserved words used
// as function names, and runs a variable-uniquification pass over the
// finished tree so later scope analysis never has to worry about shadowing.
// It also exposes the SequenceType, KindTest, Name, and function-Signature
// sub-grammars standalone; internal/funclib declares its built-ins through
// the Signature parser. No XSLT pattern compiler exists in this repository.
package xpast
