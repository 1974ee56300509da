// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package lexer tokenizes XPath 3.1 source into a stream of typed tokens
// while tracking source position (line, column, byte offset). It preserves
// whitespace and comments as leading trivia on tokens for accurate error
// diagnostics and enforces XPath's terminal-delimination rule: adjacent
// non-delimiting tokens (a numeric literal butting up against a name, two
// names in a row) require a separator between them. This is the first
// stage of the compile pipeline (Lexer -> parser -> AST -> IR -> bytecode).
package lexer
