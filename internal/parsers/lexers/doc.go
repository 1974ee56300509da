// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package lexers tokenizes turn report input into a stream of typed tokens
// while tracking source position (line, column, byte offset). It preserves
// whitespace (other than end-of-line) as leading trivia on tokens, enabling
// accurate error diagnostics; comments are not recognized and
// TrailingTrivia is never filled. This is the first stage of the new three-stage
// parser pipeline (Lexer -> CST -> AST).
package lexers
