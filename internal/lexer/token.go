// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lexer

import (
	"fmt"
	"strings"
)

// Span is a byte-offset source range with 1-based line/column, matching
// xperror.Span so a token's position can be handed straight to an error.
type Span struct {
	Start, End int
	Line, Col  int
}

func (s Span) Text(src []byte) string { return string(src[s.Start:s.End]) }

// TriviaKind classifies skipped, non-semantic input kept for diagnostics.
type TriviaKind int

const (
	Whitespace TriviaKind = iota
	Comment
)

func (k TriviaKind) String() string {
	switch k {
	case Whitespace:
		return "Whitespace"
	case Comment:
		return "Comment"
	default:
		return fmt.Sprintf("TriviaKind(%d)", k)
	}
}

type Trivia struct {
	Kind TriviaKind
	Span Span
}

func (t Trivia) Text(src []byte) string { return t.Span.Text(src) }

// TokenKind enumerates every XPath 3.1 lexical terminal the lexer emits.
// Keywords ("if", "for", "instance", ...) are not distinguished here: they
// lex as NCName and the parser interprets them contextually, exactly as
// the grammar requires (a keyword is a valid NCName everywhere outside the
// position where it is reserved).
type TokenKind int

const (
	EOF TokenKind = iota

	NCName
	BracedURILiteral // Q{uri}
	StringLiteral
	IntegerLiteral
	DecimalLiteral
	DoubleLiteral

	// Single- and multi-character punctuation/operators.
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Semicolon
	Colon
	ColonColon // "::"
	Assign     // ":="
	At
	Dollar
	Dot
	DotDot  // ".."
	Slash
	SlashSlash // "//"
	Pipe
	PipePipe // "||"
	Plus
	Minus
	Star
	Eq
	Ne // "!="
	Lt
	Le // "<="
	LtLt // "<<"
	Gt
	Ge   // ">="
	GtGt // ">>"
	Bang
	Question
	Arrow // "=>"
	Hash  // "#"

	Unknown
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case NCName:
		return "NCName"
	case BracedURILiteral:
		return "BracedURILiteral"
	case StringLiteral:
		return "StringLiteral"
	case IntegerLiteral:
		return "IntegerLiteral"
	case DecimalLiteral:
		return "DecimalLiteral"
	case DoubleLiteral:
		return "DoubleLiteral"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case Comma:
		return "Comma"
	case Semicolon:
		return "Semicolon"
	case Colon:
		return "Colon"
	case ColonColon:
		return "ColonColon"
	case Assign:
		return "Assign"
	case At:
		return "At"
	case Dollar:
		return "Dollar"
	case Dot:
		return "Dot"
	case DotDot:
		return "DotDot"
	case Slash:
		return "Slash"
	case SlashSlash:
		return "SlashSlash"
	case Pipe:
		return "Pipe"
	case PipePipe:
		return "PipePipe"
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	case Star:
		return "Star"
	case Eq:
		return "Eq"
	case Ne:
		return "Ne"
	case Lt:
		return "Lt"
	case Le:
		return "Le"
	case LtLt:
		return "LtLt"
	case Gt:
		return "Gt"
	case Ge:
		return "Ge"
	case GtGt:
		return "GtGt"
	case Bang:
		return "Bang"
	case Question:
		return "Question"
	case Arrow:
		return "Arrow"
	case Hash:
		return "Hash"
	case Unknown:
		return "Unknown"
	default:
		return fmt.Sprintf("TokenKind(%d)", k)
	}
}

// Token is one lexical unit plus its leading trivia.
type Token struct {
	Kind  TokenKind
	Span  Span
	Value string // decoded text for StringLiteral; raw source slice otherwise

	LeadingTrivia []Trivia
}

func (t *Token) Text(src []byte) string { return t.Span.Text(src) }

func (t *Token) TextWithTrivia(src []byte) string {
	var sb strings.Builder
	for _, tr := range t.LeadingTrivia {
		sb.WriteString(tr.Text(src))
	}
	sb.WriteString(t.Span.Text(src))
	return sb.String()
}

// delimiting reports whether a token already establishes a clear boundary
// with whatever precedes or follows it, so two of them can sit directly
// adjacent without a separator (spec.md §4.3's terminal-delimination
// rule). Punctuation and string/braced-URI literals are delimiting on
// both sides; names and numeric literals are not, since "1to" or "a1" or
// "1.2" would otherwise be ambiguous about where one terminal ends and
// the next begins.
func (k TokenKind) delimiting() bool {
	switch k {
	case NCName, IntegerLiteral, DecimalLiteral, DoubleLiteral:
		return false
	default:
		return true
	}
}
