// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lexer_test

import (
	"testing"

	"github.com/mdhenderson/xpath/internal/lexer"
	"github.com/mdhenderson/xpath/internal/xperror"
)

type tok struct {
	Kind string
	Text string
}

type testcase struct {
	name  string
	input string
	want  []tok
}

func scanAll(t *testing.T, input string) ([]tok, *xperror.Error) {
	t.Helper()
	lx := lexer.New([]byte(input))
	var got []tok
	for {
		tk, err := lx.Next()
		if err != nil {
			return got, err
		}
		if tk.Kind == lexer.EOF {
			break
		}
		got = append(got, tok{Kind: tk.Kind.String(), Text: tk.Text([]byte(input))})
	}
	return got, nil
}

func TestLexerSignificantTokenStreams(t *testing.T) {
	cases := []testcase{
		{
			name:  "path_with_predicate",
			input: "/a/b[1]/@c",
			want: []tok{
				{Kind: "Slash", Text: "/"},
				{Kind: "NCName", Text: "a"},
				{Kind: "Slash", Text: "/"},
				{Kind: "NCName", Text: "b"},
				{Kind: "LBracket", Text: "["},
				{Kind: "IntegerLiteral", Text: "1"},
				{Kind: "RBracket", Text: "]"},
				{Kind: "Slash", Text: "/"},
				{Kind: "At", Text: "@"},
				{Kind: "NCName", Text: "c"},
			},
		},
		{
			name:  "descendant_axis_and_union",
			input: "a//b | c",
			want: []tok{
				{Kind: "NCName", Text: "a"},
				{Kind: "SlashSlash", Text: "//"},
				{Kind: "NCName", Text: "b"},
				{Kind: "Pipe", Text: "|"},
				{Kind: "NCName", Text: "c"},
			},
		},
		{
			name:  "string_concat_and_arrow",
			input: `$x || "y" => fn:upper-case()`,
			want: []tok{
				{Kind: "Dollar", Text: "$"},
				{Kind: "NCName", Text: "x"},
				{Kind: "PipePipe", Text: "||"},
				{Kind: "StringLiteral", Text: `"y"`},
				{Kind: "Arrow", Text: "=>"},
				{Kind: "NCName", Text: "fn"},
				{Kind: "Colon", Text: ":"},
				{Kind: "NCName", Text: "upper-case"},
				{Kind: "LParen", Text: "("},
				{Kind: "RParen", Text: ")"},
			},
		},
		{
			name:  "numeric_literals",
			input: "1 1.5 .5 1.5e10 1e-3",
			want: []tok{
				{Kind: "IntegerLiteral", Text: "1"},
				{Kind: "DecimalLiteral", Text: "1.5"},
				{Kind: "DecimalLiteral", Text: ".5"},
				{Kind: "DoubleLiteral", Text: "1.5e10"},
				{Kind: "DoubleLiteral", Text: "1e-3"},
			},
		},
		{
			name:  "comparison_operators",
			input: "a eq b, a ne b, a << b, a >> b, a <= b, a >= b",
			want: []tok{
				{Kind: "NCName", Text: "a"}, {Kind: "NCName", Text: "eq"}, {Kind: "NCName", Text: "b"}, {Kind: "Comma", Text: ","},
				{Kind: "NCName", Text: "a"}, {Kind: "NCName", Text: "ne"}, {Kind: "NCName", Text: "b"}, {Kind: "Comma", Text: ","},
				{Kind: "NCName", Text: "a"}, {Kind: "LtLt", Text: "<<"}, {Kind: "NCName", Text: "b"}, {Kind: "Comma", Text: ","},
				{Kind: "NCName", Text: "a"}, {Kind: "GtGt", Text: ">>"}, {Kind: "NCName", Text: "b"}, {Kind: "Comma", Text: ","},
				{Kind: "NCName", Text: "a"}, {Kind: "Le", Text: "<="}, {Kind: "NCName", Text: "b"}, {Kind: "Comma", Text: ","},
				{Kind: "NCName", Text: "a"}, {Kind: "Ge", Text: ">="}, {Kind: "NCName", Text: "b"},
			},
		},
		{
			name:  "hyphenated_ncname_stays_one_token",
			input: "starts-with(a, b)",
			want: []tok{
				{Kind: "NCName", Text: "starts-with"},
				{Kind: "LParen", Text: "("},
				{Kind: "NCName", Text: "a"},
				{Kind: "Comma", Text: ","},
				{Kind: "NCName", Text: "b"},
				{Kind: "RParen", Text: ")"},
			},
		},
		{
			name:  "braced_uri_literal",
			input: `Q{http://example.com/ns}local`,
			want: []tok{
				{Kind: "BracedURILiteral", Text: "Q{http://example.com/ns}"},
				{Kind: "NCName", Text: "local"},
			},
		},
		{
			name:  "comment_is_trivia_not_a_token",
			input: "1 (: a (: nested :) comment :) + 2",
			want: []tok{
				{Kind: "IntegerLiteral", Text: "1"},
				{Kind: "Plus", Text: "+"},
				{Kind: "IntegerLiteral", Text: "2"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := scanAll(t, tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("len(tokens)=%d, want %d\n got=%v\nwant=%v", len(got), len(tc.want), got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("tok[%d]=%+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestLexerStringLiteralEscaping(t *testing.T) {
	lx := lexer.New([]byte(`'it''s' "she said ""hi"" there"`))
	tk1, err := lx.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk1.Value != "it's" {
		t.Fatalf("Value = %q, want %q", tk1.Value, "it's")
	}
	tk2, err := lx.Next()
	if err != nil {
		t.Fatalf("unexpected error on second token: %v", err)
	}
	if tk2.Value != `she said "hi" there` {
		t.Fatalf("Value = %q, want %q", tk2.Value, `she said "hi" there`)
	}
}

func TestLexerUnterminatedCommentErrors(t *testing.T) {
	lx := lexer.New([]byte("1 (: never closed"))
	if _, err := lx.Next(); err != nil {
		t.Fatalf("unexpected error on first token: %v", err)
	}
	if _, err := lx.Next(); !xperror.Is(err, xperror.XPST0003) {
		t.Fatalf("expected XPST0003 for unterminated comment, got %v", err)
	}
}

func TestLexerUnterminatedStringErrors(t *testing.T) {
	lx := lexer.New([]byte(`"never closed`))
	if _, err := lx.Next(); !xperror.Is(err, xperror.XPST0003) {
		t.Fatalf("expected XPST0003 for unterminated string, got %v", err)
	}
}

func TestLexerAdjacentNonDelimitingTokensRequireSeparator(t *testing.T) {
	lx := lexer.New([]byte("1foo"))
	if _, err := lx.Next(); err != nil {
		t.Fatalf("unexpected error on first token: %v", err)
	}
	if _, err := lx.Next(); !xperror.Is(err, xperror.XPST0003) {
		t.Fatalf("expected XPST0003 for adjacent number+name with no separator, got %v", err)
	}
}

func TestLexerNestedComments(t *testing.T) {
	lx := lexer.New([]byte("(: outer (: inner :) still outer :) x"))
	tk, err := lx.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Kind != lexer.NCName || tk.Text([]byte("(: outer (: inner :) still outer :) x")) != "x" {
		t.Fatalf("expected NCName 'x' after the balanced nested comment, got %+v", tk)
	}
}
