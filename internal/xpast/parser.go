// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpast

import (
	"strings"

	"github.com/mdhenderson/xpath/internal/lexer"
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xperror"
)

// reservedFunctionNames are NCNames the grammar reserves for constructor/
// kind-test/control-flow syntax: used unprefixed immediately before "(" in
// a primary-expression position, they are a static error rather than a
// function call (spec.md §4.4: "reserved function names ... cannot be
// called as functions").
var reservedFunctionNames = map[string]bool{
	"array": true, "attribute": true, "comment": true, "document-node": true,
	"element": true, "empty-sequence": true, "function": true, "if": true,
	"item": true, "map": true, "namespace-node": true, "node": true,
	"processing-instruction": true, "schema-attribute": true,
	"schema-element": true, "switch": true, "text": true, "typeswitch": true,
}

// Parser holds the full token slice for one source buffer plus the
// namespace/default-namespace static context threaded through parsing.
type Parser struct {
	src  []byte
	toks []lexer.Token
	pos  int

	ns                *names.Namespaces
	defaultElementNS  string
	defaultFunctionNS string
}

// NewParser tokenizes src completely and returns a Parser positioned at
// the first significant token. ns carries the in-scope namespace bindings;
// defaultFunctionNS is normally names.FN.
func NewParser(src []byte, ns *names.Namespaces, defaultElementNS, defaultFunctionNS string) (*Parser, *xperror.Error) {
	lx := lexer.New(src)
	var toks []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, *tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	return &Parser{src: src, toks: toks, ns: ns, defaultElementNS: defaultElementNS, defaultFunctionNS: defaultFunctionNS}, nil
}

// ParseExpr parses a complete XPath expression and requires the whole
// input be consumed.
func ParseExpr(src []byte, ns *names.Namespaces, defaultElementNS, defaultFunctionNS string) (Expr, *xperror.Error) {
	p, err := NewParser(src, ns, defaultElementNS, defaultFunctionNS)
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lexer.EOF {
		return nil, p.errorAt(p.cur().Span, xperror.XPST0003, "unexpected trailing input %q", p.text(p.cur()))
	}
	return e, nil
}

// ---- token plumbing ----

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}
func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos+1 < len(p.toks) {
		p.pos++
	}
	return t
}

// peekAt returns the token n positions ahead of the current one (peekAt(0)
// == cur(), peekAt(1) == peek()), clamped to EOF at the end of the stream.
func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		i = len(p.toks) - 1
	}
	return p.toks[i]
}
func (p *Parser) text(t lexer.Token) string { return t.Text(p.src) }

func (p *Parser) atKind(k lexer.TokenKind) bool { return p.cur().Kind == k }

func (p *Parser) atKeyword(word string) bool {
	return p.cur().Kind == lexer.NCName && p.text(p.cur()) == word
}

func (p *Parser) spanFrom(start lexer.Span) Span {
	end := p.toks[p.pos].Span
	if p.pos > 0 {
		end = p.toks[p.pos-1].Span
	}
	return Span{Start: start.Start, End: end.End, Line: start.Line, Col: start.Col}
}

func (p *Parser) errorAt(s lexer.Span, code xperror.Code, format string, args ...any) *xperror.Error {
	return xperror.NewAt(code, xperror.Span{Start: s.Start, End: s.End, Line: s.Line, Col: s.Col}, format, args...)
}

func (p *Parser) expectKind(k lexer.TokenKind, what string) (lexer.Token, *xperror.Error) {
	if p.cur().Kind != k {
		return lexer.Token{}, p.errorAt(p.cur().Span, xperror.XPST0003, "expected %s, got %q", what, p.text(p.cur()))
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(word string) *xperror.Error {
	if !p.atKeyword(word) {
		return p.errorAt(p.cur().Span, xperror.XPST0003, "expected %q, got %q", word, p.text(p.cur()))
	}
	p.advance()
	return nil
}

// ---- EQName resolution ----

// parseEQName consumes an EQName (NCName, prefixed QName, or
// URIQualifiedName) and resolves it to an expanded Name, raising
// XPST0081 for an unbound prefix. defaultNS applies only to an
// unprefixed NCName (the caller passes "" for variable names, which are
// never subject to a default namespace).
func (p *Parser) parseEQName(defaultNS string) (names.Name, *xperror.Error) {
	if p.atKind(lexer.BracedURILiteral) {
		tok := p.advance()
		raw := p.text(tok)
		uri := strings.TrimSuffix(strings.TrimPrefix(raw, "Q{"), "}")
		local, err := p.expectKind(lexer.NCName, "local name after braced URI literal")
		if err != nil {
			return names.Name{}, err
		}
		return names.Name{URI: uri, Local: p.text(local)}, nil
	}
	first, err := p.expectKind(lexer.NCName, "name")
	if err != nil {
		return names.Name{}, err
	}
	if p.atKind(lexer.Colon) {
		p.advance()
		local, err := p.expectKind(lexer.NCName, "local name after ':'")
		if err != nil {
			return names.Name{}, err
		}
		prefix := p.text(first)
		uri, ok := p.ns.Resolve(prefix)
		if !ok {
			return names.Name{}, p.errorAt(first.Span, xperror.XPST0081, "no namespace bound to prefix %q", prefix)
		}
		return names.Name{URI: uri, Local: p.text(local), Prefix: prefix}, nil
	}
	return names.Name{URI: defaultNS, Local: p.text(first)}, nil
}

// ---- Expr / ExprSingle ----

func (p *Parser) parseExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	first, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	if !p.atKind(lexer.Comma) {
		return first, nil
	}
	items := []Expr{first}
	for p.atKind(lexer.Comma) {
		p.advance()
		next, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	return &SequenceExpr{base: base{p.spanFrom(start)}, Items: items}, nil
}

func (p *Parser) parseExprSingle() (Expr, *xperror.Error) {
	switch {
	case p.atKeyword("for") && p.peekIsDollar():
		return p.parseForExpr()
	case p.atKeyword("let") && p.peekIsDollar():
		return p.parseLetExpr()
	case p.atKeyword("some") && p.peekIsDollar():
		return p.parseQuantifiedExpr(QuantSome)
	case p.atKeyword("every") && p.peekIsDollar():
		return p.parseQuantifiedExpr(QuantEvery)
	case p.atKeyword("if") && p.peek().Kind == lexer.LParen:
		return p.parseIfExpr()
	default:
		return p.parseOrExpr()
	}
}

func (p *Parser) peekIsDollar() bool { return p.peek().Kind == lexer.Dollar }

func (p *Parser) parseSimpleBindings() ([]ForBinding, *xperror.Error) {
	var out []ForBinding
	for {
		if _, err := p.expectKind(lexer.Dollar, "'$'"); err != nil {
			return nil, err
		}
		name, err := p.parseEQName("")
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("in"); err != nil {
			return nil, err
		}
		seq, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		out = append(out, ForBinding{VarName: name, Seq: seq})
		if !p.atKind(lexer.Comma) {
			break
		}
		p.advance()
	}
	return out, nil
}

func (p *Parser) parseForExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	p.advance() // "for"
	bindings, err := p.parseSimpleBindings()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}
	ret, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	return &ForExpr{base: base{p.spanFrom(start)}, Bindings: bindings, Return: ret}, nil
}

func (p *Parser) parseLetExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	p.advance() // "let"
	var bindings []LetBinding
	for {
		if _, err := p.expectKind(lexer.Dollar, "'$'"); err != nil {
			return nil, err
		}
		name, err := p.parseEQName("")
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKind(lexer.Assign, "':='"); err != nil {
			return nil, err
		}
		val, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, LetBinding{VarName: name, Value: val})
		if !p.atKind(lexer.Comma) {
			break
		}
		p.advance()
	}
	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}
	ret, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	return &LetExpr{base: base{p.spanFrom(start)}, Bindings: bindings, Return: ret}, nil
}

func (p *Parser) parseQuantifiedExpr(kind QuantKind) (Expr, *xperror.Error) {
	start := p.cur().Span
	p.advance() // "some"/"every"
	bindings, err := p.parseSimpleBindings()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("satisfies"); err != nil {
		return nil, err
	}
	sat, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	return &QuantifiedExpr{base: base{p.spanFrom(start)}, Kind: kind, Bindings: bindings, Satisfies: sat}, nil
}

func (p *Parser) parseIfExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	p.advance() // "if"
	if _, err := p.expectKind(lexer.LParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	then, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	els, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	return &IfExpr{base: base{p.spanFrom(start)}, Cond: cond, Then: then, Else: els}, nil
}

// ---- binary precedence chain ----

func (p *Parser) parseOrExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("or") {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{p.spanFrom(start)}, Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseComparisonExpr()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("and") {
		p.advance()
		right, err := p.parseComparisonExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{p.spanFrom(start)}, Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

// comparisonOp reports the BinaryOp for a comparison token/keyword at the
// current position, or ok=false if none applies (comparisons do not
// associate: ComparisonExpr allows at most one).
func (p *Parser) comparisonOp() (BinaryOp, bool) {
	switch p.cur().Kind {
	case lexer.Eq:
		return OpGeneralEq, true
	case lexer.Ne:
		return OpGeneralNe, true
	case lexer.Lt:
		return OpGeneralLt, true
	case lexer.Le:
		return OpGeneralLe, true
	case lexer.Gt:
		return OpGeneralGt, true
	case lexer.Ge:
		return OpGeneralGe, true
	case lexer.LtLt:
		return OpNodePrecedes, true
	case lexer.GtGt:
		return OpNodeFollows, true
	case lexer.NCName:
		switch p.text(p.cur()) {
		case "eq":
			return OpValueEq, true
		case "ne":
			return OpValueNe, true
		case "lt":
			return OpValueLt, true
		case "le":
			return OpValueLe, true
		case "gt":
			return OpValueGt, true
		case "ge":
			return OpValueGe, true
		case "is":
			return OpNodeIs, true
		}
	}
	return 0, false
}

func (p *Parser) parseComparisonExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseStringConcatExpr()
	if err != nil {
		return nil, err
	}
	if op, ok := p.comparisonOp(); ok {
		p.advance()
		right, err := p.parseStringConcatExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{base: base{p.spanFrom(start)}, Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseStringConcatExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseRangeExpr()
	if err != nil {
		return nil, err
	}
	for p.atKind(lexer.PipePipe) {
		p.advance()
		right, err := p.parseRangeExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{p.spanFrom(start)}, Op: OpConcat, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRangeExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseAdditiveExpr()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("to") {
		p.advance()
		right, err := p.parseAdditiveExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{base: base{p.spanFrom(start)}, Op: OpRange, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditiveExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseMultiplicativeExpr()
	if err != nil {
		return nil, err
	}
	for p.atKind(lexer.Plus) || p.atKind(lexer.Minus) {
		op := OpAdd
		if p.atKind(lexer.Minus) {
			op = OpSub
		}
		p.advance()
		right, err := p.parseMultiplicativeExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicativeExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseUnionExpr()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.atKind(lexer.Star):
			op = OpMul
		case p.atKeyword("div"):
			op = OpDiv
		case p.atKeyword("idiv"):
			op = OpIDiv
		case p.atKeyword("mod"):
			op = OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnionExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnionExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseIntersectExceptExpr()
	if err != nil {
		return nil, err
	}
	for p.atKind(lexer.Pipe) || p.atKeyword("union") {
		p.advance()
		right, err := p.parseIntersectExceptExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{p.spanFrom(start)}, Op: OpUnion, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseIntersectExceptExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseInstanceofExpr()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("intersect") || p.atKeyword("except") {
		op := OpIntersect
		if p.atKeyword("except") {
			op = OpExcept
		}
		p.advance()
		right, err := p.parseInstanceofExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseInstanceofExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseTreatExpr()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("instance") {
		p.advance()
		if err := p.expectKeyword("of"); err != nil {
			return nil, err
		}
		st, err := p.parseSequenceType()
		if err != nil {
			return nil, err
		}
		return &InstanceOfExpr{base: base{p.spanFrom(start)}, Operand: left, Type: st}, nil
	}
	return left, nil
}

func (p *Parser) parseTreatExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseCastableExpr()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("treat") {
		p.advance()
		if err := p.expectKeyword("as"); err != nil {
			return nil, err
		}
		st, err := p.parseSequenceType()
		if err != nil {
			return nil, err
		}
		return &TreatExpr{base: base{p.spanFrom(start)}, Operand: left, Type: st}, nil
	}
	return left, nil
}

func (p *Parser) parseCastableExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseCastExpr()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("castable") {
		p.advance()
		if err := p.expectKeyword("as"); err != nil {
			return nil, err
		}
		st, err := p.parseSingleType()
		if err != nil {
			return nil, err
		}
		return &CastableExpr{base: base{p.spanFrom(start)}, Operand: left, Type: st}, nil
	}
	return left, nil
}

func (p *Parser) parseCastExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("cast") {
		p.advance()
		if err := p.expectKeyword("as"); err != nil {
			return nil, err
		}
		st, err := p.parseSingleType()
		if err != nil {
			return nil, err
		}
		return &CastExpr{base: base{p.spanFrom(start)}, Operand: left, Type: st}, nil
	}
	return left, nil
}

func (p *Parser) parseArrowExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for p.atKind(lexer.Arrow) {
		p.advance()
		var target ArrowTarget
		switch {
		case p.atKind(lexer.Dollar):
			p.advance()
			name, err := p.parseEQName("")
			if err != nil {
				return nil, err
			}
			target = ArrowTarget{DynamicExpr: &VarRef{base: base{p.spanFrom(start)}, Name: name}}
		case p.atKind(lexer.LParen):
			inner, err := p.parseParenthesized()
			if err != nil {
				return nil, err
			}
			target = ArrowTarget{DynamicExpr: inner}
		default:
			name, err := p.parseEQName(p.defaultFunctionNS)
			if err != nil {
				return nil, err
			}
			target = ArrowTarget{StaticName: name}
		}
		args, err := p.parseArgumentList()
		if err != nil {
			return nil, err
		}
		left = &ArrowExpr{base: base{p.spanFrom(start)}, Operand: left, Target: target, Args: args}
	}
	return left, nil
}

func (p *Parser) parseUnaryExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	negative := false
	seenSign := false
	for p.atKind(lexer.Plus) || p.atKind(lexer.Minus) {
		seenSign = true
		if p.atKind(lexer.Minus) {
			negative = !negative
		}
		p.advance()
	}
	operand, err := p.parseValueExpr()
	if err != nil {
		return nil, err
	}
	if !seenSign {
		return operand, nil
	}
	return &UnaryExpr{base: base{p.spanFrom(start)}, Negative: negative, Operand: operand}, nil
}

func (p *Parser) parseValueExpr() (Expr, *xperror.Error) { return p.parseSimpleMapExpr() }

func (p *Parser) parseSimpleMapExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	first, err := p.parsePathExpr()
	if err != nil {
		return nil, err
	}
	if !p.atKind(lexer.Bang) {
		return first, nil
	}
	steps := []Expr{first}
	for p.atKind(lexer.Bang) {
		p.advance()
		next, err := p.parsePathExpr()
		if err != nil {
			return nil, err
		}
		steps = append(steps, next)
	}
	return &SimpleMapExpr{base: base{p.spanFrom(start)}, Steps: steps}, nil
}

// ---- path expressions ----

func (p *Parser) parsePathExpr() (Expr, *xperror.Error) {
	start := p.cur().Span

	if p.atKind(lexer.Slash) {
		p.advance()
		if p.startsRelativePathStep() {
			steps, seps, err := p.parseRelativeSteps()
			if err != nil {
				return nil, err
			}
			return &PathExpr{base: base{p.spanFrom(start)}, Leading: PathRootOnly, Steps: steps, Separators: seps}, nil
		}
		return &PathExpr{base: base{p.spanFrom(start)}, Leading: PathRootOnly}, nil
	}

	if p.atKind(lexer.SlashSlash) {
		p.advance()
		steps, seps, err := p.parseRelativeSteps()
		if err != nil {
			return nil, err
		}
		return &PathExpr{base: base{p.spanFrom(start)}, Leading: PathRootDescendant, Steps: steps, Separators: seps}, nil
	}

	steps, seps, err := p.parseRelativeSteps()
	if err != nil {
		return nil, err
	}
	if len(steps) == 1 && len(seps) == 0 {
		return steps[0], nil
	}
	return &PathExpr{base: base{p.spanFrom(start)}, Leading: PathRelative, Steps: steps, Separators: seps}, nil
}

func (p *Parser) startsRelativePathStep() bool {
	switch p.cur().Kind {
	case lexer.EOF, lexer.RParen, lexer.RBracket, lexer.RBrace, lexer.Comma:
		return false
	}
	if p.cur().Kind == lexer.NCName {
		switch p.text(p.cur()) {
		case "then", "else", "return", "satisfies", "in", "to", "div", "idiv", "mod",
			"and", "or", "union", "intersect", "except", "instance", "treat", "castable",
			"cast", "is":
			return false
		}
	}
	return true
}

func (p *Parser) parseRelativeSteps() ([]Expr, []PathSep, *xperror.Error) {
	first, err := p.parseStepExpr()
	if err != nil {
		return nil, nil, err
	}
	steps := []Expr{first}
	var seps []PathSep
	for p.atKind(lexer.Slash) || p.atKind(lexer.SlashSlash) {
		sep := SepSingle
		if p.atKind(lexer.SlashSlash) {
			sep = SepDouble
		}
		p.advance()
		next, err := p.parseStepExpr()
		if err != nil {
			return nil, nil, err
		}
		seps = append(seps, sep)
		steps = append(steps, next)
	}
	return steps, seps, nil
}

func (p *Parser) parseStepExpr() (Expr, *xperror.Error) {
	if p.looksLikeAxisStep() {
		return p.parseAxisStep()
	}
	return p.parsePostfixExpr()
}

// looksLikeAxisStep reports whether the current position begins an axis
// step rather than a postfix/primary expression: the abbreviations
// ".", "..", "@", a bare NameTest/KindTest/wildcard, or an explicit
// "axis::" form.
func (p *Parser) looksLikeAxisStep() bool {
	switch p.cur().Kind {
	case lexer.Dot, lexer.DotDot, lexer.At, lexer.Star:
		return true
	case lexer.NCName:
		if p.peek().Kind == lexer.ColonColon {
			return true
		}
		// Skip past an optional "prefix:local" before checking what
		// follows the full (possibly-qualified) name: peek() alone only
		// sees the colon of a prefixed name, not the token after it,
		// which would otherwise misroute "fn:concat(...)" as a name-test
		// axis step instead of a function call.
		afterName := 1
		if p.peek().Kind == lexer.Colon {
			afterName = 3
		}
		next := p.peekAt(afterName)
		word := p.text(p.cur())
		if isKindTestName(word) && next.Kind == lexer.LParen {
			return true
		}
		// A bare NCName/QName followed by '(' or '#' is a function call or
		// named function reference; "map"/"array" followed by '{' is a
		// constructor. None of these is a child::NameTest abbreviation.
		if next.Kind == lexer.LParen || next.Kind == lexer.Hash {
			return false
		}
		if (word == "map" || word == "array") && next.Kind == lexer.LBrace {
			return false
		}
		return true
	case lexer.BracedURILiteral:
		return true
	default:
		return false
	}
}

var axisKeywords = map[string]Axis{
	"child":              AxisChild,
	"descendant":         AxisDescendant,
	"attribute":          AxisAttribute,
	"self":               AxisSelf,
	"descendant-or-self": AxisDescendantOrSelf,
	"following-sibling":  AxisFollowingSibling,
	"following":          AxisFollowing,
	"namespace":          AxisNamespace,
	"parent":             AxisParent,
	"ancestor":           AxisAncestor,
	"preceding-sibling":  AxisPrecedingSibling,
	"preceding":          AxisPreceding,
	"ancestor-or-self":   AxisAncestorOrSelf,
}

func isKindTestName(s string) bool {
	switch s {
	case "node", "text", "comment", "processing-instruction", "document-node",
		"element", "attribute", "schema-element", "schema-attribute":
		return true
	}
	return false
}

func (p *Parser) parseAxisStep() (Expr, *xperror.Error) {
	start := p.cur().Span

	switch p.cur().Kind {
	case lexer.Dot:
		p.advance()
		return &AxisStep{base: base{p.spanFrom(start)}, Axis: AxisSelf, Test: &KindTest{Kind: KindAny}}, nil
	case lexer.DotDot:
		p.advance()
		return &AxisStep{base: base{p.spanFrom(start)}, Axis: AxisParent, Test: &KindTest{Kind: KindAny}}, nil
	}

	axis := AxisChild
	if p.atKind(lexer.At) {
		p.advance()
		axis = AxisAttribute
	} else if p.cur().Kind == lexer.NCName && p.peek().Kind == lexer.ColonColon {
		word := p.text(p.cur())
		a, ok := axisKeywords[word]
		if !ok {
			return nil, p.errorAt(p.cur().Span, xperror.XPST0003, "unknown axis %q", word)
		}
		axis = a
		p.advance()
		p.advance()
	}

	test, err := p.parseNodeTest(axis)
	if err != nil {
		return nil, err
	}

	var preds []Expr
	for p.atKind(lexer.LBracket) {
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	return &AxisStep{base: base{p.spanFrom(start)}, Axis: axis, Test: test, Predicates: preds}, nil
}

func (p *Parser) parsePredicate() (Expr, *xperror.Error) {
	if _, err := p.expectKind(lexer.LBracket, "'['"); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(lexer.RBracket, "']'"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseNodeTest(axis Axis) (NodeTest, *xperror.Error) {
	defaultNS := p.defaultElementNS
	if axis == AxisAttribute {
		defaultNS = ""
	}

	if p.atKind(lexer.Star) {
		start := p.cur().Span
		p.advance()
		if p.atKind(lexer.Colon) {
			p.advance()
			local, err := p.expectKind(lexer.NCName, "local name after '*:'")
			if err != nil {
				return nil, err
			}
			return &NameTest{base: base{p.spanFrom(start)}, Name: names.Name{Local: p.text(local)}, WildcardURI: true}, nil
		}
		return &NameTest{base: base{p.spanFrom(start)}, WildcardURI: true, WildcardLocal: true}, nil
	}

	if p.cur().Kind == lexer.NCName && isKindTestName(p.text(p.cur())) && p.peek().Kind == lexer.LParen {
		return p.parseKindTest()
	}

	start := p.cur().Span
	if p.cur().Kind == lexer.NCName && p.peek().Kind == lexer.Colon {
		prefixTok := p.cur()
		// "prefix:*" wildcard form.
		savedPos := p.pos
		p.advance()
		p.advance()
		if p.atKind(lexer.Star) {
			p.advance()
			prefix := p.text(prefixTok)
			uri, ok := p.ns.Resolve(prefix)
			if !ok {
				return nil, p.errorAt(prefixTok.Span, xperror.XPST0081, "no namespace bound to prefix %q", prefix)
			}
			return &NameTest{base: base{p.spanFrom(start)}, Name: names.Name{URI: uri, Prefix: prefix}, WildcardLocal: true}, nil
		}
		p.pos = savedPos
	}

	name, err := p.parseEQName(defaultNS)
	if err != nil {
		return nil, err
	}
	return &NameTest{base: base{p.spanFrom(start)}, Name: name}, nil
}

func (p *Parser) parseKindTest() (NodeTest, *xperror.Error) {
	start := p.cur().Span
	word := p.text(p.advance())
	if _, err := p.expectKind(lexer.LParen, "'('"); err != nil {
		return nil, err
	}

	kt := &KindTest{}
	switch word {
	case "node":
		kt.Kind = KindAny
	case "text":
		kt.Kind = KindText
	case "comment":
		kt.Kind = KindComment
	case "namespace-node":
		kt.Kind = KindNamespaceNode
	case "document-node":
		kt.Kind = KindDocument
		if !p.atKind(lexer.RParen) {
			inner, err := p.parseKindTest()
			if err != nil {
				return nil, err
			}
			el := inner.(*KindTest)
			kt.Name = el.Name
			kt.TypeName = el.TypeName
		}
	case "processing-instruction":
		kt.Kind = KindProcessingInstruction
		if p.cur().Kind == lexer.NCName {
			kt.PITarget = p.text(p.advance())
		} else if p.cur().Kind == lexer.StringLiteral {
			kt.PITarget = p.cur().Value
			p.advance()
		}
	case "element":
		kt.Kind = KindElement
		if !p.atKind(lexer.RParen) {
			if p.atKind(lexer.Star) {
				p.advance()
			} else {
				n, err := p.parseEQName(p.defaultElementNS)
				if err != nil {
					return nil, err
				}
				kt.Name = &n
			}
			if p.atKind(lexer.Comma) {
				p.advance()
				tn, err := p.parseEQName("")
				if err != nil {
					return nil, err
				}
				if p.atKind(lexer.Question) {
					p.advance()
				}
				kt.TypeName = &tn
			}
		}
	case "attribute", "schema-attribute", "schema-element":
		kt.Kind = KindAttribute
		if !p.atKind(lexer.RParen) {
			if p.atKind(lexer.Star) {
				p.advance()
			} else {
				n, err := p.parseEQName("")
				if err != nil {
					return nil, err
				}
				kt.Name = &n
			}
			if p.atKind(lexer.Comma) {
				p.advance()
				tn, err := p.parseEQName("")
				if err != nil {
					return nil, err
				}
				kt.TypeName = &tn
			}
		}
	default:
		return nil, p.errorAt(p.cur().Span, xperror.XPST0003, "unknown kind test %q", word)
	}

	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return nil, err
	}
	kt.base = base{p.spanFrom(start)}
	return kt, nil
}

// ---- postfix / primary expressions ----

func (p *Parser) parsePostfixExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	primary, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}

	var suffixes []PostfixSuffix
	for {
		switch {
		case p.atKind(lexer.LBracket):
			sStart := p.cur().Span
			pred, err := p.parsePredicate()
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, &PredicateSuffix{base: base{p.spanFrom(sStart)}, Expr: pred})
		case p.atKind(lexer.LParen):
			sStart := p.cur().Span
			args, err := p.parseArgumentList()
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, &ArgumentListSuffix{base: base{p.spanFrom(sStart)}, Args: args})
		case p.atKind(lexer.Question):
			sStart := p.cur().Span
			lk, err := p.parseLookup()
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, &LookupSuffix{base: base{p.spanFrom(sStart)}, Lookup: lk})
		default:
			if len(suffixes) == 0 {
				return primary, nil
			}
			return &PostfixExpr{base: base{p.spanFrom(start)}, Primary: primary, Suffixes: suffixes}, nil
		}
	}
}

// parseLookup parses a lookup starting at "?" and consumes the "?" itself;
// both the postfix lookup and the unary lookup on the context item call it
// with "?" as the current token.
func (p *Parser) parseLookup() (Lookup, *xperror.Error) {
	start := p.cur().Span
	p.advance() // '?'
	switch p.cur().Kind {
	case lexer.Star:
		p.advance()
		return Lookup{base: base{p.spanFrom(start)}, Wildcard: true}, nil
	case lexer.NCName:
		name := p.text(p.advance())
		return Lookup{base: base{p.spanFrom(start)}, KeyName: name}, nil
	case lexer.IntegerLiteral:
		idx := p.text(p.advance())
		return Lookup{base: base{p.spanFrom(start)}, KeyIndex: &idx}, nil
	case lexer.LParen:
		inner, err := p.parseParenthesized()
		if err != nil {
			return Lookup{}, err
		}
		return Lookup{base: base{p.spanFrom(start)}, Key: inner}, nil
	default:
		return Lookup{}, p.errorAt(p.cur().Span, xperror.XPST0003, "expected key after '?', got %q", p.text(p.cur()))
	}
}

// parseArgumentList parses "(" (ExprSingle | "?") ("," (ExprSingle | "?"))* ")".
// A nil entry marks a "?" placeholder hole for partial function application.
func (p *Parser) parseArgumentList() ([]Expr, *xperror.Error) {
	if _, err := p.expectKind(lexer.LParen, "'('"); err != nil {
		return nil, err
	}
	var args []Expr
	if p.atKind(lexer.RParen) {
		p.advance()
		return args, nil
	}
	for {
		if p.atKind(lexer.Question) && (p.peek().Kind == lexer.RParen || p.peek().Kind == lexer.Comma) {
			p.advance()
			args = append(args, nil)
		} else {
			e, err := p.parseExprSingle()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		if p.atKind(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseParenthesized() (Expr, *xperror.Error) {
	start := p.cur().Span
	if _, err := p.expectKind(lexer.LParen, "'('"); err != nil {
		return nil, err
	}
	if p.atKind(lexer.RParen) {
		p.advance()
		return &ParenExpr{base: base{p.spanFrom(start)}}, nil
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return nil, err
	}
	return &ParenExpr{base: base{p.spanFrom(start)}, Inner: inner}, nil
}

func (p *Parser) parsePrimaryExpr() (Expr, *xperror.Error) {
	start := p.cur().Span
	switch p.cur().Kind {
	case lexer.IntegerLiteral:
		tok := p.advance()
		return &IntegerLit{base: base{p.spanFrom(start)}, Text: p.text(tok)}, nil
	case lexer.DecimalLiteral:
		tok := p.advance()
		return &DecimalLit{base: base{p.spanFrom(start)}, Text: p.text(tok)}, nil
	case lexer.DoubleLiteral:
		tok := p.advance()
		return &DoubleLit{base: base{p.spanFrom(start)}, Text: p.text(tok)}, nil
	case lexer.StringLiteral:
		tok := p.advance()
		return &StringLit{base: base{p.spanFrom(start)}, Value: tok.Value}, nil
	case lexer.Dollar:
		p.advance()
		name, err := p.parseEQName("")
		if err != nil {
			return nil, err
		}
		return &VarRef{base: base{p.spanFrom(start)}, Name: name}, nil
	case lexer.LParen:
		return p.parseParenthesized()
	case lexer.Dot:
		// Reached only when parsePrimaryExpr is called directly (map/array
		// members, argument lists): parseStepExpr routes "." through
		// parseAxisStep as the self::node() abbreviation instead.
		p.advance()
		return &ContextItemExpr{base: base{p.spanFrom(start)}}, nil
	case lexer.LBracket:
		return p.parseSquareArrayConstructor()
	case lexer.Question:
		// unary lookup on the context item: "?key" == ".?key"
		ctx := &ContextItemExpr{base: base{p.spanFrom(start)}}
		lk, err := p.parseLookup()
		if err != nil {
			return nil, err
		}
		return &PostfixExpr{base: base{p.spanFrom(start)}, Primary: ctx, Suffixes: []PostfixSuffix{&LookupSuffix{base: base{p.spanFrom(start)}, Lookup: lk}}}, nil
	}

	if p.cur().Kind == lexer.NCName || p.cur().Kind == lexer.BracedURILiteral {
		return p.parseFunctionOrNameLikePrimary()
	}

	return nil, p.errorAt(p.cur().Span, xperror.XPST0003, "unexpected token %q", p.text(p.cur()))
}

func (p *Parser) parseFunctionOrNameLikePrimary() (Expr, *xperror.Error) {
	start := p.cur().Span

	if p.cur().Kind == lexer.NCName {
		word := p.text(p.cur())
		switch {
		case word == "function" && p.peek().Kind == lexer.LParen:
			return p.parseInlineFunctionExpr(names.Name{})
		case word == "map" && p.peek().Kind == lexer.LBrace:
			return p.parseMapConstructor()
		case word == "array" && p.peek().Kind == lexer.LBrace:
			return p.parseArrayConstructor()
		case reservedFunctionNames[word] && p.peek().Kind == lexer.LParen:
			return nil, p.errorAt(p.cur().Span, xperror.XPST0003, "%q is a reserved name and cannot be called as a function", word)
		}
	}

	name, err := p.parseEQName(p.defaultFunctionNS)
	if err != nil {
		return nil, err
	}

	if p.atKind(lexer.Hash) {
		p.advance()
		arityTok, err := p.expectKind(lexer.IntegerLiteral, "arity after '#'")
		if err != nil {
			return nil, err
		}
		arity := parseSmallInt(p.text(arityTok))
		return &NamedFunctionRef{base: base{p.spanFrom(start)}, Name: name, Arity: arity}, nil
	}

	if p.atKind(lexer.LParen) {
		args, err := p.parseArgumentList()
		if err != nil {
			return nil, err
		}
		return &FunctionCall{base: base{p.spanFrom(start)}, Name: name, Args: args}, nil
	}

	return &AxisStep{base: base{p.spanFrom(start)}, Axis: AxisChild, Test: &NameTest{base: base{p.spanFrom(start)}, Name: name}}, nil
}

func parseSmallInt(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func (p *Parser) parseInlineFunctionExpr(name names.Name) (Expr, *xperror.Error) {
	start := p.cur().Span
	p.advance() // "function"
	if _, err := p.expectKind(lexer.LParen, "'('"); err != nil {
		return nil, err
	}
	var params []Param
	if !p.atKind(lexer.RParen) {
		for {
			if _, err := p.expectKind(lexer.Dollar, "'$'"); err != nil {
				return nil, err
			}
			pn, err := p.parseEQName("")
			if err != nil {
				return nil, err
			}
			param := Param{Name: pn}
			if p.atKind(lexer.NCName) && p.text(p.cur()) == "as" {
				p.advance()
				st, err := p.parseSequenceType()
				if err != nil {
					return nil, err
				}
				param.Type = &st
			}
			params = append(params, param)
			if p.atKind(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return nil, err
	}
	var retType *SequenceType
	if p.atKind(lexer.NCName) && p.text(p.cur()) == "as" {
		p.advance()
		st, err := p.parseSequenceType()
		if err != nil {
			return nil, err
		}
		retType = &st
	}
	if _, err := p.expectKind(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	var body Expr
	if !p.atKind(lexer.RBrace) {
		b, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body = b
	}
	if _, err := p.expectKind(lexer.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &InlineFunctionExpr{base: base{p.spanFrom(start)}, Name: name, Params: params, ReturnType: retType, Body: body}, nil
}

func (p *Parser) parseMapConstructor() (Expr, *xperror.Error) {
	start := p.cur().Span
	p.advance() // "map"
	if _, err := p.expectKind(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	var entries []MapEntry
	if !p.atKind(lexer.RBrace) {
		for {
			key, err := p.parseExprSingle()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectKind(lexer.Colon, "':'"); err != nil {
				return nil, err
			}
			val, err := p.parseExprSingle()
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
			if p.atKind(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectKind(lexer.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &MapConstructor{base: base{p.spanFrom(start)}, Entries: entries}, nil
}

func (p *Parser) parseArrayConstructor() (Expr, *xperror.Error) {
	start := p.cur().Span
	p.advance() // "array"
	if _, err := p.expectKind(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	var members []Expr
	if !p.atKind(lexer.RBrace) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if seq, ok := e.(*SequenceExpr); ok {
			members = seq.Items
		} else {
			members = []Expr{e}
		}
	}
	if _, err := p.expectKind(lexer.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ArrayConstructor{base: base{p.spanFrom(start)}, Square: false, Members: members}, nil
}

func (p *Parser) parseSquareArrayConstructor() (Expr, *xperror.Error) {
	start := p.cur().Span
	p.advance() // "["
	var members []Expr
	if !p.atKind(lexer.RBracket) {
		for {
			e, err := p.parseExprSingle()
			if err != nil {
				return nil, err
			}
			members = append(members, e)
			if p.atKind(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectKind(lexer.RBracket, "']'"); err != nil {
		return nil, err
	}
	return &ArrayConstructor{base: base{p.spanFrom(start)}, Square: true, Members: members}, nil
}

// ---- sequence type sub-grammar ----

// ParseSequenceType is the standalone entry point that parses a
// SequenceType in isolation (spec.md
// §4.4's requirement that the type sub-grammars be independently
// invocable).
func ParseSequenceType(src []byte, ns *names.Namespaces, defaultElementNS, defaultFunctionNS string) (SequenceType, *xperror.Error) {
	p, err := NewParser(src, ns, defaultElementNS, defaultFunctionNS)
	if err != nil {
		return SequenceType{}, err
	}
	return p.parseSequenceType()
}

func (p *Parser) parseSequenceType() (SequenceType, *xperror.Error) {
	if p.atKind(lexer.NCName) && p.text(p.cur()) == "empty-sequence" && p.peek().Kind == lexer.LParen {
		p.advance()
		p.advance()
		if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
			return SequenceType{}, err
		}
		return SequenceType{EmptySequence: true}, nil
	}

	item, err := p.parseItemType()
	if err != nil {
		return SequenceType{}, err
	}
	st := SequenceType{Item: item}
	switch p.cur().Kind {
	case lexer.Question:
		p.advance()
		st.Occurrence = OccurrenceOptional
	case lexer.Star:
		p.advance()
		st.Occurrence = OccurrenceZeroOrMore
	case lexer.Plus:
		p.advance()
		st.Occurrence = OccurrenceOneOrMore
	}
	return st, nil
}

func (p *Parser) parseItemType() (ItemType, *xperror.Error) {
	if p.atKind(lexer.NCName) {
		word := p.text(p.cur())
		if word == "item" && p.peek().Kind == lexer.LParen {
			p.advance()
			p.advance()
			if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
				return ItemType{}, err
			}
			return ItemType{Kind: ItemTypeAny}, nil
		}
		if word == "map" && p.peek().Kind == lexer.LParen {
			return p.parseMapOrArrayItemType(ItemTypeMap)
		}
		if word == "array" && p.peek().Kind == lexer.LParen {
			return p.parseMapOrArrayItemType(ItemTypeArray)
		}
		if word == "function" && p.peek().Kind == lexer.LParen {
			return p.parseFunctionItemType()
		}
		if isKindTestName(word) && p.peek().Kind == lexer.LParen {
			kt, err := p.parseKindTest()
			if err != nil {
				return ItemType{}, err
			}
			return ItemType{Kind: ItemTypeKindTest, KindTest: kt.(*KindTest)}, nil
		}
	}
	name, err := p.parseEQName("")
	if err != nil {
		return ItemType{}, err
	}
	return ItemType{Kind: ItemTypeAtomicOrUnion, Name: name}, nil
}

// parseMapOrArrayItemType consumes "map(*)"/"array(*)" — the full typed
// forms ("map(K, V)", "array(T)") are accepted syntactically but their
// key/member types are not retained, matching what the rest of the
// pipeline (a runtime-checked dynamic type system) actually consults.
func (p *Parser) parseMapOrArrayItemType(kind ItemTypeKind) (ItemType, *xperror.Error) {
	p.advance() // "map"/"array"
	p.advance() // "("
	for !p.atKind(lexer.RParen) && !p.atKind(lexer.EOF) {
		p.advance()
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return ItemType{}, err
	}
	return ItemType{Kind: kind}, nil
}

func (p *Parser) parseFunctionItemType() (ItemType, *xperror.Error) {
	p.advance() // "function"
	p.advance() // "("
	if p.atKind(lexer.Star) {
		p.advance()
		if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
			return ItemType{}, err
		}
		return ItemType{Kind: ItemTypeFunction, FuncAny: true}, nil
	}
	sig := Signature{}
	if !p.atKind(lexer.RParen) {
		for {
			st, err := p.parseSequenceType()
			if err != nil {
				return ItemType{}, err
			}
			sig.Params = append(sig.Params, Param{Type: &st})
			if p.atKind(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return ItemType{}, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return ItemType{}, err
	}
	rt, err := p.parseSequenceType()
	if err != nil {
		return ItemType{}, err
	}
	sig.ReturnType = rt
	return ItemType{Kind: ItemTypeFunction, FuncSig: &sig}, nil
}

func (p *Parser) parseSingleType() (SingleType, *xperror.Error) {
	name, err := p.parseEQName("")
	if err != nil {
		return SingleType{}, err
	}
	st := SingleType{Name: name}
	if p.atKind(lexer.Question) {
		p.advance()
		st.Optional = true
	}
	return st, nil
}

// ParseName is the standalone EQName entry point.
func ParseName(src []byte, ns *names.Namespaces, defaultNS string) (names.Name, *xperror.Error) {
	p, err := NewParser(src, ns, "", defaultNS)
	if err != nil {
		return names.Name{}, err
	}
	return p.parseEQName(defaultNS)
}

// ParseSignature is the standalone function-signature entry point
// internal/funclib uses to declare built-ins from a signature string like
// "substring($s as xs:string?, $start as xs:double) as xs:string?".
func ParseSignature(src []byte, ns *names.Namespaces, defaultFunctionNS string) (Signature, *xperror.Error) {
	p, err := NewParser(src, ns, "", defaultFunctionNS)
	if err != nil {
		return Signature{}, err
	}
	name, err := p.parseEQName(defaultFunctionNS)
	if err != nil {
		return Signature{}, err
	}
	if _, err := p.expectKind(lexer.LParen, "'('"); err != nil {
		return Signature{}, err
	}
	sig := Signature{Name: name}
	if !p.atKind(lexer.RParen) {
		for {
			if _, err := p.expectKind(lexer.Dollar, "'$'"); err != nil {
				return Signature{}, err
			}
			pn, err := p.parseEQName("")
			if err != nil {
				return Signature{}, err
			}
			param := Param{Name: pn}
			if err := p.expectKeyword("as"); err != nil {
				return Signature{}, err
			}
			st, err := p.parseSequenceType()
			if err != nil {
				return Signature{}, err
			}
			param.Type = &st
			sig.Params = append(sig.Params, param)
			if p.atKind(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return Signature{}, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return Signature{}, err
	}
	rt, err := p.parseSequenceType()
	if err != nil {
		return Signature{}, err
	}
	sig.ReturnType = rt
	return sig, nil
}

// ParseKindTest is the standalone entry point that parses a node test in
// isolation; no package in this repository calls it.
func ParseKindTest(src []byte, ns *names.Namespaces, defaultElementNS string) (NodeTest, *xperror.Error) {
	p, err := NewParser(src, ns, defaultElementNS, "")
	if err != nil {
		return nil, err
	}
	return p.parseNodeTest(AxisChild)
}
