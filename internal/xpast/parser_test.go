// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpast

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xperror"
)

func defaultNS() *names.Namespaces {
	ns := names.NewNamespaces()
	return ns.Bind("fn", names.FN).Bind("math", names.MATH)
}

func mustParse(t *testing.T, src string) Expr {
	t.Helper()
	e, err := ParseExpr([]byte(src), defaultNS(), "", names.FN)
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", src, err)
	}
	return e
}

func mustFailParse(t *testing.T, src string, code xperror.Code) {
	t.Helper()
	_, err := ParseExpr([]byte(src), defaultNS(), "", names.FN)
	if err == nil {
		t.Fatalf("ParseExpr(%q): expected error %s, got none", src, code)
	}
	if err.Code != code {
		t.Fatalf("ParseExpr(%q): expected code %s, got %s (%v)", src, code, err.Code, err)
	}
}

func TestParsePrecedenceChain(t *testing.T) {
	e := mustParse(t, "1 + 2 * 3")
	add, ok := e.(*BinaryExpr)
	if !ok || add.Op != OpAdd {
		t.Fatalf("expected top-level Add, got %#v", e)
	}
	if _, ok := add.Left.(*IntegerLit); !ok {
		t.Fatalf("expected left operand IntegerLit, got %#v", add.Left)
	}
	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Op != OpMul {
		t.Fatalf("expected right operand Mul, got %#v", add.Right)
	}
}

func TestParseOrAndComparison(t *testing.T) {
	e := mustParse(t, "$a = 1 and $b eq 2 or $c is $d")
	or, ok := e.(*BinaryExpr)
	if !ok || or.Op != OpOr {
		t.Fatalf("expected top-level Or, got %#v", e)
	}
	and, ok := or.Left.(*BinaryExpr)
	if !ok || and.Op != OpAnd {
		t.Fatalf("expected left Or operand to be And, got %#v", or.Left)
	}
	geq, ok := and.Left.(*BinaryExpr)
	if !ok || geq.Op != OpGeneralEq {
		t.Fatalf("expected general-eq, got %#v", and.Left)
	}
	veq, ok := and.Right.(*BinaryExpr)
	if !ok || veq.Op != OpValueEq {
		t.Fatalf("expected value-eq, got %#v", and.Right)
	}
	isExpr, ok := or.Right.(*BinaryExpr)
	if !ok || isExpr.Op != OpNodeIs {
		t.Fatalf("expected node-is, got %#v", or.Right)
	}
}

func TestParseCastBelowArithmetic(t *testing.T) {
	// "cast as" binds tighter than "+": ($x cast as xs:integer) + 1
	e := mustParse(t, "$x cast as xs:integer + 1")
	add, ok := e.(*BinaryExpr)
	if !ok || add.Op != OpAdd {
		t.Fatalf("expected top-level Add (cast binds tighter), got %#v", e)
	}
	cast, ok := add.Left.(*CastExpr)
	if !ok {
		t.Fatalf("expected left operand CastExpr, got %#v", add.Left)
	}
	if cast.Type.Name.Local != "integer" {
		t.Fatalf("expected cast target xs:integer, got %v", cast.Type.Name)
	}
}

func TestParseForLetQuantified(t *testing.T) {
	e := mustParse(t, "for $x in (1, 2) return $x")
	fe, ok := e.(*ForExpr)
	if !ok {
		t.Fatalf("expected ForExpr, got %#v", e)
	}
	if len(fe.Bindings) != 1 || fe.Bindings[0].VarName.Local != "x" {
		t.Fatalf("unexpected bindings: %#v", fe.Bindings)
	}

	e2 := mustParse(t, "let $x := 1, $y := 2 return $x + $y")
	le, ok := e2.(*LetExpr)
	if !ok || len(le.Bindings) != 2 {
		t.Fatalf("expected LetExpr with 2 bindings, got %#v", e2)
	}

	e3 := mustParse(t, "some $x in (1, 2) satisfies $x eq 1")
	qe, ok := e3.(*QuantifiedExpr)
	if !ok || qe.Kind != QuantSome {
		t.Fatalf("expected QuantifiedExpr(some), got %#v", e3)
	}
}

func TestParseIfExpr(t *testing.T) {
	e := mustParse(t, "if (1 eq 1) then 'yes' else 'no'")
	ie, ok := e.(*IfExpr)
	if !ok {
		t.Fatalf("expected IfExpr, got %#v", e)
	}
	if _, ok := ie.Then.(*StringLit); !ok {
		t.Fatalf("expected Then to be StringLit, got %#v", ie.Then)
	}
}

func TestParseIfAsFunctionCallIsReservedError(t *testing.T) {
	// "if" followed by "(" always dispatches to the if-then-else special
	// form (the grammar reserves it unconditionally), so "if(1)" fails
	// with a syntax error expecting "then" rather than being treated as a
	// one-argument function call.
	mustFailParse(t, "node()[if(1)]", xperror.XPST0003)
}

func TestParseReservedWordAsFunctionNameErrors(t *testing.T) {
	mustFailParse(t, "map(1)", xperror.XPST0003)
	mustFailParse(t, "node(1)", xperror.XPST0003)
}

func TestParsePathExpr(t *testing.T) {
	e := mustParse(t, "/a/b")
	pe, ok := e.(*PathExpr)
	if !ok || pe.Leading != PathRootOnly {
		t.Fatalf("expected rooted PathExpr, got %#v", e)
	}
	if len(pe.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(pe.Steps))
	}

	e2 := mustParse(t, "//a")
	pe2, ok := e2.(*PathExpr)
	if !ok || pe2.Leading != PathRootDescendant {
		t.Fatalf("expected descendant-rooted PathExpr, got %#v", e2)
	}

	e3 := mustParse(t, "/")
	pe3, ok := e3.(*PathExpr)
	if !ok || pe3.Leading != PathRootOnly || len(pe3.Steps) != 0 {
		t.Fatalf("expected bare root PathExpr, got %#v", e3)
	}
}

func TestParseAxisStepsAndAbbreviations(t *testing.T) {
	e := mustParse(t, "child::a/parent::node()/.")
	pe, ok := e.(*PathExpr)
	if !ok || len(pe.Steps) != 3 {
		t.Fatalf("expected 3-step PathExpr, got %#v", e)
	}
	s0 := pe.Steps[0].(*AxisStep)
	if s0.Axis != AxisChild {
		t.Fatalf("expected child axis, got %v", s0.Axis)
	}
	s1 := pe.Steps[1].(*AxisStep)
	if s1.Axis != AxisParent {
		t.Fatalf("expected parent axis, got %v", s1.Axis)
	}
	s2 := pe.Steps[2].(*AxisStep)
	if s2.Axis != AxisSelf {
		t.Fatalf("expected self axis for '.', got %v", s2.Axis)
	}
}

func TestParseAttributeAxisAbbreviation(t *testing.T) {
	e := mustParse(t, "@foo")
	step, ok := e.(*AxisStep)
	if !ok || step.Axis != AxisAttribute {
		t.Fatalf("expected attribute axis, got %#v", e)
	}
	nt := step.Test.(*NameTest)
	if nt.Name.Local != "foo" || nt.Name.URI != "" {
		t.Fatalf("expected unprefixed attribute name foo with no default ns, got %#v", nt.Name)
	}
}

func TestParsePredicates(t *testing.T) {
	e := mustParse(t, "a[1][@id = 'x']")
	step := e.(*AxisStep)
	if len(step.Predicates) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(step.Predicates))
	}
}

func TestParseKindTests(t *testing.T) {
	e := mustParse(t, "element(foo)/text()")
	pe := e.(*PathExpr)
	s0 := pe.Steps[0].(*AxisStep)
	kt := s0.Test.(*KindTest)
	if kt.Kind != KindElement || kt.Name == nil || kt.Name.Local != "foo" {
		t.Fatalf("unexpected element() kind test: %#v", kt)
	}
	s1 := pe.Steps[1].(*AxisStep)
	kt1 := s1.Test.(*KindTest)
	if kt1.Kind != KindText {
		t.Fatalf("expected text() kind test, got %#v", kt1)
	}
}

func TestParseWildcardNameTests(t *testing.T) {
	e := mustParse(t, "*")
	step := e.(*AxisStep)
	nt := step.Test.(*NameTest)
	if !nt.WildcardURI || !nt.WildcardLocal {
		t.Fatalf("expected full wildcard, got %#v", nt)
	}

	e2 := mustParse(t, "*:local")
	step2 := e2.(*AxisStep)
	nt2 := step2.Test.(*NameTest)
	if !nt2.WildcardURI || nt2.WildcardLocal || nt2.Name.Local != "local" {
		t.Fatalf("expected *:local wildcard, got %#v", nt2)
	}

	e3 := mustParse(t, "fn:*")
	step3 := e3.(*AxisStep)
	nt3 := step3.Test.(*NameTest)
	if !nt3.WildcardLocal || nt3.WildcardURI || nt3.Name.URI != names.FN {
		t.Fatalf("expected fn:* wildcard, got %#v", nt3)
	}
}

func TestParseFunctionCallAndNamedFunctionRef(t *testing.T) {
	e := mustParse(t, "fn:concat('a', 'b')")
	fc, ok := e.(*FunctionCall)
	if !ok || fc.Name.Local != "concat" || len(fc.Args) != 2 {
		t.Fatalf("unexpected function call: %#v", e)
	}

	e2 := mustParse(t, "fn:abs#1")
	nf, ok := e2.(*NamedFunctionRef)
	if !ok || nf.Name.Local != "abs" || nf.Arity != 1 {
		t.Fatalf("unexpected named function ref: %#v", e2)
	}
}

func TestParsePartialApplicationHole(t *testing.T) {
	e := mustParse(t, "fn:concat('a', ?)")
	fc := e.(*FunctionCall)
	if len(fc.Args) != 2 || fc.Args[0] == nil || fc.Args[1] != nil {
		t.Fatalf("expected second arg to be a '?' hole, got %#v", fc.Args)
	}
}

func TestParseSimpleMapExpr(t *testing.T) {
	e := mustParse(t, "(1, 2)!(. + 1)")
	sm, ok := e.(*SimpleMapExpr)
	if !ok || len(sm.Steps) != 2 {
		t.Fatalf("expected 2-step SimpleMapExpr, got %#v", e)
	}
}

func TestParseArrowExpr(t *testing.T) {
	e := mustParse(t, "'a' => fn:upper-case()")
	ae, ok := e.(*ArrowExpr)
	if !ok || ae.Target.StaticName.Local != "upper-case" {
		t.Fatalf("unexpected arrow expr: %#v", e)
	}
}

func TestParseMapAndArrayConstructors(t *testing.T) {
	e := mustParse(t, `map { "a": 1, "b": 2 }`)
	mc, ok := e.(*MapConstructor)
	if !ok || len(mc.Entries) != 2 {
		t.Fatalf("unexpected map constructor: %#v", e)
	}

	e2 := mustParse(t, "[1, 2, 3]")
	ac, ok := e2.(*ArrayConstructor)
	if !ok || !ac.Square || len(ac.Members) != 3 {
		t.Fatalf("unexpected square array constructor: %#v", e2)
	}

	e3 := mustParse(t, "array { 1, 2, 3 }")
	ac2, ok := e3.(*ArrayConstructor)
	if !ok || ac2.Square || len(ac2.Members) != 3 {
		t.Fatalf("unexpected curly array constructor: %#v", e3)
	}
}

func TestParseLookupOperator(t *testing.T) {
	e := mustParse(t, "$m?key")
	pf, ok := e.(*PostfixExpr)
	if !ok {
		t.Fatalf("expected PostfixExpr, got %#v", e)
	}
	lk := pf.Suffixes[0].(*LookupSuffix)
	if lk.Lookup.KeyName != "key" {
		t.Fatalf("unexpected lookup: %#v", lk.Lookup)
	}
}

func TestParseInlineFunctionExpr(t *testing.T) {
	e := mustParse(t, "function($x as xs:integer) as xs:integer { $x + 1 }")
	fe, ok := e.(*InlineFunctionExpr)
	if !ok {
		t.Fatalf("expected InlineFunctionExpr, got %#v", e)
	}
	if len(fe.Params) != 1 || fe.Params[0].Name.Local != "x" {
		t.Fatalf("unexpected params: %#v", fe.Params)
	}
	if fe.ReturnType == nil || fe.ReturnType.Item.Name.Local != "integer" {
		t.Fatalf("unexpected return type: %#v", fe.ReturnType)
	}
}

func TestParseSequenceTypeOccurrences(t *testing.T) {
	st, err := ParseSequenceType([]byte("xs:integer*"), defaultNS(), "", names.FN)
	if err != nil {
		t.Fatalf("ParseSequenceType: %v", err)
	}
	if st.Occurrence != OccurrenceZeroOrMore || st.Item.Name.Local != "integer" {
		t.Fatalf("unexpected sequence type: %#v", st)
	}

	st2, err := ParseSequenceType([]byte("empty-sequence()"), defaultNS(), "", names.FN)
	if err != nil {
		t.Fatalf("ParseSequenceType: %v", err)
	}
	if !st2.EmptySequence {
		t.Fatalf("expected EmptySequence, got %#v", st2)
	}
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature([]byte("substring($s as xs:string?, $start as xs:double) as xs:string?"), defaultNS(), names.FN)
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if sig.Name.Local != "substring" || len(sig.Params) != 2 {
		t.Fatalf("unexpected signature: %#v", sig)
	}
	if sig.Params[0].Name.Local != "s" || sig.Params[0].Type.Occurrence != OccurrenceOptional {
		t.Fatalf("unexpected param 0: %#v", sig.Params[0])
	}
	if sig.ReturnType.Occurrence != OccurrenceOptional {
		t.Fatalf("unexpected return type: %#v", sig.ReturnType)
	}
}

func TestParseUnresolvedPrefixErrors(t *testing.T) {
	mustFailParse(t, "bogus:name", xperror.XPST0081)
}

func TestUniquifyAssignsDistinctNamesAndLeavesExternalVarsAlone(t *testing.T) {
	e := mustParse(t, "let $x := 1 return for $x in (1, 2) return $x + $outer")
	Uniquify(e)

	let := e.(*LetExpr)
	outerUnique := let.Bindings[0].VarUnique
	if outerUnique == "" {
		t.Fatalf("expected let-bound $x to get a Unique name")
	}

	forExpr := let.Return.(*ForExpr)
	innerUnique := forExpr.Bindings[0].VarUnique
	if innerUnique == "" || innerUnique == outerUnique {
		t.Fatalf("expected for-bound $x to get a distinct Unique name from the outer let, got %q vs %q", innerUnique, outerUnique)
	}

	add := forExpr.Return.(*BinaryExpr)
	innerRef := add.Left.(*VarRef)
	if innerRef.Unique != innerUnique {
		t.Fatalf("expected inner $x reference to resolve to the for-binding, got %q want %q", innerRef.Unique, innerUnique)
	}

	outerRef := add.Right.(*VarRef)
	if outerRef.Unique != "" {
		t.Fatalf("expected unbound $outer to be left with Unique==\"\", got %q", outerRef.Unique)
	}
}

func TestParseLeadingLoneSlashAmbiguity(t *testing.T) {
	// A bare "/" followed by something that can't start a relative step
	// (end of input) is root-only; one followed by a name is rooted with
	// steps. Both must be distinguishable PathExpr shapes.
	bare := mustParse(t, "/")
	if pe, ok := bare.(*PathExpr); !ok || len(pe.Steps) != 0 {
		t.Fatalf("expected bare root, got %#v", bare)
	}
	rooted := mustParse(t, "/a")
	if pe, ok := rooted.(*PathExpr); !ok || len(pe.Steps) != 1 {
		t.Fatalf("expected rooted path with one step, got %#v", rooted)
	}
}

func TestParseRangeAndConcatAndUnion(t *testing.T) {
	e := mustParse(t, "1 to 3")
	be := e.(*BinaryExpr)
	if be.Op != OpRange {
		t.Fatalf("expected range, got %#v", e)
	}

	e2 := mustParse(t, "'a' || 'b'")
	be2 := e2.(*BinaryExpr)
	if be2.Op != OpConcat {
		t.Fatalf("expected concat, got %#v", e2)
	}

	e3 := mustParse(t, "a union b")
	be3 := e3.(*BinaryExpr)
	if be3.Op != OpUnion {
		t.Fatalf("expected union, got %#v", e3)
	}
}

func TestParseFullExpressionDeepEqualSmoke(t *testing.T) {
	got := mustParse(t, "1 + 1")
	want := &BinaryExpr{
		Op:    OpAdd,
		Left:  &IntegerLit{Text: "1"},
		Right: &IntegerLit{Text: "1"},
	}
	// go-test/deep skips unexported fields by default, so the embedded
	// (unexported) base/Span bookkeeping is ignored and this compares
	// structure and values only.
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatalf("unexpected AST shape: %v", diff)
	}
}
