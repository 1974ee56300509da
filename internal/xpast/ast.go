// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpast

import "github.com/mdhenderson/xpath/internal/names"

// Span is a byte-offset source range; shares its shape with lexer.Span and
// xperror.Span so no conversion layer is needed when building errors.
type Span struct {
	Start, End int
	Line, Col  int
}

// Node is implemented by every AST node.
type Node interface {
	Span() Span
}

// Expr is any expression node (spec.md §4.4: "a single ... recursive
// descent produces the AST with span information").
type Expr interface {
	Node
	exprNode()
}

type base struct{ span Span }

func (b base) Span() Span { return b.span }

// ---- Literals ----

type IntegerLit struct {
	base
	Text string
}

type DecimalLit struct {
	base
	Text string
}

type DoubleLit struct {
	base
	Text string
}

type StringLit struct {
	base
	Value string
}

func (*IntegerLit) exprNode() {}
func (*DecimalLit) exprNode() {}
func (*DoubleLit) exprNode()  {}
func (*StringLit) exprNode()  {}

// ---- Variables, context item ----

type VarRef struct {
	base
	Name       names.Name
	Unique     string // assigned by the uniquification pass; "" until then
}

type ContextItemExpr struct{ base }

func (*VarRef) exprNode()          {}
func (*ContextItemExpr) exprNode() {}

// ---- Sequence, grouping ----

// SequenceExpr is the top-level comma operator: `e1, e2, e3`. A single
// expression with no commas parses directly to that expression (no
// wrapper), matching the grammar's "Expr := ExprSingle (',' ExprSingle)*"
// with the singleton-collapse every caller expects.
type SequenceExpr struct {
	base
	Items []Expr
}

// ParenExpr is `()` (empty sequence) or `( Expr )`; Inner is nil for `()`.
type ParenExpr struct {
	base
	Inner Expr
}

func (*SequenceExpr) exprNode() {}
func (*ParenExpr) exprNode()    {}

// ---- Control flow ----

type ForBinding struct {
	VarName     names.Name
	VarUnique   string
	PositionalVar     *names.Name
	PositionalUnique  string
	Seq         Expr
}

type ForExpr struct {
	base
	Bindings []ForBinding
	Return   Expr
}

type LetBinding struct {
	VarName   names.Name
	VarUnique string
	Value     Expr
}

type LetExpr struct {
	base
	Bindings []LetBinding
	Return   Expr
}

type QuantKind int

const (
	QuantSome QuantKind = iota
	QuantEvery
)

type QuantifiedExpr struct {
	base
	Kind       QuantKind
	Bindings   []ForBinding
	Satisfies  Expr
}

type IfExpr struct {
	base
	Cond, Then, Else Expr
}

func (*ForExpr) exprNode()        {}
func (*LetExpr) exprNode()        {}
func (*QuantifiedExpr) exprNode() {}
func (*IfExpr) exprNode()         {}

// ---- Binary / unary operators ----

// BinaryOp names every infix operator below the control-flow level: spec
// grammar precedence (low to high) is or, and, comparison, string
// concatenation, range, additive, multiplicative, union, intersect/except.
type BinaryOp int

const (
	OpOr BinaryOp = iota
	OpAnd

	OpGeneralEq
	OpGeneralNe
	OpGeneralLt
	OpGeneralLe
	OpGeneralGt
	OpGeneralGe
	OpValueEq
	OpValueNe
	OpValueLt
	OpValueLe
	OpValueGt
	OpValueGe
	OpNodeIs
	OpNodePrecedes // "<<"
	OpNodeFollows  // ">>"

	OpConcat // "||"

	OpRange // "to"

	OpAdd
	OpSub

	OpMul
	OpDiv
	OpIDiv
	OpMod

	OpUnion
	OpIntersect
	OpExcept
)

type BinaryExpr struct {
	base
	Op          BinaryOp
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryExpr struct {
	base
	Negative bool // true for '-', false for redundant unary '+'
	Operand  Expr
}

func (*UnaryExpr) exprNode() {}

// ---- Type-related expressions ----

type InstanceOfExpr struct {
	base
	Operand Expr
	Type    SequenceType
}

type TreatExpr struct {
	base
	Operand Expr
	Type    SequenceType
}

type CastableExpr struct {
	base
	Operand Expr
	Type    SingleType
}

type CastExpr struct {
	base
	Operand Expr
	Type    SingleType
}

func (*InstanceOfExpr) exprNode() {}
func (*TreatExpr) exprNode()      {}
func (*CastableExpr) exprNode()   {}
func (*CastExpr) exprNode()       {}

// ---- Arrow, simple map ----

// ArrowTarget is a static function name, a variable holding a function
// item, or a parenthesized expression evaluating to one.
type ArrowTarget struct {
	StaticName names.Name // IsZero() when DynamicExpr is set
	DynamicExpr Expr
}

type ArrowExpr struct {
	base
	Operand Expr
	Target  ArrowTarget
	Args    []Expr
}

func (*ArrowExpr) exprNode() {}

// SimpleMapExpr is `e1 ! e2 ! e3`.
type SimpleMapExpr struct {
	base
	Steps []Expr
}

func (*SimpleMapExpr) exprNode() {}

// ---- Path expressions ----

type PathLeading int

const (
	PathRelative      PathLeading = iota
	PathRootOnly                  // a leading "/" (also a bare "/")
	PathRootDescendant             // "//" prefix before the first relative step
)

// PathExpr is a '/'-delimited path: for "//" between steps, the
// implicit "descendant-or-self::node()" step is the AST representation
// ("//a" becomes PathRootDescendant with steps=[a]" rather than
// synthesizing an extra step — Separators records which separator,
// '/' or '//', preceded each step after the first).
type PathExpr struct {
	base
	Leading    PathLeading
	Steps      []Expr
	Separators []PathSep // len(Separators) == len(Steps)-1
}

type PathSep int

const (
	SepSingle PathSep = iota
	SepDouble
)

func (*PathExpr) exprNode() {}

// Axis names a forward or reverse XPath axis.
type Axis int

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisAttribute
	AxisSelf
	AxisDescendantOrSelf
	AxisFollowingSibling
	AxisFollowing
	AxisNamespace
	AxisParent
	AxisAncestor
	AxisPrecedingSibling
	AxisPreceding
	AxisAncestorOrSelf
)

func (a Axis) String() string {
	switch a {
	case AxisChild:
		return "child"
	case AxisDescendant:
		return "descendant"
	case AxisAttribute:
		return "attribute"
	case AxisSelf:
		return "self"
	case AxisDescendantOrSelf:
		return "descendant-or-self"
	case AxisFollowingSibling:
		return "following-sibling"
	case AxisFollowing:
		return "following"
	case AxisNamespace:
		return "namespace"
	case AxisParent:
		return "parent"
	case AxisAncestor:
		return "ancestor"
	case AxisPrecedingSibling:
		return "preceding-sibling"
	case AxisPreceding:
		return "preceding"
	case AxisAncestorOrSelf:
		return "ancestor-or-self"
	default:
		return "unknown-axis"
	}
}

// NodeTest is either a NameTest or a KindTest (spec grammar's NodeTest).
type NodeTest interface {
	Node
	nodeTestNode()
}

// NameTest matches by expanded name with XPath's two wildcard forms:
// WildcardURI means "*:local" (any namespace, this local name);
// WildcardLocal means "prefix:*" (this namespace, any local name); both
// true means the bare "*" wildcard.
type NameTest struct {
	base
	Name          names.Name
	WildcardURI   bool
	WildcardLocal bool
}

func (*NameTest) nodeTestNode() {}

type KindTestKind int

const (
	KindAny KindTestKind = iota
	KindDocument
	KindElement
	KindAttribute
	KindText
	KindComment
	KindProcessingInstruction
	KindNamespaceNode
)

// KindTest is a `node()`/`element(name?, type?)`/... kind test. Name is
// set only for `element(Name)`/`attribute(Name)`; TypeName only when a
// schema type annotation follows, and PITarget only for
// `processing-instruction(target)`.
type KindTest struct {
	base
	Kind     KindTestKind
	Name     *names.Name
	TypeName *names.Name
	PITarget string
}

func (*KindTest) nodeTestNode() {}

// AxisStep is a full forward/reverse-axis step: `axis::NodeTest` or one
// of its abbreviations (`.`, `..`, `@x`, a bare NameTest meaning
// `child::NameTest`).
type AxisStep struct {
	base
	Axis       Axis
	Test       NodeTest
	Predicates []Expr
}

func (*AxisStep) exprNode() {}

// ---- Postfix expressions ----

// Lookup is `?key`, `?1`, or `?*` applied to a map/array (unary or
// postfix form); NCName/IntegerLiteral lookups carry Key=nil and use
// KeyName/KeyIndex instead, a parenthesized-expression lookup sets Key.
type Lookup struct {
	base
	Wildcard bool
	KeyName  string
	KeyIndex *string // decimal text of an IntegerLiteral key, if present
	Key      Expr    // "?(expr)" form
}

// PostfixExpr wraps a primary expression with zero or more predicates,
// argument lists, and lookups, applied left to right in source order.
type PostfixExpr struct {
	base
	Primary  Expr
	Suffixes []PostfixSuffix
}

func (*PostfixExpr) exprNode() {}

type PostfixSuffix interface {
	Node
	postfixSuffixNode()
}

type PredicateSuffix struct {
	base
	Expr Expr
}

type ArgumentListSuffix struct {
	base
	Args []Expr // a nil entry at position i marks "?" (a hole, for partial application)
}

type LookupSuffix struct {
	base
	Lookup Lookup
}

func (*PredicateSuffix) postfixSuffixNode()   {}
func (*ArgumentListSuffix) postfixSuffixNode() {}
func (*LookupSuffix) postfixSuffixNode()       {}

// ---- Function-related primaries ----

type FunctionCall struct {
	base
	Name names.Name
	Args []Expr // a nil entry marks "?" (a hole, for partial application)
}

type NamedFunctionRef struct {
	base
	Name  names.Name
	Arity int
}

type Param struct {
	Name   names.Name
	Type   *SequenceType
	Unique string // assigned by the uniquification pass; "" until then
}

type InlineFunctionExpr struct {
	base
	Name       names.Name // zero Name for an anonymous function literal
	Params     []Param
	ReturnType *SequenceType
	Body       Expr
}

func (*FunctionCall) exprNode()       {}
func (*NamedFunctionRef) exprNode()   {}
func (*InlineFunctionExpr) exprNode() {}

// ---- Map / array constructors ----

type MapEntry struct {
	Key, Value Expr
}

type MapConstructor struct {
	base
	Entries []MapEntry
}

type ArrayConstructor struct {
	base
	Square  bool // true for "[ ... ]", false for "array { ... }"
	Members []Expr
}

func (*MapConstructor) exprNode()   {}
func (*ArrayConstructor) exprNode() {}

// ---- Sequence types ----

type OccurrenceIndicator byte

const (
	OccurrenceExactlyOne OccurrenceIndicator = 0
	OccurrenceOptional   OccurrenceIndicator = '?'
	OccurrenceZeroOrMore OccurrenceIndicator = '*'
	OccurrenceOneOrMore  OccurrenceIndicator = '+'
)

// ItemTypeKind tags which ItemType variant is populated.
type ItemTypeKind int

const (
	ItemTypeAny ItemTypeKind = iota
	ItemTypeKindTest
	ItemTypeAtomicOrUnion
	ItemTypeFunction
	ItemTypeMap
	ItemTypeArray
)

// ItemType is the grammar's ItemType production; only the subset the
// engine needs to express (KindTest, an atomic/union schema type by
// name, `function(*)`/a typed function test, `map(*)`, `array(*)`) is
// modeled, matching what SequenceType actually needs to carry through
// the rest of the pipeline.
type ItemType struct {
	Kind     ItemTypeKind
	KindTest *KindTest
	Name     names.Name // ItemTypeAtomicOrUnion
	FuncAny  bool        // function(*) rather than a fully-typed function test
	FuncSig  *Signature  // set when FuncAny is false
}

// SequenceType is the grammar's SequenceType: `empty-sequence()` (marked
// by EmptySequence), or an ItemType plus an optional occurrence
// indicator.
type SequenceType struct {
	EmptySequence bool
	Item          ItemType
	Occurrence    OccurrenceIndicator
}

// SingleType is `AtomicOrUnionType '?'?`, used by `cast`/`castable`.
type SingleType struct {
	Name     names.Name
	Optional bool
}

// Signature is the function-signature sub-grammar spec.md §4.4 calls out
// ("`fn:substring($s as xs:string?, $start as xs:double) as xs:string?`"),
// used by internal/funclib to declare built-ins.
type Signature struct {
	Name       names.Name
	Params     []Param
	ReturnType SequenceType
}
