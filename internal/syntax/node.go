// Package syntax defines the tree the reordering core operates on.
//
// Only the node kinds the dependency walk inspects get their own variant; every other
// construct is an Other node that keeps its named children so nested declarations stay
// reachable. Nodes are never mutated after construction.
package syntax

// Span is a half-open byte range [Start, End) into the file the node was parsed from.
type Span struct {
	Start int
	End   int
}

// Bounds returns the span itself. Embedding Span gives every node its Bounds method.
func (s Span) Bounds() Span { return s }

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// Node is the closed union of syntax variants.
type Node interface {
	Bounds() Span
	isNode()
}

// MethodKind distinguishes plain methods from accessors.
type MethodKind string

const (
	MethodPlain  MethodKind = "method"
	MethodGetter MethodKind = "get"
	MethodSetter MethodKind = "set"
)

// SignatureKind is the shape of an interface or type-literal member.
type SignatureKind string

const (
	SigProperty  SignatureKind = "property"
	SigMethod    SignatureKind = "method"
	SigIndex     SignatureKind = "index"
	SigCall      SignatureKind = "call"
	SigConstruct SignatureKind = "construct"
)

// LiteralKind is the value type of a Literal.
type LiteralKind string

const (
	LitString   LiteralKind = "string"
	LitNumber   LiteralKind = "number"
	LitBoolean  LiteralKind = "boolean"
	LitTemplate LiteralKind = "template" // template string without substitutions
	LitOther    LiteralKind = "other"
)

// AssertionKind is the flavour of a type-level wrapper around an expression.
type AssertionKind string

const (
	AssertAs        AssertionKind = "as"
	AssertSatisfies AssertionKind = "satisfies"
	AssertAngle     AssertionKind = "angle"
	AssertNonNull   AssertionKind = "non-null"
)

type (
	// ClassBody is the member list of a class declaration or expression.
	ClassBody struct {
		Span
		Members []Node
	}

	// InterfaceBody is the member list of an interface declaration.
	InterfaceBody struct {
		Span
		Members []Node
	}

	// TypeLiteral is a structural object type such as `{ a: string; b(): void }`.
	TypeLiteral struct {
		Span
		Members []Node
	}

	// ObjectLiteral is `{ ... }` in expression position.
	ObjectLiteral struct {
		Span
		Members []Node
	}

	// Field is a class field. Value is nil when the field has no initializer.
	Field struct {
		Span
		Key      Node
		Computed bool
		Static   bool
		Value    Node
		Extra    []Node // decorators, modifiers, type annotation
	}

	// Method is a class or object method, getter or setter.
	Method struct {
		Span
		Key      Node
		Computed bool
		Static   bool
		Kind     MethodKind
		Body     Node
		Extra    []Node // decorators, parameters, return type
	}

	// Property is an object-literal property. Shorthand properties have no Value.
	Property struct {
		Span
		Key       Node
		Computed  bool
		Shorthand bool
		Value     Node
	}

	// Signature is an interface or type-literal member.
	Signature struct {
		Span
		Kind     SignatureKind
		Key      Node
		Computed bool
		Extra    []Node
	}

	// Identifier is a plain name.
	Identifier struct {
		Span
		Name string
	}

	// PrivateName wraps the identifier of a `#name` member; ID.Name keeps the `#`.
	PrivateName struct {
		Span
		ID *Identifier
	}

	// Literal is a literal key or value. Value holds the unquoted text for strings
	// and templates and the raw source otherwise.
	Literal struct {
		Span
		Kind  LiteralKind
		Value string
	}

	// ComputedKey is a bracketed, expression-valued key: `[expr]`.
	ComputedKey struct {
		Span
		Expr Node
	}

	// This is the current-instance token.
	This struct {
		Span
	}

	// MemberAccess is `Object.Property` or `Object?.Property`.
	MemberAccess struct {
		Span
		Object   Node
		Property Node
		Optional bool
	}

	// Call is a call expression.
	Call struct {
		Span
		Callee Node
		Args   []Node
		Extra  []Node // type arguments
	}

	// Array is an array literal.
	Array struct {
		Span
		Elements []Node
	}

	// ChainExpr marks the outermost node of an optional chain.
	ChainExpr struct {
		Span
		Expr Node
	}

	// Assertion is a type assertion, satisfies or non-null wrapper.
	Assertion struct {
		Span
		Kind  AssertionKind
		Expr  Node
		Extra []Node // asserted type
	}

	// Paren is a parenthesized expression.
	Paren struct {
		Span
		Expr Node
	}

	// Arrow is an arrow function; Body is an expression or a Block.
	Arrow struct {
		Span
		Body  Node
		Extra []Node // parameters, return type
	}

	// Block is a statement block.
	Block struct {
		Span
		Statements []Node
	}

	// Return is a return statement; Arg is nil for a bare return.
	Return struct {
		Span
		Arg Node
	}

	// ExprStmt is an expression statement.
	ExprStmt struct {
		Span
		Expr Node
	}

	// Other is any construct without a dedicated variant.
	Other struct {
		Span
		Kind     string
		Children []Node
	}
)

func (*ClassBody) isNode()     {}
func (*InterfaceBody) isNode() {}
func (*TypeLiteral) isNode()   {}
func (*ObjectLiteral) isNode() {}
func (*Field) isNode()         {}
func (*Method) isNode()        {}
func (*Property) isNode()      {}
func (*Signature) isNode()     {}
func (*Identifier) isNode()    {}
func (*PrivateName) isNode()   {}
func (*Literal) isNode()       {}
func (*ComputedKey) isNode()   {}
func (*This) isNode()          {}
func (*MemberAccess) isNode()  {}
func (*Call) isNode()          {}
func (*Array) isNode()         {}
func (*ChainExpr) isNode()     {}
func (*Assertion) isNode()     {}
func (*Paren) isNode()         {}
func (*Arrow) isNode()         {}
func (*Block) isNode()         {}
func (*Return) isNode()        {}
func (*ExprStmt) isNode()      {}
func (*Other) isNode()         {}

// File is a parsed source file.
type File struct {
	Path     string
	Language string
	Source   []byte
	Root     Node
	Errors   []Span // ERROR and missing nodes reported by the parser
}

// HasErrors reports whether the parser recovered from syntax errors.
func (f *File) HasErrors() bool {
	return len(f.Errors) > 0
}
