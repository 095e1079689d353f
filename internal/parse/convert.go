//go:build cgo

package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"deporder/internal/syntax"
)

// converter maps a tree-sitter tree onto syntax nodes. Kinds the reorderer does not
// inspect become syntax.Other so that declarations nested anywhere stay reachable.
type converter struct {
	src            []byte
	attachComments bool
}

func spanOf(n *sitter.Node) syntax.Span {
	return syntax.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func (c *converter) text(n *sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

// convert never returns a typed nil: a nil input yields a nil interface.
func (c *converter) convert(n *sitter.Node) syntax.Node {
	if n == nil {
		return nil
	}
	sp := spanOf(n)

	switch n.Type() {
	case "class_body":
		return &syntax.ClassBody{Span: sp, Members: c.members(n, true)}
	case "interface_body":
		return &syntax.InterfaceBody{Span: sp, Members: c.members(n, false)}
	case "object_type":
		if p := n.Parent(); p != nil && p.Type() == "interface_declaration" {
			return &syntax.InterfaceBody{Span: sp, Members: c.members(n, false)}
		}
		return &syntax.TypeLiteral{Span: sp, Members: c.members(n, false)}
	case "object":
		return &syntax.ObjectLiteral{Span: sp, Members: c.members(n, false)}

	case "public_field_definition", "field_definition":
		name := n.ChildByFieldName("name")
		if name == nil {
			name = n.ChildByFieldName("property")
		}
		value := n.ChildByFieldName("value")
		key, computed := c.key(name)
		return &syntax.Field{
			Span:     sp,
			Key:      key,
			Computed: computed,
			Static:   hasToken(n, "static"),
			Value:    c.convert(value),
			Extra:    c.rest(n, name, value),
		}
	case "method_definition":
		name := n.ChildByFieldName("name")
		body := n.ChildByFieldName("body")
		key, computed := c.key(name)
		kind := syntax.MethodPlain
		switch {
		case hasToken(n, "get"):
			kind = syntax.MethodGetter
		case hasToken(n, "set"):
			kind = syntax.MethodSetter
		}
		return &syntax.Method{
			Span:     sp,
			Key:      key,
			Computed: computed,
			Static:   hasToken(n, "static"),
			Kind:     kind,
			Body:     c.convert(body),
			Extra:    c.rest(n, name, body),
		}
	case "pair":
		name := n.ChildByFieldName("key")
		value := n.ChildByFieldName("value")
		key, computed := c.key(name)
		return &syntax.Property{Span: sp, Key: key, Computed: computed, Value: c.convert(value)}
	case "shorthand_property_identifier":
		return &syntax.Property{
			Span:      sp,
			Key:       &syntax.Identifier{Span: sp, Name: c.text(n)},
			Shorthand: true,
		}
	case "property_signature":
		return c.signature(n, syntax.SigProperty)
	case "method_signature", "abstract_method_signature":
		return c.signature(n, syntax.SigMethod)
	case "index_signature":
		return c.signature(n, syntax.SigIndex)
	case "call_signature":
		return c.signature(n, syntax.SigCall)
	case "construct_signature":
		return c.signature(n, syntax.SigConstruct)

	case "identifier", "property_identifier":
		return &syntax.Identifier{Span: sp, Name: c.text(n)}
	case "private_property_identifier":
		return &syntax.PrivateName{Span: sp, ID: &syntax.Identifier{Span: sp, Name: c.text(n)}}
	case "string":
		return &syntax.Literal{Span: sp, Kind: syntax.LitString, Value: unquote(c.text(n))}
	case "number":
		return &syntax.Literal{Span: sp, Kind: syntax.LitNumber, Value: c.text(n)}
	case "true", "false":
		return &syntax.Literal{Span: sp, Kind: syntax.LitBoolean, Value: n.Type()}
	case "template_string":
		if hasNamed(n, "template_substitution") {
			return c.other(n)
		}
		return &syntax.Literal{Span: sp, Kind: syntax.LitTemplate, Value: unquote(c.text(n))}
	case "computed_property_name":
		return &syntax.ComputedKey{Span: sp, Expr: c.convert(firstNamed(n))}
	case "this":
		return &syntax.This{Span: sp}

	case "member_expression":
		access := &syntax.MemberAccess{
			Span:     sp,
			Object:   c.convert(n.ChildByFieldName("object")),
			Property: c.convert(n.ChildByFieldName("property")),
			Optional: hasNamed(n, "optional_chain"),
		}
		if access.Optional {
			return &syntax.ChainExpr{Span: sp, Expr: access}
		}
		return access
	case "call_expression":
		fn := n.ChildByFieldName("function")
		args := n.ChildByFieldName("arguments")
		call := &syntax.Call{Span: sp, Callee: c.convert(fn), Extra: c.rest(n, fn, args)}
		if args != nil {
			call.Args = c.named(args)
		}
		return call
	case "array":
		return &syntax.Array{Span: sp, Elements: c.named(n)}
	case "as_expression":
		return c.assertion(n, syntax.AssertAs, false)
	case "satisfies_expression":
		return c.assertion(n, syntax.AssertSatisfies, false)
	case "type_assertion":
		return c.assertion(n, syntax.AssertAngle, true)
	case "non_null_expression":
		return c.assertion(n, syntax.AssertNonNull, false)
	case "parenthesized_expression":
		return &syntax.Paren{Span: sp, Expr: c.convert(firstNamed(n))}
	case "arrow_function":
		body := n.ChildByFieldName("body")
		return &syntax.Arrow{Span: sp, Body: c.convert(body), Extra: c.rest(n, body)}
	case "statement_block":
		return &syntax.Block{Span: sp, Statements: c.named(n)}
	case "return_statement":
		return &syntax.Return{Span: sp, Arg: c.convert(firstNamed(n))}
	case "expression_statement":
		return &syntax.ExprStmt{Span: sp, Expr: c.convert(firstNamed(n))}
	}
	return c.other(n)
}

func (c *converter) other(n *sitter.Node) *syntax.Other {
	return &syntax.Other{Span: spanOf(n), Kind: n.Type(), Children: c.named(n)}
}

// key converts a member key and reports whether it is computed.
func (c *converter) key(n *sitter.Node) (syntax.Node, bool) {
	if n == nil {
		return nil, false
	}
	return c.convert(n), n.Type() == "computed_property_name"
}

func (c *converter) signature(n *sitter.Node, kind syntax.SignatureKind) *syntax.Signature {
	sig := &syntax.Signature{Span: spanOf(n), Kind: kind}
	name := n.ChildByFieldName("name")
	switch kind {
	case syntax.SigProperty, syntax.SigMethod:
		sig.Key, sig.Computed = c.key(name)
	default:
		name = nil
	}
	sig.Extra = c.rest(n, name)
	return sig
}

func (c *converter) assertion(n *sitter.Node, kind syntax.AssertionKind, exprLast bool) *syntax.Assertion {
	count := int(n.NamedChildCount())
	if count == 0 {
		return &syntax.Assertion{Span: spanOf(n), Kind: kind}
	}
	idx := 0
	if exprLast {
		idx = count - 1
	}
	expr := n.NamedChild(idx)
	return &syntax.Assertion{Span: spanOf(n), Kind: kind, Expr: c.convert(expr), Extra: c.rest(n, expr)}
}

// named converts every named child of n.
func (c *converter) named(n *sitter.Node) []syntax.Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	out := make([]syntax.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, c.convert(n.NamedChild(i)))
	}
	return out
}

// rest converts the named children of n that are not one of skip.
func (c *converter) rest(n *sitter.Node, skip ...*sitter.Node) []syntax.Node {
	var out []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		consumed := false
		for _, s := range skip {
			if sameNode(child, s) {
				consumed = true
				break
			}
		}
		if !consumed {
			out = append(out, c.convert(child))
		}
	}
	return out
}

// members converts the children of a declaration body. Decorators and, when enabled,
// comments directly above a member are folded into the member's span, as is a comment on
// the same line after it. In class bodies the member also takes its trailing semicolon.
func (c *converter) members(body *sitter.Node, class bool) []syntax.Node {
	count := int(body.NamedChildCount())
	out := make([]syntax.Node, 0, count)
	consumed := 0 // end offset of the last absorbed trailing token

	for i := 0; i < count; i++ {
		child := body.NamedChild(i)
		if int(child.StartByte()) < consumed {
			continue
		}

		if c.leading(child) {
			j := i
			for j+1 < count && c.leading(body.NamedChild(j+1)) && !blankLineBetween(c.src, body.NamedChild(j), body.NamedChild(j+1)) {
				j++
			}
			if j+1 < count && !blankLineBetween(c.src, body.NamedChild(j), body.NamedChild(j+1)) {
				target := body.NamedChild(j + 1)
				if m := c.convert(target); syntax.IsMemberLike(m) {
					end := trailing(target, class)
					consumed = end
					setSpan(m, syntax.Span{Start: int(child.StartByte()), End: end})
					out = append(out, m)
					i = j + 1
					continue
				}
			}
			out = append(out, c.convert(child))
			continue
		}

		m := c.convert(child)
		if syntax.IsMemberLike(m) {
			end := trailing(child, class)
			consumed = end
			setSpan(m, syntax.Span{Start: int(child.StartByte()), End: end})
		}
		out = append(out, m)
	}
	return out
}

// leading reports whether n may be absorbed into the member that follows it.
func (c *converter) leading(n *sitter.Node) bool {
	switch n.Type() {
	case "decorator":
		return true
	case "comment":
		return c.attachComments
	}
	return false
}

// trailing returns the end of n extended over a comment that starts on the row where n
// ends. In a class body a following `;` is always taken; elsewhere the `,` or `;` after n
// is taken only together with such a comment.
func trailing(n *sitter.Node, class bool) int {
	end := int(n.EndByte())
	row := n.EndPoint().Row
	next := n.NextSibling()
	if next != nil && isSeparator(next, class) {
		after := next.NextSibling()
		switch {
		case class:
			end = int(next.EndByte())
			next = after
		case sameRowComment(after, row):
			next = after
		}
	}
	if sameRowComment(next, row) {
		end = int(next.EndByte())
	}
	return end
}

func isSeparator(n *sitter.Node, class bool) bool {
	if n.EndByte() == n.StartByte() {
		return false
	}
	switch n.Type() {
	case ";":
		return true
	case ",":
		return !class
	}
	return false
}

func sameRowComment(n *sitter.Node, row uint32) bool {
	return n != nil && n.Type() == "comment" && n.StartPoint().Row == row
}

func blankLineBetween(src []byte, a, b *sitter.Node) bool {
	gap := string(src[a.EndByte():b.StartByte()])
	return strings.Count(gap, "\n") > 1
}

// setSpan widens a freshly converted member; nodes are not shared yet.
func setSpan(n syntax.Node, sp syntax.Span) {
	switch m := n.(type) {
	case *syntax.Field:
		m.Span = sp
	case *syntax.Method:
		m.Span = sp
	case *syntax.Property:
		m.Span = sp
	case *syntax.Signature:
		m.Span = sp
	}
}

func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

func hasNamed(n *sitter.Node, kind string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == kind {
			return true
		}
	}
	return false
}

// firstNamed returns the first named child that is not a comment.
func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() != "comment" {
			return child
		}
	}
	return nil
}

// unquote strips the delimiters of a string or template literal.
func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
