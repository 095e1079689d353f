package syntax

// Children returns the non-nil direct children of n in field order.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *ClassBody:
		add(n.Members...)
	case *InterfaceBody:
		add(n.Members...)
	case *TypeLiteral:
		add(n.Members...)
	case *ObjectLiteral:
		add(n.Members...)
	case *Field:
		add(n.Extra...)
		add(n.Key, n.Value)
	case *Method:
		add(n.Extra...)
		add(n.Key, n.Body)
	case *Property:
		add(n.Key, n.Value)
	case *Signature:
		add(n.Key)
		add(n.Extra...)
	case *PrivateName:
		if n.ID != nil {
			add(n.ID)
		}
	case *ComputedKey:
		add(n.Expr)
	case *MemberAccess:
		add(n.Object, n.Property)
	case *Call:
		add(n.Callee)
		add(n.Extra...)
		add(n.Args...)
	case *Array:
		add(n.Elements...)
	case *ChainExpr:
		add(n.Expr)
	case *Assertion:
		add(n.Expr)
		add(n.Extra...)
	case *Paren:
		add(n.Expr)
	case *Arrow:
		add(n.Extra...)
		add(n.Body)
	case *Block:
		add(n.Statements...)
	case *Return:
		add(n.Arg)
	case *ExprStmt:
		add(n.Expr)
	case *Other:
		add(n.Children...)
	}
	return out
}

// Walk calls fn for n and, while fn returns true, for every descendant in pre-order.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Members returns the member list of a declaration body.
func Members(n Node) ([]Node, bool) {
	switch n := n.(type) {
	case *ClassBody:
		return n.Members, true
	case *InterfaceBody:
		return n.Members, true
	case *TypeLiteral:
		return n.Members, true
	case *ObjectLiteral:
		return n.Members, true
	}
	return nil, false
}

// WithMembers returns a shallow copy of the declaration body n with its member list
// replaced. Non-declaration nodes are returned unchanged.
func WithMembers(n Node, members []Node) Node {
	switch n := n.(type) {
	case *ClassBody:
		c := *n
		c.Members = members
		return &c
	case *InterfaceBody:
		c := *n
		c.Members = members
		return &c
	case *TypeLiteral:
		c := *n
		c.Members = members
		return &c
	case *ObjectLiteral:
		c := *n
		c.Members = members
		return &c
	}
	return n
}

// IsMemberLike reports whether n may be reordered inside a declaration body.
func IsMemberLike(n Node) bool {
	switch n.(type) {
	case *Field, *Method, *Property, *Signature:
		return true
	}
	return false
}

// Kind returns a short, stable name for the variant of n.
func Kind(n Node) string {
	switch n := n.(type) {
	case *ClassBody:
		return "class_body"
	case *InterfaceBody:
		return "interface_body"
	case *TypeLiteral:
		return "type_literal"
	case *ObjectLiteral:
		return "object_literal"
	case *Field:
		return "field"
	case *Method:
		return "method"
	case *Property:
		return "property"
	case *Signature:
		return "signature"
	case *Identifier:
		return "identifier"
	case *PrivateName:
		return "private_name"
	case *Literal:
		return "literal"
	case *ComputedKey:
		return "computed_key"
	case *This:
		return "this"
	case *MemberAccess:
		return "member_access"
	case *Call:
		return "call"
	case *Array:
		return "array"
	case *ChainExpr:
		return "chain"
	case *Assertion:
		return "assertion"
	case *Paren:
		return "paren"
	case *Arrow:
		return "arrow"
	case *Block:
		return "block"
	case *Return:
		return "return"
	case *ExprStmt:
		return "expression_statement"
	case *Other:
		return n.Kind
	}
	return "unknown"
}
