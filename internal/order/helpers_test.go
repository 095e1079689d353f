package order

import "deporder/internal/syntax"

// Tree builders for hand-written declarations. Spans are left zero.

func ident(name string) *syntax.Identifier { return &syntax.Identifier{Name: name} }

func self() *syntax.This { return &syntax.This{} }

func dot(obj syntax.Node, prop string) *syntax.MemberAccess {
	return &syntax.MemberAccess{Object: obj, Property: ident(prop)}
}

func thisDot(path ...string) syntax.Node {
	var n syntax.Node = self()
	for _, p := range path {
		n = dot(n, p)
	}
	return n
}

func num(raw string) *syntax.Literal {
	return &syntax.Literal{Kind: syntax.LitNumber, Value: raw}
}

func str(v string) *syntax.Literal {
	return &syntax.Literal{Kind: syntax.LitString, Value: v}
}

func field(name string, value syntax.Node) *syntax.Field {
	return &syntax.Field{Key: ident(name), Value: value}
}

func block(stmts ...syntax.Node) *syntax.Block {
	return &syntax.Block{Statements: stmts}
}

func ret(x syntax.Node) *syntax.Return { return &syntax.Return{Arg: x} }

func method(name string, stmts ...syntax.Node) *syntax.Method {
	return &syntax.Method{Key: ident(name), Kind: syntax.MethodPlain, Body: block(stmts...)}
}

func getter(name string, stmts ...syntax.Node) *syntax.Method {
	return &syntax.Method{Key: ident(name), Kind: syntax.MethodGetter, Body: block(stmts...)}
}

func call(callee syntax.Node, args ...syntax.Node) *syntax.Call {
	return &syntax.Call{Callee: callee, Args: args}
}

func prop(name string, value syntax.Node) *syntax.Property {
	return &syntax.Property{Key: ident(name), Value: value}
}

func object(props ...syntax.Node) *syntax.ObjectLiteral {
	return &syntax.ObjectLiteral{Members: props}
}

func class(members ...syntax.Node) *syntax.ClassBody {
	return &syntax.ClassBody{Members: members}
}

func comment() *syntax.Other { return &syntax.Other{Kind: "comment"} }

func memberLabels(n syntax.Node) []string {
	members, _ := syntax.Members(n)
	return labels(members)
}
