// Package rewrite applies a node-replacement callback over a whole syntax tree.
package rewrite

import "deporder/internal/syntax"

// Func maps a node to its replacement. Returning the argument leaves it in place.
type Func func(syntax.Node) syntax.Node

// Apply rewrites root bottom-up: the children of a node are rewritten first, the node is
// shallow-copied if any child changed, and fn is then invoked exactly once on the result.
// Nodes are never mutated; untouched subtrees are shared with the input.
func Apply(root syntax.Node, fn Func) syntax.Node {
	if root == nil {
		return nil
	}
	return apply(root, fn)
}

func apply(n syntax.Node, fn Func) syntax.Node {
	switch n := n.(type) {
	case *syntax.ClassBody:
		if ms, ok := list(n.Members, fn); ok {
			c := *n
			c.Members = ms
			return fn(&c)
		}
	case *syntax.InterfaceBody:
		if ms, ok := list(n.Members, fn); ok {
			c := *n
			c.Members = ms
			return fn(&c)
		}
	case *syntax.TypeLiteral:
		if ms, ok := list(n.Members, fn); ok {
			c := *n
			c.Members = ms
			return fn(&c)
		}
	case *syntax.ObjectLiteral:
		if ms, ok := list(n.Members, fn); ok {
			c := *n
			c.Members = ms
			return fn(&c)
		}
	case *syntax.Field:
		key, k := one(n.Key, fn)
		val, v := one(n.Value, fn)
		extra, e := list(n.Extra, fn)
		if k || v || e {
			c := *n
			c.Key, c.Value, c.Extra = key, val, extra
			return fn(&c)
		}
	case *syntax.Method:
		key, k := one(n.Key, fn)
		body, b := one(n.Body, fn)
		extra, e := list(n.Extra, fn)
		if k || b || e {
			c := *n
			c.Key, c.Body, c.Extra = key, body, extra
			return fn(&c)
		}
	case *syntax.Property:
		key, k := one(n.Key, fn)
		val, v := one(n.Value, fn)
		if k || v {
			c := *n
			c.Key, c.Value = key, val
			return fn(&c)
		}
	case *syntax.Signature:
		key, k := one(n.Key, fn)
		extra, e := list(n.Extra, fn)
		if k || e {
			c := *n
			c.Key, c.Extra = key, extra
			return fn(&c)
		}
	case *syntax.ComputedKey:
		if expr, ok := one(n.Expr, fn); ok {
			c := *n
			c.Expr = expr
			return fn(&c)
		}
	case *syntax.MemberAccess:
		obj, o := one(n.Object, fn)
		prop, p := one(n.Property, fn)
		if o || p {
			c := *n
			c.Object, c.Property = obj, prop
			return fn(&c)
		}
	case *syntax.Call:
		callee, cl := one(n.Callee, fn)
		args, a := list(n.Args, fn)
		extra, e := list(n.Extra, fn)
		if cl || a || e {
			c := *n
			c.Callee, c.Args, c.Extra = callee, args, extra
			return fn(&c)
		}
	case *syntax.Array:
		if elems, ok := list(n.Elements, fn); ok {
			c := *n
			c.Elements = elems
			return fn(&c)
		}
	case *syntax.ChainExpr:
		if expr, ok := one(n.Expr, fn); ok {
			c := *n
			c.Expr = expr
			return fn(&c)
		}
	case *syntax.Assertion:
		expr, x := one(n.Expr, fn)
		extra, e := list(n.Extra, fn)
		if x || e {
			c := *n
			c.Expr, c.Extra = expr, extra
			return fn(&c)
		}
	case *syntax.Paren:
		if expr, ok := one(n.Expr, fn); ok {
			c := *n
			c.Expr = expr
			return fn(&c)
		}
	case *syntax.Arrow:
		body, b := one(n.Body, fn)
		extra, e := list(n.Extra, fn)
		if b || e {
			c := *n
			c.Body, c.Extra = body, extra
			return fn(&c)
		}
	case *syntax.Block:
		if stmts, ok := list(n.Statements, fn); ok {
			c := *n
			c.Statements = stmts
			return fn(&c)
		}
	case *syntax.Return:
		if arg, ok := one(n.Arg, fn); ok {
			c := *n
			c.Arg = arg
			return fn(&c)
		}
	case *syntax.ExprStmt:
		if expr, ok := one(n.Expr, fn); ok {
			c := *n
			c.Expr = expr
			return fn(&c)
		}
	case *syntax.Other:
		if kids, ok := list(n.Children, fn); ok {
			c := *n
			c.Children = kids
			return fn(&c)
		}
	}
	// Leaves (identifiers, literals, this, private names) and unchanged interiors.
	return fn(n)
}

// one rewrites a single optional child and reports whether it was replaced.
func one(n syntax.Node, fn Func) (syntax.Node, bool) {
	if n == nil {
		return nil, false
	}
	r := apply(n, fn)
	return r, r != n
}

// list rewrites a child slice, allocating a new slice only when an element changed.
func list(nodes []syntax.Node, fn Func) ([]syntax.Node, bool) {
	var out []syntax.Node
	for i, n := range nodes {
		r := apply(n, fn)
		if r != n && out == nil {
			out = make([]syntax.Node, len(nodes))
			copy(out, nodes[:i])
		}
		if out != nil {
			out[i] = r
		}
	}
	if out == nil {
		return nodes, false
	}
	return out, true
}
