package order

import (
	"maps"
	"slices"
	"strings"

	"deporder/internal/syntax"
)

// Deps maps a member name to the names of the members it reads through `this`.
type Deps map[string][]string

// Of returns the dependency set of n; empty for unresolved or unknown names.
func (d Deps) Of(n Name) []string {
	if !n.OK {
		return nil
	}
	return d[n.Value]
}

// Build extracts and closes the dependency mapping of one declaration body.
func Build(decl syntax.Node) Deps {
	d := Extract(decl)
	closeDeps(d)
	return d
}

type queued struct {
	node   syntax.Node
	member int // index of the enclosing member
}

// Extract walks the direct members of decl breadth-first and records, for every member
// with a resolved name, the names it reads through `this`. The result is not closed and
// may contain duplicates. When two members share a name the later one wins.
func Extract(decl syntax.Node) Deps {
	members, ok := syntax.Members(decl)
	if !ok {
		return Deps{}
	}

	names := make([]Name, len(members))
	edges := make([][]string, len(members))
	queue := make([]queued, 0, len(members))
	for i, m := range members {
		names[i] = NameOf(m)
		queue = append(queue, queued{node: m, member: i})
	}

	push := func(member int, nodes ...syntax.Node) {
		for _, n := range nodes {
			if n != nil {
				queue = append(queue, queued{node: n, member: member})
			}
		}
	}

	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]

		switch n := q.node.(type) {
		case *syntax.Field:
			push(q.member, n.Value)
		case *syntax.Property:
			push(q.member, n.Value)
		case *syntax.Method:
			push(q.member, n.Body)
		case *syntax.ObjectLiteral:
			push(q.member, n.Members...)
		case *syntax.Array:
			push(q.member, n.Elements...)
		case *syntax.Call:
			if callee, ok := unwrap(n.Callee).(*syntax.MemberAccess); ok {
				push(q.member, callee.Object)
			}
			push(q.member, n.Args...)
		case *syntax.MemberAccess:
			prop, ok := propertyName(n.Property)
			if !ok {
				continue
			}
			switch recv := unwrap(n.Object).(type) {
			case *syntax.This:
				if names[q.member].OK {
					edges[q.member] = append(edges[q.member], strings.TrimSuffix(prop, "?"))
				}
			case *syntax.MemberAccess:
				push(q.member, recv)
			}
		case *syntax.ChainExpr:
			push(q.member, n.Expr)
		case *syntax.Assertion:
			push(q.member, n.Expr)
		case *syntax.Paren:
			push(q.member, n.Expr)
		case *syntax.Arrow:
			push(q.member, n.Body)
		case *syntax.Block:
			push(q.member, n.Statements...)
		case *syntax.Return:
			push(q.member, n.Arg)
		case *syntax.ExprStmt:
			push(q.member, n.Expr)
		}
	}

	d := make(Deps)
	for i, name := range names {
		if name.OK {
			d[name.Value] = edges[i]
		}
	}
	maps.DeleteFunc(d, func(_ string, v []string) bool { return len(v) == 0 })
	return d
}

// unwrap strips optional-chain, assertion and parenthesis wrappers.
func unwrap(n syntax.Node) syntax.Node {
	for {
		switch w := n.(type) {
		case *syntax.ChainExpr:
			n = w.Expr
		case *syntax.Assertion:
			n = w.Expr
		case *syntax.Paren:
			n = w.Expr
		default:
			return n
		}
	}
}

// Close expands d in place to its transitive closure and returns it.
func Close(d Deps) Deps {
	closeDeps(d)
	return d
}

// closeDeps runs full passes until one changes nothing and returns the pass count.
// Every set only grows and is bounded by the number of distinct names, so the loop
// halts; the cap is a second guard that never fires for a correct pass.
func closeDeps(d Deps) int {
	keys := slices.Sorted(maps.Keys(d))
	limit := len(keys) + 2

	passes := 0
	for {
		passes++
		changed := false
		for _, k := range keys {
			cur := d[k]
			if len(cur) == 0 {
				continue
			}
			set := make(map[string]struct{}, len(cur))
			for _, dep := range cur {
				set[dep] = struct{}{}
				for _, transitive := range d[dep] {
					set[transitive] = struct{}{}
				}
			}
			next := slices.Sorted(maps.Keys(set))
			if !slices.Equal(next, cur) {
				d[k] = next
				changed = true
			}
		}
		if !changed || passes >= limit {
			return passes
		}
	}
}
