package order

import (
	"slices"

	"deporder/internal/rewrite"
	"deporder/internal/syntax"
)

// DeclReport describes what the rewriter did to one declaration body.
type DeclReport struct {
	Kind   string      `json:"kind" yaml:"kind" toml:"kind"`
	Span   syntax.Span `json:"-" yaml:"-" toml:"-"`
	Line   int         `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
	Before []string    `json:"before" yaml:"before" toml:"before"`
	After  []string    `json:"after" yaml:"after" toml:"after"`
	Deps   Deps        `json:"deps,omitempty" yaml:"deps,omitempty" toml:"deps,omitempty"`
	Moved  bool        `json:"moved" yaml:"moved" toml:"moved"`
}

// Rewriter is the per-node callback that reorders declaration bodies.
// It keeps a report per visited declaration and is not safe for concurrent use.
type Rewriter struct {
	opts    Options
	reports []DeclReport
}

// NewRewriter creates a rewriter for one tree.
func NewRewriter(opts Options) *Rewriter {
	return &Rewriter{opts: opts}
}

// Recognizes reports whether n is a declaration body this rewriter reorders.
func (r *Rewriter) Recognizes(n syntax.Node) bool {
	switch n.(type) {
	case *syntax.ClassBody, *syntax.InterfaceBody, *syntax.TypeLiteral:
		return true
	case *syntax.ObjectLiteral:
		return r.opts.ObjectLiterals
	}
	return false
}

// Rewrite returns n with its members in dependency order, or n itself when n is not a
// recognized declaration or its order is already correct.
func (r *Rewriter) Rewrite(n syntax.Node) syntax.Node {
	if !r.Recognizes(n) {
		return n
	}
	members, _ := syntax.Members(n)

	deps := Build(n)
	cmp := NewComparator(deps, r.opts)
	ordered := Capture(members, syntax.IsMemberLike, cmp.Compare)
	moved := !slices.Equal(ordered, members)

	r.reports = append(r.reports, DeclReport{
		Kind:   syntax.Kind(n),
		Span:   n.Bounds(),
		Before: labels(members),
		After:  labels(ordered),
		Deps:   deps,
		Moved:  moved,
	})

	if !moved {
		return n
	}
	return syntax.WithMembers(n, ordered)
}

// Reports returns one entry per declaration visited, in visit order.
func (r *Rewriter) Reports() []DeclReport {
	return r.reports
}

// Reorder rewrites every recognized declaration in root.
func Reorder(root syntax.Node, opts Options) (syntax.Node, []DeclReport) {
	r := NewRewriter(opts)
	out := rewrite.Apply(root, r.Rewrite)
	return out, r.Reports()
}

// Label is the display name of a member list entry.
func Label(n syntax.Node) string {
	if name := NameOf(n); name.OK {
		return name.Value
	}
	if sig, ok := n.(*syntax.Signature); ok && sig.Key == nil {
		return "[" + string(sig.Kind) + "]"
	}
	if syntax.IsMemberLike(n) {
		return "[computed]"
	}
	return "<" + syntax.Kind(n) + ">"
}

func labels(nodes []syntax.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = Label(n)
	}
	return out
}
