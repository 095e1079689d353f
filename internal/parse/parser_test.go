//go:build cgo

package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"deporder/internal/order"
	"deporder/internal/syntax"
)

func parseSource(t *testing.T, src string, lang Language, opts Options) *syntax.File {
	t.Helper()
	p := NewParser(opts)
	t.Cleanup(p.Close)

	f, err := p.Parse(context.Background(), []byte(src), lang)
	require.NoError(t, err)
	return f
}

func reorder(t *testing.T, src string, lang Language, opts order.Options) string {
	t.Helper()
	f := parseSource(t, src, lang, DefaultOptions())
	root, _ := order.Reorder(f.Root, opts)
	out := *f
	out.Root = root
	return string(out.Render())
}

func firstBody(t *testing.T, f *syntax.File) syntax.Node {
	t.Helper()
	var body syntax.Node
	syntax.Walk(f.Root, func(n syntax.Node) bool {
		if body != nil {
			return false
		}
		if _, ok := syntax.Members(n); ok {
			body = n
			return false
		}
		return true
	})
	require.NotNil(t, body, "no declaration body found")
	return body
}

func TestParseRoundTrip(t *testing.T) {
	src := "import x from 'y';\n\nexport class A<T> extends B implements C {\n  // counter\n  @Input() count: number = 0;\n  static #secret = 'k';\n  [key]: string;\n  get total(): number { return this.count + 1; }\n  constructor(private readonly svc: Svc) { super(); }\n}\n"
	f := parseSource(t, src, LangTypeScript, DefaultOptions())

	require.False(t, f.HasErrors())
	require.Equal(t, src, string(f.Render()))
}

func TestParseClassMembers(t *testing.T) {
	src := "class A {\n  static #a = 1;\n  ['x' + y] = 2;\n  'quoted' = 3;\n  get b() { return this.#a; }\n  set c(v) {}\n  m() {}\n}\n"
	f := parseSource(t, src, LangTypeScript, DefaultOptions())
	members, ok := syntax.Members(firstBody(t, f))
	require.True(t, ok)
	require.Len(t, members, 6)

	a := members[0].(*syntax.Field)
	require.True(t, a.Static)
	require.Equal(t, "#a", order.NameOf(a).Value)
	require.Equal(t, "static #a = 1;", string(f.Source[a.Start:a.End]))

	computed := members[1].(*syntax.Field)
	require.True(t, computed.Computed)
	require.False(t, order.NameOf(computed).OK)

	require.Equal(t, "quoted", order.NameOf(members[2]).Value)

	require.Equal(t, syntax.MethodGetter, members[3].(*syntax.Method).Kind)
	require.Equal(t, syntax.MethodSetter, members[4].(*syntax.Method).Kind)
	require.Equal(t, syntax.MethodPlain, members[5].(*syntax.Method).Kind)
}

func TestParseInterfaceAndTypeLiteral(t *testing.T) {
	src := "interface I {\n  a: string;\n  [k: string]: unknown;\n  m(): void;\n  new (): I;\n  (): void;\n}\ntype T = { x: number };\n"
	f := parseSource(t, src, LangTypeScript, DefaultOptions())

	var kinds []string
	var sigs []syntax.SignatureKind
	syntax.Walk(f.Root, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.InterfaceBody, *syntax.TypeLiteral:
			kinds = append(kinds, syntax.Kind(n))
		case *syntax.Signature:
			sigs = append(sigs, n.Kind)
		}
		return true
	})

	require.Equal(t, []string{"interface_body", "type_literal"}, kinds)
	require.Equal(t, []syntax.SignatureKind{
		syntax.SigProperty, syntax.SigIndex, syntax.SigMethod, syntax.SigConstruct, syntax.SigCall, syntax.SigProperty,
	}, sigs)
}

func TestParseReportsErrors(t *testing.T) {
	f := parseSource(t, "class A { a = ; }\n", LangTypeScript, DefaultOptions())
	require.True(t, f.HasErrors())
}

func TestReorderSource(t *testing.T) {
	tests := []struct {
		name string
		lang Language
		opts order.Options
		src  string
		want string
	}{
		{
			name: "getter after the field it reads",
			lang: LangTypeScript,
			src:  "class A {\n  get b() { return this.a; }\n  a = 1;\n}\n",
			want: "class A {\n  a = 1;\n  get b() { return this.a; }\n}\n",
		},
		{
			name: "transitive through a method",
			lang: LangTypeScript,
			src:  "class A {\n  c() { return this.a; }\n  a = 1;\n  b = this.c;\n}\n",
			want: "class A {\n  a = 1;\n  c() { return this.a; }\n  b = this.c;\n}\n",
		},
		{
			name: "no self references",
			lang: LangTypeScript,
			src:  "class A {\n  z = 1;\n  m() { return 2; }\n  a = 3;\n}\n",
			want: "class A {\n  z = 1;\n  m() { return 2; }\n  a = 3;\n}\n",
		},
		{
			name: "decorators and comments travel with their member",
			lang: LangTypeScript,
			src:  "class A {\n  // derived\n  @memo\n  get b() { return this.a; }\n  a = 1; // base\n}\n",
			want: "class A {\n  a = 1; // base\n  // derived\n  @memo\n  get b() { return this.a; }\n}\n",
		},
		{
			name: "detached comment stays as an anchor",
			lang: LangTypeScript,
			src:  "class A {\n  b = this.a;\n  // section\n\n  a = 1;\n}\n",
			want: "class A {\n  a = 1;\n  // section\n\n  b = this.a;\n}\n",
		},
		{
			name: "private names",
			lang: LangTypeScript,
			src:  "class A {\n  get b() { return this.#a; }\n  #a = 1;\n}\n",
			want: "class A {\n  #a = 1;\n  get b() { return this.#a; }\n}\n",
		},
		{
			name: "optional chaining and assertions",
			lang: LangTypeScript,
			src:  "class A {\n  b = (this.a as string)?.length;\n  a = 'x';\n}\n",
			want: "class A {\n  a = 'x';\n  b = (this.a as string)?.length;\n}\n",
		},
		{
			name: "calls on this are not dependencies",
			lang: LangTypeScript,
			src:  "class A {\n  b = this.init();\n  init() { return 1; }\n}\n",
			want: "class A {\n  b = this.init();\n  init() { return 1; }\n}\n",
		},
		{
			name: "nested class inside a method",
			lang: LangTypeScript,
			src:  "class Outer {\n  m() {\n    return class {\n      get y() { return this.x; }\n      x = 1;\n    };\n  }\n}\n",
			want: "class Outer {\n  m() {\n    return class {\n      x = 1;\n      get y() { return this.x; }\n    };\n  }\n}\n",
		},
		{
			name: "object literals left alone by default",
			lang: LangTypeScript,
			src:  "const o = {\n  b: this.a,\n  a: 1,\n};\n",
			want: "const o = {\n  b: this.a,\n  a: 1,\n};\n",
		},
		{
			name: "object literals when enabled",
			lang: LangTypeScript,
			opts: order.Options{ObjectLiterals: true},
			src:  "const o = {\n  b: this.a,\n  a: 1,\n};\n",
			want: "const o = {\n  a: 1,\n  b: this.a,\n};\n",
		},
		{
			name: "javascript fields",
			lang: LangJavaScript,
			src:  "class A {\n  b = [this.a, 2];\n  a = 1;\n}\n",
			want: "class A {\n  a = 1;\n  b = [this.a, 2];\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reorder(t, tt.src, tt.lang, tt.opts)
			require.Equal(t, tt.want, got)

			// Idempotence.
			require.Equal(t, got, reorder(t, got, tt.lang, tt.opts))
		})
	}
}

func TestAttachCommentsDisabled(t *testing.T) {
	src := "class A {\n  // about b\n  b = this.a;\n  a = 1;\n}\n"
	f := parseSource(t, src, LangTypeScript, Options{AttachComments: false})
	root, _ := order.Reorder(f.Root, order.DefaultOptions())
	out := *f
	out.Root = root

	require.Equal(t, "class A {\n  // about b\n  a = 1;\n  b = this.a;\n}\n", string(out.Render()))
}

func TestReorderKeepsMembersSeparated(t *testing.T) {
	tests := []struct {
		name string
		lang Language
		opts order.Options
		src  string
		want string
	}{
		{
			name: "last member on the same line moves first",
			lang: LangTypeScript,
			src:  "class A {\n  b = this.a; a = 1 }\n",
			want: "class A {\n  a = 1; b = this.a; }\n",
		},
		{
			name: "field moved above a generator method",
			lang: LangJavaScript,
			src:  "class A {\n  *g() { return this.a }\n  a = foo\n}\n",
			want: "class A {\n  a = foo;\n  *g() { return this.a }\n}\n",
		},
		{
			name: "line breaks are enough between plain fields",
			lang: LangTypeScript,
			src:  "class A {\n  b = this.a\n  a = 1\n}\n",
			want: "class A {\n  a = 1\n  b = this.a\n}\n",
		},
		{
			name: "object property keeps its trailing comment",
			lang: LangTypeScript,
			opts: order.Options{ObjectLiterals: true},
			src:  "const o = {\n  b: this.a, // note\n  a: 1,\n};\n",
			want: "const o = {\n  a: 1,\n  b: this.a, // note\n};\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, parseSource(t, tt.src, tt.lang, DefaultOptions()).HasErrors(), "input must parse")

			got := reorder(t, tt.src, tt.lang, tt.opts)
			require.Equal(t, tt.want, got)
			require.False(t, parseSource(t, got, tt.lang, DefaultOptions()).HasErrors(), "output must parse")
			require.Equal(t, got, reorder(t, got, tt.lang, tt.opts))
		})
	}
}

func TestTrailingCommentAttachesOutsideClasses(t *testing.T) {
	src := "const o = {\n  b: 1, // note\n  a: 2\n};\n"
	f := parseSource(t, src, LangTypeScript, DefaultOptions())
	members, _ := syntax.Members(firstBody(t, f))
	require.Len(t, members, 2)

	span := members[0].Bounds()
	require.Equal(t, "b: 1, // note", src[span.Start:span.End])
}
