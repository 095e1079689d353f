package syntax

import (
	"slices"
	"testing"
)

func TestChildrenSkipsNil(t *testing.T) {
	f := &Field{Key: &Identifier{Name: "x"}}
	if got := Children(f); len(got) != 1 {
		t.Fatalf("Children() returned %d nodes, want 1", len(got))
	}

	if got := Children(&PrivateName{}); len(got) != 0 {
		t.Errorf("Children(PrivateName without ID) = %v, want none", got)
	}
	if got := Children(&Return{}); len(got) != 0 {
		t.Errorf("Children(bare return) = %v, want none", got)
	}
}

func TestWalkOrderAndPruning(t *testing.T) {
	tree := &ClassBody{Members: []Node{
		&Field{Key: &Identifier{Name: "a"}, Value: &ClassBody{Members: []Node{
			&Field{Key: &Identifier{Name: "inner"}},
		}}},
		&Method{Key: &Identifier{Name: "m"}, Body: &Block{}},
	}}

	var kinds []string
	Walk(tree, func(n Node) bool {
		kinds = append(kinds, Kind(n))
		return true
	})
	want := []string{"class_body", "field", "identifier", "class_body", "field", "identifier", "method", "identifier", "block"}
	if !slices.Equal(kinds, want) {
		t.Errorf("Walk() visited %v, want %v", kinds, want)
	}

	var bodies int
	Walk(tree, func(n Node) bool {
		if _, ok := Members(n); ok {
			bodies++
			return bodies == 1
		}
		return true
	})
	if bodies != 2 {
		t.Errorf("Walk() with pruning saw %d bodies, want 2", bodies)
	}
}

func TestWithMembers(t *testing.T) {
	a, b := &Field{Key: &Identifier{Name: "a"}}, &Field{Key: &Identifier{Name: "b"}}
	for _, body := range []Node{
		&ClassBody{Members: []Node{a, b}},
		&InterfaceBody{Members: []Node{a, b}},
		&TypeLiteral{Members: []Node{a, b}},
		&ObjectLiteral{Members: []Node{a, b}},
	} {
		got := WithMembers(body, []Node{b, a})
		if got == body {
			t.Errorf("%s: WithMembers returned the input", Kind(body))
		}
		members, ok := Members(got)
		if !ok || members[0] != b {
			t.Errorf("%s: members not replaced", Kind(body))
		}
		if orig, _ := Members(body); orig[0] != a {
			t.Errorf("%s: input mutated", Kind(body))
		}
	}

	leaf := &Identifier{Name: "x"}
	if got := WithMembers(leaf, nil); got != leaf {
		t.Error("WithMembers on a non-declaration should return it unchanged")
	}
}

func TestIsMemberLike(t *testing.T) {
	for _, n := range []Node{&Field{}, &Method{}, &Property{}, &Signature{}} {
		if !IsMemberLike(n) {
			t.Errorf("IsMemberLike(%s) = false", Kind(n))
		}
	}
	for _, n := range []Node{&Other{Kind: "comment"}, &Identifier{}, &ClassBody{}} {
		if IsMemberLike(n) {
			t.Errorf("IsMemberLike(%s) = true", Kind(n))
		}
	}
}
