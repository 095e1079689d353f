package order

import "deporder/internal/syntax"

// Name is a member's identity. OK is false when the name cannot be known statically
// (computed keys, non-string literal keys, members without keys).
type Name struct {
	Value string
	OK    bool
}

func (n Name) String() string {
	if !n.OK {
		return "<unresolved>"
	}
	return n.Value
}

func resolved(s string) Name { return Name{Value: s, OK: true} }

// NameOf derives the identity of a member-like node.
func NameOf(n syntax.Node) Name {
	switch m := n.(type) {
	case *syntax.Field:
		return keyName(m.Key, m.Computed)
	case *syntax.Method:
		return keyName(m.Key, m.Computed)
	case *syntax.Property:
		return keyName(m.Key, m.Computed)
	case *syntax.Signature:
		return keyName(m.Key, m.Computed)
	}
	return Name{}
}

func keyName(key syntax.Node, computed bool) Name {
	switch k := key.(type) {
	case *syntax.Identifier:
		if computed {
			return Name{}
		}
		return resolved(k.Name)
	case *syntax.PrivateName:
		if k.ID == nil {
			return Name{}
		}
		return keyName(k.ID, computed)
	case *syntax.Literal:
		switch k.Kind {
		case syntax.LitString, syntax.LitTemplate:
			return resolved(k.Value)
		}
	}
	return Name{}
}

// propertyName returns the accessed name of a member access property.
func propertyName(prop syntax.Node) (string, bool) {
	switch p := prop.(type) {
	case *syntax.Identifier:
		return p.Name, true
	case *syntax.PrivateName:
		if p.ID != nil {
			return p.ID.Name, true
		}
	}
	return "", false
}
