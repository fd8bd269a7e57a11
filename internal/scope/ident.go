package scope

import (
	"fmt"

	"qmllint/internal/ast"
)

// IdentKind classifies a JavaScript identifier.
type IdentKind uint8

const (
	// FunctionScoped identifiers (`var`) are visible in the whole enclosing function.
	FunctionScoped IdentKind = iota
	// LexicalScoped identifiers (`let`, `const`, catch parameters, function names)
	// are visible in the declaring block only.
	LexicalScoped
	// Parameter marks formal parameters.
	Parameter
	// Injected marks signal parameters made available to handler bodies.
	Injected
)

func (k IdentKind) String() string {
	switch k {
	case FunctionScoped:
		return "function-scoped"
	case LexicalScoped:
		return "lexical-scoped"
	case Parameter:
		return "parameter"
	case Injected:
		return "injected"
	default:
		return fmt.Sprintf("IdentKind(%d)", uint8(k))
	}
}

// Identifier records how and where a JavaScript name was declared.
// Globals carry the zero location.
type Identifier struct {
	Kind IdentKind
	Loc  ast.Loc
}

// InsertJSIdentifier declares name. Function-scoped and parameter names are
// hoisted to the nearest function scope; the others land in s.
func (s *Scope) InsertJSIdentifier(name string, id Identifier) {
	if s.Kind == KindTypedObject {
		panic(fmt.Sprintf("scope: javascript identifier %q inserted into typed object %s", name, s.Name()))
	}
	target := s
	switch id.Kind {
	case LexicalScoped, Injected:
	case FunctionScoped, Parameter:
		for !target.Kind.hoistsVar() && target.Parent != nil {
			target = target.Parent
		}
	default:
		panic(fmt.Sprintf("scope: unexpected identifier kind %d", uint8(id.Kind)))
	}
	target.idents.set(name, id)
}

// OwnJSIdentifier looks name up in s only.
func (s *Scope) OwnJSIdentifier(name string) (Identifier, bool) {
	return s.idents.get(name)
}

// FindJSIdentifier looks name up along the lexical chain, skipping typed
// objects.
func (s *Scope) FindJSIdentifier(name string) (Identifier, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if !cur.Kind.IsJS() {
			continue
		}
		if id, ok := cur.idents.get(name); ok {
			return id, true
		}
	}
	return Identifier{}, false
}

// JSIdentifierNames lists the names declared directly in s, in declaration order.
func (s *Scope) JSIdentifierNames() []string {
	out := make([]string, len(s.idents.order))
	copy(out, s.idents.order)
	return out
}
