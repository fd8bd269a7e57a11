// Package scope models the scope graph of a QML document: typed object
// bodies, JavaScript function and block scopes, and the component types
// produced by the type importer.
package scope

import (
	"fmt"
	"strings"
)

// Kind enumerates supported scope categories.
type Kind uint8

const (
	// KindDocumentRoot is the artificial root holding engine and host globals.
	KindDocumentRoot Kind = iota
	// KindTypedObject is the body of an object definition or a component type.
	KindTypedObject
	// KindFunction is a function, class or signal handler body.
	KindFunction
	// KindLexicalBlock is a block, loop, switch, catch or with body.
	KindLexicalBlock
)

func (k Kind) String() string {
	switch k {
	case KindDocumentRoot:
		return "document-root"
	case KindTypedObject:
		return "typed-object"
	case KindFunction:
		return "function"
	case KindLexicalBlock:
		return "lexical-block"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsJS reports whether scopes of this kind hold JavaScript identifiers.
func (k Kind) IsJS() bool {
	switch k {
	case KindDocumentRoot, KindFunction, KindLexicalBlock:
		return true
	case KindTypedObject:
		return false
	default:
		panic(fmt.Sprintf("scope: unexpected kind %d", uint8(k)))
	}
}

// hoistsVar reports whether function-scoped declarations stop at this kind.
func (k Kind) hoistsVar() bool {
	switch k {
	case KindDocumentRoot, KindFunction:
		return true
	case KindTypedObject, KindLexicalBlock:
		return false
	default:
		panic(fmt.Sprintf("scope: unexpected kind %d", uint8(k)))
	}
}

// Scope is a node of the scope graph. It is linked twice: Parent follows the
// lexical nesting used for name resolution, ObjectParent the object tree.
type Scope struct {
	Kind Kind
	// Parent is the scope that was current when this scope was entered.
	Parent *Scope
	// ObjectParent is the nearest enclosing typed-object scope.
	ObjectParent *Scope
	Children     []*Scope

	// BaseTypeName is the declared base type; for entered scopes it is the
	// name passed on entry (type name, function name, "block", ...).
	BaseTypeName string
	// InternalName identifies imported component types.
	InternalName string
	// Composite is set for scopes created from documents rather than type
	// descriptions.
	Composite bool

	baseType *Scope

	idents     table[Identifier]
	properties table[Property]
	methods    multiTable[Method]
	enums      table[Enum]
}

// New creates a scope of the given kind nested in parent. Parent may be nil
// for roots and imported types.
func New(kind Kind, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Parent: parent}
	if parent != nil {
		if parent.Kind == KindTypedObject {
			s.ObjectParent = parent
		} else {
			s.ObjectParent = parent.ObjectParent
		}
		parent.Children = append(parent.Children, s)
	}
	return s
}

// NewType creates a free-standing typed-object scope describing an imported
// component.
func NewType(internalName, baseTypeName string) *Scope {
	s := New(KindTypedObject, nil)
	s.InternalName = internalName
	s.BaseTypeName = baseTypeName
	return s
}

// Name returns the most descriptive name of the scope.
func (s *Scope) Name() string {
	if s == nil {
		return "<nil>"
	}
	if s.InternalName != "" {
		return s.InternalName
	}
	return s.BaseTypeName
}

// BaseType returns the resolved base type, if any.
func (s *Scope) BaseType() *Scope { return s.baseType }

// SetBaseType overrides the resolved base type.
func (s *Scope) SetBaseType(base *Scope) { s.baseType = base }

// ResolveTypes binds the base type and property types against types.
// Names already bound stay untouched.
func (s *Scope) ResolveTypes(types map[string]*Scope) {
	if s.baseType == nil && s.BaseTypeName != "" {
		s.baseType = types[s.BaseTypeName]
	}
	for _, name := range s.properties.order {
		p := s.properties.items[name]
		if p.Type == nil && p.TypeName != "" {
			p.Type = types[p.TypeName]
			s.properties.items[name] = p
		}
	}
}

// Root follows Parent links up to the outermost scope.
func (s *Scope) Root() *Scope {
	for s != nil && s.Parent != nil {
		s = s.Parent
	}
	return s
}

// NearestTypedObject returns s itself when it is a typed object, otherwise
// its object parent.
func (s *Scope) NearestTypedObject() *Scope {
	if s == nil {
		return nil
	}
	if s.Kind == KindTypedObject {
		return s
	}
	return s.ObjectParent
}

// Path renders the lexical chain for traces, outermost first.
func (s *Scope) Path() string {
	var parts []string
	for cur := s; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.Name())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

func (s *Scope) String() string {
	return fmt.Sprintf("%s %q", s.Kind, s.Name())
}
