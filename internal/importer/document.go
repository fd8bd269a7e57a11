package importer

import (
	"unicode"
	"unicode/utf8"

	"qmllint/internal/ast"
	"qmllint/internal/scope"
)

// componentFromDocument builds the component type a document exports:
// the root object's base type with its public members, functions and enums.
func componentFromDocument(doc *ast.Document) *scope.Scope {
	root := doc.RootObject()
	name := ast.ComponentName(doc.Path)
	if root == nil {
		return scope.NewType(name, "")
	}
	s := scope.NewType(name, root.TypeNameString())
	s.Composite = true
	for _, member := range root.Children {
		switch member.Kind {
		case ast.KindPublicMember:
			switch member.Member {
			case ast.MemberSignal:
				s.AddMethod(signalMethod(member))
			case ast.MemberProperty:
				s.InsertProperty(PropertyFromMember(member))
			}
		case ast.KindFunctionDeclaration:
			s.AddMethod(scope.Method{Name: member.Name, Kind: scope.MethodPlain, ReturnType: "void"})
		case ast.KindEnumDeclaration:
			s.AddEnum(scope.Enum{Name: member.Name, Keys: member.Keys})
		}
	}
	return s
}

func signalMethod(n *ast.Node) scope.Method {
	params := make([]scope.Param, 0, len(n.Params))
	for _, p := range n.Params {
		params = append(params, scope.Param{Name: p.Name, Type: p.Type})
	}
	return scope.Method{Name: n.Name, Kind: scope.MethodSignal, Params: params, ReturnType: "void"}
}

// SignalFromMember converts a `signal` declaration into a method.
func SignalFromMember(n *ast.Node) scope.Method { return signalMethod(n) }

// PropertyFromMember converts a `property` declaration; the type stays
// unresolved.
func PropertyFromMember(n *ast.Node) scope.Property {
	typeName := n.TypeNameString()
	return scope.Property{
		Name:       n.Name,
		TypeName:   typeName,
		IsList:     n.TypeModifier == "list",
		IsWritable: !n.Readonly,
		IsPointer:  isObjectTypeName(typeName),
		IsAlias:    typeName == "alias",
	}
}

// object types are capitalised, value types (int, string, var) are not
func isObjectTypeName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
