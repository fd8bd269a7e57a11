package ast

import (
	"fmt"

	"fortio.org/safecast"

	"qmllint/internal/source"
)

// Kind tags a node with the syntactic construct it represents.
type Kind string

const (
	KindProgram          Kind = "program"
	KindImport           Kind = "import"
	KindObjectDefinition Kind = "object-definition"
	KindObjectBinding    Kind = "object-binding"
	KindScriptBinding    Kind = "script-binding"
	KindArrayBinding     Kind = "array-binding"
	KindPublicMember     Kind = "public-member"
	KindEnumDeclaration  Kind = "enum-declaration"

	KindFunctionExpression  Kind = "function-expression"
	KindFunctionDeclaration Kind = "function-declaration"
	KindClassExpression     Kind = "class-expression"
	KindClassDeclaration    Kind = "class-declaration"
	KindFormalParameters    Kind = "formal-parameter-list"
	KindVariableDeclaration Kind = "variable-declaration-list"
	KindPatternElement      Kind = "pattern-element"
	KindObjectPattern       Kind = "object-pattern"
	KindArrayPattern        Kind = "array-pattern"

	KindFor                 Kind = "for"
	KindForEach             Kind = "for-each"
	KindBlock               Kind = "block"
	KindCaseBlock           Kind = "case-block"
	KindCatch               Kind = "catch"
	KindWith                Kind = "with"
	KindExpressionStatement Kind = "expression-statement"

	KindIdentifier  Kind = "identifier-expression"
	KindFieldMember Kind = "field-member-expression"
	KindBinary      Kind = "binary-expression"
	KindNested      Kind = "nested-expression"
	KindTypeExpr    Kind = "type-expression"
	KindCall        Kind = "call-expression"

	// KindOther covers every construct the analysis only walks through.
	KindOther Kind = "other"
)

// VarScope is the scoping keyword of a declaration.
type VarScope string

const (
	VarScopeNone  VarScope = ""
	VarScopeVar   VarScope = "var"
	VarScopeLet   VarScope = "let"
	VarScopeConst VarScope = "const"
)

// MemberKind distinguishes the flavours of a public member declaration.
type MemberKind string

const (
	MemberProperty MemberKind = "property"
	MemberSignal   MemberKind = "signal"
)

// Loc mirrors a parser source location.
type Loc struct {
	Offset uint32 `json:"offset" msgpack:"offset"`
	Length uint32 `json:"length" msgpack:"length"`
	Line   uint32 `json:"line" msgpack:"line"`
	Column uint32 `json:"column" msgpack:"column"`
}

// IsValid reports whether the location was set by the parser.
func (l Loc) IsValid() bool { return l.Line != 0 }

// Span converts the location into a span of file.
func (l Loc) Span(file source.FileID) source.Span {
	return source.Span{
		File:  file,
		Start: l.Offset,
		End:   l.Offset + l.Length,
		Pos:   source.LineCol{Line: l.Line, Col: l.Column},
	}
}

func (l Loc) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Param is a typed parameter of a signal declaration.
type Param struct {
	Name string `json:"name" msgpack:"name"`
	Type string `json:"type,omitempty" msgpack:"type,omitempty"`
}

// Node is a homogeneous syntax tree node. The meaning of the optional fields
// depends on Kind; children are always stored in document order.
type Node struct {
	Kind Kind `json:"kind" msgpack:"kind"`
	Loc  Loc  `json:"loc" msgpack:"loc"`
	// End is the location of the last token of the node.
	End Loc `json:"end,omitzero" msgpack:"end,omitempty"`

	// Name: identifier, field, function, enum, signal or property name; file
	// name for file imports; the cast/type text for type expressions.
	Name    string `json:"name,omitempty" msgpack:"name,omitempty"`
	NameLoc Loc    `json:"name_loc,omitzero" msgpack:"name_loc,omitempty"`
	// QualifiedID is the dotted binding name (`anchors.fill`) or import URI.
	QualifiedID []string `json:"qualified_id,omitempty" msgpack:"qualified_id,omitempty"`
	// TypeName holds the dotted type segments of object definitions/bindings
	// and the member type of public members.
	TypeName []string `json:"type_name,omitempty" msgpack:"type_name,omitempty"`

	Op           string     `json:"op,omitempty" msgpack:"op,omitempty"`
	Scope        VarScope   `json:"scope,omitempty" msgpack:"scope,omitempty"`
	Member       MemberKind `json:"member,omitempty" msgpack:"member,omitempty"`
	TypeModifier string     `json:"type_modifier,omitempty" msgpack:"type_modifier,omitempty"`
	Readonly     bool       `json:"readonly,omitempty" msgpack:"readonly,omitempty"`
	Alias        string     `json:"alias,omitempty" msgpack:"alias,omitempty"`
	Version      string     `json:"version,omitempty" msgpack:"version,omitempty"`
	Params       []Param    `json:"params,omitempty" msgpack:"params,omitempty"`
	Keys         []string   `json:"keys,omitempty" msgpack:"keys,omitempty"`

	Children []*Node `json:"children,omitempty" msgpack:"children,omitempty"`
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Statement returns the statement of a script binding.
func (n *Node) Statement() *Node { return n.Child(0) }

// Expression returns the wrapped expression of an expression statement or a
// parenthesised expression.
func (n *Node) Expression() *Node { return n.Child(0) }

// Base returns the base of a field member expression.
func (n *Node) Base() *Node { return n.Child(0) }

// Left returns the left operand of a binary expression.
func (n *Node) Left() *Node { return n.Child(0) }

// Right returns the right operand of a binary expression.
func (n *Node) Right() *Node { return n.Child(1) }

// Is reports whether n is non-nil and has kind k.
func (n *Node) Is(k Kind) bool { return n != nil && n.Kind == k }

// QualifiedName joins the dotted segments of the binding name.
func (n *Node) QualifiedName() string { return joinDots(n.QualifiedID) }

// TypeNameString joins the dotted segments of the type name.
func (n *Node) TypeNameString() string { return joinDots(n.TypeName) }

// IsFunctionDefinition reports whether n is a function literal (including arrows).
func (n *Node) IsFunctionDefinition() bool {
	return n.Is(KindFunctionExpression) || n.Is(KindFunctionDeclaration)
}

// IsVariableDeclaration reports whether a pattern element introduces a binding.
func (n *Node) IsVariableDeclaration() bool {
	return n.Is(KindPatternElement) && n.Scope != VarScopeNone
}

// LastLoc returns End when set and Loc otherwise.
func (n *Node) LastLoc() Loc {
	if n.End.IsValid() {
		return n.End
	}
	return n.Loc
}

// Unparen strips nested (parenthesised) expressions.
func Unparen(n *Node) *Node {
	for n.Is(KindNested) {
		n = n.Expression()
	}
	return n
}

// BoundNames collects the identifiers bound by a pattern element, descending
// into destructuring patterns.
func (n *Node) BoundNames() []string {
	var names []string
	collectBoundNames(n, &names)
	return names
}

func collectBoundNames(n *Node, out *[]string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindPatternElement:
		if n.Name != "" {
			*out = append(*out, n.Name)
			return
		}
		for _, c := range n.Children {
			if c.Is(KindObjectPattern) || c.Is(KindArrayPattern) {
				collectBoundNames(c, out)
			}
		}
	case KindObjectPattern, KindArrayPattern, KindFormalParameters:
		for _, c := range n.Children {
			collectBoundNames(c, out)
		}
	}
}

func joinDots(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	size := len(parts) - 1
	for _, p := range parts {
		size += len(p)
	}
	buf := make([]byte, 0, size)
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, p...)
	}
	return string(buf)
}

// LocAt builds a location from int coordinates as produced by external parsers.
func LocAt(offset, length, line, column int) (Loc, error) {
	var loc Loc
	var err error
	if loc.Offset, err = safecast.Conv[uint32](offset); err != nil {
		return Loc{}, fmt.Errorf("offset: %w", err)
	}
	if loc.Length, err = safecast.Conv[uint32](length); err != nil {
		return Loc{}, fmt.Errorf("length: %w", err)
	}
	if loc.Line, err = safecast.Conv[uint32](line); err != nil {
		return Loc{}, fmt.Errorf("line: %w", err)
	}
	if loc.Column, err = safecast.Conv[uint32](column); err != nil {
		return Loc{}, fmt.Errorf("column: %w", err)
	}
	return loc, nil
}
