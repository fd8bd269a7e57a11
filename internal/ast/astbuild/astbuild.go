// Package astbuild constructs documents in memory for tests and tools.
// Every constructor assigns a fresh location one line below the previous one,
// so nodes never share a location.
package astbuild

import (
	"strings"

	"qmllint/internal/ast"
)

// Builder hands out monotonically increasing locations.
type Builder struct {
	line uint32
	off  uint32
}

// New returns a builder starting at line 1.
func New() *Builder { return &Builder{} }

// Loc returns the next location.
func (b *Builder) Loc() ast.Loc {
	b.line++
	b.off += 16
	return ast.Loc{Offset: b.off, Length: 4, Line: b.line, Column: 5}
}

func (b *Builder) node(kind ast.Kind, children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: kind, Loc: b.Loc(), Children: children}
}

func dotted(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}

// Doc wraps a program into a document.
func (b *Builder) Doc(path string, program *ast.Node) *ast.Document {
	return &ast.Document{Path: path, Root: program}
}

// Program builds the document root.
func (b *Builder) Program(children ...*ast.Node) *ast.Node {
	return b.node(ast.KindProgram, children...)
}

// Import builds a module import (`import QtQuick 2.15 as Q`).
func (b *Builder) Import(uri, version, alias string) *ast.Node {
	n := b.node(ast.KindImport)
	n.QualifiedID = dotted(uri)
	n.Version = version
	n.Alias = alias
	return n
}

// FileImport builds a file or directory import (`import "dir" as D`).
func (b *Builder) FileImport(path, alias string) *ast.Node {
	n := b.node(ast.KindImport)
	n.Name = path
	n.Alias = alias
	return n
}

// Object builds an object definition.
func (b *Builder) Object(typeName string, members ...*ast.Node) *ast.Node {
	n := b.node(ast.KindObjectDefinition, members...)
	n.TypeName = dotted(typeName)
	n.End = b.Loc()
	return n
}

// ObjectBinding builds `name: Type { members }`.
func (b *Builder) ObjectBinding(name, typeName string, members ...*ast.Node) *ast.Node {
	n := b.node(ast.KindObjectBinding, members...)
	n.QualifiedID = dotted(name)
	n.TypeName = dotted(typeName)
	return n
}

// Binding builds a script binding `name: statement`.
func (b *Builder) Binding(name string, stmt *ast.Node) *ast.Node {
	n := b.node(ast.KindScriptBinding, stmt)
	n.QualifiedID = dotted(name)
	return n
}

// ID builds `id: name`.
func (b *Builder) ID(name string) *ast.Node {
	return b.Binding("id", b.ExprStmt(b.Ident(name)))
}

// Property builds `property <type> <name>`.
func (b *Builder) Property(typeName, name string) *ast.Node {
	n := b.node(ast.KindPublicMember)
	n.Member = ast.MemberProperty
	n.Name = name
	n.TypeName = dotted(typeName)
	return n
}

// Signal builds `signal name(params)`.
func (b *Builder) Signal(name string, params ...ast.Param) *ast.Node {
	n := b.node(ast.KindPublicMember)
	n.Member = ast.MemberSignal
	n.Name = name
	n.Params = params
	return n
}

// Enum builds `enum Name { keys }`.
func (b *Builder) Enum(name string, keys ...string) *ast.Node {
	n := b.node(ast.KindEnumDeclaration)
	n.Name = name
	n.Keys = keys
	return n
}

// ExprStmt wraps an expression into a statement.
func (b *Builder) ExprStmt(expr *ast.Node) *ast.Node {
	return b.node(ast.KindExpressionStatement, expr)
}

// Ident builds an identifier expression.
func (b *Builder) Ident(name string) *ast.Node {
	n := b.node(ast.KindIdentifier)
	n.Name = name
	return n
}

// Field builds `base.name`.
func (b *Builder) Field(base *ast.Node, name string) *ast.Node {
	n := b.node(ast.KindFieldMember, base)
	n.Name = name
	n.NameLoc = b.Loc()
	return n
}

// Path builds a field chain `a.b.c` rooted at an identifier.
func (b *Builder) Path(dottedPath string) *ast.Node {
	parts := strings.Split(dottedPath, ".")
	n := b.Ident(parts[0])
	for _, p := range parts[1:] {
		n = b.Field(n, p)
	}
	return n
}

// As builds `expr as Type`.
func (b *Builder) As(expr *ast.Node, typeName string) *ast.Node {
	t := b.node(ast.KindTypeExpr)
	t.Name = typeName
	n := b.node(ast.KindBinary, expr, t)
	n.Op = "as"
	return n
}

// Binary builds `left op right`.
func (b *Builder) Binary(op string, left, right *ast.Node) *ast.Node {
	n := b.node(ast.KindBinary, left, right)
	n.Op = op
	return n
}

// Paren builds `(expr)`.
func (b *Builder) Paren(expr *ast.Node) *ast.Node {
	return b.node(ast.KindNested, expr)
}

// Call builds `callee(args...)`.
func (b *Builder) Call(callee *ast.Node, args ...*ast.Node) *ast.Node {
	return b.node(ast.KindCall, append([]*ast.Node{callee}, args...)...)
}

// Other builds a pass-through node.
func (b *Builder) Other(children ...*ast.Node) *ast.Node {
	return b.node(ast.KindOther, children...)
}

// Params builds a formal parameter list.
func (b *Builder) Params(names ...string) *ast.Node {
	elems := make([]*ast.Node, 0, len(names))
	for _, name := range names {
		e := b.node(ast.KindPatternElement)
		e.Name = name
		elems = append(elems, e)
	}
	return b.node(ast.KindFormalParameters, elems...)
}

// Func builds a function declaration.
func (b *Builder) Func(name string, params []string, body ...*ast.Node) *ast.Node {
	n := b.node(ast.KindFunctionDeclaration, append([]*ast.Node{b.Params(params...)}, body...)...)
	n.Name = name
	return n
}

// FuncExpr builds a (possibly anonymous) function expression.
func (b *Builder) FuncExpr(name string, params []string, body ...*ast.Node) *ast.Node {
	n := b.node(ast.KindFunctionExpression, append([]*ast.Node{b.Params(params...)}, body...)...)
	n.Name = name
	return n
}

// Class builds a class declaration.
func (b *Builder) Class(name string, body ...*ast.Node) *ast.Node {
	n := b.node(ast.KindClassDeclaration, body...)
	n.Name = name
	return n
}

// Var builds a declaration list binding each name with the given keyword.
func (b *Builder) Var(scope ast.VarScope, names ...string) *ast.Node {
	elems := make([]*ast.Node, 0, len(names))
	for _, name := range names {
		e := b.node(ast.KindPatternElement)
		e.Name = name
		e.Scope = scope
		elems = append(elems, e)
	}
	return b.node(ast.KindVariableDeclaration, elems...)
}

// Destructure builds `let {a, b} = init` as a single pattern element.
func (b *Builder) Destructure(scope ast.VarScope, init *ast.Node, names ...string) *ast.Node {
	props := make([]*ast.Node, 0, len(names))
	for _, name := range names {
		e := b.node(ast.KindPatternElement)
		e.Name = name
		props = append(props, e)
	}
	pattern := b.node(ast.KindObjectPattern, props...)
	children := []*ast.Node{pattern}
	if init != nil {
		children = append(children, init)
	}
	e := b.node(ast.KindPatternElement, children...)
	e.Scope = scope
	return b.node(ast.KindVariableDeclaration, e)
}

// Block builds `{ stmts }` spanning several lines.
func (b *Builder) Block(stmts ...*ast.Node) *ast.Node {
	n := b.node(ast.KindBlock, stmts...)
	n.End = b.Loc()
	return n
}

// For builds a for loop whose header declarations and body share the loop scope.
func (b *Builder) For(children ...*ast.Node) *ast.Node {
	return b.node(ast.KindFor, children...)
}

// ForEach builds a for-in/for-of loop.
func (b *Builder) ForEach(children ...*ast.Node) *ast.Node {
	return b.node(ast.KindForEach, children...)
}

// CaseBlock builds the body of a switch statement.
func (b *Builder) CaseBlock(children ...*ast.Node) *ast.Node {
	return b.node(ast.KindCaseBlock, children...)
}

// Catch builds `catch (param) block`.
func (b *Builder) Catch(param string, block *ast.Node) *ast.Node {
	e := b.node(ast.KindPatternElement)
	e.Name = param
	return b.node(ast.KindCatch, e, block)
}

// With builds `with (object) body`.
func (b *Builder) With(object, body *ast.Node) *ast.Node {
	return b.node(ast.KindWith, object, body)
}
