package ast_test

import (
	"testing"

	"qmllint/internal/ast"
	"qmllint/internal/ast/astbuild"
)

type recorder struct {
	events []string
	skip   ast.Kind
	max    int
	deep   []*ast.Node
}

func (r *recorder) Visit(n *ast.Node) bool {
	r.events = append(r.events, "+"+string(n.Kind))
	return n.Kind != r.skip
}

func (r *recorder) EndVisit(n *ast.Node) {
	r.events = append(r.events, "-"+string(n.Kind))
}

func (r *recorder) MaxDepth() int { return r.max }

func (r *recorder) DepthExceeded(n *ast.Node) { r.deep = append(r.deep, n) }

func TestWalkPairsEnterAndExit(t *testing.T) {
	b := astbuild.New()
	prog := b.Program(b.Object("Item", b.Binding("width", b.ExprStmt(b.Ident("w")))))

	r := &recorder{skip: ast.KindScriptBinding}
	ast.Walk(r, prog)

	want := []string{
		"+program", "+object-definition", "+script-binding", "-script-binding",
		"-object-definition", "-program",
	}
	if len(r.events) != len(want) {
		t.Fatalf("events = %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Fatalf("event %d = %q, want %q (all: %v)", i, r.events[i], want[i], r.events)
		}
	}
}

func TestWalkDepthLimit(t *testing.T) {
	b := astbuild.New()
	inner := b.Ident("x")
	prog := b.Program(b.Object("Item", b.Binding("p", b.ExprStmt(inner))))

	r := &recorder{max: 3}
	ast.Walk(r, prog)

	if len(r.deep) != 1 || r.deep[0].Kind != ast.KindExpressionStatement {
		t.Fatalf("expected the expression statement to exceed the limit, got %v", r.deep)
	}
	for _, ev := range r.events {
		if ev == "+identifier-expression" {
			t.Fatalf("subtree below the limit must not be visited")
		}
	}
}

func TestWalkChildrenKeepsDepth(t *testing.T) {
	b := astbuild.New()
	obj := b.Object("Connections", b.Binding("p", b.ExprStmt(b.Ident("x"))))

	r := &recorder{max: 5}
	ast.WalkChildren(r, obj, 2)

	if len(r.deep) != 1 || r.deep[0].Kind != ast.KindIdentifier {
		t.Fatalf("expected the identifier at depth 5 to exceed the limit, got %v", r.deep)
	}
	if r.events[0] != "+script-binding" {
		t.Errorf("WalkChildren visited %q first", r.events[0])
	}
}

func TestBoundNamesDestructuring(t *testing.T) {
	b := astbuild.New()
	decl := b.Destructure(ast.VarScopeLet, b.Ident("obj"), "a", "b")
	elem := decl.Child(0)
	if !elem.IsVariableDeclaration() {
		t.Fatalf("expected a variable declaration")
	}
	names := elem.BoundNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("BoundNames = %v", names)
	}

	params := b.Params("x", "y")
	if got := params.BoundNames(); len(got) != 2 || got[1] != "y" {
		t.Fatalf("params BoundNames = %v", got)
	}
}

func TestUnparen(t *testing.T) {
	b := astbuild.New()
	id := b.Ident("a")
	if ast.Unparen(b.Paren(b.Paren(id))) != id {
		t.Fatalf("Unparen did not strip parentheses")
	}
}

func TestQualifiedNames(t *testing.T) {
	b := astbuild.New()
	n := b.ObjectBinding("anchors.fill", "QtQuick.Item")
	if n.QualifiedName() != "anchors.fill" || n.TypeNameString() != "QtQuick.Item" {
		t.Fatalf("got %q / %q", n.QualifiedName(), n.TypeNameString())
	}
}
