package lint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qmllint/internal/ast"
	"qmllint/internal/ast/astbuild"
	"qmllint/internal/diag"
	"qmllint/internal/scope"
)

type fixture struct {
	t   *testing.T
	b   *astbuild.Builder
	dir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, b: astbuild.New(), dir: t.TempDir()}
}

// component writes a document next to the one under test.
func (f *fixture) component(name string, root *ast.Node) {
	f.t.Helper()
	path := filepath.Join(f.dir, name+ast.ExtJSON)
	out, err := os.Create(path)
	if err != nil {
		f.t.Fatalf("create %s: %v", path, err)
	}
	defer out.Close()
	doc := f.b.Doc(name+".qml", f.b.Program(root))
	if err := ast.Encode(out, doc, ast.EncodingJSON); err != nil {
		f.t.Fatalf("encode %s: %v", path, err)
	}
}

func (f *fixture) doc(children ...*ast.Node) *ast.Document {
	return f.b.Doc(filepath.Join(f.dir, "Main.qml"), f.b.Program(children...))
}

func (f *fixture) run(doc *ast.Document, mutate func(*Options)) (*Visitor, *diag.Bag) {
	f.t.Helper()
	bag := diag.NewBag(0)
	opts := DefaultOptions()
	opts.Reporter = diag.BagReporter{Bag: bag}
	if mutate != nil {
		mutate(&opts)
	}
	v := New(doc, 0, opts)
	v.Run()
	return v, bag
}

func withCode(bag *diag.Bag, code diag.Code) []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func messages(bag *diag.Bag) string {
	var sb strings.Builder
	for _, d := range bag.Items() {
		sb.WriteString(d.Code.ID())
		sb.WriteString(" ")
		sb.WriteString(d.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// findScopes returns every scope below root entered under name, depth first.
func findScopes(root *scope.Scope, name string) []*scope.Scope {
	var out []*scope.Scope
	var walk func(*scope.Scope)
	walk = func(s *scope.Scope) {
		if s.BaseTypeName == name {
			out = append(out, s)
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

func findScope(t *testing.T, root *scope.Scope, name string) *scope.Scope {
	t.Helper()
	found := findScopes(root, name)
	if len(found) != 1 {
		t.Fatalf("expected exactly one %q scope, found %d", name, len(found))
	}
	return found[0]
}
