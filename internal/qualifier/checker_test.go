package qualifier

import (
	"path/filepath"
	"strings"
	"testing"

	"qmllint/internal/ast"
	"qmllint/internal/ast/astbuild"
	"qmllint/internal/diag"
	"qmllint/internal/lint"
)

func check(t *testing.T, c *Checker, build func(b *astbuild.Builder) *ast.Node) (bool, *diag.Bag) {
	t.Helper()
	b := astbuild.New()
	doc := b.Doc(filepath.Join(t.TempDir(), "Main.qml"), b.Program(build(b)))

	bag := diag.NewBag(0)
	opts := lint.DefaultOptions()
	opts.Reporter = diag.BagReporter{Bag: bag}
	opts.Qualifier = c
	v := lint.New(doc, 0, opts)
	v.Run()
	return v.Check(), bag
}

func dump(bag *diag.Bag) string {
	var sb strings.Builder
	for _, d := range bag.Items() {
		sb.WriteString(d.Code.ID() + " " + d.Message + "\n")
		for _, n := range d.Notes {
			sb.WriteString("  note: " + n.Msg + "\n")
		}
	}
	return sb.String()
}

func only(t *testing.T, bag *diag.Bag, code diag.Code) *diag.Diagnostic {
	t.Helper()
	if bag.Len() != 1 || bag.Items()[0].Code != code {
		t.Fatalf("want a single %s, got:\n%s", code.ID(), dump(bag))
	}
	return bag.Items()[0]
}

func TestResolvedNamesPass(t *testing.T) {
	ok, bag := check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Item",
			b.ID("root"),
			b.Property("int", "count"),
			b.Property("Rectangle", "box"),
			b.Func("helper", []string{"n"}, b.ExprStmt(b.Ident("n"))),
			b.Binding("x", b.ExprStmt(b.Call(b.Path("Math.max"), b.Ident("count")))),
			b.Binding("y", b.ExprStmt(b.Path("box.border.width"))),
			b.Binding("z", b.ExprStmt(b.Path("Qt.AlignLeft"))),
			b.Binding("width", b.ExprStmt(b.Call(b.Ident("helper")))),
			b.Object("Rectangle",
				b.Binding("width", b.ExprStmt(b.Path("root.count"))),
				b.Binding("height", b.ExprStmt(b.Path("parent.height"))),
				b.Binding("color", b.ExprStmt(b.Call(b.Path("Qt.rgba")))),
			),
		)
	})
	if !ok || bag.Len() != 0 {
		t.Fatalf("ok=%v diagnostics:\n%s", ok, dump(bag))
	}
}

func TestUnqualifiedAccessSuggestsRootID(t *testing.T) {
	ok, bag := check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Item",
			b.ID("root"),
			b.Property("int", "count"),
			b.Object("Rectangle", b.Binding("width", b.ExprStmt(b.Ident("count")))),
		)
	})
	if ok {
		t.Fatalf("check passed")
	}
	d := only(t, bag, diag.QualUnqualifiedAccess)
	if d.Message != `unqualified access to "count"` {
		t.Errorf("message = %q", d.Message)
	}
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, "root.count") {
		t.Errorf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "root.count" {
		t.Errorf("fixes = %+v", d.Fixes)
	}
}

func TestUnqualifiedAccessWithoutRootID(t *testing.T) {
	ok, bag := check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Item",
			b.Property("int", "count"),
			b.Object("Rectangle", b.Binding("width", b.ExprStmt(b.Ident("count")))),
		)
	})
	if ok {
		t.Fatalf("check passed")
	}
	d := only(t, bag, diag.QualUnqualifiedAccess)
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, "give the root object an id") || len(d.Fixes) != 0 {
		t.Errorf("notes=%+v fixes=%+v", d.Notes, d.Fixes)
	}
}

func TestUnknownNameHasNoNote(t *testing.T) {
	_, bag := check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Item", b.ID("root"), b.Binding("width", b.ExprStmt(b.Ident("nothing"))))
	})
	if d := only(t, bag, diag.QualUnqualifiedAccess); len(d.Notes) != 0 {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestInjectedParameter(t *testing.T) {
	tests := []struct {
		name    string
		body    func(b *astbuild.Builder) *ast.Node
		rewrite string
	}{
		{
			name:    "single statement",
			body:    func(b *astbuild.Builder) *ast.Node { return b.ExprStmt(b.Path("mouse.x")) },
			rewrite: "(mouse) => ...",
		},
		{
			name:    "block",
			body:    func(b *astbuild.Builder) *ast.Node { return b.Block(b.ExprStmt(b.Ident("mouse"))) },
			rewrite: "function(mouse) { ... }",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, bag := check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
				return b.Object("MouseArea", b.Binding("onClicked", tt.body(b)))
			})
			if ok {
				t.Fatalf("check passed")
			}
			d := only(t, bag, diag.QualInjectedParameter)
			if !strings.HasPrefix(d.Message, `Parameter "mouse" is not declared.`) {
				t.Errorf("message = %q", d.Message)
			}
			if len(d.Notes) != 1 || d.Notes[0].Msg != "consider using "+tt.rewrite {
				t.Errorf("notes = %+v", d.Notes)
			}
		})
	}
}

func TestMissingMember(t *testing.T) {
	ok, bag := check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Item",
			b.Object("Rectangle", b.ID("r")),
			b.Binding("width", b.ExprStmt(b.Path("r.bogus.deeper"))),
		)
	})
	if ok {
		t.Fatalf("check passed")
	}
	d := only(t, bag, diag.QualMissingProperty)
	if d.Message != `Property "bogus" not found on type "Rectangle"` {
		t.Errorf("message = %q", d.Message)
	}
}

func TestMissingMemberOnPropertyType(t *testing.T) {
	_, bag := check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Rectangle", b.Binding("width", b.ExprStmt(b.Path("border.thickness"))))
	})
	d := only(t, bag, diag.QualMissingProperty)
	if d.Message != `Property "thickness" not found on type "QQuickPen"` {
		t.Errorf("message = %q", d.Message)
	}
}

func TestCastSwitchesType(t *testing.T) {
	cast := func(b *astbuild.Builder, field string) *ast.Node {
		return b.Field(b.Paren(b.As(b.Ident("it"), "Text")), field)
	}
	ok, bag := check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Item",
			b.Object("Item", b.ID("it")),
			b.Binding("x", b.ExprStmt(cast(b, "text"))),
		)
	})
	if !ok || bag.Len() != 0 {
		t.Fatalf("cast member rejected:\n%s", dump(bag))
	}

	_, bag = check(t, &Checker{}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Item",
			b.Object("Item", b.ID("it")),
			b.Binding("x", b.ExprStmt(cast(b, "nope"))),
		)
	})
	if d := only(t, bag, diag.QualMissingProperty); d.Message != `Property "nope" not found on type "QQuickText"` {
		t.Errorf("message = %q", d.Message)
	}
}

func TestNoMembersOnlyChecksFirstLink(t *testing.T) {
	ok, bag := check(t, &Checker{NoMembers: true}, func(b *astbuild.Builder) *ast.Node {
		return b.Object("Item",
			b.Object("Rectangle", b.ID("r")),
			b.Binding("width", b.ExprStmt(b.Path("r.bogus"))),
		)
	})
	if !ok || bag.Len() != 0 {
		t.Fatalf("ok=%v diagnostics:\n%s", ok, dump(bag))
	}
}

func TestNilReporterIsSilent(t *testing.T) {
	b := astbuild.New()
	doc := b.Doc(filepath.Join(t.TempDir(), "Main.qml"),
		b.Program(b.Object("Item", b.Binding("width", b.ExprStmt(b.Ident("nothing"))))))
	v := lint.New(doc, 0, lint.DefaultOptions())
	v.Run()
	a := v.Analysis()
	a.Reporter = nil
	if (&Checker{}).Check(a) {
		t.Fatalf("unresolved name passed")
	}
}
