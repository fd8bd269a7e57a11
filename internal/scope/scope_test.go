package scope

import (
	"testing"

	"qmllint/internal/ast"
)

func TestNewLinksLexicalAndObjectParents(t *testing.T) {
	root := New(KindDocumentRoot, nil)
	program := New(KindTypedObject, root)
	item := New(KindTypedObject, program)
	handler := New(KindFunction, item)
	block := New(KindLexicalBlock, handler)

	if block.Parent != handler || handler.Parent != item {
		t.Fatalf("lexical parents not linked")
	}
	if block.ObjectParent != item {
		t.Errorf("block object parent = %v, want item", block.ObjectParent)
	}
	if item.ObjectParent != program {
		t.Errorf("item object parent = %v, want program", item.ObjectParent)
	}
	if program.ObjectParent != nil {
		t.Errorf("program object parent = %v, want nil", program.ObjectParent)
	}
	if block.NearestTypedObject() != item || item.NearestTypedObject() != item {
		t.Errorf("NearestTypedObject mismatch")
	}
	if block.Root() != root {
		t.Errorf("Root() did not reach document root")
	}
	if len(item.Children) != 1 || item.Children[0] != handler {
		t.Errorf("children not recorded")
	}
}

func TestInsertJSIdentifierHoisting(t *testing.T) {
	root := New(KindDocumentRoot, nil)
	fn := New(KindFunction, New(KindTypedObject, root))
	outer := New(KindLexicalBlock, fn)
	inner := New(KindLexicalBlock, outer)

	inner.InsertJSIdentifier("v", Identifier{Kind: FunctionScoped, Loc: ast.Loc{Line: 3}})
	inner.InsertJSIdentifier("l", Identifier{Kind: LexicalScoped, Loc: ast.Loc{Line: 4}})
	inner.InsertJSIdentifier("i", Identifier{Kind: Injected})

	tests := []struct {
		scope *Scope
		name  string
		found bool
	}{
		{fn, "v", true},
		{outer, "v", true},
		{fn, "l", false},
		{outer, "l", false},
		{inner, "l", true},
		{inner, "i", true},
		{outer, "i", false},
	}
	for _, tt := range tests {
		_, ok := tt.scope.FindJSIdentifier(tt.name)
		if ok != tt.found {
			t.Errorf("FindJSIdentifier(%q) from %s = %v, want %v", tt.name, tt.scope, ok, tt.found)
		}
	}
	if _, ok := fn.OwnJSIdentifier("v"); !ok {
		t.Errorf("var not hoisted into function scope")
	}
}

func TestInsertJSIdentifierWithoutFunctionHoistsToRoot(t *testing.T) {
	root := New(KindDocumentRoot, nil)
	obj := New(KindTypedObject, root)
	block := New(KindLexicalBlock, obj)

	block.InsertJSIdentifier("p", Identifier{Kind: Parameter})
	if _, ok := root.OwnJSIdentifier("p"); !ok {
		t.Fatalf("parameter did not reach the document root")
	}
}

func TestInsertJSIdentifierIntoTypedObjectPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(KindTypedObject, nil).InsertJSIdentifier("x", Identifier{Kind: LexicalScoped})
}

func TestFindJSIdentifierSkipsTypedObjects(t *testing.T) {
	root := New(KindDocumentRoot, nil)
	root.InsertJSIdentifier("Math", Identifier{Kind: LexicalScoped})
	obj := New(KindTypedObject, root)
	fn := New(KindFunction, obj)

	id, ok := fn.FindJSIdentifier("Math")
	if !ok || id.Loc.IsValid() {
		t.Fatalf("global lookup failed: %+v %v", id, ok)
	}
}

func TestSignalFirstWins(t *testing.T) {
	s := NewType("Button", "Item")
	s.AddMethod(Method{Name: "clicked", Kind: MethodPlain})
	s.AddMethod(Method{Name: "clicked", Kind: MethodSignal, Params: []Param{{Name: "mouse"}}})
	s.AddMethod(Method{Name: "clicked", Kind: MethodSignal, Params: []Param{{Name: "other"}}})

	sig, ok := s.Signal("clicked")
	if !ok {
		t.Fatalf("signal not found")
	}
	if got := sig.ParamNames(); len(got) != 1 || got[0] != "mouse" {
		t.Errorf("first signal not chosen: %v", got)
	}
	if len(s.MethodsNamed("clicked")) != 3 {
		t.Errorf("overloads collapsed")
	}
	if _, ok := s.Signal("pressed"); ok {
		t.Errorf("unexpected signal")
	}
}

func TestResolveTypes(t *testing.T) {
	item := NewType("QQuickItem", "")
	rect := NewType("QQuickRectangle", "Item")
	rect.InsertProperty(Property{Name: "border", TypeName: "Item"})
	rect.InsertProperty(Property{Name: "color", TypeName: "color"})

	rect.ResolveTypes(map[string]*Scope{"Item": item})

	if rect.BaseType() != item {
		t.Errorf("base type not resolved")
	}
	if p, _ := rect.Property("border"); p.Type != item {
		t.Errorf("property type not resolved")
	}
	if p, _ := rect.Property("color"); p.Type != nil {
		t.Errorf("unknown property type resolved to %v", p.Type)
	}
}

func TestLookupToleratesCycles(t *testing.T) {
	a := NewType("A", "B")
	b := NewType("B", "A")
	a.SetBaseType(b)
	b.SetBaseType(a)
	b.AddEnum(Enum{Name: "Mode", Keys: []string{"Fast", "Slow"}})

	if owner, ok := a.Lookup("Slow"); !ok || owner != b {
		t.Errorf("Lookup(Slow) = %v, %v", owner, ok)
	}
	if _, ok := a.Lookup("missing"); ok {
		t.Errorf("Lookup(missing) succeeded")
	}
}

func TestPropertyOrderIsStable(t *testing.T) {
	s := New(KindTypedObject, nil)
	for _, name := range []string{"z", "a", "m", "a"} {
		s.InsertProperty(Property{Name: name})
	}
	got := s.Properties()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("got %d properties, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("property %d = %q, want %q", i, got[i].Name, want[i])
		}
	}
}
