package lint

import (
	"strings"
	"testing"

	"qmllint/internal/ast"
	"qmllint/internal/diag"
	"qmllint/internal/scope"
)

func TestSignalNameConversion(t *testing.T) {
	tests := []struct {
		handler, signal string
	}{
		{"onClicked", "clicked"},
		{"onPressAndHold", "pressAndHold"},
		{"on_Foo", "_foo"},
		{"on__Bar", "__bar"},
		{"onXChanged", "xChanged"},
		{"onclicked", ""},
		{"on", ""},
		{"on__", ""},
		{"enabled", ""},
	}
	for _, tt := range tests {
		if got := SignalName(tt.handler); got != tt.signal {
			t.Errorf("SignalName(%q) = %q, want %q", tt.handler, got, tt.signal)
		}
	}
	for _, sig := range []string{"clicked", "pressAndHold", "xChanged"} {
		if got := SignalName(HandlerName(sig)); got != sig {
			t.Errorf("round trip of %q gave %q", sig, got)
		}
	}
}

func TestHandlerInjectsSignalParameters(t *testing.T) {
	f := newFixture(t)
	b := f.b
	stmt := b.ExprStmt(b.Path("mouse.x"))
	doc := f.doc(b.Object("MouseArea", b.Binding("onClicked", stmt)))
	v, bag := f.run(doc, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}

	h, ok := v.Analysis().Handlers[stmt.Loc]
	if !ok || h.Signal.Name != "clicked" || h.Multiline {
		t.Fatalf("handler = %+v %v", h, ok)
	}
	handler := findScope(t, v.Global(), "signalhandler")
	id, ok := handler.OwnJSIdentifier("mouse")
	if !ok || id.Kind != scope.Injected || id.Loc != stmt.Loc {
		t.Errorf("mouse = %+v %v", id, ok)
	}
	if handler.Parent != v.Analysis().RootObject {
		t.Errorf("handler scope not below the object")
	}
}

func TestHandlerWithBlockBody(t *testing.T) {
	f := newFixture(t)
	b := f.b
	body := b.Block(b.ExprStmt(b.Ident("mouse")))
	doc := f.doc(b.Object("MouseArea", b.Binding("onPressed", body)))
	v, _ := f.run(doc, nil)

	if h := v.Analysis().Handlers[body.Loc]; !h.Multiline {
		t.Errorf("block handler not multiline")
	}
	block := findScope(t, v.Global(), "block")
	if _, ok := block.OwnJSIdentifier("mouse"); !ok {
		t.Errorf("parameter not injected into the block")
	}
	if len(findScopes(v.Global(), "signalhandler")) != 0 {
		t.Errorf("statements inside a block handler opened handler scopes")
	}
}

func TestHandlerWithoutParameters(t *testing.T) {
	f := newFixture(t)
	b := f.b
	doc := f.doc(b.Object("Timer", b.Binding("onTriggered", b.ExprStmt(b.Ident("x")))))
	v, bag := f.run(doc, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}
	handler := findScope(t, v.Global(), "signalhandler")
	if names := handler.JSIdentifierNames(); len(names) != 0 {
		t.Errorf("injected %v for a parameterless signal", names)
	}
}

func TestHandlerFunctionLiteralInjectsNothing(t *testing.T) {
	f := newFixture(t)
	b := f.b
	doc := f.doc(b.Object("MouseArea",
		b.Binding("onClicked", b.ExprStmt(b.FuncExpr("", []string{"ev"}))),
	))
	v, _ := f.run(doc, nil)

	fn := findScope(t, v.Global(), "<anon>")
	if _, ok := fn.OwnJSIdentifier("mouse"); ok {
		t.Errorf("signal parameter injected into a function literal")
	}
	if _, ok := fn.OwnJSIdentifier("ev"); !ok {
		t.Errorf("own parameter missing")
	}
	if len(findScopes(v.Global(), "signalhandler")) != 0 {
		t.Errorf("function literal handler opened a handler scope")
	}
}

func TestNoMatchingSignal(t *testing.T) {
	f := newFixture(t)
	b := f.b
	build := func() *ast.Document {
		return f.doc(b.Object("Timer", b.Binding("onFired", b.ExprStmt(b.Ident("x")))))
	}

	v, bag := f.run(build(), nil)
	got := withCode(bag, diag.LintNoMatchingSignal)
	if len(got) != 1 {
		t.Fatalf("want one warning, got:\n%s", messages(bag))
	}
	if got[0].Severity != diag.SevWarning || !strings.Contains(got[0].Message, `"onFired"`) {
		t.Errorf("diagnostic = %+v", got[0])
	}
	if len(got[0].Notes) != 1 || !strings.Contains(got[0].Notes[0].Msg, "onTriggered") {
		t.Errorf("notes = %+v", got[0].Notes)
	}
	if len(v.Analysis().Handlers) != 0 {
		t.Errorf("unmatched handler recorded")
	}
	if !v.Check() {
		t.Errorf("a missing signal must not fail the analysis")
	}

	_, bag = f.run(build(), func(o *Options) { o.WarnUnqualified = false })
	if bag.Len() != 0 {
		t.Errorf("warning not gated:\n%s", messages(bag))
	}
}

func TestPendingHandlerDoesNotLeak(t *testing.T) {
	f := newFixture(t)
	b := f.b
	// the handler body opens no scope; the next binding must not inherit
	// its parameters
	doc := f.doc(b.Object("MouseArea",
		b.Binding("onClicked", b.Other()),
		b.Binding("width", b.ExprStmt(b.Ident("w"))),
	))
	v, _ := f.run(doc, nil)
	if got := findScopes(v.Global(), "signalhandler"); len(got) != 0 {
		t.Fatalf("ordinary binding opened a handler scope")
	}
}

func TestConnectionsExplicitTarget(t *testing.T) {
	f := newFixture(t)
	b := f.b
	doc := f.doc(b.Object("Item",
		b.Object("MouseArea", b.ID("area")),
		b.Object("Connections",
			b.Binding("target", b.ExprStmt(b.Ident("area"))),
			b.Binding("onClicked", b.ExprStmt(b.Ident("mouse"))),
		),
	))
	v, bag := f.run(doc, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}
	conn := findScope(t, v.Global(), "Connections")
	if _, ok := conn.Signal("clicked"); !ok {
		t.Errorf("target signals not copied")
	}
	if len(findScopes(conn, "signalhandler")) != 1 {
		t.Errorf("handler inside the relay not analysed")
	}
}

func TestConnectionsImplicitTarget(t *testing.T) {
	f := newFixture(t)
	b := f.b
	doc := f.doc(b.Object("MouseArea",
		b.Object("Connections", b.Binding("onDoubleClicked", b.ExprStmt(b.Ident("mouse")))),
	))
	v, bag := f.run(doc, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}
	conn := findScope(t, v.Global(), "Connections")
	if _, ok := conn.Signal("doubleClicked"); !ok {
		t.Errorf("enclosing object signals not copied")
	}
}

func TestConnectionsDeferredTarget(t *testing.T) {
	f := newFixture(t)
	b := f.b
	handler := b.ExprStmt(b.Ident("mouse"))
	doc := f.doc(b.Object("Item",
		b.Object("Connections",
			b.Binding("target", b.ExprStmt(b.Ident("later"))),
			b.Binding("onClicked", handler),
		),
		b.Object("MouseArea", b.ID("later")),
	))
	v, bag := f.run(doc, nil)

	conn := findScope(t, v.Global(), "Connections")
	if _, ok := conn.Signal("clicked"); ok {
		t.Fatalf("signals copied before the target was declared")
	}
	if !v.Check() {
		t.Fatalf("Check failed:\n%s", messages(bag))
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics:\n%s", messages(bag))
	}
	if _, ok := conn.Signal("clicked"); !ok {
		t.Errorf("deferred pass did not copy signals")
	}
	if _, ok := v.Analysis().Handlers[handler.Loc]; !ok {
		t.Errorf("deferred handler not matched")
	}
	if v.Current() != v.Global() {
		t.Errorf("deferred pass left current at %s", v.Current())
	}
}

func TestConnectionsUnknownTargetIsSilent(t *testing.T) {
	f := newFixture(t)
	b := f.b
	doc := f.doc(b.Object("Item",
		b.Object("Connections",
			b.Binding("target", b.ExprStmt(b.Ident("nowhere"))),
			b.Binding("onClicked", b.ExprStmt(b.Ident("mouse"))),
		),
	))
	v, bag := f.run(doc, nil)
	if !v.Check() {
		t.Fatalf("unknown relay target failed the analysis")
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics:\n%s", messages(bag))
	}
	if len(v.Analysis().Handlers) != 0 {
		t.Errorf("handler of an unresolved relay was analysed")
	}
}

func TestMemberChains(t *testing.T) {
	f := newFixture(t)
	b := f.b
	cast := b.Field(b.Paren(b.As(b.Ident("item"), "Rectangle")), "color")
	doc := f.doc(b.Object("Item",
		b.Binding("a", b.ExprStmt(b.Path("a.b.c"))),
		b.Binding("b", b.ExprStmt(b.Field(b.Call(b.Path("f.g")), "h"))),
		b.Binding("c", b.ExprStmt(cast)),
		b.Binding("d", b.ExprStmt(b.Binary("+", b.Ident("x"), b.Ident("y")))),
	))
	v, _ := f.run(doc, nil)

	var got [][]string
	var types []string
	for _, sc := range v.Analysis().ChainsInOrder() {
		got = append(got, sc.Chain.Names())
		if len(sc.Chain.Links) > 1 {
			types = append(types, sc.Chain.Links[1].Type)
		}
	}
	want := [][]string{{"a", "b", "c"}, {"f", "g"}, {"item", "color"}, {"x"}, {"y"}}
	if len(got) != len(want) {
		t.Fatalf("chains = %v, want %v", got, want)
	}
	for i := range want {
		if strings.Join(got[i], ".") != strings.Join(want[i], ".") {
			t.Errorf("chain %d = %v, want %v", i, got[i], want[i])
		}
	}
	if len(types) != 3 || types[0] != "" || types[2] != "Rectangle" {
		t.Errorf("cast types = %q", types)
	}
	for _, sc := range v.Analysis().ChainsInOrder() {
		if sc.Scope != v.Analysis().RootObject {
			t.Errorf("chain %v owned by %s", sc.Chain.Names(), sc.Scope)
		}
	}
}

func TestInheritanceCycleReportedOnce(t *testing.T) {
	f := newFixture(t)
	b := f.b
	f.component("A", b.Object("B"))
	f.component("B", b.Object("C"))
	f.component("C", b.Object("A"))
	doc := f.doc(b.Object("Item", b.Object("A"), b.Object("B")))

	v, bag := f.run(doc, nil)
	cycles := withCode(bag, diag.ImpInheritanceCycle)
	if len(cycles) != 1 {
		t.Fatalf("want one cycle warning, got:\n%s", messages(bag))
	}
	msg := cycles[0].Message
	if !strings.Contains(msg, "is part of an inheritance cycle") ||
		!strings.Contains(msg, "A") || !strings.Contains(msg, "B") || !strings.Contains(msg, "C") {
		t.Errorf("message = %q", msg)
	}
	if len(withCode(bag, diag.ImpUnresolvedType)) != 0 {
		t.Errorf("cycle reported as unresolved type")
	}
	if v.Check() {
		t.Errorf("Check passed despite the cycle")
	}
	if len(v.UnknownImports()) == 0 {
		t.Errorf("cycle member not recorded as unknown")
	}

	_, bag = f.run(f.doc(b.Object("A")), func(o *Options) { o.WarnInheritanceCycle = false })
	if len(withCode(bag, diag.ImpInheritanceCycle)) != 0 {
		t.Errorf("cycle warning not gated")
	}
}

func TestUnresolvedBaseType(t *testing.T) {
	f := newFixture(t)
	b := f.b
	v, bag := f.run(f.doc(b.Object("Item", b.Object("Gadget"))), nil)

	got := withCode(bag, diag.ImpUnresolvedType)
	if len(got) != 1 || got[0].Message != "Gadget was not found. Did you add all import paths?" {
		t.Fatalf("diagnostics:\n%s", messages(bag))
	}
	if len(withCode(bag, diag.ImpInheritanceCycle)) != 0 {
		t.Errorf("unexpected cycle warning")
	}
	if u := v.UnknownImports(); len(u) != 1 || u[0] != "Gadget" {
		t.Errorf("unknown imports = %v", u)
	}
	if v.Check() {
		t.Errorf("Check passed with an unresolved base")
	}
}

func TestUnresolvedBaseTwoHops(t *testing.T) {
	f := newFixture(t)
	b := f.b
	f.component("Panel", b.Object("Frame"))
	f.component("Frame", b.Object("Missing"))
	v, bag := f.run(f.doc(b.Object("Item", b.Object("Panel"))), nil)

	got := withCode(bag, diag.ImpUnresolvedType)
	if len(got) != 1 || got[0].Message != "Missing was not found. Did you add all import paths?" {
		t.Fatalf("diagnostics:\n%s", messages(bag))
	}
	if len(withCode(bag, diag.ImpInheritanceCycle)) != 0 {
		t.Errorf("unexpected cycle warning")
	}
	if u := v.UnknownImports(); len(u) != 1 || u[0] != "Missing" {
		t.Errorf("unknown imports = %v", u)
	}
	if v.Check() {
		t.Errorf("Check passed with an unresolved base two levels up")
	}
}

func TestCyclicScopesRecordedByIdentity(t *testing.T) {
	f := newFixture(t)
	v, _ := f.run(f.doc(f.b.Object("Item")), nil)

	first := scope.NewType("Loop", "Loop")
	first.SetBaseType(first)
	second := scope.NewType("Loop", "Loop")
	second.SetBaseType(second)

	v.markCyclic(first)
	v.markCyclic(first)
	v.markCyclic(second)
	if u := v.UnknownImports(); len(u) != 2 {
		t.Errorf("unknown imports = %v, want one entry per cyclic scope", u)
	}

	v.markUnresolved("Gone")
	v.markUnresolved("Gone")
	if u := v.UnknownImports(); len(u) != 3 || u[2] != "Gone" {
		t.Errorf("unknown imports = %v", u)
	}
}

type recordingChecker struct {
	calls int
	got   *Analysis
	ok    bool
}

func (c *recordingChecker) Check(a *Analysis) bool {
	c.calls++
	c.got = a
	return c.ok
}

func TestCheckRunsQualifier(t *testing.T) {
	f := newFixture(t)
	b := f.b
	doc := f.doc(b.Object("Item", b.ID("root")))

	rc := &recordingChecker{ok: false}
	v, _ := f.run(doc, func(o *Options) { o.Qualifier = rc })
	if v.Check() {
		t.Errorf("Check ignored the qualifier result")
	}
	if rc.calls != 1 || rc.got.RootID != "root" {
		t.Errorf("qualifier calls=%d analysis=%+v", rc.calls, rc.got)
	}

	rc = &recordingChecker{ok: false}
	v, _ = f.run(f.doc(b.Object("Item")), func(o *Options) {
		o.Qualifier = rc
		o.WarnUnqualified = false
	})
	if !v.Check() || rc.calls != 0 {
		t.Errorf("qualifier ran with unqualified warnings off")
	}

	rc = &recordingChecker{ok: true}
	v, _ = f.run(f.doc(b.Object("Nope")), func(o *Options) { o.Qualifier = rc })
	if v.Check() || rc.calls != 0 {
		t.Errorf("qualifier ran on a poisoned analysis")
	}
}
