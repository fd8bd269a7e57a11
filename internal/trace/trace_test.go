package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DEBUG"); err != nil || l != LevelDebug {
		t.Fatalf("ParseLevel(DEBUG) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "lint", 0)
	Begin(tr, ScopeFile, "file:Main.qml", span.ID()).End("")
	span.WithExtra("files", "1").End("ok")

	out := buf.String()
	if strings.Contains(out, "Main.qml") {
		t.Errorf("file scope leaked at phase level:\n%s", out)
	}
	if !strings.Contains(out, "pass lint (ok) {files=1}") {
		t.Errorf("missing span end:\n%s", out)
	}
}

func TestRingTracerWrapsAndMultiFansOut(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	var buf bytes.Buffer
	multi := NewMultiTracer(LevelDebug, NewStreamTracer(&buf, LevelDebug, FormatNDJSON), ring)

	for _, name := range []string{"a", "b", "c"} {
		Point(multi, ScopeNode, name, "", 0)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("stream got %q", buf.String())
	}
	if multi.Ring() != ring {
		t.Fatalf("Ring() did not find ring tracer")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	span := Begin(FromContext(ctx), ScopeDriver, "check", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() || span.ID() == 0 {
		t.Fatalf("span id not propagated")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
}

func TestDocumentSpansTagEvents(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	file := BeginDocument(ring, "/src/views/Main.qml.json", 0)
	walk := file.Child(ScopePass, "walk")
	walk.Point(ScopeNode, "enter", "Item")
	walk.End("ok")
	file.End("ok")

	events := ring.Snapshot()
	if len(events) != 5 {
		t.Fatalf("events = %d, want 5", len(events))
	}
	for _, ev := range events {
		if ev.Doc != "/src/views/Main.qml.json" {
			t.Errorf("%s %s: doc = %q", ev.Kind, ev.Name, ev.Doc)
		}
	}
	if events[1].ParentID != file.ID() || events[2].ParentID != walk.ID() {
		t.Fatalf("parents = %d, %d", events[1].ParentID, events[2].ParentID)
	}

	text := string(FormatEvent(&events[2], FormatText))
	if !strings.Contains(text, "node enter [Main.qml.json] (Item)") {
		t.Errorf("text = %q", text)
	}
	if js := string(FormatEvent(&events[2], FormatNDJSON)); !strings.Contains(js, `"doc":"/src/views/Main.qml.json"`) {
		t.Errorf("ndjson = %q", js)
	}
}

func TestDetachedSpanParentsWithoutEmitting(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	root := Detached(ring, "Main.qml.json")
	root.Point(ScopeNode, "leave", "")
	root.Child(ScopePass, "qualifiers").End("ok")
	if d := root.End("ignored"); d != 0 {
		t.Fatalf("detached End returned %v", d)
	}

	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for _, ev := range events {
		if ev.ParentID != 0 || ev.Doc != "Main.qml.json" {
			t.Errorf("event %+v", ev)
		}
	}

	if !root.Emits(ScopeNode) {
		t.Errorf("debug span does not emit node points")
	}
	if Detached(NewRingTracer(1, LevelPhase), "x").Emits(ScopeNode) {
		t.Errorf("phase span emits node points")
	}

	var nilSpan *Span
	if nilSpan.Emits(ScopeDriver) {
		t.Errorf("nil span emits")
	}
	nilSpan.Point(ScopeNode, "enter", "")
	if nilSpan.Child(ScopePass, "x").ID() != 0 || nilSpan.Doc() != "" {
		t.Fatalf("nil span emitted")
	}
}
