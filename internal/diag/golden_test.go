package diag

import (
	"testing"

	"qmllint/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")

	userFile := fs.Add("/workspace/qml/Main.qml", []byte("a\nb\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevWarning,
			Code:     QualUnqualifiedAccess,
			Message:  "unqualified access\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevError,
			Code:     ImpInheritanceCycle,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "warning QUA3001 qml/Main.qml:1:1 unqualified access second\n" +
		"error IMP1002 qml/Main.qml:2:1 another\n" +
		"note QUA3001 qml/Main.qml:2:1 note line"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatGoldenUsesParserPositionWithoutText(t *testing.T) {
	fs := source.NewFileSetWithBase("/w")
	id := fs.AddPlaceholder("/w/Main.qml")
	d := New(SevWarning, LintWithStatement, source.Span{File: id, Start: 99, End: 103, Pos: source.LineCol{Line: 7, Col: 3}}, "with")

	if got := FormatGoldenDiagnostics([]*Diagnostic{d}, fs, false); got != "warning LNT2002 Main.qml:7:3 with" {
		t.Fatalf("got %q", got)
	}
}
