package diag

import (
	"testing"

	"qmllint/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(New(SevWarning, LintWithStatement, source.Span{Start: 10}, "b")) {
		t.Fatal("first add rejected")
	}
	if !bag.Add(New(SevError, ImpUnresolvedType, source.Span{Start: 1}, "a")) {
		t.Fatal("second add rejected")
	}
	if bag.Add(New(SevInfo, LintInfo, source.Span{}, "c")) {
		t.Fatal("limit not enforced")
	}

	bag.Sort()
	if bag.Items()[0].Message != "a" {
		t.Errorf("expected earliest span first, got %q", bag.Items()[0].Message)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Errorf("HasErrors/HasWarnings mismatch")
	}
}

func TestBagDedupAndFilter(t *testing.T) {
	bag := NewBag(0)
	sp := source.Span{Start: 3, End: 5}
	bag.Add(New(SevWarning, QualUnqualifiedAccess, sp, "x"))
	bag.Add(New(SevWarning, QualUnqualifiedAccess, sp, "x"))
	bag.Add(New(SevHint, QualInfo, sp, "y"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Dedup left %d items", bag.Len())
	}
	bag.Filter(func(d *Diagnostic) bool { return d.Severity >= SevWarning })
	if bag.Len() != 1 || bag.HasErrors() {
		t.Fatalf("Filter left %d items", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	counter := &CountingReporter{Next: NewDedupReporter(BagReporter{Bag: bag})}

	b := ReportWarning(counter, QualUnqualifiedAccess, source.Span{Start: 1, End: 2}, "unqualified").
		WithNote(source.Span{Start: 0}, "note").
		WithFix("qualify", FixEdit{Span: source.Span{Start: 1, End: 1}, NewText: "root."})
	b.Emit()
	b.Emit()
	ReportWarning(counter, QualUnqualifiedAccess, source.Span{Start: 1, End: 2}, "unqualified").Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic after dedup, got %d", bag.Len())
	}
	if counter.Count(SevWarning) != 2 {
		t.Fatalf("counter saw %d warnings, want 2", counter.Count(SevWarning))
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "root." {
		t.Fatalf("notes/fixes lost: %+v", d)
	}
	NopReporter{}.Report(UnknownCode, SevError, source.Span{}, "", nil, nil)
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		ImpInheritanceCycle:   "IMP1002",
		LintNoMatchingSignal:  "LNT2001",
		QualUnqualifiedAccess: "QUA3001",
		IOLoadFileError:       "IO4001",
	}
	for c, want := range cases {
		if c.ID() != want {
			t.Errorf("%d.ID() = %q, want %q", c, c.ID(), want)
		}
	}
	if QualMissingProperty.Title() == UnknownCode.Title() {
		t.Errorf("missing description for QualMissingProperty")
	}
}
