package trace

import (
	"sync/atomic"
	"time"
)

var (
	globalSeq   uint64
	globalSpans uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 {
	return atomic.AddUint64(&globalSpans, 1)
}

// Span tracks one logical operation from Begin to End. Spans opened for a
// document tag every event below them with its path, so interleaved events
// of parallel documents stay attributable.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	doc      string
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
}

// Begin starts a new run-wide span and emits SpanBegin event.
// parent is the parent span ID (0 if root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, "", parent)
}

// BeginDocument starts the span of one document; name is its path.
func BeginDocument(t Tracer, path string, parent uint64) *Span {
	return begin(t, ScopeFile, path, path, parent)
}

// Detached returns a span that emits nothing itself but parents the
// children and points of doc. It is the default for a lint visitor that
// was not given a document span.
func Detached(t Tracer, doc string) *Span {
	if t == nil {
		t = Nop
	}
	return &Span{tracer: t, doc: doc}
}

func begin(t Tracer, scope Scope, name, doc string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: orNop(t), doc: doc, parentID: parent}
	}

	id := NextSpanID()
	now := time.Now()
	t.Emit(&Event{
		Time:     now,
		Seq:      NextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   id,
		ParentID: parent,
		Doc:      doc,
		Name:     name,
	})

	return &Span{
		tracer:   t,
		id:       id,
		parentID: parent,
		doc:      doc,
		scope:    scope,
		name:     name,
		started:  now,
	}
}

func orNop(t Tracer) Tracer {
	if t == nil {
		return Nop
	}
	return t
}

// Child starts a span nested under s for the same document.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil {
		return &Span{tracer: Nop}
	}
	return begin(s.tracer, scope, name, s.doc, s.parent())
}

// parent is the ID children attach to: s itself when it was emitted,
// otherwise whatever s would have been attached to.
func (s *Span) parent() uint64 {
	if s.id != 0 {
		return s.id
	}
	return s.parentID
}

// End emits SpanEnd event and returns the duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}

	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Doc:      s.doc,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for spans that were not emitted.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Doc returns the document the span belongs to.
func (s *Span) Doc() string {
	if s == nil {
		return ""
	}
	return s.doc
}

// Emits reports whether points of the given scope would reach the tracer.
func (s *Span) Emits(scope Scope) bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled() && s.tracer.Level().ShouldEmit(scope)
}

// Point emits an instant event under s.
func (s *Span) Point(scope Scope, name, detail string) {
	if s == nil {
		return
	}
	emitPoint(s.tracer, scope, name, detail, s.doc, s.parent())
}

// Point emits a run-wide instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	emitPoint(t, scope, name, detail, "", parent)
}

func emitPoint(t Tracer, scope Scope, name, detail, doc string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Doc:      doc,
		Name:     name,
		Detail:   detail,
	})
}
