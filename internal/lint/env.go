package lint

import (
	"fmt"

	"qmllint/internal/scope"
	"qmllint/internal/trace"
)

// enter creates a scope below the current one and makes it current.
func (v *Visitor) enter(kind scope.Kind, name string) *scope.Scope {
	s := scope.New(kind, v.current)
	s.BaseTypeName = name
	s.Composite = true
	v.current = s
	v.span.Point(trace.ScopeNode, "enter", s.Path())
	return s
}

// leave restores the lexical parent. Popping the global scope means the
// walk delivered unbalanced events.
func (v *Visitor) leave() {
	if v.current == v.global || v.current.Parent == nil {
		panic(fmt.Sprintf("lint: leave past the document root (current %s)", v.current))
	}
	if v.span.Emits(trace.ScopeNode) {
		idents, props, methods, enums := v.current.Stats()
		v.span.Point(trace.ScopeNode, "leave", fmt.Sprintf("%s idents=%d props=%d methods=%d enums=%d",
			v.current.Path(), idents, props, methods, enums))
	}
	v.current = v.current.Parent
}

// Current returns the scope the walk is in.
func (v *Visitor) Current() *scope.Scope { return v.current }
