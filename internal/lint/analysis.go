package lint

import (
	"qmllint/internal/ast"
	"qmllint/internal/diag"
	"qmllint/internal/importer"
	"qmllint/internal/scope"
	"qmllint/internal/source"
)

// FieldMember is one link of a member-access chain. Type is the cast type
// applied to the previous link (`(a as T).b`), if any.
type FieldMember struct {
	Name string
	Type string
	Loc  ast.Loc
}

// Chain is a qualifier chain rooted at a bare identifier.
type Chain struct {
	Origin *ast.Node
	Links  []FieldMember
}

// Names returns the accessed names in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.Links))
	for i, l := range c.Links {
		names[i] = l.Name
	}
	return names
}

// SignalHandler is what a handler binding matched.
type SignalHandler struct {
	Signal scope.Method
	// Multiline is set when the handler body spans several lines.
	Multiline bool
}

// Analysis is the state handed to the qualifier checker.
type Analysis struct {
	File source.FileID
	Path string

	// Global holds the engine and host globals; Program is the document
	// scope below it; RootObject is the document's root object, if any.
	Global     *scope.Scope
	Program    *scope.Scope
	RootObject *scope.Scope
	RootID     string

	IDs     map[string]*scope.Scope
	IDOrder []string

	Handlers map[ast.Loc]SignalHandler

	Chains      map[*scope.Scope][]*Chain
	ChainScopes []*scope.Scope

	Types    importer.Types
	Reporter diag.Reporter
}

// ChainsInOrder lists every chain grouped by owning scope, scopes in the
// order their first chain was recorded.
func (a *Analysis) ChainsInOrder() []ScopedChain {
	var out []ScopedChain
	for _, s := range a.ChainScopes {
		for _, c := range a.Chains[s] {
			out = append(out, ScopedChain{Scope: s, Chain: c})
		}
	}
	return out
}

// ScopedChain pairs a chain with its owning scope.
type ScopedChain struct {
	Scope *scope.Scope
	Chain *Chain
}
