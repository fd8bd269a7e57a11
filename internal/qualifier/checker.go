// Package qualifier judges the member-access chains recorded by the lint
// pass: every chain must start at a name the document can see, and links
// after a typed start must exist on that type.
package qualifier

import (
	"fmt"
	"strings"

	"qmllint/internal/ast"
	"qmllint/internal/diag"
	"qmllint/internal/lint"
	"qmllint/internal/scope"
	"qmllint/internal/source"
)

// Checker implements lint.QualifierChecker.
type Checker struct {
	// NoMembers disables the per-link member check; only the first link of
	// each chain is resolved.
	NoMembers bool
}

var _ lint.QualifierChecker = (*Checker)(nil)

// Check walks the chains in recording order. It fails when any warning was
// produced.
func (c *Checker) Check(a *lint.Analysis) bool {
	r := run{
		Checker:  c,
		a:        a,
		reporter: a.Reporter,
	}
	if r.reporter == nil {
		r.reporter = diag.NopReporter{}
	}
	for _, sc := range a.ChainsInOrder() {
		r.chain(sc.Scope, sc.Chain)
	}
	return !r.warned
}

type run struct {
	*Checker
	a        *lint.Analysis
	reporter diag.Reporter
	warned   bool
}

// resolution is where the first link of a chain was found.
type resolution uint8

const (
	unresolved resolution = iota
	resolvedJS
	resolvedID
	resolvedType
	resolvedMember
)

func (r *run) chain(owner *scope.Scope, c *lint.Chain) {
	if len(c.Links) == 0 {
		return
	}
	first := c.Links[0]
	how, typ := r.resolveFirst(owner, first)
	if how == unresolved {
		r.unqualified(first)
		return
	}
	if how == resolvedJS || typ == nil || r.NoMembers {
		return
	}
	r.members(typ, c.Links[1:])
}

func (r *run) resolveFirst(owner *scope.Scope, link lint.FieldMember) (resolution, *scope.Scope) {
	name := link.Name

	if id, ok := owner.FindJSIdentifier(name); ok {
		if id.Kind == scope.Injected {
			r.injected(link, id)
		}
		return resolvedJS, nil
	}

	if s, ok := r.a.IDs[name]; ok {
		return resolvedID, s
	}

	if s, ok := r.a.Types[name]; ok {
		return resolvedType, s
	}

	if obj := owner.NearestTypedObject(); obj != nil {
		if decl, ok := obj.Lookup(name); ok {
			if p, ok := decl.Property(name); ok {
				return resolvedMember, p.Type
			}
			return resolvedMember, nil
		}
	}
	return unresolved, nil
}

// members checks every link after the first against the type reached so
// far. Checking stops at the first link whose type is unknown.
func (r *run) members(typ *scope.Scope, links []lint.FieldMember) {
	for _, link := range links {
		if link.Type != "" {
			cast, ok := r.a.Types[link.Type]
			if !ok || cast == nil {
				return
			}
			typ = cast
		}
		decl, ok := typ.Lookup(link.Name)
		if !ok {
			r.warn(diag.ReportWarning(r.reporter, diag.QualMissingProperty, r.span(link.Loc),
				fmt.Sprintf("Property %q not found on type %q", link.Name, typ.Name())))
			return
		}
		p, ok := decl.Property(link.Name)
		if !ok || p.Type == nil {
			// methods, enums and value-typed properties end the check
			return
		}
		typ = p.Type
	}
}

func (r *run) unqualified(link lint.FieldMember) {
	b := diag.ReportWarning(r.reporter, diag.QualUnqualifiedAccess, r.span(link.Loc),
		fmt.Sprintf("unqualified access to %q", link.Name))
	root := r.a.RootObject
	if root != nil {
		if _, ok := root.Lookup(link.Name); ok {
			if r.a.RootID == "" || r.a.RootID == lint.DefaultRootID {
				b.WithNote(r.span(link.Loc), fmt.Sprintf(
					"%s is a member of the root object; give the root object an id to qualify it", link.Name))
			} else {
				qualified := r.a.RootID + "." + link.Name
				b.WithNote(r.span(link.Loc), fmt.Sprintf("you can fix this by replacing %s with %s", link.Name, qualified)).
					WithFix("qualify with "+r.a.RootID, diag.FixEdit{Span: r.span(link.Loc), NewText: qualified})
			}
		}
	}
	r.warn(b)
}

func (r *run) injected(link lint.FieldMember, id scope.Identifier) {
	b := diag.ReportWarning(r.reporter, diag.QualInjectedParameter, r.span(link.Loc), fmt.Sprintf(
		"Parameter %q is not declared. Injection of parameters into signal handlers is deprecated. "+
			"Use JavaScript functions with formal parameters instead.", link.Name))
	if h, ok := r.a.Handlers[id.Loc]; ok {
		b.WithNote(r.span(id.Loc), "consider using "+rewrite(h))
	}
	r.warn(b)
}

// rewrite proposes the handler as an explicit function.
func rewrite(h lint.SignalHandler) string {
	params := strings.Join(h.Signal.ParamNames(), ", ")
	if h.Multiline {
		return "function(" + params + ") { ... }"
	}
	return "(" + params + ") => ..."
}

func (r *run) warn(b *diag.ReportBuilder) {
	b.Emit()
	r.warned = true
}

func (r *run) span(loc ast.Loc) source.Span {
	return loc.Span(r.a.File)
}
