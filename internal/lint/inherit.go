package lint

import (
	"fmt"
	"strings"

	"qmllint/internal/diag"
	"qmllint/internal/scope"
	"qmllint/internal/source"
)

// importExportedNames flattens the members of s's base chain into the
// current scope. Scopes are compared by identity; a repeated scope means the
// chain is cyclic.
func (v *Visitor) importExportedNames(s *scope.Scope, at source.Span) {
	var visited []*scope.Scope
	for s != nil {
		if i := indexOf(visited, s); i >= 0 {
			v.reportCycle(s, visited[i:], at)
			v.markCyclic(s)
			v.failed = true
			return
		}
		visited = append(visited, s)

		for _, p := range s.Properties() {
			v.current.InsertProperty(p)
		}
		v.current.AddMethods(s.Methods())

		if s.BaseTypeName == "" {
			return
		}
		base := s.BaseType()
		if base == nil {
			diag.ReportWarning(v.reporter, diag.ImpUnresolvedType, at,
				s.BaseTypeName+" was not found. Did you add all import paths?").Emit()
			v.markUnresolved(s.BaseTypeName)
			v.failed = true
			return
		}
		s = base
	}
}

// reportCycle reports each cycle once, however many objects run into it.
func (v *Visitor) reportCycle(s *scope.Scope, cycle []*scope.Scope, at source.Span) {
	for _, member := range cycle {
		if _, seen := v.cycles[member]; seen {
			return
		}
	}
	for _, member := range cycle {
		v.cycles[member] = struct{}{}
	}
	if !v.opts.WarnInheritanceCycle {
		return
	}
	names := make([]string, len(cycle))
	for i, member := range cycle {
		names[i] = member.Name()
	}
	diag.ReportWarning(v.reporter, diag.ImpInheritanceCycle, at,
		fmt.Sprintf("%s is part of an inheritance cycle: %s", s.Name(), strings.Join(names, " -> "))).Emit()
}

// unknownKey identifies an unknown import: cyclic scopes by identity,
// unresolved bases by the name that failed to resolve.
type unknownKey struct {
	scope *scope.Scope
	name  string
}

func (v *Visitor) markCyclic(s *scope.Scope) {
	v.markUnknown(unknownKey{scope: s}, s.Name())
}

func (v *Visitor) markUnresolved(name string) {
	v.markUnknown(unknownKey{name: name}, name)
}

func (v *Visitor) markUnknown(key unknownKey, name string) {
	if _, ok := v.unknownSet[key]; ok {
		return
	}
	v.unknownSet[key] = struct{}{}
	v.unknownImports = append(v.unknownImports, name)
}

func indexOf(list []*scope.Scope, s *scope.Scope) int {
	for i, x := range list {
		if x == s {
			return i
		}
	}
	return -1
}
