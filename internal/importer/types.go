package importer

import (
	"sort"

	"qmllint/internal/scope"
)

// Types maps (possibly prefixed) type names to their scopes.
type Types map[string]*scope.Scope

// Merge copies every entry of other into t, overriding existing names.
func (t Types) Merge(other Types) {
	for name, s := range other {
		t[name] = s
	}
}

// Names returns the type names in sorted order.
func (t Types) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve binds the base and property types of every scope in t against t.
// Bindings made earlier are kept.
func (t Types) Resolve() {
	for _, name := range t.Names() {
		if s := t[name]; s != nil {
			s.ResolveTypes(t)
		}
	}
}

// Lookup returns the scope registered for name, if any. A present name with
// a nil scope (the document's own name) reports ok.
func (t Types) Lookup(name string) (*scope.Scope, bool) {
	s, ok := t[name]
	return s, ok
}

func (t Types) prefixed(prefix string) Types {
	if prefix == "" {
		return t
	}
	out := make(Types, len(t))
	for name, s := range t {
		out[prefix+"."+name] = s
	}
	return out
}
