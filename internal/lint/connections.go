package lint

import (
	"strings"

	"qmllint/internal/ast"
	"qmllint/internal/scope"
	"qmllint/internal/trace"
)

// relaySuffix marks objects forwarding another object's signals.
const relaySuffix = "Connections"

// outstandingConnection is a relay object whose target id had not been
// seen when the object was visited.
type outstandingConnection struct {
	target string
	scope  *scope.Scope
	node   *ast.Node
	depth  int
}

func isRelay(typeName string) bool {
	return strings.HasSuffix(typeName, relaySuffix)
}

// relayTarget returns the bare identifier bound to `target:`, or "" when
// the binding is absent or not a bare identifier.
func relayTarget(obj *ast.Node) string {
	for _, member := range obj.Children {
		if !member.Is(ast.KindScriptBinding) || member.QualifiedName() != "target" {
			continue
		}
		stmt := member.Statement()
		if !stmt.Is(ast.KindExpressionStatement) {
			return ""
		}
		if expr := stmt.Expression(); expr.Is(ast.KindIdentifier) {
			return expr.Name
		}
		// более сложные выражения не поддерживаются
		return ""
	}
	return ""
}

// connectRelay wires the relay object just entered to its target. It
// reports false when the children must wait for the deferred pass.
func (v *Visitor) connectRelay(obj *ast.Node) bool {
	name := relayTarget(obj)
	var target *scope.Scope
	if name == "" {
		// implicit target: the enclosing object
		target = v.current.ObjectParent
	} else if s, ok := v.ids[name]; ok {
		target = s
	} else {
		// during the deferred pass every id is known; a missing target
		// stays unmatched without diagnostics
		if !v.deferred {
			v.outstanding = append(v.outstanding, outstandingConnection{
				target: name, scope: v.current, node: obj, depth: v.depth - 1,
			})
		}
		return false
	}
	if target != nil {
		v.current.AddMethods(target.Methods())
	}
	return true
}

// resolveOutstanding revisits relay objects whose target is now known.
// The list is consumed exactly once; relays met during the sweep are never
// queued again.
func (v *Visitor) resolveOutstanding() {
	pending := v.outstanding
	v.outstanding = nil
	if len(pending) == 0 {
		return
	}
	span := v.span.Child(trace.ScopePass, "deferred")
	defer span.End("")

	v.deferred = true
	defer func() { v.deferred = false }()

	for _, oc := range pending {
		target, known := v.ids[oc.target]
		if !known {
			continue
		}
		if target != nil {
			oc.scope.AddMethods(target.Methods())
		}
		saved, savedDepth := v.current, v.depth
		v.current, v.depth = oc.scope, oc.depth+1
		ast.WalkChildren(v, oc.node, oc.depth)
		v.current, v.depth = saved, savedDepth
	}
}
