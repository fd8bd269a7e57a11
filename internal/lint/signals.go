package lint

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"qmllint/internal/ast"
	"qmllint/internal/diag"
	"qmllint/internal/scope"
)

// pendingHandler is a matched handler waiting for its body scope.
type pendingHandler struct {
	loc     ast.Loc
	handler SignalHandler
}

// SignalName converts a handler binding name to the signal it handles:
// onClicked -> clicked, on_Foo -> _foo. It returns "" for names that are not
// handlers (onclicked, on, enabled).
func SignalName(handler string) string {
	rest, ok := strings.CutPrefix(handler, "on")
	if !ok || rest == "" {
		return ""
	}
	for i, r := range rest {
		if unicode.IsLower(r) {
			return ""
		}
		if unicode.IsUpper(r) {
			return rest[:i] + string(unicode.ToLower(r)) + rest[i+utf8.RuneLen(r):]
		}
	}
	return ""
}

// HandlerName is the inverse of SignalName for signals starting with a letter.
func HandlerName(signal string) string {
	return "on" + cases.Title(language.Und, cases.NoLower).String(signal)
}

// matchHandler handles a script binding that may be a signal handler.
func (v *Visitor) matchHandler(binding *ast.Node) {
	name := binding.QualifiedName()
	signal := SignalName(name)
	if signal == "" {
		return
	}

	method, ok := v.current.Signal(signal)
	if !ok {
		if v.opts.WarnUnqualified {
			b := diag.ReportWarning(v.reporter, diag.LintNoMatchingSignal, binding.Loc.Span(v.file),
				fmt.Sprintf("no matching signal found for handler %q", name))
			if available := v.availableHandlers(); available != "" {
				b.WithNote(binding.Loc.Span(v.file), "available handlers: "+available)
			}
			b.Emit()
		}
		return
	}

	stmt := binding.Statement()
	if stmt == nil {
		return
	}
	if stmt.Is(ast.KindExpressionStatement) && stmt.Expression().IsFunctionDefinition() {
		// function literals declare their own parameters
		return
	}

	first := stmt.Loc
	h := SignalHandler{
		Signal:    method,
		Multiline: stmt.LastLoc().Line > first.Line,
	}
	v.handlers[first] = h
	v.pending = &pendingHandler{loc: first, handler: h}
}

// flushPending injects the pending handler's parameters into the scope just
// entered.
func (v *Visitor) flushPending() {
	p := v.pending
	if p == nil {
		return
	}
	v.pending = nil
	for _, param := range p.handler.Signal.Params {
		v.current.InsertJSIdentifier(param.Name, scope.Identifier{Kind: scope.Injected, Loc: p.loc})
	}
}

func (v *Visitor) availableHandlers() string {
	signals := v.current.Signals()
	if len(signals) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(signals))
	names := make([]string, 0, len(signals))
	for _, s := range signals {
		h := HandlerName(s.Name)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		names = append(names, h)
	}
	return strings.Join(names, ", ")
}
