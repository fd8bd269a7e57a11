package lint

import (
	"qmllint/internal/ast"
	"qmllint/internal/scope"
)

// intrinsics are the names the JavaScript engine defines globally.
var intrinsics = []string{
	"Array", "ArrayBuffer", "Atomics", "Boolean", "DataView", "Date",
	"Error", "EvalError", "Float32Array", "Float64Array", "Function",
	"Infinity", "Int16Array", "Int32Array", "Int8Array", "JSON", "Map",
	"Math", "NaN", "Number", "Object", "Promise", "Proxy", "RangeError",
	"ReferenceError", "Reflect", "RegExp", "Set", "SharedArrayBuffer",
	"String", "Symbol", "SyntaxError", "TypeError", "URIError",
	"Uint16Array", "Uint32Array", "Uint8Array", "Uint8ClampedArray",
	"WeakMap", "WeakSet", "decodeURI", "decodeURIComponent",
	"encodeURI", "encodeURIComponent", "escape", "eval", "isFinite",
	"isNaN", "parseFloat", "parseInt", "undefined", "unescape",
}

// hostGlobals are provided by the QML engine on top of the intrinsics.
var hostGlobals = []string{
	// console/debug
	"console", "print",
	// garbage collector
	"gc",
	// i18n
	"qsTr", "qsTrId", "QT_TR_NOOP", "QT_TRANSLATE_NOOP", "QT_TRID_NOOP",
	"XMLHttpRequest",
}

func seedGlobals(global *scope.Scope) {
	id := scope.Identifier{Kind: scope.LexicalScoped}
	for _, name := range intrinsics {
		global.InsertJSIdentifier(name, id)
	}
	for _, name := range hostGlobals {
		global.InsertJSIdentifier(name, id)
	}
}

func declKind(s ast.VarScope) scope.IdentKind {
	if s == ast.VarScopeVar {
		return scope.FunctionScoped
	}
	return scope.LexicalScoped
}

func (v *Visitor) declareVariables(list *ast.Node) {
	for _, elem := range list.Children {
		if !elem.Is(ast.KindPatternElement) {
			continue
		}
		v.declarePattern(elem)
	}
}

func (v *Visitor) declarePattern(elem *ast.Node) {
	kind := declKind(elem.Scope)
	for _, name := range elem.BoundNames() {
		v.current.InsertJSIdentifier(name, scope.Identifier{Kind: kind, Loc: elem.Loc})
	}
}

func (v *Visitor) declareParameters(params *ast.Node) {
	for _, name := range params.BoundNames() {
		v.current.InsertJSIdentifier(name, scope.Identifier{Kind: scope.Parameter, Loc: params.Loc})
	}
}

func (v *Visitor) declareCatchParameter(catch *ast.Node) {
	param := catch.Child(0)
	if !param.Is(ast.KindPatternElement) {
		return
	}
	for _, name := range param.BoundNames() {
		v.current.InsertJSIdentifier(name, scope.Identifier{Kind: scope.LexicalScoped, Loc: param.Loc})
	}
}

// enterFunction registers a named function or class in the enclosing scope
// and opens its body scope.
func (v *Visitor) enterFunction(n *ast.Node) {
	if n.Name == "" {
		v.enter(scope.KindFunction, "<anon>")
		return
	}
	if v.current.Kind == scope.KindTypedObject {
		v.current.AddMethod(scope.Method{Name: n.Name, Kind: scope.MethodPlain, ReturnType: "void"})
	} else {
		v.current.InsertJSIdentifier(n.Name, scope.Identifier{Kind: scope.LexicalScoped, Loc: n.Loc})
	}
	v.enter(scope.KindFunction, n.Name)
}
