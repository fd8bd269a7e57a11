// Package lint builds the scope graph of a QML document while it is walked
// and reports handler, inheritance and with-statement problems. The
// qualifier checker runs on the result in Check.
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qmllint/internal/ast"
	"qmllint/internal/diag"
	"qmllint/internal/importer"
	"qmllint/internal/scope"
	"qmllint/internal/source"
	"qmllint/internal/trace"
)

// DefaultRootID stands in for the root id until the root object declares one.
const DefaultRootID = "<id>"

// Visitor is a single analysis run over one document. It implements
// ast.Visitor and ast.DepthLimiter.
type Visitor struct {
	opts     Options
	doc      *ast.Document
	file     source.FileID
	reporter diag.Reporter
	importer *importer.Importer
	span     *trace.Span

	global     *scope.Scope
	program    *scope.Scope
	rootObject *scope.Scope
	current    *scope.Scope
	types      importer.Types

	ids     map[string]*scope.Scope
	idOrder []string
	rootID  string

	handlers     map[ast.Loc]SignalHandler
	pending      *pendingHandler
	handlerStmts map[*ast.Node]struct{}

	outstanding []outstandingConnection
	deferred    bool
	// number of nodes entered and not yet left
	depth int

	chains      map[*scope.Scope][]*Chain
	chainScopes []*scope.Scope
	tail        *ast.Node
	tailChain   *Chain

	unknownImports []string
	unknownSet     map[unknownKey]struct{}
	cycles         map[*scope.Scope]struct{}

	failed        bool
	depthReported bool
}

var (
	_ ast.Visitor      = (*Visitor)(nil)
	_ ast.DepthLimiter = (*Visitor)(nil)
)

// New prepares an analysis of doc whose positions belong to file.
func New(doc *ast.Document, file source.FileID, opts Options) *Visitor {
	reporter := opts.Reporter
	if reporter == nil || opts.Silent {
		reporter = diag.NopReporter{}
	}
	docPath := ""
	if doc != nil {
		docPath = doc.Path
	}
	im := opts.Importer
	if im == nil {
		var imOpts []importer.Option
		if opts.Cache != nil {
			imOpts = append(imOpts, importer.WithCache(opts.Cache))
		}
		im = importer.New(opts.ImportPaths, imOpts...)
	}

	global := scope.New(scope.KindDocumentRoot, nil)
	global.InternalName = "global"
	seedGlobals(global)

	return &Visitor{
		opts:         opts,
		doc:          doc,
		file:         file,
		reporter:     reporter,
		importer:     im,
		span:         trace.Detached(opts.Tracer, docPath),
		global:       global,
		current:      global,
		types:        make(importer.Types),
		ids:          make(map[string]*scope.Scope),
		rootID:       DefaultRootID,
		handlers:     make(map[ast.Loc]SignalHandler),
		handlerStmts: make(map[*ast.Node]struct{}),
		chains:       make(map[*scope.Scope][]*Chain),
		unknownSet:   make(map[unknownKey]struct{}),
		cycles:       make(map[*scope.Scope]struct{}),
	}
}

// SetTraceSpan nests the visitor's trace events under the document span.
func (v *Visitor) SetTraceSpan(span *trace.Span) {
	if span != nil {
		v.span = span
	}
}

// Run walks the whole document.
func (v *Visitor) Run() {
	if v.doc == nil {
		return
	}
	ast.Walk(v, v.doc.Root)
}

// Failed reports whether the analysis was poisoned.
func (v *Visitor) Failed() bool { return v.failed }

// UnknownImports lists unresolved or cyclic type names in discovery order.
func (v *Visitor) UnknownImports() []string { return v.unknownImports }

// Global returns the scope holding the globals.
func (v *Visitor) Global() *scope.Scope { return v.global }

// Types returns the names visible to the document.
func (v *Visitor) Types() importer.Types { return v.types }

func (v *Visitor) MaxDepth() int { return v.opts.MaxDepth }

func (v *Visitor) DepthExceeded(n *ast.Node) {
	v.failed = true
	if v.depthReported {
		return
	}
	v.depthReported = true
	diag.ReportError(v.reporter, diag.LintDepthExceeded, n.Loc.Span(v.file),
		"Maximum statement or expression depth exceeded").Emit()
}

func (v *Visitor) Visit(n *ast.Node) bool {
	v.depth++
	switch n.Kind {
	case ast.KindProgram:
		v.visitProgram(n)

	case ast.KindImport:
		v.visitImport(n)

	case ast.KindClassExpression, ast.KindClassDeclaration,
		ast.KindFunctionExpression, ast.KindFunctionDeclaration:
		v.enterFunction(n)

	case ast.KindFor:
		v.enter(scope.KindLexicalBlock, "forloop")
	case ast.KindForEach:
		v.enter(scope.KindLexicalBlock, "foreachloop")
	case ast.KindCaseBlock:
		v.enter(scope.KindLexicalBlock, "case")
	case ast.KindBlock:
		v.enter(scope.KindLexicalBlock, "block")
		v.flushPending()
	case ast.KindCatch:
		v.enter(scope.KindLexicalBlock, "catch")
		v.declareCatchParameter(n)
	case ast.KindWith:
		if v.opts.WarnWithStatement {
			diag.ReportWarning(v.reporter, diag.LintWithStatement, n.Loc.Span(v.file),
				"with statements are strongly discouraged in QML and might cause false positives when analysing unqualified identifiers").Emit()
		}
		v.enter(scope.KindLexicalBlock, "with")

	case ast.KindExpressionStatement:
		if v.pending != nil {
			v.enter(scope.KindFunction, "signalhandler")
			v.flushPending()
			v.handlerStmts[n] = struct{}{}
		}

	case ast.KindScriptBinding:
		v.visitScriptBinding(n)

	case ast.KindPublicMember:
		v.visitPublicMember(n)

	case ast.KindEnumDeclaration:
		v.current.AddEnum(scope.Enum{Name: n.Name, Keys: append([]string(nil), n.Keys...)})

	case ast.KindObjectBinding:
		v.visitObjectBinding(n)

	case ast.KindObjectDefinition:
		return v.visitObjectDefinition(n)

	case ast.KindVariableDeclaration:
		v.declareVariables(n)
	case ast.KindPatternElement:
		if n.IsVariableDeclaration() {
			v.declarePattern(n)
		}
	case ast.KindFormalParameters:
		v.declareParameters(n)

	case ast.KindIdentifier:
		v.startChain(n)
	}
	return true
}

func (v *Visitor) EndVisit(n *ast.Node) {
	v.depth--
	switch n.Kind {
	case ast.KindProgram,
		ast.KindClassExpression, ast.KindClassDeclaration,
		ast.KindFunctionExpression, ast.KindFunctionDeclaration,
		ast.KindFor, ast.KindForEach, ast.KindCaseBlock, ast.KindBlock,
		ast.KindCatch, ast.KindWith:
		v.leave()

	case ast.KindExpressionStatement:
		if _, ok := v.handlerStmts[n]; ok {
			delete(v.handlerStmts, n)
			v.leave()
		}

	case ast.KindScriptBinding:
		// a handler whose body opened no scope must not leak into the next binding
		v.pending = nil

	case ast.KindObjectBinding:
		v.endObjectBinding(n)

	case ast.KindObjectDefinition:
		v.endObjectDefinition()

	case ast.KindFieldMember:
		v.extendChain(n)

	case ast.KindBinary:
		v.endBinary(n)
	}
}

func (v *Visitor) visitProgram(n *ast.Node) {
	v.program = v.enter(scope.KindTypedObject, "program")

	span := v.span.Child(trace.ScopePass, "imports")
	defer span.End("")

	v.types.Merge(v.importer.ImportBuiltins())
	if len(v.opts.TypeFiles) > 0 {
		v.types.Merge(v.importer.ImportTypeFiles(v.opts.TypeFiles))
	}

	// the document itself; only the first part of a qualified name is
	// checked, so an empty entry is enough
	v.types[ast.ComponentName(v.docPath())] = nil
	v.types.Merge(v.importer.ImportDirectory(filepath.Dir(v.docPath()), ""))
	v.surfaceImporterWarnings(n.Loc)
	span.WithExtra("types", fmt.Sprint(len(v.types)))
}

func (v *Visitor) visitImport(n *ast.Node) {
	prefix := n.Alias

	if n.Name != "" {
		path := n.Name
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(v.docPath()), path)
		}
		switch {
		case isDir(path):
			v.types.Merge(v.importer.ImportDirectory(path, prefix))
		case isFile(path):
			if s := v.importer.ImportFile(path); s != nil {
				name := prefix
				if name == "" {
					name = s.InternalName
				}
				v.types[name] = s
			}
		}
	}

	if prefix != "" {
		// TODO: keep import prefixes out of the id namespace once the
		// qualifier checker resolves prefixed types on its own.
		v.addID(prefix, v.types[prefix])
	}

	if uri := n.QualifiedName(); uri != "" {
		v.types.Merge(v.importer.ImportModule(uri, prefix, n.Version))
	}
	v.surfaceImporterWarnings(n.Loc)
}

func (v *Visitor) surfaceImporterWarnings(at ast.Loc) {
	for _, w := range v.importer.TakeWarnings() {
		diag.ReportWarning(v.reporter, diag.ImpImporterWarning, at.Span(v.file), w).Emit()
	}
}

func (v *Visitor) visitScriptBinding(n *ast.Node) {
	if n.QualifiedName() != "id" {
		v.matchHandler(n)
		return
	}
	stmt := n.Statement()
	if !stmt.Is(ast.KindExpressionStatement) {
		return
	}
	ident := stmt.Expression()
	if !ident.Is(ast.KindIdentifier) {
		return
	}
	v.addID(ident.Name, v.current)
	if v.current == v.rootObject {
		v.rootID = ident.Name
	}
}

func (v *Visitor) addID(name string, s *scope.Scope) {
	if _, ok := v.ids[name]; !ok {
		v.idOrder = append(v.idOrder, name)
	}
	v.ids[name] = s
}

func (v *Visitor) visitPublicMember(n *ast.Node) {
	switch n.Member {
	case ast.MemberSignal:
		v.current.AddMethod(importer.SignalFromMember(n))
	default:
		p := importer.PropertyFromMember(n)
		p.Type = v.types[p.TypeName]
		v.current.InsertProperty(p)
	}
}

func (v *Visitor) visitObjectBinding(n *ast.Node) {
	name := n.TypeNameString()
	v.current.InsertProperty(scope.Property{
		Name:       n.QualifiedName(),
		TypeName:   name,
		IsWritable: true,
		IsPointer:  true,
		IsAlias:    name == "alias",
		Type:       v.types[firstSegment(n.TypeName)],
	})

	v.enter(scope.KindTypedObject, name)
	v.current.ResolveTypes(v.types)
	v.importExportedNames(v.current, n.Loc.Span(v.file))
}

func (v *Visitor) endObjectBinding(n *ast.Node) {
	child := v.current
	v.leave()
	typeName := firstSegment(n.TypeName)
	v.current.InsertProperty(scope.Property{
		Name:       n.QualifiedName(),
		TypeName:   typeName,
		IsWritable: true,
		IsPointer:  true,
		IsAlias:    typeName == "alias",
		Type:       child,
	})
}

func (v *Visitor) visitObjectDefinition(n *ast.Node) bool {
	name := n.TypeNameString()
	topLevel := v.current == v.program
	v.enter(scope.KindTypedObject, name)
	if topLevel && v.rootObject == nil {
		v.rootObject = v.current
	}
	if isGroupedProperty(name) {
		// grouped properties (anchors { ... }) are not analysed
		return false
	}

	v.current.ResolveTypes(v.types)
	v.importExportedNames(v.current, n.Loc.Span(v.file))

	if isRelay(name) {
		return v.connectRelay(n)
	}
	return true
}

func (v *Visitor) endObjectDefinition() {
	child := v.current
	v.leave()
	if v.current.BaseTypeName == "Component" || v.current == v.program {
		return
	}
	if p, ok := child.Property("parent"); ok {
		p.Type = v.current
		child.InsertProperty(p)
	}
}

func (v *Visitor) docPath() string {
	if v.doc == nil {
		return ""
	}
	return v.doc.Path
}

// grouped properties are spelled in lower case (anchors, font.bold)
func isGroupedProperty(typeName string) bool {
	return strings.ToLower(typeName) == typeName
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func firstSegment(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
