// Package importer turns builtin type descriptions, *.qmltypes.toml files,
// module directories and pre-parsed documents into type scopes.
package importer

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qmllint/internal/ast"
	"qmllint/internal/scope"
)

//go:embed builtins.qmltypes.toml
var builtinTypes []byte

// BuiltinsFile is the name of a builtins override looked up in import paths.
const BuiltinsFile = "builtins" + TypeFileSuffix

// Importer resolves imports for a single analysis. It is not safe for
// concurrent use; the Cache it shares is.
type Importer struct {
	paths    []string
	cache    *Cache
	warnings []string

	// all accumulates every type imported so far; new types resolve their
	// bases against it.
	all       Types
	builtins  Types
	documents map[string]*scope.Scope
	typeFiles map[string]Types
}

// Option customises an Importer.
type Option func(*Importer)

// WithCache stores decoded type-description files in c.
func WithCache(c *Cache) Option {
	return func(im *Importer) { im.cache = c }
}

// New creates an importer searching the given import paths in order.
func New(importPaths []string, opts ...Option) *Importer {
	im := &Importer{
		paths:     append([]string(nil), importPaths...),
		all:       make(Types),
		documents: make(map[string]*scope.Scope),
		typeFiles: make(map[string]Types),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportPaths returns the configured search paths.
func (im *Importer) ImportPaths() []string { return im.paths }

// TakeWarnings drains the warnings collected since the last call.
func (im *Importer) TakeWarnings() []string {
	w := im.warnings
	im.warnings = nil
	return w
}

func (im *Importer) warnf(format string, args ...any) {
	im.warnings = append(im.warnings, fmt.Sprintf(format, args...))
}

// ImportBuiltins returns the builtin types. A builtins.qmltypes.toml in any
// import path is layered over the embedded description.
func (im *Importer) ImportBuiltins() Types {
	if im.builtins != nil {
		return im.builtins.copy()
	}
	tf, err := decodeTypeFile("<builtins>", builtinTypes)
	if err != nil {
		panic(fmt.Sprintf("importer: embedded builtins are broken: %v", err))
	}
	types := tf.scopes()
	for _, dir := range im.paths {
		path := filepath.Join(dir, BuiltinsFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		types.Merge(im.importTypeFile(path))
	}
	im.builtins = im.register(types)
	return im.builtins.copy()
}

// ImportTypeFiles imports the given type-description files.
func (im *Importer) ImportTypeFiles(paths []string) Types {
	types := make(Types)
	for _, path := range paths {
		types.Merge(im.importTypeFile(path))
	}
	return im.register(types)
}

// ImportModule imports a module by dotted URI, trying <path>/<uri> and then
// the versioned <path>/<uri>.<major> directory in each import path.
// Names are qualified with prefix when it is set.
func (im *Importer) ImportModule(uri, prefix, version string) Types {
	rel := filepath.Join(strings.Split(uri, ".")...)
	candidates := []string{rel}
	if major, _, _ := strings.Cut(version, "."); major != "" {
		candidates = append(candidates, rel+"."+major)
	}
	for _, dir := range im.paths {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return im.ImportDirectory(path, prefix)
			}
		}
	}
	name := uri
	if prefix != "" {
		name = uri + " as " + prefix
	}
	im.warnf("Failed to import %s. Are your include paths set up properly?", name)
	return Types{}
}

// ImportDirectory imports every type-description file and document in dir.
func (im *Importer) ImportDirectory(dir, prefix string) Types {
	entries, err := os.ReadDir(dir)
	if err != nil {
		im.warnf("Failed to import directory %s: %v", dir, err)
		return Types{}
	}
	local := make(Types)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch {
		case strings.HasSuffix(e.Name(), TypeFileSuffix):
			if e.Name() == BuiltinsFile {
				continue
			}
			local.Merge(im.importTypeFile(path))
		case ast.IsDocumentPath(e.Name()):
			if s := im.ImportFile(path); s != nil {
				local[s.InternalName] = s
			}
		}
	}
	im.register(local)
	return local.prefixed(prefix)
}

// ImportFile imports one document as a component type. Documents are read
// once per importer; nil is returned (with a warning) when it cannot be read.
func (im *Importer) ImportFile(path string) *scope.Scope {
	key := filepath.Clean(path)
	if s, ok := im.documents[key]; ok {
		return s
	}
	doc, err := ast.Load(path)
	if err != nil {
		im.warnf("Failed to import %s: %v", path, err)
		im.documents[key] = nil
		return nil
	}
	s := componentFromDocument(doc)
	im.documents[key] = s
	return s
}

func (im *Importer) importTypeFile(path string) Types {
	key := filepath.Clean(path)
	if types, ok := im.typeFiles[key]; ok {
		return types
	}
	// #nosec G304 -- path comes from import paths or the command line
	data, err := os.ReadFile(path)
	if err != nil {
		im.warnf("Failed to import %s: %v", path, err)
		return Types{}
	}
	tf, err := im.decodeCached(path, data)
	if err != nil {
		im.warnf("Failed to import %s: %v", path, err)
		return Types{}
	}
	types := tf.scopes()
	im.typeFiles[key] = types
	return types
}

func (im *Importer) decodeCached(path string, data []byte) (*typeFile, error) {
	if im.cache == nil {
		return decodeTypeFile(path, data)
	}
	key := cacheKey(data)
	if tf, ok, err := im.cache.get(key); err == nil && ok {
		return tf, nil
	}
	tf, err := decodeTypeFile(path, data)
	if err != nil {
		return nil, err
	}
	if err := im.cache.put(key, path, tf); err != nil {
		im.warnf("Failed to cache %s: %v", path, err)
	}
	return tf, nil
}

// register adds types to the accumulated set and resolves their bases.
func (im *Importer) register(types Types) Types {
	for name, s := range types {
		if _, exists := im.all[name]; !exists {
			im.all[name] = s
		}
	}
	// local names win over earlier imports
	merged := im.all.copy()
	merged.Merge(types)
	for _, name := range types.Names() {
		if s := types[name]; s != nil {
			s.ResolveTypes(merged)
		}
	}
	return types
}

func (t Types) copy() Types {
	out := make(Types, len(t))
	out.Merge(t)
	return out
}
