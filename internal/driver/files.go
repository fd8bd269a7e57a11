package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"qmllint/internal/ast"
	"qmllint/internal/source"
)

// listDocuments returns every serialized document below dir, sorted.
func listDocuments(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && ast.IsDocumentPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// fileRegistry guards a FileSet shared by parallel analyses.
type fileRegistry struct {
	mu sync.Mutex
	fs *source.FileSet
}

// register adds the QML text a document refers to: the embedded source,
// else the sibling .qml file, else a placeholder so that spans still carry
// parser positions.
func (r *fileRegistry) register(docPath string, doc *ast.Document) source.FileID {
	qml := ast.SourcePath(docPath)
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc != nil && doc.Source != "" {
		return r.fs.AddVirtual(qml, []byte(doc.Source))
	}
	if info, err := os.Stat(qml); err == nil && info.Mode().IsRegular() {
		if id, err := r.fs.Load(qml); err == nil {
			return id
		}
	}
	return r.fs.AddPlaceholder(qml)
}
