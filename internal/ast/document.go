package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the serialized form of a pre-parsed document.
type Encoding uint8

const (
	EncodingJSON Encoding = iota
	EncodingMsgpack
)

// Document file suffixes.
const (
	ExtJSON    = ".qml.json"
	ExtMsgpack = ".qml.mp"
)

// ErrNoRoot is returned for documents without a program node.
var ErrNoRoot = errors.New("document has no program node")

// Document is one parsed source unit as delivered by the parser.
type Document struct {
	// Path of the original .qml file.
	Path string `json:"path" msgpack:"path"`
	// Source optionally embeds the QML text the locations refer to.
	Source string `json:"source,omitempty" msgpack:"source,omitempty"`
	Root   *Node  `json:"root" msgpack:"root"`
}

// EncodingFor guesses the encoding from a file name.
func EncodingFor(path string) (Encoding, bool) {
	switch {
	case strings.HasSuffix(path, ExtJSON):
		return EncodingJSON, true
	case strings.HasSuffix(path, ExtMsgpack):
		return EncodingMsgpack, true
	}
	return 0, false
}

// IsDocumentPath reports whether path names a serialized document.
func IsDocumentPath(path string) bool {
	_, ok := EncodingFor(path)
	return ok
}

// SourcePath strips the serialization suffix: Main.qml.json -> Main.qml.
func SourcePath(path string) string {
	for _, ext := range []string{ExtJSON, ExtMsgpack} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext) + ".qml"
		}
	}
	return path
}

// ComponentName is the type name a document exports: the base name of its
// .qml file without extension.
func ComponentName(path string) string {
	base := filepath.Base(SourcePath(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Decode reads a document in the given encoding.
func Decode(r io.Reader, enc Encoding) (*Document, error) {
	var doc Document
	switch enc {
	case EncodingJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json document: %w", err)
		}
	case EncodingMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode msgpack document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown document encoding %d", enc)
	}
	if doc.Root == nil || doc.Root.Kind != KindProgram {
		return nil, ErrNoRoot
	}
	return &doc, nil
}

// Encode writes doc in the given encoding.
func Encode(w io.Writer, doc *Document, enc Encoding) error {
	switch enc {
	case EncodingJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(doc)
	case EncodingMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unknown document encoding %d", enc)
	}
}

// Load reads a document from disk, picking the encoding from the file name.
func Load(path string) (*Document, error) {
	enc, ok := EncodingFor(path)
	if !ok {
		return nil, fmt.Errorf("%s: not a serialized document (want %s or %s)", path, ExtJSON, ExtMsgpack)
	}
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(bytes.NewReader(data), enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	switch {
	case doc.Path == "":
		doc.Path = SourcePath(path)
	case !filepath.IsAbs(doc.Path):
		doc.Path = filepath.Join(filepath.Dir(path), doc.Path)
	}
	return doc, nil
}

// RootObject returns the first object definition of the program, if any.
func (d *Document) RootObject() *Node {
	if d == nil || d.Root == nil {
		return nil
	}
	for _, c := range d.Root.Children {
		if c.Is(KindObjectDefinition) {
			return c
		}
	}
	return nil
}
