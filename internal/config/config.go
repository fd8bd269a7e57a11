// Package config loads the qmllint.toml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"qmllint/internal/lint"
)

// FileName is the project file looked up from the lint target upwards.
const FileName = "qmllint.toml"

var (
	// ErrUnknownKey is returned for keys the project file does not define.
	ErrUnknownKey = errors.New("unknown key")
	// ErrBadFormat is returned for an unsupported [output].format.
	ErrBadFormat = errors.New("unsupported output format")
)

// Formats accepted by [output].format and --format.
var Formats = []string{"pretty", "short", "json"}

// File is a decoded project file. Paths are absolute.
type File struct {
	Path string
	Dir  string

	ImportPaths []string
	TypeFiles   []string

	// nil means "not set in the file"
	Unqualified      *bool
	WithStatement    *bool
	InheritanceCycle *bool
	MaxDepth         int

	Format         string
	MaxDiagnostics int

	CacheDir string
}

type fileTOML struct {
	Imports struct {
		Paths    []string `toml:"paths"`
		QMLTypes []string `toml:"qmltypes"`
	} `toml:"imports"`
	Warnings struct {
		Unqualified      bool `toml:"unqualified"`
		With             bool `toml:"with"`
		InheritanceCycle bool `toml:"inheritance_cycle"`
		MaxDepth         int  `toml:"max_depth"`
	} `toml:"warnings"`
	Output struct {
		Format         string `toml:"format"`
		MaxDiagnostics int    `toml:"max_diagnostics"`
	} `toml:"output"`
	Cache struct {
		Dir string `toml:"dir"`
	} `toml:"cache"`
}

// Find walks up from startDir to locate qmllint.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the project file at path.
func Load(path string) (*File, error) {
	var raw fileTOML
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	f := &File{
		Path:           abs,
		Dir:            filepath.Dir(abs),
		MaxDepth:       raw.Warnings.MaxDepth,
		Format:         strings.TrimSpace(raw.Output.Format),
		MaxDiagnostics: raw.Output.MaxDiagnostics,
	}
	if f.Format != "" && !ValidFormat(f.Format) {
		return nil, fmt.Errorf("%s: %w %q", path, ErrBadFormat, f.Format)
	}
	f.ImportPaths = f.resolve(raw.Imports.Paths)
	f.TypeFiles = f.resolve(raw.Imports.QMLTypes)
	if raw.Cache.Dir != "" {
		f.CacheDir = f.resolve([]string{raw.Cache.Dir})[0]
	}

	if meta.IsDefined("warnings", "unqualified") {
		f.Unqualified = &raw.Warnings.Unqualified
	}
	if meta.IsDefined("warnings", "with") {
		f.WithStatement = &raw.Warnings.With
	}
	if meta.IsDefined("warnings", "inheritance_cycle") {
		f.InheritanceCycle = &raw.Warnings.InheritanceCycle
	}
	return f, nil
}

// Discover finds and loads the project file governing target. It returns
// nil without error when there is none.
func Discover(target string) (*File, error) {
	path, ok, err := Find(target)
	if err != nil || !ok {
		return nil, err
	}
	return Load(path)
}

// resolve makes paths absolute relative to the file's directory.
func (f *File) resolve(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(f.Dir, p)
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}

// Apply layers the file's settings over opts. Command-line values are
// applied afterwards by the caller and win.
func (f *File) Apply(opts *lint.Options) {
	if f == nil {
		return
	}
	opts.ImportPaths = append(opts.ImportPaths, f.ImportPaths...)
	opts.TypeFiles = append(opts.TypeFiles, f.TypeFiles...)
	if f.Unqualified != nil {
		opts.WarnUnqualified = *f.Unqualified
	}
	if f.WithStatement != nil {
		opts.WarnWithStatement = *f.WithStatement
	}
	if f.InheritanceCycle != nil {
		opts.WarnInheritanceCycle = *f.InheritanceCycle
	}
	if f.MaxDepth > 0 {
		opts.MaxDepth = f.MaxDepth
	}
}

// ValidFormat reports whether name is a known output format.
func ValidFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}
