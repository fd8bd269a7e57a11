package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qmllint/internal/ast"
	"qmllint/internal/ast/astbuild"
	"qmllint/internal/diagfmt"
	"qmllint/internal/driver"
	"qmllint/internal/source"
)

func writeDoc(t *testing.T, dir, name string, root func(b *astbuild.Builder) *ast.Node) string {
	t.Helper()
	b := astbuild.New()
	path := filepath.Join(dir, name+ast.ExtJSON)
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer out.Close()
	if err := ast.Encode(out, b.Doc(name+".qml", b.Program(root(b))), ast.EncodingJSON); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func unqualified(b *astbuild.Builder) *ast.Node {
	return b.Object("Item",
		b.ID("root"),
		b.Property("int", "count"),
		b.Object("Rectangle", b.Binding("width", b.ExprStmt(b.Ident("count")))),
	)
}

func TestCheckCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "Main", unqualified)
	if err := os.WriteFile(filepath.Join(dir, "qmllint.toml"), []byte("[output]\nformat = \"short\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"check", "--no-cache", "--format", "json", "--color", "off", dir})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("Execute error = %v, want errCheckFailed", err)
	}
	var payload diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(payload.Files) != 1 || payload.Files[0].OK {
		t.Fatalf("files = %+v", payload.Files)
	}
	if payload.Count == 0 || payload.Diagnostics[0].Code != "QUA3001" {
		t.Fatalf("diagnostics = %+v", payload.Diagnostics)
	}
}

func TestIsWatchedFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/p/Main.qml.json", true},
		{"/p/Main.qml.mp", true},
		{"/p/Main.qml", true},
		{"/p/imports/QtQuick/plugins.qmltypes.toml", true},
		{"/p/qmllint.toml", true},
		{"/p/README.md", false},
		{"/p/.Main.qml.swp", false},
	}
	for _, tt := range tests {
		if got := isWatchedFile(tt.path); got != tt.want {
			t.Errorf("isWatchedFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatchRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Main.qml.json")
	if err := os.WriteFile(file, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, err := watchRoot(file); err != nil || got != dir {
		t.Fatalf("watchRoot(file) = %q, %v", got, err)
	}
	if got, err := watchRoot(dir); err != nil || got != dir {
		t.Fatalf("watchRoot(dir) = %q, %v", got, err)
	}
	if _, err := watchRoot(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected an error for a missing target")
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		oks  []bool
		want string
	}{
		{[]bool{true}, "checked 1 document: ok"},
		{[]bool{true, false, false}, "checked 3 documents: 2 failed"},
	}
	for _, tt := range tests {
		report := &driver.Report{FileSet: source.NewFileSet()}
		for _, ok := range tt.oks {
			report.Results = append(report.Results, driver.Result{OK: ok})
		}
		if got := summary(report); got != tt.want {
			t.Errorf("summary = %q, want %q", got, tt.want)
		}
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var out bytes.Buffer
	if err := renderVersionJSON(&out); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if payload.Tool != "qmllint" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
	if line := versionLine(false); !strings.HasPrefix(line, "qmllint "+payload.Version) {
		t.Fatalf("versionLine = %q", line)
	}
}
