package lint

import (
	"qmllint/internal/diag"
	"qmllint/internal/importer"
	"qmllint/internal/trace"
)

// DefaultMaxDepth bounds the nesting of statements and expressions.
const DefaultMaxDepth = 1000

// QualifierChecker judges the recorded member-access chains once the walk
// and the deferred pass are complete.
type QualifierChecker interface {
	Check(a *Analysis) bool
}

// Options is fixed at construction.
type Options struct {
	ImportPaths []string
	TypeFiles   []string

	// Silent drops every diagnostic; the result of Check is unaffected.
	Silent bool

	WarnUnqualified      bool
	WarnWithStatement    bool
	WarnInheritanceCycle bool

	// MaxDepth <= 0 disables the depth guard.
	MaxDepth int

	Reporter  diag.Reporter
	Tracer    trace.Tracer
	Qualifier QualifierChecker

	// Importer overrides the importer built from ImportPaths and Cache.
	Importer *importer.Importer
	Cache    *importer.Cache
}

// DefaultOptions enables every warning.
func DefaultOptions() Options {
	return Options{
		WarnUnqualified:      true,
		WarnWithStatement:    true,
		WarnInheritanceCycle: true,
		MaxDepth:             DefaultMaxDepth,
	}
}
