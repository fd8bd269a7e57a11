package lint

import (
	"qmllint/internal/trace"
)

// Check runs the deferred relay pass and then the qualifier checker. It
// reports success when the walk was not poisoned and the checker passed.
// The deferred pass runs once; later calls only repeat the qualifier check.
func (v *Visitor) Check() bool {
	if v.failed {
		return false
	}

	v.resolveOutstanding()

	if !v.opts.WarnUnqualified || v.opts.Qualifier == nil {
		return !v.failed
	}

	span := v.span.Child(trace.ScopePass, "qualifiers")
	ok := v.opts.Qualifier.Check(v.Analysis())
	span.End(passDetail(ok))
	return ok && !v.failed
}

// Analysis snapshots the collected state for the qualifier checker.
func (v *Visitor) Analysis() *Analysis {
	return &Analysis{
		File:        v.file,
		Path:        v.docPath(),
		Global:      v.global,
		Program:     v.program,
		RootObject:  v.rootObject,
		RootID:      v.rootID,
		IDs:         v.ids,
		IDOrder:     v.idOrder,
		Handlers:    v.handlers,
		Chains:      v.chains,
		ChainScopes: v.chainScopes,
		Types:       v.types,
		Reporter:    v.reporter,
	}
}

func passDetail(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
