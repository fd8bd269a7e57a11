package lint

import (
	"qmllint/internal/ast"
)

// startChain opens a chain at a bare identifier.
func (v *Visitor) startChain(ident *ast.Node) {
	c := &Chain{
		Origin: ident,
		Links:  []FieldMember{{Name: ident.Name, Loc: ident.Loc}},
	}
	if _, ok := v.chains[v.current]; !ok {
		v.chainScopes = append(v.chainScopes, v.current)
	}
	v.chains[v.current] = append(v.chains[v.current], c)
	v.tail = ident
	v.tailChain = c
}

// extendChain runs when a field access is left. The chain grows only when
// the access is applied directly to the current tail.
func (v *Visitor) extendChain(field *ast.Node) {
	base := ast.Unparen(field.Base())
	if base == nil || base != v.tail || v.tailChain == nil {
		v.breakChain()
		return
	}
	var castType string
	if base.Is(ast.KindBinary) && base.Op == "as" {
		if right := base.Right(); right.Is(ast.KindTypeExpr) {
			castType = right.Name
		}
	}
	loc := field.NameLoc
	if !loc.IsValid() {
		loc = field.Loc
	}
	v.tailChain.Links = append(v.tailChain.Links, FieldMember{Name: field.Name, Type: castType, Loc: loc})
	v.tail = field
}

// endBinary keeps the tail across `tail as Type`; any other binary ends it.
func (v *Visitor) endBinary(bin *ast.Node) {
	if bin.Op == "as" && bin.Left() == v.tail && v.tail != nil {
		v.tail = bin
		return
	}
	v.breakChain()
}

func (v *Visitor) breakChain() {
	v.tail = nil
	v.tailChain = nil
}
