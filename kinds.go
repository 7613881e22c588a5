// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package modal

import (
	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/types"
)

// checkTypeDecls classifies every declared type and checks it against its declared kind and the
// declared kinds of its fields.
func (cc *CheckContext) checkTypeDecls() {
	for _, decl := range cc.unit.Types {
		cc.decl = decl.Name
		pos := cc.declPos(decl.Name)
		k := types.KindOf(decl.Type)
		cc.kinds[decl.Name] = k
		cc.checkLayouts(k, nil, pos, "type "+decl.Name)
		if decl.Kind != nil && !types.Sub(k, *decl.Kind) {
			cc.kindMismatch(nil, pos, k.String(), decl.Kind.String(), "declared kind of "+decl.Name)
		}
		cc.checkFieldKinds(decl.Type, pos, "")
	}
	cc.decl = ""
}

// checkFieldKinds checks the fields of a record type, and of the records nested within it. Named
// field types are checked at their own declaration.
func (cc *CheckContext) checkFieldKinds(t types.Type, pos int, path string) {
	rec, ok := types.RecordOf(t)
	if !ok {
		return
	}
	rec.Fields.Range(func(f *types.Field) bool {
		name := path + f.Name
		k := types.KindOf(f.Type)
		switch {
		case f.Kind != nil && !types.Sub(k, *f.Kind):
			cc.kindMismatch(nil, pos, k.String(), f.Kind.String(), "field "+name)
		case !k.IsRepresentable():
			cc.kindMismatch(nil, pos, k.String(), "a representable kind", "field "+name)
		}
		if _, nested := f.Type.(*types.Record); nested {
			cc.checkFieldKinds(f.Type, pos, name+".")
		}
		return true
	})
}

// checkLayouts rejects non-value layouts when unboxed layouts are disabled.
func (cc *CheckContext) checkLayouts(k types.Kind, e ast.Expr, pos int, reason string) {
	if !cc.opts.EnableUnboxedLayouts && k.HasUnboxed() {
		cc.kindMismatch(e, pos, k.String(), types.KindValue.String(), reason+" (unboxed layouts are disabled)")
	}
}

// checkSigKinds checks every position of a function signature. Positions of external functions
// are never compiled here, so they may have kind any.
func (cc *CheckContext) checkSigKinds(decl *ast.FuncDecl, sig *types.Arrow) {
	pos := cc.declPos(decl.Name)
	check := func(p types.Param, what string) {
		k := types.KindOf(p.Type)
		cc.checkLayouts(k, nil, pos, what)
		if !decl.IsExtern() && !k.IsRepresentable() {
			cc.kindMismatch(nil, pos, k.String(), "a representable kind", what)
		}
	}
	for i, p := range sig.Params {
		name := "argument"
		if i < len(decl.ArgNames) {
			name += " " + decl.ArgNames[i]
		}
		check(p, name)
	}
	check(sig.Return, "result")
}

// checkPlacement checks that a value of type offered may be placed in a position of type required.
func (cc *CheckContext) checkPlacement(offered, required types.Type, e ast.Expr, reason string) {
	ko, kr := types.KindOf(offered), types.KindOf(required)
	if !types.Sub(ko, kr) {
		cc.kindMismatch(e, cc.sites[e].pos, ko.String(), kr.String(), reason)
	}
}

// checkJoinKinds checks that the branches of a conditional have the same representation.
func (cc *CheckContext) checkJoinKinds(a, b value, e ast.Expr) {
	ka, kb := types.KindOf(a.typ), types.KindOf(b.typ)
	if _, ok := types.Unify(ka, kb); !ok {
		cc.kindMismatch(e, cc.sites[e].pos, kb.String(), ka.String(), "conditional branches")
	}
}

func (cc *CheckContext) kindMismatch(e ast.Expr, pos int, offered, required, reason string) {
	decl := cc.decl
	if s, ok := cc.sites[e]; ok && e != nil {
		decl, pos = s.decl, s.pos
	}
	cc.diags = append(cc.diags, Diagnostic{
		Kind:     KindMismatch,
		Unit:     cc.unit.Name,
		Decl:     decl,
		Expr:     e,
		Offered:  offered,
		Required: required,
		Reason:   reason,
		pos:      pos,
	})
}
