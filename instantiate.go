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
	"github.com/wdamron/modal/types"
)

func (cc *CheckContext) clearInstantiationLookup() {
	for k := range cc.instLookup {
		delete(cc.instLookup, k)
	}
}

// instantiate replaces every generic mode-variable of a callee's signature with a fresh flexible
// variable. Each generic variable maps to a single fresh variable per instantiation.
func (cc *CheckContext) instantiate(sig *types.Arrow) *types.Arrow {
	t := substArrow(sig, func(g *types.ModeVar) *types.ModeVar {
		if v, ok := cc.instLookup[g]; ok {
			return v
		}
		v := cc.solver.Fresh(g.Axis())
		cc.instLookup[g] = v
		return v
	})
	cc.clearInstantiationLookup()
	return t
}

// rigidSig replaces generic mode-variables with their rigid stand-ins, for signatures seen from
// inside the body which declares them.
func (cc *CheckContext) rigidSig(sig *types.Arrow) *types.Arrow {
	return substArrow(sig, cc.solver.Rigid)
}

func (cc *CheckContext) rigidVec(m types.ModeVec) types.ModeVec {
	return substVec(m, cc.solver.Rigid)
}

func substVec(m types.ModeVec, f func(*types.ModeVar) *types.ModeVar) types.ModeVec {
	for i, t := range m {
		if t.IsVar() && t.Var.IsGeneric() {
			m[i] = types.VarTerm(f(t.Var))
		}
	}
	return m
}

func hasGeneric(sig *types.Arrow) bool {
	for _, p := range sig.Params {
		if paramHasGeneric(p) {
			return true
		}
	}
	return paramHasGeneric(sig.Return)
}

func paramHasGeneric(p types.Param) bool {
	for _, t := range p.Modes {
		if t.IsVar() && t.Var.IsGeneric() {
			return true
		}
	}
	if a, ok := p.Type.(*types.Arrow); ok {
		return hasGeneric(a)
	}
	return false
}

// substArrow maps generic mode-variables in sig, including those of nested function types.
// Signatures without generic variables are shared.
func substArrow(sig *types.Arrow, f func(*types.ModeVar) *types.ModeVar) *types.Arrow {
	if !hasGeneric(sig) {
		return sig
	}
	next := &types.Arrow{Params: make([]types.Param, len(sig.Params)), Exclave: sig.Exclave}
	for i, p := range sig.Params {
		next.Params[i] = substParam(p, f)
	}
	next.Return = substParam(sig.Return, f)
	return next
}

func substParam(p types.Param, f func(*types.ModeVar) *types.ModeVar) types.Param {
	p.Modes = substVec(p.Modes, f)
	if a, ok := p.Type.(*types.Arrow); ok {
		p.Type = substArrow(a, f)
	}
	return p
}
