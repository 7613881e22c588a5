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

// finalizeSig decorates every position of sig, filling unannotated axes with defaults. The
// signature of a function with an exclave in tail position is marked as an exclave.
func (cc *CheckContext) finalizeSig(sig *types.Arrow, exclave bool) *types.Arrow {
	def := cc.opts.Defaults()
	next := &types.Arrow{Params: make([]types.Param, len(sig.Params)), Exclave: sig.Exclave || exclave}
	for i, p := range sig.Params {
		next.Params[i] = finalizeParam(p, def)
	}
	next.Return = finalizeParam(sig.Return, def)
	return next
}

func finalizeParam(p types.Param, def types.Modes) types.Param {
	p.Modes = p.Modes.WithDefaults(def)
	if a, ok := p.Type.(*types.Arrow); ok {
		next := &types.Arrow{Params: make([]types.Param, len(a.Params)), Exclave: a.Exclave}
		for i, q := range a.Params {
			next.Params[i] = finalizeParam(q, def)
		}
		next.Return = finalizeParam(a.Return, def)
		p.Type = next
	}
	return p
}

// GenericVars lists the generic mode-variables quantified by a signature, in order of appearance.
func GenericVars(sig *types.Arrow) []*types.ModeVar {
	var vars []*types.ModeVar
	seen := make(map[*types.ModeVar]bool)
	var visit func(p types.Param)
	visit = func(p types.Param) {
		for _, t := range p.Modes {
			if t.IsVar() && t.Var.IsGeneric() && !seen[t.Var] {
				seen[t.Var] = true
				vars = append(vars, t.Var)
			}
		}
		if a, ok := p.Type.(*types.Arrow); ok {
			for _, q := range a.Params {
				visit(q)
			}
			visit(a.Return)
		}
	}
	for _, p := range sig.Params {
		visit(p)
	}
	visit(sig.Return)
	return vars
}
