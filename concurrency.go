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
	"github.com/wdamron/modal/internal/solver"
	"github.com/wdamron/modal/types"
)

// Data-race freedom rests on two axes. Contention bounds what may be done with mutable state reached
// through a value; portability bounds what a function may be moved to another thread with.

// Modes of the payload as seen by a cell function: uncontended while the key is held.
var payloadModes = types.Concrete(types.Modes{Uniqueness: types.Aliased})

// capturePortability is the portability a closure takes on from one capture. A capture through
// which mutable state is reachable makes the closure nonportable, unless the capture is known to be
// uncontended and strict portability is off.
func (cc *CheckContext) capturePortability(c value, site ast.Expr) types.Term {
	if !cc.deep.ReachesMutable(c.typ) {
		return c.modes[types.PortabilityAxis]
	}
	if cc.opts.StrictPortability || !c.modes[types.ContentionAxis].Is(types.Uncontended) {
		return types.ConstTerm(types.Nonportable)
	}
	return c.modes[types.PortabilityAxis]
}

func (cc *CheckContext) checkFieldRead(r value, site ast.Expr) {
	if !cc.opts.EnableContentionChecking {
		return
	}
	cc.solver.Le(types.ContentionAxis, r.modes[types.ContentionAxis], types.ConstTerm(types.Shared), solver.OriginFieldRead, site)
}

func (cc *CheckContext) checkFieldWrite(r value, site ast.Expr) {
	if !cc.opts.EnableContentionChecking {
		return
	}
	cc.solver.Le(types.ContentionAxis, r.modes[types.ContentionAxis], types.ConstTerm(types.Uncontended), solver.OriginFieldWrite, site)
}

// checkSpawn requires a function run on a new thread to be portable, and to outlive the spawning
// frame.
func (cc *CheckContext) checkSpawn(fv value, site ast.Expr) {
	cc.solver.Le(types.PortabilityAxis, fv.modes[types.PortabilityAxis], types.ConstTerm(types.Portable), solver.OriginSpawn, site)
	cc.solver.Le(types.LocalityAxis, fv.modes[types.LocalityAxis], types.ConstTerm(types.Global), solver.OriginSpawn, site)
	cc.pointTo(nil, fv, solver.OriginSpawn, site)
}

// checkCellCreate protects a payload with a key type. The payload must be exclusively owned by the
// creating thread and live on the heap; the resulting cell may be shared freely.
func (cc *CheckContext) checkCellCreate(e *ast.CellCreate) (value, error) {
	if _, ok := types.Underlying(e.Key).(*types.Key); !ok {
		return value{}, cc.invalidf(e, "Cell key %s is not a key type", types.TypeString(e.Key))
	}
	p, err := cc.check(e.Payload)
	if err != nil {
		return p, err
	}
	cc.solver.Le(types.ContentionAxis, p.modes[types.ContentionAxis], types.ConstTerm(types.Uncontended), solver.OriginCellPayload, e.Payload)
	cc.solver.Le(types.LocalityAxis, p.modes[types.LocalityAxis], types.ConstTerm(types.Global), solver.OriginCellPayload, e.Payload)
	cc.pointTo(nil, p, solver.OriginCellPayload, e.Payload)
	return value{typ: &types.Cell{Key: e.Key, Payload: p.typ}, modes: funcValueModes}, nil
}

// checkCellAccess checks the operands of a cell operation and returns the result position of the
// cell function. The cell may be contended; the key may not, since keys are mutable data.
func (cc *CheckContext) checkCellAccess(e, cellExpr, keyExpr, fnExpr ast.Expr) (types.Param, error) {
	cv, err := cc.check(cellExpr)
	if err != nil {
		return types.Param{}, err
	}
	cell, ok := types.Underlying(cv.typ).(*types.Cell)
	if !ok {
		return types.Param{}, cc.invalidf(e, "Value of type %s is not a cell", types.TypeString(cv.typ))
	}
	kv, err := cc.check(keyExpr)
	if err != nil {
		return types.Param{}, err
	}
	if !types.SameType(types.Underlying(kv.typ), types.Underlying(cell.Key)) {
		return types.Param{}, cc.invalidf(e, "Key of type %s does not open a cell keyed by %s", types.TypeString(kv.typ), types.TypeString(cell.Key))
	}
	cc.solver.Le(types.ContentionAxis, kv.modes[types.ContentionAxis], types.ConstTerm(types.Uncontended), solver.OriginKeyUse, keyExpr)

	fv, err := cc.check(fnExpr)
	if err != nil {
		return types.Param{}, err
	}
	sig, ok := types.Underlying(fv.typ).(*types.Arrow)
	if !ok || len(sig.Params) != 1 {
		return types.Param{}, cc.invalidf(e, "Cell function of type %s must take exactly the payload", types.TypeString(fv.typ))
	}
	sig = cc.rigidSig(sig)
	cc.solver.Le(types.PortabilityAxis, fv.modes[types.PortabilityAxis], types.ConstTerm(types.Portable), solver.OriginCellFunc, fnExpr)
	cc.flow(value{typ: cell.Payload, modes: payloadModes}, sig.Params[0], solver.OriginCellFunc, fnExpr)
	cc.checkPlacement(cell.Payload, sig.Params[0].Type, fnExpr, "cell payload")
	return sig.Return, nil
}

// extractResult is the value computed from a cell's payload. It may alias the payload, which other
// threads can reach through the cell, so it is contended.
func (cc *CheckContext) extractResult(ret types.Param, e *ast.CellExtract) value {
	cc.solver.Le(types.PortabilityAxis, ret.Modes[types.PortabilityAxis], types.ConstTerm(types.Portable), solver.OriginCellFunc, e)
	modes := ret.Modes
	modes[types.ContentionAxis] = types.ConstTerm(types.Contended)
	return value{typ: ret.Type, modes: modes, region: cc.frame.current}
}
