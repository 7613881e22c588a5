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
	"github.com/pkg/errors"

	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/internal/region"
	"github.com/wdamron/modal/internal/solver"
	"github.com/wdamron/modal/types"
)

// Modes of immediate values and of the unit produced by statements.
var immediateModes = types.Concrete(types.BottomModes())

// Modes of a reference to a top-level function. Functions are static closures without captures.
var funcValueModes = types.Concrete(types.Modes{Uniqueness: types.Aliased})

// declareFuncs finalizes every signature of the unit and declares it in the unit's environment.
func (cc *CheckContext) declareFuncs() error {
	for _, decl := range cc.unit.Funcs {
		cc.decl = decl.Name
		if decl.Sig == nil {
			return cc.invalidf(nil, "Missing signature")
		}
		if len(decl.ArgNames) != len(decl.Sig.Params) {
			return cc.invalidf(nil, "Signature has %d parameters for %d arguments", len(decl.Sig.Params), len(decl.ArgNames))
		}
		exclave := false
		if !decl.IsExtern() {
			fn := decl.Func()
			cc.analysis.Reset()
			if err := cc.analysis.Analyze(fn); err != nil {
				cc.invalid = cc.analysis.Invalid
				return errors.Wrapf(err, "in %s", decl.Name)
			}
			exclave = cc.analysis.Exclaves[fn]
		}
		sig := cc.finalizeSig(decl.Sig, exclave)
		cc.env.Declare(decl.Name, sig)
		cc.sigs[decl.Name] = sig
		cc.checkSigKinds(decl, sig)
	}
	cc.decl = ""
	return nil
}

// checkFunc generates constraints for the body of a top-level function. Generic mode-variables of
// the function's own signature are rigid within its body.
func (cc *CheckContext) checkFunc(decl *ast.FuncDecl) error {
	cc.decl = decl.Name
	defer func() { cc.decl = "" }()
	fn := decl.Func()
	cc.analysis.Reset()
	if err := cc.analysis.Analyze(fn); err != nil {
		cc.invalid = cc.analysis.Invalid
		return errors.Wrapf(err, "in %s", decl.Name)
	}
	if n := len(cc.analysis.Binders); cap(cc.values) < n {
		cc.values = make([]value, n)
	} else {
		cc.values = cc.values[:n]
		for i := range cc.values {
			cc.values[i] = value{}
		}
	}
	return cc.checkBody(fn, cc.rigidSig(cc.sigs[decl.Name]), cc.regions.Root)
}

// checkBody checks a function body in a new frame below outer. Arguments live in the caller's
// region; the body's own local allocations live in a region below it.
func (cc *CheckContext) checkBody(fn *ast.Func, sig *types.Arrow, outer *region.Region) error {
	caller, err := outer.NewSubRegion("caller")
	if err != nil {
		return errors.Wrap(err, "entering function")
	}
	body, err := caller.NewSubRegion(cc.decl)
	if err != nil {
		return errors.Wrap(err, "entering function")
	}
	f := &frame{fn: fn, sig: sig, caller: caller, body: body, current: body, parent: cc.frame}
	cc.frame = f
	defer func() { cc.frame = f.parent }()

	for i, id := range cc.analysis.Params[fn] {
		p := sig.Params[i]
		cc.values[id] = value{typ: p.Type, modes: p.Modes, region: caller}
	}
	v, err := cc.check(fn.Body)
	if err != nil {
		return err
	}
	cc.ret(v, fn.Body)
	if err := cc.popRegion(body); err != nil {
		return err
	}
	return cc.popRegion(caller)
}

func (cc *CheckContext) check(e ast.Expr) (value, error) {
	if e == nil {
		return value{}, cc.invalidf(nil, "Missing expression")
	}
	v, err := cc.checkExpr(e)
	if err != nil {
		return v, err
	}
	if types.IsImmediate(v.typ) {
		v.modes, v.region = immediateModes, nil
	}
	cc.annotate(e, v)
	return v, nil
}

func (cc *CheckContext) checkExpr(e ast.Expr) (value, error) {
	switch e := e.(type) {
	case *ast.Literal:
		if e.Type == nil {
			return value{}, cc.invalidf(e, "Literal %s has no type", e.Syntax)
		}
		return value{typ: e.Type, modes: immediateModes}, nil

	case *ast.Var:
		return cc.checkVar(e)

	case *ast.Call:
		return cc.checkCall(e)

	case *ast.Func:
		return cc.checkClosure(e)

	case *ast.Let:
		v, err := cc.check(e.Value)
		if err != nil {
			return v, err
		}
		annot := cc.rigidVec(e.Annot)
		for _, a := range types.Axes {
			if t := annot[a]; t.Set {
				cc.solver.Le(a, v.modes[a], t, solver.OriginAnnotation, e)
				v.modes[a] = t
			}
		}
		id, ok := cc.analysis.Lets[e]
		if !ok {
			return value{}, cc.invalidf(e, "Unresolved binding %s", e.Var)
		}
		cc.values[id] = v
		return cc.check(e.Body)

	case *ast.If:
		if _, err := cc.check(e.Cond); err != nil {
			return value{}, err
		}
		a, err := cc.check(e.Then)
		if err != nil {
			return a, err
		}
		b, err := cc.check(e.Else)
		if err != nil {
			return b, err
		}
		cc.checkJoinKinds(a, b, e)
		return value{
			typ:    a.typ,
			modes:  cc.solver.JoinVec(solver.OriginJoin, e, a.modes, b.modes),
			region: region.Deeper(a.region, b.region),
		}, nil

	case *ast.Loop:
		sub, err := cc.pushRegion("loop")
		if err != nil {
			return value{}, err
		}
		_, err = cc.check(e.Body)
		cc.frame.current = sub.Parent()
		if err != nil {
			return value{}, err
		}
		if err := cc.popRegion(sub); err != nil {
			return value{}, err
		}
		return value{typ: types.Unit, modes: immediateModes}, nil

	case *ast.Region:
		sub, err := cc.pushRegion("region")
		if err != nil {
			return value{}, err
		}
		v, err := cc.check(e.Body)
		cc.frame.current = sub.Parent()
		if err != nil {
			return v, err
		}
		v = cc.escape(v, sub, solver.OriginEscape, e)
		if err := cc.popRegion(sub); err != nil {
			return v, err
		}
		return v, nil

	case *ast.Exclave:
		f := cc.frame
		saved, wasIn := f.current, f.inExclave
		f.current, f.inExclave = f.caller, true
		v, err := cc.check(e.Body)
		f.current, f.inExclave = saved, wasIn
		return v, err

	case *ast.Alloc:
		return cc.checkAlloc(e)

	case *ast.Select:
		return cc.checkSelect(e)

	case *ast.Assign:
		return cc.checkAssign(e)

	case *ast.Spawn:
		fv, err := cc.check(e.Func)
		if err != nil {
			return fv, err
		}
		if _, ok := types.Underlying(fv.typ).(*types.Arrow); !ok {
			return value{}, cc.invalidf(e, "Spawned value of type %s is not a function", types.TypeString(fv.typ))
		}
		cc.checkSpawn(fv, e)
		return value{typ: types.Unit, modes: immediateModes}, nil

	case *ast.CellCreate:
		return cc.checkCellCreate(e)

	case *ast.CellMap:
		_, err := cc.checkCellAccess(e, e.Cell, e.Key, e.Func)
		if err != nil {
			return value{}, err
		}
		return value{typ: types.Unit, modes: immediateModes}, nil

	case *ast.CellExtract:
		ret, err := cc.checkCellAccess(e, e.Cell, e.Key, e.Func)
		if err != nil {
			return value{}, err
		}
		return cc.extractResult(ret, e), nil
	}
	return value{}, cc.invalidf(e, "Unhandled expression type %s", e.ExprName())
}

// checkVar reads a bound variable, or references a declared function.
func (cc *CheckContext) checkVar(e *ast.Var) (value, error) {
	id, ok := cc.analysis.Binder(e)
	if !ok {
		sig, ok := cc.env.Lookup(e.Name)
		if !ok {
			return value{}, cc.invalidf(e, "Variable %s is not bound", e.Name)
		}
		return value{typ: cc.instantiate(sig), modes: funcValueModes}, nil
	}
	v := cc.values[id]
	if v.typ == nil {
		return value{}, cc.invalidf(e, "Variable %s is used before it is bound", e.Name)
	}
	cc.checkLive(v, e)
	if cc.analysis.UsedMoreThanOnce(id) {
		cc.solver.Le(types.LinearityAxis, v.modes[types.LinearityAxis], types.ConstTerm(types.Many), solver.OriginReuse, e)
		v.modes[types.UniquenessAxis] = types.ConstTerm(types.Aliased)
	}
	return v, nil
}

func (cc *CheckContext) checkCall(e *ast.Call) (value, error) {
	fv, err := cc.check(e.Func)
	if err != nil {
		return fv, err
	}
	sig, ok := types.Underlying(fv.typ).(*types.Arrow)
	if !ok {
		return value{}, cc.invalidf(e, "Called value of type %s is not a function", types.TypeString(fv.typ))
	}
	sig = cc.rigidSig(sig)
	if len(e.Args) != len(sig.Params) {
		return value{}, cc.invalidf(e, "Function expects %d arguments, called with %d", len(sig.Params), len(e.Args))
	}
	// A result can only be local to a region reachable from the function or its arguments, or to
	// the current region when the callee is an exclave.
	reg := fv.region
	for i, arg := range e.Args {
		av, err := cc.check(arg)
		if err != nil {
			return av, err
		}
		cc.flow(av, sig.Params[i], solver.OriginCall, arg)
		cc.checkPlacement(av.typ, sig.Params[i].Type, arg, "argument")
		reg = region.Deeper(reg, av.region)
	}
	modes := sig.Return.Modes
	if sig.Exclave {
		modes[types.LocalityAxis] = types.ConstTerm(types.Local)
		reg = region.Deeper(reg, cc.frame.current)
	}
	return value{typ: sig.Return.Type, modes: modes, region: reg}, nil
}

// checkClosure checks an abstraction nested within a function body. The closure's own modes
// follow from its allocation site and its captures.
func (cc *CheckContext) checkClosure(e *ast.Func) (value, error) {
	if e.Sig == nil {
		return value{}, cc.invalidf(e, "Missing signature")
	}
	if len(e.ArgNames) != len(e.Sig.Params) {
		return value{}, cc.invalidf(e, "Signature has %d parameters for %d arguments", len(e.Sig.Params), len(e.ArgNames))
	}
	sig := cc.rigidSig(cc.finalizeSig(e.Sig, cc.analysis.Exclaves[e]))
	loc := types.ConstTerm(e.Locality)
	var reg *region.Region
	if e.Locality == types.Local {
		reg = cc.frame.current
	}
	caps := cc.analysis.Captures[e]
	lins := make([]types.Term, 0, len(caps))
	ports := make([]types.Term, 0, len(caps))
	for _, id := range caps {
		c := cc.values[id]
		if c.typ == nil {
			continue
		}
		cc.checkLive(c, e)
		cc.solver.Le(types.LocalityAxis, c.modes[types.LocalityAxis], loc, solver.OriginCapture, e)
		cc.pointTo(reg, c, solver.OriginCapture, e)
		lins = append(lins, c.modes[types.LinearityAxis])
		ports = append(ports, cc.capturePortability(c, e))
	}
	var modes types.ModeVec
	modes[types.LocalityAxis] = loc
	modes[types.UniquenessAxis] = types.ConstTerm(types.Unique)
	modes[types.LinearityAxis] = cc.solver.Join(types.LinearityAxis, solver.OriginCapture, e, lins...)
	modes[types.ContentionAxis] = types.ConstTerm(types.Uncontended)
	modes[types.PortabilityAxis] = cc.solver.Join(types.PortabilityAxis, solver.OriginCapture, e, ports...)

	for _, p := range sig.Params {
		cc.checkLayouts(types.KindOf(p.Type), e, cc.sites[e].pos, "closure argument")
	}
	if err := cc.checkBody(e, sig, cc.frame.current); err != nil {
		return value{}, err
	}
	return value{typ: sig, modes: modes, region: reg}, nil
}

func (cc *CheckContext) checkAlloc(e *ast.Alloc) (value, error) {
	rec, ok := types.RecordOf(e.Type)
	if !ok {
		return value{}, cc.invalidf(e, "Allocated type %s is not a record", types.TypeString(e.Type))
	}
	if len(e.Fields) != rec.Fields.Len() {
		return value{}, cc.invalidf(e, "Allocation of %s has %d fields, expected %d", types.TypeString(e.Type), len(e.Fields), rec.Fields.Len())
	}
	loc := types.ConstTerm(e.Locality)
	var block *region.Region
	if e.Locality == types.Local && !rec.Unboxed {
		block = cc.frame.current
	}
	var joins [types.NumAxes][]types.Term
	var inline *region.Region
	seen := make(map[string]bool, len(e.Fields))
	for _, lv := range e.Fields {
		f, ok := rec.Fields.Get(lv.Label)
		if !ok || seen[lv.Label] {
			return value{}, cc.invalidf(e, "Invalid field %s for %s", lv.Label, types.TypeString(e.Type))
		}
		seen[lv.Label] = true
		fv, err := cc.check(lv.Value)
		if err != nil {
			return fv, err
		}
		cc.checkPlacement(fv.typ, f.Type, lv.Value, "field "+f.Name)
		if rec.Unboxed {
			inline = region.Deeper(inline, fv.region)
		} else {
			cc.store(fv, f, block, loc, lv.Value)
		}
		for _, a := range types.Axes {
			if !f.Modalities[a].Set {
				joins[a] = append(joins[a], fv.modes[a])
			}
		}
	}
	var modes types.ModeVec
	for _, a := range types.Axes {
		modes[a] = cc.solver.Join(a, solver.OriginJoin, e, joins[a]...)
	}
	modes[types.UniquenessAxis] = types.ConstTerm(types.Unique)
	if rec.Unboxed {
		return value{typ: e.Type, modes: modes, region: inline}, nil
	}
	modes[types.LocalityAxis] = loc
	return value{typ: e.Type, modes: modes, region: block}, nil
}

func (cc *CheckContext) checkSelect(e *ast.Select) (value, error) {
	r, err := cc.check(e.Record)
	if err != nil {
		return r, err
	}
	f, err := cc.field(r, e.Label, e)
	if err != nil {
		return value{}, err
	}
	if f.Mutable {
		cc.checkFieldRead(r, e)
	}
	modes := types.ApplyModality(r.modes, f)
	if sub, ok := cc.deep.Apply(r.typ, r.modes).Field(e.Label); ok {
		modes = sub.Modes
	}
	reg := r.region
	if modes[types.LocalityAxis].Is(types.Global) {
		reg = nil
	}
	return value{typ: f.Type, modes: modes, region: reg}, nil
}

func (cc *CheckContext) checkAssign(e *ast.Assign) (value, error) {
	r, err := cc.check(e.Record)
	if err != nil {
		return r, err
	}
	f, err := cc.field(r, e.Label, e)
	if err != nil {
		return value{}, err
	}
	if !f.Mutable {
		return value{}, cc.invalidf(e, "Field %s is not mutable", e.Label)
	}
	v, err := cc.check(e.Value)
	if err != nil {
		return v, err
	}
	cc.checkPlacement(v.typ, f.Type, e.Value, "field "+f.Name)
	cc.checkFieldWrite(r, e)
	cc.store(v, f, r.region, r.modes[types.LocalityAxis], e.Value)
	return value{typ: types.Unit, modes: immediateModes}, nil
}

func (cc *CheckContext) field(r value, label string, e ast.Expr) (*types.Field, error) {
	rec, ok := types.RecordOf(r.typ)
	if !ok {
		return nil, cc.invalidf(e, "Value of type %s has no fields", types.TypeString(r.typ))
	}
	f, ok := rec.Fields.Get(label)
	if !ok {
		return nil, cc.invalidf(e, "Type %s has no field %s", types.TypeString(r.typ), label)
	}
	return f, nil
}

// flow requires a value to be usable at a signature position.
func (cc *CheckContext) flow(v value, p types.Param, origin solver.Origin, site ast.Expr) {
	cc.solver.LeVec(v.modes, p.Modes, origin, site)
	if offered, ok := types.Underlying(v.typ).(*types.Arrow); ok {
		if required, ok := types.Underlying(p.Type).(*types.Arrow); ok {
			cc.subArrow(offered, required, origin, site)
		}
	}
}

// subArrow requires a function of type offered to be usable where required is expected: parameters
// are contravariant and the result is covariant.
func (cc *CheckContext) subArrow(offered, required *types.Arrow, origin solver.Origin, site ast.Expr) {
	offered, required = cc.rigidSig(offered), cc.rigidSig(required)
	n := len(offered.Params)
	if len(required.Params) < n {
		n = len(required.Params)
	}
	for i := 0; i < n; i++ {
		cc.solver.LeVec(required.Params[i].Modes, offered.Params[i].Modes, origin, site)
		if o, ok := types.Underlying(offered.Params[i].Type).(*types.Arrow); ok {
			if r, ok := types.Underlying(required.Params[i].Type).(*types.Arrow); ok {
				cc.subArrow(r, o, origin, site)
			}
		}
	}
	ret := offered.Return.Modes
	if offered.Exclave && !required.Exclave {
		ret[types.LocalityAxis] = types.ConstTerm(types.Local)
	}
	cc.solver.LeVec(ret, required.Return.Modes, origin, site)
	if o, ok := types.Underlying(offered.Return.Type).(*types.Arrow); ok {
		if r, ok := types.Underlying(required.Return.Type).(*types.Arrow); ok {
			cc.subArrow(o, r, origin, site)
		}
	}
}
