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
	"github.com/wdamron/modal/internal/astutil"
	"github.com/wdamron/modal/internal/region"
	"github.com/wdamron/modal/internal/solver"
	"github.com/wdamron/modal/types"
)

// CheckContext is a reusable context for mode and kind checking.
//
// A check context cannot be used concurrently.
type CheckContext struct {
	opts       Options
	solver     *solver.Solver
	analysis   astutil.Analysis
	deep       types.DeepCache
	regions    *region.Tree
	instLookup map[*types.ModeVar]*types.ModeVar
	needsReset bool

	unit        *ast.Unit
	env         *Env
	decl        string
	frame       *frame
	values      []value // indexed by binder id
	annotations []annotation
	sites       map[ast.Expr]site
	diags       []Diagnostic
	sigs        map[string]*types.Arrow
	kinds       map[string]types.Kind

	err     error
	invalid ast.Expr
}

// value is the checker's view of an evaluated expression.
type value struct {
	typ   types.Type
	modes types.ModeVec
	// Region holding the value, if the value is local; nil for the heap
	region *region.Region
}

// frame is the state of the function body being checked.
type frame struct {
	fn  *ast.Func
	sig *types.Arrow
	// The caller's region holds local arguments and exclave results; the body region holds
	// local allocations of the function itself.
	caller, body, current *region.Region
	inExclave             bool
	parent                *frame
}

type annotation struct {
	expr ast.Expr
	v    value
}

type site struct {
	decl string
	pos  int
}

// UnitResult is the outcome of checking a unit.
type UnitResult struct {
	Name string
	// Annotated unit; nil when the unit was rejected
	Unit *ast.Unit
	// Finalized signatures by function name; nil when the unit was rejected
	Signatures map[string]*types.Arrow
	// Kinds of declared types, by type name
	Kinds       map[string]types.Kind
	Diagnostics []Diagnostic
}

// Failed reports whether the unit was rejected.
func (r *UnitResult) Failed() bool { return len(r.Diagnostics) > 0 }

// Create a new check context. A context may be reused for checking.
func NewContext(opts Options) *CheckContext {
	return &CheckContext{
		opts:       opts,
		solver:     solver.New(),
		instLookup: make(map[*types.ModeVar]*types.ModeVar, 16),
	}
}

// Options returns the options of the context.
func (cc *CheckContext) Options() Options { return cc.opts }

func (cc *CheckContext) reset() {
	cc.solver.Reset()
	cc.analysis.Reset()
	cc.deep.Reset()
	cc.regions = nil
	cc.clearInstantiationLookup()
	for i := range cc.values {
		cc.values[i] = value{}
	}
	for i := range cc.annotations {
		cc.annotations[i] = annotation{}
	}
	cc.unit, cc.env, cc.decl, cc.frame, cc.values, cc.annotations = nil, nil, "", nil, cc.values[:0], cc.annotations[:0]
	cc.sites, cc.diags, cc.sigs, cc.kinds = nil, nil, nil, nil
	cc.err, cc.invalid, cc.needsReset = nil, nil, false
}

// Reset the state of the context. The context will be reset automatically before checking.
func (cc *CheckContext) Reset() {
	if !cc.needsReset {
		return
	}
	cc.reset()
}

// Get the error which caused checking to fail. Rejected units are reported through a *UnitError.
func (cc *CheckContext) Error() error { return cc.err }

// Get the expression which caused checking to fail.
func (cc *CheckContext) InvalidExpr() ast.Expr { return cc.invalid }

// Check checks a copy of unit within env. The annotated copy is returned in the result.
//
// Malformed input (unknown variables, projections of missing fields, calls with the wrong number
// of arguments) is reported as an error, with the offending expression available from
// InvalidExpr. A unit which is well-formed but violates a mode or kind rule is reported with a
// *UnitError, alongside a result carrying every diagnostic.
func (cc *CheckContext) Check(unit *ast.Unit, env *Env) (*UnitResult, error) {
	if unit == nil {
		return nil, errors.New("Empty unit")
	}
	return cc.checkRoot(ast.CopyUnit(unit), env)
}

// CheckDirect checks unit within env. Annotations are added directly to unit.
// All sub-expressions of unit must have unique addresses.
func (cc *CheckContext) CheckDirect(unit *ast.Unit, env *Env) (*UnitResult, error) {
	if unit == nil {
		return nil, errors.New("Empty unit")
	}
	return cc.checkRoot(unit, env)
}

func (cc *CheckContext) checkRoot(unit *ast.Unit, env *Env) (*UnitResult, error) {
	if cc.needsReset {
		cc.reset()
	}
	defer func() { cc.needsReset = true }()
	if env == nil {
		env = NewEnv(nil)
	}
	cc.unit = unit
	cc.env = NewEnv(env)
	cc.env.Imports = unit.Imports
	cc.regions = region.NewTree()
	cc.sites = make(map[ast.Expr]site, 64)
	cc.sigs = make(map[string]*types.Arrow, len(unit.Funcs))
	cc.kinds = make(map[string]types.Kind, len(unit.Types))
	cc.indexSites()

	cc.checkTypeDecls()
	if err := cc.declareFuncs(); err != nil {
		return nil, cc.fail(err)
	}
	for _, decl := range unit.Funcs {
		if decl.IsExtern() {
			continue
		}
		if err := cc.checkFunc(decl); err != nil {
			return nil, cc.fail(err)
		}
	}
	cc.reportFailures(cc.solver.Solve())

	result := &UnitResult{Name: unit.Name, Kinds: cc.kinds}
	if len(cc.diags) > 0 {
		sortDiagnostics(cc.diags)
		result.Diagnostics = cc.diags
		return result, &UnitError{Unit: unit.Name, Diagnostics: cc.diags}
	}
	cc.applyAnnotations()
	result.Unit, result.Signatures = unit, cc.sigs
	return result, nil
}

func (cc *CheckContext) fail(err error) error {
	if cc.err == nil {
		cc.err = err
	}
	return cc.err
}

// invalidf records a malformed expression.
func (cc *CheckContext) invalidf(e ast.Expr, format string, args ...interface{}) error {
	cc.invalid = e
	err := errors.Errorf(format, args...)
	if cc.decl != "" {
		err = errors.Wrapf(err, "in %s", cc.decl)
	}
	return err
}

// indexSites numbers declarations and expressions in source order, for diagnostics.
func (cc *CheckContext) indexSites() {
	const declStride = 1 << 20
	pos := 0
	for range cc.unit.Types {
		pos += declStride
	}
	for _, decl := range cc.unit.Funcs {
		pos += declStride
		n, name := pos, decl.Name
		ast.WalkExpr(decl.Body, func(e ast.Expr) {
			n++
			cc.sites[e] = site{name, n}
		})
	}
}

func (cc *CheckContext) declPos(name string) int {
	const declStride = 1 << 20
	for i, d := range cc.unit.Types {
		if d.Name == name {
			return (i + 1) * declStride
		}
	}
	for i, d := range cc.unit.Funcs {
		if d.Name == name {
			return (len(cc.unit.Types) + i + 1) * declStride
		}
	}
	return 0
}

func (cc *CheckContext) annotate(e ast.Expr, v value) {
	cc.annotations = append(cc.annotations, annotation{e, v})
}

type annotatable interface {
	SetModes(types.ModeVec)
	SetCheckedType(types.Type)
}

// applyAnnotations assigns resolved modes to every checked expression.
func (cc *CheckContext) applyAnnotations() {
	for _, a := range cc.annotations {
		if e, ok := a.expr.(annotatable); ok {
			e.SetModes(a.v.modes.Resolve())
			e.SetCheckedType(a.v.typ)
		}
	}
}
