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

package astutil

import (
	"github.com/pkg/errors"

	"github.com/wdamron/modal/ast"
)

// Analysis of a function body ahead of mode checking: binder resolution, closure captures, use
// counts, and exclave placement.
//
// Use counts take the maximum over the branches of a conditional, since only one branch runs; uses
// within a loop body count twice, since the body may run again.
type Analysis struct {
	Scopes     map[string]int // map from variable to binder id
	ScopeStash []StashedScope // shadowed variable-scope mappings
	Binders    []Binder       // indexed by binder id
	Counts     []int          // use counts, indexed by binder id
	Uses       map[*ast.Var]int
	Params     map[*ast.Func][]int // argument binder ids
	Lets       map[*ast.Let]int
	Captures   map[*ast.Func][]int
	Exclaves   map[*ast.Func]bool // functions with an exclave in tail position
	Err        error
	Invalid    ast.Expr

	funcs []funcScope

	// initial space:
	_scopeStash [16]StashedScope
	_binders    [16]Binder
	_counts     [16]int
}

// Binder is a variable introduced by a function argument or let-binding.
type Binder struct {
	Name string
	// Depth of the enclosing function, starting from 0 for the analyzed function.
	Depth int
	// Binding expression: the let-binding, or the function for arguments.
	Site ast.Expr
}

type StashedScope struct {
	Name   string
	Binder int
}

type funcScope struct {
	fn   *ast.Func
	seen map[int]bool
}

func (a *Analysis) Init() {
	a.Scopes = make(map[string]int, 32)
	a.Uses = make(map[*ast.Var]int, 32)
	a.Params = make(map[*ast.Func][]int, 8)
	a.Lets = make(map[*ast.Let]int, 16)
	a.Captures = make(map[*ast.Func][]int, 8)
	a.Exclaves = make(map[*ast.Func]bool, 8)
	a.ScopeStash, a.Binders, a.Counts = a._scopeStash[:0], a._binders[:0], a._counts[:0]
}

func (a *Analysis) Reset() {
	for v := range a.Scopes {
		delete(a.Scopes, v)
	}
	for v := range a.Uses {
		delete(a.Uses, v)
	}
	for f := range a.Params {
		delete(a.Params, f)
	}
	for l := range a.Lets {
		delete(a.Lets, l)
	}
	for f := range a.Captures {
		delete(a.Captures, f)
	}
	for f := range a.Exclaves {
		delete(a.Exclaves, f)
	}
	for i := range a._scopeStash {
		a._scopeStash[i] = StashedScope{}
	}
	for i := range a._binders {
		a._binders[i] = Binder{}
	}
	a.ScopeStash, a.Binders, a.Counts, a.funcs, a.Err, a.Invalid =
		a._scopeStash[:0], a._binders[:0], a._counts[:0], nil, nil, nil
}

// Analyze analyzes a function and every closure within it. Variables which are not bound within
// the function are left unresolved; the checker looks them up in its environment.
func (a *Analysis) Analyze(fn *ast.Func) error {
	if a.Scopes == nil {
		a.Init()
	}
	if err := a.analyzeFunc(fn); err != nil {
		a.Err = err
		return err
	}
	return nil
}

// Binder returns the binder id a variable occurrence refers to.
func (a *Analysis) Binder(v *ast.Var) (int, bool) {
	id, ok := a.Uses[v]
	return id, ok
}

// UsedMoreThanOnce reports whether a binder may be used more than once.
func (a *Analysis) UsedMoreThanOnce(id int) bool { return a.Counts[id] > 1 }

// returns 1 if the variable was stashed, otherwise 0
func (a *Analysis) stash(name string) int {
	if id, exists := a.Scopes[name]; exists {
		a.ScopeStash = append(a.ScopeStash, StashedScope{name, id})
		return 1
	}
	return 0
}

func (a *Analysis) unstash(count int) {
	if count <= 0 {
		return
	}
	stash := a.ScopeStash
	unstashed := 0
	for i := len(stash) - 1; unstashed < count && i >= 0; i, unstashed = i-1, unstashed+1 {
		a.Scopes[stash[i].Name] = stash[i].Binder
	}
	a.ScopeStash = a.ScopeStash[0 : len(stash)-unstashed]
}

func (a *Analysis) bind(name string, site ast.Expr) int {
	id := len(a.Binders)
	a.Binders = append(a.Binders, Binder{Name: name, Depth: len(a.funcs) - 1, Site: site})
	a.Counts = append(a.Counts, 0)
	a.Scopes[name] = id
	return id
}

func (a *Analysis) unbind(name string, stashed int) {
	delete(a.Scopes, name)
	a.unstash(stashed)
}

func (a *Analysis) analyzeFunc(fn *ast.Func) error {
	a.funcs = append(a.funcs, funcScope{fn: fn, seen: make(map[int]bool)})
	stashed := make([]int, len(fn.ArgNames))
	params := make([]int, len(fn.ArgNames))
	for i, name := range fn.ArgNames {
		stashed[i] = a.stash(name)
		params[i] = a.bind(name, fn)
	}
	a.Params[fn] = params
	err := a.analyzeExpr(fn.Body, true)
	for i := len(fn.ArgNames) - 1; i >= 0; i-- {
		a.unbind(fn.ArgNames[i], stashed[i])
	}
	a.funcs = a.funcs[:len(a.funcs)-1]
	return err
}

func (a *Analysis) use(e *ast.Var) {
	id, ok := a.Scopes[e.Name]
	if !ok {
		return
	}
	a.Uses[e] = id
	a.Counts[id]++
	depth := a.Binders[id].Depth
	for d := len(a.funcs) - 1; d > depth; d-- {
		scope := a.funcs[d]
		if !scope.seen[id] {
			scope.seen[id] = true
			a.Captures[scope.fn] = append(a.Captures[scope.fn], id)
		}
	}
}

func (a *Analysis) snapshot() []int {
	return append([]int(nil), a.Counts...)
}

func (a *Analysis) analyzeExpr(e ast.Expr, tail bool) error {
	switch e := e.(type) {
	case *ast.Literal:
		return nil

	case *ast.Var:
		a.use(e)
		return nil

	case *ast.Call:
		if err := a.analyzeExpr(e.Func, false); err != nil {
			return err
		}
		for _, arg := range e.Args {
			if err := a.analyzeExpr(arg, false); err != nil {
				return err
			}
		}
		return nil

	case *ast.Func:
		return a.analyzeFunc(e)

	case *ast.Let:
		if err := a.analyzeExpr(e.Value, false); err != nil {
			return err
		}
		stashed := a.stash(e.Var)
		a.Lets[e] = a.bind(e.Var, e)
		err := a.analyzeExpr(e.Body, tail)
		a.unbind(e.Var, stashed)
		return err

	case *ast.If:
		if err := a.analyzeExpr(e.Cond, false); err != nil {
			return err
		}
		before := a.snapshot()
		if err := a.analyzeExpr(e.Then, tail); err != nil {
			return err
		}
		then := a.Counts
		a.Counts = before
		// Binders introduced within the first branch are not visible in the second.
		for len(a.Counts) < len(then) {
			a.Counts = append(a.Counts, 0)
		}
		if err := a.analyzeExpr(e.Else, tail); err != nil {
			return err
		}
		for i, n := range then {
			if n > a.Counts[i] {
				a.Counts[i] = n
			}
		}
		return nil

	case *ast.Loop:
		before := a.snapshot()
		if err := a.analyzeExpr(e.Body, false); err != nil {
			return err
		}
		for i, n := range before {
			a.Counts[i] += a.Counts[i] - n
		}
		return nil

	case *ast.Alloc:
		for _, field := range e.Fields {
			if err := a.analyzeExpr(field.Value, false); err != nil {
				return err
			}
		}
		return nil

	case *ast.Select:
		return a.analyzeExpr(e.Record, false)

	case *ast.Assign:
		if err := a.analyzeExpr(e.Record, false); err != nil {
			return err
		}
		return a.analyzeExpr(e.Value, false)

	case *ast.Region:
		return a.analyzeExpr(e.Body, false)

	case *ast.Exclave:
		if !tail {
			a.Invalid = e
			return errors.New("Exclave is only permitted in tail position of a function body")
		}
		a.Exclaves[a.funcs[len(a.funcs)-1].fn] = true
		return a.analyzeExpr(e.Body, false)

	case *ast.Spawn:
		return a.analyzeExpr(e.Func, false)

	case *ast.CellCreate:
		return a.analyzeExpr(e.Payload, false)

	case *ast.CellMap:
		return a.analyzeAll(e.Cell, e.Key, e.Func)

	case *ast.CellExtract:
		return a.analyzeAll(e.Cell, e.Key, e.Func)

	case nil:
		return errors.New("Missing expression")

	default:
		a.Invalid = e
		return errors.New("Unknown expression type: " + e.ExprName())
	}
}

func (a *Analysis) analyzeAll(es ...ast.Expr) error {
	for _, e := range es {
		if err := a.analyzeExpr(e, false); err != nil {
			return err
		}
	}
	return nil
}
