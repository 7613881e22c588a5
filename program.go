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
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/internal/util"
)

// ProgramResult is the outcome of checking a set of units.
type ProgramResult struct {
	// Results of checked units, in input order. Skipped units have no result.
	Units []*UnitResult
	// Malformed units, by name
	Errors map[string]error
	// Units which were not checked because an import failed, by name, with the reason
	Skipped map[string]string
	// Levels of the import order; units within a level were checked in parallel
	Levels [][]string
}

// Failed reports whether any unit was rejected, malformed, or skipped.
func (r *ProgramResult) Failed() bool {
	if len(r.Errors) > 0 || len(r.Skipped) > 0 {
		return true
	}
	for _, u := range r.Units {
		if u != nil && u.Failed() {
			return true
		}
	}
	return false
}

// Diagnostics returns the diagnostics of every checked unit, in input order.
func (r *ProgramResult) Diagnostics() []Diagnostic {
	var ds []Diagnostic
	for _, u := range r.Units {
		if u != nil {
			ds = append(ds, u.Diagnostics...)
		}
	}
	return ds
}

// CheckProgram checks units in import order. Units whose imports have all been checked are
// checked in parallel, each with a private CheckContext; the signatures of accepted units are
// published to shared before any importing unit starts. Imports may also name units already
// published to shared, but a unit already published cannot be checked again.
//
// A rejected or malformed unit never stops the others, but units importing it are skipped.
// Import cycles, duplicate units, and unknown imports are reported as an error before any unit is
// checked. Cancelling ctx stops scheduling further units.
func CheckProgram(ctx context.Context, units []*ast.Unit, shared *SharedEnv, opts Options) (*ProgramResult, error) {
	if shared == nil {
		shared = NewSharedEnv()
	}
	levels, err := importLevels(units, shared)
	if err != nil {
		return nil, err
	}
	result := &ProgramResult{
		Units:   make([]*UnitResult, len(units)),
		Errors:  make(map[string]error),
		Skipped: make(map[string]string),
	}
	failed := make(map[string]bool, len(units))
	errs := make([]error, len(units))

	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		names := make([]string, 0, len(level))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.workers())
		for _, i := range level {
			unit := units[i]
			names = append(names, unit.Name)
			if reason, skip := skipReason(unit, failed); skip {
				result.Skipped[unit.Name] = reason
				failed[unit.Name] = true
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				env := NewEnv(nil)
				env.Shared = shared
				res, err := NewContext(opts).Check(unit, env)
				result.Units[i] = res
				var unitErr *UnitError
				switch {
				case err == nil:
					errs[i] = shared.Publish(unit.Name, res.Signatures)
				case !errors.As(err, &unitErr):
					errs[i] = err
				}
				return nil
			})
		}
		result.Levels = append(result.Levels, names)
		if err := g.Wait(); err != nil {
			return result, err
		}
		for _, i := range level {
			name := units[i].Name
			switch {
			case errs[i] != nil:
				result.Errors[name] = errs[i]
				failed[name] = true
			case result.Units[i] != nil && result.Units[i].Failed():
				failed[name] = true
			}
		}
	}
	return result, nil
}

func skipReason(unit *ast.Unit, failed map[string]bool) (string, bool) {
	for _, imp := range unit.Imports {
		if failed[imp] {
			return "import " + imp + " failed", true
		}
	}
	return "", false
}

// importLevels orders units so that every unit follows its imports, grouping units which may be
// checked in parallel.
func importLevels(units []*ast.Unit, shared *SharedEnv) ([][]int, error) {
	index := make(map[string]int, len(units))
	for i, u := range units {
		if u == nil {
			return nil, errors.Errorf("Empty unit at position %d", i)
		}
		if _, dup := index[u.Name]; dup {
			return nil, errors.Errorf("Duplicate unit %s", u.Name)
		}
		if shared.HasUnit(u.Name) {
			return nil, errors.Errorf("Unit %s is already published", u.Name)
		}
		index[u.Name] = i
	}
	g := util.NewGraph(len(units))
	for i, u := range units {
		for _, imp := range u.Imports {
			j, ok := index[imp]
			if !ok {
				if shared.HasUnit(imp) {
					continue
				}
				return nil, errors.Errorf("Unit %s imports unknown unit %s", u.Name, imp)
			}
			if j == i {
				return nil, errors.Errorf("Unit %s imports itself", u.Name)
			}
			g.AddEdge(j, i)
		}
	}
	sccs := g.SCC()
	order := make([]int, 0, len(units))
	for _, scc := range sccs {
		if len(scc) > 1 {
			names := make([]string, len(scc))
			for k, v := range scc {
				names[k] = units[v].Name
			}
			return nil, errors.Errorf("Import cycle between units %v", names)
		}
		order = append(order, scc[0])
	}
	levelOf := g.Levels(order)
	var levels [][]int
	for _, v := range order {
		l := levelOf[v]
		for len(levels) <= l {
			levels = append(levels, nil)
		}
		levels[l] = append(levels[l], v)
	}
	return levels, nil
}
