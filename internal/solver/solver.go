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

package solver

import (
	"cmp"

	set "github.com/hashicorp/go-set/v3"

	"github.com/wdamron/modal/internal/util"
	"github.com/wdamron/modal/types"
)

// Origin records which construct produced a constraint.
type Origin uint8

const (
	OriginCall Origin = iota
	OriginAnnotation
	OriginJoin
	OriginCapture
	OriginReturn
	OriginStore
	OriginFieldRead
	OriginFieldWrite
	OriginSpawn
	OriginKeyUse
	OriginCellFunc
	OriginCellPayload
	OriginReuse
	OriginEscape
)

var originNames = [...]string{
	OriginCall:        "call argument",
	OriginAnnotation:  "annotation",
	OriginJoin:        "control-flow join",
	OriginCapture:     "closure capture",
	OriginReturn:      "return",
	OriginStore:       "store",
	OriginFieldRead:   "mutable field read",
	OriginFieldWrite:  "mutable field write",
	OriginSpawn:       "spawn",
	OriginKeyUse:      "key use",
	OriginCellFunc:    "cell function",
	OriginCellPayload: "cell payload",
	OriginReuse:       "repeated use",
	OriginEscape:      "region escape",
}

func (o Origin) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}
	return "constraint"
}

// Constraint requires Lower ≤ Upper on Axis, in the listed order of the axis.
type Constraint struct {
	Lower, Upper types.Term
	Axis         types.Axis
	Origin       Origin
	Site         any
}

// Failure is an unsatisfiable pair of bounds. LowerBy and UpperBy are the constraints that
// introduced each bound.
type Failure struct {
	Axis             types.Axis
	Lower, Upper     types.Term
	LowerBy, UpperBy *Constraint
}

// Blame returns the constraint a failure is reported against: the upper bound where known.
func (f Failure) Blame() *Constraint {
	return firstNonNil(f.UpperBy, f.LowerBy)
}

type constraintKey struct {
	lower, upper types.Term
	axis         types.Axis
	origin       Origin
	site         any
}

// Solver collects ordering constraints between mode terms for one unit and solves them to a
// minimal assignment.
//
// A solver cannot be used concurrently.
type Solver struct {
	vars        VarTracker
	rigid       map[*types.ModeVar]*types.ModeVar
	constraints []*Constraint
	seen        *set.Set[constraintKey]
}

func New() *Solver {
	return &Solver{
		rigid: make(map[*types.ModeVar]*types.ModeVar),
		seen:  set.New[constraintKey](64),
	}
}

// Reset discards all variables and constraints.
func (s *Solver) Reset() {
	s.vars.Reset()
	for k := range s.rigid {
		delete(s.rigid, k)
	}
	for i := range s.constraints {
		s.constraints[i] = nil
	}
	s.constraints = s.constraints[:0]
	s.seen = set.New[constraintKey](64)
}

func (s *Solver) Vars() []*types.ModeVar     { return s.vars.Vars() }
func (s *Solver) Constraints() []*Constraint { return s.constraints }

// Fresh allocates a flexible variable.
func (s *Solver) Fresh(axis types.Axis) *types.ModeVar { return s.vars.New(axis) }

// Rigid returns the rigid stand-in for the generic variable g, allocating it on first use.
func (s *Solver) Rigid(g *types.ModeVar) *types.ModeVar {
	if r, ok := s.rigid[g]; ok {
		return r
	}
	r := s.vars.NewRigid(g)
	s.rigid[g] = r
	return r
}

// Le records lo ≤ hi on axis a. Unset terms are ignored.
func (s *Solver) Le(a types.Axis, lo, hi types.Term, origin Origin, site any) {
	if lo.IsUnset() || hi.IsUnset() {
		return
	}
	if lo.IsVar() && hi.IsVar() && lo.Var.Find() == hi.Var.Find() {
		return
	}
	if !s.seen.Insert(constraintKey{lo, hi, a, origin, site}) {
		return
	}
	s.constraints = append(s.constraints, &Constraint{Lower: lo, Upper: hi, Axis: a, Origin: origin, Site: site})
}

// LeVec records lo ≤ hi on every axis.
func (s *Solver) LeVec(lo, hi types.ModeVec, origin Origin, site any) {
	for _, a := range types.Axes {
		s.Le(a, lo[a], hi[a], origin, site)
	}
}

// Eq forces a and b equal. Two flexible variables are merged; anything else is related by a pair
// of ordering constraints.
func (s *Solver) Eq(a types.Axis, x, y types.Term, origin Origin, site any) {
	if x.IsVar() && y.IsVar() {
		rx, ry := x.Var.Find(), y.Var.Find()
		if rx == ry {
			return
		}
		if rx.IsFlexible() {
			rx.SetLink(ry)
			return
		}
		if ry.IsFlexible() {
			ry.SetLink(rx)
			return
		}
	}
	s.Le(a, x, y, origin, site)
	s.Le(a, y, x, origin, site)
}

// Join returns a term above every given term. Constant inputs are joined directly; otherwise a
// fresh variable is constrained above each input.
func (s *Solver) Join(a types.Axis, origin Origin, site any, ts ...types.Term) types.Term {
	c, allConst := a.Bottom(), true
	for _, t := range ts {
		if t.IsUnset() {
			continue
		}
		if t.IsVar() {
			allConst = false
			break
		}
		c = a.Join(c, t.Value)
	}
	if allConst {
		return types.ConstLevel(c)
	}
	v := types.VarTerm(s.Fresh(a))
	for _, t := range ts {
		s.Le(a, t, v, origin, site)
	}
	return v
}

// JoinVec joins mode vectors axis by axis.
func (s *Solver) JoinVec(origin Origin, site any, vs ...types.ModeVec) types.ModeVec {
	var out types.ModeVec
	ts := make([]types.Term, len(vs))
	for _, a := range types.Axes {
		for i, v := range vs {
			ts[i] = v[a]
		}
		out[a] = s.Join(a, origin, site, ts...)
	}
	return out
}

type bound struct {
	c     uint8
	cBy   *Constraint
	rigid *set.TreeSet[*types.ModeVar]
	rBy   *Constraint
}

func compareVars(a, b *types.ModeVar) int { return cmp.Compare(a.Id(), b.Id()) }

func newBound(c uint8) bound {
	return bound{c: c, rigid: set.NewTreeSet[*types.ModeVar](compareVars)}
}

// Solve assigns every flexible variable its least value consistent with the recorded
// constraints. Cycles of variables are collapsed into one component; lower bounds are then pushed
// forward and upper bounds backward through the condensed graph in topological order, so each
// bound moves at most once per component. Every inconsistent component is reported; independent
// constraints are still solved.
func (s *Solver) Solve() []Failure {
	s.vars.FlattenLinks()
	vars := s.vars.Vars()
	index := make(map[*types.ModeVar]int, len(vars))
	reps := make([]*types.ModeVar, 0, len(vars))
	for _, v := range vars {
		r := v.Find()
		if _, ok := index[r]; !ok {
			index[r] = len(reps)
			reps = append(reps, r)
		}
	}

	var failures []Failure
	reported := set.New[[2]*Constraint](8)
	fail := func(f Failure) {
		if reported.Insert([2]*Constraint{f.LowerBy, f.UpperBy}) {
			failures = append(failures, f)
		}
	}

	g := util.NewGraph(len(reps))
	for _, c := range s.constraints {
		lo, hi := c.Lower, c.Upper
		switch {
		case lo.IsVar() && hi.IsVar():
			g.AddEdge(index[lo.Var.Find()], index[hi.Var.Find()])
		case lo.IsConst() && hi.IsConst():
			if !c.Axis.Le(lo.Value, hi.Value) {
				fail(Failure{Axis: c.Axis, Lower: lo, Upper: hi, LowerBy: c, UpperBy: c})
			}
		}
	}
	sccs := g.SCC()
	comp, dag := g.Condense(sccs)

	lower, upper := make([]bound, len(sccs)), make([]bound, len(sccs))
	axes := make([]types.Axis, len(sccs))
	for i, scc := range sccs {
		a := reps[scc[0]].Axis()
		axes[i] = a
		lower[i], upper[i] = newBound(a.Bottom()), newBound(a.Top())
		for _, vi := range scc {
			if r := reps[vi]; r.IsRigid() {
				lower[i].rigid.Insert(r)
				upper[i].rigid.Insert(r)
			}
		}
	}
	edgeBy := make(map[[2]int]*Constraint)
	for _, c := range s.constraints {
		lo, hi := c.Lower, c.Upper
		switch {
		case lo.IsConst() && hi.IsVar():
			i := comp[index[hi.Var.Find()]]
			if b := &lower[i]; !c.Axis.Le(lo.Value, b.c) {
				b.c, b.cBy = lo.Value, c
			}
		case lo.IsVar() && hi.IsConst():
			i := comp[index[lo.Var.Find()]]
			if b := &upper[i]; !c.Axis.Le(b.c, hi.Value) {
				b.c, b.cBy = hi.Value, c
			}
		case lo.IsVar() && hi.IsVar():
			e := [2]int{comp[index[lo.Var.Find()]], comp[index[hi.Var.Find()]]}
			if _, ok := edgeBy[e]; !ok && e[0] != e[1] {
				edgeBy[e] = c
			}
		}
	}

	// Condensed components are numbered in topological order.
	for i := range sccs {
		for _, j := range dag[i] {
			from, to := &lower[i], &lower[j]
			if a := axes[i]; !a.Le(from.c, to.c) {
				to.c, to.cBy = from.c, from.cBy
			}
			if to.rigid.InsertSet(from.rigid) && to.rBy == nil {
				to.rBy = firstNonNil(from.rBy, edgeBy[[2]int{i, j}])
			}
		}
	}
	for i := len(sccs) - 1; i >= 0; i-- {
		for _, j := range dag[i] {
			from, to := &upper[j], &upper[i]
			if a := axes[i]; !a.Le(to.c, from.c) {
				to.c, to.cBy = from.c, from.cBy
			}
			if to.rigid.InsertSet(from.rigid) && to.rBy == nil {
				to.rBy = firstNonNil(from.rBy, edgeBy[[2]int{i, j}])
			}
		}
	}

	// A conflict inherited unchanged from a predecessor component is reported once, where it
	// first appears.
	preds := make([][]int, len(sccs))
	for i, succs := range dag {
		for _, j := range succs {
			preds[j] = append(preds[j], i)
		}
	}
	conflicts := make([]*Failure, len(sccs))
	solution := make([]types.Term, len(sccs))
	for i := range sccs {
		a, lo, hi := axes[i], &lower[i], &upper[i]
		if f, ok := checkBounds(a, lo, hi); !ok {
			conflicts[i] = &f
			inherited := false
			for _, p := range preds[i] {
				if c := conflicts[p]; c != nil && c.Lower == f.Lower && c.Upper == f.Upper {
					inherited = true
					break
				}
			}
			if !inherited {
				fail(f)
			}
		}
		solution[i] = minimal(a, lo)
	}
	for _, r := range reps {
		t := solution[comp[index[r]]]
		if r.IsRigid() {
			t = types.VarTerm(r.Origin())
		}
		r.SetResolved(t)
	}
	return failures
}

func firstNonNil(cs ...*Constraint) *Constraint {
	for _, c := range cs {
		if c != nil {
			return c
		}
	}
	return nil
}

func rigidTerm(r *types.ModeVar) types.Term {
	if o := r.Origin(); o != nil {
		return types.VarTerm(o)
	}
	return types.VarTerm(r)
}

// checkBounds decides whether some value lies between lo and hi for every choice of the rigid
// variables involved. Rigid variables are independent, so only the trivial relations hold.
func checkBounds(a types.Axis, lo, hi *bound) (Failure, bool) {
	f := Failure{Axis: a, Lower: types.ConstLevel(lo.c), Upper: types.ConstLevel(hi.c), LowerBy: lo.cBy, UpperBy: hi.cBy}
	if !a.Le(lo.c, hi.c) {
		return f, false
	}
	if lo.rigid.Size() > 0 && hi.c != a.Top() {
		r := lo.rigid.Slice()[0]
		f.Lower, f.LowerBy = rigidTerm(r), lo.rBy
		return f, false
	}
	if hi.rigid.Size() > 0 && lo.c != a.Bottom() {
		r := hi.rigid.Slice()[0]
		f.Upper, f.UpperBy = rigidTerm(r), hi.rBy
		return f, false
	}
	for _, r := range lo.rigid.Slice() {
		for _, t := range hi.rigid.Slice() {
			if r != t {
				f.Lower, f.LowerBy = rigidTerm(r), lo.rBy
				f.Upper, f.UpperBy = rigidTerm(t), hi.rBy
				return f, false
			}
		}
	}
	return f, true
}

func minimal(a types.Axis, lo *bound) types.Term {
	switch lo.rigid.Size() {
	case 0:
		return types.ConstLevel(lo.c)
	case 1:
		if lo.c == a.Bottom() {
			return rigidTerm(lo.rigid.Slice()[0])
		}
	}
	return types.ConstLevel(a.Top())
}
