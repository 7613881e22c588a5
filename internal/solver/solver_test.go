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
	"testing"

	"github.com/wdamron/modal/types"
)

var (
	global = types.ConstTerm(types.Global)
	local  = types.ConstTerm(types.Local)
)

func TestSolveChain(t *testing.T) {
	s := New()
	v, w := s.Fresh(types.LocalityAxis), s.Fresh(types.LocalityAxis)
	s.Le(types.LocalityAxis, local, types.VarTerm(v), OriginCall, nil)
	s.Le(types.LocalityAxis, types.VarTerm(v), types.VarTerm(w), OriginCall, nil)
	if fs := s.Solve(); len(fs) != 0 {
		t.Fatalf("expected no failures, found %v", fs)
	}
	if r := types.VarTerm(w).Resolve(); !r.Is(types.Local) {
		t.Fatalf("expected local, found %s", types.TermString(types.LocalityAxis, r))
	}
}

func TestSolveMinimal(t *testing.T) {
	s := New()
	v := s.Fresh(types.UniquenessAxis)
	s.Le(types.UniquenessAxis, types.VarTerm(v), types.ConstTerm(types.Aliased), OriginCall, nil)
	if fs := s.Solve(); len(fs) != 0 {
		t.Fatalf("expected no failures, found %v", fs)
	}
	if r := types.VarTerm(v).Resolve(); !r.Is(types.Unique) {
		t.Fatalf("expected unique, found %s", types.TermString(types.UniquenessAxis, r))
	}
}

func TestSolveConflict(t *testing.T) {
	s := New()
	v := s.Fresh(types.LocalityAxis)
	s.Le(types.LocalityAxis, local, types.VarTerm(v), OriginCall, "arg")
	s.Le(types.LocalityAxis, types.VarTerm(v), global, OriginReturn, "ret")
	fs := s.Solve()
	if len(fs) != 1 {
		t.Fatalf("expected 1 failure, found %d", len(fs))
	}
	f := fs[0]
	if !f.Lower.Is(types.Local) || !f.Upper.Is(types.Global) {
		t.Fatalf("expected local/global conflict, found %s/%s",
			types.TermString(f.Axis, f.Lower), types.TermString(f.Axis, f.Upper))
	}
	if f.Blame().Origin != OriginReturn || f.Blame().Site != "ret" {
		t.Fatalf("expected failure blamed on the return constraint, found %v", f.Blame())
	}
}

func TestSolveCycle(t *testing.T) {
	s := New()
	a := types.ContentionAxis
	v, w, x := s.Fresh(a), s.Fresh(a), s.Fresh(a)
	s.Le(a, types.VarTerm(v), types.VarTerm(w), OriginJoin, nil)
	s.Le(a, types.VarTerm(w), types.VarTerm(x), OriginJoin, nil)
	s.Le(a, types.VarTerm(x), types.VarTerm(v), OriginJoin, nil)
	s.Le(a, types.ConstTerm(types.Shared), types.VarTerm(w), OriginCall, nil)
	if fs := s.Solve(); len(fs) != 0 {
		t.Fatalf("expected no failures, found %v", fs)
	}
	for _, mv := range []*types.ModeVar{v, w, x} {
		if r := types.VarTerm(mv).Resolve(); !r.Is(types.Shared) {
			t.Fatalf("expected shared, found %s", types.TermString(a, r))
		}
	}
}

func TestSolvePastAxis(t *testing.T) {
	s := New()
	a := types.ContentionAxis
	v := s.Fresh(a)
	s.Le(a, types.ConstTerm(types.Contended), types.VarTerm(v), OriginCall, nil)
	s.Le(a, types.VarTerm(v), types.ConstTerm(types.Uncontended), OriginFieldWrite, nil)
	fs := s.Solve()
	if len(fs) != 1 || fs[0].Blame().Origin != OriginFieldWrite {
		t.Fatalf("expected one failure blamed on the field write, found %v", fs)
	}
}

func TestSolveIndependentFailures(t *testing.T) {
	s := New()
	v, w := s.Fresh(types.LocalityAxis), s.Fresh(types.LinearityAxis)
	s.Le(types.LocalityAxis, local, types.VarTerm(v), OriginCall, 1)
	s.Le(types.LocalityAxis, types.VarTerm(v), global, OriginCall, 2)
	s.Le(types.LinearityAxis, types.ConstTerm(types.Once), types.VarTerm(w), OriginCall, 3)
	s.Le(types.LinearityAxis, types.VarTerm(w), types.ConstTerm(types.Many), OriginReuse, 4)
	if fs := s.Solve(); len(fs) != 2 {
		t.Fatalf("expected 2 failures, found %d", len(fs))
	}
}

func TestSolveDedupesChainFailures(t *testing.T) {
	s := New()
	a := types.LocalityAxis
	v, w, x := s.Fresh(a), s.Fresh(a), s.Fresh(a)
	s.Le(a, local, types.VarTerm(v), OriginCall, nil)
	s.Le(a, types.VarTerm(v), types.VarTerm(w), OriginCall, nil)
	s.Le(a, types.VarTerm(w), types.VarTerm(x), OriginCall, nil)
	s.Le(a, types.VarTerm(x), global, OriginReturn, nil)
	s.Le(a, types.VarTerm(v), types.VarTerm(w), OriginCall, nil)
	if n := len(s.Constraints()); n != 4 {
		t.Fatalf("expected repeated constraints to be recorded once, found %d", n)
	}
	if fs := s.Solve(); len(fs) != 1 {
		t.Fatalf("expected 1 failure, found %d", len(fs))
	}
}

func TestSolveConstants(t *testing.T) {
	s := New()
	s.Le(types.LocalityAxis, global, local, OriginCall, nil)
	s.Le(types.LocalityAxis, local, global, OriginCall, nil)
	if fs := s.Solve(); len(fs) != 1 {
		t.Fatalf("expected 1 failure, found %d", len(fs))
	}
}

func TestSolveRigid(t *testing.T) {
	g := types.NewGenericVar(0, "m", types.LocalityAxis)
	s := New()
	r := s.Rigid(g)
	if s.Rigid(g) != r {
		t.Fatalf("expected one rigid variable per generic variable")
	}
	v := s.Fresh(types.LocalityAxis)
	s.Le(types.LocalityAxis, types.VarTerm(r), types.VarTerm(v), OriginReturn, nil)
	s.Le(types.LocalityAxis, types.VarTerm(v), types.VarTerm(r), OriginReturn, nil)
	if fs := s.Solve(); len(fs) != 0 {
		t.Fatalf("expected no failures, found %v", fs)
	}
	if res := types.VarTerm(v).Resolve(); res.Var != g {
		t.Fatalf("expected 'm, found %s", types.TermString(types.LocalityAxis, res))
	}

	// 'm may be local, so it cannot flow into a global position
	s.Reset()
	r = s.Rigid(g)
	s.Le(types.LocalityAxis, types.VarTerm(r), global, OriginReturn, nil)
	if fs := s.Solve(); len(fs) != 1 {
		t.Fatalf("expected 1 failure, found %d", len(fs))
	}

	// 'm may be global, so a local value cannot flow into it
	s.Reset()
	r = s.Rigid(g)
	s.Le(types.LocalityAxis, local, types.VarTerm(r), OriginReturn, nil)
	if fs := s.Solve(); len(fs) != 1 {
		t.Fatalf("expected 1 failure, found %d", len(fs))
	}

	// global is below every choice of 'm
	s.Reset()
	r = s.Rigid(g)
	s.Le(types.LocalityAxis, global, types.VarTerm(r), OriginReturn, nil)
	if fs := s.Solve(); len(fs) != 0 {
		t.Fatalf("expected no failures, found %v", fs)
	}
}

func TestSolveDistinctRigid(t *testing.T) {
	gm := types.NewGenericVar(0, "m", types.LocalityAxis)
	gn := types.NewGenericVar(1, "n", types.LocalityAxis)
	s := New()
	v := s.Fresh(types.LocalityAxis)
	s.Le(types.LocalityAxis, types.VarTerm(s.Rigid(gm)), types.VarTerm(v), OriginCall, nil)
	s.Le(types.LocalityAxis, types.VarTerm(v), types.VarTerm(s.Rigid(gn)), OriginReturn, nil)
	fs := s.Solve()
	if len(fs) != 1 {
		t.Fatalf("expected 1 failure, found %d", len(fs))
	}
	if fs[0].Lower.Var != gm || fs[0].Upper.Var != gn {
		t.Fatalf("expected 'm/'n conflict, found %s/%s",
			types.TermString(types.LocalityAxis, fs[0].Lower), types.TermString(types.LocalityAxis, fs[0].Upper))
	}
}

func TestEqMerges(t *testing.T) {
	s := New()
	a := types.PortabilityAxis
	v, w := s.Fresh(a), s.Fresh(a)
	s.Eq(a, types.VarTerm(v), types.VarTerm(w), OriginCall, nil)
	if v.Find() != w.Find() {
		t.Fatalf("expected merged variables")
	}
	s.Le(a, types.ConstTerm(types.Nonportable), types.VarTerm(v), OriginCapture, nil)
	if fs := s.Solve(); len(fs) != 0 {
		t.Fatalf("expected no failures, found %v", fs)
	}
	if r := types.VarTerm(w).Resolve(); !r.Is(types.Nonportable) {
		t.Fatalf("expected nonportable, found %s", types.TermString(a, r))
	}
}

func TestJoin(t *testing.T) {
	s := New()
	a := types.LinearityAxis
	if j := s.Join(a, OriginJoin, nil, types.ConstTerm(types.Many), types.ConstTerm(types.Separate)); !j.Is(types.Separate) {
		t.Fatalf("expected separate, found %s", types.TermString(a, j))
	}
	v := s.Fresh(a)
	j := s.Join(a, OriginJoin, nil, types.ConstTerm(types.Once), types.VarTerm(v))
	if !j.IsVar() {
		t.Fatalf("expected a join variable")
	}
	if fs := s.Solve(); len(fs) != 0 {
		t.Fatalf("expected no failures, found %v", fs)
	}
	if r := j.Resolve(); !r.Is(types.Once) {
		t.Fatalf("expected once, found %s", types.TermString(a, r))
	}
}
