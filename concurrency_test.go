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
	"testing"

	"github.com/wdamron/modal/ast"
	. "github.com/wdamron/modal/construct"
	"github.com/wdamron/modal/types"
)

var counter = TRecord("counter", TMutable("n", types.Int), TField("label", types.String))

func thunk() *types.Arrow { return TArrow(nil, P(types.Unit)) }

// spawnCapturing spawns a closure which captures r.
func spawnCapturing(param types.Param) *ast.Unit {
	body := Spawn(Func(nil, thunk(), Let("c", Var("r"), UnitLit())))
	return Unit("threads", nil, Decl("f", []string{"r"}, TArrow1(param, P(types.Unit)), body))
}

func TestSpawnPortability(t *testing.T) {
	mustAccept(t, spawnCapturing(P(types.Int)), DefaultOptions())
	mustAccept(t, spawnCapturing(P(intRef)), DefaultOptions())

	err := mustReject(t, spawnCapturing(P(intRef, types.Nonportable)), DefaultOptions(), PortabilityViolation)
	if d := err.Diagnostics[0]; d.Offered != "nonportable" || d.Required != "portable" || d.Reason != "spawn" {
		t.Fatalf("unexpected diagnostic: %s", d)
	}
	mustReject(t, spawnCapturing(P(intRef, types.Contended)), DefaultOptions(), PortabilityViolation)

	strict := DefaultOptions()
	strict.StrictPortability = true
	mustReject(t, spawnCapturing(P(intRef)), strict, PortabilityViolation)
	mustAccept(t, spawnCapturing(P(types.Int)), strict)
}

func TestStrictPortabilityThroughRecursiveTypes(t *testing.T) {
	a, b := TNamed("a", nil), TNamed("b", nil)
	a.Underlying = TRecord("a", TField("b", b), TMutable("m", types.Int))
	b.Underlying = TRecord("b", TField("a", a))
	strict := DefaultOptions()
	strict.StrictPortability = true

	capture := func(name string) *ast.Func { return Func(nil, thunk(), Let("c", Var(name), UnitLit())) }
	sig := TArrow2(P(a), P(b), P(types.Unit))
	alone := Unit("threads", nil, Decl("f", []string{"x", "y"}, sig, Spawn(capture("y"))))
	mustReject(t, alone, strict, PortabilityViolation)

	// Capturing x first must not hide the mutable state reachable from y.
	after := Unit("threads", nil, Decl("f", []string{"x", "y"}, sig, Let("g", capture("x"), Spawn(capture("y")))))
	mustReject(t, after, strict, PortabilityViolation)
}

func TestSpawnRequiresGlobalClosure(t *testing.T) {
	body := Spawn(LocalFunc(nil, thunk(), UnitLit()))
	unit := Unit("threads", nil, Decl("f", nil, TArrow(nil, P(types.Unit)), body))
	mustReject(t, unit, DefaultOptions(), StackDisciplineViolation)
}

func TestClosurePortabilityAnnotation(t *testing.T) {
	fn := Func(nil, thunk(), Let("c", Var("r"), UnitLit()))
	unit := Unit("threads", nil,
		Decl("f", []string{"r"}, TArrow1(P(intRef, types.Contended), P(types.Unit)), Let("g", fn, UnitLit())))
	res := mustAccept(t, unit, DefaultOptions())
	g := res.Unit.Funcs[0].Body.(*ast.Let).Value
	if m := g.Modes(); !m[types.PortabilityAxis].Is(types.Nonportable) {
		t.Fatalf("expected closure capturing contended state to be nonportable, found %s", m)
	}
}

func TestClosureCapturesMustOutliveClosure(t *testing.T) {
	fn := Func(nil, thunk(), Let("c", Var("r"), UnitLit()))
	unit := Unit("closures", nil,
		Decl("f", []string{"r"}, TArrow1(P(intRef, types.Local), P(types.Unit)), Let("g", fn, UnitLit())))
	mustReject(t, unit, DefaultOptions(), StackDisciplineViolation)

	local := Unit("closures", nil,
		Decl("f", []string{"r"}, TArrow1(P(intRef, types.Local), P(types.Unit)),
			Let("g", LocalFunc(nil, thunk(), Let("c", Var("r"), UnitLit())), Call(Var("g")))))
	mustAccept(t, local, DefaultOptions())
}

func readField(contention types.Contention) *ast.Unit {
	return Unit("fields", nil,
		Decl("read", []string{"c"}, TArrow1(P(counter, contention), P(types.Int)), Select(Var("c"), "n")))
}

func TestContendedFieldAccess(t *testing.T) {
	mustAccept(t, readField(types.Uncontended), DefaultOptions())
	mustAccept(t, readField(types.Shared), DefaultOptions())
	err := mustReject(t, readField(types.Contended), DefaultOptions(), ContentionViolation)
	if d := err.Diagnostics[0]; d.Axis != types.ContentionAxis || d.Offered != "contended" || d.Required != "shared" {
		t.Fatalf("unexpected diagnostic: %s", d)
	}

	unchecked := DefaultOptions()
	unchecked.EnableContentionChecking = false
	mustAccept(t, readField(types.Contended), unchecked)

	immutable := Unit("fields", nil,
		Decl("label", []string{"c"}, TArrow1(P(counter, types.Contended), P(types.String, types.Contended)), Select(Var("c"), "label")))
	res := mustAccept(t, immutable, DefaultOptions())
	if m := res.Unit.Funcs[0].Body.Modes(); !m[types.ContentionAxis].Is(types.Contended) {
		t.Fatalf("expected immutable projection to stay contended, found %s", m)
	}
}

func TestSharedFieldWrite(t *testing.T) {
	unit := Unit("fields", nil,
		Decl("bump", []string{"c"}, TArrow1(P(counter, types.Shared), P(types.Unit)), Assign(Var("c"), "n", Int("1"))))
	err := mustReject(t, unit, DefaultOptions(), ContentionViolation)
	if d := err.Diagnostics[0]; d.Reason != "mutable field write" {
		t.Fatalf("unexpected diagnostic: %s", d)
	}
}

var (
	lock = TKey("lock")
	box  = TRecord("box", TMutable("n", types.Int))
)

func cellUnit(key types.Param, fn ast.Expr) *ast.Unit {
	cell := CellCreate(lock, Alloc(box, LabelValue("n", Int("0"))))
	return Unit("cells", nil,
		Decl("f", []string{"k", "r"}, TArrow2(key, P(intRef, types.Nonportable), P(types.Unit)),
			Let("c", cell, CellMap(Var("c"), Var("k"), fn))))
}

func TestCellMap(t *testing.T) {
	incr := Func([]string{"b"}, TArrow1(P(box), P(types.Unit)), Assign(Var("b"), "n", Int("1")))
	mustAccept(t, cellUnit(P(lock), incr), DefaultOptions())

	err := mustReject(t, cellUnit(P(lock, types.Contended), incr), DefaultOptions(), ContentionViolation)
	if d := err.Diagnostics[0]; d.Reason != "key use" {
		t.Fatalf("unexpected diagnostic: %s", d)
	}

	capturing := Func([]string{"b"}, TArrow1(P(box), P(types.Unit)), Let("x", Var("r"), Assign(Var("b"), "n", Int("1"))))
	mustReject(t, cellUnit(P(lock), capturing), DefaultOptions(), PortabilityViolation)
}

func TestCellExtractIsContended(t *testing.T) {
	read := Func([]string{"b"}, TArrow1(P(box), P(box)), Var("b"))
	extract := func(ret types.Param) *ast.Unit {
		cell := CellCreate(lock, Alloc(box, LabelValue("n", Int("0"))))
		return Unit("cells", nil,
			Decl("f", []string{"k"}, TArrow1(P(lock), ret),
				Let("c", cell, CellExtract(Var("c"), Var("k"), read))))
	}
	res := mustAccept(t, extract(P(box, types.Contended)), DefaultOptions())
	if m := res.Unit.Funcs[0].Body.Modes(); !m[types.ContentionAxis].Is(types.Contended) {
		t.Fatalf("expected extracted value to be contended, found %s", m)
	}
	mustReject(t, extract(P(box)), DefaultOptions(), UnsatisfiableConstraint)
}

func TestCellPayloadMustBeUncontended(t *testing.T) {
	unit := Unit("cells", nil,
		Decl("f", []string{"b"}, TArrow1(P(box, types.Contended), P(TCell(lock, box))), CellCreate(lock, Var("b"))))
	mustReject(t, unit, DefaultOptions(), ContentionViolation)
}

func TestCellKeyMismatch(t *testing.T) {
	other := TKey("other")
	incr := Func([]string{"b"}, TArrow1(P(box), P(types.Unit)), Assign(Var("b"), "n", Int("1")))
	cell := CellCreate(lock, Alloc(box, LabelValue("n", Int("0"))))
	unit := Unit("cells", nil,
		Decl("f", []string{"k"}, TArrow1(P(other), P(types.Unit)), Let("c", cell, CellMap(Var("c"), Var("k"), incr))))
	if _, err := NewContext(DefaultOptions()).Check(unit, nil); err == nil {
		t.Fatalf("expected mismatched key to be rejected")
	} else if _, ok := err.(*UnitError); ok {
		t.Fatalf("expected malformed input, found %v", err)
	}
}
