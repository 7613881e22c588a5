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

package types

import (
	"testing"
)

func TestAxisLatticeLaws(t *testing.T) {
	for _, a := range Axes {
		n := uint8(a.Height())
		for x := uint8(0); x < n; x++ {
			if a.Join(x, x) != x || a.Meet(x, x) != x {
				t.Fatalf("%s: join/meet not idempotent at %s", a, a.ValueString(x))
			}
			if !a.Le(x, x) {
				t.Fatalf("%s: order not reflexive at %s", a, a.ValueString(x))
			}
			for y := uint8(0); y < n; y++ {
				if a.Join(x, y) != a.Join(y, x) || a.Meet(x, y) != a.Meet(y, x) {
					t.Fatalf("%s: join/meet not commutative", a)
				}
				if !a.Le(x, a.Join(x, y)) || !a.Le(a.Meet(x, y), x) {
					t.Fatalf("%s: join/meet do not respect the order", a)
				}
				if a.Le(x, y) && a.Le(y, x) && x != y {
					t.Fatalf("%s: order not antisymmetric", a)
				}
				if !a.Le(x, y) && !a.Le(y, x) {
					t.Fatalf("%s: order not total", a)
				}
				for z := uint8(0); z < n; z++ {
					if a.Join(a.Join(x, y), z) != a.Join(x, a.Join(y, z)) {
						t.Fatalf("%s: join not associative", a)
					}
					if a.Meet(a.Meet(x, y), z) != a.Meet(x, a.Meet(y, z)) {
						t.Fatalf("%s: meet not associative", a)
					}
					if a.Le(x, y) && a.Le(y, z) && !a.Le(x, z) {
						t.Fatalf("%s: order not transitive", a)
					}
				}
			}
		}
	}
}

func TestAxisOrders(t *testing.T) {
	if !Global.Le(Local) || Local.Le(Global) {
		t.Fatalf("expected global ≤ local")
	}
	if !Unique.Le(Exclusive) || !Exclusive.Le(Aliased) {
		t.Fatalf("expected unique ≤ exclusive ≤ aliased")
	}
	if !Many.Le(Separate) || !Separate.Le(Once) {
		t.Fatalf("expected many ≤ separate ≤ once")
	}
	if !Uncontended.Le(Shared) || !Shared.Le(Contended) {
		t.Fatalf("expected uncontended ≤ shared ≤ contended")
	}
	if !Portable.Le(Observing) || !Observing.Le(Nonportable) {
		t.Fatalf("expected portable ≤ observing ≤ nonportable")
	}
	if DefaultModes() != (Modes{Global, Aliased, Many, Uncontended, Portable}) {
		t.Fatalf("unexpected defaults: %s", DefaultModes())
	}
	if Local.Join(Global) != Local || Contended.Meet(Shared) != Shared {
		t.Fatalf("unexpected join/meet")
	}
}

func TestSubmodeVariance(t *testing.T) {
	// A global value satisfies a context requiring local.
	if !Submode(LocalityAxis, Covariant, uint8(Global), uint8(Local)) {
		t.Fatalf("expected global to satisfy local")
	}
	if Submode(LocalityAxis, Covariant, uint8(Local), uint8(Global)) {
		t.Fatalf("expected local to be rejected where global is required")
	}
	// A context requiring uncontended rejects a contended value.
	if Submode(ContentionAxis, Covariant, uint8(Contended), uint8(Uncontended)) {
		t.Fatalf("expected contended to be rejected where uncontended is required")
	}
	if !Submode(ContentionAxis, Covariant, uint8(Uncontended), uint8(Contended)) {
		t.Fatalf("expected uncontended to satisfy contended")
	}
	// Input positions reverse the order.
	if Submode(LocalityAxis, Contravariant, uint8(Global), uint8(Local)) {
		t.Fatalf("expected contravariant positions to flip the order")
	}
	for _, a := range Axes {
		for x := uint8(0); x < uint8(a.Height()); x++ {
			for y := uint8(0); y < uint8(a.Height()); y++ {
				if Submode(a, Covariant, x, y) != a.Le(x, y) {
					t.Fatalf("%s: covariant sub-moding disagrees with the order", a)
				}
				if Submode(a, Contravariant, x, y) != a.Le(y, x) {
					t.Fatalf("%s: contravariant sub-moding disagrees with the reversed order", a)
				}
			}
		}
	}
}

func TestModesVector(t *testing.T) {
	m := DefaultModes().With(LocalityAxis, uint8(Local))
	if m.Locality != Local || m.Get(LocalityAxis) != uint8(Local) {
		t.Fatalf("With did not set locality")
	}
	if !DefaultModes().Le(m) || m.Le(DefaultModes()) {
		t.Fatalf("unexpected vector order")
	}
	if s := BottomModes().String(); s != "global unique many uncontended portable" {
		t.Fatalf("modes: %s", s)
	}
	a, v, ok := ParseValue("contended")
	if !ok || a != ContentionAxis || v != uint8(Contended) {
		t.Fatalf("failed to parse contended")
	}
	vec := Annot(Local, Contended)
	if vec.String() != "local contended" {
		t.Fatalf("vec: %s", vec.String())
	}
	full, ok := vec.Modes(DefaultModes())
	if !ok || full.Locality != Local || full.Contention != Contended || full.Uniqueness != Aliased {
		t.Fatalf("unexpected concrete modes: %s", full)
	}
	g := NewGenericVar(0, "m", LocalityAxis)
	if !vec.With(LocalityAxis, VarTerm(g)).HasVars() {
		t.Fatalf("expected vector with variables")
	}
}

func TestModeVarResolution(t *testing.T) {
	g := NewGenericVar(0, "m", LocalityAxis)
	a, b, c := NewVar(1, LocalityAxis), NewVar(2, LocalityAxis), NewVar(3, LocalityAxis)
	b.SetLink(a)
	c.SetLink(b)
	if c.Find() != a || c.Link() != a {
		t.Fatalf("expected path compression to the representative")
	}
	a.SetResolved(VarTerm(g))
	if r := VarTerm(c).Resolve(); r.Var != g {
		t.Fatalf("expected resolution to the generic variable, got %s", TermString(LocalityAxis, r))
	}
	b2 := NewVar(4, LocalityAxis)
	b2.SetResolved(ConstTerm(Local))
	if r := VarTerm(b2).Resolve(); !r.Is(Local) {
		t.Fatalf("expected local")
	}
}
