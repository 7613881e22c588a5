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

func TestKindLattice(t *testing.T) {
	atoms := []Kind{KindValue, KindBits8, KindBits32, KindBits64, KindFloat64, KindVoid}
	for i, a := range atoms {
		if !Sub(a, a) || !Sub(a, KindAny) || Sub(KindAny, a) {
			t.Fatalf("%s: unexpected order against itself or any", a)
		}
		if !Join(a, a).Equal(a) || !Join(a, KindAny).IsAny() {
			t.Fatalf("%s: unexpected join", a)
		}
		for j, b := range atoms {
			if i == j {
				continue
			}
			if Sub(a, b) {
				t.Fatalf("expected %s and %s to be incomparable", a, b)
			}
			if !Join(a, b).IsAny() {
				t.Fatalf("expected %s ⊔ %s = any", a, b)
			}
			if _, ok := Unify(a, b); ok {
				t.Fatalf("expected %s and %s not to unify", a, b)
			}
		}
	}
}

func TestKindProducts(t *testing.T) {
	p := Product(KindBits8, KindBits32)
	if p.String() != "bits8 & bits32" || !p.IsProduct() || !p.IsScalar() || !p.IsRepresentable() {
		t.Fatalf("product: %s", p)
	}
	nested := Product(KindBits64, p)
	if nested.Arity() != 3 || nested.String() != "bits64 & bits8 & bits32" {
		t.Fatalf("expected flattened product, got %s", nested)
	}
	if !Sub(p, Product(KindBits8, KindAny)) || Sub(p, Product(KindBits8, KindValue)) {
		t.Fatalf("unexpected product order")
	}
	j := Join(p, Product(KindBits8, KindFloat64))
	if j.String() != "bits8 & any" || j.IsRepresentable() {
		t.Fatalf("componentwise join: %s", j)
	}
	u, ok := Unify(Product(KindAny, KindBits32), p)
	if !ok || !u.Equal(p) {
		t.Fatalf("unify: %s", u)
	}
	parsed, ok := ParseKind("bits8 & bits32")
	if !ok || !parsed.Equal(p) {
		t.Fatalf("parse: %s", parsed)
	}
}

func TestKindOfUnboxedRecord(t *testing.T) {
	r := &Record{Unboxed: true, Fields: NewFieldMap(
		&Field{Name: "b", Type: Int8U},
		&Field{Name: "a", Type: Int32U},
	)}
	if k := KindOf(r); k.String() != "bits8 & bits32" {
		t.Fatalf("kind: %s", k)
	}
	boxed := &Record{Fields: r.Fields}
	if !KindOf(boxed).IsValue() {
		t.Fatalf("expected boxed record to have kind value")
	}
	withPtr := &Record{Unboxed: true, Fields: NewFieldMap(
		&Field{Name: "x", Type: Int8U},
		&Field{Name: "s", Type: String},
	)}
	if Sub(KindOf(withPtr), Product(KindBits8, KindBits32)) {
		t.Fatalf("expected a value field to break an all-scalar kind")
	}
	self := &Named{Name: "loop"}
	self.Underlying = &Record{Unboxed: true, Fields: NewFieldMap(&Field{Name: "x", Type: self})}
	if !KindOf(self).IsAny() {
		t.Fatalf("expected unboxed self-containment to have kind any")
	}
}

func TestImmediates(t *testing.T) {
	pair := &Record{Unboxed: true, Fields: NewFieldMap(&Field{Name: "a", Type: Int8U}, &Field{Name: "b", Type: Int})}
	boxed := &Record{Fields: NewFieldMap(&Field{Name: "a", Type: Int})}
	for _, typ := range []Type{Int, Bool, Unit, FloatU, pair, &Named{Name: "count", Underlying: Int}} {
		if !IsImmediate(typ) {
			t.Fatalf("expected %s to be immediate", TypeString(typ))
		}
	}
	for _, typ := range []Type{String, boxed, &Ref{Elem: Int}, &Var{Name: "a"}} {
		if IsImmediate(typ) {
			t.Fatalf("expected %s not to be immediate", TypeString(typ))
		}
	}
}
