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
	"strings"
)

// Layout is an atomic representation class.
type Layout uint8

const (
	// Unknown representation; the top of the lattice.
	LayoutAny Layout = iota
	// Pointer to a GC-visible block, or an immediate tagged word.
	LayoutValue
	LayoutBits8
	LayoutBits32
	LayoutBits64
	LayoutFloat64
	LayoutVoid
)

var layoutNames = [...]string{
	LayoutAny:     "any",
	LayoutValue:   "value",
	LayoutBits8:   "bits8",
	LayoutBits32:  "bits32",
	LayoutBits64:  "bits64",
	LayoutFloat64: "float64",
	LayoutVoid:    "void",
}

func (l Layout) String() string {
	if int(l) < len(layoutNames) {
		return layoutNames[l]
	}
	return "?"
}

// ParseLayout finds an atomic layout by name.
func ParseLayout(name string) (Layout, bool) {
	for l, n := range layoutNames {
		if n == name {
			return Layout(l), true
		}
	}
	return LayoutAny, false
}

// Kind classifies the memory representation of a type: an atomic layout or a flattened
// product of atomic layouts.
//
// Kinds are immutable; the zero Kind is any.
type Kind struct {
	parts []Layout
}

var (
	KindAny     = Atom(LayoutAny)
	KindValue   = Atom(LayoutValue)
	KindBits8   = Atom(LayoutBits8)
	KindBits32  = Atom(LayoutBits32)
	KindBits64  = Atom(LayoutBits64)
	KindFloat64 = Atom(LayoutFloat64)
	KindVoid    = Atom(LayoutVoid)
)

// Atom creates an atomic kind.
func Atom(l Layout) Kind { return Kind{parts: []Layout{l}} }

// Product combines kinds into a flattened aggregate kind. Nested products are spliced in place,
// so nesting never adds a level of boxing. The product of a single kind is that kind, and the
// empty product is void.
func Product(ks ...Kind) Kind {
	if len(ks) == 0 {
		return KindVoid
	}
	if len(ks) == 1 {
		return ks[0]
	}
	n := 0
	for _, k := range ks {
		n += k.Arity()
	}
	parts := make([]Layout, 0, n)
	for _, k := range ks {
		parts = append(parts, k.Parts()...)
	}
	return Kind{parts: parts}
}

// Parts returns the atomic components of k.
func (k Kind) Parts() []Layout {
	if len(k.parts) == 0 {
		return []Layout{LayoutAny}
	}
	return k.parts
}

// Arity is the number of atomic components of k.
func (k Kind) Arity() int { return len(k.Parts()) }

func (k Kind) IsAtomic() bool  { return k.Arity() == 1 }
func (k Kind) IsProduct() bool { return k.Arity() > 1 }

// IsAny reports whether k is the top of the lattice.
func (k Kind) IsAny() bool { return k.IsAtomic() && k.Parts()[0] == LayoutAny }

// IsValue reports whether k is the kind of ordinary boxed values.
func (k Kind) IsValue() bool { return k.IsAtomic() && k.Parts()[0] == LayoutValue }

// IsRepresentable reports whether a representation can be compiled for k: no component is any.
func (k Kind) IsRepresentable() bool {
	for _, l := range k.Parts() {
		if l == LayoutAny {
			return false
		}
	}
	return true
}

// IsScalar reports whether no component of k is a pointer.
func (k Kind) IsScalar() bool {
	for _, l := range k.Parts() {
		if l == LayoutValue || l == LayoutAny {
			return false
		}
	}
	return true
}

// HasUnboxed reports whether any component of k is a non-value layout.
func (k Kind) HasUnboxed() bool {
	for _, l := range k.Parts() {
		if l != LayoutValue && l != LayoutAny {
			return true
		}
	}
	return false
}

func (k Kind) Equal(o Kind) bool {
	a, b := k.Parts(), o.Parts()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinLayout(a, b Layout) Layout {
	if a == b {
		return a
	}
	return LayoutAny
}

// Join computes the least upper bound of a and b. Distinct atoms are incomparable and join to any;
// products of equal arity join componentwise.
func Join(a, b Kind) Kind {
	if a.Equal(b) {
		return a
	}
	if a.IsAny() || b.IsAny() || a.Arity() != b.Arity() || a.IsAtomic() {
		return KindAny
	}
	ap, bp := a.Parts(), b.Parts()
	parts := make([]Layout, len(ap))
	for i := range ap {
		parts[i] = joinLayout(ap[i], bp[i])
	}
	return Kind{parts: parts}
}

// Sub decides whether a value of kind offered may be placed where required is expected.
func Sub(offered, required Kind) bool {
	if required.IsAny() {
		return true
	}
	op, rp := offered.Parts(), required.Parts()
	if len(op) != len(rp) {
		return false
	}
	for i := range op {
		if rp[i] != LayoutAny && op[i] != rp[i] {
			return false
		}
	}
	return true
}

// Unify forces a and b to denote the same representation. An any component takes the other side's
// layout; two distinct known layouts cannot be unified.
func Unify(a, b Kind) (Kind, bool) {
	if a.IsAny() {
		return b, true
	}
	if b.IsAny() {
		return a, true
	}
	ap, bp := a.Parts(), b.Parts()
	if len(ap) != len(bp) {
		return KindAny, false
	}
	parts := make([]Layout, len(ap))
	for i := range ap {
		switch {
		case ap[i] == bp[i], bp[i] == LayoutAny:
			parts[i] = ap[i]
		case ap[i] == LayoutAny:
			parts[i] = bp[i]
		default:
			return KindAny, false
		}
	}
	return Kind{parts: parts}, true
}

func (k Kind) String() string {
	parts := k.Parts()
	if len(parts) == 1 {
		return parts[0].String()
	}
	var sb strings.Builder
	for i, l := range parts {
		if i > 0 {
			sb.WriteString(" & ")
		}
		sb.WriteString(l.String())
	}
	return sb.String()
}

// ParseKind parses a kind written as layouts joined by "&", e.g. "bits8 & bits32".
func ParseKind(s string) (Kind, bool) {
	fields := strings.Split(s, "&")
	ks := make([]Kind, 0, len(fields))
	for _, f := range fields {
		l, ok := ParseLayout(strings.TrimSpace(f))
		if !ok {
			return KindAny, false
		}
		ks = append(ks, Atom(l))
	}
	return Product(ks...), true
}

// KindOf computes the kind of a type. Boxed types have kind value; unboxed records are the
// flattened product of their fields. Unboxed types which contain themselves have kind any.
func KindOf(t Type) Kind {
	return kindOf(t, nil)
}

func kindOf(t Type, visiting map[*Named]bool) Kind {
	switch t := t.(type) {
	case *Const:
		return Atom(t.Layout)
	case *Var:
		if t.Kind != nil {
			return *t.Kind
		}
		return KindValue
	case *Named:
		if t.Underlying == nil {
			return KindAny
		}
		if visiting[t] {
			return KindAny
		}
		if visiting == nil {
			visiting = make(map[*Named]bool)
		}
		visiting[t] = true
		k := kindOf(t.Underlying, visiting)
		delete(visiting, t)
		return k
	case *Record:
		if !t.Unboxed {
			return KindValue
		}
		ks := make([]Kind, 0, t.Fields.Len())
		t.Fields.Range(func(f *Field) bool {
			ks = append(ks, kindOf(f.Type, visiting))
			return true
		})
		return Product(ks...)
	case nil:
		return KindAny
	default:
		return KindValue
	}
}
