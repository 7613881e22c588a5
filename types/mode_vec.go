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

// Term is the value of a single axis within a mode vector: a constant, a mode-variable, or unset.
type Term struct {
	Var   *ModeVar
	Value uint8
	Set   bool
}

// ConstTerm creates a constant term.
func ConstTerm(v AxisValue) Term { return Term{Value: v.Level(), Set: true} }

// ConstLevel creates a constant term from a raw axis value.
func ConstLevel(v uint8) Term { return Term{Value: v, Set: true} }

// VarTerm creates a variable term.
func VarTerm(v *ModeVar) Term { return Term{Var: v, Set: true} }

func (t Term) IsUnset() bool { return !t.Set }
func (t Term) IsVar() bool   { return t.Set && t.Var != nil }
func (t Term) IsConst() bool { return t.Set && t.Var == nil }

// Is reports whether t is the constant v.
func (t Term) Is(v AxisValue) bool { return t.IsConst() && t.Value == v.Level() }

// Resolve follows a solved variable to its solution. Unsolved variables are returned unchanged.
func (t Term) Resolve() Term {
	for t.IsVar() {
		r := t.Var.Find()
		s, ok := r.Resolved()
		if !ok {
			if r != t.Var {
				return VarTerm(r)
			}
			return t
		}
		if s.Var == r {
			return s
		}
		t = s
	}
	return t
}

// TermString prints a term on axis a.
func TermString(a Axis, t Term) string {
	switch {
	case !t.Set:
		return "_"
	case t.Var == nil:
		return a.ValueString(t.Value)
	case t.Var.name != "":
		return "'" + t.Var.name
	default:
		return "'_" + itoa(t.Var.Id())
	}
}

// ModeVec is a mode vector which may contain variables or unset axes.
type ModeVec [NumAxes]Term

// Concrete converts a concrete mode vector.
func Concrete(m Modes) ModeVec {
	var v ModeVec
	for _, a := range Axes {
		v[a] = ConstLevel(m.Get(a))
	}
	return v
}

// Annot builds a vector from the given values; remaining axes are unset.
func Annot(values ...AxisValue) ModeVec {
	var v ModeVec
	for _, x := range values {
		v[x.Axis()] = ConstTerm(x)
	}
	return v
}

// With returns a copy of v with axis a set to t.
func (v ModeVec) With(a Axis, t Term) ModeVec {
	v[a] = t
	return v
}

// IsEmpty reports whether no axis is set.
func (v ModeVec) IsEmpty() bool {
	for _, t := range v {
		if t.Set {
			return false
		}
	}
	return true
}

// HasVars reports whether any axis refers to a mode-variable.
func (v ModeVec) HasVars() bool {
	for _, t := range v {
		if t.IsVar() {
			return true
		}
	}
	return false
}

// WithDefaults fills unset axes from def.
func (v ModeVec) WithDefaults(def Modes) ModeVec {
	for _, a := range Axes {
		if !v[a].Set {
			v[a] = ConstLevel(def.Get(a))
		}
	}
	return v
}

// Resolve resolves every variable in v to its solution.
func (v ModeVec) Resolve() ModeVec {
	for i := range v {
		v[i] = v[i].Resolve()
	}
	return v
}

// Modes returns the concrete vector, if v contains only constants. Unset axes take defaults.
func (v ModeVec) Modes(def Modes) (Modes, bool) {
	m := def
	for _, a := range Axes {
		t := v[a]
		if t.IsVar() {
			return m, false
		}
		if t.Set {
			m = m.With(a, t.Value)
		}
	}
	return m, true
}

func (v ModeVec) String() string {
	s := ""
	for _, a := range Axes {
		if !v[a].Set {
			continue
		}
		if s != "" {
			s += " "
		}
		if v[a].IsVar() {
			s += a.String() + ":"
		}
		s += TermString(a, v[a])
	}
	return s
}
