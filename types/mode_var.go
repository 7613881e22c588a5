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

// Mode-variable
//
// Generic variables are declared in signatures and are never mutated after creation, so they may be
// shared across concurrently checked units. Rigid and flexible variables are allocated by a solver
// for a single unit; rigid variables stand for a generic variable inside the body that declares it.
type ModeVar struct {
	link     *ModeVar
	origin   *ModeVar
	resolved Term
	name     string
	id       int32
	axis     Axis
	flags    varFlags
}

type varFlags uint8

const (
	genericVar varFlags = 1 << iota
	rigidVar
	resolvedVar
)

// Instance of a mode-variable
type VarType int

const (
	// Flexible mode-variable, solved to a minimal assignment
	FlexibleVar VarType = iota
	// Generic mode-variable, quantified by a signature
	GenericVar
	// Rigid mode-variable, a generic variable seen from inside its declaring body
	RigidVar
)

// Create a new generic mode-variable on the given axis.
func NewGenericVar(id int, name string, axis Axis) *ModeVar {
	return &ModeVar{id: int32(id), name: name, axis: axis, flags: genericVar}
}

// Create a new flexible mode-variable on the given axis.
func NewVar(id int, axis Axis) *ModeVar {
	return &ModeVar{id: int32(id), axis: axis}
}

// Init resets v in place; used by arena allocators.
func (v *ModeVar) Init(id int, axis Axis) {
	*v = ModeVar{id: int32(id), axis: axis}
}

// InitRigid resets v in place as a rigid stand-in for the generic variable g.
func (v *ModeVar) InitRigid(id int, g *ModeVar) {
	*v = ModeVar{id: int32(id), axis: g.axis, name: g.name, origin: g, flags: rigidVar}
}

// VarType indicates whether the mode-variable is flexible, generic, or rigid.
func (v *ModeVar) VarType() VarType {
	switch {
	case v.flags&genericVar != 0:
		return GenericVar
	case v.flags&rigidVar != 0:
		return RigidVar
	default:
		return FlexibleVar
	}
}

func (v *ModeVar) Id() int      { return int(v.id) }
func (v *ModeVar) Axis() Axis   { return v.axis }
func (v *ModeVar) Name() string { return v.name }

func (v *ModeVar) IsGeneric() bool  { return v.flags&genericVar != 0 }
func (v *ModeVar) IsRigid() bool    { return v.flags&rigidVar != 0 }
func (v *ModeVar) IsFlexible() bool { return v.flags&(genericVar|rigidVar) == 0 }

// Origin returns the generic variable a rigid variable stands for.
func (v *ModeVar) Origin() *ModeVar { return v.origin }

// Link returns the representative this variable was merged into, if any.
func (v *ModeVar) Link() *ModeVar { return v.link }

// SetLink merges v into the representative r.
func (v *ModeVar) SetLink(r *ModeVar) {
	if v != r {
		v.link = r
	}
}

// Find returns the representative of v's equivalence class, compressing the path.
func (v *ModeVar) Find() *ModeVar {
	r := v
	for r.link != nil {
		r = r.link
	}
	for v.link != nil && v.link != r {
		next := v.link
		v.link = r
		v = next
	}
	return r
}

// Resolved returns the solution for v, if it has been solved.
func (v *ModeVar) Resolved() (Term, bool) {
	return v.resolved, v.flags&resolvedVar != 0
}

// SetResolved records the solution for v. The solution is a constant or a generic variable.
func (v *ModeVar) SetResolved(t Term) {
	v.resolved = t
	v.flags |= resolvedVar
}
