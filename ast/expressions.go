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

package ast

import (
	"github.com/wdamron/modal/types"
)

// Expr is the base for all expressions.
type Expr interface {
	// Name of the syntax-type of the expression.
	ExprName() string
	// Modes returns the resolved modes of an expression. Modes are only available after checking.
	Modes() types.ModeVec
	// CheckedType returns the type of an expression, as seen by the checker.
	CheckedType() types.Type
}

var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*Var)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Func)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*If)(nil)
	_ Expr = (*Loop)(nil)
	_ Expr = (*Alloc)(nil)
	_ Expr = (*Select)(nil)
	_ Expr = (*Assign)(nil)
	_ Expr = (*Region)(nil)
	_ Expr = (*Exclave)(nil)
	_ Expr = (*Spawn)(nil)
	_ Expr = (*CellCreate)(nil)
	_ Expr = (*CellMap)(nil)
	_ Expr = (*CellExtract)(nil)
)

// Annotations assigned by the checker
type checked struct {
	modes types.ModeVec
	typ   types.Type
}

// Get the checked modes of an expression.
func (c *checked) Modes() types.ModeVec { return c.modes }

// Assign modes to an expression. Assignments should occur indirectly, during checking.
func (c *checked) SetModes(m types.ModeVec) { c.modes = m }

// Get the type of an expression, as seen by the checker.
func (c *checked) CheckedType() types.Type { return c.typ }

// Assign a type to an expression. Assignments should occur indirectly, during checking.
func (c *checked) SetCheckedType(t types.Type) { c.typ = t }

// Immediate value. Literals are never allocated, so they may be used at any mode.
type Literal struct {
	// Syntax is a string representation of the literal value. The syntax will be printed when the literal is printed.
	Syntax string
	Type   types.Type
	checked
}

// Returns the syntax of e.
func (e *Literal) ExprName() string { return e.Syntax }

// Variable
type Var struct {
	Name string
	checked
}

// "Var"
func (e *Var) ExprName() string { return "Var" }

// Application: `f(x)`
type Call struct {
	Func Expr
	Args []Expr
	checked
}

// "Call"
func (e *Call) ExprName() string { return "Call" }

// Abstraction: `fun x y -> x`
//
// Sig decorates each argument and the result with modes; unset axes default. A closure is allocated
// at Locality, and captures the free variables of its body.
type Func struct {
	ArgNames []string
	Sig      *types.Arrow
	Body     Expr
	Locality types.Locality
	checked
}

// "Func"
func (e *Func) ExprName() string { return "Func" }

// Let-binding: `let a = 1 in e`, with optional mode annotations on the bound variable.
type Let struct {
	Var   string
	Value Expr
	Body  Expr
	Annot types.ModeVec
	checked
}

// "Let"
func (e *Let) ExprName() string { return "Let" }

// Conditional: `if c then a else b`
type If struct {
	Cond, Then, Else Expr
	checked
}

// "If"
func (e *If) ExprName() string { return "If" }

// Loop: `loop { e }`. The body runs in a fresh region on every iteration; the loop produces unit.
type Loop struct {
	Body Expr
	checked
}

// "Loop"
func (e *Loop) ExprName() string { return "Loop" }

// Allocation of a record or reference: `{a = 1, b = 2} : t`, allocated at Locality.
type Alloc struct {
	Type     types.Type
	Fields   []LabelValue
	Locality types.Locality
	checked
}

// "Alloc"
func (e *Alloc) ExprName() string { return "Alloc" }

// Paired label and value
type LabelValue struct {
	Label string
	Value Expr
}

// Selecting value of label: `r.a`
type Select struct {
	Record Expr
	Label  string
	checked
}

// "Select"
func (e *Select) ExprName() string { return "Select" }

// Writing a mutable field: `r.a <- v`
type Assign struct {
	Record Expr
	Label  string
	Value  Expr
	checked
}

// "Assign"
func (e *Assign) ExprName() string { return "Assign" }

// Region-opening block: `region { e }`. Local allocations within e are dropped when e completes.
type Region struct {
	Body Expr
	checked
}

// "Region"
func (e *Region) ExprName() string { return "Region" }

// Exclave: `exclave { e }`. Ends the current frame's region and evaluates e in the caller's region.
// Only valid in tail position of a function body.
type Exclave struct {
	Body Expr
	checked
}

// "Exclave"
func (e *Exclave) ExprName() string { return "Exclave" }

// Spawn: `spawn f` runs f on a new thread.
type Spawn struct {
	Func Expr
	checked
}

// "Spawn"
func (e *Spawn) ExprName() string { return "Spawn" }

// Shared cell creation, protecting Payload with keys of type Key.
type CellCreate struct {
	Key     types.Type
	Payload Expr
	checked
}

// "CellCreate"
func (e *CellCreate) ExprName() string { return "CellCreate" }

// Mutating a shared cell's payload with Func, while holding Key.
type CellMap struct {
	Cell, Key, Func Expr
	checked
}

// "CellMap"
func (e *CellMap) ExprName() string { return "CellMap" }

// Computing a contended result from a shared cell's payload with Func, while holding Key.
type CellExtract struct {
	Cell, Key, Func Expr
	checked
}

// "CellExtract"
func (e *CellExtract) ExprName() string { return "CellExtract" }
