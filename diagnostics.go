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
	"sort"
	"strconv"
	"strings"

	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/internal/solver"
	"github.com/wdamron/modal/types"
)

// ErrorKind classifies a diagnostic. Every kind is fatal for the unit it occurs in.
type ErrorKind uint8

const (
	KindMismatch ErrorKind = iota + 1
	UnsatisfiableConstraint
	StackDisciplineViolation
	PortabilityViolation
	ContentionViolation
)

func (k ErrorKind) String() string {
	switch k {
	case KindMismatch:
		return "KindMismatch"
	case UnsatisfiableConstraint:
		return "UnsatisfiableConstraint"
	case StackDisciplineViolation:
		return "StackDisciplineViolation"
	case PortabilityViolation:
		return "PortabilityViolation"
	case ContentionViolation:
		return "ContentionViolation"
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// Diagnostic reports a rejected program fragment and the two values which conflicted.
type Diagnostic struct {
	Kind ErrorKind
	Unit string
	// Function or type declaration containing the fragment
	Decl string
	// Offending expression; nil for declaration-level diagnostics
	Expr ast.Expr
	// Mode axis, for mode diagnostics
	Axis types.Axis
	// Conflicting values: the offered mode or kind, and the required one
	Offered, Required string
	// Construct which imposed the requirement
	Reason string

	pos int
}

// IsModeError reports whether the diagnostic concerns a mode axis.
func (d Diagnostic) IsModeError() bool { return d.Kind != KindMismatch }

// Location renders the unit, declaration, and expression of the diagnostic.
func (d Diagnostic) Location() string {
	var sb strings.Builder
	if d.Unit != "" {
		sb.WriteString(d.Unit)
		sb.WriteByte('.')
	}
	sb.WriteString(d.Decl)
	if d.Expr != nil {
		sb.WriteString(": `")
		sb.WriteString(ast.ExprString(d.Expr))
		sb.WriteByte('`')
	}
	return sb.String()
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(d.Location())
	sb.WriteString(": ")
	sb.WriteString(d.Kind.String())
	sb.WriteString(": ")
	if d.IsModeError() {
		sb.WriteString(d.Axis.String())
		sb.WriteString(" ")
	} else {
		sb.WriteString("kind ")
	}
	sb.WriteString(d.Offered)
	sb.WriteString(" is not below ")
	sb.WriteString(d.Required)
	if d.Reason != "" {
		sb.WriteString(" (")
		sb.WriteString(d.Reason)
		sb.WriteByte(')')
	}
	return sb.String()
}

// sortDiagnostics orders diagnostics by declaration and expression position.
func sortDiagnostics(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].pos != ds[j].pos {
			return ds[i].pos < ds[j].pos
		}
		return ds[i].Kind < ds[j].Kind
	})
}

// UnitError is returned when a unit is rejected. It carries every diagnostic found in the unit.
type UnitError struct {
	Unit        string
	Diagnostics []Diagnostic
}

func (e *UnitError) Error() string {
	var sb strings.Builder
	sb.WriteString("unit ")
	sb.WriteString(e.Unit)
	sb.WriteString(" rejected with ")
	sb.WriteString(strconv.Itoa(len(e.Diagnostics)))
	if len(e.Diagnostics) == 1 {
		sb.WriteString(" error")
	} else {
		sb.WriteString(" errors")
	}
	for _, d := range e.Diagnostics {
		sb.WriteString("\n\t")
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Has reports whether any diagnostic has the given kind.
func (e *UnitError) Has(kind ErrorKind) bool {
	for _, d := range e.Diagnostics {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// errorKind classifies a failed constraint by the axis it fails on and the construct which imposed
// it.
func errorKind(a types.Axis, origin solver.Origin) ErrorKind {
	switch a {
	case types.LocalityAxis:
		switch origin {
		case solver.OriginReturn, solver.OriginStore, solver.OriginCapture, solver.OriginSpawn,
			solver.OriginCellPayload, solver.OriginEscape:
			return StackDisciplineViolation
		}
	case types.ContentionAxis:
		switch origin {
		case solver.OriginFieldRead, solver.OriginFieldWrite, solver.OriginKeyUse, solver.OriginCellPayload:
			return ContentionViolation
		}
	case types.PortabilityAxis:
		switch origin {
		case solver.OriginSpawn, solver.OriginCellFunc, solver.OriginCellPayload:
			return PortabilityViolation
		}
	}
	return UnsatisfiableConstraint
}

// reportFailures converts solver failures into diagnostics.
func (cc *CheckContext) reportFailures(failures []solver.Failure) {
	for _, f := range failures {
		c := f.Blame()
		d := Diagnostic{
			Kind:     UnsatisfiableConstraint,
			Unit:     cc.unit.Name,
			Axis:     f.Axis,
			Offered:  types.TermString(f.Axis, f.Lower),
			Required: types.TermString(f.Axis, f.Upper),
		}
		if c != nil {
			d.Kind = errorKind(f.Axis, c.Origin)
			d.Reason = c.Origin.String()
			if e, ok := c.Site.(ast.Expr); ok {
				d.Expr = e
				if s, ok := cc.sites[e]; ok {
					d.Decl, d.pos = s.decl, s.pos
				}
			}
		}
		cc.diags = append(cc.diags, d)
	}
}
