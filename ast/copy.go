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

// CopyExpr copies e and every sub-expression of e. Checker annotations are not copied.
func CopyExpr(e Expr) Expr {
	switch e := e.(type) {
	case *Literal:
		return &Literal{Syntax: e.Syntax, Type: e.Type}

	case *Var:
		return &Var{Name: e.Name}

	case *Call:
		args := make([]Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i] = CopyExpr(arg)
		}
		return &Call{Func: CopyExpr(e.Func), Args: args}

	case *Func:
		return &Func{ArgNames: e.ArgNames, Sig: e.Sig, Body: CopyExpr(e.Body), Locality: e.Locality}

	case *Let:
		return &Let{Var: e.Var, Value: CopyExpr(e.Value), Body: CopyExpr(e.Body), Annot: e.Annot}

	case *If:
		return &If{Cond: CopyExpr(e.Cond), Then: CopyExpr(e.Then), Else: CopyExpr(e.Else)}

	case *Loop:
		return &Loop{Body: CopyExpr(e.Body)}

	case *Alloc:
		fields := make([]LabelValue, len(e.Fields))
		for i, v := range e.Fields {
			fields[i] = LabelValue{v.Label, CopyExpr(v.Value)}
		}
		return &Alloc{Type: e.Type, Fields: fields, Locality: e.Locality}

	case *Select:
		return &Select{Record: CopyExpr(e.Record), Label: e.Label}

	case *Assign:
		return &Assign{Record: CopyExpr(e.Record), Label: e.Label, Value: CopyExpr(e.Value)}

	case *Region:
		return &Region{Body: CopyExpr(e.Body)}

	case *Exclave:
		return &Exclave{Body: CopyExpr(e.Body)}

	case *Spawn:
		return &Spawn{Func: CopyExpr(e.Func)}

	case *CellCreate:
		return &CellCreate{Key: e.Key, Payload: CopyExpr(e.Payload)}

	case *CellMap:
		return &CellMap{Cell: CopyExpr(e.Cell), Key: CopyExpr(e.Key), Func: CopyExpr(e.Func)}

	case *CellExtract:
		return &CellExtract{Cell: CopyExpr(e.Cell), Key: CopyExpr(e.Key), Func: CopyExpr(e.Func)}

	case nil:
		return nil

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}

// CopyUnit copies u, including every function body.
func CopyUnit(u *Unit) *Unit {
	next := &Unit{
		Name:    u.Name,
		Imports: append([]string(nil), u.Imports...),
		Types:   make([]*TypeDecl, len(u.Types)),
		Funcs:   make([]*FuncDecl, len(u.Funcs)),
	}
	for i, d := range u.Types {
		decl := *d
		next.Types[i] = &decl
	}
	for i, d := range u.Funcs {
		next.Funcs[i] = &FuncDecl{Name: d.Name, ArgNames: d.ArgNames, Sig: d.Sig, Body: CopyExpr(d.Body)}
	}
	return next
}
