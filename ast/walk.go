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

// WalkExpr calls f for e and every sub-expression of e, in pre-order.
func WalkExpr(e Expr, f func(Expr)) {
	switch e := e.(type) {
	case *Var, *Literal:
		f(e)

	case *Call:
		f(e)
		WalkExpr(e.Func, f)
		for _, arg := range e.Args {
			WalkExpr(arg, f)
		}

	case *Func:
		f(e)
		WalkExpr(e.Body, f)

	case *Let:
		f(e)
		WalkExpr(e.Value, f)
		WalkExpr(e.Body, f)

	case *If:
		f(e)
		WalkExpr(e.Cond, f)
		WalkExpr(e.Then, f)
		WalkExpr(e.Else, f)

	case *Loop:
		f(e)
		WalkExpr(e.Body, f)

	case *Alloc:
		f(e)
		for _, v := range e.Fields {
			WalkExpr(v.Value, f)
		}

	case *Select:
		f(e)
		WalkExpr(e.Record, f)

	case *Assign:
		f(e)
		WalkExpr(e.Record, f)
		WalkExpr(e.Value, f)

	case *Region:
		f(e)
		WalkExpr(e.Body, f)

	case *Exclave:
		f(e)
		WalkExpr(e.Body, f)

	case *Spawn:
		f(e)
		WalkExpr(e.Func, f)

	case *CellCreate:
		f(e)
		WalkExpr(e.Payload, f)

	case *CellMap:
		f(e)
		WalkExpr(e.Cell, f)
		WalkExpr(e.Key, f)
		WalkExpr(e.Func, f)

	case *CellExtract:
		f(e)
		WalkExpr(e.Cell, f)
		WalkExpr(e.Key, f)
		WalkExpr(e.Func, f)

	case nil:

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}
