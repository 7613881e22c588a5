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

package construct

import (
	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/types"
)

// Types

// Type constant: `int`, `int8#`, etc. Builtin names resolve to the shared builtin constants.
func TConst(name string) *types.Const {
	if c, ok := types.Builtins[name]; ok {
		return c
	}
	return &types.Const{Name: name, Layout: types.LayoutValue}
}

// Type-variable of kind value: `'a`
func TVar(name string) *types.Var {
	return &types.Var{Name: name}
}

// Type-variable with a declared kind: `('a : any)`
func TVarKind(name string, kind types.Kind) *types.Var {
	return &types.Var{Name: name, Kind: &kind}
}

// Type application: `'a list`
func TApp(name string, args ...types.Type) *types.App {
	return &types.App{Name: name, Args: args}
}

// Mutable reference: `'a ref`
func TRef(elem types.Type) *types.Ref {
	return &types.Ref{Elem: elem}
}

// Boxed record type: `{a : int; mutable b : int}`
func TRecord(name string, fields ...*types.Field) *types.Record {
	return &types.Record{Name: name, Fields: types.NewFieldMap(fields...)}
}

// Unboxed record type: `#{a : int8#; b : int32#}`
func TUnboxed(name string, fields ...*types.Field) *types.Record {
	return &types.Record{Name: name, Fields: types.NewFieldMap(fields...), Unboxed: true}
}

// Immutable record field
func TField(name string, t types.Type) *types.Field {
	return &types.Field{Name: name, Type: t}
}

// Mutable record field
func TMutable(name string, t types.Type) *types.Field {
	return &types.Field{Name: name, Type: t, Mutable: true}
}

// Named type
func TNamed(name string, underlying types.Type) *types.Named {
	return &types.Named{Name: name, Underlying: underlying}
}

// Key type gating shared cells
func TKey(name string) *types.Key {
	return &types.Key{Name: name}
}

// Shared cell type
func TCell(key, payload types.Type) *types.Cell {
	return &types.Cell{Key: key, Payload: payload}
}

// Signature position: `int @ local`
func P(t types.Type, modes ...types.AxisValue) types.Param {
	return types.Param{Type: t, Modes: types.Annot(modes...)}
}

// Signature position with explicit terms, for generic mode-variables: `'a @ 'm`
func PVec(t types.Type, modes types.ModeVec) types.Param {
	return types.Param{Type: t, Modes: modes}
}

// Function type: `(int, int) -> int`
func TArrow(params []types.Param, ret types.Param) *types.Arrow {
	return &types.Arrow{Params: params, Return: ret}
}

// Function type: `int -> int`
func TArrow1(param types.Param, ret types.Param) *types.Arrow {
	return &types.Arrow{Params: []types.Param{param}, Return: ret}
}

// Function type: `(int, int) -> int`
func TArrow2(param1, param2 types.Param, ret types.Param) *types.Arrow {
	return &types.Arrow{Params: []types.Param{param1, param2}, Return: ret}
}

// Expressions:

// Integer literal
func Int(syntax string) *ast.Literal {
	return &ast.Literal{Syntax: syntax, Type: types.Int}
}

// Unit literal: `()`
func UnitLit() *ast.Literal {
	return &ast.Literal{Syntax: "()", Type: types.Unit}
}

// Literal of any type
func Literal(syntax string, t types.Type) *ast.Literal {
	return &ast.Literal{Syntax: syntax, Type: t}
}

// Variable
func Var(name string) *ast.Var {
	return &ast.Var{Name: name}
}

// Application: `f(x)`
func Call(f ast.Expr, args ...ast.Expr) *ast.Call {
	return &ast.Call{Func: f, Args: args}
}

// Heap-allocated abstraction: `fun (x, y) -> x`
func Func(args []string, sig *types.Arrow, body ast.Expr) *ast.Func {
	return &ast.Func{ArgNames: args, Sig: sig, Body: body}
}

// Stack-allocated abstraction: `local_ fun (x) -> x`
func LocalFunc(args []string, sig *types.Arrow, body ast.Expr) *ast.Func {
	return &ast.Func{ArgNames: args, Sig: sig, Body: body, Locality: types.Local}
}

// Let-binding: `let a = 1 in e`
func Let(varName string, value ast.Expr, body ast.Expr) *ast.Let {
	return &ast.Let{Var: varName, Value: value, Body: body}
}

// Annotated let-binding: `let a @ global = 1 in e`
func LetAt(varName string, modes types.ModeVec, value ast.Expr, body ast.Expr) *ast.Let {
	return &ast.Let{Var: varName, Annot: modes, Value: value, Body: body}
}

// Conditional: `if c then a else b`
func If(cond, then, els ast.Expr) *ast.If {
	return &ast.If{Cond: cond, Then: then, Else: els}
}

// Loop: `loop { e }`
func Loop(body ast.Expr) *ast.Loop {
	return &ast.Loop{Body: body}
}

// Heap allocation: `{a = 1, b = 2}`
func Alloc(t types.Type, fields ...ast.LabelValue) *ast.Alloc {
	return &ast.Alloc{Type: t, Fields: fields}
}

// Stack allocation: `stack_ {a = 1, b = 2}`
func LocalAlloc(t types.Type, fields ...ast.LabelValue) *ast.Alloc {
	return &ast.Alloc{Type: t, Fields: fields, Locality: types.Local}
}

// Paired label and value
func LabelValue(label string, value ast.Expr) ast.LabelValue {
	return ast.LabelValue{Label: label, Value: value}
}

// Selecting value of label: `r.a`
func Select(record ast.Expr, label string) *ast.Select {
	return &ast.Select{Record: record, Label: label}
}

// Writing a mutable field: `r.a <- v`
func Assign(record ast.Expr, label string, value ast.Expr) *ast.Assign {
	return &ast.Assign{Record: record, Label: label, Value: value}
}

// Region-opening block: `region { e }`
func Region(body ast.Expr) *ast.Region {
	return &ast.Region{Body: body}
}

// Exclave: `exclave { e }`
func Exclave(body ast.Expr) *ast.Exclave {
	return &ast.Exclave{Body: body}
}

// Spawn: `spawn f`
func Spawn(f ast.Expr) *ast.Spawn {
	return &ast.Spawn{Func: f}
}

// Shared cell creation: `Cell.create[key](payload)`
func CellCreate(key types.Type, payload ast.Expr) *ast.CellCreate {
	return &ast.CellCreate{Key: key, Payload: payload}
}

// Shared cell mutation: `Cell.map(cell, key, f)`
func CellMap(cell, key, f ast.Expr) *ast.CellMap {
	return &ast.CellMap{Cell: cell, Key: key, Func: f}
}

// Shared cell extraction: `Cell.extract(cell, key, f)`
func CellExtract(cell, key, f ast.Expr) *ast.CellExtract {
	return &ast.CellExtract{Cell: cell, Key: key, Func: f}
}

// Declarations:

// Top-level function
func Decl(name string, args []string, sig *types.Arrow, body ast.Expr) *ast.FuncDecl {
	return &ast.FuncDecl{Name: name, ArgNames: args, Sig: sig, Body: body}
}

// External function, trusted by its signature
func Extern(name string, sig *types.Arrow) *ast.FuncDecl {
	args := make([]string, len(sig.Params))
	for i := range args {
		args[i] = "_"
	}
	return &ast.FuncDecl{Name: name, ArgNames: args, Sig: sig}
}

// Type declaration, with an optional required kind
func TypeDecl(name string, t types.Type, kind *types.Kind) *ast.TypeDecl {
	return &ast.TypeDecl{Name: name, Type: t, Kind: kind}
}

// Compilation unit, from type and function declarations
func Unit(name string, imports []string, decls ...interface{}) *ast.Unit {
	u := &ast.Unit{Name: name, Imports: imports}
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.TypeDecl:
			u.Types = append(u.Types, d)
		case *ast.FuncDecl:
			u.Funcs = append(u.Funcs, d)
		}
	}
	return u
}
