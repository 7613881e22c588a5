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

// Unit is a compilation unit: type declarations and functions, checked as a whole.
type Unit struct {
	Name    string
	Imports []string
	Types   []*TypeDecl
	Funcs   []*FuncDecl
}

// TypeDecl names a type. When Kind is non-nil, the type's kind must be below it.
type TypeDecl struct {
	Name string
	Type types.Type
	Kind *types.Kind
}

// FuncDecl is a top-level function. A nil Body declares an external function, whose signature is
// trusted.
type FuncDecl struct {
	Name     string
	ArgNames []string
	Sig      *types.Arrow
	Body     Expr
}

// IsExtern reports whether d has no body.
func (d *FuncDecl) IsExtern() bool { return d.Body == nil }

// Func returns the declaration as an abstraction over its arguments.
func (d *FuncDecl) Func() *Func {
	return &Func{ArgNames: d.ArgNames, Sig: d.Sig, Body: d.Body}
}

// Lookup finds a function declaration by name.
func (u *Unit) Lookup(name string) *FuncDecl {
	for _, d := range u.Funcs {
		if d.Name == name {
			return d
		}
	}
	return nil
}
