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
	"strconv"
	"strings"
	"sync"
)

var printerPool = sync.Pool{
	New: func() interface{} {
		return &typePrinter{}
	},
}

func newTypePrinter() *typePrinter { return printerPool.Get().(*typePrinter) }

func (p *typePrinter) Release() {
	p.sb.Reset()
	printerPool.Put(p)
}

type typePrinter struct {
	sb strings.Builder
}

func itoa(i int) string { return strconv.Itoa(i) }

// TypeString returns a string representation of a Type. Mode annotations on signature positions
// are printed after `@@`.
func TypeString(t Type) string {
	p := newTypePrinter()
	p.typeString(false, t)
	s := p.sb.String()
	p.Release()
	return s
}

func (p *typePrinter) typeString(simple bool, t Type) {
	sb := &p.sb
	switch t := t.(type) {
	case *Const:
		sb.WriteString(t.Name)
	case *Var:
		sb.WriteByte('\'')
		sb.WriteString(t.Name)
		if t.Kind != nil && !t.Kind.IsValue() {
			sb.WriteString(" : ")
			sb.WriteString(t.Kind.String())
		}
	case *Key:
		sb.WriteString(t.Name)
	case *Named:
		sb.WriteString(t.Name)
	case *App:
		p.appString(t.Name, t.Args)
	case *Ref:
		p.appString("ref", []Type{t.Elem})
	case *Cell:
		p.appString("cell", []Type{t.Key, t.Payload})
	case *Record:
		if t.Name != "" {
			sb.WriteString(t.Name)
			return
		}
		if t.Unboxed {
			sb.WriteByte('#')
		}
		sb.WriteByte('{')
		i := 0
		t.Fields.Range(func(f *Field) bool {
			if i > 0 {
				sb.WriteString("; ")
			}
			i++
			if f.Mutable {
				sb.WriteString("mutable ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(" : ")
			p.typeString(false, f.Type)
			if !f.Modalities.IsEmpty() {
				sb.WriteString(" @@ ")
				sb.WriteString(f.Modalities.String())
			}
			return true
		})
		sb.WriteByte('}')
	case *Arrow:
		if simple {
			sb.WriteByte('(')
		}
		if len(t.Params) == 0 {
			sb.WriteString("unit")
		}
		for i, param := range t.Params {
			if i > 0 {
				sb.WriteString(" -> ")
			}
			p.paramString(param)
		}
		sb.WriteString(" -> ")
		p.paramString(t.Return)
		if simple {
			sb.WriteByte(')')
		}
	case nil:
		sb.WriteString("<nil>")
	default:
		sb.WriteString(t.TypeName())
	}
}

func (p *typePrinter) appString(name string, args []Type) {
	sb := &p.sb
	switch len(args) {
	case 0:
	case 1:
		p.typeString(true, args[0])
		sb.WriteByte(' ')
	default:
		sb.WriteByte('(')
		for i, arg := range args {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.typeString(false, arg)
		}
		sb.WriteString(") ")
	}
	sb.WriteString(name)
}

func (p *typePrinter) paramString(param Param) {
	p.typeString(true, param.Type)
	if !param.Modes.IsEmpty() {
		p.sb.WriteString(" @@ ")
		p.sb.WriteString(param.Modes.String())
	}
}
