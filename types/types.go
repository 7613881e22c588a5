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

// Type is the base interface for all types.
type Type interface {
	TypeName() string
}

func (t *Const) TypeName() string  { return "Const" }
func (t *Var) TypeName() string    { return "Var" }
func (t *App) TypeName() string    { return "App" }
func (t *Ref) TypeName() string    { return "Ref" }
func (t *Record) TypeName() string { return "Record" }
func (t *Arrow) TypeName() string  { return "Arrow" }
func (t *Named) TypeName() string  { return "Named" }
func (t *Cell) TypeName() string   { return "Cell" }
func (t *Key) TypeName() string    { return "Key" }

// Type constant: `int`, `int8#`, `float#`
type Const struct {
	Name   string
	Layout Layout
}

var (
	Int    = &Const{Name: "int", Layout: LayoutValue}
	Bool   = &Const{Name: "bool", Layout: LayoutValue}
	Unit   = &Const{Name: "unit", Layout: LayoutValue}
	String = &Const{Name: "string", Layout: LayoutValue}
	Int8U  = &Const{Name: "int8#", Layout: LayoutBits8}
	Int32U = &Const{Name: "int32#", Layout: LayoutBits32}
	Int64U = &Const{Name: "int64#", Layout: LayoutBits64}
	FloatU = &Const{Name: "float#", Layout: LayoutFloat64}
	VoidU  = &Const{Name: "void#", Layout: LayoutVoid}
)

// Builtin type constants by name.
var Builtins = map[string]*Const{
	Int.Name: Int, Bool.Name: Bool, Unit.Name: Unit, String.Name: String,
	Int8U.Name: Int8U, Int32U.Name: Int32U, Int64U.Name: Int64U, FloatU.Name: FloatU, VoidU.Name: VoidU,
}

// Type-variable: `'a`. Type-variables have kind value unless annotated.
type Var struct {
	Name string
	Kind *Kind
}

// Type application: `'a list`
type App struct {
	Name string
	Args []Type
}

// Mutable reference: `'a ref`. A reference is a block with a single mutable field.
type Ref struct {
	Elem Type
}

// RefField is the label of the mutable field of a reference.
const RefField = "contents"

// Record type. Unboxed records are laid out inline and have the product kind of their fields.
type Record struct {
	Name    string
	Fields  FieldMap
	Unboxed bool
}

// Record field
type Field struct {
	Name    string
	Type    Type
	Mutable bool
	// Modalities override the enclosing value's mode on individual axes.
	Modalities ModeVec
	// Kind, when not nil, is the representation required of the field's type.
	Kind *Kind
}

// Function type: `'a @@ local -> 'b`
type Arrow struct {
	Params []Param
	Return Param
	// Exclave functions produce their result in the caller's region.
	Exclave bool
}

// Signature position
type Param struct {
	Type  Type
	Modes ModeVec
}

// Named type. The underlying type may refer back to the named type.
type Named struct {
	Name       string
	Underlying Type
}

// Shared cell: payload protected by a key type. The payload is only reachable through
// operations which require a value of the key type.
type Cell struct {
	Key     Type
	Payload Type
}

// Opaque key type gating access to shared cells. Keys are mutable data.
type Key struct {
	Name string
}

// Underlying follows named types to a structural type.
func Underlying(t Type) Type {
	for i := 0; i < 64; i++ {
		n, ok := t.(*Named)
		if !ok || n.Underlying == nil {
			return t
		}
		t = n.Underlying
	}
	return t
}

// RecordOf returns the record type underlying t, treating references as single-field records.
func RecordOf(t Type) (*Record, bool) {
	switch u := Underlying(t).(type) {
	case *Record:
		return u, true
	case *Ref:
		return refRecord(u), true
	}
	return nil, false
}

func refRecord(r *Ref) *Record {
	return &Record{
		Name:   "ref",
		Fields: NewFieldMap(&Field{Name: RefField, Type: r.Elem, Mutable: true}),
	}
}

// SameType compares types structurally. Named and key types compare by name.
func SameType(a, b Type) bool {
	switch a := a.(type) {
	case *Const:
		b, ok := b.(*Const)
		return ok && a.Name == b.Name
	case *Var:
		b, ok := b.(*Var)
		return ok && a.Name == b.Name
	case *Key:
		b, ok := b.(*Key)
		return ok && a.Name == b.Name
	case *Named:
		b, ok := b.(*Named)
		return ok && a.Name == b.Name
	case *App:
		b, ok := b.(*App)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !SameType(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *Ref:
		b, ok := b.(*Ref)
		return ok && SameType(a.Elem, b.Elem)
	case *Cell:
		b, ok := b.(*Cell)
		return ok && SameType(a.Key, b.Key) && SameType(a.Payload, b.Payload)
	case *Record:
		b, ok := b.(*Record)
		if !ok {
			return false
		}
		if a == b {
			return true
		}
		return a.Name != "" && a.Name == b.Name
	case *Arrow:
		b, ok := b.(*Arrow)
		if !ok || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !SameType(a.Params[i].Type, b.Params[i].Type) {
				return false
			}
		}
		return SameType(a.Return.Type, b.Return.Type)
	}
	return false
}

var immediates = map[string]bool{Int.Name: true, Bool.Name: true, Unit.Name: true}

// IsImmediate reports whether values of type t hold no pointers. Immediate values cross every mode
// axis: they may be used at any mode, whatever mode they were produced at.
func IsImmediate(t Type) bool {
	switch u := Underlying(t).(type) {
	case *Const:
		return u.Layout != LayoutValue || immediates[u.Name]
	case *Record:
		if !u.Unboxed {
			return false
		}
		ok := true
		u.Fields.Range(func(f *Field) bool {
			ok = IsImmediate(f.Type)
			return ok
		})
		return ok
	}
	return false
}
