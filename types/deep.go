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

// ApplyModality computes the mode of a field projected from a value with mode m. Every axis
// carries the enclosing mode unless the field overrides it. A mutable field can never be
// projected at a better uniqueness than aliased.
func ApplyModality(m ModeVec, f *Field) ModeVec {
	for _, a := range Axes {
		if f.Modalities[a].Set {
			m[a] = f.Modalities[a]
		}
	}
	if f.Mutable {
		m[UniquenessAxis] = ConstTerm(Aliased)
	}
	return m
}

// ModeTree is the result of applying a mode vector deeply to a type: the mode of the value
// itself and of every substructure reachable from it. Trees of recursive types are cyclic.
type ModeTree struct {
	Type   Type
	Modes  ModeVec
	Fields []ModeTreeField
}

type ModeTreeField struct {
	Field *Field
	Tree  *ModeTree
}

// Field returns the subtree for a label.
func (t *ModeTree) Field(label string) (*ModeTree, bool) {
	for _, f := range t.Fields {
		if f.Field.Name == label {
			return f.Tree, true
		}
	}
	return nil, false
}

type deepKey struct {
	t Type
	m ModeVec
}

// DeepCache memoizes deep mode application and mutability queries by type identity.
//
// A cache cannot be used concurrently.
type DeepCache struct {
	trees   map[deepKey]*ModeTree
	mutable map[Type]bool
}

func (c *DeepCache) init() {
	if c.trees == nil {
		c.trees = make(map[deepKey]*ModeTree, 16)
		c.mutable = make(map[Type]bool, 16)
	}
}

// Reset clears memoized results.
func (c *DeepCache) Reset() {
	for k := range c.trees {
		delete(c.trees, k)
	}
	for k := range c.mutable {
		delete(c.mutable, k)
	}
}

// Apply propagates m to every substructure of t, applying field modalities on the way.
// Shared cells and functions are opaque: their contents are not reachable structurally.
func (c *DeepCache) Apply(t Type, m ModeVec) *ModeTree {
	c.init()
	key := deepKey{t, m}
	if tree, ok := c.trees[key]; ok {
		return tree
	}
	tree := &ModeTree{Type: t, Modes: m}
	// Insert before recursing so recursive types terminate.
	c.trees[key] = tree
	switch u := t.(type) {
	case *Named:
		if u.Underlying != nil {
			inner := c.Apply(u.Underlying, m)
			tree.Fields = inner.Fields
		}
	case *Record:
		u.Fields.Range(func(f *Field) bool {
			tree.Fields = append(tree.Fields, ModeTreeField{f, c.Apply(f.Type, ApplyModality(m, f))})
			return true
		})
	case *Ref:
		f := &Field{Name: RefField, Type: u.Elem, Mutable: true}
		tree.Fields = append(tree.Fields, ModeTreeField{f, c.Apply(u.Elem, ApplyModality(m, f))})
	case *App:
		for i, arg := range u.Args {
			f := &Field{Name: "$" + itoa(i), Type: arg}
			tree.Fields = append(tree.Fields, ModeTreeField{f, c.Apply(arg, m)})
		}
	}
	return tree
}

// ReachesMutable reports whether mutable state is structurally reachable from a value of type t.
// Keys count as mutable state; shared cells and functions do not expose their contents.
func (c *DeepCache) ReachesMutable(t Type) bool {
	c.init()
	r, _ := c.reachesMutable(t, make(map[Type]int))
	return r
}

// reachesMutable also returns the lowest visiting depth the result depended on. A negative
// result is only final, and memoized, once every cycle through t has closed; types within an open
// cycle are visited again by later queries.
func (c *DeepCache) reachesMutable(t Type, visiting map[Type]int) (bool, int) {
	if r, ok := c.mutable[t]; ok {
		return r, len(visiting)
	}
	if d, ok := visiting[t]; ok {
		return false, d
	}
	depth := len(visiting)
	visiting[t] = depth
	defer delete(visiting, t)

	r, low := false, depth
	visit := func(t Type) bool {
		var l int
		r, l = c.reachesMutable(t, visiting)
		if l < low {
			low = l
		}
		return r
	}
	switch u := t.(type) {
	case *Ref, *Key:
		r = true
	case *Named:
		if u.Underlying != nil {
			visit(u.Underlying)
		}
	case *Record:
		u.Fields.Range(func(f *Field) bool {
			if f.Mutable {
				r = true
				return false
			}
			return !visit(f.Type)
		})
	case *App:
		for _, arg := range u.Args {
			if visit(arg) {
				break
			}
		}
	}
	if r || low >= depth {
		c.mutable[t] = r
		return r, depth
	}
	return r, low
}
