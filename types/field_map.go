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
	"github.com/benbjohnson/immutable"
)

var (
	emptyFieldIndex = immutable.NewSortedMap(nil)
	emptyFieldList  = immutable.NewList()
)

// FieldMap contains immutable record fields, indexed by label and kept in declaration order.
// Declaration order determines the layout of unboxed records.
type FieldMap struct {
	index *immutable.SortedMap
	order *immutable.List
}

// Create a FieldMap from fields in declaration order.
func NewFieldMap(fields ...*Field) FieldMap {
	b := NewFieldMapBuilder()
	for _, f := range fields {
		b.Add(f)
	}
	return b.Build()
}

// Get the number of fields in the map.
func (m FieldMap) Len() int {
	if m.order == nil {
		return 0
	}
	return m.order.Len()
}

// Get the field for a label.
func (m FieldMap) Get(label string) (*Field, bool) {
	if m.index == nil {
		return nil, false
	}
	f, ok := m.index.Get(label)
	if !ok {
		return nil, false
	}
	return f.(*Field), true
}

// Get the field at a position in declaration order.
func (m FieldMap) At(i int) *Field { return m.order.Get(i).(*Field) }

// Iterate over fields in declaration order.
// If f returns false, iteration will be stopped.
func (m FieldMap) Range(f func(*Field) bool) {
	if m.order == nil {
		return
	}
	iter := m.order.Iterator()
	for !iter.Done() {
		_, v := iter.Next()
		if !f(v.(*Field)) {
			return
		}
	}
}

// Iterate over fields sorted by label.
// If f returns false, iteration will be stopped.
func (m FieldMap) RangeSorted(f func(*Field) bool) {
	if m.index == nil {
		return
	}
	iter := m.index.Iterator()
	for !iter.Done() {
		_, v := iter.Next()
		if !f(v.(*Field)) {
			return
		}
	}
}

// Convert the map to a builder for modification, without mutating the existing map.
func (m FieldMap) Builder() FieldMapBuilder {
	index, order := m.index, m.order
	if index == nil {
		index, order = emptyFieldIndex, emptyFieldList
	}
	return FieldMapBuilder{immutable.NewSortedMapBuilder(index), immutable.NewListBuilder(order)}
}

// FieldMapBuilder enables in-place updates of a map before finalization.
type FieldMapBuilder struct {
	index *immutable.SortedMapBuilder
	order *immutable.ListBuilder
}

func NewFieldMapBuilder() FieldMapBuilder {
	return FieldMapBuilder{immutable.NewSortedMapBuilder(emptyFieldIndex), immutable.NewListBuilder(emptyFieldList)}
}

// Add a field. A field with a label which is already present replaces the existing field
// in its original position.
func (b FieldMapBuilder) Add(f *Field) FieldMapBuilder {
	if _, exists := b.index.Get(f.Name); exists {
		for i := 0; i < b.order.Len(); i++ {
			if b.order.Get(i).(*Field).Name == f.Name {
				b.order.Set(i, f)
				break
			}
		}
	} else {
		b.order.Append(f)
	}
	b.index.Set(f.Name, f)
	return b
}

// Finalize the builder into an immutable map.
func (b FieldMapBuilder) Build() FieldMap {
	return FieldMap{b.index.Map(), b.order.List()}
}
