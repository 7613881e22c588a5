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
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/pkg/errors"

	"github.com/wdamron/modal/types"
)

var emptyUnits = immutable.NewSortedMap(nil)

// SharedEnv holds the finalized signatures of completed units. It is append-only: each unit is
// published once, after it has been fully checked, and readers always observe a complete snapshot.
//
// A shared environment may be used concurrently. Readers never block; publishers retry when they
// race with one another.
type SharedEnv struct {
	units atomic.Pointer[immutable.SortedMap] // unit name -> *immutable.SortedMap of signatures
}

func NewSharedEnv() *SharedEnv {
	s := &SharedEnv{}
	s.units.Store(emptyUnits)
	return s
}

func (s *SharedEnv) load() *immutable.SortedMap {
	if m := s.units.Load(); m != nil {
		return m
	}
	return emptyUnits
}

// Publish makes the signatures of a completed unit visible. Signatures must not contain flexible
// mode-variables. A unit may only be published once.
func (s *SharedEnv) Publish(unit string, sigs map[string]*types.Arrow) error {
	b := immutable.NewSortedMapBuilder(immutable.NewSortedMap(nil))
	for name, sig := range sigs {
		b.Set(name, sig)
	}
	funcs := b.Map()
	for {
		prev := s.units.Load()
		base := prev
		if base == nil {
			base = emptyUnits
		}
		if _, dup := base.Get(unit); dup {
			return errors.Errorf("Unit %s is already published", unit)
		}
		if s.units.CompareAndSwap(prev, base.Set(unit, funcs)) {
			return nil
		}
	}
}

// Lookup finds a published signature.
func (s *SharedEnv) Lookup(unit, name string) (*types.Arrow, bool) {
	funcs, ok := s.load().Get(unit)
	if !ok {
		return nil, false
	}
	sig, ok := funcs.(*immutable.SortedMap).Get(name)
	if !ok {
		return nil, false
	}
	return sig.(*types.Arrow), true
}

// HasUnit reports whether a unit has been published.
func (s *SharedEnv) HasUnit(unit string) bool {
	_, ok := s.load().Get(unit)
	return ok
}

// Units lists published units in sorted order.
func (s *SharedEnv) Units() []string {
	m := s.load()
	names := make([]string, 0, m.Len())
	iter := m.Iterator()
	for !iter.Done() {
		k, _ := iter.Next()
		names = append(names, k.(string))
	}
	return names
}

// Signatures lists the published signatures of a unit, by name in sorted order.
func (s *SharedEnv) Signatures(unit string) (names []string, sigs []*types.Arrow) {
	funcs, ok := s.load().Get(unit)
	if !ok {
		return nil, nil
	}
	iter := funcs.(*immutable.SortedMap).Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		names, sigs = append(names, k.(string)), append(sigs, v.(*types.Arrow))
	}
	return names, sigs
}
