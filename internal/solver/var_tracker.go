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

package solver

import (
	"github.com/wdamron/modal/types"
)

// VarTracker allocates mode-variables from fixed-size blocks and tracks allocations.
type VarTracker struct {
	NextId int
	vars   []*types.ModeVar
	block  []types.ModeVar
}

func (vt *VarTracker) Reset() {
	vt.NextId, vt.vars, vt.block = 0, vt.vars[:0], nil
}

// Vars returns every allocated variable, in allocation order.
func (vt *VarTracker) Vars() []*types.ModeVar { return vt.vars }

func (vt *VarTracker) Len() int { return len(vt.vars) }

func (vt *VarTracker) alloc() *types.ModeVar {
	if len(vt.block) == 0 {
		vt.block = make([]types.ModeVar, 16)
	}
	v := &vt.block[0]
	vt.block = vt.block[1:]
	vt.vars = append(vt.vars, v)
	vt.NextId++
	return v
}

// New allocates a flexible variable on the given axis.
func (vt *VarTracker) New(axis types.Axis) *types.ModeVar {
	id := vt.NextId
	v := vt.alloc()
	v.Init(id, axis)
	return v
}

// NewRigid allocates a rigid stand-in for the generic variable g.
func (vt *VarTracker) NewRigid(g *types.ModeVar) *types.ModeVar {
	id := vt.NextId
	v := vt.alloc()
	v.InitRigid(id, g)
	return v
}

// FlattenLinks compresses every union-find path.
func (vt *VarTracker) FlattenLinks() {
	for _, v := range vt.vars {
		v.Find()
	}
}
