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
	"github.com/pkg/errors"

	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/internal/region"
	"github.com/wdamron/modal/internal/solver"
	"github.com/wdamron/modal/types"
)

// Stack discipline: a value allocated in a stack region may only be referenced from that region or
// regions nested within it. A local value which outlives its region must be global instead.

func (cc *CheckContext) pushRegion(name string) (*region.Region, error) {
	sub, err := cc.frame.current.NewSubRegion(name)
	if err != nil {
		return nil, errors.Wrapf(err, "entering %s", name)
	}
	cc.frame.current = sub
	return sub, nil
}

func (cc *CheckContext) popRegion(r *region.Region) error {
	if err := r.Drop(); err != nil {
		return errors.Wrapf(err, "leaving %s", r)
	}
	return nil
}

// escape requires a value leaving r to be global if it was allocated within r. The escaped value
// is no longer associated with r.
func (cc *CheckContext) escape(v value, r *region.Region, origin solver.Origin, site ast.Expr) value {
	if v.region == nil || !v.region.Within(r) {
		return v
	}
	cc.solver.Le(types.LocalityAxis, v.modes[types.LocalityAxis], types.ConstTerm(types.Global), origin, site)
	v.region = nil
	return v
}

// checkLive requires a value used after its region has ended to be global. Within an exclave, the
// frame's own region has ended.
func (cc *CheckContext) checkLive(v value, site ast.Expr) {
	if v.region == nil {
		return
	}
	dead := v.region.Dropped()
	if f := cc.frame; !dead && f != nil && f.inExclave {
		dead = v.region.Within(f.body)
	}
	if dead {
		cc.solver.Le(types.LocalityAxis, v.modes[types.LocalityAxis], types.ConstTerm(types.Global), solver.OriginEscape, site)
	}
}

// pointTo requires a value referenced from a block in the given region (nil for the heap) to be
// global, unless the block may point into the value's region.
func (cc *CheckContext) pointTo(block *region.Region, v value, origin solver.Origin, site ast.Expr) {
	if v.region == nil {
		return
	}
	if block == nil {
		block = cc.regions.Root
	}
	if !region.CanPoint(block, v.region) {
		cc.solver.Le(types.LocalityAxis, v.modes[types.LocalityAxis], types.ConstTerm(types.Global), origin, site)
	}
}

// store checks a value written into field f of a block allocated in the given region at locality
// blockLoc. Field modalities bound the stored value on the axes they override.
func (cc *CheckContext) store(v value, f *types.Field, block *region.Region, blockLoc types.Term, site ast.Expr) {
	loc := blockLoc
	if m := f.Modalities[types.LocalityAxis]; m.Set {
		loc = m
	}
	cc.solver.Le(types.LocalityAxis, v.modes[types.LocalityAxis], loc, solver.OriginStore, site)
	cc.pointTo(block, v, solver.OriginStore, site)
	for _, a := range types.Axes {
		if m := f.Modalities[a]; m.Set && a != types.LocalityAxis {
			cc.solver.Le(a, v.modes[a], m, solver.OriginStore, site)
		}
	}
}

// ret checks the result of the current frame against its declared result. Exclave results are
// produced in the caller's region and are exempt from the declared locality.
func (cc *CheckContext) ret(v value, site ast.Expr) {
	f := cc.frame
	v = cc.escape(v, f.body, solver.OriginReturn, site)
	declared := f.sig.Return
	for _, a := range types.Axes {
		if a == types.LocalityAxis && f.sig.Exclave {
			continue
		}
		cc.solver.Le(a, v.modes[a], declared.Modes[a], solver.OriginReturn, site)
	}
	if offered, ok := types.Underlying(v.typ).(*types.Arrow); ok {
		if required, ok := types.Underlying(declared.Type).(*types.Arrow); ok {
			cc.subArrow(offered, required, solver.OriginReturn, site)
		}
	}
	cc.checkPlacement(v.typ, declared.Type, site, "result")
}
