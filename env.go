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
	"strings"

	"github.com/wdamron/modal/types"
)

// Env contains mappings from function names to declared signatures.
//
// An environment cannot be used concurrently for checking; to share declarations across threads,
// publish finalized signatures to a SharedEnv and create a new environment for each thread.
type Env struct {
	// Next unused mode-variable id
	NextVarId int
	// Predeclared functions in the parent of the current environment
	Parent *Env
	// Signatures declared in the current environment
	Funcs map[string]*types.Arrow
	// Units whose published signatures are visible, in lookup order
	Imports []string
	// Signatures published by completed units
	Shared *SharedEnv
}

// Create an environment. The new environment will inherit declarations from the parent, if the
// parent is not nil.
func NewEnv(parent *Env) *Env {
	env := &Env{
		Parent: parent,
		Funcs:  make(map[string]*types.Arrow),
	}
	if parent != nil {
		env.NextVarId = parent.NextVarId
		env.Shared = parent.Shared
	}
	return env
}

func (e *Env) freshId() int {
	id := e.NextVarId
	e.NextVarId++
	return id
}

// Create a generic mode-variable with a unique id, for use in declared signatures.
func (e *Env) NewGenericVar(name string, axis types.Axis) *types.ModeVar {
	return types.NewGenericVar(e.freshId(), name, axis)
}

// Declare a function signature.
func (e *Env) Declare(name string, sig *types.Arrow) { e.Funcs[name] = sig }

// Lookup finds a signature by name. Local declarations shadow the parent's; published signatures
// of imported units are found last. A name of the form "unit.name" refers to an imported unit's
// function directly.
func (e *Env) Lookup(name string) (*types.Arrow, bool) {
	for env := e; env != nil; env = env.Parent {
		if sig, ok := env.Funcs[name]; ok {
			return sig, true
		}
	}
	return e.lookupImported(name)
}

func (e *Env) lookupImported(name string) (*types.Arrow, bool) {
	for env := e; env != nil; env = env.Parent {
		if env.Shared == nil {
			continue
		}
		if i := strings.LastIndexByte(name, '.'); i > 0 {
			unit := name[:i]
			for _, imp := range env.Imports {
				if imp == unit {
					return env.Shared.Lookup(unit, name[i+1:])
				}
			}
			continue
		}
		for _, imp := range env.Imports {
			if sig, ok := env.Shared.Lookup(imp, name); ok {
				return sig, true
			}
		}
	}
	return nil, false
}
