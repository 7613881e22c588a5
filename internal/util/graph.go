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

package util

// Graph is an adjacency list over dense vertex ids.
type Graph [][]int

func NewGraph(numVerts int) Graph { return Graph(make([][]int, numVerts)) }

// AddVertex appends a vertex and returns its id.
func (g *Graph) AddVertex() int {
	*g = append(*g, nil)
	return len(*g) - 1
}

func (g Graph) AddEdge(from, to int) {
	if !g.HasEdge(from, to) {
		g[from] = append(g[from], to)
	}
}

func (g Graph) HasEdge(from, to int) bool {
	for _, succ := range g[from] {
		if succ == to {
			return true
		}
	}
	return false
}

// SCC returns the strongly connected components of g in topological order: every edge between
// distinct components points from an earlier component to a later one.
func (g Graph) SCC() [][]int {
	state := sccState{
		indexTable: make([]int, len(g)),
		lowLink:    make([]int, len(g)),
		onStack:    make([]bool, len(g)),
	}
	for v := range g {
		if state.indexTable[v] == 0 {
			g.tarjanSCC(&state, v)
		}
	}
	sccs := state.sccs
	// Reverse the slice for topological ordering:
	for i, j := 0, len(sccs)-1; i < j; i, j = i+1, j-1 {
		sccs[i], sccs[j] = sccs[j], sccs[i]
	}
	return sccs
}

// Condense maps every vertex to the index of its component within sccs, and returns the acyclic
// graph of components.
func (g Graph) Condense(sccs [][]int) (comp []int, dag Graph) {
	comp = make([]int, len(g))
	for c, members := range sccs {
		for _, v := range members {
			comp[v] = c
		}
	}
	dag = NewGraph(len(sccs))
	for from, succs := range g {
		for _, to := range succs {
			if cf, ct := comp[from], comp[to]; cf != ct {
				dag.AddEdge(cf, ct)
			}
		}
	}
	return comp, dag
}

// Levels assigns each vertex of an acyclic graph the length of the longest path reaching it, given
// a topological order. Vertices on the same level have no edges between them.
func (g Graph) Levels(order []int) []int {
	levels := make([]int, len(g))
	for _, v := range order {
		for _, succ := range g[v] {
			if levels[v]+1 > levels[succ] {
				levels[succ] = levels[v] + 1
			}
		}
	}
	return levels
}

type sccState struct {
	index      int
	indexTable []int
	lowLink    []int
	onStack    []bool

	stack []int
	sccs  [][]int
}

// Tarjan's SCC algorithm, based on https://github.com/gonum/gonum/blob/master/graph/topo/tarjan.go
//
// Components will be output in reversed dependency-order. Reversing the output creates a proper topological sort.
func (g Graph) tarjanSCC(state *sccState, v int) {
	state.index++
	state.indexTable[v] = state.index
	state.lowLink[v] = state.index
	state.stack = append(state.stack, v)
	state.onStack[v] = true

	for _, succ := range g[v] {
		if state.indexTable[succ] == 0 {
			g.tarjanSCC(state, succ)
			if state.lowLink[succ] < state.lowLink[v] {
				state.lowLink[v] = state.lowLink[succ]
			}
		} else if state.onStack[succ] && state.indexTable[succ] < state.lowLink[v] {
			state.lowLink[v] = state.indexTable[succ]
		}
	}

	if state.lowLink[v] == state.indexTable[v] {
		var (
			c    []int
			succ int
		)
		for {
			succ, state.stack = state.stack[len(state.stack)-1], state.stack[:len(state.stack)-1]
			state.onStack[succ] = false
			c = append(c, succ)
			if succ == v {
				break
			}
		}
		state.sccs = append(state.sccs, c)
	}
}
