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

// modal checks layouts (kinds) and modes over a type-checked program representation.
//
// Every value carries a mode on five independent axes: locality, uniqueness, linearity,
// contention, and portability. The checker generates ordering constraints between modes while
// walking each function body, and solves them to the least modes consistent with the declared
// signatures. Programs which would let a stack-allocated value outlive its region, or let two
// threads race on mutable state, are rejected.
//
//
// Supported Features:
//
//   * Mode-polymorphic signatures, instantiated per call site
//   * Stack allocation, region blocks, and exclaves (allocation into the caller's region)
//   * Portable closures and contended access to mutable fields
//   * Shared cells gated by key types
//   * Unboxed records with product kinds
//   * Parallel checking of units in import order
//
//
// Links:
//
// Oxidizing OCaml with Modal Memory Management (Lorenzen et al., 2024): https://dl.acm.org/doi/10.1145/3674642
//
// Data Race Freedom à la Mode (Georges et al., 2025): https://dl.acm.org/doi/10.1145/3704859
//
// Tarjan's strongly connected components algorithm: https://en.wikipedia.org/wiki/Tarjan%27s_strongly_connected_components_algorithm
package modal
