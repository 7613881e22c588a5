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
	"strings"
)

// Axis identifies one of the five independent mode dimensions.
type Axis uint8

const (
	LocalityAxis Axis = iota
	UniquenessAxis
	LinearityAxis
	ContentionAxis
	PortabilityAxis

	NumAxes = 5
)

// Axes lists every mode axis in canonical order.
var Axes = [NumAxes]Axis{LocalityAxis, UniquenessAxis, LinearityAxis, ContentionAxis, PortabilityAxis}

// Variety distinguishes axes describing what may happen to a value in the future from axes
// describing what has already happened to it.
type Variety uint8

const (
	Future Variety = iota
	Past
)

func (v Variety) String() string {
	if v == Past {
		return "past"
	}
	return "future"
}

// Polarity is the variance of a position within a signature.
type Polarity uint8

const (
	// Output positions (values produced, function results)
	Covariant Polarity = iota
	// Input positions (function parameters)
	Contravariant
)

// Locality: global ≤ local
type Locality uint8

const (
	Global Locality = iota
	Local
)

// Uniqueness: unique ≤ exclusive ≤ aliased
type Uniqueness uint8

const (
	Unique Uniqueness = iota
	Exclusive
	Aliased
)

// Linearity: many ≤ separate ≤ once
type Linearity uint8

const (
	Many Linearity = iota
	Separate
	Once
)

// Contention: uncontended ≤ shared ≤ contended
type Contention uint8

const (
	Uncontended Contention = iota
	Shared
	Contended
)

// Portability: portable ≤ observing ≤ nonportable
type Portability uint8

const (
	Portable Portability = iota
	Observing
	Nonportable
)

// axisInfo is the immutable order table for a single axis. rank maps a value to its position in
// the sub-moding order; names are indexed by value.
type axisInfo struct {
	name    string
	variety Variety
	names   []string
	rank    []uint8
	def     uint8
}

var axisTable = [NumAxes]axisInfo{
	LocalityAxis: {
		name: "locality", variety: Future,
		names: []string{"global", "local"}, rank: []uint8{0, 1}, def: uint8(Global),
	},
	UniquenessAxis: {
		name: "uniqueness", variety: Past,
		names: []string{"unique", "exclusive", "aliased"}, rank: []uint8{0, 1, 2}, def: uint8(Aliased),
	},
	LinearityAxis: {
		name: "linearity", variety: Future,
		names: []string{"many", "separate", "once"}, rank: []uint8{0, 1, 2}, def: uint8(Many),
	},
	ContentionAxis: {
		name: "contention", variety: Past,
		names: []string{"uncontended", "shared", "contended"}, rank: []uint8{0, 1, 2}, def: uint8(Uncontended),
	},
	PortabilityAxis: {
		name: "portability", variety: Future,
		names: []string{"portable", "observing", "nonportable"}, rank: []uint8{0, 1, 2}, def: uint8(Portable),
	},
}

func (a Axis) info() *axisInfo { return &axisTable[a] }

func (a Axis) String() string { return a.info().name }

// Variety reports whether the axis describes future or past behaviour.
func (a Axis) Variety() Variety { return a.info().variety }

// Height is the number of values on the axis.
func (a Axis) Height() int { return len(a.info().names) }

// Bottom is the most capable value on the axis.
func (a Axis) Bottom() uint8 {
	info := a.info()
	for v, r := range info.rank {
		if r == 0 {
			return uint8(v)
		}
	}
	return 0
}

// Top is the most restricted value on the axis.
func (a Axis) Top() uint8 {
	info := a.info()
	top := len(info.rank) - 1
	for v, r := range info.rank {
		if int(r) == top {
			return uint8(v)
		}
	}
	return uint8(top)
}

// Default is the value an unannotated position takes on the axis.
func (a Axis) Default() uint8 { return a.info().def }

// Le is the sub-moding order: a value at mode x may be used where y is required when Le(x, y).
func (a Axis) Le(x, y uint8) bool {
	info := a.info()
	return info.rank[x] <= info.rank[y]
}

// EvidenceLe orders past-axis values by how much evidence of non-exposure they carry, which is
// the reverse of the sub-moding order.
func (a Axis) EvidenceLe(x, y uint8) bool { return a.Le(y, x) }

// Join returns the least upper bound of x and y.
func (a Axis) Join(x, y uint8) uint8 {
	if a.Le(x, y) {
		return y
	}
	return x
}

// Meet returns the greatest lower bound of x and y.
func (a Axis) Meet(x, y uint8) uint8 {
	if a.Le(x, y) {
		return x
	}
	return y
}

// ValueString returns the name of a value on the axis.
func (a Axis) ValueString(v uint8) string {
	info := a.info()
	if int(v) >= len(info.names) {
		return "?"
	}
	return info.names[v]
}

// Submode decides whether offered may be used where required is expected, at a position of the
// given polarity. Future axes are covariant in output positions; past axes are stated over their
// evidence order, in which output positions are contravariant.
func Submode(a Axis, pos Polarity, offered, required uint8) bool {
	if pos == Contravariant {
		offered, required = required, offered
	}
	switch a.Variety() {
	case Past:
		return a.EvidenceLe(required, offered)
	default:
		return a.Le(offered, required)
	}
}

// ParseValue finds the axis and value for a mode name such as "local" or "contended".
// Value names are distinct across axes.
func ParseValue(name string) (Axis, uint8, bool) {
	name = strings.TrimSpace(name)
	for _, a := range Axes {
		for v, n := range a.info().names {
			if n == name {
				return a, uint8(v), true
			}
		}
	}
	return 0, 0, false
}

// ParseAxis finds an axis by name.
func ParseAxis(name string) (Axis, bool) {
	for _, a := range Axes {
		if a.info().name == name {
			return a, true
		}
	}
	return 0, false
}

// AxisValue is implemented by the typed value of every axis.
type AxisValue interface {
	Axis() Axis
	Level() uint8
}

func (Locality) Axis() Axis    { return LocalityAxis }
func (Uniqueness) Axis() Axis  { return UniquenessAxis }
func (Linearity) Axis() Axis   { return LinearityAxis }
func (Contention) Axis() Axis  { return ContentionAxis }
func (Portability) Axis() Axis { return PortabilityAxis }

func (m Locality) Level() uint8    { return uint8(m) }
func (m Uniqueness) Level() uint8  { return uint8(m) }
func (m Linearity) Level() uint8   { return uint8(m) }
func (m Contention) Level() uint8  { return uint8(m) }
func (m Portability) Level() uint8 { return uint8(m) }

func (m Locality) String() string    { return LocalityAxis.ValueString(uint8(m)) }
func (m Uniqueness) String() string  { return UniquenessAxis.ValueString(uint8(m)) }
func (m Linearity) String() string   { return LinearityAxis.ValueString(uint8(m)) }
func (m Contention) String() string  { return ContentionAxis.ValueString(uint8(m)) }
func (m Portability) String() string { return PortabilityAxis.ValueString(uint8(m)) }

func (m Locality) Le(n Locality) bool       { return LocalityAxis.Le(uint8(m), uint8(n)) }
func (m Uniqueness) Le(n Uniqueness) bool   { return UniquenessAxis.Le(uint8(m), uint8(n)) }
func (m Linearity) Le(n Linearity) bool     { return LinearityAxis.Le(uint8(m), uint8(n)) }
func (m Contention) Le(n Contention) bool   { return ContentionAxis.Le(uint8(m), uint8(n)) }
func (m Portability) Le(n Portability) bool { return PortabilityAxis.Le(uint8(m), uint8(n)) }

func (m Locality) Join(n Locality) Locality {
	return Locality(LocalityAxis.Join(uint8(m), uint8(n)))
}
func (m Uniqueness) Join(n Uniqueness) Uniqueness {
	return Uniqueness(UniquenessAxis.Join(uint8(m), uint8(n)))
}
func (m Linearity) Join(n Linearity) Linearity {
	return Linearity(LinearityAxis.Join(uint8(m), uint8(n)))
}
func (m Contention) Join(n Contention) Contention {
	return Contention(ContentionAxis.Join(uint8(m), uint8(n)))
}
func (m Portability) Join(n Portability) Portability {
	return Portability(PortabilityAxis.Join(uint8(m), uint8(n)))
}

func (m Locality) Meet(n Locality) Locality {
	return Locality(LocalityAxis.Meet(uint8(m), uint8(n)))
}
func (m Uniqueness) Meet(n Uniqueness) Uniqueness {
	return Uniqueness(UniquenessAxis.Meet(uint8(m), uint8(n)))
}
func (m Linearity) Meet(n Linearity) Linearity {
	return Linearity(LinearityAxis.Meet(uint8(m), uint8(n)))
}
func (m Contention) Meet(n Contention) Contention {
	return Contention(ContentionAxis.Meet(uint8(m), uint8(n)))
}
func (m Portability) Meet(n Portability) Portability {
	return Portability(PortabilityAxis.Meet(uint8(m), uint8(n)))
}

// Modes is a fully concrete mode vector.
type Modes struct {
	Locality    Locality
	Uniqueness  Uniqueness
	Linearity   Linearity
	Contention  Contention
	Portability Portability
}

// DefaultModes returns the unconstrained defaults: global, aliased, many, uncontended, portable.
func DefaultModes() Modes {
	var m Modes
	for _, a := range Axes {
		m = m.With(a, a.Default())
	}
	return m
}

// BottomModes returns the most capable vector, the mode of a fresh immediate value.
func BottomModes() Modes {
	var m Modes
	for _, a := range Axes {
		m = m.With(a, a.Bottom())
	}
	return m
}

// Get returns the value of m on axis a.
func (m Modes) Get(a Axis) uint8 {
	switch a {
	case LocalityAxis:
		return uint8(m.Locality)
	case UniquenessAxis:
		return uint8(m.Uniqueness)
	case LinearityAxis:
		return uint8(m.Linearity)
	case ContentionAxis:
		return uint8(m.Contention)
	case PortabilityAxis:
		return uint8(m.Portability)
	}
	panic("unknown mode axis")
}

// With returns a copy of m with axis a set to v.
func (m Modes) With(a Axis, v uint8) Modes {
	switch a {
	case LocalityAxis:
		m.Locality = Locality(v)
	case UniquenessAxis:
		m.Uniqueness = Uniqueness(v)
	case LinearityAxis:
		m.Linearity = Linearity(v)
	case ContentionAxis:
		m.Contention = Contention(v)
	case PortabilityAxis:
		m.Portability = Portability(v)
	default:
		panic("unknown mode axis")
	}
	return m
}

// Le holds when every axis of m is below the corresponding axis of n.
func (m Modes) Le(n Modes) bool {
	for _, a := range Axes {
		if !a.Le(m.Get(a), n.Get(a)) {
			return false
		}
	}
	return true
}

func (m Modes) Join(n Modes) Modes {
	for _, a := range Axes {
		m = m.With(a, a.Join(m.Get(a), n.Get(a)))
	}
	return m
}

func (m Modes) Meet(n Modes) Modes {
	for _, a := range Axes {
		m = m.With(a, a.Meet(m.Get(a), n.Get(a)))
	}
	return m
}

func (m Modes) String() string {
	var sb strings.Builder
	for i, a := range Axes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.ValueString(m.Get(a)))
	}
	return sb.String()
}
