// region models the nesting of allocation regions within a checked function: a static heap region
// at the root and stack regions below it, one per frame or region-opening block.
package region

import (
	"strconv"

	"github.com/pkg/errors"
)

type Flags uint32

const (
	FlagStatic = 1 << iota
	FlagStack
	FlagDropped
)

func (f Flags) Static() bool  { return f&FlagStatic != 0 }
func (f Flags) Stack() bool   { return f&FlagStack != 0 }
func (f Flags) Dropped() bool { return f&FlagDropped != 0 }

// Tree is the set of live regions for one checked function.
//
// A tree cannot be used concurrently.
type Tree struct {
	Root  *Region
	Table map[*Region]struct{}
	nextId int
}

func NewTree() *Tree {
	t := &Tree{Table: make(map[*Region]struct{})}
	t.Root = &Region{tree: t, flags: FlagStatic, name: "heap"}
	t.Table[t.Root] = struct{}{}
	return t
}

// Region is an abstract allocation site.
type Region struct {
	tree *Tree
	// Children form a doubly-linked list.
	up, left, right, down *Region
	flags                 Flags
	depth                 int
	id                    int
	name                  string
}

func (r *Region) Flags() Flags    { return r.flags }
func (r *Region) Depth() int      { return r.depth }
func (r *Region) Parent() *Region { return r.up }
func (r *Region) Dropped() bool   { return r.flags.Dropped() }
func (r *Region) Name() string    { return r.name }

func (r *Region) String() string {
	if r.name != "" {
		return r.name
	}
	return "region#" + strconv.Itoa(r.id)
}

// NewSubRegion pushes a stack region below r.
func (r *Region) NewSubRegion(name string) (*Region, error) {
	if r.flags.Dropped() {
		return nil, errors.New("parent region has already been dropped")
	}
	tree := r.tree
	tree.nextId++
	down := &Region{
		tree:  tree,
		up:    r,
		right: r.down,
		flags: FlagStack,
		depth: r.depth + 1,
		id:    tree.nextId,
		name:  name,
	}
	if r.down != nil {
		r.down.left = down
	}
	r.down = down
	tree.Table[down] = struct{}{}
	return down, nil
}

// Drop pops r. Values allocated in a dropped region are invalid; the region is kept so that
// references to it can still be recognized.
func (r *Region) Drop() error {
	if r.flags.Dropped() {
		return errors.New("region has already been dropped")
	}
	if r.flags.Static() {
		return errors.New("the static region cannot be dropped")
	}
	for d := r.down; d != nil; d = d.right {
		if !d.flags.Dropped() {
			return errors.New("region cannot be dropped until all sub-regions are dropped")
		}
	}
	r.flags |= FlagDropped
	delete(r.tree.Table, r)
	return nil
}

// Within reports whether r is anc or nested inside anc.
func (r *Region) Within(anc *Region) bool {
	for cur := r; cur != nil; cur = cur.up {
		if cur == anc {
			return true
		}
	}
	return false
}

// CanPoint reports whether a block allocated in from may hold a pointer to a block allocated in to.
// Pointers may refer to the static region from anywhere, and to stack regions only from the same
// region or a region nested inside it. Dropped regions can neither hold nor receive pointers.
func CanPoint(from, to *Region) bool {
	if from.tree != to.tree {
		return false
	}
	if from.flags.Dropped() || to.flags.Dropped() {
		return false
	}
	switch {
	case to.flags.Static():
		return true
	case from.flags.Static():
		return false
	}
	return from.Within(to)
}

// Deeper returns whichever of a and b is nested more deeply, preferring a. A nil region is
// treated as static.
func Deeper(a, b *Region) *Region {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.depth > a.depth:
		return b
	}
	return a
}
