package region

import "testing"

func TestCanPoint(t *testing.T) {
	tree := NewTree()
	heap := tree.Root
	caller, err := heap.NewSubRegion("caller")
	if err != nil {
		t.Fatal(err)
	}
	frame, _ := caller.NewSubRegion("frame")
	inner, _ := frame.NewSubRegion("block")

	cases := []struct {
		from, to *Region
		ok       bool
	}{
		{heap, heap, true},
		{frame, heap, true},
		{heap, frame, false},
		{inner, frame, true},
		{frame, inner, false},
		{frame, caller, true},
		{caller, frame, false},
	}
	for i, c := range cases {
		if got := CanPoint(c.from, c.to); got != c.ok {
			t.Fatalf("case %d: expected CanPoint(%s, %s) = %v", i, c.from, c.to, c.ok)
		}
	}

	if err := frame.Drop(); err == nil {
		t.Fatalf("expected frame drop to fail while a sub-region is live")
	}
	if err := inner.Drop(); err != nil {
		t.Fatal(err)
	}
	if CanPoint(frame, inner) || CanPoint(inner, heap) {
		t.Fatalf("expected dropped regions to neither hold nor receive pointers")
	}
	if err := inner.Drop(); err == nil {
		t.Fatalf("expected double drop to fail")
	}
	if err := heap.Drop(); err == nil {
		t.Fatalf("expected heap drop to fail")
	}
	if _, err := inner.NewSubRegion(""); err == nil {
		t.Fatalf("expected sub-region of a dropped region to fail")
	}
}

func TestDeeper(t *testing.T) {
	tree := NewTree()
	a, _ := tree.Root.NewSubRegion("a")
	b, _ := a.NewSubRegion("b")
	if Deeper(a, b) != b || Deeper(b, a) != b || Deeper(nil, a) != a || Deeper(a, nil) != a {
		t.Fatalf("expected the more deeply nested region")
	}
	if !b.Within(tree.Root) || a.Within(b) {
		t.Fatalf("unexpected nesting")
	}
}

func TestRegionString(t *testing.T) {
	tree := NewTree()
	var last *Region
	for i := 0; i < 12; i++ {
		last, _ = tree.Root.NewSubRegion("")
	}
	named, _ := tree.Root.NewSubRegion("frame")
	if tree.Root.String() != "heap" || last.String() != "region#12" || named.String() != "frame" {
		t.Fatalf("unexpected region names: %s, %s, %s", tree.Root, last, named)
	}
}
