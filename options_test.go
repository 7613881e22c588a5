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
	"os"
	"path/filepath"
	"testing"

	"github.com/wdamron/modal/ast"
	. "github.com/wdamron/modal/construct"
	"github.com/wdamron/modal/types"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte(`
enable_unboxed_layouts: false
strict_portability: true
default_locality: local
workers: 3
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.EnableUnboxedLayouts || !opts.StrictPortability || !opts.EnableContentionChecking {
		t.Fatalf("unexpected flags: %+v", opts)
	}
	if opts.DefaultLocality != types.Local || opts.Workers != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if d := opts.Defaults(); d.Locality != types.Local || d.Uniqueness != types.Aliased {
		t.Fatalf("unexpected defaults: %s", d)
	}

	empty, err := ParseOptions(nil)
	if err != nil || empty != DefaultOptions() {
		t.Fatalf("expected defaults for an empty file, found %+v (%v)", empty, err)
	}
	if _, err := ParseOptions([]byte("unknown_key: 1\n")); err == nil {
		t.Fatalf("expected unknown keys to be rejected")
	}
	if _, err := ParseOptions([]byte("default_locality: contended\n")); err == nil {
		t.Fatalf("expected an invalid locality to be rejected")
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modal.yaml")
	if err := os.WriteFile(path, []byte("enable_contention_checking: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.EnableContentionChecking {
		t.Fatalf("expected contention checking to be disabled")
	}
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestDefaultLocalityApplies(t *testing.T) {
	unit := func() *ast.Unit {
		return Unit("defaults", nil,
			Extern("useGlobal", TArrow1(P(intRef, types.Global), P(types.Unit))),
			Decl("f", []string{"r"}, TArrow1(P(intRef), P(types.Unit)), Call(Var("useGlobal"), Var("r"))))
	}
	mustAccept(t, unit(), DefaultOptions())

	opts := DefaultOptions()
	opts.DefaultLocality = types.Local
	mustReject(t, unit(), opts, UnsatisfiableConstraint)
}
