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

package progfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/types"
)

const lists = `
format: "1.2.0"
units:
  - name: base
    types:
      - name: pair
        kind: bits8 & bits32
        type:
          unboxed:
            - {name: a, type: "int8#"}
            - {name: b, type: "int32#"}
      - name: counter
        type:
          record:
            - {name: count, type: int, mutable: true}
            - {name: label, type: string, modalities: [global]}
    funcs:
      - name: hd
        sig:
          params: [{type: {app: {name: list, args: ["'a"]}}, modes: {locality: "'m"}}]
          result: {type: "'a", modes: {locality: "'m"}}
  - name: main
    imports: [base]
    funcs:
      - name: first
        args: [l]
        sig:
          params: [{type: {app: {name: list, args: ["'a"]}}, modes: [local]}]
          result: {type: "'a", modes: [local]}
        body: {call: {fn: hd, args: [l]}}
      - name: bump
        args: [c]
        sig:
          params: [counter]
          result: unit
        body:
          let:
            name: n
            modes: [local]
            value: {select: {record: c, field: count}}
            body: {assign: {record: c, field: count, value: n}}
      - name: fresh
        args: []
        sig: {result: counter}
        body:
          region:
            alloc:
              type: counter
              local: true
              fields: {count: 0, label: {literal: {syntax: '"x"', type: string}}}
`

func TestParseProgram(t *testing.T) {
	f, err := Parse([]byte(lists))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Format.String() != "1.2.0" || len(f.Units) != 2 {
		t.Fatalf("unexpected file: %s", spew.Sdump(f))
	}
	base, main := f.Units[0], f.Units[1]
	if base.Name != "base" || len(base.Types) != 2 || len(main.Imports) != 1 || main.Imports[0] != "base" {
		t.Fatalf("unexpected units: %s", spew.Sdump(f.Units))
	}

	pair := base.Types[0]
	if pair.Kind == nil || pair.Kind.String() != "bits8 & bits32" {
		t.Fatalf("unexpected kind for pair: %v", pair.Kind)
	}
	if rec, ok := pair.Type.(*types.Record); !ok || !rec.Unboxed || rec.Name != "pair" || rec.Fields.Len() != 2 {
		t.Fatalf("unexpected type for pair: %s", types.TypeString(pair.Type))
	}
	counter := base.Types[1].Type.(*types.Record)
	label, _ := counter.Fields.Get("label")
	if count, _ := counter.Fields.Get("count"); !count.Mutable || label.Mutable || !label.Modalities[types.LocalityAxis].Is(types.Global) {
		t.Fatalf("unexpected fields for counter: %s", types.TypeString(counter))
	}

	hd := base.Funcs[0]
	if !hd.IsExtern() || len(hd.ArgNames) != 1 || hd.ArgNames[0] != "_" {
		t.Fatalf("expected hd to be external: %s", spew.Sdump(hd))
	}
	arg, res := hd.Sig.Params[0].Modes[types.LocalityAxis], hd.Sig.Return.Modes[types.LocalityAxis]
	if !arg.IsVar() || arg.Var != res.Var || !arg.Var.IsGeneric() || arg.Var.Name() != "m" {
		t.Fatalf("expected one generic locality for hd, found %s and %s", hd.Sig.Params[0].Modes, hd.Sig.Return.Modes)
	}

	first := main.Lookup("first")
	if call, ok := first.Body.(*ast.Call); !ok || call.Func.(*ast.Var).Name != "hd" || len(call.Args) != 1 {
		t.Fatalf("unexpected body for first: %s", ast.ExprString(first.Body))
	}
	if !first.Sig.Params[0].Modes[types.LocalityAxis].Is(types.Local) {
		t.Fatalf("expected a local argument: %s", first.Sig.Params[0].Modes)
	}

	bump := main.Lookup("bump")
	let, ok := bump.Body.(*ast.Let)
	if !ok || !let.Annot[types.LocalityAxis].Is(types.Local) {
		t.Fatalf("unexpected body for bump: %s", ast.ExprString(bump.Body))
	}
	if named, ok := bump.Sig.Params[0].Type.(*types.Named); !ok || named.Underlying != counter {
		t.Fatalf("expected counter to resolve to its declaration: %s", spew.Sdump(bump.Sig.Params[0]))
	}

	fresh := main.Lookup("fresh")
	alloc := fresh.Body.(*ast.Region).Body.(*ast.Alloc)
	if alloc.Locality != types.Local || len(alloc.Fields) != 2 || alloc.Fields[0].Label != "count" || alloc.Fields[1].Label != "label" {
		t.Fatalf("unexpected allocation: %s", ast.ExprString(alloc))
	}
	if lit := alloc.Fields[0].Value.(*ast.Literal); lit.Type != types.Int || lit.Syntax != "0" {
		t.Fatalf("unexpected literal: %s", spew.Sdump(lit))
	}
}

func TestFormatVersion(t *testing.T) {
	for _, tc := range []struct {
		src string
		err string
	}{
		{"units: []\n", "missing format version"},
		{"format: banana\n", "format version"},
		{"format: \"2.0.0\"\n", "unsupported format version"},
		{"format: \"0.9\"\n", "unsupported format version"},
		{"", "empty program file"},
	} {
		_, err := Parse([]byte(tc.src))
		if err == nil || !strings.Contains(err.Error(), tc.err) {
			t.Fatalf("expected %q for %q, found %v", tc.err, tc.src, err)
		}
	}
	if _, err := Parse([]byte("format: \"1.0\"\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMalformedPrograms(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		err  string
	}{
		{"unknown key", "format: \"1.0\"\nversion: 2\n", `unknown key "version"`},
		{"unknown unit key", `
format: "1.0"
units:
  - {name: u, exports: [f]}
`, `unknown key "exports"`},
		{"unknown expression key", `
format: "1.0"
units:
  - name: u
    funcs:
      - {name: f, args: [], sig: {result: int}, body: {let: {name: n, valu: 1, body: n}}}
`, `unknown key "valu"`},
		{"unknown field key", `
format: "1.0"
units:
  - name: u
    types: [{name: t, type: {record: [{name: a, type: int, mutabel: true}]}}]
`, `unknown key "mutabel"`},
		{"unknown type", `
format: "1.0"
units:
  - name: u
    funcs:
      - {name: f, sig: {params: [widget], result: int}}
`, `unknown type "widget"`},
		{"unknown mode", `
format: "1.0"
units:
  - name: u
    funcs:
      - {name: f, sig: {params: [{type: int, modes: [stacked]}], result: int}}
`, `unknown mode "stacked"`},
		{"wrong axis", `
format: "1.0"
units:
  - name: u
    funcs:
      - {name: f, sig: {params: [{type: int, modes: {locality: unique}}], result: int}}
`, `"unique" is not a locality mode`},
		{"unknown form", `
format: "1.0"
units:
  - name: u
    funcs:
      - {name: f, args: [], sig: {result: int}, body: {goto: x}}
`, `unknown expression form "goto"`},
		{"duplicate type", `
format: "1.0"
units:
  - name: u
    types: [{name: t, type: int}, {name: t, type: bool}]
`, `duplicate type "t"`},
		{"bad kind", `
format: "1.0"
units:
  - name: u
    types: [{name: t, kind: bits7, type: int}]
`, `invalid kind "bits7"`},
	} {
		_, err := Parse([]byte(tc.src))
		if err == nil || !strings.Contains(err.Error(), tc.err) {
			t.Fatalf("%s: expected %q, found %v", tc.name, tc.err, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists.yaml")
	if err := os.WriteFile(path, []byte(lists), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil || len(f.Units) != 2 {
		t.Fatalf("unexpected result: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "reading program") {
		t.Fatalf("expected a read error, found %v", err)
	}
}
