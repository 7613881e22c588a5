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

package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wdamron/modal/types"
)

const escaping = `
format: "1.0"
units:
  - name: cells
    types:
      - name: box
        type:
          record:
            - {name: v, type: int}
    funcs:
      - name: leak
        args: [x]
        sig: {params: [int], result: box}
        body:
          alloc: {type: box, local: true, fields: {v: x}}
  - name: user
    imports: [cells]
    funcs:
      - name: use
        args: [x]
        sig: {params: [int], result: box}
        body: {call: {fn: cells.leak, args: [x]}}
`

const accepted = `
format: "1.0"
units:
  - name: ids
    funcs:
      - name: id
        args: [x]
        sig:
          params: [{type: "'a", modes: [local]}]
          result: {type: "'a", modes: [local]}
        body: x
`

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFlags(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "modal.yaml")
	if err := os.WriteFile(conf, []byte("strict_portability: true\nworkers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := flag.NewFlagSet("modalc", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{"-config", conf, "-locality", "local", "-workers", "5", "-dump", "a.yaml", "b.yaml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.opts.StrictPortability || cfg.opts.Workers != 5 || cfg.opts.DefaultLocality != types.Local {
		t.Fatalf("unexpected options: %+v", cfg.opts)
	}
	if !cfg.opts.EnableContentionChecking || !cfg.dump || cfg.watch || len(cfg.files) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	fs = flag.NewFlagSet("modalc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := parseFlags(fs, []string{"-locality", "shared", "a.yaml"}); err == nil {
		t.Fatalf("expected an invalid locality to be rejected")
	}
	fs = flag.NewFlagSet("modalc", flag.ContinueOnError)
	if _, err := parseFlags(fs, nil); err == nil {
		t.Fatalf("expected an error without program files")
	}
}

func TestRun(t *testing.T) {
	fs := flag.NewFlagSet("modalc", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{writeProgram(t, escaping)})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	failed, err := run(context.Background(), cfg, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !failed {
		t.Fatalf("expected the program to fail:\n%s", out.String())
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "StackDisciplineViolation") || lines[1] != "user: skipped, import cells failed" {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	fs = flag.NewFlagSet("modalc", flag.ContinueOnError)
	if cfg, err = parseFlags(fs, []string{"-dump", writeProgram(t, accepted)}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if failed, err = run(context.Background(), cfg, &out); err != nil || failed {
		t.Fatalf("expected the program to be accepted (%v):\n%s", err, out.String())
	}
	if !strings.HasPrefix(out.String(), "unit ids:\n") {
		t.Fatalf("expected a signature dump:\n%s", out.String())
	}
}
