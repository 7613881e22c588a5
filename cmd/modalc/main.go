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

// Command modalc checks the modes and kinds of YAML program files.
//
//	modalc [-config file] [-strict] [-contention] [-unboxed] [-locality global|local]
//	       [-workers n] [-dump] [-watch] program.yaml...
//
// Diagnostics are printed one per line. The exit status is 1 when any unit is rejected.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/wdamron/modal"
	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/internal/progfile"
	"github.com/wdamron/modal/types"
)

type config struct {
	opts  modal.Options
	dump  bool
	watch bool
	files []string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("modalc: ")

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.watch {
		if err := watch(ctx, cfg, os.Stdout); err != nil && ctx.Err() == nil {
			log.Fatal(err)
		}
		return
	}
	failed, err := run(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if failed {
		stop()
		os.Exit(1)
	}
}

// parseFlags reads options from -config, then applies the flags given explicitly.
func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	var (
		cfg        config
		configPath = fs.String("config", "", "YAML options file")
		strict     = fs.Bool("strict", false, "closures capturing mutable state are always nonportable")
		contention = fs.Bool("contention", true, "check mutable field access on contended values")
		unboxed    = fs.Bool("unboxed", true, "admit unboxed layouts")
		locality   = fs.String("locality", "global", "default locality of unannotated signature positions")
		workers    = fs.Int("workers", 0, "units checked concurrently (0 uses GOMAXPROCS)")
	)
	fs.BoolVar(&cfg.dump, "dump", false, "dump the signatures of accepted units")
	fs.BoolVar(&cfg.watch, "watch", false, "check again whenever a program file changes")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.files = fs.Args()
	if len(cfg.files) == 0 {
		return cfg, errors.New("no program files given")
	}

	cfg.opts = modal.DefaultOptions()
	if *configPath != "" {
		opts, err := modal.LoadOptions(*configPath)
		if err != nil {
			return cfg, err
		}
		cfg.opts = opts
	}
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			cfg.opts.StrictPortability = *strict
		case "contention":
			cfg.opts.EnableContentionChecking = *contention
		case "unboxed":
			cfg.opts.EnableUnboxedLayouts = *unboxed
		case "workers":
			cfg.opts.Workers = *workers
		case "locality":
			var loc types.Locality
			if loc, err = modal.ParseLocality(*locality); err == nil {
				cfg.opts.DefaultLocality = loc
			}
		}
	})
	return cfg, err
}

// run loads every program file and checks their units together. It reports whether any unit failed.
func run(ctx context.Context, cfg config, out io.Writer) (bool, error) {
	var units []*ast.Unit
	for _, path := range cfg.files {
		f, err := progfile.Load(path)
		if err != nil {
			return false, err
		}
		units = append(units, f.Units...)
	}

	shared := modal.NewSharedEnv()
	res, err := modal.CheckProgram(ctx, units, shared, cfg.opts)
	if err != nil {
		return false, err
	}
	for _, d := range res.Diagnostics() {
		fmt.Fprintln(out, d)
	}
	for _, name := range sortedKeys(res.Errors) {
		fmt.Fprintf(out, "%s: %v\n", name, res.Errors[name])
	}
	for _, name := range sortedKeys(res.Skipped) {
		fmt.Fprintf(out, "%s: skipped, %s\n", name, res.Skipped[name])
	}

	if cfg.dump {
		dump(out, res, shared)
	}
	return res.Failed(), nil
}

// dump prints the published signatures of every accepted unit, followed by its declared kinds.
func dump(out io.Writer, res *modal.ProgramResult, shared *modal.SharedEnv) {
	kinds := make(map[string]map[string]types.Kind, len(res.Units))
	for _, u := range res.Units {
		if u != nil {
			kinds[u.Name] = u.Kinds
		}
	}
	for _, unit := range shared.Units() {
		fmt.Fprintf(out, "unit %s:\n", unit)
		names, sigs := shared.Signatures(unit)
		for i, name := range names {
			fmt.Fprintf(out, "  %s : %s\n", name, types.TypeString(sigs[i]))
		}
		if len(kinds[unit]) > 0 {
			spew.Fdump(out, kinds[unit])
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
