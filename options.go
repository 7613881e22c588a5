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
	"bytes"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wdamron/modal/types"
)

// Options configure a check.
type Options struct {
	// Admit non-value atomic kinds (bits8, bits32, bits64, float64, void).
	EnableUnboxedLayouts bool
	// Reject mutable field access on contended values.
	EnableContentionChecking bool
	// Closures capturing mutable state are nonportable, even when the state is uncontended.
	StrictPortability bool
	// Locality of unannotated signature positions.
	DefaultLocality types.Locality
	// Maximum number of units checked concurrently by CheckProgram. Zero or less uses GOMAXPROCS.
	Workers int
}

// DefaultOptions enables unboxed layouts and contention checking, with global as the default
// locality.
func DefaultOptions() Options {
	return Options{
		EnableUnboxedLayouts:     true,
		EnableContentionChecking: true,
		DefaultLocality:          types.Global,
		Workers:                  runtime.GOMAXPROCS(0),
	}
}

// Defaults returns the modes of an unannotated signature position.
func (o Options) Defaults() types.Modes {
	m := types.DefaultModes()
	m.Locality = o.DefaultLocality
	return m
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

type optionsFile struct {
	EnableUnboxedLayouts     *bool  `yaml:"enable_unboxed_layouts"`
	EnableContentionChecking *bool  `yaml:"enable_contention_checking"`
	StrictPortability        *bool  `yaml:"strict_portability"`
	DefaultLocality          string `yaml:"default_locality"`
	Workers                  *int   `yaml:"workers"`
}

// LoadOptions reads options from a YAML file. Options missing from the file keep their defaults.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrap(err, "reading options")
	}
	opts, err := ParseOptions(data)
	return opts, errors.Wrapf(err, "parsing options from %s", path)
}

// ParseOptions decodes YAML options over DefaultOptions. Unknown keys are rejected.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	var f optionsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return opts, nil
		}
		return opts, err
	}
	if f.EnableUnboxedLayouts != nil {
		opts.EnableUnboxedLayouts = *f.EnableUnboxedLayouts
	}
	if f.EnableContentionChecking != nil {
		opts.EnableContentionChecking = *f.EnableContentionChecking
	}
	if f.StrictPortability != nil {
		opts.StrictPortability = *f.StrictPortability
	}
	if f.Workers != nil {
		opts.Workers = *f.Workers
	}
	if f.DefaultLocality != "" {
		loc, err := ParseLocality(f.DefaultLocality)
		if err != nil {
			return opts, err
		}
		opts.DefaultLocality = loc
	}
	return opts, nil
}

// ParseLocality parses "global" or "local".
func ParseLocality(s string) (types.Locality, error) {
	a, v, ok := types.ParseValue(s)
	if !ok || a != types.LocalityAxis {
		return types.Global, errors.Errorf("invalid locality %q", s)
	}
	return types.Locality(v), nil
}
