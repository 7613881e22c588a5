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

// Package progfile decodes YAML program files into compilation units.
//
// A program file lists units, each with imports, type declarations and functions:
//
//	format: "1.0"
//	units:
//	  - name: lists
//	    funcs:
//	      - name: hd
//	        sig:
//	          params: [{type: {app: {name: list, args: ["'a"]}}, modes: {locality: "'m"}}]
//	          result: {type: "'a", modes: {locality: "'m"}}
//	      - name: first
//	        args: [l]
//	        sig:
//	          params: [{type: {app: {name: list, args: ["'a"]}}, modes: [local]}]
//	          result: {type: "'a", modes: [local]}
//	        body: {call: {fn: hd, args: [l]}}
//
// Functions without a body are external. Scalar expressions are variables, integers, booleans, or
// the unit literal "()". Other expressions are single-key mappings naming the form.
package progfile

import (
	"bytes"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wdamron/modal/ast"
	"github.com/wdamron/modal/types"
)

// FormatConstraint bounds the format versions this package decodes.
const FormatConstraint = ">= 1.0, < 2.0"

var formatConstraint = mustConstraint(FormatConstraint)

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cs
}

// File is a decoded program file.
type File struct {
	Format *semver.Version
	Units  []*ast.Unit
}

type fileNode struct {
	Format string     `yaml:"format"`
	Units  []unitNode `yaml:"units"`
}

type unitNode struct {
	Name    string     `yaml:"name"`
	Imports []string   `yaml:"imports"`
	Types   []typeNode `yaml:"types"`
	Funcs   []funcNode `yaml:"funcs"`
}

type typeNode struct {
	Name string    `yaml:"name"`
	Kind string    `yaml:"kind"`
	Type yaml.Node `yaml:"type"`
}

type funcNode struct {
	Name string     `yaml:"name"`
	Args []string   `yaml:"args"`
	Sig  yaml.Node  `yaml:"sig"`
	Body *yaml.Node `yaml:"body"`
}

// Load reads and decodes a program file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading program")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return f, nil
}

// Parse decodes a program file. Unknown keys are rejected at every level.
func Parse(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty program file")
		}
		return nil, err
	}
	var raw fileNode
	if err := decodeFile(&doc, &raw); err != nil {
		return nil, err
	}
	if raw.Format == "" {
		return nil, errors.New("missing format version")
	}
	version, err := semver.NewVersion(raw.Format)
	if err != nil {
		return nil, errors.Wrapf(err, "format version %q", raw.Format)
	}
	if !formatConstraint.Check(version) {
		return nil, errors.Errorf("unsupported format version %s (want %s)", version, FormatConstraint)
	}

	d := &decoder{named: make(map[string]*types.Named)}
	for _, u := range raw.Units {
		for _, t := range u.Types {
			if _, dup := d.named[t.Name]; dup {
				return nil, errors.Errorf("duplicate type %q", t.Name)
			}
			if _, builtin := types.Builtins[t.Name]; builtin || t.Name == "" {
				return nil, errors.Errorf("invalid type name %q", t.Name)
			}
			d.named[t.Name] = &types.Named{Name: t.Name}
		}
	}

	file := &File{Format: version}
	for _, u := range raw.Units {
		unit, err := d.unit(u)
		if err != nil {
			return nil, errors.Wrapf(err, "unit %s", u.Name)
		}
		file.Units = append(file.Units, unit)
	}
	return file, nil
}

type decoder struct {
	named map[string]*types.Named
	// Generic mode-variables of the declaration being decoded, by axis and name.
	generics map[string]*types.ModeVar
	nextVar  int
}

func (d *decoder) unit(u unitNode) (*ast.Unit, error) {
	unit := &ast.Unit{Name: u.Name, Imports: u.Imports}
	for _, t := range u.Types {
		decl, err := d.typeDecl(t)
		if err != nil {
			return nil, err
		}
		unit.Types = append(unit.Types, decl)
	}
	for _, f := range u.Funcs {
		d.generics = make(map[string]*types.ModeVar)
		decl, err := d.funcDecl(f)
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", f.Name)
		}
		unit.Funcs = append(unit.Funcs, decl)
	}
	return unit, nil
}

func (d *decoder) typeDecl(t typeNode) (*ast.TypeDecl, error) {
	d.generics = nil
	typ, err := d.typ(&t.Type, t.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "type %s", t.Name)
	}
	d.named[t.Name].Underlying = typ
	decl := &ast.TypeDecl{Name: t.Name, Type: typ}
	if t.Kind != "" {
		k, ok := types.ParseKind(t.Kind)
		if !ok {
			return nil, errors.Errorf("type %s: invalid kind %q", t.Name, t.Kind)
		}
		decl.Kind = &k
	}
	return decl, nil
}

func (d *decoder) funcDecl(f funcNode) (*ast.FuncDecl, error) {
	decl := &ast.FuncDecl{Name: f.Name, ArgNames: f.Args}
	if f.Sig.Kind != 0 {
		sig, err := d.arrow(&f.Sig)
		if err != nil {
			return nil, err
		}
		decl.Sig = sig
	}
	if f.Body == nil {
		if len(decl.ArgNames) == 0 && decl.Sig != nil {
			decl.ArgNames = make([]string, len(decl.Sig.Params))
			for i := range decl.ArgNames {
				decl.ArgNames[i] = "_"
			}
		}
		return decl, nil
	}
	body, err := d.expr(f.Body)
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

// decodeFile decodes the document's declarations, rejecting unknown keys at every level. Types and
// expressions are left as nodes and checked as they are decoded.
func decodeFile(doc *yaml.Node, raw *fileNode) error {
	root := doc
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		root = doc.Content[0]
	}
	if err := checkKeys(root, "format", "units"); err != nil {
		return err
	}
	if units := lookup(root, "units"); units != nil && units.Kind == yaml.SequenceNode {
		for _, u := range units.Content {
			if err := checkKeys(u, "name", "imports", "types", "funcs"); err != nil {
				return err
			}
			if err := checkEach(lookup(u, "types"), "name", "kind", "type"); err != nil {
				return err
			}
			if err := checkEach(lookup(u, "funcs"), "name", "args", "sig", "body"); err != nil {
				return err
			}
		}
	}
	return root.Decode(raw)
}

// decode checks the keys of a mapping, or of every mapping in a sequence, before decoding it.
func decode(n *yaml.Node, out interface{}, allowed ...string) error {
	var err error
	if n.Kind == yaml.SequenceNode {
		err = checkEach(n, allowed...)
	} else {
		err = checkKeys(n, allowed...)
	}
	if err != nil {
		return err
	}
	return n.Decode(out)
}

func checkKeys(n *yaml.Node, allowed ...string) error {
	if n.Kind != yaml.MappingNode {
		return errorAt(n, "expected a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i]; !slices.Contains(allowed, k.Value) {
			return errorAt(k, "unknown key %q", k.Value)
		}
	}
	return nil
}

func checkEach(n *yaml.Node, allowed ...string) error {
	if n == nil {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		return errorAt(n, "expected a list")
	}
	for _, item := range n.Content {
		if err := checkKeys(item, allowed...); err != nil {
			return err
		}
	}
	return nil
}

func lookup(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func errorAt(n *yaml.Node, format string, args ...interface{}) error {
	return errors.Errorf("line %d: "+format, append([]interface{}{n.Line}, args...)...)
}

// single returns the key and value of a single-entry mapping.
func single(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, errorAt(n, "expected a single-key mapping")
	}
	return n.Content[0].Value, n.Content[1], nil
}

// Types

func (d *decoder) typ(n *yaml.Node, name string) (types.Type, error) {
	if n.Kind == yaml.ScalarNode {
		return d.typeName(n)
	}
	key, v, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case "var":
		var tv struct {
			Name string `yaml:"name"`
			Kind string `yaml:"kind"`
		}
		if err := decode(v, &tv, "name", "kind"); err != nil {
			return nil, err
		}
		out := &types.Var{Name: strings.TrimPrefix(tv.Name, "'")}
		if tv.Kind != "" {
			k, ok := types.ParseKind(tv.Kind)
			if !ok {
				return nil, errorAt(v, "invalid kind %q", tv.Kind)
			}
			out.Kind = &k
		}
		return out, nil
	case "app":
		var app struct {
			Name string      `yaml:"name"`
			Args []yaml.Node `yaml:"args"`
		}
		if err := decode(v, &app, "name", "args"); err != nil {
			return nil, err
		}
		out := &types.App{Name: app.Name}
		for i := range app.Args {
			arg, err := d.typ(&app.Args[i], "")
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, arg)
		}
		return out, nil
	case "ref":
		elem, err := d.typ(v, "")
		if err != nil {
			return nil, err
		}
		return &types.Ref{Elem: elem}, nil
	case "record", "unboxed":
		return d.record(v, name, key == "unboxed")
	case "arrow":
		return d.arrow(v)
	case "key":
		return &types.Key{Name: v.Value}, nil
	case "cell":
		var cell struct {
			Key     yaml.Node `yaml:"key"`
			Payload yaml.Node `yaml:"payload"`
		}
		if err := decode(v, &cell, "key", "payload"); err != nil {
			return nil, err
		}
		k, err := d.typ(&cell.Key, "")
		if err != nil {
			return nil, err
		}
		p, err := d.typ(&cell.Payload, "")
		if err != nil {
			return nil, err
		}
		return &types.Cell{Key: k, Payload: p}, nil
	}
	return nil, errorAt(n, "unknown type form %q", key)
}

func (d *decoder) typeName(n *yaml.Node) (types.Type, error) {
	s := n.Value
	if strings.HasPrefix(s, "'") {
		return &types.Var{Name: s[1:]}, nil
	}
	if c, ok := types.Builtins[s]; ok {
		return c, nil
	}
	if named, ok := d.named[s]; ok {
		return named, nil
	}
	return nil, errorAt(n, "unknown type %q", s)
}

func (d *decoder) record(n *yaml.Node, name string, unboxed bool) (*types.Record, error) {
	var fields []struct {
		Name       string    `yaml:"name"`
		Type       yaml.Node `yaml:"type"`
		Mutable    bool      `yaml:"mutable"`
		Modalities yaml.Node `yaml:"modalities"`
		Kind       string    `yaml:"kind"`
	}
	if err := decode(n, &fields, "name", "type", "mutable", "modalities", "kind"); err != nil {
		return nil, err
	}
	b := types.NewFieldMapBuilder()
	for _, f := range fields {
		t, err := d.typ(&f.Type, "")
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		field := &types.Field{Name: f.Name, Type: t, Mutable: f.Mutable}
		if field.Modalities, err = d.modes(&f.Modalities); err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		if field.Modalities.HasVars() {
			return nil, errorAt(&f.Modalities, "field %s: modalities must be constant", f.Name)
		}
		if f.Kind != "" {
			k, ok := types.ParseKind(f.Kind)
			if !ok {
				return nil, errorAt(&f.Type, "field %s: invalid kind %q", f.Name, f.Kind)
			}
			field.Kind = &k
		}
		b = b.Add(field)
	}
	return &types.Record{Name: name, Fields: b.Build(), Unboxed: unboxed}, nil
}

func (d *decoder) arrow(n *yaml.Node) (*types.Arrow, error) {
	var sig struct {
		Params  []yaml.Node `yaml:"params"`
		Result  yaml.Node   `yaml:"result"`
		Exclave bool        `yaml:"exclave"`
	}
	if err := decode(n, &sig, "params", "result", "exclave"); err != nil {
		return nil, err
	}
	out := &types.Arrow{Exclave: sig.Exclave}
	for i := range sig.Params {
		p, err := d.param(&sig.Params[i])
		if err != nil {
			return nil, err
		}
		out.Params = append(out.Params, p)
	}
	if sig.Result.Kind == 0 {
		return nil, errorAt(n, "signature has no result")
	}
	ret, err := d.param(&sig.Result)
	if err != nil {
		return nil, err
	}
	out.Return = ret
	return out, nil
}

// A signature position is either a type, or a mapping with a type and modes.
func (d *decoder) param(n *yaml.Node) (types.Param, error) {
	if n.Kind == yaml.MappingNode && hasKey(n, "type") {
		var p struct {
			Type  yaml.Node `yaml:"type"`
			Modes yaml.Node `yaml:"modes"`
		}
		if err := decode(n, &p, "type", "modes"); err != nil {
			return types.Param{}, err
		}
		t, err := d.typ(&p.Type, "")
		if err != nil {
			return types.Param{}, err
		}
		m, err := d.modes(&p.Modes)
		return types.Param{Type: t, Modes: m}, err
	}
	t, err := d.typ(n, "")
	return types.Param{Type: t}, err
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Modes are a sequence of mode names (`[local, unique]`), or a mapping from axis names to mode names
// or generic mode-variables (`{locality: "'m"}`).
func (d *decoder) modes(n *yaml.Node) (types.ModeVec, error) {
	var v types.ModeVec
	switch n.Kind {
	case 0:
		return v, nil
	case yaml.SequenceNode:
		for _, m := range n.Content {
			a, level, ok := types.ParseValue(m.Value)
			if !ok {
				return v, errorAt(m, "unknown mode %q", m.Value)
			}
			if v[a].Set {
				return v, errorAt(m, "axis %s given twice", a)
			}
			v[a] = types.ConstLevel(level)
		}
		return v, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, m := n.Content[i], n.Content[i+1]
			a, ok := types.ParseAxis(k.Value)
			if !ok {
				return v, errorAt(k, "unknown axis %q", k.Value)
			}
			if strings.HasPrefix(m.Value, "'") {
				v[a] = types.VarTerm(d.generic(a, m.Value[1:]))
				continue
			}
			va, level, ok := types.ParseValue(m.Value)
			if !ok || va != a {
				return v, errorAt(m, "%q is not a %s mode", m.Value, a)
			}
			v[a] = types.ConstLevel(level)
		}
		return v, nil
	}
	return v, errorAt(n, "expected a mode list or mapping")
}

func (d *decoder) generic(a types.Axis, name string) *types.ModeVar {
	if d.generics == nil {
		d.generics = make(map[string]*types.ModeVar)
	}
	key := a.String() + " " + name
	if v, ok := d.generics[key]; ok {
		return v
	}
	v := types.NewGenericVar(d.nextVar, name, a)
	d.nextVar++
	d.generics[key] = v
	return v
}

// Expressions

func (d *decoder) expr(n *yaml.Node) (ast.Expr, error) {
	if n.Kind == yaml.ScalarNode {
		return d.scalar(n)
	}
	key, v, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case "literal":
		var lit struct {
			Syntax string    `yaml:"syntax"`
			Type   yaml.Node `yaml:"type"`
		}
		if err := decode(v, &lit, "syntax", "type"); err != nil {
			return nil, err
		}
		t, err := d.typ(&lit.Type, "")
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Syntax: lit.Syntax, Type: t}, nil

	case "call":
		var call struct {
			Fn   yaml.Node   `yaml:"fn"`
			Args []yaml.Node `yaml:"args"`
		}
		if err := decode(v, &call, "fn", "args"); err != nil {
			return nil, err
		}
		fn, err := d.expr(&call.Fn)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(call.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Func: fn, Args: args}, nil

	case "func":
		var fn struct {
			Args  []string  `yaml:"args"`
			Sig   yaml.Node `yaml:"sig"`
			Body  yaml.Node `yaml:"body"`
			Local bool      `yaml:"local"`
		}
		if err := decode(v, &fn, "args", "sig", "body", "local"); err != nil {
			return nil, err
		}
		out := &ast.Func{ArgNames: fn.Args}
		if fn.Local {
			out.Locality = types.Local
		}
		if fn.Sig.Kind != 0 {
			if out.Sig, err = d.arrow(&fn.Sig); err != nil {
				return nil, err
			}
		}
		if out.Body, err = d.expr(&fn.Body); err != nil {
			return nil, err
		}
		return out, nil

	case "let":
		var let struct {
			Name  string    `yaml:"name"`
			Modes yaml.Node `yaml:"modes"`
			Value yaml.Node `yaml:"value"`
			Body  yaml.Node `yaml:"body"`
		}
		if err := decode(v, &let, "name", "modes", "value", "body"); err != nil {
			return nil, err
		}
		out := &ast.Let{Var: let.Name}
		if out.Annot, err = d.modes(&let.Modes); err != nil {
			return nil, err
		}
		if out.Value, err = d.expr(&let.Value); err != nil {
			return nil, err
		}
		if out.Body, err = d.expr(&let.Body); err != nil {
			return nil, err
		}
		return out, nil

	case "if":
		var cond struct {
			Cond yaml.Node `yaml:"cond"`
			Then yaml.Node `yaml:"then"`
			Else yaml.Node `yaml:"else"`
		}
		if err := decode(v, &cond, "cond", "then", "else"); err != nil {
			return nil, err
		}
		es, err := d.exprs([]yaml.Node{cond.Cond, cond.Then, cond.Else})
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: es[0], Then: es[1], Else: es[2]}, nil

	case "loop", "region", "exclave", "spawn":
		body, err := d.expr(v)
		if err != nil {
			return nil, err
		}
		switch key {
		case "loop":
			return &ast.Loop{Body: body}, nil
		case "region":
			return &ast.Region{Body: body}, nil
		case "exclave":
			return &ast.Exclave{Body: body}, nil
		}
		return &ast.Spawn{Func: body}, nil

	case "alloc":
		var alloc struct {
			Type   yaml.Node `yaml:"type"`
			Local  bool      `yaml:"local"`
			Fields yaml.Node `yaml:"fields"`
		}
		if err := decode(v, &alloc, "type", "local", "fields"); err != nil {
			return nil, err
		}
		t, err := d.typ(&alloc.Type, "")
		if err != nil {
			return nil, err
		}
		out := &ast.Alloc{Type: t}
		if alloc.Local {
			out.Locality = types.Local
		}
		if alloc.Fields.Kind != 0 && alloc.Fields.Kind != yaml.MappingNode {
			return nil, errorAt(&alloc.Fields, "alloc fields must be a mapping")
		}
		for i := 0; i+1 < len(alloc.Fields.Content); i += 2 {
			value, err := d.expr(alloc.Fields.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Fields = append(out.Fields, ast.LabelValue{Label: alloc.Fields.Content[i].Value, Value: value})
		}
		return out, nil

	case "select", "assign":
		var access struct {
			Record yaml.Node `yaml:"record"`
			Field  string    `yaml:"field"`
			Value  yaml.Node `yaml:"value"`
		}
		allowed := []string{"record", "field"}
		if key == "assign" {
			allowed = append(allowed, "value")
		}
		if err := decode(v, &access, allowed...); err != nil {
			return nil, err
		}
		record, err := d.expr(&access.Record)
		if err != nil {
			return nil, err
		}
		if key == "select" {
			return &ast.Select{Record: record, Label: access.Field}, nil
		}
		value, err := d.expr(&access.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Record: record, Label: access.Field, Value: value}, nil

	case "cell_create":
		var create struct {
			Key     yaml.Node `yaml:"key"`
			Payload yaml.Node `yaml:"payload"`
		}
		if err := decode(v, &create, "key", "payload"); err != nil {
			return nil, err
		}
		k, err := d.typ(&create.Key, "")
		if err != nil {
			return nil, err
		}
		payload, err := d.expr(&create.Payload)
		if err != nil {
			return nil, err
		}
		return &ast.CellCreate{Key: k, Payload: payload}, nil

	case "cell_map", "cell_extract":
		var op struct {
			Cell yaml.Node `yaml:"cell"`
			Key  yaml.Node `yaml:"key"`
			Fn   yaml.Node `yaml:"fn"`
		}
		if err := decode(v, &op, "cell", "key", "fn"); err != nil {
			return nil, err
		}
		es, err := d.exprs([]yaml.Node{op.Cell, op.Key, op.Fn})
		if err != nil {
			return nil, err
		}
		if key == "cell_map" {
			return &ast.CellMap{Cell: es[0], Key: es[1], Func: es[2]}, nil
		}
		return &ast.CellExtract{Cell: es[0], Key: es[1], Func: es[2]}, nil
	}
	return nil, errorAt(n, "unknown expression form %q", key)
}

func (d *decoder) exprs(ns []yaml.Node) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(ns))
	for i := range ns {
		if ns[i].Kind == 0 {
			return nil, errors.New("missing expression")
		}
		e, err := d.expr(&ns[i])
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (d *decoder) scalar(n *yaml.Node) (ast.Expr, error) {
	switch n.ShortTag() {
	case "!!int":
		if _, err := strconv.ParseInt(n.Value, 0, 64); err != nil {
			return nil, errorAt(n, "invalid integer %q", n.Value)
		}
		return &ast.Literal{Syntax: n.Value, Type: types.Int}, nil
	case "!!bool":
		return &ast.Literal{Syntax: n.Value, Type: types.Bool}, nil
	case "!!str":
		if n.Value == "()" {
			return &ast.Literal{Syntax: "()", Type: types.Unit}, nil
		}
		if n.Value == "" {
			return nil, errorAt(n, "empty variable name")
		}
		return &ast.Var{Name: n.Value}, nil
	}
	return nil, errorAt(n, "unexpected scalar %q", n.Value)
}
