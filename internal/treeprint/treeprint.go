// Copyright 2024 The Edif Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package treeprint prints an elaborated instance tree in human-readable,
// indented, diffable form, for the inst-tree CLI command's "tree" format.
// It uses the same simple reindentation algorithm the teacher's internal
// debug printer uses for ADT nodes: recursive descent over a writer that
// rewrites embedded newlines to carry the current indent.
package treeprint

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/edifgo/edif/internal/atom"
	"github.com/edifgo/edif/internal/ediast"
	"github.com/edifgo/edif/netlist"
)

// Config controls how Write renders a tree.
type Config struct {
	// Compact omits the port list of every instance.
	Compact bool
}

// Write renders inst and its descendants to w, one line per instance
// followed by one line per interface port (unless Compact is set), with
// two-space nested indentation per level, children in lexicographic
// order of their last path component.
func Write(w io.Writer, inst *netlist.Instance, config *Config) {
	if config == nil {
		config = &Config{}
	}
	p := &printer{Writer: w, cfg: config}
	p.instance(inst)
}

// String renders inst the same way Write does, returning the result.
func String(inst *netlist.Instance, config *Config) string {
	b := &strings.Builder{}
	Write(b, inst, config)
	return b.String()
}

type printer struct {
	io.Writer
	indent string
	cfg    *Config
}

func (w *printer) string(s string) {
	s = strings.Replace(s, "\n", "\n"+w.indent, -1)
	_, _ = io.WriteString(w, s)
}

func (w *printer) instance(inst *netlist.Instance) {
	fmt.Fprintf(w, "%s (%s.%s)", inst.Path.Name(), inst.Lib, inst.Cell)

	if !w.cfg.Compact && len(inst.Interface) > 0 {
		saved := w.indent
		w.indent += "  "
		for _, name := range sortedPortNames(inst.Interface) {
			port := inst.Interface[name]
			w.string("\n")
			w.string(portString(port))
		}
		w.indent = saved
	}

	children := sortedChildren(inst)
	if len(children) == 0 {
		return
	}

	saved := w.indent
	w.indent += "  "
	for _, child := range children {
		w.string("\n")
		w.instance(child)
	}
	w.indent = saved
}

func portString(p ediast.Port) string {
	if p.Kind.Single() {
		return fmt.Sprintf("%s: %s", p.Name.Name, p.Direction)
	}
	return fmt.Sprintf("%s[%d]: %s", p.Name.Name, p.Kind.Width, p.Direction)
}

func sortedPortNames(ports map[atom.Atom]ediast.Port) []atom.Atom {
	out := make([]atom.Atom, 0, len(ports))
	for name := range ports {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func sortedChildren(inst *netlist.Instance) []*netlist.Instance {
	out := make([]*netlist.Instance, 0, len(inst.Instances))
	for _, c := range inst.Instances {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path.Name().Less(out[j].Path.Name())
	})
	return out
}
