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

// Package netlist is the elaborated, instantiated form of an EDIF
// design: a tree of Instance nodes connected by Nets, produced by
// Elaborate from an ediast.Edif (§2, §3). It also owns the reference
// verifier (§4.4) and the flattening transformation (§4.5), the design's
// centre of gravity.
package netlist

import (
	"github.com/edifgo/edif/internal/atom"
	"github.com/edifgo/edif/internal/ediast"
)

// An Instance is a node in the instantiated design tree. Unlike the
// teacher's adt.Vertex, which holds a list of unevaluated Conjuncts
// pending evaluation, every Instance here is already fully elaborated:
// its Interface, Instances and Nets are final the moment Elaborate
// returns, and Flatten mutates them in place rather than producing a new
// tree.
type Instance struct {
	// Path is this instance's hierarchical location from the design
	// root. Pre-flatten it has one component per nesting level;
	// post-flatten it is the canonical form Path.Flatten produces: two
	// components below the root, while a one-component root path stays
	// as it is (§3).
	Path Path

	// Lib and Cell identify the cell this instance elaborates.
	Lib, Cell atom.Atom

	// Interface holds the ports of the elaborated view, keyed by port
	// name.
	Interface map[atom.Atom]ediast.Port

	// Instances holds child instances, keyed by their own last-path
	// component. After Flatten, every value here is a leaf (its own
	// Instances map is empty).
	Instances map[atom.Atom]*Instance

	// Nets holds this instance's local nets, keyed by net name.
	Nets map[atom.Atom]*Net

	// Properties holds instance properties, keyed by property name.
	Properties map[atom.Atom]ediast.Property
}

// A Net is an electrical equivalence class: the set of port references
// it joins.
type Net struct {
	Ports map[PortRef]struct{}
}

func newNet() *Net {
	return &Net{Ports: map[PortRef]struct{}{}}
}

// Add inserts ref into n, a no-op if ref is already present (nets are
// sets of port references, §3).
func (n *Net) Add(ref PortRef) {
	n.Ports[ref] = struct{}{}
}

// Empty reports whether n has no remaining port references.
func (n *Net) Empty() bool {
	return len(n.Ports) == 0
}

// A PortRef is a fully-qualified citation of a port: the instance path
// it belongs to, the port name, and an optional bit index for array
// ports. Unlike ediast.PortRef (which carries a possibly-absent,
// not-yet-resolved instance name relative to its enclosing view),
// PortRef here always names a fully-qualified Path, making it directly
// comparable and usable as a map key (§3: "The instance is a fully
// qualified path from the root, not a local name").
//
// Go map keys must be comparable, and a Path ([]atom.Atom) is not, so
// the instance path is stored pre-joined into a single interned atom
// (the same "/"-join Path.String and Path.Flatten already use) rather
// than threading a side-table of path handles through the package —
// there is no shared mutable state here beyond the atom interner
// itself, which is already required to be concurrency-safe (§5).
type PortRef struct {
	Instance  atom.Atom
	Port      atom.Atom
	Member    int32
	HasMember bool
}

// NewPortRef builds a PortRef from a fully-qualified instance path, a
// port name, and an optional member index.
func NewPortRef(instance Path, port atom.Atom, member *int32) PortRef {
	pr := PortRef{Instance: atom.Intern(instance.String()), Port: port}
	if member != nil {
		pr.Member = *member
		pr.HasMember = true
	}
	return pr
}

// InstancePath returns the fully-qualified Path this PortRef's Instance
// field encodes.
func (r PortRef) InstancePath() Path {
	return FromString(r.Instance.String())
}

// WithInstance returns a copy of r re-rooted to a new instance path,
// used when path-flattening a net's port references (§4.5.1 step 0/6).
func (r PortRef) WithInstance(p Path) PortRef {
	r.Instance = atom.Intern(p.String())
	return r
}

// SameInstance reports whether r's instance path equals p.
func (r PortRef) SameInstance(p Path) bool {
	return r.Instance == atom.Intern(p.String())
}
