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

// Package ediast holds the typed EDIF abstract syntax tree: libraries,
// cells, views, interfaces (ports) and contents (instances, nets,
// portrefs), as produced by Build from a generic s-expression tree
// (§3, §4.2).
package ediast

import "github.com/edifgo/edif/internal/atom"

// Direction is the electrical direction of a port.
type Direction int

const (
	Input Direction = iota
	Output
	InOut
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "INPUT"
	case Output:
		return "OUTPUT"
	case InOut:
		return "INOUT"
	default:
		return "INVALID"
	}
}

// A Name pairs a legal, canonical identifier with the possibly-illegal
// original label EDIF's (rename canonical "original") form preserves.
type Name struct {
	Name       atom.Atom
	RenameFrom *string
}

// PortKind is either Single or Array(Width), Width > 0.
type PortKind struct {
	IsArray bool
	Width   int32
}

// Single reports whether this is a single-bit (non-array) port.
func (k PortKind) Single() bool { return !k.IsArray }

// A Port is a named terminal on a view's interface.
type Port struct {
	Name      Name
	Direction Direction
	Kind      PortKind
}

// PropertyKind tags which alternative of Property is populated.
type PropertyKind int

const (
	PropString PropertyKind = iota
	PropInteger
	PropBoolean
)

// Property is a tagged scalar value attached to an instance.
type Property struct {
	Kind PropertyKind
	Str  string
	Int  int32
	Bool bool
}

// A PortRef (AST form) cites a port, optionally a bit index of it, on
// either the enclosing view itself (InstanceRef == nil) or a named child
// instance.
type PortRef struct {
	Port        atom.Atom
	Member      *int32
	InstanceRef *atom.Atom
}

// A Net joins a set of PortRefs into one electrical equivalence class.
type Net struct {
	Name     Name
	PortRefs []PortRef
}

// An Instance is an occurrence of a cell inside a view. A nil LibraryRef
// means "the same library as the enclosing cell" (§4.3).
type Instance struct {
	Name       Name
	CellRef    atom.Atom
	ViewRef    atom.Atom
	LibraryRef *atom.Atom
	Properties map[Name]Property
}

// Content is the tagged union of the two things a view's contents list
// may hold: a Net or an Instance.
type Content interface {
	isContent()
}

// NetContent wraps a Net as a Content.
type NetContent struct{ Net Net }

// InstanceContent wraps an Instance as a Content.
type InstanceContent struct{ Instance Instance }

func (NetContent) isContent()      {}
func (InstanceContent) isContent() {}

// Interface is a view's ordered sequence of ports.
type Interface struct {
	Ports []Port
}

// View is the NETLIST structural representation of a Cell.
type View struct {
	Name      atom.Atom
	Interface Interface
	Contents  []Content
}

// Cell is a design unit; this subset supports exactly one View per Cell.
type Cell struct {
	Name atom.Atom
	View View
}

// Library owns a set of cells, keyed by cell name.
type Library struct {
	Name  atom.Atom
	Cells map[atom.Atom]Cell
}

// Design identifies the top-level instantiation: a name for the top
// instance and the (libraryref, cellref) of the cell it instantiates.
type Design struct {
	InstName   Name
	LibraryRef atom.Atom
	CellRef    atom.Atom
}

// Edif is the root of a parsed EDIF file.
type Edif struct {
	Libraries map[atom.Atom]Library
	Design    Design
}
