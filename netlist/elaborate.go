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

package netlist

import (
	"github.com/edifgo/edif/internal/atom"
	"github.com/edifgo/edif/internal/ediast"
	"github.com/edifgo/edif/internal/perrors"
)

// A Netlist is the top-level elaborated design: its Top instance plus
// the atoms reachable from it. It is the result of Elaborate and the
// receiver of VerifyReferences and Flatten.
type Netlist struct {
	Top *Instance
}

// Elaborate resolves edif.Design's (instance, libraryref, cellref) and
// recursively expands the instance tree named in §4.3, producing an
// owned Netlist.
func Elaborate(edif *ediast.Edif) (*Netlist, error) {
	d := edif.Design
	top, err := elaborate(edif, nil, d.InstName.Name, d.LibraryRef, d.CellRef)
	if err != nil {
		return nil, err
	}
	return &Netlist{Top: top}, nil
}

func elaborate(edif *ediast.Edif, parent Path, name, lib, cell atom.Atom) (*Instance, error) {
	library, ok := edif.Libraries[lib]
	if !ok {
		return nil, perrors.Newf(perrors.NoPos, perrors.KindSchema, "unknown library %q", lib)
	}
	c, ok := library.Cells[cell]
	if !ok {
		return nil, perrors.Newf(perrors.NoPos, perrors.KindSchema, "unknown cell %q in library %q", cell, lib)
	}

	path := parent.Child(name)

	inst := &Instance{
		Path:      path,
		Lib:       lib,
		Cell:      cell,
		Interface: map[atom.Atom]ediast.Port{},
		Instances: map[atom.Atom]*Instance{},
		Nets:      map[atom.Atom]*Net{},
	}

	for _, p := range c.View.Interface.Ports {
		inst.Interface[p.Name.Name] = p
	}

	for _, content := range c.View.Contents {
		switch v := content.(type) {
		case ediast.InstanceContent:
			childLib := lib
			if v.Instance.LibraryRef != nil {
				childLib = *v.Instance.LibraryRef
			}
			child, err := elaborate(edif, path, v.Instance.Name.Name, childLib, v.Instance.CellRef)
			if err != nil {
				return nil, err
			}
			child.Properties = cloneProperties(v.Instance.Properties)
			inst.Instances[child.Path.Name()] = child
		case ediast.NetContent:
			inst.Nets[v.Net.Name.Name] = elaborateNet(v.Net, path)
		}
	}

	return inst, nil
}

func elaborateNet(n ediast.Net, parent Path) *Net {
	net := newNet()
	for _, pr := range n.PortRefs {
		instPath := parent
		if pr.InstanceRef != nil {
			instPath = parent.Child(*pr.InstanceRef)
		}
		net.Add(NewPortRef(instPath, pr.Port, pr.Member))
	}
	return net
}

func cloneProperties(in map[ediast.Name]ediast.Property) map[atom.Atom]ediast.Property {
	if len(in) == 0 {
		return nil
	}
	out := make(map[atom.Atom]ediast.Property, len(in))
	for name, prop := range in {
		out[name.Name] = prop
	}
	return out
}
