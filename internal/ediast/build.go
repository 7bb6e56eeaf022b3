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

package ediast

import (
	"github.com/edifgo/edif/internal/atom"
	"github.com/edifgo/edif/internal/perrors"
	"github.com/edifgo/edif/internal/sexpr"
)

// builder walks a generic s-expression tree, recognising EDIF keyword
// forms, and assembles an Edif. It fails fast on the first malformed
// form (§7): there is no error-collection stack here, unlike the
// reference verifier downstream, since a syntactically broken file can't
// be meaningfully elaborated at all.
type builder struct{}

// Build parses root, a single top-level s-expression, as an EDIF file
// (§4.2).
func Build(root sexpr.Node) (*Edif, error) {
	b := &builder{}
	return b.edif(root)
}

func listOf(n sexpr.Node) ([]sexpr.Node, error) {
	if n.Kind != sexpr.List {
		return nil, perrors.Newf(n.Pos, perrors.KindSyntax, "expected a list")
	}
	return n.Elems, nil
}

func symbolOf(n sexpr.Node) (atom.Atom, error) {
	if n.Kind != sexpr.Symbol {
		return atom.Atom{}, perrors.Newf(n.Pos, perrors.KindSyntax, "expected a symbol")
	}
	return n.Sym, nil
}

func stringOf(n sexpr.Node) (string, error) {
	if n.Kind != sexpr.String {
		return "", perrors.Newf(n.Pos, perrors.KindSyntax, "expected a string literal")
	}
	return n.Str, nil
}

func numberOf(n sexpr.Node) (int32, error) {
	if n.Kind != sexpr.Number {
		return 0, perrors.Newf(n.Pos, perrors.KindSyntax, "expected a number")
	}
	return n.Num, nil
}

// keywordForm checks that n is a list whose first element is the symbol
// kw, and returns the remaining elements.
func keywordForm(n sexpr.Node, kw atom.Atom) ([]sexpr.Node, error) {
	elems, err := listOf(n)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, perrors.Newf(n.Pos, perrors.KindSyntax, "expected (%s ...), got empty list", kw)
	}
	head, err := symbolOf(elems[0])
	if err != nil {
		return nil, err
	}
	if head != kw {
		return nil, perrors.Newf(elems[0].Pos, perrors.KindSchema, "expected keyword %q, got %q", kw, head)
	}
	return elems[1:], nil
}

// head returns the leading keyword atom of a list node, used to dispatch
// on content kind (net vs instance, property value kind, ...).
func head(n sexpr.Node) (atom.Atom, bool) {
	if n.Kind != sexpr.List || len(n.Elems) == 0 || n.Elems[0].Kind != sexpr.Symbol {
		return atom.Atom{}, false
	}
	return n.Elems[0].Sym, true
}

func (b *builder) edif(n sexpr.Node) (*Edif, error) {
	elems, err := keywordForm(n, atom.KwEdif)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, perrors.Newf(n.Pos, perrors.KindSchema, "edif form has no body")
	}

	// Optional bare title symbol as the second element of the whole
	// form; if absent, elems[0] here is already the (edifversion ...)
	// head form.
	if elems[0].Kind == sexpr.Symbol {
		elems = elems[1:]
	}

	e := &Edif{Libraries: map[atom.Atom]Library{}}
	haveDesign := false

	for _, el := range elems {
		kw, ok := head(el)
		if !ok {
			return nil, perrors.Newf(el.Pos, perrors.KindSchema, "expected a keyword form")
		}
		switch kw {
		case atom.KwEdifVersion, atom.KwEdifLevel, atom.KwKeywordMap, atom.KwStatus, atom.KwComment:
			// Recognised but carries no information this model retains.
		case atom.KwLibrary:
			lib, err := b.library(el)
			if err != nil {
				return nil, err
			}
			e.Libraries[lib.Name] = lib
		case atom.KwDesign:
			d, err := b.design(el)
			if err != nil {
				return nil, err
			}
			e.Design = d
			haveDesign = true
		default:
			return nil, perrors.Newf(el.Pos, perrors.KindUnsupported, "unknown top-level element %q", kw)
		}
	}

	if !haveDesign {
		return nil, perrors.Newf(n.Pos, perrors.KindSchema, "missing design form")
	}
	return e, nil
}

func (b *builder) library(n sexpr.Node) (Library, error) {
	elems, err := keywordForm(n, atom.KwLibrary)
	if err != nil {
		return Library{}, err
	}
	if len(elems) == 0 {
		return Library{}, perrors.Newf(n.Pos, perrors.KindSchema, "library form has no name")
	}
	name, err := symbolOf(elems[0])
	if err != nil {
		return Library{}, err
	}

	lib := Library{Name: name, Cells: map[atom.Atom]Cell{}}
	for _, el := range elems[1:] {
		kw, ok := head(el)
		if !ok {
			return Library{}, perrors.Newf(el.Pos, perrors.KindSchema, "expected a keyword form in library %q", name)
		}
		switch kw {
		case atom.KwEdifLevel, atom.KwTechnology:
			// Recognised, discarded (out of scope, §4.2).
		case atom.KwCell:
			c, err := b.cell(el)
			if err != nil {
				return Library{}, err
			}
			lib.Cells[c.Name] = c
		default:
			return Library{}, perrors.Newf(el.Pos, perrors.KindUnsupported, "unknown element %q in library %q", kw, name)
		}
	}
	return lib, nil
}

func (b *builder) cell(n sexpr.Node) (Cell, error) {
	elems, err := keywordForm(n, atom.KwCell)
	if err != nil {
		return Cell{}, err
	}
	if len(elems) == 0 {
		return Cell{}, perrors.Newf(n.Pos, perrors.KindSchema, "cell form has no name")
	}
	name, err := symbolOf(elems[0])
	if err != nil {
		return Cell{}, err
	}

	var v *View
	for _, el := range elems[1:] {
		kw, ok := head(el)
		if !ok {
			return Cell{}, perrors.Newf(el.Pos, perrors.KindSchema, "expected a keyword form in cell %q", name)
		}
		switch kw {
		case atom.KwCellType:
			// Recognised, discarded.
		case atom.KwView:
			if v != nil {
				return Cell{}, perrors.Newf(el.Pos, perrors.KindSchema, "cell %q has more than one view", name)
			}
			view, err := b.view(el)
			if err != nil {
				return Cell{}, err
			}
			v = &view
		default:
			return Cell{}, perrors.Newf(el.Pos, perrors.KindUnsupported, "unknown element %q in cell %q", kw, name)
		}
	}
	if v == nil {
		return Cell{}, perrors.Newf(n.Pos, perrors.KindSchema, "cell %q has no view", name)
	}
	return Cell{Name: name, View: *v}, nil
}

func (b *builder) view(n sexpr.Node) (View, error) {
	elems, err := keywordForm(n, atom.KwView)
	if err != nil {
		return View{}, err
	}
	if len(elems) == 0 {
		return View{}, perrors.Newf(n.Pos, perrors.KindSchema, "view form has no name")
	}
	name, err := symbolOf(elems[0])
	if err != nil {
		return View{}, err
	}

	view := View{Name: name}
	haveType, haveIface := false, false
	for _, el := range elems[1:] {
		kw, ok := head(el)
		if !ok {
			return View{}, perrors.Newf(el.Pos, perrors.KindSchema, "expected a keyword form in view %q", name)
		}
		switch kw {
		case atom.KwViewType:
			vt, err := keywordForm(el, atom.KwViewType)
			if err != nil {
				return View{}, err
			}
			if len(vt) != 1 {
				return View{}, perrors.Newf(el.Pos, perrors.KindSchema, "malformed viewtype form")
			}
			vtName, err := symbolOf(vt[0])
			if err != nil {
				return View{}, err
			}
			if vtName != atom.KwNetlist {
				return View{}, perrors.Newf(vt[0].Pos, perrors.KindUnsupported,
					"unsupported view type %q: only NETLIST views are supported", vtName)
			}
			haveType = true
		case atom.KwInterface:
			iface, err := b.interfaceForm(el)
			if err != nil {
				return View{}, err
			}
			view.Interface = iface
			haveIface = true
		case atom.KwContents:
			contents, err := b.contents(el)
			if err != nil {
				return View{}, err
			}
			view.Contents = contents
		case atom.KwProperty:
			// Trailing view-level properties are recognised then
			// discarded (§4.2, §9 open question: left out of scope).
		default:
			return View{}, perrors.Newf(el.Pos, perrors.KindUnsupported, "unknown element %q in view %q", kw, name)
		}
	}
	if !haveType {
		return View{}, perrors.Newf(n.Pos, perrors.KindSchema, "view %q has no viewtype", name)
	}
	if !haveIface {
		return View{}, perrors.Newf(n.Pos, perrors.KindSchema, "view %q has no interface", name)
	}
	return view, nil
}

func (b *builder) interfaceForm(n sexpr.Node) (Interface, error) {
	elems, err := keywordForm(n, atom.KwInterface)
	if err != nil {
		return Interface{}, err
	}
	var iface Interface
	for _, el := range elems {
		kw, ok := head(el)
		if !ok || kw != atom.KwPort {
			return Interface{}, perrors.Newf(el.Pos, perrors.KindSchema, "expected a port form in interface")
		}
		p, err := b.port(el)
		if err != nil {
			return Interface{}, err
		}
		iface.Ports = append(iface.Ports, p)
	}
	return iface, nil
}

func (b *builder) port(n sexpr.Node) (Port, error) {
	elems, err := keywordForm(n, atom.KwPort)
	if err != nil {
		return Port{}, err
	}
	if len(elems) != 2 {
		return Port{}, perrors.Newf(n.Pos, perrors.KindSchema, "malformed port form")
	}

	var p Port
	if kw, ok := head(elems[0]); ok && kw == atom.KwArray {
		arrElems, err := keywordForm(elems[0], atom.KwArray)
		if err != nil {
			return Port{}, err
		}
		if len(arrElems) != 2 {
			return Port{}, perrors.Newf(elems[0].Pos, perrors.KindSchema, "malformed array form")
		}
		name, err := b.name(arrElems[0])
		if err != nil {
			return Port{}, err
		}
		width, err := numberOf(arrElems[1])
		if err != nil {
			return Port{}, err
		}
		if width <= 0 {
			return Port{}, perrors.Newf(arrElems[1].Pos, perrors.KindSchema, "array width must be > 0, got %d", width)
		}
		p.Name = name
		p.Kind = PortKind{IsArray: true, Width: width}
	} else {
		name, err := b.name(elems[0])
		if err != nil {
			return Port{}, err
		}
		p.Name = name
		p.Kind = PortKind{}
	}

	dirElems, err := keywordForm(elems[1], atom.KwDirection)
	if err != nil {
		return Port{}, err
	}
	if len(dirElems) != 1 {
		return Port{}, perrors.Newf(elems[1].Pos, perrors.KindSchema, "malformed direction form")
	}
	dirSym, err := symbolOf(dirElems[0])
	if err != nil {
		return Port{}, err
	}
	switch dirSym {
	case atom.KwInput:
		p.Direction = Input
	case atom.KwOutput:
		p.Direction = Output
	case atom.KwInOut:
		p.Direction = InOut
	default:
		return Port{}, perrors.Newf(dirElems[0].Pos, perrors.KindSchema, "unknown direction %q", dirSym)
	}
	return p, nil
}

// name parses either a bare symbol or a (rename canonical "original")
// form (§3, §4.2, Scenario D).
func (b *builder) name(n sexpr.Node) (Name, error) {
	if n.Kind == sexpr.Symbol {
		return Name{Name: n.Sym}, nil
	}
	elems, err := keywordForm(n, atom.KwRename)
	if err != nil {
		return Name{}, perrors.Newf(n.Pos, perrors.KindSyntax, "expected a symbol or a rename form")
	}
	if len(elems) != 2 {
		return Name{}, perrors.Newf(n.Pos, perrors.KindSchema, "malformed rename form")
	}
	canonical, err := symbolOf(elems[0])
	if err != nil {
		return Name{}, err
	}
	original, err := stringOf(elems[1])
	if err != nil {
		return Name{}, err
	}
	return Name{Name: canonical, RenameFrom: &original}, nil
}

func (b *builder) contents(n sexpr.Node) ([]Content, error) {
	elems, err := keywordForm(n, atom.KwContents)
	if err != nil {
		return nil, err
	}
	var out []Content
	for _, el := range elems {
		kw, ok := head(el)
		if !ok {
			return nil, perrors.Newf(el.Pos, perrors.KindSchema, "expected an instance or net form in contents")
		}
		switch kw {
		case atom.KwInstance:
			inst, err := b.instance(el)
			if err != nil {
				return nil, err
			}
			out = append(out, InstanceContent{Instance: inst})
		case atom.KwNet:
			net, err := b.net(el)
			if err != nil {
				return nil, err
			}
			out = append(out, NetContent{Net: net})
		default:
			return nil, perrors.Newf(el.Pos, perrors.KindUnsupported, "unknown content element %q", kw)
		}
	}
	return out, nil
}

func (b *builder) instance(n sexpr.Node) (Instance, error) {
	elems, err := keywordForm(n, atom.KwInstance)
	if err != nil {
		return Instance{}, err
	}
	if len(elems) < 2 {
		return Instance{}, perrors.Newf(n.Pos, perrors.KindSchema, "malformed instance form")
	}
	name, err := b.name(elems[0])
	if err != nil {
		return Instance{}, err
	}

	viewRefElems, err := keywordForm(elems[1], atom.KwViewref)
	if err != nil {
		return Instance{}, err
	}
	if len(viewRefElems) != 2 {
		return Instance{}, perrors.Newf(elems[1].Pos, perrors.KindSchema, "malformed viewref form")
	}
	viewRef, err := symbolOf(viewRefElems[0])
	if err != nil {
		return Instance{}, err
	}
	cellRefElems, err := keywordForm(viewRefElems[1], atom.KwCellref)
	if err != nil {
		return Instance{}, err
	}
	if len(cellRefElems) == 0 {
		return Instance{}, perrors.Newf(viewRefElems[1].Pos, perrors.KindSchema, "malformed cellref form")
	}
	cellRef, err := symbolOf(cellRefElems[0])
	if err != nil {
		return Instance{}, err
	}

	var libRef *atom.Atom
	if len(cellRefElems) > 1 {
		libElems, err := keywordForm(cellRefElems[1], atom.KwLibraryref)
		if err != nil {
			return Instance{}, err
		}
		if len(libElems) != 1 {
			return Instance{}, perrors.Newf(cellRefElems[1].Pos, perrors.KindSchema, "malformed libraryref form")
		}
		l, err := symbolOf(libElems[0])
		if err != nil {
			return Instance{}, err
		}
		libRef = &l
	}

	inst := Instance{Name: name, CellRef: cellRef, ViewRef: viewRef}
	for _, el := range elems[2:] {
		kw, ok := head(el)
		if !ok || kw != atom.KwProperty {
			return Instance{}, perrors.Newf(el.Pos, perrors.KindSchema, "expected a property form in instance %v", name.Name)
		}
		pname, pval, err := b.property(el)
		if err != nil {
			return Instance{}, err
		}
		if inst.Properties == nil {
			inst.Properties = map[Name]Property{}
		}
		inst.Properties[pname] = pval
	}
	return inst, nil
}

func (b *builder) property(n sexpr.Node) (Name, Property, error) {
	elems, err := keywordForm(n, atom.KwProperty)
	if err != nil {
		return Name{}, Property{}, err
	}
	if len(elems) != 2 {
		return Name{}, Property{}, perrors.Newf(n.Pos, perrors.KindSchema, "malformed property form")
	}
	name, err := b.name(elems[0])
	if err != nil {
		return Name{}, Property{}, err
	}
	kw, ok := head(elems[1])
	if !ok {
		return Name{}, Property{}, perrors.Newf(elems[1].Pos, perrors.KindSchema, "malformed property value")
	}
	switch kw {
	case atom.KwString:
		v, err := keywordForm(elems[1], atom.KwString)
		if err != nil || len(v) != 1 {
			return Name{}, Property{}, perrors.Newf(elems[1].Pos, perrors.KindSchema, "malformed string property value")
		}
		s, err := stringOf(v[0])
		if err != nil {
			return Name{}, Property{}, err
		}
		return name, Property{Kind: PropString, Str: s}, nil
	case atom.KwInteger:
		v, err := keywordForm(elems[1], atom.KwInteger)
		if err != nil || len(v) != 1 {
			return Name{}, Property{}, perrors.Newf(elems[1].Pos, perrors.KindSchema, "malformed integer property value")
		}
		i, err := numberOf(v[0])
		if err != nil {
			return Name{}, Property{}, err
		}
		return name, Property{Kind: PropInteger, Int: i}, nil
	case atom.KwBoolean:
		v, err := keywordForm(elems[1], atom.KwBoolean)
		if err != nil || len(v) != 1 {
			return Name{}, Property{}, perrors.Newf(elems[1].Pos, perrors.KindSchema, "malformed boolean property value")
		}
		s, err := symbolOf(v[0])
		if err != nil {
			return Name{}, Property{}, err
		}
		return name, Property{Kind: PropBoolean, Bool: s == atom.Intern("true")}, nil
	default:
		return Name{}, Property{}, perrors.Newf(elems[1].Pos, perrors.KindSchema, "unknown property value kind %q", kw)
	}
}

func (b *builder) net(n sexpr.Node) (Net, error) {
	elems, err := keywordForm(n, atom.KwNet)
	if err != nil {
		return Net{}, err
	}
	if len(elems) != 2 {
		return Net{}, perrors.Newf(n.Pos, perrors.KindSchema, "malformed net form")
	}
	name, err := b.name(elems[0])
	if err != nil {
		return Net{}, err
	}
	joinedElems, err := keywordForm(elems[1], atom.KwJoined)
	if err != nil {
		return Net{}, err
	}
	net := Net{Name: name}
	for _, el := range joinedElems {
		pr, err := b.portref(el)
		if err != nil {
			return Net{}, err
		}
		net.PortRefs = append(net.PortRefs, pr)
	}
	return net, nil
}

func (b *builder) portref(n sexpr.Node) (PortRef, error) {
	elems, err := keywordForm(n, atom.KwPortref)
	if err != nil {
		return PortRef{}, err
	}
	if len(elems) == 0 {
		return PortRef{}, perrors.Newf(n.Pos, perrors.KindSchema, "malformed portref form")
	}

	var pr PortRef
	if elems[0].Kind == sexpr.Symbol {
		pr.Port = elems[0].Sym
	} else {
		memElems, err := keywordForm(elems[0], atom.KwMember)
		if err != nil {
			return PortRef{}, err
		}
		if len(memElems) != 2 {
			return PortRef{}, perrors.Newf(elems[0].Pos, perrors.KindSchema, "malformed member form")
		}
		port, err := symbolOf(memElems[0])
		if err != nil {
			return PortRef{}, err
		}
		idx, err := numberOf(memElems[1])
		if err != nil {
			return PortRef{}, err
		}
		pr.Port = port
		pr.Member = &idx
	}

	if len(elems) > 1 {
		instElems, err := keywordForm(elems[1], atom.KwInstanceref)
		if err != nil {
			return PortRef{}, err
		}
		if len(instElems) != 1 {
			return PortRef{}, perrors.Newf(elems[1].Pos, perrors.KindSchema, "malformed instanceref form")
		}
		i, err := symbolOf(instElems[0])
		if err != nil {
			return PortRef{}, err
		}
		pr.InstanceRef = &i
	}
	return pr, nil
}

func (b *builder) design(n sexpr.Node) (Design, error) {
	elems, err := keywordForm(n, atom.KwDesign)
	if err != nil {
		return Design{}, err
	}
	if len(elems) != 2 {
		return Design{}, perrors.Newf(n.Pos, perrors.KindSchema, "malformed design form")
	}
	name, err := b.name(elems[0])
	if err != nil {
		return Design{}, err
	}
	cellRefElems, err := keywordForm(elems[1], atom.KwCellref)
	if err != nil {
		return Design{}, err
	}
	if len(cellRefElems) != 2 {
		return Design{}, perrors.Newf(elems[1].Pos, perrors.KindSchema,
			"design's cellref must carry an explicit libraryref: there is no enclosing scope to default from")
	}
	cellRef, err := symbolOf(cellRefElems[0])
	if err != nil {
		return Design{}, err
	}
	libElems, err := keywordForm(cellRefElems[1], atom.KwLibraryref)
	if err != nil {
		return Design{}, err
	}
	if len(libElems) != 1 {
		return Design{}, perrors.Newf(cellRefElems[1].Pos, perrors.KindSchema, "malformed libraryref form")
	}
	libRef, err := symbolOf(libElems[0])
	if err != nil {
		return Design{}, err
	}
	return Design{InstName: name, LibraryRef: libRef, CellRef: cellRef}, nil
}
