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

// Package atom provides a process-wide string interner. Every identifier
// that appears in an EDIF source file — library, cell, view, port, net,
// and instance names — is interned into an Atom so that the rest of the
// toolchain can compare and hash identifiers in O(1) instead of carrying
// strings around.
package atom

import (
	"sort"
	"sync"
)

// An Atom is a handle to an interned string. The zero Atom is not valid;
// use Intern to obtain one.
type Atom struct {
	idx int32
}

// table is the process-wide interner. A single table backs every Atom,
// regardless of how many independent parses run concurrently; Intern and
// String are safe to call from multiple goroutines at once.
type table struct {
	mu      sync.RWMutex
	strings []string
	byName  map[string]int32
}

var shared = newTable()

func newTable() *table {
	t := &table{byName: make(map[string]int32, len(keywords))}
	for _, k := range keywords {
		t.intern(k)
	}
	return t
}

func (t *table) intern(s string) Atom {
	t.mu.RLock()
	if i, ok := t.byName[s]; ok {
		t.mu.RUnlock()
		return Atom{i}
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.byName[s]; ok {
		return Atom{i}
	}
	i := int32(len(t.strings))
	t.strings = append(t.strings, s)
	t.byName[s] = i
	return Atom{i}
}

func (t *table) string(a Atom) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.strings[a.idx]
}

// Intern returns the Atom for s, interning it in the shared table if this
// is the first time s has been seen. Interning is idempotent: interning
// the same string twice, from any goroutine, yields equal Atoms.
func Intern(s string) Atom {
	return shared.intern(s)
}

// String returns the underlying string of a.
func (a Atom) String() string {
	return shared.string(a)
}

// Less reports whether a sorts before b, lexicographically by underlying
// string. This is the ordering the flattener and verifier use whenever
// they need a deterministic choice among otherwise-equivalent atoms (see
// the NetMerger's "lexicographically smaller name wins" rule).
func (a Atom) Less(b Atom) bool {
	return a.String() < b.String()
}

// Slice implements sort.Interface plus the Cut method mpvl/unique expects,
// letting callers sort-and-deduplicate a []Atom in place:
//
//	as := Slice(atoms)
//	sort.Sort(as)
//	unique.Sort(as)
type Slice []Atom

func (s Slice) Len() int           { return len(s) }
func (s Slice) Less(i, j int) bool { return s[i].Less(s[j]) }
func (s Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Cut drops s[lo:hi], satisfying mpvl/unique.Interface so that SortUnique
// can truncate the backing slice after compacting duplicates to the front.
func (s *Slice) Cut(lo, hi int) {
	*s = append((*s)[:lo], (*s)[hi:]...)
}

// SortUnique sorts atoms lexicographically and removes duplicates in
// place, returning the deduplicated slice.
func SortUnique(atoms []Atom) []Atom {
	sort.Sort(Slice(atoms))
	s := Slice(atoms)
	n := s.Len()
	if n < 2 {
		return atoms
	}
	p := 0
	for i := 1; i < n; i++ {
		if s.Less(p, i) {
			p++
			if p != i {
				s.Swap(p, i)
			}
		}
	}
	s.Cut(p+1, n)
	return []Atom(s)
}

// keywords are the fixed EDIF vocabulary atoms, pre-declared at startup so
// that keyword checks throughout the parser are atom-identity compares
// rather than string compares (§4.6).
var keywords = []string{
	"edif", "edifversion", "edifLevel", "keywordmap", "status",
	"Library", "cell", "celltype", "view", "viewtype", "NETLIST",
	"interface", "port", "direction", "INPUT", "OUTPUT", "INOUT",
	"array", "rename", "contents", "instance", "net", "joined",
	"portref", "instanceref", "member", "viewref", "cellref",
	"libraryref", "property", "string", "integer", "boolean",
	"design", "technology", "comment",
}

// Well-known keyword atoms, interned once at package init so that every
// caller shares the exact same Atom value for each EDIF keyword.
var (
	KwEdif        = Intern("edif")
	KwEdifVersion = Intern("edifversion")
	KwEdifLevel   = Intern("edifLevel")
	KwKeywordMap  = Intern("keywordmap")
	KwStatus      = Intern("status")
	KwLibrary     = Intern("Library")
	KwCell        = Intern("cell")
	KwCellType    = Intern("celltype")
	KwView        = Intern("view")
	KwViewType    = Intern("viewtype")
	KwNetlist     = Intern("NETLIST")
	KwInterface   = Intern("interface")
	KwPort        = Intern("port")
	KwDirection   = Intern("direction")
	KwInput       = Intern("INPUT")
	KwOutput      = Intern("OUTPUT")
	KwInOut       = Intern("INOUT")
	KwArray       = Intern("array")
	KwRename      = Intern("rename")
	KwContents    = Intern("contents")
	KwInstance    = Intern("instance")
	KwNet         = Intern("net")
	KwJoined      = Intern("joined")
	KwPortref     = Intern("portref")
	KwInstanceref = Intern("instanceref")
	KwMember      = Intern("member")
	KwViewref     = Intern("viewref")
	KwCellref     = Intern("cellref")
	KwLibraryref  = Intern("libraryref")
	KwProperty    = Intern("property")
	KwString      = Intern("string")
	KwInteger     = Intern("integer")
	KwBoolean     = Intern("boolean")
	KwDesign      = Intern("design")
	KwTechnology  = Intern("technology")
	KwComment     = Intern("comment")
)
