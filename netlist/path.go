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
	"strings"

	"github.com/edifgo/edif/internal/atom"
)

// A Path is an ordered sequence of atoms identifying an instance's
// location from the design root (§3). It always has at least one
// component.
type Path []atom.Atom

// Child returns the path obtained by appending name to p, leaving p
// itself untouched.
func (p Path) Child(name atom.Atom) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

// Name returns the last component of p.
func (p Path) Name() atom.Atom {
	return p[len(p)-1]
}

// Len returns the number of components in p.
func (p Path) Len() int {
	return len(p)
}

// String renders p as its components joined by "/".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, a := range p {
		parts[i] = a.String()
	}
	return strings.Join(parts, "/")
}

// Equal reports whether p and q name the same path.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of p, so that callers may safely
// mutate the result without aliasing the receiver's backing array.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Flatten renders p to its canonical post-flatten form (§3): identity
// when p has a single component, otherwise a length-2 path whose second
// component is every remaining component joined by "/" into one atom.
func (p Path) Flatten() Path {
	if len(p) <= 1 {
		return p.Clone()
	}
	rest := make([]string, len(p)-1)
	for i, a := range p[1:] {
		rest[i] = a.String()
	}
	return Path{p[0], atom.Intern(strings.Join(rest, "/"))}
}

// FromString parses a "/"-joined path back into its atom components. It
// is the inverse of String for any path none of whose components
// themselves contain "/" (§8 property 7); a path produced by Flatten,
// whose second component may itself contain embedded "/" characters
// from collapsed intermediate names, does not round-trip through
// FromString without external information (§9).
func FromString(s string) Path {
	parts := strings.Split(s, "/")
	out := make(Path, len(parts))
	for i, p := range parts {
		out[i] = atom.Intern(p)
	}
	return out
}
