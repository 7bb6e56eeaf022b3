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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edifgo/edif/internal/atom"
	"github.com/edifgo/edif/internal/ediast"
	"github.com/edifgo/edif/internal/perrors"
)

func arrayPort(name string, width int32) ediast.Port {
	return ediast.Port{
		Name:      ediast.Name{Name: atom.Intern(name)},
		Direction: ediast.Output,
		Kind:      ediast.PortKind{IsArray: true, Width: width},
	}
}

func member(i int32) *int32 { return &i }

func buildArrayScenario() (*Netlist, *Instance) {
	main := atom.Intern("main")
	bus := atom.Intern("bus")

	top := &Instance{
		Path:      Path{main},
		Interface: map[atom.Atom]ediast.Port{},
		Instances: map[atom.Atom]*Instance{},
		Nets:      map[atom.Atom]*Net{},
	}
	word := &Instance{
		Path:      Path{main, bus},
		Interface: map[atom.Atom]ediast.Port{atom.Intern("d"): arrayPort("d", 4)},
		Instances: map[atom.Atom]*Instance{},
		Nets:      map[atom.Atom]*Net{},
	}
	top.Instances[bus] = word
	return &Netlist{Top: top}, word
}

func TestVerifyAcceptsInRangeArrayMember(t *testing.T) {
	n, word := buildArrayScenario()
	net := newNet()
	net.Add(NewPortRef(word.Path, atom.Intern("d"), member(3)))
	n.Top.Nets[atom.Intern("n0")] = net

	assert.NoError(t, n.VerifyReferences())
}

func TestVerifyRejectsOutOfRangeArrayMember(t *testing.T) {
	n, word := buildArrayScenario()
	net := newNet()
	net.Add(NewPortRef(word.Path, atom.Intern("d"), member(4)))
	n.Top.Nets[atom.Intern("n0")] = net

	err := n.VerifyReferences()
	require.Error(t, err)
	list, ok := err.(perrors.List)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Error(), perrors.KindReference, "out-of-range member is an InvalidReference, not a MissingPort")
}

func TestVerifyRejectsMissingMemberOnArrayPort(t *testing.T) {
	n, word := buildArrayScenario()
	net := newNet()
	net.Add(NewPortRef(word.Path, atom.Intern("d"), nil))
	n.Top.Nets[atom.Intern("n0")] = net

	err := n.VerifyReferences()
	require.Error(t, err)
	list, ok := err.(perrors.List)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Error(), perrors.KindReference)
}

func TestVerifyRejectsMemberOnSingleBitPort(t *testing.T) {
	n := buildPassThroughScenario()
	u := n.Top.Instances[atom.Intern("u")]
	net := newNet()
	net.Add(NewPortRef(u.Path, atom.Intern("a"), member(0)))
	n.Top.Nets[atom.Intern("stray")] = net

	err := n.VerifyReferences()
	require.Error(t, err)
	list, ok := err.(perrors.List)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Error(), perrors.KindReference)
}

// TestVerifyReportsUnresolvedReferenceOnce checks that a net
// referencing an instance path that does not exist in the tree produces
// exactly one aggregated MissingPorts error, not one per traversal step.
func TestVerifyReportsUnresolvedReferenceOnce(t *testing.T) {
	n, _ := buildArrayScenario()
	net := newNet()
	net.Add(NewPortRef(Path{atom.Intern("main"), atom.Intern("ghost")}, atom.Intern("q"), nil))
	n.Top.Nets[atom.Intern("n0")] = net

	err := n.VerifyReferences()
	require.Error(t, err)
	list, ok := err.(perrors.List)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Error(), perrors.KindMissing)
}

// TestVerifyAggregatesUnresolvedReferencesIntoOneError is the multi-ref
// variant of the above: several dangling references to unreached
// instance paths still collapse into a single MissingPorts failure.
func TestVerifyAggregatesUnresolvedReferencesIntoOneError(t *testing.T) {
	n, _ := buildArrayScenario()
	net := newNet()
	net.Add(NewPortRef(Path{atom.Intern("main"), atom.Intern("ghost1")}, atom.Intern("q"), nil))
	net.Add(NewPortRef(Path{atom.Intern("main"), atom.Intern("ghost2")}, atom.Intern("r"), nil))
	n.Top.Nets[atom.Intern("n0")] = net

	err := n.VerifyReferences()
	require.Error(t, err)
	list, ok := err.(perrors.List)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Error(), perrors.KindMissing)
	assert.Contains(t, list[0].Error(), "ghost1")
	assert.Contains(t, list[0].Error(), "ghost2")
}

// TestVerifySucceedsAfterElaboration is §8 property 1.
func TestVerifySucceedsAfterElaboration(t *testing.T) {
	n := buildMergeScenario()
	assert.NoError(t, n.VerifyReferences())
}

// TestVerifySucceedsAfterFlatten is §8 property 2: verification is
// idempotent across Flatten.
func TestVerifySucceedsAfterFlatten(t *testing.T) {
	n := buildMergeScenario()
	n.Flatten()
	assert.NoError(t, n.VerifyReferences())
}

func TestVerifyRejectsReferenceToUnknownPort(t *testing.T) {
	n := buildPassThroughScenario()
	net := newNet()
	net.Add(NewPortRef(n.Top.Path, atom.Intern("nonexistent"), nil))
	n.Top.Nets[atom.Intern("bogus")] = net

	err := n.VerifyReferences()
	require.Error(t, err)
	list, ok := err.(perrors.List)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Error(), perrors.KindMissingPort)
}
