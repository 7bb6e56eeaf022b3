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
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edifgo/edif/internal/atom"
	"github.com/edifgo/edif/internal/ediast"
)

func singlePort(name string, dir ediast.Direction) ediast.Port {
	return ediast.Port{Name: ediast.Name{Name: atom.Intern(name)}, Direction: dir, Kind: ediast.PortKind{}}
}

// buildPassThroughScenario is §8 Scenario A: top cell main has a single
// leaf child u (cell buf, ports a/y, no internal nets), wired in -> a,
// y -> out.
func buildPassThroughScenario() *Netlist {
	main := atom.Intern("main")
	u := atom.Intern("u")

	top := &Instance{
		Path: Path{main},
		Interface: map[atom.Atom]ediast.Port{
			atom.Intern("in"):  singlePort("in", ediast.Input),
			atom.Intern("out"): singlePort("out", ediast.Output),
		},
		Instances: map[atom.Atom]*Instance{},
		Nets:      map[atom.Atom]*Net{},
	}
	buf := &Instance{
		Path: Path{main, u},
		Interface: map[atom.Atom]ediast.Port{
			atom.Intern("a"): singlePort("a", ediast.Input),
			atom.Intern("y"): singlePort("y", ediast.Output),
		},
		Instances: map[atom.Atom]*Instance{},
		Nets:      map[atom.Atom]*Net{},
	}
	top.Instances[u] = buf

	n1 := newNet()
	n1.Add(NewPortRef(top.Path, atom.Intern("in"), nil))
	n1.Add(NewPortRef(buf.Path, atom.Intern("a"), nil))
	top.Nets[atom.Intern("n1")] = n1

	n2 := newNet()
	n2.Add(NewPortRef(buf.Path, atom.Intern("y"), nil))
	n2.Add(NewPortRef(top.Path, atom.Intern("out"), nil))
	top.Nets[atom.Intern("n2")] = n2

	return &Netlist{Top: top}
}

// buildMergeScenario is §8 Scenario B: like buildPassThroughScenario, but
// u's own cell (buf) declares an internal net joining its own a and y
// ports, so u must be dissolved rather than kept as a leaf.
func buildMergeScenario() *Netlist {
	n := buildPassThroughScenario()
	buf := n.Top.Instances[atom.Intern("u")]

	inner := newNet()
	inner.Add(NewPortRef(buf.Path, atom.Intern("a"), nil))
	inner.Add(NewPortRef(buf.Path, atom.Intern("y"), nil))
	buf.Nets[atom.Intern("inner")] = inner

	return n
}

func portSet(refs ...PortRef) map[PortRef]struct{} {
	out := make(map[PortRef]struct{}, len(refs))
	for _, r := range refs {
		out[r] = struct{}{}
	}
	return out
}

// netPortStrings renders each net's port set as a sorted, comma-joined
// string so that sets of nets can be compared without relying on map or
// slice iteration order.
func netPortStrings(nets map[atom.Atom]*Net) []string {
	out := make([]string, 0, len(nets))
	for _, n := range nets {
		var parts []string
		for ref := range n.Ports {
			parts = append(parts, ref.InstancePath().String()+"#"+ref.Port.String())
		}
		sort.Strings(parts)
		out = append(out, strings.Join(parts, ","))
	}
	sort.Strings(out)
	return out
}

func TestFlattenKeepsPureLeafUnchanged(t *testing.T) {
	n := buildPassThroughScenario()
	n.Flatten()

	require.NoError(t, n.AssertFlattened())
	require.Len(t, n.Top.Instances, 1)
	u, ok := n.Top.Instances[atom.Intern("u")]
	require.True(t, ok, "pure leaf u must be kept, not dissolved")
	assert.Equal(t, Path{atom.Intern("main"), atom.Intern("u")}, u.Path)

	require.Len(t, n.Top.Nets, 2)
	want := []*Net{
		{Ports: portSet(
			NewPortRef(Path{atom.Intern("main")}, atom.Intern("in"), nil),
			NewPortRef(Path{atom.Intern("main"), atom.Intern("u")}, atom.Intern("a"), nil),
		)},
		{Ports: portSet(
			NewPortRef(Path{atom.Intern("main"), atom.Intern("u")}, atom.Intern("y"), nil),
			NewPortRef(Path{atom.Intern("main")}, atom.Intern("out"), nil),
		)},
	}
	wantNets := make(map[atom.Atom]*Net, len(want))
	for i, net := range want {
		wantNets[atom.Intern(string(rune('a'+i)))] = net
	}
	if diff := cmp.Diff(netPortStrings(wantNets), netPortStrings(n.Top.Nets)); diff != "" {
		t.Errorf("unexpected net port sets (-want +got):\n%s", diff)
	}
}

func TestFlattenMergesAcrossDissolvedBoundary(t *testing.T) {
	n := buildMergeScenario()
	n.Flatten()

	require.NoError(t, n.AssertFlattened())
	assert.Empty(t, n.Top.Instances, "dissolved u has no children to promote")
	require.Len(t, n.Top.Nets, 1)

	var merged *Net
	for _, net := range n.Top.Nets {
		merged = net
	}
	want := portSet(
		NewPortRef(Path{atom.Intern("main")}, atom.Intern("in"), nil),
		NewPortRef(Path{atom.Intern("main")}, atom.Intern("out"), nil),
	)
	assert.Equal(t, want, merged.Ports)
}

func TestFlattenIsIdempotent(t *testing.T) {
	n := buildMergeScenario()
	n.Flatten()
	first := netPortStrings(n.Top.Nets)
	firstInstances := len(n.Top.Instances)

	n.Flatten()
	second := netPortStrings(n.Top.Nets)

	assert.Equal(t, firstInstances, len(n.Top.Instances))
	if d := diff.Diff(strings.Join(first, "\n"), strings.Join(second, "\n")); d != "" {
		t.Errorf("flattening twice changed the result (-first +second):\n%s", d)
	}
}

func TestFlattenOnlyLeavesRemainAfterward(t *testing.T) {
	n := buildMergeScenario()
	n.Flatten()
	for _, inst := range n.Top.Instances {
		assert.Empty(t, inst.Instances, "instance %s should have no children after flatten", inst.Path)
	}
}

func TestFlattenPreservesElectricalEquivalence(t *testing.T) {
	before := buildMergeScenario()
	require.NoError(t, before.VerifyReferences())

	after := buildMergeScenario()
	after.Flatten()
	require.NoError(t, after.VerifyReferences())

	// in and out were joined through the dissolved buffer both before and
	// after: before, transitively via n1 -(a=y, same instance)- n2;
	// after, directly in the merged net.
	var merged *Net
	for _, net := range after.Top.Nets {
		merged = net
	}
	in := NewPortRef(Path{atom.Intern("main")}, atom.Intern("in"), nil)
	out := NewPortRef(Path{atom.Intern("main")}, atom.Intern("out"), nil)
	_, hasIn := merged.Ports[in]
	_, hasOut := merged.Ports[out]
	assert.True(t, hasIn && hasOut, "in and out must remain on a common net after flatten")
}

func TestFlattenIsDeterministic(t *testing.T) {
	a := buildMergeScenario()
	a.Flatten()
	b := buildMergeScenario()
	b.Flatten()

	var nameA, nameB atom.Atom
	for name := range a.Top.Nets {
		nameA = name
	}
	for name := range b.Top.Nets {
		nameB = name
	}
	assert.Equal(t, nameA, nameB, "merged net name must be chosen deterministically")
}

func TestFlattenNoContentsTopIsUnchanged(t *testing.T) {
	top := &Instance{
		Path:      Path{atom.Intern("empty")},
		Interface: map[atom.Atom]ediast.Port{},
		Instances: map[atom.Atom]*Instance{},
		Nets:      map[atom.Atom]*Net{},
	}
	n := &Netlist{Top: top}
	n.Flatten()

	assert.Equal(t, Path{atom.Intern("empty")}, n.Top.Path)
	assert.Empty(t, n.Top.Instances)
	assert.Empty(t, n.Top.Nets)
}
