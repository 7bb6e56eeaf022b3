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
	"fmt"
	"sort"

	"github.com/edifgo/edif/internal/atom"
)

// Flatten destructively collapses n's instance tree so only leaf
// instances remain as children of the top, merging nets that were
// connected through dissolved boundaries (§4.5). It is the design's
// centre of gravity.
func (n *Netlist) Flatten() {
	n.Top.Flatten()
}

// Flatten dissolves every non-leaf child of self by inlining the
// grandchildren and merging nets that crossed the dissolved boundary. It
// is defined recursively bottom-up (§4.5.1): a child is flattened first,
// so that when absorbed it already contains only leaves.
func (self *Instance) Flatten() {
	flattenNetPaths(self)

	children := self.Instances
	self.Instances = map[atom.Atom]*Instance{}

	names := make([]atom.Atom, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })

	for _, name := range names {
		inst := children[name]

		inst.Flatten()

		if len(inst.Instances) == 0 && len(inst.Nets) == 0 {
			// Keep-as-leaf: a pure leaf is reinserted unchanged.
			self.Instances[inst.Path.Name()] = inst
			continue
		}

		// Dissolve: every grandchild must already be a leaf, an
		// inductive consequence of the bottom-up order.
		for gname, gchild := range inst.Instances {
			if len(gchild.Instances) != 0 {
				panic(fmt.Sprintf("flatten: grandchild %s is not a leaf", gchild.Path))
			}
			if _, collide := self.Instances[gname]; collide {
				panic(fmt.Sprintf("flatten: instance name collision on %s", gname))
			}
			self.Instances[gname] = gchild
		}

		ifPorts := map[PortRef]struct{}{}
		for _, net := range inst.Nets {
			for ref := range net.Ports {
				if ref.SameInstance(inst.Path) {
					ifPorts[ref] = struct{}{}
				}
			}
		}

		merger := newNetMerger(ifPorts, inst.Path)

		for name, net := range self.Nets {
			merger.merge(name, net)
			if net.Empty() {
				delete(self.Nets, name)
			}
		}

		for name, net := range inst.Nets {
			if !merger.merge(name, net) {
				key := atom.Intern(inst.Path.String() + "/" + name.String())
				if _, collide := self.Nets[key]; collide {
					panic(fmt.Sprintf("flatten: net name collision on %s", key))
				}
				self.Nets[key] = net
			}
		}

		for name, net := range merger.build() {
			if _, collide := self.Nets[name]; collide {
				panic(fmt.Sprintf("flatten: net name collision on %s", name))
			}
			self.Nets[name] = net
		}
	}

	flattenNetPaths(self)
	self.Path = self.Path.Flatten()
}

// flattenNetPaths rewrites every PortRef.Instance in self.Nets to its
// canonical flattened form (§4.5.1 step 0/6).
func flattenNetPaths(self *Instance) {
	for _, net := range self.Nets {
		if len(net.Ports) == 0 {
			continue
		}
		rewritten := make(map[PortRef]struct{}, len(net.Ports))
		for ref := range net.Ports {
			rewritten[ref.WithInstance(ref.InstancePath().Flatten())] = struct{}{}
		}
		net.Ports = rewritten
	}
}

// mergedNet is one working slot of a netMerger: an aggregated net under
// construction, with a name that stays the lexicographic minimum of
// every net name that contributed to it.
type mergedNet struct {
	name  atom.Atom
	ports map[PortRef]struct{}
}

// netMerger is the union-find-like structure described in §4.5.2: given
// a fixed seed set of interface PortRefs (the points at which nets may
// cross a dissolved instance's boundary), it equates nets that share a
// seed port, preserving a stable, deterministic net name.
type netMerger struct {
	idx      map[PortRef]int
	nets     []*mergedNet
	instance Path
}

func newNetMerger(seed map[PortRef]struct{}, instance Path) *netMerger {
	keys := make([]PortRef, 0, len(seed))
	for p := range seed {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool { return portRefLess(keys[i], keys[j]) })

	idx := make(map[PortRef]int, len(keys))
	for i, p := range keys {
		idx[p] = i
	}
	return &netMerger{idx: idx, nets: make([]*mergedNet, len(keys)), instance: instance}
}

func portRefLess(a, b PortRef) bool {
	if a.Instance != b.Instance {
		return a.Instance.Less(b.Instance)
	}
	if a.Port != b.Port {
		return a.Port.Less(b.Port)
	}
	return a.Member < b.Member
}

// merge folds net's ports into the merger if any of them is a seeded
// interface port, returning whether it was claimed (§4.5.2).
func (m *netMerger) merge(name atom.Atom, net *Net) bool {
	type hit struct {
		ref  PortRef
		slot int
	}
	var hits []hit
	for ref := range net.Ports {
		if ref.SameInstance(m.instance) {
			if slot, ok := m.idx[ref]; ok {
				hits = append(hits, hit{ref, slot})
			}
		}
	}
	if len(hits) == 0 {
		return false
	}

	rep := hits[0].slot
	for _, h := range hits[1:] {
		if h.slot < rep {
			rep = h.slot
		}
	}

	for _, h := range hits {
		j := h.slot
		if j != rep && m.nets[j] != nil {
			moved := m.nets[j]
			m.nets[j] = nil
			m.absorb(rep, moved.name, moved.ports)
		}
		m.idx[h.ref] = rep
	}

	m.absorb(rep, name, net.Ports)
	net.Ports = map[PortRef]struct{}{}
	return true
}

func (m *netMerger) absorb(slot int, name atom.Atom, ports map[PortRef]struct{}) {
	if m.nets[slot] == nil {
		m.nets[slot] = &mergedNet{name: name, ports: map[PortRef]struct{}{}}
	} else if name.Less(m.nets[slot].name) {
		m.nets[slot].name = name
	}
	for p := range ports {
		m.nets[slot].ports[p] = struct{}{}
	}
}

// build yields every occupied slot's aggregated net, stripping any
// remaining reference to the dissolved boundary instance itself
// (§4.5.2).
func (m *netMerger) build() map[atom.Atom]*Net {
	out := make(map[atom.Atom]*Net, len(m.nets))
	for _, mn := range m.nets {
		if mn == nil {
			continue
		}
		net := newNet()
		for p := range mn.ports {
			if !p.SameInstance(m.instance) {
				net.Add(p)
			}
		}
		out[mn.name] = net
	}
	return out
}
