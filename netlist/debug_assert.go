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

import "fmt"

// AssertFlattened resolves the open question of what a flattened tree
// is allowed to look like (§9): it checks that every child of n.Top is a
// leaf and that n.Top.Path has at most two components. It never runs as
// part of Flatten itself — Flatten is expected to be correct by
// construction — but tests and the CLI's --flatten path call it to
// catch a regression before it silently produces a non-flat netlist.
func (n *Netlist) AssertFlattened() error {
	if n.Top.Path.Len() > 2 {
		return fmt.Errorf("netlist: top path %s has more than two components after flatten", n.Top.Path)
	}
	for _, child := range n.Top.Instances {
		if len(child.Instances) != 0 {
			return fmt.Errorf("netlist: instance %s still has children after flatten", child.Path)
		}
		if child.Path.Len() != 2 {
			return fmt.Errorf("netlist: instance %s has %d path components, want 2", child.Path, child.Path.Len())
		}
	}
	return nil
}
