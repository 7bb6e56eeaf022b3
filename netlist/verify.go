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

	"github.com/edifgo/edif/internal/ediast"
	"github.com/edifgo/edif/internal/perrors"
)

// VerifyReferences confirms every port reference in every net resolves
// to an interface port of a known instance with a member index in range
// (§4.4). It is safe to call both before and after Flatten (idempotent,
// §8 property 2).
func (n *Netlist) VerifyReferences() error {
	v := &verifier{pending: map[string][]PortRef{}}
	v.walk(n.Top)

	// Anything still pending after the walk targeted an instance path
	// that was never reached: it does not exist in the tree at all.
	// Report every such path/port together as one MissingPorts failure,
	// distinct from the per-port MissingPort failures raised while
	// resolving references against a known instance's interface.
	var unresolvedKeys []string
	for k := range v.pending {
		unresolvedKeys = append(unresolvedKeys, k)
	}
	sort.Strings(unresolvedKeys)
	var unresolved []string
	for _, k := range unresolvedKeys {
		for _, ref := range v.pending[k] {
			unresolved = append(unresolved, k+"/"+ref.Port.String())
		}
	}
	if len(unresolved) > 0 {
		v.errors = perrors.Append(v.errors, perrors.Newf(perrors.NoPos, perrors.KindMissing,
			"%s", strings.Join(unresolved, ", ")))
	}

	if len(v.errors) == 0 {
		return nil
	}
	return v.errors
}

// verifier accumulates pending cross-instance references and the
// failures discovered while resolving them.
type verifier struct {
	pending map[string][]PortRef
	errors  perrors.List
}

func (v *verifier) fail(path, port string) {
	v.errors = perrors.Append(v.errors, perrors.Newf(perrors.NoPos, perrors.KindMissingPort,
		"%s/%s", path, port))
}

func (v *verifier) walk(inst *Instance) {
	key := inst.Path.String()

	// Consume and validate every reference a parent (or an already
	// dissolved sibling, post-flatten) recorded against this instance.
	if refs, ok := v.pending[key]; ok {
		delete(v.pending, key)
		for _, ref := range refs {
			v.checkAgainstInterface(inst, ref)
		}
	}

	for _, net := range inst.Nets {
		for ref := range net.Ports {
			if ref.SameInstance(inst.Path) {
				v.checkAgainstInterface(inst, ref)
				continue
			}
			target := ref.InstancePath().String()
			v.pending[target] = append(v.pending[target], ref)
		}
	}

	for _, child := range sortedChildren(inst) {
		v.walk(child)
	}
}

func (v *verifier) checkAgainstInterface(inst *Instance, ref PortRef) {
	port, ok := inst.Interface[ref.Port]
	if !ok {
		v.fail(inst.Path.String(), ref.Port.String())
		return
	}
	if !memberValid(ref, port) {
		v.errors = perrors.Append(v.errors, perrors.Newf(perrors.NoPos, perrors.KindReference,
			"%s/%s", inst.Path.String(), ref.Port.String()))
	}
}

// memberValid implements the array rule of §3: (None, Single) or
// (Some(k), Array(w)) with 0 <= k < w.
func memberValid(ref PortRef, port ediast.Port) bool {
	if port.Kind.Single() {
		return !ref.HasMember
	}
	return ref.HasMember && ref.Member >= 0 && ref.Member < port.Kind.Width
}

func sortedChildren(inst *Instance) []*Instance {
	out := make([]*Instance, 0, len(inst.Instances))
	for _, c := range inst.Instances {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path.Name().String() < out[j].Path.Name().String()
	})
	return out
}
