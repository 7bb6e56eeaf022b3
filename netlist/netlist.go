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
	"github.com/edifgo/edif/internal/ediast"
	"github.com/edifgo/edif/internal/sexpr"
)

// Parse is the public entry point (§6): it reads text as a single EDIF
// s-expression, builds its AST, and elaborates the result into a
// Netlist. It does not verify references or flatten; callers that want
// those call VerifyReferences and Flatten explicitly.
func Parse(text string) (*Netlist, error) {
	root, err := sexpr.Parse(text)
	if err != nil {
		return nil, err
	}
	edif, err := ediast.Build(root)
	if err != nil {
		return nil, err
	}
	return Elaborate(edif)
}
