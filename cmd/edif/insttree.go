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

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/edifgo/edif/internal/treeprint"
	"github.com/edifgo/edif/netlist"
)

func newInstTreeCmd(c *Command) *cobra.Command {
	var flatten bool
	var format string

	cmd := &cobra.Command{
		Use:   "inst-tree [file]",
		Short: "print the elaborated instance tree",
		Long: `inst-tree reads and elaborates an EDIF 2.0.0 design and prints its
instance tree, one instance per line with its ports listed beneath it
and nested indentation, children in lexicographic order.

--flatten dissolves the hierarchy first, so the tree printed is the
flattened netlist's (depth-1, modulo leaves).

--format selects "tree" (the default, human-readable) or "yaml".`,
		Args: cobra.MaximumNArgs(1),
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			n, err := netlist.Parse(text)
			if err != nil {
				return err
			}

			if flatten {
				n.Flatten()
				if err := n.AssertFlattened(); err != nil {
					return err
				}
			}

			switch format {
			case "tree", "":
				treeprint.Write(cmd.OutOrStdout(), n.Top, nil)
				fmt.Fprintln(cmd.OutOrStdout())
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				if err := enc.Encode(toYAMLNode(n.Top)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("inst-tree: unknown --format %q, want \"tree\" or \"yaml\"", format)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&flatten, "flatten", false, "flatten the instance hierarchy first")
	cmd.Flags().StringVar(&format, "format", "tree", `output format: "tree" or "yaml"`)

	return cmd
}

// yamlNode is the --format yaml serialization of an instance: deliberately
// independent of netlist.Instance's internal field names, since those are
// free to evolve without breaking the CLI's documented output shape.
type yamlNode struct {
	Name      string     `yaml:"name"`
	Cell      string     `yaml:"cell"`
	Ports     []string   `yaml:"ports,omitempty"`
	Instances []yamlNode `yaml:"instances,omitempty"`
}

func toYAMLNode(inst *netlist.Instance) yamlNode {
	node := yamlNode{
		Name: inst.Path.Name().String(),
		Cell: inst.Lib.String() + "." + inst.Cell.String(),
	}

	portNames := make([]string, 0, len(inst.Interface))
	for name := range inst.Interface {
		portNames = append(portNames, name.String())
	}
	sort.Strings(portNames)
	node.Ports = portNames

	children := make([]*netlist.Instance, 0, len(inst.Instances))
	for _, child := range inst.Instances {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Path.Name().String() < children[j].Path.Name().String()
	})
	for _, child := range children {
		node.Instances = append(node.Instances, toYAMLNode(child))
	}

	return node
}
