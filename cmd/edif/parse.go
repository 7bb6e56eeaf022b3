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

	"github.com/spf13/cobra"

	"github.com/edifgo/edif/netlist"
)

func newParseCmd(c *Command) *cobra.Command {
	var verify, flatten bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "parse and elaborate an EDIF netlist",
		Long: `parse reads an EDIF 2.0.0 design from the given file, or from stdin
if no file is given, elaborates it into an instance tree, and reports
success or the errors found along the way.

--verify additionally checks every port reference in the design.
--flatten dissolves the instance hierarchy before verifying, so the
checks run against the flattened netlist instead of the original one.`,
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

			if verify || flatten {
				if err := n.VerifyReferences(); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}),
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "verify every port reference")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "flatten the instance hierarchy before verifying")

	return cmd
}
