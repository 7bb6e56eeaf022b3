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
	"io/ioutil"

	"github.com/edifgo/edif/internal/perrors"
)

// exitOnErr prints err (unwrapping a perrors.List into one line per
// error) to cmd's error stream and, if fatal, unwinds to Run via the
// panicError sentinel rather than calling os.Exit directly, so that
// deferred cleanup in the caller still happens.
func exitOnErr(cmd *Command, err error, fatal bool) {
	if err == nil {
		return
	}

	w := cmd.Stderr()
	if list, ok := err.(perrors.List); ok {
		for _, e := range list {
			fmt.Fprintln(w, e.Error())
		}
	} else {
		fmt.Fprintln(w, err.Error())
	}

	if fatal {
		exit()
	}
}

// readInput reads the netlist source from args[0], or from stdin if no
// path was given.
func readInput(cmd *Command, args []string) (string, error) {
	if len(args) == 0 {
		b, err := ioutil.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := ioutil.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
