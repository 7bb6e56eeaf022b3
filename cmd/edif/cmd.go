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
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type runFunction func(cmd *Command, args []string) error

// mkRunE adapts a runFunction to the signature cobra.Command.RunE wants,
// routing any returned error through exitOnErr the same way the
// teacher's cmd package does.
func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cc *cobra.Command, args []string) error {
		c.Command = cc
		err := f(c, args)
		if err != nil {
			exitOnErr(c, err, true)
		}
		return err
	}
}

// Command wraps a cobra.Command, tracking whether anything has been
// written to its error stream so Run can report a non-zero exit even
// when no Go error value ever reached it (matching Stderr's use as a
// write-sink for multi-error reports).
type Command struct {
	*cobra.Command
	root   *cobra.Command
	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = true
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that marks the command as failed as a
// side effect of being written to.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

func (c *Command) SetOutput(w io.Writer) {
	c.root.SetOutput(w)
}

// ErrPrintedError indicates error messages have already been printed to
// stderr, so Main should not print err itself again.
var ErrPrintedError = errors.New("terminating because of errors")

func (c *Command) Run(ctx context.Context) (err error) {
	defer recoverError(&err)

	if err := c.root.ExecuteContext(ctx); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

type panicError struct {
	Err error
}

func exit() {
	panic(panicError{ErrPrintedError})
}

func recoverError(err *error) {
	switch e := recover().(type) {
	case nil:
	case panicError:
		*err = e.Err
	default:
		panic(e)
	}
}

func newRootCmd() *Command {
	root := &cobra.Command{
		Use:           "edif",
		Short:         "edif parses, verifies and flattens EDIF 2.0.0 netlists",
		Long:          `edif reads an EDIF 2.0.0 netlist from a file or stdin, elaborates it into an instance tree, and can verify every port reference or flatten the hierarchy away entirely.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &Command{Command: root, root: root}

	root.AddCommand(
		newParseCmd(c),
		newInstTreeCmd(c),
		newVersionCmd(c),
	)

	return c
}

func newVersionCmd(c *Command) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the edif tool version",
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "edif development build")
			return nil
		}),
	}
}

// New builds a Command ready to run with the given arguments.
func New(args []string) (*Command, error) {
	cmd := newRootCmd()
	cmd.root.SetArgs(args)
	return cmd, nil
}

// Main runs the edif tool and returns the process exit code.
func Main() int {
	if err := mainErr(context.Background(), os.Args[1:]); err != nil {
		if err != ErrPrintedError {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

// MainTest is Main, callable from testscript's in-process harness.
func MainTest() int {
	return Main()
}

func mainErr(ctx context.Context, args []string) error {
	cmd, err := New(args)
	if err != nil {
		return err
	}
	return cmd.Run(ctx)
}
