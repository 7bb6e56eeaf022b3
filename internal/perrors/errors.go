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

// Package perrors defines the positioned, collectible error type used
// throughout the parser, AST builder, elaborator, verifier and flattener
// (§7). A single Error always carries a Position (possibly the zero
// NoPos, for errors with no meaningful source location, such as internal
// flattener invariant violations) and an optional Path describing where
// in the instance hierarchy the error occurred.
package perrors

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

// A Position identifies a location in EDIF source text.
type Position struct {
	Line   int
	Column int
}

// NoPos is the zero value of Position; it is used for errors that have no
// meaningful source location (internal invariant violations, errors
// discovered only after elaboration has discarded source positions).
var NoPos = Position{}

func (p Position) String() string {
	if p == NoPos {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is the interface satisfied by every error this module returns.
// It mirrors the shape of the teacher's cue/errors.Error: a position, an
// optional hierarchical path, and an underlying message.
type Error interface {
	error
	Position() Position
	Path() []string
}

// baseError is the concrete Error implementation used by every
// constructor in this package.
type baseError struct {
	pos  Position
	path []string
	kind string
	msg  string
	wrap error
}

func (e *baseError) Position() Position { return e.pos }
func (e *baseError) Path() []string     { return e.path }

func (e *baseError) Error() string {
	var b strings.Builder
	if e.pos != NoPos {
		b.WriteString(e.pos.String())
		b.WriteString(": ")
	}
	if e.kind != "" {
		b.WriteString(e.kind)
		b.WriteString(": ")
	}
	b.WriteString(e.msg)
	if len(e.path) > 0 {
		fmt.Fprintf(&b, " (at %s)", strings.Join(e.path, "/"))
	}
	return b.String()
}

func (e *baseError) Unwrap() error { return e.wrap }

// Newf creates a positioned error of the given taxonomy kind (§7:
// LexError, SyntaxError, SchemaError, UnsupportedFeature,
// InvalidReference, MissingPort, MissingPorts).
func Newf(pos Position, kind, format string, args ...interface{}) Error {
	return &baseError{pos: pos, kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrapf creates a positioned error that wraps an underlying error using
// golang.org/x/xerrors, the same wrapping idiom the teacher's compiler
// uses for sub-errors.
func Wrapf(pos Position, kind string, err error, format string, args ...interface{}) Error {
	return &baseError{
		pos:  pos,
		kind: kind,
		msg:  xerrors.Errorf(format+": %w", append(args, err)...).Error(),
		wrap: err,
	}
}

// WithPath returns a copy of err whose hierarchical path is path
// followed by err's existing path components, for errors discovered
// while walking instances. Errors not created by this package are
// returned unchanged.
func WithPath(err Error, path ...string) Error {
	if b, ok := err.(*baseError); ok {
		cp := *b
		cp.path = append(append([]string{}, path...), b.path...)
		return &cp
	}
	return err
}

// List is a non-empty collection of errors, used by the verifier to
// report every unresolved reference together rather than failing on the
// first one (§4.4, §7: "Verification collects all missing references and
// reports them together").
type List []Error

func (l List) Error() string {
	if len(l) == 1 {
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors:\n  %s", len(l), strings.Join(msgs, "\n  "))
}

// Append adds err to l. It is the one mutation path for building up a
// List, mirroring the teacher's errors.Append(err, other) free function.
func Append(l List, err Error) List {
	if err == nil {
		return l
	}
	return append(l, err)
}

const (
	KindLex         = "LexError"
	KindSyntax      = "SyntaxError"
	KindSchema      = "SchemaError"
	KindUnsupported = "UnsupportedFeature"
	KindReference   = "InvalidReference"
	KindMissingPort = "MissingPort"
	KindMissing     = "MissingPorts"
)
