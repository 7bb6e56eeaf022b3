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

package perrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewfFormatsPositionAndKind(t *testing.T) {
	err := Newf(Position{Line: 3, Column: 7}, KindSyntax, "unexpected %s", "token")
	assert.Equal(t, "3:7: SyntaxError: unexpected token", err.Error())
}

func TestNewfOmitsPositionWhenNoPos(t *testing.T) {
	err := Newf(NoPos, KindReference, "dangling reference")
	assert.Equal(t, "InvalidReference: dangling reference", err.Error())
}

func TestWithPathAppendsHierarchy(t *testing.T) {
	err := Newf(NoPos, KindMissingPort, "missing port a")
	err = WithPath(err, "top", "u")
	assert.Equal(t, "MissingPort: missing port a (at top/u)", err.Error())
}

func TestNewfFormatsAggregatedMissingPorts(t *testing.T) {
	err := Newf(NoPos, KindMissing, "main/ghost1/q, main/ghost2/r")
	assert.Equal(t, "MissingPorts: main/ghost1/q, main/ghost2/r", err.Error())
}

func TestWrapfPreservesUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrapf(Position{Line: 1, Column: 1}, KindSchema, cause, "building cell")
	require.True(t, errors.Is(err, cause))
}

func TestListErrorJoinsMultipleMessages(t *testing.T) {
	var l List
	l = Append(l, Newf(NoPos, KindMissingPort, "missing a"))
	l = Append(l, Newf(NoPos, KindMissingPort, "missing b"))

	require.Len(t, l, 2)
	assert.Contains(t, l.Error(), "2 errors:")
	assert.Contains(t, l.Error(), "missing a")
	assert.Contains(t, l.Error(), "missing b")
}

func TestListErrorSingleEntryHasNoCountPrefix(t *testing.T) {
	var l List
	l = Append(l, Newf(NoPos, KindMissingPort, "missing a"))
	assert.Equal(t, "MissingPort: missing a", l.Error())
}

func TestAppendIgnoresNil(t *testing.T) {
	var l List
	l = Append(l, nil)
	assert.Empty(t, l)
}
