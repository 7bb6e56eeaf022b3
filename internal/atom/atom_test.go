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

package atom

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternIsIdempotent(t *testing.T) {
	a := Intern("foo")
	b := Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", a.String())
}

func TestInternDistinguishesStrings(t *testing.T) {
	a := Intern("alpha")
	b := Intern("beta")
	assert.NotEqual(t, a, b)
}

func TestInternIsSafeForConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Atom, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Intern("concurrent")
		}(i)
	}
	wg.Wait()

	want := results[0]
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestLessOrdersLexicographically(t *testing.T) {
	a := Intern("a-less-test")
	b := Intern("b-less-test")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestSortUniqueDropsDuplicates(t *testing.T) {
	atoms := []Atom{
		Intern("su-c"), Intern("su-a"), Intern("su-b"), Intern("su-a"),
	}
	got := SortUnique(atoms)

	var names []string
	for _, a := range got {
		names = append(names, a.String())
	}
	assert.Equal(t, []string{"su-a", "su-b", "su-c"}, names)
}

func TestSortUniqueHandlesShortSlices(t *testing.T) {
	assert.Empty(t, SortUnique(nil))
	single := SortUnique([]Atom{Intern("su-only")})
	assert.Len(t, single, 1)
}

func TestKeywordAtomsAreInterned(t *testing.T) {
	assert.Equal(t, "edif", KwEdif.String())
	assert.Equal(t, "INPUT", KwInput.String())
	assert.Equal(t, KwInput, Intern("INPUT"))
}
