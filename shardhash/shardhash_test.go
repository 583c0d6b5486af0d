// Copyright 2020-2021 Dolthub, Inc.
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

package shardhash_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/pgshardrouter/shardhash"
)

func TestParseFunc(t *testing.T) {
	require.Equal(t, shardhash.Murmur3, shardhash.ParseFunc(""))
	require.Equal(t, shardhash.Murmur3, shardhash.ParseFunc("unknown"))
	require.Equal(t, shardhash.XXHash64, shardhash.ParseFunc("xxhash"))
	require.Equal(t, shardhash.XXHash64, shardhash.ParseFunc("xxhash64"))
	require.Equal(t, shardhash.XXHashFast, shardhash.ParseFunc("xxhash-fast"))
}

func TestIndexIsDeterministic(t *testing.T) {
	for _, fn := range []shardhash.Func{shardhash.Murmur3, shardhash.XXHash64, shardhash.XXHashFast} {
		first := shardhash.Index(fn, []byte("acme-corp"), 16)
		second := shardhash.Index(fn, []byte("acme-corp"), 16)
		require.Equal(t, first, second)
		require.GreaterOrEqual(t, first, 0)
		require.Less(t, first, 16)
	}
}

func TestIndexZeroShardsReturnsZero(t *testing.T) {
	require.Equal(t, 0, shardhash.Index(shardhash.Murmur3, []byte("x"), 0))
}

func TestIndexDistributesAcrossValues(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		idx := shardhash.Index(shardhash.Murmur3, []byte{byte(i), byte(i >> 8)}, 8)
		seen[idx] = true
	}
	require.Greater(t, len(seen), 1)
}
