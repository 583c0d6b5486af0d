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

package shardconf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/pgshardrouter/shardconf"
	"github.com/dolthub/pgshardrouter/shardhash"
)

const testConfigYAML = `
tables:
  orders:
    column: tenant_id
    num_shards: 8
    hash_fn: xxhash
    data_type: text
    null_shard: 0
`

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o644))

	cfg, err := shardconf.Load(path)
	require.NoError(t, err)

	table, ok := cfg.Lookup("orders")
	require.True(t, ok)
	require.Equal(t, "tenant_id", table.Column)
	require.Equal(t, 8, table.NumShards)
	require.Equal(t, shardhash.XXHash64, table.Hash())
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := shardconf.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveNumShards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tables:
  orders:
    column: tenant_id
    num_shards: 0
    null_shard: 0
`), 0o644))

	_, err := shardconf.Load(path)
	require.Error(t, err)
	require.True(t, shardconf.ErrInvalidNumShards.Is(err))
}

func TestLoadRejectsNullShardOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tables:
  orders:
    column: tenant_id
    num_shards: 4
    null_shard: 4
`), 0o644))

	_, err := shardconf.Load(path)
	require.Error(t, err)
	require.True(t, shardconf.ErrNullShardOutOfRange.Is(err))
}

func TestHashDefaultsToXXHashFastForBytesDataType(t *testing.T) {
	table := shardconf.Table{NumShards: 4, DataType: shardconf.DataTypeBytes}
	require.Equal(t, shardhash.XXHashFast, table.Hash())
}

func TestHashExplicitHashFnOverridesDataTypeDefault(t *testing.T) {
	table := shardconf.Table{NumShards: 4, DataType: shardconf.DataTypeBytes, HashFn: "xxhash"}
	require.Equal(t, shardhash.XXHash64, table.Hash())
}

func TestHashDefaultsToMurmur3ForNonBytesDataType(t *testing.T) {
	table := shardconf.Table{NumShards: 4, DataType: shardconf.DataTypeText}
	require.Equal(t, shardhash.Murmur3, table.Hash())
}

func TestLookupUnconfiguredTable(t *testing.T) {
	cfg := &shardconf.Config{Tables: map[string]shardconf.Table{}}
	_, ok := cfg.Lookup("unknown")
	require.False(t, ok)
}

func TestLookupOnNilConfig(t *testing.T) {
	var cfg *shardconf.Config
	_, ok := cfg.Lookup("orders")
	require.False(t, ok)
}
