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

// Package shardhash implements the value->shard-index hash functions a
// table sharding descriptor's hash_fn enum (§6) selects between. The
// sharding column's value is hashed to `num_shards` buckets; which
// algorithm does the hashing is a per-table configuration choice, not
// something the routing core hardcodes.
package shardhash

import (
	xxhashfast "github.com/OneOfOne/xxhash"
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Func names a hash algorithm a table's sharding descriptor can select.
type Func int

const (
	// Murmur3 is the default: fast, well distributed, and the choice most
	// Postgres/MySQL sharding systems (including Vitess) make for
	// routing-column hashing.
	Murmur3 Func = iota
	// XXHash64 uses cespare's xxhash, a good fit for short text keys
	// (UUIDs, tenant slugs).
	XXHash64
	// XXHashFast uses OneOfOne's xxhash implementation, kept as a second
	// xxhash variant for the `data_type = bytes` fast path where its
	// streaming Write-based API avoids a copy.
	XXHashFast
)

// ParseFunc maps a config-file hash_fn name to a Func. Unrecognized names
// fall back to Murmur3, the safe default.
func ParseFunc(name string) Func {
	switch name {
	case "xxhash", "xxhash64":
		return XXHash64
	case "xxhash-fast":
		return XXHashFast
	default:
		return Murmur3
	}
}

// Index hashes value to a bucket in [0, numShards). numShards must be > 0.
func Index(fn Func, value []byte, numShards int) int {
	if numShards <= 0 {
		return 0
	}
	return int(sum64(fn, value) % uint64(numShards))
}

func sum64(fn Func, value []byte) uint64 {
	switch fn {
	case XXHash64:
		return xxhash.Sum64(value)
	case XXHashFast:
		h := xxhashfast.New64()
		_, _ = h.Write(value)
		return h.Sum64()
	default:
		return murmur3.Sum64(value)
	}
}
