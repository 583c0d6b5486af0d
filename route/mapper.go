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

package route

import (
	"github.com/dolthub/pgshardrouter/paramset"
	"github.com/dolthub/pgshardrouter/shardconf"
	"github.com/dolthub/pgshardrouter/shardhash"
)

// DegradeReason names why the mapper fell back to All, for the metrics
// and logging wiring (§7's "diagnostics ... is a separate observability
// concern").
type DegradeReason string

const (
	DegradeNone             DegradeReason = ""
	DegradeNoKeys           DegradeReason = "no_keys"
	DegradeMissingParameter DegradeReason = "missing_parameter"
	DegradeMalformedArray   DegradeReason = "malformed_array"
)

// MapResult is the Shard Mapper's output: the resolved target plus why it
// degraded to All, if it did.
type MapResult struct {
	Shard  Shard
	Reason DegradeReason
}

// Map turns a set of resolved keys into a Shard target (§4.3). params may
// be empty (simple-query-protocol statements have no bound vector); any
// Parameter key then falls through the out-of-range rule.
func Map(keys []Key, params paramset.Vector, table shardconf.Table) MapResult {
	if len(keys) == 0 {
		return MapResult{Shard: AllShards, Reason: DegradeNoKeys}
	}

	var indices []int
	var lastFailure DegradeReason

	for _, key := range keys {
		idx, ok := mapKey(key, params, table)
		if !ok {
			lastFailure = degradeReasonFor(key)
			continue
		}
		indices = append(indices, idx...)
	}

	shard := MultiShard(indices)
	if !shard.All() {
		return MapResult{Shard: shard, Reason: DegradeNone}
	}
	// Every key either failed to resolve or hashed to an empty set; the
	// last failure reason is the most useful diagnostic.
	if lastFailure == DegradeNone {
		lastFailure = DegradeNoKeys
	}
	return MapResult{Shard: shard, Reason: lastFailure}
}

func degradeReasonFor(key Key) DegradeReason {
	switch key.Kind {
	case KeyParameter:
		return DegradeMissingParameter
	case KeyConstant:
		if key.Array {
			return DegradeMalformedArray
		}
	}
	return DegradeNoKeys
}

// mapKey hashes a single key to zero or more shard indices. A Null key
// contributes the table's dedicated null shard (§4.3 rule 2). ok is false
// when the key could not be resolved at all (missing parameter, malformed
// array) - those keys simply don't contribute, they don't fail the whole
// statement, per §7.
func mapKey(key Key, params paramset.Vector, table shardconf.Table) (indices []int, ok bool) {
	switch key.Kind {
	case KeyNull:
		return []int{table.NullShard}, true

	case KeyConstant:
		if !key.Array {
			return []int{hashValue(key.Value, table)}, true
		}
		elements, parsed := paramset.ParseArrayLiteral(key.Value)
		if !parsed {
			return nil, false
		}
		return hashValues(elements, table), true

	case KeyParameter:
		if key.Array {
			elements, found := params.TextArray(key.Pos)
			if !found {
				return nil, false
			}
			return hashValues(elements, table), true
		}
		value, found := params.Text(key.Pos)
		if !found {
			return nil, false
		}
		return []int{hashValue(value, table)}, true
	}
	return nil, false
}

func hashValue(value string, table shardconf.Table) int {
	return shardhash.Index(table.Hash(), []byte(value), table.NumShards)
}

func hashValues(values []string, table shardconf.Table) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		out = append(out, hashValue(v, table))
	}
	return out
}
