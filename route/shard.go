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
	"fmt"
	"sort"
)

// ShardKind discriminates the variants of Shard.
type ShardKind int

const (
	// ShardDirect routes to exactly one shard.
	ShardDirect ShardKind = iota
	// ShardMulti routes to a specific, deduplicated subset of shards.
	ShardMulti
	// ShardAll fans out to every shard. The default and safe fallback.
	ShardAll
)

// Shard is the routing target a statement resolves to.
type Shard struct {
	Kind    ShardKind
	index   int   // valid when Kind == ShardDirect
	indices []int // valid when Kind == ShardMulti, deduplicated, sorted
}

// DirectShard routes to exactly shard i.
func DirectShard(i int) Shard {
	return Shard{Kind: ShardDirect, index: i}
}

// AllShards is the All variant.
var AllShards = Shard{Kind: ShardAll}

// MultiShard routes to a deduplicated, order-independent subset of shards.
// Duplicate indices collapse (§3 invariant); a single unique index
// collapses to Direct and an empty set collapses to All, matching the
// Shard Mapper's collapse rule (§4.3 rule 5).
func MultiShard(indices []int) Shard {
	seen := make(map[int]struct{}, len(indices))
	unique := make([]int, 0, len(indices))
	for _, i := range indices {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		unique = append(unique, i)
	}
	sort.Ints(unique)

	switch len(unique) {
	case 0:
		return AllShards
	case 1:
		return DirectShard(unique[0])
	default:
		return Shard{Kind: ShardMulti, indices: unique}
	}
}

// ShardFromOptional collapses an optional single shard index: present ->
// Direct, absent -> All. Mirrors the Rust reference's
// `From<Option<usize>> for Shard`.
func ShardFromOptional(i *int) Shard {
	if i == nil {
		return AllShards
	}
	return DirectShard(*i)
}

// All reports whether this is the All variant. No other variant returns
// true (§8 universal invariant).
func (s Shard) All() bool {
	return s.Kind == ShardAll
}

// Multi reports whether this is the Multi variant.
func (s Shard) Multi() bool {
	return s.Kind == ShardMulti
}

// Index returns the single shard index for a Direct target. It panics if
// called on any other variant - callers should check Kind first.
func (s Shard) Index() int {
	if s.Kind != ShardDirect {
		panic("route: Index called on a non-Direct Shard")
	}
	return s.index
}

// Indices returns the sorted, deduplicated shard set for a Multi target.
// It panics if called on any other variant.
func (s Shard) Indices() []int {
	if s.Kind != ShardMulti {
		panic("route: Indices called on a non-Multi Shard")
	}
	return s.indices
}

func (s Shard) String() string {
	switch s.Kind {
	case ShardDirect:
		return fmt.Sprintf("%d", s.index)
	case ShardMulti:
		return fmt.Sprintf("%v", s.indices)
	case ShardAll:
		return "all"
	default:
		return "invalid"
	}
}
