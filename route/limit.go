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

// Limit is the optional `(offset, count)` pair a Route carries (§3). Across
// shards the assembler trims after merging, since no single shard knows
// the globally-correct cutoff on its own. A Limit on its own does not make
// Route.ShouldBuffer true.
type Limit struct {
	Offset int
	Count  int
	set    bool
}

// NewLimit builds a set Limit.
func NewLimit(offset, count int) Limit {
	return Limit{Offset: offset, Count: count, set: true}
}

// Set reports whether a limit was present on the statement at all.
func (l Limit) Set() bool {
	return l.set
}
