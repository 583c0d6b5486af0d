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

// AggregateFunc names a per-result-column aggregation the result-assembler
// must apply when combining rows from multiple shards.
type AggregateFunc int

const (
	AggSum AggregateFunc = iota
	AggCount
	AggMin
	AggMax
)

// AggregateColumn describes how one result column must be recombined
// across shards.
type AggregateColumn struct {
	Position int
	Func     AggregateFunc
}

// Aggregate is the per-result-column combine plan a Route carries (§3).
// It is possibly empty: most statements need no cross-shard combination
// at all, only a concatenation of each shard's rows.
type Aggregate struct {
	Columns []AggregateColumn
	GroupBy []int // result-column indices the rows must be grouped by first
}

// Empty reports whether this plan requires no aggregate combination.
func (a Aggregate) Empty() bool {
	return len(a.Columns) == 0
}
