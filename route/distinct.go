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

// DistinctBy is the optional list of distinct-by columns or positions a
// Route carries (§3). A nil *DistinctBy means no DISTINCT was present; a
// non-nil one with an empty Columns/Positions pair still means
// `SELECT DISTINCT *` - distinct on every result column.
type DistinctBy struct {
	Columns   []string
	Positions []int
}
