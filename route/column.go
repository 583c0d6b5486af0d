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

// Column is a qualified column reference extracted from a WHERE clause.
// Table is empty when the reference was unqualified and no default table
// qualifier was supplied by the caller.
type Column struct {
	Table string
	Name  string
}

// Matches reports whether c refers to the same column as (table, name).
// An absent qualifier on either side matches by name alone; qualifiers
// present on both sides must be equal. Alias resolution is the caller's
// responsibility.
func (c Column) Matches(table, name string) bool {
	if c.Name != name {
		return false
	}
	if c.Table == "" || table == "" {
		return true
	}
	return c.Table == table
}
