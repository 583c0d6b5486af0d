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

// Keys resolves this Extraction against a target sharding column,
// returning the bindings that actually reference it (§4.2). table may be
// empty to match on column name alone. Keys are returned in predicate
// order (depth-first, left to right) and are not deduplicated here - the
// mapper handles that.
func (e *Extraction) Keys(table, column string) []Key {
	var keys []Key
	for _, out := range e.outputs {
		keys = append(keys, searchKeys(out, table, column)...)
	}
	return keys
}

func searchKeys(out Output, table, column string) []Key {
	switch o := out.(type) {
	case filterOutput:
		return searchFilter(o, table, column)
	case nullCheckOutput:
		if o.column.Matches(table, column) {
			return []Key{Null}
		}
	}
	return nil
}

// searchFilter implements the singleton-match step: if exactly one side is
// a single Column output, test it against the target. If it matches,
// every value-like output on the OTHER side becomes a Key. Commutativity
// (`col = v` and `v = col`) falls out of checking both orderings here. If
// neither (or both) sides are a singleton column, recurse into both sides
// instead and accumulate - this is how nested AND-conjuncts surface keys
// buried under unrelated filters.
func searchFilter(f filterOutput, table, column string) []Key {
	if col, ok := singletonColumn(f.left); ok {
		if col.Matches(table, column) {
			return valuesToKeys(f.right)
		}
		return recurseSides(f, table, column)
	}
	if col, ok := singletonColumn(f.right); ok {
		if col.Matches(table, column) {
			return valuesToKeys(f.left)
		}
		return recurseSides(f, table, column)
	}
	return recurseSides(f, table, column)
}

func recurseSides(f filterOutput, table, column string) []Key {
	var keys []Key
	for _, out := range f.left {
		keys = append(keys, searchKeys(out, table, column)...)
	}
	for _, out := range f.right {
		keys = append(keys, searchKeys(out, table, column)...)
	}
	return keys
}

func singletonColumn(side []Output) (Column, bool) {
	if len(side) != 1 {
		return Column{}, false
	}
	if col, ok := side[0].(columnOutput); ok {
		return col.column, true
	}
	return Column{}, false
}

// valuesToKeys converts every constant/parameter output on the non-column
// side of a matched filter into a Key. Columns, filters, and null-checks
// found here are skipped - e.g. `id = (SELECT 5)` yields nothing because a
// subquery is an unhandled node kind that never produced an Output in the
// first place.
func valuesToKeys(side []Output) []Key {
	var keys []Key
	for _, out := range side {
		switch o := out.(type) {
		case constantOutput:
			keys = append(keys, Constant(o.value, o.array))
		case parameterOutput:
			keys = append(keys, Parameter(int(o.number)-1, o.array))
		}
	}
	return keys
}
