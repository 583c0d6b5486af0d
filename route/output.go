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

// Output is the extractor's intermediate representation: a tree of
// equality candidates that the resolver walks once per target sharding
// column. See §4.1 "Why this shape".
type Output interface {
	isOutput()
}

// columnOutput is a single column reference.
type columnOutput struct {
	column Column
}

func (columnOutput) isOutput() {}

// constantOutput is a literal value, preserved in its lexical string form.
type constantOutput struct {
	value string
	array bool
}

func (constantOutput) isOutput() {}

// parameterOutput is a placeholder, carrying the AST's raw 1-based
// placeholder number. The 1-based-to-0-based conversion happens at the
// Key boundary (§4.3 "Why parameter positions use 0-indexed semantics").
type parameterOutput struct {
	number int32
	array  bool
}

func (parameterOutput) isOutput() {}

// nullCheckOutput is an `IS NULL` test on a column.
type nullCheckOutput struct {
	column Column
}

func (nullCheckOutput) isOutput() {}

// filterOutput is a binary equality-shaped comparison: each side is itself
// a list of extracted outputs (so `col = ANY($1)` yields one Column on the
// left and one Parameter on the right, for instance).
type filterOutput struct {
	left  []Output
	right []Output
}

func (filterOutput) isOutput() {}
