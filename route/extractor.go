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

// Package route implements the query-routing core: walking a WHERE-clause
// AST for candidate sharding-key bindings, resolving them against a
// table's configured sharding column, mapping the resolved keys to a
// shard target, and packaging that target with post-processing directives
// into an immutable Route.
package route

import (
	"strconv"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Extraction is the extractor's output: an ordered list of candidate key
// bindings harvested from a single WHERE subtree. It is built once per
// statement and can be resolved against any number of target sharding
// columns without re-walking the AST (§4.1 "Why this shape").
type Extraction struct {
	outputs []Output
}

// Extract walks the WHERE subtree of a parsed statement. where may be nil
// (no WHERE clause), in which case the returned Extraction resolves to an
// empty key list for every column, per the "no WHERE clause" universal
// invariant in §8. defaultTable is the statement's primary table or alias,
// substituted for any unqualified column reference.
func Extract(where *pg_query.Node, defaultTable string) *Extraction {
	return &Extraction{outputs: extract(where, defaultTable, false)}
}

// extract recursively dispatches on node kind, mirroring §4.1's "Recursive
// walk". array is true when this subtree is being extracted from inside
// an `= ANY(...)` comparison and therefore denotes a set rather than a
// scalar.
func extract(node *pg_query.Node, defaultTable string, array bool) []Output {
	if node == nil || node.Node == nil {
		return nil
	}

	switch n := node.Node.(type) {
	case *pg_query.Node_NullTest:
		return extractNullTest(n.NullTest, defaultTable, array)

	case *pg_query.Node_BoolExpr:
		return extractBoolExpr(n.BoolExpr, defaultTable, array)

	case *pg_query.Node_AExpr:
		return extractAExpr(n.AExpr, defaultTable, array)

	case *pg_query.Node_AConst:
		return extractAConst(n.AConst, array)

	case *pg_query.Node_ColumnRef:
		return extractColumnRef(n.ColumnRef, defaultTable)

	case *pg_query.Node_ParamRef:
		return []Output{parameterOutput{number: n.ParamRef.Number, array: array}}

	case *pg_query.Node_List:
		var out []Output
		for _, item := range n.List.Items {
			out = append(out, extract(item, defaultTable, array)...)
		}
		return out

	case *pg_query.Node_TypeCast:
		// Transparent: `$1::int` must not hide a parameter, so recurse
		// straight through the cast's argument, preserving array.
		return extract(n.TypeCast.Arg, defaultTable, array)

	default:
		// Unhandled node kind: contributes nothing (§7 "Unroutable
		// predicate" degrades silently, it is not an error here).
		return nil
	}
}

// extractNullTest only contributes a NullCheck for IS NULL; IS NOT NULL
// matches "almost everything" and is not a useful router hint (§4.1).
func extractNullTest(nt *pg_query.NullTest, defaultTable string, array bool) []Output {
	if nt.Nulltesttype != pg_query.NullTestType_IS_NULL {
		return nil
	}
	left := extract(nt.Arg, defaultTable, array)
	if len(left) != 1 {
		return nil
	}
	col, ok := left[0].(columnOutput)
	if !ok {
		return nil
	}
	return []Output{nullCheckOutput{column: col.column}}
}

// extractBoolExpr only traverses AND; OR is rejected outright (returns no
// bindings), and NOT is likewise not traversed. This is an intentional
// conservatism, not an oversight (§4.1, §9 "OR conservatism").
func extractBoolExpr(expr *pg_query.BoolExpr, defaultTable string, array bool) []Output {
	if expr.Boolop != pg_query.BoolExprType_AND_EXPR {
		return nil
	}
	var out []Output
	for _, arg := range expr.Args {
		out = append(out, extract(arg, defaultTable, array)...)
	}
	return out
}

// extractAExpr handles Op, In, and OpAny comparisons where the operator is
// `=`; any other operator kind or name yields no binding.
func extractAExpr(expr *pg_query.A_Expr, defaultTable string, array bool) []Output {
	switch expr.Kind {
	case pg_query.A_Expr_Kind_AEXPR_OP, pg_query.A_Expr_Kind_AEXPR_IN, pg_query.A_Expr_Kind_AEXPR_OP_ANY:
		if !isEquals(expr.Name) {
			return nil
		}
	default:
		return nil
	}

	if expr.Lexpr == nil || expr.Rexpr == nil {
		return nil
	}

	childArray := array || expr.Kind == pg_query.A_Expr_Kind_AEXPR_OP_ANY
	left := extract(expr.Lexpr, defaultTable, childArray)
	right := extract(expr.Rexpr, defaultTable, childArray)

	return []Output{filterOutput{left: left, right: right}}
}

// isEquals reports whether an operator-name node list names `=`. An empty
// name list, or an empty operator string, is accepted as well. The check
// applies to Op, In, and OpAny kinds alike, so `NOT IN` (operator `<>`)
// yields no binding.
func isEquals(name []*pg_query.Node) bool {
	if len(name) == 0 {
		return true
	}
	op := stringVal(name[0])
	return op == "" || op == "="
}

func stringVal(node *pg_query.Node) string {
	if node == nil || node.Node == nil {
		return ""
	}
	if s, ok := node.Node.(*pg_query.Node_String_); ok {
		return s.String_.Sval
	}
	return ""
}

func extractAConst(c *pg_query.A_Const, array bool) []Output {
	if c.Isnull {
		return nil
	}
	switch v := c.Val.(type) {
	case *pg_query.A_Const_Ival:
		return []Output{constantOutput{value: strconv.FormatInt(int64(v.Ival.Ival), 10), array: array}}
	case *pg_query.A_Const_Sval:
		return []Output{constantOutput{value: v.Sval.Sval, array: array}}
	case *pg_query.A_Const_Fval:
		return []Output{constantOutput{value: v.Fval.Fval, array: array}}
	default:
		// Boolval, Bsval, or no value at all: not a sharding-key shape.
		return nil
	}
}

// extractColumnRef resolves the column name as the last field and, when
// present, the table qualifier as the second-to-last. An unqualified
// reference inherits defaultTable.
func extractColumnRef(ref *pg_query.ColumnRef, defaultTable string) []Output {
	fields := ref.Fields
	if len(fields) == 0 {
		return nil
	}
	name := stringVal(fields[len(fields)-1])
	if name == "" {
		return nil
	}
	table := defaultTable
	if len(fields) >= 2 {
		if qualifier := stringVal(fields[len(fields)-2]); qualifier != "" {
			table = qualifier
		}
	}
	return []Output{columnOutput{column: Column{Table: table, Name: name}}}
}
