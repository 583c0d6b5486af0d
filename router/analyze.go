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

package router

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/dolthub/pgshardrouter/route"
)

// analysis is everything the Route Builder needs out of a statement beyond
// the WHERE clause itself: the table to resolve a sharding column against,
// and the auxiliary post-processing directives §3/§4.4 fold into a Route.
type analysis struct {
	table    string
	where    *pg_query.Node
	isSelect bool
	behavior route.FunctionBehavior

	orderBy   []route.OrderBy
	aggregate route.Aggregate
	limit     route.Limit
	distinct  *route.DistinctBy
}

// analyze classifies a top-level statement node. ok is false for statement
// kinds this router doesn't understand at all (DDL, COPY, transaction
// control, ...): those carry no WHERE clause and no sharding column to
// resolve, so the caller routes them to All directly.
func analyze(stmt *pg_query.Node) (analysis, bool) {
	if stmt == nil || stmt.Node == nil {
		return analysis{}, false
	}

	switch n := stmt.Node.(type) {
	case *pg_query.Node_SelectStmt:
		return analyzeSelect(n.SelectStmt), true
	case *pg_query.Node_UpdateStmt:
		return analysis{
			table:    relationName(n.UpdateStmt.Relation),
			where:    n.UpdateStmt.WhereClause,
			behavior: route.FunctionBehavior{Writes: true},
		}, true
	case *pg_query.Node_DeleteStmt:
		return analysis{
			table:    relationName(n.DeleteStmt.Relation),
			where:    n.DeleteStmt.WhereClause,
			behavior: route.FunctionBehavior{Writes: true},
		}, true
	case *pg_query.Node_InsertStmt:
		// An INSERT has no WHERE clause of its own (§1 "Non-goals" -
		// subquery evaluation is out of scope, and so is an `INSERT ...
		// SELECT`'s nested WHERE); it routes by table alone.
		return analysis{
			table:    relationName(n.InsertStmt.Relation),
			behavior: route.FunctionBehavior{Writes: true},
		}, true
	default:
		return analysis{}, false
	}
}

func analyzeSelect(s *pg_query.SelectStmt) analysis {
	a := analysis{
		table:     fromTable(s.FromClause),
		where:     s.WhereClause,
		isSelect:  true,
		behavior:  route.FunctionBehavior{Writes: false, Locking: lockingBehavior(s)},
		orderBy:   extractOrderBy(s.SortClause),
		aggregate: extractAggregate(s.TargetList, s.GroupClause),
		limit:     extractLimit(s.LimitOffset, s.LimitCount),
		distinct:  extractDistinct(s.DistinctClause),
	}
	return a
}

func relationName(rv *pg_query.RangeVar) string {
	if rv == nil {
		return ""
	}
	return rv.Relname
}

// fromTable takes the first plain table (RangeVar) in the FROM list as the
// statement's default table qualifier (§4.1's defaultTable); other entries,
// such as joins or subqueries, are skipped. Joins against other tables still
// resolve correctly as long as their columns are qualified in the WHERE
// clause; only an unqualified reference relies on this default.
func fromTable(from []*pg_query.Node) string {
	for _, item := range from {
		if item == nil || item.Node == nil {
			continue
		}
		if rv, ok := item.Node.(*pg_query.Node_RangeVar); ok {
			return rv.RangeVar.Relname
		}
	}
	return ""
}

func stringValue(node *pg_query.Node) string {
	if node == nil || node.Node == nil {
		return ""
	}
	if s, ok := node.Node.(*pg_query.Node_String_); ok {
		return s.String_.Sval
	}
	return ""
}

func columnRefName(node *pg_query.Node) (string, bool) {
	if node == nil || node.Node == nil {
		return "", false
	}
	ref, ok := node.Node.(*pg_query.Node_ColumnRef)
	if !ok || len(ref.ColumnRef.Fields) == 0 {
		return "", false
	}
	name := stringValue(ref.ColumnRef.Fields[len(ref.ColumnRef.Fields)-1])
	return name, name != ""
}

func intConst(node *pg_query.Node) (int, bool) {
	if node == nil || node.Node == nil {
		return 0, false
	}
	c, ok := node.Node.(*pg_query.Node_AConst)
	if !ok || c.AConst.Isnull {
		return 0, false
	}
	ival, ok := c.AConst.Val.(*pg_query.A_Const_Ival)
	if !ok {
		return 0, false
	}
	return int(ival.Ival.Ival), true
}

// extractOrderBy reads a SELECT's SortClause into OrderBy entries keyed by
// column name when the sort key is a plain column reference, or by
// position for `ORDER BY 2`-style ordinals. Anything more exotic (a sort
// key that's itself an expression) is skipped - the assembler falls back
// to whatever ordering the shard already returned for that entry.
func extractOrderBy(sortClause []*pg_query.Node) []route.OrderBy {
	var out []route.OrderBy
	for _, item := range sortClause {
		if item == nil || item.Node == nil {
			continue
		}
		sb, ok := item.Node.(*pg_query.Node_SortBy)
		if !ok {
			continue
		}
		dir := route.Ascending
		if sb.SortBy.SortbyDir == pg_query.SortByDir_SORTBY_DESC {
			dir = route.Descending
		}
		nulls := route.NullsLast
		if sb.SortBy.SortbyNulls == pg_query.SortByNulls_SORTBY_NULLS_FIRST {
			nulls = route.NullsFirst
		}

		if name, ok := columnRefName(sb.SortBy.Node); ok {
			out = append(out, route.ByName(name, dir, nulls))
			continue
		}
		if pos, ok := intConst(sb.SortBy.Node); ok {
			out = append(out, route.ByPosition(pos, dir, nulls))
		}
	}
	return out
}

// extractLimit reads LIMIT/OFFSET when the LIMIT count is a literal
// integer; a missing or non-literal OFFSET reads as 0. A parameterized limit (`LIMIT $1`) can't be resolved without
// the bound value, so it is treated as absent - the assembler still sees
// every shard's full result set in that case, which is correct, just not
// optimally trimmed.
func extractLimit(offsetNode, countNode *pg_query.Node) route.Limit {
	count, ok := intConst(countNode)
	if !ok {
		return route.Limit{}
	}
	offset, _ := intConst(offsetNode)
	return route.NewLimit(offset, count)
}

// extractDistinct distinguishes plain DISTINCT (a DistinctClause holding a
// single nil entry, per libpg_query's convention) from DISTINCT ON
// (column-name) list.
func extractDistinct(distinctClause []*pg_query.Node) *route.DistinctBy {
	if distinctClause == nil {
		return nil
	}
	d := &route.DistinctBy{}
	for _, item := range distinctClause {
		if item == nil || item.Node == nil {
			continue
		}
		if name, ok := columnRefName(item); ok {
			d.Columns = append(d.Columns, name)
		}
	}
	return d
}

var aggregateFuncs = map[string]route.AggregateFunc{
	"sum":   route.AggSum,
	"count": route.AggCount,
	"min":   route.AggMin,
	"max":   route.AggMax,
}

// extractAggregate scans the target list for aggregate function calls
// (sum/count/min/max - the set the result-assembler knows how to
// recombine across shards; anything else, like a window function or an
// unrecognized aggregate, is left out of the plan and the assembler just
// concatenates those columns as-is) and resolves GROUP BY column
// references to their target-list position.
func extractAggregate(targetList, groupClause []*pg_query.Node) route.Aggregate {
	var agg route.Aggregate
	aliasPosition := make(map[string]int, len(targetList))

	for i, item := range targetList {
		position := i + 1
		if item == nil || item.Node == nil {
			continue
		}
		rt, ok := item.Node.(*pg_query.Node_ResTarget)
		if !ok {
			continue
		}
		if rt.ResTarget.Name != "" {
			aliasPosition[rt.ResTarget.Name] = position
		}
		if col, ok := columnRefName(rt.ResTarget.Val); ok {
			aliasPosition[col] = position
		}

		call, ok := valOf(rt.ResTarget.Val).(*pg_query.Node_FuncCall)
		if !ok || len(call.FuncCall.Funcname) == 0 {
			continue
		}
		name := strings.ToLower(stringValue(call.FuncCall.Funcname[len(call.FuncCall.Funcname)-1]))
		if fn, ok := aggregateFuncs[name]; ok {
			agg.Columns = append(agg.Columns, route.AggregateColumn{Position: position, Func: fn})
		}
	}

	for _, item := range groupClause {
		name, ok := columnRefName(item)
		if !ok {
			continue
		}
		if pos, ok := aliasPosition[name]; ok {
			agg.GroupBy = append(agg.GroupBy, pos)
		}
	}

	return agg
}

func valOf(node *pg_query.Node) interface{} {
	if node == nil {
		return nil
	}
	return node.Node
}

// lockingBehavior reports Lock for any row-locking clause (FOR UPDATE, FOR
// NO KEY UPDATE, FOR SHARE, FOR KEY SHARE): all of them require pinning the
// client session to the same backend until the surrounding transaction
// releases the lock, regardless of strength.
func lockingBehavior(s *pg_query.SelectStmt) route.LockingBehavior {
	if len(s.LockingClause) == 0 {
		return route.NoLock
	}
	return route.Lock
}
