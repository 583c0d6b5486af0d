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

import "fmt"

// Route is the Route Builder's product (§4.4): the path a statement
// should take, and any transformations that should be applied along the
// way. A Route is immutable once returned to the dispatcher - the setters
// below exist for intra-builder composition only (§3 "Lifecycle").
type Route struct {
	shard       Shard
	read        bool
	lockSession bool
	orderBy     []OrderBy
	aggregate   Aggregate
	limit       Limit
	distinct    *DistinctBy
}

// Select builds a read Route for a SELECT statement, carrying whatever
// post-processing directives the rest of statement analysis produced.
func Select(shard Shard, orderBy []OrderBy, aggregate Aggregate, limit Limit, distinct *DistinctBy) Route {
	return Route{
		shard:     shard,
		read:      true,
		orderBy:   orderBy,
		aggregate: aggregate,
		limit:     limit,
		distinct:  distinct,
	}
}

// Read builds a Route for a statement eligible to hit a replica, with no
// post-processing.
func Read(shard Shard) Route {
	return Route{shard: shard, read: true}
}

// Write builds a Route for a statement that must hit the primary, with no
// post-processing and lock_session defaulted to false.
func Write(shard Shard) Route {
	return Route{shard: shard, read: false}
}

// IsRead reports whether this Route may be served by a replica.
func (r Route) IsRead() bool {
	return r.read
}

// IsWrite is the complement of IsRead (§8 "Reflexivity of Route").
func (r Route) IsWrite() bool {
	return !r.read
}

// ShardTarget returns the resolved shard target.
func (r Route) ShardTarget() Shard {
	return r.shard
}

// IsAllShards reports whether this Route fans out to every shard.
func (r Route) IsAllShards() bool {
	return r.shard.Kind == ShardAll
}

// IsMultiShard reports whether this Route targets a specific subset of
// more than one shard.
func (r Route) IsMultiShard() bool {
	return r.shard.Kind == ShardMulti
}

// IsCrossShard reports whether this Route touches more than one shard,
// whether via All or Multi. A statement can be cross-shard without
// requiring buffered assembly - see ShouldBuffer.
func (r Route) IsCrossShard() bool {
	return r.IsAllShards() || r.IsMultiShard()
}

// OrderBy returns the ordered sort-key sequence, if any.
func (r Route) OrderBy() []OrderBy {
	return r.orderBy
}

// AggregatePlan returns the per-result-column combine plan, if any.
func (r Route) AggregatePlan() Aggregate {
	return r.aggregate
}

// Limit returns the optional (offset, count) pair.
func (r Route) Limit() Limit {
	return r.limit
}

// Distinct returns the optional distinct-by column set.
func (r Route) Distinct() *DistinctBy {
	return r.distinct
}

// LockSession reports whether subsequent statements on this client
// session must pin to the same backend until released.
func (r Route) LockSession() bool {
	return r.lockSession
}

// ShouldBuffer reports whether results from multiple shards must be
// assembled in memory rather than streamed straight through (§3
// invariant, §4.4 "Derived predicate"): true iff order_by, aggregate, or
// distinct is non-empty.
func (r Route) ShouldBuffer() bool {
	return len(r.orderBy) > 0 || !r.aggregate.Empty() || r.distinct != nil
}

// SetShard overrides the shard target to Direct(i), the way a shard-hint
// SQL comment annotation (a surrounding concern, §4.4) would.
func (r Route) SetShard(i int) Route {
	r.shard = DirectShard(i)
	return r
}

// SetRead overrides the read/write intent directly.
func (r Route) SetRead(read bool) Route {
	r.read = read
	return r
}

// SetWrite applies a FunctionBehavior: read becomes !writes, and
// lock_session is set iff the function is declared locking (§4.4).
func (r Route) SetWrite(behavior FunctionBehavior) Route {
	r.read = !behavior.Writes
	r.lockSession = behavior.Locking == Lock
	return r
}

// SetLockSession idempotently sets the lock_session flag.
func (r Route) SetLockSession() Route {
	r.lockSession = true
	return r
}

func (r Route) String() string {
	role := "primary"
	if r.read {
		role = "replica"
	}
	return fmt.Sprintf("shard=%s, role=%s", r.shard, role)
}
