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

package route_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/pgshardrouter/route"
)

func TestRouteIsReadIsWriteAreComplementary(t *testing.T) {
	r := route.Read(route.DirectShard(0))
	require.True(t, r.IsRead())
	require.False(t, r.IsWrite())

	w := route.Write(route.DirectShard(0))
	require.False(t, w.IsRead())
	require.True(t, w.IsWrite())
}

func TestRouteIsCrossShard(t *testing.T) {
	require.False(t, route.Read(route.DirectShard(0)).IsCrossShard())
	require.True(t, route.Read(route.AllShards).IsCrossShard())
	require.True(t, route.Read(route.MultiShard([]int{1, 2})).IsCrossShard())
}

func TestRouteShouldBuffer(t *testing.T) {
	plain := route.Read(route.AllShards)
	require.False(t, plain.ShouldBuffer())

	ordered := route.Select(route.AllShards, []route.OrderBy{route.ByName("id", route.Ascending, route.NullsLast)}, route.Aggregate{}, route.Limit{}, nil)
	require.True(t, ordered.ShouldBuffer())

	distinct := route.Select(route.AllShards, nil, route.Aggregate{}, route.Limit{}, &route.DistinctBy{})
	require.True(t, distinct.ShouldBuffer())

	aggregated := route.Select(route.AllShards, nil, route.Aggregate{Columns: []route.AggregateColumn{{Position: 1, Func: route.AggSum}}}, route.Limit{}, nil)
	require.True(t, aggregated.ShouldBuffer())
}

func TestRouteSetShardOverridesTarget(t *testing.T) {
	r := route.Read(route.AllShards).SetShard(3)
	require.Equal(t, 3, r.ShardTarget().Index())
}

func TestRouteSetWriteAppliesLockingBehavior(t *testing.T) {
	r := route.Read(route.DirectShard(0)).SetWrite(route.FunctionBehavior{Writes: true, Locking: route.Lock})
	require.True(t, r.IsWrite())
	require.True(t, r.LockSession())

	r2 := route.Read(route.DirectShard(0)).SetWrite(route.FunctionBehavior{Writes: false, Locking: route.NoLock})
	require.True(t, r2.IsRead())
	require.False(t, r2.LockSession())
}

func TestRouteString(t *testing.T) {
	r := route.Read(route.DirectShard(1))
	require.Equal(t, "shard=1, role=replica", r.String())
	w := route.Write(route.DirectShard(1))
	require.Equal(t, "shard=1, role=primary", w.String())
}
