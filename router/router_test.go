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

package router_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/pgshardrouter/paramset"
	"github.com/dolthub/pgshardrouter/route"
	"github.com/dolthub/pgshardrouter/router"
	"github.com/dolthub/pgshardrouter/shardconf"
)

func newTestRouter() *router.Router {
	cfg := &shardconf.Config{Tables: map[string]shardconf.Table{
		"orders": {Column: "tenant_id", NumShards: 4, HashFn: "murmur3", NullShard: 0},
	}}
	return router.New(shardconf.NewRegistry(cfg), nil, nil)
}

func TestRouteSQLSelectWithBoundParameter(t *testing.T) {
	r := newTestRouter()
	params := paramset.Vector{{Raw: []byte("acme"), Format: paramset.FormatText}}

	rt, reason, err := r.RouteSQL(context.Background(), "SELECT * FROM orders WHERE tenant_id = $1", params)
	require.NoError(t, err)
	require.Equal(t, route.DegradeNone, reason)
	require.False(t, rt.IsCrossShard())
	require.True(t, rt.IsRead())
}

func TestRouteSQLUpdateIsWrite(t *testing.T) {
	r := newTestRouter()
	params := paramset.Vector{{Raw: []byte("acme"), Format: paramset.FormatText}}

	rt, _, err := r.RouteSQL(context.Background(), "UPDATE orders SET status = 'closed' WHERE tenant_id = $1", params)
	require.NoError(t, err)
	require.True(t, rt.IsWrite())
}

func TestRouteSQLUnshardedTableRoutesDirect(t *testing.T) {
	r := newTestRouter()
	rt, reason, err := r.RouteSQL(context.Background(), "SELECT * FROM plans WHERE id = 1", nil)
	require.NoError(t, err)
	require.Equal(t, route.DegradeNone, reason)
	require.False(t, rt.IsCrossShard())
}

func TestRouteSQLNoWhereClauseDegradesToAll(t *testing.T) {
	r := newTestRouter()
	rt, reason, err := r.RouteSQL(context.Background(), "SELECT * FROM orders", nil)
	require.NoError(t, err)
	require.Equal(t, route.DegradeNoKeys, reason)
	require.True(t, rt.IsAllShards())
}

func TestRouteSQLOrderByAndLimitArePreserved(t *testing.T) {
	r := newTestRouter()
	rt, _, err := r.RouteSQL(context.Background(), "SELECT * FROM orders WHERE tenant_id = 'acme' ORDER BY id DESC LIMIT 10", nil)
	require.NoError(t, err)
	require.Len(t, rt.OrderBy(), 1)
	require.Equal(t, route.Descending, rt.OrderBy()[0].Dir)
	require.True(t, rt.Limit().Set())
	require.Equal(t, 10, rt.Limit().Count)
}

func TestRouteSQLSelectForUpdateLocksSession(t *testing.T) {
	r := newTestRouter()
	rt, _, err := r.RouteSQL(context.Background(), "SELECT * FROM orders WHERE tenant_id = 'acme' FOR UPDATE", nil)
	require.NoError(t, err)
	require.True(t, rt.LockSession())
}

func TestRouteSQLParseErrorSurfaces(t *testing.T) {
	r := newTestRouter()
	_, _, err := r.RouteSQL(context.Background(), "SELEC * FROM orders", nil)
	require.Error(t, err)
}

func TestRouteSQLDDLDegradesToAllWithoutError(t *testing.T) {
	r := newTestRouter()
	rt, reason, err := r.RouteSQL(context.Background(), "CREATE TABLE foo (id int)", nil)
	require.NoError(t, err)
	require.Equal(t, route.DegradeNone, reason)
	require.True(t, rt.IsAllShards())
}
