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

package tracing_test

import (
	"context"
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/pgshardrouter/route"
	"github.com/dolthub/pgshardrouter/tracing"
)

func TestSpanRouteTagsOutcome(t *testing.T) {
	tracer := mocktracer.New()

	rt, reason := tracing.SpanRoute(context.Background(), tracer, func(ctx context.Context) (route.Route, route.DegradeReason) {
		return route.Read(route.AllShards), route.DegradeNoKeys
	})

	require.True(t, rt.IsAllShards())
	require.Equal(t, route.DegradeNoKeys, reason)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "route.statement", spans[0].OperationName)
	require.Equal(t, "all", spans[0].Tag("route.shard"))
	require.Equal(t, "no_keys", spans[0].Tag("route.degraded"))
}

func TestSpanRouteWithNilTracerUsesNoop(t *testing.T) {
	rt, _ := tracing.SpanRoute(context.Background(), nil, func(ctx context.Context) (route.Route, route.DegradeReason) {
		return route.Read(route.DirectShard(2)), route.DegradeNone
	})
	require.Equal(t, 2, rt.ShardTarget().Index())
}
