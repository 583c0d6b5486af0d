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

// Package tracing wraps a single routing decision in an opentracing span,
// tagged with the outcome, without coupling the routing core to any
// particular tracer backend - the caller supplies the tracer (a mock one
// in tests, a real collector in production; nil means a no-op tracer).
package tracing

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/dolthub/pgshardrouter/route"
)

// SpanRoute starts a child span named "route.statement" under whatever span
// is already in ctx (or a fresh root span if none is), calls resolve, tags
// the span with the outcome, and finishes it before returning.
func SpanRoute(ctx context.Context, tracer opentracing.Tracer, resolve func(context.Context) (route.Route, route.DegradeReason)) (route.Route, route.DegradeReason) {
	span, spanCtx := startSpan(ctx, tracer)
	defer span.Finish()

	rt, reason := resolve(spanCtx)

	span.SetTag("route.shard", rt.ShardTarget().String())
	span.SetTag("route.read", rt.IsRead())
	span.SetTag("route.cross_shard", rt.IsCrossShard())
	span.SetTag("route.should_buffer", rt.ShouldBuffer())
	if reason != route.DegradeNone {
		span.SetTag("route.degraded", string(reason))
	}
	return rt, reason
}

func startSpan(ctx context.Context, tracer opentracing.Tracer) (opentracing.Span, context.Context) {
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	if parent := opentracing.SpanFromContext(ctx); parent != nil {
		span := tracer.StartSpan("route.statement", opentracing.ChildOf(parent.Context()))
		return span, opentracing.ContextWithSpan(ctx, span)
	}
	span := tracer.StartSpan("route.statement")
	return span, opentracing.ContextWithSpan(ctx, span)
}
