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

// Package router is the Route Builder (§4.4): it ties the Predicate
// Extractor, Sharding-Key Resolver, and Shard Mapper together against a
// live configuration snapshot and a single parsed statement, producing the
// Route a dispatcher actually sends downstream. Everything it touches is
// designed to degrade to All rather than return an error - the one
// exception is a statement that fails to parse at all, which the caller
// can't route no matter what this package does.
package router

import (
	"context"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/pgshardrouter/metrics"
	"github.com/dolthub/pgshardrouter/paramset"
	"github.com/dolthub/pgshardrouter/route"
	"github.com/dolthub/pgshardrouter/shardconf"
)

// Router resolves Routes against a live shardconf.Registry, recording
// outcomes to an optional metrics.Recorder and logging degradations at
// Debug (never Info/Warn - fan-out is expected, not a fault, per the
// router's logging convention).
type Router struct {
	registry *shardconf.Registry
	metrics  *metrics.Recorder
	log      *logrus.Entry
}

// New builds a Router. rec and log may be nil; a nil log falls back to the
// standard logger, a nil rec simply skips metric recording.
func New(registry *shardconf.Registry, rec *metrics.Recorder, log *logrus.Entry) *Router {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Router{registry: registry, metrics: rec, log: log}
}

// RouteSQL parses a single SQL statement and resolves a Route for it. A
// parse failure is the one case this package surfaces as a Go error - once
// parsed, routing itself never fails (§7).
func (r *Router) RouteSQL(ctx context.Context, sql string, params paramset.Vector) (route.Route, route.DegradeReason, error) {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return route.Route{}, route.DegradeNone, errors.Wrap(err, "router: parsing statement")
	}
	if len(result.Stmts) == 0 {
		return route.Route{}, route.DegradeNone, errors.New("router: statement produced no parse tree")
	}
	rt, reason := r.RouteStmt(ctx, result.Stmts[0].Stmt, params)
	return rt, reason, nil
}

// RouteStmt resolves a Route for an already-parsed top-level statement
// node. Statement kinds this package doesn't classify (DDL, COPY, and
// other utility statements) route to All with DegradeNone: there is no
// sharding column to resolve against, which is not the same thing as a
// failure (§8 "no WHERE clause" universal invariant, generalized).
func (r *Router) RouteStmt(ctx context.Context, stmt *pg_query.Node, params paramset.Vector) (route.Route, route.DegradeReason) {
	a, ok := analyze(stmt)
	if !ok {
		rt := route.Read(route.AllShards)
		r.observe(rt, route.DegradeNone)
		return rt, route.DegradeNone
	}

	cfg := r.registry.Snapshot()
	table, hasTable := cfg.Lookup(a.table)

	var result route.MapResult
	if !hasTable {
		// Unsharded table: every statement against it is a single logical
		// shard 0 by convention, not a fan-out (§6 "unsharded" note).
		result = route.MapResult{Shard: route.DirectShard(0), Reason: route.DegradeNone}
	} else {
		extraction := route.Extract(a.where, a.table)
		keys := extraction.Keys(a.table, table.Column)
		result = route.Map(keys, params, table)
	}

	var rt route.Route
	if a.isSelect {
		rt = route.Select(result.Shard, a.orderBy, a.aggregate, a.limit, a.distinct)
	} else {
		rt = route.Write(result.Shard)
	}
	rt = rt.SetWrite(a.behavior)

	if result.Reason != route.DegradeNone {
		r.log.WithField("reason", string(result.Reason)).Debug("route degraded to all shards")
	}
	r.log.WithField("route", rt.String()).Trace("resolved route")
	r.observe(rt, result.Reason)

	return rt, result.Reason
}

func (r *Router) observe(rt route.Route, reason route.DegradeReason) {
	if r.metrics != nil {
		r.metrics.ObserveRoute(rt, reason)
	}
}
