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

// Package metrics exposes the counters a dispatcher scrapes to answer "how
// often are we fanning out" and "why did this degrade" - the one piece of
// observability the routing core owns directly (§7's "a separate
// observability concern"). Recording a route never affects the route
// itself; a nil Recorder is always safe to call into.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dolthub/pgshardrouter/route"
)

// Recorder records routing outcomes against a set of prometheus counters.
// The zero value is not usable; construct one with NewRecorder.
type Recorder struct {
	routesTotal   *prometheus.CounterVec
	degradedTotal *prometheus.CounterVec
}

// NewRecorder builds a Recorder with its counters registered against reg.
// Passing prometheus.DefaultRegisterer matches the common case of a single
// process-wide registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		routesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pgshardrouter",
			Name:      "routes_total",
			Help:      "Routes resolved, partitioned by the shard target kind.",
		}, []string{"shard_kind"}),
		degradedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pgshardrouter",
			Name:      "degraded_total",
			Help:      "Routes that fell back to All, partitioned by the reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(r.routesTotal, r.degradedTotal)
	return r
}

// shardKindLabel matches route.Shard's three variants to a label value.
func shardKindLabel(s route.Shard) string {
	switch {
	case s.Multi():
		return "multi"
	case s.All():
		return "all"
	default:
		return "direct"
	}
}

// ObserveRoute increments routes_total for the resolved Route, and
// degraded_total if it fell back to All for reason.
func (r *Recorder) ObserveRoute(rt route.Route, reason route.DegradeReason) {
	if r == nil {
		return
	}
	r.routesTotal.WithLabelValues(shardKindLabel(rt.ShardTarget())).Inc()
	if reason != route.DegradeNone {
		r.degradedTotal.WithLabelValues(string(reason)).Inc()
	}
}
