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

package shardconf

import "sync/atomic"

// Registry holds the current Config behind an atomic pointer so that
// config reloads never block, or are ever observed half-written by, a
// routing call in flight (§5 "sharing discipline"). Each routing call
// should take a single Snapshot() at entry and use that reference for the
// whole statement, rather than calling Snapshot() repeatedly.
type Registry struct {
	current atomic.Pointer[Config]
}

// NewRegistry builds a Registry seeded with an initial Config. Passing nil
// is valid: every table is treated as unsharded until Store is called.
func NewRegistry(initial *Config) *Registry {
	r := &Registry{}
	if initial == nil {
		initial = &Config{}
	}
	r.current.Store(initial)
	return r
}

// Snapshot returns the currently active Config. Safe for concurrent use
// from any number of statement-handling goroutines.
func (r *Registry) Snapshot() *Config {
	return r.current.Load()
}

// Store atomically swaps in a new Config, e.g. after a config file reload.
// In-flight routing calls keep using the snapshot they already captured.
func (r *Registry) Store(cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	r.current.Store(cfg)
}
