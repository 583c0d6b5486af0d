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

// Command routecheck prints the Route a statement would resolve to without
// standing up the surrounding proxy - useful for answering "why did this
// fan out to all shards" against a real config file.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dolthub/pgshardrouter/paramset"
	"github.com/dolthub/pgshardrouter/router"
	"github.com/dolthub/pgshardrouter/shardconf"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var params []string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "routecheck <sql>",
		Short: "Print the Route a statement resolves to",
		Long: `routecheck parses a single SQL statement, resolves it against a sharding
config file, and prints the resulting shard target and post-processing plan.

Example:
  routecheck --config shards.yaml "SELECT * FROM orders WHERE tenant_id = $1" --param 42`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], configPath, params, verbose)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the sharding config YAML file (required)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "bound parameter value, in order; repeatable")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at Debug instead of Info")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func run(cmd *cobra.Command, sql, configPath string, params []string, verbose bool) error {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := shardconf.Load(configPath)
	if err != nil {
		return err
	}
	registry := shardconf.NewRegistry(cfg)

	r := router.New(registry, nil, logrus.NewEntry(log))
	rt, reason, err := r.RouteSQL(cmd.Context(), sql, textParams(params))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, rt.String())
	fmt.Fprintf(out, "cross_shard=%v should_buffer=%v lock_session=%v\n", rt.IsCrossShard(), rt.ShouldBuffer(), rt.LockSession())
	if reason != "" {
		fmt.Fprintf(out, "degraded: %s\n", reason)
	}
	return nil
}

// textParams wraps command-line parameter values as a text-format
// paramset.Vector, matching the simple-query-protocol convention: every
// value arrives as text, never binary.
func textParams(values []string) paramset.Vector {
	vec := make(paramset.Vector, len(values))
	for i, v := range values {
		vec[i] = paramset.Param{Raw: []byte(v), Format: paramset.FormatText}
	}
	return vec
}
