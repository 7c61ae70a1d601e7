// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/elastic/escmd/internal/config"
	"github.com/elastic/escmd/internal/logging"
)

// newRootCmd builds the full command tree. Commands are constructed per call
// so flag state never leaks between executions.
func newRootCmd() *cobra.Command {
	var profileFlag string

	root := &cobra.Command{
		Use:   "escmd",
		Short: "Send one command to Elasticsearch and print the raw response",
		Long: `escmd dispatches a single request to a local (or profile-selected)
Elasticsearch cluster and writes the response body to stdout unchanged.

Examples:
  escmd index-data --index=docs --data=docs.ndjson
  escmd search --index=docs --field=title --query=hello
  escmd get --path=_cluster/health
  escmd delete --index=docs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd, profileFlag)
			if err != nil {
				return err
			}
			if _, err := logging.Setup(cfg.Log.Verbose); err != nil {
				return err
			}
			cmd.SetContext(config.WithContext(cmd.Context(), cfg))
			return nil
		},
	}

	// Global flags (Viper precedence: flags > env > profile > defaults)
	pf := root.PersistentFlags()
	pf.StringVar(&profileFlag, "profile", "", "Configuration profile to use for this invocation")
	pf.String("es-url", config.DefaultESURL, "Elasticsearch URL (env: ESCMD_ES_URL)")
	pf.String("api-key", "", "Elasticsearch API key (env: ESCMD_ES_API_KEY)")
	pf.String("username", "", "Elasticsearch username (env: ESCMD_ES_USERNAME)")
	pf.String("password", "", "Elasticsearch password (env: ESCMD_ES_PASSWORD)")
	pf.Duration("timeout", config.DefaultTimeout, "Request timeout (env: ESCMD_ES_TIMEOUT)")
	pf.Duration("ping-timeout", config.DefaultPingTimeout, "Single readiness ping timeout (env: ESCMD_ES_PING_TIMEOUT)")
	pf.Duration("wait", 0, "Wait up to this long for Elasticsearch to answer before sending (env: ESCMD_ES_WAIT)")
	pf.String("mode", config.DefaultMode, "Cluster mode, dev relaxes replicas on a single node (env: ESCMD_ES_MODE)")
	pf.String("pretty", config.DefaultPretty, "Pretty-print responses: auto, true or false (env: ESCMD_OUTPUT_PRETTY)")
	pf.Lookup("pretty").NoOptDefVal = config.PrettyTrue
	pf.BoolP("verbose", "v", false, "Log diagnostics to stderr (env: ESCMD_LOG_VERBOSE)")
	pf.String("otlp", "", "OTLP HTTP endpoint for the command audit log (env: ESCMD_OTLP_ENDPOINT)")
	pf.Bool("otlp-insecure", true, "Use plain HTTP for OTLP (env: ESCMD_OTLP_INSECURE)")

	root.AddCommand(
		newIndexDataCmd(),
		newIndexBulkDataCmd(),
		newSearchCmd(),
		newGetCmd(),
		newDeleteCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}
