// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/elastic/escmd/internal/es"
)

func newGetCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "GET an arbitrary Elasticsearch path",
		Long: `Sends GET /<path> and prints the response. The leading slash is optional
and query strings are kept. An empty path returns cluster info.

Examples:
  escmd get --path=_cluster/health
  escmd get --path="_cat/indices?v"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			s.relax(ctx, "")
			_, err = s.dispatch(ctx, "get", func(ctx context.Context) (*es.Response, error) {
				return s.client.Get(ctx, path)
			})
			return err
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Request path, e.g. _cluster/health")
	return cmd
}
