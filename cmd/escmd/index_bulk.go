// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/elastic/escmd/internal/es"
)

func newIndexBulkDataCmd() *cobra.Command {
	var req es.BulkRequest

	cmd := &cobra.Command{
		Use:   "index-bulk-data",
		Short: "Send a file in _bulk format as is",
		Long: `Sends a file that is already in bulk action/source format to the _bulk API.
--index sets the default index for actions that do not name one.

Example:
  escmd index-bulk-data --data=actions.ndjson --index=docs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			if _, err := s.dispatch(ctx, "index-bulk-data", func(ctx context.Context) (*es.Response, error) {
				return s.client.IndexBulkData(ctx, req)
			}); err != nil {
				return err
			}
			s.relax(ctx, req.Index)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.DataFile, "data", "", "Path to a bulk NDJSON file")
	cmd.Flags().StringVar(&req.Index, "index", "", "Default index for the bulk actions")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
