// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/elastic/escmd/internal/es"
)

func newDeleteCmd() *cobra.Command {
	var index string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an index",
		Long: `Sends DELETE /<index> and prints the acknowledgement. A missing index
exits with code 4 and the error body is still printed.

Example:
  escmd delete --index=docs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			_, err = s.dispatch(cmd.Context(), "delete", func(ctx context.Context) (*es.Response, error) {
				return s.client.Delete(ctx, index)
			})
			return err
		},
	}

	cmd.Flags().StringVar(&index, "index", "", "Index to delete")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}
