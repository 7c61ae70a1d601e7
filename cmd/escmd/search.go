// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/elastic/escmd/internal/es"
)

func newSearchCmd() *cobra.Command {
	var req es.SearchRequest

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a match query against one field",
		Long: `Runs {"query":{"match":{<field>:<query>}}} against an index and prints
the raw search response.

Example:
  escmd search --index=docs --field=title --query="quick fox"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			_, err = s.dispatch(cmd.Context(), "search", func(ctx context.Context) (*es.Response, error) {
				return s.client.Search(ctx, req)
			})
			return err
		},
	}

	cmd.Flags().StringVar(&req.Index, "index", "", "Index to search")
	cmd.Flags().StringVar(&req.Field, "field", "", "Field to match against")
	cmd.Flags().StringVar(&req.Query, "query", "", "Text to match")
	cmd.Flags().IntVar(&req.Size, "size", 0, "Maximum hits to return (0 keeps the server default)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
