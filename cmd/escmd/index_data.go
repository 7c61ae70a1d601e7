// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elastic/escmd/internal/config"
	"github.com/elastic/escmd/internal/es"
	"github.com/elastic/escmd/internal/ingest"
)

type indexDataOptions struct {
	index  string
	data   string
	follow bool
}

func newIndexDataCmd() *cobra.Command {
	var opts indexDataOptions

	cmd := &cobra.Command{
		Use:   "index-data",
		Short: "Index a JSON document or an NDJSON file",
		Long: `Indexes the contents of a data file into an index.

A file holding a single JSON object is sent as one document. Any other file
is read as NDJSON, one object per line, and sent through the bulk API.

With --follow the file keeps being tailed after the initial load and every
appended line is indexed until interrupted.

Examples:
  escmd index-data --index=docs --data=doc.json
  escmd index-data --index=logs --data=app.ndjson --follow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexData(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.index, "index", "", "Target index")
	cmd.Flags().StringVar(&opts.data, "data", "", "Path to a JSON or NDJSON data file")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Keep indexing lines appended to the data file")
	cmd.Flags().Duration("flush-interval", config.DefaultFlushInterval, "Bulk flush interval in follow mode (env: ESCMD_INGEST_FLUSH_INTERVAL)")
	cmd.Flags().Int("workers", config.DefaultWorkers, "Bulk workers in follow mode (env: ESCMD_INGEST_WORKERS)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runIndexData(cmd *cobra.Command, opts indexDataOptions) error {
	payload, err := es.ReadPayload(opts.data)
	if err != nil && !(opts.follow && errors.Is(err, es.ErrEmptyPayload)) {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	var offset int64
	if payload != nil {
		if _, err := s.dispatch(ctx, "index-data", func(ctx context.Context) (*es.Response, error) {
			return s.client.IndexPayload(ctx, opts.index, payload)
		}); err != nil {
			return err
		}
		s.relax(ctx, opts.index)
		offset = payload.Size
	}

	if !opts.follow {
		return nil
	}
	return followData(ctx, s, opts, offset)
}

func followData(parent context.Context, s *session, opts indexDataOptions, offset int64) error {
	bi, err := s.client.NewBulkIndexer(opts.index, s.cfg.Ingest.Workers, s.cfg.Ingest.FlushInterval)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("following data file", zap.String("file", opts.data), zap.String("index", opts.index))
	follower := ingest.New(ingest.Config{File: opts.data, Offset: offset}, bi, s.logger)
	stats, err := follower.Run(ctx)
	if err != nil {
		return err
	}

	s.relax(parent, opts.index)
	fmt.Fprintf(s.errOut, "followed %s: %d indexed, %d failed, %d skipped\n",
		opts.data, stats.Indexed, stats.Failed, stats.Skipped)
	if stats.Failed > 0 {
		return fmt.Errorf("%d document(s) rejected while following %s", stats.Failed, opts.data)
	}
	return nil
}
