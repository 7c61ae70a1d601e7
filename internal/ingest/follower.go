// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package ingest streams documents appended to an NDJSON file into
// Elasticsearch through a bulk indexer.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/nxadm/tail"
	"go.uber.org/zap"

	"github.com/elastic/escmd/internal/es"
)

// Config holds follower configuration
type Config struct {
	File   string
	Offset int64 // Start reading here; bytes before it were already indexed
	// CloseTimeout bounds the final flush once the context is cancelled.
	CloseTimeout time.Duration
}

// Stats counts what the follower did.
type Stats struct {
	Lines   uint64 `json:"lines"`
	Indexed uint64 `json:"indexed"`
	Failed  uint64 `json:"failed"`
	Skipped uint64 `json:"skipped"`
}

// Follower tails one file and feeds each new line to a bulk indexer.
type Follower struct {
	cfg    Config
	bi     esutil.BulkIndexer
	logger *zap.Logger

	lines   atomic.Uint64
	indexed atomic.Uint64
	failed  atomic.Uint64
	skipped atomic.Uint64
}

// New creates a Follower. The bulk indexer already knows the target index.
func New(cfg Config, bi esutil.BulkIndexer, logger *zap.Logger) *Follower {
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Follower{cfg: cfg, bi: bi, logger: logger.Named("ingest")}
}

// Run follows the file until ctx is cancelled, then flushes the indexer.
func (f *Follower) Run(ctx context.Context) (Stats, error) {
	t, err := tail.TailFile(f.cfg.File, tail.Config{
		Follow:    true,
		ReOpen:    true,  // Handle file rotation
		MustExist: false, // Allow watching files that don't exist yet
		Poll:      true,  // Use polling (more reliable across filesystems)
		Location:  &tail.SeekInfo{Offset: f.cfg.Offset, Whence: io.SeekStart},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return f.Stats(), fmt.Errorf("failed to tail %s: %w", f.cfg.File, err)
	}
	defer t.Cleanup()

	f.logger.Debug("following file", zap.String("file", f.cfg.File), zap.Int64("offset", f.cfg.Offset))

	runErr := f.consume(ctx, t)
	_ = t.Stop()

	closeCtx, cancel := context.WithTimeout(context.Background(), f.cfg.CloseTimeout)
	defer cancel()
	if err := f.bi.Close(closeCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush bulk indexer: %w", err)
	}
	return f.Stats(), runErr
}

func (f *Follower) consume(ctx context.Context, t *tail.Tail) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				f.logger.Warn("read error", zap.String("file", f.cfg.File), zap.Error(line.Err))
				continue
			}
			if err := f.handle(ctx, line.Num, []byte(line.Text)); err != nil {
				return err
			}
		}
	}
}

func (f *Follower) handle(ctx context.Context, num int, text []byte) error {
	doc := bytes.TrimSpace(text)
	if len(doc) == 0 {
		return nil
	}
	f.lines.Add(1)

	if err := es.ValidateDocument(doc); err != nil {
		f.skipped.Add(1)
		f.logger.Warn("skipping line", zap.Int("line", num), zap.Error(err))
		return nil
	}

	err := f.bi.Add(ctx, esutil.BulkIndexerItem{
		Action: "index",
		Body:   bytes.NewReader(doc),
		OnSuccess: func(context.Context, esutil.BulkIndexerItem, esutil.BulkIndexerResponseItem) {
			f.indexed.Add(1)
		},
		OnFailure: func(_ context.Context, _ esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			f.failed.Add(1)
			if err != nil {
				f.logger.Warn("document rejected", zap.Error(err))
				return
			}
			f.logger.Warn("document rejected",
				zap.Int("status", res.Status),
				zap.String("type", res.Error.Type),
				zap.String("reason", res.Error.Reason))
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("queue document: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the counters.
func (f *Follower) Stats() Stats {
	return Stats{
		Lines:   f.lines.Load(),
		Indexed: f.indexed.Load(),
		Failed:  f.failed.Load(),
		Skipped: f.skipped.Load(),
	}
}
