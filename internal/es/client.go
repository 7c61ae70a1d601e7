// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.uber.org/zap"
)

// New creates a new Elasticsearch client. Transport-level retries are
// disabled: one invocation maps to one request.
func New(opts Options) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses:    opts.Addresses,
		APIKey:       opts.APIKey,
		Username:     opts.Username,
		Password:     opts.Password,
		DisableRetry: true,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}

	return &Client{
		es:     es,
		pretty: opts.Pretty,
		logger: logger.Named("es"),
	}, nil
}

// Ping checks if Elasticsearch is reachable
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping ES: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("ES ping failed: %s", res.Status())
	}

	return nil
}

// WaitReady pings until the cluster answers or maxWait elapses. Each ping is
// bounded by pingTimeout.
func (c *Client) WaitReady(ctx context.Context, maxWait, pingTimeout time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxWait

	attempt := 0
	op := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return c.Ping(pingCtx)
	}
	notify := func(err error, next time.Duration) {
		c.logger.Debug("elasticsearch not ready",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", next),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("elasticsearch not ready after %s: %w", maxWait, err)
	}
	c.logger.Debug("elasticsearch ready", zap.Int("attempts", attempt))
	return nil
}

// NewBulkIndexer returns a streaming bulk indexer writing into index.
func (c *Client) NewBulkIndexer(index string, workers int, flushInterval time.Duration) (esutil.BulkIndexer, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        c.es,
		Index:         index,
		NumWorkers:    workers,
		FlushInterval: flushInterval,
		OnError: func(_ context.Context, err error) {
			c.logger.Warn("bulk indexer error", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk indexer: %w", err)
	}
	return bi, nil
}

// finish drains an esapi response into a Response.
func (c *Client) finish(method, path string, start time.Time, res *esapi.Response, err error) (*Response, error) {
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return c.collect(method, path, start, res.StatusCode, res.Body)
}

func (c *Client) collect(method, path string, start time.Time, status int, body io.ReadCloser) (*Response, error) {
	var data []byte
	if body != nil {
		defer body.Close()
		var err error
		data, err = io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("read response for %s %s: %w", method, path, err)
		}
	}

	res := &Response{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       data,
		Took:       time.Since(start),
	}
	c.logger.Debug("elasticsearch response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Int("bytes", len(data)),
		zap.Duration("took", res.Took))
	return res, nil
}

// perform sends a request outside the typed API, for arbitrary paths.
func (c *Client) perform(req *http.Request) (*http.Response, error) {
	return c.es.Transport.Perform(req)
}
