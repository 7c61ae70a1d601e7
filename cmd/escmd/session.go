// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elastic/escmd/internal/config"
	"github.com/elastic/escmd/internal/es"
	"github.com/elastic/escmd/internal/otlp"
)

// session holds what one dispatched command needs: the resolved config, an
// Elasticsearch client and the optional audit exporter.
type session struct {
	cfg    config.Config
	client *es.Client
	audit  *otlp.Client
	logger *zap.Logger
	out    io.Writer
	errOut io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, ok := config.FromContext(cmd.Context())
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}

	out := cmd.OutOrStdout()
	logger := zap.L()
	client, err := es.New(es.Options{
		Addresses: []string{cfg.ES.URL},
		APIKey:    cfg.ES.APIKey,
		Username:  cfg.ES.Username,
		Password:  cfg.ES.Password,
		Pretty:    resolvePretty(cfg.Output.Pretty, out),
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, client: client, logger: logger, out: out, errOut: cmd.ErrOrStderr()}

	if cfg.OTLP.Endpoint != "" {
		audit, err := otlp.New(cmd.Context(), otlp.Config{
			Endpoint: cfg.OTLP.Endpoint,
			Insecure: cfg.OTLP.Insecure,
			Version:  version,
		})
		if err != nil {
			// Auditing is best effort; the command still runs.
			logger.Warn("otlp audit disabled", zap.Error(err))
		} else {
			logger.Debug("otlp audit enabled", zap.String("endpoint", audit.Endpoint()))
			s.audit = audit
		}
	}

	if cfg.ES.Wait > 0 {
		if err := client.WaitReady(cmd.Context(), cfg.ES.Wait, cfg.ES.PingTimeout); err != nil {
			s.close()
			return nil, fmt.Errorf("%w\nIs Elasticsearch running at %s?", err, cfg.ES.URL)
		}
	}
	return s, nil
}

// dispatch runs one request under the configured timeout, prints whatever
// body came back and records the outcome.
func (s *session) dispatch(ctx context.Context, command string, call func(context.Context) (*es.Response, error)) (*es.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.ES.Timeout)
	defer cancel()

	start := time.Now()
	res, err := call(reqCtx)
	if res != nil {
		if werr := writeBody(s.out, res.Body); werr != nil && err == nil {
			err = werr
		}
	}
	s.record(ctx, command, start, res, err)
	return res, err
}

func (s *session) record(ctx context.Context, command string, start time.Time, res *es.Response, err error) {
	ev := otlp.Event{
		Command:  command,
		Duration: time.Since(start),
		Hits:     -1,
		Err:      err,
	}
	if res != nil {
		ev.Method = res.Method
		ev.Path = res.Path
		ev.Status = res.StatusCode
		if command == "search" {
			ev.Hits = es.Summarize(res.Body).Hits
		}
	}

	fields := []zap.Field{zap.String("command", command), zap.Duration("took", ev.Duration)}
	if res != nil {
		fields = append(fields, zap.Int("status", res.StatusCode))
	}
	if err != nil {
		var upstream *es.UpstreamError
		if errors.As(err, &upstream) {
			fields = append(fields, zap.String("detail", upstream.Detail()))
		}
		s.logger.Debug("command failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Debug("command done", fields...)
	}

	if s.audit != nil {
		s.audit.Record(ctx, ev)
	}
}

// relax applies dev-mode replica relaxation. Failures never fail the command.
func (s *session) relax(ctx context.Context, index string) {
	if !s.cfg.IsDev() {
		return
	}
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.ES.Timeout)
	defer cancel()
	if err := s.client.RelaxReplicas(reqCtx, index); err != nil {
		s.logger.Warn("could not relax replicas", zap.String("index", index), zap.Error(err))
	}
}

func (s *session) close() {
	if s.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.audit.Close(ctx); err != nil {
		s.logger.Debug("otlp flush failed", zap.Error(err))
	}
}
