// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package otlp exports one audit log record per dispatched command.
package otlp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Client sends command audit records to an OTLP endpoint
type Client struct {
	provider *sdklog.LoggerProvider
	logger   log.Logger
	endpoint string
}

// Config holds OTLP client configuration
type Config struct {
	Endpoint    string // OTLP HTTP endpoint, e.g. localhost:4318
	ServiceName string
	Version     string
	Insecure    bool // Use HTTP instead of HTTPS
}

// Event describes one dispatched command.
type Event struct {
	Command  string
	Method   string
	Path     string
	Status   int // 0 when Elasticsearch never answered
	Duration time.Duration
	Hits     int64 // -1 when not a search
	Err      error
}

// New creates a new OTLP client
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("otlp endpoint is required")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "escmd"
	}

	opts := []otlploghttp.Option{
		otlploghttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}

	exporter, err := otlploghttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.Version))
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, attrs...)

	// Simple processor: a CLI run emits a single record and exits.
	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)),
		sdklog.WithResource(res),
	)

	return &Client{
		provider: provider,
		logger:   provider.Logger("escmd"),
		endpoint: cfg.Endpoint,
	}, nil
}

// Endpoint returns the configured collector endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Record emits ev as a log record.
func (c *Client) Record(ctx context.Context, ev Event) {
	c.logger.Emit(ctx, buildRecord(ev, time.Now()))
}

// Close flushes and shuts down the exporter.
func (c *Client) Close(ctx context.Context) error {
	return c.provider.Shutdown(ctx)
}

func buildRecord(ev Event, now time.Time) log.Record {
	var record log.Record
	record.SetTimestamp(now.Add(-ev.Duration))
	record.SetObservedTimestamp(now)

	severity := severityFor(ev)
	record.SetSeverity(severity)
	record.SetSeverityText(severity.String())
	record.SetBody(log.StringValue(eventMessage(ev)))
	record.AddAttributes(eventAttributes(ev)...)
	return record
}

func eventMessage(ev Event) string {
	if ev.Err != nil {
		return fmt.Sprintf("%s failed: %v", ev.Command, ev.Err)
	}
	return fmt.Sprintf("%s %s %s -> %d", ev.Command, ev.Method, ev.Path, ev.Status)
}

func eventAttributes(ev Event) []log.KeyValue {
	attrs := []log.KeyValue{
		log.String("escmd.command", ev.Command),
		log.Int64("escmd.duration_ms", ev.Duration.Milliseconds()),
	}
	if ev.Method != "" {
		attrs = append(attrs, log.String("http.request.method", ev.Method))
	}
	if ev.Path != "" {
		attrs = append(attrs, log.String("url.path", ev.Path))
	}
	if ev.Status != 0 {
		attrs = append(attrs, log.Int("http.response.status_code", ev.Status))
	}
	if ev.Hits >= 0 {
		attrs = append(attrs, log.Int64("escmd.hits", ev.Hits))
	}
	if ev.Err != nil {
		attrs = append(attrs, log.String("error.message", ev.Err.Error()))
	}
	return attrs
}

// severityFor maps the command outcome to an OTel severity.
func severityFor(ev Event) log.Severity {
	switch {
	case ev.Err != nil && ev.Status >= 500:
		return log.SeverityError
	case ev.Err != nil && ev.Status == 0:
		return log.SeverityError
	case ev.Err != nil:
		return log.SeverityWarn
	default:
		return log.SeverityInfo
	}
}
