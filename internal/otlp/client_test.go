// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package otlp

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/log"
)

func TestSeverityFor(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name     string
		ev       Event
		expected log.Severity
	}{
		{name: "success", ev: Event{Status: 200}, expected: log.SeverityInfo},
		{name: "client error", ev: Event{Status: 404, Err: boom}, expected: log.SeverityWarn},
		{name: "server error", ev: Event{Status: 503, Err: boom}, expected: log.SeverityError},
		{name: "no response", ev: Event{Err: boom}, expected: log.SeverityError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := severityFor(tc.ev); got != tc.expected {
				t.Errorf("severityFor(%+v) = %v, want %v", tc.ev, got, tc.expected)
			}
		})
	}
}

func TestBuildRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := Event{
		Command:  "search",
		Method:   "POST",
		Path:     "/docs/_search",
		Status:   200,
		Duration: 1500 * time.Millisecond,
		Hits:     1,
	}

	rec := buildRecord(ev, now)
	if rec.Severity() != log.SeverityInfo {
		t.Errorf("Severity = %v", rec.Severity())
	}
	if !rec.Timestamp().Equal(now.Add(-1500 * time.Millisecond)) {
		t.Errorf("Timestamp = %v, want start of the command", rec.Timestamp())
	}
	if got := rec.Body().AsString(); got != "search POST /docs/_search -> 200" {
		t.Errorf("Body = %q", got)
	}

	attrs := map[string]log.Value{}
	rec.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})
	if attrs["escmd.command"].AsString() != "search" {
		t.Errorf("escmd.command = %v", attrs["escmd.command"])
	}
	if attrs["http.response.status_code"].AsInt64() != 200 {
		t.Errorf("status attribute = %v", attrs["http.response.status_code"])
	}
	if attrs["escmd.hits"].AsInt64() != 1 {
		t.Errorf("hits attribute = %v", attrs["escmd.hits"])
	}
	if attrs["escmd.duration_ms"].AsInt64() != 1500 {
		t.Errorf("duration attribute = %v", attrs["escmd.duration_ms"])
	}
	if _, ok := attrs["error.message"]; ok {
		t.Error("unexpected error.message on success")
	}
}

func TestBuildRecord_Failure(t *testing.T) {
	t.Parallel()

	rec := buildRecord(Event{Command: "delete", Hits: -1, Err: errors.New("connection refused")}, time.Now())
	if got := rec.Body().AsString(); got != "delete failed: connection refused" {
		t.Errorf("Body = %q", got)
	}
	var sawHits, sawError bool
	rec.WalkAttributes(func(kv log.KeyValue) bool {
		switch kv.Key {
		case "escmd.hits":
			sawHits = true
		case "error.message":
			sawError = true
		}
		return true
	})
	if sawHits {
		t.Error("hits must be omitted when unknown")
	}
	if !sawError {
		t.Error("expected error.message attribute")
	}
}

func TestNew_RequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without endpoint")
	}
}

func TestNew_AndClose(t *testing.T) {
	t.Parallel()

	// Nothing listens here; Close must still return once the exporter gives up.
	c, err := New(context.Background(), Config{Endpoint: "127.0.0.1:1", Insecure: true, Version: "test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Endpoint() != "127.0.0.1:1" {
		t.Errorf("Endpoint() = %q", c.Endpoint())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.Close(ctx)
}
