// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package errfmt

import (
	"strings"
	"testing"
)

func TestFormatQueryError(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		body      []byte
		queryJSON []byte
		checks    []string
	}{
		{
			name:      "es error body is reduced to its cause",
			status:    "400 Bad Request",
			body:      []byte(`{"error":{"type":"parsing_exception","reason":"unknown query [mtch]"},"status":400}`),
			queryJSON: []byte(`{"query": {"mtch": {}}}`),
			checks: []string{
				"search failed: 400 Bad Request",
				"parsing_exception: unknown query [mtch]",
				"mtch",
			},
		},
		{
			name:      "pretty prints valid JSON query",
			status:    "500 Internal Server Error",
			body:      []byte(`server error`),
			queryJSON: []byte(`{"query":{"match":{"title":"x"}}}`),
			checks: []string{
				"search failed: 500 Internal Server Error",
				"server error",
				"\"query\":",
				"\"match\":",
			},
		},
		{
			name:      "handles invalid JSON query gracefully",
			status:    "400 Bad Request",
			body:      []byte(`error`),
			queryJSON: []byte(`{invalid json`),
			checks: []string{
				"search failed: 400 Bad Request",
				"{invalid json",
			},
		},
		{
			name:      "handles empty body",
			status:    "404 Not Found",
			body:      []byte(``),
			queryJSON: []byte(`{"query": {}}`),
			checks: []string{
				"search failed: 404 Not Found",
				"Error: \n",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FormatQueryError(tc.status, tc.body, tc.queryJSON)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			errMsg := err.Error()
			for _, check := range tc.checks {
				if !strings.Contains(errMsg, check) {
					t.Errorf("Error message should contain %q\nGot: %s", check, errMsg)
				}
			}
		})
	}
}

func TestFormatUpstreamError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		reason string
		body   []byte
		want   string
	}{
		{
			name: "index not found",
			body: []byte(`{"error":{"root_cause":[],"type":"index_not_found_exception","reason":"no such index [x]"},"status":404}`),
			want: "DELETE /x: 404 Not Found: index_not_found_exception: no such index [x]",
		},
		{
			name:   "explicit reason wins",
			reason: "bulk request had 2 failed item(s)",
			body:   []byte(`{"errors":true}`),
			want:   "DELETE /x: 404 Not Found: bulk request had 2 failed item(s)",
		},
		{
			name: "empty body",
			body: nil,
			want: "DELETE /x: 404 Not Found",
		},
		{
			name: "string error field",
			body: []byte(`{"error":"Incorrect HTTP method for uri","status":405}`),
			want: "DELETE /x: 404 Not Found: Incorrect HTTP method for uri",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FormatUpstreamError("DELETE", "/x", "404 Not Found", tc.reason, tc.body).Error()
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCause_NonJSONBody(t *testing.T) {
	t.Parallel()

	if got := Cause([]byte("  upstream connect error \n")); got != "upstream connect error" {
		t.Errorf("Cause() = %q", got)
	}
}
