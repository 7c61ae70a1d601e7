// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package errfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// FormatQueryError builds a detailed error including response status, body, and pretty query.
// It best-effort indents the provided query JSON; on failure it still includes the raw query.
func FormatQueryError(status string, body []byte, queryJSON []byte) error {
	var prettyQuery bytes.Buffer
	_ = json.Indent(&prettyQuery, queryJSON, "", "  ")
	if prettyQuery.Len() == 0 {
		prettyQuery.Write(queryJSON)
	}
	return fmt.Errorf("search failed: %s\nError: %s\n\nQuery:\n%s", status, Cause(body), prettyQuery.String())
}

// FormatUpstreamError describes a failed call on one line. reason, when set,
// replaces the cause read from the body.
func FormatUpstreamError(method, path, status, reason string, body []byte) error {
	if reason == "" {
		reason = Cause(body)
	}
	if reason == "" {
		return fmt.Errorf("%s %s: %s", method, path, status)
	}
	return fmt.Errorf("%s %s: %s: %s", method, path, status, reason)
}

// Cause extracts "type: reason" from an Elasticsearch error body, falling
// back to the trimmed raw body when it isn't one.
func Cause(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	errType := gjson.GetBytes(body, "error.type").String()
	reason := gjson.GetBytes(body, "error.reason").String()
	switch {
	case errType != "" && reason != "":
		return errType + ": " + reason
	case errType != "":
		return errType
	case gjson.GetBytes(body, "error").Type == gjson.String:
		return gjson.GetBytes(body, "error").String()
	}
	return strings.TrimSpace(string(body))
}
