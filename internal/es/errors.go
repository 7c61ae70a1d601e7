// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"fmt"
	"net/http"

	"github.com/elastic/escmd/internal/es/errfmt"
)

// IOError reports a local payload file that could not be read or parsed.
type IOError struct {
	Path string
	Line int // 1-based, 0 when the whole file is at fault
	Err  error
}

func (e *IOError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("data file %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("data file %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// UpstreamError is a request Elasticsearch answered with a failure.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Query      []byte // Request body for search failures, shown by Detail
	Reason     string // Set when the status is 2xx but the body reports failure
}

func (e *UpstreamError) Error() string {
	return errfmt.FormatUpstreamError(e.Method, e.Path, e.status(), e.Reason, e.Body).Error()
}

// Detail is a multi-line description including the search query, if any.
func (e *UpstreamError) Detail() string {
	if len(e.Query) == 0 {
		return e.Error()
	}
	return errfmt.FormatQueryError(e.status(), e.Body, e.Query).Error()
}

func (e *UpstreamError) status() string {
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// NotFoundError is an UpstreamError with status 404.
type NotFoundError struct {
	*UpstreamError
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.UpstreamError.Error()
}

func (e *NotFoundError) Unwrap() error { return e.UpstreamError }

// checkResponse maps a non-2xx response to the matching error type.
func checkResponse(res *Response, query []byte) error {
	if res.OK() {
		return nil
	}
	upstream := &UpstreamError{
		Method:     res.Method,
		Path:       res.Path,
		StatusCode: res.StatusCode,
		Body:       res.Body,
		Query:      query,
	}
	if res.StatusCode == http.StatusNotFound {
		return &NotFoundError{UpstreamError: upstream}
	}
	return upstream
}
