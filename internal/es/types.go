// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// Client wraps the Elasticsearch client with the escmd command set.
type Client struct {
	es     *elasticsearch.Client
	pretty bool
	logger *zap.Logger
}

// Options configures a Client.
type Options struct {
	Addresses []string
	APIKey    string
	Username  string
	Password  string
	Pretty    bool        // Ask Elasticsearch for indented responses
	Logger    *zap.Logger // Optional, defaults to the global logger
}

// IndexRequest loads documents from DataFile into Index.
type IndexRequest struct {
	Index    string
	DataFile string
}

// BulkRequest sends DataFile, already in _bulk format, verbatim.
// Index is the default index for actions that don't name one.
type BulkRequest struct {
	Index    string
	DataFile string
}

// SearchRequest runs a match query for Query against Field.
type SearchRequest struct {
	Index string
	Field string
	Query string
	Size  int // 0 leaves the server default
}

// Response is one Elasticsearch reply, body untouched.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Took       time.Duration
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}
