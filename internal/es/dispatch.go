// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// ErrIndexRequired is returned when an operation needs an index name.
var ErrIndexRequired = errors.New("index is required")

// Every returned *Response holds the raw upstream body, also when err is an
// *UpstreamError or *NotFoundError. Callers print it either way.

// IndexData indexes the documents in req.DataFile. A single JSON object goes
// to POST /{index}/_doc, NDJSON goes through /{index}/_bulk.
func (c *Client) IndexData(ctx context.Context, req IndexRequest) (*Response, error) {
	if strings.TrimSpace(req.Index) == "" {
		return nil, ErrIndexRequired
	}
	payload, err := ReadPayload(req.DataFile)
	if err != nil {
		return nil, err
	}
	return c.IndexPayload(ctx, req.Index, payload)
}

// IndexPayload sends an already parsed payload to index.
func (c *Client) IndexPayload(ctx context.Context, index string, payload *Payload) (*Response, error) {
	if strings.TrimSpace(index) == "" {
		return nil, ErrIndexRequired
	}
	c.logger.Debug("indexing payload",
		zap.String("index", index),
		zap.Stringer("kind", payload.Kind),
		zap.Int("documents", len(payload.Documents)))

	if payload.Kind == PayloadNDJSON {
		return c.bulk(ctx, index, payload.BulkBody())
	}

	start := time.Now()
	res, err := c.es.Index(index, bytes.NewReader(payload.Documents[0]),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithRefresh("true"),
		withPretty(c.pretty, c.es.Index.WithPretty),
	)
	out, err := c.finish(http.MethodPost, "/"+index+"/_doc", start, res, err)
	if err != nil {
		return nil, err
	}
	return out, checkResponse(out, nil)
}

// IndexBulkData sends req.DataFile verbatim to the _bulk API.
func (c *Client) IndexBulkData(ctx context.Context, req BulkRequest) (*Response, error) {
	data, err := os.ReadFile(req.DataFile)
	if err != nil {
		return nil, &IOError{Path: req.DataFile, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &IOError{Path: req.DataFile, Err: ErrEmptyPayload}
	}
	// The bulk API rejects a body whose last line is not terminated.
	if data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return c.bulk(ctx, req.Index, data)
}

func (c *Client) bulk(ctx context.Context, index string, body []byte) (*Response, error) {
	path := "/_bulk"
	opts := []func(*esapi.BulkRequest){
		c.es.Bulk.WithContext(ctx),
		c.es.Bulk.WithRefresh("true"),
		c.es.Bulk.WithHeader(map[string]string{"Content-Type": "application/x-ndjson"}),
	}
	if index != "" {
		path = "/" + index + "/_bulk"
		opts = append(opts, c.es.Bulk.WithIndex(index))
	}
	if c.pretty {
		opts = append(opts, c.es.Bulk.WithPretty())
	}

	start := time.Now()
	res, err := c.es.Bulk(bytes.NewReader(body), opts...)
	out, err := c.finish(http.MethodPost, path, start, res, err)
	if err != nil {
		return nil, err
	}
	if err := checkResponse(out, nil); err != nil {
		return out, err
	}
	return out, bulkFailure(out)
}

// Search runs {"query":{"match":{field: query}}} against req.Index.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Response, error) {
	if strings.TrimSpace(req.Index) == "" {
		return nil, ErrIndexRequired
	}
	if req.Field == "" {
		return nil, fmt.Errorf("field is required")
	}
	if req.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	query, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				req.Field: req.Query,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	opts := []func(*esapi.SearchRequest){
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(req.Index),
		c.es.Search.WithBody(bytes.NewReader(query)),
	}
	if req.Size > 0 {
		opts = append(opts, c.es.Search.WithSize(req.Size))
	}
	if c.pretty {
		opts = append(opts, c.es.Search.WithPretty())
	}

	start := time.Now()
	res, err := c.es.Search(opts...)
	out, err := c.finish(http.MethodPost, "/"+req.Index+"/_search", start, res, err)
	if err != nil {
		return nil, err
	}
	return out, checkResponse(out, query)
}

// Get issues GET /{path}. The path may carry a query string.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	u, err := requestURL(path, c.pretty)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	res, err := c.perform(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u.Path, err)
	}
	out, err := c.collect(http.MethodGet, u.Path, start, res.StatusCode, res.Body)
	if err != nil {
		return nil, err
	}
	return out, checkResponse(out, nil)
}

// requestURL normalizes a user supplied path into a relative URL.
func requestURL(path string, pretty bool) (*url.URL, error) {
	path = strings.TrimSpace(path)
	u, err := url.Parse("/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	if pretty {
		if _, ok := u.Query()["pretty"]; !ok {
			if u.RawQuery == "" {
				u.RawQuery = "pretty=true"
			} else {
				u.RawQuery += "&pretty=true"
			}
		}
	}
	return u, nil
}

// Delete removes an index.
func (c *Client) Delete(ctx context.Context, index string) (*Response, error) {
	if strings.TrimSpace(index) == "" {
		return nil, ErrIndexRequired
	}

	start := time.Now()
	res, err := c.es.Indices.Delete([]string{index},
		c.es.Indices.Delete.WithContext(ctx),
		withPretty(c.pretty, c.es.Indices.Delete.WithPretty),
	)
	out, err := c.finish(http.MethodDelete, "/"+index, start, res, err)
	if err != nil {
		return nil, err
	}
	return out, checkResponse(out, nil)
}

// relaxedReplicas drops replicas so a single-node cluster reports green.
var relaxedReplicas = []byte(`{"index":{"number_of_replicas":"0"}}`)

// RelaxReplicas sets number_of_replicas to 0 on index, or on all indices
// when index is empty.
func (c *Client) RelaxReplicas(ctx context.Context, index string) error {
	target := index
	if target == "" {
		target = "_all"
	}

	start := time.Now()
	res, err := c.es.Indices.PutSettings(bytes.NewReader(relaxedReplicas),
		c.es.Indices.PutSettings.WithContext(ctx),
		c.es.Indices.PutSettings.WithIndex(target),
	)
	out, err := c.finish(http.MethodPut, "/"+target+"/_settings", start, res, err)
	if err != nil {
		return err
	}
	return checkResponse(out, nil)
}

// withPretty returns opt() when pretty output is on, or a no-op otherwise.
func withPretty[T any](on bool, opt func() func(*T)) func(*T) {
	if on {
		return opt()
	}
	return func(*T) {}
}
