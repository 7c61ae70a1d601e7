// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Summary holds the few response facts escmd reports in logs.
// The response body itself is never rewritten.
type Summary struct {
	Hits         int64 // hits.total.value, -1 when absent
	Acknowledged *bool
	Result       string // "created", "deleted", ...
	BulkItems    int
	BulkFailed   int
	FirstFailure string
}

// Summarize reads a Summary from a raw response body.
func Summarize(body []byte) Summary {
	s := Summary{Hits: -1}
	if !gjson.ValidBytes(body) {
		return s
	}

	res := gjson.ParseBytes(body)
	if total := res.Get("hits.total"); total.Exists() {
		if total.IsObject() {
			s.Hits = total.Get("value").Int()
		} else {
			s.Hits = total.Int() // pre-7.0 integer form
		}
	}
	if ack := res.Get("acknowledged"); ack.Exists() {
		v := ack.Bool()
		s.Acknowledged = &v
	}
	s.Result = res.Get("result").String()

	items := res.Get("items")
	if items.IsArray() {
		items.ForEach(func(_, item gjson.Result) bool {
			s.BulkItems++
			item.ForEach(func(action, outcome gjson.Result) bool {
				if e := outcome.Get("error"); e.Exists() {
					s.BulkFailed++
					if s.FirstFailure == "" {
						s.FirstFailure = fmt.Sprintf("%s: %s: %s",
							action.String(), e.Get("type").String(), e.Get("reason").String())
					}
				}
				return false
			})
			return true
		})
	}
	return s
}

// bulkFailure turns a 2xx bulk response with item errors into an UpstreamError.
func bulkFailure(res *Response) error {
	if !res.OK() || !gjson.GetBytes(res.Body, "errors").Bool() {
		return nil
	}
	s := Summarize(res.Body)
	reason := fmt.Sprintf("bulk request had %d failed item(s) of %d", s.BulkFailed, s.BulkItems)
	if s.FirstFailure != "" {
		reason += "; first: " + s.FirstFailure
	}
	return &UpstreamError{
		Method:     res.Method,
		Path:       res.Path,
		StatusCode: res.StatusCode,
		Body:       res.Body,
		Reason:     reason,
	}
}
