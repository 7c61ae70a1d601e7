// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// PayloadKind tells how a data file is sent.
type PayloadKind int

const (
	// PayloadDocument is a single JSON object, indexed with POST /{index}/_doc.
	PayloadDocument PayloadKind = iota
	// PayloadNDJSON is one JSON object per line, indexed through _bulk.
	PayloadNDJSON
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadDocument:
		return "document"
	case PayloadNDJSON:
		return "ndjson"
	default:
		return "unknown"
	}
}

// Payload is the parsed content of a data file.
type Payload struct {
	Kind      PayloadKind
	Documents [][]byte
	Size      int64 // Bytes consumed from the file
}

// maxLineSize bounds a single NDJSON document.
const maxLineSize = 16 * 1024 * 1024

// ErrEmptyPayload is wrapped in an IOError when a data file holds no documents.
var ErrEmptyPayload = errors.New("no documents found")

// ReadPayload reads and classifies a data file.
func ReadPayload(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return ParsePayload(path, data)
}

// ParsePayload classifies data. A file holding exactly one JSON object is a
// document; anything else must be NDJSON with an object on every non-blank line.
func ParsePayload(path string, data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &IOError{Path: path, Err: ErrEmptyPayload}
	}
	if gjson.ValidBytes(trimmed) && gjson.ParseBytes(trimmed).IsObject() {
		return &Payload{Kind: PayloadDocument, Documents: [][]byte{trimmed}, Size: int64(len(data))}, nil
	}

	var docs [][]byte
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		doc := bytes.TrimSpace(sc.Bytes())
		if len(doc) == 0 {
			continue
		}
		if err := ValidateDocument(doc); err != nil {
			return nil, &IOError{Path: path, Line: line, Err: err}
		}
		docs = append(docs, append([]byte(nil), doc...))
	}
	if err := sc.Err(); err != nil {
		return nil, &IOError{Path: path, Line: line + 1, Err: err}
	}
	return &Payload{Kind: PayloadNDJSON, Documents: docs, Size: int64(len(data))}, nil
}

// ValidateDocument checks that doc is a single JSON object.
func ValidateDocument(doc []byte) error {
	if !gjson.ValidBytes(doc) {
		return fmt.Errorf("invalid JSON")
	}
	if !gjson.ParseBytes(doc).IsObject() {
		return fmt.Errorf("expected a JSON object")
	}
	return nil
}

// BulkBody renders documents as index actions against the request's default index.
func (p *Payload) BulkBody() []byte {
	var buf bytes.Buffer
	for _, doc := range p.Documents {
		buf.WriteString(`{"index":{}}`)
		buf.WriteByte('\n')
		buf.Write(doc)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
