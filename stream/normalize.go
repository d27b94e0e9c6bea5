// Package stream turns a JSON text stream, as written by jq, into Documents.
//
// A JSON text stream is a sequence of JSON values separated by optional
// whitespace, with no enclosing array and no delimiter.  jq writes one such
// value per result, so a query with several results (or run over several
// inputs) produces a stream rather than a single JSON document.
package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arnodel/yq/document"
	"github.com/arnodel/yq/encoding/json"
	"github.com/arnodel/yq/token"
)

// Values parses every value of the stream, in order.  An empty or blank input
// yields no values.  If any part of raw is not valid JSON, a *MalformedError is
// returned and no values are.
func Values(raw []byte) ([]document.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	acc := token.NewAccumulatorStream()
	var values []document.Document
	for {
		acc.Reset()
		err := dec.Decode(acc)
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return nil, newMalformedError(raw, dec.Offset(), err)
		}
		value, err := document.FromTokens(token.NewSliceReadStream(acc.GetTokens()))
		if err != nil {
			return nil, newMalformedError(raw, dec.Offset(), err)
		}
		values = append(values, value)
	}
}

// Normalize parses the stream into a single Document:
//   - one value is returned as is, never wrapped in an array;
//   - several values are returned as an array of those values, in order;
//   - no value at all is returned as an empty array.
func Normalize(raw []byte) (document.Document, error) {
	values, err := Values(raw)
	if err != nil {
		return document.Document{}, err
	}
	return Collapse(values), nil
}

// Collapse applies the Normalize policy to already parsed values.
func Collapse(values []document.Document) document.Document {
	if len(values) == 1 {
		return values[0]
	}
	return document.NewArray(values...)
}

// MalformedError reports a stream that could not be parsed as a sequence of
// JSON values.
type MalformedError struct {
	Offset  int64  // byte offset of the error in the stream
	Line    int    // 1-based, 0 if unknown
	Col     int    // 1-based, 0 if unknown
	Snippet string // input surrounding Offset
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed JSON stream at offset %d near %q: %s", e.Offset, e.Snippet, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

const snippetRadius = 16

func newMalformedError(raw []byte, offset int64, err error) *MalformedError {
	merr := &MalformedError{Offset: offset, Err: err}
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		merr.Offset = serr.Offset
		merr.Line = serr.Line
		merr.Col = serr.Col
	}
	merr.Snippet = snippet(raw, merr.Offset)
	return merr
}

func snippet(raw []byte, offset int64) string {
	start := offset - snippetRadius
	if start < 0 {
		start = 0
	}
	end := offset + snippetRadius
	if end > int64(len(raw)) {
		end = int64(len(raw))
	}
	if start > end {
		start = end
	}
	return string(raw[start:end])
}
