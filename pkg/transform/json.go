package transform

import (
	"bytes"
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/matzehuels/packopt/pkg/errors"
)

// MinifyJSON parses data as a single JSON value and re-encodes it without
// insignificant whitespace. Numbers keep their original text. Object keys
// come out sorted. Empty or whitespace-only input and invalid UTF-8 are
// parse errors.
func MinifyJSON(data []byte) ([]byte, error) {
	if !utf8.Valid(data) {
		return nil, errors.New(errors.ErrCodeParse, "parse json: invalid utf-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeParse, "parse json: empty document")
		}
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse json")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeParse, "parse json: unexpected data after top-level value")
	}
	return encodeCompact(v)
}

// encodeCompact serializes v as compact JSON without HTML escaping and
// without the trailing newline json.Encoder appends.
func encodeCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "encode json")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
