package transform

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/packopt/pkg/errors"
)

// MinifyYAML parses data as one YAML document and returns its content as
// compact JSON. Only the semantic content survives: comments, anchors and
// YAML syntax are gone. Empty or comment-only documents, multiple documents
// and values JSON cannot represent are parse errors.
func MinifyYAML(data []byte) ([]byte, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeParse, "parse yaml: empty document")
		}
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse yaml")
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.New(errors.ErrCodeParse, "parse yaml: multiple documents are not supported")
	}

	keepTimestampText(&doc)
	var v any
	if err := doc.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse yaml")
	}

	normalized, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	return encodeCompact(normalized)
}

// keepTimestampText retags timestamp scalars as strings so dates come out
// as written instead of being normalized to RFC 3339.
func keepTimestampText(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
		return
	}
	for _, child := range n.Content {
		keepTimestampText(child)
	}
}

// toJSONValue rewrites the decoded YAML tree into the value model
// encoding/json understands.
func toJSONValue(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			conv, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			conv, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[keyString(k)] = conv
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			conv, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, errors.New(errors.ErrCodeParse, "parse yaml: %v has no json representation", val)
		}
		return val, nil
	default:
		return val, nil
	}
}

func keyString(k any) string {
	switch key := k.(type) {
	case string:
		return key
	case nil:
		return "null"
	default:
		return fmt.Sprint(key)
	}
}
