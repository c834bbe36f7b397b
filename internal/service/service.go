// Package service provides typed wrappers over the remote-call gateway,
// one per entity family. Each method issues a named backend function and
// decodes its JSON reply; no business rule lives on this side.
package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeList decodes a collection reply. A null or empty body yields an
// empty slice; a reply wrapped as [{"<fn>": [...]}] is unwrapped first.
func decodeList[T any](fn string, data json.RawMessage) ([]T, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	if inner, ok := unwrapByName(fn, data); ok {
		if err := json.Unmarshal(inner, &items); err == nil {
			return items, nil
		}
	}

	// single object reply for a collection call
	var one T
	if err := json.Unmarshal(data, &one); err == nil {
		return []T{one}, nil
	}
	return nil, fmt.Errorf("decode %s reply: unsupported shape", fn)
}

// decodeObject decodes a single-record reply. Functions may answer a bare
// object, a one-element array, or a one-element array keyed by the
// function name; all three are accepted. A null body yields nil.
func decodeObject[T any](fn string, data json.RawMessage) (*T, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" || trimmed == "[]" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		if inner, ok := unwrapByName(fn, data); ok {
			data = inner
		} else {
			var elems []json.RawMessage
			if err := json.Unmarshal(data, &elems); err != nil {
				return nil, fmt.Errorf("decode %s reply: %w", fn, err)
			}
			if len(elems) == 0 {
				return nil, nil
			}
			data = elems[0]
		}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s reply: %w", fn, err)
	}
	return &v, nil
}

// unwrapByName extracts the value under the function-name key from a
// one-element array reply like [{"calculate_instant_salary": {...}}].
func unwrapByName(fn string, data json.RawMessage) (json.RawMessage, bool) {
	var elems []map[string]json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil || len(elems) == 0 {
		return nil, false
	}
	inner, ok := elems[0][fn]
	return inner, ok
}
