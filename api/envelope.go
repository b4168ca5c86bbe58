// ABOUTME: Response envelope normalization for inconsistent backend shapes
// ABOUTME: Accepts {data:{data:[...]}}, {data:[...]}, and raw arrays through one decode path
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend wraps responses in up to two levels of {"data": ...}. Older
// endpoints return the payload bare. Normalization happens here, once, so
// stores never see raw envelopes.

// DecodeList normalizes any supported envelope shape into a slice of T.
// A null or missing payload decodes to an empty slice.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	payload, err := unwrap(raw)
	if err != nil {
		return nil, err
	}
	if isNull(payload) {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("unexpected list payload: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// DecodeItem normalizes any supported envelope shape into a single T.
func DecodeItem[T any](raw json.RawMessage) (T, error) {
	var item T

	payload, err := unwrap(raw)
	if err != nil {
		return item, err
	}
	if isNull(payload) {
		return item, fmt.Errorf("empty item payload")
	}

	if err := json.Unmarshal(payload, &item); err != nil {
		return item, fmt.Errorf("unexpected item payload: %w", err)
	}
	return item, nil
}

// unwrap strips up to two levels of {"data": ...} wrapping and returns the
// innermost payload. A body without a data key passes through untouched.
func unwrap(raw json.RawMessage) (json.RawMessage, error) {
	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 {
		return json.RawMessage("null"), nil
	}

	for i := 0; i < 2; i++ {
		if payload[0] != '{' {
			break
		}
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, fmt.Errorf("malformed response body: %w", err)
		}
		if envelope.Data == nil {
			// No data key: the object itself is the payload.
			break
		}
		payload = bytes.TrimSpace(envelope.Data)
		if len(payload) == 0 {
			return json.RawMessage("null"), nil
		}
	}
	return payload, nil
}

func isNull(payload json.RawMessage) bool {
	return len(payload) == 0 || bytes.Equal(payload, []byte("null"))
}
