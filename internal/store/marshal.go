package store

import (
	"encoding/json"
	"fmt"

	"github.com/kleinerpirat/closet/internal/ir"
	"github.com/kleinerpirat/closet/internal/state"
)

// marshalEntry converts a persistent store value to canonical JSON TEXT.
func marshalEntry(v any) (string, error) {
	if set, ok := v.(state.Set); ok {
		v = set.Members()
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}
	return string(data), nil
}

// unmarshalEntry parses canonical JSON TEXT into plain Go values
// (string, int64, bool, []any, map[string]any).
func unmarshalEntry(data string) (any, error) {
	v, err := ir.Unmarshal([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return ir.ToAny(v), nil
}

func marshalOutputs(outputs []string) (string, error) {
	if outputs == nil {
		outputs = []string{}
	}
	data, err := ir.MarshalCanonical(outputs)
	if err != nil {
		return "", fmt.Errorf("marshal outputs: %w", err)
	}
	return string(data), nil
}

func unmarshalOutputs(data string) ([]string, error) {
	var outputs []string
	if err := json.Unmarshal([]byte(data), &outputs); err != nil {
		return nil, fmt.Errorf("unmarshal outputs: %w", err)
	}
	return outputs, nil
}
