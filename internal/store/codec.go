package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tair/pharmadistrib/internal/domain"
)

// Encode serializes the whole state into the persisted blob
func Encode(state domain.State) ([]byte, error) {
	state.Normalize()
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// browserEnvelope is the wrapper written by the web client's persistence layer
type browserEnvelope struct {
	State   *domain.State `json:"state"`
	Version *int          `json:"version"`
}

// Decode parses a blob written by Encode. Snapshots exported from the web
// client, which wrap the state as {"state": ..., "version": n}, are accepted too.
func Decode(data []byte) (domain.State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.State{}, errors.New("empty snapshot")
	}

	var envelope browserEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.State != nil && envelope.Version != nil {
		envelope.State.Normalize()
		return *envelope.State, nil
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	state.Normalize()
	return state, nil
}
