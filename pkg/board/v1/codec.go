package boardv1

import (
	"encoding/json"
	"fmt"
)

// Codec serializes the plain Go messages of this package as JSON. It
// registers under the name "json", replacing Connect's protojson codec.
type Codec struct{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
