package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var emptyObject = json.RawMessage(`{}`)

// Payload is an opaque JSON object attached to events and resources. It is
// stored as serialized text and only decoded on demand. The zero value is {}.
type Payload struct {
	raw json.RawMessage
}

// NewPayload serializes v, which must encode to a JSON object (or null).
func NewPayload(v any) (Payload, error) {
	if v == nil {
		return Payload{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return Payload{}, fmt.Errorf("encode payload: %w", err)
	}
	return parseRaw(raw)
}

// ParsePayload restores a payload from its stored text. Empty text is {}.
// Anything that is not a JSON object wraps ErrMalformedJSON.
func ParsePayload(text string) (Payload, error) {
	if text == "" {
		return Payload{}, nil
	}
	p, err := parseRaw([]byte(text))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return p, nil
}

func parseRaw(raw []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Payload{}, nil
	}
	if !json.Valid(trimmed) {
		return Payload{}, fmt.Errorf("payload is not valid json")
	}
	if trimmed[0] != '{' {
		return Payload{}, fmt.Errorf("payload must be a json object")
	}
	buf := make(json.RawMessage, len(trimmed))
	copy(buf, trimmed)
	return Payload{raw: buf}, nil
}

// Text is the serialized form written to storage.
func (p Payload) Text() string {
	return string(p.bytes())
}

func (p Payload) bytes() json.RawMessage {
	if len(p.raw) == 0 {
		return emptyObject
	}
	return p.raw
}

func (p Payload) MarshalJSON() ([]byte, error) {
	return p.bytes(), nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	parsed, err := parseRaw(data)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
