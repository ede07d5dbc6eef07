package model

import (
	"encoding/json"
	"fmt"
)

const DefaultUserRole = "member"

// Skills maps a skill name to a score in [0,1].
type Skills map[string]float64

type User struct {
	ID     string `json:"id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Role   string `json:"role"`
	Skills Skills `json:"skills"`
}

// EncodeSkills returns the stored text form; nil encodes as {}.
func EncodeSkills(s Skills) (string, error) {
	if s == nil {
		s = Skills{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode skills: %w", err)
	}
	return string(raw), nil
}

// DecodeSkills parses stored skills text. Parse failures wrap ErrMalformedJSON.
func DecodeSkills(text string) (Skills, error) {
	s := Skills{}
	if text == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("%w: skills: %v", ErrMalformedJSON, err)
	}
	if s == nil {
		s = Skills{}
	}
	return s, nil
}
