package model

const DefaultResourceStatus = "unknown"

// ResourceState is upserted by id; the latest write wins.
type ResourceState struct {
	ID        string   `json:"id"`
	UpdatedAt string   `json:"updated_at"`
	Status    string   `json:"status"`
	Capacity  *float64 `json:"capacity"`
	Owner     *string  `json:"owner"`
	Team      *string  `json:"team"`
	Notes     *string  `json:"notes"`
	Metadata  Payload  `json:"metadata"`
}
