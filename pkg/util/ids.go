package util

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// isoLayout keeps a fixed fraction width so timestamps sort lexically.
const isoLayout = "2006-01-02T15:04:05.000000Z07:00"

// NewID returns prefix_<32 hex chars>
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FormatISO formats t in UTC with microsecond precision
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
