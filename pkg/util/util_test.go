package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID("evt")
	assert.Regexp(t, regexp.MustCompile(`^evt_[0-9a-f]{32}$`), id)
	assert.NotEqual(t, id, NewID("evt"))
}

func TestFormatISOSortsLexically(t *testing.T) {
	base := time.Date(2025, 1, 20, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2025-01-20T08:30:00.000000Z", FormatISO(base))

	earlier := FormatISO(base.Add(999 * time.Millisecond))
	later := FormatISO(base.Add(time.Second))
	assert.Less(t, earlier, later)
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("ops", "s3cret", time.Hour)
	require.NoError(t, err)

	subject, err := ParseJWT(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ops", subject)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT("ops", "s3cret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "s3cret")
	assert.Error(t, err)

	anonymous, err := GenerateJWT("", "s3cret", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(anonymous, "s3cret")
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Basic abc":    "",
		"Bearer a b":   "",
		"Bearerabc":    "",
	}
	for header, want := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, ExtractToken(r), "header %q", header)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsDuplicateKey(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}))
	assert.False(t, IsDuplicateKey(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
}

func TestIsRetryableError(t *testing.T) {
	var syntaxErr *json.SyntaxError
	err := json.Unmarshal([]byte(`{`), &struct{}{})
	require.ErrorAs(t, err, &syntaxErr)

	cases := []struct {
		name      string
		err       error
		retryable bool
		kind      string
	}{
		{"nil", nil, false, ""},
		{"json", err, false, "json_decode_error"},
		{"duplicate", &pgconn.PgError{Code: "23505"}, false, "duplicate_key"},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true, "db_locked"},
		{"connection", errors.New("dial tcp: connection refused"), true, "db_connection_error"},
		{"canceled", context.Canceled, false, "context_canceled"},
		{"unknown", errors.New("boom"), false, "unknown_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			retryable, kind := IsRetryableError(tc.err)
			assert.Equal(t, tc.retryable, retryable)
			assert.Equal(t, tc.kind, kind)
		})
	}

	retryable, _ := IsRetryableError(context.DeadlineExceeded)
	assert.True(t, retryable)
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(1, 5, true))
	assert.True(t, ShouldRetry(5, 5, true))
	assert.False(t, ShouldRetry(6, 5, true))
	assert.False(t, ShouldRetry(1, 5, false))
}

func TestFormatRetryKey(t *testing.T) {
	assert.Equal(t, "retry:event_ingest:abc", FormatRetryKey("event_ingest", "abc"))
}
