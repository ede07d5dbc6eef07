package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowhub/internal/model"
)

type historyMap map[string][]model.TaskHistory

func (m historyMap) ListByUser(_ context.Context, userID string) ([]model.TaskHistory, error) {
	return m[userID], nil
}

type failingSource struct{ err error }

func (f failingSource) ListByUser(context.Context, string) ([]model.TaskHistory, error) {
	return nil, f.err
}

func record(userID, taskType string, duration, rating int) model.TaskHistory {
	return model.TaskHistory{UserID: userID, TaskType: taskType, DurationMinutes: duration, SuccessRating: rating}
}

func TestRecommendPrefersMatchingHistory(t *testing.T) {
	src := historyMap{
		"u3": {
			record("u3", "analytics", 30, 5),
			record("u3", "analytics", 25, 5),
		},
		"u1": {record("u1", "coding", 60, 5)},
	}

	rec, err := Recommend(context.Background(), src, "analytics", []string{"u1", "u3"})
	require.NoError(t, err)

	assert.Equal(t, "u3", rec.UserID)
	assert.Equal(t, 2, rec.Matches)
	assert.InDelta(t, 5.0/27.5, rec.Score, 1e-12)
}

func TestRecommendWithoutHistoryReturnsFirstCandidate(t *testing.T) {
	rec, err := Recommend(context.Background(), historyMap{}, "analytics", []string{"u1", "u2"})
	require.NoError(t, err)

	assert.Equal(t, "u1", rec.UserID)
	assert.Zero(t, rec.Score)
	assert.Zero(t, rec.Matches)
}

func TestRecommendSingleCandidate(t *testing.T) {
	rec, err := Recommend(context.Background(), historyMap{}, "writing", []string{"solo"})
	require.NoError(t, err)
	assert.Equal(t, "solo", rec.UserID)
}

func TestRecommendEmptyCandidates(t *testing.T) {
	_, err := Recommend(context.Background(), historyMap{}, "writing", nil)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = Recommend(context.Background(), historyMap{}, "writing", []string{})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestRecommendTiesKeepEarliestCandidate(t *testing.T) {
	src := historyMap{
		"a": {record("a", "writing", 10, 4)},
		"b": {record("b", "writing", 10, 4)},
		"c": {record("c", "writing", 20, 8)},
	}

	rec, err := Recommend(context.Background(), src, "writing", []string{"b", "a", "c"})
	require.NoError(t, err)
	assert.Equal(t, "b", rec.UserID)

	rec, err = Recommend(context.Background(), src, "writing", []string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "c", rec.UserID)
}

func TestRecommendTaskTypeIsCaseSensitive(t *testing.T) {
	src := historyMap{
		"u2": {record("u2", "Analytics", 5, 5)},
	}

	rec, err := Recommend(context.Background(), src, "analytics", []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserID)
}

func TestRecommendResultIsAlwaysACandidate(t *testing.T) {
	src := historyMap{
		"outsider": {record("outsider", "coding", 1, 5)},
		"x":        {record("x", "coding", 90, 1)},
	}

	lists := [][]string{
		{"x"},
		{"y", "x"},
		{"y", "z"},
		{"z", "y", "x"},
	}
	for _, candidates := range lists {
		rec, err := Recommend(context.Background(), src, "coding", candidates)
		require.NoError(t, err)
		assert.Contains(t, candidates, rec.UserID)
	}
}

func TestRecommendPropagatesHistoryErrors(t *testing.T) {
	boom := errors.New("store offline")

	_, err := Recommend(context.Background(), failingSource{err: boom}, "coding", []string{"u1"})
	assert.ErrorIs(t, err, boom)
}

func TestScoreZeroDurationIsGuarded(t *testing.T) {
	score, matches := Score([]model.TaskHistory{record("u", "triage", 0, 4)}, "triage")

	assert.Equal(t, 1, matches)
	assert.Equal(t, 4.0, score)
}

func TestScoreIgnoresOtherTaskTypes(t *testing.T) {
	history := []model.TaskHistory{
		record("u", "coding", 60, 5),
		record("u", "writing", 10, 2),
	}

	score, matches := Score(history, "writing")
	assert.Equal(t, 1, matches)
	assert.InDelta(t, 0.2, score, 1e-12)

	score, matches = Score(history, "design")
	assert.Zero(t, matches)
	assert.Zero(t, score)
}

func TestScoreIsMonotonicInRating(t *testing.T) {
	prev := -1.0
	for rating := 1; rating <= 5; rating++ {
		score, _ := Score([]model.TaskHistory{record("u", "coding", 45, rating)}, "coding")
		assert.Greater(t, score, prev)
		prev = score
	}
}

func TestRaisingRatingOnlyHelpsThatCandidate(t *testing.T) {
	src := historyMap{
		"u1": {record("u1", "coding", 30, 2)},
		"u2": {record("u2", "coding", 30, 3)},
	}
	candidates := []string{"u1", "u2"}

	rec, err := Recommend(context.Background(), src, "coding", candidates)
	require.NoError(t, err)
	assert.Equal(t, "u2", rec.UserID)

	src["u1"] = []model.TaskHistory{record("u1", "coding", 30, 4)}
	rec, err = Recommend(context.Background(), src, "coding", candidates)
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserID)

	src["u2"] = []model.TaskHistory{record("u2", "coding", 30, 1)}
	rec, err = Recommend(context.Background(), src, "coding", candidates)
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserID)
}

func TestDoublingDurationLowersScore(t *testing.T) {
	base, _ := Score([]model.TaskHistory{record("u", "coding", 40, 4)}, "coding")
	doubled, _ := Score([]model.TaskHistory{record("u", "coding", 80, 4)}, "coding")

	assert.Less(t, doubled, base)
	assert.InDelta(t, base/2, doubled, 1e-12)
}
