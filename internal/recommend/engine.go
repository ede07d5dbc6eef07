// Package recommend picks the user best suited to a task type from their
// recorded task history.
//
// The score of a candidate for a task type is the mean success rating of
// their matching records divided by the mean duration in minutes. A mean
// duration of 0 is replaced with 1. Candidates without matching records
// score 0. The score is not normalized across task types.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"workflowhub/internal/model"
)

// ErrNoCandidates is returned for an empty candidate list.
var ErrNoCandidates = errors.New("no candidates to recommend from")

// HistorySource returns every history record of one user.
type HistorySource interface {
	ListByUser(ctx context.Context, userID string) ([]model.TaskHistory, error)
}

// Recommendation is the selected candidate.
type Recommendation struct {
	UserID string
	Score  float64
	// Matches is the winner's number of records for the task type.
	Matches int
}

// Score rates one user's history for taskType. Task types match exactly.
func Score(history []model.TaskHistory, taskType string) (score float64, matches int) {
	var ratingSum, durationSum float64
	for _, h := range history {
		if h.TaskType != taskType {
			continue
		}
		ratingSum += float64(h.SuccessRating)
		durationSum += float64(h.DurationMinutes)
		matches++
	}
	if matches == 0 {
		return 0, 0
	}

	avgRating := ratingSum / float64(matches)
	avgDuration := durationSum / float64(matches)
	if avgDuration == 0 {
		avgDuration = 1
	}
	return avgRating / avgDuration, matches
}

// Recommend scores candidates in order and returns the first one with the
// highest score. Ties keep the earlier candidate. History is read once per
// candidate with no isolation between reads.
func Recommend(ctx context.Context, src HistorySource, taskType string, candidates []string) (Recommendation, error) {
	if len(candidates) == 0 {
		return Recommendation{}, ErrNoCandidates
	}

	best := Recommendation{Score: -1}
	found := false
	for _, userID := range candidates {
		history, err := src.ListByUser(ctx, userID)
		if err != nil {
			return Recommendation{}, fmt.Errorf("load history for %s: %w", userID, err)
		}

		score, matches := Score(history, taskType)
		if score > best.Score {
			best = Recommendation{UserID: userID, Score: score, Matches: matches}
			found = true
		}
	}

	if !found {
		return Recommendation{UserID: candidates[0]}, nil
	}
	return best, nil
}
