package model

// TaskHistory is one completed piece of work. Records are append-only and
// feed the assignee recommendation.
type TaskHistory struct {
	ID              string `json:"id" binding:"required"`
	UserID          string `json:"user_id" binding:"required"`
	TaskType        string `json:"task_type" binding:"required"` // e.g. analytics, writing, coding
	DurationMinutes int    `json:"duration_minutes"`
	SuccessRating   int    `json:"success_rating"` // 1-5
	Timestamp       string `json:"timestamp"`
}
