package model

const (
	MilestonePending    = "pending"
	MilestoneInProgress = "in_progress"
	MilestoneCompleted  = "completed"
)

// Milestone references its project and assignee by id only; neither is checked.
type Milestone struct {
	ID          string  `json:"id" binding:"required"`
	ProjectID   string  `json:"project_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Status      string  `json:"status"` // pending / in_progress / completed
	AssignedTo  *string `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
	CompletedAt *string `json:"completed_at"`
}
