package model

const DefaultProjectStatus = "active"

type Project struct {
	ID        string `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Deadline  string `json:"deadline" binding:"required"` // ISO date
	Status    string `json:"status"`                      // free-form, defaults to active
	CreatedAt string `json:"created_at"`                  // UTC ISO timestamp
}
