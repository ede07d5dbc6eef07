package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"workflowhub/internal/model"
	"workflowhub/internal/service/workflow"
)

func (t *Tools) HealthCheck(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.svc.Health())
}

func (t *Tools) LogEvent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventType, err := req.RequireString("type")
	if err != nil {
		return errorResult(err)
	}
	team, err := req.RequireString("team")
	if err != nil {
		return errorResult(err)
	}
	payload, err := objectArg(req, "payload")
	if err != nil {
		return errorResult(err)
	}

	res, err := t.svc.LogEvent(ctx, workflow.EventInput{
		Type:      eventType,
		Team:      team,
		Severity:  req.GetString("severity", model.DefaultEventSeverity),
		Timestamp: req.GetString("timestamp", ""),
		Payload:   payload,
		DedupKey:  req.GetString("dedup_key", ""),
		Source:    "tool",
	})
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

func (t *Tools) ListEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", workflow.DefaultToolEventLimit)
	if limit <= 0 {
		limit = workflow.DefaultToolEventLimit
	}
	events, err := t.svc.ListEvents(ctx, model.EventFilter{
		Team:     req.GetString("team", ""),
		Type:     req.GetString("type", ""),
		Severity: req.GetString("severity", ""),
		StartTS:  req.GetString("start_ts", ""),
		EndTS:    req.GetString("end_ts", ""),
		Limit:    limit,
	})
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]any{"count": len(events), "events": events})
}

func (t *Tools) CreateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := model.Project{
		ID:        req.GetString("id", ""),
		Name:      req.GetString("name", ""),
		Deadline:  req.GetString("deadline", ""),
		Status:    req.GetString("status", ""),
		CreatedAt: req.GetString("created_at", ""),
	}
	if p.ID == "" || p.Name == "" || p.Deadline == "" {
		return mcp.NewToolResultError("id, name and deadline are required"), nil
	}

	if _, err := t.svc.CreateProject(ctx, p); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success", "project_id": p.ID})
}

func (t *Tools) OnboardUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errorResult(err)
	}
	name, err := req.RequireString("name")
	if err != nil {
		return errorResult(err)
	}
	skills, err := skillsArg(req)
	if err != nil {
		return errorResult(err)
	}

	if _, err := t.svc.OnboardUser(ctx, model.User{
		ID:     id,
		Name:   name,
		Role:   req.GetString("role", ""),
		Skills: skills,
	}); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success", "user_id": id})
}

func (t *Tools) AddMilestone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m := model.Milestone{
		ID:         req.GetString("id", ""),
		ProjectID:  req.GetString("project_id", ""),
		Title:      req.GetString("title", ""),
		Status:     req.GetString("status", ""),
		DueDate:    optionalString(req, "due_date"),
		AssignedTo: optionalString(req, "assigned_to"),
	}
	if m.ID == "" || m.ProjectID == "" || m.Title == "" {
		return mcp.NewToolResultError("id, project_id and title are required"), nil
	}

	if _, err := t.svc.AddMilestone(ctx, m); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success", "milestone_id": m.ID})
}

func (t *Tools) CompleteMilestone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errorResult(err)
	}

	completedAt, err := t.svc.CompleteMilestone(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success", "milestone_id": id, "completed_at": completedAt})
}

func (t *Tools) GetDashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dash, err := t.svc.Dashboard(ctx)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(dash)
}

// RecommendAssignee answers recommended_user_id null for an empty candidate list.
func (t *Tools) RecommendAssignee(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskType, err := req.RequireString("task_type")
	if err != nil {
		return errorResult(err)
	}
	projectID := req.GetString("project_id", "")
	candidates, err := candidateUsers(req)
	if err != nil {
		return errorResult(err)
	}

	rec, err := t.svc.RecommendAssignee(ctx, projectID, taskType, candidates)
	if err != nil {
		return errorResult(err)
	}

	var userID *string
	if rec != nil {
		userID = &rec.UserID
	}
	return jsonResult(map[string]any{"recommended_user_id": userID, "task_type": taskType})
}

// candidateUsers rejects a candidate list holding anything but strings.
func candidateUsers(req mcp.CallToolRequest) ([]string, error) {
	raw, ok := req.GetArguments()["candidate_users"]
	if !ok || raw == nil {
		return nil, nil
	}
	if list, ok := raw.([]string); ok {
		return list, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("candidate_users must be an array of strings")
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("candidate_users[%d] must be a string, got %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func (t *Tools) LogWork(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := model.TaskHistory{
		ID:       req.GetString("id", ""),
		UserID:   req.GetString("user_id", ""),
		TaskType: req.GetString("task_type", ""),
	}
	if h.ID == "" || h.UserID == "" || h.TaskType == "" {
		return mcp.NewToolResultError("id, user_id and task_type are required"), nil
	}
	duration, err := req.RequireInt("duration")
	if err != nil {
		return errorResult(err)
	}
	rating, err := req.RequireInt("rating")
	if err != nil {
		return errorResult(err)
	}
	h.DurationMinutes = duration
	h.SuccessRating = rating

	if _, err := t.svc.LogHistory(ctx, h); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success", "entry_id": h.ID})
}

func (t *Tools) GetUserHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return errorResult(err)
	}

	history, err := t.svc.GetUserHistory(ctx, userID)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]any{"user_id": userID, "history": history})
}

func (t *Tools) UpdateResourceState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errorResult(err)
	}
	metadata, err := objectArg(req, "metadata")
	if err != nil {
		return errorResult(err)
	}

	state, err := t.svc.UpdateResourceState(ctx, model.ResourceState{
		ID:       id,
		Status:   req.GetString("status", ""),
		Capacity: optionalFloat(req, "capacity"),
		Owner:    optionalString(req, "owner"),
		Team:     optionalString(req, "team"),
		Notes:    optionalString(req, "notes"),
		Metadata: metadata,
	})
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(state)
}

func (t *Tools) GetResourceState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errorResult(err)
	}

	lookup, err := t.svc.GetResourceState(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(lookup)
}
