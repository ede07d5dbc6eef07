package mcptools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workflowhub/internal/repository"
	"workflowhub/internal/service/workflow"
)

func newTestTools(t *testing.T) *Tools {
	t.Helper()
	store, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "data.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return New(workflow.NewService(store, zap.NewNop()), zap.NewNop())
}

func call(t *testing.T, tools *Tools, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	for _, e := range tools.entries() {
		if e.tool.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		res, err := tools.instrument(name, e.handler)(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, res)
		return res
	}
	t.Fatalf("tool %q not registered", name)
	return nil
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func callJSON(t *testing.T, tools *Tools, name string, args map[string]any) map[string]any {
	t.Helper()
	res := call(t, tools, name, args)
	require.False(t, res.IsError, resultText(t, res))
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	return out
}

func TestToolNames(t *testing.T) {
	var names []string
	for _, e := range newTestTools(t).entries() {
		names = append(names, e.tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"health_check", "log_event", "list_events", "create_project", "onboard_user",
		"add_milestone", "complete_milestone", "get_dashboard", "recommend_assignee",
		"log_work", "get_user_history", "update_resource_state", "get_resource_state",
	}, names)
}

func TestHealthCheckTool(t *testing.T) {
	out := callJSON(t, newTestTools(t), "health_check", nil)
	assert.Equal(t, "ok", out["status"])
	assert.NotEmpty(t, out["time"])
}

func TestRecommendAssigneeTool(t *testing.T) {
	tools := newTestTools(t)

	for _, args := range []map[string]any{
		{"id": "h1", "user_id": "u3", "task_type": "analytics", "duration": float64(30), "rating": float64(5)},
		{"id": "h2", "user_id": "u3", "task_type": "analytics", "duration": float64(25), "rating": float64(5)},
	} {
		out := callJSON(t, tools, "log_work", args)
		assert.Equal(t, "success", out["status"])
		assert.Equal(t, args["id"], out["entry_id"])
	}

	out := callJSON(t, tools, "recommend_assignee", map[string]any{
		"project_id":      "proj-1",
		"task_type":       "analytics",
		"candidate_users": []any{"u1", "u3"},
	})
	assert.Equal(t, "u3", out["recommended_user_id"])
	assert.Equal(t, "analytics", out["task_type"])

	out = callJSON(t, tools, "recommend_assignee", map[string]any{
		"project_id":      "proj-1",
		"task_type":       "writing",
		"candidate_users": []any{"u1", "u2"},
	})
	assert.Equal(t, "u1", out["recommended_user_id"])

	out = callJSON(t, tools, "recommend_assignee", map[string]any{
		"project_id":      "proj-1",
		"task_type":       "writing",
		"candidate_users": []any{},
	})
	assert.Nil(t, out["recommended_user_id"])

	history := callJSON(t, tools, "get_user_history", map[string]any{"user_id": "u3"})
	assert.Len(t, history["history"], 2)
}

func TestProjectUserMilestoneTools(t *testing.T) {
	tools := newTestTools(t)

	out := callJSON(t, tools, "create_project", map[string]any{"id": "proj-1", "name": "Launch", "deadline": "2025-02-01"})
	assert.Equal(t, "proj-1", out["project_id"])

	dup := call(t, tools, "create_project", map[string]any{"id": "proj-1", "name": "Launch", "deadline": "2025-02-01"})
	assert.True(t, dup.IsError)
	assert.Contains(t, resultText(t, dup), "duplicate id")

	out = callJSON(t, tools, "onboard_user", map[string]any{
		"id": "u1", "name": "Lamar", "skills": map[string]any{"coding": 0.9},
	})
	assert.Equal(t, "u1", out["user_id"])

	bad := call(t, tools, "onboard_user", map[string]any{"id": "u2", "name": "Serena", "skills": map[string]any{"writing": "high"}})
	assert.True(t, bad.IsError)

	callJSON(t, tools, "add_milestone", map[string]any{
		"id": "m2", "project_id": "proj-1", "title": "Draft", "due_date": "2025-01-20", "assigned_to": "u1",
	})
	done := callJSON(t, tools, "complete_milestone", map[string]any{"id": "m2"})
	assert.NotEmpty(t, done["completed_at"])

	dash := callJSON(t, tools, "get_dashboard", nil)
	require.Len(t, dash["milestones"], 1)
	milestone := dash["milestones"].([]any)[0].(map[string]any)
	assert.Equal(t, "completed", milestone["status"])
	assert.Equal(t, "u1", milestone["assigned_to"])

	users := dash["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, map[string]any{"coding": 0.9}, users[0].(map[string]any)["skills"])

	missing := call(t, tools, "create_project", map[string]any{"id": "proj-2"})
	assert.True(t, missing.IsError)
}

func TestEventTools(t *testing.T) {
	tools := newTestTools(t)

	for i, sev := range []string{"P0", "P1", "P2", "P3"} {
		out := callJSON(t, tools, "log_event", map[string]any{
			"type":      "customer_escalation",
			"team":      "Payments",
			"severity":  sev,
			"timestamp": []string{"2025-01-01T00:00:00Z", "2025-01-02T00:00:00Z", "2025-01-03T00:00:00Z", "2025-01-04T00:00:00Z"}[i],
			"payload":   map[string]any{"ticket": "PAY-1"},
		})
		assert.Equal(t, true, out["ok"])
	}

	out := callJSON(t, tools, "list_events", map[string]any{"severity": "P1"})
	assert.EqualValues(t, 1, out["count"])
	evt := out["events"].([]any)[0].(map[string]any)
	assert.Equal(t, "P1", evt["severity"])
	assert.Equal(t, map[string]any{"ticket": "PAY-1"}, evt["payload"])

	out = callJSON(t, tools, "list_events", map[string]any{"limit": float64(2)})
	assert.EqualValues(t, 2, out["count"])

	out = callJSON(t, tools, "log_event", map[string]any{"type": "pr_merged", "team": "Search"})
	assert.Equal(t, "P3", out["event"].(map[string]any)["severity"])

	bad := call(t, tools, "log_event", map[string]any{"type": "pr_merged"})
	assert.True(t, bad.IsError)
}

func TestListEventsNonPositiveLimit(t *testing.T) {
	tools := newTestTools(t)

	for i := 0; i < workflow.DefaultToolEventLimit+10; i++ {
		callJSON(t, tools, "log_event", map[string]any{"type": "deploy", "team": "Infra"})
	}

	for _, limit := range []float64{0, -3} {
		out := callJSON(t, tools, "list_events", map[string]any{"limit": limit})
		assert.EqualValues(t, workflow.DefaultToolEventLimit, out["count"], "limit %v", limit)
	}

	out := callJSON(t, tools, "list_events", nil)
	assert.EqualValues(t, workflow.DefaultToolEventLimit, out["count"])
}

func TestRecommendAssigneeRejectsNonStringCandidates(t *testing.T) {
	tools := newTestTools(t)

	res := call(t, tools, "recommend_assignee", map[string]any{
		"task_type":       "analytics",
		"candidate_users": []any{"u1", float64(5), "u2"},
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "candidate_users[1]")

	res = call(t, tools, "recommend_assignee", map[string]any{
		"task_type":       "analytics",
		"candidate_users": "u1",
	})
	assert.True(t, res.IsError)
}

func TestResourceStateTools(t *testing.T) {
	tools := newTestTools(t)

	out := callJSON(t, tools, "get_resource_state", map[string]any{"id": "oncall"})
	assert.Equal(t, false, out["found"])
	assert.Equal(t, "unknown", out["status"])
	assert.Equal(t, "No resource state found.", out["message"])

	out = callJSON(t, tools, "update_resource_state", map[string]any{
		"id": "oncall", "status": "stretched", "capacity": float64(3), "team": "Payments",
		"metadata": map[string]any{"hours": float64(12)},
	})
	assert.Equal(t, "stretched", out["status"])
	assert.NotEmpty(t, out["updated_at"])

	out = callJSON(t, tools, "get_resource_state", map[string]any{"id": "oncall"})
	assert.Equal(t, true, out["found"])
	assert.Equal(t, float64(3), out["capacity"])
	assert.Equal(t, "Payments", out["team"])
	assert.Nil(t, out["owner"])
	assert.Equal(t, map[string]any{"hours": float64(12)}, out["metadata"])
}
