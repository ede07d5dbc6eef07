// Package mcptools exposes the workflow facade as MCP tools. Every tool
// answers with a JSON text result; failures come back as tool errors.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"workflowhub/internal/model"
	"workflowhub/internal/service/workflow"
	"workflowhub/pkg/metrics"
)

type Tools struct {
	svc    *workflow.Service
	logger *zap.Logger
}

func New(svc *workflow.Service, logger *zap.Logger) *Tools {
	return &Tools{svc: svc, logger: logger}
}

type entry struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func (t *Tools) entries() []entry {
	return []entry{
		{healthCheckTool(), t.HealthCheck},
		{logEventTool(), t.LogEvent},
		{listEventsTool(), t.ListEvents},
		{createProjectTool(), t.CreateProject},
		{onboardUserTool(), t.OnboardUser},
		{addMilestoneTool(), t.AddMilestone},
		{completeMilestoneTool(), t.CompleteMilestone},
		{getDashboardTool(), t.GetDashboard},
		{recommendAssigneeTool(), t.RecommendAssignee},
		{logWorkTool(), t.LogWork},
		{getUserHistoryTool(), t.GetUserHistory},
		{updateResourceStateTool(), t.UpdateResourceState},
		{getResourceStateTool(), t.GetResourceState},
	}
}

// Register adds every tool to s.
func (t *Tools) Register(s *server.MCPServer) {
	for _, e := range t.entries() {
		s.AddTool(e.tool, t.instrument(e.tool.Name, e.handler))
	}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(name, version string, t *Tools) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	t.Register(s)
	return s
}

func (t *Tools) instrument(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := h(ctx, req)

		status := "ok"
		if err != nil || (res != nil && res.IsError) {
			status = "error"
		}
		metrics.IncrementToolCall(name, status)
		t.logger.Info("Tool call",
			zap.String("tool", name),
			zap.String("status", status),
			zap.Duration("latency", time.Since(start)),
		)
		return res, err
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

func errorResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// optionalString returns nil for a missing or empty argument.
func optionalString(req mcp.CallToolRequest, key string) *string {
	v := req.GetString(key, "")
	if v == "" {
		return nil
	}
	return &v
}

func optionalFloat(req mcp.CallToolRequest, key string) *float64 {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil
	}
	v := req.GetFloat(key, 0)
	return &v
}

// objectArg converts an object argument into a Payload.
func objectArg(req mcp.CallToolRequest, key string) (model.Payload, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return model.Payload{}, nil
	}
	p, err := model.NewPayload(raw)
	if err != nil {
		return model.Payload{}, fmt.Errorf("%s: %w", key, err)
	}
	return p, nil
}

func skillsArg(req mcp.CallToolRequest) (model.Skills, error) {
	raw, ok := req.GetArguments()["skills"]
	if !ok || raw == nil {
		return model.Skills{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("skills must be an object")
	}
	skills := make(model.Skills, len(obj))
	for name, v := range obj {
		score, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("skill %q must be a number", name)
		}
		skills[name] = score
	}
	return skills, nil
}
