package mcptools

import "github.com/mark3labs/mcp-go/mcp"

func healthCheckTool() mcp.Tool {
	return mcp.NewTool("health_check",
		mcp.WithDescription("Report server status and the current UTC time."),
	)
}

func logEventTool() mcp.Tool {
	return mcp.NewTool("log_event",
		mcp.WithDescription("Append an event to the team event log."),
		mcp.WithString("type", mcp.Required(), mcp.Description("e.g. jira_issue_updated, pr_merged, customer_escalation")),
		mcp.WithString("team", mcp.Required(), mcp.Description("e.g. Payments")),
		mcp.WithString("severity", mcp.Description("P0, P1, P2 or P3 (default P3)")),
		mcp.WithString("timestamp", mcp.Description("UTC ISO timestamp; defaults to now")),
		mcp.WithObject("payload", mcp.Description("Arbitrary event details")),
		mcp.WithString("dedup_key", mcp.Description("Repeated keys within 24h are ignored")),
	)
}

func listEventsTool() mcp.Tool {
	return mcp.NewTool("list_events",
		mcp.WithDescription("List events newest first. Empty filters match everything."),
		mcp.WithString("team"),
		mcp.WithString("type"),
		mcp.WithString("severity"),
		mcp.WithString("start_ts", mcp.Description("Inclusive lower timestamp bound")),
		mcp.WithString("end_ts", mcp.Description("Inclusive upper timestamp bound")),
		mcp.WithNumber("limit", mcp.Description("Maximum events returned (default 50)")),
	)
}

func createProjectTool() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Create a project."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("deadline", mcp.Required(), mcp.Description("ISO date")),
		mcp.WithString("status", mcp.Description("Default active")),
		mcp.WithString("created_at", mcp.Description("UTC ISO timestamp; defaults to now")),
	)
}

func onboardUserTool() mcp.Tool {
	return mcp.NewTool("onboard_user",
		mcp.WithDescription("Create a user, or replace an existing user with the same id."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("role", mcp.Description("Default member")),
		mcp.WithObject("skills", mcp.Description("Skill name to score in [0,1]")),
	)
}

func addMilestoneTool() mcp.Tool {
	return mcp.NewTool("add_milestone",
		mcp.WithDescription("Add a milestone to a project."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("project_id", mcp.Required()),
		mcp.WithString("title", mcp.Required()),
		mcp.WithString("status", mcp.Description("pending, in_progress or completed (default pending)")),
		mcp.WithString("due_date"),
		mcp.WithString("assigned_to", mcp.Description("User id")),
	)
}

func completeMilestoneTool() mcp.Tool {
	return mcp.NewTool("complete_milestone",
		mcp.WithDescription("Mark a milestone completed and stamp completed_at."),
		mcp.WithString("id", mcp.Required()),
	)
}

func getDashboardTool() mcp.Tool {
	return mcp.NewTool("get_dashboard",
		mcp.WithDescription("Return all projects, users and milestones."),
	)
}

func recommendAssigneeTool() mcp.Tool {
	return mcp.NewTool("recommend_assignee",
		mcp.WithDescription("Recommend the candidate with the best rating per minute on this task type."),
		mcp.WithString("project_id", mcp.Required()),
		mcp.WithString("task_type", mcp.Required(), mcp.Description("Matched exactly, case sensitive")),
		mcp.WithArray("candidate_users",
			mcp.Required(),
			mcp.Description("Candidate user ids in priority order"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func logWorkTool() mcp.Tool {
	return mcp.NewTool("log_work",
		mcp.WithDescription("Record a completed task for a user."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("user_id", mcp.Required()),
		mcp.WithString("task_type", mcp.Required()),
		mcp.WithNumber("duration", mcp.Required(), mcp.Description("Minutes")),
		mcp.WithNumber("rating", mcp.Required(), mcp.Description("1-5")),
	)
}

func getUserHistoryTool() mcp.Tool {
	return mcp.NewTool("get_user_history",
		mcp.WithDescription("List a user's task history."),
		mcp.WithString("user_id", mcp.Required()),
	)
}

func updateResourceStateTool() mcp.Tool {
	return mcp.NewTool("update_resource_state",
		mcp.WithDescription("Upsert the state of a shared resource; the latest write wins."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("status", mcp.Description("Default unknown")),
		mcp.WithNumber("capacity"),
		mcp.WithString("owner"),
		mcp.WithString("team"),
		mcp.WithString("notes"),
		mcp.WithObject("metadata"),
	)
}

func getResourceStateTool() mcp.Tool {
	return mcp.NewTool("get_resource_state",
		mcp.WithDescription("Fetch the state of a shared resource."),
		mcp.WithString("id", mcp.Required()),
	)
}
