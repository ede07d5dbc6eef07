package model

const DefaultEventSeverity = "P3"

// Event is an append-only log entry, e.g. jira_issue_updated or
// customer_escalation, scoped to a team.
type Event struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Team      string  `json:"team"`
	Severity  string  `json:"severity"` // P0..P3
	Timestamp string  `json:"timestamp"`
	Payload   Payload `json:"payload"`
}

// EventFilter selects events. Empty fields do not filter; timestamp bounds
// are inclusive and compared as strings.
type EventFilter struct {
	Team     string
	Type     string
	Severity string
	StartTS  string
	EndTS    string
	Limit    int
}
