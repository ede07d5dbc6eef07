package mq

// Routing keys published after successful writes.
const (
	RoutingProjectCreated     = "project.created"
	RoutingUserOnboarded      = "user.onboarded"
	RoutingMilestoneCreated   = "milestone.created"
	RoutingMilestoneCompleted = "milestone.completed"
	RoutingHistoryLogged      = "history.logged"
	RoutingEventLogged        = "event.logged"
	RoutingResourceUpdated    = "resource.updated"
)

// Inbound event ingestion.
const (
	RoutingEventIngest = "workflow.event.ingest"
	QueueEventIngest   = "workflow.event.ingest.q"
)

// Notification is the envelope for every outbound domain message.
type Notification struct {
	Type       string `json:"type"`
	EntityID   string `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
	Data       any    `json:"data,omitempty"`
}

// EventIngestPayload is one external event to append to the event log.
// Severity defaults to P3 and Timestamp to the time of ingestion.
type EventIngestPayload struct {
	Type      string         `json:"type"`
	Team      string         `json:"team"`
	Severity  string         `json:"severity,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	DedupKey  string         `json:"dedup_key,omitempty"`
}
