// Package workflow is the facade the HTTP API and the tool surface call into.
// Each operation performs one repository call (recommendation performs one
// per candidate) and applies the field defaults of the data model. Referenced
// project and user ids are stored as given.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	contracts "workflowhub/contracts/mq"
	"workflowhub/internal/model"
	"workflowhub/internal/recommend"
	"workflowhub/internal/repository"
	"workflowhub/pkg/logger"
	"workflowhub/pkg/metrics"
	"workflowhub/pkg/util"
)

const (
	// DefaultEventLimit applies to direct event queries.
	DefaultEventLimit = 200
	// DefaultToolEventLimit applies to list_events on the tool surface.
	DefaultToolEventLimit = 50

	dedupScope = "log_event"
)

// Publisher receives best-effort notifications after successful writes.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Deduper reports whether a key is seen for the first time. Release undoes
// an acquire whose write failed.
type Deduper interface {
	AcquireOnce(ctx context.Context, scope, key string) bool
	Release(ctx context.Context, scope, key string)
}

type Service struct {
	projects   repository.ProjectRepository
	users      repository.UserRepository
	milestones repository.MilestoneRepository
	history    repository.TaskHistoryRepository
	events     repository.EventRepository
	resources  repository.ResourceRepository

	publisher Publisher
	deduper   Deduper
	ping      func(ctx context.Context) error
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*Service)

// WithPublisher enables domain notifications.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithDeduper enables dedup_key handling on LogEvent.
func WithDeduper(d Deduper) Option {
	return func(s *Service) { s.deduper = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store *repository.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		projects:   store.Projects,
		users:      store.Users,
		milestones: store.Milestones,
		history:    store.History,
		events:     store.Events,
		resources:  store.Resources,
		ping:       store.Ping,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) nowISO() string {
	return util.FormatISO(s.now())
}

// notify publishes a notification; failures are logged only.
func (s *Service) notify(ctx context.Context, routingKey, entityID string, data any) {
	if s.publisher == nil {
		return
	}
	n := contracts.Notification{
		Type:       routingKey,
		EntityID:   entityID,
		OccurredAt: s.nowISO(),
		Data:       data,
	}
	if err := s.publisher.Publish(ctx, routingKey, n); err != nil {
		logger.WithTrace(ctx, s.logger).Warn("Failed to publish notification",
			zap.String("routing_key", routingKey),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func (s *Service) CreateProject(ctx context.Context, p model.Project) (*model.Project, error) {
	if p.Status == "" {
		p.Status = model.DefaultProjectStatus
	}
	if p.CreatedAt == "" {
		p.CreatedAt = s.nowISO()
	}
	if err := s.projects.Insert(ctx, &p); err != nil {
		return nil, err
	}
	s.notify(ctx, contracts.RoutingProjectCreated, p.ID, p)
	return &p, nil
}

// OnboardUser creates the user or replaces every field of an existing one.
func (s *Service) OnboardUser(ctx context.Context, u model.User) (*model.User, error) {
	if u.Role == "" {
		u.Role = model.DefaultUserRole
	}
	if u.Skills == nil {
		u.Skills = model.Skills{}
	}
	if err := s.users.Upsert(ctx, &u); err != nil {
		return nil, err
	}
	s.notify(ctx, contracts.RoutingUserOnboarded, u.ID, u)
	return &u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *Service) GetUserHistory(ctx context.Context, userID string) ([]model.TaskHistory, error) {
	return s.history.ListByUser(ctx, userID)
}

func (s *Service) AddMilestone(ctx context.Context, m model.Milestone) (*model.Milestone, error) {
	if m.Status == "" {
		m.Status = model.MilestonePending
	}
	if err := s.milestones.Insert(ctx, &m); err != nil {
		return nil, err
	}
	s.notify(ctx, contracts.RoutingMilestoneCreated, m.ID, m)
	return &m, nil
}

// CompleteMilestone marks the milestone completed and stamps completed_at
// with the current time; repeating it moves the stamp forward. An unknown id
// updates nothing and is not an error.
func (s *Service) CompleteMilestone(ctx context.Context, id string) (string, error) {
	completedAt := s.nowISO()
	n, err := s.milestones.UpdateStatus(ctx, id, model.MilestoneCompleted, &completedAt)
	if err != nil {
		return "", err
	}
	if n == 0 {
		logger.WithTrace(ctx, s.logger).Info("Completed milestone matched no rows", zap.String("milestone_id", id))
		return completedAt, nil
	}
	s.notify(ctx, contracts.RoutingMilestoneCompleted, id, map[string]string{"completed_at": completedAt})
	return completedAt, nil
}

func (s *Service) LogHistory(ctx context.Context, h model.TaskHistory) (*model.TaskHistory, error) {
	if h.Timestamp == "" {
		h.Timestamp = s.nowISO()
	}
	if err := s.history.Insert(ctx, &h); err != nil {
		return nil, err
	}
	s.notify(ctx, contracts.RoutingHistoryLogged, h.ID, h)
	return &h, nil
}

// EventInput describes one event to append. Source labels the
// events_logged_count metric.
type EventInput struct {
	Type      string
	Team      string
	Severity  string
	Timestamp string
	Payload   model.Payload
	DedupKey  string
	Source    string
}

type EventResult struct {
	OK        bool         `json:"ok"`
	Duplicate bool         `json:"duplicate,omitempty"`
	Event     *model.Event `json:"event,omitempty"`
}

// LogEvent appends an event with a generated evt_ id. A repeated DedupKey,
// when a deduper is configured, inserts nothing and reports Duplicate.
func (s *Service) LogEvent(ctx context.Context, in EventInput) (*EventResult, error) {
	if in.DedupKey != "" && s.deduper != nil && !s.deduper.AcquireOnce(ctx, dedupScope, in.DedupKey) {
		return &EventResult{OK: true, Duplicate: true}, nil
	}

	e := model.Event{
		ID:        util.NewID("evt"),
		Type:      in.Type,
		Team:      in.Team,
		Severity:  in.Severity,
		Timestamp: in.Timestamp,
		Payload:   in.Payload,
	}
	if e.Severity == "" {
		e.Severity = model.DefaultEventSeverity
	}
	if e.Timestamp == "" {
		e.Timestamp = s.nowISO()
	}
	if err := s.events.Insert(ctx, &e); err != nil {
		if in.DedupKey != "" && s.deduper != nil {
			s.deduper.Release(ctx, dedupScope, in.DedupKey)
		}
		return nil, err
	}

	if in.Source != "" {
		metrics.IncrementEventsLogged(in.Source)
	}
	s.notify(ctx, contracts.RoutingEventLogged, e.ID, e)
	return &EventResult{OK: true, Event: &e}, nil
}

// ListEvents returns matching events newest first. A non-positive limit
// becomes DefaultEventLimit.
func (s *Service) ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultEventLimit
	}
	return s.events.Query(ctx, f)
}

type Dashboard struct {
	Projects   []model.Project   `json:"projects"`
	Users      []model.User      `json:"users"`
	Milestones []model.Milestone `json:"milestones"`
}

// Dashboard returns full unfiltered snapshots of projects, users and
// milestones.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	milestones, err := s.milestones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return &Dashboard{Projects: projects, Users: users, Milestones: milestones}, nil
}

// RecommendAssignee picks the best candidate for taskType. It returns nil
// without consulting history when candidates is empty. projectID is carried
// for logging only.
func (s *Service) RecommendAssignee(ctx context.Context, projectID, taskType string, candidates []string) (*recommend.Recommendation, error) {
	log := logger.WithTrace(ctx, s.logger)

	if len(candidates) == 0 {
		metrics.IncrementRecommendation("no_candidates")
		log.Info("No candidates for recommendation",
			zap.String("project_id", projectID),
			zap.String("task_type", taskType),
		)
		return nil, nil
	}

	rec, err := recommend.Recommend(ctx, s.history, taskType, candidates)
	if errors.Is(err, recommend.ErrNoCandidates) {
		return nil, nil
	}
	if err != nil {
		log.Error("Recommendation failed",
			zap.String("project_id", projectID),
			zap.String("task_type", taskType),
			zap.Error(err),
		)
		return nil, err
	}

	outcome := "history"
	if rec.Matches == 0 {
		outcome = "fallback"
	}
	metrics.IncrementRecommendation(outcome)

	log.Debug("Recommended assignee",
		zap.String("project_id", projectID),
		zap.String("task_type", taskType),
		zap.String("user_id", rec.UserID),
		zap.Float64("score", rec.Score),
		zap.Int("candidates", len(candidates)),
	)
	return &rec, nil
}

// RecommendFromAllUsers uses every stored user, ordered by id, as the
// candidate set.
func (s *Service) RecommendFromAllUsers(ctx context.Context, projectID, taskType string) (*recommend.Recommendation, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return s.RecommendAssignee(ctx, projectID, taskType, ids)
}

// UpdateResourceState upserts r with updated_at set to now. Status
// defaults to unknown.
func (s *Service) UpdateResourceState(ctx context.Context, r model.ResourceState) (*model.ResourceState, error) {
	if r.Status == "" {
		r.Status = model.DefaultResourceStatus
	}
	r.UpdatedAt = s.nowISO()
	if err := s.resources.Upsert(ctx, &r); err != nil {
		return nil, err
	}
	s.notify(ctx, contracts.RoutingResourceUpdated, r.ID, r)
	return &r, nil
}

const resourceNotFoundMessage = "No resource state found."

// ResourceLookup is the result of GetResourceState. A miss has Found false,
// status unknown and a message.
type ResourceLookup struct {
	Found   bool   `json:"found"`
	Message string `json:"message,omitempty"`
	*model.ResourceState
}

func (s *Service) GetResourceState(ctx context.Context, id string) (*ResourceLookup, error) {
	r, err := s.resources.FindByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return &ResourceLookup{
			Found:   false,
			Message: resourceNotFoundMessage,
			ResourceState: &model.ResourceState{
				ID:     id,
				Status: model.DefaultResourceStatus,
			},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ResourceLookup{Found: true, ResourceState: r}, nil
}

type HealthStatus struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func (s *Service) Health() HealthStatus {
	return HealthStatus{Status: "ok", Time: s.nowISO()}
}

// Ready pings the store.
func (s *Service) Ready(ctx context.Context) error {
	return s.ping(ctx)
}
