package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflowhub/internal/model"
	"workflowhub/internal/service/workflow"
	"workflowhub/pkg/logger"
)

type WorkflowHandler struct {
	svc    *workflow.Service
	logger *zap.Logger
}

func NewWorkflowHandler(svc *workflow.Service, logger *zap.Logger) *WorkflowHandler {
	return &WorkflowHandler{svc: svc, logger: logger}
}

func success() gin.H {
	return gin.H{"status": "success"}
}

// writeError maps facade errors onto status codes.
func (h *WorkflowHandler) writeError(c *gin.Context, op string, err error) {
	log := logger.WithTrace(c.Request.Context(), h.logger)

	switch {
	case errors.Is(err, model.ErrDuplicateID):
		log.Warn(op+": duplicate id", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error(op+": failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *WorkflowHandler) badRequest(c *gin.Context, op string, err error) {
	logger.WithTrace(c.Request.Context(), h.logger).Warn(op+": invalid request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *WorkflowHandler) GetDashboard(c *gin.Context) {
	dash, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.writeError(c, "GetDashboard", err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (h *WorkflowHandler) CreateUser(c *gin.Context) {
	var req model.User
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "CreateUser", err)
		return
	}

	if _, err := h.svc.OnboardUser(c.Request.Context(), req); err != nil {
		h.writeError(c, "CreateUser", err)
		return
	}
	c.JSON(http.StatusOK, success())
}

func (h *WorkflowHandler) GetUser(c *gin.Context) {
	u, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "GetUser", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *WorkflowHandler) GetUserHistory(c *gin.Context) {
	userID := c.Param("id")
	history, err := h.svc.GetUserHistory(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, "GetUserHistory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "history": history})
}

func (h *WorkflowHandler) CreateProject(c *gin.Context) {
	var req model.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "CreateProject", err)
		return
	}

	if _, err := h.svc.CreateProject(c.Request.Context(), req); err != nil {
		h.writeError(c, "CreateProject", err)
		return
	}
	c.JSON(http.StatusOK, success())
}

func (h *WorkflowHandler) CreateMilestone(c *gin.Context) {
	var req model.Milestone
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "CreateMilestone", err)
		return
	}

	if _, err := h.svc.AddMilestone(c.Request.Context(), req); err != nil {
		h.writeError(c, "CreateMilestone", err)
		return
	}
	c.JSON(http.StatusOK, success())
}

func (h *WorkflowHandler) CompleteMilestone(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.svc.CompleteMilestone(c.Request.Context(), id); err != nil {
		h.writeError(c, "CompleteMilestone", err)
		return
	}
	c.JSON(http.StatusOK, success())
}

// createHistoryRequest uses pointers so a missing duration or rating is a
// binding error rather than a stored zero.
type createHistoryRequest struct {
	ID              string `json:"id" binding:"required"`
	UserID          string `json:"user_id" binding:"required"`
	TaskType        string `json:"task_type" binding:"required"`
	DurationMinutes *int   `json:"duration_minutes" binding:"required,min=0"`
	SuccessRating   *int   `json:"success_rating" binding:"required"`
	Timestamp       string `json:"timestamp"`
}

func (h *WorkflowHandler) CreateHistory(c *gin.Context) {
	var req createHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "CreateHistory", err)
		return
	}

	entry := model.TaskHistory{
		ID:              req.ID,
		UserID:          req.UserID,
		TaskType:        req.TaskType,
		DurationMinutes: *req.DurationMinutes,
		SuccessRating:   *req.SuccessRating,
		Timestamp:       req.Timestamp,
	}
	if _, err := h.svc.LogHistory(c.Request.Context(), entry); err != nil {
		h.writeError(c, "CreateHistory", err)
		return
	}
	c.JSON(http.StatusOK, success())
}

// Recommend considers every stored user; with none it answers null.
func (h *WorkflowHandler) Recommend(c *gin.Context) {
	rec, err := h.svc.RecommendFromAllUsers(c.Request.Context(), c.Param("project_id"), c.Param("task_type"))
	if err != nil {
		h.writeError(c, "Recommend", err)
		return
	}

	var userID *string
	if rec != nil {
		userID = &rec.UserID
	}
	c.JSON(http.StatusOK, gin.H{"recommended_user_id": userID})
}

type logEventRequest struct {
	Type      string        `json:"type" binding:"required"`
	Team      string        `json:"team" binding:"required"`
	Severity  string        `json:"severity"`
	Timestamp string        `json:"timestamp"`
	Payload   model.Payload `json:"payload"`
	DedupKey  string        `json:"dedup_key"`
}

func (h *WorkflowHandler) LogEvent(c *gin.Context) {
	var req logEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "LogEvent", err)
		return
	}

	res, err := h.svc.LogEvent(c.Request.Context(), workflow.EventInput{
		Type:      req.Type,
		Team:      req.Team,
		Severity:  req.Severity,
		Timestamp: req.Timestamp,
		Payload:   req.Payload,
		DedupKey:  req.DedupKey,
		Source:    "http",
	})
	if err != nil {
		h.writeError(c, "LogEvent", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *WorkflowHandler) ListEvents(c *gin.Context) {
	filter := model.EventFilter{
		Team:     c.Query("team"),
		Type:     c.Query("type"),
		Severity: c.Query("severity"),
		StartTS:  c.Query("start_ts"),
		EndTS:    c.Query("end_ts"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.badRequest(c, "ListEvents", errors.New("invalid limit"))
			return
		}
		filter.Limit = limit
	}

	events, err := h.svc.ListEvents(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, "ListEvents", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

type resourceRequest struct {
	Status   string        `json:"status"`
	Capacity *float64      `json:"capacity"`
	Owner    *string       `json:"owner"`
	Team     *string       `json:"team"`
	Notes    *string       `json:"notes"`
	Metadata model.Payload `json:"metadata"`
}

func (h *WorkflowHandler) UpdateResource(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "UpdateResource", err)
		return
	}

	state, err := h.svc.UpdateResourceState(c.Request.Context(), model.ResourceState{
		ID:       c.Param("id"),
		Status:   req.Status,
		Capacity: req.Capacity,
		Owner:    req.Owner,
		Team:     req.Team,
		Notes:    req.Notes,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.writeError(c, "UpdateResource", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *WorkflowHandler) GetResource(c *gin.Context) {
	lookup, err := h.svc.GetResourceState(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "GetResource", err)
		return
	}
	c.JSON(http.StatusOK, lookup)
}
