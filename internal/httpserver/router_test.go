package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workflowhub/internal/handler"
	"workflowhub/internal/repository"
	"workflowhub/internal/service/workflow"
	"workflowhub/pkg/trace"
	"workflowhub/pkg/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	store, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "data.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	svc := workflow.NewService(store, zap.NewNop())
	h := handler.NewWorkflowHandler(svc, zap.NewNop())
	return NewRouter(h, svc, secret, zap.NewNop()).Engine
}

func do(t *testing.T, r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t, "")

	for _, path := range []string{"/healthz", "/health", "/readyz"} {
		w := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := do(t, r, http.MethodHead, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/healthz", "", trace.HeaderName, "abc123")
	assert.Equal(t, "abc123", w.Header().Get(trace.HeaderName))
}

func TestRecommendationFlow(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(t, r, http.MethodGet, "/recommend/proj-1/analytics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["recommended_user_id"])

	for _, body := range []string{
		`{"id":"u1","name":"Lamar","skills":{"coding":0.9}}`,
		`{"id":"u3","name":"Vishaka","skills":{"analytics":0.9}}`,
	} {
		w := do(t, r, http.MethodPost, "/users", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "success", decode(t, w)["status"])
	}

	for _, body := range []string{
		`{"id":"h1","user_id":"u3","task_type":"analytics","duration_minutes":30,"success_rating":5,"timestamp":"2025-01-01T00:00:00Z"}`,
		`{"id":"h2","user_id":"u3","task_type":"analytics","duration_minutes":25,"success_rating":5,"timestamp":"2025-01-02T00:00:00Z"}`,
	} {
		w := do(t, r, http.MethodPost, "/history", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/recommend/proj-1/analytics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u3", decode(t, w)["recommended_user_id"])

	w = do(t, r, http.MethodGet, "/recommend/proj-1/writing", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decode(t, w)["recommended_user_id"])

	w = do(t, r, http.MethodGet, "/users/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"coding": 0.9}, decode(t, w)["skills"])

	w = do(t, r, http.MethodGet, "/users/u3/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["history"], 2)

	w = do(t, r, http.MethodGet, "/users/nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateHistoryRequiresDurationAndRating(t *testing.T) {
	r := newTestRouter(t, "")

	for _, body := range []string{
		`{"id":"h1","user_id":"u1","task_type":"analytics"}`,
		`{"id":"h1","user_id":"u1","task_type":"analytics","success_rating":5}`,
		`{"id":"h1","user_id":"u1","task_type":"analytics","duration_minutes":30}`,
		`{"id":"h1","user_id":"u1","task_type":"analytics","duration_minutes":-5,"success_rating":5}`,
	} {
		w := do(t, r, http.MethodPost, "/history", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w := do(t, r, http.MethodGet, "/users/u1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["history"])

	// zero is present, not missing; the engine guards the division
	w = do(t, r, http.MethodPost, "/history", `{"id":"h2","user_id":"u1","task_type":"analytics","duration_minutes":0,"success_rating":4}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestProjectsAndMilestones(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(t, r, http.MethodPost, "/projects", `{"id":"proj-1","name":"Launch","deadline":"2025-02-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/projects", `{"id":"proj-1","name":"Launch","deadline":"2025-02-01"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/projects", `{"name":"No id"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/milestones", `{"id":"m2","project_id":"proj-1","title":"Draft","due_date":"2025-01-20"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/milestones/m2/complete", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dash workflow.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	require.Len(t, dash.Projects, 1)
	assert.Equal(t, "active", dash.Projects[0].Status)
	require.Len(t, dash.Milestones, 1)
	assert.Equal(t, "completed", dash.Milestones[0].Status)
	require.NotNil(t, dash.Milestones[0].CompletedAt)
	assert.NotEmpty(t, *dash.Milestones[0].CompletedAt)
	assert.Empty(t, dash.Users)
}

func TestEventsEndpoints(t *testing.T) {
	r := newTestRouter(t, "")

	for i, sev := range []string{"P0", "P1", "P2", "P3"} {
		body := `{"type":"customer_escalation","team":"Payments","severity":"` + sev +
			`","timestamp":"2025-01-0` + string(rune('1'+i)) + `T00:00:00Z","payload":{"n":1}}`
		w := do(t, r, http.MethodPost, "/events", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, true, decode(t, w)["ok"])
	}

	w := do(t, r, http.MethodGet, "/events?severity=P1", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.EqualValues(t, 1, out["count"])

	w = do(t, r, http.MethodGet, "/events?team=Payments&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	out = decode(t, w)
	assert.EqualValues(t, 2, out["count"])
	first := out["events"].([]any)[0].(map[string]any)
	assert.Equal(t, "P3", first["severity"])
	assert.Equal(t, map[string]any{"n": float64(1)}, first["payload"])

	w = do(t, r, http.MethodGet, "/events?limit=lots", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/events", `{"type":"x","team":"y","payload":[1,2]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResourceEndpoints(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(t, r, http.MethodGet, "/resources/queue-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, false, out["found"])
	assert.Equal(t, "unknown", out["status"])
	assert.Equal(t, "No resource state found.", out["message"])

	w = do(t, r, http.MethodPut, "/resources/queue-1", `{"status":"busy","capacity":0.5,"metadata":{"region":"eu"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/resources/queue-1", "")
	out = decode(t, w)
	assert.Equal(t, true, out["found"])
	assert.Equal(t, "busy", out["status"])
	assert.Equal(t, 0.5, out["capacity"])
	assert.Equal(t, map[string]any{"region": "eu"}, out["metadata"])
}

func TestAuthRequiredWithSecret(t *testing.T) {
	const secret = "s3cret"
	r := newTestRouter(t, secret)

	w := do(t, r, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/dashboard", "", "Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := util.GenerateJWT("ops", "wrong", time.Hour)
	require.NoError(t, err)
	w = do(t, r, http.MethodGet, "/dashboard", "", "Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := util.GenerateJWT("ops", secret, time.Hour)
	require.NoError(t, err)
	w = do(t, r, http.MethodGet, "/dashboard", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMCPRouter(t *testing.T) {
	store, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "data.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	svc := workflow.NewService(store, zap.NewNop())

	var hits int
	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusAccepted)
	})

	const secret = "s3cret"
	r := NewMCPRouter(stub, svc, secret, zap.NewNop()).Engine

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/readyz", "").Code)

	w := do(t, r, http.MethodPost, "/mcp", `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, hits)

	token, err := util.GenerateJWT("agent", secret, time.Hour)
	require.NoError(t, err)
	w = do(t, r, http.MethodPost, "/mcp", `{"jsonrpc":"2.0","id":1,"method":"ping"}`, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, hits)
}
