package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workflowhub/internal/repository"
	"workflowhub/internal/service/workflow"
)

func newService(t *testing.T) *workflow.Service {
	t.Helper()
	store, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "data.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return workflow.NewService(store, zap.NewNop())
}

func TestDemoFixture(t *testing.T) {
	fx, err := Load("")
	require.NoError(t, err)

	assert.Len(t, fx.Projects, 1)
	assert.Len(t, fx.Users, 3)
	assert.Len(t, fx.History, 4)
	assert.Len(t, fx.Milestones, 3)
	assert.Equal(t, 0.9, fx.Users[2].Skills["analytics"])
	assert.Equal(t, "2025-01-20", fx.Milestones[1].DueDate)
}

func TestApplyIsIdempotent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	fx, err := Load("")
	require.NoError(t, err)

	first, err := Apply(ctx, svc, fx, Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 11, first.Created)
	assert.Zero(t, first.Skipped)

	second, err := Apply(ctx, svc, fx, Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, second.Created)
	assert.Equal(t, 8, second.Skipped)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, dash.Projects, 1)
	assert.Len(t, dash.Users, 3)
	require.Len(t, dash.Milestones, 3)
	require.NotNil(t, dash.Milestones[0].CompletedAt)
	assert.Nil(t, dash.Milestones[1].CompletedAt)

	rec, err := svc.RecommendFromAllUsers(ctx, "proj-1", "analytics")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "u3", rec.UserID)
}

func TestApplyPeopleOnly(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	fx, err := Load("")
	require.NoError(t, err)

	report, err := Apply(ctx, svc, fx, Options{PeopleOnly: true}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 7, report.Created)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, dash.Projects)
	assert.Empty(t, dash.Milestones)
	assert.Len(t, dash.Users, 3)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - {id: ops, name: Ops Bot, role: bot}
`), 0o644))

	fx, err := Load(path)
	require.NoError(t, err)
	require.Len(t, fx.Users, 1)
	assert.Equal(t, "bot", fx.Users[0].Role)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("users: [unclosed"))
	assert.Error(t, err)
}
