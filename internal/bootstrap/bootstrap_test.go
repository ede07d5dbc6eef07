package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workflowhub/pkg/config"
	"workflowhub/pkg/mq"
)

func TestOpenWithoutCollaborators(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Location: filepath.Join(t.TempDir(), "data.db")}}

	app, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Publisher)
	assert.Nil(t, app.Redis)
	assert.Equal(t, "sqlite", app.Store.Engine())
	assert.NoError(t, app.Ready(context.Background()))
}

func TestReadyReportsClosedBroker(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Location: filepath.Join(t.TempDir(), "data.db")}}
	app, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	app.Publisher = &mq.Publisher{}
	assert.ErrorIs(t, app.Ready(context.Background()), errBrokerDisconnected)
}

func TestReadyReportsClosedStore(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Location: filepath.Join(t.TempDir(), "data.db")}}
	app, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	app.Store.Close()
	assert.Error(t, app.Ready(context.Background()))
}
