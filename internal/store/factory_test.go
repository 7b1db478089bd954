package store

import (
	"path/filepath"
	"testing"

	"github.com/bizzon-vn/bepnhanga/internal/config"
	"github.com/bizzon-vn/bepnhanga/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolvesBackendOnce(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Store.Backend = config.BackendLocal
	cfg.Store.LocalPath = filepath.Join(t.TempDir(), "orders.json")

	s, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, (*Local)(nil), s)

	cfg.Store.Backend = config.BackendGitHub
	cfg.Store.GitHub.Token = "ghp_x"

	s, err = New(cfg, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, (*GitHub)(nil), s)
}

func TestNewRejectsGitHubWithoutToken(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Store.Backend = config.BackendGitHub

	_, err := New(cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Store.Backend = "redis"

	_, err := New(cfg, logger.NewNop())
	assert.Error(t, err)
}
