package store

import (
	"fmt"

	"github.com/bizzon-vn/bepnhanga/internal/config"
	"github.com/bizzon-vn/bepnhanga/pkg/logger"
)

// New resolves the configured backend once at startup. There is no
// runtime fallback between backends: a github store that cannot reach
// the remote fails its operations instead of degrading to local
// storage.
func New(cfg *config.Config, logger logger.Logger) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendLocal:
		return NewLocal(cfg.Store.LocalPath, logger)
	case config.BackendGitHub:
		return NewGitHub(cfg.Store.GitHub, logger)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
