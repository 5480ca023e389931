package repositories

import (
	"context"
	"errors"
	"fmt"

	"alfredoptarigan/career-pathfinder/internal/config"
	"alfredoptarigan/career-pathfinder/internal/models"
)

var ErrStateNotFound = errors.New("state not found")

// StateRepository loads and saves versioned JSON blobs for one client
// profile. It is a local cache, never shared between clients.
type StateRepository interface {
	Load(ctx context.Context, key string) (*models.StateBlob, error)
	Save(ctx context.Context, blob *models.StateBlob) error
	Delete(ctx context.Context, key string) error
}

// Open picks a backend from the client configuration. The returned close
// function is never nil.
func Open(cfg config.ClientConfig, verbose bool) (StateRepository, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case "memory":
		return NewMemoryStateRepository(), noop, nil
	case "file":
		repo, err := NewFileStateRepository(cfg.DSN, cfg.ClientKey)
		if err != nil {
			return nil, noop, err
		}
		return repo, noop, nil
	case "sqlite", "postgres":
		db, err := config.InitStateDatabase(cfg, verbose)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("failed to get database handle: %w", err)
		}
		return NewGormStateRepository(db, cfg.ClientKey), sqlDB.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
