package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alfredoptarigan/career-pathfinder/internal/models"
	"alfredoptarigan/career-pathfinder/internal/repositories"
)

var ErrUnsupportedVersion = errors.New("unsupported state version")

// loadBlob decodes key into dst. A missing blob leaves dst untouched.
func loadBlob(ctx context.Context, repo repositories.StateRepository, key string, version int, dst any) error {
	blob, err := repo.Load(ctx, key)
	if errors.Is(err, repositories.ErrStateNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if blob.Version > version {
		return fmt.Errorf("%w: %s is v%d, this build reads up to v%d", ErrUnsupportedVersion, key, blob.Version, version)
	}
	if len(blob.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(blob.Data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func saveBlob(ctx context.Context, repo repositories.StateRepository, key string, version int, v any, now time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return repo.Save(ctx, &models.StateBlob{
		Key:       key,
		Version:   version,
		Data:      data,
		UpdatedAt: now,
	})
}
