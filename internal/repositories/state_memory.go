package repositories

import (
	"context"
	"sync"

	"alfredoptarigan/career-pathfinder/internal/models"
)

type memoryStateRepository struct {
	mu    sync.RWMutex
	blobs map[string]models.StateBlob
}

func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{blobs: make(map[string]models.StateBlob)}
}

// Load implements StateRepository.
func (m *memoryStateRepository) Load(_ context.Context, key string) (*models.StateBlob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, ErrStateNotFound
	}
	blob.Data = append([]byte(nil), blob.Data...)
	return &blob, nil
}

// Save implements StateRepository.
func (m *memoryStateRepository) Save(_ context.Context, blob *models.StateBlob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *blob
	stored.Data = append([]byte(nil), blob.Data...)
	m.blobs[blob.Key] = stored
	return nil
}

// Delete implements StateRepository.
func (m *memoryStateRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}
