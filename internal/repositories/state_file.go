package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"alfredoptarigan/career-pathfinder/internal/models"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type fileStateRepository struct {
	dir string
}

// fileBlob stores Data as a string so Load returns the saved bytes unchanged.
type fileBlob struct {
	Key       string    `json:"key"`
	Version   int       `json:"version"`
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewFileStateRepository keeps one JSON file per key under dir/clientKey.
func NewFileStateRepository(dir, clientKey string) (StateRepository, error) {
	full := filepath.Join(dir, safeName(clientKey))
	if err := os.MkdirAll(full, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &fileStateRepository{dir: full}, nil
}

func (f *fileStateRepository) path(key string) string {
	return filepath.Join(f.dir, safeName(key)+".json")
}

// Load implements StateRepository.
func (f *fileStateRepository) Load(_ context.Context, key string) (*models.StateBlob, error) {
	raw, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", key, err)
	}
	var stored fileBlob
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode state %s: %w", key, err)
	}
	return &models.StateBlob{
		Key:       stored.Key,
		Version:   stored.Version,
		Data:      []byte(stored.Data),
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

// Save implements StateRepository. Writes go through a temp file and rename.
func (f *fileStateRepository) Save(_ context.Context, blob *models.StateBlob) error {
	raw, err := json.MarshalIndent(fileBlob{
		Key:       blob.Key,
		Version:   blob.Version,
		Data:      string(blob.Data),
		UpdatedAt: blob.UpdatedAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state %s: %w", blob.Key, err)
	}
	tmp, err := os.CreateTemp(f.dir, ".state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state %s: %w", blob.Key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state %s: %w", blob.Key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(blob.Key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save state %s: %w", blob.Key, err)
	}
	return nil
}

// Delete implements StateRepository.
func (f *fileStateRepository) Delete(_ context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}

func safeName(s string) string {
	s = unsafeFileChars.ReplaceAllString(s, "_")
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}
