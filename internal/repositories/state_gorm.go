package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/career-pathfinder/internal/models"
)

type gormStateRepository struct {
	db        *gorm.DB
	clientKey string
}

func NewGormStateRepository(db *gorm.DB, clientKey string) StateRepository {
	return &gormStateRepository{db: db, clientKey: clientKey}
}

// Load implements StateRepository.
func (r *gormStateRepository) Load(ctx context.Context, key string) (*models.StateBlob, error) {
	var row models.ClientState
	err := r.db.WithContext(ctx).
		Where("client_key = ? AND state_key = ?", r.clientKey, key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to find state: %w", err)
	}
	return &models.StateBlob{
		Key:       row.Key,
		Version:   row.Version,
		Data:      []byte(row.Data),
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Save implements StateRepository.
func (r *gormStateRepository) Save(ctx context.Context, blob *models.StateBlob) error {
	updatedAt := blob.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	row := models.ClientState{
		ClientKey: r.clientKey,
		Key:       blob.Key,
		Version:   blob.Version,
		Data:      string(blob.Data),
		UpdatedAt: updatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_key"}, {Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Delete implements StateRepository.
func (r *gormStateRepository) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).
		Where("client_key = ? AND state_key = ?", r.clientKey, key).
		Delete(&models.ClientState{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}
