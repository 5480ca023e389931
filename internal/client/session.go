package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alfredoptarigan/career-pathfinder/internal/models"
	"alfredoptarigan/career-pathfinder/internal/repositories"
)

const (
	sessionKey     = "session"
	sessionVersion = 1
)

var ErrUnsupportedSession = errors.New("unsupported session version")

// Session is what survives between CLI invocations.
type Session struct {
	Profile *models.UserProfile `json:"profile,omitempty"`
	History []models.PathNode   `json:"history"`
}

type SessionStore struct {
	repo repositories.StateRepository
}

func NewSessionStore(repo repositories.StateRepository) *SessionStore {
	return &SessionStore{repo: repo}
}

// Load returns an empty session when nothing was saved yet.
func (s *SessionStore) Load(ctx context.Context) (*Session, error) {
	session := &Session{History: []models.PathNode{}}
	blob, err := s.repo.Load(ctx, sessionKey)
	if errors.Is(err, repositories.ErrStateNotFound) {
		return session, nil
	}
	if err != nil {
		return nil, err
	}
	if blob.Version > sessionVersion {
		return nil, fmt.Errorf("%w: v%d", ErrUnsupportedSession, blob.Version)
	}
	if err := json.Unmarshal(blob.Data, session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.History == nil {
		session.History = []models.PathNode{}
	}
	return session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.repo.Save(ctx, &models.StateBlob{
		Key:       sessionKey,
		Version:   sessionVersion,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	})
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, sessionKey)
}
