package progress

import (
	"context"
	"sync"
	"time"

	"alfredoptarigan/career-pathfinder/internal/models"
	"alfredoptarigan/career-pathfinder/internal/repositories"
)

const (
	bookmarksKey     = "saved_resources"
	bookmarksVersion = 1
)

type bookmarkState struct {
	Resources []SavedResource `json:"resources"`
}

type SavedResource struct {
	models.Resource
	SavedAt time.Time `json:"savedAt"`
}

// Bookmarks is the saved-resources list of one client.
type Bookmarks struct {
	mu   sync.Mutex
	repo repositories.StateRepository
	now  func() time.Time
}

func NewBookmarks(repo repositories.StateRepository) *Bookmarks {
	return &Bookmarks{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (b *Bookmarks) load(ctx context.Context) (bookmarkState, error) {
	state := bookmarkState{Resources: []SavedResource{}}
	if err := loadBlob(ctx, b.repo, bookmarksKey, bookmarksVersion, &state); err != nil {
		return bookmarkState{}, err
	}
	if state.Resources == nil {
		state.Resources = []SavedResource{}
	}
	return state, nil
}

// List returns saved resources, oldest first.
func (b *Bookmarks) List(ctx context.Context) ([]SavedResource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return state.Resources, nil
}

// Save adds res unless a resource with the same id or URL is already saved.
func (b *Bookmarks) Save(ctx context.Context, res models.Resource) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, err := b.load(ctx)
	if err != nil {
		return false, err
	}
	for _, saved := range state.Resources {
		if saved.ID == res.ID || (res.URL != "" && saved.URL == res.URL) {
			return false, nil
		}
	}
	now := b.now()
	state.Resources = append(state.Resources, SavedResource{Resource: res, SavedAt: now})
	return true, saveBlob(ctx, b.repo, bookmarksKey, bookmarksVersion, state, now)
}

// Remove deletes the resource with id, reporting whether it was present.
func (b *Bookmarks) Remove(ctx context.Context, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, err := b.load(ctx)
	if err != nil {
		return false, err
	}
	kept := state.Resources[:0]
	removed := false
	for _, saved := range state.Resources {
		if saved.ID == id {
			removed = true
			continue
		}
		kept = append(kept, saved)
	}
	if !removed {
		return false, nil
	}
	state.Resources = kept
	return true, saveBlob(ctx, b.repo, bookmarksKey, bookmarksVersion, state, b.now())
}

func (b *Bookmarks) IsSaved(ctx context.Context, id string) (bool, error) {
	list, err := b.List(ctx)
	if err != nil {
		return false, err
	}
	for _, saved := range list {
		if saved.ID == id {
			return true, nil
		}
	}
	return false, nil
}
