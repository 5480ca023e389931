package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/models"
)

var (
	ErrNoProfile     = errors.New("no profile: start a path first")
	ErrNoPath        = errors.New("no path: start a path first")
	ErrBadOption     = errors.New("option out of range")
	ErrUnknownNode   = errors.New("node is not on the current path")
	ErrStaleResponse = errors.New("superseded by a newer request")
)

// Explorer walks one career tree: it owns the profile, the path from the
// root to the current node and the resource lookups for those nodes.
type Explorer struct {
	api      API
	sessions *SessionStore
	log      *logger.Logger
	newID    func() string

	// onNode, when set, is called with every node added to the path.
	onNode func(models.PathNode)

	mu      sync.Mutex
	profile *models.UserProfile
	history []models.PathNode

	resMu     sync.Mutex
	resSeq    uint64
	resCancel context.CancelFunc
	resCache  map[string][]models.Resource
}

func NewExplorer(api API, sessions *SessionStore, log *logger.Logger) *Explorer {
	return &Explorer{
		api:      api,
		sessions: sessions,
		log:      log.With("component", "Explorer"),
		newID:    func() string { return uuid.New().String() },
		history:  []models.PathNode{},
		resCache: make(map[string][]models.Resource),
	}
}

// Restore loads the saved session, if any.
func (e *Explorer) Restore(ctx context.Context) error {
	if e.sessions == nil {
		return nil
	}
	session, err := e.sessions.Load(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile = session.Profile
	e.history = session.History
	return nil
}

func (e *Explorer) Profile() *models.UserProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.profile == nil {
		return nil
	}
	p := *e.profile
	return &p
}

// History returns a copy of the path, root first.
func (e *Explorer) History() []models.PathNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.PathNode, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Explorer) Current() (models.PathNode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.history) == 0 {
		return models.PathNode{}, false
	}
	return e.history[len(e.history)-1], true
}

// Start replaces any existing path with a new root built for profile.
func (e *Explorer) Start(ctx context.Context, profile models.UserProfile) (models.PathNode, error) {
	if profile.ID == "" {
		profile.ID = e.newID()
	}
	if profile.Interests == nil {
		profile.Interests = []string{}
	}

	resp, err := e.api.GenerateNode(ctx, models.NewInitialRequest(profile))
	if err != nil {
		return models.PathNode{}, fmt.Errorf("failed to generate root node: %w", err)
	}
	root := toPathNode(resp.Node, e.newID(), 0, nil)

	e.mu.Lock()
	e.profile = &profile
	e.history = []models.PathNode{root}
	e.mu.Unlock()

	e.resetResources()
	if err := e.persist(ctx); err != nil {
		return root, err
	}
	e.log.Info("path started", "node_id", root.ID, "title", root.Title)
	e.notify(root)
	return root, nil
}

// Choose follows option index of the current node and appends the child.
func (e *Explorer) Choose(ctx context.Context, index int) (models.PathNode, error) {
	e.mu.Lock()
	if e.profile == nil {
		e.mu.Unlock()
		return models.PathNode{}, ErrNoProfile
	}
	if len(e.history) == 0 {
		e.mu.Unlock()
		return models.PathNode{}, ErrNoPath
	}
	current := e.history[len(e.history)-1]
	if index < 0 || index >= len(current.Options) {
		e.mu.Unlock()
		return models.PathNode{}, fmt.Errorf("%w: %d of %d", ErrBadOption, index+1, len(current.Options))
	}
	profile := *e.profile
	history := make([]models.PathNode, len(e.history))
	copy(history, e.history)
	e.mu.Unlock()

	parentID := current.ID
	chosen := models.PathNode{
		ID:          e.newID(),
		Title:       current.Options[index],
		Description: fmt.Sprintf("Chosen from %q", current.Title),
		Options:     []string{},
		Resources:   []models.Resource{},
		Level:       current.Level + 1,
		ParentID:    &parentID,
	}

	resp, err := e.api.GenerateNode(ctx, models.NewNextRequest(profile, history, chosen))
	if err != nil {
		return models.PathNode{}, fmt.Errorf("failed to generate next node: %w", err)
	}
	child := toPathNode(resp.Node, chosen.ID, chosen.Level, &parentID)

	e.mu.Lock()
	// the path may have moved while the model was thinking
	if len(e.history) != len(history) || e.history[len(e.history)-1].ID != parentID {
		e.mu.Unlock()
		return models.PathNode{}, ErrStaleResponse
	}
	e.history = append(e.history, child)
	e.mu.Unlock()

	if err := e.persist(ctx); err != nil {
		return child, err
	}
	e.log.Info("path advanced", "node_id", child.ID, "level", child.Level, "title", child.Title)
	e.notify(child)
	return child, nil
}

// Backtrack makes nodeID the current node again, dropping everything after it.
func (e *Explorer) Backtrack(ctx context.Context, nodeID string) (models.PathNode, error) {
	e.mu.Lock()
	idx := -1
	for i, n := range e.history {
		if n.ID == nodeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return models.PathNode{}, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}
	e.history = e.history[:idx+1]
	node := e.history[idx]
	e.mu.Unlock()

	e.cancelResources()
	return node, e.persist(ctx)
}

// BacktrackToLevel is Backtrack addressed by depth.
func (e *Explorer) BacktrackToLevel(ctx context.Context, level int) (models.PathNode, error) {
	e.mu.Lock()
	var id string
	for _, n := range e.history {
		if n.Level == level {
			id = n.ID
			break
		}
	}
	e.mu.Unlock()
	if id == "" {
		return models.PathNode{}, fmt.Errorf("%w: level %d", ErrUnknownNode, level)
	}
	return e.Backtrack(ctx, id)
}

// LoadResources discovers resources for node. Every call, cache hits included,
// cancels the lookup still in flight, so a superseded call returns
// context.Canceled.
func (e *Explorer) LoadResources(ctx context.Context, node models.PathNode) ([]models.Resource, error) {
	e.resMu.Lock()
	if e.resCancel != nil {
		e.resCancel()
		e.resCancel = nil
	}
	e.resSeq++
	seq := e.resSeq
	if cached, ok := e.resCache[node.ID]; ok {
		e.resMu.Unlock()
		return cached, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	e.resCancel = cancel
	e.resMu.Unlock()

	defer func() {
		e.resMu.Lock()
		if e.resSeq == seq {
			e.resCancel = nil
		}
		e.resMu.Unlock()
		cancel()
	}()

	resources, err := e.api.DiscoverResources(ctx, DiscoveryQuery(node))
	if err != nil {
		if ctx.Err() != nil {
			return nil, context.Canceled
		}
		return nil, err
	}

	e.resMu.Lock()
	defer e.resMu.Unlock()
	if e.resSeq != seq {
		return nil, context.Canceled
	}
	e.resCache[node.ID] = resources
	return resources, nil
}

// DiscoveryQuery is the free-text query used to look up resources for a node.
func DiscoveryQuery(node models.PathNode) string {
	q := strings.TrimSpace(node.Title)
	if d := strings.TrimSpace(node.Description); d != "" {
		q += ": " + d
	}
	return q
}

func (e *Explorer) Reset(ctx context.Context) error {
	e.mu.Lock()
	e.profile = nil
	e.history = []models.PathNode{}
	e.mu.Unlock()
	e.resetResources()
	if e.sessions == nil {
		return nil
	}
	return e.sessions.Clear(ctx)
}

func (e *Explorer) cancelResources() {
	e.resMu.Lock()
	defer e.resMu.Unlock()
	if e.resCancel != nil {
		e.resCancel()
		e.resCancel = nil
	}
	e.resSeq++
}

func (e *Explorer) resetResources() {
	e.cancelResources()
	e.resMu.Lock()
	e.resCache = make(map[string][]models.Resource)
	e.resMu.Unlock()
}

func (e *Explorer) persist(ctx context.Context) error {
	if e.sessions == nil {
		return nil
	}
	e.mu.Lock()
	session := &Session{Profile: e.profile, History: append([]models.PathNode(nil), e.history...)}
	e.mu.Unlock()
	if err := e.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (e *Explorer) notify(node models.PathNode) {
	if e.onNode != nil {
		e.onNode(node)
	}
}

func toPathNode(gen models.GeneratedNode, id string, level int, parentID *string) models.PathNode {
	options := gen.Options
	if options == nil {
		options = []string{}
	}
	resources := gen.Resources
	if resources == nil {
		resources = []models.Resource{}
	}
	return models.PathNode{
		ID:          id,
		Title:       gen.Title,
		Description: gen.Description,
		Options:     options,
		Resources:   resources,
		Level:       level,
		ParentID:    parentID,
	}
}
