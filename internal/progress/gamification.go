package progress

import (
	"context"
	"sync"
	"time"

	"alfredoptarigan/career-pathfinder/internal/models"
	"alfredoptarigan/career-pathfinder/internal/repositories"
)

const (
	gamificationKey     = "gamification"
	gamificationVersion = 1

	XPPerNode     = 10
	XPPerSave     = 5
	XPPerProfile  = 20
	XPPerLevel    = 100
	explorerDepth = 3
	trailDepth    = 5
	collectorSave = 5
	curiousNodes  = 10
)

type BadgeID string

const (
	BadgeFirstStep   BadgeID = "first-step"
	BadgeExplorer    BadgeID = "explorer"
	BadgeTrailblazer BadgeID = "trailblazer"
	BadgeCollector   BadgeID = "collector"
	BadgeCurious     BadgeID = "curious"
	BadgeSelfAware   BadgeID = "self-aware"
)

var badgeNames = map[BadgeID]string{
	BadgeFirstStep:   "First Step",
	BadgeExplorer:    "Explorer",
	BadgeTrailblazer: "Trailblazer",
	BadgeCollector:   "Collector",
	BadgeCurious:     "Curious Mind",
	BadgeSelfAware:   "Self-Aware",
}

type Badge struct {
	ID       BadgeID   `json:"id"`
	Name     string    `json:"name"`
	EarnedAt time.Time `json:"earnedAt"`
}

// Stats is the persisted gamification state.
type Stats struct {
	XP               int     `json:"xp"`
	NodesVisited     int     `json:"nodesVisited"`
	ResourcesSaved   int     `json:"resourcesSaved"`
	MaxDepth         int     `json:"maxDepth"`
	ProfileCompleted bool    `json:"profileCompleted"`
	Badges           []Badge `json:"badges"`
}

func (s Stats) Level() int {
	return 1 + s.XP/XPPerLevel
}

func (s Stats) HasBadge(id BadgeID) bool {
	for _, b := range s.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Award is what a single event earned.
type Award struct {
	XP        int
	NewBadges []Badge
	LevelUp   bool
	Stats     Stats
}

type Gamification struct {
	mu   sync.Mutex
	repo repositories.StateRepository
	now  func() time.Time
}

func NewGamification(repo repositories.StateRepository) *Gamification {
	return &Gamification{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (g *Gamification) Snapshot(ctx context.Context) (Stats, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.load(ctx)
}

func (g *Gamification) RecordNodeVisit(ctx context.Context, node models.PathNode) (Award, error) {
	return g.record(ctx, func(s *Stats) int {
		s.NodesVisited++
		if node.Level > s.MaxDepth {
			s.MaxDepth = node.Level
		}
		return XPPerNode
	})
}

func (g *Gamification) RecordResourceSaved(ctx context.Context) (Award, error) {
	return g.record(ctx, func(s *Stats) int {
		s.ResourcesSaved++
		return XPPerSave
	})
}

// RecordProfileCompleted only pays out once.
func (g *Gamification) RecordProfileCompleted(ctx context.Context) (Award, error) {
	return g.record(ctx, func(s *Stats) int {
		if s.ProfileCompleted {
			return 0
		}
		s.ProfileCompleted = true
		return XPPerProfile
	})
}

func (g *Gamification) Reset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.repo.Delete(ctx, gamificationKey)
}

// record applies one event under the lock. An event worth no XP changes nothing.
func (g *Gamification) record(ctx context.Context, apply func(*Stats) int) (Award, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	stats, err := g.load(ctx)
	if err != nil {
		return Award{}, err
	}
	levelBefore := stats.Level()
	xp := apply(&stats)
	if xp == 0 {
		return Award{Stats: stats}, nil
	}
	stats.XP += xp

	now := g.now()
	var earned []Badge
	for _, id := range earnedBadges(stats) {
		if stats.HasBadge(id) {
			continue
		}
		badge := Badge{ID: id, Name: badgeNames[id], EarnedAt: now}
		stats.Badges = append(stats.Badges, badge)
		earned = append(earned, badge)
	}

	if err := saveBlob(ctx, g.repo, gamificationKey, gamificationVersion, stats, now); err != nil {
		return Award{}, err
	}
	return Award{
		XP:        xp,
		NewBadges: earned,
		LevelUp:   stats.Level() > levelBefore,
		Stats:     stats,
	}, nil
}

func earnedBadges(s Stats) []BadgeID {
	var ids []BadgeID
	if s.NodesVisited >= 1 {
		ids = append(ids, BadgeFirstStep)
	}
	if s.MaxDepth >= explorerDepth {
		ids = append(ids, BadgeExplorer)
	}
	if s.MaxDepth >= trailDepth {
		ids = append(ids, BadgeTrailblazer)
	}
	if s.ResourcesSaved >= collectorSave {
		ids = append(ids, BadgeCollector)
	}
	if s.NodesVisited >= curiousNodes {
		ids = append(ids, BadgeCurious)
	}
	if s.ProfileCompleted {
		ids = append(ids, BadgeSelfAware)
	}
	return ids
}

func (g *Gamification) load(ctx context.Context) (Stats, error) {
	stats := Stats{Badges: []Badge{}}
	if err := loadBlob(ctx, g.repo, gamificationKey, gamificationVersion, &stats); err != nil {
		return Stats{}, err
	}
	if stats.Badges == nil {
		stats.Badges = []Badge{}
	}
	return stats, nil
}
