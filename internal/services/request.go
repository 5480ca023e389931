package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"alfredoptarigan/career-pathfinder/internal/models"
)

// Wire shapes use pointers so a missing field can be told apart from a zero value.
type wireProfile struct {
	ID               *string   `json:"id"`
	CurrentSituation *string   `json:"currentSituation"`
	Interests        *[]string `json:"interests"`
	Experience       *string   `json:"experience"`
	Goals            *string   `json:"goals"`
}

type wireResource struct {
	ID          *string `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	URL         *string `json:"url"`
	Difficulty  *string `json:"difficulty"`
	Duration    *string `json:"duration"`
	Source      *string `json:"source"`
}

type wireNode struct {
	ID          *string         `json:"id"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Options     *[]string       `json:"options"`
	Resources   *[]wireResource `json:"resources"`
	Level       *int            `json:"level"`
	ParentID    *string         `json:"parentId"`
}

type wireRequest struct {
	Kind        *string      `json:"kind"`
	Profile     *wireProfile `json:"profile"`
	UserProfile *wireProfile `json:"userProfile"`
	PathHistory *[]wireNode  `json:"pathHistory"`
	CurrentNode *wireNode    `json:"currentNode"`
}

// DecodeGenerationRequest parses and checks a request body. Every failure
// wraps ErrInvalidRequest and happens before any model call.
func DecodeGenerationRequest(body []byte) (models.GenerationRequest, error) {
	var wire wireRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return models.GenerationRequest{}, invalidRequest("empty body")
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return models.GenerationRequest{}, invalidRequest("malformed JSON: %v", err)
	}
	if wire.Kind == nil {
		return models.GenerationRequest{}, invalidRequest("kind is required")
	}

	switch models.GenerationKind(*wire.Kind) {
	case models.KindInitial:
		profile, err := wire.Profile.toModel("profile")
		if err != nil {
			return models.GenerationRequest{}, err
		}
		return models.NewInitialRequest(profile), nil

	case models.KindNext:
		profile, err := wire.UserProfile.toModel("userProfile")
		if err != nil {
			return models.GenerationRequest{}, err
		}
		if wire.PathHistory == nil {
			return models.GenerationRequest{}, invalidRequest("pathHistory is required")
		}
		history := make([]models.PathNode, 0, len(*wire.PathHistory))
		for i := range *wire.PathHistory {
			node, err := (*wire.PathHistory)[i].toModel("pathHistory[" + strconv.Itoa(i) + "]")
			if err != nil {
				return models.GenerationRequest{}, err
			}
			history = append(history, node)
		}
		current, err := wire.CurrentNode.toModel("currentNode")
		if err != nil {
			return models.GenerationRequest{}, err
		}
		return models.NewNextRequest(profile, history, current), nil

	default:
		return models.GenerationRequest{}, invalidRequest("unknown kind %q", *wire.Kind)
	}
}

// ValidateGenerationRequest checks an already typed request.
func ValidateGenerationRequest(req models.GenerationRequest) error {
	switch req.Kind {
	case models.KindInitial:
		if req.Profile == nil {
			return invalidRequest("profile is required")
		}
		return validateProfile(*req.Profile, "profile")
	case models.KindNext:
		if req.UserProfile == nil {
			return invalidRequest("userProfile is required")
		}
		if err := validateProfile(*req.UserProfile, "userProfile"); err != nil {
			return err
		}
		if req.CurrentNode == nil {
			return invalidRequest("currentNode is required")
		}
		for i, node := range req.PathHistory {
			if err := validateNode(node, "pathHistory["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		return validateNode(*req.CurrentNode, "currentNode")
	default:
		return invalidRequest("unknown kind %q", req.Kind)
	}
}

func validateProfile(p models.UserProfile, field string) error {
	if strings.TrimSpace(p.ID) == "" {
		return invalidRequest("%s.id is required", field)
	}
	if p.Interests == nil {
		return invalidRequest("%s.interests is required", field)
	}
	return nil
}

func validateNode(n models.PathNode, field string) error {
	if strings.TrimSpace(n.ID) == "" {
		return invalidRequest("%s.id is required", field)
	}
	if n.Level < 0 {
		return invalidRequest("%s.level must be non-negative", field)
	}
	for i, res := range n.Resources {
		if !res.Type.In(models.AllResourceTypes) {
			return invalidRequest("%s.resources[%d].type %q is not allowed", field, i, res.Type)
		}
		if res.URL != "" && !IsAbsoluteURL(res.URL) {
			return invalidRequest("%s.resources[%d].url is not an absolute URL", field, i)
		}
	}
	return nil
}

func (w *wireProfile) toModel(field string) (models.UserProfile, error) {
	if w == nil {
		return models.UserProfile{}, invalidRequest("%s is required", field)
	}
	if w.ID == nil {
		return models.UserProfile{}, invalidRequest("%s.id is required", field)
	}
	if w.CurrentSituation == nil {
		return models.UserProfile{}, invalidRequest("%s.currentSituation is required", field)
	}
	if w.Interests == nil {
		return models.UserProfile{}, invalidRequest("%s.interests is required", field)
	}
	p := models.UserProfile{
		ID:               *w.ID,
		CurrentSituation: *w.CurrentSituation,
		Interests:        *w.Interests,
		Experience:       deref(w.Experience),
		Goals:            deref(w.Goals),
	}
	return p, validateProfile(p, field)
}

func (w *wireNode) toModel(field string) (models.PathNode, error) {
	if w == nil {
		return models.PathNode{}, invalidRequest("%s is required", field)
	}
	switch {
	case w.ID == nil:
		return models.PathNode{}, invalidRequest("%s.id is required", field)
	case w.Title == nil:
		return models.PathNode{}, invalidRequest("%s.title is required", field)
	case w.Description == nil:
		return models.PathNode{}, invalidRequest("%s.description is required", field)
	case w.Options == nil:
		return models.PathNode{}, invalidRequest("%s.options is required", field)
	case w.Level == nil:
		return models.PathNode{}, invalidRequest("%s.level is required", field)
	}

	node := models.PathNode{
		ID:          *w.ID,
		Title:       *w.Title,
		Description: *w.Description,
		Options:     *w.Options,
		Resources:   []models.Resource{},
		Level:       *w.Level,
		ParentID:    w.ParentID,
	}
	if w.Resources != nil {
		for i, r := range *w.Resources {
			if r.ID == nil || r.Title == nil || r.Type == nil {
				return models.PathNode{}, invalidRequest("%s.resources[%d] needs id, title and type", field, i)
			}
			node.Resources = append(node.Resources, models.Resource{
				ID:          *r.ID,
				Title:       *r.Title,
				Description: deref(r.Description),
				Type:        models.ResourceType(*r.Type),
				URL:         deref(r.URL),
				Difficulty:  models.Difficulty(deref(r.Difficulty)),
				Duration:    deref(r.Duration),
				Source:      deref(r.Source),
			})
		}
	}
	return node, validateNode(node, field)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
