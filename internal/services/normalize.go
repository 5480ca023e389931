package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/career-pathfinder/internal/models"
)

const (
	FallbackNodeTitle       = "Next Step"
	FallbackNodeDescription = "Continue exploring this path."
	FallbackResourceTitle   = "Resource"
)

// RejectError explains why a parsed model value could not become a node.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidModelJSON, e.Reason)
}

func (e *RejectError) Is(target error) bool { return target == ErrInvalidModelJSON }

// IDFunc produces identifiers for resources that arrive without one.
type IDFunc func() string

func NewUUID() string { return uuid.New().String() }

type nodeShape int

const (
	shapeUnusable nodeShape = iota
	shapeWrapped
	shapeBare
)

// recognizeNode decides which part of a parsed value is the node candidate.
func recognizeNode(v any) (nodeShape, map[string]any) {
	obj, ok := v.(map[string]any)
	if !ok {
		return shapeUnusable, nil
	}
	if inner, present := obj["node"]; present {
		if node, ok := inner.(map[string]any); ok {
			return shapeWrapped, node
		}
		return shapeUnusable, nil
	}
	_, titleOK := obj["title"].(string)
	_, descOK := obj["description"].(string)
	if titleOK && descOK {
		return shapeBare, obj
	}
	return shapeUnusable, nil
}

// CoerceNode maps any parsed model value onto the strict response shape.
// It never panics; an unusable value yields a *RejectError.
func CoerceNode(v any, newID IDFunc) (models.GenerationResponse, error) {
	shape, node := recognizeNode(v)
	if shape == shapeUnusable {
		return models.GenerationResponse{}, &RejectError{Reason: "no node-like object"}
	}
	if newID == nil {
		newID = NewUUID
	}

	title := firstString(node, "title", "name", "label")
	if title == "" {
		title = FallbackNodeTitle
	}
	description := firstString(node, "description")
	if description == "" {
		description = FallbackNodeDescription
	}

	return models.GenerationResponse{
		Node: models.GeneratedNode{
			Title:       title,
			Description: description,
			Options:     CoerceStringList(node["options"], models.MaxNodeOptions),
			Resources:   CoerceResources(node["resources"], models.NodeResourceTypes, models.MaxNodeResources, newID),
		},
	}, nil
}

// CoerceStringList accepts a string, an array of strings, or an array of
// objects (their "label", else their JSON form). Empty entries are dropped.
// limit <= 0 means no limit.
func CoerceStringList(v any, limit int) []string {
	out := []string{}
	var items []any
	switch t := v.(type) {
	case string:
		items = []any{t}
	case []any:
		items = t
	default:
		return out
	}

	for _, item := range items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if s := stringifyOption(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringifyOption(item any) string {
	switch t := item.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if label, ok := t["label"].(string); ok && strings.TrimSpace(label) != "" {
			return strings.TrimSpace(label)
		}
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	case float64, bool:
		return fmt.Sprint(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// CoerceResources normalizes every element, drops rejects and keeps at most
// limit entries in their original order.
func CoerceResources(v any, allowed []models.ResourceType, limit int, newID IDFunc) []models.Resource {
	out := []models.Resource{}
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any, string:
		items = []any{t}
	default:
		return out
	}

	for _, item := range items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if res, ok := NormalizeResource(item, allowed, newID); ok {
			out = append(out, res)
		}
	}
	return out
}

// NormalizeResource turns one raw resource value into a Resource whose Type is
// always a member of allowed. ok is false for values that carry nothing usable.
func NormalizeResource(v any, allowed []models.ResourceType, newID IDFunc) (models.Resource, bool) {
	if newID == nil {
		newID = NewUUID
	}

	switch t := v.(type) {
	case string:
		return normalizeStringResource(strings.TrimSpace(t), allowed, newID)
	case map[string]any:
		return normalizeObjectResource(t, allowed, newID), true
	default:
		return models.Resource{}, false
	}
}

func normalizeStringResource(s string, allowed []models.ResourceType, newID IDFunc) (models.Resource, bool) {
	if s == "" {
		return models.Resource{}, false
	}
	res := models.Resource{ID: newID()}
	if strings.HasPrefix(strings.ToLower(s), "http") {
		res.Title = FallbackResourceTitle
		if IsAbsoluteURL(s) {
			res.URL = s
		}
	} else {
		res.Title = s
	}
	res.Type = allowedOrWebsite(InferResourceType(res.URL), allowed)
	return res, true
}

func normalizeObjectResource(obj map[string]any, allowed []models.ResourceType, newID IDFunc) models.Resource {
	res := models.Resource{}

	if link := firstString(obj, "url", "link"); IsAbsoluteURL(link) {
		res.URL = link
	}

	res.Title = firstString(obj, "title", "name", "label")
	if res.Title == "" {
		if host := displayHost(res.URL); host != "" {
			res.Title = host
		} else {
			res.Title = FallbackResourceTitle
		}
	}

	res.Description = firstString(obj, "description", "summary")

	declared := models.ResourceType(strings.ToLower(firstString(obj, "type")))
	if declared.In(allowed) {
		res.Type = declared
	} else {
		res.Type = allowedOrWebsite(InferResourceType(res.URL), allowed)
	}

	if d := models.Difficulty(strings.ToLower(firstString(obj, "difficulty"))); d.Valid() {
		res.Difficulty = d
	}
	res.Duration = firstString(obj, "duration")
	res.Source = firstString(obj, "source")

	if id := firstString(obj, "id"); id != "" {
		res.ID = id
	} else {
		res.ID = newID()
	}
	return res
}

// InferResourceType guesses a type from the URL's host. It always returns one
// of video, course, tool or website.
func InferResourceType(rawURL string) models.ResourceType {
	host := hostname(rawURL)
	if host == "" {
		return models.ResourceWebsite
	}
	switch {
	case containsAny(host, "youtube.com", "youtu.be", "vimeo.com"):
		return models.ResourceVideo
	case containsAny(host, "coursera.org", "udemy.com", "edx.org", "class", "course"):
		return models.ResourceCourse
	case containsAny(host, "github.com", "npmjs.com", "tool"):
		return models.ResourceTool
	default:
		return models.ResourceWebsite
	}
}

// IsAbsoluteURL reports whether s parses as a URL with both scheme and host.
func IsAbsoluteURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func allowedOrWebsite(t models.ResourceType, allowed []models.ResourceType) models.ResourceType {
	if t.In(allowed) {
		return t
	}
	return models.ResourceWebsite
}

func hostname(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func displayHost(rawURL string) string {
	return strings.TrimPrefix(hostname(rawURL), "www.")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// firstString returns the first key holding a non-empty string, trimmed.
func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
