package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/models"
)

type ResourceDiscovery interface {
	// Discover always returns a non-nil slice, empty when err is set.
	Discover(ctx context.Context, query string) ([]models.Resource, error)
}

type resourceDiscovery struct {
	llm           TextGenerator
	promptBuilder *PromptBuilder
	newID         IDFunc
	log           *logger.Logger
}

func NewResourceDiscovery(llm TextGenerator, log *logger.Logger) ResourceDiscovery {
	return &resourceDiscovery{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		newID:         NewUUID,
		log:           log.With("service", "ResourceDiscovery"),
	}
}

// ClampQuery trims the query and cuts it to the discovery limit.
func ClampQuery(q string) string {
	return ClampRunes(strings.TrimSpace(q), models.MaxDiscoveryQueryLen)
}

// Discover implements ResourceDiscovery. Single model call, no retry.
func (d *resourceDiscovery) Discover(ctx context.Context, query string) ([]models.Resource, error) {
	empty := []models.Resource{}
	query = ClampQuery(query)
	if query == "" {
		return empty, invalidRequest("q is required")
	}

	raw, err := d.llm.GenerateText(ctx, TextRequest{
		SystemInstruction: d.promptBuilder.DiscoverySystemInstruction(),
		Prompt:            d.promptBuilder.BuildDiscoveryPrompt(query),
		JSON:              true,
	})
	if err != nil {
		return empty, fmt.Errorf("resource discovery failed: %w", err)
	}

	parsed, strategy, ok := ExtractJSONValue(raw)
	if !ok {
		d.log.Warn("discovery output has no JSON", "chars", len(raw))
		return empty, ErrInvalidModelJSON
	}
	d.log.Debug("discovery output parsed", "strategy", strategy)

	return d.normalize(discoveryItems(parsed)), nil
}

func (d *resourceDiscovery) normalize(items []any) []models.Resource {
	out := []models.Resource{}
	seen := map[string]bool{}
	dropped := 0
	for _, item := range items {
		if len(out) >= models.MaxDiscoveryResources {
			break
		}
		res, ok := NormalizeResource(item, models.DiscoveryResourceTypes, d.newID)
		if !ok || res.URL == "" || seen[res.URL] {
			dropped++
			continue
		}
		res.Source = models.DiscoverySource
		if err := ValidateResource(res, models.DiscoveryResourceTypes); err != nil {
			d.log.Error("normalized resource failed validation", "error", err)
			dropped++
			continue
		}
		seen[res.URL] = true
		out = append(out, res)
	}
	if dropped > 0 {
		d.log.Debug("discovery dropped resources", "dropped", dropped, "kept", len(out))
	}
	return out
}

// discoveryItems finds the resource list in either a bare array or an object
// wrapping it.
func discoveryItems(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		for _, key := range []string{"resources", "results", "items"} {
			if list, ok := t[key].([]any); ok {
				return list
			}
		}
	}
	return nil
}
