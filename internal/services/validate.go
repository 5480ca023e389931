package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/career-pathfinder/internal/models"
)

// ValidateGenerationResponse checks the strict output contract. A failure
// after CoerceNode means the coercion code is wrong, so errors wrap
// ErrInvariant.
func ValidateGenerationResponse(resp models.GenerationResponse) error {
	node := resp.Node
	if strings.TrimSpace(node.Title) == "" {
		return invariant("node.title is empty")
	}
	if node.Options == nil {
		return invariant("node.options is null")
	}
	if len(node.Options) > models.MaxNodeOptions {
		return invariant("node.options has %d entries, max %d", len(node.Options), models.MaxNodeOptions)
	}
	for i, opt := range node.Options {
		if strings.TrimSpace(opt) == "" {
			return invariant("node.options[%d] is empty", i)
		}
	}
	if node.Resources == nil {
		return invariant("node.resources is null")
	}
	if len(node.Resources) > models.MaxNodeResources {
		return invariant("node.resources has %d entries, max %d", len(node.Resources), models.MaxNodeResources)
	}
	for i, res := range node.Resources {
		if err := ValidateResource(res, models.NodeResourceTypes); err != nil {
			return fmt.Errorf("node.resources[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateResource checks one resource against an allowed type set.
func ValidateResource(res models.Resource, allowed []models.ResourceType) error {
	if strings.TrimSpace(res.ID) == "" {
		return invariant("resource id is empty")
	}
	if strings.TrimSpace(res.Title) == "" {
		return invariant("resource title is empty")
	}
	if !res.Type.In(allowed) {
		return invariant("resource type %q not allowed", res.Type)
	}
	if res.URL != "" && !IsAbsoluteURL(res.URL) {
		return invariant("resource url %q is not absolute", res.URL)
	}
	if res.Difficulty != "" && !res.Difficulty.Valid() {
		return invariant("resource difficulty %q not allowed", res.Difficulty)
	}
	return nil
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
