package services

import (
	"context"
	"errors"
	"fmt"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/models"
)

type NodeGenerator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResponse, error)
}

type nodeGenerator struct {
	llm           TextGenerator
	promptBuilder *PromptBuilder
	newID         IDFunc
	log           *logger.Logger
}

func NewNodeGenerator(llm TextGenerator, log *logger.Logger) NodeGenerator {
	return &nodeGenerator{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		newID:         NewUUID,
		log:           log.With("service", "NodeGenerator"),
	}
}

// Generate implements NodeGenerator. The model is asked at most twice, one
// call after the other; the second prompt demands bare JSON. Transport and
// extraction failures are treated alike.
func (g *nodeGenerator) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResponse, error) {
	if err := ValidateGenerationRequest(req); err != nil {
		return nil, err
	}

	system := g.promptBuilder.NodeSystemInstruction()
	prompt := g.promptBuilder.BuildNodePrompt(req)
	prompts := []string{prompt, g.promptBuilder.BuildRetryPrompt(prompt)}

	var (
		parsed  map[string]any
		lastErr error
	)
	for i, p := range prompts {
		attempt := i + 1
		parsed, lastErr = g.attempt(ctx, attempt, system, p)
		if lastErr == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("node generation cancelled: %w", ctx.Err())
		}
		g.log.Warn("node generation attempt failed", "attempt", attempt, "kind", req.Kind, "error", lastErr)
	}
	if lastErr != nil {
		if errors.Is(lastErr, ErrInvalidModelJSON) {
			return nil, ErrInvalidModelJSON
		}
		return nil, fmt.Errorf("node generation failed: %w", lastErr)
	}

	resp, err := CoerceNode(parsed, g.newID)
	if err != nil {
		g.log.Warn("model output has no node shape", "error", err)
		return nil, ErrInvalidModelJSON
	}

	if err := ValidateGenerationResponse(resp); err != nil {
		g.log.Error("coerced node failed validation", "error", err)
		return nil, err
	}

	return &resp, nil
}

func (g *nodeGenerator) attempt(ctx context.Context, attempt int, system, prompt string) (map[string]any, error) {
	raw, err := g.llm.GenerateText(ctx, TextRequest{
		SystemInstruction: system,
		Prompt:            prompt,
		JSON:              true,
	})
	if err != nil {
		return nil, err
	}

	obj, strategy, ok := ExtractJSONObject(raw)
	if !ok {
		g.log.Debug("no JSON object in model output", "attempt", attempt, "chars", len(raw))
		return nil, ErrInvalidModelJSON
	}
	g.log.Debug("model output parsed", "attempt", attempt, "strategy", strategy, "chars", len(raw))
	return obj, nil
}
