package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/models"
)

type ProfileExtractor interface {
	Extract(ctx context.Context, resumeText string) (*models.UserProfile, error)
}

type profileExtractor struct {
	llm           TextGenerator
	promptBuilder *PromptBuilder
	maxTextLen    int
	newID         IDFunc
	log           *logger.Logger
}

func NewProfileExtractor(llm TextGenerator, maxTextLen int, log *logger.Logger) ProfileExtractor {
	return &profileExtractor{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		maxTextLen:    maxTextLen,
		newID:         NewUUID,
		log:           log.With("service", "ProfileExtractor"),
	}
}

// Extract implements ProfileExtractor. It calls the model once; a response
// that is not JSON after stripping code fences is a terminal failure.
func (p *profileExtractor) Extract(ctx context.Context, resumeText string) (*models.UserProfile, error) {
	text := ClampParagraphs(resumeText, p.maxTextLen)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty résumé text", ErrNoText)
	}

	p.log.Debug("extracting profile", "chars", len(text))
	raw, err := p.llm.GenerateText(ctx, TextRequest{
		SystemInstruction: p.promptBuilder.ProfileSystemInstruction(),
		Prompt:            p.promptBuilder.BuildProfilePrompt(text),
		JSON:              true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract profile: %w", err)
	}

	var parsed any
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &parsed); err != nil {
		p.log.Warn("profile response is not JSON", "chars", len(raw), "error", err)
		return nil, ErrInvalidModelJSON
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, ErrInvalidModelJSON
	}

	profile := CoerceProfile(obj, p.newID())
	return &profile, nil
}

// CoerceProfile reads the profile fields, defaulting each to empty.
func CoerceProfile(obj map[string]any, id string) models.UserProfile {
	return models.UserProfile{
		ID:               id,
		CurrentSituation: textField(obj, "currentSituation", "current_situation"),
		Interests:        CoerceStringList(firstPresent(obj, "interests", "skills"), 0),
		Experience:       textField(obj, "experience"),
		Goals:            textField(obj, "goals"),
	}
}

// textField accepts a string or a list of strings (joined with "; ").
func textField(obj map[string]any, keys ...string) string {
	if s := firstString(obj, keys...); s != "" {
		return s
	}
	for _, key := range keys {
		if list := CoerceStringList(obj[key], 0); len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}
	return ""
}

func firstPresent(obj map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
