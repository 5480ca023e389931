package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"alfredoptarigan/career-pathfinder/internal/config"
	"alfredoptarigan/career-pathfinder/internal/logger"
)

// TextRequest is one prompt sent to the model provider.
type TextRequest struct {
	SystemInstruction string
	Prompt            string
	// JSON asks the provider for application/json output.
	JSON bool
}

// TextGenerator is everything the pipelines need from a model provider: a
// prompt goes in, raw text comes out.
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
}

type GeminiService interface {
	TextGenerator
	Available() bool
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	temperature float32
	timeout     time.Duration
	log         *logger.Logger
}

// NewGeminiService builds the provider. An empty API key is not an error
// here: the service starts and every call fails with ErrMissingAPIKey.
func NewGeminiService(cfg config.GeminiConfig, log *logger.Logger) (GeminiService, error) {
	svc := &geminiService{
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		log:         log.With("service", "GeminiService"),
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		svc.log.Warn("GEMINI_API_KEY is empty, model calls will fail")
		return svc, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	svc.client = client
	return svc, nil
}

// Available implements GeminiService.
func (g *geminiService) Available() bool {
	return g.client != nil
}

// GenerateText implements TextGenerator.
func (g *geminiService) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	if g.client == nil {
		return "", &UpstreamError{
			Status:  http.StatusInternalServerError,
			Message: ErrMissingAPIKey.Error(),
			Err:     ErrMissingAPIKey,
		}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	temperature := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.Prompt), cfg)
	if err != nil {
		g.log.Warn("gemini call failed", "model", g.modelName, "error", err)
		return "", toUpstreamError(err)
	}
	if resp == nil {
		return "", &UpstreamError{Status: http.StatusBadGateway, Message: "no response generated (nil response)"}
	}

	text := resp.Text()
	g.log.Debug("gemini response received",
		"model", g.modelName,
		"chars", len(text),
		"elapsed", time.Since(start).String(),
	)
	if text == "" {
		return "", &UpstreamError{Status: http.StatusBadGateway, Message: "no text content in response"}
	}
	return text, nil
}

func toUpstreamError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return upstreamFromAPIError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return upstreamFromAPIError(*apiErrPtr, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Status: http.StatusGatewayTimeout, Message: "model call timed out", Err: err}
	}
	return &UpstreamError{Status: http.StatusBadGateway, Message: err.Error(), Err: err}
}

func upstreamFromAPIError(apiErr genai.APIError, err error) *UpstreamError {
	status := apiErr.Code
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	details := map[string]any{
		"code":    apiErr.Code,
		"message": apiErr.Message,
		"status":  apiErr.Status,
	}
	if len(apiErr.Details) > 0 {
		details["details"] = apiErr.Details
	}
	return &UpstreamError{
		Status:  status,
		Message: apiErr.Message,
		Details: details,
		Err:     err,
	}
}
