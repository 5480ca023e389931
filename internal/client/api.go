package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alfredoptarigan/career-pathfinder/internal/models"
)

// API is the career-path server as seen by a client.
type API interface {
	GenerateNode(ctx context.Context, req models.GenerationRequest) (*models.GenerationResponse, error)
	DiscoverResources(ctx context.Context, q string) ([]models.Resource, error)
	ExtractProfile(ctx context.Context, filename string, r io.Reader) (*models.UserProfile, error)
	Health(ctx context.Context) (*models.HealthResponse, error)
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status   int
	Message  string
	Upstream map[string]any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type httpAPI struct {
	baseURL string
	http    *http.Client
}

// NewHTTPAPI talks to a server at baseURL. A nil client gets a default
// one with a timeout long enough for two model calls.
func NewHTTPAPI(baseURL string, hc *http.Client) API {
	if hc == nil {
		hc = &http.Client{Timeout: 2 * time.Minute}
	}
	return &httpAPI{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (a *httpAPI) GenerateNode(ctx context.Context, req models.GenerationRequest) (*models.GenerationResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	var resp models.GenerationResponse
	if err := a.do(ctx, http.MethodPost, "/api/generate", "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *httpAPI) DiscoverResources(ctx context.Context, q string) ([]models.Resource, error) {
	body, err := json.Marshal(models.DiscoveryRequest{Q: q})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	var resp models.DiscoveryResponse
	if err := a.do(ctx, http.MethodPost, "/api/resources", "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	if resp.Resources == nil {
		resp.Resources = []models.Resource{}
	}
	return resp.Resources, nil
}

func (a *httpAPI) ExtractProfile(ctx context.Context, filename string, r io.Reader) (*models.UserProfile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read résumé: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var profile models.UserProfile
	if err := a.do(ctx, http.MethodPost, "/api/profile/extract", mw.FormDataContentType(), &buf, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *httpAPI) Health(ctx context.Context) (*models.HealthResponse, error) {
	var resp models.HealthResponse
	if err := a.do(ctx, http.MethodGet, "/api/health", "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *httpAPI) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	endpoint, err := url.JoinPath(a.baseURL, path)
	if err != nil {
		return fmt.Errorf("failed to build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	res, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{Status: res.StatusCode}
		var payload struct {
			Error    string         `json:"error"`
			Upstream map[string]any `json:"upstream"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Upstream = payload.Upstream
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
