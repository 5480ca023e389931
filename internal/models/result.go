package models

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	MaxDiscoveryQueryLen  = 800
	MaxDiscoveryResources = 12
	DiscoverySource       = "llm"
)

type DiscoveryRequest struct {
	Q string `json:"q"`
}

type DiscoveryResponse struct {
	Resources []Resource     `json:"resources"`
	Error     string         `json:"error,omitempty"`
	Upstream  map[string]any `json:"upstream,omitempty"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
