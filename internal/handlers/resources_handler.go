package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/models"
	"alfredoptarigan/career-pathfinder/internal/services"
)

type ResourcesHandler struct {
	discovery services.ResourceDiscovery
	log       *logger.Logger
}

func NewResourcesHandler(discovery services.ResourceDiscovery, log *logger.Logger) *ResourcesHandler {
	return &ResourcesHandler{
		discovery: discovery,
		log:       log.With("handler", "resources"),
	}
}

// HandleDiscover handles POST /api/resources ({"q": "..."}) and GET /api/resources?q=...
func (h *ResourcesHandler) HandleDiscover(c *fiber.Ctx) error {
	var req models.DiscoveryRequest
	if c.Method() == fiber.MethodGet {
		req.Q = c.Query("q")
	} else if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.DiscoveryResponse{
				Resources: []models.Resource{},
				Error:     "Invalid request payload",
			})
		}
	}

	if strings.TrimSpace(req.Q) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.DiscoveryResponse{
			Resources: []models.Resource{},
			Error:     "q is required",
		})
	}

	resources, err := h.discovery.Discover(c.UserContext(), req.Q)
	if err != nil {
		status, upstream := fiber.StatusBadGateway, map[string]any(nil)
		var upErr *services.UpstreamError
		switch {
		case errors.As(err, &upErr):
			status = upErr.HTTPStatusCode()
			upstream = upErr.Details
			if upstream == nil {
				upstream = map[string]any{"message": upErr.Message}
			}
		case errors.Is(err, services.ErrInvalidRequest):
			status = fiber.StatusBadRequest
		}
		h.log.Warn("resource discovery failed",
			"request_id", requestID(c),
			"status", status,
			"error", err,
		)
		return c.Status(status).JSON(models.DiscoveryResponse{
			Resources: []models.Resource{},
			Error:     err.Error(),
			Upstream:  upstream,
		})
	}

	return c.JSON(models.DiscoveryResponse{Resources: resources})
}
