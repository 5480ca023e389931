package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pathfinder/internal/models"
	"alfredoptarigan/career-pathfinder/internal/services"
)

type HealthHandler struct {
	llm services.GeminiService
}

func NewHealthHandler(llm services.GeminiService) *HealthHandler {
	return &HealthHandler{llm: llm}
}

// HandleHealth handles GET /api/health
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status := "healthy"
	if h.llm != nil && !h.llm.Available() {
		status = "degraded"
	}
	return c.JSON(models.HealthResponse{
		Status: status,
		Time:   time.Now(),
	})
}
