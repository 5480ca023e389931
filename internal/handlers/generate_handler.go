package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/services"
)

type GenerateHandler struct {
	generator services.NodeGenerator
	log       *logger.Logger
}

func NewGenerateHandler(generator services.NodeGenerator, log *logger.Logger) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		log:       log.With("handler", "generate"),
	}
}

// HandleGenerate handles POST /api/generate
func (h *GenerateHandler) HandleGenerate(c *fiber.Ctx) error {
	req, err := services.DecodeGenerationRequest(c.Body())
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.generator.Generate(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		h.log.Error("node generation failed",
			"request_id", requestID(c),
			"kind", req.Kind,
			"error", err,
		)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(resp)
}
