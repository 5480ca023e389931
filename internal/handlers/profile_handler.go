package handlers

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/services"
)

type ProfileHandler struct {
	uploads    services.UploadReader
	extractor  services.TextExtractor
	profiles   services.ProfileExtractor
	minTextLen int
	log        *logger.Logger
}

func NewProfileHandler(
	uploads services.UploadReader,
	extractor services.TextExtractor,
	profiles services.ProfileExtractor,
	minTextLen int,
	log *logger.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		uploads:    uploads,
		extractor:  extractor,
		profiles:   profiles,
		minTextLen: minTextLen,
		log:        log.With("handler", "profile"),
	}
}

// HandleExtract handles POST /api/profile/extract (multipart, field "resume").
func (h *ProfileHandler) HandleExtract(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "resume file is required")
	}

	data, err := h.uploads.Read(file)
	switch {
	case errors.Is(err, services.ErrFileTooLarge):
		return errorJSON(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Resume file too large. Max size: %d bytes", h.uploads.MaxFileSize()))
	case errors.Is(err, services.ErrUnsupportedFile):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	text, err := h.extractor.Extract(file.Filename, data)
	switch {
	case errors.Is(err, services.ErrNoText):
		return errorJSON(c, fiber.StatusUnprocessableEntity, "could not find readable text in the resume")
	case errors.Is(err, services.ErrUnsupportedFile):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		h.log.Warn("text extraction failed", "request_id", requestID(c), "file", file.Filename, "error", err)
		return errorJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	if utf8.RuneCountInString(text) < h.minTextLen {
		return errorJSON(c, fiber.StatusUnprocessableEntity, "extracted resume text is too short")
	}

	profile, err := h.profiles.Extract(c.UserContext(), text)
	if err != nil {
		h.log.Error("profile extraction failed", "request_id", requestID(c), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(profile)
}
