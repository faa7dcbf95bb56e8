package handlers

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumescreener/internal/models"
	"resumescreener/internal/services"
)

type ScreenHandler struct {
	screener    services.ScreenerService
	storage     services.StorageService
	maxFileSize int64
	logger      *zap.Logger
}

func NewScreenHandler(
	screener services.ScreenerService,
	storage services.StorageService,
	maxFileSize int64,
	logger *zap.Logger,
) *ScreenHandler {
	return &ScreenHandler{
		screener:    screener,
		storage:     storage,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleScreen handles POST /screen: a multipart form with a `jd` text
// field and one or more `resumes` PDF files. The whole batch is
// processed synchronously and the ranked report returned in the reply.
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	jd := strings.TrimSpace(c.FormValue("jd"))
	files := form.File["resumes"]

	if jd == "" || len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing job description or resumes.",
		})
	}

	docs := make([]models.ResumeDocument, 0, len(files))

	for _, file := range files {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
			})
		}

		if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Only PDF resumes are supported, got %q", file.Filename),
			})
		}

		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read uploaded file: %v", err),
			})
		}

		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read uploaded file: %v", err),
			})
		}

		// Archive failures must not sink the batch
		if _, err := h.storage.ArchivePDF(file.Filename, data); err != nil {
			h.logger.Warn("failed to archive uploaded resume",
				zap.String("filename", file.Filename),
				zap.Error(err),
			)
		}

		docs = append(docs, models.ResumeDocument{
			Filename: file.Filename,
			Data:     data,
		})
	}

	report, err := h.screener.Run(c.Context(), jd, docs)
	if err != nil {
		if errors.Is(err, services.ErrMissingInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing job description or resumes.",
			})
		}

		h.logger.Error("resume processing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error processing resumes",
		})
	}

	return c.JSON(report)
}
