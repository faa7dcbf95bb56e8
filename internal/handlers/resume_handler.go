package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumescreener/internal/repositories"
)

const defaultListLimit = 20

type ResumeHandler struct {
	resumeRepo repositories.ResumeRepository
}

func NewResumeHandler(resumeRepo repositories.ResumeRepository) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo: resumeRepo,
	}
}

// HandleGetResume handles GET /resumes/:id.
func (h *ResumeHandler) HandleGetResume(c *fiber.Ctx) error {
	idParam := c.Params("id")
	resumeID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	record, err := h.resumeRepo.FindByID(resumeID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	return c.JSON(record)
}

// HandleListResumes handles GET /resumes.
func (h *ResumeHandler) HandleListResumes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 1 || limit > 100 {
		limit = defaultListLimit
	}

	records, err := h.resumeRepo.ListRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list resumes",
		})
	}

	return c.JSON(fiber.Map{
		"resumes": records,
	})
}
