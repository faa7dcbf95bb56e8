package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumescreener/internal/models"
	"resumescreener/internal/services"
)

const defaultSearchLimit = 10

type SearchHandler struct {
	similarity services.SimilarityService
	logger     *zap.Logger
}

func NewSearchHandler(similarity services.SimilarityService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		similarity: similarity,
		logger:     logger,
	}
}

// HandleSearch handles GET /search?q=...&limit=N over previously
// screened resumes.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter 'q' is required",
		})
	}

	limit := c.QueryInt("limit", defaultSearchLimit)
	if limit < 1 || limit > 50 {
		limit = defaultSearchLimit
	}

	matches, err := h.similarity.FindSimilar(c.Context(), query, limit)
	if err != nil {
		h.logger.Error("resume search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search resumes",
		})
	}

	return c.JSON(models.SearchResponse{
		Query:   query,
		Matches: matches,
	})
}
