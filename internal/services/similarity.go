package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resumescreener/internal/models"
)

// SimilarityService maintains a semantic index over screened resumes.
// Indexing is best effort: the screening pipeline keeps going when it
// fails.
type SimilarityService interface {
	IndexResume(ctx context.Context, record *models.ResumeRecord) error
	FindSimilar(ctx context.Context, query string, limit int) ([]models.SimilarResume, error)
}

type similarityService struct {
	gemini GeminiService
	qdrant QdrantService
	logger *zap.Logger
}

func NewSimilarityService(gemini GeminiService, qdrant QdrantService, logger *zap.Logger) SimilarityService {
	return &similarityService{
		gemini: gemini,
		qdrant: qdrant,
		logger: logger,
	}
}

// IndexResume implements SimilarityService.
func (s *similarityService) IndexResume(ctx context.Context, record *models.ResumeRecord) error {
	embedding, err := s.gemini.GenerateEmbedding(ctx, record.Text)
	if err != nil {
		return fmt.Errorf("embed resume %q: %w", record.Filename, err)
	}

	if err := s.qdrant.UpsertResume(ctx, record.ID.String(), record.Filename, record.Text, embedding); err != nil {
		return fmt.Errorf("index resume %q: %w", record.Filename, err)
	}

	s.logger.Debug("resume indexed",
		zap.String("resume_id", record.ID.String()),
		zap.String("filename", record.Filename),
	)

	return nil
}

// FindSimilar implements SimilarityService.
func (s *similarityService) FindSimilar(ctx context.Context, query string, limit int) ([]models.SimilarResume, error) {
	embedding, err := s.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.qdrant.SearchSimilar(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search similar resumes: %w", err)
	}

	matches := make([]models.SimilarResume, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, models.SimilarResume{
			ResumeID: hit.ResumeID,
			Filename: hit.Filename,
			Score:    hit.Score,
		})
	}

	return matches, nil
}
