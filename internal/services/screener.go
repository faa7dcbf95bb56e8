package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumescreener/internal/models"
	"resumescreener/internal/repositories"
)

const topResultCount = 10

// ScreenerService drives a whole screening batch: every resume goes
// through extraction, prompt building, classification, parsing and
// persistence, strictly one after another.
type ScreenerService interface {
	Run(ctx context.Context, jobDescription string, docs []models.ResumeDocument) (*models.BatchReport, error)
}

type screenerService struct {
	resumeRepo    repositories.ResumeRepository
	gemini        GeminiService
	extractor     TextExtractor
	similarity    SimilarityService
	promptBuilder *PromptBuilder
	pacer         Pacer
	maxBatchSize  int
	logger        *zap.Logger
}

func NewScreenerService(
	resumeRepo repositories.ResumeRepository,
	gemini GeminiService,
	extractor TextExtractor,
	similarity SimilarityService,
	pacer Pacer,
	maxBatchSize int,
	logger *zap.Logger,
) ScreenerService {
	return &screenerService{
		resumeRepo:    resumeRepo,
		gemini:        gemini,
		extractor:     extractor,
		similarity:    similarity,
		promptBuilder: NewPromptBuilder(),
		pacer:         pacer,
		maxBatchSize:  maxBatchSize,
		logger:        logger,
	}
}

// Run implements ScreenerService. A failure to extract, classify or
// persist any resume aborts the batch; records persisted before the
// failure stay persisted.
func (s *screenerService) Run(ctx context.Context, jobDescription string, docs []models.ResumeDocument) (*models.BatchReport, error) {
	if strings.TrimSpace(jobDescription) == "" || len(docs) == 0 {
		return nil, ErrMissingInput
	}

	// Bound external API spend per request. Anything past the cap is
	// neither processed nor reported.
	if len(docs) > s.maxBatchSize {
		s.logger.Warn("batch exceeds maximum size, ignoring the rest",
			zap.Int("submitted", len(docs)),
			zap.Int("max", s.maxBatchSize),
		)
		docs = docs[:s.maxBatchSize]
	}

	s.logger.Info("starting screening batch", zap.Int("resumes", len(docs)))

	results := make([]models.ClassificationResult, 0, len(docs))

	for _, doc := range docs {
		text, err := s.extractor.ExtractText(doc.Data)
		if err != nil {
			s.logger.Error("resume extraction failed",
				zap.String("filename", doc.Filename),
				zap.String("stage", "extract"),
				zap.Error(err),
			)
			return nil, &ExtractionError{Filename: doc.Filename, Err: err}
		}

		prompt := s.promptBuilder.BuildClassificationPrompt(jobDescription, text)

		// Space out API requests to avoid throttling
		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		reply, err := s.gemini.GenerateText(ctx, prompt)
		if err != nil {
			s.logger.Error("resume classification failed",
				zap.String("filename", doc.Filename),
				zap.String("stage", "classify"),
				zap.Error(err),
			)
			return nil, &ClassificationError{Filename: doc.Filename, Err: err}
		}

		category, score := ParseClassification(reply)

		record := &models.ResumeRecord{
			ID:       uuid.New(),
			Filename: doc.Filename,
			Text:     text,
			Category: category,
			Score:    score,
		}

		if err := s.resumeRepo.Create(record); err != nil {
			s.logger.Error("resume record persist failed",
				zap.String("filename", doc.Filename),
				zap.String("stage", "persist"),
				zap.Error(err),
			)
			return nil, fmt.Errorf("persist resume record for %q: %w", doc.Filename, err)
		}

		if s.similarity != nil {
			if err := s.similarity.IndexResume(ctx, record); err != nil {
				s.logger.Warn("resume indexing failed",
					zap.String("filename", doc.Filename),
					zap.Error(err),
				)
			}
		}

		s.logger.Debug("resume screened",
			zap.String("filename", doc.Filename),
			zap.String("category", category),
			zap.Int("score", score),
		)

		results = append(results, models.ClassificationResult{
			Filename: doc.Filename,
			Category: category,
			Score:    score,
		})
	}

	s.logger.Info("screening batch completed", zap.Int("resumes", len(results)))

	return &models.BatchReport{
		Top10:      topResults(results, topResultCount),
		AllResults: results,
	}, nil
}

// topResults returns the n highest scoring results without disturbing
// the processing-order slice. The sort is stable so equal scores keep
// their original relative order.
func topResults(results []models.ClassificationResult, n int) []models.ClassificationResult {
	ranked := make([]models.ClassificationResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
