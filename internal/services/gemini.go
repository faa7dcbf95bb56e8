package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// sleep is swapped out in tests so backoff does not stall them.
var sleep = time.Sleep

const embedInputLimit = 40000

type GeminiService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// modelCaller is the slice of the genai client this service uses,
// abstracted so tests can inject a fake.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type geminiService struct {
	models       modelCaller
	modelName    string
	embedModel   string
	maxAttempts  int
	retryBackoff time.Duration
	logger       *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model string, maxAttempts int, retryBackoff time.Duration, logger *zap.Logger) (GeminiService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &geminiService{
		models:       client.Models,
		modelName:    model,
		embedModel:   "text-embedding-004",
		maxAttempts:  maxAttempts,
		retryBackoff: retryBackoff,
		logger:       logger,
	}, nil
}

// GenerateText implements GeminiService. Rate-limit responses are
// retried after a fixed backoff until the attempt budget runs out; any
// other failure is returned immediately with the cause wrapped.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		reply, err := g.generateOnce(ctx, prompt)
		if err == nil {
			return reply, nil
		}

		if !isRateLimited(err) {
			return "", err
		}
		lastErr = err

		if attempt < g.maxAttempts {
			g.logger.Warn("gemini rate limit hit, backing off",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", g.retryBackoff),
			)

			if ctx.Err() != nil {
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			sleep(g.retryBackoff)
		}
	}

	return "", fmt.Errorf("%w: %d attempts: %w", ErrRateLimited, g.maxAttempts, lastErr)
}

func (g *geminiService) generateOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyReply
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := builder.String()
	if output == "" {
		return "", ErrEmptyReply
	}

	return output, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if len(text) > embedInputLimit {
		text = text[:embedInputLimit]
	}

	result, err := g.models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}
