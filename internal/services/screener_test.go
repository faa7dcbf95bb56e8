package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumescreener/internal/models"
)

type fakeResumeRepo struct {
	records []*models.ResumeRecord
	err     error
}

func (f *fakeResumeRepo) Create(record *models.ResumeRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeResumeRepo) FindByID(id uuid.UUID) (*models.ResumeRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeResumeRepo) ListRecent(limit int) ([]models.ResumeRecord, error) {
	return nil, errors.New("not implemented")
}

// fakeClassifier answers queued replies in order, then errors.
type fakeClassifier struct {
	replies []string
	errAt   int // 1-based call index that fails; 0 disables
	calls   int
}

func (f *fakeClassifier) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.errAt != 0 && f.calls == f.errAt {
		return "", errors.New("boom")
	}
	if len(f.replies) == 0 {
		return "Category: average\nScore: 50", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeClassifier) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1}, nil
}

// echoExtractor returns the document bytes as text.
type echoExtractor struct {
	failFor string
	calls   int
}

func (e *echoExtractor) ExtractText(data []byte) (string, error) {
	e.calls++
	if e.failFor != "" && string(data) == e.failFor {
		return "", errors.New("bad pdf")
	}
	return string(data), nil
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return nil
}

func newTestScreener(repo *fakeResumeRepo, classifier *fakeClassifier, extractor *echoExtractor, pacer Pacer, maxBatchSize int) ScreenerService {
	return NewScreenerService(repo, classifier, extractor, nil, pacer, maxBatchSize, zap.NewNop())
}

func doc(name, text string) models.ResumeDocument {
	return models.ResumeDocument{Filename: name, Data: []byte(text)}
}

func TestRunRejectsMissingJobDescription(t *testing.T) {
	repo := &fakeResumeRepo{}
	classifier := &fakeClassifier{}
	extractor := &echoExtractor{}
	screener := newTestScreener(repo, classifier, extractor, &countingPacer{}, 100)

	_, err := screener.Run(context.Background(), "   ", []models.ResumeDocument{doc("a.pdf", "text")})

	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Zero(t, extractor.calls)
	assert.Zero(t, classifier.calls)
	assert.Empty(t, repo.records)
}

func TestRunRejectsEmptyBatch(t *testing.T) {
	repo := &fakeResumeRepo{}
	classifier := &fakeClassifier{}
	screener := newTestScreener(repo, classifier, &echoExtractor{}, &countingPacer{}, 100)

	_, err := screener.Run(context.Background(), "Go engineer", nil)

	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Zero(t, classifier.calls)
}

func TestRunProducesResultsInProcessingOrder(t *testing.T) {
	repo := &fakeResumeRepo{}
	classifier := &fakeClassifier{replies: []string{
		"Category: average\nScore: 40",
		"Category: best\nScore: 95",
		"Category: good\nScore: 70",
	}}
	pacer := &countingPacer{}
	screener := newTestScreener(repo, classifier, &echoExtractor{}, pacer, 100)

	report, err := screener.Run(context.Background(), "Go engineer", []models.ResumeDocument{
		doc("alice.pdf", "alice resume"),
		doc("bob.pdf", "bob resume"),
		doc("carol.pdf", "carol resume"),
	})
	require.NoError(t, err)

	require.Len(t, report.AllResults, 3)
	assert.Equal(t, "alice.pdf", report.AllResults[0].Filename)
	assert.Equal(t, "bob.pdf", report.AllResults[1].Filename)
	assert.Equal(t, "carol.pdf", report.AllResults[2].Filename)

	require.Len(t, report.Top10, 3)
	assert.Equal(t, "bob.pdf", report.Top10[0].Filename)
	assert.Equal(t, "carol.pdf", report.Top10[1].Filename)
	assert.Equal(t, "alice.pdf", report.Top10[2].Filename)

	// One pacing wait per classification call
	assert.Equal(t, 3, pacer.waits)

	// One durable record per resume, extracted text included
	require.Len(t, repo.records, 3)
	assert.Equal(t, "alice resume", repo.records[0].Text)
	assert.Equal(t, "average", repo.records[0].Category)
	assert.Equal(t, 40, repo.records[0].Score)
}

func TestRunCapsBatchSize(t *testing.T) {
	repo := &fakeResumeRepo{}
	classifier := &fakeClassifier{}
	screener := newTestScreener(repo, classifier, &echoExtractor{}, &countingPacer{}, 100)

	docs := make([]models.ResumeDocument, 150)
	for i := range docs {
		docs[i] = doc(fmt.Sprintf("resume-%03d.pdf", i), "text")
	}

	report, err := screener.Run(context.Background(), "Go engineer", docs)
	require.NoError(t, err)

	assert.Len(t, report.AllResults, 100)
	assert.Equal(t, 100, classifier.calls)
	assert.Len(t, repo.records, 100)
	assert.Equal(t, "resume-099.pdf", report.AllResults[99].Filename)
}

func TestRunTopTenIsStableOnTies(t *testing.T) {
	repo := &fakeResumeRepo{}

	var replies []string
	var docs []models.ResumeDocument
	scores := []int{70, 90, 70, 70, 90, 70, 70, 70, 70, 70, 70, 70}
	for i, score := range scores {
		replies = append(replies, fmt.Sprintf("Category: good\nScore: %d", score))
		docs = append(docs, doc(fmt.Sprintf("r%02d.pdf", i+1), "text"))
	}

	classifier := &fakeClassifier{replies: replies}
	screener := newTestScreener(repo, classifier, &echoExtractor{}, &countingPacer{}, 100)

	report, err := screener.Run(context.Background(), "Go engineer", docs)
	require.NoError(t, err)

	require.Len(t, report.Top10, 10)
	assert.Equal(t, "r02.pdf", report.Top10[0].Filename)
	assert.Equal(t, "r05.pdf", report.Top10[1].Filename)

	// Ties keep submission order
	wantRest := []string{"r01.pdf", "r03.pdf", "r04.pdf", "r06.pdf", "r07.pdf", "r08.pdf", "r09.pdf", "r10.pdf"}
	for i, want := range wantRest {
		assert.Equal(t, want, report.Top10[i+2].Filename)
	}

	// The ranking must not disturb the processing-order list
	assert.Equal(t, "r01.pdf", report.AllResults[0].Filename)
	assert.Equal(t, "r12.pdf", report.AllResults[11].Filename)
}

func TestRunAbortsOnExtractionFailure(t *testing.T) {
	repo := &fakeResumeRepo{}
	classifier := &fakeClassifier{}
	extractor := &echoExtractor{failFor: "broken bytes"}
	screener := newTestScreener(repo, classifier, extractor, &countingPacer{}, 100)

	_, err := screener.Run(context.Background(), "Go engineer", []models.ResumeDocument{
		doc("good.pdf", "fine"),
		doc("broken.pdf", "broken bytes"),
		doc("never.pdf", "fine too"),
	})

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "broken.pdf", extractionErr.Filename)

	// The first resume was already persisted and stays persisted
	require.Len(t, repo.records, 1)
	assert.Equal(t, "good.pdf", repo.records[0].Filename)
	assert.Equal(t, 1, classifier.calls)
}

func TestRunAbortsOnClassificationFailure(t *testing.T) {
	repo := &fakeResumeRepo{}
	classifier := &fakeClassifier{errAt: 2}
	screener := newTestScreener(repo, classifier, &echoExtractor{}, &countingPacer{}, 100)

	_, err := screener.Run(context.Background(), "Go engineer", []models.ResumeDocument{
		doc("first.pdf", "one"),
		doc("second.pdf", "two"),
		doc("third.pdf", "three"),
	})

	var classificationErr *ClassificationError
	require.ErrorAs(t, err, &classificationErr)
	assert.Equal(t, "second.pdf", classificationErr.Filename)

	require.Len(t, repo.records, 1)
	assert.Equal(t, "first.pdf", repo.records[0].Filename)
	assert.Equal(t, 2, classifier.calls)
}

func TestRunIsDeterministicForSameInputs(t *testing.T) {
	inputs := []models.ResumeDocument{
		doc("a.pdf", "resume a"),
		doc("b.pdf", "resume b"),
	}
	replies := []string{
		"Category: good\nScore: 60",
		"Category: bad\nScore: 20",
	}

	run := func() *models.BatchReport {
		repo := &fakeResumeRepo{}
		classifier := &fakeClassifier{replies: append([]string(nil), replies...)}
		screener := newTestScreener(repo, classifier, &echoExtractor{}, &countingPacer{}, 100)

		report, err := screener.Run(context.Background(), "Go engineer", inputs)
		require.NoError(t, err)
		return report
	}

	assert.Equal(t, run(), run())
}
