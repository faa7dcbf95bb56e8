package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resumescreener/internal/models"
)

type ResumeRepository interface {
	Create(record *models.ResumeRecord) error
	FindByID(id uuid.UUID) (*models.ResumeRecord, error)
	ListRecent(limit int) ([]models.ResumeRecord, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create implements ResumeRepository.
func (r *resumeRepository) Create(record *models.ResumeRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create resume record: %w", err)
	}

	return nil
}

// FindByID implements ResumeRepository.
func (r *resumeRepository) FindByID(id uuid.UUID) (*models.ResumeRecord, error) {
	var record models.ResumeRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resume record not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find resume record: %w", err)
	}

	return &record, nil
}

// ListRecent implements ResumeRepository.
func (r *resumeRepository) ListRecent(limit int) ([]models.ResumeRecord, error) {
	var records []models.ResumeRecord
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list resume records: %w", err)
	}

	return records, nil
}
