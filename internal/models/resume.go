package models

import (
	"time"

	"github.com/google/uuid"
)

// ResumeRecord is the durable result of screening a single resume.
// Records are written once per processed document and never updated.
type ResumeRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename  string    `gorm:"type:text" json:"filename"`
	Text      string    `gorm:"type:text" json:"text"`
	Category  string    `gorm:"type:text;not null;default:'not fit'" json:"category"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (ResumeRecord) TableName() string {
	return "resumes"
}
