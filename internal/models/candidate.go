package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is the persisted result of scoring one uploaded résumé. Filename
// is the natural key: re-uploading the same file overwrites the record.
type Candidate struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename        string    `gorm:"type:text;uniqueIndex;not null" json:"filename"`
	Skills          []string  `gorm:"type:jsonb;serializer:json" json:"skills"`
	MatchPercentage float64   `gorm:"not null;default:0" json:"match_percentage"`
	Status          string    `gorm:"type:text;not null" json:"status"`
	PredictedRole   *string   `gorm:"type:text" json:"predicted_role"`
	Recommendations []string  `gorm:"type:jsonb;serializer:json" json:"recommendations"`
	Roadmap         []string  `gorm:"type:jsonb;serializer:json" json:"roadmap"`
	UploadedAt      time.Time `gorm:"type:timestamp;default:now()" json:"uploaded_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}
