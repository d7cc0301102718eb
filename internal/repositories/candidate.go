package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/resume-scanner/internal/models"
)

//go:generate mockgen -source=./candidate.go -package=mocks -destination=./mocks/candidate_mock.go CandidateRepository

var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	Upsert(ctx context.Context, candidate *models.Candidate) error
	ListAll(ctx context.Context) ([]models.Candidate, error)
	FindByFilename(ctx context.Context, filename string) (*models.Candidate, error)
	ClearAll(ctx context.Context) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// Upsert implements CandidateRepository. An existing row with the same
// filename is overwritten.
func (r *candidateRepository) Upsert(ctx context.Context, candidate *models.Candidate) error {
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	if candidate.UploadedAt.IsZero() {
		candidate.UploadedAt = time.Now()
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "filename"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"skills",
				"match_percentage",
				"status",
				"predicted_role",
				"recommendations",
				"roadmap",
				"uploaded_at",
			}),
		}).
		Create(candidate).Error
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}

	return nil
}

// ListAll implements CandidateRepository.
func (r *candidateRepository) ListAll(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.WithContext(ctx).Order("match_percentage DESC").Order("filename").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// FindByFilename implements CandidateRepository.
func (r *candidateRepository) FindByFilename(ctx context.Context, filename string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).Where("filename = ?", filename).First(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

// ClearAll implements CandidateRepository.
func (r *candidateRepository) ClearAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Candidate{}).Error; err != nil {
		return fmt.Errorf("failed to clear candidates: %w", err)
	}
	return nil
}
