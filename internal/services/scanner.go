package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/logger"
	"alfredoptarigan/resume-scanner/internal/metrics"
	"alfredoptarigan/resume-scanner/internal/models"
	"alfredoptarigan/resume-scanner/internal/repositories"
	"alfredoptarigan/resume-scanner/internal/scoring"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 50
)

var ErrNoFiles = errors.New("no files uploaded")

type ScanFile struct {
	Filename string
	Data     []byte
}

// ScanOptions toggles the optional stages of a batch.
type ScanOptions struct {
	ClearOnNewBatch   bool
	NotifyOnHighMatch bool
	NotifyThreshold   float64
}

// ScannerDeps groups the collaborators of the scanner. Only Extractor and
// Scorer are required; the rest are skipped when nil.
type ScannerDeps struct {
	Extractor  Extractor
	Scorer     scoring.Scorer
	Embedder   scoring.Embedder
	Repository repositories.CandidateRepository
	Index      CandidateIndex
	Publisher  EventPublisher
	Worker     Worker
	Storage    StorageService
	Metrics    *metrics.Recorder
	Logger     *zap.Logger
}

type ScannerService interface {
	ScanBatch(ctx context.Context, files []ScanFile, jobDescription string) ([]models.ScanResult, error)
	Search(ctx context.Context, jobDescription string, limit int) ([]models.SearchHit, error)
}

type scannerService struct {
	deps ScannerDeps
	opts ScanOptions
	now  func() time.Time
}

func NewScannerService(deps ScannerDeps, opts ScanOptions) ScannerService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Index == nil {
		deps.Index = NewNoopIndex()
	}
	if deps.Publisher == nil {
		deps.Publisher = NewNoopPublisher()
	}

	return &scannerService{
		deps: deps,
		opts: opts,
		now:  time.Now,
	}
}

// ScanBatch implements ScannerService. Every file is validated before any
// work starts. Documents are then scored one after another; a document that
// fails extraction gets an entry with Error set and the batch continues.
func (s *scannerService) ScanBatch(ctx context.Context, files []ScanFile, jobDescription string) ([]models.ScanResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	for _, f := range files {
		if err := ValidateFilename(f.Filename); err != nil {
			return nil, err
		}
	}

	if s.opts.ClearOnNewBatch {
		s.clearPreviousBatch(ctx)
	}

	results := make([]models.ScanResult, 0, len(files))
	for _, f := range files {
		results = append(results, s.scanOne(ctx, f, jobDescription))
	}

	return results, nil
}

func (s *scannerService) clearPreviousBatch(ctx context.Context) {
	if s.deps.Repository != nil {
		if err := s.deps.Repository.ClearAll(ctx); err != nil {
			s.deps.Logger.Warn("failed to clear previous batch", zap.Error(err))
			s.deps.Metrics.Failure("clear")
		}
	}
	if err := s.deps.Index.Clear(ctx); err != nil {
		s.deps.Logger.Warn("failed to clear candidate index", zap.Error(err))
		s.deps.Metrics.Failure("clear")
	}
}

func (s *scannerService) scanOne(ctx context.Context, f ScanFile, jobDescription string) models.ScanResult {
	start := s.now()
	log := logger.ForDocument(s.deps.Logger, f.Filename)

	if s.deps.Storage != nil {
		if stored, err := s.deps.Storage.SaveFile(f.Filename, f.Data); err != nil {
			log.Warn("failed to store upload", zap.Error(err))
		} else {
			log.Debug("upload stored", zap.String("stored_as", stored))
		}
	}

	doc, err := s.deps.Extractor.Extract(f.Filename, f.Data)
	if err != nil {
		log.Warn("extraction failed", zap.Error(err))
		s.deps.Metrics.Failure("extract")
		return failedResult(f.Filename, err)
	}

	eval := s.deps.Scorer.Score(ctx, doc, jobDescription)
	result := toScanResult(f.Filename, eval)

	s.persist(ctx, log, f.Filename, doc, eval)
	s.index(ctx, log, f.Filename, doc, eval)
	s.publish(ctx, log, f.Filename, eval)
	s.notify(log, f.Filename, doc, eval)

	s.deps.Metrics.ObserveScore(string(eval.Score.Status), eval.Score.BlendedScore, s.now().Sub(start))
	log.Info("document scored",
		zap.Float64("match_percentage", eval.Score.BlendedScore),
		zap.String(logger.FieldStatus, string(eval.Score.Status)))

	return result
}

func (s *scannerService) persist(ctx context.Context, log *zap.Logger, filename string, doc scoring.ParsedDocument, eval scoring.Evaluation) {
	if s.deps.Repository == nil {
		return
	}

	candidate := &models.Candidate{
		Filename:        filename,
		Skills:          doc.Skills,
		MatchPercentage: eval.Score.BlendedScore,
		Status:          string(eval.Score.Status),
		PredictedRole:   eval.PredictedRole,
		Recommendations: eval.Recommendations,
		Roadmap:         eval.Roadmap,
		UploadedAt:      s.now(),
	}
	if err := s.deps.Repository.Upsert(ctx, candidate); err != nil {
		log.Warn("failed to persist candidate", zap.Error(err))
		s.deps.Metrics.Failure("persist")
	}
}

func (s *scannerService) index(ctx context.Context, log *zap.Logger, filename string, doc scoring.ParsedDocument, eval scoring.Evaluation) {
	if s.deps.Embedder == nil || strings.TrimSpace(doc.CleanedText) == "" {
		return
	}

	vector, err := s.deps.Embedder.Embed(ctx, doc.CleanedText)
	if err != nil {
		log.Warn("failed to embed résumé for indexing", zap.Error(err))
		s.deps.Metrics.Failure("index")
		return
	}

	err = s.deps.Index.Upsert(ctx, filename, vector, IndexPayload{
		MatchPercentage: eval.Score.BlendedScore,
		Status:          string(eval.Score.Status),
		Skills:          doc.Skills,
	})
	if err != nil {
		log.Warn("failed to index candidate", zap.Error(err))
		s.deps.Metrics.Failure("index")
	}
}

func (s *scannerService) publish(ctx context.Context, log *zap.Logger, filename string, eval scoring.Evaluation) {
	err := s.deps.Publisher.Publish(ctx, CandidateEvent{
		Filename:        filename,
		MatchPercentage: eval.Score.BlendedScore,
		Status:          string(eval.Score.Status),
		PredictedRole:   eval.PredictedRole,
		MissingSkills:   eval.Gap.MissingSkills,
		ScoredAt:        s.now(),
	})
	if err != nil {
		log.Warn("failed to publish candidate event", zap.Error(err))
		s.deps.Metrics.Failure("publish")
	}
}

func (s *scannerService) notify(log *zap.Logger, filename string, doc scoring.ParsedDocument, eval scoring.Evaluation) {
	if !s.opts.NotifyOnHighMatch || s.deps.Worker == nil {
		return
	}
	if eval.Score.BlendedScore < s.opts.NotifyThreshold || doc.ContactEmail == "" {
		return
	}

	if !s.deps.Worker.Enqueue(NotificationJob{Filename: filename, Email: doc.ContactEmail, Name: doc.ContactName}) {
		s.deps.Metrics.Failure("notify")
		return
	}
	log.Debug("notification queued")
}

// Search implements ScannerService. It returns the résumés closest to the
// job description in the vector index.
func (s *scannerService) Search(ctx context.Context, jobDescription string, limit int) ([]models.SearchHit, error) {
	hits := make([]models.SearchHit, 0)
	if s.deps.Embedder == nil || strings.TrimSpace(jobDescription) == "" {
		return hits, nil
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	vector, err := s.deps.Embedder.Embed(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	found, err := s.deps.Index.Search(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	for _, h := range found {
		hits = append(hits, models.SearchHit{
			Filename:        h.Filename,
			Score:           h.Score,
			MatchPercentage: h.MatchPercentage,
			Status:          h.Status,
		})
	}
	return hits, nil
}

func toScanResult(filename string, eval scoring.Evaluation) models.ScanResult {
	return models.ScanResult{
		Filename:         filename,
		MatchPercentage:  eval.Score.BlendedScore,
		Status:           string(eval.Score.Status),
		PredictedRole:    eval.PredictedRole,
		MatchedSkills:    eval.Gap.MatchedSkills,
		MissingSkills:    eval.Gap.MissingSkills,
		Recommendations:  eval.Recommendations,
		Roadmap:          eval.Roadmap,
		SemanticScore:    eval.Score.SemanticScore,
		KeywordScore:     eval.Score.KeywordScore,
		SkillMatchScores: eval.Gap.PerSkillSimilarity,
	}
}

func failedResult(filename string, err error) models.ScanResult {
	return models.ScanResult{
		Filename:        filename,
		MatchedSkills:   []string{},
		MissingSkills:   []string{},
		Recommendations: []string{},
		Roadmap:         []string{},
		Error:           err.Error(),
	}
}
