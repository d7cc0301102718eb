package scoring

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/skills"
)

// RolePredictor labels the most likely job role of a text. ok is false when
// no label can be produced.
type RolePredictor interface {
	Predict(text string) (role string, ok bool)
}

// Scorer runs the scoring and gap-analysis pipeline for one parsed document.
type Scorer interface {
	Score(ctx context.Context, doc ParsedDocument, jd string) Evaluation
}

type scorer struct {
	inventory  *skills.Inventory
	similarity SimilarityEngine
	gap        GapAnalyzer
	roles      RolePredictor
	logger     *zap.Logger
}

// NewScorer wires the pipeline. roles may be nil when no classifier artifact
// is available.
func NewScorer(inv *skills.Inventory, similarity SimilarityEngine, roles RolePredictor, logger *zap.Logger) Scorer {
	return &scorer{
		inventory:  inv,
		similarity: similarity,
		gap:        NewGapAnalyzer(inv, similarity),
		roles:      roles,
		logger:     logger,
	}
}

// Score implements Scorer.
func (s *scorer) Score(ctx context.Context, doc ParsedDocument, jd string) Evaluation {
	if strings.TrimSpace(jd) == "" {
		s.logger.Debug("scoring without job description", zap.Error(ErrEmptyJobDescription))
	}

	semantic := s.similarity.Similarity(ctx, doc.CleanedText, jd)
	keyword, _ := WeightedMatch(s.inventory, doc.Skills, jd)
	blended := Blend(semantic, keyword)
	status := Classify(blended)

	gap := s.gap.Analyze(ctx, doc.CleanedText, jd)
	role := s.predictRole(doc.CleanedText)

	return Evaluation{
		Score: ScoreResult{
			SemanticScore: semantic,
			KeywordScore:  keyword,
			BlendedScore:  blended,
			Status:        status,
		},
		Gap:             gap,
		PredictedRole:   role,
		Roadmap:         RoadmapFor(s.inventory.Rules(), status, gap.MissingSkills),
		Recommendations: Compose(doc, blended, gap.MissingSkills, role),
	}
}

func (s *scorer) predictRole(text string) *string {
	if s.roles == nil {
		s.logger.Debug("role left absent", zap.Error(ErrModelUnavailable))
		return nil
	}

	role, ok := s.roles.Predict(text)
	if !ok {
		return nil
	}
	return &role
}
