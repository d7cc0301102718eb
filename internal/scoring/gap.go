package scoring

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-scanner/internal/skills"
)

const perSkillConcurrency = 4

type GapAnalyzer interface {
	Analyze(ctx context.Context, resumeText, jd string) GapAnalysis
}

type gapAnalyzer struct {
	inventory  *skills.Inventory
	similarity SimilarityEngine
}

func NewGapAnalyzer(inv *skills.Inventory, similarity SimilarityEngine) GapAnalyzer {
	return &gapAnalyzer{
		inventory:  inv,
		similarity: similarity,
	}
}

// Analyze implements GapAnalyzer.
func (g *gapAnalyzer) Analyze(ctx context.Context, resumeText, jd string) GapAnalysis {
	resumeSkills := g.inventory.Detect(resumeText)
	jdSkills := g.inventory.Detect(jd)

	inResume := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		inResume[s] = struct{}{}
	}

	result := GapAnalysis{
		MatchedSkills:      make([]string, 0),
		MissingSkills:      make([]string, 0),
		PerSkillSimilarity: make(map[string]float64, len(jdSkills)),
	}

	for _, s := range jdSkills {
		if _, ok := inResume[s]; ok {
			result.MatchedSkills = append(result.MatchedSkills, s)
		} else {
			result.MissingSkills = append(result.MissingSkills, s)
		}
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(perSkillConcurrency)
	for _, s := range jdSkills {
		skill := s
		eg.Go(func() error {
			score := g.similarity.Similarity(egCtx, skill, resumeText)
			mu.Lock()
			result.PerSkillSimilarity[skill] = score
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	return result
}
