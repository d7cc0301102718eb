package ranking

import (
	"cmp"
	"math"
	"slices"

	"alfredoptarigan/resume-scanner/internal/models"
)

const topSkillsLimit = 5

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type Summary struct {
	TotalResumes       int            `json:"total_resumes"`
	AverageMatch       float64        `json:"average_match"`
	HighestMatch       float64        `json:"highest_match"`
	TopSkills          []SkillCount   `json:"top_skills"`
	StatusDistribution map[string]int `json:"status_distribution"`
}

// Rank returns a copy of records ordered by match percentage, best first.
// Equal scores are ordered by filename.
func Rank(records []models.Candidate) []models.Candidate {
	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b models.Candidate) int {
		if c := cmp.Compare(b.MatchPercentage, a.MatchPercentage); c != 0 {
			return c
		}
		return cmp.Compare(a.Filename, b.Filename)
	})
	if ranked == nil {
		ranked = []models.Candidate{}
	}
	return ranked
}

func Analytics(records []models.Candidate) Summary {
	summary := Summary{
		TopSkills:          []SkillCount{},
		StatusDistribution: map[string]int{},
	}
	if len(records) == 0 {
		return summary
	}

	counts := make(map[string]int)
	var total float64
	summary.HighestMatch = records[0].MatchPercentage

	for _, r := range records {
		total += r.MatchPercentage
		summary.HighestMatch = math.Max(summary.HighestMatch, r.MatchPercentage)
		summary.StatusDistribution[r.Status]++
		for _, s := range r.Skills {
			counts[s]++
		}
	}

	summary.TotalResumes = len(records)
	summary.AverageMatch = math.Round(total/float64(len(records))*100) / 100

	for skill, count := range counts {
		summary.TopSkills = append(summary.TopSkills, SkillCount{Skill: skill, Count: count})
	}
	slices.SortFunc(summary.TopSkills, func(a, b SkillCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Skill, b.Skill)
	})
	if len(summary.TopSkills) > topSkillsLimit {
		summary.TopSkills = summary.TopSkills[:topSkillsLimit]
	}

	return summary
}
