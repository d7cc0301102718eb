package scoring

// ParsedDocument is the normalized output of document extraction.
type ParsedDocument struct {
	CleanedText     string
	Skills          []string
	ExperienceYears int
	Education       []string
	ContactEmail    string
	ContactName     string
}

type GapAnalysis struct {
	MatchedSkills      []string           `json:"matched_skills"`
	MissingSkills      []string           `json:"missing_skills"`
	PerSkillSimilarity map[string]float64 `json:"skill_match_scores"`
}

type ScoreResult struct {
	SemanticScore float64 `json:"semantic_score"`
	KeywordScore  float64 `json:"keyword_score"`
	BlendedScore  float64 `json:"match_percentage"`
	Status        Status  `json:"status"`
}

// Evaluation is everything the pipeline derives for one document.
type Evaluation struct {
	Score           ScoreResult
	Gap             GapAnalysis
	PredictedRole   *string
	Roadmap         []string
	Recommendations []string
}
