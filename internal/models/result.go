package models

// ScanResult is returned for every document of an upload batch. Error is set
// when the document could not be processed; the score fields are then zero.
type ScanResult struct {
	Filename         string             `json:"filename"`
	MatchPercentage  float64            `json:"match_percentage"`
	Status           string             `json:"status"`
	PredictedRole    *string            `json:"predicted_role"`
	MatchedSkills    []string           `json:"matched_skills"`
	MissingSkills    []string           `json:"missing_skills"`
	Recommendations  []string           `json:"recommendations"`
	Roadmap          []string           `json:"roadmap"`
	SemanticScore    float64            `json:"semantic_score"`
	KeywordScore     float64            `json:"keyword_score"`
	SkillMatchScores map[string]float64 `json:"skill_match_scores,omitempty"`
	Error            string             `json:"error,omitempty"`
}

type BatchResponse struct {
	BatchResults []ScanResult `json:"batch_results"`
}

type ReportRequest struct {
	Filename        string   `json:"filename"`
	MatchPercentage float64  `json:"match_percentage"`
	Status          string   `json:"status"`
	PredictedRole   *string  `json:"predicted_role"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
	Recommendations []string `json:"recommendations"`
	Roadmap         []string `json:"roadmap"`
}

type SearchRequest struct {
	JobDescription string `json:"job_description"`
	Limit          int    `json:"limit"`
}

type SearchHit struct {
	Filename        string  `json:"filename"`
	Score           float32 `json:"score"`
	MatchPercentage float64 `json:"match_percentage"`
	Status          string  `json:"status"`
}
