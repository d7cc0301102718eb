package scoring

import "math"

// Blend weights. Tunable, they only need to sum to 1.
const (
	SemanticWeight = 0.5
	KeywordWeight  = 0.5
)

type Status string

const (
	StatusHighlyRecommended Status = "Highly Recommended"
	StatusRecommended       Status = "Recommended"
	StatusConsider          Status = "Consider"
	StatusLowMatch          Status = "Low Match"
	StatusNotSuitable       Status = "Not Suitable"
)

// Statuses lists every tier from best to worst.
var Statuses = []Status{
	StatusHighlyRecommended,
	StatusRecommended,
	StatusConsider,
	StatusLowMatch,
	StatusNotSuitable,
}

// Rank orders tiers, higher is better. Unknown values rank below Not Suitable.
func (s Status) Rank() int {
	switch s {
	case StatusHighlyRecommended:
		return 4
	case StatusRecommended:
		return 3
	case StatusConsider:
		return 2
	case StatusLowMatch:
		return 1
	case StatusNotSuitable:
		return 0
	default:
		return -1
	}
}

// NeedsRoadmap reports whether remediation detail is shown for the tier.
func (s Status) NeedsRoadmap() bool {
	return s == StatusLowMatch || s == StatusNotSuitable
}

func Blend(semantic, keyword float64) float64 {
	return round2(semantic*SemanticWeight + keyword*KeywordWeight)
}

// Classify maps a blended score to its tier. Lower bounds are inclusive.
func Classify(score float64) Status {
	switch {
	case score >= 85:
		return StatusHighlyRecommended
	case score >= 70:
		return StatusRecommended
	case score >= 50:
		return StatusConsider
	case score >= 35:
		return StatusLowMatch
	default:
		return StatusNotSuitable
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
