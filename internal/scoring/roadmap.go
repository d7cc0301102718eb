package scoring

import (
	"fmt"
	"strings"

	"alfredoptarigan/resume-scanner/internal/skills"
)

const fundamentalsLine = "Strengthen fundamentals and follow a structured learning roadmap"

// Roadmap maps each missing skill to the hint of the first rule whose keyword
// it contains. Output order follows input order.
func Roadmap(rules []skills.Rule, missing []string) []string {
	lines := make([]string, 0, len(missing))
	for _, skill := range missing {
		lines = append(lines, roadmapLine(rules, skill))
	}
	return lines
}

// RoadmapFor applies the display policy: only Low Match and Not Suitable
// candidates get a roadmap, and it is never empty for them.
func RoadmapFor(rules []skills.Rule, status Status, missing []string) []string {
	if !status.NeedsRoadmap() {
		return []string{}
	}

	lines := Roadmap(rules, missing)
	if len(lines) == 0 {
		lines = append(lines, fundamentalsLine)
	}
	return lines
}

func roadmapLine(rules []skills.Rule, skill string) string {
	lower := strings.ToLower(skill)
	for _, r := range rules {
		if strings.Contains(lower, r.Keyword) {
			return r.Hint
		}
	}
	return fmt.Sprintf("Improve knowledge in %s", skill)
}
