package scoring

import (
	"strings"

	"alfredoptarigan/resume-scanner/internal/skills"
)

// WeightedMatch scores how much of the weighted skill vocabulary referenced by
// jd is covered by resumeSkills. Skills without a declared weight are left out.
// A jd that references no weighted skill yields (0, empty).
func WeightedMatch(inv *skills.Inventory, resumeSkills []string, jd string) (float64, []string) {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	lowerJD := strings.ToLower(jd)
	matched := make([]string, 0)

	var total, matchedWeight float64
	for _, s := range inv.WeightedSkills() {
		if !skills.Mentions(lowerJD, s.Name) {
			continue
		}

		total += s.Weight
		if _, ok := have[s.Name]; ok {
			matchedWeight += s.Weight
			matched = append(matched, s.Name)
		}
	}

	if total == 0 {
		return 0, []string{}
	}

	return round2(matchedWeight / total * 100), matched
}
