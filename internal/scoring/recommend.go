package scoring

import (
	"fmt"
	"strings"
)

const minListedSkills = 5

// Known role labels. Anything else gets no role-specific advice.
const (
	RoleMachineLearningEngineer = "Machine Learning Engineer"
	RoleDataAnalyst             = "Data Analyst"
	RoleFullStackDeveloper      = "Full Stack Developer"
	RoleDevOpsEngineer          = "DevOps Engineer"
)

var rolePaths = map[string]string{
	RoleMachineLearningEngineer: "Python -> NumPy/Pandas -> Scikit-learn -> Deep Learning -> Model Deployment.",
	RoleDataAnalyst:             "Excel -> SQL -> Python (Pandas) -> Data Visualization -> Statistics.",
	RoleFullStackDeveloper:      "HTML/CSS -> JavaScript -> React -> Node.js -> MongoDB -> Deployment.",
	RoleDevOpsEngineer:          "Linux -> Git -> Docker -> CI/CD -> AWS -> Kubernetes.",
}

type recommendationRule func(doc ParsedDocument, blended float64, missing []string, role *string) string

// Evaluation order is the order of emitted lines.
var recommendationRules = []recommendationRule{
	experienceAdvice,
	skillCountAdvice,
	roleAdvice,
	missingSkillAdvice,
	scoreTierAdvice,
}

// Compose builds human readable feedback. Each rule contributes at most one
// line.
func Compose(doc ParsedDocument, blended float64, missing []string, role *string) []string {
	lines := make([]string, 0, len(recommendationRules))
	for _, rule := range recommendationRules {
		if line := rule(doc, blended, missing, role); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func experienceAdvice(doc ParsedDocument, _ float64, _ []string, _ *string) string {
	switch {
	case doc.ExperienceYears <= 0:
		return "Mention your work experience with clear durations (e.g. \"2 years\")."
	case doc.ExperienceYears < 2:
		return "Gain more hands-on experience through internships or freelance projects."
	case doc.ExperienceYears >= 5:
		return "Highlight leadership and mentoring from your senior experience."
	default:
		return ""
	}
}

func skillCountAdvice(doc ParsedDocument, _ float64, _ []string, _ *string) string {
	if len(doc.Skills) < minListedSkills {
		return "List more relevant technical skills in your résumé."
	}
	return ""
}

func roleAdvice(_ ParsedDocument, _ float64, _ []string, role *string) string {
	if role == nil {
		return ""
	}
	path, ok := rolePaths[*role]
	if !ok {
		return ""
	}
	return fmt.Sprintf("Suggested learning path for %s: %s", *role, path)
}

func missingSkillAdvice(_ ParsedDocument, _ float64, missing []string, _ *string) string {
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("Focus on learning these skills: %s", strings.Join(missing, ", "))
}

func scoreTierAdvice(_ ParsedDocument, blended float64, _ []string, _ *string) string {
	switch {
	case blended >= 70:
		return "You are a strong candidate. Improve project depth and portfolio."
	case blended >= 50:
		return "Tailor your résumé to the job description and quantify your achievements."
	case blended >= 35:
		return "Build at least 2 real-world projects related to this job role."
	default:
		return "Strengthen fundamentals and follow a structured learning roadmap."
	}
}
