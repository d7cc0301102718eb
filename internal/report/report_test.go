package report

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"alfredoptarigan/resume-scanner/internal/models"
	"alfredoptarigan/resume-scanner/internal/scoring"
)

func TestRenderPDF(t *testing.T) {
	role := "Data Analyst"
	data, err := RenderPDF(Payload{
		Filename:        "jane.pdf",
		MatchPercentage: 42.5,
		Status:          "Low Match",
		PredictedRole:   &role,
		MatchedSkills:   []string{"python"},
		MissingSkills:   []string{"aws", "kotlin"},
		SkillHints:      map[string]string{"aws": "Complete AWS Cloud Practitioner course"},
		Recommendations: []string{"List more relevant technical skills in your résumé."},
		Roadmap:         []string{"Complete AWS Cloud Practitioner course", "Improve knowledge in kotlin"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = RenderPDF(Payload{})
	assert.ErrorIs(t, err, ErrMissingFilename)
}

// The core PDF fonts only cover cp1252, so generated advice must stay inside it.
func TestRenderPDF_AdviceFitsFontEncoding(t *testing.T) {
	doc := scoring.ParsedDocument{ExperienceYears: 1, Skills: []string{"python"}}
	roles := []string{
		scoring.RoleMachineLearningEngineer,
		scoring.RoleDataAnalyst,
		scoring.RoleFullStackDeveloper,
		scoring.RoleDevOpsEngineer,
	}

	for _, role := range roles {
		t.Run(role, func(t *testing.T) {
			lines := scoring.Compose(doc, 20, []string{"aws"}, &role)
			require.NotEmpty(t, lines)
			for _, line := range lines {
				_, err := charmap.Windows1252.NewEncoder().String(line)
				assert.NoError(t, err, line)
			}

			_, err := RenderPDF(Payload{Filename: "cv.pdf", Status: "Low Match", PredictedRole: &role, Recommendations: lines})
			require.NoError(t, err)
		})
	}
}

func TestRenderPDF_EmptySections(t *testing.T) {
	data, err := RenderPDF(Payload{Filename: "empty.docx", Status: "Not Suitable"})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderExcel(t *testing.T) {
	role := "DevOps Engineer"
	data, err := RenderExcel([]models.Candidate{
		{Filename: "a.pdf", MatchPercentage: 88.5, Status: "Highly Recommended", PredictedRole: &role, Skills: []string{"docker", "aws"}},
		{Filename: "b.docx", MatchPercentage: 20, Status: "Not Suitable"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	testCases := map[string]string{
		"A1": "Rank",
		"B2": "a.pdf",
		"C2": "88.5",
		"E2": "DevOps Engineer",
		"F2": "docker, aws",
		"A3": "2",
		"D3": "Not Suitable",
	}
	for cell, want := range testCases {
		got, err := f.GetCellValue(candidatesSheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestRenderExcel_TierStyles(t *testing.T) {
	candidates := make([]models.Candidate, 0, len(scoring.Statuses)+1)
	for i, status := range scoring.Statuses {
		candidates = append(candidates, models.Candidate{Filename: string(status), MatchPercentage: float64(90 - i*15), Status: string(status)})
	}
	candidates = append(candidates, models.Candidate{Filename: "legacy.pdf", Status: "Unknown"})

	data, err := RenderExcel(candidates)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	seen := make(map[int]scoring.Status)
	for i, status := range scoring.Statuses {
		require.NotEmpty(t, tierColors[status], status)

		style, err := f.GetCellStyle(candidatesSheet, fmt.Sprintf("A%d", i+2))
		require.NoError(t, err)
		assert.NotZero(t, style, status)
		assert.NotContains(t, seen, style, "%s shares a style with %s", status, seen[style])
		seen[style] = status
	}

	style, err := f.GetCellStyle(candidatesSheet, fmt.Sprintf("A%d", len(scoring.Statuses)+2))
	require.NoError(t, err)
	assert.Zero(t, style)
}
