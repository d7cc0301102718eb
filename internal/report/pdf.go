package report

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

var ErrMissingFilename = errors.New("filename is required")

// Payload is the content of one candidate report.
type Payload struct {
	Filename        string
	MatchPercentage float64
	Status          string
	PredictedRole   *string
	MatchedSkills   []string
	MissingSkills   []string
	// SkillHints optionally maps a missing skill to its remediation line.
	SkillHints      map[string]string
	Recommendations []string
	Roadmap         []string
}

// RenderPDF lays the report out on a single Letter page, flowing onto more
// pages when needed.
func RenderPDF(p Payload) ([]byte, error) {
	if p.Filename == "" {
		return nil, ErrMissingFilename
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(50, 40, 50)
	pdf.SetAutoPageBreak(true, 40)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 24, "Resume Evaluation Report", "", 1, "L", false, 0, "")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 12)
	line := func(text string) {
		pdf.MultiCell(0, 18, tr(text), "", "L", false)
	}

	line("Filename: " + p.Filename)
	line("Match Percentage: " + strconv.FormatFloat(p.MatchPercentage, 'f', -1, 64) + "%")
	line("Status: " + p.Status)
	if p.PredictedRole != nil {
		line("Predicted Role: " + *p.PredictedRole)
	}

	section := func(title string, items []string, format func(string) string) {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 20, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		if len(items) == 0 {
			pdf.SetX(70)
			line("None")
			return
		}
		for _, item := range items {
			pdf.SetX(70)
			line("- " + format(item))
		}
	}

	plain := func(s string) string { return s }

	section("Matched Skills:", p.MatchedSkills, plain)
	section("Missing Skills:", p.MissingSkills, func(skill string) string {
		if hint := p.SkillHints[skill]; hint != "" {
			return fmt.Sprintf("%s (%s)", skill, hint)
		}
		return skill
	})
	if len(p.Recommendations) > 0 {
		section("Recommendations:", p.Recommendations, plain)
	}
	if len(p.Roadmap) > 0 {
		section("Learning Roadmap:", p.Roadmap, plain)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
