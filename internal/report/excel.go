package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-scanner/internal/models"
	"alfredoptarigan/resume-scanner/internal/scoring"
)

const candidatesSheet = "Ranked Candidates"

var tierColors = map[scoring.Status]string{
	scoring.StatusHighlyRecommended: "C6EFCE",
	scoring.StatusRecommended:       "E2F0D9",
	scoring.StatusConsider:          "FFEB9C",
	scoring.StatusLowMatch:          "FFC7CE",
	scoring.StatusNotSuitable:       "FF9999",
}

// RenderExcel writes ranked candidates to an .xlsx workbook. Rows keep the
// order of candidates and are color coded by status tier.
func RenderExcel(candidates []models.Candidate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", candidatesSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	widths := map[string]float64{"A": 8, "B": 30, "C": 14, "D": 20, "E": 26, "F": 40, "G": 22}
	for col, w := range widths {
		if err := f.SetColWidth(candidatesSheet, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	tierStyles := make(map[string]int, len(scoring.Statuses))
	for _, status := range scoring.Statuses {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{tierColors[status]}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create row style: %w", err)
		}
		tierStyles[string(status)] = style
	}

	headers := []string{"Rank", "Filename", "Match %", "Status", "Predicted Role", "Skills", "Uploaded At"}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(candidatesSheet, cell, header)
		f.SetCellStyle(candidatesSheet, cell, cell, headerStyle)
	}

	for i, c := range candidates {
		row := i + 2
		role := ""
		if c.PredictedRole != nil {
			role = *c.PredictedRole
		}

		f.SetCellValue(candidatesSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("B%d", row), c.Filename)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("C%d", row), c.MatchPercentage)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("D%d", row), c.Status)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("E%d", row), role)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("F%d", row), strings.Join(c.Skills, ", "))
		if !c.UploadedAt.IsZero() {
			f.SetCellValue(candidatesSheet, fmt.Sprintf("G%d", row), c.UploadedAt.Format("2006-01-02 15:04"))
		}

		if style, ok := tierStyles[c.Status]; ok {
			f.SetCellStyle(candidatesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), style)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
