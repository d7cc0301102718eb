package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-scanner/internal/models"
	"alfredoptarigan/resume-scanner/internal/services"
)

func TestWriteTable(t *testing.T) {
	role := "Backend Developer"
	results := []models.ScanResult{
		{Filename: "jane.pdf", MatchPercentage: 72.5, Status: "Recommended", PredictedRole: &role, MissingSkills: []string{"aws"}},
		{Filename: "broken.docx", Error: "failed to extract document text"},
	}

	var out bytes.Buffer
	require.NoError(t, writeTable(&out, results))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "FILENAME"))
	assert.Contains(t, lines[1], "72.50")
	assert.Contains(t, lines[1], "Backend Developer")
	assert.Contains(t, lines[1], "aws")
	assert.Contains(t, lines[2], "error: failed to extract document text")
}

func TestWriteJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeJSON(&out, []models.ScanResult{{Filename: "a.pdf", Status: "Consider"}}))

	var decoded models.BatchResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded.BatchResults, 1)
	assert.Equal(t, "a.pdf", decoded.BatchResults[0].Filename)
}

func TestRun_Validation(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	jd := filepath.Join(dir, "jd.txt")
	require.NoError(t, os.WriteFile(jd, []byte("Python developer with AWS"), 0o644))

	viper.Set("jd", "")
	err := run(context.Background(), &bytes.Buffer{}, []string{"a.pdf"})
	assert.ErrorIs(t, err, errNoJobDescription)

	viper.Set("jd", jd)
	err = run(context.Background(), &bytes.Buffer{}, []string{filepath.Join(dir, "notes.txt")})
	assert.ErrorIs(t, err, services.ErrUnsupportedFile)

	err = run(context.Background(), &bytes.Buffer{}, []string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}
