package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/models"
	"alfredoptarigan/resume-scanner/internal/ranking"
	"alfredoptarigan/resume-scanner/internal/repositories/mocks"
	"alfredoptarigan/resume-scanner/internal/services"
	"alfredoptarigan/resume-scanner/internal/skills"
)

type stubScanner struct {
	files []services.ScanFile
	jd    string
	err   error
	hits  []models.SearchHit
}

func (s *stubScanner) ScanBatch(_ context.Context, files []services.ScanFile, jd string) ([]models.ScanResult, error) {
	s.files = files
	s.jd = jd
	if s.err != nil {
		return nil, s.err
	}
	results := make([]models.ScanResult, 0, len(files))
	for _, f := range files {
		results = append(results, models.ScanResult{Filename: f.Filename, MatchPercentage: 50, Status: "Consider"})
	}
	return results, nil
}

func (s *stubScanner) Search(context.Context, string, int) ([]models.SearchHit, error) {
	return s.hits, s.err
}

type memoryStore struct {
	saved map[string][]byte
}

func (m *memoryStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return "reports/" + services.ReportFilename(filename), nil
}

func multipartRequest(t *testing.T, jd string, files map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if jd != "" {
		require.NoError(t, w.WriteField("job_description", jd))
	}
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload_resume", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestScanHandler_HandleUpload(t *testing.T) {
	testCases := []struct {
		name       string
		files      map[string]string
		scanErr    error
		maxSize    int64
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "accepted batch",
			files:      map[string]string{"jane.pdf": "python"},
			wantStatus: fiber.StatusOK,
			wantCalled: true,
		},
		{
			name:       "unsupported extension rejected before scanning",
			files:      map[string]string{"notes.txt": "python"},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "no files",
			files:      map[string]string{},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "file too large",
			files:      map[string]string{"big.docx": "0123456789"},
			maxSize:    4,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "scanner failure",
			files:      map[string]string{"jane.pdf": "python"},
			scanErr:    errors.New("boom"),
			wantStatus: fiber.StatusInternalServerError,
			wantCalled: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scanner := &stubScanner{err: tc.scanErr}
			h := NewScanHandler(scanner, tc.maxSize, zap.NewNop())

			app := fiber.New()
			app.Post("/upload_resume", h.HandleUpload)

			resp, err := app.Test(multipartRequest(t, "Need python", tc.files))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantCalled, scanner.files != nil)

			if tc.wantStatus == fiber.StatusOK {
				var body models.BatchResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				require.Len(t, body.BatchResults, 1)
				assert.Equal(t, "jane.pdf", body.BatchResults[0].Filename)
				assert.Equal(t, "Need python", scanner.jd)
				assert.Equal(t, []byte("python"), scanner.files[0].Data)
			}
		})
	}
}

func TestScanHandler_HandleSearch(t *testing.T) {
	scanner := &stubScanner{hits: []models.SearchHit{{Filename: "a.pdf", Score: 0.9}}}
	h := NewScanHandler(scanner, 0, zap.NewNop())

	app := fiber.New()
	app.Post("/search_candidates", h.HandleSearch)

	req := httptest.NewRequest(http.MethodPost, "/search_candidates", strings.NewReader(`{"job_description":"go developer","limit":3}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Results []models.SearchHit `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, scanner.hits, body.Results)

	req = httptest.NewRequest(http.MethodPost, "/search_candidates", strings.NewReader(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRankingHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCandidateRepository(ctrl)

	candidates := []models.Candidate{
		{Filename: "b.pdf", MatchPercentage: 40, Status: "Low Match", Skills: []string{"python"}},
		{Filename: "a.pdf", MatchPercentage: 90, Status: "Highly Recommended", Skills: []string{"python", "aws"}},
	}
	repo.EXPECT().ListAll(gomock.Any()).Return(candidates, nil).Times(3)

	h := NewRankingHandler(repo, zap.NewNop())
	app := fiber.New()
	app.Get("/rank_candidates", h.HandleRank)
	app.Get("/analytics", h.HandleAnalytics)
	app.Get("/export", h.HandleExport)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/rank_candidates", nil))
	require.NoError(t, err)
	var ranked []models.Candidate
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "a.pdf", ranked[0].Filename)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/analytics", nil))
	require.NoError(t, err)
	var summary ranking.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 2, summary.TotalResumes)
	assert.Equal(t, 90.0, summary.HighestMatch)
	assert.Equal(t, ranking.SkillCount{Skill: "python", Count: 2}, summary.TopSkills[0])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/export", nil))
	require.NoError(t, err)
	assert.Equal(t, xlsxContentType, resp.Header.Get(fiber.HeaderContentType))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	first, err := f.GetCellValue("Ranked Candidates", "B2")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", first)
}

func TestRankingHandler_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCandidateRepository(ctrl)
	repo.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("db down"))

	app := fiber.New()
	app.Get("/analytics", NewRankingHandler(repo, zap.NewNop()).HandleAnalytics)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/analytics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestReportHandler_HandleGenerate(t *testing.T) {
	store := &memoryStore{}
	h := NewReportHandler(skills.Default(), store, zap.NewNop())

	app := fiber.New()
	app.Post("/generate_report", h.HandleGenerate)

	payload := `{"filename":"jane.pdf","match_percentage":42.5,"status":"Low Match","matched_skills":["python"],"missing_skills":["aws"]}`
	req := httptest.NewRequest(http.MethodPost, "/generate_report", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "jane.pdf_Report.pdf")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, data, store.saved["jane.pdf"])

	req = httptest.NewRequest(http.MethodPost, "/generate_report", strings.NewReader(`{"status":"Consider"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
