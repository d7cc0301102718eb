package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/models"
	"alfredoptarigan/resume-scanner/internal/services"
)

type ScanHandler struct {
	scanner     services.ScannerService
	maxFileSize int64
	logger      *zap.Logger
}

func NewScanHandler(scanner services.ScannerService, maxFileSize int64, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		scanner:     scanner,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleUpload handles POST /upload_resume
func (h *ScanHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": services.ErrNoFiles.Error(),
		})
	}

	jobDescription := ""
	if values := form.Value["job_description"]; len(values) > 0 {
		jobDescription = values[0]
	}

	files := make([]services.ScanFile, 0, len(headers))
	for _, fh := range headers {
		if err := services.ValidateFilename(fh.Filename); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s is too large. Max size: %d bytes", fh.Filename, h.maxFileSize),
			})
		}

		data, err := readUpload(fh)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read %s", fh.Filename),
			})
		}

		files = append(files, services.ScanFile{Filename: fh.Filename, Data: data})
	}

	results, err := h.scanner.ScanBatch(c.UserContext(), files, jobDescription)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFile) || errors.Is(err, services.ErrNoFiles) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("batch scan failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process résumés",
		})
	}

	return c.JSON(models.BatchResponse{BatchResults: results})
}

// HandleSearch handles POST /search_candidates
func (h *ScanHandler) HandleSearch(c *fiber.Ctx) error {
	var req models.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	hits, err := h.scanner.Search(c.UserContext(), req.JobDescription, req.Limit)
	if err != nil {
		h.logger.Error("candidate search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to search candidates",
		})
	}

	return c.JSON(fiber.Map{"results": hits})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
