package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/logger"
	"alfredoptarigan/resume-scanner/internal/models"
	"alfredoptarigan/resume-scanner/internal/report"
	"alfredoptarigan/resume-scanner/internal/services"
	"alfredoptarigan/resume-scanner/internal/skills"
)

type ReportHandler struct {
	inventory *skills.Inventory
	store     services.ReportStore
	logger    *zap.Logger
}

// NewReportHandler builds the report handler. store may be nil, in which
// case reports are only returned to the caller.
func NewReportHandler(inventory *skills.Inventory, store services.ReportStore, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		inventory: inventory,
		store:     store,
		logger:    logger,
	}
}

// HandleGenerate handles POST /generate_report
func (h *ReportHandler) HandleGenerate(c *fiber.Ctx) error {
	var req models.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "filename is required",
		})
	}

	hints := make(map[string]string, len(req.MissingSkills))
	for _, skill := range req.MissingSkills {
		if hint := h.inventory.Hint(skill); hint != "" {
			hints[skill] = hint
		}
	}

	data, err := report.RenderPDF(report.Payload{
		Filename:        req.Filename,
		MatchPercentage: req.MatchPercentage,
		Status:          req.Status,
		PredictedRole:   req.PredictedRole,
		MatchedSkills:   req.MatchedSkills,
		MissingSkills:   req.MissingSkills,
		SkillHints:      hints,
		Recommendations: req.Recommendations,
		Roadmap:         req.Roadmap,
	})
	if err != nil {
		h.logger.Error("failed to render report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate report",
		})
	}

	if h.store != nil {
		log := logger.ForDocument(h.logger, req.Filename)
		if key, err := h.store.Save(c.UserContext(), req.Filename, data); err != nil {
			log.Warn("failed to archive report", zap.Error(err))
		} else {
			log.Info("report archived", zap.String("key", key))
		}
	}

	c.Attachment(services.ReportFilename(req.Filename))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}
