package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/ranking"
	"alfredoptarigan/resume-scanner/internal/report"
	"alfredoptarigan/resume-scanner/internal/repositories"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RankingHandler struct {
	candidateRepo repositories.CandidateRepository
	logger        *zap.Logger
}

func NewRankingHandler(candidateRepo repositories.CandidateRepository, logger *zap.Logger) *RankingHandler {
	return &RankingHandler{
		candidateRepo: candidateRepo,
		logger:        logger,
	}
}

// HandleRank handles GET /rank_candidates
func (h *RankingHandler) HandleRank(c *fiber.Ctx) error {
	candidates, err := h.candidateRepo.ListAll(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list candidates", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidates",
		})
	}

	return c.JSON(ranking.Rank(candidates))
}

// HandleAnalytics handles GET /analytics
func (h *RankingHandler) HandleAnalytics(c *fiber.Ctx) error {
	candidates, err := h.candidateRepo.ListAll(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list candidates", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidates",
		})
	}

	return c.JSON(ranking.Analytics(candidates))
}

// HandleExport handles GET /export
func (h *RankingHandler) HandleExport(c *fiber.Ctx) error {
	candidates, err := h.candidateRepo.ListAll(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list candidates", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidates",
		})
	}

	data, err := report.RenderExcel(ranking.Rank(candidates))
	if err != nil {
		h.logger.Error("failed to render export", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to export candidates",
		})
	}

	c.Attachment("ranked_candidates.xlsx")
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(data)
}
