package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/config"
	"alfredoptarigan/resume-scanner/internal/logger"
	"alfredoptarigan/resume-scanner/internal/repositories"
	"alfredoptarigan/resume-scanner/internal/services"
	"alfredoptarigan/resume-scanner/internal/skills"
)

// Rebuilds the Qdrant candidate index from the stored uploads. Only files
// that still have a candidate record are indexed, so the index matches the
// latest batch.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Gemini.APIKey == "" || cfg.Qdrant.URL == "" {
		log.Fatal("GEMINI_API_KEY and QDRANT_URL are required")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	candidateRepo := repositories.NewCandidateRepository(db)

	inventory, err := skills.Load(cfg.Skills.File)
	if err != nil {
		log.Fatal("failed to load skill inventory", zap.Error(err))
	}
	extractor := services.NewExtractor(inventory)

	embedder, err := services.NewGeminiEmbedder(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, log)
	if err != nil {
		log.Fatal("failed to initialize Gemini embedder", zap.Error(err))
	}

	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize, log)
	if err != nil {
		log.Fatal("failed to initialize Qdrant", zap.Error(err))
	}
	if err := index.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize Qdrant collection", zap.Error(err))
	}
	if err := index.Clear(ctx); err != nil {
		log.Fatal("failed to clear Qdrant collection", zap.Error(err))
	}

	entries, err := os.ReadDir(cfg.Storage.UploadPath)
	if err != nil {
		log.Fatal("failed to read upload directory", zap.Error(err))
	}

	successCount := 0
	skipCount := 0
	failCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := services.OriginalName(entry.Name())
		docLog := logger.ForDocument(log, filename)

		candidate, err := candidateRepo.FindByFilename(ctx, filename)
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			skipCount++
			continue
		}
		if err != nil {
			docLog.Warn("failed to load candidate", zap.Error(err))
			failCount++
			continue
		}

		data, err := os.ReadFile(filepath.Join(cfg.Storage.UploadPath, entry.Name()))
		if err != nil {
			docLog.Warn("failed to read upload", zap.Error(err))
			failCount++
			continue
		}

		doc, err := extractor.Extract(filename, data)
		if err != nil || strings.TrimSpace(doc.CleanedText) == "" {
			docLog.Warn("failed to extract text", zap.Error(err))
			failCount++
			continue
		}

		vector, err := embedder.Embed(ctx, doc.CleanedText)
		if err != nil {
			docLog.Warn("failed to embed résumé", zap.Error(err))
			failCount++
			continue
		}

		err = index.Upsert(ctx, filename, vector, services.IndexPayload{
			MatchPercentage: candidate.MatchPercentage,
			Status:          candidate.Status,
			Skills:          candidate.Skills,
		})
		if err != nil {
			docLog.Warn("failed to index candidate", zap.Error(err))
			failCount++
			continue
		}

		docLog.Debug("candidate indexed")
		successCount++
	}

	log.Info("reindex finished",
		zap.Int("indexed", successCount),
		zap.Int("skipped", skipCount),
		zap.Int("failed", failCount))

	if failCount > 0 {
		os.Exit(1)
	}
}
