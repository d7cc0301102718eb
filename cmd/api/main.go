package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/classifier"
	"alfredoptarigan/resume-scanner/internal/config"
	"alfredoptarigan/resume-scanner/internal/handlers"
	"alfredoptarigan/resume-scanner/internal/logger"
	"alfredoptarigan/resume-scanner/internal/metrics"
	"alfredoptarigan/resume-scanner/internal/repositories"
	"alfredoptarigan/resume-scanner/internal/scoring"
	"alfredoptarigan/resume-scanner/internal/services"
	"alfredoptarigan/resume-scanner/internal/skills"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

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
	log.Info("skill inventory loaded", zap.Int("skills", inventory.Len()))

	var roles scoring.RolePredictor
	if model, err := classifier.Load(cfg.Classifier.ModelPath); err != nil {
		if !errors.Is(err, scoring.ErrModelUnavailable) {
			log.Fatal("failed to load role model", zap.Error(err))
		}
		log.Warn("role prediction disabled", zap.Error(err))
	} else {
		roles = model
	}

	var embedder scoring.Embedder
	if cfg.Gemini.APIKey != "" {
		gemini, err := services.NewGeminiEmbedder(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, log)
		if err != nil {
			log.Fatal("failed to initialize Gemini embedder", zap.Error(err))
		}

		cache := services.NewMemoryEmbeddingCache(cfg.Cache.Capacity, cfg.Cache.TTL)
		if cfg.Cache.RedisAddr != "" {
			cache = services.NewRedisEmbeddingCache(cfg.Cache.RedisAddr, cfg.Cache.TTL)
			log.Info("embedding cache backed by redis", zap.String("addr", cfg.Cache.RedisAddr))
		}
		embedder = services.NewCachedEmbedder(gemini, gemini.Model(), cache, log)
	} else {
		log.Warn("GEMINI_API_KEY not set, semantic scores will be 0")
	}

	similarity := scoring.NewSimilarityEngine(embedder, log)
	scorer := scoring.NewScorer(inventory, similarity, roles, log)

	index := services.NewNoopIndex()
	if cfg.Qdrant.URL != "" {
		index, err = services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize, log)
		if err != nil {
			log.Fatal("failed to initialize Qdrant", zap.Error(err))
		}
		if err := index.InitCollection(ctx); err != nil {
			log.Fatal("failed to initialize Qdrant collection", zap.Error(err))
		}
		log.Info("candidate index ready", zap.String("collection", cfg.Qdrant.Collection))
	}

	publisher := services.NewNoopPublisher()
	if cfg.Events.RabbitMQURL != "" {
		publisher, err = services.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange, cfg.Events.RoutingKey)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		log.Info("publishing candidate events", zap.String("exchange", cfg.Events.Exchange))
	}

	notifier := services.NewNoopNotifier()
	if cfg.SMTP.Host != "" {
		notifier = services.NewSMTPNotifier(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.From,
			services.RetryConfig{
				MaxAttempts:  cfg.Notifier.RetryMaxAttempts,
				InitialDelay: cfg.Notifier.RetryInitialDelay,
				MaxDelay:     cfg.Notifier.RetryMaxDelay,
			},
			log,
		)
	}
	worker := services.NewWorker(notifier, cfg.Notifier.Concurrency, cfg.Notifier.QueueSize, log)
	worker.Start(ctx)

	var reportStore services.ReportStore
	if cfg.Reports.Bucket != "" {
		reportStore, err = services.NewS3ReportStore(ctx,
			cfg.Reports.Bucket,
			cfg.Reports.Region,
			cfg.Reports.Endpoint,
			cfg.Reports.AccessKey,
			cfg.Reports.SecretKey,
		)
		if err != nil {
			log.Fatal("failed to initialize report store", zap.Error(err))
		}
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	recorder := metrics.NewRecorder()

	scanner := services.NewScannerService(services.ScannerDeps{
		Extractor:  services.NewExtractor(inventory),
		Scorer:     scorer,
		Embedder:   embedder,
		Repository: candidateRepo,
		Index:      index,
		Publisher:  publisher,
		Worker:     worker,
		Storage:    storageService,
		Metrics:    recorder,
		Logger:     log,
	}, services.ScanOptions{
		ClearOnNewBatch:   cfg.Pipeline.ClearOnNewBatch,
		NotifyOnHighMatch: cfg.Pipeline.NotifyOnHighMatch,
		NotifyThreshold:   cfg.Pipeline.NotifyThreshold,
	})

	scanHandler := handlers.NewScanHandler(scanner, cfg.Storage.MaxFileSize, log)
	rankingHandler := handlers.NewRankingHandler(candidateRepo, log)
	reportHandler := handlers.NewReportHandler(inventory, reportStore, log)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Scanner API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 10,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(recorder.Middleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Scanner API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /upload_resume",
				"GET /rank_candidates",
				"GET /analytics",
				"GET /export",
				"POST /generate_report",
				"POST /search_candidates",
			},
		})
	})
	app.Get("/metrics", recorder.Handler())

	registerRoutes(app, scanHandler, rankingHandler, reportHandler)
	registerRoutes(app.Group("/api/v1"), scanHandler, rankingHandler, reportHandler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
		worker.Stop()
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func registerRoutes(r fiber.Router, scan *handlers.ScanHandler, rank *handlers.RankingHandler, report *handlers.ReportHandler) {
	r.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "OK",
			"time":   time.Now(),
		})
	})

	r.Post("/upload_resume", scan.HandleUpload)
	r.Post("/search_candidates", scan.HandleSearch)
	r.Get("/rank_candidates", rank.HandleRank)
	r.Get("/analytics", rank.HandleAnalytics)
	r.Get("/export", rank.HandleExport)
	r.Post("/generate_report", report.HandleGenerate)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
