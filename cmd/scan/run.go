package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/classifier"
	"alfredoptarigan/resume-scanner/internal/logger"
	"alfredoptarigan/resume-scanner/internal/models"
	"alfredoptarigan/resume-scanner/internal/scoring"
	"alfredoptarigan/resume-scanner/internal/services"
	"alfredoptarigan/resume-scanner/internal/skills"
)

const (
	embeddingCacheTTL      = 24 * time.Hour
	embeddingCacheCapacity = 1000
)

var errNoJobDescription = errors.New("--jd is required")

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Score local .pdf and .docx résumés",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("jd", "", "file holding the job description")
	runCmd.Flags().Bool("json", false, "print results as JSON")
	runCmd.Flags().String("skills", "", "skill inventory YAML (default is the built-in inventory)")
	runCmd.Flags().String("model", "", "role classifier artifact")

	viper.BindPFlag("jd", runCmd.Flags().Lookup("jd"))
	viper.BindPFlag("json", runCmd.Flags().Lookup("json"))
	viper.BindPFlag("skills", runCmd.Flags().Lookup("skills"))
	viper.BindPFlag("model", runCmd.Flags().Lookup("model"))
}

func run(ctx context.Context, out io.Writer, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log := zap.NewNop()
	if viper.GetBool("debug") {
		l, err := logger.New(false, true)
		if err != nil {
			return fmt.Errorf("creating a logger: %w", err)
		}
		log = l
	}

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	jdPath := viper.GetString("jd")
	if jdPath == "" {
		return errNoJobDescription
	}
	jd, err := os.ReadFile(jdPath)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	scanner, err := newScanner(ctx, config, log)
	if err != nil {
		return err
	}

	files := make([]services.ScanFile, 0, len(paths))
	for _, p := range paths {
		if err := services.ValidateFilename(p); err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, services.ScanFile{Filename: filepath.Base(p), Data: data})
	}

	results, err := scanner.ScanBatch(ctx, files, string(jd))
	if err != nil {
		return err
	}

	if viper.GetBool("json") {
		return writeJSON(out, results)
	}
	return writeTable(out, results)
}

// newScanner wires the scoring pipeline without persistence, indexing or
// notifications.
func newScanner(ctx context.Context, config *Config, log *zap.Logger) (services.ScannerService, error) {
	inventory, err := skills.Load(config.Skills)
	if err != nil {
		return nil, err
	}

	var roles scoring.RolePredictor
	if config.Model != "" {
		model, err := classifier.Load(config.Model)
		if err != nil {
			return nil, err
		}
		roles = model
	}

	var embedder scoring.Embedder
	if config.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiEmbedder(ctx, config.GeminiAPIKey, config.GeminiModel, log)
		if err != nil {
			return nil, err
		}
		cache := services.NewMemoryEmbeddingCache(embeddingCacheCapacity, embeddingCacheTTL)
		if config.RedisAddr != "" {
			cache = services.NewRedisEmbeddingCache(config.RedisAddr, embeddingCacheTTL)
		}
		embedder = services.NewCachedEmbedder(gemini, gemini.Model(), cache, log)
	}

	scorer := scoring.NewScorer(inventory, scoring.NewSimilarityEngine(embedder, log), roles, log)

	return services.NewScannerService(services.ScannerDeps{
		Extractor: services.NewExtractor(inventory),
		Scorer:    scorer,
		Logger:    log,
	}, services.ScanOptions{}), nil
}

func writeJSON(out io.Writer, results []models.ScanResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(models.BatchResponse{BatchResults: results})
}

func writeTable(out io.Writer, results []models.ScanResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILENAME\tMATCH %\tSTATUS\tROLE\tMISSING SKILLS")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s\t-\terror: %s\t-\t-\n", r.Filename, r.Error)
			continue
		}

		role := "-"
		if r.PredictedRole != nil {
			role = *r.PredictedRole
		}
		missing := "-"
		if len(r.MissingSkills) > 0 {
			missing = strings.Join(r.MissingSkills, ", ")
		}

		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\n", r.Filename, r.MatchPercentage, r.Status, role, missing)
	}

	return w.Flush()
}
