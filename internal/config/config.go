package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Database   DatabaseConfig
	Qdrant     QdrantConfig
	Gemini     GeminiConfig
	Storage    StorageConfig
	Pipeline   PipelineConfig
	Skills     SkillsConfig
	Classifier ClassifierConfig
	Cache      CacheConfig
	SMTP       SMTPConfig
	Notifier   NotifierConfig
	Events     EventsConfig
	Reports    ReportsConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type GeminiConfig struct {
	APIKey     string
	EmbedModel string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

// PipelineConfig toggles the optional stages of a scan batch.
type PipelineConfig struct {
	ClearOnNewBatch   bool
	NotifyOnHighMatch bool
	NotifyThreshold   float64
}

type SkillsConfig struct {
	File string
}

type ClassifierConfig struct {
	ModelPath string
}

type CacheConfig struct {
	RedisAddr string
	TTL       time.Duration
	// Capacity bounds the in-process cache used when RedisAddr is empty.
	Capacity  int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type NotifierConfig struct {
	Concurrency       int
	QueueSize         int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
}

type EventsConfig struct {
	RabbitMQURL string
	Exchange    string
	RoutingKey  string
}

type ReportsConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func Load() *Config {
	// .env is optional; the process environment always wins.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_scanner"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_candidates"),
			VectorSize: uint64(getEnvAsInt("QDRANT_VECTOR_SIZE", 768)),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Pipeline: PipelineConfig{
			ClearOnNewBatch:   getEnvAsBool("PIPELINE_CLEAR_ON_NEW_BATCH", true),
			NotifyOnHighMatch: getEnvAsBool("PIPELINE_NOTIFY_ON_HIGH_MATCH", false),
			NotifyThreshold:   getEnvAsFloat("PIPELINE_NOTIFY_THRESHOLD", 70),
		},
		Skills: SkillsConfig{
			File: getEnv("SKILLS_FILE", ""),
		},
		Classifier: ClassifierConfig{
			ModelPath: getEnv("ROLE_MODEL_PATH", "./models/role_model.json"),
		},
		Cache: CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       getEnvAsDuration("EMBEDDING_CACHE_TTL", "24h"),
			Capacity:  getEnvAsInt("EMBEDDING_CACHE_CAPACITY", 10000),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		Notifier: NotifierConfig{
			Concurrency:       getEnvAsInt("NOTIFIER_CONCURRENCY", 2),
			QueueSize:         getEnvAsInt("NOTIFIER_QUEUE_SIZE", 100),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
			RetryMaxDelay:     getEnvAsDuration("RETRY_MAX_DELAY", "30s"),
		},
		Events: EventsConfig{
			RabbitMQURL: getEnv("RABBITMQ_URL", ""),
			Exchange:    getEnv("EVENTS_EXCHANGE", "candidate_events"),
			RoutingKey:  getEnv("EVENTS_ROUTING_KEY", "candidate.scored"),
		},
		Reports: ReportsConfig{
			Bucket:    getEnv("REPORTS_BUCKET", ""),
			Region:    getEnv("REPORTS_REGION", "us-east-1"),
			Endpoint:  getEnv("REPORTS_ENDPOINT", ""),
			AccessKey: getEnv("REPORTS_ACCESS_KEY", ""),
			SecretKey: getEnv("REPORTS_SECRET_KEY", ""),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
