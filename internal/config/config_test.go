package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PIPELINE_CLEAR_ON_NEW_BATCH", "")
	t.Setenv("PIPELINE_NOTIFY_THRESHOLD", "")
	t.Setenv("EMBEDDING_CACHE_CAPACITY", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.True(t, cfg.Pipeline.ClearOnNewBatch)
	assert.Equal(t, 70.0, cfg.Pipeline.NotifyThreshold)
	assert.Equal(t, "candidate.scored", cfg.Events.RoutingKey)
	assert.Equal(t, 10000, cfg.Cache.Capacity)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PIPELINE_CLEAR_ON_NEW_BATCH", "false")
	t.Setenv("PIPELINE_NOTIFY_ON_HIGH_MATCH", "true")
	t.Setenv("PIPELINE_NOTIFY_THRESHOLD", "82.5")
	t.Setenv("EMBEDDING_CACHE_TTL", "90m")
	t.Setenv("EMBEDDING_CACHE_CAPACITY", "256")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()

	assert.False(t, cfg.Pipeline.ClearOnNewBatch)
	assert.True(t, cfg.Pipeline.NotifyOnHighMatch)
	assert.Equal(t, 82.5, cfg.Pipeline.NotifyThreshold)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 256, cfg.Cache.Capacity)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "n"}}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", cfg.GetDatabaseDSN())
}
