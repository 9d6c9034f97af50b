package config_test

import (
	"testing"
	"time"

	"taskboard/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("PERSIST_TIMEOUT", "")

	cfg := config.Load()

	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10*time.Second, cfg.PersistTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "tasks")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("PERSIST_TIMEOUT", "1500ms")

	cfg := config.Load()

	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 1500*time.Millisecond, cfg.PersistTimeout)
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=tasks sslmode=disable", cfg.DSN())
	assert.Equal(t, "pgx5://u:p@db:5433/tasks?sslmode=disable", cfg.MigrationURL())
}
