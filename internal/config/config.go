package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration for the document worker.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"document-service"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Queue    Queue
	Download Download
	Asset    Asset
}

// Postgres captures connection info for the task archive database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds stream broker configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Queue names the task and result streams and tunes consumption.
type Queue struct {
	TaskStream    string        `env:"QUEUE_TASK_STREAM" envDefault:"document.convert"`
	ResultStream  string        `env:"QUEUE_RESULT_STREAM" envDefault:"document.convert.result"`
	ConsumerGroup string        `env:"QUEUE_CONSUMER_GROUP" envDefault:"document-service"`
	ConsumerName  string        `env:"QUEUE_CONSUMER_NAME"`
	BlockTimeout  time.Duration `env:"QUEUE_BLOCK_SECONDS" envDefault:"5s"`
	MaxRetries    int64         `env:"QUEUE_MAX_RETRIES" envDefault:"3"`
	ClaimMinIdle  time.Duration `env:"QUEUE_CLAIM_MIN_IDLE" envDefault:"30s"`
}

// Download bounds document fetching.
type Download struct {
	Timeout     time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"5m"`
	MaxFileSize int64         `env:"DOWNLOAD_MAX_FILE_SIZE" envDefault:"52428800"`
	TempDir     string        `env:"DOWNLOAD_TEMP_DIR" envDefault:"/tmp/question-hub-documents"`
}

// Asset points at the asset service that stores question images.
type Asset struct {
	ServiceURL  string        `env:"ASSET_SERVICE_URL"`
	AppID       string        `env:"ASSET_APP_ID"`
	HTTPTimeout time.Duration `env:"ASSET_HTTP_TIMEOUT" envDefault:"30s"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
