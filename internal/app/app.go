// Package app bootstraps the document worker: configuration, logging,
// Postgres, Redis, the conversion pipeline and the stream consumer.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/questionhub/document-service/internal/asset"
	"github.com/questionhub/document-service/internal/config"
	"github.com/questionhub/document-service/internal/db/repository"
	"github.com/questionhub/document-service/internal/extract"
	"github.com/questionhub/document-service/internal/fetch"
	"github.com/questionhub/document-service/internal/logging"
	"github.com/questionhub/document-service/internal/queue"
	"github.com/questionhub/document-service/internal/server"
	"github.com/questionhub/document-service/internal/task"
)

// Application aggregates shared infrastructure (DB, broker, HTTP server)
// and the stream consumer.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool     *pgxpool.Pool
	redis    *redis.Client
	http     *http.Server
	consumer *queue.Consumer
}

// New bootstraps config, logger, Postgres, Redis, the pipeline and the
// consumer.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	taskRepo := repository.NewTaskRepository(pool)

	downloader, err := fetch.NewDownloader(fetch.Options{
		TempDir:     cfg.Download.TempDir,
		MaxFileSize: cfg.Download.MaxFileSize,
		Timeout:     cfg.Download.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init downloader: %w", err)
	}

	var uploader task.ImageUploader
	if cfg.Asset.ServiceURL != "" {
		uploader = asset.NewUploader(cfg.Asset.ServiceURL, cfg.Asset.AppID,
			&http.Client{Timeout: cfg.Asset.HTTPTimeout}, logger)
	} else {
		logger.Warn().Msg("asset service not configured; image references stay local")
	}

	engine := extract.NewEngine(logger)
	pipeline := task.NewPipeline(downloader, engine, uploader, taskRepo, logger)
	producer := queue.NewProducer(redisClient, cfg.Queue.ResultStream, logger)

	consumer := queue.NewConsumer(redisClient, pipeline, producer, queue.ConsumerOptions{
		TaskStream:    cfg.Queue.TaskStream,
		Group:         cfg.Queue.ConsumerGroup,
		Consumer:      cfg.Queue.ConsumerName,
		Block:         cfg.Queue.BlockTimeout,
		MaxDeliveries: cfg.Queue.MaxRetries,
		ClaimMinIdle:  cfg.Queue.ClaimMinIdle,
	}, logger)

	httpServer := server.NewHTTPServer(cfg, logger, pool, redisClient)

	return &Application{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		http:     httpServer,
		consumer: consumer,
	}, nil
}

// Run starts the consumer and the HTTP server and waits for termination
// signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	go func() {
		if err := a.consumer.Run(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = err
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}
