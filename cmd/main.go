package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/mini-maxit/runner/internal/config"
	"github.com/mini-maxit/runner/internal/docker"
	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/internal/pipeline"
	"github.com/mini-maxit/runner/internal/rabbitmq"
	"github.com/mini-maxit/runner/internal/rabbitmq/consumer"
	"github.com/mini-maxit/runner/internal/rabbitmq/responder"
	"github.com/mini-maxit/runner/internal/repository"
	"github.com/mini-maxit/runner/internal/scheduler"
	"github.com/mini-maxit/runner/internal/server"
	"github.com/mini-maxit/runner/internal/stages/executor"
	"github.com/mini-maxit/runner/internal/stages/packager"
	"github.com/mini-maxit/runner/internal/stages/verifier"
	"github.com/mini-maxit/runner/internal/storage"
	"github.com/mini-maxit/runner/pkg/constants"
	"github.com/mini-maxit/runner/pkg/languages"
)

func main() {
	logger := logger.NewNamedLogger("main")
	defer loggerSync()

	logger.Info("Starting runner")

	cfg := config.NewConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dCli, err := docker.NewDockerClient()
	if err != nil {
		logger.Fatalf("Failed to initialize Docker client: %s", err)
	}
	warmUpImages(ctx, logger, dCli)

	store := newTestCaseStore(ctx, logger, cfg)

	recorder := newRecorder(logger, cfg)
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Errorf("Failed to close recorder: %s", err)
		}
	}()

	judge := pipeline.NewJudge(
		store,
		packager.NewPackager(cfg.ExchangeDir),
		executor.NewExecutor(dCli, executor.Config{
			ExchangeDir:     cfg.ExchangeDir,
			ExchangeHostDir: cfg.ExchangeHostDir,
			MemoryLimitMB:   cfg.MemoryLimitMB,
			PidsLimit:       cfg.PidsLimit,
			MaxOutputBytes:  cfg.MaxOutputBytes,
		}),
		verifier.NewVerifier(),
		recorder,
		cfg.ExecutionTimeout,
	)

	if cfg.RabbitMQEnabled {
		conn := startQueueConsumer(logger, cfg, judge)
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Errorf("Failed to close RabbitMQ connection: %s", err)
			}
		}()
	}

	srv := server.NewHTTPServer(cfg, server.NewServer(judge, store, cfg.MaxSourceBytes).Router(cfg.AdminAPIEnabled))
	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %s", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeoutSec*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown failed: %s", err)
	}
}

func loggerSync() {
	logger.Sync()
}

// warmUpImages builds missing runtime images up front so the first submission does not pay for it.
func warmUpImages(ctx context.Context, logger *zap.SugaredLogger, dCli docker.DockerClient) {
	ctx, cancel := context.WithTimeout(ctx, constants.WarmupTimeoutSec*time.Second)
	defer cancel()

	for _, lt := range languages.GetSupportedLanguages() {
		image, err := lt.GetDockerImage()
		if err != nil {
			logger.Fatalf("No runtime image for %s: %s", lt, err)
		}
		dockerfile, err := lt.GetDockerfile()
		if err != nil {
			logger.Fatalf("No Dockerfile for %s: %s", lt, err)
		}
		if err := dCli.EnsureImage(ctx, image, dockerfile); err != nil {
			logger.Warnf("Failed to prepare image %s, it will be retried on first use: %s", image, err)
			continue
		}
		logger.Infof("Runtime image %s is ready", image)
	}
}

func newTestCaseStore(ctx context.Context, logger *zap.SugaredLogger, cfg *config.Config) storage.TestCaseStore {
	if cfg.TestCaseStore == constants.TestCaseStoreFile {
		logger.Infof("Reading test cases from %s", cfg.TestCasesDir)
		return storage.NewFileStore(cfg.TestCasesDir)
	}

	client, err := storage.NewMinioClient(cfg.Minio)
	if err != nil {
		logger.Fatalf("Failed to initialize MinIO client: %s", err)
	}
	if err := client.EnsureBucket(ctx, cfg.Minio.Bucket); err != nil {
		logger.Fatalf("Failed to prepare bucket %s: %s", cfg.Minio.Bucket, err)
	}

	cache := storage.NewFileCache(cfg.CacheDir)
	if err := cache.InitCache(); err != nil {
		logger.Fatalf("Failed to initialize test case cache: %s", err)
	}
	if err := cache.CleanExpiredCache(); err != nil {
		logger.Warnf("Failed to clean expired cache entries: %s", err)
	}

	logger.Infof("Reading test cases from bucket %s at %s", cfg.Minio.Bucket, cfg.Minio.Endpoint)
	return storage.NewObjectStore(client, cfg.Minio.Bucket, cache, "")
}

func newRecorder(logger *zap.SugaredLogger, cfg *config.Config) repository.Recorder {
	if cfg.MySQLDSN == "" {
		return repository.NewNoopRecorder()
	}

	db, err := repository.Connect(cfg.MySQLDSN, false)
	if err != nil {
		logger.Fatalf("Failed to connect to MySQL: %s", err)
	}
	return repository.NewRecorder(db)
}

// startQueueConsumer runs the queue transport next to the HTTP one. Consuming and publishing use
// separate channels.
func startQueueConsumer(logger *zap.SugaredLogger, cfg *config.Config, judge pipeline.Judge) *amqp.Connection {
	conn := rabbitmq.NewRabbitMqConnection(cfg)
	consumeChannel := rabbitmq.NewRabbitMQChannel(conn)
	publishChannel := rabbitmq.NewRabbitMQChannel(conn)

	resp := responder.NewResponder(publishChannel, cfg.PublishChanSize)
	sched := scheduler.NewScheduler(cfg.MaxWorkers, judge, resp)
	cons := consumer.NewConsumer(consumeChannel, cfg.ConsumeQueueName, cfg.ResponseQueueName, sched, resp)

	go func() {
		defer resp.Close()
		if err := cons.Listen(); err != nil {
			logger.Errorf("Queue consumer stopped: %s", err)
		}
	}()

	return conn
}
