package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/pkg/constants"
	"go.uber.org/zap"
)

type Config struct {
	HTTPAddr        string
	AdminAPIEnabled bool

	TestCaseStore string
	TestCasesDir  string
	CacheDir      string
	Minio         MinioConfig

	ExchangeDir      string
	ExchangeHostDir  string
	ExecutionTimeout time.Duration
	MemoryLimitMB    int64
	PidsLimit        int64
	MaxOutputBytes   int64
	MaxSourceBytes   int64

	MySQLDSN string

	RabbitMQEnabled   bool
	RabbitMQURL       string
	PublishChanSize   int
	ConsumeQueueName  string
	ResponseQueueName string
	MaxWorkers        int
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

func NewConfig() *Config {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("failed to stat .env file with error: %v", err)
		}
	} else {
		if os.Getenv("ENV") == "PROD" {
			logger.Warn(".env file detected in production environment. This is not recommended.")
		}
		err = godotenv.Load(".env")
		if err != nil {
			logger.Fatalf("failed to load .env file with error: %v", err)
		}
	}

	cfg := &Config{
		HTTPAddr:        envString(logger, "HTTP_ADDR", constants.DefaultHTTPAddr),
		AdminAPIEnabled: envBool(logger, "ADMIN_API_ENABLED", false),
		MySQLDSN:        os.Getenv("MYSQL_DSN"),
	}
	storeConfig(logger, cfg)
	sandboxConfig(logger, cfg)
	rabbitmqConfig(logger, cfg)

	if cfg.MySQLDSN == "" {
		logger.Warn("MYSQL_DSN is not set, solved statuses will not be recorded")
	}

	return cfg
}

func storeConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.TestCaseStore = envString(logger, "TESTCASE_STORE", constants.DefaultTestCaseStore)
	switch cfg.TestCaseStore {
	case constants.TestCaseStoreFile:
		cfg.TestCasesDir = envString(logger, "TESTCASES_DIR", constants.DefaultTestCasesDir)
	case constants.TestCaseStoreMinio:
		cfg.CacheDir = envString(logger, "CACHE_DIR", constants.CacheDirPath)
		cfg.Minio = MinioConfig{
			Endpoint:  envString(logger, "MINIO_ENDPOINT", constants.DefaultMinioEndpoint),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    envBool(logger, "MINIO_USE_SSL", false),
			Bucket:    envString(logger, "MINIO_BUCKET", constants.DefaultMinioBucket),
		}
	default:
		logger.Fatalf("unknown TESTCASE_STORE %q, expected %q or %q",
			cfg.TestCaseStore, constants.TestCaseStoreFile, constants.TestCaseStoreMinio)
	}
}

func sandboxConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.ExchangeDir = envString(logger, "EXCHANGE_DIR", constants.DefaultExchangeDir)
	// Only needed when the runner itself runs in a container and the daemon sees a different path.
	cfg.ExchangeHostDir = os.Getenv("EXCHANGE_HOST_DIR")

	timeoutMs := envInt(logger, "EXECUTION_TIMEOUT_MS", constants.DefaultExecutionTimeoutMs)
	if timeoutMs <= 0 {
		logger.Fatalf("EXECUTION_TIMEOUT_MS must be positive, got %d", timeoutMs)
	}
	cfg.ExecutionTimeout = time.Duration(timeoutMs) * time.Millisecond
	cfg.MemoryLimitMB = envInt(logger, "MEMORY_LIMIT_MB", constants.DefaultMemoryLimitMB)
	cfg.PidsLimit = envInt(logger, "PIDS_LIMIT", constants.DefaultPidsLimit)
	cfg.MaxOutputBytes = envInt(logger, "MAX_OUTPUT_BYTES", constants.DefaultMaxOutputBytes)
	cfg.MaxSourceBytes = envInt(logger, "MAX_SOURCE_BYTES", constants.DefaultMaxSourceBytes)
}

func rabbitmqConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.RabbitMQEnabled = envBool(logger, "RABBITMQ_ENABLED", false)
	if !cfg.RabbitMQEnabled {
		return
	}

	rabbitmqHost := envString(logger, "RABBITMQ_HOST", constants.DefaultRabbitmqHost)
	rabbitmqPortStr := envString(logger, "RABBITMQ_PORT", constants.DefaultRabbitmqPort)
	rabbitmqPort, err := strconv.ParseUint(rabbitmqPortStr, 10, 16)
	if err != nil {
		logger.Fatalf("failed to parse RABBITMQ_PORT with error: %v", err)
	}
	rabbitmqUser := envString(logger, "RABBITMQ_USER", constants.DefaultRabbitmqUser)
	rabbitmqPassword := envString(logger, "RABBITMQ_PASSWORD", constants.DefaultRabbitmqPassword)

	cfg.RabbitMQURL = fmt.Sprintf("amqp://%s:%s@%s:%d/", rabbitmqUser, rabbitmqPassword, rabbitmqHost, rabbitmqPort)
	cfg.PublishChanSize = int(envInt(logger, "RABBITMQ_PUBLISH_CHAN_SIZE", constants.DefaultRabbitmqPublishChanSize))
	cfg.ConsumeQueueName = envString(logger, "WORKER_QUEUE_NAME", constants.DefaultWorkerQueueName)
	cfg.ResponseQueueName = envString(logger, "RESPONSE_QUEUE_NAME", constants.DefaultResponseQueueName)

	maxWorkers := envInt(logger, "MAX_WORKERS", constants.DefaultMaxWorkers)
	if maxWorkers <= 0 || maxWorkers > 255 {
		logger.Fatalf("MAX_WORKERS must be between 1 and 255, got %d", maxWorkers)
	}
	cfg.MaxWorkers = int(maxWorkers)
}

func envString(logger *zap.SugaredLogger, key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		logger.Warnf("%s is not set, using default value %s", key, def)
		return def
	}
	return v
}

func envInt(logger *zap.SugaredLogger, key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		logger.Warnf("%s is not set, using default value %d", key, def)
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return n
}

func envBool(logger *zap.SugaredLogger, key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return b
}
