package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/pkg/constants"
	customErr "github.com/mini-maxit/runner/pkg/errors"
)

// Recorder persists the outcome of fully passing runs.
type Recorder interface {
	// RecordSolved inserts a Solved row for the user and problem with the submitted code.
	// Failures wrap ErrPersistenceWrite.
	RecordSolved(ctx context.Context, userID, problemID int64, code string) error
	Close() error
}

type gormRecorder struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NormalizeDSN parses a go-sql-driver DSN and applies the connection settings the runner needs.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Timeout == 0 {
		cfg.Timeout = constants.PersistenceTimeoutSec * time.Second
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}

// Connect opens a pooled gorm connection. With dryRun set no connection is made and statements
// are only built, which tests use to inspect the generated SQL.
func Connect(dsn string, dryRun bool) (*gorm.DB, error) {
	normalized, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       normalized,
		SkipInitializeWithVersion: dryRun,
	}), &gorm.Config{
		DryRun:               dryRun,
		DisableAutomaticPing: dryRun,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(constants.DefaultMySQLMaxOpenConn)
	sqlDB.SetMaxIdleConns(constants.DefaultMySQLMaxIdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func NewRecorder(db *gorm.DB) Recorder {
	return &gormRecorder{
		db:     db,
		logger: logger.NewNamedLogger("recorder"),
	}
}

func (r *gormRecorder) RecordSolved(ctx context.Context, userID, problemID int64, code string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.PersistenceTimeoutSec*time.Second)
	defer cancel()

	row := NewSolvedStatus(userID, problemID, code)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: user %d problem %d: %w", customErr.ErrPersistenceWrite, userID, problemID, err)
	}

	r.logger.Infof("Recorded solved status for user %d problem %d", userID, problemID)
	return nil
}

func (r *gormRecorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewSolvedStatus builds the row inserted for a fully passing run.
func NewSolvedStatus(userID, problemID int64, code string) UserProblemStatus {
	return UserProblemStatus{
		UserID:    userID,
		ProblemID: problemID,
		Status:    constants.SolvedStatus,
		Code:      code,
	}
}

type noopRecorder struct {
	logger *zap.SugaredLogger
}

// NewNoopRecorder is used when no database is configured. Solved runs are only logged.
func NewNoopRecorder() Recorder {
	return &noopRecorder{logger: logger.NewNamedLogger("recorder")}
}

func (n *noopRecorder) RecordSolved(_ context.Context, userID, problemID int64, _ string) error {
	n.logger.Infof("No database configured, not recording solved status for user %d problem %d", userID, problemID)
	return nil
}

func (n *noopRecorder) Close() error { return nil }
