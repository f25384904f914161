package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/mini-maxit/runner/internal/logger"
	customErrors "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/messages"
	"github.com/mini-maxit/runner/utils"
)

type fileStore struct {
	logger *zap.SugaredLogger
	dir    string
}

// NewFileStore keeps one <problem>.json file per problem in dir.
func NewFileStore(dir string) TestCaseStore {
	return &fileStore{
		logger: logger.NewNamedLogger("fileStore"),
		dir:    dir,
	}
}

func (fs *fileStore) path(problem string) string {
	return filepath.Join(fs.dir, objectKey(problem))
}

func (fs *fileStore) ReadTestCases(_ context.Context, problem string) ([]byte, error) {
	if err := ValidateProblemName(problem); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fs.path(problem))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", customErrors.ErrTestCasesNotFound, problem)
		}
		fs.logger.Errorf("Failed to read test cases for %s: %s", problem, err)
		return nil, err
	}
	return data, nil
}

func (fs *fileStore) LoadTestCases(ctx context.Context, problem string) (*messages.ProblemSet, error) {
	data, err := fs.ReadTestCases(ctx, problem)
	if err != nil {
		return nil, err
	}
	return DecodeProblemSet(problem, data)
}

func (fs *fileStore) SaveTestCases(_ context.Context, problem string, raw []byte) error {
	if err := ValidateProblemName(problem); err != nil {
		return err
	}
	if _, err := DecodeProblemSet(problem, raw); err != nil {
		return err
	}

	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create test case directory: %w", err)
	}
	if err := utils.WriteFileAtomic(fs.path(problem), raw, 0o644); err != nil {
		fs.logger.Errorf("Failed to save test cases for %s: %s", problem, err)
		return err
	}

	fs.logger.Infof("Saved test cases for %s", problem)
	return nil
}

func (fs *fileStore) CreateTestCases(_ context.Context, problem, name string) (bool, error) {
	if err := ValidateProblemName(problem); err != nil {
		return false, err
	}
	if name == "" {
		name = problem
	}

	data, err := defaultProblemSet(name)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create test case directory: %w", err)
	}

	f, err := os.OpenFile(fs.path(problem), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		_ = utils.RemoveIO(fs.path(problem), false, true)
		return false, err
	}

	fs.logger.Infof("Created empty test case file for %s", problem)
	return true, nil
}

func (fs *fileStore) ListProblems(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	problems := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if problem, ok := problemFromKey(e.Name()); ok {
			problems = append(problems, problem)
		}
	}
	sort.Strings(problems)
	return problems, nil
}
