package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mini-maxit/runner/internal/logger"
	customErrors "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/messages"
	"github.com/mini-maxit/runner/utils"
)

const jsonContentType = "application/json"

type objectStore struct {
	logger  *zap.SugaredLogger
	client  ObjectClient
	bucket  string
	cache   FileCache
	tmpPath string
}

// NewObjectStore keeps one <problem>.json object per problem in bucket. Downloads are cached
// locally and revalidated against the object's ETag on every load.
func NewObjectStore(client ObjectClient, bucket string, cache FileCache, tmpPath string) TestCaseStore {
	if tmpPath == "" {
		tmpPath = os.TempDir()
	}
	return &objectStore{
		logger:  logger.NewNamedLogger("objectStore"),
		client:  client,
		bucket:  bucket,
		cache:   cache,
		tmpPath: tmpPath,
	}
}

func (s *objectStore) notFound(problem string, err error) error {
	if errors.Is(err, customErrors.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s", customErrors.ErrTestCasesNotFound, problem)
	}
	return err
}

func (s *objectStore) ReadTestCases(ctx context.Context, problem string) ([]byte, error) {
	if err := ValidateProblemName(problem); err != nil {
		return nil, err
	}
	key := objectKey(problem)

	etag, err := s.client.StatObject(ctx, s.bucket, key)
	if err != nil {
		return nil, s.notFound(problem, err)
	}

	if entry, ok := s.cache.GetCachedFile(s.bucket, key); ok && entry.ETag == etag {
		data, err := os.ReadFile(entry.FilePath)
		if err == nil {
			return data, nil
		}
		s.logger.Warnf("Failed to read cached test cases for %s: %s", problem, err)
	}

	tmpFile := filepath.Join(s.tmpPath, "runner-"+uuid.NewString()+".json")
	defer func() {
		_ = utils.RemoveIO(tmpFile, false, true)
	}()

	s.logger.Infof("Downloading test cases %s/%s", s.bucket, key)
	if err := s.client.DownloadObject(ctx, s.bucket, key, tmpFile); err != nil {
		return nil, s.notFound(problem, err)
	}

	data, err := os.ReadFile(tmpFile)
	if err != nil {
		return nil, err
	}

	if err := s.cache.CacheFile(s.bucket, key, etag, tmpFile); err != nil {
		s.logger.Warnf("Failed to cache test cases for %s: %s", problem, err)
	}
	return data, nil
}

func (s *objectStore) LoadTestCases(ctx context.Context, problem string) (*messages.ProblemSet, error) {
	data, err := s.ReadTestCases(ctx, problem)
	if err != nil {
		return nil, err
	}
	return DecodeProblemSet(problem, data)
}

func (s *objectStore) SaveTestCases(ctx context.Context, problem string, raw []byte) error {
	if err := ValidateProblemName(problem); err != nil {
		return err
	}
	if _, err := DecodeProblemSet(problem, raw); err != nil {
		return err
	}

	key := objectKey(problem)
	if err := s.client.PutObject(ctx, s.bucket, key, raw, jsonContentType); err != nil {
		s.logger.Errorf("Failed to save test cases for %s: %s", problem, err)
		return err
	}
	s.cache.Invalidate(s.bucket, key)

	s.logger.Infof("Saved test cases for %s", problem)
	return nil
}

// CreateTestCases is check-then-put; two concurrent creates of the same problem both write
// the same empty definition.
func (s *objectStore) CreateTestCases(ctx context.Context, problem, name string) (bool, error) {
	if err := ValidateProblemName(problem); err != nil {
		return false, err
	}
	if name == "" {
		name = problem
	}

	key := objectKey(problem)
	_, err := s.client.StatObject(ctx, s.bucket, key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, customErrors.ErrObjectNotFound) {
		return false, err
	}

	data, err := defaultProblemSet(name)
	if err != nil {
		return false, err
	}
	if err := s.client.PutObject(ctx, s.bucket, key, data, jsonContentType); err != nil {
		return false, err
	}

	s.logger.Infof("Created empty test case object for %s", problem)
	return true, nil
}

func (s *objectStore) ListProblems(ctx context.Context) ([]string, error) {
	keys, err := s.client.ListObjectKeys(ctx, s.bucket)
	if err != nil {
		return nil, err
	}

	problems := make([]string, 0, len(keys))
	for _, key := range keys {
		if problem, ok := problemFromKey(key); ok {
			problems = append(problems, problem)
		}
	}
	sort.Strings(problems)
	return problems, nil
}
