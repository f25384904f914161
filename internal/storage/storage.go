package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mini-maxit/runner/pkg/constants"
	customErrors "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/messages"
	"github.com/mini-maxit/runner/utils"
)

// TestCaseStore resolves problem keys to stored test case definitions.
type TestCaseStore interface {
	// LoadTestCases returns the definition of problem. A missing definition is reported with an
	// error wrapping ErrTestCasesNotFound; any other error means the store itself failed.
	LoadTestCases(ctx context.Context, problem string) (*messages.ProblemSet, error)
	// SaveTestCases validates and stores raw as the definition of problem, replacing any existing one.
	SaveTestCases(ctx context.Context, problem string, raw []byte) error
	// ReadTestCases returns the stored definition of problem exactly as written.
	ReadTestCases(ctx context.Context, problem string) ([]byte, error)
	// CreateTestCases stores an empty definition for problem unless one already exists.
	CreateTestCases(ctx context.Context, problem, name string) (bool, error)
	ListProblems(ctx context.Context) ([]string, error)
}

// ValidateProblemName rejects keys that could not be a stored file name or an entry point.
func ValidateProblemName(problem string) error {
	if problem == "" {
		return customErrors.ErrMissingProblem
	}
	if err := utils.ValidateIdentifier(problem); err != nil {
		return fmt.Errorf("%w: %s", customErrors.ErrInvalidProblemName, err)
	}
	return nil
}

// DecodeProblemSet parses a stored definition. An empty entry point defaults to the problem key.
func DecodeProblemSet(problem string, data []byte) (*messages.ProblemSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var set messages.ProblemSet
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", customErrors.ErrInvalidTestCases, problem, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: trailing data", customErrors.ErrInvalidTestCases, problem)
	}

	if set.EntryPoint == "" {
		set.EntryPoint = problem
	}
	if err := utils.ValidateIdentifier(set.EntryPoint); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", customErrors.ErrInvalidEntryPoint, problem, err)
	}
	for i, tc := range set.Tests {
		if len(bytes.TrimSpace(tc.Expected)) == 0 {
			return nil, fmt.Errorf("%w: %s: test %d has no expected value", customErrors.ErrInvalidTestCases, problem, i+1)
		}
		if len(tc.Input) > 0 && !json.Valid(tc.Input) {
			return nil, fmt.Errorf("%w: %s: test %d has invalid input", customErrors.ErrInvalidTestCases, problem, i+1)
		}
	}
	if set.Tests == nil {
		set.Tests = []messages.TestCase{}
	}
	return &set, nil
}

// defaultProblemSet is what a newly created problem starts with.
func defaultProblemSet(name string) ([]byte, error) {
	return json.MarshalIndent(struct {
		Name  string              `json:"name"`
		Tests []messages.TestCase `json:"tests"`
	}{Name: name, Tests: []messages.TestCase{}}, "", "  ")
}

func objectKey(problem string) string {
	return problem + constants.TestCaseFileExt
}

func problemFromKey(key string) (string, bool) {
	if !strings.HasSuffix(key, constants.TestCaseFileExt) {
		return "", false
	}
	problem := strings.TrimSuffix(key, constants.TestCaseFileExt)
	if utils.ValidateIdentifier(problem) != nil {
		return "", false
	}
	return problem, true
}
