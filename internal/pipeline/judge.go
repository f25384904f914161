package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/internal/repository"
	"github.com/mini-maxit/runner/internal/stages/executor"
	"github.com/mini-maxit/runner/internal/stages/packager"
	"github.com/mini-maxit/runner/internal/stages/verifier"
	"github.com/mini-maxit/runner/internal/storage"
	"github.com/mini-maxit/runner/pkg/constants"
	customErr "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/languages"
	"github.com/mini-maxit/runner/pkg/messages"
	"github.com/mini-maxit/runner/pkg/solution"
	"go.uber.org/zap"
)

// Judge runs one submission against every stored test case of its problem.
type Judge interface {
	// RunSubmission returns a verdict with exactly one result per stored test case, in stored
	// order. Errors are returned only when the submission cannot be judged at all: unsupported
	// language, missing problem, a problem without runnable tests or a failing store. A failure
	// while running a single test case is recorded in that test case's result instead.
	RunSubmission(ctx context.Context, sub messages.Submission) (*solution.Verdict, error)
}

type judge struct {
	store    storage.TestCaseStore
	packager packager.Packager
	executor executor.Executor
	verifier verifier.Verifier
	recorder repository.Recorder
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

func NewJudge(
	store storage.TestCaseStore,
	packager packager.Packager,
	executor executor.Executor,
	verifier verifier.Verifier,
	recorder repository.Recorder,
	timeout time.Duration,
) Judge {
	if timeout <= 0 {
		timeout = constants.DefaultExecutionTimeoutMs * time.Millisecond
	}
	return &judge{
		store:    store,
		packager: packager,
		executor: executor,
		verifier: verifier,
		recorder: recorder,
		timeout:  timeout,
		logger:   logger.NewNamedLogger("judge"),
	}
}

func (j *judge) RunSubmission(ctx context.Context, sub messages.Submission) (*solution.Verdict, error) {
	j.logger.Infof("Validating submission [Problem: %s, Language: %s]", sub.Problem, sub.Language)

	langType, err := languages.ParseLanguageType(sub.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, sub.Language)
	}
	if sub.Problem == "" {
		return nil, customErr.ErrMissingProblem
	}

	j.logger.Infof("Loading test cases [Problem: %s]", sub.Problem)
	problemSet, err := j.store.LoadTestCases(ctx, sub.Problem)
	if err != nil {
		if errors.Is(err, customErr.ErrTestCasesNotFound) {
			return nil, fmt.Errorf("%w: %w", customErr.ErrProblemNotRunnable, err)
		}
		return nil, err
	}
	if len(problemSet.Tests) == 0 {
		return nil, fmt.Errorf("%w: %s", customErr.ErrProblemNotRunnable, sub.Problem)
	}

	results := make([]solution.TestResult, 0, len(problemSet.Tests))
	for i, tc := range problemSet.Tests {
		j.logger.Infof("Running test case %d/%d [Problem: %s]", i+1, len(problemSet.Tests), sub.Problem)
		results = append(results, j.runTestCase(ctx, langType, problemSet.EntryPoint, sub.Code, i+1, tc))
	}

	j.logger.Infof("Aggregating %d results [Problem: %s]", len(results), sub.Problem)
	verdict := j.verifier.Aggregate(results)

	if verdict.AllPassed && sub.UserID != 0 && sub.ProblemID != 0 {
		j.logger.Infof("Persisting solved status [User: %d, ProblemID: %d]", sub.UserID, sub.ProblemID)
		if err := j.recorder.RecordSolved(ctx, sub.UserID, sub.ProblemID, sub.Code); err != nil {
			j.logger.Errorf("Failed to persist solved status: %s", err)
		}
	}

	j.logger.Infof("Done [Problem: %s, AllPassed: %t]", sub.Problem, verdict.AllPassed)
	return &verdict, nil
}

// runTestCase never fails: every outcome, including a unit that could not be prepared,
// becomes exactly one result. order is 1-based.
func (j *judge) runTestCase(
	ctx context.Context,
	langType languages.LanguageType,
	entryPoint string,
	code string,
	order int,
	tc messages.TestCase,
) solution.TestResult {
	unit, err := j.packager.PrepareUnit(langType, entryPoint, code, tc.Input)
	if err != nil {
		j.logger.Errorf("Failed to prepare test case %d: %s", order, err)
		return j.verifier.EvaluateTestCase(order, tc, nil, err)
	}
	defer func() {
		if err := unit.Release(); err != nil {
			j.logger.Errorf("[UnitID: %s] Failed to release unit: %s", unit.ID, err)
		}
	}()

	captured, execErr := j.executor.Execute(ctx, unit, j.timeout)
	if execErr != nil {
		j.logger.Warnf("[UnitID: %s] Execution failed: %s", unit.ID, execErr)
	}
	return j.verifier.EvaluateTestCase(order, tc, captured, execErr)
}
