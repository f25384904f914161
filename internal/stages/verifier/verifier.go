package verifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mini-maxit/runner/internal/stages/executor"
	"github.com/mini-maxit/runner/pkg/constants"
	customErr "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/messages"
	"github.com/mini-maxit/runner/pkg/solution"
)

type Verifier interface {
	// Evaluate reports whether the observed output matches the expected value after trimming
	// leading and trailing whitespace on both. No other normalization is applied.
	Evaluate(output, expected string) bool
	// EvaluateTestCase turns one execution attempt into a result. execErr is the error returned
	// by the sandbox, if any; a failed attempt always yields a failing result.
	EvaluateTestCase(
		order int,
		tc messages.TestCase,
		captured *executor.CapturedOutput,
		execErr error,
	) solution.TestResult
	Aggregate(results []solution.TestResult) solution.Verdict
}

type verifier struct{}

func NewVerifier() Verifier {
	return &verifier{}
}

func (v *verifier) Evaluate(output, expected string) bool {
	return strings.TrimSpace(output) == strings.TrimSpace(expected)
}

func (v *verifier) EvaluateTestCase(
	order int,
	tc messages.TestCase,
	captured *executor.CapturedOutput,
	execErr error,
) solution.TestResult {
	result := solution.TestResult{
		Order:    order,
		Input:    tc.Input,
		Expected: CanonicalExpected(tc.Expected),
		ExitCode: -1,
	}
	if captured != nil {
		result.ExecutionTimeMs = captured.Duration.Milliseconds()
	}

	if execErr != nil {
		result.Passed = false
		switch {
		case errors.Is(execErr, customErr.ErrContainerTimeout):
			result.Status = solution.TimeLimitExceeded
			result.Output = fmt.Sprintf(constants.TestCaseMessageTimeOut, result.ExecutionTimeMs)
		case errors.Is(execErr, customErr.ErrContainerLaunch):
			result.Status = solution.InternalError
			result.Output = fmt.Sprintf(constants.TestCaseMessageLaunchFailure, execErr)
		default:
			result.Status = solution.InternalError
			result.Output = fmt.Sprintf(constants.TestCaseMessageInternalError, execErr)
		}
		return result
	}

	if captured == nil {
		result.Status = solution.InternalError
		result.Output = fmt.Sprintf(constants.TestCaseMessageInternalError, "no output captured")
		return result
	}

	observed := captured.Observed()
	result.Output = strings.TrimSpace(observed)
	result.ExitCode = captured.ExitCode
	result.Passed = v.Evaluate(observed, result.Expected)

	switch {
	case result.Passed:
		result.Status = solution.TestCasePassed
	case captured.ExitCode != constants.ExitCodeSuccess:
		result.Status = solution.RuntimeError
		// SIGKILL inside the container leaves nothing on either stream.
		if captured.ExitCode == constants.ExitCodeOOMKill && result.Output == "" {
			result.Output = fmt.Sprintf(constants.TestCaseMessageKilled, captured.ExitCode)
		}
	default:
		result.Status = solution.WrongAnswer
	}
	return result
}

// Aggregate is the conjunction of every result. Callers must not aggregate an empty list.
func (v *verifier) Aggregate(results []solution.TestResult) solution.Verdict {
	allPassed := len(results) > 0
	for _, r := range results {
		if !r.Passed {
			allPassed = false
			break
		}
	}
	return solution.Verdict{
		AllPassed: allPassed,
		Results:   results,
	}
}

// CanonicalExpected returns the text an expected value is compared as: a JSON string by its
// content, anything else by its compact JSON text. A missing value compares as empty.
func CanonicalExpected(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
