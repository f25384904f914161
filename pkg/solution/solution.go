package solution

import "encoding/json"

// TestCaseStatus explains why a test case passed or failed. It is informational only:
// Passed is decided by output comparison alone.
type TestCaseStatus string

const (
	// The trimmed output matched the expected value.
	TestCasePassed TestCaseStatus = "passed"
	// The program exited normally but printed something else.
	WrongAnswer TestCaseStatus = "wrong_answer"
	// The program exited with a non-zero code, usually with a traceback on stderr.
	RuntimeError TestCaseStatus = "runtime_error"
	// The sandbox killed the program after the wall-clock deadline.
	TimeLimitExceeded TestCaseStatus = "time_limit_exceeded"
	// The sandbox could not run the program at all.
	InternalError TestCaseStatus = "internal_error"
)

type TestResult struct {
	Order           int             `json:"order"`
	Input           json.RawMessage `json:"input"`
	Expected        string          `json:"expected"`
	Output          string          `json:"output"`
	Passed          bool            `json:"passed"`
	Status          TestCaseStatus  `json:"status"`
	ExitCode        int             `json:"exitCode"`
	ExecutionTimeMs int64           `json:"executionTimeMs"`
}

// Verdict is the terminal artifact of one submission run. Results keep the order of the
// stored test cases.
type Verdict struct {
	AllPassed bool         `json:"allPassed"`
	Results   []TestResult `json:"results"`
}
