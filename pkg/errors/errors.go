package errors

import "errors"

// Submission validation errors. These abort a run before any sandbox is touched.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrMissingProblem      = errors.New("missing problem name")
	ErrInvalidProblemName  = errors.New("invalid problem name")
	ErrProblemNotRunnable  = errors.New("problem has no test cases")
	ErrInvalidEntryPoint   = errors.New("invalid entry point name")
)

// Test case store errors.
var (
	ErrTestCasesNotFound = errors.New("test cases not found")
	ErrInvalidTestCases  = errors.New("invalid test case definition")
	ErrObjectNotFound    = errors.New("object not found")
)

// Sandbox errors. A single test case failing with one of these is recorded as a failed result.
var (
	ErrContainerTimeout = errors.New("container runtime timed out")
	ErrContainerLaunch  = errors.New("container failed to launch")
	ErrContainerFailed  = errors.New("container failed to execute")
	ErrUnitReleased     = errors.New("execution unit already released")
)

// Persistence errors. Logged only, never returned to the caller of a run.
var (
	ErrPersistenceWrite = errors.New("failed to record solved status")
)

// Worker and transport errors.
var (
	ErrFailedToGetFreeWorker = errors.New("failed to get free worker")
	ErrUnknownMessageType    = errors.New("unknown message type")
	ErrResponderClosed       = errors.New("responder is closed")
)
