package constants

import "encoding/json"

// Queue message types.
const (
	QueueMessageTypeTask      = "task"
	QueueMessageTypeHandshake = "handshake"
	QueueMessageTypeStatus    = "status"
)

// TestCaseResult messages.
const (
	TestCaseMessageTimeOut       = "Solution timed out after %d ms"
	TestCaseMessageLaunchFailure = "Sandbox failed to run the solution: %s"
	TestCaseMessageInternalError = "Internal error while preparing the solution: %s"
	TestCaseMessageKilled        = "Solution was killed with exit code %d, most likely for exceeding the memory limit"
)

// Worker specific constants.
type WorkerStatus int

const (
	WorkerStatusIdle WorkerStatus = iota
	WorkerStatusBusy
)

func (ws WorkerStatus) String() string {
	switch ws {
	case WorkerStatusIdle:
		return "idle"
	case WorkerStatusBusy:
		return "busy"
	default:
		return "unknown"
	}
}

func (ws WorkerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(ws.String())
}

func (ws *WorkerStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "idle":
		*ws = WorkerStatusIdle
	case "busy":
		*ws = WorkerStatusBusy
	default:
		*ws = WorkerStatus(-1)
	}
	return nil
}

// Exit codes.
const (
	ExitCodeSuccess  = 0
	ExitCodeOOMKill  = 137
)

// Configuration constants.
const (
	DefaultHTTPAddr                = ":8080"
	DefaultRabbitmqHost            = "localhost"
	DefaultRabbitmqUser            = "guest"
	DefaultRabbitmqPassword        = "guest"
	DefaultRabbitmqPort            = "5672"
	DefaultWorkerQueueName         = "runner_queue"
	DefaultResponseQueueName       = "runner_response_queue"
	DefaultRabbitmqPublishChanSize = 100
	DefaultMaxWorkers              = 10
	DefaultTestCaseStore           = "file"
	DefaultTestCasesDir            = "./testcases"
	DefaultMinioEndpoint           = "localhost:9000"
	DefaultMinioBucket             = "testcases"
	DefaultExchangeDir             = "/tmp/runner-exchange"
	DefaultExecutionTimeoutMs      = 10_000
	DefaultMemoryLimitMB           = 256
	DefaultPidsLimit               = 64
	DefaultMaxOutputBytes          = 64 * 1024
	DefaultMaxSourceBytes          = 256 * 1024
	RuntimeImagePrefix             = "mini-maxit/runner"
)

// Test case store backends.
const (
	TestCaseStoreFile  = "file"
	TestCaseStoreMinio = "minio"
)

// Sandbox layout and container settings.
const (
	SandboxDirPath       = "/sandbox"
	SandboxTmpfsOptions  = "rw,noexec,nosuid,size=16m,mode=1777"
	RunnerUID            = 1000
	RunnerGID            = 1000
	ContainerNamePrefix  = "sandbox-"
	ContainerStopTimeout = 1
	ImageBuildTimeoutSec = 600
	CleanupTimeoutSec    = 10
	ShutdownTimeoutSec   = 15
	WarmupTimeoutSec     = 900
)

// Test case file layout.
const (
	TestCaseFileExt = ".json"
	TmpFilePattern  = ".tmp-*"
)

// Cache configuration.
const (
	CacheDirPath      = "/tmp/runner-cache"
	CacheTTLHours     = 24
	CacheMaxEntries   = 1000
	CacheMetadataFile = ".cache_meta.json"
)

// Persistence constants.
const (
	SolvedStatus            = "Solved"
	PersistenceTimeoutSec   = 5
	DefaultMySQLMaxOpenConn = 10
	DefaultMySQLMaxIdleConn = 2
)

// RabbitMQ specific constants.
const (
	RabbitMQReconnectTries  = 10
	RabbitMQMaxPriority     = 3
	RabbitMQRequeuePriority = 2
)
