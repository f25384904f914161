package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"go.uber.org/zap"

	"github.com/mini-maxit/runner/internal/docker"
	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/internal/stages/packager"
	"github.com/mini-maxit/runner/pkg/constants"
	customErr "github.com/mini-maxit/runner/pkg/errors"
)

var containerNameRegex = regexp.MustCompile("[^a-zA-Z0-9_.-]")

type Config struct {
	// ExchangeDir is where units are created, as seen by this process.
	ExchangeDir string
	// ExchangeHostDir is the same directory as seen by the docker daemon. Empty means identical.
	ExchangeHostDir string
	MemoryLimitMB   int64
	PidsLimit       int64
	MaxOutputBytes  int64
}

// CapturedOutput is what one sandboxed run produced. Stdout and Stderr are capped at the
// configured limit; the Truncated flags report when bytes were dropped.
type CapturedOutput struct {
	Stdout          string
	Stderr          string
	ExitCode        int
	Duration        time.Duration
	StdoutTruncated bool
	StderrTruncated bool
}

// Observed is the text a run is judged by: stderr when the program wrote any, stdout otherwise.
func (c *CapturedOutput) Observed() string {
	if c.Stderr != "" {
		return c.Stderr
	}
	return c.Stdout
}

type Executor interface {
	// Execute runs the unit's source in a fresh container and returns its captured output.
	// A non-zero exit code is not an error. Exceeding timeout kills the container and returns
	// ErrContainerTimeout; failures to get the program running wrap ErrContainerLaunch.
	// The container is removed on every path.
	Execute(ctx context.Context, unit *packager.ExecutionUnit, timeout time.Duration) (*CapturedOutput, error)
}

type executor struct {
	logger *zap.SugaredLogger
	docker docker.DockerClient
	cfg    Config
}

func NewExecutor(dCli docker.DockerClient, cfg Config) Executor {
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = constants.DefaultMaxOutputBytes
	}
	if cfg.MemoryLimitMB <= 0 {
		cfg.MemoryLimitMB = constants.DefaultMemoryLimitMB
	}
	if cfg.PidsLimit <= 0 {
		cfg.PidsLimit = constants.DefaultPidsLimit
	}
	return &executor{
		logger: logger.NewNamedLogger("executor"),
		docker: dCli,
		cfg:    cfg,
	}
}

func (e *executor) Execute(
	ctx context.Context,
	unit *packager.ExecutionUnit,
	timeout time.Duration,
) (*CapturedOutput, error) {
	dockerImage, err := unit.Language.GetDockerImage()
	if err != nil {
		return nil, err
	}
	dockerfile, err := unit.Language.GetDockerfile()
	if err != nil {
		return nil, err
	}
	runCmd, err := unit.Language.GetRunCommand()
	if err != nil {
		return nil, err
	}

	if err := e.docker.EnsureImage(ctx, dockerImage, dockerfile); err != nil {
		e.logger.Errorf("[UnitID: %s] Failed to ensure image %s: %s", unit.ID, dockerImage, err)
		return nil, fmt.Errorf("%w: %w", customErr.ErrContainerLaunch, err)
	}

	mountSource, err := e.mountSource(unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", customErr.ErrContainerLaunch, err)
	}

	containerCfg := buildContainerConfig(dockerImage, runCmd)
	hostCfg := buildHostConfig(mountSource, e.cfg)

	containerID, err := e.docker.CreateContainer(ctx, containerCfg, hostCfg, SanitizeContainerName(unit.ID))
	if err != nil {
		e.logger.Errorf("[UnitID: %s] Failed to create container: %s", unit.ID, err)
		return nil, fmt.Errorf("%w: %w", customErr.ErrContainerLaunch, err)
	}

	// The request context may already be cancelled here, cleanup gets its own.
	defer func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), constants.CleanupTimeoutSec*time.Second)
		defer cleanupCancel()
		if err := e.docker.ContainerRemove(cleanupCtx, containerID); err != nil {
			e.logger.Warnf("[UnitID: %s] Failed to remove container %s: %s", unit.ID, containerID, err)
		}
	}()

	start := time.Now()
	if err := e.docker.StartContainer(ctx, containerID); err != nil {
		e.logger.Errorf("[UnitID: %s] Failed to start container: %s", unit.ID, err)
		return nil, fmt.Errorf("%w: %w", customErr.ErrContainerLaunch, err)
	}

	exitCode, err := e.waitForContainer(ctx, unit.ID, containerID, timeout)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, customErr.ErrContainerTimeout) {
			return &CapturedOutput{ExitCode: -1, Duration: elapsed}, err
		}
		return nil, err
	}

	stdout := newCappedBuffer(e.cfg.MaxOutputBytes)
	stderr := newCappedBuffer(e.cfg.MaxOutputBytes)
	logsCtx, logsCancel := context.WithTimeout(context.Background(), constants.CleanupTimeoutSec*time.Second)
	defer logsCancel()
	if err := e.docker.ContainerLogs(logsCtx, containerID, stdout, stderr); err != nil {
		e.logger.Errorf("[UnitID: %s] Failed to read container output: %s", unit.ID, err)
		return nil, fmt.Errorf("%w: reading output: %w", customErr.ErrContainerLaunch, err)
	}

	e.logger.Debugf("[UnitID: %s] Container exited with code %d after %s", unit.ID, exitCode, elapsed)

	return &CapturedOutput{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		ExitCode:        int(exitCode),
		Duration:        elapsed,
		StdoutTruncated: stdout.truncated,
		StderrTruncated: stderr.truncated,
	}, nil
}

// waitForContainer enforces the wall-clock limit on the host side. On expiry the container
// is killed with SIGKILL.
func (e *executor) waitForContainer(
	ctx context.Context,
	unitID string,
	containerID string,
	timeout time.Duration,
) (int64, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	exitCode, err := e.docker.WaitContainer(waitCtx, containerID)
	if err == nil {
		return exitCode, nil
	}

	timedOut := errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil

	killCtx, killCancel := context.WithTimeout(context.Background(), constants.CleanupTimeoutSec*time.Second)
	defer killCancel()
	if killErr := e.docker.ContainerKill(killCtx, containerID, "SIGKILL"); killErr != nil {
		e.logger.Warnf("[UnitID: %s] Failed to kill container %s: %s", unitID, containerID, killErr)
	}

	if timedOut {
		e.logger.Infof("[UnitID: %s] Container exceeded %s and was killed", unitID, timeout)
		return -1, fmt.Errorf("%w after %d ms", customErr.ErrContainerTimeout, timeout.Milliseconds())
	}
	e.logger.Errorf("[UnitID: %s] Failed waiting for container: %s", unitID, err)
	return -1, fmt.Errorf("%w: %w", customErr.ErrContainerLaunch, err)
}

// mountSource translates the unit directory into the path the docker daemon can bind.
func (e *executor) mountSource(unit *packager.ExecutionUnit) (string, error) {
	if e.cfg.ExchangeHostDir == "" {
		return filepath.Abs(unit.Dir)
	}
	rel, err := filepath.Rel(e.cfg.ExchangeDir, unit.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(e.cfg.ExchangeHostDir, rel), nil
}

func SanitizeContainerName(raw string) string {
	cleaned := containerNameRegex.ReplaceAllString(raw, "-")
	if cleaned == "" {
		cleaned = "untitled"
	}
	return constants.ContainerNamePrefix + cleaned
}

func buildContainerConfig(dockerImage string, runCmd []string) *container.Config {
	stopTimeout := constants.ContainerStopTimeout

	return &container.Config{
		Image:           dockerImage,
		Cmd:             runCmd,
		WorkingDir:      constants.SandboxDirPath,
		Env:             []string{"HOME=/tmp", "PYTHONDONTWRITEBYTECODE=1"},
		User:            strconv.Itoa(constants.RunnerUID) + ":" + strconv.Itoa(constants.RunnerGID),
		NetworkDisabled: true,
		StopTimeout:     &stopTimeout,
		StopSignal:      "SIGKILL",
	}
}

func buildHostConfig(mountSource string, cfg Config) *container.HostConfig {
	memoryBytes := cfg.MemoryLimitMB * 1024 * 1024
	pidsLimit := cfg.PidsLimit

	return &container.HostConfig{
		AutoRemove:     false,
		NetworkMode:    container.NetworkMode("none"),
		ReadonlyRootfs: true,
		Mounts: []mount.Mount{{
			Type:     mount.TypeBind,
			Source:   mountSource,
			Target:   constants.SandboxDirPath,
			ReadOnly: true,
		}},
		Tmpfs: map[string]string{
			"/tmp": constants.SandboxTmpfsOptions,
		},
		Resources: container.Resources{
			Memory:     memoryBytes,
			MemorySwap: memoryBytes,
			PidsLimit:  &pidsLimit,
			CPUPeriod:  100_000,
			CPUQuota:   100_000,
		},
		SecurityOpt:  []string{"no-new-privileges"},
		CgroupnsMode: container.CgroupnsModePrivate,
		IpcMode:      container.IpcMode("private"),
		CapDrop:      []string{"ALL"},
	}
}

// cappedBuffer keeps the first limit bytes and silently drops the rest, so a chatty program
// cannot exhaust memory and the log stream is still drained.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func newCappedBuffer(limit int64) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	remaining := c.limit - int64(c.buf.Len())
	if remaining <= 0 {
		if len(p) > 0 {
			c.truncated = true
		}
		return len(p), nil
	}
	if int64(len(p)) > remaining {
		c.buf.Write(p[:remaining])
		c.truncated = true
		return len(p), nil
	}
	c.buf.Write(p)
	return len(p), nil
}

func (c *cappedBuffer) String() string {
	return c.buf.String()
}
