package executor_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	exec "github.com/mini-maxit/runner/internal/stages/executor"
	"github.com/mini-maxit/runner/internal/stages/packager"
	"github.com/mini-maxit/runner/pkg/constants"
	pkgerrors "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/languages"
	mocks "github.com/mini-maxit/runner/tests/mocks"
	"go.uber.org/mock/gomock"
)

func makeUnit(t *testing.T, exchangeDir string) *packager.ExecutionUnit {
	t.Helper()
	p := packager.NewPackager(exchangeDir)
	unit, err := p.PrepareUnit(languages.PYTHON, "f", "def f():\n    return 1", nil)
	if err != nil {
		t.Fatalf("failed to prepare unit: %v", err)
	}
	t.Cleanup(func() { _ = unit.Release() })
	return unit
}

func writeLogs(stdout, stderr string) func(context.Context, string, io.Writer, io.Writer) error {
	return func(_ context.Context, _ string, out, errW io.Writer) error {
		if _, err := io.WriteString(out, stdout); err != nil {
			return err
		}
		_, err := io.WriteString(errW, stderr)
		return err
	}
}

func TestSanitizeContainerName(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"abc123", "sandbox-abc123"},
		{"A.B-C_D", "sandbox-A.B-C_D"},
		{"1700000000-7f1c2a4e-aaaa", "sandbox-1700000000-7f1c2a4e-aaaa"},
		{"", "sandbox-untitled"},
		{"bad name!", "sandbox-bad-name-"},
		{"..weird..name..", "sandbox-..weird..name.."},
	}

	for _, c := range cases {
		got := exec.SanitizeContainerName(c.in)
		if got != c.out {
			t.Fatalf("SanitizeContainerName(%q) = %q, want %q", c.in, got, c.out)
		}
	}
}

func TestExecute_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchangeDir := t.TempDir()
	unit := makeUnit(t, exchangeDir)
	mockDocker := mocks.NewMockDockerClient(ctrl)

	var capturedHost *container.HostConfig
	var capturedCfg *container.Config

	gomock.InOrder(
		mockDocker.EXPECT().EnsureImage(gomock.Any(), "mini-maxit/runner-python:3.12", gomock.Any()).Return(nil),
		mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), exec.SanitizeContainerName(unit.ID)).
			DoAndReturn(func(_ context.Context, cfg *container.Config, host *container.HostConfig, _ string) (string, error) {
				capturedCfg = cfg
				capturedHost = host
				return "cid123", nil
			}),
		mockDocker.EXPECT().StartContainer(gomock.Any(), "cid123").Return(nil),
		mockDocker.EXPECT().WaitContainer(gomock.Any(), "cid123").Return(int64(0), nil),
		mockDocker.EXPECT().ContainerLogs(gomock.Any(), "cid123", gomock.Any(), gomock.Any()).
			DoAndReturn(writeLogs("5\n", "")),
		mockDocker.EXPECT().ContainerRemove(gomock.Any(), "cid123").Return(nil),
	)

	ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir})
	out, err := ex.Execute(context.Background(), unit, time.Second)
	if err != nil {
		t.Fatalf("expected nil error, got: %v", err)
	}
	if out.Stdout != "5\n" || out.Stderr != "" || out.ExitCode != 0 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Observed() != "5\n" {
		t.Fatalf("expected observed stdout, got %q", out.Observed())
	}

	if strings.Join(capturedCfg.Cmd, " ") != "python3 -I -B /sandbox/main.py" {
		t.Fatalf("unexpected command %v", capturedCfg.Cmd)
	}
	if capturedCfg.User != "1000:1000" || !capturedCfg.NetworkDisabled {
		t.Fatalf("unexpected container config %+v", capturedCfg)
	}
	if !capturedHost.ReadonlyRootfs || capturedHost.NetworkMode != "none" {
		t.Fatalf("expected read-only rootfs without network")
	}
	if len(capturedHost.CapDrop) != 1 || capturedHost.CapDrop[0] != "ALL" {
		t.Fatalf("expected all capabilities dropped, got %v", capturedHost.CapDrop)
	}
	if capturedHost.Memory != constants.DefaultMemoryLimitMB*1024*1024 || capturedHost.MemorySwap != capturedHost.Memory {
		t.Fatalf("unexpected memory limits %d/%d", capturedHost.Memory, capturedHost.MemorySwap)
	}
	if capturedHost.PidsLimit == nil || *capturedHost.PidsLimit != constants.DefaultPidsLimit {
		t.Fatalf("unexpected pids limit")
	}
	if len(capturedHost.Mounts) != 1 {
		t.Fatalf("expected a single mount, got %d", len(capturedHost.Mounts))
	}
	m := capturedHost.Mounts[0]
	if m.Type != mount.TypeBind || !m.ReadOnly || m.Target != constants.SandboxDirPath || m.Source != unit.Dir {
		t.Fatalf("unexpected mount %+v", m)
	}
}

func TestExecute_StderrIsObservedAndExitCodeKept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchangeDir := t.TempDir()
	unit := makeUnit(t, exchangeDir)
	mockDocker := mocks.NewMockDockerClient(ctrl)

	mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("cid", nil)
	mockDocker.EXPECT().StartContainer(gomock.Any(), "cid").Return(nil)
	mockDocker.EXPECT().WaitContainer(gomock.Any(), "cid").Return(int64(1), nil)
	mockDocker.EXPECT().ContainerLogs(gomock.Any(), "cid", gomock.Any(), gomock.Any()).
		DoAndReturn(writeLogs("partial\n", "Traceback: ZeroDivisionError\n"))
	mockDocker.EXPECT().ContainerRemove(gomock.Any(), "cid").Return(nil)

	ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir})
	out, err := ex.Execute(context.Background(), unit, time.Second)
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", err)
	}
	if out.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", out.ExitCode)
	}
	if out.Observed() != "Traceback: ZeroDivisionError\n" {
		t.Fatalf("expected stderr to be observed, got %q", out.Observed())
	}
}

func TestExecute_TimeoutKillsContainer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchangeDir := t.TempDir()
	unit := makeUnit(t, exchangeDir)
	mockDocker := mocks.NewMockDockerClient(ctrl)

	gomock.InOrder(
		mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("cid", nil),
		mockDocker.EXPECT().StartContainer(gomock.Any(), "cid").Return(nil),
		mockDocker.EXPECT().WaitContainer(gomock.Any(), "cid").
			DoAndReturn(func(ctx context.Context, _ string) (int64, error) {
				<-ctx.Done()
				return -1, ctx.Err()
			}),
		mockDocker.EXPECT().ContainerKill(gomock.Any(), "cid", "SIGKILL").Return(nil),
		mockDocker.EXPECT().ContainerRemove(gomock.Any(), "cid").Return(nil),
	)

	ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir})
	out, err := ex.Execute(context.Background(), unit, 20*time.Millisecond)
	if !errors.Is(err, pkgerrors.ErrContainerTimeout) {
		t.Fatalf("expected ErrContainerTimeout, got %v", err)
	}
	if out == nil || out.ExitCode != -1 {
		t.Fatalf("expected timeout output with exit code -1, got %+v", out)
	}
}

func TestExecute_CancelledContextIsNotTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchangeDir := t.TempDir()
	unit := makeUnit(t, exchangeDir)
	mockDocker := mocks.NewMockDockerClient(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("cid", nil)
	mockDocker.EXPECT().StartContainer(gomock.Any(), "cid").Return(nil)
	mockDocker.EXPECT().WaitContainer(gomock.Any(), "cid").
		DoAndReturn(func(waitCtx context.Context, _ string) (int64, error) {
			cancel()
			<-waitCtx.Done()
			return -1, waitCtx.Err()
		})
	mockDocker.EXPECT().ContainerKill(gomock.Any(), "cid", "SIGKILL").Return(nil)
	mockDocker.EXPECT().ContainerRemove(gomock.Any(), "cid").Return(nil)

	ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir})
	_, err := ex.Execute(ctx, unit, time.Minute)
	if errors.Is(err, pkgerrors.ErrContainerTimeout) {
		t.Fatalf("cancellation must not be reported as a timeout")
	}
	if !errors.Is(err, pkgerrors.ErrContainerLaunch) {
		t.Fatalf("expected ErrContainerLaunch, got %v", err)
	}
}

func TestExecute_LaunchFailures(t *testing.T) {
	boom := errors.New("daemon unavailable")

	t.Run("image build fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		exchangeDir := t.TempDir()
		unit := makeUnit(t, exchangeDir)
		mockDocker := mocks.NewMockDockerClient(ctrl)

		mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)

		ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir})
		_, err := ex.Execute(context.Background(), unit, time.Second)
		if !errors.Is(err, pkgerrors.ErrContainerLaunch) || !errors.Is(err, boom) {
			t.Fatalf("expected wrapped launch error, got %v", err)
		}
	})

	t.Run("create fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		exchangeDir := t.TempDir()
		unit := makeUnit(t, exchangeDir)
		mockDocker := mocks.NewMockDockerClient(ctrl)

		mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)

		ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir})
		_, err := ex.Execute(context.Background(), unit, time.Second)
		if !errors.Is(err, pkgerrors.ErrContainerLaunch) {
			t.Fatalf("expected ErrContainerLaunch, got %v", err)
		}
	})

	t.Run("start fails still removes container", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		exchangeDir := t.TempDir()
		unit := makeUnit(t, exchangeDir)
		mockDocker := mocks.NewMockDockerClient(ctrl)

		mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("cid", nil)
		mockDocker.EXPECT().StartContainer(gomock.Any(), "cid").Return(boom)
		mockDocker.EXPECT().ContainerRemove(gomock.Any(), "cid").Return(nil).Times(1)

		ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir})
		_, err := ex.Execute(context.Background(), unit, time.Second)
		if !errors.Is(err, pkgerrors.ErrContainerLaunch) {
			t.Fatalf("expected ErrContainerLaunch, got %v", err)
		}
	})

	t.Run("logs fail still removes container", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		exchangeDir := t.TempDir()
		unit := makeUnit(t, exchangeDir)
		mockDocker := mocks.NewMockDockerClient(ctrl)

		mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("cid", nil)
		mockDocker.EXPECT().StartContainer(gomock.Any(), "cid").Return(nil)
		mockDocker.EXPECT().WaitContainer(gomock.Any(), "cid").Return(int64(0), nil)
		mockDocker.EXPECT().ContainerLogs(gomock.Any(), "cid", gomock.Any(), gomock.Any()).Return(boom)
		mockDocker.EXPECT().ContainerRemove(gomock.Any(), "cid").Return(nil).Times(1)

		ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir})
		_, err := ex.Execute(context.Background(), unit, time.Second)
		if !errors.Is(err, pkgerrors.ErrContainerLaunch) {
			t.Fatalf("expected ErrContainerLaunch, got %v", err)
		}
	})
}

func TestExecute_OutputIsCapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchangeDir := t.TempDir()
	unit := makeUnit(t, exchangeDir)
	mockDocker := mocks.NewMockDockerClient(ctrl)

	mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("cid", nil)
	mockDocker.EXPECT().StartContainer(gomock.Any(), "cid").Return(nil)
	mockDocker.EXPECT().WaitContainer(gomock.Any(), "cid").Return(int64(0), nil)
	mockDocker.EXPECT().ContainerLogs(gomock.Any(), "cid", gomock.Any(), gomock.Any()).
		DoAndReturn(writeLogs(strings.Repeat("x", 100), "")).Times(1)
	mockDocker.EXPECT().ContainerRemove(gomock.Any(), "cid").Return(nil)

	ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir, MaxOutputBytes: 10})
	out, err := ex.Execute(context.Background(), unit, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Stdout) != 10 || !out.StdoutTruncated {
		t.Fatalf("expected 10 byte truncated stdout, got %d bytes truncated=%v", len(out.Stdout), out.StdoutTruncated)
	}
}

func TestExecute_HostDirTranslation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchangeDir := t.TempDir()
	unit := makeUnit(t, exchangeDir)
	mockDocker := mocks.NewMockDockerClient(ctrl)

	hostDir := "/srv/runner-exchange"
	var source string

	mockDocker.EXPECT().EnsureImage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mockDocker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *container.Config, host *container.HostConfig, _ string) (string, error) {
			source = host.Mounts[0].Source
			return "", errors.New("stop here")
		})

	ex := exec.NewExecutor(mockDocker, exec.Config{ExchangeDir: exchangeDir, ExchangeHostDir: hostDir})
	_, _ = ex.Execute(context.Background(), unit, time.Second)

	if source != filepath.Join(hostDir, unit.ID) {
		t.Fatalf("expected mount source under host dir, got %q", source)
	}
	// the unit itself is released by its owner, not by the executor
	if _, err := os.Stat(unit.Dir); err != nil {
		t.Fatalf("executor must not remove the unit dir: %v", err)
	}
}
