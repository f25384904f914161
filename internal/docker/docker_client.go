package docker

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	"go.uber.org/zap"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/pkg/constants"
	"github.com/mini-maxit/runner/utils"
)

type DockerClient interface {
	// EnsureImage makes sure imageName exists locally, building it from dockerfile when it does not.
	// Concurrent callers for the same image wait for a single build.
	EnsureImage(ctx context.Context, imageName, dockerfile string) error
	CreateContainer(
		ctx context.Context,
		containerCfg *container.Config,
		hostCfg *container.HostConfig,
		name string,
	) (string, error)
	StartContainer(ctx context.Context, containerID string) error
	WaitContainer(ctx context.Context, containerID string) (int64, error)
	ContainerKill(ctx context.Context, containerID, signal string) error
	// ContainerLogs demultiplexes the container's stdout and stderr into the given writers.
	ContainerLogs(ctx context.Context, containerID string, stdout, stderr io.Writer) error
	ContainerRemove(ctx context.Context, containerID string) error
}

type dockerClient struct {
	cli    *client.Client
	logger *zap.SugaredLogger

	mu     sync.Mutex
	ready  map[string]bool
	builds map[string]*sync.Mutex
}

func NewDockerClient() (DockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	return &dockerClient{
		cli:    cli,
		logger: logger.NewNamedLogger("docker"),
		ready:  make(map[string]bool),
		builds: make(map[string]*sync.Mutex),
	}, nil
}

func (d *dockerClient) imageLock(imageName string) (*sync.Mutex, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ready[imageName] {
		return nil, true
	}
	lock, ok := d.builds[imageName]
	if !ok {
		lock = &sync.Mutex{}
		d.builds[imageName] = lock
	}
	return lock, false
}

func (d *dockerClient) markReady(imageName string) {
	d.mu.Lock()
	d.ready[imageName] = true
	d.mu.Unlock()
}

// forgetImage makes the next EnsureImage inspect, and if needed rebuild, imageName again.
func (d *dockerClient) forgetImage(imageName string) {
	d.mu.Lock()
	delete(d.ready, imageName)
	d.mu.Unlock()
}

func (d *dockerClient) EnsureImage(ctx context.Context, imageName, dockerfile string) error {
	lock, ready := d.imageLock(imageName)
	if ready {
		return nil
	}

	lock.Lock()
	defer lock.Unlock()

	// Another caller may have finished the build while we waited.
	if _, ready := d.imageLock(imageName); ready {
		return nil
	}

	_, err := d.cli.ImageInspect(ctx, imageName)
	if err == nil {
		d.markReady(imageName)
		return nil
	}
	if !client.IsErrNotFound(err) {
		return err
	}

	d.logger.Infof("Image %s not found, building it", imageName)
	start := time.Now()
	if err := d.buildImage(ctx, imageName, dockerfile); err != nil {
		return fmt.Errorf("failed to build image %s: %w", imageName, err)
	}
	d.logger.Infof("Image %s built in %s", imageName, time.Since(start))

	d.markReady(imageName)
	return nil
}

func (d *dockerClient) buildImage(ctx context.Context, imageName, dockerfile string) error {
	buildCtx, err := utils.CreateTarArchiveFromFiles(map[string][]byte{
		"Dockerfile": []byte(dockerfile),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ImageBuildTimeoutSec*time.Second)
	defer cancel()

	resp, err := d.cli.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:        []string{imageName},
		Dockerfile:  "Dockerfile",
		Remove:      true,
		ForceRemove: true,
		PullParent:  true,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The stream reports build failures as error messages, not as a failed request.
	return jsonmessage.DisplayJSONMessagesStream(resp.Body, io.Discard, 0, false, nil)
}

func (d *dockerClient) CreateContainer(
	ctx context.Context,
	containerCfg *container.Config,
	hostCfg *container.HostConfig,
	name string,
) (string, error) {
	resp, err := d.cli.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, name)
	if err != nil {
		if client.IsErrNotFound(err) && containerCfg != nil {
			d.logger.Warnf("Image %s disappeared, it will be rebuilt on next use", containerCfg.Image)
			d.forgetImage(containerCfg.Image)
		}
		return "", err
	}
	for _, w := range resp.Warnings {
		d.logger.Warnf("Container %s: %s", name, w)
	}
	return resp.ID, nil
}

func (d *dockerClient) StartContainer(ctx context.Context, containerID string) error {
	return d.cli.ContainerStart(ctx, containerID, container.StartOptions{})
}

func (d *dockerClient) WaitContainer(ctx context.Context, containerID string) (int64, error) {
	statusCh, errCh := d.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return -1, err
	case status := <-statusCh:
		if status.Error != nil && status.Error.Message != "" {
			return status.StatusCode, fmt.Errorf("wait: %s", status.Error.Message)
		}
		return status.StatusCode, nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

func (d *dockerClient) ContainerKill(ctx context.Context, containerID, signal string) error {
	return d.cli.ContainerKill(ctx, containerID, signal)
}

func (d *dockerClient) ContainerLogs(ctx context.Context, containerID string, stdout, stderr io.Writer) error {
	reader, err := d.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return err
	}
	defer reader.Close()

	_, err = stdcopy.StdCopy(stdout, stderr, reader)
	return err
}

func (d *dockerClient) ContainerRemove(ctx context.Context, containerID string) error {
	return d.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	})
}
