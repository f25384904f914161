package docker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/mini-maxit/runner/internal/logger"
)

// newFakeDaemonClient points a real docker client at an in-process fake of the engine API.
func newFakeDaemonClient(t *testing.T, handler http.HandlerFunc) *dockerClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cli, err := client.NewClientWithOpts(
		client.WithHost("tcp://"+strings.TrimPrefix(srv.URL, "http://")),
		client.WithVersion("1.47"),
	)
	if err != nil {
		t.Fatalf("failed to create docker client: %v", err)
	}
	t.Cleanup(func() { _ = cli.Close() })

	return &dockerClient{
		cli:    cli,
		logger: logger.NewNamedLogger("docker"),
		ready:  make(map[string]bool),
		builds: make(map[string]*sync.Mutex),
	}
}

func TestEnsureImage_RecheckedAfterImageDisappears(t *testing.T) {
	var inspects atomic.Int32
	d := newFakeDaemonClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/images/") && strings.HasSuffix(r.URL.Path, "/json"):
			inspects.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Id":"sha256:abc"}`))
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/containers/create"):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"No such image: mini-maxit/runner-python:3.12"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()
	image := "mini-maxit/runner-python:3.12"

	if err := d.EnsureImage(ctx, image, "FROM python:3.12-alpine"); err != nil {
		t.Fatalf("EnsureImage failed: %v", err)
	}
	if err := d.EnsureImage(ctx, image, "FROM python:3.12-alpine"); err != nil {
		t.Fatalf("EnsureImage failed: %v", err)
	}
	if got := inspects.Load(); got != 1 {
		t.Fatalf("expected a ready image to be inspected once, got %d inspections", got)
	}

	_, err := d.CreateContainer(ctx, &container.Config{Image: image}, &container.HostConfig{}, "sandbox-test")
	if !client.IsErrNotFound(err) {
		t.Fatalf("expected a not found error, got %v", err)
	}

	if err := d.EnsureImage(ctx, image, "FROM python:3.12-alpine"); err != nil {
		t.Fatalf("EnsureImage failed: %v", err)
	}
	if got := inspects.Load(); got != 2 {
		t.Fatalf("expected the image to be inspected again after it disappeared, got %d inspections", got)
	}
}
