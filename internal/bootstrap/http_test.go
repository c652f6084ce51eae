package bootstrap

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHTTPServer_RequiresConfig(t *testing.T) {
	_, err := BuildHTTPServer(HTTPServerConfig{})
	assert.ErrorContains(t, err, "config is required")
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	cfg := demoConfig()
	svcs, err := NewServices(context.Background(), ServiceDeps{Config: cfg, Logger: quietLogger()})
	require.NoError(t, err)

	srv, err := BuildHTTPServer(HTTPServerConfig{Config: cfg, Services: svcs, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, ":8080", srv.Addr)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, RunConfig{Server: srv, Listener: ln, ShutdownTimeout: time.Second, Logger: quietLogger()})
	}()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet,
		"http://"+ln.Addr().String()+"/healthz", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_ReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	srv := &http.Server{Addr: ln.Addr().String(), ReadHeaderTimeout: time.Second}
	err = Run(context.Background(), RunConfig{Server: srv, Logger: quietLogger()})
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}

func TestRun_RequiresServer(t *testing.T) {
	assert.Error(t, Run(context.Background(), RunConfig{}))
}
