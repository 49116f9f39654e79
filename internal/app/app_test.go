package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	v1 "kb_backend/internal/v1"
	"kb_backend/platform/config"
	"kb_backend/platform/httpclient"
	"kb_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingClient struct {
	closes   atomic.Int32
	timeout  time.Duration
	closeErr error
}

func (c *countingClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("not used")
}

func (c *countingClient) Close() error {
	c.closes.Add(1)
	return c.closeErr
}

func loadTestConfig(t *testing.T, environ ...string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(append([]string{"HTTP_CLIENT_TIMEOUT=3", "SHUTDOWN_TIMEOUT=2"}, environ...), nil)
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, client *countingClient, environ ...string) *Application {
	t.Helper()
	return newTestAppWithConfig(client, loadTestConfig(t, environ...))
}

func newTestAppWithConfig(client *countingClient, cfg *config.Config) *Application {
	return New(cfg, logger.Nop(), v1.Modules(), WithClientFactory(func(timeout time.Duration) httpclient.Shared {
		client.timeout = timeout
		return client
	}))
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestServeHandlesRequestsAndClosesClientOnce(t *testing.T) {
	client := &countingClient{}
	application := newTestApp(t, client)
	ln := listen(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/api/v1/hello?name=Ada", ln.Addr())
	var resp *http.Response
	require.Eventually(t, func() bool {
		var err error
		resp, err = http.Get(url)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Hello, Ada from FastAPI!"}`, string(body))
	assert.Equal(t, 3*time.Second, client.timeout)
	assert.Zero(t, client.closes.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	assert.Equal(t, int32(1), client.closes.Load())
}

func TestServeClosesClientWhenStartupFails(t *testing.T) {
	client := &countingClient{}
	cfg := loadTestConfig(t)
	cfg.CORSOrigins = []string{"*"}
	cfg.CORSAllowCredentials = true
	application := newTestAppWithConfig(client, cfg)

	err := application.Serve(context.Background(), listen(t))
	require.Error(t, err)
	assert.Equal(t, int32(1), client.closes.Load())
}

func TestServeClosesClientWhenListenerFails(t *testing.T) {
	client := &countingClient{}
	application := newTestApp(t, client)

	ln := listen(t)
	require.NoError(t, ln.Close())

	err := application.Serve(context.Background(), ln)
	require.Error(t, err)
	assert.Equal(t, int32(1), client.closes.Load())
}

func TestServeLogsButIgnoresCloseErrors(t *testing.T) {
	client := &countingClient{closeErr: errors.New("close failed")}
	application := newTestApp(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := application.Serve(ctx, listen(t))
	require.NoError(t, err)
	assert.Equal(t, int32(1), client.closes.Load())
}

func TestRunFailsOnUnusableAddress(t *testing.T) {
	ln := listen(t)
	defer ln.Close()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	client := &countingClient{}
	application := newTestApp(t, client, "HOST=127.0.0.1", "BACKEND_PORT="+port)

	err = application.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, client.closes.Load())
}
