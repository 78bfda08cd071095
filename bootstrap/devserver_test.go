package bootstrap

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"eduverse/config"
	"eduverse/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func devConfig(port string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = port
	cfg.Server.ReadHeaderTimeout = 5 * time.Second
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, "ok")
})

func TestNewDevServer_Port(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		want    string
		wantErr bool
	}{
		{name: "explicit", port: "9000", want: "0.0.0.0:9000"},
		{name: "unset", port: "", want: "0.0.0.0:8000"},
		{name: "malformed", port: "abc", wantErr: true},
		{name: "out of range", port: "70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, err := NewDevServer(okHandler, devConfig(tt.port), nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, config.ErrInvalidPort)
				assert.Nil(t, dev)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, dev.ListenAddr())
		})
	}
}

func TestNewDevServer_RequiresHandlerAndConfig(t *testing.T) {
	_, err := NewDevServer(nil, devConfig(""), nil)
	assert.Error(t, err)
	_, err = NewDevServer(okHandler, nil, nil)
	assert.Error(t, err)
}

func startDevServer(t *testing.T, port string) (*DevServer, context.CancelFunc, <-chan error) {
	t.Helper()
	dev, err := NewDevServer(okHandler, devConfig(port), zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- dev.Run(ctx) }()

	select {
	case <-dev.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("dev server exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("dev server did not bind")
	}
	return dev, cancel, done
}

func TestDevServer_ServesUntilCancelled(t *testing.T) {
	dev, cancel, done := startDevServer(t, "0")

	_, port, err := net.SplitHostPort(dev.BoundAddr())
	require.NoError(t, err)
	assert.NotEqual(t, "0", port)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DevServerUp))

	resp, err := http.Get("http://127.0.0.1:" + port + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("dev server did not shut down")
	}
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.DevServerUp))
}

func TestDevServer_PortInUse(t *testing.T) {
	first, cancel, done := startDevServer(t, "0")
	defer func() {
		cancel()
		<-done
	}()

	_, port, err := net.SplitHostPort(first.BoundAddr())
	require.NoError(t, err)

	second, err := NewDevServer(okHandler, devConfig(port), nil)
	require.NoError(t, err)
	err = second.Run(context.Background())
	assert.Error(t, err)
}

func TestDevServer_RunOnlyOnce(t *testing.T) {
	dev, cancel, done := startDevServer(t, "0")

	assert.ErrorIs(t, dev.Run(context.Background()), ErrDevServerStarted)

	cancel()
	require.NoError(t, <-done)
	assert.ErrorIs(t, dev.Run(context.Background()), ErrDevServerStarted)
}
