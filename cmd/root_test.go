package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"eduverse/app"
	"eduverse/config"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeProvider struct {
	server *app.Server
	cfg    *config.Config
	logger *zap.Logger
	err    error
}

func (p *fakeProvider) Application() (*app.Server, error) { return p.server, p.err }
func (p *fakeProvider) Config() *config.Config { return p.cfg }
func (p *fakeProvider) Logger() *zap.Logger { return p.logger }

func newFakeProvider(t *testing.T, port string) *fakeProvider {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Port = port
	cfg.Server.ReadHeaderTimeout = 5 * time.Second
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.API.JSONBodyLimit = 1 << 20
	cfg.API.RateLimit.RequestsPerSecond = 10
	cfg.API.RateLimit.Burst = 10
	cfg.ExamCoach.CacheSize = 8
	cfg.ExamCoach.MaxQuestions = 10
	cfg.ExamCoach.DefaultTimeLimit = 30

	logger := zaptest.NewLogger(t)
	server, err := app.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(server.Close)

	return &fakeProvider{server: server, cfg: cfg, logger: logger}
}

func execute(t *testing.T, provider Provider, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd(provider)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "eduverse", cmd.Use)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["routes"])

	assert.NotNil(t, cmd.PersistentFlags().Lookup("no-color"))
	assert.NotNil(t, cmd.Flags().Lookup("port"))
}

func TestRoutesCommand(t *testing.T) {
	provider := newFakeProvider(t, "")

	out, err := execute(t, provider, context.Background(), "routes", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "METHODS")
	assert.Contains(t, out, "POST")
	assert.Contains(t, out, "/api/agents/exam-coach/generate")
	assert.Contains(t, out, "/health")
}

func TestRoutesCommand_JSON(t *testing.T) {
	provider := newFakeProvider(t, "")

	out, err := execute(t, provider, context.Background(), "routes", "--json")
	require.NoError(t, err)

	var routes []app.RouteInfo
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	assert.Len(t, routes, 7)
}

func TestServe_InitFailure(t *testing.T) {
	boom := errors.New("collaborator failed")

	for _, args := range [][]string{nil, {"serve"}, {"routes"}} {
		_, err := execute(t, &fakeProvider{err: boom}, context.Background(), args...)
		assert.ErrorIs(t, err, boom)
	}
}

func TestServe_MalformedPort(t *testing.T) {
	provider := newFakeProvider(t, "abc")

	_, err := execute(t, provider, context.Background(), "serve")
	assert.ErrorIs(t, err, config.ErrInvalidPort)

	_, err = execute(t, newFakeProvider(t, ""), context.Background(), "--port", "99999")
	assert.ErrorIs(t, err, config.ErrInvalidPort)
}

func TestServe_StopsWhenContextDone(t *testing.T) {
	provider := newFakeProvider(t, "0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := execute(t, provider, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "0.0.0.0:0")

	out, err = execute(t, provider, ctx, "serve", "--port", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Serving on")
}
