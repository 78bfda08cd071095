package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no PORT override
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PORT", "")
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, int64(1<<20), cfg.API.JSONBodyLimit)
	assert.Equal(t, 50, cfg.ExamCoach.MaxQuestions)
	assert.Empty(t, cfg.ConfigFile)

	port, err := cfg.ListenPort()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, port)
}

func TestLoadConfig_SearchPathOrder(t *testing.T) {
	isolate(t)

	first := t.TempDir()
	second := t.TempDir()
	writeConfig(t, first, "log:\n  level: debug\n")
	writeConfig(t, second, "log:\n  level: error\n")

	cfg, err := LoadConfig(first, second)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(first, "config.yaml"), cfg.ConfigFile)
	assert.Equal(t, []string{first, second}, cfg.SearchPaths)

	cfg, err = LoadConfig(second, first)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadConfig_SearchPathBeatsWorkingDirectory(t *testing.T) {
	isolate(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	writeConfig(t, wd, "environment: from-cwd\n")

	entry := t.TempDir()
	writeConfig(t, entry, "environment: from-entry\n")

	cfg, err := LoadConfig(entry)
	require.NoError(t, err)
	assert.Equal(t, "from-entry", cfg.Environment)

	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-cwd", cfg.Environment)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("EDUVERSE_LOG_LEVEL", "warn")
	t.Setenv("EDUVERSE_API_ALLOWED_ORIGINS", "https://eduverse.app,https://preview.eduverse.app")
	t.Setenv("EDUVERSE_EXAM_COACH_CACHE_SIZE", "16")
	t.Setenv("PORT", "9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"https://eduverse.app", "https://preview.eduverse.app"}, cfg.API.AllowedOrigins)
	assert.Equal(t, 16, cfg.ExamCoach.CacheSize)

	port, err := cfg.ListenPort()
	require.NoError(t, err)
	assert.Equal(t, 9000, port)
}

func TestLoadConfig_MalformedPortIsDeferred(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "abc")

	cfg, err := LoadConfig()
	require.NoError(t, err, "serverless loads must not fail on PORT")

	_, err = cfg.ListenPort()
	assert.ErrorIs(t, err, ErrInvalidPort)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "malformed yaml", yaml: "log: [unterminated\n"},
		{name: "unknown log level", env: map[string]string{"EDUVERSE_LOG_LEVEL": "verbose"}},
		{name: "unknown log format", env: map[string]string{"EDUVERSE_LOG_FORMAT": "xml"}},
		{name: "zero body limit", yaml: "api:\n  json_body_limit: 0\n"},
		{name: "zero burst", yaml: "api:\n  rate_limit:\n    burst: 0\n"},
		{name: "too many questions", yaml: "exam_coach:\n  max_questions: 500\n"},
		{name: "zero cache", env: map[string]string{"EDUVERSE_EXAM_COACH_CACHE_SIZE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			dir := t.TempDir()
			if tt.yaml != "" {
				writeConfig(t, dir, tt.yaml)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(dir)
			assert.Error(t, err)
		})
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 8000},
		{raw: "9000", want: 9000},
		{raw: "0", want: 0},
		{raw: "65535", want: 65535},
		{raw: "65536", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "+80", wantErr: true},
		{raw: " 8080", wantErr: true},
		{raw: "0x1f90", wantErr: true},
		{raw: "8000.0", wantErr: true},
		{raw: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePort(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
