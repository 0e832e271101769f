package config

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "CORS_ORIGIN", "SESSION_TTL", "SESSION_CLEANUP_INTERVAL", "SUBMIT_TIMEOUT", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/survey",
		"session_ttl": "45m",
		"submit_timeout": 3,
		"disable_metrics": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/survey", cfg.DatabaseURL)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL.Std())
	assert.Equal(t, 3*time.Second, cfg.SubmitTimeout.Std())
	assert.True(t, cfg.DisableMetrics)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"session_ttl": "forever"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"negative port", Config{Port: -1}, "'port'"},
		{"port too large", Config{Port: 70000}, "'port'"},
		{"negative ttl", Config{SessionTTL: Duration(-time.Second)}, "'session_ttl'"},
		{"negative cleanup", Config{CleanupInterval: Duration(-time.Second)}, "'cleanup_interval'"},
		{"negative timeout", Config{SubmitTimeout: Duration(-time.Second)}, "'submit_timeout'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9000}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "*", merged.CORSOrigin)
	assert.Equal(t, 2*time.Hour, merged.SessionTTL.Std())
	assert.Equal(t, 5*time.Minute, merged.CleanupInterval.Std())
	assert.Equal(t, 15*time.Second, merged.SubmitTimeout.Std())
	assert.False(t, merged.DisableMetrics)
	assert.Equal(t, time.Duration(0), cfg.SubmitTimeout.Std(), "receiver is not modified")
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://env/survey")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("SUBMIT_TIMEOUT", "not-a-duration")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := FromEnv()
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "postgres://env/survey", cfg.DatabaseURL)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL.Std())
	assert.Equal(t, time.Duration(0), cfg.SubmitTimeout.Std())
	assert.True(t, cfg.DisableMetrics)
}

func TestResolve_FileOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://env/survey")

	cfg, err := Resolve(writeConfig(t, `{"port": 9191}`))
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "postgres://env/survey", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL.Std())

	cfg, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)

	_, err = Resolve(writeConfig(t, `{"port": -5}`))
	assert.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}

func TestWarnIfIncomplete(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cfg := Defaults()
	cfg.WarnIfIncomplete()
	assert.Contains(t, buf.String(), "DATABASE_URL is not set")

	buf.Reset()
	cfg.DatabaseURL = "postgres://localhost/survey"
	cfg.WarnIfIncomplete()
	assert.Empty(t, buf.String())
}
