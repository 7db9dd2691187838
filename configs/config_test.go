package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Gateway.Driver)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "taskflow", cfg.Gateway.Owner)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "@every 1m", cfg.Scheduler.RefreshSpec)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TASKFLOW_GATEWAY_DRIVER", "remote")
	t.Setenv("TASKFLOW_GATEWAY_REMOTE_URL", "http://upstream:8080")
	t.Setenv("TASKFLOW_GATEWAY_TIMEOUT", "3s")

	cfg, err := LoadConfig(writeConfig(t, "gateway:\n  driver: memory\n"))
	require.NoError(t, err)
	assert.Equal(t, DriverRemote, cfg.Gateway.Driver)
	assert.Equal(t, "http://upstream:8080", cfg.Gateway.RemoteURL)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "gateway:\n  driver: oracle\n"},
		{name: "remote without url", body: "gateway:\n  driver: remote\n"},
		{name: "bad port", body: "server:\n  port: 70000\n"},
		{name: "bad duration", body: "gateway:\n  timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
