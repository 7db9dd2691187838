package logger

import (
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func reset() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
	globalLogger = nil
	once = sync.Once{}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "Development", cfg: DefaultConfig("development")},
		{name: "Testing", cfg: DefaultConfig("test")},
		{name: "Production to file", cfg: &Config{
			Environment: "production",
			Level:       "info",
			Filename:    filepath.Join(t.TempDir(), "taskflow.log"),
			MaxSize:     1,
		}},
		{name: "JSON to stderr", cfg: &Config{Environment: "development", Level: "warn", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			l.Info("Info message", zap.String("test", "value"))
			_ = l.Sync()
		})
	}
}

func TestInitOnce(t *testing.T) {
	defer reset()

	if err := Init(DefaultConfig("testing")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	first := Get()
	if err := Init(DefaultConfig("production")); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if Get() != first {
		t.Error("second Init replaced the global logger")
	}

	Named("board").Info("named logger works")
}

func TestGetBeforeInit(t *testing.T) {
	reset()
	if Get() == nil {
		t.Fatal("Get returned nil before Init")
	}
	Named("noop").Info("dropped")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FILE", "/tmp/taskflow-test.log")

	cfg := FromEnv()
	if cfg.Environment != "production" || cfg.Level != "warn" || cfg.Filename != "/tmp/taskflow-test.log" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]string{"debug": "debug", "warning": "warn", "bogus": "info"} {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestForEnvironment(t *testing.T) {
	cfg := ForEnvironment("production", "", "console", "")
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Filename != "logs/taskflow.log" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	cfg = ForEnvironment("development", "warn", "", "out.log")
	if cfg.Level != "warn" || cfg.Filename != "out.log" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}
