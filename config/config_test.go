package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Port != defaultPort {
		t.Errorf("Port = %d, want %d", cfg.HTTP.Port, defaultPort)
	}
	if !reflect.DeepEqual(cfg.HTTP.AllowedOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("AllowedOrigins = %v", cfg.HTTP.AllowedOrigins)
	}
	if !cfg.HTTP.AllowCredentials {
		t.Error("AllowCredentials = false, want true")
	}
	if cfg.Limits.MaxNodes != 0 || cfg.Limits.MaxEdges != 0 {
		t.Errorf("Limits = %+v, want unlimited", cfg.Limits)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	content := `
http:
  port: 9000
  shutdown_timeout: 3s
  allowed_origins: ["https://app.example.com"]
logging:
  level: debug
  format: json
limits:
  max_nodes: 100
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("PIPELINE_MAX_EDGES", "200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Port != 9100 {
		t.Errorf("Port = %d, want 9100 from env", cfg.HTTP.Port)
	}
	if cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 3s", cfg.HTTP.ShutdownTimeout)
	}
	if !reflect.DeepEqual(cfg.HTTP.AllowedOrigins, []string{"https://app.example.com"}) {
		t.Errorf("AllowedOrigins = %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Limits.MaxNodes != 100 || cfg.Limits.MaxEdges != 200 {
		t.Errorf("Limits = %+v, want {100 200}", cfg.Limits)
	}
	if cfg.HTTP.ReadTimeout != defaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want default kept", cfg.HTTP.ReadTimeout)
	}
}

func TestLoadAllowedOriginsCSV(t *testing.T) {
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test, http://b.test,,")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(cfg.HTTP.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.HTTP.AllowedOrigins, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"SERVER_PORT": "http"}},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}},
		{"bad duration", map[string]string{"SERVER_SHUTDOWN_TIMEOUT": "soon"}},
		{"negative limit", map[string]string{"PIPELINE_MAX_NODES": "-1"}},
		{"non-numeric node limit", map[string]string{"PIPELINE_MAX_NODES": "abc"}},
		{"non-numeric edge limit", map[string]string{"PIPELINE_MAX_EDGES": "1e3"}},
		{"non-numeric body limit", map[string]string{"SERVER_BODY_LIMIT": "4MB"}},
		{"bad bool", map[string]string{"HISTORY_ENABLED": "yes please"}},
		{"wildcard with credentials", map[string]string{"SERVER_ALLOWED_ORIGINS": "*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
