package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "https://portal.example/exec")

	cfg := Load()

	if cfg.APIURL != "https://portal.example/exec" {
		t.Errorf("expected API URL to be read, got %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected default timeout 15s, got %v", cfg.RequestTimeout)
	}
	if cfg.ContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", cfg.ContentType)
	}
	if cfg.SessionBackend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.SessionBackend)
	}
	if cfg.FallbackPage != "index.html" {
		t.Errorf("expected index.html fallback, got %q", cfg.FallbackPage)
	}
}

func TestLoad_TimeoutFormats(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want time.Duration
	}{
		{"go_duration", map[string]string{"PORTAL_REQUEST_TIMEOUT": "10s"}, 10 * time.Second},
		{"seconds", map[string]string{"PORTAL_REQUEST_TIMEOUT_SECONDS": "30"}, 30 * time.Second},
		{"invalid_falls_back", map[string]string{"PORTAL_REQUEST_TIMEOUT": "soon"}, 15 * time.Second},
		{"non_positive_falls_back", map[string]string{"PORTAL_REQUEST_TIMEOUT": "-1s"}, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORTAL_API_URL", "https://portal.example/exec")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := Load().RequestTimeout; got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLoad_MissingURLPanics(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "")

	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing PORTAL_API_URL")
		}
	}()
	Load()
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "https://portal.example/exec")
	t.Setenv("SESSION_BACKEND", "postgres")
	t.Setenv("DB_CONNECTION_STRING", "")

	defer func() {
		if recover() == nil {
			t.Error("expected panic for postgres backend without DSN")
		}
	}()
	Load()
}

func TestLoad_UnknownBackendPanics(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "https://portal.example/exec")
	t.Setenv("SESSION_BACKEND", "cookies")

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown backend")
		}
	}()
	Load()
}
