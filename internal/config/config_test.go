package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const minimalConfig = "project: test\nversion: 1\ndata:\n  quests: q.json\n  npcs: n.json\n"

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-project" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.Undo.GraceWindow != 5*time.Second || cfg.Gateway.Timeout != 3*time.Second {
			t.Fatalf("unexpected durations: %s %s", cfg.Undo.GraceWindow, cfg.Gateway.Timeout)
		}
		if cfg.Identity != "gm@example.com" || cfg.HTTP.Addr != "127.0.0.1:9090" {
			t.Fatalf("unexpected identity/addr: %q %q", cfg.Identity, cfg.HTTP.Addr)
		}
		if !reflect.DeepEqual(cfg.HTTP.AllowedOrigins, []string{"http://localhost:5173"}) {
			t.Fatalf("unexpected origins: %#v", cfg.HTTP.AllowedOrigins)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := LoadProjectConfig(writeTempConfig(t, minimalConfig))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Database.DSN != DefaultDSN || cfg.Undo.GraceWindow != DefaultGraceWindow || cfg.Gateway.Timeout != DefaultGatewayTimeout {
			t.Fatalf("defaults missing: %+v", cfg)
		}
		if cfg.Preferences.Path != DefaultPreferencesPath || cfg.HTTP.Addr != DefaultHTTPAddr || cfg.Log.Mode != DefaultLogMode {
			t.Fatalf("defaults missing: %+v", cfg)
		}
		if backend, _ := cfg.Database.Backend(); backend != BackendSQLite {
			t.Fatalf("expected sqlite backend, got %q", backend)
		}
	})

	t.Run("env overrides yaml", func(t *testing.T) {
		t.Setenv("SIDEQUEST_DATABASE_DSN", "postgres://localhost/sidequest")
		t.Setenv("SIDEQUEST_IDENTITY", "player-two")
		t.Setenv("SIDEQUEST_ALLOWED_ORIGINS", "http://a.test,http://b.test")
		cfg, err := LoadProjectConfig(writeTempConfig(t, minimalConfig+"identity: player-one\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Identity != "player-two" {
			t.Fatalf("identity = %q", cfg.Identity)
		}
		if backend, _ := cfg.Database.Backend(); backend != BackendPostgres {
			t.Fatalf("expected postgres backend, got %q", backend)
		}
		if !reflect.DeepEqual(cfg.HTTP.AllowedOrigins, []string{"http://a.test", "http://b.test"}) {
			t.Fatalf("unexpected origins: %#v", cfg.HTTP.AllowedOrigins)
		}
	})

	errorCases := []struct {
		name     string
		contents string
	}{
		{"missing project name", "version: 1\ndata:\n  quests: q.json\n  npcs: n.json\n"},
		{"unsupported version", "project: test\nversion: 2\ndata:\n  quests: q.json\n  npcs: n.json\n"},
		{"missing quest data", "project: test\nversion: 1\ndata:\n  npcs: n.json\n"},
		{"missing npc data", "project: test\nversion: 1\ndata:\n  quests: q.json\n"},
		{"unknown dsn scheme", minimalConfig + "database:\n  dsn: mysql://localhost/db\n"},
		{"negative grace window", minimalConfig + "undo:\n  grace_window: -1s\n"},
		{"negative timeout", minimalConfig + "gateway:\n  timeout: -5s\n"},
		{"bad duration", minimalConfig + "undo:\n  grace_window: soon\n"},
		{"unknown log mode", minimalConfig + "log:\n  mode: verbose\n"},
		{"duplicate origins", minimalConfig + "http:\n  allowed_origins: [http://a.test, HTTP://A.test]\n"},
		{"invalid yaml", "project: [\n"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadProjectConfig(writeTempConfig(t, tt.contents)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
