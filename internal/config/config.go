package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath            = "sidequest.yaml"
	DefaultDSN             = "sqlite://./sidequest.db"
	DefaultGraceWindow     = 10 * time.Second
	DefaultGatewayTimeout  = 15 * time.Second
	DefaultPreferencesPath = ".sidequest-prefs.yaml"
	DefaultHTTPAddr        = ":8080"
	DefaultLogMode         = "development"
)

type ProjectConfig struct {
	Project     string            `yaml:"project"`
	Version     int               `yaml:"version"`
	Identity    string            `yaml:"identity" env:"SIDEQUEST_IDENTITY"`
	Database    DatabaseConfig    `yaml:"database"`
	Data        DataConfig        `yaml:"data"`
	Undo        UndoConfig        `yaml:"undo"`
	Gateway     GatewayConfig     `yaml:"gateway"`
	Preferences PreferencesConfig `yaml:"preferences"`
	HTTP        HTTPConfig        `yaml:"http"`
	Log         LogConfig         `yaml:"log"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"SIDEQUEST_DATABASE_DSN"`
}

// DataConfig names the two template documents. Each is a file path or an
// http(s) URL.
type DataConfig struct {
	Quests string `yaml:"quests"`
	NPCs   string `yaml:"npcs"`
}

type UndoConfig struct {
	GraceWindow time.Duration `yaml:"grace_window"`
}

type GatewayConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type PreferencesConfig struct {
	Path string `yaml:"path"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr" env:"SIDEQUEST_HTTP_ADDR"`
	JWTSecret      string   `yaml:"jwt_secret" env:"SIDEQUEST_JWT_SECRET"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"SIDEQUEST_ALLOWED_ORIGINS" envSeparator:","`
}

type LogConfig struct {
	Mode string `yaml:"mode" env:"SIDEQUEST_LOG_MODE"`
}

// LoadProjectConfig reads path, applies defaults, then environment
// overrides, then validates.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)
	if err := ParseEnv(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = DefaultDSN
	}
	if cfg.Undo.GraceWindow == 0 {
		cfg.Undo.GraceWindow = DefaultGraceWindow
	}
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = DefaultGatewayTimeout
	}
	if strings.TrimSpace(cfg.Preferences.Path) == "" {
		cfg.Preferences.Path = DefaultPreferencesPath
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = DefaultHTTPAddr
	}
	if strings.TrimSpace(cfg.Log.Mode) == "" {
		cfg.Log.Mode = DefaultLogMode
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Data.Quests) == "" {
		return fmt.Errorf("data.quests is required")
	}
	if strings.TrimSpace(cfg.Data.NPCs) == "" {
		return fmt.Errorf("data.npcs is required")
	}
	if _, err := cfg.Database.Backend(); err != nil {
		return err
	}
	if cfg.Undo.GraceWindow < 0 {
		return fmt.Errorf("undo.grace_window must be positive, got %s", cfg.Undo.GraceWindow)
	}
	if cfg.Gateway.Timeout < 0 {
		return fmt.Errorf("gateway.timeout must be positive, got %s", cfg.Gateway.Timeout)
	}
	switch strings.ToLower(cfg.Log.Mode) {
	case "development", "dev", "production", "prod":
	default:
		return fmt.Errorf("unsupported log mode: %s", cfg.Log.Mode)
	}

	seen := make(map[string]struct{})
	for i, origin := range cfg.HTTP.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("http.allowed_origins[%d] is empty", i)
		}
		key := strings.ToLower(origin)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate allowed origin: %s", origin)
		}
		seen[key] = struct{}{}
	}

	return nil
}

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Backend picks the store implementation from the DSN scheme.
func (d DatabaseConfig) Backend() (Backend, error) {
	switch {
	case strings.HasPrefix(d.DSN, "sqlite://"):
		return BackendSQLite, nil
	case strings.HasPrefix(d.DSN, "postgres://"), strings.HasPrefix(d.DSN, "postgresql://"):
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database dsn scheme: %q", d.DSN)
	}
}
