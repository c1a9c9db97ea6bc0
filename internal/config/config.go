package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the board. Values come from the
// defaults, then the YAML file, then PIPELINE_* environment variables.
type Config struct {
	DBPath         string              `yaml:"db"`
	DeletePolicy   domain.DeletePolicy `yaml:"delete_policy"`
	FallbackColumn string              `yaml:"fallback_column"`
	HTTPAddr       string              `yaml:"http_addr"`
	StoreTimeoutMs int                 `yaml:"store_timeout_ms"`
	LockColumns    bool                `yaml:"lock_columns"`
	LogUseCases    bool                `yaml:"log_use_cases"`
}

// DefaultConfig returns a Config with sensible defaults. The database lives
// in ~/.pipeline unless the home directory cannot be found.
func DefaultConfig() Config {
	return Config{
		DBPath:         filepath.Join(Dir(), "pipeline.db"),
		DeletePolicy:   domain.DeleteReassign,
		HTTPAddr:       "127.0.0.1:8080",
		StoreTimeoutMs: 5000,
	}
}

// Dir is the per-user settings directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".pipeline"
	}
	return filepath.Join(home, ".pipeline")
}

// Path is the config file read by LoadConfig. PIPELINE_CONFIG overrides it.
func Path() string {
	if v := os.Getenv("PIPELINE_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(Dir(), "config.yaml")
}

// LoadConfig layers the config file and the environment over the defaults.
// A missing file is not an error.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := loadFile(Path(), &cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PIPELINE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PIPELINE_DELETE_POLICY"); v != "" {
		cfg.DeletePolicy = domain.DeletePolicy(v)
	}
	if v := os.Getenv("PIPELINE_FALLBACK_COLUMN"); v != "" {
		cfg.FallbackColumn = v
	}
	if v := os.Getenv("PIPELINE_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("PIPELINE_STORE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StoreTimeoutMs = n
		}
	}
	if v := os.Getenv("PIPELINE_LOCK_COLUMNS"); v != "" {
		cfg.LockColumns, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PIPELINE_LOG_USECASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
}

func (c Config) Validate() error {
	if !c.DeletePolicy.Valid() {
		return fmt.Errorf("delete_policy %q: must be %q or %q", c.DeletePolicy, domain.DeleteReassign, domain.DeleteBlock)
	}
	if c.DBPath == "" {
		return errors.New("db path is empty")
	}
	return nil
}

// StoreTimeout bounds each background store call of the board controller.
func (c Config) StoreTimeout() time.Duration {
	if c.StoreTimeoutMs <= 0 {
		return 0
	}
	return time.Duration(c.StoreTimeoutMs) * time.Millisecond
}

// Save writes the config as YAML to path, creating its directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
