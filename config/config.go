// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
)

// Environment overrides, applied after the file is read.
const (
	EnvSchema    = "GENPACK_SCHEMA"
	EnvOutputDir = "GENPACK_OUTPUT_DIR"
	EnvLogLevel  = "GENPACK_LOG_LEVEL"
	EnvLogFormat = "GENPACK_LOG_FORMAT"
)

const (
	FieldCountFlattened = "flattened"
	FieldCountFieldName = "field_name"
)

var (
	ErrFieldCount = errors.New("invalid field_count")
	ErrLogLevel   = errors.New("invalid logging.level")
	ErrLogFormat  = errors.New("invalid logging.format")
)

// Config is the root configuration structure.
type Config struct {
	Schema      string        `yaml:"schema"`
	OutputDir   string        `yaml:"output_dir"`
	LicenseFile string        `yaml:"license_file"` // overrides the catalogue's own license
	FieldCount  string        `yaml:"field_count"`  // "flattened" or "field_name"
	EmitTests   bool          `yaml:"emit_tests"`
	Logging     LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(&cfg)
}

// LoadFromEnv builds a configuration from defaults and the environment
// alone, for runs without a config file.
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

// LoadWithFallback reads path when it is set and falls back to the
// environment otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path == "" {
		return LoadFromEnv()
	}
	return Load(path)
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)

	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// FieldCountMode maps field_count onto the lowering option.
func (c *Config) FieldCountMode() ir.FieldCount {
	if c.FieldCount == FieldCountFieldName {
		return ir.FieldCountFieldName
	}
	return ir.FieldCountFlattened
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvSchema); v != "" {
		cfg.Schema = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Schema == "" {
		cfg.Schema = "paxos_types"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.FieldCount == "" {
		cfg.FieldCount = FieldCountFlattened
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validate(cfg *Config) error {
	switch cfg.FieldCount {
	case FieldCountFlattened, FieldCountFieldName:
	default:
		return fmt.Errorf("%w: must be %q or %q, got %q", ErrFieldCount, FieldCountFlattened, FieldCountFieldName, cfg.FieldCount)
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("%w: %q", ErrLogLevel, cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("%w: must be 'json' or 'console', got %q", ErrLogFormat, cfg.Logging.Format)
	}

	return nil
}
