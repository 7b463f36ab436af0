package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by LoadWithPath when no config file exists in any
// default location and none was requested explicitly.
var ErrNotFound = errors.New("no config file found (tried MEASURE_CONFIG, measure.yaml, ~/.config/measure/measure.yaml)")

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults() when none exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved path.
// This is useful when the caller needs to know the actual config file location,
// for example to watch it for changes.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, getenv)
	if err != nil {
		return nil, "", err
	}
	cfg.BaseDir = filepath.Dir(absPath)

	// Resolve a relative log file against the config directory
	if out := cfg.Logging.Output; out != "" && out != "stderr" && out != "stdout" && !filepath.IsAbs(out) {
		cfg.Logging.Output = filepath.Join(cfg.BaseDir, out)
	}

	return cfg, absPath, nil
}

// Parse decodes YAML over the defaults after interpolating environment
// variables, then validates the result.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, reporting every problem at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port: %d (must be 1-65535)", cfg.Server.Port))
	}

	if cfg.Display.Precision < 0 || cfg.Display.Precision > MaxPrecision {
		errs = append(errs, fmt.Sprintf("invalid display.precision: %d (must be 0-%d)", cfg.Display.Precision, MaxPrecision))
	}

	switch cfg.Compression.Level {
	case "fastest", "default", "best", "none":
	default:
		errs = append(errs, fmt.Sprintf("invalid compression.level: %q (must be fastest, default, best, or none)", cfg.Compression.Level))
	}
	if cfg.Compression.MinSize < 0 {
		errs = append(errs, fmt.Sprintf("invalid compression.min_size: %d (must be >= 0)", cfg.Compression.MinSize))
	}

	if cfg.RateLimit.Requests < 0 {
		errs = append(errs, fmt.Sprintf("invalid rate_limit.requests: %d (must be >= 0)", cfg.RateLimit.Requests))
	}
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window <= 0 {
		errs = append(errs, "invalid rate_limit.window: must be positive when requests is set")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid logging.level: %q (must be debug, info, warn, or error)", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid logging.format: %q (must be text or json)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > MEASURE_CONFIG env > ./measure.yaml > ~/.config/measure/measure.yaml
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("MEASURE_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("MEASURE_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat("measure.yaml"); err == nil {
		return "measure.yaml", nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "measure", "measure.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", ErrNotFound
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}
