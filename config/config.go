package config

import "time"

// Config represents the complete measure configuration
type Config struct {
	BaseDir     string            `yaml:"-"` // Directory containing config file, for resolving relative paths
	Server      ServerConfig      `yaml:"server"`
	Display     DisplayConfig     `yaml:"display"`
	Compression CompressionConfig `yaml:"compression"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds HTTP shell settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DisplayConfig controls how conversion results are rendered
type DisplayConfig struct {
	Precision int  `yaml:"precision"` // Decimal places in converted values (default: 6)
	Symbols   bool `yaml:"symbols"`   // Prefix ✅/⚠️/❌ to messages (default: true)
}

// CompressionConfig holds HTTP response compression settings
type CompressionConfig struct {
	Enabled bool   `yaml:"enabled"`  // Enable gzip compression (default: true)
	Level   string `yaml:"level"`    // fastest, default, best, none (default: "default")
	MinSize int    `yaml:"min_size"` // Minimum response size to compress in bytes (default: 1024)
}

// RateLimitConfig limits API requests per client IP
type RateLimitConfig struct {
	Requests int           `yaml:"requests"` // Requests allowed per window (0 disables)
	Window   time.Duration `yaml:"window"`   // Window length (default: 1m)
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
	Quiet  bool   `yaml:"quiet"`  // suppress request logs
}

// MaxPrecision is the largest accepted display.precision.
const MaxPrecision = 12

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Display: DisplayConfig{
			Precision: 6,
			Symbols:   true,
		},
		Compression: CompressionConfig{
			Enabled: true,
			Level:   "default",
			MinSize: 1024,
		},
		RateLimit: RateLimitConfig{
			Requests: 120,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
