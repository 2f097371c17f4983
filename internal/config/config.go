// Package config holds the server settings.
//
// Settings are resolved in order: built-in defaults, an optional TOML file,
// then HOUGH_MCP_* environment variables. Validate runs last.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
)

// Config is the resolved server configuration.
type Config struct {
	LogLevel        string        `toml:"log_level"`
	LogFormat       string        `toml:"log_format"`
	DefaultQuantile float64       `toml:"default_quantile"`
	Method          string        `toml:"method"`
	Timeout         time.Duration `toml:"timeout"`

	// MaxRadius is the largest radius a tool call may request.
	MaxRadius float64 `toml:"max_radius"`
	// KernelCacheSize bounds the number of ring kernels kept between calls.
	KernelCacheSize int `toml:"kernel_cache_size"`
}

// Environment variable names.
const (
	EnvLogLevel  = "HOUGH_MCP_LOG_LEVEL"
	EnvLogFormat = "HOUGH_MCP_LOG_FORMAT"
	EnvQuantile  = "HOUGH_MCP_QUANTILE"
	EnvMethod    = "HOUGH_MCP_METHOD"
	EnvTimeout   = "HOUGH_MCP_TIMEOUT"

	EnvMaxRadius       = "HOUGH_MCP_MAX_RADIUS"
	EnvKernelCacheSize = "HOUGH_MCP_KERNEL_CACHE_SIZE"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "console",
		DefaultQuantile: detection.DefaultQuantile,
		Method:          detection.MethodAuto.String(),
		Timeout:         60 * time.Second,
		MaxRadius:       1024,
		KernelCacheSize: 64,
	}
}

// Load resolves the configuration from path (may be empty) and the process
// environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.DecodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeFile overlays the settings present in a TOML file. Unknown keys are
// an error so that typos do not pass silently.
func (c *Config) DecodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overlays settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvMethod); ok {
		c.Method = v
	}
	if v, ok := lookup(EnvQuantile); ok {
		q, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvQuantile, err)
		}
		c.DefaultQuantile = q
	}
	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvMaxRadius); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxRadius, err)
		}
		c.MaxRadius = r
	}
	if v, ok := lookup(EnvKernelCacheSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvKernelCacheSize, err)
		}
		c.KernelCacheSize = n
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json (got %q)", c.LogFormat)
	}
	if c.DefaultQuantile < 0 || c.DefaultQuantile > 1 || math.IsNaN(c.DefaultQuantile) {
		return fmt.Errorf("default_quantile must be in [0, 1] (got %v)", c.DefaultQuantile)
	}
	if _, err := detection.ParseMethod(c.Method); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive (got %v)", c.Timeout)
	}
	if math.IsNaN(c.MaxRadius) || c.MaxRadius < 1 || c.MaxRadius > detection.MaxRadius {
		return fmt.Errorf("max_radius must be in [1, %d] (got %v)", detection.MaxRadius, c.MaxRadius)
	}
	if c.KernelCacheSize < 1 {
		return fmt.Errorf("kernel_cache_size must be positive (got %d)", c.KernelCacheSize)
	}
	return nil
}

// DetectionMethod returns the parsed correlation method.
func (c *Config) DetectionMethod() detection.Method {
	m, err := detection.ParseMethod(c.Method)
	if err != nil {
		return detection.MethodAuto
	}
	return m
}
