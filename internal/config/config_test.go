package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hough.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.DefaultQuantile != 0.99 {
		t.Errorf("DefaultQuantile: got %v, want 0.99", cfg.DefaultQuantile)
	}
	if cfg.Method != "auto" {
		t.Errorf("Method: got %q, want auto", cfg.Method)
	}
	if cfg.MaxRadius != 1024 || cfg.KernelCacheSize != 64 {
		t.Errorf("limits: got max_radius %v, kernel_cache_size %d", cfg.MaxRadius, cfg.KernelCacheSize)
	}
}

func TestDecodeFile(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
log_format = "json"
default_quantile = 0.95
method = "fft"
timeout = "5s"
max_radius = 300.5
kernel_cache_size = 8
`)
	cfg := Default()
	if err := cfg.DecodeFile(path); err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DefaultQuantile != 0.95 || cfg.Method != "fft" {
		t.Errorf("detection: got %v/%q", cfg.DefaultQuantile, cfg.Method)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout: got %v, want 5s", cfg.Timeout)
	}
	if cfg.MaxRadius != 300.5 || cfg.KernelCacheSize != 8 {
		t.Errorf("limits: got %v/%d", cfg.MaxRadius, cfg.KernelCacheSize)
	}
}

func TestDecodeFile_Partial(t *testing.T) {
	cfg := Default()
	if err := cfg.DecodeFile(writeConfig(t, `method = "direct"`)); err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if cfg.Method != "direct" {
		t.Errorf("Method: got %q, want direct", cfg.Method)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unset keys should keep defaults, LogLevel got %q", cfg.LogLevel)
	}
}

func TestDecodeFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", `radius = 5`, "unknown config keys"},
		{"bad syntax", `log_level = `, "failed to read config"},
		{"wrong type", `default_quantile = "high"`, "failed to read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().DecodeFile(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}

	if err := Default().DecodeFile("/nonexistent/hough.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		EnvLogLevel:  "warn",
		EnvLogFormat: "json",
		EnvQuantile:  "0.5",
		EnvMethod:    "direct",
		EnvTimeout:   "250ms",

		EnvMaxRadius:       "64",
		EnvKernelCacheSize: "4",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "json" || cfg.Method != "direct" {
		t.Errorf("strings not applied: %+v", cfg)
	}
	if cfg.DefaultQuantile != 0.5 || cfg.Timeout != 250*time.Millisecond {
		t.Errorf("numbers not applied: %+v", cfg)
	}
	if cfg.MaxRadius != 64 || cfg.KernelCacheSize != 4 {
		t.Errorf("limits not applied: %+v", cfg)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	if err := Default().ApplyEnv(env(map[string]string{EnvQuantile: "most"})); err == nil {
		t.Error("expected error for unparsable quantile")
	}
	if err := Default().ApplyEnv(env(map[string]string{EnvTimeout: "soon"})); err == nil {
		t.Error("expected error for unparsable timeout")
	}
	if err := Default().ApplyEnv(env(map[string]string{EnvMaxRadius: "big"})); err == nil {
		t.Error("expected error for unparsable max radius")
	}
	if err := Default().ApplyEnv(env(map[string]string{EnvKernelCacheSize: "1.5"})); err == nil {
		t.Error("expected error for unparsable kernel cache size")
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "method = \"fft\"\nlog_level = \"debug\"\n")
	t.Setenv(EnvMethod, "direct")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Method != "direct" {
		t.Errorf("environment should override file, Method got %q", cfg.Method)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("file should override defaults, LogLevel got %q", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load(writeConfig(t, `default_quantile = 2.0`)); err == nil {
		t.Error("Load should validate the merged result")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"quantile low", func(c *Config) { c.DefaultQuantile = -0.1 }},
		{"quantile high", func(c *Config) { c.DefaultQuantile = 1.5 }},
		{"method", func(c *Config) { c.Method = "wavelet" }},
		{"timeout", func(c *Config) { c.Timeout = 0 }},
		{"max radius below one", func(c *Config) { c.MaxRadius = 0.5 }},
		{"max radius NaN", func(c *Config) { c.MaxRadius = math.NaN() }},
		{"max radius overflow", func(c *Config) { c.MaxRadius = 1e19 }},
		{"kernel cache size", func(c *Config) { c.KernelCacheSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDetectionMethod(t *testing.T) {
	cfg := Default()
	cfg.Method = "FFT"
	if got := cfg.DetectionMethod().String(); got != "fft" {
		t.Errorf("got %s, want fft", got)
	}
}
