package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/shellkit/errors"
)

func TestConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := Config{Name: "tool"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
		if cfg.TempDir != os.TempDir() {
			t.Errorf("expected temp dir %q, got %q", os.TempDir(), cfg.TempDir)
		}
		if cfg.Process.Interpreter != "/bin/sh" {
			t.Errorf("expected process defaults, got %+v", cfg.Process)
		}
		if cfg.Telemetry.ServiceName != "tool" || cfg.Telemetry.Environment != "development" {
			t.Errorf("expected telemetry to inherit name and environment, got %+v", cfg.Telemetry)
		}
	})

	t.Run("production keeps debug off and info logging", func(t *testing.T) {
		cfg := Config{Name: "tool", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info, got %q", cfg.Logging.Level)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{Name: "tool"}
		cfg.ApplyDefaults()
		return cfg
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing name", func(c *Config) { c.Name = "" }, "name: is required"},
		{"invalid environment", func(c *Config) { c.Environment = "qa" }, "environment: must be one of"},
		{"missing temp dir", func(c *Config) { c.TempDir = "/no/such/dir" }, "temp_dir: must be an existing directory"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"negative grace", func(c *Config) { c.Process.GracePeriod = -time.Second }, "process.grace_period"},
		{"bad sample rate", func(c *Config) { c.Telemetry.SampleRate = 2 }, "telemetry.sample_rate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: test-tool
environment: staging
logging:
  level: warn
  format: json
process:
  interpreter: /bin/bash
  interpreter_args: ["-ec"]
  grace_period: 2s
telemetry:
  enabled: false
  sample_rate: 0.25
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg Config
	if err := LoadConfig("test-tool", &cfg, WithConfigFile(configPath), WithFileSystem(&RealFileSystem{})); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "test-tool" || cfg.Environment != "staging" {
		t.Errorf("unexpected base fields %+v", cfg)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.Process.Interpreter != "/bin/bash" || cfg.Process.GracePeriod != 2*time.Second {
		t.Errorf("unexpected process %+v", cfg.Process)
	}
	if len(cfg.Process.InterpreterArgs) != 1 || cfg.Process.InterpreterArgs[0] != "-ec" {
		t.Errorf("unexpected interpreter args %v", cfg.Process.InterpreterArgs)
	}
	if cfg.Telemetry.SampleRate != 0.25 {
		t.Errorf("unexpected sample rate %v", cfg.Telemetry.SampleRate)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("name: file-name\nlogging:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENVTEST_LOGGING_LEVEL", "error")
	t.Setenv("ENVTEST_PROCESS_GRACE_PERIOD", "3s")
	t.Setenv("OTHER_NAME", "ignored")

	var cfg Config
	if err := LoadConfig("envtest", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "file-name" {
		t.Errorf("unprefixed variable leaked in: %q", cfg.Name)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env override, got %q", cfg.Logging.Level)
	}
	if cfg.Process.GracePeriod != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.Process.GracePeriod)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("DOTENVTEST_NAME=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("DOTENVTEST_NAME") })

	var cfg Config
	if err := LoadConfig("dotenvtest", &cfg, WithConfigFile(filepath.Join(dir, "none.yml")), WithEnvFile(envPath)); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg Config
	// A missing config file leaves cfg empty rather than failing.
	err := LoadConfig("nonexistent-tool", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("name: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfg Config
	err := LoadConfig("bad", &cfg, WithConfigFile(path))
	if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

type mockFS struct {
	files     map[string]bool
	configDir string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error { return nil }
func (m *mockFS) UserConfigDir() (string, error) { return m.configDir, nil }

func TestResolverSearchOrder(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{"nothing found", nil, "", ""},
		{"named file wins", []string{"./my-tool.yml", "./config.yml"}, "./my-tool.yml", ""},
		{"config dir", []string{"./config/config.yml"}, "./config/config.yml", ""},
		{"user config dir", []string{"/home/u/.config/my-tool/config.yml"}, "/home/u/.config/my-tool/config.yml", ""},
		{"named env first", []string{"./.env", "./.env.my-tool"}, "", "./.env.my-tool"},
		{"env in config dir", []string{"./config/.env"}, "", "./config/.env"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}, configDir: "/home/u/.config"}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			resolver := &Resolver{FileSystem: fs}
			files := resolver.ResolveFiles("my-tool", LoaderConfig{})
			if files.ConfigFile != tc.wantConfig {
				t.Errorf("config = %q, want %q", files.ConfigFile, tc.wantConfig)
			}
			if files.EnvFile != tc.wantEnv {
				t.Errorf("env = %q, want %q", files.EnvFile, tc.wantEnv)
			}
		})
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true, "./.env": true}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("x", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
		t.Errorf("unexpected %+v", files)
	}
}

func TestEnvPrefix(t *testing.T) {
	tests := map[string]string{
		"shellkit": "SHELLKIT",
		"my-tool":  "MY_TOOL",
		"a.b":      "A_B",
	}
	for in, want := range tests {
		if got := envPrefix(in); got != want {
			t.Errorf("envPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("PROCESS_GRACE_PERIOD")
	want := []string{"process_grace_period", "process.grace.period", "process.grace_period", "process_grace.period"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant %d = %q, want %q", i, got[i], want[i])
		}
	}
	if got := generateEnvKeyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("single part: %v", got)
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("APP")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "APP" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
