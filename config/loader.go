package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kbukum/shellkit/env"
	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/logger"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return env.Load(path)
}

func (rfs *RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a program.
// Explicit paths win; otherwise standard locations are searched.
func (cr *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findConfigFile(name)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findEnvFile(name)
	}
	return resolved
}

// findConfigFile searches the working directory, then the user config dir.
func (cr *Resolver) findConfigFile(name string) string {
	searchPaths := []string{
		fmt.Sprintf("./%s.yml", name),
		fmt.Sprintf("./%s.yaml", name),
		fmt.Sprintf("./config/%s.yml", name),
		"./config/config.yml",
		"./config.yml",
	}
	if dir, err := cr.FileSystem.UserConfigDir(); err == nil && dir != "" {
		searchPaths = append(searchPaths,
			filepath.Join(dir, name, "config.yml"),
			filepath.Join(dir, name, "config.yaml"),
		)
	}

	for _, path := range searchPaths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files next to the likely config locations.
func (cr *Resolver) findEnvFile(name string) string {
	envFiles := []string{fmt.Sprintf(".env.%s", name), ".env"}
	for _, envFile := range envFiles {
		for _, base := range []string{".", "./config"} {
			path := base + "/" + envFile
			if cr.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	// EnvPrefix selects the environment variables bound into the config.
	// Defaults to the upper-cased program name, e.g. "SHELLKIT".
	EnvPrefix string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the prefix of bound environment variables.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// LoadConfig loads configuration for the named program into cfg.
//
// Sources, lowest precedence first: the YAML config file, the .env file,
// then the process environment. PREFIX_LOGGING_LEVEL sets logging.level.
func LoadConfig(name string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.EnvPrefix == "" {
		lc.EnvPrefix = envPrefix(name)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)

	return loadFromResolvedFiles(name, cfg, files, lc)
}

func loadFromResolvedFiles(name string, cfg any, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()
	log := logger.WithComponent("config")

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return apperrors.InvalidInput("config_file", err.Error()).
				WithCause(err).WithDetail("path", files.ConfigFile)
		}
		log.Debug("config file loaded", logger.Fields(logger.FieldPath, files.ConfigFile))
	}

	// .env values never override variables already set in the environment.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load .env file", logger.Fields(logger.FieldPath, files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	bindEnvVars(v, lc.EnvPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return apperrors.InvalidInput("config", fmt.Sprintf("cannot decode config for %s", name)).WithCause(err)
	}
	return nil
}

// envPrefix turns "my-tool" into "MY_TOOL".
func envPrefix(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

// bindEnvVars sets every PREFIX_* variable into v under each key it could
// stand for, since underscores are ambiguous between nesting and key names.
func bindEnvVars(v *viper.Viper, prefix string, environ []string) {
	prefix = strings.TrimSuffix(prefix, "_") + "_"
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, variant := range generateEnvKeyVariants(strings.TrimPrefix(key, prefix)) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates all possible key variants for an
// environment variable name.
//
//	LOGGING_LEVEL          -> [logging_level, logging.level]
//	PROCESS_GRACE_PERIOD   -> [process_grace_period, process.grace.period, process.grace_period, process_grace.period]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Every single split point: a.b_c, a_b.c, ...
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], "_")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}
	// Nested prefix with an underscored leaf: a.b.c_d
	for i := 1; i < len(parts)-1; i++ {
		prefix := strings.Join(parts[:i+1], ".")
		suffix := strings.Join(parts[i+1:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}
