// Package env is the environment-variable collaborator: get, set, unset and
// list string-keyed variables of the current process, plus loading .env
// files the same way the config package does.
package env

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kbukum/shellkit/errors"
)

// Var is a single environment variable.
type Var struct {
	Key   string
	Value string
}

// Get returns the value of key, or "" when it is unset.
func Get(key string) string {
	return os.Getenv(key)
}

// Need returns the value of key and whether it is set.
func Need(key string) (string, bool) {
	return os.LookupEnv(key)
}

// GetOr returns the value of key, or def when it is unset or empty.
func GetOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Set exports key=value into the process environment.
func Set(key, value string) error {
	if key == "" || strings.ContainsRune(key, '=') {
		return errors.InvalidInput("key", "environment key must be non-empty and must not contain '='")
	}
	if err := os.Setenv(key, value); err != nil {
		return errors.Internal(err).WithDetail("key", key)
	}
	return nil
}

// Unset removes key from the process environment.
func Unset(key string) error {
	if err := os.Unsetenv(key); err != nil {
		return errors.Internal(err).WithDetail("key", key)
	}
	return nil
}

// List returns every variable of the process environment sorted by key.
func List() []Var {
	environ := os.Environ()
	vars := make([]Var, 0, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars = append(vars, Var{Key: key, Value: value})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Key < vars[j].Key })
	return vars
}

// Load reads .env files into the process environment. Variables that are
// already set keep their values.
func Load(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.FromOS("load-env", strings.Join(paths, ","), err)
	}
	return nil
}

// Read parses a .env file without touching the process environment.
func Read(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.FromOS("read-env", path, err)
	}
	return vars, nil
}
