package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/shellkit/errors"
)

func TestSetGetUnset(t *testing.T) {
	const key = "SHELLKIT_ENV_TEST_VAR"
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := Set(key, "value"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Get(key); got != "value" {
		t.Errorf("expected 'value', got %q", got)
	}
	if v, ok := Need(key); !ok || v != "value" {
		t.Errorf("Need returned %q, %v", v, ok)
	}
	if err := Unset(key); err != nil {
		t.Fatal(err)
	}
	if _, ok := Need(key); ok {
		t.Error("expected variable to be unset")
	}
	if got := GetOr(key, "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestSetRejectsInvalidKey(t *testing.T) {
	for _, key := range []string{"", "A=B"} {
		if err := Set(key, "x"); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Set(%q): expected INVALID_INPUT, got %v", key, err)
		}
	}
}

func TestListSortedAndContainsVar(t *testing.T) {
	t.Setenv("SHELLKIT_LIST_B", "2")
	t.Setenv("SHELLKIT_LIST_A", "1")

	vars := List()
	idxA, idxB := -1, -1
	for i, v := range vars {
		if i > 0 && vars[i-1].Key > v.Key {
			t.Fatalf("list not sorted at %d: %q > %q", i, vars[i-1].Key, v.Key)
		}
		switch v.Key {
		case "SHELLKIT_LIST_A":
			idxA = i
		case "SHELLKIT_LIST_B":
			idxB = i
		}
	}
	if idxA < 0 || idxB < 0 || idxA > idxB {
		t.Errorf("expected A before B, got %d and %d", idxA, idxB)
	}
}

func TestLoadAndRead(t *testing.T) {
	const key = "SHELLKIT_DOTENV_TEST"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	vars, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if vars[key] != "from-file" {
		t.Errorf("expected from-file, got %q", vars[key])
	}
	if _, ok := Need(key); ok {
		t.Fatal("Read must not modify the environment")
	}

	if err := Load(path); err != nil {
		t.Fatal(err)
	}
	if Get(key) != "from-file" {
		t.Errorf("expected loaded value, got %q", Get(key))
	}
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
