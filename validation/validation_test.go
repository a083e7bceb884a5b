package validation

import (
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/shellkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"sh", false},
		{"", true},
		{"   ", true},
	}
	for _, tc := range tests {
		v := New().Required("interpreter", tc.value)
		if v.HasErrors() != tc.wantErr {
			t.Errorf("Required(%q) errors = %v, want %v", tc.value, v.Errors(), tc.wantErr)
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"json", "console"}
	if New().OneOf("format", "json", allowed).HasErrors() {
		t.Error("json should be allowed")
	}
	if New().OneOf("format", "", allowed).HasErrors() {
		t.Error("empty value should be skipped")
	}
	v := New().OneOf("format", "xml", allowed)
	if !v.HasErrors() || !strings.Contains(v.Errors()[0].Message, "json, console") {
		t.Errorf("unexpected errors %v", v.Errors())
	}
}

func TestValidatorNonNegativeAndBetween(t *testing.T) {
	v := New().
		NonNegative("grace", time.Second).
		NonNegative("timeout", -time.Second).
		Between("rate", 0.5, 0, 1).
		Between("ratio", 2, 0, 1)
	errs := v.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Field != "timeout" || errs[1].Field != "ratio" {
		t.Errorf("unexpected fields %v", errs)
	}
}

func TestValidatorCheckAndNested(t *testing.T) {
	v := New().
		Check(true, "a", "never").
		Check(false, "b", "always").
		Nested("logging", func() error { return nil }).
		Nested("process", func() error { return New().Required("interpreter", "").Err() })
	errs := v.Errors()
	if len(errs) != 2 || errs[0].Field != "b" || errs[1].Field != "process" {
		t.Fatalf("unexpected errors %v", errs)
	}
	if !strings.Contains(errs[1].Message, "interpreter: is required") {
		t.Errorf("nested message lost: %q", errs[1].Message)
	}
}

func TestValidatorErr(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	err := New().Required("name", "").Required("dir", "").Err()
	if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !strings.Contains(err.Error(), "name: is required; dir: is required") {
		t.Errorf("unexpected message %q", err.Error())
	}
	appErr, _ := apperrors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected fields detail, got %v", appErr.Details)
	}
}

type nested struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info"`
}

type sample struct {
	Name      string        `mapstructure:"name" validate:"required"`
	Workers   int           `mapstructure:"workers" validate:"gte=1,lte=8"`
	TempDir   string        `mapstructure:"temp_dir" validate:"omitempty,dir"`
	Logging   nested        `mapstructure:"logging"`
	WaitDelay time.Duration `validate:"gte=0"`
}

func TestStructValid(t *testing.T) {
	s := sample{Name: "x", Workers: 2, TempDir: t.TempDir(), Logging: nested{Level: "info"}}
	if err := Struct(&s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructInvalid(t *testing.T) {
	s := sample{Workers: 9, TempDir: "/definitely/not/here", Logging: nested{Level: "loud"}, WaitDelay: -1}
	err := Struct(&s)
	if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{
		"name: is required",
		"workers: must be less than or equal to 8",
		"temp_dir: must be an existing directory",
		"logging.level: must be one of: debug info",
		"wait_delay: must be greater than or equal to 0",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":           "name",
		"GracePeriod":    "grace_period",
		"MetricInterval": "metric_interval",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
