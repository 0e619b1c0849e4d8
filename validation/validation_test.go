package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/rxhttp/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("method", "GET")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("method", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("method", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorMin(t *testing.T) {
	v := New()
	v.Min("files", 1, 1)
	if v.HasErrors() {
		t.Error("expected no error at the minimum")
	}

	v2 := New()
	v2.Min("files", 0, 1)
	if !v2.HasErrors() {
		t.Error("expected error below the minimum")
	}
}

func TestValidatorOneOf(t *testing.T) {
	methods := []string{"POST", "PUT"}

	v := New()
	v.OneOf("method", "POST", methods)
	v.OneOf("method", "", methods)
	if v.HasErrors() {
		t.Errorf("expected no errors, got %v", v.Errors())
	}

	v2 := New()
	v2.OneOf("method", "GET", methods)
	if !v2.HasErrors() {
		t.Fatal("expected error for value outside the set")
	}
	if !strings.Contains(v2.Errors()[0].Message, "POST, PUT") {
		t.Errorf("expected allowed values in message, got %q", v2.Errors()[0].Message)
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "file", "never")
	if v.HasErrors() {
		t.Error("expected no error for passing condition")
	}

	v2 := New()
	v2.Custom(false, "file", "has no content")
	if !v2.HasErrors() {
		t.Fatal("expected error for failing condition")
	}
	if v2.Errors()[0].Message != "has no content" {
		t.Errorf("expected 'has no content', got %q", v2.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	v.Required("method", "POST")
	if appErr := v.Validate(); appErr != nil {
		t.Error("expected nil for valid input")
	}
	if err := v.Err(); err != nil {
		t.Errorf("expected nil error interface, got %v", err)
	}

	v2 := New()
	v2.Required("method", "")
	v2.Required("path", "")
	appErr := v2.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected %s, got %s", errors.ErrCodeInvalidInput, appErr.Code)
	}
	if appErr.Details == nil {
		t.Fatal("expected details in error")
	}
	if !strings.Contains(appErr.Message, "method") || !strings.Contains(appErr.Message, "path") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("method", "POST").Min("files", 2, 1).OneOf("method", "POST", []string{"POST"})
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

type limits struct {
	RPS   float64 `mapstructure:"rps" validate:"gte=0"`
	Burst int     `mapstructure:"burst" validate:"gte=0"`
}

type endpoint struct {
	BaseURL   string `mapstructure:"base_url" validate:"omitempty,url"`
	Name      string `mapstructure:"name" validate:"required"`
	RateLimit limits `mapstructure:"rate_limit"`
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(endpoint{BaseURL: "https://api.example.com", Name: "api"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input endpoint
		field string
		msg   string
	}{
		{"missing name", endpoint{}, "name", "is required"},
		{"bad url", endpoint{Name: "api", BaseURL: "not a url"}, "base_url", "must be a valid URL"},
		{"nested key", endpoint{Name: "api", RateLimit: limits{Burst: -1}}, "rate_limit.burst", "must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			fields, _ := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 {
				t.Fatalf("expected one field error, got %v", fields)
			}
			if fields[0].Field != tt.field || fields[0].Message != tt.msg {
				t.Errorf("expected %s %q, got %s %q", tt.field, tt.msg, fields[0].Field, fields[0].Message)
			}
		})
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("name", "value"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("name", ""); err == nil {
		t.Error("expected error for empty required field")
	}
}

func TestToSnakeCase(t *testing.T) {
	for in, want := range map[string]string{"Timeout": "timeout", "Name": "name", "RateLimit": "rate_limit"} {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
