package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeConnectionFailed, true},
		{ErrCodeServiceUnavailable, true},
		{ErrCodeCanceled, false},
		{ErrCodeInvalidInput, false},
		{ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			err := New(tc.code, "msg")
			if err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v for %s", tc.retryable, tc.code)
			}
		})
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := Validation("bad value")
	if got := err.Error(); got != "INVALID_INPUT: bad value" {
		t.Errorf("unexpected error string %q", got)
	}

	cause := fmt.Errorf("boom")
	err = Internal(cause)
	if !strings.Contains(err.Error(), "cause: boom") {
		t.Errorf("expected cause in error string, got %q", err.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	sentinel := stderrors.New("dial refused")
	err := Canceled("upload", sentinel)
	if !stderrors.Is(err, sentinel) {
		t.Error("expected errors.Is to reach the cause")
	}
	if err.Details["operation"] != "upload" {
		t.Errorf("expected operation detail, got %v", err.Details)
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := New(ErrCodeConnectionFailed, "remote").WithDetail("status", 502).WithCause(stderrors.New("x"))
	if err.Details["status"] != 502 {
		t.Errorf("expected status detail, got %v", err.Details)
	}
	if err.Cause == nil {
		t.Error("expected cause to be set")
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", ServiceUnavailable("uploads"))

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError through wrapping")
	}
	if appErr.Code != ErrCodeServiceUnavailable {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %s", appErr.Code)
	}
	if !IsAppError(wrapped) {
		t.Error("IsAppError should be true")
	}
	if !HasCode(wrapped, ErrCodeServiceUnavailable) {
		t.Error("HasCode should match")
	}
	if HasCode(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("plain errors carry no code")
	}
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
}

func TestMissingField(t *testing.T) {
	err := MissingField("base_url")
	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if err.Details["field"] != "base_url" {
		t.Errorf("expected field detail, got %v", err.Details)
	}
}
