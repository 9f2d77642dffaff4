package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	if err := New(ErrCodeTimeout, "timed out"); !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if err := New(ErrCodeInvalidInput, "bad"); err.Retryable {
		t.Error("INVALID_INPUT should not be retryable")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("upstream"), ErrCodeServiceUnavailable, true},
		{"ConnectionFailed", ConnectionFailed("localhost:8443"), ErrCodeConnectionFailed, true},
		{"Timeout", Timeout("dial"), ErrCodeTimeout, true},
		{"RateLimited", RateLimited(), ErrCodeRateLimited, true},
		{"InvalidInput", InvalidInput("address", "missing port"), ErrCodeInvalidInput, false},
		{"Validation", Validation("address: is required"), ErrCodeInvalidInput, false},
		{"Internal", Internal(nil), ErrCodeInternal, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_ConnectionFailed_Details(t *testing.T) {
	err := ConnectionFailed("localhost:8443")
	if err.Details["address"] != "localhost:8443" {
		t.Errorf("expected address detail, got %v", err.Details["address"])
	}
	if !strings.Contains(err.Error(), "localhost:8443") {
		t.Errorf("expected address in message, got %q", err.Error())
	}
}

func TestAppError_InvalidInput_EmptyField(t *testing.T) {
	err := InvalidInput("", "bad")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no 'field' key when field is empty")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ConnectionFailed("x").WithCause(cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !strings.Contains(err.Error(), "cause: connection refused") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := RateLimited().WithDetail("limiter", "h2bridge")
	if err.Details["limiter"] != "h2bridge" {
		t.Errorf("expected limiter detail, got %v", err.Details)
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := New(ErrCodeInternal, "boom")
	if got := err.Error(); got != "INTERNAL_ERROR: boom" {
		t.Errorf("unexpected format %q", got)
	}
}

func TestIsRetryableCode_Table(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeServiceUnavailable, true},
		{ErrCodeConnectionFailed, true},
		{ErrCodeTimeout, true},
		{ErrCodeRateLimited, true},
		{ErrCodeInvalidInput, false},
		{ErrCodeInternal, false},
		{ErrorCode("UNKNOWN"), false},
	}
	for _, tt := range tests {
		if got := IsRetryableCode(tt.code); got != tt.want {
			t.Errorf("IsRetryableCode(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	inner := Timeout("await")
	wrapped := fmt.Errorf("call failed: %w", inner)

	if !IsAppError(wrapped) {
		t.Fatal("expected IsAppError to see through wrapping")
	}
	got, ok := AsAppError(wrapped)
	if !ok || got != inner {
		t.Fatalf("expected the inner AppError, got %v, %v", got, ok)
	}
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not be an AppError")
	}
}
