package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/h2bridge/errors"
)

type endpoint struct {
	Address string `mapstructure:"address" validate:"required,hostname_port"`
	Mode    string `mapstructure:"mode" validate:"omitempty,oneof=native lifted"`
	Chunk   int    `mapstructure:"chunk_size" validate:"gte=0"`
	Nested  nested `mapstructure:"tls"`
}

type nested struct {
	ServerName string `validate:"omitempty,hostname"`
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(&endpoint{Address: "localhost:8080", Mode: "lifted"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FieldNamesFromMapstructure(t *testing.T) {
	err := Validate(&endpoint{Mode: "other", Chunk: -1})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}

	for _, want := range []string{"address: is required", "mode: must be one of: native lifted", "chunk_size: must be at least 0"} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("expected %q in %q", want, appErr.Message)
		}
	}

	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %#v", appErr.Details["fields"])
	}
}

func TestValidate_HostPort(t *testing.T) {
	err := Validate(&endpoint{Address: "no-port"})
	if err == nil || !strings.Contains(err.Error(), "address: must be host:port") {
		t.Fatalf("expected host:port error, got %v", err)
	}
}

func TestValidate_NestedUsesSnakeCaseFallback(t *testing.T) {
	err := Validate(&endpoint{Address: "localhost:1", Nested: nested{ServerName: "not a host!"}})
	if err == nil || !strings.Contains(err.Error(), "tls.server_name") {
		t.Fatalf("expected nested field path, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Address":           "address",
		"ReadyPollInterval": "ready_poll_interval",
		"x":                 "x",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
