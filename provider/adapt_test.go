package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type wireRequest struct {
	Path   string
	Chunks []string
}

type wireResponse struct {
	Status int
	Chunks []string
}

type stubBackend struct {
	available bool
	calls     int
	execFn    func(ctx context.Context, in wireRequest) (wireResponse, error)
}

func (s *stubBackend) Name() string                       { return "wire" }
func (s *stubBackend) IsAvailable(_ context.Context) bool { return s.available }
func (s *stubBackend) Execute(ctx context.Context, in wireRequest) (wireResponse, error) {
	s.calls++
	return s.execFn(ctx, in)
}

func echoBackend() *stubBackend {
	return &stubBackend{
		available: true,
		execFn: func(_ context.Context, in wireRequest) (wireResponse, error) {
			return wireResponse{Status: 200, Chunks: in.Chunks}, nil
		},
	}
}

func splitIn(_ context.Context, body string) (wireRequest, error) {
	if body == "" {
		return wireRequest{}, errors.New("empty body")
	}
	return wireRequest{Path: "/echo", Chunks: strings.Split(body, ",")}, nil
}

func joinOut(_ context.Context, out wireResponse) (string, error) {
	if out.Status != 200 {
		return "", errors.New("unexpected status")
	}
	return strings.Join(out.Chunks, ""), nil
}

func TestAdapt(t *testing.T) {
	backendErr := errors.New("stream reset")

	tests := []struct {
		name      string
		backend   *stubBackend
		input     string
		want      string
		wantErr   string
		wantCalls int
	}{
		{name: "maps both ways", backend: echoBackend(), input: "ab,cd,ef", want: "abcdef", wantCalls: 1},
		{name: "mapIn error skips backend", backend: echoBackend(), input: "", wantErr: "empty body", wantCalls: 0},
		{
			name: "backend error returned unchanged",
			backend: &stubBackend{available: true, execFn: func(context.Context, wireRequest) (wireResponse, error) {
				return wireResponse{}, backendErr
			}},
			input:     "x",
			wantErr:   backendErr.Error(),
			wantCalls: 1,
		},
		{
			name: "mapOut error",
			backend: &stubBackend{available: true, execFn: func(context.Context, wireRequest) (wireResponse, error) {
				return wireResponse{Status: 503}, nil
			}},
			input:     "x",
			wantErr:   "unexpected status",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapted := Adapt[string, string, wireRequest, wireResponse](tt.backend, "chunks", splitIn, joinOut)

			got, err := adapted.Execute(context.Background(), tt.input)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if tt.backend.calls != tt.wantCalls {
				t.Errorf("expected %d backend calls, got %d", tt.wantCalls, tt.backend.calls)
			}
		})
	}
}

func TestAdapt_NameAndAvailability(t *testing.T) {
	backend := &stubBackend{available: false}
	adapted := Adapt[string, string, wireRequest, wireResponse](backend, "chunks", splitIn, joinOut)

	if adapted.Name() != "chunks" {
		t.Errorf("expected name 'chunks', got %q", adapted.Name())
	}
	if adapted.IsAvailable(context.Background()) {
		t.Error("expected availability to follow the backend")
	}
}

func TestAdapt_ComposesWithResilience(t *testing.T) {
	backend := echoBackend()
	resilient := WithResilience[wireRequest, wireResponse](backend, ResilienceConfig{})
	adapted := Adapt[string, string, wireRequest, wireResponse](resilient, "composed", splitIn, joinOut)

	got, err := adapted.Execute(context.Background(), "x,y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "xy" {
		t.Errorf("expected 'xy', got %q", got)
	}
}
