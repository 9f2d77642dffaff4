package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/h2bridge/bootstrap"
	"github.com/kbukum/h2bridge/client"
	"github.com/kbukum/h2bridge/logger"
	"github.com/kbukum/h2bridge/provider"
	"github.com/kbukum/h2bridge/resilience"
	"github.com/kbukum/h2bridge/testutil"
)

// echo replies with the request body followed by "|" and the request's
// X-Checksum trailer, and sends the body length as the X-Length trailer.
func echo(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Request-Id") == "" {
		http.Error(w, "missing request id", http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Trailer", "X-Length")
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("|" + r.Trailer.Get("X-Checksum")))
	w.Header().Set("X-Length", "6")
}

func testConfig(addr string, mode client.Mode) *Config {
	return &Config{
		Client: client.Config{Address: addr, Mode: mode},
		Request: RequestConfig{
			Path:     "/echo",
			Body:     "abcdef",
			Trailers: map[string]string{"x-checksum": "c0ffee"},
		},
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{Client: client.Config{Address: "localhost:8080"}}
	cfg.ApplyDefaults()

	if cfg.Name != "h2bridge" || cfg.Client.Name != "h2bridge" {
		t.Errorf("names = %q, %q", cfg.Name, cfg.Client.Name)
	}
	if cfg.Request.Method != http.MethodGet || cfg.Request.Path != "/" {
		t.Errorf("request = %s %s", cfg.Request.Method, cfg.Request.Path)
	}
	if cfg.Version == "" || cfg.Tracing.ServiceVersion != cfg.Version {
		t.Errorf("version = %q, tracing version = %q", cfg.Version, cfg.Tracing.ServiceVersion)
	}
	if cfg.Tracing.ServiceName != "h2bridge" || cfg.Metrics.Environment != "development" {
		t.Errorf("telemetry defaults = %+v / %+v", cfg.Tracing, cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	withBody := &Config{Request: RequestConfig{Body: "x", Method: "put"}}
	withBody.ApplyDefaults()
	if withBody.Request.Method != http.MethodPut {
		t.Errorf("method = %q, want PUT", withBody.Request.Method)
	}

	posted := &Config{Request: RequestConfig{Body: "x"}}
	posted.ApplyDefaults()
	if posted.Request.Method != http.MethodPost {
		t.Errorf("method = %q, want POST", posted.Request.Method)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing address", mutate: func(c *Config) { c.Client.Address = "" }},
		{name: "relative path", mutate: func(c *Config) { c.Request.Path = "echo" }},
		{name: "body and body file", mutate: func(c *Config) { c.Request.BodyFile = "-" }},
		{name: "bad environment", mutate: func(c *Config) { c.Environment = "qa" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("localhost:8080", client.ModeNative)
			tt.mutate(cfg)
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestRequestConfig_Header(t *testing.T) {
	r := RequestConfig{Header: map[string]string{"content-type": "text/plain"}}
	h := r.header("id-1")
	if h.Get("Content-Type") != "text/plain" || h.Get("X-Request-Id") != "id-1" {
		t.Errorf("header = %v", h)
	}

	r.Header["x-request-id"] = "fixed"
	if got := r.header("id-2").Get("X-Request-Id"); got != "fixed" {
		t.Errorf("X-Request-Id = %q, want configured value", got)
	}
	if !strings.HasPrefix(h.Get("User-Agent"), "h2bridge/") {
		t.Errorf("User-Agent = %q", h.Get("User-Agent"))
	}
	if r.trailers() != nil {
		t.Error("expected nil trailers when none configured")
	}
}

func TestReadChunks(t *testing.T) {
	tests := []struct {
		in   string
		size int
		want []string
	}{
		{in: "", size: 4, want: nil},
		{in: "abcdef", size: 4, want: []string{"abcd", "ef"}},
		{in: "abcd", size: 2, want: []string{"ab", "cd"}},
	}
	for _, tt := range tests {
		chunks, err := readChunks(strings.NewReader(tt.in), tt.size)
		if err != nil {
			t.Fatalf("readChunks(%q): %v", tt.in, err)
		}
		if got := testutil.ChunkStrings(chunks); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("readChunks(%q, %d) = %q, want %q", tt.in, tt.size, got, tt.want)
		}
	}
}

func TestExecute(t *testing.T) {
	srv := testutil.NewH2CServer(t, http.HandlerFunc(echo), nil)

	tests := []struct {
		mode     client.Mode
		wantBody string
	}{
		{mode: client.ModeNative, wantBody: "abcdef|c0ffee"},
		// The lifted path drops request trailers.
		{mode: client.ModeLifted, wantBody: "abcdef|"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cfg := testConfig(srv.Listener.Addr().String(), tt.mode)
			cfg.Request.Timeout = 5 * time.Second

			err := execute(context.Background(), cfg, nil, &stdout, &stderr, bootstrap.WithLogger(logger.Nop()))
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if got := stdout.String(); got != tt.wantBody {
				t.Errorf("stdout = %q, want %q", got, tt.wantBody)
			}
			out := stderr.String()
			if !strings.Contains(out, "HTTP/2.0 200 OK") || !strings.Contains(out, "trailer X-Length: 6") {
				t.Errorf("stderr = %q", out)
			}
		})
	}
}

func TestExecute_BodyFromStdin(t *testing.T) {
	srv := testutil.NewH2CServer(t, http.HandlerFunc(echo), nil)
	cfg := testConfig(srv.Listener.Addr().String(), client.ModeLifted)
	cfg.Request.Body = ""
	cfg.Request.BodyFile = "-"
	cfg.Client.ChunkSize = 2

	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), cfg, strings.NewReader("from stdin"), &stdout, &stderr, bootstrap.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := stdout.String(); got != "from stdin|" {
		t.Errorf("stdout = %q", got)
	}
}

func TestExecute_ConnectionRefused(t *testing.T) {
	srv := testutil.NewH2CServer(t, http.HandlerFunc(echo), nil)
	addr := srv.Listener.Addr().String()
	srv.Close()

	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), testConfig(addr, client.ModeNative), nil, &stdout, &stderr, bootstrap.WithLogger(logger.Nop()))
	if err == nil || !strings.Contains(err.Error(), "CONNECTION_FAILED") {
		t.Fatalf("err = %v, want connection failure", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestExecute_WithResilience(t *testing.T) {
	srv := testutil.NewH2CServer(t, http.HandlerFunc(echo), nil)
	cfg := testConfig(srv.Listener.Addr().String(), client.ModeNative)
	cfg.Resilience = provider.ResilienceConfig{
		CircuitBreaker: &resilience.CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Second},
		RateLimiter:    &resilience.RateLimiterConfig{Rate: 1, Burst: 1},
	}

	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), cfg, nil, &stdout, &stderr, bootstrap.WithLogger(logger.Nop())); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := stdout.String(); got != "abcdef|c0ffee" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	srv := testutil.NewH2CServer(t, http.HandlerFunc(echo), nil)

	path := filepath.Join(t.TempDir(), "config.yml")
	yaml := "name: h2bridge-test\n" +
		"logging:\n  level: error\n" +
		"client:\n  address: " + srv.Listener.Addr().String() + "\n  mode: lifted\n" +
		"request:\n  path: /echo\n  body: hello\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	defer logger.SetGlobalLogger(logger.Nop())

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{path}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := stdout.String(); got != "hello|" {
		t.Errorf("stdout = %q", got)
	}
	if !strings.Contains(stderr.String(), "h2bridge-test") {
		t.Errorf("summary missing service name: %q", stderr.String())
	}
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"version"}, nil, &stdout, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "h2bridge dev") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_NoAddress(t *testing.T) {
	err := run(context.Background(), []string{filepath.Join(t.TempDir(), "absent.yml")}, nil, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected validation error without a client address")
	}
}
