package client_test

import (
	"context"
	"crypto/tls"
	"net/http"
	"path/filepath"
	"testing"

	"golang.org/x/net/http2"

	"github.com/kbukum/h2bridge/body"
	"github.com/kbukum/h2bridge/client"
	goerrors "github.com/kbukum/h2bridge/errors"
	"github.com/kbukum/h2bridge/logger"
	"github.com/kbukum/h2bridge/testutil"
)

func TestTLSConfig_BuildDisabled(t *testing.T) {
	cfg := client.TLSConfig{CAFile: "ignored.pem"}
	got, err := cfg.Build()
	if err != nil || got != nil {
		t.Fatalf("Build() = %v, %v; want nil, nil", got, err)
	}
}

func TestTLSConfig_Build(t *testing.T) {
	certs := testutil.GenerateCerts(t)
	cfg := client.TLSConfig{
		Enabled:    true,
		ServerName: "localhost",
		CAFile:     certs.CAFile,
		CertFile:   certs.CertFile,
		KeyFile:    certs.KeyFile,
	}
	got, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", got.MinVersion)
	}
	if len(got.NextProtos) != 1 || got.NextProtos[0] != http2.NextProtoTLS {
		t.Errorf("NextProtos = %v", got.NextProtos)
	}
	if got.RootCAs == nil || len(got.Certificates) != 1 || got.ServerName != "localhost" {
		t.Errorf("incomplete config: roots=%v certs=%d name=%q", got.RootCAs != nil, len(got.Certificates), got.ServerName)
	}

	cfg.MinVersion = tls.VersionTLS13
	if got, _ := cfg.Build(); got.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %x, want TLS 1.3", got.MinVersion)
	}
}

func TestTLSConfig_BuildErrors(t *testing.T) {
	certs := testutil.GenerateCerts(t)
	tests := []struct {
		name string
		cfg  client.TLSConfig
	}{
		{name: "missing CA", cfg: client.TLSConfig{Enabled: true, CAFile: filepath.Join(t.TempDir(), "absent.pem")}},
		{name: "invalid CA", cfg: client.TLSConfig{Enabled: true, CAFile: testutil.WriteInvalidPEM(t)}},
		{name: "key mismatch", cfg: client.TLSConfig{Enabled: true, CertFile: certs.CertFile, KeyFile: certs.CAFile}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Build(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	cfg := client.TLSConfig{Enabled: true, CertFile: "cert.pem"}
	if err := cfg.Validate(); !goerrors.IsAppError(err) {
		t.Errorf("Validate() = %v, want AppError", err)
	}
}

func TestNewBuilder_BadCAFile(t *testing.T) {
	_, err := client.NewBuilder(client.Config{
		Address: "localhost:8443",
		TLS:     client.TLSConfig{Enabled: true, CAFile: testutil.WriteInvalidPEM(t)},
	})
	appErr, ok := goerrors.AsAppError(err)
	if !ok || appErr.Code != goerrors.ErrCodeInvalidInput {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func newTLSBuilder(t *testing.T, addr string, certs *testutil.Certs) *client.Builder {
	t.Helper()
	b, err := client.NewBuilder(client.Config{
		Name:    "tls",
		Address: addr,
		TLS:     client.TLSConfig{Enabled: true, CAFile: certs.CAFile},
	}, client.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func TestH2_TLSRoundTrip(t *testing.T) {
	certs := testutil.GenerateCerts(t)
	srv := testutil.NewH2TLSServer(t, http.HandlerFunc(echoHandler), certs, false)
	b := newTLSBuilder(t, srv.Listener.Addr().String(), certs)

	if b.Config().Scheme != "https" {
		t.Errorf("scheme = %q, want https", b.Config().Scheme)
	}

	ctx := context.Background()
	cc, err := b.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	conn := client.Native[*body.Chunks](b, cc)
	mustReady(t, conn)
	resp, err := conn.Call(ctx, mustRequest(t, fullBody("secure"))).Await(ctx)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	chunks, trailers, err := body.Collect(ctx, resp.Body)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got := joined(chunks); got != "got:secure" || resp.Proto != "HTTP/2.0" {
		t.Errorf("got %s %q", resp.Proto, got)
	}
	if got := trailers.Get("X-Length"); got != "6" {
		t.Errorf("trailer X-Length = %q", got)
	}
}

func TestH2_TLSWithoutH2(t *testing.T) {
	certs := testutil.GenerateCerts(t)
	srv := testutil.NewH2TLSServer(t, http.HandlerFunc(echoHandler), certs, true)
	b := newTLSBuilder(t, srv.Listener.Addr().String(), certs)

	_, err := b.Open(context.Background())
	appErr, ok := goerrors.AsAppError(err)
	if !ok || appErr.Code != goerrors.ErrCodeConnectionFailed {
		t.Fatalf("err = %v, want CONNECTION_FAILED", err)
	}
}
