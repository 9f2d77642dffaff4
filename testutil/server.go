package testutil

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/h2bridge/component"
)

// NewH2CServer starts a cleartext HTTP/2 server running handler and closes
// it when the test ends. Clients must speak prior-knowledge h2c.
func NewH2CServer(t testing.TB, handler http.Handler, h2 *http2.Server) *httptest.Server {
	t.Helper()
	if h2 == nil {
		h2 = &http2.Server{}
	}
	srv := httptest.NewUnstartedServer(h2c.NewHandler(handler, h2))
	srv.EnableHTTP2 = false
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

// NewH2TLSServer starts an HTTP/2 server over TLS presenting certs.Leaf and
// offering only "h2" via ALPN. With http1Only it offers only "http/1.1",
// which an HTTP/2 client must reject.
func NewH2TLSServer(t testing.TB, handler http.Handler, certs *Certs, http1Only bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewUnstartedServer(handler)
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{certs.Leaf}}
	if http1Only {
		srv.TLS.NextProtos = []string{"http/1.1"}
	} else {
		srv.EnableHTTP2 = true
	}
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

// StartComponent starts c and stops it when the test ends.
func StartComponent(t testing.TB, c component.Component) {
	t.Helper()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("starting %s: %v", c.Name(), err)
	}
	t.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			t.Errorf("stopping %s: %v", c.Name(), err)
		}
	})
}
