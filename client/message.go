package client

import (
	"net/http"
	"net/url"

	"github.com/kbukum/h2bridge/observability"
)

// Request is an HTTP request whose body is of type B.
//
// Trailers produced by the body are sent after the data. List their names
// in the Trailer header to announce them up front.
type Request[B any] struct {
	Method string
	// URL may omit scheme and host; the sender fills them in from its
	// configuration.
	URL    *url.URL
	Header http.Header
	Body   B
}

// NewRequest builds a request for target, which may be an absolute URL or a
// path.
func NewRequest[B any](method, target string, b B) (*Request[B], error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = http.MethodGet
	}
	return &Request[B]{
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
	}, nil
}

// Attributes reports the method and path for logs and spans.
func (r *Request[B]) Attributes() map[string]any {
	attrs := map[string]any{observability.AttrHTTPMethod: r.Method}
	if r.URL != nil {
		attrs[observability.AttrURLPath] = r.URL.Path
	}
	return attrs
}

// MapRequest returns a copy of r with its body transformed by f.
func MapRequest[A, B any](r *Request[A], f func(A) B) *Request[B] {
	return &Request[B]{
		Method: r.Method,
		URL:    r.URL,
		Header: r.Header,
		Body:   f(r.Body),
	}
}

// Response is an HTTP response whose body is of type B.
type Response[B any] struct {
	Status     string
	StatusCode int
	Proto      string
	Header     http.Header
	// ContentLength is -1 when unknown.
	ContentLength int64
	Body          B
}

// MapResponse returns a copy of r with its body transformed by f.
func MapResponse[A, B any](r *Response[A], f func(A) B) *Response[B] {
	return &Response[B]{
		Status:        r.Status,
		StatusCode:    r.StatusCode,
		Proto:         r.Proto,
		Header:        r.Header,
		ContentLength: r.ContentLength,
		Body:          f(r.Body),
	}
}

// Attributes reports the status code and protocol for logs and spans.
func (r *Response[B]) Attributes() map[string]any {
	return map[string]any{
		observability.AttrHTTPStatus: r.StatusCode,
		observability.AttrProtocol:   r.Proto,
	}
}
