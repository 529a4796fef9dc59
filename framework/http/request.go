package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with small lookup helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// Context returns the request context.
func (req *Request) Context() context.Context { return req.raw.Context() }

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryAll returns every query-string key with its first value.
func (req *Request) QueryAll() map[string]string {
	out := make(map[string]string)
	for k, v := range req.raw.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }
