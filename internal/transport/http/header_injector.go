package http

import (
	"net/http"
)

// HeaderInjector is a custom http.RoundTripper that adds a fixed set of headers to every request.
// Header names are canonicalized; a header already present on the request is replaced.
type HeaderInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// headers are applied to each outgoing request.
	headers http.Header
}

// NewHeaderInjector creates and returns a new instance of HeaderInjector.
func NewHeaderInjector(next http.RoundTripper, headers map[string]string) http.RoundTripper {
	converted := make(http.Header, len(headers))
	for name, value := range headers {
		converted.Set(name, value)
	}

	return &HeaderInjector{
		next:    next,
		headers: converted,
	}
}

// RoundTrip executes a single HTTP transaction with the configured headers applied.
// It implements the http.RoundTripper interface.
func (t *HeaderInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if len(t.headers) == 0 {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())

	for name, values := range t.headers {
		req.Header[name] = append([]string(nil), values...)
	}

	return t.next.RoundTrip(req)
}
