package order

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries a fresh id per request so venue logs can be
// matched with ours.
const RequestIDHeader = "X-Request-ID"

type tagTransport struct {
	agent string
	base  http.RoundTripper
}

func (t tagTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.agent != "" {
		req.Header.Set("User-Agent", t.agent)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return t.base.RoundTrip(req)
}
