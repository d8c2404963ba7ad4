package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Status() string
	Header() http.Header
}

// Request describes a single outbound call.
type Request struct {
	Method  string
	URL     string
	Params  url.Values
	Body    any
	Headers map[string]string
	// Timeout bounds the whole exchange. Zero means no deadline.
	Timeout time.Duration
	// VerifyTLS selects certificate validation for https targets.
	VerifyTLS bool
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
