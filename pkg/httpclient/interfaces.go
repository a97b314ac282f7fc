package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Request describes a single outbound call. It is built per call and never reused.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is sent verbatim. A nil Body sends no payload.
	Body []byte
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
