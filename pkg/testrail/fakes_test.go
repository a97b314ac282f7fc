package testrail

import (
	"context"
	"sync"
	"testing"

	"github.com/Adda-Baaj/testrail-gateway/pkg/httpclient"
)

type fakeResponse struct {
	status int
	body   []byte
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.status }

// recordingTransport captures requests and answers with a fixed response.
type recordingTransport struct {
	mu     sync.Mutex
	reqs   []httpclient.Request
	status int
	body   string
	err    error
}

func (r *recordingTransport) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	r.mu.Lock()
	r.reqs = append(r.reqs, req)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	status := r.status
	if status == 0 {
		status = 200
	}
	return fakeResponse{status: status, body: []byte(r.body)}, nil
}

func (r *recordingTransport) requests() []httpclient.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]httpclient.Request, len(r.reqs))
	copy(out, r.reqs)
	return out
}

func newTestClient(t *testing.T, transport httpclient.Client, observers ...Observer) *Client {
	t.Helper()
	c, err := New(Options{
		BaseURL:    "https://example.testrail.io",
		Username:   "user",
		Password:   "secret",
		HTTPClient: transport,
		Observers:  observers,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}
