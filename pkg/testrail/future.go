package testrail

import (
	"context"
	"sync"
)

// Future is a single-assignment result of an API call. It settles exactly once,
// either with the raw response body or with an error.
type Future struct {
	done chan struct{}
	once sync.Once
	body string
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// rejected returns a future that has already failed with err.
func rejected(err error) *Future {
	f := newFuture()
	f.reject(err)
	return f
}

func (f *Future) resolve(body string) {
	f.once.Do(func() {
		f.body = body
		close(f.done)
	})
}

func (f *Future) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the future settles.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the future settles or ctx is done. Giving up on ctx does not
// cancel the underlying request; pass the same ctx to the call for that.
func (f *Future) Await(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.body, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Wait blocks until the future settles.
func (f *Future) Wait() (string, error) {
	<-f.done
	return f.body, f.err
}
