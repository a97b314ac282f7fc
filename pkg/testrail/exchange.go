package testrail

import (
	"context"
	"strings"
	"time"
)

// Exchange records one completed call against the API.
type Exchange struct {
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	Operation  string        `json:"operation"`
	StatusCode int           `json:"status_code"`
	OK         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
	BodyBytes  int           `json:"body_bytes"`
	Duration   time.Duration `json:"duration"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Write reports whether the exchange modified remote state.
func (e Exchange) Write() bool {
	return strings.EqualFold(e.Method, "POST")
}

// Observer is notified of every exchange before the call's future settles.
type Observer interface {
	Observe(ctx context.Context, ex Exchange)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ex Exchange)

// Observe calls fn(ctx, ex).
func (fn ObserverFunc) Observe(ctx context.Context, ex Exchange) { fn(ctx, ex) }

// operationName extracts the endpoint name ("get_cases") from a relative path.
func operationName(path string) string {
	end := len(path)
	if i := strings.IndexAny(path, "/&"); i >= 0 {
		end = i
	}
	return path[:end]
}
