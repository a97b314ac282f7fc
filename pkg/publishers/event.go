package publishers

import (
	"time"

	"github.com/Adda-Baaj/testrail-gateway/pkg/testrail"
)

// Event represents the payload published downstream for one API exchange.
type Event struct {
	Operation   string    `json:"operation"`
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	StatusCode  int       `json:"status_code"`
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	OccurredAt  time.Time `json:"occurred_at"`
	PublishedAt time.Time `json:"published_at"`
}

// NewEvent constructs an Event for the given exchange.
func NewEvent(ex testrail.Exchange) Event {
	return Event{
		Operation:   ex.Operation,
		Method:      ex.Method,
		Path:        ex.Path,
		StatusCode:  ex.StatusCode,
		OK:          ex.OK,
		Error:       ex.Error,
		DurationMS:  ex.Duration.Milliseconds(),
		OccurredAt:  ex.OccurredAt,
		PublishedAt: time.Now().UTC(),
	}
}
