package testrail

import "errors"

// ErrNon200Response is reported for every failed call, whether the server answered
// with a status other than 200 or the request never completed.
var ErrNon200Response = errors.New("received non-200 response")

// ErrEmptyBaseURL is returned by New when no base URL is configured.
var ErrEmptyBaseURL = errors.New("testrail base url is empty")

// RequestError describes a failed call. Its message is always the generic
// ErrNon200Response text; the response body is logged, not carried here.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int // zero when the transport failed
	Err        error
}

func (e *RequestError) Error() string { return ErrNon200Response.Error() }

// Unwrap exposes the transport error, if any.
func (e *RequestError) Unwrap() error { return e.Err }

// Is reports ErrNon200Response as matching every RequestError.
func (e *RequestError) Is(target error) bool { return target == ErrNon200Response }
