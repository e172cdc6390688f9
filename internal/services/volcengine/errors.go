package volcengine

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"autosrt/internal/services"
)

// ErrPollExhausted is returned when MaxPollAttempts queries all reported the
// task as still in progress.
var ErrPollExhausted = errors.New("poll attempts exhausted")

// SubmissionError reports a submit response whose status header was not success.
type SubmissionError struct {
	TaskID     string
	StatusCode string
	Message    string
	HTTPStatus int
	Header     http.Header
	Body       string
}

func (e *SubmissionError) Error() string {
	msg := fmt.Sprintf("volcengine submit: status %q (http %d)", e.StatusCode, e.HTTPStatus)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if headers := e.ServiceHeaders(); headers != "" {
		msg += " [" + headers + "]"
	}
	if body := strings.TrimSpace(e.Body); body != "" && body != "{}" {
		msg += ": body " + body
	}
	return msg
}

// ServiceHeaders renders the X-Api-* and X-Tt-* response headers as sorted
// key=value pairs. Header values echoing the access key are never included.
func (e *SubmissionError) ServiceHeaders() string {
	if len(e.Header) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Header))
	for key := range e.Header {
		canonical := http.CanonicalHeaderKey(key)
		if canonical == headerAccessKey {
			continue
		}
		if strings.HasPrefix(canonical, "X-Api-") || strings.HasPrefix(canonical, "X-Tt-") {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(http.CanonicalHeaderKey(a), http.CanonicalHeaderKey(b))
	})
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, http.CanonicalHeaderKey(key)+"="+strings.Join(e.Header[key], ","))
	}
	return strings.Join(parts, " ")
}

// Unwrap tags the error with the submission marker.
func (e *SubmissionError) Unwrap() error { return services.ErrSubmission }

// PollError reports a query response with a terminal, non-success status.
type PollError struct {
	TaskID     string
	LogID      string
	StatusCode string
	Message    string
	Attempt    int
	Body       string
}

func (e *PollError) Error() string {
	msg := fmt.Sprintf("volcengine poll: status %q on attempt %d", e.StatusCode, e.Attempt)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap tags the error with the poll marker.
func (e *PollError) Unwrap() error { return services.ErrPoll }
