package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autosrt/internal/history"
)

var (
	ErrPrecondition  = errors.New("precondition failed")
	ErrExtraction    = errors.New("audio extraction failed")
	ErrSubmission    = errors.New("submission failed")
	ErrPoll          = errors.New("poll failed")
	ErrOutput        = errors.New("subtitle output failed")
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a pipeline error to the status recorded in run history.
// Errors the operator must fix before retrying are rejected; everything else
// failed.
func FailureStatus(err error) history.Status {
	switch {
	case errors.Is(err, context.Canceled):
		return history.StatusCanceled
	case errors.Is(err, ErrPrecondition), errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return history.StatusRejected
	default:
		return history.StatusFailed
	}
}

// Stage returns the name of the marker carried by err, or "unknown".
func Stage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPrecondition):
		return "precondition"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrSubmission):
		return "submission"
	case errors.Is(err, ErrPoll):
		return "poll"
	case errors.Is(err, ErrOutput):
		return "output"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
