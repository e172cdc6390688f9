package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"autosrt/internal/history"
	"autosrt/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExtraction, "extract", "ffmpeg", "exit status 1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"extract", "ffmpeg", "exit status 1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestFailureStatusMapping(t *testing.T) {
	precondition := services.Wrap(services.ErrPrecondition, "precondition", "credentials", "missing APP_ID", nil)
	if status := services.FailureStatus(precondition); status != history.StatusRejected {
		t.Fatalf("expected rejected for precondition error, got %s", status)
	}

	poll := services.Wrap(services.ErrPoll, "poll", "query", "status 45000001", errors.New("bad audio"))
	if status := services.FailureStatus(poll); status != history.StatusFailed {
		t.Fatalf("expected failed for poll error, got %s", status)
	}

	canceled := fmt.Errorf("poll: %w", context.Canceled)
	if status := services.FailureStatus(canceled); status != history.StatusCanceled {
		t.Fatalf("expected canceled, got %s", status)
	}

	if status := services.FailureStatus(nil); status != history.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}

func TestStageNames(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrSubmission, "submit", "", "", nil), "submission"},
		{services.Wrap(services.ErrExtraction, "extract", "", "", nil), "extraction"},
		{services.Wrap(services.ErrOutput, "render", "write", "", nil), "output"},
		{fmt.Errorf("wait: %w", context.DeadlineExceeded), "timeout"},
		{errors.New("other"), "unknown"},
	}
	for _, tc := range tests {
		if got := services.Stage(tc.err); got != tc.want {
			t.Fatalf("Stage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
