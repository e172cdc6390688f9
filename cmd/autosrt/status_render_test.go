package main

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"autosrt/internal/history"
	"autosrt/internal/pipeline"
	"autosrt/internal/services/volcengine"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Credentials", statusError, "missing APP_ID", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Credentials:", "[ERROR] missing APP_ID")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestCueSummary(t *testing.T) {
	if got := cueSummary(pipeline.Result{}); !strings.HasPrefix(got, "0 ") {
		t.Fatalf("unexpected empty summary: %q", got)
	}
	got := cueSummary(pipeline.Result{CueCount: 2, FirstCueMS: 1500, LastCueMS: 3723004})
	if got != "2 spanning 00:00:01,500 --> 01:02:03,004" {
		t.Fatalf("unexpected summary: %q", got)
	}
	got = cueSummary(pipeline.Result{CueCount: 2, ZeroLengthCues: 1, LastCueMS: 2000})
	requireContains(t, got, "(1 with zero or reversed timing)")
}

func TestPrintTokenUsageGroupsThousands(t *testing.T) {
	var out strings.Builder
	printTokenUsage(&out, volcengine.TokenUsage{InputTokens: 1200, OutputTokens: 34, TotalTokens: 1234})
	requireContains(t, out.String(), "1,234")
	requireContains(t, out.String(), "Total")
}

func TestRenderHistoryTable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []*history.Run{{
		RunID:       "r1",
		VideoPath:   "/videos/movie.mp4",
		Status:      history.StatusRejected,
		Stage:       "submit",
		CueCount:    0,
		TotalTokens: 0,
		StartedAt:   now.Add(-3 * time.Minute),
		FinishedAt:  now.Add(-2 * time.Minute),
	}}
	table := renderHistoryTable(runs, now)
	requireContains(t, table, "Rejected @ submit")
	requireContains(t, table, "2 minutes ago")
	requireContains(t, table, "1m0s")
}

func TestShouldColorizeRequiresTerminalFile(t *testing.T) {
	var buf strings.Builder
	if shouldColorize(&buf) {
		t.Fatal("expected no colour for an in-memory writer")
	}
	t.Setenv("NO_COLOR", "1")
	if shouldColorize(os.Stdout) {
		t.Fatal("expected NO_COLOR to disable colour")
	}
}
