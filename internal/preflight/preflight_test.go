package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autosrt/internal/config"
	"autosrt/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 0); !result.Passed || !strings.Contains(result.Detail, "free") {
		t.Fatalf("expected pass with zero minimum, got %+v", result)
	}
	if result := CheckFreeSpace("space", dir, ^uint64(0)); result.Passed {
		t.Fatalf("expected failure for impossible minimum, got %+v", result)
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 0); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckFFmpegMissingBinary(t *testing.T) {
	result := CheckFFmpeg(context.Background(), filepath.Join(t.TempDir(), "no-ffmpeg"))
	if result.Passed {
		t.Fatal("expected failure for missing ffmpeg")
	}
}

func TestCheckFFmpegStub(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho 'ffmpeg version 7.0 Copyright (c) 2000-2024'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	result := CheckFFmpeg(context.Background(), stub)
	if !result.Passed {
		t.Fatalf("expected pass for stub ffmpeg, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "ffmpeg version 7.0") {
		t.Fatalf("expected version in detail, got %q", result.Detail)
	}
}

func TestCheckCredentials(t *testing.T) {
	cfg := config.Default()
	if result := CheckCredentials(&cfg); result.Passed {
		t.Fatal("expected failure without credentials")
	}
	cfg.Volcengine.AppID = "app"
	cfg.Volcengine.AccessKey = "secret"
	result := CheckCredentials(&cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if strings.Contains(result.Detail, "secret") {
		t.Fatal("access key must not be echoed")
	}
}

func TestCheckEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	if result := CheckEndpoint(context.Background(), "svc", srv.URL); !result.Passed {
		t.Fatalf("expected any HTTP response to pass, got %s", result.Detail)
	}
	if result := CheckEndpoint(context.Background(), "svc", ""); result.Passed {
		t.Fatal("expected failure for missing url")
	}
	srv.Close()
	if result := CheckEndpoint(context.Background(), "svc", srv.URL); result.Passed {
		t.Fatal("expected failure for closed server")
	}
}

func TestCheckPublishDisabled(t *testing.T) {
	cfg := config.Default()
	if result := CheckPublish(context.Background(), &cfg); !result.Passed || result.Detail != "Disabled" {
		t.Fatalf("expected disabled pass, got %+v", result)
	}
}

func TestRunAllMockSkipsLiveChecks(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Audio.MinFreeMiB = 0
	cfg.Audio.FFmpegBinary = filepath.Join(t.TempDir(), "missing-ffmpeg")

	results := RunAll(context.Background(), &cfg, Options{Mock: true})
	if len(results) != 2 {
		t.Fatalf("expected directory and space checks only, got %+v", results)
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected mock preflight to pass: %v", err)
	}

	live := RunAll(context.Background(), &cfg, Options{})
	if len(Failed(live)) != 2 {
		t.Fatalf("expected ffmpeg and credential failures, got %+v", Failed(live))
	}
	err := Err(live)
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Credentials") || !strings.Contains(err.Error(), "FFmpeg") {
		t.Fatalf("expected both failures named, got %v", err)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, Options{}); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}
