package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"autosrt/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Credentials are set so live-mode preconditions pass; the free-space floor
// is disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Volcengine.AppID = "test-app"
	cfgVal.Volcengine.AccessKey = "test-key"
	cfgVal.Volcengine.PollIntervalSeconds = 1
	cfgVal.Audio.MinFreeMiB = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithoutCredentials clears the transcription credentials.
func WithoutCredentials() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Volcengine.AppID = ""
		b.cfg.Volcengine.AccessKey = ""
	}
}

// WithEndpoints points the transcription client at a test server.
func WithEndpoints(submitURL, queryURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Volcengine.SubmitURL = submitURL
		b.cfg.Volcengine.QueryURL = queryURL
	}
}

// WithRemoveStale enables deleting stale subtitles on failure.
func WithRemoveStale() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.RemoveStaleOnFailure = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed. The ffmpeg
// stub writes a few bytes to its last argument so extraction succeeds.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for _, name := range names {
			script := []byte("#!/bin/sh\nexit 0\n")
			if name == "ffmpeg" {
				script = []byte(ffmpegStub)
			}
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

const ffmpegStub = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version 0.0-stub Copyright (c) stub"
  exit 0
fi
for last; do :; done
printf 'ID3stub-audio' > "$last"
`

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
