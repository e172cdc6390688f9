package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"autosrt/internal/config"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"APP_ID", "VOLC_APP_ID", "ACCESS_KEY", "VOLC_ACCESS_KEY", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "AUTOSRT_ENV_FILE"} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearCredentialEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "autosrt", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.HistoryPath() != filepath.Join(tempHome, ".local", "share", "autosrt", "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Volcengine.ResourceID != "volc.seedasr.auc" {
		t.Fatalf("unexpected resource id: %q", cfg.Volcengine.ResourceID)
	}
	if cfg.Volcengine.PollIntervalSeconds != 3 {
		t.Fatalf("unexpected poll interval: %d", cfg.Volcengine.PollIntervalSeconds)
	}
	if cfg.Volcengine.MaxPollAttempts != 0 {
		t.Fatalf("expected unbounded polling by default, got %d", cfg.Volcengine.MaxPollAttempts)
	}
	if cfg.Volcengine.PollTransportRetries != 3 {
		t.Fatalf("unexpected poll transport retries: %d", cfg.Volcengine.PollTransportRetries)
	}
	if cfg.Audio.Format != "mp3" {
		t.Fatalf("unexpected audio format: %q", cfg.Audio.Format)
	}
	if cfg.Output.RemoveStaleOnFailure {
		t.Fatal("expected stale outputs to be kept by default")
	}
	if cfg.HasCredentials() {
		t.Fatal("expected no credentials without env")
	}
	if err := cfg.RequireCredentials(); err == nil || !strings.Contains(err.Error(), "APP_ID") {
		t.Fatalf("expected missing credential error naming APP_ID, got %v", err)
	}
}

func TestLoadReadsCredentialsFromEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APP_ID", "app-123")
	t.Setenv("VOLC_ACCESS_KEY", "secret")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Volcengine.AppID != "app-123" {
		t.Fatalf("expected app id from env, got %q", cfg.Volcengine.AppID)
	}
	if cfg.Volcengine.AccessKey != "secret" {
		t.Fatalf("expected access key from fallback env, got %q", cfg.Volcengine.AccessKey)
	}
	if err := cfg.RequireCredentials(); err != nil {
		t.Fatalf("RequireCredentials returned error: %v", err)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	envPath := filepath.Join(t.TempDir(), "autosrt.env")
	if err := os.WriteFile(envPath, []byte("APP_ID=from-file\nACCESS_KEY=file-key\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("AUTOSRT_ENV_FILE", envPath)
	// godotenv only fills unset variables.
	os.Unsetenv("APP_ID")
	os.Unsetenv("ACCESS_KEY")
	t.Cleanup(func() {
		os.Unsetenv("APP_ID")
		os.Unsetenv("ACCESS_KEY")
	})

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Volcengine.AppID != "from-file" || cfg.Volcengine.AccessKey != "file-key" {
		t.Fatalf("expected credentials from env file, got %q/%q", cfg.Volcengine.AppID, cfg.Volcengine.AccessKey)
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearCredentialEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"work_dir": "~/scratch",
		},
		"volcengine": map[string]any{
			"app_id":                 "file-app",
			"access_key":             "file-key",
			"poll_interval_seconds":  5,
			"max_poll_attempts":      40,
			"poll_transport_retries": 0,
		},
		"audio": map[string]any{
			"format": ".WAV",
		},
		"output": map[string]any{
			"remove_stale_on_failure": true,
		},
		"logging": map[string]any{
			"format": "JSON",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempHome, "scratch") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Volcengine.AppID != "file-app" {
		t.Fatalf("unexpected app id: %q", cfg.Volcengine.AppID)
	}
	if cfg.Volcengine.PollIntervalSeconds != 5 || cfg.Volcengine.MaxPollAttempts != 40 || cfg.Volcengine.PollTransportRetries != 0 {
		t.Fatalf("unexpected polling settings: %+v", cfg.Volcengine)
	}
	if cfg.Audio.Format != "wav" {
		t.Fatalf("expected normalized wav format, got %q", cfg.Audio.Format)
	}
	if !cfg.Output.RemoveStaleOnFailure {
		t.Fatal("expected remove_stale_on_failure to be honoured")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestConfigFileTakesPrecedenceOverEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APP_ID", "env-app")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[volcengine]\napp_id = \"file-app\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Volcengine.AppID != "file-app" {
		t.Fatalf("expected config file app id, got %q", cfg.Volcengine.AppID)
	}
}

func TestCreateSample(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[volcengine]") {
		t.Fatalf("sample config missing volcengine section: %s", data)
	}
	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"poll interval", func(c *config.Config) { c.Volcengine.PollIntervalSeconds = 0 }, "poll_interval_seconds"},
		{"max polls", func(c *config.Config) { c.Volcengine.MaxPollAttempts = -1 }, "max_poll_attempts"},
		{"transport retries", func(c *config.Config) { c.Volcengine.PollTransportRetries = -1 }, "poll_transport_retries"},
		{"submit url", func(c *config.Config) { c.Volcengine.SubmitURL = "ftp://example" }, "submit_url"},
		{"audio format", func(c *config.Config) { c.Audio.Format = "flac" }, "audio.format"},
		{"publish endpoint", func(c *config.Config) { c.Publish.Enabled = true }, "publish.endpoint"},
		{"publish bucket", func(c *config.Config) {
			c.Publish.Enabled = true
			c.Publish.Endpoint = "localhost:9000"
		}, "publish.bucket"},
		{"publish keys", func(c *config.Config) {
			c.Publish.Enabled = true
			c.Publish.Endpoint = "localhost:9000"
			c.Publish.Bucket = "subs"
		}, "publish.access_key"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
