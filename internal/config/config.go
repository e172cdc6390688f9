package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir  string `toml:"work_dir"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Volcengine contains credentials and endpoints for the transcription service.
type Volcengine struct {
	AppID                 string `toml:"app_id"`
	AccessKey             string `toml:"access_key"`
	ResourceID            string `toml:"resource_id"`
	SubmitURL             string `toml:"submit_url"`
	QueryURL              string `toml:"query_url"`
	UID                   string `toml:"uid"`
	ModelName             string `toml:"model_name"`
	PollIntervalSeconds   int    `toml:"poll_interval_seconds"`
	MaxPollAttempts       int    `toml:"max_poll_attempts"`
	PollTransportRetries  int    `toml:"poll_transport_retries"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Audio contains configuration for audio extraction.
type Audio struct {
	Format       string `toml:"format"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
	KeepAudio    bool   `toml:"keep_audio"`
	MinFreeMiB   int    `toml:"min_free_mib"`
}

// Output contains configuration for the subtitle artifact.
type Output struct {
	// RemoveStaleOnFailure deletes a subtitle left by a previous run when the
	// current run fails before writing its own.
	RemoveStaleOnFailure bool `toml:"remove_stale_on_failure"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Publish contains configuration for uploading subtitles to S3-compatible storage.
type Publish struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for autosrt.
//
// Configuration sections by subsystem:
//   - Paths: work, state and log directories
//   - Volcengine: transcription credentials, endpoints and polling cadence
//   - Audio: extraction format and ffmpeg binary
//   - Output: subtitle artifact policy
//   - History: sqlite run history
//   - Publish: optional upload of generated subtitles
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Volcengine Volcengine `toml:"volcengine"`
	Audio      Audio      `toml:"audio"`
	Output     Output     `toml:"output"`
	History    History    `toml:"history"`
	Publish    Publish    `toml:"publish"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A .env file in the working directory is
// loaded first so credentials can be supplied the same way as environment variables.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv populates the process environment from .env files without
// overriding variables that are already set.
func loadDotEnv() error {
	candidates := []string{".env"}
	if custom := strings.TrimSpace(os.Getenv(envFileVar)); custom != "" {
		candidates = append([]string{custom}, candidates...)
	}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			return fmt.Errorf("load env file %s: %w", candidate, err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("autosrt.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work, state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for audio extraction.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Audio.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// HistoryPath returns the sqlite database path for run history.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// HasCredentials reports whether both transcription secrets are present.
func (c *Config) HasCredentials() bool {
	return strings.TrimSpace(c.Volcengine.AppID) != "" && strings.TrimSpace(c.Volcengine.AccessKey) != ""
}

// RequireCredentials returns an error naming the missing transcription secrets.
// Only live runs call it; mock runs never contact the service.
func (c *Config) RequireCredentials() error {
	var missing []string
	if strings.TrimSpace(c.Volcengine.AppID) == "" {
		missing = append(missing, "volcengine.app_id (APP_ID)")
	}
	if strings.TrimSpace(c.Volcengine.AccessKey) == "" {
		missing = append(missing, "volcengine.access_key (ACCESS_KEY)")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing credentials: %s; set them in .env, the environment, or the config file", strings.Join(missing, ", "))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
