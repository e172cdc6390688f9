package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVolcengine()
	c.normalizeAudio()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizePublish()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVolcengine() {
	v := &c.Volcengine
	v.AppID = strings.TrimSpace(v.AppID)
	if v.AppID == "" {
		v.AppID = lookupEnv("APP_ID", "VOLC_APP_ID")
	}
	v.AccessKey = strings.TrimSpace(v.AccessKey)
	if v.AccessKey == "" {
		v.AccessKey = lookupEnv("ACCESS_KEY", "VOLC_ACCESS_KEY")
	}
	v.ResourceID = strings.TrimSpace(v.ResourceID)
	if v.ResourceID == "" {
		v.ResourceID = defaultResourceID
	}
	v.SubmitURL = strings.TrimSpace(v.SubmitURL)
	if v.SubmitURL == "" {
		v.SubmitURL = defaultSubmitURL
	}
	v.QueryURL = strings.TrimSpace(v.QueryURL)
	if v.QueryURL == "" {
		v.QueryURL = defaultQueryURL
	}
	v.UID = strings.TrimSpace(v.UID)
	if v.UID == "" {
		v.UID = defaultUID
	}
	v.ModelName = strings.TrimSpace(v.ModelName)
	if v.ModelName == "" {
		v.ModelName = defaultModelName
	}
	if v.RequestTimeoutSeconds == 0 {
		v.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Audio.Format), "."))
	if c.Audio.Format == "" {
		c.Audio.Format = defaultAudioFormat
	}
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Audio.MinFreeMiB < 0 {
		c.Audio.MinFreeMiB = 0
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = ""
		return nil
	}
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizePublish() {
	p := &c.Publish
	p.Endpoint = strings.TrimSpace(p.Endpoint)
	p.Bucket = strings.TrimSpace(p.Bucket)
	p.Prefix = strings.Trim(strings.TrimSpace(p.Prefix), "/")
	p.Region = strings.TrimSpace(p.Region)
	if p.Region == "" {
		p.Region = defaultPublishRegion
	}
	p.AccessKey = strings.TrimSpace(p.AccessKey)
	if p.AccessKey == "" {
		p.AccessKey = lookupEnv("MINIO_ACCESS_KEY")
	}
	p.SecretKey = strings.TrimSpace(p.SecretKey)
	if p.SecretKey == "" {
		p.SecretKey = lookupEnv("MINIO_SECRET_KEY")
	}
	if p.Endpoint == "" {
		p.Endpoint = lookupEnv("MINIO_ENDPOINT")
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// lookupEnv returns the first non-empty value among the named variables.
func lookupEnv(names ...string) string {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
