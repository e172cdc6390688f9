package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are not checked
// here; see RequireCredentials.
func (c *Config) Validate() error {
	if err := c.validateVolcengine(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVolcengine() error {
	if err := ensurePositiveMap(map[string]int{
		"volcengine.poll_interval_seconds":   c.Volcengine.PollIntervalSeconds,
		"volcengine.request_timeout_seconds": c.Volcengine.RequestTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Volcengine.MaxPollAttempts < 0 {
		return errors.New("volcengine.max_poll_attempts must be >= 0 (0 polls until the task finishes)")
	}
	if c.Volcengine.PollTransportRetries < 0 {
		return errors.New("volcengine.poll_transport_retries must be >= 0 (0 fails on the first transport error)")
	}
	for key, value := range map[string]string{
		"volcengine.submit_url": c.Volcengine.SubmitURL,
		"volcengine.query_url":  c.Volcengine.QueryURL,
	} {
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateAudio() error {
	switch c.Audio.Format {
	case "mp3", "wav":
		return nil
	default:
		return fmt.Errorf("audio.format must be mp3 or wav, got %q", c.Audio.Format)
	}
}

func (c *Config) validatePublish() error {
	if !c.Publish.Enabled {
		return nil
	}
	if c.Publish.Endpoint == "" {
		return errors.New("publish.endpoint must be set when publish.enabled is true (or set MINIO_ENDPOINT)")
	}
	if c.Publish.Bucket == "" {
		return errors.New("publish.bucket must be set when publish.enabled is true")
	}
	if c.Publish.AccessKey == "" || c.Publish.SecretKey == "" {
		return errors.New("publish.access_key and publish.secret_key must be set when publish.enabled is true (or set MINIO_ACCESS_KEY/MINIO_SECRET_KEY)")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
