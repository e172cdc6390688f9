package volcengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"autosrt/internal/logging"
)

const (
	DefaultSubmitURL    = "https://openspeech-direct.zijieapi.com/api/v3/auc/bigmodel/submit"
	DefaultQueryURL     = "https://openspeech-direct.zijieapi.com/api/v3/auc/bigmodel/query"
	DefaultResourceID   = "volc.seedasr.auc"
	DefaultUID          = "auto_srt_user"
	DefaultModelName    = "bigmodel"
	DefaultPollInterval = 3 * time.Second

	defaultHTTPTimeout      = 60 * time.Second
	defaultTransientRetries = 3
	maxBodySnippet          = 2048
)

const (
	headerAppKey     = "X-Api-App-Key"
	headerAccessKey  = "X-Api-Access-Key"
	headerResourceID = "X-Api-Resource-Id"
	headerRequestID  = "X-Api-Request-Id"
	headerSequence   = "X-Api-Sequence"
	headerStatusCode = "X-Api-Status-Code"
	headerMessage    = "X-Api-Message"
	headerLogID      = "X-Tt-Logid"
)

// Config captures the credentials and endpoints required to talk to the service.
type Config struct {
	AppID           string
	AccessKey       string
	ResourceID      string
	SubmitURL       string
	QueryURL        string
	UID             string
	ModelName       string
	PollInterval    time.Duration
	MaxPollAttempts int
	TimeoutSeconds  int
}

// Client wraps the submit and query endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	sleeper    func(time.Duration)
	newTaskID  func() string

	transientRetries int
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how poll waits are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithLogger attaches a logger for submission and polling progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTaskIDGenerator overrides task id generation.
func WithTaskIDGenerator(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newTaskID = fn
		}
	}
}

// WithTransientRetries sets how many consecutive transport failures a poll
// tolerates before giving up. Submission is never retried.
func WithTransientRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.transientRetries = n
		}
	}
}

// NewClient constructs a client from an explicit configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			AppID:           strings.TrimSpace(cfg.AppID),
			AccessKey:       strings.TrimSpace(cfg.AccessKey),
			ResourceID:      firstNonEmpty(cfg.ResourceID, DefaultResourceID),
			SubmitURL:       firstNonEmpty(cfg.SubmitURL, DefaultSubmitURL),
			QueryURL:        firstNonEmpty(cfg.QueryURL, DefaultQueryURL),
			UID:             firstNonEmpty(cfg.UID, DefaultUID),
			ModelName:       firstNonEmpty(cfg.ModelName, DefaultModelName),
			PollInterval:    cfg.PollInterval,
			MaxPollAttempts: cfg.MaxPollAttempts,
			TimeoutSeconds:  cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logging.NewNop(),
		newTaskID:        func() string { return uuid.NewString() },
		transientRetries: defaultTransientRetries,
	}
	if client.cfg.PollInterval <= 0 {
		client.cfg.PollInterval = DefaultPollInterval
	}
	if client.cfg.MaxPollAttempts < 0 {
		client.cfg.MaxPollAttempts = 0
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "volcengine")
	return client
}

// Config returns the effective client configuration with secrets intact.
func (c *Client) Config() Config {
	return c.cfg
}

type response struct {
	httpStatus int
	statusCode string
	message    string
	logID      string
	header     http.Header
	body       []byte
}

func (c *Client) post(ctx context.Context, endpoint string, headers map[string]string, body []byte) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set(headerAppKey, c.cfg.AppID)
	req.Header.Set(headerAccessKey, c.cfg.AccessKey)
	req.Header.Set(headerResourceID, c.cfg.ResourceID)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &response{
		httpStatus: resp.StatusCode,
		statusCode: strings.TrimSpace(resp.Header.Get(headerStatusCode)),
		message:    strings.TrimSpace(resp.Header.Get(headerMessage)),
		logID:      strings.TrimSpace(resp.Header.Get(headerLogID)),
		header:     resp.Header.Clone(),
		body:       payload,
	}, nil
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) requireCredentials(op string) error {
	if c.cfg.AppID == "" || c.cfg.AccessKey == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingCredentials)
	}
	return nil
}

// ErrMissingCredentials is returned when the client has no app id or access key.
var ErrMissingCredentials = errors.New("app id and access key required")

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func snippet(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxBodySnippet {
		return text[:maxBodySnippet] + "..."
	}
	return text
}
