package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"autosrt/internal/audio"
	"autosrt/internal/config"
	"autosrt/internal/history"
	"autosrt/internal/logging"
	"autosrt/internal/preflight"
	"autosrt/internal/publish"
	"autosrt/internal/services/volcengine"
)

// Stage names used for context tagging and history records.
const (
	StagePrecondition = "precondition"
	StageLock         = "lock"
	StagePreflight    = "preflight"
	StageExtract      = "extract"
	StageSubmit       = "submit"
	StagePoll         = "poll"
	StageNormalize    = "normalize"
	StageRender       = "render"
	StagePublish      = "publish"
)

// Extractor produces an audio file from a video.
type Extractor interface {
	Extract(ctx context.Context, source, dest string) error
}

// Transcriber submits audio and waits for the transcription result.
type Transcriber interface {
	Submit(ctx context.Context, audio []byte, format string) (volcengine.TaskHandle, error)
	Poll(ctx context.Context, handle volcengine.TaskHandle) (volcengine.Outcome, error)
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (*history.Run, error)
}

// Publisher uploads a finished subtitle.
type Publisher interface {
	Upload(ctx context.Context, localPath, videoPath string) (publish.Object, error)
}

// PreflightFunc evaluates readiness checks before any external work.
type PreflightFunc func(ctx context.Context, cfg *config.Config, opts preflight.Options) []preflight.Result

// Service runs subtitle generation for one configuration.
type Service struct {
	cfg         *config.Config
	logger      *slog.Logger
	extractor   Extractor
	transcriber Transcriber
	recorder    Recorder
	publisher   Publisher
	preflight   PreflightFunc
	newRunID    func() string
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithExtractor overrides the ffmpeg extractor.
func WithExtractor(e Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithTranscriber overrides the transcription client.
func WithTranscriber(t Transcriber) Option {
	return func(s *Service) {
		if t != nil {
			s.transcriber = t
		}
	}
}

// WithRecorder enables run history.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithPublisher enables uploads for requests that ask for them.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithPreflight overrides the readiness checks.
func WithPreflight(fn PreflightFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.preflight = fn
		}
	}
}

// WithRunIDGenerator overrides run id generation.
func WithRunIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the default ffmpeg extractor and transcription client for cfg.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Service{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		extractor: audio.NewExtractor(cfg.FFmpegBinary(), logger),
		preflight: preflight.RunAll,
		newRunID:  uuid.NewString,
		now:       time.Now,
	}
	s.transcriber = volcengine.NewClient(TranscriberConfig(cfg),
		volcengine.WithLogger(logger),
		volcengine.WithTransientRetries(cfg.Volcengine.PollTransportRetries),
	)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TranscriberConfig builds the explicit client configuration from cfg.
func TranscriberConfig(cfg *config.Config) volcengine.Config {
	v := cfg.Volcengine
	return volcengine.Config{
		AppID:           v.AppID,
		AccessKey:       v.AccessKey,
		ResourceID:      v.ResourceID,
		SubmitURL:       v.SubmitURL,
		QueryURL:        v.QueryURL,
		UID:             v.UID,
		ModelName:       v.ModelName,
		PollInterval:    time.Duration(v.PollIntervalSeconds) * time.Second,
		MaxPollAttempts: v.MaxPollAttempts,
		TimeoutSeconds:  v.RequestTimeoutSeconds,
	}
}
