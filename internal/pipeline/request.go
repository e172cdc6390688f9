package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"autosrt/internal/audio"
	"autosrt/internal/publish"
	"autosrt/internal/services"
	"autosrt/internal/services/volcengine"
	"autosrt/internal/textutil"
)

// Request describes one subtitle generation.
type Request struct {
	VideoPath string
	// OutputPath defaults to the video path with a .srt extension.
	OutputPath string
	// AudioPath overrides the intermediate audio location. An explicit path
	// is always kept after the run.
	AudioPath string
	// Format is mp3 or wav. Ignored when AudioPath carries an extension.
	Format string
	Mock   bool
	// KeepAudio keeps the intermediate audio file in the work directory.
	KeepAudio bool
	// SavePayloadPath writes the raw service payload as JSON when set.
	SavePayloadPath string
	Publish         bool
}

// Result summarizes a run. On failure the fields reached before the error are set.
type Result struct {
	RunID          string                `json:"run_id"`
	VideoPath      string                `json:"video_path"`
	AudioPath      string                `json:"audio_path,omitempty"`
	AudioBytes     int64                 `json:"audio_bytes,omitempty"`
	OutputPath     string                `json:"output_path"`
	PayloadPath    string                `json:"payload_path,omitempty"`
	Mock           bool                  `json:"mock"`
	TaskID         string                `json:"task_id,omitempty"`
	LogID          string                `json:"log_id,omitempty"`
	PollAttempts   int                   `json:"poll_attempts,omitempty"`
	CueCount       int                   `json:"cue_count"`
	// ZeroLengthCues counts cues whose end is not after their start.
	ZeroLengthCues int                   `json:"zero_length_cues,omitempty"`
	FirstCueMS     int64                 `json:"first_cue_ms"`
	LastCueMS      int64                 `json:"last_cue_ms"`
	Usage          volcengine.TokenUsage `json:"usage"`
	Published      *publish.Object       `json:"published,omitempty"`
	StartedAt      time.Time             `json:"started_at"`
	FinishedAt     time.Time             `json:"finished_at"`
	Stage          string                `json:"failed_stage,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// Elapsed is the wall time of the run.
func (r Result) Elapsed() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// plan is a Request with every default resolved.
type plan struct {
	video       string
	output      string
	audio       string
	format      string
	keepAudio   bool
	payloadPath string
	publish     bool
	mock        bool
}

func (s *Service) resolve(req Request, runID string) (plan, error) {
	video := strings.TrimSpace(req.VideoPath)
	if video == "" {
		return plan{}, services.Wrap(services.ErrPrecondition, StagePrecondition, "video", "video path is required", nil)
	}
	video, err := filepath.Abs(video)
	if err != nil {
		return plan{}, services.Wrap(services.ErrPrecondition, StagePrecondition, "video", "", err)
	}

	p := plan{
		video:     video,
		mock:      req.Mock,
		keepAudio: req.KeepAudio || s.cfg.Audio.KeepAudio,
		publish:   req.Publish,
	}

	if output := strings.TrimSpace(req.OutputPath); output != "" {
		if p.output, err = filepath.Abs(output); err != nil {
			return plan{}, services.Wrap(services.ErrPrecondition, StagePrecondition, "output", "", err)
		}
	} else {
		p.output = textutil.ReplaceExt(video, ".srt")
	}
	if p.output == video {
		return plan{}, services.Wrap(services.ErrPrecondition, StagePrecondition, "output", "output path would overwrite the video", nil)
	}

	if audioPath := strings.TrimSpace(req.AudioPath); audioPath != "" {
		if p.audio, err = filepath.Abs(audioPath); err != nil {
			return plan{}, services.Wrap(services.ErrPrecondition, StagePrecondition, "audio", "", err)
		}
		if p.format, err = audio.FormatOf(p.audio); err != nil {
			return plan{}, services.Wrap(services.ErrConfiguration, StagePrecondition, "audio", "", err)
		}
		p.keepAudio = true
	} else {
		p.format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(req.Format), "."))
		if p.format == "" {
			p.format = s.cfg.Audio.Format
		}
		if !supportedFormat(p.format) {
			return plan{}, services.Wrap(services.ErrConfiguration, StagePrecondition, "audio", fmt.Sprintf("unsupported audio format %q", p.format), nil)
		}
		p.audio = filepath.Join(s.cfg.Paths.WorkDir, fmt.Sprintf("%s-%s.%s", textutil.SanitizeToken(textutil.Stem(video)), shortID(runID), p.format))
	}

	if payload := strings.TrimSpace(req.SavePayloadPath); payload != "" {
		if p.payloadPath, err = filepath.Abs(payload); err != nil {
			return plan{}, services.Wrap(services.ErrPrecondition, StagePrecondition, "payload", "", err)
		}
	}
	return p, nil
}

func supportedFormat(format string) bool {
	for _, candidate := range audio.Formats() {
		if candidate == format {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
