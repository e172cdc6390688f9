package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"autosrt/internal/fileutil"
	"autosrt/internal/logging"
	"autosrt/internal/preflight"
	"autosrt/internal/services"
	"autosrt/internal/services/volcengine"
	"autosrt/internal/srt"
	"autosrt/internal/transcript"
)

// run carries the mutable state of one Generate call.
type run struct {
	plan    plan
	result  Result
	stage   string
	written bool
}

// Generate converts req.VideoPath into an SRT file and returns a summary.
// The returned Result is populated as far as the run progressed even when an
// error is returned.
func (s *Service) Generate(ctx context.Context, req Request) (result Result, err error) {
	r := &run{}
	r.result.RunID = s.newRunID()
	r.result.StartedAt = s.now()
	r.result.Mock = req.Mock
	r.result.VideoPath = req.VideoPath
	ctx = services.WithRunID(ctx, r.result.RunID)

	defer func() {
		r.result.FinishedAt = s.now()
		if err != nil {
			r.result.Stage = r.stage
			r.result.Error = err.Error()
			s.handleFailure(ctx, r, err)
		} else {
			logging.WithContext(ctx, s.logger).Info("subtitle generated",
				logging.String(logging.FieldEventType, "run_complete"),
				logging.String("output", r.result.OutputPath),
				logging.Int("cues", r.result.CueCount),
				logging.Duration("elapsed", r.result.Elapsed()),
			)
		}
		s.record(ctx, r, err)
		result = r.result
	}()

	ctx, err = s.prepare(ctx, r, req)
	if err != nil {
		return r.result, err
	}

	release, err := s.lock(s.enter(ctx, r, StageLock), r.plan.output)
	if err != nil {
		return r.result, err
	}
	defer release()

	if err := s.runPreflight(s.enter(ctx, r, StagePreflight), r); err != nil {
		return r.result, err
	}

	payload, err := s.transcribe(ctx, r)
	if err != nil {
		return r.result, err
	}

	if err := s.savePayload(s.enter(ctx, r, StageNormalize), r, payload); err != nil {
		return r.result, err
	}
	cues := s.normalize(s.enter(ctx, r, StageNormalize), r, payload)

	if err := s.render(s.enter(ctx, r, StageRender), r, cues); err != nil {
		return r.result, err
	}

	if r.plan.publish {
		if err := s.publish(s.enter(ctx, r, StagePublish), r); err != nil {
			return r.result, err
		}
	}
	r.stage = ""
	return r.result, nil
}

func (s *Service) enter(ctx context.Context, r *run, stage string) context.Context {
	r.stage = stage
	return services.WithStage(ctx, stage)
}

func (s *Service) prepare(ctx context.Context, r *run, req Request) (context.Context, error) {
	stageCtx := s.enter(ctx, r, StagePrecondition)
	p, err := s.resolve(req, r.result.RunID)
	if err != nil {
		return ctx, err
	}
	r.plan = p
	r.result.VideoPath = p.video
	r.result.OutputPath = p.output
	if !p.mock {
		r.result.AudioPath = p.audio
	}

	if !p.mock {
		if err := s.cfg.RequireCredentials(); err != nil {
			return ctx, services.Wrap(services.ErrPrecondition, StagePrecondition, "credentials", "", err)
		}
		info, err := os.Stat(p.video)
		if err != nil {
			return ctx, services.Wrap(services.ErrPrecondition, StagePrecondition, "video", "", err)
		}
		if !info.Mode().IsRegular() {
			return ctx, services.Wrap(services.ErrPrecondition, StagePrecondition, "video", fmt.Sprintf("%s is not a regular file", p.video), nil)
		}
	}
	if err := s.cfg.EnsureDirectories(); err != nil {
		return ctx, services.Wrap(services.ErrConfiguration, StagePrecondition, "directories", "", err)
	}

	logging.WithContext(stageCtx, s.logger).Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("video", p.video),
		logging.String("output", p.output),
		logging.Bool("mock", p.mock),
	)
	return ctx, nil
}

func (s *Service) runPreflight(ctx context.Context, r *run) error {
	results := s.preflight(ctx, s.cfg, preflight.Options{Mock: r.plan.mock})
	logger := logging.WithContext(ctx, s.logger)
	for _, check := range results {
		logger.Debug("preflight check",
			logging.String("check", check.Name),
			logging.Bool("passed", check.Passed),
			logging.String("detail", check.Detail),
		)
	}
	return preflight.Err(results)
}

// transcribe returns the raw payload, either from the service or the mock fixture.
func (s *Service) transcribe(ctx context.Context, r *run) (map[string]any, error) {
	if r.plan.mock {
		stageCtx := s.enter(ctx, r, StagePoll)
		logging.WithContext(stageCtx, s.logger).Info("mock mode: using fixture payload",
			logging.String(logging.FieldEventType, "mock_payload"),
		)
		r.result.Usage = volcengine.MockUsage
		return transcript.MockPayload(), nil
	}

	extractCtx := s.enter(ctx, r, StageExtract)
	if !r.plan.keepAudio {
		defer s.removeAudio(ctx, r.plan.audio)
	}
	if err := s.extractor.Extract(extractCtx, r.plan.video, r.plan.audio); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.plan.audio)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, StageExtract, "read audio", "", err)
	}
	r.result.AudioBytes = int64(len(data))
	logging.WithContext(extractCtx, s.logger).Info("audio extracted",
		logging.String("audio", r.plan.audio),
		logging.String("size", humanize.IBytes(uint64(len(data)))),
		logging.String("format", r.plan.format),
	)

	submitCtx := s.enter(ctx, r, StageSubmit)
	handle, err := s.transcriber.Submit(submitCtx, data, r.plan.format)
	if err != nil {
		return nil, err
	}
	r.result.TaskID = handle.TaskID
	r.result.LogID = handle.LogID

	pollCtx := services.WithTaskID(s.enter(ctx, r, StagePoll), handle.TaskID)
	outcome, err := s.transcriber.Poll(pollCtx, handle)
	r.result.PollAttempts = outcome.Attempts
	if err != nil {
		return nil, err
	}
	r.result.Usage = outcome.Usage
	return outcome.Payload, nil
}

func (s *Service) removeAudio(ctx context.Context, path string) {
	removed, err := fileutil.RemoveIfExists(path)
	logger := logging.WithContext(ctx, s.logger)
	if err != nil {
		logging.WarnWithContext(logger, "failed to remove intermediate audio", "audio_cleanup_failed",
			logging.String("audio", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file manually"),
			logging.String(logging.FieldImpact, "work directory keeps a stale audio file"),
		)
		return
	}
	if removed {
		logger.Debug("intermediate audio removed", logging.String("audio", path))
	}
}

func (s *Service) savePayload(ctx context.Context, r *run, payload map[string]any) error {
	if r.plan.payloadPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrOutput, StageNormalize, "save payload", "", err)
	}
	if err := fileutil.WriteFileAtomic(r.plan.payloadPath, append(data, '\n'), 0o644); err != nil {
		return services.Wrap(services.ErrOutput, StageNormalize, "save payload", "", err)
	}
	r.result.PayloadPath = r.plan.payloadPath
	logging.WithContext(ctx, s.logger).Info("raw payload saved", logging.String("payload", r.plan.payloadPath))
	return nil
}

func (s *Service) normalize(ctx context.Context, r *run, payload map[string]any) []srt.Cue {
	decoded := transcript.Decode(payload)
	cues := transcript.Normalize(decoded)
	logger := logging.WithContext(ctx, s.logger)
	if len(cues) == 0 {
		logging.WarnWithContext(logger, "transcription produced no cues", "normalization_empty",
			logging.String("payload_shape", transcript.Shape(decoded)),
			logging.String(logging.FieldErrorHint, "rerun with --save-payload and inspect the segment list and channel ids"),
			logging.String(logging.FieldImpact, "subtitle file will contain no blocks"),
		)
		return cues
	}
	for _, cue := range cues {
		if cue.Duration() == 0 {
			r.result.ZeroLengthCues++
		}
	}
	if r.result.ZeroLengthCues > 0 {
		logging.WarnWithContext(logger, "cues with zero or reversed timing kept as-is", "zero_length_cues",
			logging.Int("count", r.result.ZeroLengthCues),
			logging.String(logging.FieldErrorHint, "inspect the payload with --save-payload; timings are not corrected"),
			logging.String(logging.FieldImpact, "players may skip or flash these subtitles"),
		)
	}
	logger.Info("transcript normalized",
		logging.String("payload_shape", transcript.Shape(decoded)),
		logging.Int("cues", len(cues)),
	)
	return cues
}

func (s *Service) render(ctx context.Context, r *run, cues []srt.Cue) error {
	content := srt.Render(cues)
	if err := fileutil.WriteFileAtomic(r.plan.output, []byte(content), 0o644); err != nil {
		return services.Wrap(services.ErrOutput, StageRender, "write", r.plan.output, err)
	}
	r.written = true

	count, err := srt.CountCues(r.plan.output)
	if err != nil {
		return services.Wrap(services.ErrOutput, StageRender, "verify", r.plan.output, err)
	}
	if count != len(cues) {
		return services.Wrap(services.ErrValidation, StageRender, "verify",
			fmt.Sprintf("wrote %d cues but read back %d", len(cues), count), nil)
	}
	r.result.CueCount = count
	r.result.FirstCueMS, r.result.LastCueMS = srt.Bounds(cues)
	logging.WithContext(ctx, s.logger).Info("subtitle written",
		logging.String("output", r.plan.output),
		logging.Int("cues", count),
		logging.String("size", humanize.IBytes(uint64(len(content)))),
	)
	return nil
}

func (s *Service) publish(ctx context.Context, r *run) error {
	if s.publisher == nil {
		return services.Wrap(services.ErrConfiguration, StagePublish, "", "publishing requested but no publisher is configured (set [publish] in the config)", nil)
	}
	obj, err := s.publisher.Upload(ctx, r.plan.output, r.plan.video)
	if err != nil {
		return err
	}
	r.result.Published = &obj
	return nil
}

// handleFailure applies the stale output policy. A subtitle written by this
// run is never touched.
func (s *Service) handleFailure(ctx context.Context, r *run, err error) {
	logger := logging.WithContext(services.WithStage(ctx, r.stage), s.logger)
	if errors.Is(err, context.Canceled) {
		logger.Info("run canceled")
	} else {
		attrs := []logging.Attr{
			logging.String("failure", services.Stage(err)),
			logging.Error(err),
		}
		attrs = append(attrs, s.serviceFailureAttrs(r, err)...)
		logging.ErrorWithContext(logger, "run failed", "run_failed", attrs...)
	}
	if r.written || r.plan.output == "" || !fileutil.FileExists(r.plan.output) {
		return
	}
	s.handleStaleOutput(logger, r.plan.output)
}

// serviceFailureAttrs surfaces the identifiers and response details of a
// rejected submission or failed poll, and copies them onto the result.
func (s *Service) serviceFailureAttrs(r *run, err error) []logging.Attr {
	var subErr *volcengine.SubmissionError
	if errors.As(err, &subErr) {
		r.result.TaskID = subErr.TaskID
		if logID := subErr.Header.Get("X-Tt-Logid"); logID != "" {
			r.result.LogID = logID
		}
		return []logging.Attr{
			logging.String("task_id", subErr.TaskID),
			logging.String("log_id", r.result.LogID),
			logging.String("status_code", subErr.StatusCode),
			logging.String("response_headers", subErr.ServiceHeaders()),
			logging.String("response_body", subErr.Body),
		}
	}
	var pollErr *volcengine.PollError
	if errors.As(err, &pollErr) {
		return []logging.Attr{
			logging.String("log_id", pollErr.LogID),
			logging.String("status_code", pollErr.StatusCode),
			logging.Int("attempt", pollErr.Attempt),
			logging.String("response_body", pollErr.Body),
		}
	}
	return nil
}

func (s *Service) handleStaleOutput(logger *slog.Logger, output string) {
	if !s.cfg.Output.RemoveStaleOnFailure {
		logging.WarnWithContext(logger, "subtitle from a previous run left in place", "stale_output",
			logging.String("output", output),
			logging.String(logging.FieldErrorHint, "set output.remove_stale_on_failure to delete it automatically"),
			logging.String(logging.FieldImpact, "existing subtitle does not reflect this run"),
		)
		return
	}
	if _, err := fileutil.RemoveIfExists(output); err != nil {
		logging.WarnWithContext(logger, "failed to remove stale subtitle", "stale_output",
			logging.String("output", output),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file manually"),
			logging.String(logging.FieldImpact, "existing subtitle does not reflect this run"),
		)
		return
	}
	logging.WarnWithContext(logger, "stale subtitle removed after failure", "stale_output",
		logging.String("output", output),
		logging.String(logging.FieldErrorHint, "rerun once the failure is fixed"),
		logging.String(logging.FieldImpact, "no subtitle exists at the output path"),
	)
}
