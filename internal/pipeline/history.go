package pipeline

import (
	"context"

	"autosrt/internal/history"
	"autosrt/internal/logging"
	"autosrt/internal/services"
)

// record writes the run to history. History failures are logged, never returned.
func (s *Service) record(ctx context.Context, r *run, runErr error) {
	if s.recorder == nil {
		return
	}
	status := history.StatusSucceeded
	if runErr != nil {
		status = services.FailureStatus(runErr)
	}
	entry := history.Run{
		RunID:        r.result.RunID,
		VideoPath:    r.result.VideoPath,
		AudioPath:    r.result.AudioPath,
		OutputPath:   r.result.OutputPath,
		Status:       status,
		Stage:        r.result.Stage,
		ErrorMessage: r.result.Error,
		TaskID:       r.result.TaskID,
		LogID:        r.result.LogID,
		Mock:         r.result.Mock,
		CueCount:     r.result.CueCount,
		InputTokens:  r.result.Usage.InputTokens,
		OutputTokens: r.result.Usage.OutputTokens,
		TotalTokens:  r.result.Usage.TotalTokens,
		StartedAt:    r.result.StartedAt,
		FinishedAt:   r.result.FinishedAt,
	}
	if entry.VideoPath == "" {
		entry.VideoPath = "(none)"
	}
	// A canceled parent context must not prevent the audit row.
	if _, err := s.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "failed to record run history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the history database path and permissions"),
			logging.String(logging.FieldImpact, "run is missing from autosrt history"),
		)
	}
}
