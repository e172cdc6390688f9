package volcengine

import (
	"context"
	"fmt"
	"time"

	"autosrt/internal/logging"
	"autosrt/internal/services"
	"autosrt/internal/transcript"
)

// Status header values reported by the service.
const (
	StatusSuccess    = "20000000"
	StatusProcessing = "20000001"
	StatusQueued     = "20000002"
)

// PollState is the state of a transcription task as seen by the poll loop.
type PollState int

const (
	StatePending PollState = iota
	StateSucceeded
	StateFailed
)

func (s PollState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("PollState(%d)", int(s))
	}
}

// ClassifyStatus maps a status header value to a poll state.
func ClassifyStatus(code string) PollState {
	switch code {
	case StatusSuccess:
		return StateSucceeded
	case StatusProcessing, StatusQueued:
		return StatePending
	default:
		return StateFailed
	}
}

// Outcome is the terminal success result of a poll.
type Outcome struct {
	Payload  map[string]any
	Usage    TokenUsage
	Attempts int
	Elapsed  time.Duration
	Body     []byte
}

// Poll queries the task until it succeeds or fails. Pending responses wait the
// configured interval before the next query. With MaxPollAttempts at zero the
// loop only ends on a terminal status or when ctx is done.
func (c *Client) Poll(ctx context.Context, handle TaskHandle) (Outcome, error) {
	if err := c.requireCredentials("volcengine poll"); err != nil {
		return Outcome{}, services.Wrap(services.ErrPrecondition, "poll", "credentials", "", err)
	}
	if handle.TaskID == "" {
		return Outcome{}, services.Wrap(services.ErrValidation, "poll", "handle", "task id is empty", nil)
	}

	ctx = services.WithRequestID(services.WithTaskID(ctx, handle.TaskID), handle.LogID)
	logger := logging.WithContext(ctx, c.logger)
	started := time.Now()
	headers := map[string]string{
		headerRequestID: handle.TaskID,
		headerLogID:     handle.LogID,
	}

	transientFailures := 0
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, fmt.Errorf("volcengine poll: %w", err)
		}

		resp, err := c.post(ctx, c.cfg.QueryURL, headers, []byte("{}"))
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{}, fmt.Errorf("volcengine poll: %w", ctx.Err())
			}
			transientFailures++
			if transientFailures > c.transientRetries {
				return Outcome{}, services.Wrap(services.ErrPoll, "poll", "query", fmt.Sprintf("attempt %d", attempt), err)
			}
			logging.WarnWithContext(logger, "transcription query failed; retrying", "poll_transport_error",
				logging.Int("attempt", attempt),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network connectivity to the transcription service"),
				logging.String(logging.FieldImpact, "polling continues after the next interval"),
			)
		} else {
			transientFailures = 0
			switch ClassifyStatus(resp.statusCode) {
			case StateSucceeded:
				return c.succeed(resp, handle, attempt, started)
			case StateFailed:
				return Outcome{}, &PollError{
					TaskID:     handle.TaskID,
					LogID:      handle.LogID,
					StatusCode: resp.statusCode,
					Message:    resp.message,
					Attempt:    attempt,
					Body:       snippet(resp.body),
				}
			case StatePending:
				logger.Debug("transcription in progress",
					logging.Int("attempt", attempt),
					logging.String("status_code", resp.statusCode),
				)
			}
		}

		if c.cfg.MaxPollAttempts > 0 && attempt >= c.cfg.MaxPollAttempts {
			return Outcome{}, fmt.Errorf("volcengine poll: %w after %d attempts: %w", ErrPollExhausted, attempt, services.ErrTimeout)
		}
		if err := c.sleep(ctx, c.cfg.PollInterval); err != nil {
			return Outcome{}, fmt.Errorf("volcengine poll: %w", err)
		}
	}
}

func (c *Client) succeed(resp *response, handle TaskHandle, attempt int, started time.Time) (Outcome, error) {
	payload, err := transcript.DecodeJSON(resp.body)
	if err != nil {
		return Outcome{}, &PollError{
			TaskID:     handle.TaskID,
			LogID:      handle.LogID,
			StatusCode: resp.statusCode,
			Message:    "undecodable result body: " + err.Error(),
			Attempt:    attempt,
			Body:       snippet(resp.body),
		}
	}
	outcome := Outcome{
		Payload:  payload,
		Usage:    ExtractUsage(payload),
		Attempts: attempt,
		Elapsed:  time.Since(started),
		Body:     resp.body,
	}
	c.logger.Info("transcription complete",
		logging.Int("attempts", attempt),
		logging.Duration("elapsed", outcome.Elapsed),
		logging.Int64("total_tokens", outcome.Usage.TotalTokens),
	)
	return outcome, nil
}
